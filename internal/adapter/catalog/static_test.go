package catalog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niksmo/storefront/internal/core/domain"
)

func TestStaticRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewStaticRepository(SeedProducts())

	t.Run("GetAll", func(t *testing.T) {
		ps, err := repo.GetAll(ctx)
		require.NoError(t, err)
		assert.Len(t, ps, 8)
		assert.Equal(t, "1", ps[0].ID)
	})

	t.Run("GetByID", func(t *testing.T) {
		p, err := repo.GetByID(ctx, "5")
		require.NoError(t, err)
		assert.Equal(t, "Ultra-Thin Laptop", p.Name)

		_, err = repo.GetByID(ctx, "404")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("GetByCategory", func(t *testing.T) {
		ps, err := repo.GetByCategory(ctx, "Kitchen")
		require.NoError(t, err)
		require.Len(t, ps, 1)
		assert.Equal(t, "6", ps[0].ID)

		ps, err = repo.GetByCategory(ctx, domain.AllCategories)
		require.NoError(t, err)
		assert.Len(t, ps, 8)
	})

	t.Run("GetFeatured", func(t *testing.T) {
		ps, err := repo.GetFeatured(ctx)
		require.NoError(t, err)
		ids := make([]string, len(ps))
		for i, p := range ps {
			ids[i] = p.ID
		}
		assert.Equal(t, []string{"1", "2", "3", "5"}, ids)
	})

	t.Run("Categories", func(t *testing.T) {
		ps, _ := repo.GetAll(ctx)
		assert.Equal(t, []string{
			"All", "Lighting", "Furniture", "Audio", "Smart Home",
			"Computers", "Kitchen", "Home Decor", "Electronics",
		}, domain.Categories(ps))
	})

	t.Run("SkipsInvalid", func(t *testing.T) {
		repo := NewStaticRepository([]domain.Product{
			{ID: "1", Name: "Lamp", Category: "Lighting", Price: decimal.NewFromInt(5)},
			{ID: "2", Category: "Lighting"},
		})
		ps, err := repo.GetAll(ctx)
		require.NoError(t, err)
		assert.Len(t, ps, 1)
	})

	t.Run("ReturnsCopies", func(t *testing.T) {
		ps, _ := repo.GetAll(ctx)
		ps[0].Name = "changed"
		p, _ := repo.GetByID(ctx, "1")
		assert.Equal(t, "Minimalist Desk Lamp", p.Name)
	})
}
