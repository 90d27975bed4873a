package domain_test

import (
	"testing"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWishlist(t *testing.T) {
	t.Run("AddIsIdempotent", func(t *testing.T) {
		var w domain.Wishlist
		assert.True(t, w.Add(product("1", "10")))
		assert.False(t, w.Add(product("1", "10")))
		assert.Equal(t, 1, w.Len())
	})

	t.Run("RemoveAndToggle", func(t *testing.T) {
		var w domain.Wishlist
		w.Add(product("1", "10"))
		assert.True(t, w.Remove("1"))
		assert.False(t, w.Remove("1"))

		assert.True(t, w.Toggle(product("2", "10")))
		assert.True(t, w.Contains("2"))
		assert.False(t, w.Toggle(product("2", "10")))
		assert.False(t, w.Contains("2"))
	})

	t.Run("KeepsInsertionOrder", func(t *testing.T) {
		w := domain.NewWishlist([]domain.Product{
			product("c", "1"), product("a", "1"), product("c", "1"),
		})
		w.Add(product("b", "1"))
		assert.Equal(t, []string{"c", "a", "b"}, ids(w.Items()))

		w.Clear()
		assert.Zero(t, w.Len())
	})
}

func TestComparison(t *testing.T) {
	t.Run("LimitAndDuplicates", func(t *testing.T) {
		var c domain.Comparison
		for _, id := range []string{"1", "2", "3", "4"} {
			_, ok := c.Add(product(id, "10"))
			require.True(t, ok)
		}

		n, ok := c.Add(product("5", "10"))
		assert.False(t, ok)
		assert.Equal(t, domain.NoticeLimitReached, n.Kind)
		assert.Equal(t, domain.MaxComparisonItems, c.Len())

		n, ok = c.Add(product("2", "10"))
		assert.False(t, ok)
		assert.Equal(t, domain.NoticeAlreadyPresent, n.Kind)
		assert.Equal(t, domain.MaxComparisonItems, c.Len())
	})

	t.Run("DuplicateDoesNotChangeLength", func(t *testing.T) {
		var c domain.Comparison
		c.Add(product("1", "10"))
		_, ok := c.Add(product("1", "10"))
		assert.False(t, ok)
		assert.Equal(t, 1, c.Len())
	})

	t.Run("RemoveBelowMinimumIsInvalid", func(t *testing.T) {
		var c domain.Comparison
		c.Add(product("1", "10"))
		c.Add(product("2", "10"))
		assert.True(t, c.Valid())

		c.Remove("1")
		assert.False(t, c.Valid())
		assert.Equal(t, []string{"2"}, ids(c.Items()))
	})

	t.Run("Rows", func(t *testing.T) {
		a := product("1", "129.99")
		a.Rating = 4.8
		a.Description = "lamp"
		b := product("2", "40")
		b.InStock = false
		b.Category = "Audio"

		c := domain.NewComparison([]domain.Product{a, b})
		rows := c.Rows()
		require.Len(t, rows, 5)

		assert.Equal(t, domain.AttributePrice, rows[0].Attribute)
		assert.Equal(t, []string{"$129.99", "$40.00"}, rows[0].Values)
		assert.Equal(t, []string{"Lighting", "Audio"}, rows[1].Values)
		assert.Equal(t, []string{"4.8", "4"}, rows[2].Values)
		assert.Equal(t, []string{"Yes", "No"}, rows[3].Values)
		assert.Equal(t, domain.AttributeDescription, rows[4].Attribute)
		assert.Equal(t, "lamp", rows[4].Values[0])
	})

	t.Run("NewComparisonTruncates", func(t *testing.T) {
		c := domain.NewComparison([]domain.Product{
			product("1", "1"), product("2", "1"), product("3", "1"),
			product("4", "1"), product("5", "1"),
		})
		assert.Equal(t, domain.MaxComparisonItems, c.Len())
	})
}

func TestRecentlyViewed(t *testing.T) {
	t.Run("ReviewMovesToFront", func(t *testing.T) {
		var r domain.RecentlyViewed
		r.Record(product("1", "10"))
		r.Record(product("2", "10"))
		r.Record(product("1", "10"))
		r.Record(product("1", "10"))
		assert.Equal(t, []string{"1", "2"}, ids(r.Items()))
	})

	t.Run("EvictsOldest", func(t *testing.T) {
		var r domain.RecentlyViewed
		for _, id := range []string{"1", "2", "3", "4", "5", "6", "7", "8", "9"} {
			r.Record(product(id, "10"))
		}
		items := r.Items()
		require.Len(t, items, domain.MaxRecentlyViewed)
		assert.Equal(t, "9", items[0].ID)
		assert.Equal(t, "2", items[len(items)-1].ID)
	})

	t.Run("ProjectDoesNotMutate", func(t *testing.T) {
		var r domain.RecentlyViewed
		r.Record(product("cheap", "5"))
		r.Record(product("pricey", "500"))
		r.Record(product("mid", "50"))

		sorted := r.Project(domain.FilterCriteria{SortBy: domain.SortPriceLow})
		assert.Equal(t, []string{"cheap", "mid", "pricey"}, ids(sorted))
		assert.Equal(t, []string{"mid", "pricey", "cheap"}, ids(r.Items()))
	})
}
