package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niksmo/storefront/internal/core/domain"
)

func TestMemoryOrders(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryOrders()

	first := testOrder()
	second := testOrder()
	second.ID = "order-2"
	second.Date = first.Date.Add(time.Hour)
	other := testOrder()
	other.ID = "order-3"
	other.UserID = "bob"

	for _, o := range []domain.Order{first, second, other} {
		_, err := repo.Create(ctx, o)
		require.NoError(t, err)
	}

	t.Run("GetAllNewestFirst", func(t *testing.T) {
		orders, err := repo.GetAll(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, orders, 2)
		assert.Equal(t, "order-2", orders[0].ID)
		assert.Equal(t, "order-1", orders[1].ID)
	})

	t.Run("GetByIDScopedToUser", func(t *testing.T) {
		o, err := repo.GetByID(ctx, "bob", "order-3")
		require.NoError(t, err)
		assert.Equal(t, "bob", o.UserID)

		_, err = repo.GetByID(ctx, "alice", "order-3")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("RequiresUser", func(t *testing.T) {
		_, err := repo.GetAll(ctx, "")
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)

		o := testOrder()
		o.UserID = ""
		_, err = repo.Create(ctx, o)
		assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	})
}
