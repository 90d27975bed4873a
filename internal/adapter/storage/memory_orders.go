package storage

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.OrderRepository = (*MemoryOrders)(nil)

// MemoryOrders is the order store of the mock backend.
type MemoryOrders struct {
	mu     sync.RWMutex
	orders []domain.Order
}

func NewMemoryOrders() *MemoryOrders {
	return &MemoryOrders{}
}

func (r *MemoryOrders) Create(
	ctx context.Context, o domain.Order,
) (domain.Order, error) {
	const op = "MemoryOrders.Create"

	if err := ctx.Err(); err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}
	if o.UserID == "" {
		return domain.Order{}, fmt.Errorf("%s: %w", op, domain.ErrUnauthenticated)
	}

	o.Items = slices.Clone(o.Items)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = append(r.orders, o)
	return o, nil
}

// GetAll returns the user's orders, newest first.
func (r *MemoryOrders) GetAll(
	ctx context.Context, userID string,
) ([]domain.Order, error) {
	const op = "MemoryOrders.GetAll"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if userID == "" {
		return nil, fmt.Errorf("%s: %w", op, domain.ErrUnauthenticated)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var orders []domain.Order
	for i := len(r.orders) - 1; i >= 0; i-- {
		if r.orders[i].UserID == userID {
			orders = append(orders, r.orders[i])
		}
	}
	slices.SortStableFunc(orders, func(a, b domain.Order) int {
		return b.Date.Compare(a.Date)
	})
	return orders, nil
}

func (r *MemoryOrders) GetByID(
	ctx context.Context, userID, orderID string,
) (domain.Order, error) {
	const op = "MemoryOrders.GetByID"

	if err := ctx.Err(); err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}
	if userID == "" {
		return domain.Order{}, fmt.Errorf("%s: %w", op, domain.ErrUnauthenticated)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, o := range r.orders {
		if o.ID == orderID && o.UserID == userID {
			return o, nil
		}
	}
	return domain.Order{}, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
}
