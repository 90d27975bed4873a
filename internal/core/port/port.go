package port

import (
	"context"

	"github.com/niksmo/storefront/internal/core/domain"
)

// A KVStore holds serialized engine state. Get reports false for absent
// keys.
type KVStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
	Remove(ctx context.Context, key string) error
}

type ProductRepository interface {
	GetAll(context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, productID string) (domain.Product, error)
	GetByCategory(ctx context.Context, category string) ([]domain.Product, error)
	GetFeatured(context.Context) ([]domain.Product, error)
}

// OrderRepository reads are scoped to one user.
type OrderRepository interface {
	Create(context.Context, domain.Order) (domain.Order, error)
	GetAll(ctx context.Context, userID string) ([]domain.Order, error)
	GetByID(ctx context.Context, userID, orderID string) (domain.Order, error)
}

type SessionProvider interface {
	CurrentUserID(context.Context) (string, bool)
}

type OrderEventsProducer interface {
	ProduceOrderCreated(context.Context, domain.Order) error
}

type ProductViewsEmitter interface {
	EmitProductViewed(ctx context.Context, sessionID string, p domain.Product) error
}
