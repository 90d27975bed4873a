package service

import (
	"context"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/shopspring/decimal"
)

// A CartEngine owns one shopper's cart and persists it after every
// mutation.
type CartEngine struct {
	cart  domain.Cart
	state stateStore
}

func (e *CartEngine) hydrate(ctx context.Context) error {
	var entries []domain.CartEntry
	found, err := e.state.load(ctx, cartKey, &entries)
	if err != nil {
		return err
	}
	if found {
		e.cart = domain.NewCart(entries)
	}
	return nil
}

func (e *CartEngine) persist(ctx context.Context) {
	e.state.save(ctx, cartKey, orEmpty(e.cart.Entries()))
}

func (e *CartEngine) AddToCart(
	ctx context.Context, p domain.Product, quantity int,
) domain.Notice {
	n := e.cart.Add(p, quantity)
	e.persist(ctx)
	logNotice("CartEngine.AddToCart", n)
	return n
}

func (e *CartEngine) RemoveFromCart(
	ctx context.Context, productID string,
) domain.Notice {
	n := e.cart.Remove(productID)
	e.persist(ctx)
	logNotice("CartEngine.RemoveFromCart", n)
	return n
}

// UpdateQuantity reports false when the quantity is out of bounds or the
// product is not in the cart; the cart is left unchanged then.
func (e *CartEngine) UpdateQuantity(
	ctx context.Context, productID string, quantity int,
) bool {
	ok := e.cart.UpdateQuantity(productID, quantity)
	e.persist(ctx)
	return ok
}

func (e *CartEngine) IncrementQuantity(
	ctx context.Context, productID string,
) domain.Notice {
	n := e.cart.Increment(productID)
	e.persist(ctx)
	logNotice("CartEngine.IncrementQuantity", n)
	return n
}

func (e *CartEngine) DecrementQuantity(
	ctx context.Context, productID string,
) domain.Notice {
	n := e.cart.Decrement(productID)
	e.persist(ctx)
	logNotice("CartEngine.DecrementQuantity", n)
	return n
}

func (e *CartEngine) ClearCart(ctx context.Context) domain.Notice {
	n := e.cart.Clear()
	e.persist(ctx)
	logNotice("CartEngine.ClearCart", n)
	return n
}

func (e *CartEngine) IsInCart(productID string) bool {
	return e.cart.Contains(productID)
}

func (e *CartEngine) CartItemQuantity(productID string) int {
	return e.cart.Quantity(productID)
}

func (e *CartEngine) TotalItems() int {
	return e.cart.TotalItems()
}

func (e *CartEngine) Subtotal() decimal.Decimal {
	return e.cart.Subtotal()
}

func (e *CartEngine) IsEmpty() bool {
	return e.cart.IsEmpty()
}

func (e *CartEngine) Entries() []domain.CartEntry {
	return e.cart.Entries()
}

func (e *CartEngine) entry(productID string) (domain.CartEntry, bool) {
	for _, entry := range e.cart.Entries() {
		if entry.Product.ID == productID {
			return entry, true
		}
	}
	return domain.CartEntry{}, false
}
