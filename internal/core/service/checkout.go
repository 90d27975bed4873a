package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/pkg/retry"
)

type CheckoutOpt func(*Checkout)

func WithPricingPolicy(p domain.PricingPolicy) CheckoutOpt {
	return func(c *Checkout) {
		c.pricing = p
	}
}

func WithOrderEvents(p port.OrderEventsProducer) CheckoutOpt {
	return func(c *Checkout) {
		c.events = p
	}
}

func WithClock(now func() time.Time) CheckoutOpt {
	return func(c *Checkout) {
		c.now = now
	}
}

func WithOrderIDs(newID func() string) CheckoutOpt {
	return func(c *Checkout) {
		c.newID = newID
	}
}

// Checkout turns a cart into an order.
type Checkout struct {
	orders   port.OrderRepository
	sessions port.SessionProvider
	events   port.OrderEventsProducer
	pricing  domain.PricingPolicy
	now      func() time.Time
	newID    func() string
	retryCfg retry.RetryConfig
}

func NewCheckout(
	orders port.OrderRepository, sessions port.SessionProvider, opts ...CheckoutOpt,
) *Checkout {
	c := &Checkout{
		orders:   orders,
		sessions: sessions,
		pricing:  domain.DefaultPricingPolicy(),
		now:      time.Now,
		newID:    uuid.NewString,
		retryCfg: repositoryRetry,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Quote prices the live cart.
func (c *Checkout) Quote(cart *CartEngine) domain.PriceSummary {
	return c.pricing.Summarize(cart.Subtotal())
}

// SubmitOrder places an order for the cart contents and clears the cart.
// On failure the cart is left untouched.
func (c *Checkout) SubmitOrder(
	ctx context.Context, cart *CartEngine, shipping domain.ShippingInfo,
) (domain.Order, domain.Notice, error) {
	const op = "Checkout.SubmitOrder"
	log := slog.With("op", op)

	userID, ok := c.sessions.CurrentUserID(ctx)
	if !ok {
		return domain.Order{}, domain.Notice{}, fmt.Errorf("%s: %w", op, domain.ErrUnauthenticated)
	}

	if cart.IsEmpty() {
		return domain.Order{}, domain.Notice{}, fmt.Errorf("%s: %w", op, domain.ErrEmptyCart)
	}

	if shipping.Country == "" {
		shipping.Country = domain.DefaultCountry
	}
	if err := domain.ValidateShippingInfo(shipping); err != nil {
		return domain.Order{}, domain.Notice{}, fmt.Errorf("%s: %w", op, err)
	}

	entries := cart.Entries()
	items := make([]domain.OrderItem, len(entries))
	for i, e := range entries {
		items[i] = domain.OrderItem{Product: e.Product, Quantity: e.Quantity}
	}

	draft := domain.Order{
		ID:              c.newID(),
		UserID:          userID,
		Items:           items,
		Summary:         c.Quote(cart),
		Status:          domain.OrderPending,
		Date:            c.now().UTC(),
		ShippingAddress: shipping,
	}

	order, err := c.orders.Create(ctx, draft)
	if err != nil {
		return domain.Order{}, domain.Notice{}, fmt.Errorf("%s: %w", op, err)
	}

	if c.events != nil {
		if err := c.events.ProduceOrderCreated(ctx, order); err != nil {
			log.Error("failed to publish order created", "orderID", order.ID, "err", err)
		}
	}

	cart.ClearCart(ctx)
	log.Info("order placed", "orderID", order.ID, "total", order.Total().StringFixed(2))

	return order, domain.Notice{
		Kind:    domain.NoticeOrderPlaced,
		Message: "Your order has been placed successfully!",
	}, nil
}

// Orders lists the current user's orders, newest first.
func (c *Checkout) Orders(ctx context.Context) ([]domain.Order, error) {
	const op = "Checkout.Orders"

	userID, ok := c.sessions.CurrentUserID(ctx)
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, domain.ErrUnauthenticated)
	}

	orders, err := retry.DoWithResult(ctx, c.retryCfg, func() ([]domain.Order, error) {
		return c.orders.GetAll(ctx, userID)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return orders, nil
}

func (c *Checkout) Order(ctx context.Context, orderID string) (domain.Order, error) {
	const op = "Checkout.Order"

	userID, ok := c.sessions.CurrentUserID(ctx)
	if !ok {
		return domain.Order{}, fmt.Errorf("%s: %w", op, domain.ErrUnauthenticated)
	}

	order, err := retry.DoWithResult(ctx, c.retryCfg, func() (domain.Order, error) {
		return c.orders.GetByID(ctx, userID, orderID)
	})
	if err != nil {
		return domain.Order{}, fmt.Errorf("%s: %w", op, err)
	}
	return order, nil
}
