package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/pkg/retry"
)

// repositoryRetry allows two retries of a failed read.
var repositoryRetry = retry.RetryConfig{
	MaxAttempts: 3,
	Backoff:     retry.CappedBackoff(retry.ExponentialBackoff(100*time.Millisecond), time.Second),
	ShouldRetry: transient,
	OnRetry: func(attempt int, wait time.Duration, err error) {
		slog.Warn("repository call failed, retrying",
			"attempt", attempt, "wait", wait, "err", err)
	},
}

func transient(err error) bool {
	return !errors.Is(err, domain.ErrNotFound) &&
		!errors.Is(err, domain.ErrUnauthenticated) &&
		!errors.Is(err, domain.ErrInvalidProduct) &&
		!errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded)
}

type Catalog struct {
	products port.ProductRepository
	retryCfg retry.RetryConfig
}

func NewCatalog(products port.ProductRepository) *Catalog {
	return &Catalog{products: products, retryCfg: repositoryRetry}
}

// Products scopes by category through the repository and applies the rest
// of the criteria locally.
func (c *Catalog) Products(
	ctx context.Context, criteria domain.FilterCriteria,
) ([]domain.Product, error) {
	const op = "Catalog.Products"

	ps, err := retry.DoWithResult(ctx, c.retryCfg, func() ([]domain.Product, error) {
		if criteria.CategoryScoped() {
			return c.products.GetByCategory(ctx, criteria.Category)
		}
		return c.products.GetAll(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return domain.FilterProducts(ps, criteria), nil
}

func (c *Catalog) Product(ctx context.Context, productID string) (domain.Product, error) {
	const op = "Catalog.Product"

	p, err := retry.DoWithResult(ctx, c.retryCfg, func() (domain.Product, error) {
		return c.products.GetByID(ctx, productID)
	})
	if err != nil {
		return domain.Product{}, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

func (c *Catalog) Featured(ctx context.Context) ([]domain.Product, error) {
	const op = "Catalog.Featured"

	ps, err := retry.DoWithResult(ctx, c.retryCfg, func() ([]domain.Product, error) {
		return c.products.GetFeatured(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

func (c *Catalog) Categories(ctx context.Context) ([]string, error) {
	const op = "Catalog.Categories"

	ps, err := retry.DoWithResult(ctx, c.retryCfg, func() ([]domain.Product, error) {
		return c.products.GetAll(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return domain.Categories(ps), nil
}
