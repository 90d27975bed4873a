package service

import (
	"context"

	"github.com/niksmo/storefront/internal/core/domain"
)

// A ComparisonEngine keeps "never compared" apart from "cleared": clearing
// removes the stored key instead of writing an empty list.
type ComparisonEngine struct {
	comparison domain.Comparison
	state      stateStore
	stored     bool
}

func (e *ComparisonEngine) hydrate(ctx context.Context) error {
	var ps []domain.Product
	found, err := e.state.load(ctx, compareKey, &ps)
	if err != nil {
		return err
	}
	if found {
		e.comparison = domain.NewComparison(ps)
		e.stored = true
	}
	return nil
}

func (e *ComparisonEngine) persist(ctx context.Context) {
	e.state.save(ctx, compareKey, orEmpty(e.comparison.Items()))
	e.stored = true
}

// AddToComparison reports whether p was appended. Rejections leave the
// stored list untouched.
func (e *ComparisonEngine) AddToComparison(
	ctx context.Context, p domain.Product,
) (domain.Notice, bool) {
	n, ok := e.comparison.Add(p)
	if ok {
		e.persist(ctx)
	}
	logNotice("ComparisonEngine.AddToComparison", n)
	return n, ok
}

// RemoveFromComparison reports whether the remaining list can still be
// shown; callers leave the comparison view when it cannot. Removing an
// absent product writes nothing, so a list that was never used stays so.
func (e *ComparisonEngine) RemoveFromComparison(
	ctx context.Context, productID string,
) (domain.Notice, bool) {
	listed := e.comparison.Contains(productID)
	n := e.comparison.Remove(productID)
	if listed {
		e.persist(ctx)
	}
	return n, e.comparison.Valid()
}

func (e *ComparisonEngine) ClearComparison(ctx context.Context) domain.Notice {
	n := e.comparison.Clear()
	e.state.remove(ctx, compareKey)
	e.stored = false
	return n
}

func (e *ComparisonEngine) Valid() bool {
	return e.comparison.Valid()
}

// Used reports whether a comparison list exists in the store.
func (e *ComparisonEngine) Used() bool {
	return e.stored
}

func (e *ComparisonEngine) Items() []domain.Product {
	return e.comparison.Items()
}

func (e *ComparisonEngine) Rows() []domain.ComparisonRow {
	return e.comparison.Rows()
}

func (e *ComparisonEngine) flush(ctx context.Context) {
	if e.stored {
		e.persist(ctx)
	}
}
