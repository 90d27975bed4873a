package service

import (
	"context"
	"log/slog"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

type RecentlyViewedTracker struct {
	recent    domain.RecentlyViewed
	state     stateStore
	sessionID string
	views     port.ProductViewsEmitter
}

func (t *RecentlyViewedTracker) hydrate(ctx context.Context) error {
	var ps []domain.Product
	found, err := t.state.load(ctx, recentlyViewedKey, &ps)
	if err != nil {
		return err
	}
	if found {
		t.recent = domain.NewRecentlyViewed(ps)
	}
	return nil
}

func (t *RecentlyViewedTracker) persist(ctx context.Context) {
	t.state.save(ctx, recentlyViewedKey, orEmpty(t.recent.Items()))
}

// RecordView must be called once per view event, not per render.
func (t *RecentlyViewedTracker) RecordView(ctx context.Context, p domain.Product) {
	const op = "RecentlyViewedTracker.RecordView"

	t.recent.Record(p)
	t.persist(ctx)

	if t.views == nil {
		return
	}
	if err := t.views.EmitProductViewed(ctx, t.sessionID, p); err != nil {
		slog.Warn("failed to emit product view", "op", op, "err", err)
	}
}

// RecentlyViewed returns the history most recent first.
func (t *RecentlyViewedTracker) RecentlyViewed() []domain.Product {
	return t.recent.Items()
}

// Project returns a filtered and sorted view of the history.
func (t *RecentlyViewedTracker) Project(c domain.FilterCriteria) []domain.Product {
	return t.recent.Project(c)
}
