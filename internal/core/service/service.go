package service

import (
	"context"
	"log/slog"
	"time"
)

// Service bundles the core components handed to the inbound adapters.
type Service struct {
	Catalog  *Catalog
	Checkout *Checkout
	Sessions *Sessions
}

func New(catalog *Catalog, checkout *Checkout, sessions *Sessions) Service {
	return Service{
		Catalog:  catalog,
		Checkout: checkout,
		Sessions: sessions,
	}
}

// Run evicts idle sessions every interval until ctx is done.
func (s Service) Run(ctx context.Context, interval, idle time.Duration) {
	const op = "Service.Run"
	log := slog.With("op", op)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info("session eviction is running")
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sessions.Evict(ctx, idle)
		}
	}
}

func (s Service) Close(ctx context.Context) {
	s.Sessions.Close(ctx)
}
