package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

// Store keys, relative to the session namespace.
const (
	cartKey           = "cart"
	wishlistKey       = "wishlist"
	recentlyViewedKey = "recentlyViewed"
	compareKey        = "compareProducts"
)

// A stateStore reads and writes JSON engine state under one session
// namespace.
type stateStore struct {
	kv        port.KVStore
	namespace string
}

func (s stateStore) key(name string) string {
	return s.namespace + name
}

// load decodes the value stored under name into v. Malformed data is
// removed and reported as absent.
func (s stateStore) load(ctx context.Context, name string, v any) (bool, error) {
	const op = "stateStore.load"

	key := s.key(name)
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return false, nil
	}

	if err := json.Unmarshal([]byte(raw), v); err != nil {
		slog.Warn("discarding corrupt state", "op", op, "key", key, "err", err)
		s.remove(ctx, name)
		return false, nil
	}
	return true, nil
}

func (s stateStore) save(ctx context.Context, name string, v any) {
	const op = "stateStore.save"

	key := s.key(name)
	b, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to encode state", "op", op, "key", key, "err", err)
		return
	}
	if err := s.kv.Set(ctx, key, string(b)); err != nil {
		slog.Error("failed to save state", "op", op, "key", key, "err", err)
	}
}

func (s stateStore) remove(ctx context.Context, name string) {
	const op = "stateStore.remove"

	key := s.key(name)
	if err := s.kv.Remove(ctx, key); err != nil {
		slog.Error("failed to remove state", "op", op, "key", key, "err", err)
	}
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func logNotice(op string, n domain.Notice) {
	if n.IsZero() {
		return
	}
	slog.Debug("notice", "op", op, "kind", n.Kind, "message", n.Message)
}
