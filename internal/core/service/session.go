package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"sync"
	"sync/atomic"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

// Engines groups the state engines of one shopper.
type Engines struct {
	Cart       *CartEngine
	Wishlist   *WishlistEngine
	Comparison *ComparisonEngine
	Recent     *RecentlyViewedTracker
}

// MoveToWishlist saves a cart product for later. A product that is
// already saved stays in the cart.
func (e Engines) MoveToWishlist(
	ctx context.Context, productID string,
) (domain.Notice, error) {
	const op = "Engines.MoveToWishlist"

	entry, ok := e.Cart.entry(productID)
	if !ok {
		return domain.Notice{}, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}

	n := e.Wishlist.AddToWishlist(ctx, entry.Product)
	if n.Kind == domain.NoticeAlreadyPresent {
		return n, nil
	}
	e.Cart.RemoveFromCart(ctx, productID)
	return domain.Notice{
		Kind:    domain.NoticeUpdated,
		Message: fmt.Sprintf("%s moved to wishlist", entry.Product.Name),
	}, nil
}

// MoveToCart adds one unit of a saved product to the cart and drops it
// from the wishlist. An existing cart entry is incremented.
func (e Engines) MoveToCart(
	ctx context.Context, productID string,
) (domain.Notice, error) {
	const op = "Engines.MoveToCart"

	p, ok := e.Wishlist.item(productID)
	if !ok {
		return domain.Notice{}, fmt.Errorf("%s: %w", op, domain.ErrNotFound)
	}

	n := e.Cart.AddToCart(ctx, p, 1)
	e.Wishlist.RemoveFromWishlist(ctx, productID)
	return n, nil
}

// AddAllToCart adds one unit of every saved product; the wishlist is kept.
func (e Engines) AddAllToCart(ctx context.Context) []domain.Notice {
	items := e.Wishlist.Items()
	ns := make([]domain.Notice, 0, len(items))
	for _, p := range items {
		ns = append(ns, e.Cart.AddToCart(ctx, p, 1))
	}
	return ns
}

// A Session owns the engines of one shopper. Engine access is serialised
// through Do. An evicted session is closed and never mutated again.
type Session struct {
	id         string
	mu         sync.Mutex
	engines    Engines
	catalog    *Catalog
	registry   *Sessions
	closed     atomic.Bool
	generation atomic.Uint64
	lastSeen   atomic.Int64
}

func newSession(
	id string, kv port.KVStore, namespace string,
	catalog *Catalog, views port.ProductViewsEmitter,
) *Session {
	state := stateStore{kv: kv, namespace: namespace}
	s := &Session{
		id:      id,
		catalog: catalog,
		engines: Engines{
			Cart:       &CartEngine{state: state},
			Wishlist:   &WishlistEngine{state: state},
			Comparison: &ComparisonEngine{state: state},
			Recent: &RecentlyViewedTracker{
				state: state, sessionID: id, views: views,
			},
		},
	}
	s.touch()
	return s
}

func (s *Session) ID() string {
	return s.id
}

// Hydrate loads every engine from the store. Corrupt values start empty.
func (s *Session) Hydrate(ctx context.Context) error {
	const op = "Session.Hydrate"

	s.mu.Lock()
	defer s.mu.Unlock()

	hydrators := []func(context.Context) error{
		s.engines.Cart.hydrate,
		s.engines.Wishlist.hydrate,
		s.engines.Comparison.hydrate,
		s.engines.Recent.hydrate,
	}
	for _, hydrate := range hydrators {
		if err := hydrate(ctx); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}

// Flush writes the current state of every engine.
func (s *Session) Flush(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushLocked(ctx)
}

func (s *Session) flushLocked(ctx context.Context) {
	s.engines.Cart.persist(ctx)
	s.engines.Wishlist.persist(ctx)
	s.engines.Comparison.flush(ctx)
	s.engines.Recent.persist(ctx)
}

// Do runs fn with exclusive access to the engines. When the session was
// evicted after it was resolved, fn runs on the session that replaces it.
func (s *Session) Do(ctx context.Context, fn func(Engines)) error {
	const op = "Session.Do"

	cur := s
	for !cur.run(fn) {
		if cur.registry == nil {
			return fmt.Errorf("%s: %w", op, domain.ErrInvalidSession)
		}
		next, err := cur.registry.Session(ctx, cur.id)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		cur = next
	}
	return nil
}

// run reports false without calling fn when the session is closed.
func (s *Session) run(fn func(Engines)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return false
	}
	s.touch()
	fn(s.engines)
	return true
}

// Browse runs a catalog query. A response that was overtaken by a newer
// Browse call of the same session is discarded with domain.ErrStaleQuery.
func (s *Session) Browse(
	ctx context.Context, c domain.FilterCriteria,
) ([]domain.Product, error) {
	const op = "Session.Browse"

	s.touch()
	gen := s.generation.Add(1)
	ps, err := s.catalog.Products(ctx, c)
	if s.generation.Load() != gen {
		return nil, fmt.Errorf("%s: %w", op, domain.ErrStaleQuery)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ps, nil
}

// closeIfIdle flushes and closes the session unless it was used within
// idle. The state is flushed before closed is set, so a replacement
// session always hydrates the final state.
func (s *Session) closeIfIdle(ctx context.Context, now time.Time, idle time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed.Load() {
		return true
	}
	if idle > 0 && s.idleSince(now) <= idle {
		return false
	}
	s.flushLocked(ctx)
	s.closed.Store(true)
	return true
}

func (s *Session) touch() {
	s.lastSeen.Store(time.Now().UnixNano())
}

func (s *Session) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, s.lastSeen.Load()))
}

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

// A hydration is a session load in progress. err is set before done is
// closed.
type hydration struct {
	done chan struct{}
	err  error
}

// Sessions opens, caches and evicts shopper sessions.
type Sessions struct {
	kv        port.KVStore
	catalog   *Catalog
	views     port.ProductViewsEmitter
	keyPrefix string

	mu       sync.Mutex
	sessions map[string]*Session
	loading  map[string]*hydration
}

func NewSessions(
	kv port.KVStore, catalog *Catalog,
	views port.ProductViewsEmitter, keyPrefix string,
) *Sessions {
	return &Sessions{
		kv:        kv,
		catalog:   catalog,
		views:     views,
		keyPrefix: keyPrefix,
		sessions:  make(map[string]*Session),
		loading:   make(map[string]*hydration),
	}
}

// Session returns the cached session or hydrates a new one. Callers
// asking for the same id while it hydrates wait for that hydration;
// other ids are not blocked.
func (r *Sessions) Session(ctx context.Context, id string) (*Session, error) {
	const op = "Sessions.Session"

	if !sessionIDPattern.MatchString(id) {
		return nil, fmt.Errorf("%s: %w", op, domain.ErrInvalidSession)
	}

	for {
		r.mu.Lock()
		if s, ok := r.sessions[id]; ok {
			if !s.closed.Load() {
				s.touch()
				r.mu.Unlock()
				return s, nil
			}
			delete(r.sessions, id)
		}

		if h, ok := r.loading[id]; ok {
			r.mu.Unlock()
			select {
			case <-h.done:
			case <-ctx.Done():
				return nil, fmt.Errorf("%s: %w", op, ctx.Err())
			}
			if h.err != nil && !canceled(h.err) {
				return nil, fmt.Errorf("%s: %w", op, h.err)
			}
			continue
		}

		h := &hydration{done: make(chan struct{})}
		r.loading[id] = h
		r.mu.Unlock()

		return r.hydrate(ctx, op, id, h)
	}
}

func (r *Sessions) hydrate(
	ctx context.Context, op, id string, h *hydration,
) (*Session, error) {
	s := newSession(id, r.kv, r.keyPrefix+id+":", r.catalog, r.views)
	s.registry = r
	err := s.Hydrate(ctx)

	r.mu.Lock()
	delete(r.loading, id)
	if err == nil {
		r.sessions[id] = s
	}
	h.err = err
	r.mu.Unlock()
	close(h.done)

	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

// canceled reports errors caused by the context of the hydrating caller;
// waiters retry instead of sharing them.
func canceled(err error) bool {
	return errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// Evict flushes and forgets sessions idle for longer than idle. A session
// used while it is examined is kept.
func (r *Sessions) Evict(ctx context.Context, idle time.Duration) int {
	const op = "Sessions.Evict"

	now := time.Now()
	r.mu.Lock()
	var candidates []*Session
	for _, s := range r.sessions {
		if s.idleSince(now) > idle {
			candidates = append(candidates, s)
		}
	}
	r.mu.Unlock()

	n := 0
	for _, s := range candidates {
		if !s.closeIfIdle(ctx, now, idle) {
			continue
		}
		r.forget(s)
		n++
	}
	if n != 0 {
		slog.Debug("sessions evicted", "op", op, "n", n)
	}
	return n
}

// forget drops s unless it was already replaced.
func (r *Sessions) forget(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sessions[s.id] == s {
		delete(r.sessions, s.id)
	}
}

func (r *Sessions) Close(ctx context.Context) {
	const op = "Sessions.Close"
	log := slog.With("op", op)

	r.mu.Lock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.mu.Unlock()

	log.Info("flushing sessions...", "n", len(sessions))
	for _, s := range sessions {
		s.closeIfIdle(ctx, time.Now(), 0)
		r.forget(s)
	}
	log.Info("sessions are flushed")
}
