package storage

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/niksmo/storefront/internal/core/port"
)

const defaultWriteTimeout = 5 * time.Second

var _ port.KVStore = (*WriteBehind)(nil)

type kvOp struct {
	value  string
	remove bool
}

// WriteBehind queues writes in memory and applies them to the backend
// from a single worker. Reads see queued writes first. Only the latest
// write per key reaches the backend.
type WriteBehind struct {
	backend      port.KVStore
	writeTimeout time.Duration

	mu       sync.Mutex
	pending  map[string]kvOp
	inflight map[string]kvOp
	busy     bool
	idleCh   chan struct{}
	closed   bool

	wake     chan struct{}
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewWriteBehind starts the worker. A non-positive writeTimeout falls back
// to five seconds per backend write.
func NewWriteBehind(backend port.KVStore, writeTimeout time.Duration) *WriteBehind {
	if writeTimeout <= 0 {
		writeTimeout = defaultWriteTimeout
	}
	idleCh := make(chan struct{})
	close(idleCh)

	w := &WriteBehind{
		backend:      backend,
		writeTimeout: writeTimeout,
		pending:      make(map[string]kvOp),
		idleCh:       idleCh,
		wake:         make(chan struct{}, 1),
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
	}
	go w.run()
	return w
}

func (w *WriteBehind) Get(ctx context.Context, key string) (string, bool, error) {
	w.mu.Lock()
	op, ok := w.pending[key]
	if !ok {
		op, ok = w.inflight[key]
	}
	w.mu.Unlock()

	if ok {
		if op.remove {
			return "", false, nil
		}
		return op.value, true, nil
	}
	return w.backend.Get(ctx, key)
}

func (w *WriteBehind) Set(ctx context.Context, key string, value string) error {
	return w.enqueue(ctx, key, kvOp{value: value})
}

func (w *WriteBehind) Remove(ctx context.Context, key string) error {
	return w.enqueue(ctx, key, kvOp{remove: true})
}

func (w *WriteBehind) enqueue(ctx context.Context, key string, op kvOp) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return w.apply(ctx, key, op)
	}
	w.pending[key] = op
	if !w.busy {
		w.busy = true
		w.idleCh = make(chan struct{})
	}
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
	return nil
}

// Flush waits until every write queued so far has been applied.
func (w *WriteBehind) Flush(ctx context.Context) error {
	const op = "WriteBehind.Flush"

	w.mu.Lock()
	idleCh := w.idleCh
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}

	select {
	case <-idleCh:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	}
}

// Close drains the queue and stops the worker. Writes after Close go
// straight to the backend.
func (w *WriteBehind) Close(ctx context.Context) error {
	const op = "WriteBehind.Close"
	log := slog.With("op", op)

	log.Info("draining pending writes...")

	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
	w.stopOnce.Do(func() { close(w.stop) })

	select {
	case <-w.done:
		log.Info("pending writes are drained")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	}
}

func (w *WriteBehind) run() {
	defer close(w.done)
	for {
		select {
		case <-w.wake:
			w.drain()
		case <-w.stop:
			w.drain()
			return
		}
	}
}

func (w *WriteBehind) drain() {
	log := slog.With("op", "WriteBehind.drain")

	for {
		w.mu.Lock()
		if len(w.pending) == 0 {
			w.inflight = nil
			if w.busy {
				w.busy = false
				close(w.idleCh)
			}
			w.mu.Unlock()
			return
		}
		batch := w.pending
		w.pending = make(map[string]kvOp)
		w.inflight = batch
		w.mu.Unlock()

		for key, op := range batch {
			ctx, cancel := context.WithTimeout(context.Background(), w.writeTimeout)
			if err := w.apply(ctx, key, op); err != nil {
				log.Error("failed to write", "key", key, "err", err)
			}
			cancel()
		}
	}
}

func (w *WriteBehind) apply(ctx context.Context, key string, op kvOp) error {
	if op.remove {
		return w.backend.Remove(ctx, key)
	}
	return w.backend.Set(ctx, key, op.value)
}
