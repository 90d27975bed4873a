package service

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/pkg/retry"
)

const testPrefix = "storefront:"

type fakeKV struct {
	mu     sync.Mutex
	m      map[string]string
	getErr error
}

func newFakeKV() *fakeKV {
	return &fakeKV{m: make(map[string]string)}
}

func (kv *fakeKV) Get(_ context.Context, key string) (string, bool, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	if kv.getErr != nil {
		return "", false, kv.getErr
	}
	v, ok := kv.m[key]
	return v, ok, nil
}

func (kv *fakeKV) Set(_ context.Context, key string, value string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	kv.m[key] = value
	return nil
}

func (kv *fakeKV) Remove(_ context.Context, key string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	delete(kv.m, key)
	return nil
}

func (kv *fakeKV) value(key string) (string, bool) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	v, ok := kv.m[key]
	return v, ok
}

// gatedKV holds reads of keys under prefix until release is closed.
type gatedKV struct {
	*fakeKV
	prefix  string
	once    sync.Once
	loads   atomic.Int32
	started chan struct{}
	release chan struct{}
}

func newGatedKV(prefix string) *gatedKV {
	return &gatedKV{
		fakeKV:  newFakeKV(),
		prefix:  prefix,
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (kv *gatedKV) Get(ctx context.Context, key string) (string, bool, error) {
	if strings.HasPrefix(key, kv.prefix) {
		if strings.HasSuffix(key, ":"+cartKey) {
			kv.loads.Add(1)
		}
		kv.once.Do(func() { close(kv.started) })
		<-kv.release
	}
	return kv.fakeKV.Get(ctx, key)
}

type productRepoMock struct {
	mock.Mock
}

func (m *productRepoMock) GetAll(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *productRepoMock) GetByID(ctx context.Context, id string) (domain.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *productRepoMock) GetByCategory(ctx context.Context, c string) ([]domain.Product, error) {
	args := m.Called(ctx, c)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *productRepoMock) GetFeatured(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Product), args.Error(1)
}

type eventsMock struct {
	mock.Mock
}

func (m *eventsMock) ProduceOrderCreated(ctx context.Context, o domain.Order) error {
	return m.Called(ctx, o).Error(0)
}

type viewsMock struct {
	mock.Mock
}

func (m *viewsMock) EmitProductViewed(
	ctx context.Context, sessionID string, p domain.Product,
) error {
	return m.Called(ctx, sessionID, p).Error(0)
}

// fakeOrders records created orders.
type fakeOrders struct {
	mu        sync.Mutex
	orders    []domain.Order
	createErr error
}

func (r *fakeOrders) Create(_ context.Context, o domain.Order) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return domain.Order{}, r.createErr
	}
	r.orders = append(r.orders, o)
	return o, nil
}

func (r *fakeOrders) GetAll(_ context.Context, userID string) ([]domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Order
	for i := len(r.orders) - 1; i >= 0; i-- {
		if r.orders[i].UserID == userID {
			out = append(out, r.orders[i])
		}
	}
	return out, nil
}

func (r *fakeOrders) GetByID(_ context.Context, userID, orderID string) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.ID == orderID && o.UserID == userID {
			return o, nil
		}
	}
	return domain.Order{}, domain.ErrNotFound
}

type userSession string

func (u userSession) CurrentUserID(context.Context) (string, bool) {
	return string(u), u != ""
}

func product(id, name, price string) domain.Product {
	return domain.Product{
		ID:       id,
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Category: "Lighting",
		InStock:  true,
		Rating:   4,
	}
}

func fastRetry(c *Catalog) *Catalog {
	c.retryCfg.Backoff = retry.LinearBackoff(time.Millisecond)
	return c
}

func newTestSessions(kv *fakeKV) *Sessions {
	return NewSessions(kv, NewCatalog(&productRepoMock{}), nil, testPrefix)
}

var decimalTwo = decimal.NewFromInt(2)

func productIDs(ps []domain.Product) []string {
	ids := make([]string, len(ps))
	for i, p := range ps {
		ids[i] = p.ID
	}
	return ids
}

func countOf(s, sub string) int {
	return strings.Count(s, sub)
}
