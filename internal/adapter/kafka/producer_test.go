package kafka

import (
	"context"
	"testing"
	"time"

	"github.com/lovoo/goka"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/pkg/schema"
)

type MockProducerClient struct {
	mock.Mock
}

func (c *MockProducerClient) ProduceSync(
	ctx context.Context, rs ...*kgo.Record,
) kgo.ProduceResults {
	args := c.Called(ctx, rs)
	return args.Get(0).(kgo.ProduceResults)
}

func (c *MockProducerClient) Close() {
	c.Called()
}

type MockSerde struct {
	mock.Mock
}

func (s *MockSerde) Encode(v any) ([]byte, error) {
	args := s.Called(v)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

func (s *MockSerde) Decode(b []byte, v any) error {
	return s.Called(b, v).Error(0)
}

func testOrder() domain.Order {
	return domain.Order{
		ID:     "order-1",
		UserID: "alice",
		Items: []domain.OrderItem{{
			Product: domain.Product{
				ID: "1", Name: "Desk Lamp", Category: "Lighting",
				Price: decimal.RequireFromString("65"),
			},
			Quantity: 2,
		}},
		Summary: domain.DefaultPricingPolicy().Summarize(decimal.NewFromInt(130)),
		Status:  domain.OrderPending,
		Date:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		ShippingAddress: domain.ShippingInfo{
			FullName: "Alice Doe", Country: domain.DefaultCountry,
		},
	}
}

func TestOrderToSchemaV1(t *testing.T) {
	s := orderToSchemaV1(testOrder())

	assert.Equal(t, "order-1", s.OrderID)
	assert.Equal(t, "pending", s.Status)
	assert.Equal(t, "130", s.Subtotal)
	assert.Equal(t, "0", s.Shipping)
	assert.Equal(t, "10.4", s.Tax)
	assert.Equal(t, "140.4", s.Total)
	assert.Equal(t, "United States", s.ShippingAddress.Country)
	require.Len(t, s.Items, 1)
	assert.Equal(t, schema.OrderItemV1{
		ProductID: "1", Name: "Desk Lamp", Category: "Lighting", Price: "65", Quantity: 2,
	}, s.Items[0])
}

func TestOrdersProducer(t *testing.T) {
	t.Run("TooFewOpts", func(t *testing.T) {
		_, err := NewOrdersProducer(ProducerEncoderOpt(new(MockSerde)))
		assert.ErrorIs(t, err, ErrTooFewOpts)
	})

	t.Run("ProduceOrderCreated", func(t *testing.T) {
		cl := new(MockProducerClient)
		serde := new(MockSerde)
		payload := []byte("encoded")

		serde.On("Encode", orderToSchemaV1(testOrder())).Return(payload, nil)
		cl.On("ProduceSync", mock.Anything, mock.MatchedBy(func(rs []*kgo.Record) bool {
			return len(rs) == 1 &&
				string(rs[0].Key) == "order-1" &&
				string(rs[0].Value) == "encoded"
		})).Return(kgo.ProduceResults{{}})

		p, err := NewOrdersProducer(
			ProducerClientInstanceOpt(cl),
			ProducerEncoderOpt(serde),
		)
		require.NoError(t, err)

		require.NoError(t, p.ProduceOrderCreated(t.Context(), testOrder()))
		cl.AssertExpectations(t)
		serde.AssertExpectations(t)
	})

	t.Run("BrokerFailure", func(t *testing.T) {
		cl := new(MockProducerClient)
		serde := new(MockSerde)
		serde.On("Encode", mock.Anything).Return([]byte("encoded"), nil)
		cl.On("ProduceSync", mock.Anything, mock.Anything).
			Return(kgo.ProduceResults{{Err: assert.AnError}})

		p, err := NewOrdersProducer(
			ProducerClientInstanceOpt(cl),
			ProducerEncoderOpt(serde),
		)
		require.NoError(t, err)

		assert.ErrorIs(t, p.ProduceOrderCreated(t.Context(), testOrder()), assert.AnError)
	})

	t.Run("EncodeFailure", func(t *testing.T) {
		cl := new(MockProducerClient)
		serde := new(MockSerde)
		serde.On("Encode", mock.Anything).Return(nil, assert.AnError)

		p, err := NewOrdersProducer(
			ProducerClientInstanceOpt(cl),
			ProducerEncoderOpt(serde),
		)
		require.NoError(t, err)

		assert.ErrorIs(t, p.ProduceOrderCreated(t.Context(), testOrder()), assert.AnError)
		cl.AssertNotCalled(t, "ProduceSync", mock.Anything, mock.Anything)
	})

	t.Run("Close", func(t *testing.T) {
		cl := new(MockProducerClient)
		cl.On("Close").Return().Once()

		p, err := NewOrdersProducer(
			ProducerClientInstanceOpt(cl),
			ProducerEncoderOpt(new(MockSerde)),
		)
		require.NoError(t, err)
		p.Close()
		cl.AssertExpectations(t)
	})
}

func TestProductViewCodec(t *testing.T) {
	serde := new(MockSerde)
	c := productViewCodec{serde}

	t.Run("InvalidType", func(t *testing.T) {
		_, err := c.Encode("not a view")
		assert.ErrorIs(t, err, ErrInvalidValueType)
	})

	t.Run("Encode", func(t *testing.T) {
		at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		v := productViewToSchemaV1("s1", domain.Product{
			ID: "8", Name: "Wireless Charging Pad", Category: "Electronics",
			Price: decimal.RequireFromString("39.99"),
		}, at)
		assert.Equal(t, "39.99", v.Price)
		assert.Equal(t, at, v.ViewedAt)

		serde.On("Encode", v).Return([]byte("view"), nil).Once()
		b, err := c.Encode(v)
		require.NoError(t, err)
		assert.Equal(t, []byte("view"), b)
	})

	t.Run("DecodeFailure", func(t *testing.T) {
		serde.On("Decode", []byte("bad"), mock.Anything).Return(assert.AnError).Once()
		_, err := c.Decode([]byte("bad"))
		assert.ErrorIs(t, err, assert.AnError)
	})
}

type MockEmitter struct {
	mock.Mock
}

func (e *MockEmitter) Emit(key string, msg any) (*goka.Promise, error) {
	args := e.Called(key, msg)
	p, _ := args.Get(0).(*goka.Promise)
	return p, args.Error(1)
}

func (e *MockEmitter) Finish() error {
	return e.Called().Error(0)
}

func TestProductViewsEmitter(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	p := domain.Product{
		ID: "3", Name: "Bluetooth Noise-Cancelling Headphones", Category: "Audio",
		Price: decimal.RequireFromString("249.99"),
	}
	want := productViewToSchemaV1("s1", p, at)

	t.Run("EmitKeyedBySession", func(t *testing.T) {
		ge := new(MockEmitter)
		e := ProductViewsEmitter{ge: ge, now: func() time.Time { return at }}

		ge.On("Emit", "s1", want).Return(goka.NewPromise(), nil).Once()
		require.NoError(t, e.EmitProductViewed(t.Context(), "s1", p))
		ge.AssertExpectations(t)
	})

	t.Run("EmitFailure", func(t *testing.T) {
		ge := new(MockEmitter)
		e := ProductViewsEmitter{ge: ge, now: func() time.Time { return at }}

		ge.On("Emit", "s1", want).Return(nil, assert.AnError).Once()
		assert.ErrorIs(t, e.EmitProductViewed(t.Context(), "s1", p), assert.AnError)
	})

	t.Run("CanceledContext", func(t *testing.T) {
		ge := new(MockEmitter)
		e := ProductViewsEmitter{ge: ge, now: time.Now}

		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		assert.ErrorIs(t, e.EmitProductViewed(ctx, "s1", p), context.Canceled)
		ge.AssertNotCalled(t, "Emit", mock.Anything, mock.Anything)
	})

	t.Run("Close", func(t *testing.T) {
		ge := new(MockEmitter)
		e := ProductViewsEmitter{ge: ge}

		ge.On("Finish").Return(nil).Once()
		e.Close()
		ge.AssertExpectations(t)
	})
}
