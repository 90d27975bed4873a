package kafka

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/pkg/schema"
	"github.com/twmb/franz-go/pkg/kgo"
)

var (
	ErrTooFewOpts       = errors.New("too few options")
	ErrInvalidValueType = errors.New("invalid value type")
)

type ProducerOpt func(*producerOpts) error

type producerOpts struct {
	cl      ProducerClient
	encoder Encoder
}

// ProducerClientOpt connects to the seed brokers. Extra options such as
// [kgo.DialTLSConfig] are appended to the defaults.
func ProducerClientOpt(
	ctx context.Context, seedBrokers []string, topic string, extra ...kgo.Opt,
) ProducerOpt {
	return func(opts *producerOpts) error {
		kgoOpts := append([]kgo.Opt{
			kgo.SeedBrokers(seedBrokers...),
			kgo.DefaultProduceTopicAlways(),
			kgo.DefaultProduceTopic(topic),
			kgo.RequiredAcks(kgo.AllISRAcks()),
			kgo.AllowAutoTopicCreation(),
		}, extra...)

		cl, err := kgo.NewClient(kgoOpts...)
		if err != nil {
			return err
		}

		if err := cl.Ping(ctx); err != nil {
			cl.Close()
			return err
		}
		opts.cl = cl
		return nil
	}
}

func ProducerClientInstanceOpt(cl ProducerClient) ProducerOpt {
	return func(opts *producerOpts) error {
		if cl == nil {
			return errors.New("producer client is nil")
		}
		opts.cl = cl
		return nil
	}
}

func ProducerEncoderOpt(encoder Encoder) ProducerOpt {
	return func(opts *producerOpts) error {
		if encoder == nil {
			return errors.New("encoder is nil")
		}
		opts.encoder = encoder
		return nil
	}
}

type ProducerClient interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

type Encoder interface {
	Encode(v any) ([]byte, error)
}

type Decoder interface {
	Decode(b []byte, v any) error
}

type Serde interface {
	Encoder
	Decoder
}

func makeOp(s ...string) string {
	return strings.Join(s, ".")
}

func opErr(err error, op ...string) error {
	return fmt.Errorf("%s: %w", makeOp(op...), err)
}

func orderToSchemaV1(v domain.Order) (s schema.OrderCreatedV1) {
	s.OrderID = v.ID
	s.UserID = v.UserID
	s.Status = string(v.Status)
	s.Subtotal = v.Summary.Subtotal.String()
	s.Shipping = v.Summary.Shipping.String()
	s.Tax = v.Summary.Tax.String()
	s.Total = v.Summary.Total.String()
	s.CreatedAt = v.Date.UTC()

	a := v.ShippingAddress
	s.ShippingAddress = schema.ShippingAddressV1{
		FullName: a.FullName,
		Email:    a.Email,
		Phone:    a.Phone,
		Address:  a.Address,
		City:     a.City,
		State:    a.State,
		ZipCode:  a.ZipCode,
		Country:  a.Country,
	}

	s.Items = make([]schema.OrderItemV1, len(v.Items))
	for i, item := range v.Items {
		s.Items[i] = schema.OrderItemV1{
			ProductID: item.Product.ID,
			Name:      item.Product.Name,
			Category:  item.Product.Category,
			Price:     item.Product.Price.String(),
			Quantity:  item.Quantity,
		}
	}
	return
}

func productViewToSchemaV1(
	sessionID string, p domain.Product, at time.Time,
) schema.ProductViewedV1 {
	return schema.ProductViewedV1{
		SessionID: sessionID,
		ProductID: p.ID,
		Name:      p.Name,
		Category:  p.Category,
		Price:     p.Price.String(),
		ViewedAt:  at.UTC(),
	}
}
