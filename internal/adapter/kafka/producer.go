package kafka

import (
	"context"
	"log/slog"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/twmb/franz-go/pkg/kgo"
)

// A producer is used for composition.
//
// Producing records to kafka broker and closing underlying [kgo.Client].
type producer struct {
	opPrefix string
	cl       ProducerClient
}

func (p producer) close() {
	const op = "close"
	log := slog.With("op", makeOp(p.opPrefix, op))
	log.Info("closing producer...")
	p.cl.Close()
	log.Info("producer is closed")
}

func (p producer) produce(
	ctx context.Context, rs ...*kgo.Record,
) error {
	const op = "produce"
	res := p.cl.ProduceSync(ctx, rs...)
	if err := res.FirstErr(); err != nil {
		return opErr(err, p.opPrefix, op)
	}
	return nil
}

var _ port.OrderEventsProducer = OrdersProducer{}

// An OrdersProducer publishes placed orders keyed by order id.
type OrdersProducer struct {
	producer producer
	encoder  Encoder
	opPrefix string
}

func NewOrdersProducer(
	opts ...ProducerOpt,
) (OrdersProducer, error) {
	const op = "NewOrdersProducer"

	var options producerOpts
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			return OrdersProducer{}, opErr(err, op)
		}
	}
	if options.cl == nil || options.encoder == nil {
		return OrdersProducer{}, opErr(ErrTooFewOpts, op)
	}

	opPrefix := "OrdersProducer"
	p := producer{
		opPrefix: opPrefix,
		cl:       options.cl,
	}

	return OrdersProducer{
		encoder:  options.encoder,
		producer: p,
		opPrefix: opPrefix,
	}, nil
}

func (p OrdersProducer) Close() {
	p.producer.close()
}

func (p OrdersProducer) ProduceOrderCreated(
	ctx context.Context, o domain.Order,
) error {
	const op = "ProduceOrderCreated"

	if err := ctx.Err(); err != nil {
		return opErr(err, p.opPrefix, op)
	}

	r, err := p.createRecord(o)
	if err != nil {
		return opErr(err, p.opPrefix, op)
	}

	if err := p.producer.produce(ctx, r); err != nil {
		return opErr(err, p.opPrefix, op)
	}

	return nil
}

func (p OrdersProducer) createRecord(o domain.Order) (*kgo.Record, error) {
	const op = "createRecord"

	s := orderToSchemaV1(o)
	b, err := p.encoder.Encode(s)
	if err != nil {
		return nil, opErr(err, p.opPrefix, op)
	}
	return &kgo.Record{Key: []byte(s.OrderID), Value: b}, nil
}
