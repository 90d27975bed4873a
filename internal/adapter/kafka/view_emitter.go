package kafka

import (
	"context"
	"crypto/tls"
	"log/slog"
	"time"

	"github.com/lovoo/goka"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/pkg/schema"
)

// A productViewCodec used for serde [schema.ProductViewedV1]
type productViewCodec struct {
	serde Serde
}

func (c productViewCodec) Encode(v any) ([]byte, error) {
	const op = "productViewCodec.Encode"
	if _, ok := v.(schema.ProductViewedV1); !ok {
		return nil, opErr(ErrInvalidValueType, op)
	}
	return c.serde.Encode(v)
}

func (c productViewCodec) Decode(data []byte) (any, error) {
	const op = "productViewCodec.Decode"
	var s schema.ProductViewedV1
	if err := c.serde.Decode(data, &s); err != nil {
		return nil, opErr(err, op)
	}
	return s, nil
}

type emitter interface {
	Emit(key string, msg any) (*goka.Promise, error)
	Finish() error
}

// A ProductViewsEmitterConfig used for setup [ProductViewsEmitter].
//
// TLSConfig is optional.
type ProductViewsEmitterConfig struct {
	SeedBrokers []string
	Topic       string
	Serde       Serde
	TLSConfig   *tls.Config
}

var _ port.ProductViewsEmitter = ProductViewsEmitter{}

// ProductViewsEmitter streams product views keyed by session id. Delivery
// is asynchronous; failures are only logged.
type ProductViewsEmitter struct {
	ge  emitter
	now func() time.Time
}

func NewProductViewsEmitter(
	config ProductViewsEmitterConfig,
) (ProductViewsEmitter, error) {
	const op = "NewProductViewsEmitter"

	var opts []goka.EmitterOption
	if config.TLSConfig != nil {
		saramaCfg := goka.DefaultConfig()
		saramaCfg.Net.TLS.Enable = true
		saramaCfg.Net.TLS.Config = config.TLSConfig
		opts = append(opts, goka.WithEmitterProducerBuilder(
			goka.ProducerBuilderWithConfig(saramaCfg),
		))
	}

	ge, err := goka.NewEmitter(
		config.SeedBrokers,
		goka.Stream(config.Topic),
		productViewCodec{config.Serde},
		opts...,
	)
	if err != nil {
		return ProductViewsEmitter{}, opErr(err, op)
	}
	return ProductViewsEmitter{ge: ge, now: time.Now}, nil
}

func (e ProductViewsEmitter) EmitProductViewed(
	ctx context.Context, sessionID string, p domain.Product,
) error {
	const op = "ProductViewsEmitter.EmitProductViewed"

	if err := ctx.Err(); err != nil {
		return opErr(err, op)
	}

	s := productViewToSchemaV1(sessionID, p, e.now())
	promise, err := e.ge.Emit(sessionID, s)
	if err != nil {
		return opErr(err, op)
	}
	promise.Then(func(err error) {
		if err != nil {
			slog.Warn("product view is not delivered",
				"op", op, "productID", s.ProductID, "err", err)
		}
	})
	return nil
}

func (e ProductViewsEmitter) Close() {
	const op = "ProductViewsEmitter.Close"
	log := slog.With("op", op)

	log.Info("closing emitter...")
	if err := e.ge.Finish(); err != nil {
		log.Error("failed to finish gracefully", "err", err)
		return
	}
	log.Info("emitter is closed")
}
