package app

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"os"

	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/pkg/sr"

	"github.com/niksmo/storefront/config"
	"github.com/niksmo/storefront/internal/adapter"
	"github.com/niksmo/storefront/internal/adapter/catalog"
	"github.com/niksmo/storefront/internal/adapter/httphandler"
	"github.com/niksmo/storefront/internal/adapter/kafka"
	"github.com/niksmo/storefront/internal/adapter/postgresql"
	"github.com/niksmo/storefront/internal/adapter/storage"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/internal/core/service"
	"github.com/niksmo/storefront/pkg/schema"
)

type storages struct {
	kv          port.KVStore
	writeBehind *storage.WriteBehind
	redis       *storage.RedisKV
	sqldb       *storage.SQLDB
	products    port.ProductRepository
	orders      port.OrderRepository
}

type serdes struct {
	orderCreated  schema.Serde
	productViewed schema.Serde
}

// Producers stay nil while the broker is disabled.
type producers struct {
	orders *kafka.OrdersProducer
	views  *kafka.ProductViewsEmitter
}

type App struct {
	ctx        context.Context
	cfg        config.Config
	tlsConfig  *tls.Config
	storages   storages
	serdes     serdes
	producers  producers
	service    service.Service
	httpServer httphandler.HTTPServer
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	app.initKV()
	app.initBackend()
	if cfg.Broker.Enabled {
		app.initTLS()
		app.initSerdes()
		app.initProducers()
	}
	app.initCoreService()
	app.initInboundAdapters()

	return app
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initKV() {
	const op = "App.initKV"

	kvCfg := app.cfg.KV
	if kvCfg.Driver != config.KVRedis {
		app.storages.kv = storage.NewMemoryKV()
		return
	}

	redisKV, err := storage.NewRedisKV(
		app.ctx, kvCfg.RedisAddr, kvCfg.RedisPassword, kvCfg.RedisDB, kvCfg.TTL,
	)
	if err != nil {
		app.fallDown(op, err)
	}
	app.storages.redis = &redisKV
	app.storages.writeBehind = storage.NewWriteBehind(redisKV, kvCfg.WriteTimeout)
	app.storages.kv = app.storages.writeBehind
}

func (app *App) initBackend() {
	const op = "App.initBackend"

	if app.cfg.Backend != config.BackendPostgres {
		app.storages.products = catalog.NewStaticRepository(catalog.SeedProducts())
		app.storages.orders = storage.NewMemoryOrders()
		return
	}

	if app.cfg.Migrate {
		if err := postgresql.Migrate(app.cfg.SQLDB, ""); err != nil {
			app.fallDown(op, err)
		}
	}

	sqldb, err := storage.NewSQLDB(app.ctx, app.cfg.SQLDB)
	if err != nil {
		app.fallDown(op, err)
	}
	app.storages.sqldb = &sqldb
	app.storages.products = storage.NewProductsRepository(sqldb)
	app.storages.orders = storage.NewOrdersRepository(sqldb)
}

func (app *App) initTLS() {
	if app.cfg.TLSEnabled() {
		tlsCfg := app.cfg.Broker.TLS
		app.tlsConfig = adapter.MakeTLSConfig(tlsCfg.CA, tlsCfg.Cert, tlsCfg.Key)
	}
}

func (app *App) initSerdes() {
	const op = "App.initSerdes"

	srOpts := []sr.ClientOpt{sr.URLs(app.cfg.Broker.SchemaRegistryURLs...)}
	if app.tlsConfig != nil {
		srOpts = append(srOpts, sr.DialTLSConfig(app.tlsConfig))
	}
	srClient, err := sr.NewClient(srOpts...)
	if err != nil {
		app.fallDown(op, err)
	}

	identifier := schema.NewRegistryIdentifier(srClient)
	topics := app.cfg.Broker.Topics

	orderCreatedSerde, err := schema.NewSerdeOrderCreatedV1(
		app.ctx,
		schema.SubjectOpt(topics.OrdersCreated+"-value"),
		schema.SchemaIdentifierOpt(identifier),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	productViewedSerde, err := schema.NewSerdeProductViewedV1(
		app.ctx,
		schema.SubjectOpt(topics.ProductViews+"-value"),
		schema.SchemaIdentifierOpt(identifier),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	app.serdes.orderCreated = orderCreatedSerde
	app.serdes.productViewed = productViewedSerde
}

func (app *App) initProducers() {
	const op = "App.initProducers"

	broker := app.cfg.Broker

	var extra []kgo.Opt
	if app.tlsConfig != nil {
		extra = append(extra, kgo.DialTLSConfig(app.tlsConfig))
	}

	ordersProducer, err := kafka.NewOrdersProducer(
		kafka.ProducerClientOpt(
			app.ctx, broker.SeedBrokers, broker.Topics.OrdersCreated, extra...,
		),
		kafka.ProducerEncoderOpt(app.serdes.orderCreated),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	viewsEmitter, err := kafka.NewProductViewsEmitter(
		kafka.ProductViewsEmitterConfig{
			SeedBrokers: broker.SeedBrokers,
			Topic:       broker.Topics.ProductViews,
			Serde:       app.serdes.productViewed,
			TLSConfig:   app.tlsConfig,
		},
	)
	if err != nil {
		app.fallDown(op, err)
	}

	app.producers.orders = &ordersProducer
	app.producers.views = &viewsEmitter
}

func (app *App) initCoreService() {
	const op = "App.initCoreService"

	pricing, err := app.cfg.PricingPolicy()
	if err != nil {
		app.fallDown(op, err)
	}

	checkoutOpts := []service.CheckoutOpt{service.WithPricingPolicy(pricing)}
	var views port.ProductViewsEmitter
	if app.producers.orders != nil {
		checkoutOpts = append(checkoutOpts, service.WithOrderEvents(app.producers.orders))
	}
	if app.producers.views != nil {
		views = app.producers.views
	}

	catalogService := service.NewCatalog(app.storages.products)
	checkout := service.NewCheckout(
		app.storages.orders, httphandler.Identity{}, checkoutOpts...,
	)
	sessions := service.NewSessions(
		app.storages.kv, catalogService, views, app.cfg.KV.KeyPrefix,
	)

	app.service = service.New(catalogService, checkout, sessions)
}

func (app *App) initInboundAdapters() {
	handler := httphandler.NewRouter(app.service)
	app.httpServer = httphandler.NewHTTPServer(
		app.cfg.HTTPServerAddr, handler, app.cfg.RequestTimeout,
	)
}

func (app *App) Run(stopFn context.CancelFunc) {
	go app.httpServer.Run(stopFn)
	go app.service.Run(
		app.ctx,
		app.cfg.Sessions.EvictInterval,
		app.cfg.Sessions.IdleTimeout,
	)

	slog.Info("application is running",
		"backend", app.cfg.Backend,
		"kv", app.cfg.KV.Driver,
		"broker", app.cfg.Broker.Enabled,
	)
}

// Close stops intake first so that every session write reaches the store
// before the store connections are closed.
func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)
	app.service.Close(ctx)

	if app.storages.writeBehind != nil {
		if err := app.storages.writeBehind.Close(ctx); err != nil {
			slog.Error("failed to drain session writes", "err", err)
		}
	}
	if app.storages.redis != nil {
		app.storages.redis.Close()
	}
	if app.producers.views != nil {
		app.producers.views.Close()
	}
	if app.producers.orders != nil {
		app.producers.orders.Close()
	}
	if app.storages.sqldb != nil {
		app.storages.sqldb.Close()
	}

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
