package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/niksmo/storefront/internal/core/domain"
)

const configFileEnvName = "STOREFRONT_CONFIG_FILE"

const (
	BackendMock     = "mock"
	BackendPostgres = "postgres"

	KVMemory = "memory"
	KVRedis  = "redis"
)

type kv struct {
	Driver        string        `mapstructure:"driver"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	KeyPrefix     string        `mapstructure:"key_prefix"`
	TTL           time.Duration `mapstructure:"ttl"`
	WriteTimeout  time.Duration `mapstructure:"write_timeout"`
}

type topics struct {
	OrdersCreated string `mapstructure:"orders_created"`
	ProductViews  string `mapstructure:"product_views"`
}

type tlsFiles struct {
	CA   string `mapstructure:"ca"`
	Cert string `mapstructure:"cert"`
	Key  string `mapstructure:"key"`
}

type broker struct {
	Enabled            bool     `mapstructure:"enabled"`
	SeedBrokers        []string `mapstructure:"seed_brokers"`
	SchemaRegistryURLs []string `mapstructure:"schema_registry_urls"`
	Topics             topics   `mapstructure:"topics"`
	TLS                tlsFiles `mapstructure:"tls"`
}

type checkout struct {
	FreeShippingThreshold string `mapstructure:"free_shipping_threshold"`
	FlatShippingFee       string `mapstructure:"flat_shipping_fee"`
	TaxRate               string `mapstructure:"tax_rate"`
}

type sessions struct {
	IdleTimeout   time.Duration `mapstructure:"idle_timeout"`
	EvictInterval time.Duration `mapstructure:"evict_interval"`
}

type Config struct {
	LogLevel       slog.Level    `mapstructure:"log_level"`
	HTTPServerAddr string        `mapstructure:"http_server_addr"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	Backend        string        `mapstructure:"backend"`
	SQLDB          string        `mapstructure:"sql_db"`
	Migrate        bool          `mapstructure:"migrate"`
	KV             kv            `mapstructure:"kv"`
	Sessions       sessions      `mapstructure:"sessions"`
	Broker         broker        `mapstructure:"broker"`
	Checkout       checkout      `mapstructure:"checkout"`
}

func Load() Config {
	cfg, err := LoadFile(getConfigFilepath())
	if err != nil {
		die(err)
	}
	return cfg
}

// LoadFile reads and validates the config at path. Omitted keys take
// their defaults.
func LoadFile(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, err
	}

	var cfg Config
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.UnmarshalExact(&cfg, hook); err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("http_server_addr", ":8080")
	v.SetDefault("request_timeout", 5*time.Second)
	v.SetDefault("backend", BackendMock)
	v.SetDefault("migrate", false)
	v.SetDefault("kv.driver", KVMemory)
	v.SetDefault("kv.key_prefix", "storefront:")
	v.SetDefault("kv.write_timeout", 5*time.Second)
	v.SetDefault("sessions.idle_timeout", 30*time.Minute)
	v.SetDefault("sessions.evict_interval", time.Minute)
	v.SetDefault("broker.enabled", false)
	v.SetDefault("broker.topics.orders_created", "orders_created")
	v.SetDefault("broker.topics.product_views", "product_views")
	v.SetDefault("checkout.free_shipping_threshold", "100")
	v.SetDefault("checkout.flat_shipping_fee", "10")
	v.SetDefault("checkout.tax_rate", "0.08")
}

func (c Config) validate() error {
	switch c.Backend {
	case BackendMock:
	case BackendPostgres:
		if c.SQLDB == "" {
			return fmt.Errorf("sql_db is required for the %q backend", c.Backend)
		}
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}

	switch c.KV.Driver {
	case KVMemory:
	case KVRedis:
		if c.KV.RedisAddr == "" {
			return fmt.Errorf("kv.redis_addr is required for the %q driver", c.KV.Driver)
		}
	default:
		return fmt.Errorf("unknown kv driver %q", c.KV.Driver)
	}

	if c.Broker.Enabled {
		if len(c.Broker.SeedBrokers) == 0 || len(c.Broker.SchemaRegistryURLs) == 0 {
			return fmt.Errorf("broker.seed_brokers and broker.schema_registry_urls are required")
		}
	}

	if c.Sessions.IdleTimeout <= 0 || c.Sessions.EvictInterval <= 0 {
		return fmt.Errorf("sessions timeouts must be positive")
	}

	_, err := c.PricingPolicy()
	return err
}

// PricingPolicy parses the checkout section.
func (c Config) PricingPolicy() (domain.PricingPolicy, error) {
	threshold, err := decimal.NewFromString(c.Checkout.FreeShippingThreshold)
	if err != nil {
		return domain.PricingPolicy{}, fmt.Errorf("checkout.free_shipping_threshold: %w", err)
	}
	fee, err := decimal.NewFromString(c.Checkout.FlatShippingFee)
	if err != nil {
		return domain.PricingPolicy{}, fmt.Errorf("checkout.flat_shipping_fee: %w", err)
	}
	rate, err := decimal.NewFromString(c.Checkout.TaxRate)
	if err != nil {
		return domain.PricingPolicy{}, fmt.Errorf("checkout.tax_rate: %w", err)
	}
	return domain.PricingPolicy{
		FreeShippingThreshold: threshold,
		FlatShippingFee:       fee,
		TaxRate:               rate,
	}, nil
}

// TLSEnabled reports whether broker client certificates are configured.
func (c Config) TLSEnabled() bool {
	return c.Broker.TLS.CA != "" && c.Broker.TLS.Cert != "" && c.Broker.TLS.Key != ""
}

func getConfigFilepath() string {
	cmdLine := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	arg := cmdLine.String("config", "/config.yaml", "config file")
	_ = cmdLine.Parse(os.Args[1:])
	env, ok := os.LookupEnv(configFileEnvName)
	if ok {
		return env
	}
	return *arg
}

func die(err error) {
	fmt.Printf("failed to load config file: %v\n", err)
	os.Exit(2)
}

func (c Config) Print() {
	template := `
	General:
	LogLevel=%q
	HTTPServerAddr=%q
	RequestTimeout=%q
	Backend=%q
	Migrate=%t

	KV:
	Driver=%q
	RedisAddr=%q
	RedisDB=%d
	KeyPrefix=%q
	TTL=%q
	WriteTimeout=%q

	Sessions:
	IdleTimeout=%q
	EvictInterval=%q

	BrokerConfig:
	Enabled=%t
	SeedBrokers=%q
	SchemaRegistryURLs=%q
	TLS=%t
	Topics:
		OrdersCreated=%q
		ProductViews=%q

	Checkout:
	FreeShippingThreshold=%q
	FlatShippingFee=%q
	TaxRate=%q

`
	fmt.Println("Loaded config:")
	fmt.Printf(
		strings.TrimLeft(template, "\n"),
		c.LogLevel,
		c.HTTPServerAddr,
		c.RequestTimeout,
		c.Backend,
		c.Migrate,
		c.KV.Driver,
		c.KV.RedisAddr,
		c.KV.RedisDB,
		c.KV.KeyPrefix,
		c.KV.TTL,
		c.KV.WriteTimeout,
		c.Sessions.IdleTimeout,
		c.Sessions.EvictInterval,
		c.Broker.Enabled,
		c.Broker.SeedBrokers,
		c.Broker.SchemaRegistryURLs,
		c.TLSEnabled(),
		c.Broker.Topics.OrdersCreated,
		c.Broker.Topics.ProductViews,
		c.Checkout.FreeShippingThreshold,
		c.Checkout.FlatShippingFee,
		c.Checkout.TaxRate,
	)
}
