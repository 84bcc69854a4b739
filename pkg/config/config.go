package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const EnvPrefix = ""

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App      AppConfig
	Upstream UpstreamConfig
	Redis    RedisConfig
	Checkout CheckoutConfig
	CORS     CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Upstream.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SHOPSTACK_APP_ENV" required:"true"`
	Port         string `envconfig:"SHOPSTACK_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"SHOPSTACK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SHOPSTACK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// UpstreamConfig points the gateway at the storefront backend API.
type UpstreamConfig struct {
	BaseURL string        `envconfig:"SHOPSTACK_UPSTREAM_BASE_URL" required:"true"`
	Timeout time.Duration `envconfig:"SHOPSTACK_UPSTREAM_TIMEOUT" default:"15s"`
}

func (u UpstreamConfig) validate() error {
	base := strings.TrimSpace(u.BaseURL)
	if base == "" {
		return fmt.Errorf("SHOPSTACK_UPSTREAM_BASE_URL is required")
	}
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		return fmt.Errorf("upstream base URL must be http(s), got %q", base)
	}
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"SHOPSTACK_REDIS_URL" required:"true"`
	PoolSize     int           `envconfig:"SHOPSTACK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SHOPSTACK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SHOPSTACK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SHOPSTACK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SHOPSTACK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// CheckoutConfig carries the pricing constants applied at checkout time.
// The backend remains the authority on final totals.
type CheckoutConfig struct {
	Currency     string `envconfig:"SHOPSTACK_CHECKOUT_CURRENCY" default:"INR"`
	TaxRateBP    int    `envconfig:"SHOPSTACK_CHECKOUT_TAX_RATE_BP" default:"1800"`
	ShippingFlat string `envconfig:"SHOPSTACK_CHECKOUT_SHIPPING_FLAT" default:"50"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"SHOPSTACK_CORS_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
}
