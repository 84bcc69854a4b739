package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/shopstack/storefront-gateway/api/routes"
	"github.com/shopstack/storefront-gateway/internal/cart"
	"github.com/shopstack/storefront-gateway/internal/checkout"
	"github.com/shopstack/storefront-gateway/internal/invoices"
	"github.com/shopstack/storefront-gateway/internal/notify"
	"github.com/shopstack/storefront-gateway/internal/orders"
	"github.com/shopstack/storefront-gateway/internal/payments"
	"github.com/shopstack/storefront-gateway/internal/session"
	"github.com/shopstack/storefront-gateway/internal/upstream"
	"github.com/shopstack/storefront-gateway/pkg/config"
	"github.com/shopstack/storefront-gateway/pkg/env"
	"github.com/shopstack/storefront-gateway/pkg/logger"
	"github.com/shopstack/storefront-gateway/pkg/metrics"
	"github.com/shopstack/storefront-gateway/pkg/redis"

	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "gateway"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "gateway",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionStore, err := session.NewRedisStore(redisClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create session store", err)
		os.Exit(1)
	}

	// A 401 from the backend invalidates the cached user for that token.
	backend, err := upstream.NewClient(cfg.Upstream, logg, upstream.WithUnauthorizedHook(
		func(ctx context.Context, token string) {
			if clearErr := sessionStore.Clear(ctx, token); clearErr != nil {
				logg.Warn(logg.WithField(ctx, "error", clearErr.Error()), "failed to clear stale session")
			}
		},
	))
	if err != nil {
		logg.Error(context.Background(), "failed to create backend client", err)
		os.Exit(1)
	}

	pricer, err := cart.NewPricer(cfg.Checkout)
	if err != nil {
		logg.Error(context.Background(), "failed to build pricer", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(backend, pricer, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	publisher := notify.NewPublisher(logg)

	checkoutService, err := checkout.NewService(backend, pricer, payments.SimulatedTokenSource{}, publisher, logg, cfg.Checkout)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(backend, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	invoicesService, err := invoices.NewService(backend, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create invoices service", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

	addr := ":" + env.Get("PORT", cfg.App.Port)
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"upstream": cfg.Upstream.BaseURL,
	})
	logg.Info(ctx, "starting storefront gateway")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, backend, redisClient, sessionStore, httpMetrics, routes.Services{
			Cart:     cartService,
			Checkout: checkoutService,
			Orders:   ordersService,
			Invoices: invoicesService,
			Events:   publisher,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "gateway stopped unexpectedly", err)
		os.Exit(1)
	}
}
