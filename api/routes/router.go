package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shopstack/storefront-gateway/api/controllers"
	"github.com/shopstack/storefront-gateway/api/middleware"
	cartsvc "github.com/shopstack/storefront-gateway/internal/cart"
	checkoutsvc "github.com/shopstack/storefront-gateway/internal/checkout"
	invoicesvc "github.com/shopstack/storefront-gateway/internal/invoices"
	"github.com/shopstack/storefront-gateway/internal/notify"
	ordersvc "github.com/shopstack/storefront-gateway/internal/orders"
	"github.com/shopstack/storefront-gateway/internal/session"
	"github.com/shopstack/storefront-gateway/pkg/config"
	"github.com/shopstack/storefront-gateway/pkg/logger"
	"github.com/shopstack/storefront-gateway/pkg/metrics"
)

type Services struct {
	Cart     *cartsvc.Service
	Checkout *checkoutsvc.Service
	Orders   *ordersvc.Service
	Invoices *invoicesvc.Service
	Events   *notify.Publisher
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	backend controllers.Pinger,
	cache controllers.Pinger,
	sessions session.Store,
	httpMetrics *metrics.HTTPMetrics,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, backend, cache, svcs.Events))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(sessions, logg))

		r.Get("/cart", controllers.CartFetch(svcs.Cart, logg))
		r.Post("/checkout", controllers.Checkout(svcs.Checkout, logg))

		r.Get("/payments/methods", controllers.PaymentMethods())

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrdersList(svcs.Orders, logg))
			r.Get("/events", controllers.OrderEvents(svcs.Events, logg))
			r.Get("/{orderId}", controllers.OrderDetail(svcs.Orders, logg))
			r.Get("/{orderId}/transitions", controllers.OrderTransitions(svcs.Orders, logg))
			r.Put("/{orderId}/status", controllers.OrderUpdateStatus(svcs.Orders, logg))
			r.Post("/{orderId}/cancel", controllers.OrderCancel(svcs.Orders, logg))
		})

		r.Route("/invoices", func(r chi.Router) {
			r.Get("/", controllers.InvoicesList(svcs.Invoices, logg))
			r.Post("/", controllers.InvoiceCreate(svcs.Invoices, logg))
			r.Put("/{invoiceId}/status", controllers.InvoiceUpdateStatus(svcs.Invoices, logg))
			r.Get("/{invoiceId}/pdf", controllers.InvoicePDF(svcs.Invoices, logg))
		})
	})

	return r
}
