package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jschof1/val-des-roses/internal/cart"
	"github.com/jschof1/val-des-roses/internal/catalog"
	"github.com/jschof1/val-des-roses/pkg/health"
	"github.com/jschof1/val-des-roses/pkg/middleware"
)

// catalogCacheSeconds is the browser cache lifetime for product and
// collection reads. Cart and notification responses are never cached.
const catalogCacheSeconds = 60

// RouterConfig carries the dependencies the storefront router needs.
type RouterConfig struct {
	Manager       *cart.Manager
	Catalog       *catalog.Service
	HealthHandler *health.Handler
	Logger        *slog.Logger
	CORS          middleware.CORSConfig
	PprofCIDRs    []string
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.Tracing("storefront"))
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.CORS(cfg.CORS))

	// Health check endpoints
	r.Get("/health/live", cfg.HealthHandler.LivenessHandler())
	r.Get("/health/ready", cfg.HealthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, cfg.PprofCIDRs, cfg.Logger)

	cartHandler := NewCartHandler(cfg.Manager, cfg.Logger)
	notificationHandler := NewNotificationHandler(cfg.Manager, cfg.Logger)
	catalogHandler := NewCatalogHandler(cfg.Catalog, cfg.Logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(middleware.Session())

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)

			r.Post("/items", cartHandler.AddItem)
			r.Put("/items/{lineID}", cartHandler.UpdateQuantity)
			r.Delete("/items/{lineID}", cartHandler.RemoveItem)

			r.Post("/open", cartHandler.OpenCart)
			r.Post("/close", cartHandler.CloseCart)
			r.Post("/toggle", cartHandler.ToggleCart)
		})

		r.Post("/checkout", cartHandler.Checkout)

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", notificationHandler.List)
			r.Delete("/", notificationHandler.Clear)
			r.Delete("/{id}", notificationHandler.Dismiss)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.CacheControl(catalogCacheSeconds))

			r.Get("/products", catalogHandler.ListProducts)
			r.Get("/products/{handle}", catalogHandler.GetProduct)
			r.Get("/collections", catalogHandler.ListCollections)
		})
	})

	return r
}
