package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/goldendrop/storefront/internal/catalog"
	"github.com/goldendrop/storefront/internal/config"
	"github.com/goldendrop/storefront/internal/service"
	"github.com/goldendrop/storefront/pkg/health"
	"github.com/goldendrop/storefront/pkg/middleware"
)

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(
	cfg *config.Config,
	cat *catalog.Catalog,
	cartService *service.CartService,
	checkoutService *service.CheckoutService,
	newsletterService *service.NewsletterService,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.Tracing("storefront"))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		Environment:    cfg.Environment,
	}))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, cfg.PprofCIDRs, logger)

	catalogHandler := NewCatalogHandler(cat, logger)
	cartHandler := NewCartHandler(cartService, logger)
	checkoutHandler := NewCheckoutHandler(checkoutService, logger)
	newsletterHandler := NewNewsletterHandler(newsletterService, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		// Catalog is public and tokenless.
		r.Get("/products", catalogHandler.ListProducts)
		r.Get("/products/tags", catalogHandler.ListTags)
		r.Get("/products/{productID}", catalogHandler.GetProduct)

		r.Route("/cart", func(r chi.Router) {
			r.Use(CartTokenFromHeader)

			r.Get("/", cartHandler.GetCart)
			r.Delete("/", cartHandler.ClearCart)
			r.Get("/summary", cartHandler.GetSummary)

			r.Post("/items", cartHandler.AddItem)
			r.Patch("/items/{productID}/{weight}", cartHandler.UpdateQuantity)
			r.Delete("/items/{productID}/{weight}", cartHandler.RemoveLine)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Use(CartTokenFromHeader)

			r.Post("/session", checkoutHandler.CreateSession)
			r.Post("/return/success", checkoutHandler.ReturnSuccess)
			r.Post("/return/cancel", checkoutHandler.ReturnCancel)
		})

		r.Route("/newsletter", func(r chi.Router) {
			r.With(CartTokenFromHeader).Get("/prompt", newsletterHandler.GetPrompt)
			r.With(CartTokenFromHeader).Post("/decline", newsletterHandler.Decline)
			r.Post("/subscribe", newsletterHandler.Subscribe)
		})
	})

	return r
}
