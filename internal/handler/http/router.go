package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/patatpalace/internal/catalog"
	"github.com/utafrali/patatpalace/internal/notice"
	"github.com/utafrali/patatpalace/internal/service"
	"github.com/utafrali/patatpalace/pkg/health"
	"github.com/utafrali/patatpalace/pkg/middleware"
)

const serviceName = "storefront"

// Dependencies are the components the router dispatches to.
type Dependencies struct {
	Catalog  *catalog.Catalog
	Carts    *service.CartService
	Checkout *service.CheckoutService
	Contact  *service.ContactService
	Notices  *notice.Board
	Health   *health.Handler

	Session middleware.SessionConfig
	CORS    middleware.CORSConfig
	// RateLimiter is optional.
	RateLimiter *middleware.RateLimiter
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(deps Dependencies, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics(serviceName))
	r.Use(middleware.Tracing(serviceName))
	r.Use(middleware.CORS(deps.CORS))

	// Health check endpoints
	r.Get("/health/live", deps.Health.LivenessHandler())
	r.Get("/health/ready", deps.Health.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	productHandler := NewProductHandler(deps.Catalog, logger)
	cartHandler := NewCartHandler(deps.Carts, logger)
	checkoutHandler := NewCheckoutHandler(deps.Checkout, logger)
	contactHandler := NewContactHandler(deps.Contact, logger)
	noticeHandler := NewNoticeHandler(deps.Notices, logger)
	pageHandler := NewPageHandler(deps.Carts, deps.Checkout, logger)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Session(deps.Session))
		r.Use(middleware.RequestLogger(logger))
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.Handler)
		}

		r.Route("/api/v1", func(r chi.Router) {
			r.Use(ContentTypeJSON)

			r.Get("/products", productHandler.ListProducts)
			r.Get("/products/{productId}", productHandler.GetProduct)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartHandler.GetCart)
				r.Delete("/", cartHandler.ClearCart)

				r.Post("/items", cartHandler.AddItem)
				r.Put("/items/{productId}", cartHandler.UpdateItemQuantity)
				r.Delete("/items/{productId}", cartHandler.RemoveItem)
				r.Post("/items/{productId}/increment", cartHandler.IncrementItem)
				r.Post("/items/{productId}/decrement", cartHandler.DecrementItem)
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Get("/", checkoutHandler.Status)
				r.Post("/", checkoutHandler.Begin)
				r.Delete("/", checkoutHandler.Close)
				r.Post("/confirm", checkoutHandler.Confirm)
			})

			r.Post("/contact", contactHandler.Submit)
			r.Get("/contact/status", contactHandler.Status)

			r.Get("/notices", noticeHandler.ListNotices)
			r.Delete("/notices/{slot}", noticeHandler.DismissNotice)
		})

		// HTML fragments for the cart and checkout modals.
		r.Get("/cart", pageHandler.CartFragment)
		r.Post("/cart/actions", pageHandler.CartAction)
		r.Get("/checkout/summary", pageHandler.CheckoutSummaryFragment)
	})

	return r
}
