package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"campus-eats/internal/middleware"
	"campus-eats/internal/repositories"
)

// RouterConfig configures the devserver router
type RouterConfig struct {
	Token          string
	RateLimiter    *middleware.RateLimiter // nil disables rate limiting
	RequestTimeout time.Duration
	CORS           middleware.CORSConfig
}

// NewRouter mounts every resource under /api
func NewRouter(db *sql.DB, cfg RouterConfig) http.Handler {
	carts := NewCartHandler(repositories.NewCartRepository(db))
	orders := NewOrderHandler(repositories.NewOrderRepository(db))
	dishes := NewDishHandler(repositories.NewDishRepository(db))
	merchants := NewMerchantHandler(
		repositories.NewMerchantRepository(db),
		repositories.NewMerchantChangeRepository(db),
	)

	r := chi.NewRouter()

	r.Use(middleware.RequestIDMiddleware)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.LoggingMiddleware)
	r.Use(middleware.ErrorHandlingMiddleware)
	r.Use(middleware.CORSMiddleware(cfg.CORS))
	r.Use(middleware.SecurityHeadersMiddleware)
	if cfg.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(cfg.RequestTimeout))
	}

	r.NotFound(middleware.NotFoundHandler().ServeHTTP)
	r.MethodNotAllowed(middleware.MethodNotAllowedHandler().ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", health(db))

		r.Group(func(r chi.Router) {
			if cfg.RateLimiter != nil {
				r.Use(middleware.RateLimit(cfg.RateLimiter))
			}
			r.Use(middleware.BearerAuth(cfg.Token))

			r.Route("/carts", func(r chi.Router) {
				r.Get("/user/{userId}", carts.GetByUser)
				r.Delete("/user/{userId}/clear", carts.Clear)
				r.Get("/{cartId}/items", carts.Items)
				r.Post("/{userId}/items", carts.AddItem)
				r.Put("/items/{itemId}", carts.UpdateItem)
				r.Delete("/items/{itemId}", carts.DeleteItem)
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/status/{status}", orders.ListByStatus)
				r.Get("/merchant/{merchantId}", orders.ListByMerchant)
				r.Get("/user/{userId}", orders.ListByUser)
				r.Post("/user/{userId}", orders.Create)
				r.Get("/{orderId}", orders.Get)
				r.Patch("/{orderId}/status/{status}", orders.UpdateStatus)
				r.Patch("/{orderId}/cancel", orders.Cancel)
			})

			r.Route("/order-items", func(r chi.Router) {
				r.Get("/by-order/{orderId}", orders.Items)
				r.Post("/add", orders.AddItem)
			})

			r.Route("/dishes", func(r chi.Router) {
				r.Get("/", dishes.List)
				r.Post("/", dishes.Create)
				r.Get("/merchant/{merchantId}", dishes.ListByMerchant)
				r.Get("/{dishId}", dishes.Get)
				r.Put("/{dishId}", dishes.Update)
				r.Delete("/{dishId}", dishes.Delete)
				r.Patch("/{dishId}/toggle-availability", dishes.ToggleAvailability)
			})

			r.Route("/merchants", func(r chi.Router) {
				r.Get("/", merchants.List)
				r.Post("/", merchants.Create)
				r.Get("/status/{status}", merchants.ListByStatus)
				r.Get("/name/{name}", merchants.Search)
				r.Get("/user/{userId}", merchants.GetByUser)
				r.Get("/exists/store-name/{storeName}", merchants.StoreNameExists)

				r.Get("/changes", merchants.ListChanges)
				r.Put("/changes/{changeId}/review", merchants.ReviewChange)

				r.Get("/{merchantId}", merchants.Get)
				r.Put("/{merchantId}", merchants.Update)
				r.Delete("/{merchantId}", merchants.Delete)
				r.Patch("/{merchantId}/status/{status}", merchants.UpdateStatus)
				r.Get("/{merchantId}/changes", merchants.ListMerchantChanges)
				r.Post("/{merchantId}/changes", merchants.SubmitChange)
			})
		})
	})

	return r
}

func health(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			respondError(w, r, err)
			return
		}
		respondOK(w, map[string]string{"status": "ok"})
	}
}
