package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/shaydevops2024/e-commerce-car-store/internal/metrics"
)

type Handlers struct {
	Cars     *CarHandler
	Cart     *CartHandler
	Checkout *CheckoutHandler
	Orders   *OrdersHandler
	Ops      *OpsHandler
}

// NewRouter wires the storefront HTTP surface.
func NewRouter(h Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/cars", metrics.Middleware("cars_list", h.Cars.List))

		r.Get("/cart", metrics.Middleware("cart_get", h.Cart.Get))
		r.Post("/cart", metrics.Middleware("cart_add", h.Cart.Add))
		r.Delete("/cart", metrics.Middleware("cart_clear", h.Cart.Clear))

		r.Post("/checkout", metrics.Middleware("checkout", h.Checkout.Checkout))

		r.Get("/orders/{id}", metrics.Middleware("orders_get", h.Orders.Get))

		r.Get("/status/redis", metrics.Middleware("status_redis", h.Ops.RedisStatus))
		r.Get("/status/queue", metrics.Middleware("status_queue", h.Ops.QueueStatus))
		r.Get("/status/orders", metrics.Middleware("status_orders", h.Ops.RecentOrders))
		r.Post("/service/{service}/{action}", metrics.Middleware("service_control", h.Ops.Control))
	})

	return r
}
