package router

import (
	"net/http"

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/api"
	m "github.com/Ali-Sina-255/franch-OnlineShopping/internal/api/middleware"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/api/response"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/ratelimit"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// SetupRouter paymentLimiter 為 nil 時付款確認不限流
func SetupRouter(server *api.Server, paymentLimiter ratelimit.Limiter, logger *zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// 全局中間件
	r.Use(m.RequestIdMiddleware)
	r.Use(middleware.RealIP)
	r.Use(m.LoggerMiddleware(logger))
	r.Use(m.RecoverMiddleware(logger))
	r.Use(m.IdentityMiddleware)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.WriteError(w, http.StatusNotFound, "route_not_found", "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.WriteError(w, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	r.Get("/healthz", server.HealthHandler.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", server.ProductHandler.List)
		r.Get("/products/{product_id}", server.ProductHandler.Get)

		// 金流回呼，不需要身分
		r.Group(func(r chi.Router) {
			if paymentLimiter != nil {
				r.Use(m.NewRateLimitMiddleware(paymentLimiter, m.KeyByIP))
			}
			r.Post("/payment-confirmation", server.PaymentHandler.ConfirmPayment)
		})

		r.Group(func(r chi.Router) {
			r.Use(m.RequireIdentity)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", server.CartHandler.GetCart)
				r.Post("/", server.CartHandler.AddItem)
				r.Get("/total", server.CartHandler.Summary)
				r.Patch("/items/{item_id}", server.CartHandler.UpdateItem)
				r.Delete("/{cart_id}/items/{item_id}", server.CartHandler.RemoveItem)
			})

			r.Route("/orders", func(r chi.Router) {
				r.Post("/", server.OrderHandler.Checkout)
				r.Get("/", server.OrderHandler.ListOrders)
				r.Get("/{oid}", server.OrderHandler.GetOrder)
				r.Post("/{oid}/cancel", server.OrderHandler.CancelOrder)
			})

			r.Patch("/admin/orders/{oid}/payment-status", server.PaymentHandler.TransitionStatus)

			r.Get("/notifications", server.NotificationHandler.List)
			r.Post("/notifications/{id}/seen", server.NotificationHandler.MarkSeen)

			r.Get("/wishlist", server.WishlistHandler.List)
			r.Post("/wishlist", server.WishlistHandler.Toggle)
		})
	})
	return r
}
