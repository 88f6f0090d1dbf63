package api

import "github.com/Ali-Sina-255/franch-OnlineShopping/internal/api/handler"

type Server struct {
	ProductHandler      *handler.ProductHandler
	CartHandler         *handler.CartHandler
	OrderHandler        *handler.OrderHandler
	PaymentHandler      *handler.PaymentHandler
	NotificationHandler *handler.NotificationHandler
	WishlistHandler     *handler.WishlistHandler
	HealthHandler       *handler.HealthHandler
}

func NewServer(
	productHandler *handler.ProductHandler,
	cartHandler *handler.CartHandler,
	orderHandler *handler.OrderHandler,
	paymentHandler *handler.PaymentHandler,
	notificationHandler *handler.NotificationHandler,
	wishlistHandler *handler.WishlistHandler,
	healthHandler *handler.HealthHandler,
) *Server {
	return &Server{
		ProductHandler:      productHandler,
		CartHandler:         cartHandler,
		OrderHandler:        orderHandler,
		PaymentHandler:      paymentHandler,
		NotificationHandler: notificationHandler,
		WishlistHandler:     wishlistHandler,
		HealthHandler:       healthHandler,
	}
}
