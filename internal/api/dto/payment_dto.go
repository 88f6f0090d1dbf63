package dto

import "github.com/Ali-Sina-255/franch-OnlineShopping/internal/service"

type PaymentConfirmationDTO struct {
	OrderID         string `json:"order_id" validate:"required"`
	ProviderOrderID string `json:"provider_order_id"`
}

type PaymentStatusDTO struct {
	Status string `json:"status" validate:"required"`
}

type PaymentConfirmationResponse struct {
	Message       string `json:"message"`
	Outcome       string `json:"outcome"`
	OrderID       string `json:"order_id"`
	PaymentStatus string `json:"payment_status"`
	GatewayStatus string `json:"gateway_status"`
}

func NewPaymentConfirmationResponse(res *service.PaymentResult) PaymentConfirmationResponse {
	return PaymentConfirmationResponse{
		Message:       res.Message,
		Outcome:       string(res.Outcome),
		OrderID:       res.OrderOID,
		PaymentStatus: string(res.PaymentStatus),
		GatewayStatus: res.GatewayStatus,
	}
}
