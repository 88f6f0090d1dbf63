package handler

import (
	"net/http"

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/api/dto"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/api/response"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/domain/model"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/service"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/util"
	"github.com/go-chi/chi/v5"
)

type PaymentHandler struct {
	paymentService service.IPaymentService
}

func NewPaymentHandler(paymentService service.IPaymentService) *PaymentHandler {
	if paymentService == nil {
		panic("paymentService cannot be nil")
	}
	return &PaymentHandler{paymentService: paymentService}
}

// ConfirmPayment POST /payment-confirmation
// Payment Successful / Already Paid / Payment not completed 都是 200
func (h *PaymentHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	var req dto.PaymentConfirmationDTO
	if err := decodeAndValidate(w, r, &req); err != nil {
		response.ErrorJSON(w, err)
		return
	}

	res, err := h.paymentService.ConfirmPayment(r.Context(), req.OrderID, req.ProviderOrderID)
	if err != nil {
		response.ErrorJSON(w, err)
		return
	}
	response.SuccessJSON(w, http.StatusOK, dto.NewPaymentConfirmationResponse(res))
}

// TransitionStatus PATCH /admin/orders/{oid}/payment-status
func (h *PaymentHandler) TransitionStatus(w http.ResponseWriter, r *http.Request) {
	var req dto.PaymentStatusDTO
	if err := decodeAndValidate(w, r, &req); err != nil {
		response.ErrorJSON(w, err)
		return
	}

	ctx := r.Context()
	order, err := h.paymentService.TransitionPaymentStatus(ctx, util.GetIdentityFromContext(ctx), chi.URLParam(r, "oid"), model.PaymentStatus(req.Status))
	if err != nil {
		response.ErrorJSON(w, err)
		return
	}
	response.SuccessJSON(w, http.StatusOK, dto.NewOrderDetailResponse(order))
}
