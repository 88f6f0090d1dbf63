package handler

import (
	"net/http"

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/api/dto"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/api/response"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/apperr"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/service"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/util"
	"github.com/go-chi/chi/v5"
)

type OrderHandler struct {
	orderService service.IOrderService
}

func NewOrderHandler(orderService service.IOrderService) *OrderHandler {
	if orderService == nil {
		panic("orderService cannot be nil")
	}
	return &OrderHandler{orderService: orderService}
}

// Checkout POST /orders
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req dto.CheckoutDTO
	if err := decodeAndValidate(w, r, &req); err != nil {
		response.ErrorJSON(w, err)
		return
	}

	ctx := r.Context()
	order, err := h.orderService.Checkout(ctx, util.GetIdentityFromContext(ctx), req.CartID, req.ShippingInfo())
	if err != nil {
		// 空購物車對外是 400
		if service.IsEmptyCart(err) {
			response.WriteError(w, http.StatusBadRequest, apperr.CodeOf(err), apperr.MessageOf(err))
			return
		}
		response.ErrorJSON(w, err)
		return
	}
	response.SuccessJSON(w, http.StatusCreated, dto.NewOrderCreatedResponse(order))
}

// GetOrder GET /orders/{oid}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	order, err := h.orderService.GetOrder(ctx, util.GetIdentityFromContext(ctx), chi.URLParam(r, "oid"))
	if err != nil {
		response.ErrorJSON(w, err)
		return
	}
	response.SuccessJSON(w, http.StatusOK, dto.NewOrderDetailResponse(order))
}

// ListOrders GET /orders
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orders, err := h.orderService.ListOrders(ctx, util.GetIdentityFromContext(ctx).UserID)
	if err != nil {
		response.ErrorJSON(w, err)
		return
	}
	response.SuccessJSON(w, http.StatusOK, dto.NewOrderDetailResponses(orders))
}

// CancelOrder POST /orders/{oid}/cancel
func (h *OrderHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	order, err := h.orderService.CancelOrder(ctx, util.GetIdentityFromContext(ctx), chi.URLParam(r, "oid"))
	if err != nil {
		response.ErrorJSON(w, err)
		return
	}
	response.SuccessJSON(w, http.StatusOK, dto.NewOrderDetailResponse(order))
}
