package handler

import (
	"net/http"

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/api/dto"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/api/response"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/service"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/util"
	"github.com/go-chi/chi/v5"
)

type CartHandler struct {
	cartService service.ICartService
}

func NewCartHandler(cartService service.ICartService) *CartHandler {
	if cartService == nil {
		panic("cartService cannot be nil")
	}
	return &CartHandler{cartService: cartService}
}

// GetCart GET /cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	identity := util.GetIdentityFromContext(r.Context())
	snap, err := h.cartService.Snapshot(r.Context(), identity.UserID)
	if err != nil {
		response.ErrorJSON(w, err)
		return
	}
	response.SuccessJSON(w, http.StatusOK, dto.NewCartDTO(snap))
}

// AddItem POST /cart，新增明細 201，累加數量 200
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req dto.AddCartItemDTO
	if err := decodeAndValidate(w, r, &req); err != nil {
		response.ErrorJSON(w, err)
		return
	}

	ctx := r.Context()
	identity := util.GetIdentityFromContext(ctx)
	res, err := h.cartService.AddOrIncrement(ctx, identity.UserID, req.ProductID, req.Qty)
	if err != nil {
		response.ErrorJSON(w, err)
		return
	}

	snap, err := h.cartService.Snapshot(ctx, identity.UserID)
	if err != nil {
		response.ErrorJSON(w, err)
		return
	}

	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	response.SuccessJSON(w, status, dto.AddCartItemResponse{
		ItemID:   res.Item.ID,
		Quantity: res.Item.Quantity,
		Created:  res.Created,
		Cart:     dto.NewCartDTO(snap),
	})
}

// UpdateItem PATCH /cart/items/{item_id}
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathInt64(r, "item_id")
	if err != nil {
		response.ErrorJSON(w, err)
		return
	}
	var req dto.UpdateCartItemDTO
	if err := decodeAndValidate(w, r, &req); err != nil {
		response.ErrorJSON(w, err)
		return
	}

	ctx := r.Context()
	identity := util.GetIdentityFromContext(ctx)
	if _, err := h.cartService.UpdateQuantity(ctx, identity.UserID, itemID, req.Qty); err != nil {
		response.ErrorJSON(w, err)
		return
	}
	snap, err := h.cartService.Snapshot(ctx, identity.UserID)
	if err != nil {
		response.ErrorJSON(w, err)
		return
	}
	response.SuccessJSON(w, http.StatusOK, dto.NewCartDTO(snap))
}

// Summary GET /cart/total
func (h *CartHandler) Summary(w http.ResponseWriter, r *http.Request) {
	identity := util.GetIdentityFromContext(r.Context())
	summary, err := h.cartService.Summary(r.Context(), identity.UserID)
	if err != nil {
		response.ErrorJSON(w, err)
		return
	}
	response.SuccessJSON(w, http.StatusOK, dto.NewCartSummaryDTO(summary))
}

// RemoveItem DELETE /cart/{cart_id}/items/{item_id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathInt64(r, "item_id")
	if err != nil {
		response.ErrorJSON(w, err)
		return
	}
	identity := util.GetIdentityFromContext(r.Context())
	if err := h.cartService.RemoveLine(r.Context(), identity, chi.URLParam(r, "cart_id"), itemID); err != nil {
		response.ErrorJSON(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
