package handler

import (
	"net/http"

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/api/dto"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/api/response"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/service"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/util"
)

type WishlistHandler struct {
	wishlistService service.IWishlistService
}

func NewWishlistHandler(wishlistService service.IWishlistService) *WishlistHandler {
	if wishlistService == nil {
		panic("wishlistService cannot be nil")
	}
	return &WishlistHandler{wishlistService: wishlistService}
}

// Toggle POST /wishlist，加入回 201，移除回 200
func (h *WishlistHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	var req dto.WishlistToggleDTO
	if err := decodeAndValidate(w, r, &req); err != nil {
		response.ErrorJSON(w, err)
		return
	}

	ctx := r.Context()
	res, err := h.wishlistService.Toggle(ctx, util.GetIdentityFromContext(ctx).UserID, req.ProductID)
	if err != nil {
		response.ErrorJSON(w, err)
		return
	}
	status := http.StatusOK
	if res.Added {
		status = http.StatusCreated
	}
	response.SuccessJSON(w, status, dto.NewWishlistToggleResponse(res))
}

func (h *WishlistHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	list, err := h.wishlistService.List(ctx, util.GetIdentityFromContext(ctx).UserID)
	if err != nil {
		response.ErrorJSON(w, err)
		return
	}
	response.SuccessJSON(w, http.StatusOK, dto.NewWishlistItemDTOs(list))
}
