package dto

import (
	"time"

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/service"
)

type WishlistToggleDTO struct {
	ProductID string `json:"product_id" validate:"required,max=64"`
}

type WishlistItemDTO struct {
	ID      int64      `json:"id"`
	Product ProductDTO `json:"product"`
	AddedAt time.Time  `json:"added_at"`
}

// WishlistToggleResponse added=false 時 item 為空
type WishlistToggleResponse struct {
	Added bool             `json:"added"`
	Item  *WishlistItemDTO `json:"item,omitempty"`
}

func NewWishlistItemDTO(e service.WishlistEntry) WishlistItemDTO {
	return WishlistItemDTO{
		ID:      e.ID,
		Product: NewProductDTO(e.Product),
		AddedAt: e.CreatedAt,
	}
}

func NewWishlistItemDTOs(entries []service.WishlistEntry) []WishlistItemDTO {
	out := make([]WishlistItemDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, NewWishlistItemDTO(e))
	}
	return out
}

func NewWishlistToggleResponse(res *service.WishlistToggleResult) WishlistToggleResponse {
	out := WishlistToggleResponse{Added: res.Added}
	if res.Entry != nil {
		item := NewWishlistItemDTO(*res.Entry)
		out.Item = &item
	}
	return out
}
