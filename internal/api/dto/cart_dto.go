package dto

import "github.com/Ali-Sina-255/franch-OnlineShopping/internal/service"

type AddCartItemDTO struct {
	ProductID string `json:"product_id" validate:"required,max=64"`
	Qty       int    `json:"qty"`
}

type UpdateCartItemDTO struct {
	Qty int `json:"qty"`
}

type CartLineDTO struct {
	ItemID      int64  `json:"item_id"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	LineTotal   string `json:"line_total"`
}

type CartDTO struct {
	CartID      string        `json:"cart_id"`
	Lines       []CartLineDTO `json:"lines"`
	TotalAmount string        `json:"total_amount"`
	TotalItems  int           `json:"total_items"`
}

// AddCartItemResponse Created 對應 201/200
type AddCartItemResponse struct {
	ItemID   int64   `json:"item_id"`
	Quantity int     `json:"quantity"`
	Created  bool    `json:"created"`
	Cart     CartDTO `json:"cart"`
}

type CartSummaryDTO struct {
	TotalAmount string `json:"total_amount"`
	TotalItems  int    `json:"total_items"`
}

func NewCartDTO(snap *service.CartSnapshot) CartDTO {
	lines := make([]CartLineDTO, 0, len(snap.Lines))
	for _, l := range snap.Lines {
		lines = append(lines, CartLineDTO{
			ItemID:      l.ItemID,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitPrice:   money(l.UnitPrice),
			LineTotal:   money(l.LineTotal),
		})
	}
	return CartDTO{
		CartID:      snap.CartID,
		Lines:       lines,
		TotalAmount: money(snap.TotalAmount),
		TotalItems:  snap.TotalItems,
	}
}

func NewCartSummaryDTO(summary *service.CartSummary) CartSummaryDTO {
	return CartSummaryDTO{TotalAmount: money(summary.TotalAmount), TotalItems: summary.TotalItems}
}
