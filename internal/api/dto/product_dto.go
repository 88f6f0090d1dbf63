package dto

import "github.com/Ali-Sina-255/franch-OnlineShopping/internal/domain/model"

type ProductDTO struct {
	ProductID   string `json:"product_id"`
	Name        string `json:"name"`
	Price       string `json:"price"`
	Stock       int    `json:"stock"`
	WeightGrams int64  `json:"weight_grams"`
}

// NewProductDTOs 下架商品不對外顯示
func NewProductDTOs(products []model.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(products))
	for _, p := range products {
		if !p.IsActive {
			continue
		}
		out = append(out, NewProductDTO(p))
	}
	return out
}

func NewProductDTO(p model.Product) ProductDTO {
	return ProductDTO{
		ProductID:   p.ProductID,
		Name:        p.Name,
		Price:       money(p.Price),
		Stock:       p.Stock,
		WeightGrams: p.WeightGrams,
	}
}
