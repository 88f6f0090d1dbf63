package service

import (
	"context"
	"strings"

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/apperr"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/domain/model"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/infra/repository"
)

type IProductService interface {
	GetProduct(ctx context.Context, productID string) (*model.Product, error)
	ListProducts(ctx context.Context) ([]model.Product, error)
	// SeedProducts 以 product_id 覆寫匯入，回傳寫入筆數
	SeedProducts(ctx context.Context, products []model.Product) (int, error)
}

// ProductService 商品目錄唯讀面，寫入只提供給 seed
type ProductService struct {
	store repository.IProductRepository
}

func NewProductService(store repository.IProductRepository) *ProductService {
	if store == nil {
		panic("productRepository cannot be nil")
	}
	return &ProductService{store: store}
}

func (s *ProductService) GetProduct(ctx context.Context, productID string) (*model.Product, error) {
	product, err := s.store.GetProductByID(ctx, productID)
	if err != nil {
		return nil, storeErr(err, CodeProductNotFound, "product not found")
	}
	return product, nil
}

func (s *ProductService) ListProducts(ctx context.Context) ([]model.Product, error) {
	products, err := s.store.ListProducts(ctx)
	if err != nil {
		return nil, storeErr(err, CodeProductNotFound, "product not found")
	}
	return products, nil
}

func (s *ProductService) SeedProducts(ctx context.Context, products []model.Product) (int, error) {
	for i := range products {
		p := &products[i]
		if strings.TrimSpace(p.ProductID) == "" || strings.TrimSpace(p.Name) == "" {
			return i, apperr.Validation("invalid_product", "product_id and name are required")
		}
		if p.Price.IsNegative() || p.Stock < 0 || p.WeightGrams < 0 {
			return i, apperr.Validation("invalid_product", "price, stock and weight must not be negative")
		}
		if err := s.store.UpsertProduct(ctx, p); err != nil {
			return i, storeErr(err, CodeProductNotFound, "product not found")
		}
	}
	return len(products), nil
}

var _ IProductService = (*ProductService)(nil)
