package db

import (
	"context"

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/domain/model"
	"gorm.io/gorm/clause"
)

// 商品目錄屬於外部系統，這裡只提供讀取與 seed 用的寫入
type ProductRepo struct {
	db *DbDao
}

func NewProductRepo(db *DbDao) *ProductRepo {
	return &ProductRepo{db: db}
}

func (s *ProductRepo) CreateProduct(ctx context.Context, product *model.Product) error {
	return s.db.WithContext(ctx).Create(product).Error
}

func (s *ProductRepo) UpsertProduct(ctx context.Context, product *model.Product) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "price", "stock", "weight_grams", "is_active", "updated_at"}),
	}).Create(product).Error
}

func (s *ProductRepo) GetProductByID(ctx context.Context, productID string) (*model.Product, error) {
	var product model.Product
	err := s.db.WithContext(ctx).First(&product, "product_id = ?", productID).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &product, nil
}

func (s *ProductRepo) GetProductsByIDs(ctx context.Context, productIDs []string) ([]model.Product, error) {
	var products []model.Product
	if len(productIDs) == 0 {
		return products, nil
	}
	err := s.db.WithContext(ctx).Where("product_id IN ?", productIDs).Find(&products).Error
	return products, err
}

func (s *ProductRepo) ListProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := s.db.WithContext(ctx).Order("product_id").Find(&products).Error
	return products, err
}
