package db

import (
	"context"

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/domain/model"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/infra/repository"
	"gorm.io/gorm/clause"
)

type WishlistRepo struct {
	db *DbDao
}

func NewWishlistRepo(db *DbDao) *WishlistRepo {
	return &WishlistRepo{db: db}
}

func (s *WishlistRepo) GetWishlistItem(ctx context.Context, userID int64, productID string) (*model.WishlistItem, error) {
	var item model.WishlistItem
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&item).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &item, nil
}

// CreateWishlistItemIfNotExists (user_id, product_id) 衝突時忽略
func (s *WishlistRepo) CreateWishlistItemIfNotExists(ctx context.Context, item *model.WishlistItem) (bool, error) {
	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
		DoNothing: true,
	}).Create(item)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (s *WishlistRepo) DeleteWishlistItem(ctx context.Context, userID int64, productID string) error {
	result := s.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&model.WishlistItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (s *WishlistRepo) ListWishlistItemsByUserID(ctx context.Context, userID int64) ([]model.WishlistItem, error) {
	var items []model.WishlistItem
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id DESC").Find(&items).Error
	return items, err
}
