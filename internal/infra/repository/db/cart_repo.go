package db

import (
	"context"
	"time"

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/domain/model"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/infra/repository"
	"gorm.io/gorm/clause"
)

type CartRepo struct {
	db *DbDao
}

func NewCartRepo(db *DbDao) *CartRepo {
	return &CartRepo{db: db}
}

// CreateCart 同一個 user 併發建立時，只有第一筆會寫入
func (s *CartRepo) CreateCart(ctx context.Context, cart *model.Cart) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Omit("Items").Create(cart).Error
}

func (s *CartRepo) GetCartByID(ctx context.Context, cartID string) (*model.Cart, error) {
	var cart model.Cart
	err := s.db.WithContext(ctx).First(&cart, "cart_id = ?", cartID).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &cart, nil
}

func (s *CartRepo) GetCartByUserID(ctx context.Context, userID int64) (*model.Cart, error) {
	var cart model.Cart
	err := s.db.WithContext(ctx).First(&cart, "user_id = ?", userID).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &cart, nil
}

func (s *CartRepo) LockCart(ctx context.Context, cartID string) (*model.Cart, error) {
	var cart model.Cart
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&cart, "cart_id = ?", cartID).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &cart, nil
}

func (s *CartRepo) GetCartItem(ctx context.Context, cartID, productID string) (*model.CartItem, error) {
	var item model.CartItem
	err := s.db.WithContext(ctx).
		First(&item, "cart_id = ? AND product_id = ?", cartID, productID).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &item, nil
}

func (s *CartRepo) GetCartItemByID(ctx context.Context, itemID int64) (*model.CartItem, error) {
	var item model.CartItem
	err := s.db.WithContext(ctx).First(&item, "id = ?", itemID).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &item, nil
}

func (s *CartRepo) ListCartItems(ctx context.Context, cartID string) ([]model.CartItem, error) {
	var items []model.CartItem
	err := s.db.WithContext(ctx).
		Where("cart_id = ? AND is_active = ?", cartID, true).
		Order("id").
		Find(&items).Error
	return items, err
}

func (s *CartRepo) CreateCartItem(ctx context.Context, item *model.CartItem) error {
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *CartRepo) UpdateCartItem(ctx context.Context, itemID int64, quantity int, active bool) error {
	result := s.db.WithContext(ctx).Model(&model.CartItem{}).
		Where("id = ?", itemID).
		Updates(map[string]interface{}{
			"quantity":   quantity,
			"is_active":  active,
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (s *CartRepo) DeleteCartItem(ctx context.Context, itemID int64) error {
	result := s.db.WithContext(ctx).Where("id = ?", itemID).Delete(&model.CartItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (s *CartRepo) ClearCartItems(ctx context.Context, cartID string) (int64, error) {
	result := s.db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&model.CartItem{})
	return result.RowsAffected, result.Error
}
