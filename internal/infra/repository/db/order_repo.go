package db

import (
	"context"
	"time"

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/domain/model"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/infra/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 訂單建立後只允許更新狀態欄位
type OrderRepo struct {
	db *DbDao
}

func NewOrderRepo(db *DbDao) *OrderRepo {
	return &OrderRepo{db: db}
}

// Create - 創建訂單，Items 與 Delivery 由 gorm association 一併寫入
func (s *OrderRepo) CreateOrder(ctx context.Context, order *model.Order) error {
	return s.db.WithContext(ctx).Omit("Payments").Create(order).Error
}

// Read - 根據對外 oid 查詢訂單
func (s *OrderRepo) GetOrderByOID(ctx context.Context, oid string) (*model.Order, error) {
	var order model.Order
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Delivery").
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&order, "oid = ?", oid).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &order, nil
}

// LockOrderByOID 只鎖訂單本身，不載入明細
func (s *OrderRepo) LockOrderByOID(ctx context.Context, oid string) (*model.Order, error) {
	var order model.Order
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&order, "oid = ?", oid).Error
	if err != nil {
		return nil, translateErr(err)
	}
	return &order, nil
}

// Read - 根據用戶ID查詢訂單
func (s *OrderRepo) ListOrdersByUserID(ctx context.Context, userID int64) ([]model.Order, error) {
	var orders []model.Order
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Delivery").
		Where("user_id = ?", userID).
		Order("id DESC").
		Find(&orders).Error
	return orders, err
}

// Update - 更新訂單狀態
func (s *OrderRepo) UpdateOrderStatus(ctx context.Context, orderID int64, paymentStatus model.PaymentStatus, orderStatus model.OrderStatus) error {
	result := s.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"payment_status": paymentStatus,
			"order_status":   orderStatus,
			"updated_at":     time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (s *OrderRepo) CountOrders(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Order{}).Count(&count).Error
	return count, err
}

func (s *OrderRepo) CountOrderItems(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.OrderItem{}).Count(&count).Error
	return count, err
}
