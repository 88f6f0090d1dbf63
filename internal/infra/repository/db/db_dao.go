package db

import (
	"errors"

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/domain/model"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/infra/repository"
	"gorm.io/gorm"
)

// DbDao 所有 repo 共用的連線，在交易內則是 tx
type DbDao struct {
	*gorm.DB
}

func NewDbDao(conn *gorm.DB) *DbDao {
	return &DbDao{
		DB: conn,
	}
}

// 初始化db schema
// 冪等性
func (d *DbDao) InitMigrate() error {
	return d.AutoMigrate(
		&model.Product{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.DeliveryCharge{},
		&model.Payment{},
		&model.Notification{},
		&model.WishlistItem{},
	)
}

// translateErr 將 gorm 錯誤轉成 repository 定義的錯誤
func translateErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repository.ErrNotFound
	}
	return err
}
