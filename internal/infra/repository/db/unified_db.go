package db

import (
	"context"

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/infra/repository"
	"gorm.io/gorm"
)

// UnifiedDBImpl 統一資料庫實現，每個 aggregate 的 repo 以內嵌方式組合
type UnifiedDBImpl struct {
	db    *gorm.DB
	dbDao *DbDao
	*ProductRepo
	*CartRepo
	*OrderRepo
	*PaymentRepo
	*NotificationRepo
	*WishlistRepo
}

// NewUnifiedDB 創建新的統一資料庫實例，傳入 tx 時所有 repo 共用該交易
func NewUnifiedDB(db *gorm.DB) *UnifiedDBImpl {
	dbDao := NewDbDao(db)
	return &UnifiedDBImpl{
		db:               db,
		dbDao:            dbDao,
		ProductRepo:      NewProductRepo(dbDao),
		CartRepo:         NewCartRepo(dbDao),
		OrderRepo:        NewOrderRepo(dbDao),
		PaymentRepo:      NewPaymentRepo(dbDao),
		NotificationRepo: NewNotificationRepo(dbDao),
		WishlistRepo:     NewWishlistRepo(dbDao),
	}
}

func (u *UnifiedDBImpl) InitMigrate() error {
	return u.dbDao.InitMigrate()
}

// ExecTx 開始事務，fn 回傳錯誤或 panic 時 rollback
func (u *UnifiedDBImpl) ExecTx(ctx context.Context, fn func(tx repository.UnifiedDB) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewUnifiedDB(tx))
	})
}

func (u *UnifiedDBImpl) Close() error {
	sqlDB, err := u.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

var (
	_ repository.UnifiedDB               = (*UnifiedDBImpl)(nil)
	_ repository.IProductRepository      = (*ProductRepo)(nil)
	_ repository.ICartRepository         = (*CartRepo)(nil)
	_ repository.IOrderRepository        = (*OrderRepo)(nil)
	_ repository.IPaymentRepository      = (*PaymentRepo)(nil)
	_ repository.INotificationRepository = (*NotificationRepo)(nil)
	_ repository.IWishlistRepository     = (*WishlistRepo)(nil)
)
