package repository

import (
	"context"
	"errors"

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/domain/model"
)

var (
	// ErrNotFound 查無資料
	ErrNotFound = errors.New("record not found")
)

// UnifiedDB 統一的資料庫介面，postgres 與 memory 實作都要滿足
type UnifiedDB interface {
	// 基礎操作
	InitMigrate() error
	// ExecTx 在同一個交易內執行 fn，fn 回傳錯誤則整筆 rollback
	// fn 內必須使用參數 tx，而不是外層的 UnifiedDB
	ExecTx(ctx context.Context, fn func(tx UnifiedDB) error) error
	Close() error

	IProductRepository
	ICartRepository
	IOrderRepository
	IPaymentRepository
	INotificationRepository
	IWishlistRepository
}

// IProductRepository Product 相關操作介面
type IProductRepository interface {
	CreateProduct(ctx context.Context, product *model.Product) error
	// UpsertProduct 以 product_id 為鍵新增或覆寫
	UpsertProduct(ctx context.Context, product *model.Product) error
	GetProductByID(ctx context.Context, productID string) (*model.Product, error)
	GetProductsByIDs(ctx context.Context, productIDs []string) ([]model.Product, error)
	ListProducts(ctx context.Context) ([]model.Product, error)
}

// ICartRepository Cart 相關操作介面
type ICartRepository interface {
	// CreateCart user_id 已存在時不做任何事
	CreateCart(ctx context.Context, cart *model.Cart) error
	GetCartByID(ctx context.Context, cartID string) (*model.Cart, error)
	GetCartByUserID(ctx context.Context, userID int64) (*model.Cart, error)
	// LockCart 取得 row lock (FOR UPDATE)，只在 ExecTx 內有意義
	LockCart(ctx context.Context, cartID string) (*model.Cart, error)

	GetCartItem(ctx context.Context, cartID, productID string) (*model.CartItem, error)
	GetCartItemByID(ctx context.Context, itemID int64) (*model.CartItem, error)
	// ListCartItems 只回傳 active 明細
	ListCartItems(ctx context.Context, cartID string) ([]model.CartItem, error)
	CreateCartItem(ctx context.Context, item *model.CartItem) error
	UpdateCartItem(ctx context.Context, itemID int64, quantity int, active bool) error
	DeleteCartItem(ctx context.Context, itemID int64) error
	ClearCartItems(ctx context.Context, cartID string) (int64, error)
}

// IOrderRepository Order 相關操作介面
type IOrderRepository interface {
	// CreateOrder 連同 Items、Delivery 一起寫入
	CreateOrder(ctx context.Context, order *model.Order) error
	GetOrderByOID(ctx context.Context, oid string) (*model.Order, error)
	// LockOrderByOID 取得 row lock (FOR UPDATE)，只在 ExecTx 內有意義
	LockOrderByOID(ctx context.Context, oid string) (*model.Order, error)
	ListOrdersByUserID(ctx context.Context, userID int64) ([]model.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, paymentStatus model.PaymentStatus, orderStatus model.OrderStatus) error
	CountOrders(ctx context.Context) (int64, error)
	CountOrderItems(ctx context.Context) (int64, error)
}

// IPaymentRepository Payment 相關操作介面，只新增不修改
type IPaymentRepository interface {
	CreatePayment(ctx context.Context, payment *model.Payment) error
}

// INotificationRepository Notification 相關操作介面
type INotificationRepository interface {
	// CreateNotificationIfNotExists 回傳 true 表示新寫入
	CreateNotificationIfNotExists(ctx context.Context, notification *model.Notification) (bool, error)
	ListNotificationsByUserID(ctx context.Context, userID int64) ([]model.Notification, error)
	// MarkNotificationSeen 只能標記自己的通知，否則回傳 ErrNotFound
	MarkNotificationSeen(ctx context.Context, userID, notificationID int64) error
}

// IWishlistRepository WishlistItem 相關操作介面
type IWishlistRepository interface {
	GetWishlistItem(ctx context.Context, userID int64, productID string) (*model.WishlistItem, error)
	// CreateWishlistItemIfNotExists 回傳 true 表示新寫入
	CreateWishlistItemIfNotExists(ctx context.Context, item *model.WishlistItem) (bool, error)
	// DeleteWishlistItem 不存在時回傳 ErrNotFound
	DeleteWishlistItem(ctx context.Context, userID int64, productID string) error
	// ListWishlistItemsByUserID 依加入時間由新到舊
	ListWishlistItemsByUserID(ctx context.Context, userID int64) ([]model.WishlistItem, error)
}
