package model

// Cart 每個使用者只有一台購物車 (user_id unique)
type Cart struct {
	CartID string     `gorm:"primaryKey;type:varchar(36)" json:"cart_id"`
	UserID int64      `gorm:"not null;uniqueIndex" json:"user_id"`
	Items  []CartItem `gorm:"foreignKey:CartID;references:CartID" json:"items,omitempty"`
	BaseModel
}

func (c *Cart) OwnedBy(userID int64) bool {
	return c != nil && userID > 0 && c.UserID == userID
}

// CartItem 同一台購物車內同一商品只會有一筆
// IsActive=false 的明細不計入金額與數量
type CartItem struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	CartID    string `gorm:"not null;type:varchar(36);uniqueIndex:idx_cart_items_cart_product" json:"cart_id"`
	ProductID string `gorm:"not null;type:varchar(64);uniqueIndex:idx_cart_items_cart_product" json:"product_id"`
	Quantity  int    `gorm:"not null" json:"quantity"`
	IsActive  bool   `gorm:"not null" json:"is_active"`
	BaseModel
}
