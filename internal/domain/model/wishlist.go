package model

import "time"

// WishlistItem (user_id, product_id) 唯一
type WishlistItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:idx_wishlist_items_user_product" json:"user_id"`
	ProductID string    `gorm:"not null;type:varchar(64);uniqueIndex:idx_wishlist_items_user_product" json:"product_id"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
