package model

import "github.com/shopspring/decimal"

// Product 商品目錄(唯讀)，購物車與訂單只引用其 id 與當下價格
type Product struct {
	ProductID   string          `gorm:"primaryKey;type:varchar(64)" json:"product_id"`
	Name        string          `gorm:"not null;type:varchar(255)" json:"name"`
	Price       decimal.Decimal `gorm:"not null;type:decimal(12,2)" json:"price"`
	Stock       int             `gorm:"not null" json:"stock"`
	WeightGrams int64           `gorm:"not null" json:"weight_grams"`
	IsActive    bool            `gorm:"not null" json:"is_active"`
	BaseModel
}
