package model

import (
	"time"

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/pricing"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending            OrderStatus = "pending"
	OrderFulfilled          OrderStatus = "fulfilled"
	OrderPartiallyFulfilled OrderStatus = "partially_fulfilled"
	OrderCancelled          OrderStatus = "cancelled"
)

// Order 建立後身分不變；OID 為對外使用的不可猜測 id，ID 只在內部使用。
// Total 一律由 OrderItem 與運費重新計算，不接受外部輸入。
type Order struct {
	ID            int64           `gorm:"primaryKey;autoIncrement" json:"-"`
	OID           string          `gorm:"column:oid;not null;uniqueIndex;type:varchar(36)" json:"oid"`
	UserID        *int64          `gorm:"index" json:"user_id"`
	FullName      string          `gorm:"not null;type:varchar(100)" json:"full_name"`
	Email         string          `gorm:"not null;type:varchar(100)" json:"email"`
	Mobile        string          `gorm:"not null;type:varchar(32)" json:"mobile"`
	Address       string          `gorm:"type:varchar(255)" json:"address"`
	City          string          `gorm:"type:varchar(100)" json:"city"`
	State         string          `gorm:"type:varchar(100)" json:"state"`
	Country       string          `gorm:"type:varchar(100)" json:"country"`
	PaymentStatus PaymentStatus   `gorm:"not null;type:varchar(20);index" json:"payment_status"`
	OrderStatus   OrderStatus     `gorm:"not null;type:varchar(32)" json:"order_status"`
	Total         decimal.Decimal `gorm:"not null;type:decimal(12,2)" json:"total"`
	OrderDate     time.Time       `gorm:"not null" json:"order_date"`
	Items         []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	Delivery      *DeliveryCharge `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"delivery,omitempty"`
	Payments      []Payment       `gorm:"foreignKey:OrderID" json:"payments,omitempty"`
	BaseModel
}

func (o *Order) OwnedBy(userID int64) bool {
	return o != nil && o.UserID != nil && userID > 0 && *o.UserID == userID
}

// RecomputeTotal Σ item.Total + 運費
func (o *Order) RecomputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.Total)
	}
	if o.Delivery != nil {
		total = total.Add(o.Delivery.Cost)
	}
	return total
}

// OrderItem 下單當下的商品快照，建立後不再變動
type OrderItem struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID     int64           `gorm:"not null;index" json:"-"`
	ProductID   string          `gorm:"not null;type:varchar(64)" json:"product_id"`
	ProductName string          `gorm:"not null;type:varchar(255)" json:"product_name"`
	UnitPrice   decimal.Decimal `gorm:"not null;type:decimal(12,2)" json:"unit_price"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	SubTotal    decimal.Decimal `gorm:"not null;type:decimal(12,2)" json:"sub_total"`
	Total       decimal.Decimal `gorm:"not null;type:decimal(12,2)" json:"total"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
}

type DeliveryCharge struct {
	ID          int64                `gorm:"primaryKey;autoIncrement" json:"-"`
	OrderID     int64                `gorm:"not null;uniqueIndex" json:"-"`
	Mode        pricing.DeliveryMode `gorm:"not null;type:varchar(20)" json:"mode"`
	WeightGrams int64                `gorm:"not null" json:"weight_grams"`
	Cost        decimal.Decimal      `gorm:"not null;type:decimal(12,2)" json:"cost"`
	CreatedAt   time.Time            `gorm:"not null;autoCreateTime" json:"created_at"`
}
