package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentInitiated  PaymentStatus = "initiated"
	PaymentProcessing PaymentStatus = "processing"
	PaymentPaid       PaymentStatus = "paid"
	PaymentFailed     PaymentStatus = "failed"
	PaymentRefunding  PaymentStatus = "refunding"
	PaymentRefunded   PaymentStatus = "refunded"
	PaymentCancelled  PaymentStatus = "cancelled"
	PaymentExpired    PaymentStatus = "expired"
)

// 合法的付款狀態轉移
var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentInitiated:  {PaymentProcessing},
	PaymentProcessing: {PaymentPaid, PaymentFailed, PaymentCancelled},
	PaymentPaid:       {PaymentRefunding},
	PaymentRefunding:  {PaymentRefunded},
}

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentInitiated, PaymentProcessing, PaymentPaid, PaymentFailed,
		PaymentRefunding, PaymentRefunded, PaymentCancelled, PaymentExpired:
		return true
	default:
		return false
	}
}

func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Payment 付款紀錄只新增不修改
type Payment struct {
	ID              int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID         int64           `gorm:"not null;index" json:"-"`
	UserID          *int64          `gorm:"index" json:"user_id"`
	ProviderOrderID string          `gorm:"not null;type:varchar(100);index" json:"provider_order_id"`
	Method          string          `gorm:"not null;type:varchar(32)" json:"method"`
	Amount          decimal.Decimal `gorm:"not null;type:decimal(12,2)" json:"amount"`
	Status          string          `gorm:"not null;type:varchar(32)" json:"status"`
	CreatedAt       time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
}
