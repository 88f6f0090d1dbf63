package event

import (
	"github.com/shopspring/decimal"
)

// PaymentSucceededEvent 付款套用成功後送往通知服務
type PaymentSucceededEvent struct {
	BaseEvent
	OrderID         int64           `json:"orderId"`
	OrderOID        string          `json:"orderOid"`
	UserID          int64           `json:"userId"`
	ProviderOrderID string          `json:"providerOrderId"`
	Amount          decimal.Decimal `json:"amount"`
}

func NewPaymentSucceededEvent(orderID int64, oid string, userID int64, providerOrderID string, amount decimal.Decimal) *PaymentSucceededEvent {
	return &PaymentSucceededEvent{
		BaseEvent:       NewBaseEvent(oid, PaymentSucceededEventName),
		OrderID:         orderID,
		OrderOID:        oid,
		UserID:          userID,
		ProviderOrderID: providerOrderID,
		Amount:          amount,
	}
}

func (e *PaymentSucceededEvent) Type() EventType {
	return PaymentSucceededEventName
}

var _ Event = (*PaymentSucceededEvent)(nil)
