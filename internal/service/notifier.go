package service

import (
	"context"

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/domain/model/event"
)

// Notifier 付款成功後的通知出口，失敗不影響付款狀態
type Notifier interface {
	PaymentSucceeded(ctx context.Context, evt *event.PaymentSucceededEvent) error
}

// DirectNotifier 未設定 kafka 時，直接在 process 內寫入通知
type DirectNotifier struct {
	notifications INotificationService
}

func NewDirectNotifier(notifications INotificationService) *DirectNotifier {
	if notifications == nil {
		panic("notificationService cannot be nil")
	}
	return &DirectNotifier{notifications: notifications}
}

func (n *DirectNotifier) PaymentSucceeded(ctx context.Context, evt *event.PaymentSucceededEvent) error {
	return n.notifications.RecordPaymentSucceeded(ctx, evt)
}

var _ Notifier = (*DirectNotifier)(nil)
