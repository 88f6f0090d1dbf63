package model

import "time"

type NotificationKind string

const (
	NotificationPaymentSucceeded NotificationKind = "payment_succeeded"
)

// Notification (order_id, kind) 唯一，重複投遞不會產生第二筆
type Notification struct {
	ID        int64            `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64            `gorm:"not null;index" json:"user_id"`
	OrderID   int64            `gorm:"not null;uniqueIndex:idx_notifications_order_kind" json:"-"`
	OrderOID  string           `gorm:"column:order_oid;not null;type:varchar(36)" json:"order_oid"`
	Kind      NotificationKind `gorm:"not null;type:varchar(32);uniqueIndex:idx_notifications_order_kind" json:"kind"`
	Seen      bool             `gorm:"not null" json:"seen"`
	CreatedAt time.Time        `gorm:"not null;autoCreateTime" json:"created_at"`
}
