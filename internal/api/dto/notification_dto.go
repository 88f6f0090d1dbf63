package dto

import (
	"time"

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/domain/model"
)

type NotificationDTO struct {
	ID        int64     `json:"id"`
	OrderID   string    `json:"order_id"`
	Kind      string    `json:"kind"`
	Seen      bool      `json:"seen"`
	CreatedAt time.Time `json:"created_at"`
}

func NewNotificationDTOs(list []model.Notification) []NotificationDTO {
	out := make([]NotificationDTO, 0, len(list))
	for _, n := range list {
		out = append(out, NotificationDTO{
			ID:        n.ID,
			OrderID:   n.OrderOID,
			Kind:      string(n.Kind),
			Seen:      n.Seen,
			CreatedAt: n.CreatedAt,
		})
	}
	return out
}
