package memory

import (
	"context"
	"sort"

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/domain/model"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/infra/repository"
)

func (m *Store) CreateNotificationIfNotExists(ctx context.Context, notification *model.Notification) (bool, error) {
	defer m.wlock()()
	for _, n := range m.data.notifications {
		if n.OrderID == notification.OrderID && n.Kind == notification.Kind {
			return false, nil
		}
	}
	m.data.nextNotificationID++
	notification.ID = m.data.nextNotificationID
	notification.CreatedAt = now()
	m.data.notifications[notification.ID] = *notification
	return true, nil
}

func (m *Store) ListNotificationsByUserID(ctx context.Context, userID int64) ([]model.Notification, error) {
	defer m.rlock()()
	out := make([]model.Notification, 0)
	for _, n := range m.data.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *Store) MarkNotificationSeen(ctx context.Context, userID, notificationID int64) error {
	defer m.wlock()()
	n, ok := m.data.notifications[notificationID]
	if !ok || n.UserID != userID {
		return repository.ErrNotFound
	}
	n.Seen = true
	m.data.notifications[notificationID] = n
	return nil
}
