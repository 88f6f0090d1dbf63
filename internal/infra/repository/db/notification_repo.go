package db

import (
	"context"

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/domain/model"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/infra/repository"
	"gorm.io/gorm/clause"
)

type NotificationRepo struct {
	db *DbDao
}

func NewNotificationRepo(db *DbDao) *NotificationRepo {
	return &NotificationRepo{db: db}
}

// CreateNotificationIfNotExists (order_id, kind) 衝突時忽略
func (s *NotificationRepo) CreateNotificationIfNotExists(ctx context.Context, notification *model.Notification) (bool, error) {
	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "order_id"}, {Name: "kind"}},
		DoNothing: true,
	}).Create(notification)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (s *NotificationRepo) ListNotificationsByUserID(ctx context.Context, userID int64) ([]model.Notification, error) {
	var notifications []model.Notification
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("id DESC").Find(&notifications).Error
	return notifications, err
}

func (s *NotificationRepo) MarkNotificationSeen(ctx context.Context, userID, notificationID int64) error {
	result := s.db.WithContext(ctx).Model(&model.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("seen", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
