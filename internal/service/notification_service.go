package service

import (
	"context"

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/apperr"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/domain/model"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/domain/model/event"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/infra/repository"
	"github.com/rs/zerolog"
)

type INotificationService interface {
	// RecordPaymentSucceeded 同一張訂單只會寫入一筆
	RecordPaymentSucceeded(ctx context.Context, evt *event.PaymentSucceededEvent) error
	ListNotifications(ctx context.Context, userID int64) ([]model.Notification, error)
	MarkSeen(ctx context.Context, userID, notificationID int64) error
}

type NotificationService struct {
	store  repository.INotificationRepository
	logger *zerolog.Logger
}

func NewNotificationService(store repository.INotificationRepository, logger *zerolog.Logger) *NotificationService {
	if store == nil {
		panic("notificationRepository cannot be nil")
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &NotificationService{store: store, logger: logger}
}

func (s *NotificationService) RecordPaymentSucceeded(ctx context.Context, evt *event.PaymentSucceededEvent) error {
	if evt == nil || evt.UserID <= 0 || evt.OrderID <= 0 {
		s.logger.Warn().Msg("skip payment notification without user or order")
		return nil
	}

	created, err := s.store.CreateNotificationIfNotExists(ctx, &model.Notification{
		UserID:   evt.UserID,
		OrderID:  evt.OrderID,
		OrderOID: evt.OrderOID,
		Kind:     model.NotificationPaymentSucceeded,
	})
	if err != nil {
		return apperr.Unavailable(CodeStoreUnavailable, err)
	}

	if created {
		s.logger.Info().Str("order_oid", evt.OrderOID).Int64("user_id", evt.UserID).Msg("notification recorded")
	} else {
		s.logger.Debug().Str("order_oid", evt.OrderOID).Msg("duplicate payment notification ignored")
	}
	return nil
}

func (s *NotificationService) ListNotifications(ctx context.Context, userID int64) ([]model.Notification, error) {
	if userID <= 0 {
		return nil, apperr.Forbidden(CodeForbidden, "identity required")
	}
	out, err := s.store.ListNotificationsByUserID(ctx, userID)
	if err != nil {
		return nil, apperr.Unavailable(CodeStoreUnavailable, err)
	}
	return out, nil
}

func (s *NotificationService) MarkSeen(ctx context.Context, userID, notificationID int64) error {
	if userID <= 0 {
		return apperr.Forbidden(CodeForbidden, "identity required")
	}
	if err := s.store.MarkNotificationSeen(ctx, userID, notificationID); err != nil {
		return storeErr(err, CodeNotificationMissing, "notification not found")
	}
	return nil
}

var _ INotificationService = (*NotificationService)(nil)
