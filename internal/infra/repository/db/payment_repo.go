package db

import (
	"context"

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/domain/model"
)

// 付款紀錄只新增
type PaymentRepo struct {
	db *DbDao
}

func NewPaymentRepo(db *DbDao) *PaymentRepo {
	return &PaymentRepo{db: db}
}

func (s *PaymentRepo) CreatePayment(ctx context.Context, payment *model.Payment) error {
	return s.db.WithContext(ctx).Create(payment).Error
}

