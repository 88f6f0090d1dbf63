package memory

import (
	"context"
	"sort"

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/domain/model"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/infra/repository"
)

func (m *Store) CreatePayment(ctx context.Context, payment *model.Payment) error {
	defer m.wlock()()
	if _, ok := m.data.orders[payment.OrderID]; !ok {
		return repository.ErrNotFound
	}
	m.data.nextPaymentID++
	payment.ID = m.data.nextPaymentID
	payment.CreatedAt = now()
	m.data.payments[payment.ID] = *payment
	return nil
}

// paymentsOf 呼叫端需持有鎖
func (m *Store) paymentsOf(orderID int64) []model.Payment {
	out := make([]model.Payment, 0)
	for _, p := range m.data.payments {
		if p.OrderID == orderID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
