package memory

import (
	"context"
	"sort"

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/domain/model"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/infra/repository"
)

func (m *Store) CreateOrder(ctx context.Context, order *model.Order) error {
	defer m.wlock()()
	for _, o := range m.data.orders {
		if o.OID == order.OID {
			return ErrDuplicateKey
		}
	}

	m.data.nextOrderID++
	order.ID = m.data.nextOrderID
	order.CreatedAt, order.UpdatedAt = now(), now()

	for i := range order.Items {
		m.data.nextOrderItemID++
		order.Items[i].ID = m.data.nextOrderItemID
		order.Items[i].OrderID = order.ID
		order.Items[i].CreatedAt = now()
		m.data.orderItems[order.Items[i].ID] = order.Items[i]
	}
	if order.Delivery != nil {
		m.data.nextDeliveryID++
		order.Delivery.ID = m.data.nextDeliveryID
		order.Delivery.OrderID = order.ID
		order.Delivery.CreatedAt = now()
		m.data.deliveries[order.ID] = *order.Delivery
	}

	stored := *order
	stored.Items, stored.Delivery, stored.Payments = nil, nil, nil
	m.data.orders[order.ID] = stored
	return nil
}

func (m *Store) findOrderByOID(oid string) (model.Order, bool) {
	for _, o := range m.data.orders {
		if o.OID == oid {
			return o, true
		}
	}
	return model.Order{}, false
}

// assemble 補上 Items、Delivery、Payments，呼叫端需持有鎖
func (m *Store) assemble(o model.Order, withPayments bool) model.Order {
	o.Items = make([]model.OrderItem, 0)
	for _, item := range m.data.orderItems {
		if item.OrderID == o.ID {
			o.Items = append(o.Items, item)
		}
	}
	sort.Slice(o.Items, func(i, j int) bool { return o.Items[i].ID < o.Items[j].ID })

	if d, ok := m.data.deliveries[o.ID]; ok {
		o.Delivery = &d
	}
	if withPayments {
		o.Payments = m.paymentsOf(o.ID)
	}
	return o
}

func (m *Store) GetOrderByOID(ctx context.Context, oid string) (*model.Order, error) {
	defer m.rlock()()
	o, ok := m.findOrderByOID(oid)
	if !ok {
		return nil, repository.ErrNotFound
	}
	full := m.assemble(o, true)
	return &full, nil
}

func (m *Store) LockOrderByOID(ctx context.Context, oid string) (*model.Order, error) {
	defer m.rlock()()
	o, ok := m.findOrderByOID(oid)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &o, nil
}

func (m *Store) ListOrdersByUserID(ctx context.Context, userID int64) ([]model.Order, error) {
	defer m.rlock()()
	out := make([]model.Order, 0)
	for _, o := range m.data.orders {
		if o.UserID != nil && *o.UserID == userID {
			out = append(out, m.assemble(o, false))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *Store) UpdateOrderStatus(ctx context.Context, orderID int64, paymentStatus model.PaymentStatus, orderStatus model.OrderStatus) error {
	defer m.wlock()()
	o, ok := m.data.orders[orderID]
	if !ok {
		return repository.ErrNotFound
	}
	o.PaymentStatus = paymentStatus
	o.OrderStatus = orderStatus
	o.UpdatedAt = now()
	m.data.orders[orderID] = o
	return nil
}

func (m *Store) CountOrders(ctx context.Context) (int64, error) {
	defer m.rlock()()
	return int64(len(m.data.orders)), nil
}

func (m *Store) CountOrderItems(ctx context.Context) (int64, error) {
	defer m.rlock()()
	return int64(len(m.data.orderItems)), nil
}
