// Package memory 提供 UnifiedDB 的 in-memory 實作，給本機開發與測試使用。
//
// ExecTx 會持有整個 store 的寫鎖直到 fn 結束，因此所有交易彼此序列化；
// fn 回傳錯誤時以交易開始前的快照還原。
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/domain/model"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/infra/repository"
)

type state struct {
	products      map[string]model.Product
	carts         map[string]model.Cart
	cartItems     map[int64]model.CartItem
	orders        map[int64]model.Order
	orderItems    map[int64]model.OrderItem
	deliveries    map[int64]model.DeliveryCharge // key: order id
	payments      map[int64]model.Payment
	notifications map[int64]model.Notification
	wishlist      map[int64]model.WishlistItem

	nextCartItemID     int64
	nextOrderID        int64
	nextOrderItemID    int64
	nextDeliveryID     int64
	nextPaymentID      int64
	nextNotificationID int64
	nextWishlistID     int64
}

func newState() *state {
	return &state{
		products:      make(map[string]model.Product),
		carts:         make(map[string]model.Cart),
		cartItems:     make(map[int64]model.CartItem),
		orders:        make(map[int64]model.Order),
		orderItems:    make(map[int64]model.OrderItem),
		deliveries:    make(map[int64]model.DeliveryCharge),
		payments:      make(map[int64]model.Payment),
		notifications: make(map[int64]model.Notification),
		wishlist:      make(map[int64]model.WishlistItem),
	}
}

// clone 存放的都是不含 association 的值，淺拷貝即可
func (s *state) clone() *state {
	c := *s
	c.products = cloneMap(s.products)
	c.carts = cloneMap(s.carts)
	c.cartItems = cloneMap(s.cartItems)
	c.orders = cloneMap(s.orders)
	c.orderItems = cloneMap(s.orderItems)
	c.deliveries = cloneMap(s.deliveries)
	c.payments = cloneMap(s.payments)
	c.notifications = cloneMap(s.notifications)
	c.wishlist = cloneMap(s.wishlist)
	return &c
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

type Store struct {
	mu   *sync.RWMutex
	data *state
	inTx bool
}

func NewStore() *Store {
	return &Store{
		mu:   &sync.RWMutex{},
		data: newState(),
	}
}

// transaction-aware locking helpers
func (m *Store) rlock() func() {
	if m.inTx {
		return func() {}
	}
	m.mu.RLock()
	return m.mu.RUnlock
}

func (m *Store) wlock() func() {
	if m.inTx {
		return func() {}
	}
	m.mu.Lock()
	return m.mu.Unlock
}

func (m *Store) InitMigrate() error {
	return nil
}

func (m *Store) Close() error {
	return nil
}

func (m *Store) ExecTx(ctx context.Context, fn func(tx repository.UnifiedDB) error) error {
	if m.inTx {
		return fn(m)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.data.clone()
	tx := &Store{mu: m.mu, data: m.data, inTx: true}

	defer func() {
		if r := recover(); r != nil {
			*m.data = *snapshot
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		*m.data = *snapshot
		return err
	}
	return nil
}

func now() time.Time {
	return time.Now().UTC()
}

var _ repository.UnifiedDB = (*Store)(nil)
