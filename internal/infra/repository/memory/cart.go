package memory

import (
	"context"
	"sort"

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/domain/model"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/infra/repository"
)

func (m *Store) CreateCart(ctx context.Context, cart *model.Cart) error {
	defer m.wlock()()
	for _, c := range m.data.carts {
		if c.UserID == cart.UserID {
			return nil
		}
	}
	cart.CreatedAt, cart.UpdatedAt = now(), now()
	stored := *cart
	stored.Items = nil
	m.data.carts[cart.CartID] = stored
	return nil
}

func (m *Store) GetCartByID(ctx context.Context, cartID string) (*model.Cart, error) {
	defer m.rlock()()
	c, ok := m.data.carts[cartID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (m *Store) GetCartByUserID(ctx context.Context, userID int64) (*model.Cart, error) {
	defer m.rlock()()
	for _, c := range m.data.carts {
		if c.UserID == userID {
			cp := c
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

// LockCart 交易本身已持有寫鎖
func (m *Store) LockCart(ctx context.Context, cartID string) (*model.Cart, error) {
	return m.GetCartByID(ctx, cartID)
}

func (m *Store) GetCartItem(ctx context.Context, cartID, productID string) (*model.CartItem, error) {
	defer m.rlock()()
	for _, item := range m.data.cartItems {
		if item.CartID == cartID && item.ProductID == productID {
			cp := item
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *Store) GetCartItemByID(ctx context.Context, itemID int64) (*model.CartItem, error) {
	defer m.rlock()()
	item, ok := m.data.cartItems[itemID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &item, nil
}

func (m *Store) ListCartItems(ctx context.Context, cartID string) ([]model.CartItem, error) {
	defer m.rlock()()
	out := make([]model.CartItem, 0)
	for _, item := range m.data.cartItems {
		if item.CartID == cartID && item.IsActive {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Store) CreateCartItem(ctx context.Context, item *model.CartItem) error {
	defer m.wlock()()
	if _, ok := m.data.carts[item.CartID]; !ok {
		return repository.ErrNotFound
	}
	for _, existing := range m.data.cartItems {
		if existing.CartID == item.CartID && existing.ProductID == item.ProductID {
			return ErrDuplicateKey
		}
	}
	m.data.nextCartItemID++
	item.ID = m.data.nextCartItemID
	item.CreatedAt, item.UpdatedAt = now(), now()
	m.data.cartItems[item.ID] = *item
	return nil
}

func (m *Store) UpdateCartItem(ctx context.Context, itemID int64, quantity int, active bool) error {
	defer m.wlock()()
	item, ok := m.data.cartItems[itemID]
	if !ok {
		return repository.ErrNotFound
	}
	item.Quantity = quantity
	item.IsActive = active
	item.UpdatedAt = now()
	m.data.cartItems[itemID] = item
	return nil
}

func (m *Store) DeleteCartItem(ctx context.Context, itemID int64) error {
	defer m.wlock()()
	if _, ok := m.data.cartItems[itemID]; !ok {
		return repository.ErrNotFound
	}
	delete(m.data.cartItems, itemID)
	return nil
}

func (m *Store) ClearCartItems(ctx context.Context, cartID string) (int64, error) {
	defer m.wlock()()
	var n int64
	for id, item := range m.data.cartItems {
		if item.CartID == cartID {
			delete(m.data.cartItems, id)
			n++
		}
	}
	return n, nil
}
