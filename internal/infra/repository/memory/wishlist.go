package memory

import (
	"context"
	"sort"

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/domain/model"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/infra/repository"
)

func (m *Store) findWishlistItem(userID int64, productID string) (model.WishlistItem, bool) {
	for _, w := range m.data.wishlist {
		if w.UserID == userID && w.ProductID == productID {
			return w, true
		}
	}
	return model.WishlistItem{}, false
}

func (m *Store) GetWishlistItem(ctx context.Context, userID int64, productID string) (*model.WishlistItem, error) {
	defer m.rlock()()
	w, ok := m.findWishlistItem(userID, productID)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &w, nil
}

func (m *Store) CreateWishlistItemIfNotExists(ctx context.Context, item *model.WishlistItem) (bool, error) {
	defer m.wlock()()
	if _, ok := m.data.products[item.ProductID]; !ok {
		return false, repository.ErrNotFound
	}
	if _, ok := m.findWishlistItem(item.UserID, item.ProductID); ok {
		return false, nil
	}
	m.data.nextWishlistID++
	item.ID = m.data.nextWishlistID
	item.CreatedAt = now()
	m.data.wishlist[item.ID] = *item
	return true, nil
}

func (m *Store) DeleteWishlistItem(ctx context.Context, userID int64, productID string) error {
	defer m.wlock()()
	w, ok := m.findWishlistItem(userID, productID)
	if !ok {
		return repository.ErrNotFound
	}
	delete(m.data.wishlist, w.ID)
	return nil
}

func (m *Store) ListWishlistItemsByUserID(ctx context.Context, userID int64) ([]model.WishlistItem, error) {
	defer m.rlock()()
	out := make([]model.WishlistItem, 0)
	for _, w := range m.data.wishlist {
		if w.UserID == userID {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}
