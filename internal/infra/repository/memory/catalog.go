package memory

import (
	"context"
	"errors"
	"sort"

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/domain/model"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/infra/repository"
)

var ErrDuplicateKey = errors.New("duplicate key value violates unique constraint")

func (m *Store) CreateProduct(ctx context.Context, product *model.Product) error {
	defer m.wlock()()
	if _, ok := m.data.products[product.ProductID]; ok {
		return ErrDuplicateKey
	}
	product.CreatedAt, product.UpdatedAt = now(), now()
	m.data.products[product.ProductID] = *product
	return nil
}

func (m *Store) UpsertProduct(ctx context.Context, product *model.Product) error {
	defer m.wlock()()
	if existing, ok := m.data.products[product.ProductID]; ok {
		product.CreatedAt = existing.CreatedAt
	} else {
		product.CreatedAt = now()
	}
	product.UpdatedAt = now()
	m.data.products[product.ProductID] = *product
	return nil
}

func (m *Store) GetProductByID(ctx context.Context, productID string) (*model.Product, error) {
	defer m.rlock()()
	p, ok := m.data.products[productID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (m *Store) GetProductsByIDs(ctx context.Context, productIDs []string) ([]model.Product, error) {
	defer m.rlock()()
	out := make([]model.Product, 0, len(productIDs))
	seen := make(map[string]struct{}, len(productIDs))
	for _, id := range productIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if p, ok := m.data.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *Store) ListProducts(ctx context.Context) ([]model.Product, error) {
	defer m.rlock()()
	out := make([]model.Product, 0, len(m.data.products))
	for _, p := range m.data.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}
