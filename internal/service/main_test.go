package service

import (
	"context"
	"testing"

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/constants"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/domain/model"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/infra/repository/memory"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/pricing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var (
	customer = model.Identity{UserID: 1, Role: constants.RoleCustomer}
	stranger = model.Identity{UserID: 2, Role: constants.RoleCustomer}
	admin    = model.Identity{UserID: 99, Role: constants.RoleAdmin}
)

func validShipping() ShippingInfo {
	return ShippingInfo{
		FullName: "Ada Lovelace",
		Email:    "ada@example.com",
		Mobile:   "0912345678",
		Address:  "1 Analytical St",
		City:     "London",
		Country:  "UK",
	}
}

// newSeededStore 建立 memory store 並寫入測試商品
//
//	P-MUG  12.50  stock 10  300g
//	P-TEE  19.99  stock 5   250g
//	P-LAMP 45.00  stock 2   1800g
//	P-OLD   9.00  stock 10  inactive
func newSeededStore(t *testing.T) *memory.Store {
	store := memory.NewStore()
	ctx := context.Background()
	for _, p := range []model.Product{
		{ProductID: "P-MUG", Name: "Mug", Price: decimal.RequireFromString("12.50"), Stock: 10, WeightGrams: 300, IsActive: true},
		{ProductID: "P-TEE", Name: "T-Shirt", Price: decimal.RequireFromString("19.99"), Stock: 5, WeightGrams: 250, IsActive: true},
		{ProductID: "P-LAMP", Name: "Lamp", Price: decimal.RequireFromString("45.00"), Stock: 2, WeightGrams: 1800, IsActive: true},
		{ProductID: "P-OLD", Name: "Retired", Price: decimal.RequireFromString("9.00"), Stock: 10, WeightGrams: 100, IsActive: false},
	} {
		p := p
		require.NoError(t, store.UpsertProduct(ctx, &p))
	}
	return store
}

func deliveryCost(t *testing.T, mode pricing.DeliveryMode, grams int64) decimal.Decimal {
	cost, err := pricing.DeliveryCost(mode, grams)
	require.NoError(t, err)
	return cost
}
