// Package pricing 計算購物車、訂單金額與運費級距，不做任何 I/O。
//
// 金額一律使用 decimal，避免 float 在多次加總後產生誤差。
package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrUnknownDeliveryMode = errors.New("unknown delivery mode")

type DeliveryMode string

const (
	// DeliveryNone 不需要運送
	DeliveryNone DeliveryMode = ""
	// DeliveryLocation 宅配到府
	DeliveryLocation DeliveryMode = "location"
	// DeliveryStation 取貨站
	DeliveryStation DeliveryMode = "station"
)

func (m DeliveryMode) IsValid() bool {
	switch m {
	case DeliveryNone, DeliveryLocation, DeliveryStation:
		return true
	default:
		return false
	}
}

// Tier 重量上限(含)與對應運費
type Tier struct {
	MaxGrams int64
	Cost     decimal.Decimal
}

var deliveryTiers = map[DeliveryMode][]Tier{
	DeliveryLocation: {
		{MaxGrams: 500, Cost: decimal.RequireFromString("4.50")},
		{MaxGrams: 1000, Cost: decimal.RequireFromString("5.50")},
		{MaxGrams: 2000, Cost: decimal.RequireFromString("6.90")},
	},
	DeliveryStation: {
		{MaxGrams: 500, Cost: decimal.RequireFromString("7.00")},
		{MaxGrams: 1000, Cost: decimal.RequireFromString("8.50")},
		{MaxGrams: 2000, Cost: decimal.RequireFromString("9.90")},
	},
}

// Line 計價用的單一明細
type Line struct {
	Quantity    int
	UnitPrice   decimal.Decimal
	WeightGrams int64
	Active      bool
}

func LineTotal(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// CartTotal 只計算 active 的明細
func CartTotal(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		if !l.Active {
			continue
		}
		total = total.Add(LineTotal(l.Quantity, l.UnitPrice))
	}
	return total
}

func CartItemCount(lines []Line) int {
	count := 0
	for _, l := range lines {
		if l.Active {
			count += l.Quantity
		}
	}
	return count
}

// TotalWeight 出貨總重(g) = Σ 商品重量 * 數量
func TotalWeight(lines []Line) int64 {
	var grams int64
	for _, l := range lines {
		if l.Active {
			grams += l.WeightGrams * int64(l.Quantity)
		}
	}
	return grams
}

// DeliveryCost 依重量級距查表，第一個符合的級距生效。
// 超過最高級距時回傳 0。
func DeliveryCost(mode DeliveryMode, weightGrams int64) (decimal.Decimal, error) {
	tiers, ok := deliveryTiers[mode]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnknownDeliveryMode, mode)
	}
	for _, t := range tiers {
		if weightGrams <= t.MaxGrams {
			return t.Cost, nil
		}
	}
	return decimal.Zero, nil
}
