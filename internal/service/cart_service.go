package service

import (
	"context"
	"errors"

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/apperr"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/domain/model"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/infra/repository"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/pricing"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type ICartService interface {
	GetOrCreateCart(ctx context.Context, userID int64) (*model.Cart, error)
	AddOrIncrement(ctx context.Context, userID int64, productID string, qty int) (*AddItemResult, error)
	UpdateQuantity(ctx context.Context, userID, itemID int64, qty int) (*model.CartItem, error)
	RemoveLine(ctx context.Context, identity model.Identity, cartID string, itemID int64) error
	Snapshot(ctx context.Context, userID int64) (*CartSnapshot, error)
	Summary(ctx context.Context, userID int64) (*CartSummary, error)
}

// AddItemResult Created=true 表示新增明細，false 表示累加數量
type AddItemResult struct {
	Item    model.CartItem
	Created bool
}

// CartLine 購物車明細加上讀取當下的商品價格
type CartLine struct {
	ItemID      int64           `json:"item_id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
	WeightGrams int64           `json:"weight_grams"`
}

type CartSnapshot struct {
	CartID      string          `json:"cart_id"`
	UserID      int64           `json:"user_id"`
	Lines       []CartLine      `json:"lines"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	TotalItems  int             `json:"total_items"`
}

type CartSummary struct {
	TotalAmount decimal.Decimal `json:"total_amount"`
	TotalItems  int             `json:"total_items"`
}

type CartService struct {
	store  repository.UnifiedDB
	logger *zerolog.Logger
}

func NewCartService(store repository.UnifiedDB, logger *zerolog.Logger) *CartService {
	if store == nil {
		panic("store cannot be nil")
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &CartService{store: store, logger: logger}
}

// GetOrCreateCart 每個使用者只會有一台購物車，併發建立時以先寫入者為準
func (s *CartService) GetOrCreateCart(ctx context.Context, userID int64) (*model.Cart, error) {
	if userID <= 0 {
		return nil, apperr.Forbidden(CodeForbidden, "identity required")
	}

	cart, err := s.store.GetCartByUserID(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.Unavailable(CodeStoreUnavailable, err)
	}

	if err := s.store.CreateCart(ctx, &model.Cart{CartID: uuid.New().String(), UserID: userID}); err != nil {
		return nil, apperr.Unavailable(CodeStoreUnavailable, err)
	}
	cart, err = s.store.GetCartByUserID(ctx, userID)
	if err != nil {
		return nil, storeErr(err, CodeCartNotFound, "cart not found")
	}
	s.logger.Info().Int64("user_id", userID).Str("cart_id", cart.CartID).Msg("cart created")
	return cart, nil
}

// AddOrIncrement 數量超過庫存時整筆拒絕，原本的明細不變
func (s *CartService) AddOrIncrement(ctx context.Context, userID int64, productID string, qty int) (*AddItemResult, error) {
	if qty <= 0 {
		return nil, apperr.Validation(CodeInvalidQuantity, "quantity must be greater than zero")
	}

	// 先擋掉不存在或已下架的商品，避免替無效請求建立購物車
	if product, err := s.store.GetProductByID(ctx, productID); err != nil {
		return nil, storeErr(err, CodeProductNotFound, "product not found")
	} else if !product.IsActive {
		return nil, apperr.NotFound(CodeProductNotFound, "product not found")
	}

	cart, err := s.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	var result AddItemResult
	err = s.store.ExecTx(ctx, func(tx repository.UnifiedDB) error {
		if _, err := tx.LockCart(ctx, cart.CartID); err != nil {
			return err
		}
		// 庫存以交易內讀到的為準
		product, err := tx.GetProductByID(ctx, productID)
		if err != nil {
			return err
		}
		if !product.IsActive {
			return apperr.NotFound(CodeProductNotFound, "product not found")
		}

		existing, err := tx.GetCartItem(ctx, cart.CartID, productID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		if existing == nil {
			if qty > product.Stock {
				return insufficientStock()
			}
			item := &model.CartItem{CartID: cart.CartID, ProductID: productID, Quantity: qty, IsActive: true}
			if err := tx.CreateCartItem(ctx, item); err != nil {
				return err
			}
			result = AddItemResult{Item: *item, Created: true}
			return nil
		}

		newQty := qty
		if existing.IsActive {
			newQty = existing.Quantity + qty
		}
		if newQty > product.Stock {
			return insufficientStock()
		}
		if err := tx.UpdateCartItem(ctx, existing.ID, newQty, true); err != nil {
			return err
		}
		existing.Quantity, existing.IsActive = newQty, true
		result = AddItemResult{Item: *existing, Created: false}
		return nil
	})
	if err != nil {
		return nil, storeErr(err, CodeCartNotFound, "cart not found")
	}

	s.logger.Debug().
		Int64("user_id", userID).
		Str("cart_id", cart.CartID).
		Str("product_id", productID).
		Int("quantity", result.Item.Quantity).
		Bool("created", result.Created).
		Msg("cart item saved")
	return &result, nil
}

// UpdateQuantity 設定絕對數量
func (s *CartService) UpdateQuantity(ctx context.Context, userID, itemID int64, qty int) (*model.CartItem, error) {
	if qty <= 0 {
		return nil, apperr.Validation(CodeInvalidQuantity, "quantity must be greater than zero")
	}

	cart, err := s.store.GetCartByUserID(ctx, userID)
	if err != nil {
		return nil, storeErr(err, CodeCartItemNotFound, "cart item not found")
	}

	var updated model.CartItem
	err = s.store.ExecTx(ctx, func(tx repository.UnifiedDB) error {
		if _, err := tx.LockCart(ctx, cart.CartID); err != nil {
			return err
		}
		item, err := tx.GetCartItemByID(ctx, itemID)
		if err != nil {
			return err
		}
		if item.CartID != cart.CartID {
			return apperr.NotFound(CodeCartItemNotFound, "cart item not found")
		}

		product, err := tx.GetProductByID(ctx, item.ProductID)
		if err != nil {
			return err
		}
		if qty > product.Stock {
			return insufficientStock()
		}
		if err := tx.UpdateCartItem(ctx, item.ID, qty, true); err != nil {
			return err
		}
		item.Quantity, item.IsActive = qty, true
		updated = *item
		return nil
	})
	if err != nil {
		return nil, storeErr(err, CodeCartItemNotFound, "cart item not found")
	}
	return &updated, nil
}

// RemoveLine 只有購物車擁有者或管理者可以刪除
func (s *CartService) RemoveLine(ctx context.Context, identity model.Identity, cartID string, itemID int64) error {
	cart, err := s.store.GetCartByID(ctx, cartID)
	if err != nil {
		return storeErr(err, CodeCartNotFound, "cart not found")
	}
	if !cart.OwnedBy(identity.UserID) && !identity.IsAdmin() {
		return apperr.Forbidden(CodeForbidden, "you do not own this cart")
	}

	item, err := s.store.GetCartItemByID(ctx, itemID)
	if err != nil {
		return storeErr(err, CodeCartItemNotFound, "cart item not found")
	}
	if item.CartID != cart.CartID {
		return apperr.NotFound(CodeCartItemNotFound, "cart item not found")
	}

	if err := s.store.DeleteCartItem(ctx, itemID); err != nil {
		return storeErr(err, CodeCartItemNotFound, "cart item not found")
	}
	s.logger.Info().
		Int64("user_id", identity.UserID).
		Str("cart_id", cartID).
		Int64("item_id", itemID).
		Msg("cart item removed")
	return nil
}

// Snapshot 唯讀，沒有購物車時回傳空的 snapshot
func (s *CartService) Snapshot(ctx context.Context, userID int64) (*CartSnapshot, error) {
	cart, err := s.store.GetCartByUserID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return &CartSnapshot{UserID: userID, Lines: []CartLine{}, TotalAmount: decimal.Zero}, nil
	}
	if err != nil {
		return nil, apperr.Unavailable(CodeStoreUnavailable, err)
	}

	lines, err := loadCartLines(ctx, s.store, cart.CartID)
	if err != nil {
		return nil, storeErr(err, CodeCartNotFound, "cart not found")
	}

	priced := toPricingLines(lines)
	return &CartSnapshot{
		CartID:      cart.CartID,
		UserID:      cart.UserID,
		Lines:       lines,
		TotalAmount: pricing.CartTotal(priced),
		TotalItems:  pricing.CartItemCount(priced),
	}, nil
}

func (s *CartService) Summary(ctx context.Context, userID int64) (*CartSummary, error) {
	snap, err := s.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &CartSummary{TotalAmount: snap.TotalAmount, TotalItems: snap.TotalItems}, nil
}

// loadCartLines 取得 active 明細並補上目前的商品價格；商品已下架或不存在時略過
func loadCartLines(ctx context.Context, store repository.UnifiedDB, cartID string) ([]CartLine, error) {
	items, err := store.ListCartItems(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []CartLine{}, nil
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	products, err := store.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]model.Product, len(products))
	for _, p := range products {
		byID[p.ProductID] = p
	}

	lines := make([]CartLine, 0, len(items))
	for _, item := range items {
		p, ok := byID[item.ProductID]
		if !ok || !p.IsActive {
			continue
		}
		lines = append(lines, CartLine{
			ItemID:      item.ID,
			ProductID:   p.ProductID,
			ProductName: p.Name,
			Quantity:    item.Quantity,
			UnitPrice:   p.Price,
			LineTotal:   pricing.LineTotal(item.Quantity, p.Price),
			WeightGrams: p.WeightGrams,
		})
	}
	return lines, nil
}

func toPricingLines(lines []CartLine) []pricing.Line {
	out := make([]pricing.Line, 0, len(lines))
	for _, l := range lines {
		out = append(out, pricing.Line{
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			WeightGrams: l.WeightGrams,
			Active:      true,
		})
	}
	return out
}

func insufficientStock() error {
	return apperr.Validation(CodeInsufficientStock, "requested quantity exceeds available stock")
}

var _ ICartService = (*CartService)(nil)
