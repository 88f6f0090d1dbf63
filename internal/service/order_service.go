package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/apperr"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/domain/model"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/infra/repository"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/pricing"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ShippingInfo 結帳時的收件資料
type ShippingInfo struct {
	FullName     string               `json:"full_name" validate:"required,max=100"`
	Email        string               `json:"email" validate:"required,email,max=100"`
	Mobile       string               `json:"mobile" validate:"required,max=32"`
	Address      string               `json:"address" validate:"max=255"`
	City         string               `json:"city" validate:"max=100"`
	State        string               `json:"state" validate:"max=100"`
	Country      string               `json:"country" validate:"max=100"`
	DeliveryMode pricing.DeliveryMode `json:"delivery_mode" validate:"omitempty,oneof=location station"`
}

func (s *ShippingInfo) normalize() {
	s.FullName = strings.TrimSpace(s.FullName)
	s.Email = strings.TrimSpace(s.Email)
	s.Mobile = strings.TrimSpace(s.Mobile)
	s.Address = strings.TrimSpace(s.Address)
	s.City = strings.TrimSpace(s.City)
	s.State = strings.TrimSpace(s.State)
	s.Country = strings.TrimSpace(s.Country)
}

type IOrderService interface {
	Checkout(ctx context.Context, identity model.Identity, cartID string, info ShippingInfo) (*model.Order, error)
	GetOrder(ctx context.Context, identity model.Identity, oid string) (*model.Order, error)
	ListOrders(ctx context.Context, userID int64) ([]model.Order, error)
	CancelOrder(ctx context.Context, identity model.Identity, oid string) (*model.Order, error)
}

type OrderService struct {
	store  repository.UnifiedDB
	logger *zerolog.Logger
	now    func() time.Time
}

func NewOrderService(store repository.UnifiedDB, logger *zerolog.Logger) *OrderService {
	if store == nil {
		panic("store cannot be nil")
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &OrderService{
		store:  store,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

/*
Checkout 將購物車轉成訂單
1. 鎖住購物車，讀取 active 明細，空的直接回傳 Conflict
2. 以當下商品價格建立 OrderItem，累加金額與重量
3. 依運送方式計算運費
4. 寫入 Order + OrderItem + DeliveryCharge，並清空購物車
以上全部在同一個交易內，任何一步失敗整筆 rollback
第二個同時結帳的請求會在鎖釋放後看到空購物車
*/
func (s *OrderService) Checkout(ctx context.Context, identity model.Identity, cartID string, info ShippingInfo) (*model.Order, error) {
	if identity.IsAnonymous() {
		return nil, apperr.Forbidden(CodeForbidden, "identity required")
	}
	info.normalize()
	if err := validate.Struct(info); err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, CodeInvalidShipping, "invalid shipping info", err)
	}

	var order *model.Order
	err := s.store.ExecTx(ctx, func(tx repository.UnifiedDB) error {
		cart, err := tx.LockCart(ctx, cartID)
		if err != nil {
			return err
		}
		if !cart.OwnedBy(identity.UserID) {
			return apperr.NotFound(CodeCartNotFound, "cart not found")
		}

		items, err := tx.ListCartItems(ctx, cart.CartID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return apperr.Conflict(CodeEmptyCart, "cart is empty")
		}

		built, err := s.buildOrder(ctx, tx, identity.UserID, items, info)
		if err != nil {
			return err
		}
		if err := tx.CreateOrder(ctx, built); err != nil {
			return err
		}
		if _, err := tx.ClearCartItems(ctx, cart.CartID); err != nil {
			return err
		}
		order = built
		return nil
	})
	if err != nil {
		return nil, storeErr(err, CodeCartNotFound, "cart not found")
	}

	s.logger.Info().
		Str("order_oid", order.OID).
		Int64("user_id", identity.UserID).
		Str("cart_id", cartID).
		Int("lines", len(order.Items)).
		Str("total", order.Total.StringFixed(2)).
		Msg("order created")
	return order, nil
}

// buildOrder 金額一律由伺服器端重新計算
func (s *OrderService) buildOrder(ctx context.Context, tx repository.UnifiedDB, userID int64, items []model.CartItem, info ShippingInfo) (*model.Order, error) {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	products, err := tx.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]model.Product, len(products))
	for _, p := range products {
		byID[p.ProductID] = p
	}

	uid := userID
	order := &model.Order{
		OID:           uuid.New().String(),
		UserID:        &uid,
		FullName:      info.FullName,
		Email:         info.Email,
		Mobile:        info.Mobile,
		Address:       info.Address,
		City:          info.City,
		State:         info.State,
		Country:       info.Country,
		PaymentStatus: model.PaymentProcessing,
		OrderStatus:   model.OrderPending,
		OrderDate:     s.now(),
		Items:         make([]model.OrderItem, 0, len(items)),
	}

	total := decimal.Zero
	lines := make([]pricing.Line, 0, len(items))
	for _, item := range items {
		p, ok := byID[item.ProductID]
		if !ok || !p.IsActive {
			return nil, apperr.Conflict(CodeProductUnavailable, "product "+item.ProductID+" is no longer available")
		}
		lineTotal := pricing.LineTotal(item.Quantity, p.Price)
		order.Items = append(order.Items, model.OrderItem{
			ProductID:   p.ProductID,
			ProductName: p.Name,
			UnitPrice:   p.Price,
			Quantity:    item.Quantity,
			SubTotal:    lineTotal,
			Total:       lineTotal,
		})
		lines = append(lines, pricing.Line{Quantity: item.Quantity, UnitPrice: p.Price, WeightGrams: p.WeightGrams, Active: true})
		total = total.Add(lineTotal)
	}

	if info.DeliveryMode != pricing.DeliveryNone {
		weight := pricing.TotalWeight(lines)
		cost, err := pricing.DeliveryCost(info.DeliveryMode, weight)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindValidation, CodeInvalidShipping, "invalid delivery mode", err)
		}
		order.Delivery = &model.DeliveryCharge{Mode: info.DeliveryMode, WeightGrams: weight, Cost: cost}
		total = total.Add(cost)
	}

	order.Total = total
	return order, nil
}

// GetOrder 只有擁有者或管理者可以讀取，其他人一律視為不存在
func (s *OrderService) GetOrder(ctx context.Context, identity model.Identity, oid string) (*model.Order, error) {
	order, err := s.store.GetOrderByOID(ctx, oid)
	if err != nil {
		return nil, storeErr(err, CodeOrderNotFound, "order not found")
	}
	if !order.OwnedBy(identity.UserID) && !identity.IsAdmin() {
		return nil, apperr.NotFound(CodeOrderNotFound, "order not found")
	}
	return order, nil
}

func (s *OrderService) ListOrders(ctx context.Context, userID int64) ([]model.Order, error) {
	if userID <= 0 {
		return nil, apperr.Forbidden(CodeForbidden, "identity required")
	}
	orders, err := s.store.ListOrdersByUserID(ctx, userID)
	if err != nil {
		return nil, apperr.Unavailable(CodeStoreUnavailable, err)
	}
	return orders, nil
}

// CancelOrder 只能取消尚未付款 (processing) 的訂單
func (s *OrderService) CancelOrder(ctx context.Context, identity model.Identity, oid string) (*model.Order, error) {
	err := s.store.ExecTx(ctx, func(tx repository.UnifiedDB) error {
		order, err := tx.LockOrderByOID(ctx, oid)
		if err != nil {
			return err
		}
		if !order.OwnedBy(identity.UserID) && !identity.IsAdmin() {
			return apperr.NotFound(CodeOrderNotFound, "order not found")
		}
		if order.PaymentStatus == model.PaymentCancelled {
			return nil
		}
		if !order.PaymentStatus.CanTransitionTo(model.PaymentCancelled) {
			return apperr.Conflict(CodePaymentConflict, "order can no longer be cancelled")
		}
		return tx.UpdateOrderStatus(ctx, order.ID, model.PaymentCancelled, model.OrderCancelled)
	})
	if err != nil {
		return nil, storeErr(err, CodeOrderNotFound, "order not found")
	}

	s.logger.Info().Str("order_oid", oid).Int64("user_id", identity.UserID).Msg("order cancelled")

	order, err := s.store.GetOrderByOID(ctx, oid)
	if err != nil {
		return nil, storeErr(err, CodeOrderNotFound, "order not found")
	}
	return order, nil
}

// IsEmptyCart 判斷錯誤是否為空購物車結帳
func IsEmptyCart(err error) bool {
	return errors.Is(err, apperr.Conflict(CodeEmptyCart, ""))
}

var _ IOrderService = (*OrderService)(nil)
