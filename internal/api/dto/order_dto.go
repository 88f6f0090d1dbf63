package dto

import (
	"time"

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/domain/model"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/pricing"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/service"
	"github.com/shopspring/decimal"
)

// money 金額一律輸出兩位小數字串
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

type CheckoutDTO struct {
	CartID       string `json:"cart_id" validate:"required,uuid"`
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	Mobile       string `json:"mobile"`
	Address      string `json:"address"`
	City         string `json:"city"`
	State        string `json:"state"`
	Country      string `json:"country"`
	DeliveryMode string `json:"delivery_mode"`
}

func (c CheckoutDTO) ShippingInfo() service.ShippingInfo {
	return service.ShippingInfo{
		FullName:     c.FullName,
		Email:        c.Email,
		Mobile:       c.Mobile,
		Address:      c.Address,
		City:         c.City,
		State:        c.State,
		Country:      c.Country,
		DeliveryMode: pricing.DeliveryMode(c.DeliveryMode),
	}
}

// OrderCreatedResponse 結帳後回傳的精簡格式
type OrderCreatedResponse struct {
	OrderID       string `json:"order_id"`
	Total         string `json:"total"`
	PaymentStatus string `json:"payment_status"`
}

func NewOrderCreatedResponse(order *model.Order) OrderCreatedResponse {
	return OrderCreatedResponse{
		OrderID:       order.OID,
		Total:         money(order.Total),
		PaymentStatus: string(order.PaymentStatus),
	}
}

type OrderLineDTO struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	UnitPrice   string `json:"unit_price"`
	Quantity    int    `json:"quantity"`
	Total       string `json:"total"`
}

type DeliveryDTO struct {
	Mode        string `json:"mode"`
	WeightGrams int64  `json:"weight_grams"`
	Cost        string `json:"cost"`
}

type PaymentDTO struct {
	ProviderOrderID string    `json:"provider_order_id"`
	Method          string    `json:"method"`
	Amount          string    `json:"amount"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

type ShippingDTO struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Mobile   string `json:"mobile"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	Country  string `json:"country"`
}

// OrderDetailResponse 讀取訂單時的完整格式
type OrderDetailResponse struct {
	OrderID       string         `json:"order_id"`
	PaymentStatus string         `json:"payment_status"`
	OrderStatus   string         `json:"order_status"`
	Total         string         `json:"total"`
	OrderDate     time.Time      `json:"order_date"`
	Shipping      ShippingDTO    `json:"shipping"`
	Lines         []OrderLineDTO `json:"lines"`
	Delivery      *DeliveryDTO   `json:"delivery"`
	Payments      []PaymentDTO   `json:"payments"`
}

func NewOrderDetailResponse(order *model.Order) OrderDetailResponse {
	res := OrderDetailResponse{
		OrderID:       order.OID,
		PaymentStatus: string(order.PaymentStatus),
		OrderStatus:   string(order.OrderStatus),
		Total:         money(order.Total),
		OrderDate:     order.OrderDate,
		Shipping: ShippingDTO{
			FullName: order.FullName,
			Email:    order.Email,
			Mobile:   order.Mobile,
			Address:  order.Address,
			City:     order.City,
			State:    order.State,
			Country:  order.Country,
		},
		Lines:    make([]OrderLineDTO, 0, len(order.Items)),
		Payments: make([]PaymentDTO, 0, len(order.Payments)),
	}
	for _, item := range order.Items {
		res.Lines = append(res.Lines, OrderLineDTO{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			UnitPrice:   money(item.UnitPrice),
			Quantity:    item.Quantity,
			Total:       money(item.Total),
		})
	}
	if order.Delivery != nil {
		res.Delivery = &DeliveryDTO{
			Mode:        string(order.Delivery.Mode),
			WeightGrams: order.Delivery.WeightGrams,
			Cost:        money(order.Delivery.Cost),
		}
	}
	for _, p := range order.Payments {
		res.Payments = append(res.Payments, PaymentDTO{
			ProviderOrderID: p.ProviderOrderID,
			Method:          p.Method,
			Amount:          money(p.Amount),
			Status:          p.Status,
			CreatedAt:       p.CreatedAt,
		})
	}
	return res
}

func NewOrderDetailResponses(orders []model.Order) []OrderDetailResponse {
	out := make([]OrderDetailResponse, 0, len(orders))
	for i := range orders {
		out = append(out, NewOrderDetailResponse(&orders[i]))
	}
	return out
}
