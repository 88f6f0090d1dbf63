package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/api"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/api/handler"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/constants"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/domain/model"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/infra/gateway"
	mock_gateway "github.com/Ali-Sina-255/franch-OnlineShopping/internal/infra/gateway/mock"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/infra/repository/memory"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/ratelimit"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/service"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type RouterTestSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	gateway *mock_gateway.MockPaymentGateway
	limiter *ratelimit.TokenBucket
	handler http.Handler
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}

func (s *RouterTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.gateway = mock_gateway.NewMockPaymentGateway(s.ctrl)

	store := memory.NewStore()
	ctx := context.Background()
	for _, p := range []model.Product{
		{ProductID: "P-MUG", Name: "Mug", Price: decimal.RequireFromString("12.50"), Stock: 10, WeightGrams: 300, IsActive: true},
		{ProductID: "P-OLD", Name: "Retired", Price: decimal.RequireFromString("9.00"), Stock: 10, WeightGrams: 100, IsActive: false},
	} {
		p := p
		require.NoError(s.T(), store.UpsertProduct(ctx, &p))
	}

	notifications := service.NewNotificationService(store, nil)
	server := api.NewServer(
		handler.NewProductHandler(service.NewProductService(store)),
		handler.NewCartHandler(service.NewCartService(store, nil)),
		handler.NewOrderHandler(service.NewOrderService(store, nil)),
		handler.NewPaymentHandler(service.NewPaymentService(store, s.gateway, service.NewDirectNotifier(notifications), nil)),
		handler.NewNotificationHandler(notifications),
		handler.NewWishlistHandler(service.NewWishlistService(store, nil)),
		handler.NewHealthHandler(nil),
	)
	s.limiter = ratelimit.NewTokenBucket(ratelimit.Config{Capacity: 100, RefillPerSec: 1, IdleTTL: time.Hour})
	s.handler = SetupRouter(server, s.limiter, nil)
}

func (s *RouterTestSuite) TearDownTest() {
	s.limiter.Stop()
	s.ctrl.Finish()
}

func (s *RouterTestSuite) do(method, path string, userID int64, role string, body any) (*httptest.ResponseRecorder, envelope) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.T(), json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID > 0 {
		req.Header.Set(constants.UserIDHeaderKey, strconv.FormatInt(userID, 10))
		req.Header.Set(constants.UserRoleHeaderKey, role)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(s.T(), json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func (s *RouterTestSuite) decode(env envelope, dst any) {
	require.NoError(s.T(), json.Unmarshal(env.Data, dst))
}

func (s *RouterTestSuite) TestHealthz() {
	rec, _ := s.do(http.MethodGet, "/healthz", 0, "", nil)
	require.Equal(s.T(), http.StatusOK, rec.Code)
}

func (s *RouterTestSuite) TestIdentityRequired() {
	rec, env := s.do(http.MethodGet, "/api/v1/cart", 0, "", nil)
	require.Equal(s.T(), http.StatusUnauthorized, rec.Code)
	require.Equal(s.T(), "unauthenticated", env.Error.Code)
}

func (s *RouterTestSuite) TestProducts() {
	rec, env := s.do(http.MethodGet, "/api/v1/products", 0, "", nil)
	require.Equal(s.T(), http.StatusOK, rec.Code)
	var products []map[string]any
	s.decode(env, &products)
	require.Len(s.T(), products, 1)
	require.Equal(s.T(), "12.50", products[0]["price"])

	rec, _ = s.do(http.MethodGet, "/api/v1/products/P-OLD", 0, "", nil)
	require.Equal(s.T(), http.StatusNotFound, rec.Code)
}

func (s *RouterTestSuite) TestCartFlow() {
	rec, env := s.do(http.MethodPost, "/api/v1/cart", 1, "", map[string]any{"product_id": "P-MUG", "qty": 2})
	require.Equal(s.T(), http.StatusCreated, rec.Code)
	var added struct {
		ItemID   int64 `json:"item_id"`
		Quantity int   `json:"quantity"`
		Cart     struct {
			CartID      string `json:"cart_id"`
			TotalAmount string `json:"total_amount"`
		} `json:"cart"`
	}
	s.decode(env, &added)
	require.Equal(s.T(), 2, added.Quantity)
	require.Equal(s.T(), "25.00", added.Cart.TotalAmount)

	rec, env = s.do(http.MethodPost, "/api/v1/cart", 1, "", map[string]any{"product_id": "P-MUG", "qty": 1})
	require.Equal(s.T(), http.StatusOK, rec.Code)
	s.decode(env, &added)
	require.Equal(s.T(), 3, added.Quantity)

	rec, env = s.do(http.MethodPost, "/api/v1/cart", 1, "", map[string]any{"product_id": "P-MUG", "qty": 100})
	require.Equal(s.T(), http.StatusBadRequest, rec.Code)
	require.Equal(s.T(), service.CodeInsufficientStock, env.Error.Code)

	rec, env = s.do(http.MethodPost, "/api/v1/cart", 1, "", map[string]any{"product_id": "P-OLD", "qty": 1})
	require.Equal(s.T(), http.StatusNotFound, rec.Code)

	rec, env = s.do(http.MethodPost, "/api/v1/cart", 1, "", map[string]any{"qty": 1})
	require.Equal(s.T(), http.StatusBadRequest, rec.Code)
	require.Equal(s.T(), handler.CodeInvalidRequest, env.Error.Code)

	rec, env = s.do(http.MethodGet, "/api/v1/cart/total", 1, "", nil)
	require.Equal(s.T(), http.StatusOK, rec.Code)
	var summary struct {
		TotalAmount string `json:"total_amount"`
		TotalItems  int    `json:"total_items"`
	}
	s.decode(env, &summary)
	require.Equal(s.T(), "37.50", summary.TotalAmount)
	require.Equal(s.T(), 3, summary.TotalItems)

	itemPath := "/api/v1/cart/items/" + strconv.FormatInt(added.ItemID, 10)
	rec, _ = s.do(http.MethodPatch, itemPath, 1, "", map[string]any{"qty": 1})
	require.Equal(s.T(), http.StatusOK, rec.Code)

	removePath := "/api/v1/cart/" + added.Cart.CartID + "/items/" + strconv.FormatInt(added.ItemID, 10)
	rec, _ = s.do(http.MethodDelete, removePath, 2, "", nil)
	require.Equal(s.T(), http.StatusForbidden, rec.Code)
	rec, _ = s.do(http.MethodDelete, removePath, 1, "", nil)
	require.Equal(s.T(), http.StatusNoContent, rec.Code)
}

func (s *RouterTestSuite) checkout(userID int64) string {
	rec, env := s.do(http.MethodPost, "/api/v1/cart", userID, "", map[string]any{"product_id": "P-MUG", "qty": 2})
	require.Equal(s.T(), http.StatusCreated, rec.Code)
	var added struct {
		Cart struct {
			CartID string `json:"cart_id"`
		} `json:"cart"`
	}
	s.decode(env, &added)

	body := map[string]any{
		"cart_id":       added.Cart.CartID,
		"full_name":     "Ada Lovelace",
		"email":         "ada@example.com",
		"mobile":        "0912345678",
		"delivery_mode": "location",
	}
	rec, env = s.do(http.MethodPost, "/api/v1/orders", userID, "", body)
	require.Equal(s.T(), http.StatusCreated, rec.Code)
	var created struct {
		OrderID       string `json:"order_id"`
		Total         string `json:"total"`
		PaymentStatus string `json:"payment_status"`
	}
	s.decode(env, &created)
	require.Equal(s.T(), "processing", created.PaymentStatus)
	require.NotEmpty(s.T(), created.OrderID)

	// 購物車已清空
	rec, env = s.do(http.MethodPost, "/api/v1/orders", userID, "", body)
	require.Equal(s.T(), http.StatusBadRequest, rec.Code)
	require.Equal(s.T(), service.CodeEmptyCart, env.Error.Code)
	return created.OrderID
}

func (s *RouterTestSuite) TestCheckoutAndRead() {
	oid := s.checkout(1)

	rec, env := s.do(http.MethodGet, "/api/v1/orders/"+oid, 1, "", nil)
	require.Equal(s.T(), http.StatusOK, rec.Code)
	var detail struct {
		Lines    []map[string]any `json:"lines"`
		Delivery *struct {
			Mode string `json:"mode"`
		} `json:"delivery"`
	}
	s.decode(env, &detail)
	require.Len(s.T(), detail.Lines, 1)
	require.Equal(s.T(), "location", detail.Delivery.Mode)

	rec, _ = s.do(http.MethodGet, "/api/v1/orders/"+oid, 2, "", nil)
	require.Equal(s.T(), http.StatusNotFound, rec.Code)
	rec, _ = s.do(http.MethodGet, "/api/v1/orders/"+oid, 99, constants.RoleAdmin, nil)
	require.Equal(s.T(), http.StatusOK, rec.Code)

	rec, env = s.do(http.MethodGet, "/api/v1/orders", 1, "", nil)
	require.Equal(s.T(), http.StatusOK, rec.Code)
	var list []map[string]any
	s.decode(env, &list)
	require.Len(s.T(), list, 1)

	rec, env = s.do(http.MethodPost, "/api/v1/orders/"+oid+"/cancel", 1, "", nil)
	require.Equal(s.T(), http.StatusOK, rec.Code)
}

func (s *RouterTestSuite) TestPaymentConfirmation() {
	oid := s.checkout(1)
	s.gateway.EXPECT().VerifyOrder(gomock.Any(), "PP-9").
		Return(&gateway.Verification{ProviderOrderID: "PP-9", Status: gateway.StatusCompleted}, nil).Times(2)

	body := map[string]any{"order_id": oid, "provider_order_id": "PP-9"}
	messages := []string{"Payment Successful", "Already Paid"}
	for _, want := range messages {
		rec, env := s.do(http.MethodPost, "/api/v1/payment-confirmation", 0, "", body)
		require.Equal(s.T(), http.StatusOK, rec.Code)
		var res struct {
			Message       string `json:"message"`
			PaymentStatus string `json:"payment_status"`
		}
		s.decode(env, &res)
		require.Equal(s.T(), want, res.Message)
		require.Equal(s.T(), "paid", res.PaymentStatus)
	}

	rec, env := s.do(http.MethodPost, "/api/v1/payment-confirmation", 0, "", map[string]any{"order_id": oid, "provider_order_id": "null"})
	require.Equal(s.T(), http.StatusBadRequest, rec.Code)
	require.Equal(s.T(), service.CodeInvalidProviderID, env.Error.Code)

	rec, env = s.do(http.MethodGet, "/api/v1/notifications", 1, "", nil)
	require.Equal(s.T(), http.StatusOK, rec.Code)
	var notes []struct {
		ID      int64  `json:"id"`
		OrderID string `json:"order_id"`
	}
	s.decode(env, &notes)
	require.Len(s.T(), notes, 1)
	require.Equal(s.T(), oid, notes[0].OrderID)

	rec, _ = s.do(http.MethodPost, "/api/v1/notifications/"+strconv.FormatInt(notes[0].ID, 10)+"/seen", 1, "", nil)
	require.Equal(s.T(), http.StatusNoContent, rec.Code)

	statusPath := "/api/v1/admin/orders/" + oid + "/payment-status"
	rec, _ = s.do(http.MethodPatch, statusPath, 1, "", map[string]any{"status": "refunding"})
	require.Equal(s.T(), http.StatusForbidden, rec.Code)
	rec, env = s.do(http.MethodPatch, statusPath, 99, constants.RoleAdmin, map[string]any{"status": "paid"})
	require.Equal(s.T(), http.StatusConflict, rec.Code)
	require.Equal(s.T(), service.CodeConfirmationOnly, env.Error.Code)
	// paid -> processing 視為 already paid
	rec, env = s.do(http.MethodPatch, statusPath, 99, constants.RoleAdmin, map[string]any{"status": "processing"})
	require.Equal(s.T(), http.StatusOK, rec.Code)
	var detail struct {
		PaymentStatus string `json:"payment_status"`
	}
	s.decode(env, &detail)
	require.Equal(s.T(), "paid", detail.PaymentStatus)
	rec, env = s.do(http.MethodPatch, statusPath, 99, constants.RoleAdmin, map[string]any{"status": "refunding"})
	require.Equal(s.T(), http.StatusOK, rec.Code)
}

func (s *RouterTestSuite) TestWishlist() {
	rec, _ := s.do(http.MethodGet, "/api/v1/wishlist", 0, "", nil)
	require.Equal(s.T(), http.StatusUnauthorized, rec.Code)

	rec, env := s.do(http.MethodPost, "/api/v1/wishlist", 1, "", map[string]any{"product_id": "P-MUG"})
	require.Equal(s.T(), http.StatusCreated, rec.Code)
	var added struct {
		Added bool `json:"added"`
		Item  struct {
			Product struct {
				ProductID string `json:"product_id"`
				Price     string `json:"price"`
			} `json:"product"`
		} `json:"item"`
	}
	s.decode(env, &added)
	require.True(s.T(), added.Added)
	require.Equal(s.T(), "P-MUG", added.Item.Product.ProductID)
	require.Equal(s.T(), "12.50", added.Item.Product.Price)

	rec, env = s.do(http.MethodGet, "/api/v1/wishlist", 1, "", nil)
	require.Equal(s.T(), http.StatusOK, rec.Code)
	var list []map[string]any
	s.decode(env, &list)
	require.Len(s.T(), list, 1)

	rec, env = s.do(http.MethodGet, "/api/v1/wishlist", 2, "", nil)
	require.Equal(s.T(), http.StatusOK, rec.Code)
	s.decode(env, &list)
	require.Empty(s.T(), list)

	rec, env = s.do(http.MethodPost, "/api/v1/wishlist", 1, "", map[string]any{"product_id": "P-MUG"})
	require.Equal(s.T(), http.StatusOK, rec.Code)
	var removed map[string]any
	s.decode(env, &removed)
	require.Equal(s.T(), false, removed["added"])
	require.NotContains(s.T(), removed, "item")

	rec, env = s.do(http.MethodPost, "/api/v1/wishlist", 1, "", map[string]any{"product_id": "P-OLD"})
	require.Equal(s.T(), http.StatusNotFound, rec.Code)
	require.Equal(s.T(), service.CodeProductNotFound, env.Error.Code)

	rec, _ = s.do(http.MethodPost, "/api/v1/wishlist", 1, "", map[string]any{})
	require.Equal(s.T(), http.StatusBadRequest, rec.Code)
}

func (s *RouterTestSuite) TestPaymentGatewayDown() {
	oid := s.checkout(1)
	s.gateway.EXPECT().VerifyOrder(gomock.Any(), "PP-9").Return(nil, gateway.ErrVerificationFailed)

	rec, env := s.do(http.MethodPost, "/api/v1/payment-confirmation", 0, "", map[string]any{"order_id": oid, "provider_order_id": "PP-9"})
	require.Equal(s.T(), http.StatusServiceUnavailable, rec.Code)
	require.Equal(s.T(), service.CodeVerificationFailed, env.Error.Code)
}

func (s *RouterTestSuite) TestPaymentConfirmationRateLimited() {
	limiter := ratelimit.NewTokenBucket(ratelimit.Config{Capacity: 1, RefillPerSec: 0.001, IdleTTL: time.Hour})
	defer limiter.Stop()
	s.handler = SetupRouter(api.NewServer(nil, nil, nil, handler.NewPaymentHandler(&stubPayment{}), nil, nil, handler.NewHealthHandler(nil)), limiter, nil)

	body := map[string]any{"order_id": "x", "provider_order_id": "PP"}
	rec, _ := s.do(http.MethodPost, "/api/v1/payment-confirmation", 0, "", body)
	require.Equal(s.T(), http.StatusOK, rec.Code)
	rec, env := s.do(http.MethodPost, "/api/v1/payment-confirmation", 0, "", body)
	require.Equal(s.T(), http.StatusTooManyRequests, rec.Code)
	require.Equal(s.T(), "rate_limited", env.Error.Code)
}

type stubPayment struct{}

func (stubPayment) ConfirmPayment(ctx context.Context, oid, providerOrderID string) (*service.PaymentResult, error) {
	return &service.PaymentResult{Outcome: service.OutcomeNotCompleted, Message: service.OutcomeNotCompleted.Message(), OrderOID: oid}, nil
}

func (stubPayment) TransitionPaymentStatus(ctx context.Context, identity model.Identity, oid string, to model.PaymentStatus) (*model.Order, error) {
	return nil, nil
}
