package service

import (
	"context"
	"strings"
	"time"

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/apperr"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/constants"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/domain/model"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/domain/model/event"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/infra/gateway"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/infra/repository"
	"github.com/rs/zerolog"
)

// PaymentOutcome 付款確認的結果，都不是錯誤
type PaymentOutcome string

const (
	OutcomeApplied      PaymentOutcome = "applied"
	OutcomeAlreadyPaid  PaymentOutcome = "already_paid"
	OutcomeNotCompleted PaymentOutcome = "not_completed"
)

func (o PaymentOutcome) Message() string {
	switch o {
	case OutcomeApplied:
		return "Payment Successful"
	case OutcomeAlreadyPaid:
		return "Already Paid"
	default:
		return "Payment not completed"
	}
}

type PaymentResult struct {
	Outcome       PaymentOutcome      `json:"outcome"`
	Message       string              `json:"message"`
	OrderOID      string              `json:"order_oid"`
	PaymentStatus model.PaymentStatus `json:"payment_status"`
	// GatewayStatus 金流商回傳的原始狀態，僅供診斷
	GatewayStatus string `json:"gateway_status"`
}

type IPaymentService interface {
	ConfirmPayment(ctx context.Context, oid, providerOrderID string) (*PaymentResult, error)
	TransitionPaymentStatus(ctx context.Context, identity model.Identity, oid string, to model.PaymentStatus) (*model.Order, error)
}

type PaymentService struct {
	store         repository.UnifiedDB
	gateway       gateway.PaymentGateway
	notifier      Notifier
	logger        *zerolog.Logger
	notifyTimeout time.Duration
}

func NewPaymentService(store repository.UnifiedDB, gw gateway.PaymentGateway, notifier Notifier, logger *zerolog.Logger) *PaymentService {
	if store == nil {
		panic("store cannot be nil")
	}
	if gw == nil {
		panic("paymentGateway cannot be nil")
	}
	if notifier == nil {
		panic("notifier cannot be nil")
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &PaymentService{
		store:         store,
		gateway:       gw,
		notifier:      notifier,
		logger:        logger,
		notifyTimeout: constants.DefaultNotifyTimeout,
	}
}

/*
ConfirmPayment
1. 向金流商查詢訂單狀態 (不改任何本地資料)
2. 非 COMPLETED 直接回傳 not completed
3. COMPLETED 時在 order row lock 之下套用，重複確認回傳 already paid
4. commit 之後才送通知，通知失敗不影響付款結果
*/
func (s *PaymentService) ConfirmPayment(ctx context.Context, oid, providerOrderID string) (*PaymentResult, error) {
	providerOrderID = strings.TrimSpace(providerOrderID)
	if providerOrderID == "" || strings.EqualFold(providerOrderID, "null") {
		return nil, apperr.Validation(CodeInvalidProviderID, "provider order id is required")
	}
	if strings.TrimSpace(oid) == "" {
		return nil, apperr.Validation(CodeOrderNotFound, "order id is required")
	}

	if _, err := s.store.GetOrderByOID(ctx, oid); err != nil {
		return nil, storeErr(err, CodeOrderNotFound, "order not found")
	}

	verification, err := s.gateway.VerifyOrder(ctx, providerOrderID)
	if err != nil {
		s.logger.Warn().Err(err).Str("order_oid", oid).Str("provider_order_id", providerOrderID).Msg("payment verification failed")
		return nil, apperr.Wrap(apperr.KindUnavailable, CodeVerificationFailed, "payment verification failed, try again later", err)
	}

	result, evt, err := s.applyPaymentResult(ctx, oid, providerOrderID, verification.Status)
	if err != nil {
		return nil, err
	}

	if evt != nil {
		s.dispatch(ctx, evt)
	}
	return result, nil
}

// applyPaymentResult 只有 processing -> paid 會寫入，回傳的 event 非 nil 表示需要送通知
func (s *PaymentService) applyPaymentResult(ctx context.Context, oid, providerOrderID, gatewayStatus string) (*PaymentResult, *event.PaymentSucceededEvent, error) {
	if gatewayStatus != gateway.StatusCompleted {
		order, err := s.store.GetOrderByOID(ctx, oid)
		if err != nil {
			return nil, nil, storeErr(err, CodeOrderNotFound, "order not found")
		}
		s.logger.Info().Str("order_oid", oid).Str("gateway_status", gatewayStatus).Msg("payment not completed")
		return newPaymentResult(OutcomeNotCompleted, oid, order.PaymentStatus, gatewayStatus), nil, nil
	}

	var (
		result *PaymentResult
		evt    *event.PaymentSucceededEvent
	)
	err := s.store.ExecTx(ctx, func(tx repository.UnifiedDB) error {
		order, err := tx.LockOrderByOID(ctx, oid)
		if err != nil {
			return err
		}

		switch order.PaymentStatus {
		case model.PaymentPaid:
			result = newPaymentResult(OutcomeAlreadyPaid, oid, model.PaymentPaid, gatewayStatus)
			return nil
		case model.PaymentProcessing:
		default:
			return apperr.Conflict(CodePaymentConflict, "order payment status is "+string(order.PaymentStatus))
		}

		if err := tx.UpdateOrderStatus(ctx, order.ID, model.PaymentPaid, order.OrderStatus); err != nil {
			return err
		}
		if err := tx.CreatePayment(ctx, &model.Payment{
			OrderID:         order.ID,
			UserID:          order.UserID,
			ProviderOrderID: providerOrderID,
			Method:          constants.PaymentMethodPayPal,
			Amount:          order.Total,
			Status:          gatewayStatus,
		}); err != nil {
			return err
		}

		result = newPaymentResult(OutcomeApplied, oid, model.PaymentPaid, gatewayStatus)
		if order.UserID != nil {
			evt = event.NewPaymentSucceededEvent(order.ID, order.OID, *order.UserID, providerOrderID, order.Total)
		}
		return nil
	})
	if err != nil {
		return nil, nil, storeErr(err, CodeOrderNotFound, "order not found")
	}

	if result.Outcome == OutcomeApplied {
		s.logger.Info().Str("order_oid", oid).Str("provider_order_id", providerOrderID).Msg("payment applied")
	} else {
		s.logger.Info().Str("order_oid", oid).Msg("already paid")
	}
	return result, evt, nil
}

// dispatch best effort，不使用 request 的 cancel
func (s *PaymentService) dispatch(ctx context.Context, evt *event.PaymentSucceededEvent) {
	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTimeout)
	defer cancel()

	if err := s.notifier.PaymentSucceeded(nctx, evt); err != nil {
		s.logger.Error().Err(err).
			Str("order_oid", evt.OrderOID).
			Int64("user_id", evt.UserID).
			Msg("notification dispatch failed")
	}
}

// TransitionPaymentStatus 管理者手動調整付款狀態，只允許狀態表內的轉移
// paid 只能經由 ConfirmPayment 進入 (付款紀錄與通知都在那裡產生)
// paid -> processing 視為 already paid，訂單不變也不回錯誤
func (s *PaymentService) TransitionPaymentStatus(ctx context.Context, identity model.Identity, oid string, to model.PaymentStatus) (*model.Order, error) {
	if !identity.IsAdmin() {
		return nil, apperr.Forbidden(CodeForbidden, "administrator only")
	}
	if !to.IsValid() {
		return nil, apperr.Validation(CodeInvalidStatus, "unknown payment status "+string(to))
	}
	if to == model.PaymentPaid {
		return nil, apperr.Conflict(CodeConfirmationOnly, "orders become paid only through payment confirmation")
	}

	alreadyPaid := false
	err := s.store.ExecTx(ctx, func(tx repository.UnifiedDB) error {
		order, err := tx.LockOrderByOID(ctx, oid)
		if err != nil {
			return err
		}
		if order.PaymentStatus == model.PaymentPaid && to == model.PaymentProcessing {
			alreadyPaid = true
			return nil
		}
		if !order.PaymentStatus.CanTransitionTo(to) {
			return apperr.Conflict(CodeIllegalTransition, "cannot move payment from "+string(order.PaymentStatus)+" to "+string(to))
		}
		orderStatus := order.OrderStatus
		if to == model.PaymentCancelled {
			orderStatus = model.OrderCancelled
		}
		return tx.UpdateOrderStatus(ctx, order.ID, to, orderStatus)
	})
	if err != nil {
		return nil, storeErr(err, CodeOrderNotFound, "order not found")
	}

	if alreadyPaid {
		s.logger.Info().Str("order_oid", oid).Int64("admin_id", identity.UserID).Msg("already paid, status unchanged")
	} else {
		s.logger.Info().Str("order_oid", oid).Str("payment_status", string(to)).Int64("admin_id", identity.UserID).Msg("payment status changed")
	}

	order, err := s.store.GetOrderByOID(ctx, oid)
	if err != nil {
		return nil, storeErr(err, CodeOrderNotFound, "order not found")
	}
	return order, nil
}

func newPaymentResult(outcome PaymentOutcome, oid string, status model.PaymentStatus, gatewayStatus string) *PaymentResult {
	return &PaymentResult{
		Outcome:       outcome,
		Message:       outcome.Message(),
		OrderOID:      oid,
		PaymentStatus: status,
		GatewayStatus: gatewayStatus,
	}
}

var _ IPaymentService = (*PaymentService)(nil)
