package service

import (
	"errors"

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/apperr"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/infra/repository"
)

const (
	CodeInvalidQuantity     = "invalid_quantity"
	CodeInsufficientStock   = "insufficient_stock"
	CodeProductNotFound     = "product_not_found"
	CodeProductUnavailable  = "product_unavailable"
	CodeCartNotFound        = "cart_not_found"
	CodeCartItemNotFound    = "cart_item_not_found"
	CodeEmptyCart           = "empty_cart"
	CodeInvalidShipping     = "invalid_shipping_info"
	CodeOrderNotFound       = "order_not_found"
	CodeForbidden           = "forbidden"
	CodeInvalidProviderID   = "invalid_provider_order_id"
	CodeVerificationFailed  = "payment_verification_failed"
	CodePaymentConflict     = "payment_state_conflict"
	CodeIllegalTransition   = "illegal_payment_transition"
	CodeConfirmationOnly    = "payment_requires_confirmation"
	CodeInvalidStatus       = "invalid_payment_status"
	CodeNotificationMissing = "notification_not_found"
	CodeStoreUnavailable    = "store_unavailable"
	CodeInvalidProductID    = "invalid_product_id"
)

// storeErr 將 repository 錯誤轉成 apperr
// 已經是 apperr 的錯誤原樣回傳，ErrNotFound 轉成 NotFound，其餘視為可重試
func storeErr(err error, notFoundCode, notFoundMsg string) error {
	if err == nil {
		return nil
	}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound(notFoundCode, notFoundMsg)
	}
	return apperr.Unavailable(CodeStoreUnavailable, err)
}
