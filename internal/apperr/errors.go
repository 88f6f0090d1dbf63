package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Kind 錯誤分類，決定呼叫端是否應該重試
type Kind int

const (
	KindInternal Kind = iota
	// KindValidation 輸入不合法，不重試
	KindValidation
	KindNotFound
	KindForbidden
	// KindConflict 狀態衝突，例如空購物車結帳、已終結的付款狀態
	KindConflict
	// KindUnavailable 基礎設施錯誤（DB、gateway timeout），可重試
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	case KindUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

// Error 代表應用層錯誤
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is 以 Kind + Code 判斷是否為同一種錯誤
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func Wrap(kind Kind, code, message string, err error) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Err: err}
}

func Validation(code, message string) *Error {
	return New(KindValidation, code, message)
}

func NotFound(code, message string) *Error {
	return New(KindNotFound, code, message)
}

func Forbidden(code, message string) *Error {
	return New(KindForbidden, code, message)
}

func Conflict(code, message string) *Error {
	return New(KindConflict, code, message)
}

// Unavailable 包裝基礎設施錯誤
func Unavailable(code string, err error) *Error {
	return Wrap(KindUnavailable, code, "service temporarily unavailable, try again later", err)
}

// KindOf 取得錯誤分類，非 *Error 的 context 錯誤視為可重試
func KindOf(err error) Kind {
	if err == nil {
		return KindInternal
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return KindUnavailable
	}
	return KindInternal
}

// IsRetryable return true 表示整個操作可以重新執行
func IsRetryable(err error) bool {
	return err != nil && KindOf(err) == KindUnavailable
}

// CodeOf 取得錯誤代碼
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return "internal_error"
}

// MessageOf 對外顯示的訊息，內部錯誤不外洩細節
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal server error"
}

func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
