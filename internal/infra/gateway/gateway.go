package gateway

import (
	"context"
	"encoding/json"
	"errors"
)

const (
	// StatusCompleted 金流商回報付款完成
	StatusCompleted = "COMPLETED"
)

var (
	// ErrTokenFetchFailed 取得 access token 失敗，通常是設定或連線問題
	ErrTokenFetchFailed = errors.New("payment provider token request failed")
	// ErrVerificationFailed 查詢訂單狀態失敗 (non-200、timeout、body 格式錯誤)
	// 與金流商回報「尚未完成」是不同的結果
	ErrVerificationFailed = errors.New("payment verification failed")
	// ErrUnauthorized token 已失效
	ErrUnauthorized = errors.New("payment provider rejected access token")
)

// Verification 金流商查詢結果
type Verification struct {
	ProviderOrderID string
	Status          string
	Raw             json.RawMessage
}

func (v *Verification) Completed() bool {
	return v != nil && v.Status == StatusCompleted
}

// PaymentGateway 只做外部查詢，不異動本地狀態
type PaymentGateway interface {
	VerifyOrder(ctx context.Context, providerOrderID string) (*Verification, error)
}
