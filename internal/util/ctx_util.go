package util

import (
	"context"

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/constants"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/domain/model"
)

// GetIdentityFromContext 沒有身分時回傳匿名 (UserID=0)
func GetIdentityFromContext(ctx context.Context) model.Identity {
	if v, ok := ctx.Value(constants.IdentityKey).(model.Identity); ok {
		return v
	}
	return model.Identity{}
}

func WithIdentity(ctx context.Context, identity model.Identity) context.Context {
	return context.WithValue(ctx, constants.IdentityKey, identity)
}

func GetRequestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(constants.RequestIDKey).(string); ok {
		return v
	}
	return "unknown"
}
