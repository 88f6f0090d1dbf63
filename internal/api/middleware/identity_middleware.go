package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/api/response"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/constants"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/domain/model"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/util"
)

// IdentityMiddleware 讀取上游認證服務帶入的 header，沒有 header 視為匿名
func IdentityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.Header.Get(constants.UserIDHeaderKey))
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}

		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || userID <= 0 {
			response.WriteError(w, http.StatusBadRequest, "invalid_identity", "invalid "+constants.UserIDHeaderKey+" header")
			return
		}

		role := strings.ToLower(strings.TrimSpace(r.Header.Get(constants.UserRoleHeaderKey)))
		if role != constants.RoleAdmin {
			role = constants.RoleCustomer
		}

		ctx := util.WithIdentity(r.Context(), model.Identity{UserID: userID, Role: role})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireIdentity 驗證 ctx 內是否有身分
func RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if util.GetIdentityFromContext(r.Context()).IsAnonymous() {
			response.WriteError(w, http.StatusUnauthorized, "unauthenticated", "identity required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
