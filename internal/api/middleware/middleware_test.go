package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/constants"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/domain/model"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/ratelimit"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/util"
	"github.com/stretchr/testify/require"
)

func TestIdentityMiddleware(t *testing.T) {
	testCases := []struct {
		name     string
		userID   string
		role     string
		status   int
		identity model.Identity
	}{
		{name: "anonymous", status: http.StatusOK, identity: model.Identity{}},
		{name: "customer", userID: "7", status: http.StatusOK, identity: model.Identity{UserID: 7, Role: constants.RoleCustomer}},
		{name: "admin", userID: "1", role: "Admin", status: http.StatusOK, identity: model.Identity{UserID: 1, Role: constants.RoleAdmin}},
		{name: "unknown role", userID: "3", role: "root", status: http.StatusOK, identity: model.Identity{UserID: 3, Role: constants.RoleCustomer}},
		{name: "not a number", userID: "abc", status: http.StatusBadRequest},
		{name: "negative", userID: "-4", status: http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var got model.Identity
			h := IdentityMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = util.GetIdentityFromContext(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.userID != "" {
				req.Header.Set(constants.UserIDHeaderKey, tc.userID)
			}
			if tc.role != "" {
				req.Header.Set(constants.UserRoleHeaderKey, tc.role)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.Equal(t, tc.status, rec.Code)
			if tc.status == http.StatusOK {
				require.Equal(t, tc.identity, got)
			}
		})
	}
}

func TestRequireIdentity(t *testing.T) {
	h := RequireIdentity(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(util.WithIdentity(req.Context(), model.Identity{UserID: 5}))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequestIdMiddleware(t *testing.T) {
	var got string
	h := RequestIdMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = util.GetRequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(constants.RequestIDHeaderKey, "req-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, "req-1", got)
	require.Equal(t, "req-1", rec.Header().Get(constants.RequestIDHeaderKey))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Len(t, got, 36)
}

func TestRecoverMiddleware(t *testing.T) {
	h := RecoverMiddleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"error":{"code":"internal_error","message":"internal server error"}}`, rec.Body.String())
}

func TestLoggerMiddleware_DefaultStatus(t *testing.T) {
	h := LoggerMiddleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := ratelimit.NewTokenBucket(ratelimit.Config{Capacity: 2, RefillPerSec: 0.001, IdleTTL: time.Hour})
	defer limiter.Stop()

	h := NewRateLimitMiddleware(limiter, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	call := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/", nil).WithContext(context.Background())
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusOK, call("10.0.0.1:1111").Code)
	// 同一個 IP 不同 port 共用 bucket
	require.Equal(t, http.StatusOK, call("10.0.0.1:2222").Code)
	rec := call("10.0.0.1:3333")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "1", rec.Header().Get("Retry-After"))
	require.JSONEq(t, `{"error":{"code":"rate_limited","message":"too many requests"}}`, rec.Body.String())

	require.Equal(t, http.StatusOK, call("10.0.0.2:1111").Code)
}
