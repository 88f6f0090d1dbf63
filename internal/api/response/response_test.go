package response

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/apperr"
	"github.com/stretchr/testify/require"
)

func TestErrorJSON(t *testing.T) {
	testCases := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{
			name:   "validation",
			err:    apperr.Validation("invalid_quantity", "quantity must be greater than zero"),
			status: http.StatusBadRequest,
			body:   `{"error":{"code":"invalid_quantity","message":"quantity must be greater than zero"}}`,
		},
		{
			name:   "unavailable hides cause",
			err:    apperr.Unavailable("store_unavailable", errors.New("dial tcp 10.0.0.1:5432")),
			status: http.StatusServiceUnavailable,
			body:   `{"error":{"code":"store_unavailable","message":"service temporarily unavailable, try again later"}}`,
		},
		{
			name:   "plain error",
			err:    errors.New("boom"),
			status: http.StatusInternalServerError,
			body:   `{"error":{"code":"internal_error","message":"internal server error"}}`,
		},
		{
			name:   "deadline",
			err:    context.DeadlineExceeded,
			status: http.StatusServiceUnavailable,
			body:   `{"error":{"code":"internal_error","message":"internal server error"}}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			ErrorJSON(rec, tc.err)
			require.Equal(t, tc.status, rec.Code)
			require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			require.JSONEq(t, tc.body, rec.Body.String())
		})
	}
}

func TestSuccessJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	SuccessJSON(rec, http.StatusCreated, map[string]string{"oid": "abc"})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.JSONEq(t, `{"data":{"oid":"abc"}}`, rec.Body.String())
}
