package paypal

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/infra/cache"
	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/infra/gateway"
	"github.com/stretchr/testify/require"
)

type fakePayPal struct {
	tokenCalls  atomic.Int32
	verifyCalls atomic.Int32
	tokenStatus int
	orderStatus int
	orderBody   string
	validToken  string
	delay       time.Duration
}

func (f *fakePayPal) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		f.tokenCalls.Add(1)
		require.Equal(t, http.MethodPost, r.Method)
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "client", user)
		require.Equal(t, "secret", pass)
		require.NoError(t, r.ParseForm())
		require.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))

		if f.tokenStatus != 0 && f.tokenStatus != http.StatusOK {
			w.WriteHeader(f.tokenStatus)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": f.validToken,
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/v2/checkout/orders/", func(w http.ResponseWriter, r *http.Request) {
		f.verifyCalls.Add(1)
		if f.delay > 0 {
			time.Sleep(f.delay)
		}
		if r.Header.Get("Authorization") != "Bearer "+f.validToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if f.orderStatus != 0 && f.orderStatus != http.StatusOK {
			w.WriteHeader(f.orderStatus)
			return
		}
		w.Write([]byte(f.orderBody))
	})
	return mux
}

func newTestClient(srv *httptest.Server, timeout time.Duration) *Client {
	return NewClient(Config{BaseURL: srv.URL, ClientID: "client", Secret: "secret", Timeout: timeout})
}

func TestFetchAccessToken(t *testing.T) {
	fake := &fakePayPal{validToken: "tok-1"}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	token, err := newTestClient(srv, time.Second).FetchAccessToken(context.Background())
	require.NoError(t, err)
	require.Equal(t, "tok-1", token.Value)
	require.Equal(t, time.Hour, token.ExpiresIn)
}

func TestFetchAccessToken_Non200(t *testing.T) {
	fake := &fakePayPal{validToken: "tok-1", tokenStatus: http.StatusUnauthorized}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	_, err := newTestClient(srv, time.Second).FetchAccessToken(context.Background())
	require.ErrorIs(t, err, gateway.ErrTokenFetchFailed)
}

func TestVerifyOrder(t *testing.T) {
	testCases := []struct {
		name        string
		fake        *fakePayPal
		token       string
		checkResult func(t *testing.T, v *gateway.Verification, err error)
	}{
		{
			name:  "completed",
			fake:  &fakePayPal{validToken: "tok", orderBody: `{"id":"PP-1","status":"COMPLETED"}`},
			token: "tok",
			checkResult: func(t *testing.T, v *gateway.Verification, err error) {
				require.NoError(t, err)
				require.True(t, v.Completed())
				require.Equal(t, "PP-1", v.ProviderOrderID)
				require.JSONEq(t, `{"id":"PP-1","status":"COMPLETED"}`, string(v.Raw))
			},
		},
		{
			name:  "approved is not completed",
			fake:  &fakePayPal{validToken: "tok", orderBody: `{"id":"PP-1","status":"APPROVED"}`},
			token: "tok",
			checkResult: func(t *testing.T, v *gateway.Verification, err error) {
				require.NoError(t, err)
				require.False(t, v.Completed())
				require.Equal(t, "APPROVED", v.Status)
			},
		},
		{
			name:  "malformed body",
			fake:  &fakePayPal{validToken: "tok", orderBody: `not json`},
			token: "tok",
			checkResult: func(t *testing.T, v *gateway.Verification, err error) {
				require.ErrorIs(t, err, gateway.ErrVerificationFailed)
				require.Nil(t, v)
			},
		},
		{
			name:  "404",
			fake:  &fakePayPal{validToken: "tok", orderStatus: http.StatusNotFound},
			token: "tok",
			checkResult: func(t *testing.T, v *gateway.Verification, err error) {
				require.ErrorIs(t, err, gateway.ErrVerificationFailed)
				require.False(t, errors.Is(err, gateway.ErrUnauthorized))
			},
		},
		{
			name:  "expired token",
			fake:  &fakePayPal{validToken: "tok"},
			token: "old",
			checkResult: func(t *testing.T, v *gateway.Verification, err error) {
				require.ErrorIs(t, err, gateway.ErrVerificationFailed)
				require.ErrorIs(t, err, gateway.ErrUnauthorized)
			},
		},
		{
			name:  "timeout",
			fake:  &fakePayPal{validToken: "tok", orderBody: `{"status":"COMPLETED"}`, delay: 200 * time.Millisecond},
			token: "tok",
			checkResult: func(t *testing.T, v *gateway.Verification, err error) {
				require.ErrorIs(t, err, gateway.ErrVerificationFailed)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.fake.handler(t))
			defer srv.Close()

			v, err := newTestClient(srv, 50*time.Millisecond).VerifyOrder(context.Background(), "PP-1", tc.token)
			tc.checkResult(t, v, err)
		})
	}
}

func TestGateway_CachesToken(t *testing.T) {
	fake := &fakePayPal{validToken: "tok", orderBody: `{"id":"PP-1","status":"COMPLETED"}`}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	client := newTestClient(srv, time.Second)
	g := NewGateway(client, NewCachedTokenSource(client, cache.NewMemoryCache(), time.Minute, nil))

	_, err := g.VerifyOrder(context.Background(), "PP-1")
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := g.VerifyOrder(context.Background(), "PP-1")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	require.Equal(t, int32(1), fake.tokenCalls.Load())
	require.Equal(t, int32(11), fake.verifyCalls.Load())
}

func TestGateway_InvalidateOnUnauthorized(t *testing.T) {
	fake := &fakePayPal{validToken: "fresh", orderBody: `{"id":"PP-1","status":"COMPLETED"}`}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	c := cache.NewMemoryCache()
	require.NoError(t, c.Set(context.Background(), tokenCacheKey, "stale", time.Hour))

	client := newTestClient(srv, time.Second)
	g := NewGateway(client, NewCachedTokenSource(client, c, time.Minute, nil))

	_, err := g.VerifyOrder(context.Background(), "PP-1")
	require.ErrorIs(t, err, gateway.ErrUnauthorized)

	// 第二次會重新取得 token
	v, err := g.VerifyOrder(context.Background(), "PP-1")
	require.NoError(t, err)
	require.True(t, v.Completed())
	require.Equal(t, int32(1), fake.tokenCalls.Load())
}
