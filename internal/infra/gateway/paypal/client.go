package paypal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/infra/gateway"
)

const (
	SandboxBaseURL = "https://api-m.sandbox.paypal.com"
	LiveBaseURL    = "https://api-m.paypal.com"

	tokenPath      = "/v1/oauth2/token"
	orderPathFmt   = "/v2/checkout/orders/%s"
	maxBodyBytes   = 1 << 20
	defaultTimeout = 10 * time.Second
)

type Config struct {
	BaseURL  string
	ClientID string
	Secret   string
	Timeout  time.Duration
}

// AccessToken OAuth client_credentials 取得的 token
type AccessToken struct {
	Value     string
	ExpiresIn time.Duration
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type orderResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Client 每個方法只做一次 HTTP round trip，不自行重試
type Client struct {
	baseURL    string
	clientID   string
	secret     string
	httpClient *http.Client
}

type ClientOption func(*Client)

func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func NewClient(cfg Config, opts ...ClientOption) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = SandboxBaseURL
	}

	c := &Client{
		baseURL:    baseURL,
		clientID:   cfg.ClientID,
		secret:     cfg.Secret,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchAccessToken POST /v1/oauth2/token，non-200 視為設定或連線錯誤
func (c *Client) FetchAccessToken(ctx context.Context) (*AccessToken, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+tokenPath, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", gateway.ErrTokenFetchFailed, err)
	}
	req.SetBasicAuth(c.clientID, c.secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", gateway.ErrTokenFetchFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", gateway.ErrTokenFetchFailed, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", gateway.ErrTokenFetchFailed, resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, fmt.Errorf("%w: decode body: %v", gateway.ErrTokenFetchFailed, err)
	}
	if tr.AccessToken == "" {
		return nil, fmt.Errorf("%w: empty access token", gateway.ErrTokenFetchFailed)
	}

	return &AccessToken{
		Value:     tr.AccessToken,
		ExpiresIn: time.Duration(tr.ExpiresIn) * time.Second,
	}, nil
}

// VerifyOrder GET /v2/checkout/orders/{id}
// non-200 或 body 格式錯誤回傳 ErrVerificationFailed；401 另外包上 ErrUnauthorized
func (c *Client) VerifyOrder(ctx context.Context, providerOrderID, token string) (*gateway.Verification, error) {
	endpoint := c.baseURL + fmt.Sprintf(orderPathFmt, url.PathEscape(providerOrderID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", gateway.ErrVerificationFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", gateway.ErrVerificationFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", gateway.ErrVerificationFailed, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, fmt.Errorf("%w: %w", gateway.ErrVerificationFailed, gateway.ErrUnauthorized)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: status %d", gateway.ErrVerificationFailed, resp.StatusCode)
	}

	var or orderResponse
	if err := json.Unmarshal(body, &or); err != nil {
		return nil, fmt.Errorf("%w: decode body: %v", gateway.ErrVerificationFailed, err)
	}
	if or.Status == "" {
		return nil, fmt.Errorf("%w: missing status", gateway.ErrVerificationFailed)
	}

	return &gateway.Verification{
		ProviderOrderID: providerOrderID,
		Status:          or.Status,
		Raw:             json.RawMessage(body),
	}, nil
}
