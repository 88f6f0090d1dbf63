package paypal

import (
	"context"
	"errors"

	"github.com/Ali-Sina-255/franch-OnlineShopping/internal/infra/gateway"
)

type TokenSource interface {
	Token(ctx context.Context) (string, error)
	Invalidate(ctx context.Context)
}

// Gateway 組合 token 與訂單查詢，實作 gateway.PaymentGateway
type Gateway struct {
	client *Client
	tokens TokenSource
}

func NewGateway(client *Client, tokens TokenSource) *Gateway {
	if client == nil {
		panic("paypal client cannot be nil")
	}
	if tokens == nil {
		panic("token source cannot be nil")
	}
	return &Gateway{
		client: client,
		tokens: tokens,
	}
}

func (g *Gateway) VerifyOrder(ctx context.Context, providerOrderID string) (*gateway.Verification, error) {
	token, err := g.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	v, err := g.client.VerifyOrder(ctx, providerOrderID, token)
	if err != nil {
		if errors.Is(err, gateway.ErrUnauthorized) {
			g.tokens.Invalidate(ctx)
		}
		return nil, err
	}
	return v, nil
}

var _ gateway.PaymentGateway = (*Gateway)(nil)
