// Package dhan talks to the DhanHQ v2 REST API. Dhan issues long lived access
// tokens from its own console, so there is no login or refresh flow here.
package dhan

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/GlebRadaev/tradebridge/internal/broker"
	"github.com/GlebRadaev/tradebridge/internal/config"
	"github.com/GlebRadaev/tradebridge/pkg/clients"
	"github.com/GlebRadaev/tradebridge/pkg/metrics"
)

// OrderRequest is the app-level order shape accepted for Dhan.
type OrderRequest struct {
	Symbol          string  `json:"symbol" validate:"required"`
	SecurityID      string  `json:"securityId,omitempty"`
	ExchangeSegment string  `json:"exchangeSegment,omitempty"`
	TransactionType string  `json:"transactionType" validate:"required,oneof=BUY SELL"`
	OrderType       string  `json:"orderType,omitempty" validate:"omitempty,oneof=MARKET LIMIT STOP_LOSS STOP_LOSS_MARKET"`
	ProductType     string  `json:"productType,omitempty" validate:"omitempty,oneof=CNC INTRADAY MARGIN MTF CO BO"`
	Validity        string  `json:"validity,omitempty"`
	Quantity        int64   `json:"quantity" validate:"gt=0"`
	Price           float64 `json:"price,omitempty" validate:"gte=0"`
	TriggerPrice    float64 `json:"triggerPrice,omitempty" validate:"gte=0"`
}

type placeOrder struct {
	DhanClientID      string  `json:"dhanClientId"`
	CorrelationID     string  `json:"correlationId,omitempty"`
	TransactionType   string  `json:"transactionType"`
	ExchangeSegment   string  `json:"exchangeSegment"`
	ProductType       string  `json:"productType"`
	OrderType         string  `json:"orderType"`
	Validity          string  `json:"validity"`
	TradingSymbol     string  `json:"tradingSymbol"`
	SecurityID        string  `json:"securityId"`
	Quantity          int64   `json:"quantity"`
	Price             float64 `json:"price"`
	TriggerPrice      float64 `json:"triggerPrice,omitempty"`
	AfterMarketOrder  bool    `json:"afterMarketOrder"`
	DisclosedQuantity int64   `json:"disclosedQuantity"`
}

type Adapter struct {
	baseURL string
	req     *broker.Requester
}

func New(cfg config.Dhan, client clients.HTTPClientI, m *metrics.Metrics) *Adapter {
	return &Adapter{
		baseURL: cfg.BaseURL,
		req:     &broker.Requester{Broker: broker.Dhan, Client: client, Metrics: m},
	}
}

func (a *Adapter) Name() string { return broker.Dhan }

func (a *Adapter) RequiredKeys() []string {
	return []string{broker.KeyClientID, broker.KeyAccessToken}
}

// Authenticate verifies the stored token against the profile endpoint.
func (a *Adapter) Authenticate(ctx context.Context, creds map[string]string, _ broker.AuthParams) (broker.AuthResult, error) {
	if err := broker.Require(broker.Dhan, creds, a.RequiredKeys()...); err != nil {
		return broker.AuthResult{}, err
	}
	if _, err := a.Profile(ctx, creds); err != nil {
		return broker.AuthResult{}, err
	}
	return broker.AuthResult{Tokens: &broker.Tokens{AccessToken: creds[broker.KeyAccessToken]}}, nil
}

func (a *Adapter) ExchangeCode(context.Context, map[string]string, string) (broker.Tokens, error) {
	return broker.Tokens{}, broker.ErrCodeExchangeUnsupported
}

func (a *Adapter) Refresh(context.Context, map[string]string) (broker.Tokens, error) {
	return broker.Tokens{}, broker.ErrRefreshUnsupported
}

func (a *Adapter) Profile(ctx context.Context, creds map[string]string) (json.RawMessage, error) {
	return a.call(ctx, "profile", http.MethodGet, "/profile", creds, nil)
}

func (a *Adapter) PlaceOrder(ctx context.Context, creds map[string]string, order json.RawMessage) (broker.OrderResult, error) {
	var in OrderRequest
	if err := broker.DecodeOrder(order, &in); err != nil {
		return broker.OrderResult{}, err
	}

	out := placeOrder{
		DhanClientID:    creds[broker.KeyClientID],
		TransactionType: in.TransactionType,
		ExchangeSegment: broker.Or(in.ExchangeSegment, "NSE_EQ"),
		ProductType:     broker.Or(in.ProductType, "INTRADAY"),
		OrderType:       broker.Or(in.OrderType, "MARKET"),
		Validity:        broker.Or(in.Validity, "DAY"),
		TradingSymbol:   in.Symbol,
		SecurityID:      broker.Or(in.SecurityID, in.Symbol),
		Quantity:        in.Quantity,
		Price:           in.Price,
		TriggerPrice:    in.TriggerPrice,
	}
	raw, err := a.call(ctx, "place_order", http.MethodPost, "/orders", creds, out)
	if err != nil {
		return broker.OrderResult{}, err
	}
	return broker.OrderResult{OrderID: broker.ExtractOrderID(raw), Raw: raw}, nil
}

func (a *Adapter) CancelOrder(ctx context.Context, creds map[string]string, orderID string) (json.RawMessage, error) {
	return a.call(ctx, "cancel_order", http.MethodDelete, "/orders/"+url.PathEscape(orderID), creds, nil)
}

func (a *Adapter) Funds(ctx context.Context, creds map[string]string) (json.RawMessage, error) {
	return a.call(ctx, "funds", http.MethodGet, "/fundlimit", creds, nil)
}

func (a *Adapter) Positions(ctx context.Context, creds map[string]string) (json.RawMessage, error) {
	return a.call(ctx, "positions", http.MethodGet, "/positions", creds, nil)
}

// Logout is a no-op: Dhan tokens are revoked from the Dhan console.
func (a *Adapter) Logout(context.Context, map[string]string) error {
	return nil
}

func (a *Adapter) call(ctx context.Context, op, method, path string, creds map[string]string, body any) (json.RawMessage, error) {
	if err := broker.Require(broker.Dhan, creds, broker.KeyAccessToken); err != nil {
		return nil, err
	}
	h := http.Header{}
	h.Set("access-token", creds[broker.KeyAccessToken])
	if id := creds[broker.KeyClientID]; id != "" {
		h.Set("client-id", id)
	}
	return a.req.JSON(ctx, op, method, a.baseURL+path, h, body)
}
