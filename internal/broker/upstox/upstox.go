// Package upstox talks to the Upstox API v2. Orders go to the HFT host,
// everything else to the regular API host.
package upstox

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/GlebRadaev/tradebridge/internal/broker"
	"github.com/GlebRadaev/tradebridge/internal/config"
	"github.com/GlebRadaev/tradebridge/pkg/clients"
	"github.com/GlebRadaev/tradebridge/pkg/metrics"
)

var errNoAccessToken = errors.New("upstox: no access token in response")

var products = map[string]string{
	"I":        "I",
	"INTRADAY": "I",
	"MIS":      "I",
	"D":        "D",
	"DELIVERY": "D",
	"CNC":      "D",
	"MTF":      "MTF",
}

// OrderRequest is the app-level order shape accepted for Upstox. Symbol is
// the instrument token, e.g. NSE_EQ|INE848E01016.
type OrderRequest struct {
	Symbol          string  `json:"symbol" validate:"required"`
	TransactionType string  `json:"transaction_type" validate:"required,oneof=BUY SELL"`
	OrderType       string  `json:"order_type,omitempty" validate:"omitempty,oneof=MARKET LIMIT SL SL-M"`
	Product         string  `json:"product,omitempty"`
	Validity        string  `json:"validity,omitempty" validate:"omitempty,oneof=DAY IOC"`
	Quantity        int64   `json:"quantity" validate:"gt=0"`
	Price           float64 `json:"price,omitempty" validate:"gte=0"`
	TriggerPrice    float64 `json:"trigger_price,omitempty" validate:"gte=0"`
	Tag             string  `json:"tag,omitempty"`
}

type placeOrder struct {
	Quantity          int64   `json:"quantity"`
	Product           string  `json:"product"`
	Validity          string  `json:"validity"`
	Price             float64 `json:"price"`
	Tag               string  `json:"tag,omitempty"`
	InstrumentToken   string  `json:"instrument_token"`
	OrderType         string  `json:"order_type"`
	TransactionType   string  `json:"transaction_type"`
	DisclosedQuantity int64   `json:"disclosed_quantity"`
	TriggerPrice      float64 `json:"trigger_price"`
	IsAMO             bool    `json:"is_amo"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type Adapter struct {
	baseURL      string
	orderURL     string
	clientID     string
	clientSecret string
	redirectURI  string
	req          *broker.Requester
}

// New builds the adapter. callbackURL is used when no redirect URI is
// configured explicitly.
func New(cfg config.Upstox, callbackURL string, client clients.HTTPClientI, m *metrics.Metrics) *Adapter {
	return &Adapter{
		baseURL:      cfg.BaseURL,
		orderURL:     broker.Or(cfg.OrderURL, cfg.BaseURL),
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		redirectURI:  broker.Or(cfg.RedirectURI, callbackURL),
		req:          &broker.Requester{Broker: broker.Upstox, Client: client, Metrics: m},
	}
}

func (a *Adapter) Name() string { return broker.Upstox }

// RequiredKeys is empty when the app credentials come from the environment.
func (a *Adapter) RequiredKeys() []string {
	if a.clientID != "" && a.clientSecret != "" {
		return nil
	}
	return []string{broker.KeyAPIKey, broker.KeyAPISecret}
}

func (a *Adapter) Authenticate(_ context.Context, creds map[string]string, params broker.AuthParams) (broker.AuthResult, error) {
	clientID, _ := a.app(creds)
	if clientID == "" {
		return broker.AuthResult{}, &broker.MissingCredentialError{Broker: broker.Upstox, Key: broker.KeyAPIKey}
	}
	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("client_id", clientID)
	q.Set("redirect_uri", a.redirectURI)
	q.Set("state", params.State)
	return broker.AuthResult{RedirectURL: a.baseURL + "/login/authorization/dialog?" + q.Encode()}, nil
}

func (a *Adapter) ExchangeCode(ctx context.Context, creds map[string]string, code string) (broker.Tokens, error) {
	form := url.Values{}
	form.Set("code", code)
	form.Set("grant_type", "authorization_code")
	return a.token(ctx, "exchange_code", creds, form)
}

func (a *Adapter) Refresh(ctx context.Context, creds map[string]string) (broker.Tokens, error) {
	if err := broker.Require(broker.Upstox, creds, broker.KeyRefreshToken); err != nil {
		return broker.Tokens{}, err
	}
	form := url.Values{}
	form.Set("refresh_token", creds[broker.KeyRefreshToken])
	form.Set("grant_type", "refresh_token")
	tokens, err := a.token(ctx, "refresh", creds, form)
	if err != nil {
		return broker.Tokens{}, err
	}
	if tokens.RefreshToken == "" {
		tokens.RefreshToken = creds[broker.KeyRefreshToken]
	}
	return tokens, nil
}

func (a *Adapter) Profile(ctx context.Context, creds map[string]string) (json.RawMessage, error) {
	return a.call(ctx, "profile", http.MethodGet, a.baseURL+"/user/profile", creds, nil)
}

func (a *Adapter) PlaceOrder(ctx context.Context, creds map[string]string, order json.RawMessage) (broker.OrderResult, error) {
	var in OrderRequest
	if err := broker.DecodeOrder(order, &in); err != nil {
		return broker.OrderResult{}, err
	}
	product, ok := products[broker.Or(in.Product, "I")]
	if !ok {
		return broker.OrderResult{}, broker.ErrInvalidOrder
	}
	out := placeOrder{
		Quantity:        in.Quantity,
		Product:         product,
		Validity:        broker.Or(in.Validity, "DAY"),
		Price:           in.Price,
		Tag:             in.Tag,
		InstrumentToken: in.Symbol,
		OrderType:       broker.Or(in.OrderType, "MARKET"),
		TransactionType: in.TransactionType,
		TriggerPrice:    in.TriggerPrice,
	}
	raw, err := a.call(ctx, "place_order", http.MethodPost, a.orderURL+"/order/place", creds, out)
	if err != nil {
		return broker.OrderResult{}, err
	}
	return broker.OrderResult{OrderID: broker.ExtractOrderID(raw), Raw: raw}, nil
}

func (a *Adapter) CancelOrder(ctx context.Context, creds map[string]string, orderID string) (json.RawMessage, error) {
	endpoint := a.orderURL + "/order/cancel?" + url.Values{"order_id": {orderID}}.Encode()
	return a.call(ctx, "cancel_order", http.MethodDelete, endpoint, creds, nil)
}

func (a *Adapter) Funds(ctx context.Context, creds map[string]string) (json.RawMessage, error) {
	return a.call(ctx, "funds", http.MethodGet, a.baseURL+"/user/get-funds-and-margin", creds, nil)
}

func (a *Adapter) Positions(ctx context.Context, creds map[string]string) (json.RawMessage, error) {
	return a.call(ctx, "positions", http.MethodGet, a.baseURL+"/portfolio/short-term-positions", creds, nil)
}

func (a *Adapter) Logout(ctx context.Context, creds map[string]string) error {
	_, err := a.call(ctx, "logout", http.MethodDelete, a.baseURL+"/logout", creds, nil)
	return err
}

func (a *Adapter) call(ctx context.Context, op, method, endpoint string, creds map[string]string, body any) (json.RawMessage, error) {
	if err := broker.Require(broker.Upstox, creds, broker.KeyAccessToken); err != nil {
		return nil, err
	}
	h := http.Header{}
	h.Set("Authorization", "Bearer "+creds[broker.KeyAccessToken])
	return a.req.JSON(ctx, op, method, endpoint, h, body)
}

func (a *Adapter) token(ctx context.Context, op string, creds map[string]string, form url.Values) (broker.Tokens, error) {
	clientID, secret := a.app(creds)
	if clientID == "" || secret == "" {
		return broker.Tokens{}, &broker.MissingCredentialError{Broker: broker.Upstox, Key: broker.KeyAPISecret}
	}
	form.Set("client_id", clientID)
	form.Set("client_secret", secret)
	form.Set("redirect_uri", a.redirectURI)

	raw, err := a.req.Form(ctx, op, a.baseURL+"/login/authorization/token", nil, form)
	if err != nil {
		return broker.Tokens{}, err
	}
	var resp tokenResponse
	if err := json.Unmarshal(raw, &resp); err != nil || resp.AccessToken == "" {
		return broker.Tokens{}, errNoAccessToken
	}
	return broker.Tokens{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}, nil
}

// app resolves the client id and secret, preferring the user's bundle.
func (a *Adapter) app(creds map[string]string) (string, string) {
	return broker.Or(creds[broker.KeyAPIKey], a.clientID), broker.Or(creds[broker.KeyAPISecret], a.clientSecret)
}
