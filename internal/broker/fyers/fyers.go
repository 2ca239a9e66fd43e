// Package fyers talks to the Fyers API v3.
package fyers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/GlebRadaev/tradebridge/internal/broker"
	"github.com/GlebRadaev/tradebridge/internal/config"
	"github.com/GlebRadaev/tradebridge/pkg/clients"
	"github.com/GlebRadaev/tradebridge/pkg/metrics"
)

// Codes Fyers sends with "s":"error" when the access token is no good.
var sessionErrors = map[int]bool{-8: true, -15: true, -16: true, -17: true}

var (
	sides      = map[string]int{broker.SideBuy: 1, broker.SideSell: -1}
	orderTypes = map[string]int{"LIMIT": 1, "MARKET": 2, "SL-M": 3, "SL": 4}
)

// OrderRequest is the app-level order shape accepted for Fyers.
type OrderRequest struct {
	Symbol      string  `json:"symbol" validate:"required"`
	Side        string  `json:"side" validate:"required,oneof=BUY SELL"`
	Type        string  `json:"type,omitempty" validate:"omitempty,oneof=LIMIT MARKET SL SL-M"`
	ProductType string  `json:"productType,omitempty" validate:"omitempty,oneof=INTRADAY CNC MARGIN CO BO MTF"`
	Validity    string  `json:"validity,omitempty" validate:"omitempty,oneof=DAY IOC"`
	Qty         int64   `json:"qty" validate:"gt=0"`
	LimitPrice  float64 `json:"limitPrice,omitempty" validate:"gte=0"`
	StopPrice   float64 `json:"stopPrice,omitempty" validate:"gte=0"`
	OrderTag    string  `json:"orderTag,omitempty"`
}

type placeOrder struct {
	Symbol       string  `json:"symbol"`
	Qty          int64   `json:"qty"`
	Type         int     `json:"type"`
	Side         int     `json:"side"`
	ProductType  string  `json:"productType"`
	LimitPrice   float64 `json:"limitPrice"`
	StopPrice    float64 `json:"stopPrice"`
	Validity     string  `json:"validity"`
	DisclosedQty int64   `json:"disclosedQty"`
	OfflineOrder bool    `json:"offlineOrder"`
	OrderTag     string  `json:"orderTag,omitempty"`
}

type envelope struct {
	S            string `json:"s"`
	Code         int    `json:"code"`
	Message      string `json:"message"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type Adapter struct {
	baseURL     string
	appID       string
	secret      string
	redirectURI string
	req         *broker.Requester
}

// New builds the adapter. callbackURL is used when no redirect URI is
// configured explicitly.
func New(cfg config.Fyers, callbackURL string, client clients.HTTPClientI, m *metrics.Metrics) *Adapter {
	return &Adapter{
		baseURL:     cfg.BaseURL,
		appID:       cfg.ClientID,
		secret:      cfg.SecretKey,
		redirectURI: broker.Or(cfg.RedirectURI, callbackURL),
		req:         &broker.Requester{Broker: broker.Fyers, Client: client, Metrics: m},
	}
}

func (a *Adapter) Name() string { return broker.Fyers }

// RequiredKeys is empty when the app credentials come from the environment.
func (a *Adapter) RequiredKeys() []string {
	if a.appID != "" && a.secret != "" {
		return nil
	}
	return []string{broker.KeyClientID, broker.KeyAPISecret}
}

func (a *Adapter) Authenticate(_ context.Context, creds map[string]string, params broker.AuthParams) (broker.AuthResult, error) {
	appID, _ := a.app(creds)
	if appID == "" {
		return broker.AuthResult{}, &broker.MissingCredentialError{Broker: broker.Fyers, Key: broker.KeyClientID}
	}
	q := url.Values{}
	q.Set("client_id", appID)
	q.Set("redirect_uri", a.redirectURI)
	q.Set("response_type", "code")
	q.Set("state", params.State)
	return broker.AuthResult{RedirectURL: a.baseURL + "/generate-authcode?" + q.Encode()}, nil
}

func (a *Adapter) ExchangeCode(ctx context.Context, creds map[string]string, code string) (broker.Tokens, error) {
	hash, err := a.appIDHash(creds)
	if err != nil {
		return broker.Tokens{}, err
	}
	body := map[string]string{
		"grant_type": "authorization_code",
		"appIdHash":  hash,
		"code":       code,
	}
	return a.token(ctx, "exchange_code", "/validate-authcode", body)
}

// Refresh needs the user's PIN besides the refresh token.
func (a *Adapter) Refresh(ctx context.Context, creds map[string]string) (broker.Tokens, error) {
	if err := broker.Require(broker.Fyers, creds, broker.KeyRefreshToken, broker.KeyPIN); err != nil {
		return broker.Tokens{}, err
	}
	hash, err := a.appIDHash(creds)
	if err != nil {
		return broker.Tokens{}, err
	}
	body := map[string]string{
		"grant_type":    "refresh_token",
		"appIdHash":     hash,
		"refresh_token": creds[broker.KeyRefreshToken],
		"pin":           creds[broker.KeyPIN],
	}
	tokens, err := a.token(ctx, "refresh", "/validate-refresh-token", body)
	if err != nil {
		return broker.Tokens{}, err
	}
	if tokens.RefreshToken == "" {
		tokens.RefreshToken = creds[broker.KeyRefreshToken]
	}
	return tokens, nil
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
		Symbol:      in.Symbol,
		Qty:         in.Qty,
		Type:        orderTypes[broker.Or(in.Type, "MARKET")],
		Side:        sides[in.Side],
		ProductType: broker.Or(in.ProductType, "INTRADAY"),
		LimitPrice:  in.LimitPrice,
		StopPrice:   in.StopPrice,
		Validity:    broker.Or(in.Validity, "DAY"),
		OrderTag:    in.OrderTag,
	}
	raw, err := a.call(ctx, "place_order", http.MethodPost, "/orders/sync", creds, out)
	if err != nil {
		return broker.OrderResult{}, err
	}
	return broker.OrderResult{OrderID: broker.ExtractOrderID(raw), Raw: raw}, nil
}

func (a *Adapter) CancelOrder(ctx context.Context, creds map[string]string, orderID string) (json.RawMessage, error) {
	return a.call(ctx, "cancel_order", http.MethodDelete, "/orders/sync", creds, map[string]string{"id": orderID})
}

func (a *Adapter) Funds(ctx context.Context, creds map[string]string) (json.RawMessage, error) {
	return a.call(ctx, "funds", http.MethodGet, "/funds", creds, nil)
}

func (a *Adapter) Positions(ctx context.Context, creds map[string]string) (json.RawMessage, error) {
	return a.call(ctx, "positions", http.MethodGet, "/positions", creds, nil)
}

// Logout is a no-op: v3 tokens expire at the end of the trading day.
func (a *Adapter) Logout(context.Context, map[string]string) error {
	return nil
}

func (a *Adapter) call(ctx context.Context, op, method, path string, creds map[string]string, body any) (json.RawMessage, error) {
	if err := broker.Require(broker.Fyers, creds, broker.KeyAccessToken); err != nil {
		return nil, err
	}
	appID, _ := a.app(creds)
	h := http.Header{}
	h.Set("Authorization", appID+":"+creds[broker.KeyAccessToken])

	raw, err := a.req.JSON(ctx, op, method, a.baseURL+path, h, body)
	if err != nil {
		return nil, err
	}
	if _, err := checkEnvelope(raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (a *Adapter) token(ctx context.Context, op, path string, body map[string]string) (broker.Tokens, error) {
	raw, err := a.req.JSON(ctx, op, http.MethodPost, a.baseURL+path, nil, body)
	if err != nil {
		return broker.Tokens{}, err
	}
	env, err := checkEnvelope(raw)
	if err != nil {
		return broker.Tokens{}, err
	}
	if env.AccessToken == "" {
		return broker.Tokens{}, fmt.Errorf("fyers %s: no access token in response", op)
	}
	return broker.Tokens{AccessToken: env.AccessToken, RefreshToken: env.RefreshToken}, nil
}

// app resolves the app id and secret, preferring the user's bundle.
func (a *Adapter) app(creds map[string]string) (string, string) {
	return broker.Or(creds[broker.KeyClientID], a.appID), broker.Or(creds[broker.KeyAPISecret], a.secret)
}

func (a *Adapter) appIDHash(creds map[string]string) (string, error) {
	appID, secret := a.app(creds)
	if appID == "" {
		return "", &broker.MissingCredentialError{Broker: broker.Fyers, Key: broker.KeyClientID}
	}
	if secret == "" {
		return "", &broker.MissingCredentialError{Broker: broker.Fyers, Key: broker.KeyAPISecret}
	}
	return AppIDHash(appID, secret), nil
}

// AppIDHash is sha256 of "appId:secret", hex encoded.
func AppIDHash(appID, secret string) string {
	sum := sha256.Sum256([]byte(appID + ":" + secret))
	return hex.EncodeToString(sum[:])
}

func checkEnvelope(body []byte) (envelope, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return env, nil
	}
	if env.S != "error" {
		return env, nil
	}
	status := http.StatusBadRequest
	if sessionErrors[env.Code] {
		status = http.StatusUnauthorized
	}
	return env, &broker.APIError{Broker: broker.Fyers, StatusCode: status, Body: body}
}
