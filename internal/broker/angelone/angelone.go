// Package angelone talks to the AngelOne SmartAPI REST endpoints.
package angelone

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/GlebRadaev/tradebridge/internal/broker"
	"github.com/GlebRadaev/tradebridge/internal/config"
	"github.com/GlebRadaev/tradebridge/pkg/clients"
	"github.com/GlebRadaev/tradebridge/pkg/metrics"
)

const (
	loginPath     = "/rest/auth/angelbroking/user/v1/loginByPassword"
	tokenPath     = "/rest/auth/angelbroking/jwt/v1/generateTokens"
	profilePath   = "/rest/secure/angelbroking/user/v1/getProfile"
	logoutPath    = "/rest/secure/angelbroking/user/v1/logout"
	placePath     = "/rest/secure/angelbroking/order/v1/placeOrder"
	cancelPath    = "/rest/secure/angelbroking/order/v1/cancelOrder"
	fundsPath     = "/rest/secure/angelbroking/user/v1/getRMS"
	positionsPath = "/rest/secure/angelbroking/order/v1/getPosition"
)

// Error codes SmartAPI returns with HTTP 200 for a bad session.
var sessionErrors = map[string]bool{
	"AG8001": true,
	"AG8002": true,
	"AG8003": true,
}

var errEmptyToken = errors.New("angelone: empty jwt token in response")

// OrderRequest is the app-level order shape accepted for AngelOne.
type OrderRequest struct {
	TradingSymbol string  `json:"tradingsymbol" validate:"required"`
	SymbolToken   string  `json:"symboltoken,omitempty"`
	Exchange      string  `json:"exchange,omitempty"`
	OrderSide     string  `json:"order_side" validate:"required,oneof=BUY SELL"`
	OrderType     string  `json:"ordertype,omitempty" validate:"omitempty,oneof=MARKET LIMIT STOPLOSS_LIMIT STOPLOSS_MARKET"`
	ProductType   string  `json:"producttype,omitempty"`
	Variety       string  `json:"variety,omitempty"`
	Duration      string  `json:"duration,omitempty"`
	Quantity      int64   `json:"quantity" validate:"gt=0"`
	Price         float64 `json:"price,omitempty" validate:"gte=0"`
	TriggerPrice  float64 `json:"triggerprice,omitempty" validate:"gte=0"`
}

type placeOrder struct {
	Variety         string `json:"variety"`
	TradingSymbol   string `json:"tradingsymbol"`
	SymbolToken     string `json:"symboltoken"`
	TransactionType string `json:"transactiontype"`
	Exchange        string `json:"exchange"`
	OrderType       string `json:"ordertype"`
	ProductType     string `json:"producttype"`
	Duration        string `json:"duration"`
	Price           string `json:"price"`
	TriggerPrice    string `json:"triggerprice,omitempty"`
	SquareOff       string `json:"squareoff"`
	StopLoss        string `json:"stoploss"`
	Quantity        string `json:"quantity"`
}

type envelope struct {
	Status    bool            `json:"status"`
	Message   string          `json:"message"`
	ErrorCode string          `json:"errorcode"`
	Data      json.RawMessage `json:"data"`
}

type tokenData struct {
	JWTToken     string `json:"jwtToken"`
	RefreshToken string `json:"refreshToken"`
	FeedToken    string `json:"feedToken"`
}

type Adapter struct {
	baseURL string
	apiKey  string
	req     *broker.Requester
}

func New(cfg config.AngelOne, client clients.HTTPClientI, m *metrics.Metrics) *Adapter {
	return &Adapter{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		req:     &broker.Requester{Broker: broker.AngelOne, Client: client, Metrics: m},
	}
}

func (a *Adapter) Name() string { return broker.AngelOne }

func (a *Adapter) RequiredKeys() []string {
	if a.apiKey == "" {
		return []string{broker.KeyAPIKey, broker.KeyClientCode, broker.KeyPIN}
	}
	return []string{broker.KeyClientCode, broker.KeyPIN}
}

func (a *Adapter) Authenticate(ctx context.Context, creds map[string]string, params broker.AuthParams) (broker.AuthResult, error) {
	if err := broker.Require(broker.AngelOne, creds, a.RequiredKeys()...); err != nil {
		return broker.AuthResult{}, err
	}
	if params.TOTP == "" {
		return broker.AuthResult{}, broker.ErrTOTPRequired
	}

	body := map[string]string{
		"clientcode": creds[broker.KeyClientCode],
		"password":   creds[broker.KeyPIN],
		"totp":       params.TOTP,
	}
	data, err := a.call(ctx, "login", loginPath, a.headers(creds, ""), body)
	if err != nil {
		return broker.AuthResult{}, err
	}
	tokens, err := parseTokens(data)
	if err != nil {
		return broker.AuthResult{}, err
	}
	return broker.AuthResult{Tokens: &tokens}, nil
}

func (a *Adapter) ExchangeCode(context.Context, map[string]string, string) (broker.Tokens, error) {
	return broker.Tokens{}, broker.ErrCodeExchangeUnsupported
}

func (a *Adapter) Refresh(ctx context.Context, creds map[string]string) (broker.Tokens, error) {
	if err := broker.Require(broker.AngelOne, creds, broker.KeyRefreshToken); err != nil {
		return broker.Tokens{}, err
	}
	body := map[string]string{"refreshToken": creds[broker.KeyRefreshToken]}
	data, err := a.call(ctx, "refresh", tokenPath, a.headers(creds, creds[broker.KeyAccessToken]), body)
	if err != nil {
		return broker.Tokens{}, err
	}
	return parseTokens(data)
}

func (a *Adapter) Profile(ctx context.Context, creds map[string]string) (json.RawMessage, error) {
	return a.secure(ctx, "profile", http.MethodGet, profilePath, creds, nil)
}

func (a *Adapter) PlaceOrder(ctx context.Context, creds map[string]string, order json.RawMessage) (broker.OrderResult, error) {
	var in OrderRequest
	if err := broker.DecodeOrder(order, &in); err != nil {
		return broker.OrderResult{}, err
	}

	orderType := broker.Or(in.OrderType, "MARKET")
	variety := in.Variety
	if variety == "" {
		variety = "NORMAL"
		if orderType == "STOPLOSS_LIMIT" || orderType == "STOPLOSS_MARKET" {
			variety = "STOPLOSS"
		}
	}
	out := placeOrder{
		Variety:         variety,
		TradingSymbol:   in.TradingSymbol,
		SymbolToken:     in.SymbolToken,
		TransactionType: in.OrderSide,
		Exchange:        broker.Or(in.Exchange, "NSE"),
		OrderType:       orderType,
		ProductType:     broker.Or(in.ProductType, "INTRADAY"),
		Duration:        broker.Or(in.Duration, "DAY"),
		Price:           formatPrice(in.Price),
		SquareOff:       "0",
		StopLoss:        "0",
		Quantity:        strconv.FormatInt(in.Quantity, 10),
	}
	if in.TriggerPrice > 0 {
		out.TriggerPrice = formatPrice(in.TriggerPrice)
	}

	raw, err := a.secure(ctx, "place_order", http.MethodPost, placePath, creds, out)
	if err != nil {
		return broker.OrderResult{}, err
	}
	return broker.OrderResult{OrderID: broker.ExtractOrderID(raw), Raw: raw}, nil
}

func (a *Adapter) CancelOrder(ctx context.Context, creds map[string]string, orderID string) (json.RawMessage, error) {
	body := map[string]string{"variety": "NORMAL", "orderid": orderID}
	return a.secure(ctx, "cancel_order", http.MethodPost, cancelPath, creds, body)
}

func (a *Adapter) Funds(ctx context.Context, creds map[string]string) (json.RawMessage, error) {
	return a.secure(ctx, "funds", http.MethodGet, fundsPath, creds, nil)
}

func (a *Adapter) Positions(ctx context.Context, creds map[string]string) (json.RawMessage, error) {
	return a.secure(ctx, "positions", http.MethodGet, positionsPath, creds, nil)
}

func (a *Adapter) Logout(ctx context.Context, creds map[string]string) error {
	body := map[string]string{"clientcode": creds[broker.KeyClientCode]}
	_, err := a.secure(ctx, "logout", http.MethodPost, logoutPath, creds, body)
	return err
}

func (a *Adapter) secure(ctx context.Context, op, method, path string, creds map[string]string, body any) (json.RawMessage, error) {
	if err := broker.Require(broker.AngelOne, creds, broker.KeyAccessToken); err != nil {
		return nil, err
	}
	headers := a.headers(creds, creds[broker.KeyAccessToken])
	resp, err := a.req.JSON(ctx, op, method, a.baseURL+path, headers, body)
	if err != nil {
		return nil, err
	}
	if err := checkEnvelope(resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// call is used by the token endpoints and returns the envelope's data.
func (a *Adapter) call(ctx context.Context, op, path string, headers http.Header, body any) (json.RawMessage, error) {
	resp, err := a.req.JSON(ctx, op, http.MethodPost, a.baseURL+path, headers, body)
	if err != nil {
		return nil, err
	}
	if err := checkEnvelope(resp); err != nil {
		return nil, err
	}
	var env envelope
	if err := json.Unmarshal(resp, &env); err != nil {
		return nil, fmt.Errorf("angelone %s: decode response: %w", op, err)
	}
	return env.Data, nil
}

func (a *Adapter) headers(creds map[string]string, jwtToken string) http.Header {
	h := http.Header{}
	h.Set("X-UserType", "USER")
	h.Set("X-SourceID", "WEB")
	h.Set("X-ClientLocalIP", "127.0.0.1")
	h.Set("X-ClientPublicIP", "127.0.0.1")
	h.Set("X-MACAddress", "00:00:00:00:00:00")
	h.Set("X-PrivateKey", broker.Or(creds[broker.KeyAPIKey], a.apiKey))
	if jwtToken != "" {
		h.Set("Authorization", "Bearer "+jwtToken)
	}
	return h
}

// checkEnvelope maps a status=false envelope to an APIError, so session
// errors flow through the same 401 handling as other brokers.
func checkEnvelope(body []byte) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil
	}
	if env.Status {
		return nil
	}
	if sessionErrors[env.ErrorCode] {
		return &broker.APIError{Broker: broker.AngelOne, StatusCode: http.StatusUnauthorized, Body: body}
	}
	return &broker.APIError{Broker: broker.AngelOne, StatusCode: http.StatusBadRequest, Body: body}
}

func parseTokens(data json.RawMessage) (broker.Tokens, error) {
	var td tokenData
	if err := json.Unmarshal(data, &td); err != nil {
		return broker.Tokens{}, fmt.Errorf("angelone: decode tokens: %w", err)
	}
	if td.JWTToken == "" {
		return broker.Tokens{}, errEmptyToken
	}
	return broker.Tokens{
		AccessToken:  strings.TrimPrefix(td.JWTToken, "Bearer "),
		RefreshToken: td.RefreshToken,
		FeedToken:    td.FeedToken,
	}, nil
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
