package angelone

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GlebRadaev/tradebridge/internal/broker"
	"github.com/GlebRadaev/tradebridge/internal/config"
	"github.com/GlebRadaev/tradebridge/pkg/clients"
)

type capture struct {
	path    string
	headers http.Header
	body    map[string]any
}

func newServer(t *testing.T, status int, response string, got *capture) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.path = r.URL.Path
		got.headers = r.Header.Clone()
		raw, _ := io.ReadAll(r.Body)
		got.body = nil
		if len(raw) > 0 {
			assert.NoError(t, json.Unmarshal(raw, &got.body))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(server.Close)
	return server
}

func newAdapter(url string) *Adapter {
	return New(config.AngelOne{BaseURL: url, APIKey: "env-key"}, clients.NewHTTPClient(), nil)
}

func TestAdapter_Authenticate(t *testing.T) {
	var got capture
	server := newServer(t, http.StatusOK, `{"status":true,"message":"SUCCESS","errorcode":"","data":{"jwtToken":"Bearer jwt-1","refreshToken":"ref-1","feedToken":"feed-1"}}`, &got)
	a := newAdapter(server.URL)

	creds := map[string]string{broker.KeyClientCode: "A123", broker.KeyPIN: "1111"}
	res, err := a.Authenticate(context.Background(), creds, broker.AuthParams{TOTP: "654321"})
	require.NoError(t, err)
	require.NotNil(t, res.Tokens)
	assert.Equal(t, broker.Tokens{AccessToken: "jwt-1", RefreshToken: "ref-1", FeedToken: "feed-1"}, *res.Tokens)
	assert.Equal(t, loginPath, got.path)
	assert.Equal(t, "env-key", got.headers.Get("X-PrivateKey"))
	assert.Equal(t, map[string]any{"clientcode": "A123", "password": "1111", "totp": "654321"}, got.body)

	_, err = a.Authenticate(context.Background(), creds, broker.AuthParams{})
	assert.ErrorIs(t, err, broker.ErrTOTPRequired)

	_, err = a.Authenticate(context.Background(), map[string]string{broker.KeyClientCode: "A123"}, broker.AuthParams{TOTP: "1"})
	var missing *broker.MissingCredentialError
	assert.ErrorAs(t, err, &missing)
}

func TestAdapter_PlaceOrder(t *testing.T) {
	var got capture
	server := newServer(t, http.StatusOK, `{"status":true,"message":"SUCCESS","errorcode":"","data":{"script":"SBIN-EQ","orderid":"200910000000111"}}`, &got)
	a := newAdapter(server.URL)
	creds := map[string]string{broker.KeyAPIKey: "user-key", broker.KeyAccessToken: "jwt-1"}

	res, err := a.PlaceOrder(context.Background(), creds, json.RawMessage(`{"tradingsymbol":"SBIN-EQ","symboltoken":"3045","order_side":"BUY","quantity":5,"ordertype":"LIMIT","price":512.5}`))
	require.NoError(t, err)
	assert.Equal(t, "200910000000111", res.OrderID)
	assert.Equal(t, placePath, got.path)
	assert.Equal(t, "Bearer jwt-1", got.headers.Get("Authorization"))
	assert.Equal(t, "user-key", got.headers.Get("X-PrivateKey"))
	assert.Equal(t, "BUY", got.body["transactiontype"])
	assert.Equal(t, "SBIN-EQ", got.body["tradingsymbol"])
	assert.Equal(t, "5", got.body["quantity"])
	assert.Equal(t, "512.5", got.body["price"])
	assert.Equal(t, "NSE", got.body["exchange"])
	assert.Equal(t, "NORMAL", got.body["variety"])
	assert.Equal(t, "INTRADAY", got.body["producttype"])
}

func TestAdapter_PlaceOrderInvalid(t *testing.T) {
	a := newAdapter("http://unused")
	creds := map[string]string{broker.KeyAccessToken: "jwt-1"}

	_, err := a.PlaceOrder(context.Background(), creds, json.RawMessage(`{"tradingsymbol":"SBIN-EQ","order_side":"HOLD","quantity":1}`))
	assert.ErrorIs(t, err, broker.ErrInvalidOrder)

	_, err = a.PlaceOrder(context.Background(), creds, json.RawMessage(`not json`))
	assert.ErrorIs(t, err, broker.ErrInvalidOrder)
}

func TestAdapter_SessionErrorIsUnauthorized(t *testing.T) {
	var got capture
	server := newServer(t, http.StatusOK, `{"status":false,"message":"Invalid Token","errorcode":"AG8001","data":null}`, &got)
	a := newAdapter(server.URL)

	_, err := a.Funds(context.Background(), map[string]string{broker.KeyAccessToken: "stale"})
	assert.True(t, broker.IsUnauthorized(err))
	assert.Equal(t, fundsPath, got.path)

	var apiErr *broker.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, string(apiErr.Body), "AG8001")
}

func TestAdapter_OtherEnvelopeErrorIsBadRequest(t *testing.T) {
	var got capture
	server := newServer(t, http.StatusOK, `{"status":false,"message":"Invalid symboltoken","errorcode":"AB1019","data":null}`, &got)
	a := newAdapter(server.URL)

	_, err := a.CancelOrder(context.Background(), map[string]string{broker.KeyAccessToken: "jwt"}, "123")
	var apiErr *broker.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, map[string]any{"variety": "NORMAL", "orderid": "123"}, got.body)
}

func TestAdapter_Refresh(t *testing.T) {
	var got capture
	server := newServer(t, http.StatusOK, `{"status":true,"data":{"jwtToken":"jwt-2","refreshToken":"ref-2","feedToken":"feed-2"}}`, &got)
	a := newAdapter(server.URL)

	tokens, err := a.Refresh(context.Background(), map[string]string{broker.KeyAccessToken: "jwt-1", broker.KeyRefreshToken: "ref-1"})
	require.NoError(t, err)
	assert.Equal(t, "jwt-2", tokens.AccessToken)
	assert.Equal(t, tokenPath, got.path)
	assert.Equal(t, map[string]any{"refreshToken": "ref-1"}, got.body)

	_, err = a.Refresh(context.Background(), map[string]string{broker.KeyAccessToken: "jwt-1"})
	var missing *broker.MissingCredentialError
	assert.ErrorAs(t, err, &missing)
}

func TestAdapter_NoAccessToken(t *testing.T) {
	a := newAdapter("http://unused")

	_, err := a.Positions(context.Background(), map[string]string{})
	var missing *broker.MissingCredentialError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, broker.KeyAccessToken, missing.Key)

	_, err = a.ExchangeCode(context.Background(), nil, "code")
	assert.ErrorIs(t, err, broker.ErrCodeExchangeUnsupported)
}
