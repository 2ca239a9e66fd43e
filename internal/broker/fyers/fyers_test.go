package fyers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GlebRadaev/tradebridge/internal/broker"
	"github.com/GlebRadaev/tradebridge/internal/config"
	"github.com/GlebRadaev/tradebridge/pkg/clients"
)

type capture struct {
	method string
	path   string
	auth   string
	body   map[string]any
}

func newServer(t *testing.T, status int, response string, got *capture) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.method = r.Method
		got.path = r.URL.Path
		got.auth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		got.body = nil
		if len(raw) > 0 {
			assert.NoError(t, json.Unmarshal(raw, &got.body))
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(server.Close)
	return server
}

func newAdapter(baseURL string) *Adapter {
	cfg := config.Fyers{BaseURL: baseURL, ClientID: "XC123-100", SecretKey: "s3cret"}
	return New(cfg, "https://bridge.example.com/api/brokers/callback/fyers", clients.NewHTTPClient(), nil)
}

func TestAdapter_Authenticate(t *testing.T) {
	a := newAdapter("https://api-t1.fyers.in/api/v3")

	res, err := a.Authenticate(context.Background(), map[string]string{}, broker.AuthParams{State: "st-1"})
	require.NoError(t, err)
	assert.Nil(t, res.Tokens)

	u, err := url.Parse(res.RedirectURL)
	require.NoError(t, err)
	assert.Equal(t, "/api/v3/generate-authcode", u.Path)
	assert.Equal(t, "XC123-100", u.Query().Get("client_id"))
	assert.Equal(t, "st-1", u.Query().Get("state"))
	assert.Equal(t, "code", u.Query().Get("response_type"))
	assert.Equal(t, "https://bridge.example.com/api/brokers/callback/fyers", u.Query().Get("redirect_uri"))
	assert.Empty(t, a.RequiredKeys())
}

func TestAdapter_ExchangeCode(t *testing.T) {
	var got capture
	server := newServer(t, http.StatusOK, `{"s":"ok","code":200,"message":"","access_token":"acc","refresh_token":"ref"}`, &got)
	a := newAdapter(server.URL)

	tokens, err := a.ExchangeCode(context.Background(), map[string]string{}, "auth-code")
	require.NoError(t, err)
	assert.Equal(t, broker.Tokens{AccessToken: "acc", RefreshToken: "ref"}, tokens)
	assert.Equal(t, "/validate-authcode", got.path)
	assert.Equal(t, AppIDHash("XC123-100", "s3cret"), got.body["appIdHash"])
	assert.Equal(t, "authorization_code", got.body["grant_type"])
	assert.Equal(t, "auth-code", got.body["code"])
}

func TestAdapter_Refresh(t *testing.T) {
	var got capture
	server := newServer(t, http.StatusOK, `{"s":"ok","code":200,"access_token":"acc-2"}`, &got)
	a := newAdapter(server.URL)

	tokens, err := a.Refresh(context.Background(), map[string]string{broker.KeyRefreshToken: "ref", broker.KeyPIN: "1234"})
	require.NoError(t, err)
	assert.Equal(t, "acc-2", tokens.AccessToken)
	assert.Equal(t, "ref", tokens.RefreshToken)
	assert.Equal(t, "/validate-refresh-token", got.path)
	assert.Equal(t, "1234", got.body["pin"])

	_, err = a.Refresh(context.Background(), map[string]string{broker.KeyRefreshToken: "ref"})
	var missing *broker.MissingCredentialError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, broker.KeyPIN, missing.Key)
}

func TestAdapter_PlaceOrder(t *testing.T) {
	var got capture
	server := newServer(t, http.StatusOK, `{"s":"ok","code":1101,"message":"Order submitted successfully","id":"24011100000123"}`, &got)
	a := newAdapter(server.URL)

	res, err := a.PlaceOrder(context.Background(), map[string]string{broker.KeyAccessToken: "acc"},
		json.RawMessage(`{"symbol":"NSE:SBIN-EQ","side":"SELL","type":"SL","qty":3,"limitPrice":600,"stopPrice":601}`))
	require.NoError(t, err)
	assert.Equal(t, "24011100000123", res.OrderID)
	assert.Equal(t, "/orders/sync", got.path)
	assert.Equal(t, "XC123-100:acc", got.auth)
	assert.Equal(t, float64(-1), got.body["side"])
	assert.Equal(t, float64(4), got.body["type"])
	assert.Equal(t, "INTRADAY", got.body["productType"])
}

func TestAdapter_ExpiredTokenIsUnauthorized(t *testing.T) {
	var got capture
	server := newServer(t, http.StatusOK, `{"s":"error","code":-16,"message":"Could not authenticate the user"}`, &got)
	a := newAdapter(server.URL)

	_, err := a.Profile(context.Background(), map[string]string{broker.KeyAccessToken: "old"})
	assert.True(t, broker.IsUnauthorized(err))
}

func TestAdapter_CancelOrder(t *testing.T) {
	var got capture
	server := newServer(t, http.StatusOK, `{"s":"ok","code":1103,"id":"42"}`, &got)
	a := newAdapter(server.URL)

	_, err := a.CancelOrder(context.Background(), map[string]string{broker.KeyAccessToken: "acc"}, "42")
	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, got.method)
	assert.Equal(t, map[string]any{"id": "42"}, got.body)
}
