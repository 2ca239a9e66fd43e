package brokers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/GlebRadaev/tradebridge/internal/broker"
	"github.com/GlebRadaev/tradebridge/internal/domain"
	"github.com/GlebRadaev/tradebridge/internal/dto"
	"github.com/GlebRadaev/tradebridge/internal/service/brokerservice"
	"github.com/GlebRadaev/tradebridge/pkg/auth"
	"github.com/GlebRadaev/tradebridge/pkg/utils"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"
)

func NewMock(t *testing.T) (*BrokerHandler, *MockService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	handler := New(service)
	defer ctrl.Finish()
	return handler, service
}

// serve routes the request through chi so URL params resolve, as user 1.
func serve(method, pattern, target, body string, fn http.HandlerFunc) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := context.WithValue(req.Context(), auth.UserIDKey, 1)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Method(method, pattern, fn)

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var resp utils.Response
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	return resp.Error
}

func TestList(t *testing.T) {
	handler, service := NewMock(t)

	t.Run("masks secrets", func(t *testing.T) {
		service.EXPECT().List(gomock.Any(), 1).Return([]domain.BrokerCredential{
			{
				ID:         7,
				UserID:     1,
				BrokerName: broker.AngelOne,
				Credentials: map[string]string{
					broker.KeyAPIKey:      "abcdefgh1234",
					broker.KeyClientCode:  "A123",
					broker.KeyPIN:         "1111",
					broker.KeyAccessToken: "jwt-token-5678",
				},
				IsActive:      true,
				SessionActive: true,
			},
		}, nil)

		rr := serve(http.MethodGet, "/api/brokers", "/api/brokers", "", handler.List)

		assert.Equal(t, http.StatusOK, rr.Code)
		var body []dto.BrokerResponseDTO
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
		require.Len(t, body, 1)
		assert.Equal(t, 7, body[0].ID)
		assert.Equal(t, map[string]string{
			broker.KeyAPIKey:      "****1234",
			broker.KeyClientCode:  "A123",
			broker.KeyPIN:         "****",
			broker.KeyAccessToken: "****5678",
		}, body[0].Credentials)
		assert.True(t, body[0].SessionActive)
	})

	t.Run("storage error", func(t *testing.T) {
		service.EXPECT().List(gomock.Any(), 1).Return(nil, errors.New("db down"))

		rr := serve(http.MethodGet, "/api/brokers", "/api/brokers", "", handler.List)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestCreate(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name          string
		body          string
		prepareMock   func()
		expectedCode  int
		expectedError string
	}{
		{
			name: "stored",
			body: `{"broker_name":"dhan","credentials":{"Client ID":"1000","Access Token":"tok"}}`,
			prepareMock: func() {
				service.EXPECT().
					Create(gomock.Any(), 1, "dhan", map[string]string{"Client ID": "1000", "Access Token": "tok"}).
					Return(&domain.BrokerCredential{ID: 3, BrokerName: broker.Dhan, IsPendingAuth: true}, nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name:          "invalid json",
			body:          `{`,
			prepareMock:   func() {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "Invalid request body",
		},
		{
			name:          "missing broker name",
			body:          `{"credentials":{"API Key":"k"}}`,
			prepareMock:   func() {},
			expectedCode:  http.StatusBadRequest,
			expectedError: "broker_name is required",
		},
		{
			name: "unsupported broker",
			body: `{"broker_name":"zerodha","credentials":{"API Key":"k"}}`,
			prepareMock: func() {
				service.EXPECT().
					Create(gomock.Any(), 1, "zerodha", gomock.Any()).
					Return(nil, broker.ErrUnsupportedBroker)
			},
			expectedCode:  http.StatusBadRequest,
			expectedError: broker.ErrUnsupportedBroker.Error(),
		},
		{
			name: "missing credential key",
			body: `{"broker_name":"angelone","credentials":{"API Key":"k"}}`,
			prepareMock: func() {
				service.EXPECT().
					Create(gomock.Any(), 1, "angelone", gomock.Any()).
					Return(nil, &broker.MissingCredentialError{Broker: broker.AngelOne, Key: broker.KeyPIN})
			},
			expectedCode:  http.StatusBadRequest,
			expectedError: `angelone: missing credential "PIN"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			rr := serve(http.MethodPost, "/api/brokers", "/api/brokers", tt.body, handler.Create)

			assert.Equal(t, tt.expectedCode, rr.Code)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, decodeError(t, rr))
			}
		})
	}
}

func TestAuthenticate(t *testing.T) {
	handler, service := NewMock(t)
	pattern := "/api/brokers/{id}/authenticate"

	t.Run("oauth redirect", func(t *testing.T) {
		service.EXPECT().Authenticate(gomock.Any(), 1, 5, "").Return(&brokerservice.AuthOutcome{
			Credential:  &domain.BrokerCredential{ID: 5, BrokerName: broker.Upstox, IsPendingAuth: true},
			RedirectURL: "https://api.upstox.com/v2/login/authorization/dialog?state=s",
		}, nil)

		rr := serve(http.MethodPost, pattern, "/api/brokers/5/authenticate", "", handler.Authenticate)

		assert.Equal(t, http.StatusOK, rr.Code)
		var body dto.BrokerAuthResponseDTO
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
		assert.Equal(t, "https://api.upstox.com/v2/login/authorization/dialog?state=s", body.RedirectURL)
		assert.Equal(t, 5, body.Broker.ID)
	})

	t.Run("totp login", func(t *testing.T) {
		service.EXPECT().Authenticate(gomock.Any(), 1, 5, "123456").Return(&brokerservice.AuthOutcome{
			Credential: &domain.BrokerCredential{ID: 5, BrokerName: broker.AngelOne, IsActive: true, SessionActive: true},
		}, nil)

		rr := serve(http.MethodPost, pattern, "/api/brokers/5/authenticate", `{"totp":"123456"}`, handler.Authenticate)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("bad totp format", func(t *testing.T) {
		rr := serve(http.MethodPost, pattern, "/api/brokers/5/authenticate", `{"totp":"12ab"}`, handler.Authenticate)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		rr := serve(http.MethodPost, pattern, "/api/brokers/abc/authenticate", "", handler.Authenticate)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Invalid credential id", decodeError(t, rr))
	})

	t.Run("not found", func(t *testing.T) {
		service.EXPECT().Authenticate(gomock.Any(), 1, 9, "").Return(nil, brokerservice.ErrCredentialNotFound)

		rr := serve(http.MethodPost, pattern, "/api/brokers/9/authenticate", "", handler.Authenticate)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("upstream rejection is passed through", func(t *testing.T) {
		service.EXPECT().Authenticate(gomock.Any(), 1, 5, "").Return(nil, &broker.APIError{
			Broker:     broker.AngelOne,
			StatusCode: http.StatusForbidden,
			Body:       []byte(`{"message":"Invalid totp"}`),
		})

		rr := serve(http.MethodPost, pattern, "/api/brokers/5/authenticate", "", handler.Authenticate)

		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.JSONEq(t, `{"message":"Invalid totp"}`, rr.Body.String())
	})
}

func TestCallback(t *testing.T) {
	handler, service := NewMock(t)
	pattern := "/api/brokers/callback/{broker}"

	t.Run("upstox code", func(t *testing.T) {
		service.EXPECT().CompleteAuth(gomock.Any(), "upstox", "st", "cd").
			Return(&domain.BrokerCredential{ID: 5, BrokerName: broker.Upstox, IsActive: true}, nil)

		rr := serve(http.MethodGet, pattern, "/api/brokers/callback/upstox?code=cd&state=st", "", handler.Callback)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("fyers auth_code", func(t *testing.T) {
		service.EXPECT().CompleteAuth(gomock.Any(), "fyers", "st", "ac").
			Return(&domain.BrokerCredential{ID: 6, BrokerName: broker.Fyers, IsActive: true}, nil)

		rr := serve(http.MethodGet, pattern, "/api/brokers/callback/fyers?auth_code=ac&state=st", "", handler.Callback)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("unknown state", func(t *testing.T) {
		service.EXPECT().CompleteAuth(gomock.Any(), "upstox", "nope", "cd").Return(nil, brokerservice.ErrInvalidState)

		rr := serve(http.MethodGet, pattern, "/api/brokers/callback/upstox?code=cd&state=nope", "", handler.Callback)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestRawEndpoints(t *testing.T) {
	handler, service := NewMock(t)

	tests := []struct {
		name         string
		method       string
		pattern      string
		target       string
		fn           http.HandlerFunc
		prepareMock  func()
		expectedCode int
		expectedBody string
	}{
		{
			name:    "verify",
			method:  http.MethodPost,
			pattern: "/api/brokers/{id}/verify",
			target:  "/api/brokers/2/verify",
			fn:      handler.Verify,
			prepareMock: func() {
				service.EXPECT().Verify(gomock.Any(), 1, 2).Return(json.RawMessage(`{"name":"Trader"}`), nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `{"name":"Trader"}`,
		},
		{
			name:    "verify with expired session",
			method:  http.MethodPost,
			pattern: "/api/brokers/{id}/verify",
			target:  "/api/brokers/2/verify",
			fn:      handler.Verify,
			prepareMock: func() {
				service.EXPECT().Verify(gomock.Any(), 1, 2).
					Return(nil, fmt.Errorf("%w: %v", brokerservice.ErrSessionExpired, errors.New("refresh failed")))
			},
			expectedCode: http.StatusUnauthorized,
			expectedBody: `{"error":"broker session expired, authenticate again"}`,
		},
		{
			name:    "funds",
			method:  http.MethodGet,
			pattern: "/api/brokers/{id}/funds",
			target:  "/api/brokers/2/funds",
			fn:      handler.Funds,
			prepareMock: func() {
				service.EXPECT().Funds(gomock.Any(), 1, 2).Return(json.RawMessage(`{"available":1000}`), nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `{"available":1000}`,
		},
		{
			name:    "positions on inactive credential",
			method:  http.MethodGet,
			pattern: "/api/brokers/{id}/positions",
			target:  "/api/brokers/2/positions",
			fn:      handler.Positions,
			prepareMock: func() {
				service.EXPECT().Positions(gomock.Any(), 1, 2).Return(nil, brokerservice.ErrCredentialInactive)
			},
			expectedCode: http.StatusConflict,
			expectedBody: `{"error":"broker credential is not active"}`,
		},
		{
			name:    "cancel order",
			method:  http.MethodDelete,
			pattern: "/api/brokers/{id}/orders/{orderID}",
			target:  "/api/brokers/2/orders/ORD1",
			fn:      handler.CancelOrder,
			prepareMock: func() {
				service.EXPECT().CancelOrder(gomock.Any(), 1, 2, "ORD1").Return(json.RawMessage(`{"status":"cancelled"}`), nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `{"status":"cancelled"}`,
		},
		{
			name:    "upstream plain text error",
			method:  http.MethodGet,
			pattern: "/api/brokers/{id}/funds",
			target:  "/api/brokers/2/funds",
			fn:      handler.Funds,
			prepareMock: func() {
				service.EXPECT().Funds(gomock.Any(), 1, 2).Return(nil, &broker.APIError{
					Broker: broker.Dhan, StatusCode: http.StatusBadGateway, Body: []byte("gateway down"),
				})
			},
			expectedCode: http.StatusBadGateway,
			expectedBody: `{"error":"gateway down"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			rr := serve(tt.method, tt.pattern, tt.target, "", tt.fn)

			assert.Equal(t, tt.expectedCode, rr.Code)
			assert.JSONEq(t, tt.expectedBody, rr.Body.String())
		})
	}
}

func TestPlaceOrder(t *testing.T) {
	handler, service := NewMock(t)
	pattern := "/api/brokers/{id}/orders"

	t.Run("placed", func(t *testing.T) {
		order := `{"tradingsymbol":"SBIN-EQ","transactiontype":"BUY","quantity":"1"}`
		service.EXPECT().PlaceOrder(gomock.Any(), 1, 4, json.RawMessage(order)).Return(broker.OrderResult{
			OrderID: "240501000000123",
			Raw:     json.RawMessage(`{"status":true}`),
		}, nil)

		rr := serve(http.MethodPost, pattern, "/api/brokers/4/orders", order, handler.PlaceOrder)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"order_id":"240501000000123","raw":{"status":true}}`, rr.Body.String())
	})

	t.Run("invalid json", func(t *testing.T) {
		rr := serve(http.MethodPost, pattern, "/api/brokers/4/orders", `{"symbol":`, handler.PlaceOrder)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("invalid order", func(t *testing.T) {
		service.EXPECT().PlaceOrder(gomock.Any(), 1, 4, gomock.Any()).
			Return(broker.OrderResult{}, fmt.Errorf("%w: quantity must be positive", broker.ErrInvalidOrder))

		rr := serve(http.MethodPost, pattern, "/api/brokers/4/orders", `{}`, handler.PlaceOrder)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestDeactivate(t *testing.T) {
	handler, service := NewMock(t)
	pattern := "/api/brokers/{id}/deactivate"

	t.Run("deactivated", func(t *testing.T) {
		service.EXPECT().Deactivate(gomock.Any(), 1, 3).Return(nil)

		rr := serve(http.MethodPost, pattern, "/api/brokers/3/deactivate", "", handler.Deactivate)

		assert.Equal(t, http.StatusNoContent, rr.Code)
	})

	t.Run("not found", func(t *testing.T) {
		service.EXPECT().Deactivate(gomock.Any(), 1, 3).Return(brokerservice.ErrCredentialNotFound)

		rr := serve(http.MethodPost, pattern, "/api/brokers/3/deactivate", "", handler.Deactivate)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
