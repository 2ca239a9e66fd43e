package webhooks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/GlebRadaev/tradebridge/internal/broker"
	"github.com/GlebRadaev/tradebridge/internal/domain"
	"github.com/GlebRadaev/tradebridge/internal/dto"
	"github.com/GlebRadaev/tradebridge/internal/service/brokerservice"
	"github.com/GlebRadaev/tradebridge/internal/service/webhookservice"
	"github.com/GlebRadaev/tradebridge/pkg/auth"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"
)

const publicURL = "https://bridge.example.com"

func NewMock(t *testing.T) (*WebhookHandler, *MockService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	handler := New(service, publicURL)
	defer ctrl.Finish()
	return handler, service
}

func serve(method, pattern, target, body string, fn http.HandlerFunc) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(context.WithValue(req.Context(), auth.UserIDKey, 1)))
		})
	})
	r.Method(method, pattern, fn)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(method, target, strings.NewReader(body)))
	return rr
}

func TestCreate(t *testing.T) {
	handler, service := NewMock(t)

	t.Run("token shown once", func(t *testing.T) {
		service.EXPECT().Create(gomock.Any(), 1).Return(&domain.Webhook{ID: 3, UserID: 1, Token: "tok", IsActive: true}, nil)

		rr := serve(http.MethodPost, "/api/webhooks", "/api/webhooks", "", handler.Create)

		assert.Equal(t, http.StatusCreated, rr.Code)
		var body dto.WebhookResponseDTO
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
		assert.Equal(t, "tok", body.Token)
		assert.Equal(t, publicURL+"/api/webhook/trading-view/tok", body.URL)
	})

	t.Run("storage error", func(t *testing.T) {
		service.EXPECT().Create(gomock.Any(), 1).Return(nil, errors.New("db down"))

		rr := serve(http.MethodPost, "/api/webhooks", "/api/webhooks", "", handler.Create)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestList(t *testing.T) {
	handler, service := NewMock(t)
	used := time.Date(2024, 5, 1, 9, 15, 0, 0, time.UTC)
	service.EXPECT().List(gomock.Any(), 1).Return([]domain.Webhook{
		{ID: 1, Token: "secret-a", IsActive: true, RequestCount: 4, LastUsedAt: &used},
		{ID: 2, Token: "secret-b"},
	}, nil)

	rr := serve(http.MethodGet, "/api/webhooks", "/api/webhooks", "", handler.List)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), "secret-")
	assert.Contains(t, rr.Body.String(), `"last_used_at":null`)
	var body []dto.WebhookResponseDTO
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	require.Len(t, body, 2)
	assert.Equal(t, int64(4), body[0].RequestCount)
	require.NotNil(t, body[0].LastUsedAt)
	assert.True(t, used.Equal(*body[0].LastUsedAt))
	assert.Nil(t, body[1].LastUsedAt)
}

func TestDeactivate(t *testing.T) {
	handler, service := NewMock(t)
	pattern := "/api/webhooks/{id}/deactivate"

	tests := []struct {
		name         string
		target       string
		prepareMock  func()
		expectedCode int
	}{
		{
			name:   "deactivated",
			target: "/api/webhooks/2/deactivate",
			prepareMock: func() {
				service.EXPECT().Deactivate(gomock.Any(), 1, 2).Return(nil)
			},
			expectedCode: http.StatusNoContent,
		},
		{
			name:   "someone else's webhook",
			target: "/api/webhooks/8/deactivate",
			prepareMock: func() {
				service.EXPECT().Deactivate(gomock.Any(), 1, 8).Return(webhookservice.ErrWebhookNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name:         "bad id",
			target:       "/api/webhooks/x/deactivate",
			prepareMock:  func() {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:   "storage error",
			target: "/api/webhooks/2/deactivate",
			prepareMock: func() {
				service.EXPECT().Deactivate(gomock.Any(), 1, 2).Return(errors.New("db down"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()
			rr := serve(http.MethodPost, pattern, tt.target, "", handler.Deactivate)
			assert.Equal(t, tt.expectedCode, rr.Code)
		})
	}
}

func TestAlert(t *testing.T) {
	handler, service := NewMock(t)
	pattern := "/api/webhook/trading-view/{token}"
	payload := `{"symbol":"SBIN-EQ","action":"buy","quantity":1}`

	tests := []struct {
		name          string
		prepareMock   func()
		expectedCode  int
		expectedBody  string
		expectedRetry string
	}{
		{
			name: "order placed",
			prepareMock: func() {
				service.EXPECT().Dispatch(gomock.Any(), "tok", []byte(payload)).Return(&webhookservice.DispatchResult{
					Success: true, OrderID: "240501000000123", Broker: broker.AngelOne,
				}, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `{"success":true,"order_id":"240501000000123","broker":"angelone"}`,
		},
		{
			name: "no active broker",
			prepareMock: func() {
				service.EXPECT().Dispatch(gomock.Any(), "tok", gomock.Any()).Return(&webhookservice.DispatchResult{Queued: true}, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `{"success":false,"queued":true,"message":"no active broker, alert dropped"}`,
		},
		{
			name: "rate limited",
			prepareMock: func() {
				service.EXPECT().Dispatch(gomock.Any(), "tok", gomock.Any()).
					Return(nil, &webhookservice.RateLimitError{RetryAfter: 41500 * time.Millisecond})
			},
			expectedCode:  http.StatusTooManyRequests,
			expectedBody:  `{"error":"rate limit exceeded, retry in 42s"}`,
			expectedRetry: "42",
		},
		{
			name: "unknown token",
			prepareMock: func() {
				service.EXPECT().Dispatch(gomock.Any(), "tok", gomock.Any()).Return(nil, webhookservice.ErrWebhookNotFound)
			},
			expectedCode: http.StatusNotFound,
			expectedBody: `{"error":"webhook not found"}`,
		},
		{
			name: "unsupported action",
			prepareMock: func() {
				service.EXPECT().Dispatch(gomock.Any(), "tok", gomock.Any()).
					Return(nil, fmt.Errorf("%w: %q", webhookservice.ErrUnsupportedAction, "hold"))
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"error":"unsupported action: \"hold\""}`,
		},
		{
			name: "fyers is not routed",
			prepareMock: func() {
				service.EXPECT().Dispatch(gomock.Any(), "tok", gomock.Any()).
					Return(nil, fmt.Errorf("%w: fyers alerts are not routed", broker.ErrUnsupportedBroker))
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"error":"unsupported broker: fyers alerts are not routed"}`,
		},
		{
			name: "credential missing a key",
			prepareMock: func() {
				service.EXPECT().Dispatch(gomock.Any(), "tok", gomock.Any()).
					Return(nil, &broker.MissingCredentialError{Broker: broker.Dhan, Key: broker.KeyAccessToken})
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"error":"dhan: missing credential \"Access Token\""}`,
		},
		{
			name: "broker rejection",
			prepareMock: func() {
				service.EXPECT().Dispatch(gomock.Any(), "tok", gomock.Any()).Return(nil, &broker.APIError{
					Broker: broker.Dhan, StatusCode: http.StatusBadRequest, Body: []byte(`{"errorCode":"DH-905"}`),
				})
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"errorCode":"DH-905"}`,
		},
		{
			name: "broker session expired",
			prepareMock: func() {
				service.EXPECT().Dispatch(gomock.Any(), "tok", gomock.Any()).
					Return(nil, fmt.Errorf("%w: refresh rejected", brokerservice.ErrSessionExpired))
			},
			expectedCode: http.StatusUnauthorized,
			expectedBody: `{"error":"broker session expired, authenticate again"}`,
		},
		{
			name: "storage error",
			prepareMock: func() {
				service.EXPECT().Dispatch(gomock.Any(), "tok", gomock.Any()).Return(nil, errors.New("db down"))
			},
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"error":"Internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			rr := serve(http.MethodPost, pattern, "/api/webhook/trading-view/tok", payload, handler.Alert)

			assert.Equal(t, tt.expectedCode, rr.Code)
			assert.JSONEq(t, tt.expectedBody, rr.Body.String())
			assert.Equal(t, tt.expectedRetry, rr.Header().Get("Retry-After"))
		})
	}
}
