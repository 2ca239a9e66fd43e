package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/GlebRadaev/tradebridge/internal/cashfree"
	"github.com/GlebRadaev/tradebridge/internal/domain"
	"github.com/GlebRadaev/tradebridge/internal/dto"
	"github.com/GlebRadaev/tradebridge/internal/service/paymentservice"
	"github.com/GlebRadaev/tradebridge/pkg/auth"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"
)

func NewMock(t *testing.T) (*PaymentHandler, *MockService) {
	ctrl := gomock.NewController(t)
	service := NewMockService(ctrl)
	handler := New(service)
	defer ctrl.Finish()
	return handler, service
}

func serve(req *http.Request, pattern string, fn http.HandlerFunc) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(context.WithValue(req.Context(), auth.UserIDKey, 1)))
		})
	})
	r.Method(req.Method, pattern, fn)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestCreateOrder(t *testing.T) {
	handler, service := NewMock(t)
	pending := &domain.CoinOrder{
		OrderID:          "coin_1",
		UserID:           1,
		Amount:           decimal.RequireFromString("150"),
		Coins:            150,
		Status:           domain.CoinOrderPending,
		PaymentSessionID: "session_x",
	}

	tests := []struct {
		name         string
		body         string
		prepareMock  func()
		expectedCode int
		expectedBody string
	}{
		{
			name: "created",
			body: `{"coins":150,"customer_phone":"9999999999","customer_email":"t@example.com"}`,
			prepareMock: func() {
				service.EXPECT().CreateOrder(gomock.Any(), 1, paymentservice.OrderInput{
					Coins:         150,
					CustomerPhone: "9999999999",
					CustomerEmail: "t@example.com",
				}).Return(pending, nil)
			},
			expectedCode: http.StatusCreated,
			expectedBody: `{"order_id":"coin_1","payment_session_id":"session_x","amount":"150.00","coins":150,"status":"PENDING"}`,
		},
		{
			name:         "invalid json",
			body:         `{"coins":`,
			prepareMock:  func() {},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"error":"Invalid request body"}`,
		},
		{
			name:         "zero coins",
			body:         `{"coins":0,"customer_phone":"9999999999"}`,
			prepareMock:  func() {},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"error":"coins is required"}`,
		},
		{
			name: "above the order limit",
			body: `{"coins":1000000,"customer_phone":"9999999999"}`,
			prepareMock: func() {
				service.EXPECT().CreateOrder(gomock.Any(), 1, gomock.Any()).
					Return(nil, fmt.Errorf("%w: must be between 1 and %d", paymentservice.ErrInvalidCoins, 100000))
			},
			expectedCode: http.StatusUnprocessableEntity,
			expectedBody: `{"error":"invalid coin amount: must be between 1 and 100000"}`,
		},
		{
			name: "gateway rejection",
			body: `{"coins":10,"customer_phone":"9999999999"}`,
			prepareMock: func() {
				service.EXPECT().CreateOrder(gomock.Any(), 1, gomock.Any()).Return(nil, &cashfree.APIError{
					StatusCode: http.StatusBadRequest, Body: []byte(`{"message":"customer_phone is invalid"}`),
				})
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"message":"customer_phone is invalid"}`,
		},
		{
			name: "storage error",
			body: `{"coins":10,"customer_phone":"9999999999"}`,
			prepareMock: func() {
				service.EXPECT().CreateOrder(gomock.Any(), 1, gomock.Any()).Return(nil, errors.New("db down"))
			},
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"error":"Internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			req := httptest.NewRequest(http.MethodPost, "/api/payment/orders", strings.NewReader(tt.body))
			rr := serve(req, "/api/payment/orders", handler.CreateOrder)

			assert.Equal(t, tt.expectedCode, rr.Code)
			assert.JSONEq(t, tt.expectedBody, rr.Body.String())
		})
	}
}

func TestGetOrder(t *testing.T) {
	handler, service := NewMock(t)
	pattern := "/api/payment/orders/{orderID}"

	t.Run("found", func(t *testing.T) {
		service.EXPECT().GetOrder(gomock.Any(), 1, "coin_1").Return(&domain.CoinOrder{
			OrderID: "coin_1", Amount: decimal.RequireFromString("10.5"), Coins: 10, Status: domain.CoinOrderCompleted,
		}, nil)

		rr := serve(httptest.NewRequest(http.MethodGet, "/api/payment/orders/coin_1", nil), pattern, handler.GetOrder)

		assert.Equal(t, http.StatusOK, rr.Code)
		var body dto.CoinOrderResponseDTO
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
		assert.Equal(t, "10.50", body.Amount)
		assert.Equal(t, domain.CoinOrderCompleted, body.Status)
	})

	t.Run("not owned", func(t *testing.T) {
		service.EXPECT().GetOrder(gomock.Any(), 1, "coin_2").Return(nil, paymentservice.ErrOrderNotFound)

		rr := serve(httptest.NewRequest(http.MethodGet, "/api/payment/orders/coin_2", nil), pattern, handler.GetOrder)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestWebhook(t *testing.T) {
	handler, service := NewMock(t)
	body := `{"type":"PAYMENT_SUCCESS_WEBHOOK","data":{"order":{"order_id":"coin_1"}}}`

	tests := []struct {
		name         string
		prepareMock  func()
		expectedCode int
		expectedBody string
	}{
		{
			name: "completed",
			prepareMock: func() {
				service.EXPECT().HandleWebhook(gomock.Any(), []byte(body), "1714550000", "c2ln").
					Return(paymentservice.OutcomeCompleted, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `{"status":"completed"}`,
		},
		{
			name: "redelivery",
			prepareMock: func() {
				service.EXPECT().HandleWebhook(gomock.Any(), []byte(body), "1714550000", "c2ln").
					Return(paymentservice.OutcomeIgnored, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `{"status":"ignored"}`,
		},
		{
			name: "bad signature",
			prepareMock: func() {
				service.EXPECT().HandleWebhook(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return("", paymentservice.ErrInvalidSignature)
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"error":"invalid webhook signature"}`,
		},
		{
			name: "unknown order",
			prepareMock: func() {
				service.EXPECT().HandleWebhook(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return("", paymentservice.ErrOrderNotFound)
			},
			expectedCode: http.StatusNotFound,
			expectedBody: `{"error":"coin order not found"}`,
		},
		{
			name: "amount mismatch",
			prepareMock: func() {
				service.EXPECT().HandleWebhook(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return("", paymentservice.ErrAmountMismatch)
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"error":"paid amount does not match the order"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.prepareMock()

			req := httptest.NewRequest(http.MethodPost, "/api/payment/webhook", strings.NewReader(body))
			req.Header.Set(cashfree.HeaderSignature, "c2ln")
			req.Header.Set(cashfree.HeaderTimestamp, "1714550000")
			rr := httptest.NewRecorder()

			handler.Webhook(rr, req)

			assert.Equal(t, tt.expectedCode, rr.Code)
			assert.JSONEq(t, tt.expectedBody, rr.Body.String())
		})
	}
}
