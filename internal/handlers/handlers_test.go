package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "github.com/GlebRadaev/tradebridge/docs"
	"github.com/GlebRadaev/tradebridge/internal/config"
	"github.com/GlebRadaev/tradebridge/internal/domain"
	"github.com/GlebRadaev/tradebridge/internal/handlers/auth"
	"github.com/GlebRadaev/tradebridge/internal/handlers/balance"
	"github.com/GlebRadaev/tradebridge/internal/handlers/brokers"
	"github.com/GlebRadaev/tradebridge/internal/handlers/payment"
	"github.com/GlebRadaev/tradebridge/internal/handlers/webhooks"
	"github.com/GlebRadaev/tradebridge/internal/service"
	"github.com/GlebRadaev/tradebridge/internal/sessionsync"
	pkgauth "github.com/GlebRadaev/tradebridge/pkg/auth"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"
)

func TestNew(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	syncService := sessionsync.New(config.Session{SyncWorkers: 1}, sessionsync.NewMockRepo(ctrl), sessionsync.NewMockChecker(ctrl))
	defer syncService.Stop()

	services := &service.Services{
		AuthService:    auth.NewMockService(ctrl),
		BalanceService: balance.NewMockService(ctrl),
		BrokerService:  brokers.NewMockService(ctrl),
		WebhookService: webhooks.NewMockService(ctrl),
		PaymentService: payment.NewMockService(ctrl),
		SessionSync:    syncService,
	}

	h := New(services, Options{JWT: pkgauth.NewJWTService("secret"), AdminTimeout: time.Second})
	assert.NotNil(t, h, "Handlers should not be nil")
	assert.NotNil(t, h.AdminHandler)
}

func TestInitRoutes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuthHandler := NewMockAuthHandler(ctrl)
	mockBalanceHandler := NewMockBalanceHandler(ctrl)
	mockBrokerHandler := NewMockBrokerHandler(ctrl)
	mockWebhookHandler := NewMockWebhookHandler(ctrl)
	mockPaymentHandler := NewMockPaymentHandler(ctrl)
	mockAdminHandler := NewMockAdminHandler(ctrl)

	mockAuthHandler.EXPECT().Register(gomock.Any(), gomock.Any()).AnyTimes()
	mockAuthHandler.EXPECT().Login(gomock.Any(), gomock.Any()).AnyTimes()
	mockBalanceHandler.EXPECT().GetBalance(gomock.Any(), gomock.Any()).AnyTimes()
	mockBalanceHandler.EXPECT().GetTransactions(gomock.Any(), gomock.Any()).AnyTimes()
	mockBrokerHandler.EXPECT().List(gomock.Any(), gomock.Any()).AnyTimes()
	mockBrokerHandler.EXPECT().Create(gomock.Any(), gomock.Any()).AnyTimes()
	mockBrokerHandler.EXPECT().Authenticate(gomock.Any(), gomock.Any()).AnyTimes()
	mockBrokerHandler.EXPECT().Callback(gomock.Any(), gomock.Any()).AnyTimes()
	mockBrokerHandler.EXPECT().Verify(gomock.Any(), gomock.Any()).AnyTimes()
	mockBrokerHandler.EXPECT().PlaceOrder(gomock.Any(), gomock.Any()).AnyTimes()
	mockBrokerHandler.EXPECT().CancelOrder(gomock.Any(), gomock.Any()).AnyTimes()
	mockBrokerHandler.EXPECT().Funds(gomock.Any(), gomock.Any()).AnyTimes()
	mockBrokerHandler.EXPECT().Positions(gomock.Any(), gomock.Any()).AnyTimes()
	mockBrokerHandler.EXPECT().Deactivate(gomock.Any(), gomock.Any()).AnyTimes()
	mockWebhookHandler.EXPECT().Create(gomock.Any(), gomock.Any()).AnyTimes()
	mockWebhookHandler.EXPECT().List(gomock.Any(), gomock.Any()).AnyTimes()
	mockWebhookHandler.EXPECT().Deactivate(gomock.Any(), gomock.Any()).AnyTimes()
	mockWebhookHandler.EXPECT().Alert(gomock.Any(), gomock.Any()).AnyTimes()
	mockPaymentHandler.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).AnyTimes()
	mockPaymentHandler.EXPECT().GetOrder(gomock.Any(), gomock.Any()).AnyTimes()
	mockPaymentHandler.EXPECT().Webhook(gomock.Any(), gomock.Any()).AnyTimes()
	mockAdminHandler.EXPECT().SyncSessions(gomock.Any(), gomock.Any()).AnyTimes()

	jwtService := pkgauth.NewJWTService("secret")
	userToken, err := jwtService.GenerateJWT(1, domain.RoleUser, time.Now().Add(time.Hour))
	require.NoError(t, err)
	adminToken, err := jwtService.GenerateJWT(2, domain.RoleAdmin, time.Now().Add(time.Hour))
	require.NoError(t, err)

	h := &Handlers{
		AuthHandler:    mockAuthHandler,
		BalanceHandler: mockBalanceHandler,
		BrokerHandler:  mockBrokerHandler,
		WebhookHandler: mockWebhookHandler,
		PaymentHandler: mockPaymentHandler,
		AdminHandler:   mockAdminHandler,
		jwt:            jwtService,
		metrics: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
		adminTimeout: time.Minute,
	}

	router := chi.NewRouter()
	h.InitRoutes(router)

	tests := []struct {
		method string
		url    string
		token  string
		status int
	}{
		{"POST", "/api/user/register", "", http.StatusOK},
		{"POST", "/api/user/login", "", http.StatusOK},
		{"GET", "/metrics", "", http.StatusOK},
		{"GET", "/api/brokers/callback/upstox?code=c&state=s", "", http.StatusOK},
		{"POST", "/api/webhook/trading-view/tok", "", http.StatusOK},
		{"POST", "/api/payment/webhook", "", http.StatusOK},
		{"POST", "/api/webhook", "", http.StatusOK},

		{"GET", "/api/brokers", "", http.StatusUnauthorized},
		{"POST", "/api/brokers", "", http.StatusUnauthorized},
		{"POST", "/api/brokers/1/authenticate", "", http.StatusUnauthorized},
		{"POST", "/api/brokers/1/verify", "", http.StatusUnauthorized},
		{"POST", "/api/brokers/1/orders", "", http.StatusUnauthorized},
		{"DELETE", "/api/brokers/1/orders/A1", "", http.StatusUnauthorized},
		{"GET", "/api/brokers/1/funds", "", http.StatusUnauthorized},
		{"GET", "/api/brokers/1/positions", "", http.StatusUnauthorized},
		{"POST", "/api/brokers/1/deactivate", "", http.StatusUnauthorized},
		{"GET", "/api/webhooks", "", http.StatusUnauthorized},
		{"POST", "/api/webhooks", "", http.StatusUnauthorized},
		{"POST", "/api/webhooks/1/deactivate", "", http.StatusUnauthorized},
		{"POST", "/api/payment/orders", "", http.StatusUnauthorized},
		{"GET", "/api/payment/orders/coin_1", "", http.StatusUnauthorized},
		{"GET", "/api/coins/balance", "", http.StatusUnauthorized},
		{"GET", "/api/coins/transactions", "", http.StatusUnauthorized},
		{"POST", "/api/admin/sessions/sync", "", http.StatusUnauthorized},
		{"GET", "/api/brokers", "not-a-jwt", http.StatusUnauthorized},

		{"GET", "/api/brokers", userToken, http.StatusOK},
		{"POST", "/api/brokers/1/orders", userToken, http.StatusOK},
		{"DELETE", "/api/brokers/1/orders/A1", userToken, http.StatusOK},
		{"POST", "/api/webhooks", userToken, http.StatusOK},
		{"GET", "/api/payment/orders/coin_1", userToken, http.StatusOK},
		{"GET", "/api/coins/balance", userToken, http.StatusOK},
		{"POST", "/api/admin/sessions/sync", userToken, http.StatusForbidden},
		{"POST", "/api/admin/sessions/sync", adminToken, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.url, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.url, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
