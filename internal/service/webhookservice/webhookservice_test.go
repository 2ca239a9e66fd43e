package webhookservice

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"

	"github.com/GlebRadaev/tradebridge/internal/broker"
	"github.com/GlebRadaev/tradebridge/internal/domain"
	"github.com/GlebRadaev/tradebridge/internal/ratelimit"
	"github.com/GlebRadaev/tradebridge/pkg/metrics"
)

const token = "tok-1"

type mocks struct {
	repo        *MockRepo
	credentials *MockCredentialFinder
	orders      *MockOrderPlacer
	metrics     *metrics.Metrics
}

func NewMock(t *testing.T, limiter ratelimit.Limiter) (*Service, mocks) {
	ctrl := gomock.NewController(t)
	m := mocks{
		repo:        NewMockRepo(ctrl),
		credentials: NewMockCredentialFinder(ctrl),
		orders:      NewMockOrderPlacer(ctrl),
		metrics:     metrics.New(prometheus.NewRegistry()),
	}
	if limiter == nil {
		limiter = ratelimit.NewMemory(5, time.Minute)
	}
	return New(m.repo, m.credentials, m.orders, limiter, m.metrics), m
}

func hook() *domain.Webhook {
	return &domain.Webhook{ID: 3, UserID: 9, Token: token, IsActive: true}
}

func expectLog(t *testing.T, m mocks, status, errText string) {
	m.repo.EXPECT().SaveLog(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, log *domain.WebhookLog) error {
		assert.Equal(t, 3, log.WebhookID)
		assert.Equal(t, 9, log.UserID)
		assert.Equal(t, status, log.Status)
		assert.Contains(t, log.Error, errText)
		assert.True(t, json.Valid(log.Payload))
		return nil
	})
}

func TestDispatch_MissingFields(t *testing.T) {
	payloads := []string{
		`{"action":"buy","quantity":1}`,
		`{"symbol":"SBIN","quantity":1}`,
		`{"symbol":"SBIN","action":"buy"}`,
		`not json`,
	}
	for _, payload := range payloads {
		t.Run(payload, func(t *testing.T) {
			service, m := NewMock(t, nil)
			m.repo.EXPECT().FindByToken(gomock.Any(), token).Return(hook(), nil)
			expectLog(t, m, domain.WebhookLogFailed, "invalid alert")

			res, err := service.Dispatch(context.Background(), token, []byte(payload))
			assert.ErrorIs(t, err, ErrInvalidAlert)
			assert.Nil(t, res)
		})
	}
}

func TestDispatch_UnknownOrInactiveToken(t *testing.T) {
	service, m := NewMock(t, nil)
	m.repo.EXPECT().FindByToken(gomock.Any(), "missing").Return(nil, nil)
	m.repo.EXPECT().FindByToken(gomock.Any(), "off").Return(&domain.Webhook{ID: 1, IsActive: false}, nil)

	_, err := service.Dispatch(context.Background(), "missing", []byte(`{}`))
	assert.ErrorIs(t, err, ErrWebhookNotFound)

	_, err = service.Dispatch(context.Background(), "off", []byte(`{}`))
	assert.ErrorIs(t, err, ErrWebhookNotFound)
}

func TestDispatch_RateLimit(t *testing.T) {
	service, m := NewMock(t, nil)
	now := time.Date(2024, 5, 1, 9, 15, 0, 0, time.UTC)
	service.now = func() time.Time { return now }
	m.repo.EXPECT().FindByToken(gomock.Any(), token).Return(nil, nil).Times(5)

	for i := 0; i < 5; i++ {
		_, err := service.Dispatch(context.Background(), token, []byte(`{}`))
		assert.ErrorIs(t, err, ErrWebhookNotFound)
	}

	_, err := service.Dispatch(context.Background(), token, []byte(`{}`))
	var limited *RateLimitError
	require.ErrorAs(t, err, &limited)
	assert.Equal(t, time.Minute, limited.RetryAfter)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.metrics.WebhookAlerts.WithLabelValues("rate_limited")))

	now = now.Add(time.Minute)
	m.repo.EXPECT().FindByToken(gomock.Any(), token).Return(nil, nil)
	_, err = service.Dispatch(context.Background(), token, []byte(`{}`))
	assert.ErrorIs(t, err, ErrWebhookNotFound)
}

func TestDispatch_LimiterFailsOpen(t *testing.T) {
	ctrl := gomock.NewController(t)
	limiter := ratelimit.NewMockLimiter(ctrl)
	limiter.EXPECT().Allow(gomock.Any(), token, gomock.Any()).Return(false, time.Duration(0), errors.New("redis down"))

	service, m := NewMock(t, limiter)
	m.repo.EXPECT().FindByToken(gomock.Any(), token).Return(nil, nil)

	_, err := service.Dispatch(context.Background(), token, []byte(`{}`))
	assert.ErrorIs(t, err, ErrWebhookNotFound)
}

func TestDispatch_NoActiveBroker(t *testing.T) {
	service, m := NewMock(t, nil)
	m.repo.EXPECT().FindByToken(gomock.Any(), token).Return(hook(), nil)
	m.repo.EXPECT().RecordUsage(gomock.Any(), 3).Return(errors.New("usage not recorded"))
	m.credentials.EXPECT().FindActiveByUser(gomock.Any(), 9).Return(nil, nil)
	expectLog(t, m, domain.WebhookLogFailed, "no active broker")

	res, err := service.Dispatch(context.Background(), token, []byte(`{"symbol":"SBIN","action":"buy","quantity":1}`))
	require.NoError(t, err)
	assert.True(t, res.Queued)
	assert.False(t, res.Success)
}

func TestDispatch_BuyIsNormalizedPerBroker(t *testing.T) {
	tests := []struct {
		broker    string
		sideField string
		symField  string
	}{
		{broker: broker.AngelOne, sideField: "order_side", symField: "tradingsymbol"},
		{broker: broker.Dhan, sideField: "transactionType", symField: "symbol"},
		{broker: broker.Upstox, sideField: "transaction_type", symField: "symbol"},
	}

	for _, tt := range tests {
		t.Run(tt.broker, func(t *testing.T) {
			service, m := NewMock(t, nil)
			cred := &domain.BrokerCredential{ID: 11, UserID: 9, BrokerName: tt.broker, IsActive: true}
			m.repo.EXPECT().FindByToken(gomock.Any(), token).Return(hook(), nil)
			m.repo.EXPECT().RecordUsage(gomock.Any(), 3).Return(nil)
			m.credentials.EXPECT().FindActiveByUser(gomock.Any(), 9).Return(cred, nil)
			m.orders.EXPECT().PlaceOrderFor(gomock.Any(), cred, gomock.Any()).
				DoAndReturn(func(_ context.Context, _ *domain.BrokerCredential, order json.RawMessage) (broker.OrderResult, error) {
					var fields map[string]any
					require.NoError(t, json.Unmarshal(order, &fields))
					assert.Equal(t, "BUY", fields[tt.sideField])
					assert.Equal(t, "SBIN-EQ", fields[tt.symField])
					assert.Equal(t, float64(10), fields["quantity"])
					return broker.OrderResult{OrderID: "ord-1", Raw: json.RawMessage(`{"status":true}`)}, nil
				})
			expectLog(t, m, domain.WebhookLogSuccess, "")

			res, err := service.Dispatch(context.Background(), token, []byte(`{"symbol":"SBIN-EQ","action":"buy","quantity":"10","orderType":"market"}`))
			require.NoError(t, err)
			assert.Equal(t, &DispatchResult{Success: true, OrderID: "ord-1", Broker: tt.broker}, res)
		})
	}
}

func TestDispatch_UnsupportedBroker(t *testing.T) {
	service, m := NewMock(t, nil)
	m.repo.EXPECT().FindByToken(gomock.Any(), token).Return(hook(), nil)
	m.repo.EXPECT().RecordUsage(gomock.Any(), 3).Return(nil)
	m.credentials.EXPECT().FindActiveByUser(gomock.Any(), 9).Return(&domain.BrokerCredential{ID: 11, BrokerName: broker.Fyers, IsActive: true}, nil)
	expectLog(t, m, domain.WebhookLogFailed, "unsupported broker")

	_, err := service.Dispatch(context.Background(), token, []byte(`{"symbol":"SBIN","action":"sell","quantity":1}`))
	assert.ErrorIs(t, err, broker.ErrUnsupportedBroker)
}

func TestDispatch_UnsupportedAction(t *testing.T) {
	service, m := NewMock(t, nil)
	m.repo.EXPECT().FindByToken(gomock.Any(), token).Return(hook(), nil)
	m.repo.EXPECT().RecordUsage(gomock.Any(), 3).Return(nil)
	m.credentials.EXPECT().FindActiveByUser(gomock.Any(), 9).Return(&domain.BrokerCredential{ID: 11, BrokerName: broker.Dhan, IsActive: true}, nil)
	expectLog(t, m, domain.WebhookLogFailed, "unsupported action")

	_, err := service.Dispatch(context.Background(), token, []byte(`{"symbol":"SBIN","action":"hold","quantity":1}`))
	assert.ErrorIs(t, err, ErrUnsupportedAction)
}

func TestDispatch_BrokerFailureIsPropagated(t *testing.T) {
	service, m := NewMock(t, nil)
	upstream := &broker.APIError{Broker: broker.Dhan, StatusCode: http.StatusBadRequest, Body: []byte(`{"errorCode":"DH-905"}`)}
	m.repo.EXPECT().FindByToken(gomock.Any(), token).Return(hook(), nil)
	m.repo.EXPECT().RecordUsage(gomock.Any(), 3).Return(nil)
	m.credentials.EXPECT().FindActiveByUser(gomock.Any(), 9).Return(&domain.BrokerCredential{ID: 11, BrokerName: broker.Dhan, IsActive: true}, nil)
	m.orders.EXPECT().PlaceOrderFor(gomock.Any(), gomock.Any(), gomock.Any()).Return(broker.OrderResult{}, upstream)
	m.repo.EXPECT().SaveLog(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, log *domain.WebhookLog) error {
		assert.Equal(t, domain.WebhookLogFailed, log.Status)
		assert.JSONEq(t, `{"errorCode":"DH-905"}`, string(log.Response))
		return errors.New("log write failed")
	})

	_, err := service.Dispatch(context.Background(), token, []byte(`{"symbol":"SBIN","action":"short","quantity":1}`))
	var apiErr *broker.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
}

func TestCreateListDeactivate(t *testing.T) {
	service, m := NewMock(t, nil)

	m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, w *domain.Webhook) (*domain.Webhook, error) {
		w.ID = 1
		return w, nil
	})
	webhook, err := service.Create(context.Background(), 9)
	require.NoError(t, err)
	assert.Len(t, webhook.Token, 64)
	assert.Equal(t, 9, webhook.UserID)

	m.repo.EXPECT().FindByUser(gomock.Any(), 9).Return([]domain.Webhook{*webhook}, nil)
	list, err := service.List(context.Background(), 9)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	m.repo.EXPECT().Deactivate(gomock.Any(), 1, 9).Return(true, nil)
	m.repo.EXPECT().Deactivate(gomock.Any(), 2, 9).Return(false, nil)
	assert.NoError(t, service.Deactivate(context.Background(), 9, 1))
	assert.ErrorIs(t, service.Deactivate(context.Background(), 9, 2), ErrWebhookNotFound)
}

func TestJSONOrString(t *testing.T) {
	assert.Nil(t, jsonOrString(nil))
	assert.JSONEq(t, `{"a":1}`, string(jsonOrString([]byte(`{"a":1}`))))
	assert.Equal(t, `"plain text"`, string(jsonOrString([]byte("plain text"))))
	assert.Equal(t, `{}`, string(payloadJSON(nil)))
}
