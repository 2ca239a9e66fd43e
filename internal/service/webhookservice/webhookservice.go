package webhookservice

//go:generate mockgen -source=webhookservice.go -destination=mock_webhookservice.go -package=webhookservice

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/GlebRadaev/tradebridge/internal/broker"
	"github.com/GlebRadaev/tradebridge/internal/domain"
	"github.com/GlebRadaev/tradebridge/internal/ratelimit"
	"github.com/GlebRadaev/tradebridge/pkg/metrics"
)

const tokenBytes = 32

var (
	ErrWebhookNotFound   = errors.New("webhook not found")
	ErrInvalidAlert      = errors.New("invalid alert")
	ErrUnsupportedAction = errors.New("unsupported action")

	errNoActiveBroker = errors.New("no active broker")
)

type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry in %s", e.RetryAfter.Round(time.Second))
}

type Repo interface {
	Create(ctx context.Context, webhook *domain.Webhook) (*domain.Webhook, error)
	FindByUser(ctx context.Context, userID int) ([]domain.Webhook, error)
	FindByToken(ctx context.Context, token string) (*domain.Webhook, error)
	Deactivate(ctx context.Context, id, userID int) (bool, error)
	RecordUsage(ctx context.Context, id int) error
	SaveLog(ctx context.Context, log *domain.WebhookLog) error
}

type CredentialFinder interface {
	FindActiveByUser(ctx context.Context, userID int) (*domain.BrokerCredential, error)
}

type OrderPlacer interface {
	PlaceOrderFor(ctx context.Context, cred *domain.BrokerCredential, order json.RawMessage) (broker.OrderResult, error)
}

// DispatchResult is Queued when no broker was available and the alert was
// dropped after logging.
type DispatchResult struct {
	Queued  bool
	Success bool
	OrderID string
	Broker  string
}

type Service struct {
	repo        Repo
	credentials CredentialFinder
	orders      OrderPlacer
	limiter     ratelimit.Limiter
	metrics     *metrics.Metrics
	now         func() time.Time
}

func New(repo Repo, credentials CredentialFinder, orders OrderPlacer, limiter ratelimit.Limiter, m *metrics.Metrics) *Service {
	return &Service{
		repo:        repo,
		credentials: credentials,
		orders:      orders,
		limiter:     limiter,
		metrics:     m,
		now:         time.Now,
	}
}

func (s *Service) Create(ctx context.Context, userID int) (*domain.Webhook, error) {
	token, err := newToken()
	if err != nil {
		zap.L().Error("failed to generate webhook token", zap.Error(err))
		return nil, err
	}
	webhook, err := s.repo.Create(ctx, &domain.Webhook{UserID: userID, Token: token})
	if err != nil {
		zap.L().Error("failed to create webhook", zap.Error(err))
		return nil, err
	}
	zap.L().Info("webhook created", zap.Int("user_id", userID), zap.Int("webhook_id", webhook.ID))
	return webhook, nil
}

func (s *Service) List(ctx context.Context, userID int) ([]domain.Webhook, error) {
	webhooks, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		zap.L().Error("failed to list webhooks", zap.Error(err))
		return nil, err
	}
	return webhooks, nil
}

func (s *Service) Deactivate(ctx context.Context, userID, id int) error {
	ok, err := s.repo.Deactivate(ctx, id, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrWebhookNotFound
	}
	return nil
}

// Dispatch turns one inbound alert into at most one broker order. Every
// alert that reaches a known webhook leaves a log row. Nothing is retried.
func (s *Service) Dispatch(ctx context.Context, token string, payload []byte) (*DispatchResult, error) {
	allowed, retryAfter, err := s.limiter.Allow(ctx, token, s.now())
	if err != nil {
		zap.L().Warn("rate limiter unavailable, letting alert through", zap.Error(err))
		allowed = true
	}
	if !allowed {
		s.metrics.Alert("rate_limited")
		return nil, &RateLimitError{RetryAfter: retryAfter}
	}

	hook, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if hook == nil || !hook.IsActive {
		s.metrics.Alert("unknown_webhook")
		return nil, ErrWebhookNotFound
	}

	alert, err := parseAlert(payload)
	if err != nil {
		s.fail(ctx, hook, payload, nil, err, "invalid")
		return nil, err
	}

	if err := s.repo.RecordUsage(ctx, hook.ID); err != nil {
		zap.L().Warn("failed to record webhook usage", zap.Int("webhook_id", hook.ID), zap.Error(err))
	}

	cred, err := s.credentials.FindActiveByUser(ctx, hook.UserID)
	if err != nil {
		return nil, err
	}
	if cred == nil {
		s.fail(ctx, hook, payload, nil, errNoActiveBroker, "queued")
		return &DispatchResult{Queued: true}, nil
	}

	o, err := alert.toOrder()
	if err != nil {
		s.fail(ctx, hook, payload, nil, err, "invalid")
		return nil, err
	}
	body, err := brokerPayload(cred.BrokerName, o)
	if err != nil {
		s.fail(ctx, hook, payload, nil, err, "invalid")
		return nil, err
	}

	res, err := s.orders.PlaceOrderFor(ctx, cred, body)
	if err != nil {
		var apiErr *broker.APIError
		var response []byte
		if errors.As(err, &apiErr) {
			response = apiErr.Body
		}
		s.fail(ctx, hook, payload, response, err, "failed")
		return nil, err
	}

	s.saveLog(ctx, &domain.WebhookLog{
		WebhookID: hook.ID,
		UserID:    hook.UserID,
		Payload:   payloadJSON(payload),
		Status:    domain.WebhookLogSuccess,
		Response:  jsonOrString(res.Raw),
	})
	s.metrics.Alert("success")
	zap.L().Info("alert dispatched", zap.Int("webhook_id", hook.ID), zap.String("broker", cred.BrokerName), zap.String("order_id", res.OrderID))

	return &DispatchResult{
		Success: true,
		OrderID: res.OrderID,
		Broker:  cred.BrokerName,
	}, nil
}

func (s *Service) fail(ctx context.Context, hook *domain.Webhook, payload, response []byte, cause error, status string) {
	s.metrics.Alert(status)
	zap.L().Info("alert not dispatched", zap.Int("webhook_id", hook.ID), zap.String("reason", cause.Error()))
	s.saveLog(ctx, &domain.WebhookLog{
		WebhookID: hook.ID,
		UserID:    hook.UserID,
		Payload:   payloadJSON(payload),
		Status:    domain.WebhookLogFailed,
		Response:  jsonOrString(response),
		Error:     cause.Error(),
	})
}

func (s *Service) saveLog(ctx context.Context, log *domain.WebhookLog) {
	if err := s.repo.SaveLog(ctx, log); err != nil {
		zap.L().Warn("failed to save webhook log", zap.Int("webhook_id", log.WebhookID), zap.Error(err))
	}
}

func payloadJSON(b []byte) json.RawMessage {
	if len(b) == 0 {
		return json.RawMessage(`{}`)
	}
	return jsonOrString(b)
}

// jsonOrString keeps valid JSON as is and stores anything else as a JSON
// string so it fits a JSONB column.
func jsonOrString(b []byte) json.RawMessage {
	if len(b) == 0 {
		return nil
	}
	if json.Valid(b) {
		return json.RawMessage(b)
	}
	quoted, _ := json.Marshal(string(b))
	return quoted
}

func newToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
