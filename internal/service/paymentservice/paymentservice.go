package paymentservice

//go:generate mockgen -source=paymentservice.go -destination=mock_paymentservice.go -package=paymentservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GlebRadaev/tradebridge/internal/cashfree"
	"github.com/GlebRadaev/tradebridge/internal/domain"
	"github.com/GlebRadaev/tradebridge/pkg/metrics"
)

const orderPrefix = "coin_"

// Webhook outcomes.
const (
	OutcomeCompleted = "completed"
	OutcomeFailed    = "failed"
	OutcomeIgnored   = "ignored"
)

var (
	ErrInvalidCoins     = errors.New("invalid coin amount")
	ErrOrderNotFound    = errors.New("coin order not found")
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrInvalidEvent     = errors.New("invalid webhook payload")
	ErrAmountMismatch   = errors.New("paid amount does not match the order")
)

type Repo interface {
	Create(ctx context.Context, order *domain.CoinOrder) (*domain.CoinOrder, error)
	FindByOrderID(ctx context.Context, orderID string) (*domain.CoinOrder, error)
	Complete(ctx context.Context, orderID string) (bool, error)
	Fail(ctx context.Context, orderID string) (bool, error)
}

type Gateway interface {
	CreateOrder(ctx context.Context, req cashfree.CreateOrderRequest) (cashfree.Order, error)
}

type Options struct {
	Price         decimal.Decimal
	MaxCoins      int64
	WebhookSecret string
	ReturnURL     string
	NotifyURL     string
}

type OrderInput struct {
	Coins         int64
	CustomerPhone string
	CustomerEmail string
	CustomerName  string
}

type Service struct {
	repo    Repo
	gateway Gateway
	opts    Options
	metrics *metrics.Metrics
	newID   func() string
}

func New(repo Repo, gateway Gateway, opts Options, m *metrics.Metrics) *Service {
	return &Service{
		repo:    repo,
		gateway: gateway,
		opts:    opts,
		metrics: m,
		newID:   uuid.NewString,
	}
}

func (s *Service) CreateOrder(ctx context.Context, userID int, input OrderInput) (*domain.CoinOrder, error) {
	if input.Coins <= 0 || (s.opts.MaxCoins > 0 && input.Coins > s.opts.MaxCoins) {
		return nil, fmt.Errorf("%w: must be between 1 and %d", ErrInvalidCoins, s.opts.MaxCoins)
	}

	amount := s.opts.Price.Mul(decimal.NewFromInt(input.Coins)).Round(2)
	orderID := orderPrefix + s.newID()

	req := cashfree.CreateOrderRequest{
		OrderID:     orderID,
		OrderAmount: cashfree.Amount(amount),
		Customer: cashfree.Customer{
			ID:    fmt.Sprintf("user_%d", userID),
			Phone: input.CustomerPhone,
			Email: input.CustomerEmail,
			Name:  input.CustomerName,
		},
		OrderNote: fmt.Sprintf("%d coins", input.Coins),
	}
	if s.opts.ReturnURL != "" || s.opts.NotifyURL != "" {
		req.Meta = &cashfree.OrderMeta{ReturnURL: s.opts.ReturnURL, NotifyURL: s.opts.NotifyURL}
	}

	cfOrder, err := s.gateway.CreateOrder(ctx, req)
	if err != nil {
		zap.L().Error("failed to create payment order", zap.String("order_id", orderID), zap.Error(err))
		return nil, err
	}

	order, err := s.repo.Create(ctx, &domain.CoinOrder{
		OrderID:          orderID,
		UserID:           userID,
		Amount:           amount,
		Coins:            input.Coins,
		Status:           domain.CoinOrderPending,
		PaymentSessionID: cfOrder.PaymentSessionID,
		CFOrderID:        string(cfOrder.CFOrderID),
	})
	if err != nil {
		return nil, err
	}
	zap.L().Info("coin order created", zap.Int("user_id", userID), zap.String("order_id", orderID), zap.Int64("coins", input.Coins))
	return order, nil
}

func (s *Service) GetOrder(ctx context.Context, userID int, orderID string) (*domain.CoinOrder, error) {
	order, err := s.repo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil || order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// HandleWebhook applies one gateway delivery. Orders that already left
// PENDING are not touched, so redelivery is harmless.
func (s *Service) HandleWebhook(ctx context.Context, body []byte, timestamp, signature string) (string, error) {
	if !cashfree.VerifySignature(body, timestamp, signature, s.opts.WebhookSecret) {
		s.metrics.PaymentWebhook("invalid_signature")
		zap.L().Warn("payment webhook with invalid signature")
		return "", ErrInvalidSignature
	}

	event, err := cashfree.ParseEvent(body)
	if err != nil {
		s.metrics.PaymentWebhook("invalid")
		return "", fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	orderID := event.Data.Order.OrderID

	order, err := s.repo.FindByOrderID(ctx, orderID)
	if err != nil {
		return "", err
	}
	if order == nil {
		s.metrics.PaymentWebhook("unknown_order")
		return "", ErrOrderNotFound
	}
	if order.Status != domain.CoinOrderPending {
		s.metrics.PaymentWebhook(OutcomeIgnored)
		zap.L().Info("payment webhook for settled order", zap.String("order_id", orderID), zap.String("status", order.Status))
		return OutcomeIgnored, nil
	}

	var (
		outcome = OutcomeIgnored
		changed bool
	)
	switch {
	case event.Paid():
		paid := event.Data.Order.OrderAmount
		if !paid.IsZero() && !paid.Equal(order.Amount) {
			s.metrics.PaymentWebhook("amount_mismatch")
			zap.L().Warn("payment amount mismatch", zap.String("order_id", orderID),
				zap.String("expected", order.Amount.StringFixed(2)), zap.String("paid", paid.StringFixed(2)))
			return "", ErrAmountMismatch
		}
		changed, err = s.repo.Complete(ctx, orderID)
		outcome = OutcomeCompleted
	case event.Failed():
		changed, err = s.repo.Fail(ctx, orderID)
		outcome = OutcomeFailed
	}
	if err != nil {
		zap.L().Error("failed to settle coin order", zap.String("order_id", orderID), zap.Error(err))
		return "", err
	}
	if !changed {
		outcome = OutcomeIgnored
	}

	s.metrics.PaymentWebhook(outcome)
	zap.L().Info("payment webhook processed", zap.String("order_id", orderID), zap.String("outcome", outcome))
	return outcome, nil
}
