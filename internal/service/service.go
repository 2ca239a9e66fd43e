package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/GlebRadaev/tradebridge/internal/config"
	"github.com/GlebRadaev/tradebridge/internal/handlers/admin"
	"github.com/GlebRadaev/tradebridge/internal/handlers/auth"
	"github.com/GlebRadaev/tradebridge/internal/handlers/balance"
	"github.com/GlebRadaev/tradebridge/internal/handlers/brokers"
	"github.com/GlebRadaev/tradebridge/internal/handlers/payment"
	"github.com/GlebRadaev/tradebridge/internal/handlers/webhooks"
	"github.com/GlebRadaev/tradebridge/internal/ratelimit"
	"github.com/GlebRadaev/tradebridge/internal/repo"
	"github.com/GlebRadaev/tradebridge/internal/service/authservice"
	"github.com/GlebRadaev/tradebridge/internal/service/balanceservice"
	"github.com/GlebRadaev/tradebridge/internal/service/brokerservice"
	"github.com/GlebRadaev/tradebridge/internal/service/paymentservice"
	"github.com/GlebRadaev/tradebridge/internal/service/webhookservice"
	"github.com/GlebRadaev/tradebridge/internal/sessionsync"
	pkgauth "github.com/GlebRadaev/tradebridge/pkg/auth"
	"github.com/GlebRadaev/tradebridge/pkg/metrics"
)

type SessionSync interface {
	admin.Service
	Start(ctx context.Context)
	Stop()
}

// Deps are the outbound clients the services talk through.
type Deps struct {
	Brokers brokerservice.Registry
	Gateway paymentservice.Gateway
	Limiter ratelimit.Limiter
	JWT     pkgauth.JWTServiceInterface
	Metrics *metrics.Metrics
}

type Services struct {
	AuthService    auth.Service
	BalanceService balance.Service
	BrokerService  brokers.Service
	WebhookService webhooks.Service
	PaymentService payment.Service
	SessionSync    SessionSync
}

func New(cfg *config.Config, repo *repo.Repositories, deps Deps) (*Services, error) {
	price, err := decimal.NewFromString(cfg.Coins.Price)
	if err != nil || !price.IsPositive() {
		return nil, fmt.Errorf("invalid coin price %q", cfg.Coins.Price)
	}

	balanceService := balanceservice.New(repo.BalanceRepo, repo.TransactionRepo)
	authService := authservice.New(repo.UserRepo, balanceService, &pkgauth.HashService{}, deps.JWT, cfg.TokenTTL)
	brokerService := brokerservice.New(repo.CredentialRepo, deps.Brokers, deps.Metrics)
	webhookService := webhookservice.New(repo.WebhookRepo, repo.CredentialRepo, brokerService, deps.Limiter, deps.Metrics)
	paymentService := paymentservice.New(repo.CoinOrderRepo, deps.Gateway, paymentservice.Options{
		Price:         price,
		MaxCoins:      cfg.Coins.MaxOrder,
		WebhookSecret: cfg.Cashfree.WebhookSecret,
		ReturnURL:     cfg.Cashfree.ReturnURL,
		NotifyURL:     cfg.PublicURL + "/api/payment/webhook",
	}, deps.Metrics)
	syncService := sessionsync.New(cfg.Session, repo.CredentialRepo, brokerService)

	return &Services{
		AuthService:    authService,
		BalanceService: balanceService,
		BrokerService:  brokerService,
		WebhookService: webhookService,
		PaymentService: paymentService,
		SessionSync:    syncService,
	}, nil
}
