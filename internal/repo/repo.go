package repo

import (
	"github.com/GlebRadaev/tradebridge/internal/pg"
	balancerepo "github.com/GlebRadaev/tradebridge/internal/repo/balance-repo"
	coinorderrepo "github.com/GlebRadaev/tradebridge/internal/repo/coinorder-repo"
	credentialrepo "github.com/GlebRadaev/tradebridge/internal/repo/credential-repo"
	transactionrepo "github.com/GlebRadaev/tradebridge/internal/repo/transaction-repo"
	userrepo "github.com/GlebRadaev/tradebridge/internal/repo/user-repo"
	webhookrepo "github.com/GlebRadaev/tradebridge/internal/repo/webhook-repo"
	"github.com/GlebRadaev/tradebridge/internal/service/authservice"
	"github.com/GlebRadaev/tradebridge/internal/service/balanceservice"
	"github.com/GlebRadaev/tradebridge/internal/service/brokerservice"
	"github.com/GlebRadaev/tradebridge/internal/service/paymentservice"
	"github.com/GlebRadaev/tradebridge/internal/service/webhookservice"
	"github.com/GlebRadaev/tradebridge/internal/sessionsync"
)

// CredentialRepo is used by the broker service, the webhook dispatcher and
// the session sync job.
type CredentialRepo interface {
	brokerservice.Repo
	webhookservice.CredentialFinder
	sessionsync.Repo
}

type Repositories struct {
	UserRepo        authservice.Repo
	BalanceRepo     balanceservice.BalanceRepo
	TransactionRepo balanceservice.TransactionRepo
	CredentialRepo  CredentialRepo
	WebhookRepo     webhookservice.Repo
	CoinOrderRepo   paymentservice.Repo
}

func New(conn pg.Database, txManager pg.TXManager) *Repositories {
	return &Repositories{
		UserRepo:        userrepo.New(conn),
		BalanceRepo:     balancerepo.New(conn),
		TransactionRepo: transactionrepo.New(conn),
		CredentialRepo:  credentialrepo.New(conn),
		WebhookRepo:     webhookrepo.New(conn),
		CoinOrderRepo:   coinorderrepo.New(conn, txManager),
	}
}
