package service

import (
	"testing"
	"time"

	"github.com/GlebRadaev/tradebridge/internal/broker"
	"github.com/GlebRadaev/tradebridge/internal/config"
	"github.com/GlebRadaev/tradebridge/internal/pg"
	"github.com/GlebRadaev/tradebridge/internal/ratelimit"
	"github.com/GlebRadaev/tradebridge/internal/repo"
	"github.com/GlebRadaev/tradebridge/internal/service/paymentservice"
	pkgauth "github.com/GlebRadaev/tradebridge/pkg/auth"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomock "go.uber.org/mock/gomock"
)

func newDeps(t *testing.T) (*repo.Repositories, Deps) {
	ctrl := gomock.NewController(t)
	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockDB.Close)

	repos := repo.New(mockDB, pg.NewMockTXManager(ctrl))
	deps := Deps{
		Brokers: broker.NewRegistry(),
		Gateway: paymentservice.NewMockGateway(ctrl),
		Limiter: ratelimit.NewMemory(5, time.Minute),
		JWT:     pkgauth.NewJWTService("secret"),
	}
	return repos, deps
}

func TestNew(t *testing.T) {
	repos, deps := newDeps(t)
	cfg := &config.Config{
		TokenTTL: time.Hour,
		Coins:    config.Coins{Price: "2.50", MaxOrder: 1000},
		Session:  config.Session{SyncInterval: time.Minute, IdleTimeout: time.Minute, SyncWorkers: 1, SyncBatch: 10},
	}

	services, err := New(cfg, repos, deps)

	require.NoError(t, err)
	assert.NotNil(t, services.AuthService)
	assert.NotNil(t, services.BalanceService)
	assert.NotNil(t, services.BrokerService)
	assert.NotNil(t, services.WebhookService)
	assert.NotNil(t, services.PaymentService)
	assert.NotNil(t, services.SessionSync)
	services.SessionSync.Stop()
}

func TestNewInvalidPrice(t *testing.T) {
	for _, price := range []string{"", "abc", "0", "-1"} {
		t.Run(price, func(t *testing.T) {
			repos, deps := newDeps(t)

			services, err := New(&config.Config{Coins: config.Coins{Price: price}}, repos, deps)

			assert.Error(t, err)
			assert.Nil(t, services)
		})
	}
}
