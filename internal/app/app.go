package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/GlebRadaev/tradebridge/internal/broker"
	"github.com/GlebRadaev/tradebridge/internal/broker/angelone"
	"github.com/GlebRadaev/tradebridge/internal/broker/dhan"
	"github.com/GlebRadaev/tradebridge/internal/broker/fyers"
	"github.com/GlebRadaev/tradebridge/internal/broker/upstox"
	"github.com/GlebRadaev/tradebridge/internal/cashfree"
	"github.com/GlebRadaev/tradebridge/internal/config"
	"github.com/GlebRadaev/tradebridge/internal/handlers"
	"github.com/GlebRadaev/tradebridge/internal/pg"
	"github.com/GlebRadaev/tradebridge/internal/ratelimit"
	"github.com/GlebRadaev/tradebridge/internal/repo"
	"github.com/GlebRadaev/tradebridge/internal/service"
	"github.com/GlebRadaev/tradebridge/pkg/auth"
	"github.com/GlebRadaev/tradebridge/pkg/clients"
	"github.com/GlebRadaev/tradebridge/pkg/logger"
	"github.com/GlebRadaev/tradebridge/pkg/metrics"
)

const shutdownTimeout = 5 * time.Second

type ApplicationI interface {
	Start(ctx context.Context) error
	Wait(ctx context.Context, cancel context.CancelFunc) error
}

type Application struct {
	cfg   *config.Config
	api   *handlers.Handlers
	srv   *service.Services
	repo  *repo.Repositories
	pool  *pgxpool.Pool
	redis *redis.Client

	errCh chan error
	wg    sync.WaitGroup
	ready bool
}

func New() *Application {
	return &Application{
		errCh: make(chan error),
	}
}

func (a *Application) Start(ctx context.Context) error {
	cfg := config.New()

	err := logger.InitLogger(cfg)
	if err != nil {
		return fmt.Errorf("can't init logger: %w", err)
	}

	pool, err := getPgxpool(ctx, cfg)
	if err != nil {
		zap.L().Error("build pgx pool failed: ", zap.Error(err))
		return fmt.Errorf("can't build pgx pool: %w", err)
	}
	if err := pg.RunMigrations(pool); err != nil {
		zap.L().Error("migrations failed: ", zap.Error(err))
		return fmt.Errorf("can't run migrations: %w", err)
	}
	txManager := pg.NewTXManager(pool)
	conn := pg.New(pool)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)
	httpClient := clients.NewHTTPClient()
	jwtService := auth.NewJWTService(cfg.JWTSecret)

	a.cfg = cfg
	a.pool = pool
	a.repo = repo.New(conn, txManager)
	a.srv, err = service.New(cfg, a.repo, service.Deps{
		Brokers: newBrokerRegistry(cfg, httpClient, m),
		Gateway: cashfree.New(cfg.Cashfree, httpClient),
		Limiter: a.newLimiter(ctx, cfg),
		JWT:     jwtService,
		Metrics: m,
	})
	if err != nil {
		return fmt.Errorf("can't build services: %w", err)
	}
	a.api = handlers.New(a.srv, handlers.Options{
		JWT:          jwtService,
		Metrics:      promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		PublicURL:    cfg.PublicURL,
		AdminTimeout: cfg.AdminTimeout,
	})

	if err = a.startHTTPServer(ctx); err != nil {
		return fmt.Errorf("can't start http server: %w", err)
	}

	a.srv.SessionSync.Start(ctx)

	a.ready = true
	zap.L().Info("all systems started successfully")
	return nil
}

func getPgxpool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	cfgpool, err := pgxpool.ParseConfig(cfg.Database)
	if err != nil {
		return nil, err
	}
	dbpool, err := pgxpool.NewWithConfig(ctx, cfgpool)
	if err != nil {
		return nil, err
	}
	if err = dbpool.Ping(ctx); err != nil {
		return nil, err
	}
	return dbpool, nil
}

func newBrokerRegistry(cfg *config.Config, client clients.HTTPClientI, m *metrics.Metrics) *broker.Registry {
	callback := cfg.PublicURL + "/api/brokers/callback/"
	return broker.NewRegistry(
		angelone.New(cfg.AngelOne, client, m),
		dhan.New(cfg.Dhan, client, m),
		fyers.New(cfg.Fyers, callback+broker.Fyers, client, m),
		upstox.New(cfg.Upstox, callback+broker.Upstox, client, m),
	)
}

// newLimiter uses redis when it is configured and reachable, and the
// in-process limiter otherwise.
func (a *Application) newLimiter(ctx context.Context, cfg *config.Config) ratelimit.Limiter {
	if cfg.RedisAddr == "" {
		return ratelimit.NewMemory(cfg.Webhook.RateLimit, cfg.Webhook.RateWindow)
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := client.Ping(ctx).Err(); err != nil {
		zap.L().Warn("redis unavailable, using in-memory rate limiter", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		_ = client.Close()
		return ratelimit.NewMemory(cfg.Webhook.RateLimit, cfg.Webhook.RateWindow)
	}
	a.redis = client
	return ratelimit.NewRedis(client, cfg.Webhook.RateLimit, cfg.Webhook.RateWindow, "")
}

func (a *Application) startHTTPServer(ctx context.Context) error {
	router := chi.NewRouter()
	a.api.InitRoutes(router)
	server := http.Server{
		Addr:              a.cfg.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		<-ctx.Done()

		sCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(sCtx); err != nil {
			zap.L().Error("http server shutdown failed", zap.Error(err))
		}
		a.close()
	}()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		zap.L().Info("starting http server on port", zap.String("port", a.cfg.Address))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.errCh <- fmt.Errorf("http server exited with error: %w", err)
		}
	}()

	return nil
}

// close releases what the server was using once no request can reach it.
func (a *Application) close() {
	if a.srv != nil && a.srv.SessionSync != nil {
		a.srv.SessionSync.Stop()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			zap.L().Error("redis close failed", zap.Error(err))
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
}

func (a *Application) Wait(ctx context.Context, cancel context.CancelFunc) error {
	var appErr error

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()

		for err := range a.errCh {
			cancel()
			zap.L().Error(err.Error())
			appErr = err
		}
	}()

	<-ctx.Done()
	a.wg.Wait()
	close(a.errCh)
	wg.Wait()

	return appErr
}
