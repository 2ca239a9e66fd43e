// Package sessionsync keeps the broker session flags honest: it clears
// sessions left on deactivated credentials and re-checks idle ones.
package sessionsync

//go:generate mockgen -source=sessionsync.go -destination=mock_sessionsync.go -package=sessionsync

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/GlebRadaev/tradebridge/internal/config"
	"github.com/GlebRadaev/tradebridge/internal/domain"
)

type Repo interface {
	ClearOrphanSessions(ctx context.Context) (int64, error)
	FindStaleSessions(ctx context.Context, idleBefore time.Time, limit uint32) ([]domain.BrokerCredential, error)
}

type Checker interface {
	CheckSession(ctx context.Context, cred *domain.BrokerCredential) (bool, error)
}

type Report struct {
	Cleared     int64
	Checked     int64
	Deactivated int64
	Failed      int64
}

type Service struct {
	repo        Repo
	checker     Checker
	workerPool  WorkerPoolI
	interval    time.Duration
	idleTimeout time.Duration
	limit       uint32
	inFlight    sync.Map
	now         func() time.Time
	done        chan struct{}
}

func New(cfg config.Session, repo Repo, checker Checker) *Service {
	return &Service{
		repo:        repo,
		checker:     checker,
		workerPool:  NewWorkerPool(cfg.SyncWorkers),
		interval:    cfg.SyncInterval,
		idleTimeout: cfg.IdleTimeout,
		limit:       cfg.SyncBatch,
		now:         time.Now,
	}
}

func (s *Service) Start(ctx context.Context) {
	zap.L().Info("session sync started", zap.Duration("interval", s.interval))
	s.done = make(chan struct{})
	go func() {
		defer close(s.done)
		s.run(ctx)
	}()
}

// Stop releases the workers. When Start was called it first waits for the
// loop to see its context canceled. A RunOnce still enqueueing gets
// ErrPoolClosed for the credentials it had not handed over yet.
func (s *Service) Stop() {
	if s.done != nil {
		<-s.done
	}
	s.workerPool.Close()
}

func (s *Service) run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("context canceled, stopping session sync")
			return
		case <-ticker.C:
			report, err := s.RunOnce(ctx)
			if err != nil {
				zap.L().Error("session sync pass failed", zap.Error(err))
				continue
			}
			zap.L().Debug("session sync pass done",
				zap.Int64("cleared", report.Cleared),
				zap.Int64("checked", report.Checked),
				zap.Int64("deactivated", report.Deactivated),
				zap.Int64("failed", report.Failed),
			)
		}
	}
}

// RunOnce does one full pass and waits for every check it started.
// Credentials already being checked by a concurrent pass are skipped.
func (s *Service) RunOnce(ctx context.Context) (Report, error) {
	var report Report

	cleared, err := s.repo.ClearOrphanSessions(ctx)
	if err != nil {
		return report, fmt.Errorf("clear orphan sessions: %w", err)
	}
	report.Cleared = cleared

	creds, err := s.repo.FindStaleSessions(ctx, s.now().Add(-s.idleTimeout), s.limit)
	if err != nil {
		return report, fmt.Errorf("find stale sessions: %w", err)
	}

	var (
		g                            errgroup.Group
		wg                           sync.WaitGroup
		checked, deactivated, failed atomic.Int64
	)
	for _, cred := range creds {
		cred := cred

		if _, loaded := s.inFlight.LoadOrStore(cred.ID, struct{}{}); loaded {
			continue
		}

		wg.Add(1)
		g.Go(func() error {
			err := s.workerPool.AddTask(ctx, func() error {
				defer wg.Done()
				defer s.inFlight.Delete(cred.ID)

				checked.Add(1)
				alive, err := s.checker.CheckSession(ctx, &cred)
				if err != nil {
					failed.Add(1)
					return fmt.Errorf("credential %d: %w", cred.ID, err)
				}
				if !alive {
					deactivated.Add(1)
				}
				return nil
			})
			if err != nil {
				wg.Done()
				s.inFlight.Delete(cred.ID)
				return err
			}
			return nil
		})
	}

	enqueueErr := g.Wait()
	wg.Wait()

	report.Checked = checked.Load()
	report.Deactivated = deactivated.Load()
	report.Failed = failed.Load()
	return report, enqueueErr
}
