package brokerservice

//go:generate mockgen -source=brokerservice.go -destination=mock_brokerservice.go -package=brokerservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GlebRadaev/tradebridge/internal/broker"
	"github.com/GlebRadaev/tradebridge/internal/domain"
	"github.com/GlebRadaev/tradebridge/pkg/metrics"
)

var (
	ErrCredentialNotFound = errors.New("broker credential not found")
	ErrCredentialInactive = errors.New("broker credential is not active")
	ErrInvalidState       = errors.New("unknown authorization state")
	ErrSessionExpired     = errors.New("broker session expired, authenticate again")

	errNoAuthResult = errors.New("broker returned neither a redirect nor tokens")
)

type Repo interface {
	Create(ctx context.Context, cred *domain.BrokerCredential) (*domain.BrokerCredential, error)
	FindByID(ctx context.Context, id, userID int) (*domain.BrokerCredential, error)
	FindByAuthState(ctx context.Context, brokerName, state string) (*domain.BrokerCredential, error)
	FindByUser(ctx context.Context, userID int) ([]domain.BrokerCredential, error)
	SetAuthState(ctx context.Context, id int, state, redirectURL string) error
	Activate(ctx context.Context, id int, creds map[string]string) error
	UpdateCredentials(ctx context.Context, id int, creds map[string]string) error
	Touch(ctx context.Context, id int) error
	Deactivate(ctx context.Context, id int, creds map[string]string) error
}

type Registry interface {
	Get(name string) (broker.Adapter, error)
}

// AuthOutcome has RedirectURL set when the user still has to pass the
// broker's consent screen.
type AuthOutcome struct {
	Credential  *domain.BrokerCredential
	RedirectURL string
}

type Service struct {
	repo     Repo
	brokers  Registry
	metrics  *metrics.Metrics
	newState func() string
}

func New(repo Repo, brokers Registry, m *metrics.Metrics) *Service {
	return &Service{
		repo:     repo,
		brokers:  brokers,
		metrics:  m,
		newState: uuid.NewString,
	}
}

func (s *Service) List(ctx context.Context, userID int) ([]domain.BrokerCredential, error) {
	creds, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		zap.L().Error("failed to list broker credentials", zap.Error(err))
		return nil, err
	}
	return creds, nil
}

func (s *Service) Create(ctx context.Context, userID int, brokerName string, creds map[string]string) (*domain.BrokerCredential, error) {
	adapter, err := s.brokers.Get(brokerName)
	if err != nil {
		return nil, err
	}
	if err := broker.Require(brokerName, creds, adapter.RequiredKeys()...); err != nil {
		return nil, err
	}

	cred, err := s.repo.Create(ctx, &domain.BrokerCredential{
		UserID:        userID,
		BrokerName:    brokerName,
		Credentials:   broker.ClearTokens(creds, adapter.RequiredKeys()...),
		IsPendingAuth: true,
	})
	if err != nil {
		zap.L().Error("failed to store broker credential", zap.Error(err))
		return nil, err
	}
	zap.L().Info("broker credential stored", zap.Int("user_id", userID), zap.String("broker", brokerName))
	return cred, nil
}

func (s *Service) Authenticate(ctx context.Context, userID, id int, totp string) (*AuthOutcome, error) {
	cred, err := s.load(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	adapter, err := s.brokers.Get(cred.BrokerName)
	if err != nil {
		return nil, err
	}

	state := s.newState()
	res, err := adapter.Authenticate(ctx, cred.Credentials, broker.AuthParams{State: state, TOTP: totp})
	if err != nil {
		zap.L().Warn("broker authentication failed", zap.String("broker", cred.BrokerName), zap.Error(err))
		return nil, err
	}

	switch {
	case res.RedirectURL != "":
		if err := s.repo.SetAuthState(ctx, cred.ID, state, res.RedirectURL); err != nil {
			return nil, err
		}
		cred.AuthState = state
		cred.RedirectURL = res.RedirectURL
		cred.IsPendingAuth = true
		return &AuthOutcome{Credential: cred, RedirectURL: res.RedirectURL}, nil
	case res.Tokens != nil:
		if err := s.activate(ctx, cred, *res.Tokens); err != nil {
			return nil, err
		}
		return &AuthOutcome{Credential: cred}, nil
	default:
		return nil, errNoAuthResult
	}
}

// CompleteAuth finishes an OAuth login. The credential is found by the state
// value handed out in Authenticate, never by the caller's session.
func (s *Service) CompleteAuth(ctx context.Context, brokerName, state, code string) (*domain.BrokerCredential, error) {
	if state == "" || code == "" {
		return nil, ErrInvalidState
	}
	adapter, err := s.brokers.Get(brokerName)
	if err != nil {
		return nil, err
	}
	cred, err := s.repo.FindByAuthState(ctx, brokerName, state)
	if err != nil {
		return nil, err
	}
	if cred == nil {
		return nil, ErrInvalidState
	}

	tokens, err := adapter.ExchangeCode(ctx, cred.Credentials, code)
	if err != nil {
		zap.L().Warn("authorization code exchange failed", zap.String("broker", brokerName), zap.Error(err))
		return nil, err
	}
	if err := s.activate(ctx, cred, tokens); err != nil {
		return nil, err
	}
	return cred, nil
}

func (s *Service) Verify(ctx context.Context, userID, id int) (json.RawMessage, error) {
	cred, adapter, err := s.active(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	return withRefresh(ctx, s, cred, adapter, func(creds map[string]string) (json.RawMessage, error) {
		return adapter.Profile(ctx, creds)
	})
}

func (s *Service) PlaceOrder(ctx context.Context, userID, id int, order json.RawMessage) (broker.OrderResult, error) {
	cred, err := s.load(ctx, id, userID)
	if err != nil {
		return broker.OrderResult{}, err
	}
	return s.PlaceOrderFor(ctx, cred, order)
}

// PlaceOrderFor places an order on an already resolved credential.
func (s *Service) PlaceOrderFor(ctx context.Context, cred *domain.BrokerCredential, order json.RawMessage) (broker.OrderResult, error) {
	adapter, err := s.adapterFor(cred)
	if err != nil {
		return broker.OrderResult{}, err
	}
	res, err := withRefresh(ctx, s, cred, adapter, func(creds map[string]string) (broker.OrderResult, error) {
		return adapter.PlaceOrder(ctx, creds, order)
	})
	if err != nil {
		return broker.OrderResult{}, err
	}
	zap.L().Info("order placed", zap.String("broker", cred.BrokerName), zap.Int("credential_id", cred.ID), zap.String("order_id", res.OrderID))
	return res, nil
}

func (s *Service) CancelOrder(ctx context.Context, userID, id int, orderID string) (json.RawMessage, error) {
	cred, adapter, err := s.active(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	return withRefresh(ctx, s, cred, adapter, func(creds map[string]string) (json.RawMessage, error) {
		return adapter.CancelOrder(ctx, creds, orderID)
	})
}

func (s *Service) Funds(ctx context.Context, userID, id int) (json.RawMessage, error) {
	cred, adapter, err := s.active(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	return withRefresh(ctx, s, cred, adapter, func(creds map[string]string) (json.RawMessage, error) {
		return adapter.Funds(ctx, creds)
	})
}

func (s *Service) Positions(ctx context.Context, userID, id int) (json.RawMessage, error) {
	cred, adapter, err := s.active(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	return withRefresh(ctx, s, cred, adapter, func(creds map[string]string) (json.RawMessage, error) {
		return adapter.Positions(ctx, creds)
	})
}

// Deactivate logs out at the broker when it can and always clears the local
// session.
func (s *Service) Deactivate(ctx context.Context, userID, id int) error {
	cred, err := s.load(ctx, id, userID)
	if err != nil {
		return err
	}
	adapter, err := s.brokers.Get(cred.BrokerName)
	if err != nil {
		return s.deactivate(ctx, cred, nil)
	}
	if cred.IsActive {
		if err := adapter.Logout(ctx, cred.Credentials); err != nil {
			zap.L().Warn("broker logout failed", zap.String("broker", cred.BrokerName), zap.Error(err))
		}
	}
	return s.deactivate(ctx, cred, adapter)
}

// CheckSession probes an active credential. A session the broker rejects and
// a refresh cannot revive is deactivated and reported as not alive.
func (s *Service) CheckSession(ctx context.Context, cred *domain.BrokerCredential) (bool, error) {
	adapter, err := s.adapterFor(cred)
	if err != nil {
		return false, err
	}
	_, err = withRefresh(ctx, s, cred, adapter, func(creds map[string]string) (json.RawMessage, error) {
		return adapter.Profile(ctx, creds)
	})
	switch {
	case err == nil:
		return true, nil
	case broker.IsUnauthorized(err), errors.Is(err, ErrSessionExpired):
		zap.L().Info("broker session expired", zap.String("broker", cred.BrokerName), zap.Int("credential_id", cred.ID))
		if err := s.deactivate(ctx, cred, adapter); err != nil {
			return false, err
		}
		return false, nil
	default:
		return false, err
	}
}

// withRefresh runs call once. A 401 with a stored refresh token triggers one
// refresh, persists the new tokens and retries once. A failed refresh writes
// nothing.
func withRefresh[T any](ctx context.Context, s *Service, cred *domain.BrokerCredential, adapter broker.Adapter, call func(creds map[string]string) (T, error)) (T, error) {
	result, err := call(cred.Credentials)
	if err == nil {
		s.touch(ctx, cred)
		return result, nil
	}
	if !broker.IsUnauthorized(err) || cred.Credentials[broker.KeyRefreshToken] == "" {
		return result, err
	}

	var zero T
	tokens, err := adapter.Refresh(ctx, cred.Credentials)
	if err != nil {
		s.metrics.TokenRefresh(cred.BrokerName, "failure")
		zap.L().Warn("token refresh failed", zap.String("broker", cred.BrokerName), zap.Int("credential_id", cred.ID), zap.Error(err))
		return zero, fmt.Errorf("%w: %v", ErrSessionExpired, err)
	}
	s.metrics.TokenRefresh(cred.BrokerName, "success")

	merged := tokens.Merge(cred.Credentials)
	if err := s.repo.UpdateCredentials(ctx, cred.ID, merged); err != nil {
		return zero, err
	}
	cred.Credentials = merged

	result, err = call(merged)
	if err != nil {
		return result, err
	}
	s.touch(ctx, cred)
	return result, nil
}

func (s *Service) load(ctx context.Context, id, userID int) (*domain.BrokerCredential, error) {
	cred, err := s.repo.FindByID(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if cred == nil {
		return nil, ErrCredentialNotFound
	}
	return cred, nil
}

func (s *Service) active(ctx context.Context, id, userID int) (*domain.BrokerCredential, broker.Adapter, error) {
	cred, err := s.load(ctx, id, userID)
	if err != nil {
		return nil, nil, err
	}
	adapter, err := s.adapterFor(cred)
	if err != nil {
		return nil, nil, err
	}
	return cred, adapter, nil
}

func (s *Service) adapterFor(cred *domain.BrokerCredential) (broker.Adapter, error) {
	if !cred.IsActive {
		return nil, ErrCredentialInactive
	}
	return s.brokers.Get(cred.BrokerName)
}

func (s *Service) activate(ctx context.Context, cred *domain.BrokerCredential, tokens broker.Tokens) error {
	merged := tokens.Merge(cred.Credentials)
	if err := s.repo.Activate(ctx, cred.ID, merged); err != nil {
		return err
	}
	cred.Credentials = merged
	cred.IsActive = true
	cred.IsPendingAuth = false
	cred.SessionActive = true
	cred.AuthState = ""
	zap.L().Info("broker credential activated", zap.String("broker", cred.BrokerName), zap.Int("credential_id", cred.ID))
	return nil
}

// deactivate keeps the keys the adapter needs to log in again.
func (s *Service) deactivate(ctx context.Context, cred *domain.BrokerCredential, adapter broker.Adapter) error {
	var keep []string
	if adapter != nil {
		keep = adapter.RequiredKeys()
	}
	cleared := broker.ClearTokens(cred.Credentials, keep...)
	if err := s.repo.Deactivate(ctx, cred.ID, cleared); err != nil {
		return err
	}
	cred.Credentials = cleared
	cred.IsActive = false
	cred.SessionActive = false
	return nil
}

func (s *Service) touch(ctx context.Context, cred *domain.BrokerCredential) {
	if err := s.repo.Touch(ctx, cred.ID); err != nil {
		zap.L().Warn("failed to record broker activity", zap.Int("credential_id", cred.ID), zap.Error(err))
	}
}
