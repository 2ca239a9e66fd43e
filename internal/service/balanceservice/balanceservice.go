package balanceservice

//go:generate mockgen -source=balanceservice.go -destination=mock_balanceservice.go -package=balanceservice

import (
	"context"

	"go.uber.org/zap"

	"github.com/GlebRadaev/tradebridge/internal/domain"
)

type BalanceRepo interface {
	GetUserBalance(ctx context.Context, userID int) (*domain.Balance, error)
	CreateUserBalance(ctx context.Context, userID int) (*domain.Balance, error)
}

type TransactionRepo interface {
	FindByUser(ctx context.Context, userID int) ([]domain.CoinTransaction, error)
}

type Service struct {
	balanceRepo     BalanceRepo
	transactionRepo TransactionRepo
}

func New(balanceRepo BalanceRepo, transactionRepo TransactionRepo) *Service {
	return &Service{
		balanceRepo:     balanceRepo,
		transactionRepo: transactionRepo,
	}
}

// GetBalance reports a zero balance for users registered before the balance
// row existed.
func (s *Service) GetBalance(ctx context.Context, userID int) (*domain.Balance, error) {
	balance, err := s.balanceRepo.GetUserBalance(ctx, userID)
	if err != nil {
		zap.L().Error("failed to get balance", zap.Error(err))
		return nil, err
	}
	if balance == nil {
		return &domain.Balance{UserID: userID}, nil
	}
	return balance, nil
}

func (s *Service) CreateBalance(ctx context.Context, userID int) (*domain.Balance, error) {
	balance, err := s.balanceRepo.CreateUserBalance(ctx, userID)
	if err != nil {
		zap.L().Error("failed to create balance", zap.Error(err))
		return nil, err
	}
	return balance, nil
}

func (s *Service) ListTransactions(ctx context.Context, userID int) ([]domain.CoinTransaction, error) {
	transactions, err := s.transactionRepo.FindByUser(ctx, userID)
	if err != nil {
		zap.L().Error("failed to fetch coin transactions", zap.Error(err))
		return nil, err
	}
	return transactions, nil
}
