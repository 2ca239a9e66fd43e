package transactionrepo

import (
	"context"

	"go.uber.org/zap"

	"github.com/GlebRadaev/tradebridge/internal/domain"
	"github.com/GlebRadaev/tradebridge/internal/pg"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) FindByUser(ctx context.Context, userID int) ([]domain.CoinTransaction, error) {
	query := `
        SELECT id, user_id, order_id, coins, amount_paise, created_at
        FROM coin_transactions
        WHERE user_id = $1
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		zap.L().Error("failed to fetch coin transactions", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var transactions []domain.CoinTransaction
	for rows.Next() {
		var (
			tx    domain.CoinTransaction
			paise int64
		)
		if err := rows.Scan(&tx.ID, &tx.UserID, &tx.OrderID, &tx.Coins, &paise, &tx.CreatedAt); err != nil {
			zap.L().Error("failed to scan coin transaction row", zap.Error(err))
			return nil, err
		}
		tx.Amount = domain.Rupees(paise)
		transactions = append(transactions, tx)
	}

	return transactions, nil
}
