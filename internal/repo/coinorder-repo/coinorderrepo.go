package coinorderrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/GlebRadaev/tradebridge/internal/domain"
	"github.com/GlebRadaev/tradebridge/internal/pg"
)

type Repository struct {
	db        pg.Database
	txManager pg.TXManager
}

func New(db pg.Database, txManager pg.TXManager) *Repository {
	return &Repository{
		db:        db,
		txManager: txManager,
	}
}

func (r *Repository) Create(ctx context.Context, order *domain.CoinOrder) (*domain.CoinOrder, error) {
	query := `
		INSERT INTO coin_orders (order_id, user_id, amount_paise, coins, status, payment_session_id, cf_order_id)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''))
		RETURNING id, created_at, updated_at
	`
	if order.Status == "" {
		order.Status = domain.CoinOrderPending
	}
	err := r.db.QueryRow(ctx, query, order.OrderID, order.UserID, domain.Paise(order.Amount), order.Coins, order.Status,
		order.PaymentSessionID, order.CFOrderID).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		zap.L().Error("can't save coin order", zap.Error(err))
		return nil, err
	}
	return order, nil
}

func (r *Repository) FindByOrderID(ctx context.Context, orderID string) (*domain.CoinOrder, error) {
	query := `
		SELECT id, order_id, user_id, amount_paise, coins, status,
			COALESCE(payment_session_id, ''), COALESCE(cf_order_id, ''), created_at, updated_at
		FROM coin_orders
		WHERE order_id = $1
	`
	var (
		o     domain.CoinOrder
		paise int64
	)
	err := r.db.QueryRow(ctx, query, orderID).Scan(&o.ID, &o.OrderID, &o.UserID, &paise, &o.Coins, &o.Status,
		&o.PaymentSessionID, &o.CFOrderID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't find coin order", zap.Error(err))
		return nil, err
	}
	o.Amount = domain.Rupees(paise)
	return &o, nil
}

// Complete moves a PENDING order to COMPLETED, appends the ledger row and
// credits the balance in one transaction. It reports false, touching
// nothing, when the order was not PENDING anymore.
func (r *Repository) Complete(ctx context.Context, orderID string) (bool, error) {
	markQuery := `
		UPDATE coin_orders
		SET status = $1, updated_at = NOW()
		WHERE order_id = $2 AND status = $3
		RETURNING user_id, coins, amount_paise
	`
	ledgerQuery := `
		INSERT INTO coin_transactions (user_id, order_id, coins, amount_paise)
		VALUES ($1, $2, $3, $4)
	`
	creditQuery := `
		UPDATE balances
		SET coins = coins + $1, purchased_total = purchased_total + $1
		WHERE user_id = $2
	`

	completed := false
	err := r.txManager.Begin(ctx, func(ctx context.Context) error {
		var (
			userID int
			coins  int64
			paise  int64
		)
		err := r.db.QueryRow(ctx, markQuery, domain.CoinOrderCompleted, orderID, domain.CoinOrderPending).Scan(&userID, &coins, &paise)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			zap.L().Error("can't complete coin order", zap.Error(err))
			return err
		}

		if _, err := r.db.Exec(ctx, ledgerQuery, userID, orderID, coins, paise); err != nil {
			zap.L().Error("can't save coin transaction", zap.Error(err))
			return err
		}
		tag, err := r.db.Exec(ctx, creditQuery, coins, userID)
		if err != nil {
			zap.L().Error("can't credit balance", zap.Error(err))
			return err
		}
		if tag.RowsAffected() == 0 {
			return errNoBalance
		}
		completed = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return completed, nil
}

// Fail moves a PENDING order to FAILED.
func (r *Repository) Fail(ctx context.Context, orderID string) (bool, error) {
	query := `
		UPDATE coin_orders
		SET status = $1, updated_at = NOW()
		WHERE order_id = $2 AND status = $3
	`
	tag, err := r.db.Exec(ctx, query, domain.CoinOrderFailed, orderID, domain.CoinOrderPending)
	if err != nil {
		zap.L().Error("can't fail coin order", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

var errNoBalance = errors.New("balance row missing for order owner")
