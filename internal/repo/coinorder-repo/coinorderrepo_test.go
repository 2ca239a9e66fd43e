package coinorderrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/GlebRadaev/tradebridge/internal/domain"
	"github.com/GlebRadaev/tradebridge/internal/pg"
)

var ts = time.Date(2024, 5, 1, 9, 15, 0, 0, time.UTC)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface, *pg.MockTXManager) {
	ctrl := gomock.NewController(t)
	txManager := pg.NewMockTXManager(ctrl)

	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockDB.Close)

	return New(mockDB, txManager), mockDB, txManager
}

// runInline makes the mocked TXManager run fn directly.
func runInline(txManager *pg.MockTXManager) {
	txManager.EXPECT().
		Begin(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		})
}

var (
	markQuery   = regexp.QuoteMeta(`UPDATE coin_orders SET status = $1, updated_at = NOW() WHERE order_id = $2 AND status = $3 RETURNING user_id, coins, amount_paise`)
	ledgerQuery = regexp.QuoteMeta(`INSERT INTO coin_transactions (user_id, order_id, coins, amount_paise)`)
	creditQuery = regexp.QuoteMeta(`UPDATE balances SET coins = coins + $1, purchased_total = purchased_total + $1 WHERE user_id = $2`)
)

func TestRepository_Create(t *testing.T) {
	repo, mock, _ := NewMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO coin_orders (order_id, user_id, amount_paise, coins, status, payment_session_id, cf_order_id)`)).
		WithArgs("coin_1", 5, int64(25050), int64(250), domain.CoinOrderPending, "sess", "cf1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(1, ts, ts))

	order, err := repo.Create(context.Background(), &domain.CoinOrder{
		OrderID:          "coin_1",
		UserID:           5,
		Amount:           decimal.RequireFromString("250.50"),
		Coins:            250,
		PaymentSessionID: "sess",
		CFOrderID:        "cf1",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, order.ID)
	assert.Equal(t, domain.CoinOrderPending, order.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_FindByOrderID(t *testing.T) {
	repo, mock, _ := NewMock(t)
	query := regexp.QuoteMeta(`FROM coin_orders WHERE order_id = $1`)

	mock.ExpectQuery(query).WithArgs("coin_1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "order_id", "user_id", "amount_paise", "coins", "status", "payment_session_id", "cf_order_id", "created_at", "updated_at"}).
			AddRow(1, "coin_1", 5, int64(25050), int64(250), domain.CoinOrderPending, "sess", "", ts, ts))
	mock.ExpectQuery(query).WithArgs("coin_2").WillReturnError(pgx.ErrNoRows)

	order, err := repo.FindByOrderID(context.Background(), "coin_1")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("250.50").Equal(order.Amount))
	assert.Equal(t, "sess", order.PaymentSessionID)

	order, err = repo.FindByOrderID(context.Background(), "coin_2")
	assert.NoError(t, err)
	assert.Nil(t, order)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Complete(t *testing.T) {
	tests := []struct {
		name      string
		mockSetup func(mock pgxmock.PgxPoolIface)
		expectOK  bool
		expectErr bool
	}{
		{
			name: "pending order is completed and credited",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(markQuery).
					WithArgs(domain.CoinOrderCompleted, "coin_1", domain.CoinOrderPending).
					WillReturnRows(pgxmock.NewRows([]string{"user_id", "coins", "amount_paise"}).AddRow(5, int64(250), int64(25000)))
				mock.ExpectExec(ledgerQuery).
					WithArgs(5, "coin_1", int64(250), int64(25000)).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
				mock.ExpectExec(creditQuery).
					WithArgs(int64(250), 5).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
			expectOK: true,
		},
		{
			name: "already completed order is left alone",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(markQuery).
					WithArgs(domain.CoinOrderCompleted, "coin_1", domain.CoinOrderPending).
					WillReturnError(pgx.ErrNoRows)
			},
		},
		{
			name: "ledger insert fails",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(markQuery).
					WithArgs(domain.CoinOrderCompleted, "coin_1", domain.CoinOrderPending).
					WillReturnRows(pgxmock.NewRows([]string{"user_id", "coins", "amount_paise"}).AddRow(5, int64(250), int64(25000)))
				mock.ExpectExec(ledgerQuery).
					WithArgs(5, "coin_1", int64(250), int64(25000)).
					WillReturnError(errors.New("duplicate key"))
			},
			expectErr: true,
		},
		{
			name: "missing balance row",
			mockSetup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(markQuery).
					WithArgs(domain.CoinOrderCompleted, "coin_1", domain.CoinOrderPending).
					WillReturnRows(pgxmock.NewRows([]string{"user_id", "coins", "amount_paise"}).AddRow(5, int64(250), int64(25000)))
				mock.ExpectExec(ledgerQuery).
					WithArgs(5, "coin_1", int64(250), int64(25000)).
					WillReturnResult(pgxmock.NewResult("INSERT", 1))
				mock.ExpectExec(creditQuery).
					WithArgs(int64(250), 5).
					WillReturnResult(pgxmock.NewResult("UPDATE", 0))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, txManager := NewMock(t)
			runInline(txManager)
			tt.mockSetup(mock)

			ok, err := repo.Complete(context.Background(), "coin_1")
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expectOK, ok)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_Fail(t *testing.T) {
	repo, mock, _ := NewMock(t)
	query := regexp.QuoteMeta(`UPDATE coin_orders SET status = $1, updated_at = NOW() WHERE order_id = $2 AND status = $3`)

	mock.ExpectExec(query).WithArgs(domain.CoinOrderFailed, "coin_1", domain.CoinOrderPending).WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectExec(query).WithArgs(domain.CoinOrderFailed, "coin_1", domain.CoinOrderPending).WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	ok, err := repo.Fail(context.Background(), "coin_1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Fail(context.Background(), "coin_1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}
