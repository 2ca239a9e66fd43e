package userrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"

	"github.com/GlebRadaev/tradebridge/internal/domain"
)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB)
	t.Cleanup(mockDB.Close)

	return repo, mockDB
}

const findQuery = `SELECT id, login, password_hash, role, created_at FROM users WHERE login = $1`

func TestRepository_FindByLogin(t *testing.T) {
	repo, mock := NewMock(t)
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name      string
		login     string
		mockSetup func()
		expectErr bool
		result    *domain.User
	}{
		{
			name:  "User found",
			login: "test_user",
			mockSetup: func() {
				rows := pgxmock.NewRows([]string{"id", "login", "password_hash", "role", "created_at"}).
					AddRow(1, "test_user", "hashed_password", "admin", created)
				mock.ExpectQuery(regexp.QuoteMeta(findQuery)).
					WithArgs("test_user").
					WillReturnRows(rows)
			},
			result: &domain.User{
				ID:           1,
				Login:        "test_user",
				PasswordHash: "hashed_password",
				Role:         domain.RoleAdmin,
				CreatedAt:    created,
			},
		},
		{
			name:  "User not found",
			login: "non_existing_user",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(findQuery)).
					WithArgs("non_existing_user").
					WillReturnError(pgx.ErrNoRows)
			},
		},
		{
			name:  "Database error",
			login: "test_user",
			mockSetup: func() {
				mock.ExpectQuery(regexp.QuoteMeta(findQuery)).
					WithArgs("test_user").
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.FindByLogin(context.Background(), tt.login)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.result, result)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_Create(t *testing.T) {
	repo, mock := NewMock(t)
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	insert := regexp.QuoteMeta(`INSERT INTO users (login, password_hash, role) VALUES ($1, $2, $3) RETURNING id, created_at`)

	tests := []struct {
		name        string
		user        *domain.User
		mockSetup   func()
		expectedErr error
		expectErr   bool
		result      *domain.User
	}{
		{
			name: "Create user with default role",
			user: &domain.User{Login: "new_user", PasswordHash: "hashed_password"},
			mockSetup: func() {
				mock.ExpectQuery(insert).
					WithArgs("new_user", "hashed_password", domain.RoleUser).
					WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(1, created))
			},
			result: &domain.User{ID: 1, Login: "new_user", PasswordHash: "hashed_password", Role: domain.RoleUser, CreatedAt: created},
		},
		{
			name: "Login taken",
			user: &domain.User{Login: "new_user", PasswordHash: "hashed_password"},
			mockSetup: func() {
				mock.ExpectQuery(insert).
					WithArgs("new_user", "hashed_password", domain.RoleUser).
					WillReturnError(&pgconn.PgError{Code: "23505"})
			},
			expectErr:   true,
			expectedErr: domain.ErrLoginTaken,
		},
		{
			name: "Database error",
			user: &domain.User{Login: "new_user", PasswordHash: "hashed_password"},
			mockSetup: func() {
				mock.ExpectQuery(insert).
					WithArgs("new_user", "hashed_password", domain.RoleUser).
					WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.Create(context.Background(), tt.user)
			if tt.expectErr {
				assert.Error(t, err)
				if tt.expectedErr != nil {
					assert.ErrorIs(t, err, tt.expectedErr)
				}
				assert.Nil(t, result)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.result, result)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
