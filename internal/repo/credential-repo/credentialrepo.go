package credentialrepo

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/GlebRadaev/tradebridge/internal/domain"
	"github.com/GlebRadaev/tradebridge/internal/pg"
)

const columns = `id, user_id, broker_name, credentials, is_active, is_pending_auth, session_active,
	COALESCE(auth_state, ''), COALESCE(redirect_url, ''), COALESCE(last_activity, created_at), created_at, updated_at`

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func scan(row pgx.Row) (*domain.BrokerCredential, error) {
	var c domain.BrokerCredential
	err := row.Scan(&c.ID, &c.UserID, &c.BrokerName, &c.Credentials, &c.IsActive, &c.IsPendingAuth, &c.SessionActive,
		&c.AuthState, &c.RedirectURL, &c.LastActivity, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if c.Credentials == nil {
		c.Credentials = map[string]string{}
	}
	return &c, nil
}

func (r *Repository) findOne(ctx context.Context, query string, args ...any) (*domain.BrokerCredential, error) {
	c, err := scan(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't find broker credential", zap.Error(err))
		return nil, err
	}
	return c, nil
}

func (r *Repository) findMany(ctx context.Context, query string, args ...any) ([]domain.BrokerCredential, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		zap.L().Error("can't list broker credentials", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var creds []domain.BrokerCredential
	for rows.Next() {
		c, err := scan(rows)
		if err != nil {
			zap.L().Error("can't scan broker credential row", zap.Error(err))
			return nil, err
		}
		creds = append(creds, *c)
	}
	if err := rows.Err(); err != nil {
		zap.L().Error("broker credential rows failed", zap.Error(err))
		return nil, err
	}
	return creds, nil
}

func (r *Repository) Create(ctx context.Context, cred *domain.BrokerCredential) (*domain.BrokerCredential, error) {
	query := `
		INSERT INTO broker_credentials (user_id, broker_name, credentials, is_active, is_pending_auth, session_active)
		VALUES ($1, $2, $3, FALSE, TRUE, FALSE)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, cred.UserID, cred.BrokerName, cred.Credentials).Scan(&cred.ID, &cred.CreatedAt, &cred.UpdatedAt)
	if err != nil {
		zap.L().Error("can't save broker credential", zap.Error(err))
		return nil, err
	}
	cred.IsActive = false
	cred.IsPendingAuth = true
	cred.SessionActive = false
	cred.LastActivity = cred.CreatedAt
	return cred, nil
}

func (r *Repository) FindByID(ctx context.Context, id, userID int) (*domain.BrokerCredential, error) {
	query := `SELECT ` + columns + ` FROM broker_credentials WHERE id = $1 AND user_id = $2`
	return r.findOne(ctx, query, id, userID)
}

func (r *Repository) FindByAuthState(ctx context.Context, brokerName, state string) (*domain.BrokerCredential, error) {
	query := `SELECT ` + columns + ` FROM broker_credentials WHERE broker_name = $1 AND auth_state = $2`
	return r.findOne(ctx, query, brokerName, state)
}

func (r *Repository) FindByUser(ctx context.Context, userID int) ([]domain.BrokerCredential, error) {
	query := `SELECT ` + columns + ` FROM broker_credentials WHERE user_id = $1 ORDER BY created_at DESC`
	return r.findMany(ctx, query, userID)
}

// FindActiveByUser returns the most recently created active credential.
func (r *Repository) FindActiveByUser(ctx context.Context, userID int) (*domain.BrokerCredential, error) {
	query := `SELECT ` + columns + ` FROM broker_credentials
		WHERE user_id = $1 AND is_active = TRUE
		ORDER BY created_at DESC
		LIMIT 1`
	return r.findOne(ctx, query, userID)
}

func (r *Repository) SetAuthState(ctx context.Context, id int, state, redirectURL string) error {
	query := `
		UPDATE broker_credentials
		SET auth_state = $1, redirect_url = NULLIF($2, ''), is_pending_auth = TRUE, updated_at = NOW()
		WHERE id = $3
	`
	return r.exec(ctx, "can't save auth state", query, state, redirectURL, id)
}

func (r *Repository) Activate(ctx context.Context, id int, creds map[string]string) error {
	query := `
		UPDATE broker_credentials
		SET credentials = $1, is_active = TRUE, is_pending_auth = FALSE, session_active = TRUE,
			auth_state = NULL, last_activity = NOW(), updated_at = NOW()
		WHERE id = $2
	`
	return r.exec(ctx, "can't activate broker credential", query, creds, id)
}

func (r *Repository) UpdateCredentials(ctx context.Context, id int, creds map[string]string) error {
	query := `
		UPDATE broker_credentials
		SET credentials = $1, updated_at = NOW()
		WHERE id = $2
	`
	return r.exec(ctx, "can't update broker credentials", query, creds, id)
}

func (r *Repository) Touch(ctx context.Context, id int) error {
	query := `
		UPDATE broker_credentials
		SET last_activity = NOW(), session_active = TRUE
		WHERE id = $1 AND is_active = TRUE
	`
	return r.exec(ctx, "can't touch broker credential", query, id)
}

// Deactivate clears both flags in one statement.
func (r *Repository) Deactivate(ctx context.Context, id int, creds map[string]string) error {
	query := `
		UPDATE broker_credentials
		SET credentials = $1, is_active = FALSE, session_active = FALSE, is_pending_auth = FALSE,
			auth_state = NULL, updated_at = NOW()
		WHERE id = $2
	`
	return r.exec(ctx, "can't deactivate broker credential", query, creds, id)
}

// ClearOrphanSessions drops session_active wherever the credential itself is
// no longer active.
func (r *Repository) ClearOrphanSessions(ctx context.Context) (int64, error) {
	query := `
		UPDATE broker_credentials
		SET session_active = FALSE, updated_at = NOW()
		WHERE is_active = FALSE AND session_active = TRUE
	`
	tag, err := r.db.Exec(ctx, query)
	if err != nil {
		zap.L().Error("can't clear orphan sessions", zap.Error(err))
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *Repository) FindStaleSessions(ctx context.Context, idleBefore time.Time, limit uint32) ([]domain.BrokerCredential, error) {
	query := `SELECT ` + columns + ` FROM broker_credentials
		WHERE is_active = TRUE AND COALESCE(last_activity, created_at) < $1
		ORDER BY last_activity ASC NULLS FIRST
		LIMIT $2`
	return r.findMany(ctx, query, idleBefore, int(limit))
}

func (r *Repository) exec(ctx context.Context, msg, query string, args ...any) error {
	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		zap.L().Error(msg, zap.Error(err))
		return err
	}
	return nil
}
