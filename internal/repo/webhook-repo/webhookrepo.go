package webhookrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
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

func (r *Repository) Create(ctx context.Context, webhook *domain.Webhook) (*domain.Webhook, error) {
	query := `
		INSERT INTO webhooks (user_id, token, is_active)
		VALUES ($1, $2, TRUE)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query, webhook.UserID, webhook.Token).Scan(&webhook.ID, &webhook.CreatedAt)
	if err != nil {
		zap.L().Error("can't save webhook", zap.Error(err))
		return nil, err
	}
	webhook.IsActive = true
	return webhook, nil
}

func (r *Repository) FindByUser(ctx context.Context, userID int) ([]domain.Webhook, error) {
	query := `
		SELECT id, user_id, token, is_active, request_count, last_used_at, created_at
		FROM webhooks
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		zap.L().Error("can't list webhooks", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var webhooks []domain.Webhook
	for rows.Next() {
		var w domain.Webhook
		if err := rows.Scan(&w.ID, &w.UserID, &w.Token, &w.IsActive, &w.RequestCount, &w.LastUsedAt, &w.CreatedAt); err != nil {
			zap.L().Error("can't scan webhook row", zap.Error(err))
			return nil, err
		}
		webhooks = append(webhooks, w)
	}
	return webhooks, nil
}

func (r *Repository) FindByToken(ctx context.Context, token string) (*domain.Webhook, error) {
	query := `
		SELECT id, user_id, token, is_active, request_count, last_used_at, created_at
		FROM webhooks
		WHERE token = $1
	`
	var w domain.Webhook
	err := r.db.QueryRow(ctx, query, token).Scan(&w.ID, &w.UserID, &w.Token, &w.IsActive, &w.RequestCount, &w.LastUsedAt, &w.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		zap.L().Error("can't find webhook", zap.Error(err))
		return nil, err
	}
	return &w, nil
}

// Deactivate reports false when the webhook does not belong to the user.
func (r *Repository) Deactivate(ctx context.Context, id, userID int) (bool, error) {
	query := `
		UPDATE webhooks
		SET is_active = FALSE
		WHERE id = $1 AND user_id = $2
	`
	tag, err := r.db.Exec(ctx, query, id, userID)
	if err != nil {
		zap.L().Error("can't deactivate webhook", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *Repository) RecordUsage(ctx context.Context, id int) error {
	query := `
		UPDATE webhooks
		SET request_count = request_count + 1, last_used_at = NOW()
		WHERE id = $1
	`
	if _, err := r.db.Exec(ctx, query, id); err != nil {
		zap.L().Error("can't record webhook usage", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) SaveLog(ctx context.Context, log *domain.WebhookLog) error {
	query := `
		INSERT INTO webhook_logs (webhook_id, user_id, payload, status, response, error)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''))
		RETURNING id, created_at
	`
	var response any
	if len(log.Response) > 0 {
		response = string(log.Response)
	}
	err := r.db.QueryRow(ctx, query, log.WebhookID, log.UserID, string(log.Payload), log.Status, response, log.Error).
		Scan(&log.ID, &log.CreatedAt)
	if err != nil {
		zap.L().Error("can't save webhook log", zap.Error(err))
		return err
	}
	return nil
}
