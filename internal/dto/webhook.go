package dto

import "time"

// WebhookResponseDTO shows the token only right after creation.
type WebhookResponseDTO struct {
	ID           int       `json:"id" example:"3"`
	Token        string    `json:"token,omitempty" example:"9f2c..."`
	URL          string    `json:"url,omitempty" example:"https://bridge.example.com/api/webhook/trading-view/9f2c..."`
	IsActive     bool      `json:"is_active"`
	RequestCount int64     `json:"request_count" example:"12"`
	LastUsedAt   *time.Time `json:"last_used_at"`
	CreatedAt    time.Time `json:"created_at"`
}

type AlertResponseDTO struct {
	Success bool   `json:"success"`
	Queued  bool   `json:"queued,omitempty"`
	OrderID string `json:"order_id,omitempty" example:"240501000000123"`
	Broker  string `json:"broker,omitempty" example:"angelone"`
	Message string `json:"message,omitempty" example:"no active broker, alert dropped"`
}
