package dto

import (
	"encoding/json"
	"time"
)

type CreateBrokerRequestDTO struct {
	BrokerName  string            `json:"broker_name" validate:"required" example:"angelone"`
	Credentials map[string]string `json:"credentials" validate:"required"`
}

type BrokerAuthRequestDTO struct {
	TOTP string `json:"totp,omitempty" validate:"omitempty,numeric,len=6" example:"123456"`
}

// BrokerResponseDTO never carries secret values; Credentials lists masked values.
type BrokerResponseDTO struct {
	ID            int               `json:"id" example:"7"`
	BrokerName    string            `json:"broker_name" example:"upstox"`
	Credentials   map[string]string `json:"credentials"`
	IsActive      bool              `json:"is_active"`
	IsPendingAuth bool              `json:"is_pending_auth"`
	SessionActive bool              `json:"session_active"`
	RedirectURL   string            `json:"redirect_url,omitempty"`
	LastActivity  time.Time         `json:"last_activity"`
	CreatedAt     time.Time         `json:"created_at"`
}

type BrokerAuthResponseDTO struct {
	Broker      BrokerResponseDTO `json:"broker"`
	RedirectURL string            `json:"redirect_url,omitempty" example:"https://api.upstox.com/v2/login/authorization/dialog?client_id=..."`
}

type OrderResponseDTO struct {
	OrderID string          `json:"order_id" example:"240501000000123"`
	Raw     json.RawMessage `json:"raw" swaggertype:"object"`
}
