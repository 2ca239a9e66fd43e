package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

const (
	CoinOrderPending   = "PENDING"
	CoinOrderCompleted = "COMPLETED"
	CoinOrderFailed    = "FAILED"
)

const (
	WebhookLogSuccess = "success"
	WebhookLogFailed  = "failed"
)

type User struct {
	ID           int       `db:"id"`
	Login        string    `db:"login"`
	PasswordHash string    `db:"password_hash"`
	Role         string    `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
}

type Balance struct {
	ID             int   `db:"id"`
	UserID         int   `db:"user_id"`
	Coins          int64 `db:"coins"`
	PurchasedTotal int64 `db:"purchased_total"`
}

// BrokerCredential is one user's bundle for one broker. Credentials keys are
// the provider-facing names ("API Key", "Access Token", ...).
type BrokerCredential struct {
	ID            int               `db:"id"`
	UserID        int               `db:"user_id"`
	BrokerName    string            `db:"broker_name"`
	Credentials   map[string]string `db:"credentials"`
	IsActive      bool              `db:"is_active"`
	IsPendingAuth bool              `db:"is_pending_auth"`
	SessionActive bool              `db:"session_active"`
	AuthState     string            `db:"auth_state"`
	RedirectURL   string            `db:"redirect_url"`
	LastActivity  time.Time         `db:"last_activity"`
	CreatedAt     time.Time         `db:"created_at"`
	UpdatedAt     time.Time         `db:"updated_at"`
}

type Webhook struct {
	ID           int       `db:"id"`
	UserID       int       `db:"user_id"`
	Token        string    `db:"token"`
	IsActive     bool      `db:"is_active"`
	RequestCount int64     `db:"request_count"`
	LastUsedAt   *time.Time `db:"last_used_at"`
	CreatedAt    time.Time `db:"created_at"`
}

type WebhookLog struct {
	ID        int64           `db:"id"`
	WebhookID int             `db:"webhook_id"`
	UserID    int             `db:"user_id"`
	Payload   json.RawMessage `db:"payload"`
	Status    string          `db:"status"`
	Response  json.RawMessage `db:"response"`
	Error     string          `db:"error"`
	CreatedAt time.Time       `db:"created_at"`
}

type CoinOrder struct {
	ID               int             `db:"id"`
	OrderID          string          `db:"order_id"`
	UserID           int             `db:"user_id"`
	Amount           decimal.Decimal // stored as amount_paise
	Coins            int64           `db:"coins"`
	Status           string          `db:"status"`
	PaymentSessionID string          `db:"payment_session_id"`
	CFOrderID        string          `db:"cf_order_id"`
	CreatedAt        time.Time       `db:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at"`
}

type CoinTransaction struct {
	ID        int             `db:"id"`
	UserID    int             `db:"user_id"`
	OrderID   string          `db:"order_id"`
	Coins     int64           `db:"coins"`
	Amount    decimal.Decimal // stored as amount_paise
	CreatedAt time.Time       `db:"created_at"`
}

// Paise converts a rupee amount to the integer minor unit stored in the database.
func Paise(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

func Rupees(paise int64) decimal.Decimal {
	return decimal.New(paise, -2)
}
