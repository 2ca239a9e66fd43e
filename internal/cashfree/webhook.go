package cashfree

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	EventPaymentSuccess = "PAYMENT_SUCCESS_WEBHOOK"
	EventPaymentFailed  = "PAYMENT_FAILED_WEBHOOK"
	EventPaymentDropped = "PAYMENT_USER_DROPPED_WEBHOOK"

	OrderStatusPaid = "PAID"

	HeaderSignature = "x-webhook-signature"
	HeaderTimestamp = "x-webhook-timestamp"
)

var errNoOrderID = errors.New("cashfree: webhook without order id")

type WebhookEvent struct {
	Type      string `json:"type"`
	EventTime string `json:"event_time"`
	Data      struct {
		Order struct {
			OrderID     string          `json:"order_id"`
			OrderAmount decimal.Decimal `json:"order_amount"`
			OrderStatus string          `json:"order_status"`
		} `json:"order"`
		Payment struct {
			CFPaymentID   ID              `json:"cf_payment_id"`
			PaymentStatus string          `json:"payment_status"`
			PaymentAmount decimal.Decimal `json:"payment_amount"`
		} `json:"payment"`
	} `json:"data"`
}

// Paid reports whether the event confirms a successful payment.
func (e WebhookEvent) Paid() bool {
	return e.Type == EventPaymentSuccess || e.Data.Order.OrderStatus == OrderStatusPaid
}

// Failed reports whether the event closes the order without payment.
func (e WebhookEvent) Failed() bool {
	return e.Type == EventPaymentFailed || e.Type == EventPaymentDropped
}

func ParseEvent(body []byte) (WebhookEvent, error) {
	var e WebhookEvent
	if err := json.Unmarshal(body, &e); err != nil {
		return WebhookEvent{}, fmt.Errorf("cashfree: decode webhook: %w", err)
	}
	if e.Data.Order.OrderID == "" {
		return WebhookEvent{}, errNoOrderID
	}
	return e, nil
}

// VerifySignature checks HMAC-SHA256 over timestamp+payload. The signature
// is normally base64; hex is accepted too.
func VerifySignature(payload []byte, timestamp, signature, secret string) bool {
	sig := strings.TrimSpace(signature)
	if sig == "" || secret == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write(payload)
	expected := mac.Sum(nil)

	if decoded, err := base64.StdEncoding.DecodeString(sig); err == nil && hmac.Equal(decoded, expected) {
		return true
	}
	if decoded, err := hex.DecodeString(strings.ToLower(sig)); err == nil && hmac.Equal(decoded, expected) {
		return true
	}
	return false
}

// Sign produces the base64 signature Cashfree would send.
func Sign(payload []byte, timestamp, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write(payload)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
