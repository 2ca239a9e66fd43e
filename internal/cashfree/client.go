// Package cashfree is a small client for the Cashfree Payment Gateway
// orders API and its webhook signatures.
package cashfree

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/GlebRadaev/tradebridge/internal/config"
	"github.com/GlebRadaev/tradebridge/pkg/clients"
)

const (
	maxAttempts    = 2
	defaultBackoff = 500 * time.Millisecond
	currencyINR    = "INR"
)

type Customer struct {
	ID    string `json:"customer_id"`
	Phone string `json:"customer_phone"`
	Email string `json:"customer_email,omitempty"`
	Name  string `json:"customer_name,omitempty"`
}

type OrderMeta struct {
	ReturnURL string `json:"return_url,omitempty"`
	NotifyURL string `json:"notify_url,omitempty"`
}

// Amount formats a rupee value the way the orders API expects it.
func Amount(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(2))
}

type CreateOrderRequest struct {
	OrderID       string      `json:"order_id"`
	OrderAmount   json.Number `json:"order_amount"`
	OrderCurrency string      `json:"order_currency"`
	Customer      Customer    `json:"customer_details"`
	Meta          *OrderMeta  `json:"order_meta,omitempty"`
	OrderNote     string      `json:"order_note,omitempty"`
}

type Order struct {
	CFOrderID        ID              `json:"cf_order_id"`
	OrderID          string          `json:"order_id"`
	OrderAmount      decimal.Decimal `json:"order_amount"`
	OrderCurrency    string          `json:"order_currency"`
	OrderStatus      string          `json:"order_status"`
	PaymentSessionID string          `json:"payment_session_id"`
}

// ID accepts both the numeric and the string form Cashfree uses for its ids
// depending on API version.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

type APIError struct {
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("cashfree: upstream status %d", e.StatusCode)
}

type Client struct {
	baseURL    string
	appID      string
	secret     string
	apiVersion string
	client     clients.HTTPClientI
	backoff    time.Duration
}

func New(cfg config.Cashfree, client clients.HTTPClientI) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		appID:      cfg.AppID,
		secret:     cfg.SecretKey,
		apiVersion: cfg.APIVersion,
		client:     client,
		backoff:    defaultBackoff,
	}
}

// SetBackoff changes the pause between attempts.
func (c *Client) SetBackoff(d time.Duration) {
	c.backoff = d
}

// CreateOrder posts a new order. Transport errors, 429 and 5xx answers are
// retried once. A 409 on the retry means the first attempt went through, so
// the existing order is fetched instead.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (Order, error) {
	if req.OrderCurrency == "" {
		req.OrderCurrency = currencyINR
	}
	body, err := json.Marshal(req)
	if err != nil {
		return Order{}, fmt.Errorf("cashfree: encode order: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return Order{}, ctx.Err()
			case <-time.After(c.backoff):
			}
		}

		status, resp, _, err := c.client.Send(ctx, http.MethodPost, c.baseURL+"/orders", c.headers(), bytes.NewReader(body))
		switch {
		case err != nil:
			lastErr = fmt.Errorf("cashfree: create order: %w", err)
		case status == http.StatusConflict && attempt > 1:
			zap.L().Warn("Cashfree order already exists, fetching it", zap.String("orderID", req.OrderID))
			return c.GetOrder(ctx, req.OrderID)
		case status == http.StatusTooManyRequests || status >= http.StatusInternalServerError:
			lastErr = &APIError{StatusCode: status, Body: resp}
		case status < http.StatusOK || status >= http.StatusMultipleChoices:
			return Order{}, &APIError{StatusCode: status, Body: resp}
		default:
			return decodeOrder(resp)
		}

		zap.L().Warn("Cashfree create order failed", zap.String("orderID", req.OrderID), zap.Int("attempt", attempt), zap.Error(lastErr))
	}
	return Order{}, lastErr
}

func (c *Client) GetOrder(ctx context.Context, orderID string) (Order, error) {
	status, resp, _, err := c.client.Get(ctx, c.baseURL+"/orders/"+url.PathEscape(orderID), c.headers())
	if err != nil {
		return Order{}, fmt.Errorf("cashfree: get order: %w", err)
	}
	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return Order{}, &APIError{StatusCode: status, Body: resp}
	}
	return decodeOrder(resp)
}

func (c *Client) headers() http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	h.Set("Accept", "application/json")
	h.Set("x-client-id", c.appID)
	h.Set("x-client-secret", c.secret)
	h.Set("x-api-version", c.apiVersion)
	return h
}

func decodeOrder(body []byte) (Order, error) {
	var o Order
	if err := json.Unmarshal(body, &o); err != nil {
		return Order{}, fmt.Errorf("cashfree: decode order: %w", err)
	}
	return o, nil
}
