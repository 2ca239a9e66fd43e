package broker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/GlebRadaev/tradebridge/pkg/clients"
	"github.com/GlebRadaev/tradebridge/pkg/metrics"
)

// Requester is the shared REST plumbing for adapters: it encodes bodies,
// records per-call metrics and turns non-2xx answers into *APIError.
type Requester struct {
	Broker  string
	Client  clients.HTTPClientI
	Metrics *metrics.Metrics
}

func (r *Requester) JSON(ctx context.Context, op, method, endpoint string, headers http.Header, body any) ([]byte, error) {
	h := headers.Clone()
	if h == nil {
		h = http.Header{}
	}
	h.Set("Accept", "application/json")

	var reader io.Reader
	if body != nil {
		raw, ok := body.(json.RawMessage)
		if !ok {
			var err error
			raw, err = json.Marshal(body)
			if err != nil {
				return nil, fmt.Errorf("%s %s: encode body: %w", r.Broker, op, err)
			}
		}
		reader = bytes.NewReader(raw)
		h.Set("Content-Type", "application/json")
	}
	return r.do(ctx, op, method, endpoint, h, reader)
}

func (r *Requester) Form(ctx context.Context, op, endpoint string, headers http.Header, form url.Values) ([]byte, error) {
	h := headers.Clone()
	if h == nil {
		h = http.Header{}
	}
	h.Set("Accept", "application/json")
	h.Set("Content-Type", "application/x-www-form-urlencoded")
	return r.do(ctx, op, http.MethodPost, endpoint, h, strings.NewReader(form.Encode()))
}

func (r *Requester) do(ctx context.Context, op, method, endpoint string, headers http.Header, body io.Reader) ([]byte, error) {
	start := time.Now()
	status, resp, _, err := r.Client.Send(ctx, method, endpoint, headers, body)
	if err != nil {
		r.Metrics.BrokerCall(r.Broker, op, 0, time.Since(start))
		return nil, fmt.Errorf("%s %s: %w", r.Broker, op, err)
	}
	r.Metrics.BrokerCall(r.Broker, op, status, time.Since(start))

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		return nil, &APIError{Broker: r.Broker, StatusCode: status, Body: resp}
	}
	return resp, nil
}

// ExtractOrderID looks for the order id in the response shapes brokers use:
// data.orderid, data.order_id, orderId, order_id, id.
func ExtractOrderID(body []byte) string {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(body, &doc); err != nil {
		return ""
	}

	var data map[string]json.RawMessage
	if raw, ok := doc["data"]; ok {
		_ = json.Unmarshal(raw, &data)
	}
	for _, candidate := range []json.RawMessage{data["orderid"], data["order_id"], doc["orderId"], doc["order_id"], doc["id"]} {
		if id := scalar(candidate); id != "" {
			return id
		}
	}
	return ""
}

func scalar(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}
