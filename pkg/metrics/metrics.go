package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "tradebridge"

// Metrics is nil-safe: a nil *Metrics records nothing.
type Metrics struct {
	WebhookAlerts   *prometheus.CounterVec
	BrokerRequests  *prometheus.CounterVec
	BrokerLatency   *prometheus.HistogramVec
	TokenRefreshes  *prometheus.CounterVec
	PaymentWebhooks *prometheus.CounterVec
}

func New(registry prometheus.Registerer) *Metrics {
	m := &Metrics{
		WebhookAlerts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "webhook_alerts_total",
				Help:      "Inbound TradingView alerts by outcome.",
			},
			[]string{"status"},
		),
		BrokerRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "broker_requests_total",
				Help:      "Outbound broker REST calls.",
			},
			[]string{"broker", "operation", "status"},
		),
		BrokerLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "broker_request_duration_seconds",
				Help:      "Outbound broker REST call latency in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"broker", "operation"},
		),
		TokenRefreshes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "token_refresh_total",
				Help:      "Broker token refresh attempts.",
			},
			[]string{"broker", "result"},
		),
		PaymentWebhooks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "payment_webhooks_total",
				Help:      "Payment gateway webhook deliveries by outcome.",
			},
			[]string{"outcome"},
		),
	}

	registry.MustRegister(
		m.WebhookAlerts,
		m.BrokerRequests,
		m.BrokerLatency,
		m.TokenRefreshes,
		m.PaymentWebhooks,
	)
	return m
}

func (m *Metrics) Alert(status string) {
	if m == nil {
		return
	}
	m.WebhookAlerts.WithLabelValues(status).Inc()
}

// BrokerCall records one REST call; statusCode 0 means a transport failure.
func (m *Metrics) BrokerCall(broker, operation string, statusCode int, elapsed time.Duration) {
	if m == nil {
		return
	}
	status := "error"
	if statusCode > 0 {
		status = strconv.Itoa(statusCode)
	}
	m.BrokerRequests.WithLabelValues(broker, operation, status).Inc()
	m.BrokerLatency.WithLabelValues(broker, operation).Observe(elapsed.Seconds())
}

func (m *Metrics) TokenRefresh(broker, result string) {
	if m == nil {
		return
	}
	m.TokenRefreshes.WithLabelValues(broker, result).Inc()
}

func (m *Metrics) PaymentWebhook(outcome string) {
	if m == nil {
		return
	}
	m.PaymentWebhooks.WithLabelValues(outcome).Inc()
}
