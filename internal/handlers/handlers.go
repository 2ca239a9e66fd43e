package handlers

//go:generate mockgen -source=handlers.go -destination=mock_handlers.go -package=handlers

import (
	"net/http"
	"time"

	_ "github.com/GlebRadaev/tradebridge/docs"
	"github.com/GlebRadaev/tradebridge/internal/domain"
	adminhandlers "github.com/GlebRadaev/tradebridge/internal/handlers/admin"
	authhandlers "github.com/GlebRadaev/tradebridge/internal/handlers/auth"
	balancehandlers "github.com/GlebRadaev/tradebridge/internal/handlers/balance"
	brokerhandlers "github.com/GlebRadaev/tradebridge/internal/handlers/brokers"
	paymenthandlers "github.com/GlebRadaev/tradebridge/internal/handlers/payment"
	webhookhandlers "github.com/GlebRadaev/tradebridge/internal/handlers/webhooks"
	"github.com/GlebRadaev/tradebridge/internal/service"
	"github.com/GlebRadaev/tradebridge/pkg/auth"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type AuthHandler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
}

type BalanceHandler interface {
	GetBalance(w http.ResponseWriter, r *http.Request)
	GetTransactions(w http.ResponseWriter, r *http.Request)
}

type BrokerHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Authenticate(w http.ResponseWriter, r *http.Request)
	Callback(w http.ResponseWriter, r *http.Request)
	Verify(w http.ResponseWriter, r *http.Request)
	PlaceOrder(w http.ResponseWriter, r *http.Request)
	CancelOrder(w http.ResponseWriter, r *http.Request)
	Funds(w http.ResponseWriter, r *http.Request)
	Positions(w http.ResponseWriter, r *http.Request)
	Deactivate(w http.ResponseWriter, r *http.Request)
}

type WebhookHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Deactivate(w http.ResponseWriter, r *http.Request)
	Alert(w http.ResponseWriter, r *http.Request)
}

type PaymentHandler interface {
	CreateOrder(w http.ResponseWriter, r *http.Request)
	GetOrder(w http.ResponseWriter, r *http.Request)
	Webhook(w http.ResponseWriter, r *http.Request)
}

type AdminHandler interface {
	SyncSessions(w http.ResponseWriter, r *http.Request)
}

type Options struct {
	JWT auth.JWTServiceInterface
	// Metrics serves /metrics when set.
	Metrics      http.Handler
	PublicURL    string
	AdminTimeout time.Duration
}

type Handlers struct {
	AuthHandler    AuthHandler
	BalanceHandler BalanceHandler
	BrokerHandler  BrokerHandler
	WebhookHandler WebhookHandler
	PaymentHandler PaymentHandler
	AdminHandler   AdminHandler

	jwt          auth.JWTServiceInterface
	metrics      http.Handler
	adminTimeout time.Duration
}

func New(s *service.Services, opts Options) *Handlers {
	return &Handlers{
		AuthHandler:    authhandlers.New(s.AuthService),
		BalanceHandler: balancehandlers.New(s.BalanceService),
		BrokerHandler:  brokerhandlers.New(s.BrokerService),
		WebhookHandler: webhookhandlers.New(s.WebhookService, opts.PublicURL),
		PaymentHandler: paymenthandlers.New(s.PaymentService),
		AdminHandler:   adminhandlers.New(s.SessionSync),
		jwt:            opts.JWT,
		metrics:        opts.Metrics,
		adminTimeout:   opts.AdminTimeout,
	}
}

func (h *Handlers) InitRoutes(r chi.Router) chi.Router {
	r.Use(
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
	)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("doc.json"),
	))
	if h.metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.metrics)
	}

	authenticated := auth.Middleware(h.jwt)

	r.Route("/api/user", func(r chi.Router) {
		r.Post("/register", h.AuthHandler.Register)
		r.Post("/login", h.AuthHandler.Login)
	})

	r.Route("/api/brokers", func(r chi.Router) {
		r.Get("/callback/{broker}", h.BrokerHandler.Callback)

		r.Group(func(r chi.Router) {
			r.Use(authenticated)
			r.Get("/", h.BrokerHandler.List)
			r.Post("/", h.BrokerHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Post("/authenticate", h.BrokerHandler.Authenticate)
				r.Post("/verify", h.BrokerHandler.Verify)
				r.Post("/orders", h.BrokerHandler.PlaceOrder)
				r.Delete("/orders/{orderID}", h.BrokerHandler.CancelOrder)
				r.Get("/funds", h.BrokerHandler.Funds)
				r.Get("/positions", h.BrokerHandler.Positions)
				r.Post("/deactivate", h.BrokerHandler.Deactivate)
			})
		})
	})

	r.Route("/api/webhooks", func(r chi.Router) {
		r.Use(authenticated)
		r.Get("/", h.WebhookHandler.List)
		r.Post("/", h.WebhookHandler.Create)
		r.Post("/{id}/deactivate", h.WebhookHandler.Deactivate)
	})

	// Inbound calls from TradingView and Cashfree carry no session.
	r.Route("/api/webhook", func(r chi.Router) {
		r.Post("/", h.PaymentHandler.Webhook)
		r.Post("/trading-view/{token}", h.WebhookHandler.Alert)
	})

	r.Route("/api/payment", func(r chi.Router) {
		r.Post("/webhook", h.PaymentHandler.Webhook)

		r.Group(func(r chi.Router) {
			r.Use(authenticated)
			r.Post("/orders", h.PaymentHandler.CreateOrder)
			r.Get("/orders/{orderID}", h.PaymentHandler.GetOrder)
		})
	})

	r.Route("/api/coins", func(r chi.Router) {
		r.Use(authenticated)
		r.Get("/balance", h.BalanceHandler.GetBalance)
		r.Get("/transactions", h.BalanceHandler.GetTransactions)
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(
			authenticated,
			auth.RequireRole(domain.RoleAdmin),
			middleware.Timeout(h.adminTimeout),
		)
		r.Post("/sessions/sync", h.AdminHandler.SyncSessions)
	})

	return r
}
