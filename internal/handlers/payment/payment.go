package payment

//go:generate mockgen -source=payment.go -destination=mock_payment.go -package=payment

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/GlebRadaev/tradebridge/internal/cashfree"
	"github.com/GlebRadaev/tradebridge/internal/domain"
	"github.com/GlebRadaev/tradebridge/internal/dto"
	"github.com/GlebRadaev/tradebridge/internal/service/paymentservice"
	"github.com/GlebRadaev/tradebridge/pkg/auth"
	"github.com/GlebRadaev/tradebridge/pkg/utils"
	"github.com/GlebRadaev/tradebridge/pkg/validate"
	"github.com/go-chi/chi/v5"
)

const maxWebhookBody = 64 << 10

type Service interface {
	CreateOrder(ctx context.Context, userID int, input paymentservice.OrderInput) (*domain.CoinOrder, error)
	GetOrder(ctx context.Context, userID int, orderID string) (*domain.CoinOrder, error)
	HandleWebhook(ctx context.Context, body []byte, timestamp, signature string) (string, error)
}

type PaymentHandler struct {
	paymentService Service
}

func New(paymentService Service) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

// CreateOrder godoc
//
//	@Summary		Buy coins
//	@Description	Creates a Cashfree order for the requested number of coins and returns the payment session.
//	@Tags			Payment
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.CreateCoinOrderRequestDTO	true	"Coins and customer contact"
//	@Success		201		{object}	dto.CoinOrderResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		422		{object}	utils.Response	"Coin amount out of range"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/payment/orders [post]
func (h *PaymentHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCoinOrderRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	order, err := h.paymentService.CreateOrder(r.Context(), auth.UserID(r.Context()), paymentservice.OrderInput{
		Coins:         req.Coins,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		CustomerName:  req.CustomerName,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, toResponse(order))
}

// GetOrder godoc
//
//	@Summary		Coin order status
//	@Tags			Payment
//	@Security		BearerAuth
//	@Produce		json
//	@Param			orderID	path		string	true	"Order ID"
//	@Success		200		{object}	dto.CoinOrderResponseDTO
//	@Failure		404		{object}	utils.Response	"Order not found"
//	@Router			/api/payment/orders/{orderID} [get]
func (h *PaymentHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.paymentService.GetOrder(r.Context(), auth.UserID(r.Context()), chi.URLParam(r, "orderID"))
	if err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toResponse(order))
}

// Webhook godoc
//
//	@Summary		Cashfree payment webhook
//	@Description	Signed gateway notification. Paid orders credit coins once; redelivery is acknowledged without changes.
//	@Tags			Payment
//	@Accept			json
//	@Produce		json
//	@Param			x-webhook-signature	header		string	true	"Base64 HMAC-SHA256 signature"
//	@Param			x-webhook-timestamp	header		string	false	"Signed timestamp"
//	@Success		200					{object}	dto.PaymentWebhookResponseDTO
//	@Failure		400					{object}	utils.Response	"Invalid signature or payload"
//	@Failure		404					{object}	utils.Response	"Order not found"
//	@Router			/api/payment/webhook [post]
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	outcome, err := h.paymentService.HandleWebhook(r.Context(), body,
		r.Header.Get(cashfree.HeaderTimestamp), r.Header.Get(cashfree.HeaderSignature))
	if err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.PaymentWebhookResponseDTO{Status: outcome})
}

func respondError(w http.ResponseWriter, err error) {
	var apiErr *cashfree.APIError
	switch {
	case errors.As(err, &apiErr):
		utils.RespondWithRaw(w, apiErr.StatusCode, apiErr.Body)
	case errors.Is(err, paymentservice.ErrInvalidCoins):
		utils.RespondWithError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, paymentservice.ErrOrderNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, paymentservice.ErrInvalidSignature),
		errors.Is(err, paymentservice.ErrInvalidEvent),
		errors.Is(err, paymentservice.ErrAmountMismatch):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func toResponse(order *domain.CoinOrder) dto.CoinOrderResponseDTO {
	return dto.CoinOrderResponseDTO{
		OrderID:          order.OrderID,
		PaymentSessionID: order.PaymentSessionID,
		Amount:           order.Amount.StringFixed(2),
		Coins:            order.Coins,
		Status:           order.Status,
	}
}
