package webhooks

//go:generate mockgen -source=webhooks.go -destination=mock_webhooks.go -package=webhooks

import (
	"context"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"

	"github.com/GlebRadaev/tradebridge/internal/broker"
	"github.com/GlebRadaev/tradebridge/internal/domain"
	"github.com/GlebRadaev/tradebridge/internal/dto"
	"github.com/GlebRadaev/tradebridge/internal/service/brokerservice"
	"github.com/GlebRadaev/tradebridge/internal/service/webhookservice"
	"github.com/GlebRadaev/tradebridge/pkg/auth"
	"github.com/GlebRadaev/tradebridge/pkg/utils"
	"github.com/go-chi/chi/v5"
)

const (
	alertPath    = "/api/webhook/trading-view/"
	maxAlertBody = 16 << 10
)

type Service interface {
	Create(ctx context.Context, userID int) (*domain.Webhook, error)
	List(ctx context.Context, userID int) ([]domain.Webhook, error)
	Deactivate(ctx context.Context, userID, id int) error
	Dispatch(ctx context.Context, token string, payload []byte) (*webhookservice.DispatchResult, error)
}

type WebhookHandler struct {
	webhookService Service
	publicURL      string
}

func New(webhookService Service, publicURL string) *WebhookHandler {
	return &WebhookHandler{
		webhookService: webhookService,
		publicURL:      publicURL,
	}
}

// Create godoc
//
//	@Summary		Create a webhook
//	@Description	Issue a new TradingView webhook URL. The token is only shown in this response.
//	@Tags			Webhooks
//	@Security		BearerAuth
//	@Produce		json
//	@Success		201	{object}	dto.WebhookResponseDTO
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/webhooks [post]
func (h *WebhookHandler) Create(w http.ResponseWriter, r *http.Request) {
	hook, err := h.webhookService.Create(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	resp := toResponse(hook)
	resp.Token = hook.Token
	resp.URL = h.publicURL + alertPath + hook.Token
	utils.RespondWithJSON(w, http.StatusCreated, resp)
}

// List godoc
//
//	@Summary		List webhooks
//	@Tags			Webhooks
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		dto.WebhookResponseDTO
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/webhooks [get]
func (h *WebhookHandler) List(w http.ResponseWriter, r *http.Request) {
	hooks, err := h.webhookService.List(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	response := make([]dto.WebhookResponseDTO, len(hooks))
	for i := range hooks {
		response[i] = toResponse(&hooks[i])
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// Deactivate godoc
//
//	@Summary		Deactivate a webhook
//	@Tags			Webhooks
//	@Security		BearerAuth
//	@Param			id	path	int	true	"Webhook ID"
//	@Success		204	"Deactivated"
//	@Failure		404	{object}	utils.Response	"Webhook not found"
//	@Router			/api/webhooks/{id}/deactivate [post]
func (h *WebhookHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid webhook id")
		return
	}
	err = h.webhookService.Deactivate(r.Context(), auth.UserID(r.Context()), id)
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, webhookservice.ErrWebhookNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// Alert godoc
//
//	@Summary		TradingView alert
//	@Description	Turns an alert into an order at the owner's most recently used active broker.
//	@Tags			Webhooks
//	@Accept			json
//	@Produce		json
//	@Param			token	path		string	true	"Webhook token"
//	@Param			request	body		object	true	"{symbol, action, quantity, orderType?, price?, productType?, triggerPrice?}"
//	@Success		200		{object}	dto.AlertResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid alert"
//	@Failure		404		{object}	utils.Response	"Webhook not found"
//	@Failure		429		{object}	utils.Response	"Rate limit exceeded"
//	@Router			/api/webhook/trading-view/{token} [post]
func (h *WebhookHandler) Alert(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxAlertBody))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	res, err := h.webhookService.Dispatch(r.Context(), chi.URLParam(r, "token"), body)
	if err != nil {
		respondDispatchError(w, err)
		return
	}
	if res.Queued {
		utils.RespondWithJSON(w, http.StatusOK, dto.AlertResponseDTO{
			Queued:  true,
			Message: "no active broker, alert dropped",
		})
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.AlertResponseDTO{
		Success: res.Success,
		OrderID: res.OrderID,
		Broker:  res.Broker,
	})
}

func respondDispatchError(w http.ResponseWriter, err error) {
	var limited *webhookservice.RateLimitError
	var apiErr *broker.APIError
	var missing *broker.MissingCredentialError
	switch {
	case errors.As(err, &limited):
		secs := int(math.Ceil(limited.RetryAfter.Seconds()))
		if secs < 1 {
			secs = 1
		}
		w.Header().Set("Retry-After", strconv.Itoa(secs))
		utils.RespondWithError(w, http.StatusTooManyRequests, err.Error())
	case errors.As(err, &apiErr):
		utils.RespondWithRaw(w, apiErr.StatusCode, apiErr.Body)
	case errors.As(err, &missing):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, webhookservice.ErrWebhookNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, brokerservice.ErrSessionExpired):
		utils.RespondWithError(w, http.StatusUnauthorized, brokerservice.ErrSessionExpired.Error())
	case errors.Is(err, webhookservice.ErrInvalidAlert),
		errors.Is(err, webhookservice.ErrUnsupportedAction),
		errors.Is(err, broker.ErrUnsupportedBroker),
		errors.Is(err, broker.ErrInvalidOrder):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, brokerservice.ErrCredentialInactive):
		utils.RespondWithError(w, http.StatusConflict, err.Error())
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func toResponse(hook *domain.Webhook) dto.WebhookResponseDTO {
	return dto.WebhookResponseDTO{
		ID:           hook.ID,
		IsActive:     hook.IsActive,
		RequestCount: hook.RequestCount,
		LastUsedAt:   hook.LastUsedAt,
		CreatedAt:    hook.CreatedAt,
	}
}
