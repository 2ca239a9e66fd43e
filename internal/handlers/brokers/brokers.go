package brokers

//go:generate mockgen -source=brokers.go -destination=mock_brokers.go -package=brokers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/GlebRadaev/tradebridge/internal/broker"
	"github.com/GlebRadaev/tradebridge/internal/domain"
	"github.com/GlebRadaev/tradebridge/internal/dto"
	"github.com/GlebRadaev/tradebridge/internal/service/brokerservice"
	"github.com/GlebRadaev/tradebridge/pkg/auth"
	"github.com/GlebRadaev/tradebridge/pkg/utils"
	"github.com/GlebRadaev/tradebridge/pkg/validate"
	"github.com/go-chi/chi/v5"
)

const maxOrderBody = 64 << 10

type Service interface {
	List(ctx context.Context, userID int) ([]domain.BrokerCredential, error)
	Create(ctx context.Context, userID int, brokerName string, creds map[string]string) (*domain.BrokerCredential, error)
	Authenticate(ctx context.Context, userID, id int, totp string) (*brokerservice.AuthOutcome, error)
	CompleteAuth(ctx context.Context, brokerName, state, code string) (*domain.BrokerCredential, error)
	Verify(ctx context.Context, userID, id int) (json.RawMessage, error)
	PlaceOrder(ctx context.Context, userID, id int, order json.RawMessage) (broker.OrderResult, error)
	CancelOrder(ctx context.Context, userID, id int, orderID string) (json.RawMessage, error)
	Funds(ctx context.Context, userID, id int) (json.RawMessage, error)
	Positions(ctx context.Context, userID, id int) (json.RawMessage, error)
	Deactivate(ctx context.Context, userID, id int) error
}

type BrokerHandler struct {
	brokerService Service
}

func New(brokerService Service) *BrokerHandler {
	return &BrokerHandler{
		brokerService: brokerService,
	}
}

// List godoc
//
//	@Summary		List broker credentials
//	@Description	Stored broker bundles of the authenticated user with secret values masked.
//	@Tags			Brokers
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		dto.BrokerResponseDTO
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/brokers [get]
func (h *BrokerHandler) List(w http.ResponseWriter, r *http.Request) {
	creds, err := h.brokerService.List(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	response := make([]dto.BrokerResponseDTO, len(creds))
	for i := range creds {
		response[i] = toResponse(&creds[i])
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// Create godoc
//
//	@Summary		Store broker credentials
//	@Description	Save an API key bundle for a broker. The credential stays pending until authenticated.
//	@Tags			Brokers
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		dto.CreateBrokerRequestDTO	true	"Broker name and credentials"
//	@Success		201		{object}	dto.BrokerResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request body or unsupported broker"
//	@Failure		401		{object}	utils.Response	"User not authorized"
//	@Failure		500		{object}	utils.Response	"Internal server error"
//	@Router			/api/brokers [post]
func (h *BrokerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBrokerRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	cred, err := h.brokerService.Create(r.Context(), auth.UserID(r.Context()), req.BrokerName, req.Credentials)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, toResponse(cred))
}

// Authenticate godoc
//
//	@Summary		Authenticate a broker credential
//	@Description	OAuth brokers answer with a redirect_url to open; the others log in right away and become active.
//	@Tags			Brokers
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int							true	"Credential ID"
//	@Param			request	body		dto.BrokerAuthRequestDTO	false	"TOTP for brokers that need one"
//	@Success		200		{object}	dto.BrokerAuthResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid request"
//	@Failure		404		{object}	utils.Response	"Credential not found"
//	@Router			/api/brokers/{id}/authenticate [post]
func (h *BrokerHandler) Authenticate(w http.ResponseWriter, r *http.Request) {
	id, ok := credentialID(w, r)
	if !ok {
		return
	}
	var req dto.BrokerAuthRequestDTO
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}
	if err := validate.Struct(req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	outcome, err := h.brokerService.Authenticate(r.Context(), auth.UserID(r.Context()), id, req.TOTP)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.BrokerAuthResponseDTO{
		Broker:      toResponse(outcome.Credential),
		RedirectURL: outcome.RedirectURL,
	})
}

// Callback godoc
//
//	@Summary		OAuth redirect target
//	@Description	Exchanges the authorization code for tokens and activates the credential that owns the state value.
//	@Tags			Brokers
//	@Produce		json
//	@Param			broker	path		string	true	"Broker name"
//	@Param			code	query		string	true	"Authorization code"
//	@Param			state	query		string	true	"State handed out by authenticate"
//	@Success		200		{object}	dto.BrokerResponseDTO
//	@Failure		400		{object}	utils.Response	"Unknown state or missing code"
//	@Router			/api/brokers/callback/{broker} [get]
func (h *BrokerHandler) Callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	code := q.Get("code")
	if code == "" {
		// Fyers names it auth_code.
		code = q.Get("auth_code")
	}
	cred, err := h.brokerService.CompleteAuth(r.Context(), chi.URLParam(r, "broker"), q.Get("state"), code)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, toResponse(cred))
}

// Verify godoc
//
//	@Summary		Verify a broker session
//	@Description	Calls the broker profile endpoint, refreshing the session once if it expired.
//	@Tags			Brokers
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		int	true	"Credential ID"
//	@Success		200	{object}	object	"Broker profile"
//	@Failure		401	{object}	utils.Response	"Broker session expired"
//	@Failure		404	{object}	utils.Response	"Credential not found"
//	@Failure		409	{object}	utils.Response	"Credential is not active"
//	@Router			/api/brokers/{id}/verify [post]
func (h *BrokerHandler) Verify(w http.ResponseWriter, r *http.Request) {
	h.raw(w, r, h.brokerService.Verify)
}

// PlaceOrder godoc
//
//	@Summary		Place an order
//	@Description	Forwards the body, in the broker's own order shape, to the broker.
//	@Tags			Brokers
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int		true	"Credential ID"
//	@Param			request	body		object	true	"Broker specific order"
//	@Success		200		{object}	dto.OrderResponseDTO
//	@Failure		400		{object}	utils.Response	"Invalid order"
//	@Failure		404		{object}	utils.Response	"Credential not found"
//	@Failure		409		{object}	utils.Response	"Credential is not active"
//	@Router			/api/brokers/{id}/orders [post]
func (h *BrokerHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := credentialID(w, r)
	if !ok {
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxOrderBody))
	if err != nil || !json.Valid(body) {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	res, err := h.brokerService.PlaceOrder(r.Context(), auth.UserID(r.Context()), id, body)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.OrderResponseDTO{OrderID: res.OrderID, Raw: res.Raw})
}

// CancelOrder godoc
//
//	@Summary		Cancel an order
//	@Tags			Brokers
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id		path		int		true	"Credential ID"
//	@Param			orderID	path		string	true	"Broker order ID"
//	@Success		200		{object}	object	"Broker answer"
//	@Failure		404		{object}	utils.Response	"Credential not found"
//	@Router			/api/brokers/{id}/orders/{orderID} [delete]
func (h *BrokerHandler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := credentialID(w, r)
	if !ok {
		return
	}
	body, err := h.brokerService.CancelOrder(r.Context(), auth.UserID(r.Context()), id, chi.URLParam(r, "orderID"))
	if err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithRaw(w, http.StatusOK, body)
}

// Funds godoc
//
//	@Summary		Available funds
//	@Tags			Brokers
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		int	true	"Credential ID"
//	@Success		200	{object}	object	"Broker answer"
//	@Failure		404	{object}	utils.Response	"Credential not found"
//	@Router			/api/brokers/{id}/funds [get]
func (h *BrokerHandler) Funds(w http.ResponseWriter, r *http.Request) {
	h.raw(w, r, h.brokerService.Funds)
}

// Positions godoc
//
//	@Summary		Open positions
//	@Tags			Brokers
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		int	true	"Credential ID"
//	@Success		200	{object}	object	"Broker answer"
//	@Failure		404	{object}	utils.Response	"Credential not found"
//	@Router			/api/brokers/{id}/positions [get]
func (h *BrokerHandler) Positions(w http.ResponseWriter, r *http.Request) {
	h.raw(w, r, h.brokerService.Positions)
}

// Deactivate godoc
//
//	@Summary		Deactivate a broker credential
//	@Description	Logs out at the broker when possible and clears the stored session.
//	@Tags			Brokers
//	@Security		BearerAuth
//	@Param			id	path	int	true	"Credential ID"
//	@Success		204	"Deactivated"
//	@Failure		404	{object}	utils.Response	"Credential not found"
//	@Router			/api/brokers/{id}/deactivate [post]
func (h *BrokerHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, ok := credentialID(w, r)
	if !ok {
		return
	}
	if err := h.brokerService.Deactivate(r.Context(), auth.UserID(r.Context()), id); err != nil {
		respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *BrokerHandler) raw(w http.ResponseWriter, r *http.Request, call func(ctx context.Context, userID, id int) (json.RawMessage, error)) {
	id, ok := credentialID(w, r)
	if !ok {
		return
	}
	body, err := call(r.Context(), auth.UserID(r.Context()), id)
	if err != nil {
		respondError(w, err)
		return
	}
	utils.RespondWithRaw(w, http.StatusOK, body)
}

func credentialID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid credential id")
		return 0, false
	}
	return id, true
}

func respondError(w http.ResponseWriter, err error) {
	var apiErr *broker.APIError
	var missing *broker.MissingCredentialError
	switch {
	case errors.As(err, &apiErr):
		utils.RespondWithRaw(w, apiErr.StatusCode, apiErr.Body)
	case errors.As(err, &missing):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, brokerservice.ErrCredentialNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, brokerservice.ErrCredentialInactive):
		utils.RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, brokerservice.ErrSessionExpired):
		utils.RespondWithError(w, http.StatusUnauthorized, brokerservice.ErrSessionExpired.Error())
	case errors.Is(err, brokerservice.ErrInvalidState),
		errors.Is(err, broker.ErrUnsupportedBroker),
		errors.Is(err, broker.ErrInvalidOrder),
		errors.Is(err, broker.ErrTOTPRequired),
		errors.Is(err, broker.ErrCodeExchangeUnsupported):
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func toResponse(cred *domain.BrokerCredential) dto.BrokerResponseDTO {
	return dto.BrokerResponseDTO{
		ID:            cred.ID,
		BrokerName:    cred.BrokerName,
		Credentials:   maskCredentials(cred.Credentials),
		IsActive:      cred.IsActive,
		IsPendingAuth: cred.IsPendingAuth,
		SessionActive: cred.SessionActive,
		RedirectURL:   cred.RedirectURL,
		LastActivity:  cred.LastActivity,
		CreatedAt:     cred.CreatedAt,
	}
}

// maskCredentials keeps account identifiers readable and hides everything
// else but the last four characters.
func maskCredentials(creds map[string]string) map[string]string {
	out := make(map[string]string, len(creds))
	for k, v := range creds {
		switch {
		case k == broker.KeyClientID || k == broker.KeyClientCode:
			out[k] = v
		case len(v) <= 4:
			out[k] = "****"
		default:
			out[k] = "****" + v[len(v)-4:]
		}
	}
	return out
}
