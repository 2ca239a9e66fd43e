package balance

//go:generate mockgen -source=balance.go -destination=mock_balance.go -package=balance

import (
	"context"
	"net/http"

	"github.com/GlebRadaev/tradebridge/internal/domain"
	"github.com/GlebRadaev/tradebridge/internal/dto"
	"github.com/GlebRadaev/tradebridge/pkg/auth"
	"github.com/GlebRadaev/tradebridge/pkg/utils"
)

type Service interface {
	CreateBalance(ctx context.Context, userID int) (*domain.Balance, error)
	GetBalance(ctx context.Context, userID int) (*domain.Balance, error)
	ListTransactions(ctx context.Context, userID int) ([]domain.CoinTransaction, error)
}

type BalanceHandler struct {
	balanceService Service
}

func New(balanceService Service) *BalanceHandler {
	return &BalanceHandler{
		balanceService: balanceService,
	}
}

// GetBalance godoc
//
//	@Summary		Get coin balance
//	@Description	Current coins and the total ever purchased by the authenticated user.
//	@Tags			Coins
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	dto.BalanceResponseDTO
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/coins/balance [get]
func (h *BalanceHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	balance, err := h.balanceService.GetBalance(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.BalanceResponseDTO{
		Coins:     balance.Coins,
		Purchased: balance.PurchasedTotal,
	})
}

// GetTransactions godoc
//
//	@Summary		Coin purchase history
//	@Description	Credited coin purchases, newest first.
//	@Tags			Coins
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{array}		dto.CoinTransactionResponseDTO
//	@Success		204	"No purchases yet"
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/coins/transactions [get]
func (h *BalanceHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())

	txs, err := h.balanceService.ListTransactions(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch transactions")
		return
	}
	if len(txs) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	response := make([]dto.CoinTransactionResponseDTO, len(txs))
	for i, tx := range txs {
		response[i] = dto.CoinTransactionResponseDTO{
			OrderID:   tx.OrderID,
			Coins:     tx.Coins,
			Amount:    tx.Amount.StringFixed(2),
			CreatedAt: tx.CreatedAt,
		}
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}
