package admin

//go:generate mockgen -source=admin.go -destination=mock_admin.go -package=admin

import (
	"context"
	"net/http"

	"github.com/GlebRadaev/tradebridge/internal/dto"
	"github.com/GlebRadaev/tradebridge/internal/sessionsync"
	"github.com/GlebRadaev/tradebridge/pkg/utils"
)

type Service interface {
	RunOnce(ctx context.Context) (sessionsync.Report, error)
}

type AdminHandler struct {
	syncService Service
}

func New(syncService Service) *AdminHandler {
	return &AdminHandler{
		syncService: syncService,
	}
}

// SyncSessions godoc
//
//	@Summary		Run session sync
//	@Description	Runs one session sync pass right away and reports what it did.
//	@Tags			Admin
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	dto.SessionSyncResponseDTO
//	@Failure		401	{object}	utils.Response	"User not authorized"
//	@Failure		403	{object}	utils.Response	"Admin role required"
//	@Failure		500	{object}	utils.Response	"Internal server error"
//	@Router			/api/admin/sessions/sync [post]
func (h *AdminHandler) SyncSessions(w http.ResponseWriter, r *http.Request) {
	report, err := h.syncService.RunOnce(r.Context())
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Session sync failed")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dto.SessionSyncResponseDTO{
		Cleared:     report.Cleared,
		Checked:     report.Checked,
		Deactivated: report.Deactivated,
		Failed:      report.Failed,
	})
}
