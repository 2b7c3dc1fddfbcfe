package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/latableronde/contest/internal/handler"
	"github.com/latableronde/contest/internal/service"
)

// RewardAdminHandler serves the voucher counter workflow: staff scans a
// voucher code, checks its state and marks it redeemed.
type RewardAdminHandler struct {
	rewards *service.RewardIssuer
}

// NewRewardAdminHandler creates a new RewardAdminHandler.
func NewRewardAdminHandler(rewards *service.RewardIssuer) *RewardAdminHandler {
	return &RewardAdminHandler{rewards: rewards}
}

// Verify handles GET /admin/rewards/{code}.
func (h *RewardAdminHandler) Verify(w http.ResponseWriter, r *http.Request) {
	reward, err := h.rewards.VerifyByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, reward)
}

// Redeem handles POST /admin/rewards/{code}/redeem.
func (h *RewardAdminHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	reward, err := h.rewards.Redeem(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, reward)
}
