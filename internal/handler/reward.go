package handler

import (
	"net/http"

	"github.com/latableronde/contest/internal/service"
)

// RewardHandler handles the customer view of earned vouchers.
type RewardHandler struct {
	rewards *service.RewardIssuer
}

// NewRewardHandler creates a new RewardHandler.
func NewRewardHandler(rewards *service.RewardIssuer) *RewardHandler {
	return &RewardHandler{rewards: rewards}
}

// MyRewards handles GET /rewards/me.
func (h *RewardHandler) MyRewards(w http.ResponseWriter, r *http.Request) {
	userID, err := customerIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	list, err := h.rewards.ListByUser(r.Context(), userID)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, list)
}
