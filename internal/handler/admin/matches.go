package admin

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/latableronde/contest/internal/domain"
	"github.com/latableronde/contest/internal/handler"
	"github.com/latableronde/contest/internal/service"
)

// MatchAdminHandler drives the staff side of the tournament: result entry,
// prediction locks and bracket generation.
type MatchAdminHandler struct {
	contest    *service.ContestService
	pronostics *service.PronosticService
}

// NewMatchAdminHandler creates a new MatchAdminHandler.
func NewMatchAdminHandler(contest *service.ContestService, pronostics *service.PronosticService) *MatchAdminHandler {
	return &MatchAdminHandler{contest: contest, pronostics: pronostics}
}

// FinalizeMatch handles POST /admin/matches/{seq}/result.
func (h *MatchAdminHandler) FinalizeMatch(w http.ResponseWriter, r *http.Request) {
	seq, err := strconv.Atoi(chi.URLParam(r, "seq"))
	if err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid match sequence"))
		return
	}

	var input struct {
		HomeScore int `json:"home_score"`
		AwayScore int `json:"away_score"`
	}
	if err := handler.DecodeJSON(r, &input); err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	if err := h.contest.FinalizeMatch(r.Context(), seq, input.HomeScore, input.AwayScore); err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"seq":        seq,
		"home_score": input.HomeScore,
		"away_score": input.AwayScore,
		"finished":   true,
	})
}

// LockMatch handles POST /admin/matches/{seq}/lock.
func (h *MatchAdminHandler) LockMatch(w http.ResponseWriter, r *http.Request) {
	seq, err := strconv.Atoi(chi.URLParam(r, "seq"))
	if err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid match sequence"))
		return
	}

	var input struct {
		Locked bool `json:"locked"`
	}
	if err := handler.DecodeJSON(r, &input); err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	if err := h.pronostics.LockMatch(r.Context(), seq, input.Locked); err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"seq":    seq,
		"locked": input.Locked,
	})
}

// GeneratePhase handles POST /admin/phases/{phase}/generate.
func (h *MatchAdminHandler) GeneratePhase(w http.ResponseWriter, r *http.Request) {
	phase := domain.Phase(chi.URLParam(r, "phase"))

	if err := h.contest.GeneratePhase(r.Context(), phase); err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, map[string]string{
		"phase":  string(phase),
		"status": "generated",
	})
}
