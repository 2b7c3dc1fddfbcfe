package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/latableronde/contest/internal/auth"
	"github.com/latableronde/contest/internal/domain"
	"github.com/latableronde/contest/internal/service"
)

// PronosticHandler handles customer score predictions.
type PronosticHandler struct {
	pronostics *service.PronosticService
}

// NewPronosticHandler creates a new PronosticHandler.
func NewPronosticHandler(pronostics *service.PronosticService) *PronosticHandler {
	return &PronosticHandler{pronostics: pronostics}
}

// Submit handles POST /pronostics.
func (h *PronosticHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, err := customerIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	var input struct {
		MatchSeq  int `json:"match_seq"`
		HomeScore int `json:"home_score"`
		AwayScore int `json:"away_score"`
	}
	if err := DecodeJSON(r, &input); err != nil {
		RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	p, err := h.pronostics.Submit(r.Context(), userID, input.MatchSeq, input.HomeScore, input.AwayScore)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusCreated, p)
}

// MyPronostics handles GET /pronostics/me.
func (h *PronosticHandler) MyPronostics(w http.ResponseWriter, r *http.Request) {
	userID, err := customerIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	list, err := h.pronostics.ListByUser(r.Context(), userID)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, list)
}

// Leaderboard handles GET /leaderboard?limit=50.
func (h *PronosticHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := service.DefaultLeaderboardSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			RespondError(w, domain.ErrValidation("invalid limit"))
			return
		}
		limit = n
	}

	board, err := h.pronostics.Leaderboard(r.Context(), limit)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, board)
}

func customerIDFromContext(r *http.Request) (uuid.UUID, error) {
	sub := auth.SubjectFromContext(r.Context())
	if sub == "" {
		return uuid.Nil, domain.ErrUnauthorized("no subject in context")
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, domain.ErrUnauthorized("invalid subject")
	}
	return id, nil
}
