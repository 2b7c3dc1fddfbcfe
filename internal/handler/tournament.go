package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/latableronde/contest/internal/domain"
	"github.com/latableronde/contest/internal/repository"
	"github.com/latableronde/contest/internal/service"
)

// TournamentHandler serves the public tournament read endpoints: schedule,
// group tables and the knockout bracket.
type TournamentHandler struct {
	pool    *pgxpool.Pool
	contest *service.ContestService
	matches repository.MatchRepository
	teams   repository.TeamRepository
}

// NewTournamentHandler creates a new TournamentHandler.
func NewTournamentHandler(pool *pgxpool.Pool, contest *service.ContestService, matches repository.MatchRepository, teams repository.TeamRepository) *TournamentHandler {
	return &TournamentHandler{pool: pool, contest: contest, matches: matches, teams: teams}
}

// ListTeams handles GET /tournament/teams.
func (h *TournamentHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.teams.ListAll(r.Context(), h.pool)
	if err != nil {
		RespondError(w, domain.ErrInternal("list teams", err))
		return
	}
	RespondJSON(w, http.StatusOK, teams)
}

// GroupStandings handles GET /tournament/groups/{group}/standings.
func (h *TournamentHandler) GroupStandings(w http.ResponseWriter, r *http.Request) {
	group := chi.URLParam(r, "group")
	standings, err := h.contest.GroupStandings(r.Context(), group)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, standings)
}

// ThirdPlaceRanking handles GET /tournament/thirds.
func (h *TournamentHandler) ThirdPlaceRanking(w http.ResponseWriter, r *http.Request) {
	ranked, err := h.contest.ThirdPlaceRanking(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, ranked)
}

// Bracket handles GET /tournament/bracket.
func (h *TournamentHandler) Bracket(w http.ResponseWriter, r *http.Request) {
	matches, err := h.contest.BracketMatches(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, matches)
}

// MatchesByPhase handles GET /tournament/matches?phase=group.
func (h *TournamentHandler) MatchesByPhase(w http.ResponseWriter, r *http.Request) {
	phase := domain.Phase(r.URL.Query().Get("phase"))
	if phase == "" {
		phase = domain.PhaseGroup
	}
	matches, err := h.matches.ListByPhase(r.Context(), h.pool, phase)
	if err != nil {
		RespondError(w, domain.ErrInternal("list matches", err))
		return
	}
	RespondJSON(w, http.StatusOK, matches)
}
