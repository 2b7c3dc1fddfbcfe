package admin

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/latableronde/contest/internal/domain"
	"github.com/latableronde/contest/internal/handler"
	"github.com/latableronde/contest/internal/service"
)

// TicketAdminHandler serves the counter workflow: a staff member scans a
// ticket code, sees its status and hands out the prize.
type TicketAdminHandler struct {
	tickets *service.TicketService
}

// NewTicketAdminHandler creates a new TicketAdminHandler.
func NewTicketAdminHandler(tickets *service.TicketService) *TicketAdminHandler {
	return &TicketAdminHandler{tickets: tickets}
}

// Verify handles GET /admin/tickets/{code}.
func (h *TicketAdminHandler) Verify(w http.ResponseWriter, r *http.Request) {
	ticket, err := h.tickets.StatusByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, ticket)
}

// Redeem handles POST /admin/tickets/{code}/redeem.
func (h *TicketAdminHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	ticket, err := h.tickets.Redeem(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, ticket)
}

// ResolveMatch handles POST /admin/matches/{seq}/resolve-tickets, a manual
// rerun for tickets that failed during the finalize cascade.
func (h *TicketAdminHandler) ResolveMatch(w http.ResponseWriter, r *http.Request) {
	seq, err := strconv.Atoi(chi.URLParam(r, "seq"))
	if err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid match sequence"))
		return
	}

	resolved, err := h.tickets.ResolveMatch(r.Context(), seq)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, map[string]int{"resolved": resolved})
}
