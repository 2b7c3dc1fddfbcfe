package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/latableronde/contest/internal/domain"
	"github.com/latableronde/contest/internal/service"
)

// TicketHandler handles the customer side of buteur tickets.
type TicketHandler struct {
	tickets *service.TicketService
}

// NewTicketHandler creates a new TicketHandler.
func NewTicketHandler(tickets *service.TicketService) *TicketHandler {
	return &TicketHandler{tickets: tickets}
}

// Purchase handles POST /tickets.
func (h *TicketHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	userID, err := customerIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	var input struct {
		MatchSeq int `json:"match_seq"`
	}
	if err := DecodeJSON(r, &input); err != nil {
		RespondError(w, domain.ErrValidation("invalid request body"))
		return
	}

	ticket, err := h.tickets.Purchase(r.Context(), input.MatchSeq, &userID)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusCreated, ticket)
}

// MyTickets handles GET /tickets/me.
func (h *TicketHandler) MyTickets(w http.ResponseWriter, r *http.Request) {
	userID, err := customerIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	list, err := h.tickets.ListByUser(r.Context(), userID)
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, list)
}

// Status handles GET /tickets/{code}.
func (h *TicketHandler) Status(w http.ResponseWriter, r *http.Request) {
	ticket, err := h.tickets.StatusByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, ticket)
}
