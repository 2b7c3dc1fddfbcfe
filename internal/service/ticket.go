package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"
	"github.com/latableronde/contest/internal/codegen"
	"github.com/latableronde/contest/internal/domain"
	"github.com/latableronde/contest/internal/repository"
	"github.com/latableronde/contest/internal/rng"
	"github.com/latableronde/contest/internal/tournament"
)

// TicketService runs the buteur lottery: a ticket sold with a purchase is
// assigned a random player from the match's rosters, resolved once the
// match finishes, and redeemed at the counter if it won.
type TicketService struct {
	db      DB
	tickets repository.TicketRepository
	matches repository.MatchRepository
	players repository.PlayerRepository
	outbox  repository.OutboxRepository
	codes   *codegen.Generator
	src     rng.Source
	catalog []domain.PrizeType
	logger  *slog.Logger
}

// NewTicketService creates a TicketService over the given prize catalog.
// The catalog is validated here so a misconfigured prize table fails at
// wiring time instead of skewing draws at the first resolution.
func NewTicketService(
	db DB,
	tickets repository.TicketRepository,
	matches repository.MatchRepository,
	players repository.PlayerRepository,
	outbox repository.OutboxRepository,
	codes *codegen.Generator,
	src rng.Source,
	catalog []domain.PrizeType,
	logger *slog.Logger,
) (*TicketService, error) {
	if err := domain.ValidatePrizeCatalog(catalog); err != nil {
		return nil, fmt.Errorf("prize catalog: %w", err)
	}
	return &TicketService{
		db:      db,
		tickets: tickets,
		matches: matches,
		players: players,
		outbox:  outbox,
		codes:   codes,
		src:     src,
		catalog: catalog,
		logger:  logger,
	}, nil
}

// Purchase issues a ticket for a future match, assigning one player drawn
// uniformly from the union of both rosters.
func (s *TicketService) Purchase(ctx context.Context, matchSeq int, userID *uuid.UUID) (*domain.ButeurTicket, error) {
	m, err := s.matches.FindBySeq(ctx, s.db, matchSeq)
	if err != nil {
		return nil, domain.ErrInternal("find match", err)
	}
	if m == nil {
		return nil, domain.ErrNotFound("match", strconv.Itoa(matchSeq))
	}
	if m.Finished {
		return nil, domain.ErrConflict("match is already finished")
	}
	if !m.HasTeams() {
		return nil, domain.ErrPrecondition("match teams are not known yet")
	}

	roster, err := s.players.ListByTeams(ctx, s.db, *m.HomeTeamID, *m.AwayTeamID)
	if err != nil {
		return nil, domain.ErrInternal("list rosters", err)
	}
	player, ok := tournament.PickPlayer(roster, s.src)
	if !ok {
		return nil, domain.ErrPrecondition("no roster data for this match")
	}

	code, err := s.codes.Generate(ctx, func(ctx context.Context, code string) (bool, error) {
		return s.tickets.CodeExists(ctx, s.db, code)
	})
	if err != nil {
		return nil, domain.ErrInternal("generate ticket code", err)
	}

	ticket := &domain.ButeurTicket{
		ID:       uuid.New(),
		Code:     code,
		MatchSeq: matchSeq,
		PlayerID: player.ID,
		UserID:   userID,
	}
	if err := s.tickets.Insert(ctx, s.db, ticket); err != nil {
		return nil, domain.ErrInternal("insert ticket", err)
	}

	s.logger.Info("ticket issued", "code", code, "seq", matchSeq, "player_id", player.ID)
	return ticket, nil
}

// ResolveMatch resolves every unchecked ticket of a finished match and
// returns how many it resolved. One ticket failing does not stop the
// others; an already-checked ticket is a no-op.
func (s *TicketService) ResolveMatch(ctx context.Context, matchSeq int) (int, error) {
	m, err := s.matches.FindBySeq(ctx, s.db, matchSeq)
	if err != nil {
		return 0, domain.ErrInternal("find match", err)
	}
	if m == nil {
		return 0, domain.ErrNotFound("match", strconv.Itoa(matchSeq))
	}
	if !m.Finished {
		return 0, domain.ErrPrecondition("match is not finished")
	}

	tickets, err := s.tickets.ListUncheckedByMatch(ctx, s.db, matchSeq)
	if err != nil {
		return 0, domain.ErrInternal("list unchecked tickets", err)
	}

	resolved := 0
	for _, t := range tickets {
		if err := s.resolveTicket(ctx, t); err != nil {
			s.logger.Error("ticket resolution failed", "ticket_id", t.ID, "error", err)
			continue
		}
		resolved++
	}
	if len(tickets) > 0 {
		s.logger.Info("tickets resolved", "seq", matchSeq, "resolved", resolved, "of", len(tickets))
	}
	return resolved, nil
}

func (s *TicketService) resolveTicket(ctx context.Context, t domain.ButeurTicket) error {
	goals, err := s.players.GoalsScored(ctx, s.db, t.MatchSeq, t.PlayerID)
	if err != nil {
		return err
	}

	won := goals > 0
	var prizeLabel *string
	var prizeValue *int64
	if won {
		prize := tournament.DrawPrize(s.catalog, s.src)
		prizeLabel, prizeValue = &prize.Label, &prize.ValueMinor
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	applied, err := s.tickets.MarkChecked(ctx, tx, t.ID, won, prizeLabel, prizeValue)
	if err != nil {
		return err
	}
	if !applied {
		// Already checked by an earlier resolution pass; nothing to redo.
		return nil
	}

	t.Checked, t.Won = true, won
	t.PrizeLabel, t.PrizeValueMinor = prizeLabel, prizeValue
	if err := s.outbox.Insert(ctx, tx, domain.NewTicketResolvedEvent(&t)); err != nil {
		return domain.ErrInternal("stage ticket event", err)
	}
	return tx.Commit(ctx)
}

// Redeem hands out a winning ticket's prize at the counter, exactly once.
func (s *TicketService) Redeem(ctx context.Context, code string) (*domain.ButeurTicket, error) {
	t, err := s.tickets.FindByCode(ctx, s.db, code)
	if err != nil {
		return nil, domain.ErrInternal("find ticket", err)
	}
	if t == nil {
		return nil, domain.ErrNotFound("ticket", code)
	}
	if !t.Checked {
		return nil, domain.ErrConflict("ticket is not resolved yet")
	}
	if !t.Won {
		return nil, domain.ErrConflict("ticket is not a winning ticket")
	}
	if t.Redeemed {
		return nil, domain.ErrConflict("ticket already redeemed")
	}

	applied, err := s.tickets.MarkRedeemed(ctx, s.db, t.ID)
	if err != nil {
		return nil, domain.ErrInternal("mark redeemed", err)
	}
	if !applied {
		return nil, domain.ErrConflict("ticket already redeemed")
	}

	s.logger.Info("ticket redeemed", "code", code)
	return s.tickets.FindByCode(ctx, s.db, code)
}

// StatusByCode returns a ticket for the staff verification screen.
func (s *TicketService) StatusByCode(ctx context.Context, code string) (*domain.ButeurTicket, error) {
	t, err := s.tickets.FindByCode(ctx, s.db, code)
	if err != nil {
		return nil, domain.ErrInternal("find ticket", err)
	}
	if t == nil {
		return nil, domain.ErrNotFound("ticket", code)
	}
	return t, nil
}

// ListByUser returns a user's tickets for the "my prizes" screen.
func (s *TicketService) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.ButeurTicket, error) {
	tickets, err := s.tickets.ListByUser(ctx, s.db, userID)
	if err != nil {
		return nil, domain.ErrInternal("list tickets", err)
	}
	return tickets, nil
}
