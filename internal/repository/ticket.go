package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/latableronde/contest/internal/domain"
)

type ticketRepo struct{}

// NewTicketRepository returns a pgx-backed TicketRepository.
func NewTicketRepository() TicketRepository {
	return &ticketRepo{}
}

const ticketColumns = `id, code, match_seq, player_id, user_id, won, checked,
	redeemed, redeemed_at, prize_label, prize_value_minor, created_at`

func (r *ticketRepo) Insert(ctx context.Context, db DBTX, t *domain.ButeurTicket) error {
	_, err := db.Exec(ctx, `
		INSERT INTO buteur_tickets (id, code, match_seq, player_id, user_id)
		VALUES ($1, $2, $3, $4, $5)`,
		t.ID, t.Code, t.MatchSeq, t.PlayerID, t.UserID)
	if err != nil {
		return fmt.Errorf("insert ticket: %w", err)
	}
	return nil
}

func (r *ticketRepo) FindByCode(ctx context.Context, db DBTX, code string) (*domain.ButeurTicket, error) {
	row := db.QueryRow(ctx, `SELECT `+ticketColumns+` FROM buteur_tickets WHERE code = $1`, code)
	return scanTicket(row)
}

func (r *ticketRepo) ListUncheckedByMatch(ctx context.Context, db DBTX, matchSeq int) ([]domain.ButeurTicket, error) {
	rows, err := db.Query(ctx, `
		SELECT `+ticketColumns+`
		FROM buteur_tickets
		WHERE match_seq = $1 AND NOT checked
		ORDER BY created_at`, matchSeq)
	if err != nil {
		return nil, fmt.Errorf("query unchecked tickets: %w", err)
	}
	defer rows.Close()
	return collectTickets(rows)
}

func (r *ticketRepo) ListByUser(ctx context.Context, db DBTX, userID uuid.UUID) ([]domain.ButeurTicket, error) {
	rows, err := db.Query(ctx, `
		SELECT `+ticketColumns+`
		FROM buteur_tickets WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query tickets by user: %w", err)
	}
	defer rows.Close()
	return collectTickets(rows)
}

// MarkChecked is guarded by checked = false so a ticket resolves exactly
// once: a rerun over an already-checked ticket affects zero rows.
func (r *ticketRepo) MarkChecked(ctx context.Context, db DBTX, id uuid.UUID, won bool, prizeLabel *string, prizeValueMinor *int64) (bool, error) {
	tag, err := db.Exec(ctx, `
		UPDATE buteur_tickets
		SET checked = true, won = $2, prize_label = $3, prize_value_minor = $4
		WHERE id = $1 AND NOT checked`,
		id, won, prizeLabel, prizeValueMinor)
	if err != nil {
		return false, fmt.Errorf("mark ticket checked: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// MarkRedeemed is guarded by redeemed = false; a second redemption affects
// zero rows and leaves redeemed_at untouched.
func (r *ticketRepo) MarkRedeemed(ctx context.Context, db DBTX, id uuid.UUID) (bool, error) {
	tag, err := db.Exec(ctx, `
		UPDATE buteur_tickets
		SET redeemed = true, redeemed_at = now()
		WHERE id = $1 AND won AND checked AND NOT redeemed`, id)
	if err != nil {
		return false, fmt.Errorf("mark ticket redeemed: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *ticketRepo) CodeExists(ctx context.Context, db DBTX, code string) (bool, error) {
	var exists bool
	err := db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM buteur_tickets WHERE code = $1)`, code).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check ticket code: %w", err)
	}
	return exists, nil
}

func collectTickets(rows pgx.Rows) ([]domain.ButeurTicket, error) {
	var tickets []domain.ButeurTicket
	for rows.Next() {
		var t domain.ButeurTicket
		if err := rows.Scan(&t.ID, &t.Code, &t.MatchSeq, &t.PlayerID, &t.UserID,
			&t.Won, &t.Checked, &t.Redeemed, &t.RedeemedAt,
			&t.PrizeLabel, &t.PrizeValueMinor, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

func scanTicket(row pgx.Row) (*domain.ButeurTicket, error) {
	var t domain.ButeurTicket
	err := row.Scan(&t.ID, &t.Code, &t.MatchSeq, &t.PlayerID, &t.UserID,
		&t.Won, &t.Checked, &t.Redeemed, &t.RedeemedAt,
		&t.PrizeLabel, &t.PrizeValueMinor, &t.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan ticket: %w", err)
	}
	return &t, nil
}
