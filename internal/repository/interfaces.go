package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/latableronde/contest/internal/domain"
)

// DBTX abstracts pgx.Tx and pgxpool.Pool so repositories work with both.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// TeamRepository provides read access to the seeded teams.
type TeamRepository interface {
	// FindByID returns a team, or nil if absent.
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Team, error)

	// ListByGroup returns the teams of one group in seeding order.
	ListByGroup(ctx context.Context, db DBTX, group string) ([]domain.Team, error)

	// ListAll returns every seeded team.
	ListAll(ctx context.Context, db DBTX) ([]domain.Team, error)
}

// PlayerRepository provides read access to team rosters. The goals counter
// is maintained by the staff scorer-entry workflow, outside this engine.
type PlayerRepository interface {
	// FindByID returns a player, or nil if absent.
	FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Player, error)

	// ListByTeams returns the union of the given teams' rosters.
	ListByTeams(ctx context.Context, db DBTX, teamIDs ...uuid.UUID) ([]domain.Player, error)

	// GoalsScored returns the goals credited to a player for the given
	// match. The current schema keeps only a cumulative per-player counter,
	// so the pgx implementation returns that counter whatever the match;
	// the signature models per-match goal events so a proper event log can
	// replace the counter without touching ticket resolution.
	GoalsScored(ctx context.Context, db DBTX, matchSeq int, playerID uuid.UUID) (int, error)
}

// MatchRepository provides access to tournament fixtures, keyed by their
// global sequence number.
type MatchRepository interface {
	// FindBySeq returns a match, or nil if absent.
	FindBySeq(ctx context.Context, db DBTX, seq int) (*domain.Match, error)

	// ListByPhase returns all matches of one phase, ordered by sequence.
	ListByPhase(ctx context.Context, db DBTX, phase domain.Phase) ([]domain.Match, error)

	// ListFinishedByGroup returns the finished group-stage matches whose
	// home team belongs to the given group (group fixtures never cross
	// groups, so the home side determines the group).
	ListFinishedByGroup(ctx context.Context, db DBTX, group string) ([]domain.Match, error)

	// CountUnfinished returns how many matches of a phase lack a result.
	CountUnfinished(ctx context.Context, db DBTX, phase domain.Phase) (int, error)

	// SetResult stores the final score and flips the finished flag.
	SetResult(ctx context.Context, db DBTX, seq, homeScore, awayScore int) error

	// SetLocked flips the locked-for-predictions flag.
	SetLocked(ctx context.Context, db DBTX, seq int, locked bool) error

	// UpsertFixture writes a bracket pairing onto the row with the
	// fixture's sequence number, inserting it if the schedule seed did not
	// create it. Re-running with the same fixture only overwrites the team
	// references, it never duplicates the row.
	UpsertFixture(ctx context.Context, db DBTX, f domain.Match) error
}

// PronosticRepository provides access to user score predictions.
type PronosticRepository interface {
	// Upsert inserts the user's prediction for a match or rewrites its
	// scores, keyed by the (user, match) unique constraint.
	Upsert(ctx context.Context, db DBTX, p *domain.Pronostic) error

	// ListByMatch returns all predictions for one match.
	ListByMatch(ctx context.Context, db DBTX, matchSeq int) ([]domain.Pronostic, error)

	// ListByUser returns a user's predictions, newest first.
	ListByUser(ctx context.Context, db DBTX, userID uuid.UUID) ([]domain.Pronostic, error)

	// SetOutcome overwrites a prediction's points and flags (set, not add).
	SetOutcome(ctx context.Context, db DBTX, id uuid.UUID, outcome domain.Pronostic) error

	// Leaderboard aggregates total points per user, ties broken by the
	// user's earliest prediction.
	Leaderboard(ctx context.Context, db DBTX, limit int) ([]domain.LeaderboardEntry, error)
}

// RewardRepository provides access to issued vouchers.
type RewardRepository interface {
	// FindByUserMatchReason returns the voucher for the natural key, or
	// nil if none was issued yet. The issuer gates creation on this.
	FindByUserMatchReason(ctx context.Context, db DBTX, userID uuid.UUID, matchSeq int, reason domain.RewardReason) (*domain.Reward, error)

	// Insert creates a voucher.
	Insert(ctx context.Context, db DBTX, r *domain.Reward) error

	// ListByUser returns a user's vouchers, newest first.
	ListByUser(ctx context.Context, db DBTX, userID uuid.UUID) ([]domain.Reward, error)

	// FindByCode returns a voucher, or nil if absent.
	FindByCode(ctx context.Context, db DBTX, code string) (*domain.Reward, error)

	// MarkRedeemed redeems a voucher exactly once: the write is guarded
	// by redeemed = false and reports whether it applied.
	MarkRedeemed(ctx context.Context, db DBTX, id uuid.UUID) (bool, error)

	// CodeExists reports whether a voucher code is taken.
	CodeExists(ctx context.Context, db DBTX, code string) (bool, error)
}

// TicketRepository provides access to buteur tickets.
type TicketRepository interface {
	// Insert creates an unresolved ticket.
	Insert(ctx context.Context, db DBTX, t *domain.ButeurTicket) error

	// FindByCode returns a ticket, or nil if absent.
	FindByCode(ctx context.Context, db DBTX, code string) (*domain.ButeurTicket, error)

	// ListUncheckedByMatch returns the unresolved tickets of a match.
	ListUncheckedByMatch(ctx context.Context, db DBTX, matchSeq int) ([]domain.ButeurTicket, error)

	// ListByUser returns a user's tickets, newest first.
	ListByUser(ctx context.Context, db DBTX, userID uuid.UUID) ([]domain.ButeurTicket, error)

	// MarkChecked resolves a ticket exactly once: the write is guarded by
	// checked = false and reports whether it applied.
	MarkChecked(ctx context.Context, db DBTX, id uuid.UUID, won bool, prizeLabel *string, prizeValueMinor *int64) (bool, error)

	// MarkRedeemed transitions a winning ticket to redeemed exactly once,
	// guarded by redeemed = false, and reports whether it applied.
	MarkRedeemed(ctx context.Context, db DBTX, id uuid.UUID) (bool, error)

	// CodeExists reports whether a ticket code is taken.
	CodeExists(ctx context.Context, db DBTX, code string) (bool, error)
}

// OutboxRepository provides access to the event_outbox table.
type OutboxRepository interface {
	// Insert stages an event in the same transaction as the state change.
	Insert(ctx context.Context, db DBTX, draft domain.OutboxDraft) error

	// FetchUnpublished returns staged events in insertion order.
	FetchUnpublished(ctx context.Context, db DBTX, limit int) ([]domain.OutboxDraft, error)

	// MarkPublished removes published events.
	MarkPublished(ctx context.Context, db DBTX, ids []int64) error
}
