// Package service orchestrates the contest engine over the relational
// store: the finalize cascade, bracket phase generation, pronostic entry
// and the buteur ticket lottery.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/latableronde/contest/internal/domain"
	"github.com/latableronde/contest/internal/repository"
	"github.com/latableronde/contest/internal/tournament"
)

// DB is the slice of *pgxpool.Pool the services need: plain queries plus
// transaction starts. Tests substitute an in-memory implementation.
type DB interface {
	repository.DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
}

// ContestService drives the tournament engine. Marking a match finished is
// the sole entry point that cascades through scoring, reward issuance,
// ticket resolution and bracket advancement; standings are recomputed on
// every read.
type ContestService struct {
	db         DB
	matches    repository.MatchRepository
	teams      repository.TeamRepository
	pronostics repository.PronosticRepository
	outbox     repository.OutboxRepository
	rewards    *RewardIssuer
	tickets    *TicketService
	logger     *slog.Logger
}

// NewContestService creates a ContestService.
func NewContestService(
	db DB,
	matches repository.MatchRepository,
	teams repository.TeamRepository,
	pronostics repository.PronosticRepository,
	outbox repository.OutboxRepository,
	rewards *RewardIssuer,
	tickets *TicketService,
	logger *slog.Logger,
) *ContestService {
	return &ContestService{
		db:         db,
		matches:    matches,
		teams:      teams,
		pronostics: pronostics,
		outbox:     outbox,
		rewards:    rewards,
		tickets:    tickets,
		logger:     logger,
	}
}

// FinalizeMatch records a final score and runs the whole post-match
// cascade. The result itself is committed first; scoring commits before
// any voucher is issued, so an issuance failure never leaves a voucher
// without its backing flags. Per-user and per-ticket failures are logged
// and skipped, they never abort the rest of the batch. A rerun (after an
// admin correction) recomputes every outcome instead of accumulating.
func (s *ContestService) FinalizeMatch(ctx context.Context, seq, homeScore, awayScore int) error {
	if homeScore < 0 || awayScore < 0 {
		return domain.ErrValidation("scores must be non-negative")
	}

	m, err := s.matches.FindBySeq(ctx, s.db, seq)
	if err != nil {
		return domain.ErrInternal("find match", err)
	}
	if m == nil {
		return domain.ErrNotFound("match", strconv.Itoa(seq))
	}
	if !m.HasTeams() {
		return domain.ErrPrecondition("match has no teams assigned yet")
	}
	if m.Phase != domain.PhaseGroup && homeScore == awayScore {
		return domain.ErrValidation("knockout matches cannot end in a draw")
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	if err := s.matches.SetResult(ctx, tx, seq, homeScore, awayScore); err != nil {
		return err
	}
	m.HomeScore, m.AwayScore = &homeScore, &awayScore
	m.Finished = true
	if err := s.outbox.Insert(ctx, tx, domain.NewMatchFinalizedEvent(m)); err != nil {
		return domain.ErrInternal("stage finalized event", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.ErrInternal("commit result", err)
	}
	s.logger.Info("match finalized", "seq", seq, "home", homeScore, "away", awayScore)

	exactUsers, err := s.scoreMatch(ctx, *m)
	if err != nil {
		return err
	}

	for _, userID := range exactUsers {
		if _, err := s.rewards.IssueExactScore(ctx, userID, seq); err != nil {
			s.logger.Error("reward issuance failed", "user_id", userID, "seq", seq, "error", err)
		}
	}

	if _, err := s.tickets.ResolveMatch(ctx, seq); err != nil {
		s.logger.Error("ticket resolution failed", "seq", seq, "error", err)
	}

	s.advanceBracket(ctx, m.Phase)
	return nil
}

// scoreMatch recomputes every pronostic on the match in one transaction
// and returns the users owed an exact-score voucher.
func (s *ContestService) scoreMatch(ctx context.Context, m domain.Match) ([]uuid.UUID, error) {
	pronostics, err := s.pronostics.ListByMatch(ctx, s.db, m.Seq)
	if err != nil {
		return nil, domain.ErrInternal("list pronostics", err)
	}
	if len(pronostics) == 0 {
		return nil, nil
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	var exactUsers []uuid.UUID
	for _, p := range pronostics {
		outcome := tournament.ScorePronostic(*m.HomeScore, *m.AwayScore, p.HomeScore, p.AwayScore)
		err := s.pronostics.SetOutcome(ctx, tx, p.ID, domain.Pronostic{
			Points:        outcome.Points,
			ExactScore:    outcome.ExactScore,
			CorrectWinner: outcome.CorrectWinner,
		})
		if err != nil {
			return nil, domain.ErrInternal("set pronostic outcome", err)
		}
		if outcome.ExactScore {
			exactUsers = append(exactUsers, p.UserID)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit scoring", err)
	}
	s.logger.Info("pronostics scored", "seq", m.Seq, "count", len(pronostics), "exact", len(exactUsers))
	return exactUsers, nil
}

// advanceBracket tries to generate the phase that follows the one the
// finalized match belongs to. An incomplete phase is the normal case while
// matches remain; anything else is a real generation failure and is logged
// without failing the finalize that triggered it.
func (s *ContestService) advanceBracket(ctx context.Context, finished domain.Phase) {
	var next domain.Phase
	switch finished {
	case domain.PhaseGroup:
		next = domain.PhaseRoundOf16
	case domain.PhaseRoundOf16:
		next = domain.PhaseQuarter
	case domain.PhaseQuarter:
		next = domain.PhaseSemi
	case domain.PhaseSemi:
		next = domain.PhaseFinal
	default:
		return
	}

	if err := s.GeneratePhase(ctx, next); err != nil {
		var appErr *domain.AppError
		if errors.As(err, &appErr) && appErr.Code == "PHASE_INCOMPLETE" {
			s.logger.Info("bracket not advanced", "next_phase", next, "reason", appErr.Message)
			return
		}
		s.logger.Error("bracket generation failed", "next_phase", next, "error", err)
		return
	}
	s.logger.Info("bracket advanced", "phase", next)
}

// GeneratePhase resolves and upserts the fixtures of one knockout phase.
// The prerequisite phase must be entirely finished; otherwise the call
// fails with the count of unfinished matches and writes nothing.
// Generating the final also generates the third-place match, both resolve
// from the semi finals. All fixtures of a phase are upserted in a single
// transaction, so a failed generation leaves no partial bracket.
func (s *ContestService) GeneratePhase(ctx context.Context, phase domain.Phase) error {
	prereq, ok := domain.PrerequisitePhase(phase)
	if !ok {
		return domain.ErrValidation("phase " + string(phase) + " is not generated from results")
	}

	unfinished, err := s.matches.CountUnfinished(ctx, s.db, prereq)
	if err != nil {
		return domain.ErrInternal("count unfinished", err)
	}
	if unfinished > 0 {
		return domain.ErrPhaseIncomplete(prereq, unfinished)
	}

	var fixtures []tournament.Fixture
	if phase == domain.PhaseRoundOf16 {
		tables, err := s.groupTables(ctx)
		if err != nil {
			return err
		}
		fixtures, err = tournament.RoundOf16Fixtures(tables)
		if err != nil {
			return err
		}
	} else {
		prior, err := s.matches.ListByPhase(ctx, s.db, prereq)
		if err != nil {
			return domain.ErrInternal("list prerequisite matches", err)
		}
		bySeq := make(map[int]domain.Match, len(prior))
		for _, m := range prior {
			bySeq[m.Seq] = m
		}
		fixtures, err = tournament.KnockoutFixtures(phase, bySeq)
		if err != nil {
			return err
		}
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	for _, f := range fixtures {
		home, away := f.HomeTeamID, f.AwayTeamID
		err := s.matches.UpsertFixture(ctx, tx, domain.Match{
			Seq:        f.Seq,
			Phase:      f.Phase,
			HomeTeamID: &home,
			AwayTeamID: &away,
		})
		if err != nil {
			return domain.ErrInternal("upsert fixture", err)
		}
	}
	if err := s.outbox.Insert(ctx, tx, domain.NewPhaseGeneratedEvent(phase, len(fixtures))); err != nil {
		return domain.ErrInternal("stage phase event", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.ErrInternal("commit fixtures", err)
	}
	return nil
}

// GroupStandings recomputes one group's table from its finished matches.
func (s *ContestService) GroupStandings(ctx context.Context, group string) ([]domain.Standing, error) {
	teams, err := s.teams.ListByGroup(ctx, s.db, group)
	if err != nil {
		return nil, domain.ErrInternal("list teams", err)
	}
	if len(teams) == 0 {
		return nil, domain.ErrNotFound("group", group)
	}
	matches, err := s.matches.ListFinishedByGroup(ctx, s.db, group)
	if err != nil {
		return nil, domain.ErrInternal("list group matches", err)
	}
	return tournament.ComputeStandings(teams, matches), nil
}

// ThirdPlaceRanking ranks all six groups' third-placed teams; the first
// four qualify for the round of 16.
func (s *ContestService) ThirdPlaceRanking(ctx context.Context) ([]domain.Standing, error) {
	tables := make([][]domain.Standing, 0, len(domain.Groups))
	for _, g := range domain.Groups {
		table, err := s.GroupStandings(ctx, g)
		if err != nil {
			return nil, err
		}
		tables = append(tables, table)
	}
	return tournament.RankThirdPlaced(tables), nil
}

func (s *ContestService) groupTables(ctx context.Context) (map[string][]domain.Standing, error) {
	tables := make(map[string][]domain.Standing, len(domain.Groups))
	for _, g := range domain.Groups {
		table, err := s.GroupStandings(ctx, g)
		if err != nil {
			return nil, err
		}
		tables[g] = table
	}
	return tables, nil
}

// BracketMatches returns every knockout fixture, team slots resolved where
// the bracket has advanced far enough, ordered by sequence number.
func (s *ContestService) BracketMatches(ctx context.Context) ([]domain.Match, error) {
	phases := []domain.Phase{
		domain.PhaseRoundOf16, domain.PhaseQuarter, domain.PhaseSemi,
		domain.PhaseThirdPlace, domain.PhaseFinal,
	}
	var all []domain.Match
	for _, p := range phases {
		matches, err := s.matches.ListByPhase(ctx, s.db, p)
		if err != nil {
			return nil, domain.ErrInternal("list bracket matches", err)
		}
		all = append(all, matches...)
	}
	return all, nil
}
