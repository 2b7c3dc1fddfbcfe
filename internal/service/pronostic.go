package service

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/google/uuid"
	"github.com/latableronde/contest/internal/domain"
	"github.com/latableronde/contest/internal/repository"
)

// DefaultLeaderboardSize caps the leaderboard read.
const DefaultLeaderboardSize = 50

// PronosticService handles user score predictions: submission before
// kickoff and the leaderboard/listing reads. Scoring itself runs inside
// the finalize cascade.
type PronosticService struct {
	db         DB
	pronostics repository.PronosticRepository
	matches    repository.MatchRepository
	logger     *slog.Logger
}

// NewPronosticService creates a PronosticService.
func NewPronosticService(db DB, pronostics repository.PronosticRepository, matches repository.MatchRepository, logger *slog.Logger) *PronosticService {
	return &PronosticService{db: db, pronostics: pronostics, matches: matches, logger: logger}
}

// Submit records or rewrites the user's prediction for a match. Rejected
// once the match is locked for predictions or finished.
func (s *PronosticService) Submit(ctx context.Context, userID uuid.UUID, matchSeq, homeScore, awayScore int) (*domain.Pronostic, error) {
	if homeScore < 0 || awayScore < 0 {
		return nil, domain.ErrValidation("predicted scores must be non-negative")
	}

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
	if m.LockedForPredictions {
		return nil, domain.ErrConflict("predictions are locked for this match")
	}

	p := &domain.Pronostic{
		ID:        uuid.New(),
		UserID:    userID,
		MatchSeq:  matchSeq,
		HomeScore: homeScore,
		AwayScore: awayScore,
	}
	if err := s.pronostics.Upsert(ctx, s.db, p); err != nil {
		return nil, domain.ErrInternal("upsert pronostic", err)
	}
	return p, nil
}

// ListByUser returns a user's predictions with their scored outcomes.
func (s *PronosticService) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Pronostic, error) {
	pronostics, err := s.pronostics.ListByUser(ctx, s.db, userID)
	if err != nil {
		return nil, domain.ErrInternal("list pronostics", err)
	}
	return pronostics, nil
}

// Leaderboard ranks users by total points; ties keep the earlier
// predictor first.
func (s *PronosticService) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	if limit <= 0 || limit > DefaultLeaderboardSize {
		limit = DefaultLeaderboardSize
	}
	entries, err := s.pronostics.Leaderboard(ctx, s.db, limit)
	if err != nil {
		return nil, domain.ErrInternal("leaderboard", err)
	}
	return entries, nil
}

// LockMatch flips the prediction lock. Invoked by staff (or the kickoff
// schedule job) shortly before a match starts.
func (s *PronosticService) LockMatch(ctx context.Context, matchSeq int, locked bool) error {
	if err := s.matches.SetLocked(ctx, s.db, matchSeq, locked); err != nil {
		return err
	}
	s.logger.Info("prediction lock updated", "seq", matchSeq, "locked", locked)
	return nil
}
