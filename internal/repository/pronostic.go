package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/latableronde/contest/internal/domain"
)

type pronosticRepo struct{}

// NewPronosticRepository returns a pgx-backed PronosticRepository.
func NewPronosticRepository() PronosticRepository {
	return &pronosticRepo{}
}

const pronosticColumns = `id, user_id, match_seq, home_score, away_score,
	points, exact_score, correct_winner, created_at, updated_at`

// Upsert leans on the (user_id, match_seq) unique constraint: a second
// submission before kickoff rewrites the predicted scores in place.
func (r *pronosticRepo) Upsert(ctx context.Context, db DBTX, p *domain.Pronostic) error {
	row := db.QueryRow(ctx, `
		INSERT INTO pronostics (id, user_id, match_seq, home_score, away_score)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, match_seq) DO UPDATE
		SET home_score = EXCLUDED.home_score,
		    away_score = EXCLUDED.away_score,
		    updated_at = now()
		RETURNING `+pronosticColumns,
		p.ID, p.UserID, p.MatchSeq, p.HomeScore, p.AwayScore)

	err := row.Scan(&p.ID, &p.UserID, &p.MatchSeq, &p.HomeScore, &p.AwayScore,
		&p.Points, &p.ExactScore, &p.CorrectWinner, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert pronostic: %w", err)
	}
	return nil
}

func (r *pronosticRepo) ListByMatch(ctx context.Context, db DBTX, matchSeq int) ([]domain.Pronostic, error) {
	rows, err := db.Query(ctx, `
		SELECT `+pronosticColumns+`
		FROM pronostics WHERE match_seq = $1
		ORDER BY created_at`, matchSeq)
	if err != nil {
		return nil, fmt.Errorf("query pronostics by match: %w", err)
	}
	defer rows.Close()
	return collectPronostics(rows)
}

func (r *pronosticRepo) ListByUser(ctx context.Context, db DBTX, userID uuid.UUID) ([]domain.Pronostic, error) {
	rows, err := db.Query(ctx, `
		SELECT `+pronosticColumns+`
		FROM pronostics WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query pronostics by user: %w", err)
	}
	defer rows.Close()
	return collectPronostics(rows)
}

// SetOutcome overwrites the scorer's verdict. Overwriting rather than
// incrementing is what makes a scorer rerun a no-op.
func (r *pronosticRepo) SetOutcome(ctx context.Context, db DBTX, id uuid.UUID, outcome domain.Pronostic) error {
	_, err := db.Exec(ctx, `
		UPDATE pronostics
		SET points = $2, exact_score = $3, correct_winner = $4, updated_at = now()
		WHERE id = $1`,
		id, outcome.Points, outcome.ExactScore, outcome.CorrectWinner)
	if err != nil {
		return fmt.Errorf("set pronostic outcome: %w", err)
	}
	return nil
}

func (r *pronosticRepo) Leaderboard(ctx context.Context, db DBTX, limit int) ([]domain.LeaderboardEntry, error) {
	rows, err := db.Query(ctx, `
		SELECT user_id,
		       COALESCE(SUM(points), 0) AS total_points,
		       COUNT(*) FILTER (WHERE exact_score) AS exact_scores,
		       COUNT(*) AS predictions
		FROM pronostics
		GROUP BY user_id
		ORDER BY total_points DESC, MIN(created_at) ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []domain.LeaderboardEntry
	for rows.Next() {
		var e domain.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.TotalPoints, &e.ExactScores, &e.Predictions); err != nil {
			return nil, fmt.Errorf("scan leaderboard entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func collectPronostics(rows pgx.Rows) ([]domain.Pronostic, error) {
	var pronostics []domain.Pronostic
	for rows.Next() {
		var p domain.Pronostic
		if err := rows.Scan(&p.ID, &p.UserID, &p.MatchSeq, &p.HomeScore, &p.AwayScore,
			&p.Points, &p.ExactScore, &p.CorrectWinner, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan pronostic: %w", err)
		}
		pronostics = append(pronostics, p)
	}
	return pronostics, rows.Err()
}
