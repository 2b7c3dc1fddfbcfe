package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/latableronde/contest/internal/domain"
)

type matchRepo struct{}

// NewMatchRepository returns a pgx-backed MatchRepository.
func NewMatchRepository() MatchRepository {
	return &matchRepo{}
}

const matchColumns = `seq, phase, home_team_id, away_team_id, home_score, away_score,
	finished, locked_for_predictions, kickoff_at, venue`

func (r *matchRepo) FindBySeq(ctx context.Context, db DBTX, seq int) (*domain.Match, error) {
	row := db.QueryRow(ctx, `SELECT `+matchColumns+` FROM matches WHERE seq = $1`, seq)
	return scanMatch(row)
}

func (r *matchRepo) ListByPhase(ctx context.Context, db DBTX, phase domain.Phase) ([]domain.Match, error) {
	rows, err := db.Query(ctx, `
		SELECT `+matchColumns+`
		FROM matches WHERE phase = $1
		ORDER BY seq`, string(phase))
	if err != nil {
		return nil, fmt.Errorf("query matches by phase: %w", err)
	}
	defer rows.Close()
	return collectMatches(rows)
}

func (r *matchRepo) ListFinishedByGroup(ctx context.Context, db DBTX, group string) ([]domain.Match, error) {
	rows, err := db.Query(ctx, `
		SELECT m.seq, m.phase, m.home_team_id, m.away_team_id, m.home_score, m.away_score,
		       m.finished, m.locked_for_predictions, m.kickoff_at, m.venue
		FROM matches m
		JOIN teams t ON t.id = m.home_team_id
		WHERE m.phase = $1 AND m.finished AND t.group_label = $2
		ORDER BY m.seq`, string(domain.PhaseGroup), group)
	if err != nil {
		return nil, fmt.Errorf("query group matches: %w", err)
	}
	defer rows.Close()
	return collectMatches(rows)
}

func (r *matchRepo) CountUnfinished(ctx context.Context, db DBTX, phase domain.Phase) (int, error) {
	var n int
	err := db.QueryRow(ctx,
		`SELECT count(*) FROM matches WHERE phase = $1 AND NOT finished`,
		string(phase)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count unfinished: %w", err)
	}
	return n, nil
}

func (r *matchRepo) SetResult(ctx context.Context, db DBTX, seq, homeScore, awayScore int) error {
	tag, err := db.Exec(ctx, `
		UPDATE matches
		SET home_score = $2, away_score = $3, finished = true, updated_at = now()
		WHERE seq = $1`, seq, homeScore, awayScore)
	if err != nil {
		return fmt.Errorf("set result: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound("match", fmt.Sprintf("%d", seq))
	}
	return nil
}

func (r *matchRepo) SetLocked(ctx context.Context, db DBTX, seq int, locked bool) error {
	tag, err := db.Exec(ctx, `
		UPDATE matches SET locked_for_predictions = $2, updated_at = now()
		WHERE seq = $1`, seq, locked)
	if err != nil {
		return fmt.Errorf("set locked: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound("match", fmt.Sprintf("%d", seq))
	}
	return nil
}

// UpsertFixture keys on the sequence number so re-generating a phase after
// a corrected result rewrites the pairing instead of duplicating it.
func (r *matchRepo) UpsertFixture(ctx context.Context, db DBTX, f domain.Match) error {
	_, err := db.Exec(ctx, `
		INSERT INTO matches (seq, phase, home_team_id, away_team_id, kickoff_at, venue)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (seq) DO UPDATE
		SET home_team_id = EXCLUDED.home_team_id,
		    away_team_id = EXCLUDED.away_team_id,
		    updated_at   = now()`,
		f.Seq, string(f.Phase), f.HomeTeamID, f.AwayTeamID, f.KickoffAt, f.Venue)
	if err != nil {
		return fmt.Errorf("upsert fixture %d: %w", f.Seq, err)
	}
	return nil
}

func collectMatches(rows pgx.Rows) ([]domain.Match, error) {
	var matches []domain.Match
	for rows.Next() {
		var m domain.Match
		if err := rows.Scan(&m.Seq, &m.Phase, &m.HomeTeamID, &m.AwayTeamID,
			&m.HomeScore, &m.AwayScore, &m.Finished, &m.LockedForPredictions,
			&m.KickoffAt, &m.Venue); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func scanMatch(row pgx.Row) (*domain.Match, error) {
	var m domain.Match
	err := row.Scan(&m.Seq, &m.Phase, &m.HomeTeamID, &m.AwayTeamID,
		&m.HomeScore, &m.AwayScore, &m.Finished, &m.LockedForPredictions,
		&m.KickoffAt, &m.Venue)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan match: %w", err)
	}
	return &m, nil
}
