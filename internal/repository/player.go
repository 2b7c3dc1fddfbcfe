package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/latableronde/contest/internal/domain"
)

type playerRepo struct{}

// NewPlayerRepository returns a pgx-backed PlayerRepository.
func NewPlayerRepository() PlayerRepository {
	return &playerRepo{}
}

const playerColumns = `id, team_id, name, shirt_number, goals`

func (r *playerRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Player, error) {
	row := db.QueryRow(ctx, `SELECT `+playerColumns+` FROM players WHERE id = $1`, id)
	var p domain.Player
	err := row.Scan(&p.ID, &p.TeamID, &p.Name, &p.ShirtNumber, &p.Goals)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan player: %w", err)
	}
	return &p, nil
}

func (r *playerRepo) ListByTeams(ctx context.Context, db DBTX, teamIDs ...uuid.UUID) ([]domain.Player, error) {
	rows, err := db.Query(ctx, `
		SELECT `+playerColumns+`
		FROM players WHERE team_id = ANY($1)
		ORDER BY team_id, shirt_number`, teamIDs)
	if err != nil {
		return nil, fmt.Errorf("query players: %w", err)
	}
	defer rows.Close()

	var players []domain.Player
	for rows.Next() {
		var p domain.Player
		if err := rows.Scan(&p.ID, &p.TeamID, &p.Name, &p.ShirtNumber, &p.Goals); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// GoalsScored reads the cumulative goals counter. The matchSeq argument is
// unused until a per-match goal event log replaces the counter; keeping it
// in the signature means ticket resolution will not change when that lands.
func (r *playerRepo) GoalsScored(ctx context.Context, db DBTX, matchSeq int, playerID uuid.UUID) (int, error) {
	var goals int
	err := db.QueryRow(ctx, `SELECT goals FROM players WHERE id = $1`, playerID).Scan(&goals)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, domain.ErrNotFound("player", playerID.String())
		}
		return 0, fmt.Errorf("query player goals: %w", err)
	}
	return goals, nil
}
