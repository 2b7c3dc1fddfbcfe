package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/latableronde/contest/internal/domain"
)

type teamRepo struct{}

// NewTeamRepository returns a pgx-backed TeamRepository.
func NewTeamRepository() TeamRepository {
	return &teamRepo{}
}

const teamColumns = `id, name, short_name, group_label, flag_ref`

func (r *teamRepo) FindByID(ctx context.Context, db DBTX, id uuid.UUID) (*domain.Team, error) {
	row := db.QueryRow(ctx, `SELECT `+teamColumns+` FROM teams WHERE id = $1`, id)
	return scanTeam(row)
}

func (r *teamRepo) ListByGroup(ctx context.Context, db DBTX, group string) ([]domain.Team, error) {
	rows, err := db.Query(ctx, `
		SELECT `+teamColumns+`
		FROM teams WHERE group_label = $1
		ORDER BY name`, group)
	if err != nil {
		return nil, fmt.Errorf("query teams by group: %w", err)
	}
	defer rows.Close()
	return collectTeams(rows)
}

func (r *teamRepo) ListAll(ctx context.Context, db DBTX) ([]domain.Team, error) {
	rows, err := db.Query(ctx, `SELECT `+teamColumns+` FROM teams ORDER BY group_label, name`)
	if err != nil {
		return nil, fmt.Errorf("query teams: %w", err)
	}
	defer rows.Close()
	return collectTeams(rows)
}

func collectTeams(rows pgx.Rows) ([]domain.Team, error) {
	var teams []domain.Team
	for rows.Next() {
		var t domain.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.ShortName, &t.Group, &t.FlagRef); err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

func scanTeam(row pgx.Row) (*domain.Team, error) {
	var t domain.Team
	err := row.Scan(&t.ID, &t.Name, &t.ShortName, &t.Group, &t.FlagRef)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan team: %w", err)
	}
	return &t, nil
}
