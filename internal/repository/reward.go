package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/latableronde/contest/internal/domain"
)

type rewardRepo struct{}

// NewRewardRepository returns a pgx-backed RewardRepository.
func NewRewardRepository() RewardRepository {
	return &rewardRepo{}
}

const rewardColumns = `id, user_id, match_seq, reason, description, code,
	expires_at, redeemed, redeemed_at, created_at`

func (r *rewardRepo) FindByUserMatchReason(ctx context.Context, db DBTX, userID uuid.UUID, matchSeq int, reason domain.RewardReason) (*domain.Reward, error) {
	row := db.QueryRow(ctx, `
		SELECT `+rewardColumns+`
		FROM rewards
		WHERE user_id = $1 AND match_seq = $2 AND reason = $3`,
		userID, matchSeq, string(reason))
	return scanReward(row)
}

func (r *rewardRepo) Insert(ctx context.Context, db DBTX, reward *domain.Reward) error {
	_, err := db.Exec(ctx, `
		INSERT INTO rewards (id, user_id, match_seq, reason, description, code, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		reward.ID, reward.UserID, reward.MatchSeq, string(reward.Reason),
		reward.Description, reward.Code, reward.ExpiresAt)
	if err != nil {
		return fmt.Errorf("insert reward: %w", err)
	}
	return nil
}

func (r *rewardRepo) ListByUser(ctx context.Context, db DBTX, userID uuid.UUID) ([]domain.Reward, error) {
	rows, err := db.Query(ctx, `
		SELECT `+rewardColumns+`
		FROM rewards WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query rewards: %w", err)
	}
	defer rows.Close()

	var rewards []domain.Reward
	for rows.Next() {
		var rw domain.Reward
		if err := rows.Scan(&rw.ID, &rw.UserID, &rw.MatchSeq, &rw.Reason, &rw.Description,
			&rw.Code, &rw.ExpiresAt, &rw.Redeemed, &rw.RedeemedAt, &rw.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan reward: %w", err)
		}
		rewards = append(rewards, rw)
	}
	return rewards, rows.Err()
}

func (r *rewardRepo) FindByCode(ctx context.Context, db DBTX, code string) (*domain.Reward, error) {
	row := db.QueryRow(ctx, `
		SELECT `+rewardColumns+`
		FROM rewards WHERE code = $1`, code)
	return scanReward(row)
}

// MarkRedeemed is guarded by redeemed = false; a second redemption affects
// zero rows and leaves redeemed_at untouched.
func (r *rewardRepo) MarkRedeemed(ctx context.Context, db DBTX, id uuid.UUID) (bool, error) {
	tag, err := db.Exec(ctx, `
		UPDATE rewards
		SET redeemed = true, redeemed_at = now()
		WHERE id = $1 AND NOT redeemed`, id)
	if err != nil {
		return false, fmt.Errorf("mark reward redeemed: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *rewardRepo) CodeExists(ctx context.Context, db DBTX, code string) (bool, error) {
	var exists bool
	err := db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM rewards WHERE code = $1)`, code).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check reward code: %w", err)
	}
	return exists, nil
}

func scanReward(row pgx.Row) (*domain.Reward, error) {
	var rw domain.Reward
	err := row.Scan(&rw.ID, &rw.UserID, &rw.MatchSeq, &rw.Reason, &rw.Description,
		&rw.Code, &rw.ExpiresAt, &rw.Redeemed, &rw.RedeemedAt, &rw.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan reward: %w", err)
	}
	return &rw, nil
}
