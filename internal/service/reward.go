package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/latableronde/contest/internal/codegen"
	"github.com/latableronde/contest/internal/domain"
	"github.com/latableronde/contest/internal/repository"
)

// DefaultRewardExpiry is how long an exact-score voucher stays redeemable.
const DefaultRewardExpiry = 30 * 24 * time.Hour

const exactScoreDescription = "Dessert offert pour un pronostic exact"

// RewardIssuer creates vouchers for qualifying prediction outcomes. It is
// safe to invoke repeatedly for the same (user, match): issuance is gated
// on the natural key, so the scorer's recompute never duplicates a voucher.
type RewardIssuer struct {
	db      DB
	rewards repository.RewardRepository
	outbox  repository.OutboxRepository
	codes   *codegen.Generator
	expiry  time.Duration
	logger  *slog.Logger
}

// NewRewardIssuer creates a RewardIssuer.
func NewRewardIssuer(db DB, rewards repository.RewardRepository, outbox repository.OutboxRepository, codes *codegen.Generator, expiry time.Duration, logger *slog.Logger) *RewardIssuer {
	return &RewardIssuer{db: db, rewards: rewards, outbox: outbox, codes: codes, expiry: expiry, logger: logger}
}

// IssueExactScore grants the exact-score voucher for (user, match),
// returning the existing voucher unchanged if one was already issued.
func (s *RewardIssuer) IssueExactScore(ctx context.Context, userID uuid.UUID, matchSeq int) (*domain.Reward, error) {
	existing, err := s.rewards.FindByUserMatchReason(ctx, s.db, userID, matchSeq, domain.ReasonExactScore)
	if err != nil {
		return nil, domain.ErrInternal("find existing reward", err)
	}
	if existing != nil {
		s.logger.Debug("reward already issued", "user_id", userID, "seq", matchSeq)
		return existing, nil
	}

	code, err := s.codes.Generate(ctx, func(ctx context.Context, code string) (bool, error) {
		return s.rewards.CodeExists(ctx, s.db, code)
	})
	if err != nil {
		return nil, domain.ErrInternal("generate reward code", err)
	}

	reward := &domain.Reward{
		ID:          uuid.New(),
		UserID:      userID,
		MatchSeq:    &matchSeq,
		Reason:      domain.ReasonExactScore,
		Description: exactScoreDescription,
		Code:        code,
		ExpiresAt:   time.Now().Add(s.expiry),
		CreatedAt:   time.Now(),
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	if err := s.rewards.Insert(ctx, tx, reward); err != nil {
		return nil, domain.ErrInternal("insert reward", err)
	}
	if err := s.outbox.Insert(ctx, tx, domain.NewRewardIssuedEvent(reward)); err != nil {
		return nil, domain.ErrInternal("stage reward event", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, domain.ErrInternal("commit reward", err)
	}

	s.logger.Info("reward issued", "user_id", userID, "seq", matchSeq, "code", code)
	return reward, nil
}

// Redeem marks a voucher redeemed at the counter. Expired and
// already-redeemed vouchers are rejected; the guarded write keeps a
// double scan from redeeming twice.
func (s *RewardIssuer) Redeem(ctx context.Context, code string) (*domain.Reward, error) {
	r, err := s.rewards.FindByCode(ctx, s.db, code)
	if err != nil {
		return nil, domain.ErrInternal("find reward", err)
	}
	if r == nil {
		return nil, domain.ErrNotFound("reward", code)
	}
	if r.Redeemed {
		return nil, domain.ErrConflict("voucher already redeemed")
	}
	if r.Expired(time.Now()) {
		return nil, domain.ErrConflict("voucher expired")
	}

	applied, err := s.rewards.MarkRedeemed(ctx, s.db, r.ID)
	if err != nil {
		return nil, domain.ErrInternal("mark reward redeemed", err)
	}
	if !applied {
		return nil, domain.ErrConflict("voucher already redeemed")
	}

	s.logger.Info("reward redeemed", "code", code)
	return s.rewards.FindByCode(ctx, s.db, code)
}

// VerifyByCode returns a voucher for the staff verification screen.
func (s *RewardIssuer) VerifyByCode(ctx context.Context, code string) (*domain.Reward, error) {
	r, err := s.rewards.FindByCode(ctx, s.db, code)
	if err != nil {
		return nil, domain.ErrInternal("find reward", err)
	}
	if r == nil {
		return nil, domain.ErrNotFound("reward", code)
	}
	return r, nil
}

// ListByUser returns a user's vouchers, newest first.
func (s *RewardIssuer) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Reward, error) {
	rewards, err := s.rewards.ListByUser(ctx, s.db, userID)
	if err != nil {
		return nil, domain.ErrInternal("list rewards", err)
	}
	return rewards, nil
}
