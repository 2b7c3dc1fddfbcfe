package domain

import (
	"time"

	"github.com/google/uuid"
)

// RewardReason identifies the qualifying event a voucher was issued for.
// (user, match, reason) is the natural key: the issuer never creates a
// second voucher for the same triple.
type RewardReason string

const (
	// ReasonExactScore is granted for an exact-score pronostic.
	ReasonExactScore RewardReason = "exact_score"
)

// Reward is a redeemable voucher granted for a qualifying prediction
// outcome. Code is unique across all vouchers and is what the staff
// verification screen looks up.
type Reward struct {
	ID          uuid.UUID    `json:"id"`
	UserID      uuid.UUID    `json:"user_id"`
	MatchSeq    *int         `json:"match_seq,omitempty"`
	Reason      RewardReason `json:"reason"`
	Description string       `json:"description"`
	Code        string       `json:"code"`
	ExpiresAt   time.Time    `json:"expires_at"`
	Redeemed    bool         `json:"redeemed"`
	RedeemedAt  *time.Time   `json:"redeemed_at,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

// Expired reports whether the voucher is past its expiry at the given time.
func (r Reward) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}
