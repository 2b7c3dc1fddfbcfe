package domain

import (
	"time"

	"github.com/google/uuid"
)

// ButeurTicket is a purchase-linked lottery ticket betting on a randomly
// pre-assigned player scoring in a given match. A ticket transitions
// unchecked -> checked exactly once, after the match is finished; Won and
// the prize fields are immutable once set. UserID is nil for anonymous
// till purchases until the customer claims the ticket.
type ButeurTicket struct {
	ID              uuid.UUID  `json:"id"`
	Code            string     `json:"code"`
	MatchSeq        int        `json:"match_seq"`
	PlayerID        uuid.UUID  `json:"player_id"`
	UserID          *uuid.UUID `json:"user_id,omitempty"`
	Won             bool       `json:"won"`
	Checked         bool       `json:"checked"`
	Redeemed        bool       `json:"redeemed"`
	RedeemedAt      *time.Time `json:"redeemed_at,omitempty"`
	PrizeLabel      *string    `json:"prize_label,omitempty"`
	PrizeValueMinor *int64     `json:"prize_value_minor,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}
