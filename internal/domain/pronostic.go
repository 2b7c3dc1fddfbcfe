package domain

import (
	"time"

	"github.com/google/uuid"
)

// Pronostic is one user's score prediction for one match. There is at most
// one per (user, match); the user may rewrite the scores until the match is
// locked for predictions. Points and the outcome flags are written only by
// the scorer, as a set-not-add recompute, so rerunning the scorer on the
// same result is a no-op.
type Pronostic struct {
	ID            uuid.UUID `json:"id"`
	UserID        uuid.UUID `json:"user_id"`
	MatchSeq      int       `json:"match_seq"`
	HomeScore     int       `json:"home_score"`
	AwayScore     int       `json:"away_score"`
	Points        int       `json:"points"`
	ExactScore    bool      `json:"exact_score"`
	CorrectWinner bool      `json:"correct_winner"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// LeaderboardEntry is one row of the prediction leaderboard.
type LeaderboardEntry struct {
	UserID      uuid.UUID `json:"user_id"`
	TotalPoints int       `json:"total_points"`
	ExactScores int       `json:"exact_scores"`
	Predictions int       `json:"predictions"`
}
