package domain

import (
	"time"

	"github.com/google/uuid"
)

// Phase is one stage of the tournament.
type Phase string

const (
	PhaseGroup      Phase = "group"
	PhaseRoundOf16  Phase = "round_of_16"
	PhaseQuarter    Phase = "quarter_final"
	PhaseSemi       Phase = "semi_final"
	PhaseThirdPlace Phase = "third_place"
	PhaseFinal      Phase = "final"
)

// PrerequisitePhase returns the phase that must be fully finished before
// fixtures of the given phase can be generated. Group-stage fixtures are
// seeded, not generated; asking for their prerequisite returns false.
func PrerequisitePhase(p Phase) (Phase, bool) {
	switch p {
	case PhaseRoundOf16:
		return PhaseGroup, true
	case PhaseQuarter:
		return PhaseRoundOf16, true
	case PhaseSemi:
		return PhaseQuarter, true
	case PhaseThirdPlace, PhaseFinal:
		return PhaseSemi, true
	default:
		return "", false
	}
}

// Match is a tournament fixture. Seq is the global sequence number and the
// stable identity across bracket regeneration: re-generating a phase upserts
// by Seq, it never creates a second row. Team references stay nil on
// knockout fixtures until the bracket generator resolves the qualifiers.
type Match struct {
	Seq                  int        `json:"seq"`
	Phase                Phase      `json:"phase"`
	HomeTeamID           *uuid.UUID `json:"home_team_id,omitempty"`
	AwayTeamID           *uuid.UUID `json:"away_team_id,omitempty"`
	HomeScore            *int       `json:"home_score,omitempty"`
	AwayScore            *int       `json:"away_score,omitempty"`
	Finished             bool       `json:"finished"`
	LockedForPredictions bool       `json:"locked_for_predictions"`
	KickoffAt            *time.Time `json:"kickoff_at,omitempty"`
	Venue                string     `json:"venue,omitempty"`
}

// HasResult reports whether both scores are recorded.
func (m Match) HasResult() bool {
	return m.HomeScore != nil && m.AwayScore != nil
}

// HasTeams reports whether both team slots are resolved.
func (m Match) HasTeams() bool {
	return m.HomeTeamID != nil && m.AwayTeamID != nil
}
