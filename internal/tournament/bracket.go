package tournament

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/latableronde/contest/internal/domain"
)

// Fixture is a resolved bracket pairing, ready to be upserted onto the
// match row carrying the same sequence number.
type Fixture struct {
	Seq        int
	Phase      domain.Phase
	HomeTeamID uuid.UUID
	AwayTeamID uuid.UUID
}

// qualifiedCount is the number of teams entering the knockout bracket:
// six group winners, six runners-up and the four best third-placed teams.
const qualifiedCount = 16

// RoundOf16Fixtures resolves the round-of-16 chart against completed group
// tables, keyed by group letter. It fails rather than guess if any group
// table has fewer than three ranked teams or the qualified pool does not
// come to exactly sixteen.
func RoundOf16Fixtures(tables map[string][]domain.Standing) ([]Fixture, error) {
	ordered := make([][]domain.Standing, 0, len(tables))
	qualified := 0
	for _, g := range domain.Groups {
		table, ok := tables[g]
		if !ok || len(table) < 3 {
			return nil, domain.ErrPrecondition(fmt.Sprintf("group %s standings incomplete", g))
		}
		ordered = append(ordered, table)
		qualified += 2
	}

	thirds := RankThirdPlaced(ordered)
	if len(thirds) < 4 {
		return nil, domain.ErrPrecondition(fmt.Sprintf("only %d third-placed teams ranked, need 4", len(thirds)))
	}
	qualified += 4
	if qualified != qualifiedCount {
		return nil, domain.ErrPrecondition(fmt.Sprintf("%d qualified teams, want %d", qualified, qualifiedCount))
	}

	specs := RoundOf16Specs()
	bestThirds := AssignBestThirds(specs, thirds[:4])

	fixtures := make([]Fixture, 0, len(specs))
	for _, spec := range specs {
		home, err := resolveGroupSlot(spec, spec.Home, tables, bestThirds)
		if err != nil {
			return nil, err
		}
		away, err := resolveGroupSlot(spec, spec.Away, tables, bestThirds)
		if err != nil {
			return nil, err
		}
		fixtures = append(fixtures, Fixture{Seq: spec.Seq, Phase: spec.Phase, HomeTeamID: home, AwayTeamID: away})
	}
	return fixtures, nil
}

// AssignBestThirds maps each best-third slot to one of the four ranked
// qualifiers, in chart iteration order. This ignores which groups the
// thirds actually came from — the official chart keys the assignment on
// that combination — and is kept as an isolated policy so the rule can be
// replaced without touching the rest of the bracket.
func AssignBestThirds(specs []FixtureSpec, ranked []domain.Standing) map[int]uuid.UUID {
	assigned := make(map[int]uuid.UUID, len(ranked))
	next := 0
	for _, spec := range specs {
		if spec.Away.Role != SlotBestThird || next >= len(ranked) {
			continue
		}
		assigned[spec.Seq] = ranked[next].Team.ID
		next++
	}
	return assigned
}

func resolveGroupSlot(spec FixtureSpec, slot Slot, tables map[string][]domain.Standing, bestThirds map[int]uuid.UUID) (uuid.UUID, error) {
	switch slot.Role {
	case SlotGroupWinner:
		return tables[slot.Group][0].Team.ID, nil
	case SlotGroupRunnerUp:
		return tables[slot.Group][1].Team.ID, nil
	case SlotBestThird:
		id, ok := bestThirds[spec.Seq]
		if !ok {
			return uuid.Nil, domain.ErrPrecondition(fmt.Sprintf("no best-third assignment for match %d", spec.Seq))
		}
		return id, nil
	default:
		return uuid.Nil, domain.ErrPrecondition(fmt.Sprintf("match %d: slot role %d cannot be resolved from group standings", spec.Seq, slot.Role))
	}
}

// KnockoutFixtures resolves the chart of one later knockout phase from the
// finished matches of its prerequisite phase, keyed by sequence number.
func KnockoutFixtures(phase domain.Phase, prior map[int]domain.Match) ([]Fixture, error) {
	specs := SpecsForPhase(phase)
	if specs == nil {
		return nil, domain.ErrValidation(fmt.Sprintf("phase %s has no knockout chart", phase))
	}

	fixtures := make([]Fixture, 0, len(specs))
	for _, spec := range specs {
		home, err := resolveMatchSlot(spec.Home, prior)
		if err != nil {
			return nil, err
		}
		away, err := resolveMatchSlot(spec.Away, prior)
		if err != nil {
			return nil, err
		}
		fixtures = append(fixtures, Fixture{Seq: spec.Seq, Phase: spec.Phase, HomeTeamID: home, AwayTeamID: away})
	}
	return fixtures, nil
}

func resolveMatchSlot(slot Slot, prior map[int]domain.Match) (uuid.UUID, error) {
	m, ok := prior[slot.SourceSeq]
	if !ok {
		return uuid.Nil, domain.ErrPrecondition(fmt.Sprintf("source match %d not found", slot.SourceSeq))
	}
	switch slot.Role {
	case SlotMatchWinner:
		return Winner(m)
	case SlotMatchLoser:
		return Loser(m)
	default:
		return uuid.Nil, domain.ErrPrecondition(fmt.Sprintf("match %d: slot role %d cannot be resolved from a result", slot.SourceSeq, slot.Role))
	}
}

// Winner returns the winning team of a finished knockout match. A level
// score is an upstream data error: knockout results must arrive already
// decided (extra time and penalties happen before the admin enters them).
func Winner(m domain.Match) (uuid.UUID, error) {
	if err := decidable(m); err != nil {
		return uuid.Nil, err
	}
	if *m.HomeScore > *m.AwayScore {
		return *m.HomeTeamID, nil
	}
	return *m.AwayTeamID, nil
}

// Loser returns the losing team of a finished knockout match.
func Loser(m domain.Match) (uuid.UUID, error) {
	if err := decidable(m); err != nil {
		return uuid.Nil, err
	}
	if *m.HomeScore > *m.AwayScore {
		return *m.AwayTeamID, nil
	}
	return *m.HomeTeamID, nil
}

func decidable(m domain.Match) error {
	if !m.Finished || !m.HasResult() || !m.HasTeams() {
		return domain.ErrPrecondition(fmt.Sprintf("match %d has no final result", m.Seq))
	}
	if *m.HomeScore == *m.AwayScore {
		return domain.ErrPrecondition(fmt.Sprintf("knockout match %d ended level %d-%d; result must be decided upstream", m.Seq, *m.HomeScore, *m.AwayScore))
	}
	return nil
}
