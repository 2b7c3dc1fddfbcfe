package tournament

import "github.com/latableronde/contest/internal/domain"

// SlotRole names how a bracket position is filled once its source phase
// completes.
type SlotRole int

const (
	// SlotGroupWinner resolves to the winner of Slot.Group.
	SlotGroupWinner SlotRole = iota
	// SlotGroupRunnerUp resolves to the runner-up of Slot.Group.
	SlotGroupRunnerUp
	// SlotBestThird resolves to one of the four best third-placed teams.
	SlotBestThird
	// SlotMatchWinner resolves to the winner of match Slot.SourceSeq.
	SlotMatchWinner
	// SlotMatchLoser resolves to the loser of match Slot.SourceSeq.
	SlotMatchLoser
)

// Slot is a named qualification slot in the bracket chart.
type Slot struct {
	Role SlotRole
	// Group is set for GroupWinner/GroupRunnerUp slots.
	Group string
	// Groups lists the groups the competition chart admits into a
	// BestThird slot. AssignBestThirds currently ignores it (see its doc).
	Groups []string
	// SourceSeq is set for MatchWinner/MatchLoser slots.
	SourceSeq int
}

// FixtureSpec pins one bracket fixture to its sequence number and the two
// slots that feed it.
type FixtureSpec struct {
	Seq   int
	Phase domain.Phase
	Home  Slot
	Away  Slot
}

// Sequence number layout: group stage 1-36, round of 16 37-44, quarter
// finals 45-48, semi finals 49-50, third place 51, final 52.
const (
	FirstRoundOf16Seq = 37
	ThirdPlaceSeq     = 51
	FinalSeq          = 52
)

func winner(group string) Slot   { return Slot{Role: SlotGroupWinner, Group: group} }
func runnerUp(group string) Slot { return Slot{Role: SlotGroupRunnerUp, Group: group} }
func bestThird(groups ...string) Slot {
	return Slot{Role: SlotBestThird, Groups: groups}
}
func winnerOf(seq int) Slot { return Slot{Role: SlotMatchWinner, SourceSeq: seq} }
func loserOf(seq int) Slot  { return Slot{Role: SlotMatchLoser, SourceSeq: seq} }

// RoundOf16Specs is the competition's fixed round-of-16 chart for a
// six-group format.
func RoundOf16Specs() []FixtureSpec {
	return []FixtureSpec{
		{Seq: 37, Phase: domain.PhaseRoundOf16, Home: runnerUp("A"), Away: runnerUp("C")},
		{Seq: 38, Phase: domain.PhaseRoundOf16, Home: winner("B"), Away: bestThird("A", "C", "D")},
		{Seq: 39, Phase: domain.PhaseRoundOf16, Home: winner("D"), Away: bestThird("B", "E", "F")},
		{Seq: 40, Phase: domain.PhaseRoundOf16, Home: winner("A"), Away: bestThird("C", "D", "E")},
		{Seq: 41, Phase: domain.PhaseRoundOf16, Home: winner("C"), Away: bestThird("A", "B", "F")},
		{Seq: 42, Phase: domain.PhaseRoundOf16, Home: winner("F"), Away: runnerUp("E")},
		{Seq: 43, Phase: domain.PhaseRoundOf16, Home: winner("E"), Away: runnerUp("D")},
		{Seq: 44, Phase: domain.PhaseRoundOf16, Home: runnerUp("B"), Away: runnerUp("F")},
	}
}

// QuarterFinalSpecs wires round-of-16 winners into the quarter finals.
func QuarterFinalSpecs() []FixtureSpec {
	return []FixtureSpec{
		{Seq: 45, Phase: domain.PhaseQuarter, Home: winnerOf(37), Away: winnerOf(39)},
		{Seq: 46, Phase: domain.PhaseQuarter, Home: winnerOf(38), Away: winnerOf(42)},
		{Seq: 47, Phase: domain.PhaseQuarter, Home: winnerOf(41), Away: winnerOf(43)},
		{Seq: 48, Phase: domain.PhaseQuarter, Home: winnerOf(40), Away: winnerOf(44)},
	}
}

// SemiFinalSpecs wires quarter-final winners into the semi finals.
func SemiFinalSpecs() []FixtureSpec {
	return []FixtureSpec{
		{Seq: 49, Phase: domain.PhaseSemi, Home: winnerOf(45), Away: winnerOf(46)},
		{Seq: 50, Phase: domain.PhaseSemi, Home: winnerOf(47), Away: winnerOf(48)},
	}
}

// FinalsSpecs wires semi-final losers into the third-place match and the
// winners into the final.
func FinalsSpecs() []FixtureSpec {
	return []FixtureSpec{
		{Seq: ThirdPlaceSeq, Phase: domain.PhaseThirdPlace, Home: loserOf(49), Away: loserOf(50)},
		{Seq: FinalSeq, Phase: domain.PhaseFinal, Home: winnerOf(49), Away: winnerOf(50)},
	}
}

// SpecsForPhase returns the chart for one knockout phase.
func SpecsForPhase(p domain.Phase) []FixtureSpec {
	switch p {
	case domain.PhaseRoundOf16:
		return RoundOf16Specs()
	case domain.PhaseQuarter:
		return QuarterFinalSpecs()
	case domain.PhaseSemi:
		return SemiFinalSpecs()
	case domain.PhaseThirdPlace, domain.PhaseFinal:
		return FinalsSpecs()
	default:
		return nil
	}
}
