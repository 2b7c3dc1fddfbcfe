package tournament

// Points awarded per pronostic outcome.
const (
	PointsExactScore    = 10
	PointsCorrectWinner = 3
)

// ScoreOutcome is the scorer's verdict on one pronostic.
type ScoreOutcome struct {
	Points        int
	ExactScore    bool
	CorrectWinner bool
}

// ScorePronostic compares a predicted score against the final one.
// An exact score earns PointsExactScore; matching only the outcome
// category (home win, draw, away win) earns PointsCorrectWinner;
// anything else earns nothing. The result is a pure recomputation, so
// calling it again for the same inputs always yields the same verdict.
func ScorePronostic(actualHome, actualAway, predictedHome, predictedAway int) ScoreOutcome {
	if predictedHome == actualHome && predictedAway == actualAway {
		return ScoreOutcome{Points: PointsExactScore, ExactScore: true, CorrectWinner: true}
	}
	if outcomeCategory(predictedHome, predictedAway) == outcomeCategory(actualHome, actualAway) {
		return ScoreOutcome{Points: PointsCorrectWinner, CorrectWinner: true}
	}
	return ScoreOutcome{}
}

func outcomeCategory(home, away int) int {
	switch {
	case home > away:
		return 1
	case home < away:
		return -1
	default:
		return 0
	}
}
