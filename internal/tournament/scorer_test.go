package tournament

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScorePronostic(t *testing.T) {
	tests := []struct {
		name                   string
		actualH, actualA       int
		predH, predA           int
		points                 int
		exact, correct         bool
	}{
		{"exact draw", 2, 2, 2, 2, PointsExactScore, true, true},
		{"right category wrong score", 2, 2, 1, 1, PointsCorrectWinner, false, true},
		{"wrong outcome", 2, 2, 3, 0, 0, false, false},
		{"exact home win", 3, 1, 3, 1, PointsExactScore, true, true},
		{"home win right category", 3, 1, 1, 0, PointsCorrectWinner, false, true},
		{"away win right category", 0, 2, 1, 4, PointsCorrectWinner, false, true},
		{"predicted draw actual home win", 1, 0, 0, 0, 0, false, false},
		{"predicted away actual home", 2, 0, 0, 1, 0, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScorePronostic(tt.actualH, tt.actualA, tt.predH, tt.predA)
			assert.Equal(t, tt.points, got.Points)
			assert.Equal(t, tt.exact, got.ExactScore)
			assert.Equal(t, tt.correct, got.CorrectWinner)
		})
	}
}

func TestScorePronostic_Recompute(t *testing.T) {
	first := ScorePronostic(2, 1, 2, 1)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ScorePronostic(2, 1, 2, 1), "recompute must not accumulate")
	}
}
