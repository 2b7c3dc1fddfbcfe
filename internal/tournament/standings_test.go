package tournament

import (
	"testing"

	"github.com/google/uuid"
	"github.com/latableronde/contest/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func team(name, group string) domain.Team {
	return domain.Team{ID: uuid.New(), Name: name, Group: group}
}

func finished(seq int, home, away domain.Team, hs, as int) domain.Match {
	h, a := hs, as
	return domain.Match{
		Seq:        seq,
		Phase:      domain.PhaseGroup,
		HomeTeamID: &home.ID,
		AwayTeamID: &away.ID,
		HomeScore:  &h,
		AwayScore:  &a,
		Finished:   true,
	}
}

func TestComputeStandings_PointsAndGoals(t *testing.T) {
	a, b, c, d := team("Alpha", "A"), team("Bravo", "A"), team("Charlie", "A"), team("Delta", "A")
	matches := []domain.Match{
		finished(1, a, b, 3, 0), // a wins
		finished(2, c, d, 1, 1), // draw
		finished(3, a, c, 2, 1), // a wins
		finished(4, b, d, 0, 2), // d wins
	}

	table := ComputeStandings([]domain.Team{a, b, c, d}, matches)
	require.Len(t, table, 4)

	assert.Equal(t, a.ID, table[0].Team.ID)
	assert.Equal(t, 6, table[0].Points)
	assert.Equal(t, 2, table[0].Played)
	assert.Equal(t, 5, table[0].GoalsFor)
	assert.Equal(t, 1, table[0].GoalsAgainst)

	assert.Equal(t, d.ID, table[1].Team.ID)
	assert.Equal(t, 4, table[1].Points)

	assert.Equal(t, c.ID, table[2].Team.ID)
	assert.Equal(t, 1, table[2].Points)
	assert.Equal(t, 1, table[2].Drawn)

	assert.Equal(t, b.ID, table[3].Team.ID)
	assert.Equal(t, 0, table[3].Points)
	assert.Equal(t, 2, table[3].Lost)
}

func TestComputeStandings_TiebreakOrder(t *testing.T) {
	a, b, c, d := team("Alpha", "A"), team("Bravo", "A"), team("Charlie", "A"), team("Delta", "A")
	// a and b both win once; a by a wider margin. c and d both lose.
	matches := []domain.Match{
		finished(1, a, c, 4, 0),
		finished(2, b, d, 1, 0),
	}

	table := ComputeStandings([]domain.Team{a, b, c, d}, matches)

	// Equal points, goal difference decides.
	assert.Equal(t, a.ID, table[0].Team.ID)
	assert.Equal(t, b.ID, table[1].Team.ID)
	// Equal points and difference among the losers: goals-for decides
	// (d conceded less but neither scored, so input order holds).
	assert.Equal(t, d.ID, table[2].Team.ID)
	assert.Equal(t, c.ID, table[3].Team.ID)
}

func TestComputeStandings_GoalsForBreaksTie(t *testing.T) {
	a, b, c, d := team("Alpha", "A"), team("Bravo", "A"), team("Charlie", "A"), team("Delta", "A")
	matches := []domain.Match{
		finished(1, a, c, 3, 2), // a: +1, 3 scored
		finished(2, b, d, 1, 0), // b: +1, 1 scored
	}

	table := ComputeStandings([]domain.Team{b, a, c, d}, matches)
	assert.Equal(t, a.ID, table[0].Team.ID, "higher goals-for wins the tie")
}

func TestComputeStandings_StableOnFullTie(t *testing.T) {
	a, b := team("Alpha", "A"), team("Bravo", "A")
	teams := []domain.Team{a, b}

	// No matches: everything level, input order must survive repeated runs.
	for i := 0; i < 5; i++ {
		table := ComputeStandings(teams, nil)
		require.Len(t, table, 2)
		assert.Equal(t, a.ID, table[0].Team.ID)
		assert.Equal(t, b.ID, table[1].Team.ID)
	}
}

func TestComputeStandings_IgnoresUnfinished(t *testing.T) {
	a, b := team("Alpha", "A"), team("Bravo", "A")
	m := finished(1, a, b, 2, 0)
	m.Finished = false

	table := ComputeStandings([]domain.Team{a, b}, []domain.Match{m})
	assert.Equal(t, 0, table[0].Played)
	assert.Equal(t, 0, table[1].Played)
}

func TestRankThirdPlaced(t *testing.T) {
	mkTable := func(thirdPoints, thirdGF int) []domain.Standing {
		return []domain.Standing{
			{Team: team("first", "X"), Points: 9},
			{Team: team("second", "X"), Points: 6},
			{Team: team("third", "X"), Points: thirdPoints, GoalsFor: thirdGF},
		}
	}

	tables := [][]domain.Standing{
		mkTable(3, 2),
		mkTable(5, 1),
		mkTable(3, 4),
		mkTable(6, 0),
	}

	ranked := RankThirdPlaced(tables)
	require.Len(t, ranked, 4)
	assert.Equal(t, 6, ranked[0].Points)
	assert.Equal(t, 5, ranked[1].Points)
	// Two thirds on 3 points: goals-for decides.
	assert.Equal(t, 4, ranked[2].GoalsFor)
	assert.Equal(t, 2, ranked[3].GoalsFor)
}
