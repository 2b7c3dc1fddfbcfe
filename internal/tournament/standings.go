// Package tournament holds the pure contest rules: group standings,
// bracket wiring, pronostic scoring and the buteur prize draw. Nothing in
// this package touches the database; services feed it loaded entities.
package tournament

import (
	"sort"

	"github.com/latableronde/contest/internal/domain"
)

// Points awarded in group play.
const (
	pointsWin  = 3
	pointsDraw = 1
)

// ComputeStandings builds the ranked table for the given teams from their
// finished matches. Matches that are unfinished, missing a score, or not
// between two of the given teams are ignored. The sort is stable: teams
// level on points, goal difference and goals scored keep their input order
// (head-to-head is deliberately not applied).
func ComputeStandings(teams []domain.Team, matches []domain.Match) []domain.Standing {
	index := make(map[string]int, len(teams))
	table := make([]domain.Standing, len(teams))
	for i, t := range teams {
		index[t.ID.String()] = i
		table[i] = domain.Standing{Team: t}
	}

	for _, m := range matches {
		if !m.Finished || !m.HasResult() || !m.HasTeams() {
			continue
		}
		hi, okHome := index[m.HomeTeamID.String()]
		ai, okAway := index[m.AwayTeamID.String()]
		if !okHome || !okAway {
			continue
		}
		applyResult(&table[hi], *m.HomeScore, *m.AwayScore)
		applyResult(&table[ai], *m.AwayScore, *m.HomeScore)
	}

	sortStandings(table)
	return table
}

func applyResult(s *domain.Standing, scored, conceded int) {
	s.Played++
	s.GoalsFor += scored
	s.GoalsAgainst += conceded
	switch {
	case scored > conceded:
		s.Won++
		s.Points += pointsWin
	case scored == conceded:
		s.Drawn++
		s.Points += pointsDraw
	default:
		s.Lost++
	}
}

// RankThirdPlaced ranks the third-placed team of each group table against
// each other with the same comparator used inside a group. The first four
// of the returned slice qualify for the round of 16.
func RankThirdPlaced(tables [][]domain.Standing) []domain.Standing {
	thirds := make([]domain.Standing, 0, len(tables))
	for _, table := range tables {
		if len(table) > 2 {
			thirds = append(thirds, table[2])
		}
	}
	sortStandings(thirds)
	return thirds
}

func sortStandings(table []domain.Standing) {
	sort.SliceStable(table, func(i, j int) bool {
		a, b := table[i], table[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDifference() != b.GoalDifference() {
			return a.GoalDifference() > b.GoalDifference()
		}
		return a.GoalsFor > b.GoalsFor
	})
}
