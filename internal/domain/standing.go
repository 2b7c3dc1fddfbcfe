package domain

// Standing is one row of a group table. Standings are never persisted;
// they are always recomputed from finished matches.
type Standing struct {
	Team         Team `json:"team"`
	Played       int  `json:"played"`
	Won          int  `json:"won"`
	Drawn        int  `json:"drawn"`
	Lost         int  `json:"lost"`
	GoalsFor     int  `json:"goals_for"`
	GoalsAgainst int  `json:"goals_against"`
	Points       int  `json:"points"`
}

// GoalDifference is the standard goals-for minus goals-against tiebreaker.
func (s Standing) GoalDifference() int {
	return s.GoalsFor - s.GoalsAgainst
}
