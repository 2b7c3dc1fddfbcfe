package domain

import "github.com/google/uuid"

// Team is a competing side. Teams are seeded once and never mutated;
// the Group letter (A through F) ties a team to its first-round pool.
type Team struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	ShortName string    `json:"short_name"`
	Group     string    `json:"group"`
	FlagRef   string    `json:"flag_ref,omitempty"`
}

// Player is a roster entry bound to a team. Goals is a cumulative counter
// maintained by the staff "record scorers" workflow; the contest engine
// only reads it.
type Player struct {
	ID          uuid.UUID `json:"id"`
	TeamID      uuid.UUID `json:"team_id"`
	Name        string    `json:"name"`
	ShirtNumber int       `json:"shirt_number"`
	Goals       int       `json:"goals"`
}

// Groups lists the six group letters in tournament order.
var Groups = []string{"A", "B", "C", "D", "E", "F"}
