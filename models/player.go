package models

import "github.com/google/uuid"

type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
	GenderOther  Gender = "X"
)

func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale || g == GenderOther
}

// Player belongs to exactly one match and never changes after creation.
type Player struct {
	ID      uuid.UUID `json:"id"`
	MatchID uuid.UUID `json:"matchId"`
	Name    string    `json:"name"`
	Gender  Gender    `json:"gender"`
	Team    int       `json:"team"`
}
