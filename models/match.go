package models

import (
	"time"

	"github.com/google/uuid"
)

type MatchStatus string

const (
	MatchStatusPending    MatchStatus = "pending"
	MatchStatusInProgress MatchStatus = "in_progress"
	MatchStatusCompleted  MatchStatus = "completed"
	MatchStatusForfeited  MatchStatus = "forfeited"
)

func (s MatchStatus) Valid() bool {
	switch s {
	case MatchStatusPending, MatchStatusInProgress, MatchStatusCompleted, MatchStatusForfeited:
		return true
	}
	return false
}

type GameFormat string

const (
	GameFormatSingles GameFormat = "singles"
	GameFormatDoubles GameFormat = "doubles"
)

func (f GameFormat) Valid() bool {
	return f == GameFormatSingles || f == GameFormatDoubles
}

// PlayersPerTeam returns the roster size of one team for the format.
func (f GameFormat) PlayersPerTeam() int {
	if f == GameFormatSingles {
		return 1
	}
	return 2
}

type ScoringSystem string

const (
	ScoringRally   ScoringSystem = "rally"
	ScoringService ScoringSystem = "service"
)

func (s ScoringSystem) Valid() bool {
	return s == ScoringRally || s == ScoringService
}

// Match configuration defaults.
const (
	DefaultGameFormat      = GameFormatDoubles
	DefaultScoringSystem   = ScoringRally
	DefaultMaxGames        = 3
	DefaultWinningScore    = 11
	DefaultTimeoutsPerGame = 2
)

// Match is a contest between two teams with a fixed configuration.
type Match struct {
	ID              uuid.UUID     `json:"id"`
	GameFormat      GameFormat    `json:"gameFormat"`
	ScoringSystem   ScoringSystem `json:"scoringSystem"`
	MaxGames        int           `json:"maxGames"`
	WinningScore    int           `json:"winningScore"`
	TimeoutsPerGame int           `json:"timeoutsPerGame"`
	Venue           *string       `json:"venue,omitempty"`
	CourtNumber     *string       `json:"courtNumber,omitempty"`
	Status          MatchStatus   `json:"status"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`

	Players []Player      `json:"players"`
	Games   []Game        `json:"games"`
	Summary *MatchSummary `json:"summary,omitempty"`
}
