package models

import (
	"time"

	"github.com/google/uuid"
)

type GameStatus string

const (
	GameStatusPending    GameStatus = "pending"
	GameStatusInProgress GameStatus = "in_progress"
	GameStatusCompleted  GameStatus = "completed"
)

func (s GameStatus) Valid() bool {
	switch s {
	case GameStatusPending, GameStatusInProgress, GameStatusCompleted:
		return true
	}
	return false
}

const (
	Team1 = 1
	Team2 = 2
)

// ValidTeam reports whether team is one of the two sides of a match.
func ValidTeam(team int) bool {
	return team == Team1 || team == Team2
}

type Game struct {
	ID            uuid.UUID  `json:"id"`
	MatchID       uuid.UUID  `json:"matchId"`
	GameNumber    int        `json:"gameNumber"`
	Team1Score    int        `json:"team1Score"`
	Team2Score    int        `json:"team2Score"`
	Team1Timeouts int        `json:"team1Timeouts"`
	Team2Timeouts int        `json:"team2Timeouts"`
	CurrentServer int        `json:"currentServer"`
	ServerNumber  int        `json:"serverNumber"`
	Status        GameStatus `json:"status"`
	StartedAt     *time.Time `json:"startedAt,omitempty"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`

	Events []GameEvent `json:"events"`
	Match  *Match      `json:"match,omitempty"`
}

// Score returns the score of the given team.
func (g *Game) Score(team int) int {
	if team == Team1 {
		return g.Team1Score
	}
	return g.Team2Score
}

// SetScore overwrites the score of the given team.
func (g *Game) SetScore(team, score int) {
	if team == Team1 {
		g.Team1Score = score
	} else {
		g.Team2Score = score
	}
}

func (g *Game) Timeouts(team int) int {
	if team == Team1 {
		return g.Team1Timeouts
	}
	return g.Team2Timeouts
}

func (g *Game) SetTimeouts(team, timeouts int) {
	if team == Team1 {
		g.Team1Timeouts = timeouts
	} else {
		g.Team2Timeouts = timeouts
	}
}

// Winner returns the team with the strictly higher score of a completed game, or 0.
func (g *Game) Winner() int {
	if g.Status != GameStatusCompleted {
		return 0
	}
	switch {
	case g.Team1Score > g.Team2Score:
		return Team1
	case g.Team2Score > g.Team1Score:
		return Team2
	}
	return 0
}
