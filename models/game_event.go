package models

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventScore            EventType = "score"
	EventTimeout          EventType = "timeout"
	EventWarning          EventType = "warning"
	EventTechnicalWarning EventType = "technical_warning"
	EventTechnicalFoul    EventType = "technical_foul"
	EventMedicalTimeout   EventType = "medical_timeout"
	EventSwitchSides      EventType = "switch_sides"
	EventDelay            EventType = "delay"
	EventForfeit          EventType = "forfeit"
)

func (t EventType) Valid() bool {
	switch t {
	case EventScore, EventTimeout, EventWarning, EventTechnicalWarning, EventTechnicalFoul,
		EventMedicalTimeout, EventSwitchSides, EventDelay, EventForfeit:
		return true
	}
	return false
}

// GameEvent is an append-only record of something that happened during a game.
type GameEvent struct {
	ID        uuid.UUID      `json:"id"`
	GameID    uuid.UUID      `json:"gameId"`
	Type      EventType      `json:"type"`
	Team      *int           `json:"team,omitempty"`
	Player    *string        `json:"player,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}
