package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/pickleball-scorecard/models"
	"github.com/Dosada05/pickleball-scorecard/repositories"
	"github.com/google/uuid"
)

type GameService interface {
	CreateGame(ctx context.Context, matchID uuid.UUID) (*models.Game, error)
	GetGame(ctx context.Context, id uuid.UUID) (*models.Game, error)
	UpdateGame(ctx context.Context, id uuid.UUID, patch GamePatch) (*models.Game, error)
	StartGame(ctx context.Context, id uuid.UUID) (*models.Game, error)
	CompleteGame(ctx context.Context, id uuid.UUID) (*models.Game, error)
	AddEvent(ctx context.Context, gameID uuid.UUID, input CreateEventInput) (*models.GameEvent, error)

	RecordScore(ctx context.Context, gameID uuid.UUID, input RecordScoreInput) (*models.Game, error)
	RecordTimeout(ctx context.Context, gameID uuid.UUID, input RecordTimeoutInput) (*models.Game, error)
	ResetGame(ctx context.Context, gameID uuid.UUID) (*models.Game, error)
	RecordForfeit(ctx context.Context, gameID uuid.UUID, input RecordForfeitInput) (*models.Game, error)
}

// GamePatch lists every game field a caller may overwrite directly. No cross-field
// consistency is enforced: a status set here does not stamp startedAt or completedAt.
type GamePatch struct {
	Team1Score    *int               `json:"team1Score" validate:"omitempty,min=0,max=999"`
	Team2Score    *int               `json:"team2Score" validate:"omitempty,min=0,max=999"`
	Team1Timeouts *int               `json:"team1Timeouts" validate:"omitempty,min=0,max=999"`
	Team2Timeouts *int               `json:"team2Timeouts" validate:"omitempty,min=0,max=999"`
	CurrentServer *int               `json:"currentServer" validate:"omitempty,oneof=1 2"`
	ServerNumber  *int               `json:"serverNumber" validate:"omitempty,oneof=1 2"`
	Status        *models.GameStatus `json:"status" validate:"omitempty,oneof=pending in_progress completed"`
}

type CreateEventInput struct {
	Type   models.EventType `json:"type" validate:"required,oneof=score timeout warning technical_warning technical_foul medical_timeout switch_sides delay forfeit"`
	Team   *int             `json:"team" validate:"omitempty,oneof=1 2"`
	Player *string          `json:"player" validate:"omitempty,max=100"`
	Data   map[string]any   `json:"data"`
}

type RecordScoreInput struct {
	Team      int `json:"team" validate:"required,oneof=1 2"`
	Increment int `json:"increment" validate:"required,min=-999,max=999"`
}

type RecordTimeoutInput struct {
	Team int `json:"team" validate:"required,oneof=1 2"`
}

type ForfeitType string

const (
	ForfeitGame  ForfeitType = "game"
	ForfeitMatch ForfeitType = "match"
)

type RecordForfeitInput struct {
	Team        int         `json:"team" validate:"required,oneof=1 2"`
	ForfeitType ForfeitType `json:"forfeitType" validate:"required,oneof=game match"`
}

// maxCounter bounds every score and timeout counter as well as a single score increment.
const maxCounter = 999

type gameService struct {
	store *repositories.Store
	now   func() time.Time
}

func NewGameService(store *repositories.Store) GameService {
	return &gameService{
		store: store,
		now:   time.Now,
	}
}

func (s *gameService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// CreateGame numbers the new game after the games the match already has. The count and
// the insert are separate statements, so concurrent calls can hand out the same number.
func (s *gameService) CreateGame(ctx context.Context, matchID uuid.UUID) (*models.Game, error) {
	if _, err := s.store.Matches.GetByID(ctx, matchID); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, matchNotFound(matchID)
		}
		return nil, persistence("get match", err)
	}

	count, err := s.store.Games.CountByMatch(ctx, matchID)
	if err != nil {
		return nil, persistence("count games", err)
	}

	game := &models.Game{
		ID:            uuid.New(),
		MatchID:       matchID,
		GameNumber:    count + 1,
		CurrentServer: models.Team1,
		ServerNumber:  1,
		Status:        models.GameStatusPending,
		CreatedAt:     s.timestamp(),
	}
	if err := s.store.Games.Create(ctx, game); err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, matchNotFound(matchID)
		}
		return nil, persistence("create game", err)
	}

	return s.GetGame(ctx, game.ID)
}

func (s *gameService) GetGame(ctx context.Context, id uuid.UUID) (*models.Game, error) {
	game, err := s.store.Games.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, gameNotFound(id)
		}
		return nil, persistence("get game", err)
	}

	events, err := s.store.Events.ListByGame(ctx, id)
	if err != nil {
		return nil, persistence("list game events", err)
	}
	game.Events = nonNil(events)

	match, err := s.store.Matches.GetByID(ctx, game.MatchID)
	if err != nil {
		return nil, persistence("get parent match", err)
	}
	players, err := s.store.Players.ListByMatch(ctx, game.MatchID)
	if err != nil {
		return nil, persistence("list players", err)
	}
	match.Players = nonNil(players)
	game.Match = match

	return game, nil
}

func (s *gameService) UpdateGame(ctx context.Context, id uuid.UUID, patch GamePatch) (*models.Game, error) {
	if err := s.mutate(ctx, id, patch.apply); err != nil {
		return nil, err
	}
	return s.GetGame(ctx, id)
}

// StartGame marks the game in progress and promotes a pending parent match. This is the
// only place a match leaves pending on its own.
func (s *gameService) StartGame(ctx context.Context, id uuid.UUID) (*models.Game, error) {
	now := s.timestamp()

	err := s.store.InTx(ctx, func(tx *repositories.Store) error {
		game, err := tx.Games.GetByID(ctx, id)
		if err != nil {
			return err
		}
		game.Status = models.GameStatusInProgress
		game.StartedAt = &now

		match, err := tx.Matches.GetByID(ctx, game.MatchID)
		if err != nil {
			return err
		}
		if match.Status == models.MatchStatusPending {
			match.Status = models.MatchStatusInProgress
			if err := tx.Matches.Update(ctx, match); err != nil {
				return err
			}
		}

		return tx.Games.Update(ctx, game)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, gameNotFound(id)
		}
		return nil, persistence("start game", err)
	}

	return s.GetGame(ctx, id)
}

// CompleteGame stamps completion only. Scores are not checked and the match is not
// advanced, even when this was its last game.
func (s *gameService) CompleteGame(ctx context.Context, id uuid.UUID) (*models.Game, error) {
	now := s.timestamp()
	err := s.mutate(ctx, id, func(game *models.Game) error {
		game.Status = models.GameStatusCompleted
		game.CompletedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetGame(ctx, id)
}

func (s *gameService) AddEvent(ctx context.Context, gameID uuid.UUID, input CreateEventInput) (*models.GameEvent, error) {
	if !input.Type.Valid() {
		return nil, invalidf("event type %q is not supported", input.Type)
	}
	if input.Team != nil && !models.ValidTeam(*input.Team) {
		return nil, invalidf("team must be 1 or 2")
	}

	event := &models.GameEvent{
		ID:     uuid.New(),
		GameID: gameID,
		Type:   input.Type,
		Team:   input.Team,
		Player: optionalText(input.Player),
		Data:   input.Data,
	}

	err := s.store.InTx(ctx, func(tx *repositories.Store) error {
		if _, err := tx.Games.GetByID(ctx, gameID); err != nil {
			return err
		}

		// Keep the per-game log strictly ordered even if the clock stalls or steps back.
		ts := s.timestamp()
		last, ok, err := tx.Events.LastTimestamp(ctx, gameID)
		if err != nil {
			return err
		}
		if ok && !ts.After(last) {
			ts = last.Add(time.Microsecond)
		}
		event.Timestamp = ts

		return tx.Events.Create(ctx, event)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return nil, gameNotFound(gameID)
		}
		return nil, persistence("add game event", err)
	}

	return event, nil
}

// RecordScore applies a score change and logs it. The new score is floored at zero.
// The update and the event are two writes, matching how scoring clients drive the API.
func (s *gameService) RecordScore(ctx context.Context, gameID uuid.UUID, input RecordScoreInput) (*models.Game, error) {
	if !models.ValidTeam(input.Team) {
		return nil, invalidf("team must be 1 or 2")
	}
	if input.Increment == 0 {
		return nil, invalidf("increment must not be zero")
	}
	if input.Increment < -maxCounter || input.Increment > maxCounter {
		return nil, invalidf("increment must be between %d and %d", -maxCounter, maxCounter)
	}

	var newScore int
	err := s.mutate(ctx, gameID, func(game *models.Game) error {
		if game.Status != models.GameStatusInProgress {
			return ErrGameNotInProgress
		}
		newScore = max(0, game.Score(input.Team)+input.Increment)
		if newScore > maxCounter {
			return invalidf("score must not exceed %d", maxCounter)
		}
		game.SetScore(input.Team, newScore)
		return nil
	})
	if err != nil {
		return nil, err
	}

	team := input.Team
	_, err = s.AddEvent(ctx, gameID, CreateEventInput{
		Type: models.EventScore,
		Team: &team,
		Data: map[string]any{"increment": input.Increment, "newScore": newScore},
	})
	if err != nil {
		return nil, err
	}
	return s.GetGame(ctx, gameID)
}

// RecordTimeout spends one of the team's timeouts for the game. Only an in-progress game
// accepts timeouts, and never more than the match allows per game.
func (s *gameService) RecordTimeout(ctx context.Context, gameID uuid.UUID, input RecordTimeoutInput) (*models.Game, error) {
	if !models.ValidTeam(input.Team) {
		return nil, invalidf("team must be 1 or 2")
	}

	err := s.mutateTx(ctx, gameID, func(tx *repositories.Store, game *models.Game) error {
		if game.Status != models.GameStatusInProgress {
			return ErrGameNotInProgress
		}
		match, err := tx.Matches.GetByID(ctx, game.MatchID)
		if err != nil {
			return persistence("load match", err)
		}
		if game.Timeouts(input.Team) >= match.TimeoutsPerGame {
			return fmt.Errorf("%w: team %d used %d of %d", ErrNoTimeoutsLeft,
				input.Team, game.Timeouts(input.Team), match.TimeoutsPerGame)
		}
		game.SetTimeouts(input.Team, game.Timeouts(input.Team)+1)
		return nil
	})
	if err != nil {
		return nil, err
	}

	team := input.Team
	if _, err := s.AddEvent(ctx, gameID, CreateEventInput{Type: models.EventTimeout, Team: &team}); err != nil {
		return nil, err
	}
	return s.GetGame(ctx, gameID)
}

// ResetGame zeroes scores, timeouts and service but keeps the status.
func (s *gameService) ResetGame(ctx context.Context, gameID uuid.UUID) (*models.Game, error) {
	zero, one := 0, 1
	return s.UpdateGame(ctx, gameID, GamePatch{
		Team1Score:    &zero,
		Team2Score:    &zero,
		Team1Timeouts: &zero,
		Team2Timeouts: &zero,
		CurrentServer: &one,
		ServerNumber:  &one,
	})
}

// RecordForfeit logs the forfeit, forfeits the whole match when asked to and completes
// the game. Only an in-progress game can be forfeited.
func (s *gameService) RecordForfeit(ctx context.Context, gameID uuid.UUID, input RecordForfeitInput) (*models.Game, error) {
	if !models.ValidTeam(input.Team) {
		return nil, invalidf("team must be 1 or 2")
	}
	if input.ForfeitType != ForfeitGame && input.ForfeitType != ForfeitMatch {
		return nil, invalidf("forfeitType must be %q or %q", ForfeitGame, ForfeitMatch)
	}

	game, err := s.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.Status != models.GameStatusInProgress {
		return nil, ErrGameNotInProgress
	}

	team := input.Team
	_, err = s.AddEvent(ctx, gameID, CreateEventInput{
		Type: models.EventForfeit,
		Team: &team,
		Data: map[string]any{"forfeitType": string(input.ForfeitType)},
	})
	if err != nil {
		return nil, err
	}

	if input.ForfeitType == ForfeitMatch {
		if err := s.forfeitMatch(ctx, gameID); err != nil {
			return nil, err
		}
	}

	return s.CompleteGame(ctx, gameID)
}

func (s *gameService) forfeitMatch(ctx context.Context, gameID uuid.UUID) error {
	err := s.store.InTx(ctx, func(tx *repositories.Store) error {
		game, err := tx.Games.GetByID(ctx, gameID)
		if err != nil {
			return err
		}
		match, err := tx.Matches.GetByID(ctx, game.MatchID)
		if err != nil {
			return err
		}
		match.Status = models.MatchStatusForfeited
		return tx.Matches.Update(ctx, match)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrGameNotFound) {
			return gameNotFound(gameID)
		}
		return persistence("forfeit match", err)
	}
	return nil
}

// mutate loads the game, lets fn change it and saves it back in one transaction.
// Errors returned by fn are passed through unchanged.
func (s *gameService) mutate(ctx context.Context, id uuid.UUID, fn func(*models.Game) error) error {
	return s.mutateTx(ctx, id, func(_ *repositories.Store, game *models.Game) error {
		return fn(game)
	})
}

// mutateTx is mutate for callbacks that read more rows through the transaction.
func (s *gameService) mutateTx(ctx context.Context, id uuid.UUID, fn func(*repositories.Store, *models.Game) error) error {
	var fnErr error
	err := s.store.InTx(ctx, func(tx *repositories.Store) error {
		game, err := tx.Games.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if fnErr = fn(tx, game); fnErr != nil {
			return fnErr
		}
		return tx.Games.Update(ctx, game)
	})
	switch {
	case err == nil:
		return nil
	case fnErr != nil:
		return fnErr
	case errors.Is(err, repositories.ErrGameNotFound):
		return gameNotFound(id)
	default:
		return persistence("update game", err)
	}
}

func (p GamePatch) apply(g *models.Game) error {
	counters := []struct {
		name  string
		value *int
		set   func(int)
	}{
		{"team1Score", p.Team1Score, func(v int) { g.Team1Score = v }},
		{"team2Score", p.Team2Score, func(v int) { g.Team2Score = v }},
		{"team1Timeouts", p.Team1Timeouts, func(v int) { g.Team1Timeouts = v }},
		{"team2Timeouts", p.Team2Timeouts, func(v int) { g.Team2Timeouts = v }},
	}
	for _, c := range counters {
		if c.value == nil {
			continue
		}
		if *c.value < 0 {
			return invalidf("%s must not be negative", c.name)
		}
		if *c.value > maxCounter {
			return invalidf("%s must not exceed %d", c.name, maxCounter)
		}
		c.set(*c.value)
	}

	if p.CurrentServer != nil {
		if !models.ValidTeam(*p.CurrentServer) {
			return invalidf("currentServer must be 1 or 2")
		}
		g.CurrentServer = *p.CurrentServer
	}
	if p.ServerNumber != nil {
		if *p.ServerNumber != 1 && *p.ServerNumber != 2 {
			return invalidf("serverNumber must be 1 or 2")
		}
		g.ServerNumber = *p.ServerNumber
	}
	if p.Status != nil {
		if !p.Status.Valid() {
			return invalidf("status %q is not supported", *p.Status)
		}
		g.Status = *p.Status
	}
	return nil
}
