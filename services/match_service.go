package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Dosada05/pickleball-scorecard/models"
	"github.com/Dosada05/pickleball-scorecard/repositories"
	"github.com/google/uuid"
)

type MatchService interface {
	CreateMatch(ctx context.Context, input CreateMatchInput) (*models.Match, error)
	GetMatch(ctx context.Context, id uuid.UUID) (*models.Match, error)
	ListMatches(ctx context.Context) ([]*models.Match, error)
	UpdateMatch(ctx context.Context, id uuid.UUID, patch MatchPatch) (*models.Match, error)
	DeleteMatch(ctx context.Context, id uuid.UUID) error
}

type PlayerInput struct {
	Name   string        `json:"name" validate:"required,max=100"`
	Gender models.Gender `json:"gender" validate:"required,oneof=M F X"`
	Team   int           `json:"team" validate:"required,oneof=1 2"`
}

// MatchConfigInput holds the match configuration. Omitted fields take the model defaults.
type MatchConfigInput struct {
	GameFormat      models.GameFormat    `json:"gameFormat" validate:"omitempty,oneof=singles doubles"`
	ScoringSystem   models.ScoringSystem `json:"scoringSystem" validate:"omitempty,oneof=rally service"`
	MaxGames        *int                 `json:"maxGames" validate:"omitempty,min=1"`
	WinningScore    *int                 `json:"winningScore" validate:"omitempty,min=1"`
	TimeoutsPerGame *int                 `json:"timeoutsPerGame" validate:"omitempty,min=0"`
	Venue           *string              `json:"venue" validate:"omitempty,max=200"`
	CourtNumber     *string              `json:"courtNumber" validate:"omitempty,max=50"`
}

// CreateMatchInput is the roster plus configuration of a new match. Roster size is
// checked by the HTTP boundary, not here.
type CreateMatchInput struct {
	Players []PlayerInput    `json:"players" validate:"required,dive"`
	Config  MatchConfigInput `json:"config"`
}

// MatchPatch lists every match field a caller may overwrite. Nil fields are left as is;
// an empty venue or court number clears it.
type MatchPatch struct {
	GameFormat      *models.GameFormat    `json:"gameFormat" validate:"omitempty,oneof=singles doubles"`
	ScoringSystem   *models.ScoringSystem `json:"scoringSystem" validate:"omitempty,oneof=rally service"`
	MaxGames        *int                  `json:"maxGames" validate:"omitempty,min=1"`
	WinningScore    *int                  `json:"winningScore" validate:"omitempty,min=1"`
	TimeoutsPerGame *int                  `json:"timeoutsPerGame" validate:"omitempty,min=0"`
	Venue           *string               `json:"venue" validate:"omitempty,max=200"`
	CourtNumber     *string               `json:"courtNumber" validate:"omitempty,max=50"`
	Status          *models.MatchStatus   `json:"status" validate:"omitempty,oneof=pending in_progress completed forfeited"`
}

type matchService struct {
	store *repositories.Store
	now   func() time.Time
}

func NewMatchService(store *repositories.Store) MatchService {
	return &matchService{
		store: store,
		now:   time.Now,
	}
}

func (s *matchService) CreateMatch(ctx context.Context, input CreateMatchInput) (*models.Match, error) {
	now := s.now().UTC()
	match, err := newMatch(input.Config, now)
	if err != nil {
		return nil, err
	}
	players, err := newRoster(input.Players)
	if err != nil {
		return nil, err
	}

	err = s.store.InTx(ctx, func(tx *repositories.Store) error {
		if err := tx.Matches.Create(ctx, match); err != nil {
			return err
		}
		return tx.Players.CreateRoster(ctx, match.ID, players)
	})
	if err != nil {
		return nil, persistence("create match", err)
	}

	return s.GetMatch(ctx, match.ID)
}

func (s *matchService) GetMatch(ctx context.Context, id uuid.UUID) (*models.Match, error) {
	return composeMatch(ctx, s.store, id, true)
}

func (s *matchService) ListMatches(ctx context.Context) ([]*models.Match, error) {
	matches, err := s.store.Matches.List(ctx)
	if err != nil {
		return nil, persistence("list matches", err)
	}
	if len(matches) == 0 {
		return []*models.Match{}, nil
	}

	ids := make([]uuid.UUID, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m.ID)
	}

	players, err := s.store.Players.ListByMatches(ctx, ids)
	if err != nil {
		return nil, persistence("list players", err)
	}
	games, err := s.store.Games.ListByMatches(ctx, ids)
	if err != nil {
		return nil, persistence("list games", err)
	}

	for _, m := range matches {
		m.Players = nonNil(players[m.ID])
		m.Games = nonNil(games[m.ID])
		summary := models.Summarize(m)
		m.Summary = &summary
	}
	return matches, nil
}

func (s *matchService) UpdateMatch(ctx context.Context, id uuid.UUID, patch MatchPatch) (*models.Match, error) {
	err := s.store.InTx(ctx, func(tx *repositories.Store) error {
		match, err := tx.Matches.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := patch.apply(match); err != nil {
			return err
		}
		return tx.Matches.Update(ctx, match)
	})
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrMatchNotFound):
			return nil, matchNotFound(id)
		case errors.Is(err, ErrValidationFailed):
			return nil, err
		default:
			return nil, persistence("update match", err)
		}
	}

	return s.GetMatch(ctx, id)
}

func (s *matchService) DeleteMatch(ctx context.Context, id uuid.UUID) error {
	err := s.store.InTx(ctx, func(tx *repositories.Store) error {
		return tx.Matches.Delete(ctx, id)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return matchNotFound(id)
		}
		return persistence("delete match", err)
	}
	return nil
}

func (p MatchPatch) apply(m *models.Match) error {
	if p.GameFormat != nil {
		if !p.GameFormat.Valid() {
			return invalidf("gameFormat %q is not supported", *p.GameFormat)
		}
		m.GameFormat = *p.GameFormat
	}
	if p.ScoringSystem != nil {
		if !p.ScoringSystem.Valid() {
			return invalidf("scoringSystem %q is not supported", *p.ScoringSystem)
		}
		m.ScoringSystem = *p.ScoringSystem
	}
	if p.MaxGames != nil {
		if *p.MaxGames < 1 {
			return invalidf("maxGames must be at least 1")
		}
		m.MaxGames = *p.MaxGames
	}
	if p.WinningScore != nil {
		if *p.WinningScore < 1 {
			return invalidf("winningScore must be at least 1")
		}
		m.WinningScore = *p.WinningScore
	}
	if p.TimeoutsPerGame != nil {
		if *p.TimeoutsPerGame < 0 {
			return invalidf("timeoutsPerGame must not be negative")
		}
		m.TimeoutsPerGame = *p.TimeoutsPerGame
	}
	if p.Venue != nil {
		m.Venue = optionalText(p.Venue)
	}
	if p.CourtNumber != nil {
		m.CourtNumber = optionalText(p.CourtNumber)
	}
	if p.Status != nil {
		if !p.Status.Valid() {
			return invalidf("status %q is not supported", *p.Status)
		}
		m.Status = *p.Status
	}
	return nil
}

func newMatch(cfg MatchConfigInput, now time.Time) (*models.Match, error) {
	match := &models.Match{
		ID:              uuid.New(),
		GameFormat:      models.DefaultGameFormat,
		ScoringSystem:   models.DefaultScoringSystem,
		MaxGames:        models.DefaultMaxGames,
		WinningScore:    models.DefaultWinningScore,
		TimeoutsPerGame: models.DefaultTimeoutsPerGame,
		Venue:           optionalText(cfg.Venue),
		CourtNumber:     optionalText(cfg.CourtNumber),
		Status:          models.MatchStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if cfg.GameFormat != "" {
		match.GameFormat = cfg.GameFormat
	}
	if cfg.ScoringSystem != "" {
		match.ScoringSystem = cfg.ScoringSystem
	}
	if cfg.MaxGames != nil {
		match.MaxGames = *cfg.MaxGames
	}
	if cfg.WinningScore != nil {
		match.WinningScore = *cfg.WinningScore
	}
	if cfg.TimeoutsPerGame != nil {
		match.TimeoutsPerGame = *cfg.TimeoutsPerGame
	}

	switch {
	case !match.GameFormat.Valid():
		return nil, invalidf("gameFormat %q is not supported", match.GameFormat)
	case !match.ScoringSystem.Valid():
		return nil, invalidf("scoringSystem %q is not supported", match.ScoringSystem)
	case match.MaxGames < 1:
		return nil, invalidf("maxGames must be at least 1")
	case match.WinningScore < 1:
		return nil, invalidf("winningScore must be at least 1")
	case match.TimeoutsPerGame < 0:
		return nil, invalidf("timeoutsPerGame must not be negative")
	}
	return match, nil
}

func newRoster(inputs []PlayerInput) ([]models.Player, error) {
	players := make([]models.Player, 0, len(inputs))
	for i, in := range inputs {
		name := strings.TrimSpace(in.Name)
		switch {
		case name == "":
			return nil, invalidf("players[%d].name is required", i)
		case !in.Gender.Valid():
			return nil, invalidf("players[%d].gender %q is not supported", i, in.Gender)
		case !models.ValidTeam(in.Team):
			return nil, invalidf("players[%d].team must be 1 or 2", i)
		}
		players = append(players, models.Player{
			ID:     uuid.New(),
			Name:   name,
			Gender: in.Gender,
			Team:   in.Team,
		})
	}
	return players, nil
}

// composeMatch loads a match with its players and games, and the events of every game
// when withEvents is set.
func composeMatch(ctx context.Context, store *repositories.Store, id uuid.UUID, withEvents bool) (*models.Match, error) {
	match, err := store.Matches.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, matchNotFound(id)
		}
		return nil, persistence("get match", err)
	}

	players, err := store.Players.ListByMatch(ctx, id)
	if err != nil {
		return nil, persistence("list players", err)
	}
	games, err := store.Games.ListByMatch(ctx, id)
	if err != nil {
		return nil, persistence("list games", err)
	}

	if withEvents && len(games) > 0 {
		gameIDs := make([]uuid.UUID, 0, len(games))
		for _, g := range games {
			gameIDs = append(gameIDs, g.ID)
		}
		events, err := store.Events.ListByGames(ctx, gameIDs)
		if err != nil {
			return nil, persistence("list game events", err)
		}
		for i := range games {
			games[i].Events = nonNil(events[games[i].ID])
		}
	}

	match.Players = nonNil(players)
	match.Games = nonNil(games)
	summary := models.Summarize(match)
	match.Summary = &summary
	return match, nil
}

func optionalText(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
