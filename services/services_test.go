package services

import (
	"context"
	"testing"
	"time"

	"github.com/Dosada05/pickleball-scorecard/db/dbtest"
	"github.com/Dosada05/pickleball-scorecard/models"
	"github.com/Dosada05/pickleball-scorecard/repositories"
)

func openTestStore(t *testing.T) *repositories.Store {
	t.Helper()
	return repositories.NewStore(dbtest.OpenSQLite(t))
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func singlesInput() CreateMatchInput {
	return CreateMatchInput{
		Players: []PlayerInput{
			{Name: "Alice", Gender: models.GenderFemale, Team: 1},
			{Name: "Bob", Gender: models.GenderMale, Team: 2},
		},
		Config: MatchConfigInput{
			GameFormat:   models.GameFormatSingles,
			MaxGames:     intPtr(3),
			WinningScore: intPtr(11),
		},
	}
}

func doublesInput() CreateMatchInput {
	return CreateMatchInput{
		Players: []PlayerInput{
			{Name: "Ann", Gender: models.GenderFemale, Team: 1},
			{Name: "Ben", Gender: models.GenderMale, Team: 1},
			{Name: "Cid", Gender: models.GenderMale, Team: 2},
			{Name: "Dee", Gender: models.GenderOther, Team: 2},
		},
	}
}

// stepClock returns a clock that advances by step on every call.
func stepClock(start time.Time, step time.Duration) func() time.Time {
	current := start
	return func() time.Time {
		now := current
		current = current.Add(step)
		return now
	}
}

func mustCreateMatch(t *testing.T, svc MatchService, input CreateMatchInput) *models.Match {
	t.Helper()
	match, err := svc.CreateMatch(context.Background(), input)
	if err != nil {
		t.Fatalf("create match: %v", err)
	}
	return match
}

func mustCreateGame(t *testing.T, svc GameService, match *models.Match) *models.Game {
	t.Helper()
	game, err := svc.CreateGame(context.Background(), match.ID)
	if err != nil {
		t.Fatalf("create game: %v", err)
	}
	return game
}

func mustStartGame(t *testing.T, svc GameService, game *models.Game) *models.Game {
	t.Helper()
	started, err := svc.StartGame(context.Background(), game.ID)
	if err != nil {
		t.Fatalf("start game: %v", err)
	}
	return started
}
