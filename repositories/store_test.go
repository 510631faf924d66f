package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Dosada05/pickleball-scorecard/db/dbtest"
	"github.com/Dosada05/pickleball-scorecard/models"
	"github.com/google/uuid"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(dbtest.OpenSQLite(t))
}

func seedMatch(t *testing.T, store *Store, createdAt time.Time) *models.Match {
	t.Helper()

	venue := "Center Court"
	match := &models.Match{
		ID:              uuid.New(),
		GameFormat:      models.GameFormatDoubles,
		ScoringSystem:   models.ScoringRally,
		MaxGames:        3,
		WinningScore:    11,
		TimeoutsPerGame: 2,
		Venue:           &venue,
		Status:          models.MatchStatusPending,
		CreatedAt:       createdAt,
		UpdatedAt:       createdAt,
	}
	if err := store.Matches.Create(context.Background(), match); err != nil {
		t.Fatalf("create match: %v", err)
	}
	return match
}

func seedGame(t *testing.T, store *Store, matchID uuid.UUID, number int) *models.Game {
	t.Helper()

	game := &models.Game{
		ID:            uuid.New(),
		MatchID:       matchID,
		GameNumber:    number,
		CurrentServer: models.Team1,
		ServerNumber:  1,
		Status:        models.GameStatusPending,
		CreatedAt:     time.Now().UTC(),
	}
	if err := store.Games.Create(context.Background(), game); err != nil {
		t.Fatalf("create game: %v", err)
	}
	return game
}

func TestMatchRepositoryRoundTrip(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()
	createdAt := time.Now().UTC().Add(-time.Hour).Truncate(time.Microsecond)
	match := seedMatch(t, store, createdAt)

	got, err := store.Matches.GetByID(ctx, match.ID)
	if err != nil {
		t.Fatalf("get match: %v", err)
	}
	if got.GameFormat != models.GameFormatDoubles || got.WinningScore != 11 {
		t.Fatalf("match config = %+v", got)
	}
	if got.Venue == nil || *got.Venue != "Center Court" {
		t.Fatalf("venue = %v, want Center Court", got.Venue)
	}
	if got.CourtNumber != nil {
		t.Fatalf("court number = %v, want nil", *got.CourtNumber)
	}
	if !got.CreatedAt.Equal(createdAt) {
		t.Fatalf("created at = %v, want %v", got.CreatedAt, createdAt)
	}

	got.Status = models.MatchStatusInProgress
	got.Venue = nil
	if err := store.Matches.Update(ctx, got); err != nil {
		t.Fatalf("update match: %v", err)
	}
	updated, err := store.Matches.GetByID(ctx, match.ID)
	if err != nil {
		t.Fatalf("get updated match: %v", err)
	}
	if updated.Status != models.MatchStatusInProgress {
		t.Fatalf("status = %q, want %q", updated.Status, models.MatchStatusInProgress)
	}
	if updated.Venue != nil {
		t.Fatalf("venue = %q, want cleared", *updated.Venue)
	}
	if !updated.UpdatedAt.After(createdAt) {
		t.Fatalf("updated at = %v, want after %v", updated.UpdatedAt, createdAt)
	}
}

func TestMatchRepositoryNotFound(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()
	missing := uuid.New()

	if _, err := store.Matches.GetByID(ctx, missing); !errors.Is(err, ErrMatchNotFound) {
		t.Fatalf("get err = %v, want ErrMatchNotFound", err)
	}
	if err := store.Matches.Update(ctx, &models.Match{ID: missing}); !errors.Is(err, ErrMatchNotFound) {
		t.Fatalf("update err = %v, want ErrMatchNotFound", err)
	}
	if err := store.Matches.Delete(ctx, missing); !errors.Is(err, ErrMatchNotFound) {
		t.Fatalf("delete err = %v, want ErrMatchNotFound", err)
	}
}

func TestMatchRepositoryListNewestFirst(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	older := seedMatch(t, store, base)
	newer := seedMatch(t, store, base.Add(time.Hour))

	matches, err := store.Matches.List(context.Background())
	if err != nil {
		t.Fatalf("list matches: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("matches = %d, want 2", len(matches))
	}
	if matches[0].ID != newer.ID || matches[1].ID != older.ID {
		t.Fatalf("order = [%s %s], want [%s %s]", matches[0].ID, matches[1].ID, newer.ID, older.ID)
	}
}

func TestPlayerRepositoryKeepsRosterOrder(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()
	first := seedMatch(t, store, time.Now().UTC())
	second := seedMatch(t, store, time.Now().UTC())

	roster := []models.Player{
		{Name: "Zoe", Gender: models.GenderFemale, Team: 2},
		{Name: "Adam", Gender: models.GenderMale, Team: 1},
	}
	if err := store.Players.CreateRoster(ctx, first.ID, roster); err != nil {
		t.Fatalf("create roster: %v", err)
	}
	if roster[0].ID == uuid.Nil || roster[0].MatchID != first.ID {
		t.Fatalf("roster ids not assigned: %+v", roster[0])
	}

	players, err := store.Players.ListByMatch(ctx, first.ID)
	if err != nil {
		t.Fatalf("list players: %v", err)
	}
	if len(players) != 2 || players[0].Name != "Zoe" || players[1].Name != "Adam" {
		t.Fatalf("players = %+v, want Zoe then Adam", players)
	}

	byMatch, err := store.Players.ListByMatches(ctx, []uuid.UUID{first.ID, second.ID})
	if err != nil {
		t.Fatalf("list players by matches: %v", err)
	}
	if got := len(byMatch[first.ID]); got != 2 {
		t.Fatalf("players of first match = %d, want 2", got)
	}
	if got := len(byMatch[second.ID]); got != 0 {
		t.Fatalf("players of second match = %d, want 0", got)
	}
}

func TestPlayerRepositoryRejectsUnknownMatch(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	err := store.Players.CreateRoster(context.Background(), uuid.New(), []models.Player{
		{Name: "Solo", Gender: models.GenderOther, Team: 1},
	})
	if !errors.Is(err, ErrMatchNotFound) {
		t.Fatalf("err = %v, want ErrMatchNotFound", err)
	}
}

func TestGameRepositoryUpdateAndCount(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()
	match := seedMatch(t, store, time.Now().UTC())
	game := seedGame(t, store, match.ID, 1)
	seedGame(t, store, match.ID, 2)

	count, err := store.Games.CountByMatch(ctx, match.ID)
	if err != nil {
		t.Fatalf("count games: %v", err)
	}
	if count != 2 {
		t.Fatalf("count = %d, want 2", count)
	}

	started := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	game.Team1Score = 7
	game.Team2Timeouts = 1
	game.Status = models.GameStatusInProgress
	game.StartedAt = &started
	if err := store.Games.Update(ctx, game); err != nil {
		t.Fatalf("update game: %v", err)
	}

	got, err := store.Games.GetByID(ctx, game.ID)
	if err != nil {
		t.Fatalf("get game: %v", err)
	}
	if got.Team1Score != 7 || got.Team2Timeouts != 1 || got.Status != models.GameStatusInProgress {
		t.Fatalf("game = %+v", got)
	}
	if got.StartedAt == nil || !got.StartedAt.Equal(started) {
		t.Fatalf("started at = %v, want %v", got.StartedAt, started)
	}
	if got.CompletedAt != nil {
		t.Fatalf("completed at = %v, want nil", got.CompletedAt)
	}

	games, err := store.Games.ListByMatch(ctx, match.ID)
	if err != nil {
		t.Fatalf("list games: %v", err)
	}
	if len(games) != 2 || games[0].GameNumber != 1 || games[1].GameNumber != 2 {
		t.Fatalf("games = %+v, want numbers 1 and 2", games)
	}
}

func TestGameRepositoryRejectsUnknownMatch(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	game := &models.Game{ID: uuid.New(), MatchID: uuid.New(), GameNumber: 1, CurrentServer: 1, ServerNumber: 1, Status: models.GameStatusPending}
	if err := store.Games.Create(context.Background(), game); !errors.Is(err, ErrMatchNotFound) {
		t.Fatalf("err = %v, want ErrMatchNotFound", err)
	}
	if _, err := store.Games.GetByID(context.Background(), game.ID); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("get err = %v, want ErrGameNotFound", err)
	}
}

func TestGameEventRepositoryOrdersAndDecodesData(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()
	match := seedMatch(t, store, time.Now().UTC())
	game := seedGame(t, store, match.ID, 1)

	if _, ok, err := store.Events.LastTimestamp(ctx, game.ID); err != nil || ok {
		t.Fatalf("LastTimestamp on empty log = (%v, %v), want (false, nil)", ok, err)
	}

	base := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	team := 2
	player := "Zoe"
	events := []*models.GameEvent{
		{ID: uuid.New(), GameID: game.ID, Type: models.EventTimeout, Team: &team, Timestamp: base.Add(2 * time.Microsecond)},
		{ID: uuid.New(), GameID: game.ID, Type: models.EventScore, Team: &team, Player: &player, Data: map[string]any{"increment": 1, "newScore": 1}, Timestamp: base.Add(time.Microsecond)},
	}
	for _, e := range events {
		if err := store.Events.Create(ctx, e); err != nil {
			t.Fatalf("create event: %v", err)
		}
	}

	got, err := store.Events.ListByGame(ctx, game.ID)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("events = %d, want 2", len(got))
	}
	if got[0].Type != models.EventScore || got[1].Type != models.EventTimeout {
		t.Fatalf("order = [%s %s], want [score timeout]", got[0].Type, got[1].Type)
	}
	if got[0].Data["newScore"] != float64(1) {
		t.Fatalf("data = %v, want newScore 1", got[0].Data)
	}
	if got[0].Player == nil || *got[0].Player != "Zoe" {
		t.Fatalf("player = %v, want Zoe", got[0].Player)
	}
	if got[1].Data != nil {
		t.Fatalf("data = %v, want nil", got[1].Data)
	}

	last, ok, err := store.Events.LastTimestamp(ctx, game.ID)
	if err != nil || !ok {
		t.Fatalf("LastTimestamp = (%v, %v)", ok, err)
	}
	if want := base.Add(2 * time.Microsecond); !last.Equal(want) {
		t.Fatalf("last = %v, want %v", last, want)
	}

	if err := store.Events.Create(ctx, &models.GameEvent{ID: uuid.New(), GameID: uuid.New(), Type: models.EventDelay, Timestamp: base}); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("create for unknown game err = %v, want ErrGameNotFound", err)
	}
}

func TestMatchDeleteCascadesWithoutOrphans(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()
	doomed := seedMatch(t, store, time.Now().UTC())
	kept := seedMatch(t, store, time.Now().UTC())

	for _, m := range []*models.Match{doomed, kept} {
		if err := store.Players.CreateRoster(ctx, m.ID, []models.Player{{Name: "A", Gender: models.GenderMale, Team: 1}}); err != nil {
			t.Fatalf("create roster: %v", err)
		}
		game := seedGame(t, store, m.ID, 1)
		if err := store.Events.Create(ctx, &models.GameEvent{ID: uuid.New(), GameID: game.ID, Type: models.EventSwitchSides, Timestamp: time.Now().UTC()}); err != nil {
			t.Fatalf("create event: %v", err)
		}
	}

	err := store.InTx(ctx, func(tx *Store) error {
		return tx.Matches.Delete(ctx, doomed.ID)
	})
	if err != nil {
		t.Fatalf("delete match: %v", err)
	}

	counts := map[string]int{
		"matches":     1,
		"players":     1,
		"games":       1,
		"game_events": 1,
	}
	for table, want := range counts {
		var got int
		if err := store.db.GetContext(ctx, &got, "SELECT COUNT(*) FROM "+table); err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if got != want {
			t.Fatalf("%s rows = %d, want %d", table, got, want)
		}
	}
}

func TestInTxRollsBackOnError(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	var id uuid.UUID
	err := store.InTx(ctx, func(tx *Store) error {
		now := time.Now().UTC()
		m := &models.Match{
			ID: uuid.New(), GameFormat: models.GameFormatSingles, ScoringSystem: models.ScoringRally,
			MaxGames: 1, WinningScore: 11, Status: models.MatchStatusPending, CreatedAt: now, UpdatedAt: now,
		}
		id = m.ID
		if err := tx.Matches.Create(ctx, m); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if _, err := store.Matches.GetByID(ctx, id); !errors.Is(err, ErrMatchNotFound) {
		t.Fatalf("match survived rollback: err = %v", err)
	}
}
