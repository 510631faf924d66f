package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/pickleball-scorecard/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var ErrMatchNotFound = errors.New("match not found")

type MatchRepository interface {
	Create(ctx context.Context, match *models.Match) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Match, error)
	List(ctx context.Context) ([]*models.Match, error)
	Update(ctx context.Context, match *models.Match) error
	// Delete removes the match together with its players, games and game events.
	// Run it inside Store.InTx so the cascade is atomic.
	Delete(ctx context.Context, id uuid.UUID) error
}

const matchColumns = `id, game_format, scoring_system, max_games, winning_score, timeouts_per_game,
	venue, court_number, status, created_at, updated_at`

type matchRow struct {
	ID              uuid.UUID      `db:"id"`
	GameFormat      string         `db:"game_format"`
	ScoringSystem   string         `db:"scoring_system"`
	MaxGames        int            `db:"max_games"`
	WinningScore    int            `db:"winning_score"`
	TimeoutsPerGame int            `db:"timeouts_per_game"`
	Venue           sql.NullString `db:"venue"`
	CourtNumber     sql.NullString `db:"court_number"`
	Status          string         `db:"status"`
	CreatedAt       int64          `db:"created_at"`
	UpdatedAt       int64          `db:"updated_at"`
}

func (row matchRow) toModel() *models.Match {
	return &models.Match{
		ID:              row.ID,
		GameFormat:      models.GameFormat(row.GameFormat),
		ScoringSystem:   models.ScoringSystem(row.ScoringSystem),
		MaxGames:        row.MaxGames,
		WinningScore:    row.WinningScore,
		TimeoutsPerGame: row.TimeoutsPerGame,
		Venue:           stringFromNull(row.Venue),
		CourtNumber:     stringFromNull(row.CourtNumber),
		Status:          models.MatchStatus(row.Status),
		CreatedAt:       fromMicros(row.CreatedAt),
		UpdatedAt:       fromMicros(row.UpdatedAt),
	}
}

type sqlMatchRepository struct {
	exec SQLExecutor
}

func NewMatchRepository(exec SQLExecutor) MatchRepository {
	return &sqlMatchRepository{exec: exec}
}

func (r *sqlMatchRepository) Create(ctx context.Context, match *models.Match) error {
	if match.CreatedAt.IsZero() {
		match.CreatedAt = time.Now().UTC()
	}
	if match.UpdatedAt.IsZero() {
		match.UpdatedAt = match.CreatedAt
	}

	query := r.exec.Rebind(`
		INSERT INTO matches (` + matchColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := r.exec.ExecContext(ctx, query,
		match.ID,
		string(match.GameFormat),
		string(match.ScoringSystem),
		match.MaxGames,
		match.WinningScore,
		match.TimeoutsPerGame,
		match.Venue,
		match.CourtNumber,
		string(match.Status),
		toMicros(match.CreatedAt),
		toMicros(match.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert match %s: %w", match.ID, err)
	}
	return nil
}

func (r *sqlMatchRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Match, error) {
	query := r.exec.Rebind(`SELECT ` + matchColumns + ` FROM matches WHERE id = ?`)

	var row matchRow
	if err := sqlx.GetContext(ctx, r.exec, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to get match by id %s: %w", id, err)
	}
	return row.toModel(), nil
}

func (r *sqlMatchRepository) List(ctx context.Context) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches ORDER BY created_at DESC, id DESC`

	var rows []matchRow
	if err := sqlx.SelectContext(ctx, r.exec, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}

	matches := make([]*models.Match, 0, len(rows))
	for _, row := range rows {
		matches = append(matches, row.toModel())
	}
	return matches, nil
}

func (r *sqlMatchRepository) Update(ctx context.Context, match *models.Match) error {
	match.UpdatedAt = time.Now().UTC()

	query := r.exec.Rebind(`
		UPDATE matches
		SET game_format = ?, scoring_system = ?, max_games = ?, winning_score = ?,
		    timeouts_per_game = ?, venue = ?, court_number = ?, status = ?, updated_at = ?
		WHERE id = ?`)

	result, err := r.exec.ExecContext(ctx, query,
		string(match.GameFormat),
		string(match.ScoringSystem),
		match.MaxGames,
		match.WinningScore,
		match.TimeoutsPerGame,
		match.Venue,
		match.CourtNumber,
		string(match.Status),
		toMicros(match.UpdatedAt),
		match.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update match %s: %w", match.ID, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *sqlMatchRepository) Delete(ctx context.Context, id uuid.UUID) error {
	// Children first: the schema restricts deletes of referenced rows.
	cascade := []struct {
		what  string
		query string
	}{
		{"game events", `DELETE FROM game_events WHERE game_id IN (SELECT id FROM games WHERE match_id = ?)`},
		{"games", `DELETE FROM games WHERE match_id = ?`},
		{"players", `DELETE FROM players WHERE match_id = ?`},
	}
	for _, step := range cascade {
		if _, err := r.exec.ExecContext(ctx, r.exec.Rebind(step.query), id); err != nil {
			return fmt.Errorf("failed to delete %s of match %s: %w", step.what, id, err)
		}
	}

	result, err := r.exec.ExecContext(ctx, r.exec.Rebind(`DELETE FROM matches WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete match %s: %w", id, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}
