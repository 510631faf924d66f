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

var ErrGameNotFound = errors.New("game not found")

type GameRepository interface {
	Create(ctx context.Context, game *models.Game) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Game, error)
	CountByMatch(ctx context.Context, matchID uuid.UUID) (int, error)
	ListByMatch(ctx context.Context, matchID uuid.UUID) ([]models.Game, error)
	ListByMatches(ctx context.Context, matchIDs []uuid.UUID) (map[uuid.UUID][]models.Game, error)
	Update(ctx context.Context, game *models.Game) error
}

const gameColumns = `id, match_id, game_number, team1_score, team2_score, team1_timeouts, team2_timeouts,
	current_server, server_number, status, started_at, completed_at, created_at`

type gameRow struct {
	ID            uuid.UUID     `db:"id"`
	MatchID       uuid.UUID     `db:"match_id"`
	GameNumber    int           `db:"game_number"`
	Team1Score    int           `db:"team1_score"`
	Team2Score    int           `db:"team2_score"`
	Team1Timeouts int           `db:"team1_timeouts"`
	Team2Timeouts int           `db:"team2_timeouts"`
	CurrentServer int           `db:"current_server"`
	ServerNumber  int           `db:"server_number"`
	Status        string        `db:"status"`
	StartedAt     sql.NullInt64 `db:"started_at"`
	CompletedAt   sql.NullInt64 `db:"completed_at"`
	CreatedAt     int64         `db:"created_at"`
}

func (row gameRow) toModel() models.Game {
	return models.Game{
		ID:            row.ID,
		MatchID:       row.MatchID,
		GameNumber:    row.GameNumber,
		Team1Score:    row.Team1Score,
		Team2Score:    row.Team2Score,
		Team1Timeouts: row.Team1Timeouts,
		Team2Timeouts: row.Team2Timeouts,
		CurrentServer: row.CurrentServer,
		ServerNumber:  row.ServerNumber,
		Status:        models.GameStatus(row.Status),
		StartedAt:     timeFromNull(row.StartedAt),
		CompletedAt:   timeFromNull(row.CompletedAt),
		CreatedAt:     fromMicros(row.CreatedAt),
	}
}

type sqlGameRepository struct {
	exec SQLExecutor
}

func NewGameRepository(exec SQLExecutor) GameRepository {
	return &sqlGameRepository{exec: exec}
}

func (r *sqlGameRepository) Create(ctx context.Context, game *models.Game) error {
	if game.CreatedAt.IsZero() {
		game.CreatedAt = time.Now().UTC()
	}

	query := r.exec.Rebind(`
		INSERT INTO games (` + gameColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := r.exec.ExecContext(ctx, query,
		game.ID,
		game.MatchID,
		game.GameNumber,
		game.Team1Score,
		game.Team2Score,
		game.Team1Timeouts,
		game.Team2Timeouts,
		game.CurrentServer,
		game.ServerNumber,
		string(game.Status),
		nullMicros(game.StartedAt),
		nullMicros(game.CompletedAt),
		toMicros(game.CreatedAt),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrMatchNotFound
		}
		return fmt.Errorf("failed to insert game %d of match %s: %w", game.GameNumber, game.MatchID, err)
	}
	return nil
}

func (r *sqlGameRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Game, error) {
	query := r.exec.Rebind(`SELECT ` + gameColumns + ` FROM games WHERE id = ?`)

	var row gameRow
	if err := sqlx.GetContext(ctx, r.exec, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to get game by id %s: %w", id, err)
	}
	game := row.toModel()
	return &game, nil
}

func (r *sqlGameRepository) CountByMatch(ctx context.Context, matchID uuid.UUID) (int, error) {
	query := r.exec.Rebind(`SELECT COUNT(*) FROM games WHERE match_id = ?`)

	var count int
	if err := sqlx.GetContext(ctx, r.exec, &count, query, matchID); err != nil {
		return 0, fmt.Errorf("failed to count games of match %s: %w", matchID, err)
	}
	return count, nil
}

func (r *sqlGameRepository) ListByMatch(ctx context.Context, matchID uuid.UUID) ([]models.Game, error) {
	query := r.exec.Rebind(`SELECT ` + gameColumns + ` FROM games WHERE match_id = ? ORDER BY game_number ASC, created_at ASC`)

	var rows []gameRow
	if err := sqlx.SelectContext(ctx, r.exec, &rows, query, matchID); err != nil {
		return nil, fmt.Errorf("failed to list games of match %s: %w", matchID, err)
	}

	games := make([]models.Game, 0, len(rows))
	for _, row := range rows {
		games = append(games, row.toModel())
	}
	return games, nil
}

func (r *sqlGameRepository) ListByMatches(ctx context.Context, matchIDs []uuid.UUID) (map[uuid.UUID][]models.Game, error) {
	byMatch := make(map[uuid.UUID][]models.Game, len(matchIDs))
	if len(matchIDs) == 0 {
		return byMatch, nil
	}

	query, args, err := sqlx.In(`SELECT `+gameColumns+` FROM games WHERE match_id IN (?) ORDER BY match_id, game_number ASC, created_at ASC`, matchIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to build games query: %w", err)
	}

	var rows []gameRow
	if err := sqlx.SelectContext(ctx, r.exec, &rows, r.exec.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list games of %d matches: %w", len(matchIDs), err)
	}

	for _, row := range rows {
		byMatch[row.MatchID] = append(byMatch[row.MatchID], row.toModel())
	}
	return byMatch, nil
}

func (r *sqlGameRepository) Update(ctx context.Context, game *models.Game) error {
	query := r.exec.Rebind(`
		UPDATE games
		SET team1_score = ?, team2_score = ?, team1_timeouts = ?, team2_timeouts = ?,
		    current_server = ?, server_number = ?, status = ?, started_at = ?, completed_at = ?
		WHERE id = ?`)

	result, err := r.exec.ExecContext(ctx, query,
		game.Team1Score,
		game.Team2Score,
		game.Team1Timeouts,
		game.Team2Timeouts,
		game.CurrentServer,
		game.ServerNumber,
		string(game.Status),
		nullMicros(game.StartedAt),
		nullMicros(game.CompletedAt),
		game.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update game %s: %w", game.ID, err)
	}
	return checkAffectedRows(result, ErrGameNotFound)
}
