package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Dosada05/pickleball-scorecard/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// GameEventRepository is append-only: events are never updated or deleted on their own.
type GameEventRepository interface {
	Create(ctx context.Context, event *models.GameEvent) error
	ListByGame(ctx context.Context, gameID uuid.UUID) ([]models.GameEvent, error)
	ListByGames(ctx context.Context, gameIDs []uuid.UUID) (map[uuid.UUID][]models.GameEvent, error)
	// LastTimestamp returns the newest event time of the game; ok is false when it has none.
	LastTimestamp(ctx context.Context, gameID uuid.UUID) (ts time.Time, ok bool, err error)
}

const gameEventColumns = `id, game_id, type, team, player, data, occurred_at`

type gameEventRow struct {
	ID         uuid.UUID      `db:"id"`
	GameID     uuid.UUID      `db:"game_id"`
	Type       string         `db:"type"`
	Team       sql.NullInt64  `db:"team"`
	Player     sql.NullString `db:"player"`
	Data       sql.NullString `db:"data"`
	OccurredAt int64          `db:"occurred_at"`
}

func (row gameEventRow) toModel() (models.GameEvent, error) {
	event := models.GameEvent{
		ID:        row.ID,
		GameID:    row.GameID,
		Type:      models.EventType(row.Type),
		Team:      intFromNull(row.Team),
		Player:    stringFromNull(row.Player),
		Timestamp: fromMicros(row.OccurredAt),
	}
	if row.Data.Valid && row.Data.String != "" {
		if err := json.Unmarshal([]byte(row.Data.String), &event.Data); err != nil {
			return models.GameEvent{}, fmt.Errorf("failed to decode data of event %s: %w", row.ID, err)
		}
	}
	return event, nil
}

type sqlGameEventRepository struct {
	exec SQLExecutor
}

func NewGameEventRepository(exec SQLExecutor) GameEventRepository {
	return &sqlGameEventRepository{exec: exec}
}

func (r *sqlGameEventRepository) Create(ctx context.Context, event *models.GameEvent) error {
	var data sql.NullString
	if event.Data != nil {
		raw, err := json.Marshal(event.Data)
		if err != nil {
			return fmt.Errorf("failed to encode data of event %s: %w", event.ID, err)
		}
		data = sql.NullString{String: string(raw), Valid: true}
	}

	query := r.exec.Rebind(`INSERT INTO game_events (` + gameEventColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`)

	_, err := r.exec.ExecContext(ctx, query,
		event.ID,
		event.GameID,
		string(event.Type),
		event.Team,
		event.Player,
		data,
		toMicros(event.Timestamp),
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrGameNotFound
		}
		return fmt.Errorf("failed to insert %s event for game %s: %w", event.Type, event.GameID, err)
	}
	return nil
}

func (r *sqlGameEventRepository) ListByGame(ctx context.Context, gameID uuid.UUID) ([]models.GameEvent, error) {
	query := r.exec.Rebind(`SELECT ` + gameEventColumns + ` FROM game_events WHERE game_id = ? ORDER BY occurred_at ASC`)

	var rows []gameEventRow
	if err := sqlx.SelectContext(ctx, r.exec, &rows, query, gameID); err != nil {
		return nil, fmt.Errorf("failed to list events of game %s: %w", gameID, err)
	}

	events := make([]models.GameEvent, 0, len(rows))
	for _, row := range rows {
		event, err := row.toModel()
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}

func (r *sqlGameEventRepository) ListByGames(ctx context.Context, gameIDs []uuid.UUID) (map[uuid.UUID][]models.GameEvent, error) {
	byGame := make(map[uuid.UUID][]models.GameEvent, len(gameIDs))
	if len(gameIDs) == 0 {
		return byGame, nil
	}

	query, args, err := sqlx.In(`SELECT `+gameEventColumns+` FROM game_events WHERE game_id IN (?) ORDER BY game_id, occurred_at ASC`, gameIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to build events query: %w", err)
	}

	var rows []gameEventRow
	if err := sqlx.SelectContext(ctx, r.exec, &rows, r.exec.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list events of %d games: %w", len(gameIDs), err)
	}

	for _, row := range rows {
		event, err := row.toModel()
		if err != nil {
			return nil, err
		}
		byGame[row.GameID] = append(byGame[row.GameID], event)
	}
	return byGame, nil
}

func (r *sqlGameEventRepository) LastTimestamp(ctx context.Context, gameID uuid.UUID) (time.Time, bool, error) {
	query := r.exec.Rebind(`SELECT MAX(occurred_at) FROM game_events WHERE game_id = ?`)

	var last sql.NullInt64
	if err := sqlx.GetContext(ctx, r.exec, &last, query, gameID); err != nil {
		return time.Time{}, false, fmt.Errorf("failed to read last event time of game %s: %w", gameID, err)
	}
	if !last.Valid {
		return time.Time{}, false, nil
	}
	return fromMicros(last.Int64), true, nil
}
