package repositories

import (
	"context"
	"fmt"

	"github.com/Dosada05/pickleball-scorecard/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type PlayerRepository interface {
	// CreateRoster inserts the players of one match, keeping their order.
	CreateRoster(ctx context.Context, matchID uuid.UUID, players []models.Player) error
	ListByMatch(ctx context.Context, matchID uuid.UUID) ([]models.Player, error)
	ListByMatches(ctx context.Context, matchIDs []uuid.UUID) (map[uuid.UUID][]models.Player, error)
}

const playerColumns = `id, match_id, position, name, gender, team`

type playerRow struct {
	ID       uuid.UUID `db:"id"`
	MatchID  uuid.UUID `db:"match_id"`
	Position int       `db:"position"`
	Name     string    `db:"name"`
	Gender   string    `db:"gender"`
	Team     int       `db:"team"`
}

func (row playerRow) toModel() models.Player {
	return models.Player{
		ID:      row.ID,
		MatchID: row.MatchID,
		Name:    row.Name,
		Gender:  models.Gender(row.Gender),
		Team:    row.Team,
	}
}

type sqlPlayerRepository struct {
	exec SQLExecutor
}

func NewPlayerRepository(exec SQLExecutor) PlayerRepository {
	return &sqlPlayerRepository{exec: exec}
}

func (r *sqlPlayerRepository) CreateRoster(ctx context.Context, matchID uuid.UUID, players []models.Player) error {
	query := r.exec.Rebind(`INSERT INTO players (` + playerColumns + `) VALUES (?, ?, ?, ?, ?, ?)`)

	for i := range players {
		p := &players[i]
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
		p.MatchID = matchID
		if _, err := r.exec.ExecContext(ctx, query, p.ID, matchID, i, p.Name, string(p.Gender), p.Team); err != nil {
			if isForeignKeyViolation(err) {
				return ErrMatchNotFound
			}
			return fmt.Errorf("failed to insert player %q for match %s: %w", p.Name, matchID, err)
		}
	}
	return nil
}

func (r *sqlPlayerRepository) ListByMatch(ctx context.Context, matchID uuid.UUID) ([]models.Player, error) {
	query := r.exec.Rebind(`SELECT ` + playerColumns + ` FROM players WHERE match_id = ? ORDER BY position ASC`)

	var rows []playerRow
	if err := sqlx.SelectContext(ctx, r.exec, &rows, query, matchID); err != nil {
		return nil, fmt.Errorf("failed to list players of match %s: %w", matchID, err)
	}

	players := make([]models.Player, 0, len(rows))
	for _, row := range rows {
		players = append(players, row.toModel())
	}
	return players, nil
}

func (r *sqlPlayerRepository) ListByMatches(ctx context.Context, matchIDs []uuid.UUID) (map[uuid.UUID][]models.Player, error) {
	byMatch := make(map[uuid.UUID][]models.Player, len(matchIDs))
	if len(matchIDs) == 0 {
		return byMatch, nil
	}

	query, args, err := sqlx.In(`SELECT `+playerColumns+` FROM players WHERE match_id IN (?) ORDER BY match_id, position ASC`, matchIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to build players query: %w", err)
	}

	var rows []playerRow
	if err := sqlx.SelectContext(ctx, r.exec, &rows, r.exec.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list players of %d matches: %w", len(matchIDs), err)
	}

	for _, row := range rows {
		byMatch[row.MatchID] = append(byMatch[row.MatchID], row.toModel())
	}
	return byMatch, nil
}
