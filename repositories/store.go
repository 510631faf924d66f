package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// SQLExecutor is satisfied by both *sqlx.DB and *sqlx.Tx, so repositories can run
// either standalone or inside a transaction.
type SQLExecutor interface {
	sqlx.ExtContext
}

// Store groups the per-entity repositories over one executor.
type Store struct {
	db *sqlx.DB

	Matches MatchRepository
	Players PlayerRepository
	Games   GameRepository
	Events  GameEventRepository
}

func NewStore(db *sqlx.DB) *Store {
	s := bind(db)
	s.db = db
	return s
}

func bind(exec SQLExecutor) *Store {
	return &Store{
		Matches: NewMatchRepository(exec),
		Players: NewPlayerRepository(exec),
		Games:   NewGameRepository(exec),
		Events:  NewGameEventRepository(exec),
	}
}

// InTx runs fn against repositories bound to a single transaction. The transaction is
// committed when fn returns nil and rolled back otherwise. Calling InTx on a store that is
// already transactional runs fn in the enclosing transaction.
func (s *Store) InTx(ctx context.Context, fn func(tx *Store) error) (err error) {
	if s.db == nil {
		return fn(s)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(bind(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback transaction: %w", rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Ping checks the underlying connection. A transactional store is always considered alive.
func (s *Store) Ping(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	return s.db.PingContext(ctx)
}
