// Package dbtest opens migrated SQLite databases for tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Dosada05/pickleball-scorecard/db"
	"github.com/jmoiron/sqlx"
)

// OpenSQLite returns a migrated database in a fresh temp dir, closed on cleanup.
func OpenSQLite(t testing.TB) *sqlx.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "scorecard.sqlite")
	conn, err := db.Connect("sqlite", path, 5*time.Second)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if err := conn.Close(); err != nil {
			t.Fatalf("close sqlite: %v", err)
		}
	})

	if err := db.Migrate(context.Background(), conn); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return conn
}
