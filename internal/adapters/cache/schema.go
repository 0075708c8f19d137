package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// InitSchema creates the pair_durations table. The statement is portable
// between Postgres and SQLite.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	createPairDurationsQuery := `
	CREATE TABLE IF NOT EXISTS pair_durations (
        pair_key TEXT PRIMARY KEY,
        duration_seconds DOUBLE PRECISION NOT NULL
    );
	`

	if _, err := db.ExecContext(ctx, createPairDurationsQuery); err != nil {
		return fmt.Errorf("init schema: create pair_durations: %w", err)
	}

	return nil
}
