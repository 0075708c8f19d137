package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"footpath-matrix-service/internal/domain"
)

// SQLite backed pair store for single-machine runs without a cache server.
type SqlitePairStore struct {
	DB *sql.DB
}

func NewSqlitePairStore(db *sql.DB) *SqlitePairStore {
	return &SqlitePairStore{DB: db}
}

const replacePairQuery = `
	INSERT OR REPLACE INTO pair_durations (
        pair_key,
        duration_seconds
    )
    VALUES (?, ?);
	`

func (s *SqlitePairStore) Ping(ctx context.Context) error {
	if s.DB == nil {
		return errors.New("pair store: db is nil")
	}
	if err := s.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite ping: %w: %w", domain.ErrResourceUnavailable, err)
	}
	return nil
}

func (s *SqlitePairStore) Put(ctx context.Context, key string, d domain.Duration) error {
	if s.DB == nil {
		return errors.New("pair store: db is nil")
	}
	if key == "" {
		return errors.New("insert pair: empty key")
	}

	if _, err := s.DB.ExecContext(ctx, replacePairQuery, key, float64(d)); err != nil {
		return fmt.Errorf("insert pair %q: %w: %w", key, domain.ErrTransport, err)
	}
	return nil
}

func (s *SqlitePairStore) PutBatch(ctx context.Context, records []domain.PairRecord) error {
	if s.DB == nil {
		return errors.New("pair store: db is nil")
	}

	if len(records) == 0 {
		return nil
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert pairs: db begin: %w: %w", domain.ErrTransport, err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, replacePairQuery)
	if err != nil {
		return fmt.Errorf("insert pairs: db prepare: %w: %w", domain.ErrTransport, err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, r.Key(), float64(r.Duration)); err != nil {
			return fmt.Errorf("insert pair %q: %w: %w", r.Key(), domain.ErrTransport, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert pairs commit: %w: %w", domain.ErrTransport, err)
	}

	return nil
}

func (s *SqlitePairStore) Get(ctx context.Context, key string) (domain.Duration, error) {
	if s.DB == nil {
		return 0, errors.New("pair store: db is nil")
	}

	q := `
	SELECT duration_seconds
    FROM pair_durations
    WHERE pair_key = ?;
	`

	var seconds float64
	err := s.DB.QueryRowContext(ctx, q, key).Scan(&seconds)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("get pair %q: %w", key, domain.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("get pair %q: %w: %w", key, domain.ErrTransport, err)
	}

	return domain.Duration(seconds), nil
}
