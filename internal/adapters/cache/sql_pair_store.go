package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"footpath-matrix-service/internal/domain"
	"footpath-matrix-service/internal/platform/obs"

	"go.uber.org/zap"
)

// SQLPairStore is a Postgres-backed pair store (pgx stdlib driver).
type SQLPairStore struct {
	DB  *sql.DB
	log *zap.Logger
}

func NewSQLPairStore(db *sql.DB, log *zap.Logger) *SQLPairStore {
	return &SQLPairStore{DB: db, log: log}
}

const upsertPairQuery = `
	INSERT INTO pair_durations (pair_key, duration_seconds)
    VALUES ($1, $2)
	ON CONFLICT (pair_key) DO UPDATE
	SET duration_seconds = EXCLUDED.duration_seconds;
	`

func (s *SQLPairStore) Ping(ctx context.Context) error {
	if s.DB == nil {
		return errors.New("pair store: db is nil")
	}
	if err := s.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("postgres ping: %w: %w", domain.ErrResourceUnavailable, err)
	}
	return nil
}

func (s *SQLPairStore) Put(ctx context.Context, key string, d domain.Duration) error {
	if s.DB == nil {
		return errors.New("pair store: db is nil")
	}
	if key == "" {
		return errors.New("insert pair: empty key")
	}

	if _, err := s.DB.ExecContext(ctx, upsertPairQuery, key, float64(d)); err != nil {
		return fmt.Errorf("insert pair %q: %w: %w", key, domain.ErrTransport, err)
	}
	return nil
}

// Store all records of one batch in a single transaction.
func (s *SQLPairStore) PutBatch(ctx context.Context, records []domain.PairRecord) (err error) {
	defer obs.Time(s.log, "postgres.PutBatch")(&err)

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

	stmt, err := tx.PrepareContext(ctx, upsertPairQuery)
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

func (s *SQLPairStore) Get(ctx context.Context, key string) (domain.Duration, error) {
	if s.DB == nil {
		return 0, errors.New("pair store: db is nil")
	}

	q := `
	SELECT duration_seconds
    FROM pair_durations
    WHERE pair_key = $1;
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
