//go:build integration

package cache

import (
	"context"
	"fmt"
	"footpath-matrix-service/internal/config"
	"footpath-matrix-service/internal/domain"
	"footpath-matrix-service/internal/platform/db"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

// startPostgres runs a disposable Postgres server and returns its URL.
func startPostgres(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "footpaths",
			"POSTGRES_PASSWORD": "footpaths",
			"POSTGRES_DB":       "footpaths",
		},
		// The server restarts once after init; the second line is the real one.
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(90 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	return fmt.Sprintf("postgres://footpaths:footpaths@%s:%s/footpaths?sslmode=disable", host, port.Port())
}

func TestSQLPairStoreAgainstServer(t *testing.T) {
	conn, err := db.Open(startPostgres(t))
	require.NoError(t, err)
	defer conn.Close()

	ctx := context.Background()
	require.NoError(t, InitSchema(ctx, conn))
	store := NewSQLPairStore(conn, zap.NewNop())

	exercisePairStore(t, store)

	// Postgres text cannot hold NUL, so the second insert fails and the
	// whole batch must be rolled back.
	err = store.PutBatch(ctx, []domain.PairRecord{
		{StopA: "X", StopB: "Y", Duration: 5},
		{StopA: "X\x00", StopB: "Z", Duration: 6},
	})
	require.ErrorIs(t, err, domain.ErrTransport)

	_, err = store.Get(ctx, domain.PairKey("X", "Y"))
	require.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, conn.Close())
	_, err = store.Get(ctx, domain.PairKey("A", "B"))
	require.ErrorIs(t, err, domain.ErrTransport)
}

func TestOpenPostgresBackend(t *testing.T) {
	store, closeFn, err := Open(context.Background(), config.CacheConfig{
		Backend:     "postgres",
		DatabaseURL: startPostgres(t),
	}, zap.NewNop())
	require.NoError(t, err)
	defer closeFn()

	exercisePairStore(t, store)
}
