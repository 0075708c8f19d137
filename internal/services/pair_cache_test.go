package services

import (
	"context"
	"errors"
	"fmt"
	"footpath-matrix-service/internal/adapters/cache"
	"footpath-matrix-service/internal/domain"
	"iter"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRedisCache(t *testing.T) (*PairCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewPairCache(cache.NewRedisPairStore(client, zap.NewNop()), zap.NewNop()), mr
}

func seqOf(items ...any) iter.Seq2[domain.PairRecord, error] {
	return func(yield func(domain.PairRecord, error) bool) {
		for _, it := range items {
			var ok bool
			switch v := it.(type) {
			case domain.PairRecord:
				ok = yield(v, nil)
			case error:
				ok = yield(domain.PairRecord{}, v)
			}
			if !ok {
				return
			}
		}
	}
}

func TestPairCacheLookupIsOrderIndependent(t *testing.T) {
	pc, _ := newRedisCache(t)
	ctx := context.Background()

	stats, err := pc.Load(ctx, seqOf(
		domain.PairRecord{StopA: "BAR2", StopB: "5697", Duration: 431.2},
		domain.PairRecord{StopA: "A", StopB: "C", Duration: domain.NoRoute},
	))
	require.NoError(t, err)
	require.Equal(t, LoadStats{Processed: 2, Loaded: 2}, stats)

	for _, args := range [][2]string{{"BAR2", "5697"}, {"5697", "BAR2"}} {
		d, err := pc.Lookup(ctx, args[0], args[1])
		require.NoError(t, err)
		require.Equal(t, domain.Duration(431.2), d)
	}

	d, err := pc.Lookup(ctx, "C", "A")
	require.NoError(t, err)
	require.Equal(t, domain.NoRoute, d)
}

func TestPairCacheLastLoadWins(t *testing.T) {
	pc, _ := newRedisCache(t)
	ctx := context.Background()

	_, err := pc.Load(ctx, seqOf(
		domain.PairRecord{StopA: "A", StopB: "B", Duration: 10},
		domain.PairRecord{StopA: "B", StopB: "A", Duration: 20},
	))
	require.NoError(t, err)

	d, err := pc.Lookup(ctx, "A", "B")
	require.NoError(t, err)
	require.Equal(t, domain.Duration(20), d)
}

func TestPairCacheSkipsMalformedRecords(t *testing.T) {
	pc, _ := newRedisCache(t)

	stats, err := pc.Load(context.Background(), seqOf(
		fmt.Errorf("%w: line 3: expected 3 fields, got 2", domain.ErrInputParse),
		domain.PairRecord{StopA: "", StopB: "B", Duration: 1},
		domain.PairRecord{StopA: "A", StopB: "B", Duration: 1},
	))
	require.NoError(t, err)
	require.Equal(t, LoadStats{Processed: 3, Loaded: 1, Skipped: 2}, stats)
}

func TestPairCacheStopsOnReadError(t *testing.T) {
	pc, _ := newRedisCache(t)

	stats, err := pc.Load(context.Background(), seqOf(
		domain.PairRecord{StopA: "A", StopB: "B", Duration: 1},
		errors.New("read: input/output error"),
		domain.PairRecord{StopA: "A", StopB: "C", Duration: 1},
	))
	require.Error(t, err)
	require.Equal(t, 1, stats.Loaded)
}

type failingStore struct{}

func (failingStore) Put(ctx context.Context, key string, d domain.Duration) error {
	return fmt.Errorf("set %s: %w", key, domain.ErrTransport)
}
func (failingStore) PutBatch(ctx context.Context, records []domain.PairRecord) error {
	return domain.ErrTransport
}
func (failingStore) Get(ctx context.Context, key string) (domain.Duration, error) {
	return 0, domain.ErrTransport
}
func (failingStore) Ping(ctx context.Context) error { return nil }

func TestPairCacheCountsFailedWrites(t *testing.T) {
	pc := NewPairCache(failingStore{}, zap.NewNop())

	stats, err := pc.Load(context.Background(), seqOf(
		domain.PairRecord{StopA: "A", StopB: "B", Duration: 1},
		domain.PairRecord{StopA: "A", StopB: "C", Duration: 2},
	))
	require.NoError(t, err)
	require.Equal(t, LoadStats{Processed: 2, Failed: 2}, stats)
}

func TestPairCacheLookupNotFound(t *testing.T) {
	pc, _ := newRedisCache(t)

	_, err := pc.Lookup(context.Background(), "A", "B")
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = pc.Lookup(context.Background(), "", "B")
	require.ErrorIs(t, err, domain.ErrInputParse)
}

func TestLoadArtifact(t *testing.T) {
	pc, mr := newRedisCache(t)
	pc.ProgressEvery = 2

	path := filepath.Join(t.TempDir(), "foot_durations.csv")
	content := "stop_id,stop_id,duration\nA,B,12.5\nA,C\nB,C,-1\nBAR2,5697,431\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	stats, err := LoadArtifact(context.Background(), path, pc, zap.NewNop())
	require.NoError(t, err)
	require.Equal(t, LoadStats{Processed: 4, Loaded: 3, Skipped: 1}, stats)

	v, err := mr.Get("5697:BAR2")
	require.NoError(t, err)
	require.Equal(t, "431", v)

	d, err := pc.Lookup(context.Background(), "C", "B")
	require.NoError(t, err)
	require.Equal(t, domain.NoRoute, d)
}

func TestLoadArtifactMissingFile(t *testing.T) {
	pc, _ := newRedisCache(t)

	_, err := LoadArtifact(context.Background(), filepath.Join(t.TempDir(), "nope.csv"), pc, zap.NewNop())
	require.ErrorIs(t, err, domain.ErrResourceUnavailable)
}
