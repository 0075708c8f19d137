package cache

import (
	"context"
	"errors"
	"fmt"
	"footpath-matrix-service/internal/domain"
	"footpath-matrix-service/internal/platform/obs"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisPairStore keeps one string value per canonical pair key
// ("5697:BAR2" -> "431.2"). Values use domain.Duration's text form, so the
// sentinel is stored as "-1".
type RedisPairStore struct {
	client *redis.Client
	log    *zap.Logger
}

func NewRedisPairStore(client *redis.Client, log *zap.Logger) *RedisPairStore {
	return &RedisPairStore{client: client, log: log}
}

func (s *RedisPairStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping %s: %w: %w", s.client.Options().Addr, domain.ErrResourceUnavailable, err)
	}
	return nil
}

func (s *RedisPairStore) Put(ctx context.Context, key string, d domain.Duration) error {
	if key == "" {
		return errors.New("redis put: empty key")
	}

	if err := s.client.Set(ctx, key, d.String(), 0).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w: %w", key, domain.ErrTransport, err)
	}
	return nil
}

// PutBatch writes all records inside one MULTI/EXEC block.
func (s *RedisPairStore) PutBatch(ctx context.Context, records []domain.PairRecord) (err error) {
	defer obs.Time(s.log, "redis.PutBatch")(&err)

	if len(records) == 0 {
		return nil
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, r := range records {
			pipe.Set(ctx, r.Key(), r.Duration.String(), 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis put batch of %d: %w: %w", len(records), domain.ErrTransport, err)
	}
	return nil
}

func (s *RedisPairStore) Get(ctx context.Context, key string) (domain.Duration, error) {
	v, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, fmt.Errorf("redis get %q: %w", key, domain.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("redis get %q: %w: %w", key, domain.ErrTransport, err)
	}

	d, err := domain.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("redis get %q: %w: stored value: %w", key, domain.ErrPayload, err)
	}
	return d, nil
}
