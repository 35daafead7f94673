package revocation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
)

var isRevokedDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "gatehouse_token_revocation_check_duration_ms",
	Help:    "Latency of token revocation checks in milliseconds",
	Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
})

// Redis key prefix for revoked tokens.
const revokedTokenKeyPrefix = "revoked:jti:"

// RedisStore is the Redis-backed revocation list, shared across instances
// when more than one terminal gateway runs.
type RedisStore struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Revoke adds a token to the revocation list with TTL. Uses SET with expiry;
// the key's existence is what matters.
func (s *RedisStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if tokenID == "" || ttl <= 0 {
		return nil
	}
	key := revokedTokenKeyPrefix + tokenID
	if err := s.client.Set(ctx, key, "1", ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked checks if a token is on the revocation list.
func (s *RedisStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	start := time.Now()
	defer func() {
		isRevokedDuration.Observe(float64(time.Since(start).Microseconds()) / 1000)
	}()

	key := revokedTokenKeyPrefix + tokenID
	_, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("check token revocation: %w", err)
	}
	return true, nil
}
