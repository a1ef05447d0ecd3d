package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultIdempotencyTTL = 24 * time.Hour

// IdempotencyStore remembers which order an Idempotency-Key produced.
// Key format: idem:order:<owner_id>:<idempotency_key>
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotencyStore wraps client; ttl <= 0 falls back to 24h.
func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Lookup returns the order id stored for the key, if any.
func (s *IdempotencyStore) Lookup(ctx context.Context, ownerID, key string) (string, bool, error) {
	id, err := s.client.Get(ctx, s.key(ownerID, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("idempotency lookup: %w", err)
	}
	return id, true, nil
}

// Remember stores the order id for the key. An existing entry is kept.
func (s *IdempotencyStore) Remember(ctx context.Context, ownerID, key, orderID string) error {
	if err := s.client.SetNX(ctx, s.key(ownerID, key), orderID, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency remember: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) key(ownerID, key string) string {
	return fmt.Sprintf("idem:order:%s:%s", ownerID, key)
}
