// Package idempotency implementa inventory.IdempotencyStore: Redis cuando hay REDIS_ADDR,
// un mapa con TTL en memoria si no.
package idempotency

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/sweetshop-api/internal/application/inventory"
)

var _ inventory.IdempotencyStore = (*RedisStore)(nil)

// RedisStore reserva claves con SET NX + TTL.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore construye el store sobre un cliente existente.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Reserve devuelve false si la clave ya existía.
func (s *RedisStore) Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, key, 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("idempotency reserve: %w", err)
	}
	return ok, nil
}

// Release borra la clave para permitir reintentos.
func (s *RedisStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("idempotency release: %w", err)
	}
	return nil
}
