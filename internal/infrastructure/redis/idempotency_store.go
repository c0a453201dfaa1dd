// Package redis implementa el almacén de claves de idempotencia sobre Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Chars502/ferreteria-kairos/internal/application/idempotency"
)

const (
	idempotencyKeyPrefix = "idem:"
	pendingValue         = "pending"
)

// IdempotencyStore implementa idempotency.Store con SETNX + TTL.
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotencyStore construye el store. ttl <= 0 usa idempotency.DefaultTTL.
func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = idempotency.DefaultTTL
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

// NewClient abre el cliente y verifica la conexión con PING.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", addr, err)
	}
	return client, nil
}

func (s *IdempotencyStore) Reserve(ctx context.Context, key string) (bool, error) {
	ok, err := s.client.SetNX(ctx, idempotencyKeyPrefix+key, pendingValue, min(idempotency.PendingTTL, s.ttl)).Result()
	if err != nil {
		return false, fmt.Errorf("redis: reservar clave: %w", err)
	}
	return ok, nil
}

func (s *IdempotencyStore) Save(ctx context.Context, key string, rec idempotency.Record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, idempotencyKeyPrefix+key, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis: guardar respuesta: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) Load(ctx context.Context, key string) (*idempotency.Record, error) {
	raw, err := s.client.Get(ctx, idempotencyKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis: leer clave: %w", err)
	}
	if string(raw) == pendingValue {
		return nil, nil
	}
	var rec idempotency.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("redis: respuesta corrupta: %w", err)
	}
	return &rec, nil
}

func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, idempotencyKeyPrefix+key).Err()
}
