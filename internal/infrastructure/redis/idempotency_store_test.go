package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chars502/ferreteria-kairos/internal/application/idempotency"
)

func getStore(t *testing.T) *IdempotencyStore {
	t.Helper()
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client, err := NewClient(context.Background(), addr, "", 0)
	if err != nil {
		t.Skipf("Redis no disponible: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return NewIdempotencyStore(client, time.Minute)
}

func TestIdempotencyStore_Ciclo(t *testing.T) {
	s := getStore(t)
	ctx := context.Background()
	key := "test:" + uuid.NewString()
	t.Cleanup(func() { _ = s.Release(ctx, key) })

	ok, err := s.Reserve(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	ttl, err := s.client.TTL(ctx, idempotencyKeyPrefix+key).Result()
	require.NoError(t, err)
	assert.LessOrEqual(t, ttl, idempotency.PendingTTL, "la reserva pendiente usa un TTL corto")

	ok, err = s.Reserve(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok, "segunda reserva debe fallar")

	rec, err := s.Load(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, rec, "clave pendiente sin respuesta")

	require.NoError(t, s.Save(ctx, key, idempotency.Record{Status: 201, ContentType: "application/json", Body: []byte(`{"ok":true}`), Fingerprint: "abc"}))
	rec, err = s.Load(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 201, rec.Status)
	assert.Equal(t, "abc", rec.Fingerprint)
	assert.JSONEq(t, `{"ok":true}`, string(rec.Body))
}

func TestIdempotencyStore_Release(t *testing.T) {
	s := getStore(t)
	ctx := context.Background()
	key := "test:" + uuid.NewString()

	ok, err := s.Reserve(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, s.Release(ctx, key))

	ok, err = s.Reserve(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	_ = s.Release(ctx, key)
}
