package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Chars502/ferreteria-kairos/internal/application/idempotency"
)

type idemEntry struct {
	rec     *idempotency.Record
	expires time.Time
}

// IdempotencyStore implementación en proceso de idempotency.Store (sin Redis).
type IdempotencyStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]idemEntry
	now     func() time.Time
}

// NewIdempotencyStore construye el store. ttl <= 0 usa idempotency.DefaultTTL.
func NewIdempotencyStore(ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = idempotency.DefaultTTL
	}
	return &IdempotencyStore{ttl: ttl, entries: make(map[string]idemEntry), now: time.Now}
}

// lookup devuelve la entrada vigente; las vencidas se descartan. Requiere mu.
func (s *IdempotencyStore) lookup(key string) (idemEntry, bool) {
	e, ok := s.entries[key]
	if ok && !s.now().Before(e.expires) {
		delete(s.entries, key)
		return idemEntry{}, false
	}
	return e, ok
}

func (s *IdempotencyStore) Reserve(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lookup(key); ok {
		return false, nil
	}
	s.entries[key] = idemEntry{expires: s.now().Add(min(idempotency.PendingTTL, s.ttl))}
	return true, nil
}

func (s *IdempotencyStore) Save(_ context.Context, key string, rec idempotency.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	body := append([]byte(nil), rec.Body...)
	rec.Body = body
	s.entries[key] = idemEntry{rec: &rec, expires: s.now().Add(s.ttl)}
	return nil
}

func (s *IdempotencyStore) Load(_ context.Context, key string) (*idempotency.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.lookup(key)
	if !ok || e.rec == nil {
		return nil, nil
	}
	cp := *e.rec
	return &cp, nil
}

func (s *IdempotencyStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}
