package idempotency

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/sweetshop-api/internal/application/inventory"
)

var _ inventory.IdempotencyStore = (*MemoryStore)(nil)

// MemoryStore reservas con vencimiento en un mapa protegido por mutex. Las claves vencidas
// se limpian de forma perezosa en cada Reserve.
type MemoryStore struct {
	mu   sync.Mutex
	keys map[string]time.Time
	now  func() time.Time
}

// NewMemoryStore crea un store vacío.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{keys: make(map[string]time.Time), now: time.Now}
}

// Reserve devuelve false si la clave existe y no ha vencido.
func (s *MemoryStore) Reserve(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for k, exp := range s.keys {
		if !now.Before(exp) {
			delete(s.keys, k)
		}
	}
	if _, ok := s.keys[key]; ok {
		return false, nil
	}
	s.keys[key] = now.Add(ttl)
	return true, nil
}

// Release elimina la reserva.
func (s *MemoryStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.keys, key)
	s.mu.Unlock()
	return nil
}
