// Package memory implementa los puertos de persistencia en memoria del proceso.
// Sirve para desarrollo local (STORE_DRIVER=memory) y para los tests de casos de uso.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/sweetshop-api/internal/application/inventory"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
	"github.com/jhoicas/sweetshop-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// locker abstrae el mutex del store: los repos de una transacción usan nopLocker
// porque TxRunner ya tiene el lock exclusivo.
type locker interface {
	Lock()
	Unlock()
	RLock()
	RUnlock()
}

type nopLocker struct{}

func (nopLocker) Lock()    {}
func (nopLocker) Unlock()  {}
func (nopLocker) RLock()   {}
func (nopLocker) RUnlock() {}

// Store estado compartido de las tres colecciones.
type Store struct {
	mu        sync.RWMutex
	users     map[string]*entity.User
	sweets    map[string]*entity.Sweet
	purchases map[string]*entity.Purchase
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		users:     make(map[string]*entity.User),
		sweets:    make(map[string]*entity.Sweet),
		purchases: make(map[string]*entity.Purchase),
	}
}

// snapshot copia del estado mutable por transacciones (dulces y compras).
type snapshot struct {
	sweets    map[string]entity.Sweet
	purchases map[string]entity.Purchase
}

func (s *Store) snapshot() snapshot {
	snap := snapshot{
		sweets:    make(map[string]entity.Sweet, len(s.sweets)),
		purchases: make(map[string]entity.Purchase, len(s.purchases)),
	}
	for id, sw := range s.sweets {
		snap.sweets[id] = *sw
	}
	for id, p := range s.purchases {
		snap.purchases[id] = *p
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.sweets = make(map[string]*entity.Sweet, len(snap.sweets))
	for id, sw := range snap.sweets {
		sw := sw
		s.sweets[id] = &sw
	}
	s.purchases = make(map[string]*entity.Purchase, len(snap.purchases))
	for id, p := range snap.purchases {
		p := p
		s.purchases[id] = &p
	}
}

// TxRunner ejecuta fn con el store bloqueado en exclusiva; si fn falla, restaura el estado previo.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run implementa inventory.TxRunner.
func (r *TxRunner) Run(ctx context.Context, fn func(
	sweetRepo repository.SweetRepository,
	purchaseRepo repository.PurchaseRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	err := fn(&SweetRepo{s: s, l: nopLocker{}}, &PurchaseRepo{s: s, l: nopLocker{}})
	if err != nil {
		s.restore(snap)
		return err
	}
	return nil
}
