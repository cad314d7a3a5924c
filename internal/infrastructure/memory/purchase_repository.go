package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
	"github.com/jhoicas/sweetshop-api/internal/domain/repository"
)

var _ repository.PurchaseRepository = (*PurchaseRepo)(nil)

// PurchaseRepo implementación en memoria de PurchaseRepository.
type PurchaseRepo struct {
	s *Store
	l locker
}

// NewPurchaseRepository construye el repositorio sobre el store compartido.
func NewPurchaseRepository(s *Store) *PurchaseRepo {
	return &PurchaseRepo{s: s, l: &s.mu}
}

// Create persiste una compra.
func (r *PurchaseRepo) Create(_ context.Context, purchase *entity.Purchase) error {
	r.l.Lock()
	defer r.l.Unlock()
	cp := *purchase
	r.s.purchases[purchase.ID] = &cp
	return nil
}

// GetByID obtiene una compra con su dulce.
func (r *PurchaseRepo) GetByID(_ context.Context, id string) (*entity.PurchaseWithSweet, error) {
	r.l.RLock()
	defer r.l.RUnlock()
	p, ok := r.s.purchases[id]
	if !ok {
		return nil, nil
	}
	return r.withSweet(p), nil
}

// ListByUser devuelve las compras del usuario, más recientes primero.
func (r *PurchaseRepo) ListByUser(_ context.Context, userID string) ([]*entity.PurchaseWithSweet, error) {
	r.l.RLock()
	defer r.l.RUnlock()
	list := make([]*entity.PurchaseWithSweet, 0)
	for _, p := range r.s.purchases {
		if p.UserID == userID {
			list = append(list, r.withSweet(p))
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].PurchasedAt.Equal(list[j].PurchasedAt) {
			return list[i].ID > list[j].ID
		}
		return list[i].PurchasedAt.After(list[j].PurchasedAt)
	})
	return list, nil
}

func (r *PurchaseRepo) withSweet(p *entity.Purchase) *entity.PurchaseWithSweet {
	out := &entity.PurchaseWithSweet{Purchase: *p}
	if sw, ok := r.s.sweets[p.SweetID]; ok {
		cp := *sw
		out.Sweet = &cp
	}
	return out
}
