package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/sweetshop-api/internal/domain"
	"github.com/jhoicas/sweetshop-api/internal/domain/catalog"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
	"github.com/jhoicas/sweetshop-api/internal/domain/inventory"
	"github.com/jhoicas/sweetshop-api/internal/domain/repository"
)

var _ repository.SweetRepository = (*SweetRepo)(nil)

// SweetRepo implementación en memoria de SweetRepository.
type SweetRepo struct {
	s *Store
	l locker
}

// NewSweetRepository construye el repositorio sobre el store compartido.
func NewSweetRepository(s *Store) *SweetRepo {
	return &SweetRepo{s: s, l: &s.mu}
}

// Create persiste un dulce; el nombre es único (sin distinguir mayúsculas, como el índice SQL).
func (r *SweetRepo) Create(_ context.Context, sweet *entity.Sweet) error {
	r.l.Lock()
	defer r.l.Unlock()
	if r.nameTaken(sweet.Name, "") {
		return domain.ErrDuplicateSweet
	}
	cp := *sweet
	r.s.sweets[sweet.ID] = &cp
	return nil
}

// GetByID obtiene un dulce por ID.
func (r *SweetRepo) GetByID(_ context.Context, id string) (*entity.Sweet, error) {
	r.l.RLock()
	defer r.l.RUnlock()
	if sw, ok := r.s.sweets[id]; ok {
		cp := *sw
		return &cp, nil
	}
	return nil, nil
}

// Update aplica los cambios presentes.
func (r *SweetRepo) Update(_ context.Context, id string, changes repository.SweetUpdate) (*entity.Sweet, error) {
	r.l.Lock()
	defer r.l.Unlock()
	sw, ok := r.s.sweets[id]
	if !ok {
		return nil, domain.ErrSweetNotFound
	}
	if changes.Name != nil && r.nameTaken(*changes.Name, id) {
		return nil, domain.ErrDuplicateSweet
	}
	if changes.Name != nil {
		sw.Name = *changes.Name
	}
	if changes.Category != nil {
		sw.Category = *changes.Category
	}
	if changes.Price != nil {
		sw.Price = *changes.Price
	}
	if changes.Quantity != nil {
		sw.Quantity = *changes.Quantity
	}
	if changes.Description != nil {
		sw.Description = *changes.Description
	}
	if changes.ImageURL != nil {
		sw.ImageURL = *changes.ImageURL
	}
	sw.UpdatedAt = time.Now().UTC()
	cp := *sw
	return &cp, nil
}

// Delete elimina un dulce. Las compras que lo referencian se conservan.
func (r *SweetRepo) Delete(_ context.Context, id string) (*entity.Sweet, error) {
	r.l.Lock()
	defer r.l.Unlock()
	sw, ok := r.s.sweets[id]
	if !ok {
		return nil, domain.ErrSweetNotFound
	}
	delete(r.s.sweets, id)
	cp := *sw
	return &cp, nil
}

// Search aplica catalog.Filter.Matches y ordena por CreatedAt descendente.
func (r *SweetRepo) Search(_ context.Context, filter catalog.Filter) ([]*entity.Sweet, error) {
	r.l.RLock()
	defer r.l.RUnlock()
	list := make([]*entity.Sweet, 0, len(r.s.sweets))
	for _, sw := range r.s.sweets {
		if filter.Matches(sw) {
			cp := *sw
			list = append(list, &cp)
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID > list[j].ID
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

// DecrementStock comprueba y descuenta bajo el mismo lock.
func (r *SweetRepo) DecrementStock(_ context.Context, id string, quantity int) (*entity.Sweet, error) {
	r.l.Lock()
	defer r.l.Unlock()
	sw, ok := r.s.sweets[id]
	if !ok {
		return nil, domain.ErrSweetNotFound
	}
	if !inventory.CanFulfill(sw.Quantity, quantity) {
		return nil, domain.ErrInsufficientStock
	}
	sw.Quantity -= quantity
	sw.UpdatedAt = time.Now().UTC()
	cp := *sw
	return &cp, nil
}

// IncrementStock suma quantity al stock sin superar inventory.MaxStock.
func (r *SweetRepo) IncrementStock(_ context.Context, id string, quantity int) (*entity.Sweet, error) {
	r.l.Lock()
	defer r.l.Unlock()
	sw, ok := r.s.sweets[id]
	if !ok {
		return nil, domain.ErrSweetNotFound
	}
	if !inventory.CanRestock(sw.Quantity, quantity) {
		return nil, domain.ErrQuantityTooLarge
	}
	sw.Quantity += quantity
	sw.UpdatedAt = time.Now().UTC()
	cp := *sw
	return &cp, nil
}

// nameTaken requiere el lock tomado.
func (r *SweetRepo) nameTaken(name, exceptID string) bool {
	for id, sw := range r.s.sweets {
		if id != exceptID && strings.EqualFold(sw.Name, name) {
			return true
		}
	}
	return false
}
