package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/sweetshop-api/internal/domain/catalog"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
)

// SweetUpdate cambios parciales de un dulce; nil = no modificar. Se aplican en una sola escritura
// para no pisar el stock que el motor de inventario cambie en paralelo.
type SweetUpdate struct {
	Name        *string
	Category    *string
	Price       *decimal.Decimal
	Quantity    *int
	Description *string
	ImageURL    *string
}

// IsEmpty indica si no hay cambios.
func (u SweetUpdate) IsEmpty() bool {
	return u.Name == nil && u.Category == nil && u.Price == nil && u.Quantity == nil &&
		u.Description == nil && u.ImageURL == nil
}

// SweetRepository define el puerto de persistencia para el catálogo.
type SweetRepository interface {
	// Create y Update devuelven domain.ErrDuplicateSweet si el nombre ya existe.
	Create(ctx context.Context, sweet *entity.Sweet) error
	// GetByID devuelve (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Sweet, error)
	// Update aplica los cambios y devuelve el dulce actualizado; domain.ErrSweetNotFound si no existe.
	Update(ctx context.Context, id string, changes SweetUpdate) (*entity.Sweet, error)
	// Delete elimina y devuelve el dulce borrado; domain.ErrSweetNotFound si no existe.
	Delete(ctx context.Context, id string) (*entity.Sweet, error)
	// Search lista los dulces que cumplen el filtro, más recientes primero.
	Search(ctx context.Context, filter catalog.Filter) ([]*entity.Sweet, error)

	// DecrementStock resta quantity en una sola escritura condicional (quantity >= n).
	// Devuelve el dulce ya actualizado, domain.ErrInsufficientStock o domain.ErrSweetNotFound.
	DecrementStock(ctx context.Context, id string, quantity int) (*entity.Sweet, error)
	// IncrementStock suma quantity; domain.ErrSweetNotFound si no existe.
	IncrementStock(ctx context.Context, id string, quantity int) (*entity.Sweet, error)
}
