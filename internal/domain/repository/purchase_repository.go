package repository

import (
	"context"

	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
)

// PurchaseRepository persiste registros de compra. No hay Update ni Delete: las compras son inmutables.
type PurchaseRepository interface {
	Create(ctx context.Context, purchase *entity.Purchase) error
	// GetByID devuelve la compra con su dulce poblado, o (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.PurchaseWithSweet, error)
	// ListByUser devuelve las compras del usuario con el dulce poblado, más recientes primero.
	ListByUser(ctx context.Context, userID string) ([]*entity.PurchaseWithSweet, error)
}
