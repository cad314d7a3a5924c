package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
	"github.com/jhoicas/sweetshop-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza que el descuento de stock y el registro de compra se confirmen juntos o no se confirmen.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		sweetRepo repository.SweetRepository,
		purchaseRepo repository.PurchaseRepository,
	) error) error
}

// IdempotencyStore reserva claves de idempotencia por un tiempo limitado.
type IdempotencyStore interface {
	// Reserve devuelve false si la clave ya estaba reservada.
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// PurchaseObserver recibe el resultado de cada intento de compra (métricas).
type PurchaseObserver interface {
	ObservePurchase(result string, units int)
}

// ReceiptData datos necesarios para el comprobante de una compra.
type ReceiptData struct {
	Purchase entity.Purchase
	Sweet    *entity.Sweet // nil si el dulce ya no existe
	User     *entity.User
}

// ReceiptGenerator genera el comprobante PDF de una compra.
type ReceiptGenerator interface {
	GenerateReceiptPDF(ctx context.Context, data ReceiptData) ([]byte, error)
}
