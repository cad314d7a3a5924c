package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase es el registro histórico e inmutable de una compra.
// TotalPrice es una foto del precio al momento de comprar: editar luego el precio del dulce no lo cambia.
type Purchase struct {
	ID          string
	UserID      string
	SweetID     string
	Quantity    int
	TotalPrice  decimal.Decimal
	PurchasedAt time.Time
}

// PurchaseWithSweet compra con su dulce poblado. Sweet es nil si el dulce fue eliminado del catálogo.
type PurchaseWithSweet struct {
	Purchase
	Sweet *Sweet
}
