package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sweet representa un dulce del catálogo. Quantity es el stock disponible y nunca es negativo;
// solo cambia vía CRUD de administrador o por el motor de inventario (compra/reabastecimiento).
type Sweet struct {
	ID          string
	Name        string // único
	Category    string
	Price       decimal.Decimal // precio unitario
	Quantity    int
	Description string
	ImageURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
