package inventory

import (
	"math"

	"github.com/shopspring/decimal"
)

// MaxStock tope de unidades por dulce; coincide con la columna INTEGER de PostgreSQL.
const MaxStock = math.MaxInt32

// TotalPrice calcula el total de una compra (servicio de dominio).
// Total = PrecioUnitario * Cantidad, con aritmética decimal exacta.
func TotalPrice(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	if quantity <= 0 {
		return decimal.Zero
	}
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}

// CanFulfill indica si el stock disponible cubre la cantidad solicitada.
func CanFulfill(available, requested int) bool {
	return requested > 0 && available >= requested
}

// CanRestock indica si sumar added al stock actual lo mantiene dentro de MaxStock.
func CanRestock(current, added int) bool {
	return added > 0 && added <= MaxStock && current <= MaxStock-added
}
