// Package catalog contiene las reglas de búsqueda del catálogo de dulces.
package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"

	"github.com/jhoicas/sweetshop-api/internal/domain"
	"github.com/jhoicas/sweetshop-api/internal/domain/entity"
)

// Filter criterios de búsqueda. Cada campo nil no impone restricción; los presentes se combinan con AND.
type Filter struct {
	Name     *string          // subcadena, sin distinguir mayúsculas
	Category *string          // subcadena, sin distinguir mayúsculas
	MinPrice *decimal.Decimal // inclusivo
	MaxPrice *decimal.Decimal // inclusivo
}

// Validate rechaza rangos de precio imposibles o negativos.
func (f Filter) Validate() error {
	if f.MinPrice != nil && f.MinPrice.IsNegative() {
		return domain.Validation("INVALID_PRICE", "minPrice no puede ser negativo")
	}
	if f.MaxPrice != nil && f.MaxPrice.IsNegative() {
		return domain.Validation("INVALID_PRICE", "maxPrice no puede ser negativo")
	}
	if f.MinPrice != nil && f.MaxPrice != nil && f.MinPrice.GreaterThan(*f.MaxPrice) {
		return domain.Validation("INVALID_PRICE_RANGE", "minPrice no puede ser mayor que maxPrice")
	}
	return nil
}

// Matches evalúa el filtro sobre un dulce. Es la definición de referencia del predicado;
// el repositorio SQL la traduce a ILIKE / BETWEEN.
func (f Filter) Matches(s *entity.Sweet) bool {
	if s == nil {
		return false
	}
	if f.Name != nil && !containsFold(s.Name, *f.Name) {
		return false
	}
	if f.Category != nil && !containsFold(s.Category, *f.Category) {
		return false
	}
	if f.MinPrice != nil && s.Price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && s.Price.GreaterThan(*f.MaxPrice) {
		return false
	}
	return true
}

func containsFold(s, substr string) bool {
	folder := cases.Fold()
	return strings.Contains(folder.String(s), folder.String(substr))
}
