package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSweetRequest entrada para crear un dulce. Price y Quantity son punteros para distinguir
// "no enviado" de cero.
type CreateSweetRequest struct {
	Name        string           `json:"name" validate:"required,min=1,max=200"`
	Category    string           `json:"category" validate:"required"`
	Price       *decimal.Decimal `json:"price" validate:"required"`
	Quantity    *int             `json:"quantity" validate:"required,min=0"`
	Description string           `json:"description"`
	ImageURL    string           `json:"imageUrl"`
}

// UpdateSweetRequest entrada para actualización parcial: solo se modifican los campos enviados.
type UpdateSweetRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Category    *string          `json:"category"`
	Price       *decimal.Decimal `json:"price"`
	Quantity    *int             `json:"quantity"`
	Description *string          `json:"description"`
	ImageURL    *string          `json:"imageUrl"`
}

// SearchSweetsQuery parámetros de búsqueda tal como llegan en la query string.
type SearchSweetsQuery struct {
	Name     string `query:"name"`
	Category string `query:"category"`
	MinPrice string `query:"minPrice"`
	MaxPrice string `query:"maxPrice"`
}

// SweetResponse salida de un dulce.
type SweetResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Description string          `json:"description,omitempty"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// DeleteSweetResponse salida de DELETE /api/sweets/:id.
type DeleteSweetResponse struct {
	Message string        `json:"message"`
	Sweet   SweetResponse `json:"sweet"`
}
