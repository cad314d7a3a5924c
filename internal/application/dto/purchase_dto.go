package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuantityRequest cuerpo de compra y reabastecimiento.
type QuantityRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

// PurchaseResponse salida de un registro de compra.
type PurchaseResponse struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	SweetID     string          `json:"sweetId"`
	Quantity    int             `json:"quantity"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
	PurchasedAt time.Time       `json:"purchaseDate"`
}

// PurchaseResult salida de POST /api/sweets/:id/purchase.
type PurchaseResult struct {
	Purchase PurchaseResponse `json:"purchase"`
	Sweet    SweetResponse    `json:"sweet"`
}

// PurchaseHistoryItem compra con el dulce poblado (nil si el dulce fue eliminado).
type PurchaseHistoryItem struct {
	PurchaseResponse
	Sweet *SweetResponse `json:"sweet"`
}
