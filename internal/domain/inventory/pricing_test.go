package inventory_test

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/sweetshop-api/internal/domain/inventory"
)

func TestTotalPrice(t *testing.T) {
	assert.True(t, decimal.NewFromInt(500).Equal(inventory.TotalPrice(decimal.NewFromInt(50), 10)))
	assert.True(t, decimal.RequireFromString("8.97").Equal(inventory.TotalPrice(decimal.RequireFromString("2.99"), 3)),
		"sin errores de punto flotante")
	assert.True(t, inventory.TotalPrice(decimal.NewFromInt(50), 0).IsZero())
	assert.True(t, inventory.TotalPrice(decimal.NewFromInt(50), -2).IsZero())
}

func TestCanFulfill(t *testing.T) {
	assert.True(t, inventory.CanFulfill(100, 10))
	assert.True(t, inventory.CanFulfill(10, 10), "se puede vender la última unidad")
	assert.False(t, inventory.CanFulfill(90, 95))
	assert.False(t, inventory.CanFulfill(90, 0))
}

func TestCanRestock(t *testing.T) {
	assert.True(t, inventory.CanRestock(90, 500))
	assert.True(t, inventory.CanRestock(0, inventory.MaxStock), "se puede llegar justo al tope")
	assert.False(t, inventory.CanRestock(1, inventory.MaxStock))
	assert.False(t, inventory.CanRestock(100, math.MaxInt), "no desborda int")
	assert.False(t, inventory.CanRestock(10, 0))
}
