package entity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCart_AddItem(t *testing.T) {
	cart := &Cart{CartKey: "session-1", TenantID: "tenant-1"}
	assert.True(t, cart.IsEmpty())

	require.NoError(t, cart.AddItem("SKU-A", "Yerba Mate 1kg", 2, decimal.NewFromInt(1200)))
	require.NoError(t, cart.AddItem("SKU-B", "Termo Acero", 1, decimal.NewFromInt(8000)))
	assert.Len(t, cart.Items, 2)

	// Misma variante: acumula cantidad en la línea existente
	require.NoError(t, cart.AddItem("SKU-A", "Yerba Mate 1kg", 3, decimal.NewFromInt(1200)))
	assert.Len(t, cart.Items, 2)
	assert.Equal(t, 5, cart.Items[0].Quantity)
}

func TestCart_AddItem_Validations(t *testing.T) {
	cart := &Cart{CartKey: "session-1", TenantID: "tenant-1"}

	assert.ErrorIs(t, cart.AddItem("", "name", 1, decimal.NewFromInt(100)), ErrSKURequired)
	assert.ErrorIs(t, cart.AddItem("SKU-A", "name", 0, decimal.NewFromInt(100)), ErrInvalidQuantity)
	assert.ErrorIs(t, cart.AddItem("SKU-A", "name", -1, decimal.NewFromInt(100)), ErrInvalidQuantity)
}

func TestCart_RemoveItem(t *testing.T) {
	cart := &Cart{CartKey: "session-1", TenantID: "tenant-1"}
	require.NoError(t, cart.AddItem("SKU-A", "Yerba Mate 1kg", 2, decimal.NewFromInt(1200)))
	require.NoError(t, cart.AddItem("SKU-B", "Termo Acero", 1, decimal.NewFromInt(8000)))

	require.NoError(t, cart.RemoveItem("SKU-A"))
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "SKU-B", cart.Items[0].SKU)

	assert.ErrorIs(t, cart.RemoveItem("SKU-A"), ErrCartItemNotFound)
}

func TestCart_QuantityBySKU(t *testing.T) {
	cart := &Cart{CartKey: "session-1", TenantID: "tenant-1"}
	require.NoError(t, cart.AddItem("SKU-A", "Yerba Mate 1kg", 2, decimal.NewFromInt(1200)))
	require.NoError(t, cart.AddItem("SKU-A", "Yerba Mate 1kg", 1, decimal.NewFromInt(1200)))

	assert.Equal(t, map[string]int{"SKU-A": 3}, cart.QuantityBySKU())
}
