package entity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestItem(t *testing.T, sku string, quantity int, price int64) OrderItem {
	t.Helper()
	item, err := NewOrderItem("", sku, sku, quantity, decimal.NewFromInt(price))
	require.NoError(t, err)
	return *item
}

func TestNewOrder(t *testing.T) {
	item := newTestItem(t, "SKU-A", 2, 1200)

	order, err := NewOrder("tenant-1", []OrderItem{item})
	require.NoError(t, err)

	assert.NotEmpty(t, order.OrderID)
	assert.Equal(t, OrderStatusProcessing, order.Status)
	assert.Equal(t, order.OrderID, order.Items[0].OrderID)
	assert.True(t, order.Subtotal.IsZero())
}

func TestNewOrder_Validations(t *testing.T) {
	item := newTestItem(t, "SKU-A", 1, 1200)

	_, err := NewOrder("", []OrderItem{item})
	assert.ErrorIs(t, err, ErrTenantIDRequired)

	_, err = NewOrder("tenant-1", nil)
	assert.ErrorIs(t, err, ErrOrderMustHaveItems)
}

func TestNewOrderItem_Validations(t *testing.T) {
	_, err := NewOrderItem("", "", "name", 1, decimal.NewFromInt(100))
	assert.ErrorIs(t, err, ErrSKURequired)

	_, err = NewOrderItem("", "SKU-A", "name", 0, decimal.NewFromInt(100))
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = NewOrderItem("", "SKU-A", "name", 1, decimal.NewFromInt(-100))
	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestOrderItem_RefreshPrice(t *testing.T) {
	item := newTestItem(t, "SKU-A", 3, 1200)
	item.RefreshPrice(decimal.NewFromInt(1500))

	assert.True(t, item.UnitPrice.Equal(decimal.NewFromInt(1500)))
	assert.True(t, item.Subtotal.Equal(decimal.NewFromInt(4500)))
}

func TestOrder_QuantityBySKU(t *testing.T) {
	order, err := NewOrder("tenant-1", []OrderItem{
		newTestItem(t, "SKU-A", 2, 1200),
		newTestItem(t, "SKU-B", 1, 8000),
		newTestItem(t, "SKU-A", 3, 1200),
	})
	require.NoError(t, err)

	quantities := order.QuantityBySKU()
	assert.Equal(t, 5, quantities["SKU-A"])
	assert.Equal(t, 1, quantities["SKU-B"])
}

func TestOrder_SetShipping(t *testing.T) {
	order, err := NewOrder("tenant-1", []OrderItem{
		newTestItem(t, "SKU-A", 1, 1200),
		newTestItem(t, "SKU-B", 1, 8000),
	})
	require.NoError(t, err)
	assert.False(t, order.HasShipping())

	shipping, err := NewShipping(order.OrderID, "Juan Pérez", "1155550000", "1414", "Av. Siempre Viva 742")
	require.NoError(t, err)

	order.SetShipping(*shipping)
	require.True(t, order.HasShipping())
	assert.Equal(t, order.OrderID, order.Shippings[0].OrderID)
	for _, item := range order.Items {
		assert.Equal(t, shipping.ShippingID, item.ShippingID)
	}

	// Reemplaza, no acumula
	replacement, err := NewShipping(order.OrderID, "Ana", "", "1425", "Calle Falsa 123")
	require.NoError(t, err)
	order.SetShipping(*replacement)
	assert.Len(t, order.Shippings, 1)
	assert.Equal(t, "Ana", order.Shippings[0].Name)
}

func TestNewShipping_Validations(t *testing.T) {
	_, err := NewShipping("order-1", "", "", "1414", "Av. Siempre Viva 742")
	assert.ErrorIs(t, err, ErrShippingNameRequired)

	_, err = NewShipping("order-1", "Juan", "", "1414", "")
	assert.ErrorIs(t, err, ErrShippingAddressRequired)
}

func TestOrder_StatusTransitions(t *testing.T) {
	order, err := NewOrder("tenant-1", []OrderItem{newTestItem(t, "SKU-A", 1, 1200)})
	require.NoError(t, err)

	// Complete antes de Confirm no es válido
	assert.ErrorIs(t, order.Complete(), ErrOrderNotInConfirmed)

	require.NoError(t, order.Confirm())
	assert.Equal(t, OrderStatusConfirmed, order.Status)

	// Confirm dos veces no es válido
	assert.ErrorIs(t, order.Confirm(), ErrOrderNotInProcessing)

	require.NoError(t, order.Complete())
	assert.Equal(t, OrderStatusCompleted, order.Status)

	// Una orden completada no se cancela
	assert.ErrorIs(t, order.Cancel(), ErrOrderAlreadyCompleted)
}

func TestOrder_Cancel(t *testing.T) {
	order, err := NewOrder("tenant-1", []OrderItem{newTestItem(t, "SKU-A", 1, 1200)})
	require.NoError(t, err)

	require.NoError(t, order.Cancel())
	assert.Equal(t, OrderStatusCanceled, order.Status)
}
