package entity

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItem representa un item dentro de una orden (Entity dentro del Aggregate)
// UnitPrice es un snapshot del precio al momento de agregar al carrito;
// el PriceProcessor del purchase flow lo refresca en cada paso del checkout
type OrderItem struct {
	ItemID          string          `json:"item_id"`
	OrderID         string          `json:"order_id"`
	SKU             string          `json:"sku"`
	ProductName     string          `json:"product_name"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	ShippingID      string          `json:"shipping_id,omitempty"`
	ProductSnapshot json.RawMessage `json:"product_snapshot,omitempty"`
}

// NewOrderItem crea un nuevo item de orden con subtotal calculado
func NewOrderItem(orderID, sku, productName string, quantity int, unitPrice decimal.Decimal) (*OrderItem, error) {
	if sku == "" {
		return nil, ErrSKURequired
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if unitPrice.IsNegative() {
		return nil, ErrInvalidPrice
	}

	return &OrderItem{
		ItemID:      uuid.New().String(),
		OrderID:     orderID,
		SKU:         sku,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Subtotal:    unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
	}, nil
}

// RefreshPrice actualiza el precio unitario y recalcula el subtotal
func (i *OrderItem) RefreshPrice(unitPrice decimal.Decimal) {
	i.UnitPrice = unitPrice
	i.Subtotal = unitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
