package entity

import (
	"github.com/shopspring/decimal"
)

// CartItem representa una línea del carrito
// UnitPriceSnapshot guarda el precio al momento de agregar; el purchase
// flow detecta cambios de precio al iniciar el checkout
type CartItem struct {
	SKU               string          `json:"sku"`
	ProductName       string          `json:"product_name"`
	Quantity          int             `json:"quantity"`
	UnitPriceSnapshot decimal.Decimal `json:"unit_price_snapshot"`
}

// Cart representa el carrito de un cliente, almacenado en Redis
type Cart struct {
	CartKey  string     `json:"cart_key"`
	TenantID string     `json:"tenant_id"`
	Items    []CartItem `json:"items"`
}

// IsEmpty indica si el carrito no tiene items
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// QuantityBySKU suma las cantidades del carrito por variante
func (c *Cart) QuantityBySKU() map[string]int {
	quantities := make(map[string]int, len(c.Items))
	for _, item := range c.Items {
		quantities[item.SKU] += item.Quantity
	}
	return quantities
}

// AddItem agrega cantidad a una variante existente o crea la línea
func (c *Cart) AddItem(sku, productName string, quantity int, unitPrice decimal.Decimal) error {
	if sku == "" {
		return ErrSKURequired
	}
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	for i := range c.Items {
		if c.Items[i].SKU == sku {
			c.Items[i].Quantity += quantity
			return nil
		}
	}

	c.Items = append(c.Items, CartItem{
		SKU:               sku,
		ProductName:       productName,
		Quantity:          quantity,
		UnitPriceSnapshot: unitPrice,
	})
	return nil
}

// RemoveItem elimina una variante del carrito
func (c *Cart) RemoveItem(sku string) error {
	for i := range c.Items {
		if c.Items[i].SKU == sku {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return nil
		}
	}
	return ErrCartItemNotFound
}

// CheckoutSession liga la sesión del cliente con su carrito y la orden
// pendiente (pre_order_id) durante el checkout
type CheckoutSession struct {
	SessionID  string `json:"session_id"`
	TenantID   string `json:"tenant_id"`
	CartKey    string `json:"cart_key"`
	PreOrderID string `json:"pre_order_id,omitempty"`
}
