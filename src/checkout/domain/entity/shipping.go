package entity

import "github.com/google/uuid"

// Shipping representa una dirección de entrega asociada a uno o más
// items de la orden
type Shipping struct {
	ShippingID string `json:"shipping_id"`
	OrderID    string `json:"order_id"`
	Name       string `json:"name"`
	Phone      string `json:"phone,omitempty"`
	PostalCode string `json:"postal_code"`
	Address    string `json:"address"`
}

// NewShipping crea una nueva dirección de entrega validada
func NewShipping(orderID, name, phone, postalCode, address string) (*Shipping, error) {
	if name == "" {
		return nil, ErrShippingNameRequired
	}
	if address == "" {
		return nil, ErrShippingAddressRequired
	}

	return &Shipping{
		ShippingID: uuid.New().String(),
		OrderID:    orderID,
		Name:       name,
		Phone:      phone,
		PostalCode: postalCode,
		Address:    address,
	}, nil
}
