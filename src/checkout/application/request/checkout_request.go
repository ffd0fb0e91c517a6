package request

import "github.com/google/uuid"

// AddCartItemRequest representa el request para agregar un item al carrito
type AddCartItemRequest struct {
	SKU      string `json:"sku" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,gt=0"`
}

// UpdateShippingRequest representa el request de los pasos
// shipping / shipping_edit
type UpdateShippingRequest struct {
	Name       string `json:"name" binding:"required"`
	Phone      string `json:"phone"`
	PostalCode string `json:"postal_code"`
	Address    string `json:"address" binding:"required"`
}

// ConfirmCheckoutRequest representa el request del paso confirm
type ConfirmCheckoutRequest struct {
	PaymentMethodID uuid.UUID `json:"payment_method_id" binding:"required"`
	CustomerEmail   string    `json:"customer_email" binding:"required,email"`
}
