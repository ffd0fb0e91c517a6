package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus representa el estado de una orden durante el checkout
type OrderStatus string

const (
	// PROCESSING: orden en curso de checkout (mutable, ligada a la sesión)
	OrderStatusProcessing OrderStatus = "PROCESSING"
	// CONFIRMED: pago verificado, pendiente de commit final
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	// COMPLETED: checkout finalizado, orden inmutable
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCanceled  OrderStatus = "CANCELED"
)

// Order representa una orden de compra (Aggregate Root)
// Durante el checkout es mutable: el purchase flow recalcula totales y
// valida reglas de negocio en cada paso
type Order struct {
	OrderID         string      `json:"order_id"`
	TenantID        string      `json:"tenant_id"`
	CustomerEmail   string      `json:"customer_email,omitempty"`
	Status          OrderStatus `json:"status"`
	PaymentMethodID uuid.UUID   `json:"payment_method_id,omitempty"`
	Items           []OrderItem `json:"items"`
	Shippings       []Shipping  `json:"shippings,omitempty"`

	// Totales recalculados por el purchase flow en cada paso
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Tax         decimal.Decimal `json:"tax"`
	Total       decimal.Decimal `json:"total"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewOrder crea una nueva orden en estado PROCESSING (DDD Aggregate Root)
func NewOrder(tenantID string, items []OrderItem) (*Order, error) {
	if tenantID == "" {
		return nil, ErrTenantIDRequired
	}
	if len(items) == 0 {
		return nil, ErrOrderMustHaveItems
	}

	orderID := uuid.New().String()
	now := time.Now()

	for i := range items {
		items[i].OrderID = orderID
	}

	return &Order{
		OrderID:     orderID,
		TenantID:    tenantID,
		Status:      OrderStatusProcessing,
		Items:       items,
		Subtotal:    decimal.Zero,
		DeliveryFee: decimal.Zero,
		Tax:         decimal.Zero,
		Total:       decimal.Zero,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// TotalItems retorna el número total de líneas de la orden
func (o *Order) TotalItems() int {
	return len(o.Items)
}

// QuantityBySKU agrupa los items por variante y suma cantidades
// Base del chequeo de límite de venta por variante
func (o *Order) QuantityBySKU() map[string]int {
	quantities := make(map[string]int, len(o.Items))
	for _, item := range o.Items {
		quantities[item.SKU] += item.Quantity
	}
	return quantities
}

// SetShipping reemplaza la dirección de entrega y asigna todos los items
// Los pasos shipping/shipping_edit del checkout reutilizan esta operación
func (o *Order) SetShipping(shipping Shipping) {
	shipping.OrderID = o.OrderID
	o.Shippings = []Shipping{shipping}
	for i := range o.Items {
		o.Items[i].ShippingID = shipping.ShippingID
	}
	o.UpdatedAt = time.Now()
}

// HasShipping indica si la orden ya tiene dirección de entrega
func (o *Order) HasShipping() bool {
	return len(o.Shippings) > 0
}

// Confirm marca la orden como CONFIRMED (pago verificado)
func (o *Order) Confirm() error {
	if o.Status != OrderStatusProcessing {
		return ErrOrderNotInProcessing
	}
	o.Status = OrderStatusConfirmed
	o.UpdatedAt = time.Now()
	return nil
}

// Complete marca la orden como COMPLETED (checkout finalizado)
func (o *Order) Complete() error {
	if o.Status != OrderStatusConfirmed {
		return ErrOrderNotInConfirmed
	}
	o.Status = OrderStatusCompleted
	o.UpdatedAt = time.Now()
	return nil
}

// Cancel cancela una orden que aún no fue completada
func (o *Order) Cancel() error {
	if o.Status == OrderStatusCompleted {
		return ErrOrderAlreadyCompleted
	}
	o.Status = OrderStatusCanceled
	o.UpdatedAt = time.Now()
	return nil
}
