package response

import (
	"checkout/src/checkout/domain/entity"
	"checkout/src/checkout/domain/purchaseflow"

	"github.com/shopspring/decimal"
)

// CheckoutItemResponse representa un item en las respuestas del checkout
type CheckoutItemResponse struct {
	ItemID      string          `json:"item_id"`
	SKU         string          `json:"sku"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// CheckoutResponse representa el estado de la orden en cada paso
// Errors/Warnings vienen del purchase flow; con errores el cliente
// vuelve a la pantalla anterior
type CheckoutResponse struct {
	OrderID     string                   `json:"order_id,omitempty"`
	Status      string                   `json:"status,omitempty"`
	Items       []CheckoutItemResponse   `json:"items,omitempty"`
	Shippings   []entity.Shipping        `json:"shippings,omitempty"`
	Subtotal    decimal.Decimal          `json:"subtotal"`
	DeliveryFee decimal.Decimal          `json:"delivery_fee"`
	Tax         decimal.Decimal          `json:"tax"`
	Total       decimal.Decimal          `json:"total"`
	Warnings    []purchaseflow.Violation `json:"warnings,omitempty"`
	Errors      []purchaseflow.Violation `json:"errors,omitempty"`
	RedirectURL string                   `json:"redirect_url,omitempty"`
}

// NewCheckoutResponse arma la respuesta a partir del aggregate y el
// resultado del purchase flow
func NewCheckoutResponse(order *entity.Order, result *purchaseflow.Result) *CheckoutResponse {
	resp := &CheckoutResponse{
		OrderID:     order.OrderID,
		Status:      string(order.Status),
		Shippings:   order.Shippings,
		Subtotal:    order.Subtotal,
		DeliveryFee: order.DeliveryFee,
		Tax:         order.Tax,
		Total:       order.Total,
	}
	for _, item := range order.Items {
		resp.Items = append(resp.Items, CheckoutItemResponse{
			ItemID:      item.ItemID,
			SKU:         item.SKU,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal,
		})
	}
	if result != nil {
		resp.Warnings = result.Warnings
		resp.Errors = result.Errors
	}
	return resp
}

// HasErrors indica si la respuesta lleva errores del purchase flow
func (r *CheckoutResponse) HasErrors() bool {
	return len(r.Errors) > 0
}

// CartResponse representa el carrito en las respuestas HTTP
type CartResponse struct {
	CartKey string                   `json:"cart_key"`
	Items   []entity.CartItem        `json:"items"`
	Errors  []purchaseflow.Violation `json:"errors,omitempty"`
}

// ListOrdersResponse representa el listado paginado de órdenes
type ListOrdersResponse struct {
	Orders     []*CheckoutResponse `json:"orders"`
	TotalCount int                 `json:"total_count"`
}
