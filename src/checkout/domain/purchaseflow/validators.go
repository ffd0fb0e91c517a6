package purchaseflow

import (
	"context"
	"errors"
	"fmt"

	"checkout/src/checkout/domain/entity"
	"checkout/src/checkout/domain/port"
)

// SaleLimitValidator verifica el límite de venta por variante
// Agrupa los items por SKU, acumula cantidades en orden y marca la
// variante ofensora apenas el total acumulado supera su límite
type SaleLimitValidator struct {
	products port.ProductClassRepository
}

// NewSaleLimitValidator crea una nueva instancia del validador
func NewSaleLimitValidator(products port.ProductClassRepository) *SaleLimitValidator {
	return &SaleLimitValidator{products: products}
}

// ValidateOrder implementa OrderValidator
func (v *SaleLimitValidator) ValidateOrder(ctx context.Context, order *entity.Order, result *Result) error {
	classes, err := v.products.FindBySKUs(ctx, order.TenantID, orderSKUs(order))
	if err != nil {
		return fmt.Errorf("error fetching product classes: %w", err)
	}

	running := make(map[string]int, len(order.Items))
	flagged := make(map[string]bool)

	for _, item := range order.Items {
		pc, ok := classes[item.SKU]
		if !ok {
			// Sin variante no hay límite que chequear; el StockValidator
			// reporta la variante inexistente
			continue
		}

		running[item.SKU] += item.Quantity
		if pc.ExceedsSaleLimit(running[item.SKU]) && !flagged[item.SKU] {
			flagged[item.SKU] = true
			result.AddError(item.SKU, fmt.Sprintf(
				"sale limit exceeded for %s: requested %d, limit %d",
				pc.ProductName, running[item.SKU], *pc.SaleLimit,
			))
		}
	}

	return nil
}

// StockValidator verifica disponibilidad de stock por variante
// Disponible = stock total - stock reservado por otros checkouts
type StockValidator struct {
	products port.ProductClassRepository
}

// NewStockValidator crea una nueva instancia del validador
func NewStockValidator(products port.ProductClassRepository) *StockValidator {
	return &StockValidator{products: products}
}

// ValidateOrder implementa OrderValidator
func (v *StockValidator) ValidateOrder(ctx context.Context, order *entity.Order, result *Result) error {
	classes, err := v.products.FindBySKUs(ctx, order.TenantID, orderSKUs(order))
	if err != nil {
		return fmt.Errorf("error fetching product classes: %w", err)
	}

	for sku, quantity := range order.QuantityBySKU() {
		pc, ok := classes[sku]
		if !ok {
			result.AddError(sku, "product is no longer available")
			continue
		}
		if quantity > pc.Available() {
			result.AddError(sku, fmt.Sprintf(
				"insufficient stock for %s: requested %d, available %d",
				pc.ProductName, quantity, pc.Available(),
			))
		}
	}

	return nil
}

// ShippingValidator exige dirección de entrega a partir del paso confirm
type ShippingValidator struct{}

// NewShippingValidator crea una nueva instancia del validador
func NewShippingValidator() *ShippingValidator {
	return &ShippingValidator{}
}

// ValidateOrder implementa OrderValidator
func (v *ShippingValidator) ValidateOrder(_ context.Context, order *entity.Order, result *Result) error {
	if !order.HasShipping() {
		result.AddError("", "shipping address is required")
	}
	return nil
}

// orderSKUs retorna los SKU únicos de la orden preservando el orden
// de aparición de los items
func orderSKUs(order *entity.Order) []string {
	seen := make(map[string]bool, len(order.Items))
	skus := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		if !seen[item.SKU] {
			seen[item.SKU] = true
			skus = append(skus, item.SKU)
		}
	}
	return skus
}

// isNotFound distingue "variante inexistente" de fallas técnicas
func isNotFound(err error) bool {
	return errors.Is(err, entity.ErrProductClassNotFound)
}
