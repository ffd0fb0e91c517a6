package purchaseflow

import (
	"context"
	"encoding/json"
	"fmt"

	"checkout/src/checkout/domain/entity"
	"checkout/src/checkout/domain/port"

	"github.com/shopspring/decimal"
)

// PriceProcessor refresca el precio unitario de cada item contra el
// precio vigente de la variante y recalcula su subtotal
// Si el precio cambió desde que el item entró al carrito, agrega un
// warning para mostrar al cliente
type PriceProcessor struct {
	products port.ProductClassRepository
}

// NewPriceProcessor crea una nueva instancia del processor
func NewPriceProcessor(products port.ProductClassRepository) *PriceProcessor {
	return &PriceProcessor{products: products}
}

// ProcessItem implementa ItemProcessor
func (p *PriceProcessor) ProcessItem(ctx context.Context, item *entity.OrderItem, order *entity.Order, result *Result) error {
	pc, err := p.products.FindBySKU(ctx, order.TenantID, item.SKU)
	if err != nil {
		if isNotFound(err) {
			// El StockValidator reporta la variante inexistente
			return nil
		}
		return fmt.Errorf("error fetching product class: %w", err)
	}

	if !pc.Price.Equal(item.UnitPrice) {
		result.AddWarning(item.SKU, fmt.Sprintf(
			"price of %s changed from %s to %s",
			pc.ProductName, item.UnitPrice.String(), pc.Price.String(),
		))
	}

	// El snapshot de la variante se toma una sola vez, en la primera
	// corrida del flow, y queda inmutable en el item
	if len(item.ProductSnapshot) == 0 {
		if snapshot, err := json.Marshal(pc); err == nil {
			item.ProductSnapshot = snapshot
		}
	}

	item.ProductName = pc.ProductName
	item.RefreshPrice(pc.Price)
	return nil
}

// SubtotalProcessor recalcula el subtotal de la orden desde cero
// sumando los subtotales de los items
type SubtotalProcessor struct{}

// NewSubtotalProcessor crea una nueva instancia del processor
func NewSubtotalProcessor() *SubtotalProcessor {
	return &SubtotalProcessor{}
}

// ProcessOrder implementa OrderProcessor
func (p *SubtotalProcessor) ProcessOrder(_ context.Context, order *entity.Order, _ *Result) error {
	subtotal := decimal.Zero
	for _, item := range order.Items {
		subtotal = subtotal.Add(item.Subtotal)
	}
	order.Subtotal = subtotal
	return nil
}

// DeliveryFeeProcessor recalcula el costo de envío: tarifa plana por
// cada dirección de entrega de la orden
type DeliveryFeeProcessor struct {
	feePerShipping decimal.Decimal
}

// NewDeliveryFeeProcessor crea una nueva instancia del processor
func NewDeliveryFeeProcessor(feePerShipping decimal.Decimal) *DeliveryFeeProcessor {
	return &DeliveryFeeProcessor{feePerShipping: feePerShipping}
}

// ProcessOrder implementa OrderProcessor
func (p *DeliveryFeeProcessor) ProcessOrder(_ context.Context, order *entity.Order, _ *Result) error {
	count := decimal.NewFromInt(int64(len(order.Shippings)))
	order.DeliveryFee = p.feePerShipping.Mul(count)
	return nil
}

// TaxProcessor recalcula el impuesto sobre subtotal + envío
// Debe registrarse después de SubtotalProcessor y DeliveryFeeProcessor
type TaxProcessor struct {
	rate decimal.Decimal
}

// NewTaxProcessor crea una nueva instancia del processor
func NewTaxProcessor(rate decimal.Decimal) *TaxProcessor {
	return &TaxProcessor{rate: rate}
}

// ProcessOrder implementa OrderProcessor
func (p *TaxProcessor) ProcessOrder(_ context.Context, order *entity.Order, _ *Result) error {
	base := order.Subtotal.Add(order.DeliveryFee)
	order.Tax = base.Mul(p.rate).Round(2)
	return nil
}

// TotalProcessor recalcula el total final de la orden
// Debe registrarse último entre los order processors
type TotalProcessor struct{}

// NewTotalProcessor crea una nueva instancia del processor
func NewTotalProcessor() *TotalProcessor {
	return &TotalProcessor{}
}

// ProcessOrder implementa OrderProcessor
func (p *TotalProcessor) ProcessOrder(_ context.Context, order *entity.Order, _ *Result) error {
	order.Total = order.Subtotal.Add(order.DeliveryFee).Add(order.Tax)
	return nil
}
