package purchaseflow

import (
	"context"
	"fmt"
	"log"

	"checkout/src/checkout/domain/entity"
	"checkout/src/checkout/domain/port"
)

// StockReduceProcessor participa del commit final apartando stock
//   - Prepare: reserva atómica por variante; si una falla, compensa
//     todas las reservas anteriores antes de retornar
//   - Commit:  consume el stock reservado
//   - Rollback: libera las reservas (falla de pago o persistencia)
type StockReduceProcessor struct {
	products port.ProductClassRepository
}

// NewStockReduceProcessor crea una nueva instancia del processor
func NewStockReduceProcessor(products port.ProductClassRepository) *StockReduceProcessor {
	return &StockReduceProcessor{products: products}
}

// Prepare implementa PurchaseProcessor
func (p *StockReduceProcessor) Prepare(ctx context.Context, order *entity.Order) error {
	quantities := order.QuantityBySKU()
	reserved := make([]string, 0, len(quantities))

	for _, sku := range orderSKUs(order) {
		ok, err := p.products.Reserve(ctx, order.TenantID, sku, quantities[sku])
		if err != nil {
			p.compensateReserved(ctx, order, reserved, quantities)
			return fmt.Errorf("error reserving stock for SKU %s: %w", sku, err)
		}
		if !ok {
			p.compensateReserved(ctx, order, reserved, quantities)
			return fmt.Errorf("insufficient stock for SKU %s", sku)
		}
		reserved = append(reserved, sku)
	}

	return nil
}

// Commit implementa PurchaseProcessor
func (p *StockReduceProcessor) Commit(ctx context.Context, order *entity.Order) error {
	quantities := order.QuantityBySKU()
	for _, sku := range orderSKUs(order) {
		if err := p.products.Consume(ctx, order.TenantID, sku, quantities[sku]); err != nil {
			// CRÍTICO: reserva ya hecha y pago ya ejecutado; log para
			// auditoría manual, no cortar el consumo de los demás items
			log.Printf("CRITICAL: failed to consume stock for SKU %s order %s: %v", sku, order.OrderID, err)
		}
	}
	return nil
}

// Rollback implementa PurchaseProcessor
func (p *StockReduceProcessor) Rollback(ctx context.Context, order *entity.Order) error {
	quantities := order.QuantityBySKU()
	p.compensateReserved(ctx, order, orderSKUs(order), quantities)
	return nil
}

// compensateReserved libera las reservas ya tomadas
func (p *StockReduceProcessor) compensateReserved(ctx context.Context, order *entity.Order, skus []string, quantities map[string]int) {
	for _, sku := range skus {
		if err := p.products.Release(ctx, order.TenantID, sku, quantities[sku]); err != nil {
			// CRÍTICO: si falla la compensación, log para auditoría manual
			log.Printf("CRITICAL: failed to release stock for SKU %s order %s: %v", sku, order.OrderID, err)
		}
	}
}
