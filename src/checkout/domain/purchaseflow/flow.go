package purchaseflow

import (
	"context"
	"fmt"
	"log"

	"checkout/src/checkout/domain/entity"
)

// ItemProcessor procesa cada item de la orden durante la validación
// Puede mutar el item (ej: refrescar precio) y agregar warnings/errores
// al resultado; un error de Go es una falla técnica que corta el flow
type ItemProcessor interface {
	ProcessItem(ctx context.Context, item *entity.OrderItem, order *entity.Order, result *Result) error
}

// OrderProcessor recalcula estado derivado del aggregate (totales,
// costo de envío, impuestos); siempre desde cero, nunca incremental,
// para que re-correr el flow sobre una orden sin cambios sea idempotente
type OrderProcessor interface {
	ProcessOrder(ctx context.Context, order *entity.Order, result *Result) error
}

// OrderValidator verifica reglas de negocio sobre el aggregate completo
// sin mutarlo; las violaciones se agregan al resultado
type OrderValidator interface {
	ValidateOrder(ctx context.Context, order *entity.Order, result *Result) error
}

// PurchaseProcessor participa del commit final de la compra
// Prepare aparta recursos (reserva de stock), Commit los consume,
// Rollback los libera ante falla de pago o persistencia
type PurchaseProcessor interface {
	Prepare(ctx context.Context, order *entity.Order) error
	Commit(ctx context.Context, order *entity.Order) error
	Rollback(ctx context.Context, order *entity.Order) error
}

// Flow es el pipeline de validación del checkout
// Se re-corre completo contra la orden mutable en cada paso:
// item processors → order processors → validators, en orden de registro
type Flow struct {
	itemProcessors     []ItemProcessor
	orderProcessors    []OrderProcessor
	validators         []OrderValidator
	purchaseProcessors []PurchaseProcessor
}

// NewFlow crea un pipeline vacío
func NewFlow() *Flow {
	return &Flow{}
}

// AddItemProcessor registra un processor por item
func (f *Flow) AddItemProcessor(p ItemProcessor) *Flow {
	f.itemProcessors = append(f.itemProcessors, p)
	return f
}

// AddOrderProcessor registra un processor de aggregate
// El orden de registro importa: los totales dependen de los subtotales
func (f *Flow) AddOrderProcessor(p OrderProcessor) *Flow {
	f.orderProcessors = append(f.orderProcessors, p)
	return f
}

// AddValidator registra un validador de reglas de negocio
func (f *Flow) AddValidator(v OrderValidator) *Flow {
	f.validators = append(f.validators, v)
	return f
}

// AddPurchaseProcessor registra un participante del commit final
func (f *Flow) AddPurchaseProcessor(p PurchaseProcessor) *Flow {
	f.purchaseProcessors = append(f.purchaseProcessors, p)
	return f
}

// Validate corre el pipeline completo contra la orden
// Retorna el resultado agregado; un error de Go es una falla técnica
// (repositorio caído, etc.), no una violación de regla de negocio
func (f *Flow) Validate(ctx context.Context, order *entity.Order) (*Result, error) {
	result := NewResult()

	for _, processor := range f.itemProcessors {
		for i := range order.Items {
			if err := processor.ProcessItem(ctx, &order.Items[i], order, result); err != nil {
				return nil, fmt.Errorf("item processor failed for SKU %s: %w", order.Items[i].SKU, err)
			}
		}
	}

	for _, processor := range f.orderProcessors {
		if err := processor.ProcessOrder(ctx, order, result); err != nil {
			return nil, fmt.Errorf("order processor failed: %w", err)
		}
	}

	for _, validator := range f.validators {
		if err := validator.ValidateOrder(ctx, order, result); err != nil {
			return nil, fmt.Errorf("order validator failed: %w", err)
		}
	}

	return result, nil
}

// Prepare ejecuta Prepare de cada purchase processor
// Si uno falla, hace rollback de los ya preparados antes de retornar
func (f *Flow) Prepare(ctx context.Context, order *entity.Order) error {
	prepared := make([]PurchaseProcessor, 0, len(f.purchaseProcessors))

	for _, processor := range f.purchaseProcessors {
		if err := processor.Prepare(ctx, order); err != nil {
			f.rollbackPrepared(ctx, order, prepared)
			return fmt.Errorf("purchase prepare failed: %w", err)
		}
		prepared = append(prepared, processor)
	}

	return nil
}

// Commit ejecuta Commit de cada purchase processor
func (f *Flow) Commit(ctx context.Context, order *entity.Order) error {
	for _, processor := range f.purchaseProcessors {
		if err := processor.Commit(ctx, order); err != nil {
			// CRÍTICO: el stock ya fue apartado; log para auditoría manual
			log.Printf("CRITICAL: purchase commit failed for order %s: %v", order.OrderID, err)
			return fmt.Errorf("purchase commit failed: %w", err)
		}
	}
	return nil
}

// Rollback ejecuta Rollback de todos los purchase processors
func (f *Flow) Rollback(ctx context.Context, order *entity.Order) {
	f.rollbackPrepared(ctx, order, f.purchaseProcessors)
}

func (f *Flow) rollbackPrepared(ctx context.Context, order *entity.Order, prepared []PurchaseProcessor) {
	for _, processor := range prepared {
		if err := processor.Rollback(ctx, order); err != nil {
			// No cortar el rollback de los demás participantes
			log.Printf("CRITICAL: purchase rollback failed for order %s: %v", order.OrderID, err)
		}
	}
}
