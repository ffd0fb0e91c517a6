package port

import (
	"context"

	"checkout/src/checkout/domain/entity"
)

// ProductClassRepository define el acceso a variantes de producto
// Las operaciones de stock son atómicas (UPDATE condicional en una sola
// sentencia) para eliminar race conditions entre checkouts concurrentes
type ProductClassRepository interface {
	FindBySKU(ctx context.Context, tenantID, sku string) (*entity.ProductClass, error)
	FindBySKUs(ctx context.Context, tenantID string, skus []string) (map[string]*entity.ProductClass, error)

	// Reserve aparta stock para un checkout en curso
	// Retorna false si no hay stock disponible suficiente
	Reserve(ctx context.Context, tenantID, sku string, quantity int) (bool, error)

	// Release libera una reserva (rollback de checkout)
	Release(ctx context.Context, tenantID, sku string, quantity int) error

	// Consume descuenta stock reservado (commit de checkout)
	Consume(ctx context.Context, tenantID, sku string, quantity int) error
}
