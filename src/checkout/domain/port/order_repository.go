package port

import (
	"context"

	"checkout/src/checkout/domain/entity"
	"checkout/src/shared/domain/criteria"
)

// OrderRepository define los métodos para persistir Orders
// Save persiste el aggregate completo (orden + items + shippings) de
// forma atómica; durante el checkout se invoca al final de cada paso
type OrderRepository interface {
	Save(ctx context.Context, order *entity.Order) error
	FindByID(ctx context.Context, orderID, tenantID string) (*entity.Order, error)
	List(ctx context.Context, tenantID string, crit criteria.Criteria) ([]*entity.Order, int, error)

	// Transiciones de estado guardadas por estado actual
	Confirm(ctx context.Context, orderID, tenantID string) error
	Complete(ctx context.Context, orderID, tenantID string) error
	Cancel(ctx context.Context, orderID, tenantID string) error
}
