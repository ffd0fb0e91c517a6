package port

import (
	"context"

	"checkout/src/checkout/domain/entity"
)

// CartRepository define el almacenamiento del carrito (Redis)
type CartRepository interface {
	Get(ctx context.Context, tenantID, cartKey string) (*entity.Cart, error)
	Save(ctx context.Context, cart *entity.Cart) error
	Delete(ctx context.Context, tenantID, cartKey string) error
}

// SessionRepository define el almacenamiento de la sesión de checkout
// La sesión guarda cart_key y pre_order_id para ligar carrito y orden
// pendiente entre pasos
type SessionRepository interface {
	Get(ctx context.Context, sessionID string) (*entity.CheckoutSession, error)
	Save(ctx context.Context, session *entity.CheckoutSession) error
	Delete(ctx context.Context, sessionID string) error
}
