package usecase

import (
	"context"
	"fmt"

	"checkout/src/checkout/domain/entity"
	"checkout/src/checkout/domain/port"
)

// loadPendingOrder resuelve la orden pendiente de una sesión de checkout
// (session → pre_order_id → aggregate)
func loadPendingOrder(
	ctx context.Context,
	sessions port.SessionRepository,
	orders port.OrderRepository,
	tenantID, sessionID string,
) (*entity.CheckoutSession, *entity.Order, error) {
	session, err := sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if session.PreOrderID == "" {
		return nil, nil, entity.ErrNoPendingOrder
	}

	order, err := orders.FindByID(ctx, session.PreOrderID, tenantID)
	if err == entity.ErrOrderNotFound {
		return nil, nil, entity.ErrNoPendingOrder
	}
	if err != nil {
		return nil, nil, fmt.Errorf("error loading pending order: %w", err)
	}

	return session, order, nil
}
