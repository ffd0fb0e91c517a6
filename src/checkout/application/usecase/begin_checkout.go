package usecase

import (
	"context"
	"fmt"

	"checkout/src/checkout/application/response"
	"checkout/src/checkout/domain/entity"
	"checkout/src/checkout/domain/port"
	"checkout/src/checkout/domain/purchaseflow"
)

// BeginCheckoutUseCase caso de uso del paso index del checkout
// Convierte el carrito en una orden PROCESSING, corre el purchase flow
// y liga la orden pendiente a la sesión (pre_order_id)
type BeginCheckoutUseCase struct {
	sessions port.SessionRepository
	carts    port.CartRepository
	orders   port.OrderRepository
	flow     *purchaseflow.Flow
}

// NewBeginCheckoutUseCase crea una nueva instancia del caso de uso
func NewBeginCheckoutUseCase(
	sessions port.SessionRepository,
	carts port.CartRepository,
	orders port.OrderRepository,
	flow *purchaseflow.Flow,
) *BeginCheckoutUseCase {
	return &BeginCheckoutUseCase{
		sessions: sessions,
		carts:    carts,
		orders:   orders,
		flow:     flow,
	}
}

// Execute inicia el checkout para la sesión dada
func (uc *BeginCheckoutUseCase) Execute(ctx context.Context, tenantID, sessionID string) (*response.CheckoutResponse, error) {
	// 1. Obtener o crear la sesión de checkout
	session, err := uc.sessions.Get(ctx, sessionID)
	if err == entity.ErrSessionNotFound {
		session = &entity.CheckoutSession{
			SessionID: sessionID,
			TenantID:  tenantID,
			CartKey:   sessionID,
		}
	} else if err != nil {
		return nil, fmt.Errorf("error loading session: %w", err)
	}

	// 2. Cargar carrito
	cart, err := uc.carts.Get(ctx, tenantID, session.CartKey)
	if err != nil {
		return nil, fmt.Errorf("error loading cart: %w", err)
	}
	if cart.IsEmpty() {
		return nil, entity.ErrCartEmpty
	}

	// 3. Construir la orden en memoria a partir del carrito
	items := make([]entity.OrderItem, 0, len(cart.Items))
	for _, cartItem := range cart.Items {
		item, err := entity.NewOrderItem("", cartItem.SKU, cartItem.ProductName, cartItem.Quantity, cartItem.UnitPriceSnapshot)
		if err != nil {
			return nil, fmt.Errorf("error creating order item for SKU %s: %w", cartItem.SKU, err)
		}
		items = append(items, *item)
	}

	order, err := entity.NewOrder(tenantID, items)
	if err != nil {
		return nil, fmt.Errorf("error creating order entity: %w", err)
	}

	// 4. Correr el purchase flow: con errores se aborta al estado carrito
	// sin persistir nada
	result, err := uc.flow.Validate(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("error validating purchase flow: %w", err)
	}
	resp := response.NewCheckoutResponse(order, result)
	if result.HasError() {
		return resp, nil
	}

	// 5. Persistir la orden y ligar pre_order_id a la sesión
	if err := uc.orders.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("error saving order: %w", err)
	}

	session.PreOrderID = order.OrderID
	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("error saving session: %w", err)
	}

	return resp, nil
}
