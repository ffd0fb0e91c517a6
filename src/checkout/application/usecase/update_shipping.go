package usecase

import (
	"context"
	"fmt"

	"checkout/src/checkout/application/request"
	"checkout/src/checkout/application/response"
	"checkout/src/checkout/domain/entity"
	"checkout/src/checkout/domain/port"
	"checkout/src/checkout/domain/purchaseflow"
)

// UpdateShippingUseCase caso de uso de los pasos shipping/shipping_edit
// Reemplaza la dirección de entrega de la orden pendiente y re-corre el
// purchase flow (el costo de envío depende de las entregas)
type UpdateShippingUseCase struct {
	sessions port.SessionRepository
	orders   port.OrderRepository
	flow     *purchaseflow.Flow
}

// NewUpdateShippingUseCase crea una nueva instancia del caso de uso
func NewUpdateShippingUseCase(
	sessions port.SessionRepository,
	orders port.OrderRepository,
	flow *purchaseflow.Flow,
) *UpdateShippingUseCase {
	return &UpdateShippingUseCase{
		sessions: sessions,
		orders:   orders,
		flow:     flow,
	}
}

// Execute actualiza la dirección de entrega de la orden pendiente
func (uc *UpdateShippingUseCase) Execute(ctx context.Context, tenantID, sessionID string, req *request.UpdateShippingRequest) (*response.CheckoutResponse, error) {
	// 1. Resolver orden pendiente de la sesión
	_, order, err := loadPendingOrder(ctx, uc.sessions, uc.orders, tenantID, sessionID)
	if err != nil {
		return nil, err
	}

	// 2. Solo una orden en checkout puede cambiar de dirección
	if order.Status != entity.OrderStatusProcessing {
		return nil, entity.ErrOrderNotInProcessing
	}

	// 3. Aplicar la dirección al aggregate
	shipping, err := entity.NewShipping(order.OrderID, req.Name, req.Phone, req.PostalCode, req.Address)
	if err != nil {
		return nil, err
	}
	order.SetShipping(*shipping)

	// 4. Re-correr el purchase flow; con errores se aborta sin persistir
	result, err := uc.flow.Validate(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("error validating purchase flow: %w", err)
	}
	resp := response.NewCheckoutResponse(order, result)
	if result.HasError() {
		return resp, nil
	}

	// 5. Persistir el aggregate actualizado
	if err := uc.orders.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("error saving order: %w", err)
	}

	return resp, nil
}
