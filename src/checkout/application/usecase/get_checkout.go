package usecase

import (
	"context"
	"fmt"

	"checkout/src/checkout/application/response"
	"checkout/src/checkout/domain/port"
	"checkout/src/checkout/domain/purchaseflow"
)

// GetCheckoutUseCase caso de uso para obtener el estado actual del
// checkout de una sesión (renderiza los datos de cada pantalla)
// Re-corre el purchase flow para mostrar totales y warnings vigentes
type GetCheckoutUseCase struct {
	sessions port.SessionRepository
	orders   port.OrderRepository
	flow     *purchaseflow.Flow
}

// NewGetCheckoutUseCase crea una nueva instancia del caso de uso
func NewGetCheckoutUseCase(
	sessions port.SessionRepository,
	orders port.OrderRepository,
	flow *purchaseflow.Flow,
) *GetCheckoutUseCase {
	return &GetCheckoutUseCase{
		sessions: sessions,
		orders:   orders,
		flow:     flow,
	}
}

// Execute retorna el estado de la orden pendiente de la sesión
func (uc *GetCheckoutUseCase) Execute(ctx context.Context, tenantID, sessionID string) (*response.CheckoutResponse, error) {
	_, order, err := loadPendingOrder(ctx, uc.sessions, uc.orders, tenantID, sessionID)
	if err != nil {
		return nil, err
	}

	result, err := uc.flow.Validate(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("error validating purchase flow: %w", err)
	}

	return response.NewCheckoutResponse(order, result), nil
}
