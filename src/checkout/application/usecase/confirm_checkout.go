package usecase

import (
	"context"
	"fmt"
	"log"

	"checkout/src/checkout/application/request"
	"checkout/src/checkout/application/response"
	"checkout/src/checkout/domain/entity"
	"checkout/src/checkout/domain/port"
	"checkout/src/checkout/domain/purchaseflow"

	"github.com/google/uuid"
)

// PaymentMethodResolver resuelve el adapter de pago a partir del ID
// del método elegido por el cliente
type PaymentMethodResolver interface {
	Resolve(id uuid.UUID) (port.PaymentMethod, error)
}

// ConfirmCheckoutUseCase caso de uso del paso confirm
// Re-corre el purchase flow, verifica el pago con el método elegido y
// deja la orden CONFIRMED lista para el commit final
type ConfirmCheckoutUseCase struct {
	sessions port.SessionRepository
	orders   port.OrderRepository
	flow     *purchaseflow.Flow
	payments PaymentMethodResolver
}

// NewConfirmCheckoutUseCase crea una nueva instancia del caso de uso
func NewConfirmCheckoutUseCase(
	sessions port.SessionRepository,
	orders port.OrderRepository,
	flow *purchaseflow.Flow,
	payments PaymentMethodResolver,
) *ConfirmCheckoutUseCase {
	return &ConfirmCheckoutUseCase{
		sessions: sessions,
		orders:   orders,
		flow:     flow,
		payments: payments,
	}
}

// Execute confirma la orden pendiente de la sesión
func (uc *ConfirmCheckoutUseCase) Execute(ctx context.Context, tenantID, sessionID string, req *request.ConfirmCheckoutRequest) (*response.CheckoutResponse, error) {
	// 1. Resolver orden pendiente de la sesión
	_, order, err := loadPendingOrder(ctx, uc.sessions, uc.orders, tenantID, sessionID)
	if err != nil {
		return nil, err
	}
	if order.Status != entity.OrderStatusProcessing {
		return nil, entity.ErrOrderNotInProcessing
	}

	// 2. Re-correr el purchase flow contra inventario y precios vigentes
	result, err := uc.flow.Validate(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("error validating purchase flow: %w", err)
	}
	if result.HasError() {
		return response.NewCheckoutResponse(order, result), nil
	}

	// 3. Resolver el método de pago elegido
	method, err := uc.payments.Resolve(req.PaymentMethodID)
	if err != nil {
		return nil, err
	}

	// 4. Verificar el pago; un rechazo vuelve a la pantalla de pago
	payResult, err := method.Verify(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("error verifying payment: %w", err)
	}
	if !payResult.Success {
		resp := response.NewCheckoutResponse(order, result)
		for _, msg := range payResult.Errors {
			resp.Errors = append(resp.Errors, purchaseflow.Violation{Message: msg})
		}
		resp.RedirectURL = payResult.RedirectURL
		return resp, nil
	}

	// 5. Persistir datos de pago/contacto y transicionar a CONFIRMED
	order.PaymentMethodID = req.PaymentMethodID
	order.CustomerEmail = req.CustomerEmail
	if err := uc.orders.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("error saving order: %w", err)
	}
	if err := uc.orders.Confirm(ctx, order.OrderID, tenantID); err != nil {
		return nil, fmt.Errorf("error confirming order: %w", err)
	}

	// 6. Actualizar entidad en memoria
	order.Status = entity.OrderStatusConfirmed

	log.Printf("✅ Order %s confirmed (payment method %s)", order.OrderID, method.Code())
	return response.NewCheckoutResponse(order, result), nil
}
