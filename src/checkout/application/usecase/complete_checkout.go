package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"checkout/src/checkout/application/response"
	"checkout/src/checkout/domain/entity"
	"checkout/src/checkout/domain/port"
	"checkout/src/checkout/domain/purchaseflow"
)

// CompleteCheckoutUseCase caso de uso del paso checkout/complete
// Flujo transaccional robusto:
//  1. Re-correr el purchase flow (última validación contra inventario vivo)
//  2. flow.Prepare: reservar stock con compensación
//  3. Apply + Checkout del método de pago
//  4. Si falla el pago → rollback de las reservas y pantalla de error
//  5. Persistir COMPLETED; si falla → rollback
//  6. flow.Commit: consumir stock, publicar evento, enviar mail
type CompleteCheckoutUseCase struct {
	sessions  port.SessionRepository
	carts     port.CartRepository
	orders    port.OrderRepository
	flow      *purchaseflow.Flow
	payments  PaymentMethodResolver
	publisher port.EventPublisher
	mailer    port.MailSender
}

// NewCompleteCheckoutUseCase crea una nueva instancia del caso de uso
func NewCompleteCheckoutUseCase(
	sessions port.SessionRepository,
	carts port.CartRepository,
	orders port.OrderRepository,
	flow *purchaseflow.Flow,
	payments PaymentMethodResolver,
	publisher port.EventPublisher,
	mailer port.MailSender,
) *CompleteCheckoutUseCase {
	return &CompleteCheckoutUseCase{
		sessions:  sessions,
		carts:     carts,
		orders:    orders,
		flow:      flow,
		payments:  payments,
		publisher: publisher,
		mailer:    mailer,
	}
}

// Execute ejecuta el commit final del checkout
func (uc *CompleteCheckoutUseCase) Execute(ctx context.Context, tenantID, sessionID string) (*response.CheckoutResponse, error) {
	// ========================================================================
	// PASO 1: Resolver orden pendiente y validar estado
	// ========================================================================
	session, order, err := loadPendingOrder(ctx, uc.sessions, uc.orders, tenantID, sessionID)
	if err != nil {
		return nil, err
	}
	if order.Status != entity.OrderStatusConfirmed {
		return nil, entity.ErrOrderNotInConfirmed
	}

	// ========================================================================
	// PASO 2: Última corrida del purchase flow contra inventario vivo
	// ========================================================================
	result, err := uc.flow.Validate(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("error validating purchase flow: %w", err)
	}
	if result.HasError() {
		return response.NewCheckoutResponse(order, result), nil
	}

	// ========================================================================
	// PASO 3: Reservar stock (Prepare compensa internamente si falla)
	// ========================================================================
	if err := uc.flow.Prepare(ctx, order); err != nil {
		return nil, fmt.Errorf("error preparing purchase: %w", err)
	}

	// ========================================================================
	// PASO 4: Ejecutar el pago (Apply + Checkout)
	// Cualquier falla libera las reservas antes de retornar
	// ========================================================================
	method, err := uc.payments.Resolve(order.PaymentMethodID)
	if err != nil {
		uc.flow.Rollback(ctx, order)
		return nil, err
	}

	for _, operation := range []struct {
		name string
		run  func(context.Context, *entity.Order) (*port.PaymentResult, error)
	}{
		{"apply", method.Apply},
		{"checkout", method.Checkout},
	} {
		payResult, err := operation.run(ctx, order)
		if err != nil {
			// Error técnico del gateway
			uc.flow.Rollback(ctx, order)
			return nil, fmt.Errorf("error on payment %s: %w", operation.name, err)
		}
		if !payResult.Success {
			// Rechazo de negocio: rollback y de vuelta a la pantalla de error
			uc.flow.Rollback(ctx, order)
			resp := response.NewCheckoutResponse(order, result)
			for _, msg := range payResult.Errors {
				resp.Errors = append(resp.Errors, purchaseflow.Violation{Message: msg})
			}
			resp.RedirectURL = payResult.RedirectURL
			return resp, nil
		}
	}

	// ========================================================================
	// PASO 5: Persistir COMPLETED; si falla, compensar las reservas
	// ========================================================================
	if err := uc.orders.Save(ctx, order); err != nil {
		uc.flow.Rollback(ctx, order)
		return nil, fmt.Errorf("error saving order (stock released): %w", err)
	}
	if err := uc.orders.Complete(ctx, order.OrderID, tenantID); err != nil {
		uc.flow.Rollback(ctx, order)
		return nil, fmt.Errorf("error completing order (stock released): %w", err)
	}
	order.Status = entity.OrderStatusCompleted

	// ========================================================================
	// PASO 6: Consumir el stock reservado
	// ========================================================================
	if err := uc.flow.Commit(ctx, order); err != nil {
		// La orden ya está COMPLETED y cobrada; queda registrado para
		// auditoría manual, no se revierte el checkout
		log.Printf("CRITICAL: purchase commit failed for completed order %s: %v", order.OrderID, err)
	}

	// ========================================================================
	// PASO 7: Evento + mail (no fatales) y limpieza de carrito/sesión
	// ========================================================================
	if uc.publisher != nil {
		if err := uc.publishOrderCompletedEvent(ctx, order); err != nil {
			log.Printf("WARNING: Failed to publish checkout.order.completed: %v", err)
		}
	}
	if uc.mailer != nil {
		if err := uc.mailer.SendOrderConfirmation(ctx, order); err != nil {
			log.Printf("WARNING: Failed to send order confirmation mail: %v", err)
		}
	}

	if err := uc.carts.Delete(ctx, tenantID, session.CartKey); err != nil {
		log.Printf("WARNING: Failed to clear cart %s: %v", session.CartKey, err)
	}
	if err := uc.sessions.Delete(ctx, session.SessionID); err != nil {
		log.Printf("WARNING: Failed to clear session %s: %v", session.SessionID, err)
	}

	log.Printf("✅ Checkout completed: Order=%s, Total=%s", order.OrderID, order.Total)
	return response.NewCheckoutResponse(order, result), nil
}

// publishOrderCompletedEvent publica el evento checkout.order.completed
func (uc *CompleteCheckoutUseCase) publishOrderCompletedEvent(ctx context.Context, order *entity.Order) error {
	payload := map[string]interface{}{
		"customer_email": order.CustomerEmail,
		"totals": map[string]interface{}{
			"subtotal":     order.Subtotal,
			"delivery_fee": order.DeliveryFee,
			"tax":          order.Tax,
			"total":        order.Total,
		},
		"items": order.Items,
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	return uc.publisher.Publish(
		ctx,
		order.TenantID,
		order.OrderID,
		"checkout_order",
		"checkout.order.completed",
		payloadBytes,
	)
}
