package port

import (
	"context"

	"checkout/src/checkout/domain/entity"
)

// PaymentResult es el resultado de una operación de pago
// Success=false es un rechazo de negocio (la orden vuelve a una pantalla
// anterior con los errores); un error de Go es una falla técnica
// RedirectURL/ForwardPath permiten que el método de pago corte el flujo
// con una respuesta externa (ej: redirección a 3D Secure)
type PaymentResult struct {
	Success     bool     `json:"success"`
	Errors      []string `json:"errors,omitempty"`
	RedirectURL string   `json:"redirect_url,omitempty"`
	ForwardPath string   `json:"forward_path,omitempty"`
}

// NewPaymentSuccess crea un resultado exitoso
func NewPaymentSuccess() *PaymentResult {
	return &PaymentResult{Success: true}
}

// NewPaymentFailure crea un resultado rechazado con sus errores
func NewPaymentFailure(errors ...string) *PaymentResult {
	return &PaymentResult{Success: false, Errors: errors}
}

// HasRedirect indica si el resultado corta el flujo con una redirección
func (r *PaymentResult) HasRedirect() bool {
	return r.RedirectURL != ""
}

// PaymentMethod define el ciclo de vida de un método de pago durante
// el checkout:
//   - Verify:   paso confirm, valida que el pago sea posible
//   - Apply:    paso checkout, prepara/autoriza el pago
//   - Checkout: paso checkout, ejecuta el cobro definitivo
type PaymentMethod interface {
	Code() string
	Verify(ctx context.Context, order *entity.Order) (*PaymentResult, error)
	Apply(ctx context.Context, order *entity.Order) (*PaymentResult, error)
	Checkout(ctx context.Context, order *entity.Order) (*PaymentResult, error)
}

// EventPublisher publica eventos de dominio al bus (Kafka)
type EventPublisher interface {
	Publish(ctx context.Context, tenantID, aggregateID, aggregateType, eventType string, payload []byte) error
}

// MailSender envía correos transaccionales del checkout
type MailSender interface {
	SendOrderConfirmation(ctx context.Context, order *entity.Order) error
}
