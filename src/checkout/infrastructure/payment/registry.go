package payment

import (
	"checkout/src/checkout/domain/entity"
	"checkout/src/checkout/domain/port"
)

// Registry resuelve el adapter de pago por el code del método
// (el ID del método elegido por el cliente se traduce a code vía el
// payment method cache)
type Registry struct {
	methods map[string]port.PaymentMethod
}

// NewRegistry crea un registry con los métodos dados
func NewRegistry(methods ...port.PaymentMethod) *Registry {
	registry := &Registry{methods: make(map[string]port.PaymentMethod, len(methods))}
	for _, method := range methods {
		registry.methods[method.Code()] = method
	}
	return registry
}

// Resolve retorna el método de pago para un code
func (r *Registry) Resolve(code string) (port.PaymentMethod, error) {
	method, ok := r.methods[code]
	if !ok {
		return nil, entity.ErrPaymentMethodUnknown
	}
	return method, nil
}
