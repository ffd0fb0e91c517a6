package payment

import (
	"checkout/src/checkout/domain/entity"
	"checkout/src/checkout/domain/port"
	"checkout/src/checkout/infrastructure/cache"

	"github.com/google/uuid"
)

// CachedResolver implementa usecase.PaymentMethodResolver
// Traduce el ID del método elegido por el cliente a su code vía el
// payment method cache y resuelve el adapter en el registry
type CachedResolver struct {
	methods  *cache.PaymentMethodCache
	registry *Registry
}

// NewCachedResolver crea una nueva instancia del resolver
func NewCachedResolver(methods *cache.PaymentMethodCache, registry *Registry) *CachedResolver {
	return &CachedResolver{methods: methods, registry: registry}
}

// Resolve retorna el adapter de pago para el ID dado
func (r *CachedResolver) Resolve(id uuid.UUID) (port.PaymentMethod, error) {
	if r.methods == nil {
		return nil, entity.ErrPaymentMethodUnknown
	}
	code, ok := r.methods.GetCode(id)
	if !ok {
		return nil, entity.ErrPaymentMethodUnknown
	}
	return r.registry.Resolve(code)
}
