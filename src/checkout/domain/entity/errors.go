package entity

import "errors"

var (
	ErrTenantIDRequired      = errors.New("tenant_id is required")
	ErrSKURequired           = errors.New("sku is required")
	ErrInvalidQuantity       = errors.New("quantity must be greater than 0")
	ErrInvalidPrice          = errors.New("price must be greater than or equal to 0")
	ErrOrderNotFound         = errors.New("order not found")
	ErrOrderMustHaveItems    = errors.New("order must have at least one item")
	ErrOrderNotInProcessing  = errors.New("order is not in PROCESSING state")
	ErrOrderNotInConfirmed   = errors.New("order is not in CONFIRMED state")
	ErrOrderAlreadyCompleted = errors.New("order is already COMPLETED")

	// Checkout flow
	ErrCartEmpty               = errors.New("cart is empty")
	ErrCartItemNotFound        = errors.New("cart item not found")
	ErrSessionNotFound         = errors.New("checkout session not found")
	ErrNoPendingOrder          = errors.New("no pending order in session")
	ErrShippingNameRequired    = errors.New("shipping name is required")
	ErrShippingAddressRequired = errors.New("shipping address is required")

	// Productos
	ErrProductClassNotFound = errors.New("product_class not found")
	ErrSaleLimitExceeded    = errors.New("sale limit exceeded")
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrPaymentMethodUnknown = errors.New("payment method not available")
)
