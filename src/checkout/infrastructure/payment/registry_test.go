package payment

import (
	"context"
	"testing"

	"checkout/src/checkout/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Resolve(t *testing.T) {
	registry := NewRegistry(NewBankTransferPayment(), NewGatewayPayment())

	method, err := registry.Resolve("bank_transfer")
	require.NoError(t, err)
	assert.Equal(t, "bank_transfer", method.Code())

	_, err = registry.Resolve("crypto")
	assert.ErrorIs(t, err, entity.ErrPaymentMethodUnknown)
}

func TestBankTransfer_AlwaysApproves(t *testing.T) {
	method := NewBankTransferPayment()
	ctx := context.Background()
	order := &entity.Order{OrderID: "order-1"}

	verify, err := method.Verify(ctx, order)
	require.NoError(t, err)
	assert.True(t, verify.Success)

	apply, err := method.Apply(ctx, order)
	require.NoError(t, err)
	assert.True(t, apply.Success)

	checkout, err := method.Checkout(ctx, order)
	require.NoError(t, err)
	assert.True(t, checkout.Success)
}

func TestCachedResolver_WithoutCache(t *testing.T) {
	resolver := NewCachedResolver(nil, NewRegistry(NewBankTransferPayment()))

	_, err := resolver.Resolve(uuid.New())
	assert.ErrorIs(t, err, entity.ErrPaymentMethodUnknown)
}
