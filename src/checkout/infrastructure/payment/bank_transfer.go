package payment

import (
	"context"

	"checkout/src/checkout/domain/entity"
	"checkout/src/checkout/domain/port"
)

// BankTransferPayment método de pago offline (transferencia bancaria)
// No hay gateway externo: verify/apply/checkout siempre aprueban y el
// cobro se concilia después por fuera del checkout
type BankTransferPayment struct{}

// NewBankTransferPayment crea una nueva instancia del método
func NewBankTransferPayment() *BankTransferPayment {
	return &BankTransferPayment{}
}

// Code implementa PaymentMethod
func (p *BankTransferPayment) Code() string {
	return "bank_transfer"
}

// Verify implementa PaymentMethod
func (p *BankTransferPayment) Verify(_ context.Context, _ *entity.Order) (*port.PaymentResult, error) {
	return port.NewPaymentSuccess(), nil
}

// Apply implementa PaymentMethod
func (p *BankTransferPayment) Apply(_ context.Context, _ *entity.Order) (*port.PaymentResult, error) {
	return port.NewPaymentSuccess(), nil
}

// Checkout implementa PaymentMethod
func (p *BankTransferPayment) Checkout(_ context.Context, _ *entity.Order) (*port.PaymentResult, error) {
	return port.NewPaymentSuccess(), nil
}
