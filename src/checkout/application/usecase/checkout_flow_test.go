package usecase

import (
	"context"
	"errors"
	"testing"

	"checkout/src/checkout/application/request"
	"checkout/src/checkout/domain/entity"
	"checkout/src/checkout/domain/port"
	"checkout/src/checkout/domain/purchaseflow"
	"checkout/src/shared/domain/criteria"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ----------------------------------------------------------------------------
// Mocks en memoria
// ----------------------------------------------------------------------------

type mockProductRepo struct {
	classes  map[string]*entity.ProductClass
	reserved map[string]int
	released map[string]int
	consumed map[string]int
}

func newMockProductRepo(classes ...*entity.ProductClass) *mockProductRepo {
	m := &mockProductRepo{
		classes:  make(map[string]*entity.ProductClass),
		reserved: make(map[string]int),
		released: make(map[string]int),
		consumed: make(map[string]int),
	}
	for _, pc := range classes {
		m.classes[pc.SKU] = pc
	}
	return m
}

func (m *mockProductRepo) FindBySKU(_ context.Context, _, sku string) (*entity.ProductClass, error) {
	pc, ok := m.classes[sku]
	if !ok {
		return nil, entity.ErrProductClassNotFound
	}
	return pc, nil
}

func (m *mockProductRepo) FindBySKUs(_ context.Context, _ string, skus []string) (map[string]*entity.ProductClass, error) {
	found := make(map[string]*entity.ProductClass)
	for _, sku := range skus {
		if pc, ok := m.classes[sku]; ok {
			found[sku] = pc
		}
	}
	return found, nil
}

func (m *mockProductRepo) Reserve(_ context.Context, _, sku string, quantity int) (bool, error) {
	pc, ok := m.classes[sku]
	if !ok || pc.Available() < quantity {
		return false, nil
	}
	pc.Reserved += quantity
	m.reserved[sku] += quantity
	return true, nil
}

func (m *mockProductRepo) Release(_ context.Context, _, sku string, quantity int) error {
	if pc, ok := m.classes[sku]; ok {
		pc.Reserved -= quantity
		if pc.Reserved < 0 {
			pc.Reserved = 0
		}
	}
	m.released[sku] += quantity
	return nil
}

func (m *mockProductRepo) Consume(_ context.Context, _, sku string, quantity int) error {
	if pc, ok := m.classes[sku]; ok {
		pc.Stock -= quantity
		pc.Reserved -= quantity
	}
	m.consumed[sku] += quantity
	return nil
}

type mockCartRepo struct {
	carts   map[string]*entity.Cart
	deleted []string
}

func newMockCartRepo() *mockCartRepo {
	return &mockCartRepo{carts: make(map[string]*entity.Cart)}
}

func (m *mockCartRepo) Get(_ context.Context, tenantID, cartKey string) (*entity.Cart, error) {
	if cart, ok := m.carts[tenantID+":"+cartKey]; ok {
		return cart, nil
	}
	return &entity.Cart{CartKey: cartKey, TenantID: tenantID}, nil
}

func (m *mockCartRepo) Save(_ context.Context, cart *entity.Cart) error {
	m.carts[cart.TenantID+":"+cart.CartKey] = cart
	return nil
}

func (m *mockCartRepo) Delete(_ context.Context, tenantID, cartKey string) error {
	delete(m.carts, tenantID+":"+cartKey)
	m.deleted = append(m.deleted, cartKey)
	return nil
}

type mockSessionRepo struct {
	sessions map[string]*entity.CheckoutSession
	deleted  []string
}

func newMockSessionRepo() *mockSessionRepo {
	return &mockSessionRepo{sessions: make(map[string]*entity.CheckoutSession)}
}

func (m *mockSessionRepo) Get(_ context.Context, sessionID string) (*entity.CheckoutSession, error) {
	if session, ok := m.sessions[sessionID]; ok {
		return session, nil
	}
	return nil, entity.ErrSessionNotFound
}

func (m *mockSessionRepo) Save(_ context.Context, session *entity.CheckoutSession) error {
	m.sessions[session.SessionID] = session
	return nil
}

func (m *mockSessionRepo) Delete(_ context.Context, sessionID string) error {
	delete(m.sessions, sessionID)
	m.deleted = append(m.deleted, sessionID)
	return nil
}

type mockOrderRepo struct {
	orders map[string]*entity.Order
	saves  int
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{orders: make(map[string]*entity.Order)}
}

func (m *mockOrderRepo) Save(_ context.Context, order *entity.Order) error {
	m.saves++
	m.orders[order.OrderID] = order
	return nil
}

func (m *mockOrderRepo) FindByID(_ context.Context, orderID, _ string) (*entity.Order, error) {
	order, ok := m.orders[orderID]
	if !ok {
		return nil, entity.ErrOrderNotFound
	}
	return order, nil
}

func (m *mockOrderRepo) List(_ context.Context, tenantID string, _ criteria.Criteria) ([]*entity.Order, int, error) {
	var orders []*entity.Order
	for _, order := range m.orders {
		if order.TenantID == tenantID {
			orders = append(orders, order)
		}
	}
	return orders, len(orders), nil
}

func (m *mockOrderRepo) Confirm(_ context.Context, orderID, _ string) error {
	order, ok := m.orders[orderID]
	if !ok || order.Status != entity.OrderStatusProcessing {
		return errors.New("order not in PROCESSING state")
	}
	order.Status = entity.OrderStatusConfirmed
	return nil
}

func (m *mockOrderRepo) Complete(_ context.Context, orderID, _ string) error {
	order, ok := m.orders[orderID]
	if !ok || order.Status != entity.OrderStatusConfirmed {
		return errors.New("order not in CONFIRMED state")
	}
	order.Status = entity.OrderStatusCompleted
	return nil
}

func (m *mockOrderRepo) Cancel(_ context.Context, orderID, _ string) error {
	order, ok := m.orders[orderID]
	if !ok {
		return entity.ErrOrderNotFound
	}
	order.Status = entity.OrderStatusCanceled
	return nil
}

// mockPaymentMethod permite guionar el resultado de cada operación
type mockPaymentMethod struct {
	verifyResult   *port.PaymentResult
	applyResult    *port.PaymentResult
	checkoutResult *port.PaymentResult

	verifyCalls   int
	applyCalls    int
	checkoutCalls int
}

func (m *mockPaymentMethod) Code() string { return "mock_payment" }

func (m *mockPaymentMethod) Verify(_ context.Context, _ *entity.Order) (*port.PaymentResult, error) {
	m.verifyCalls++
	return m.verifyResult, nil
}

func (m *mockPaymentMethod) Apply(_ context.Context, _ *entity.Order) (*port.PaymentResult, error) {
	m.applyCalls++
	return m.applyResult, nil
}

func (m *mockPaymentMethod) Checkout(_ context.Context, _ *entity.Order) (*port.PaymentResult, error) {
	m.checkoutCalls++
	return m.checkoutResult, nil
}

type mockResolver struct {
	method *mockPaymentMethod
}

func (m *mockResolver) Resolve(_ uuid.UUID) (port.PaymentMethod, error) {
	if m.method == nil {
		return nil, entity.ErrPaymentMethodUnknown
	}
	return m.method, nil
}

type mockPublisher struct {
	events []string
}

func (m *mockPublisher) Publish(_ context.Context, _, _, _ string, eventType string, _ []byte) error {
	m.events = append(m.events, eventType)
	return nil
}

type mockMailer struct {
	sent []string
}

func (m *mockMailer) SendOrderConfirmation(_ context.Context, order *entity.Order) error {
	m.sent = append(m.sent, order.OrderID)
	return nil
}

// ----------------------------------------------------------------------------
// Entorno de checkout completo contra mocks
// ----------------------------------------------------------------------------

type checkoutEnv struct {
	products  *mockProductRepo
	carts     *mockCartRepo
	sessions  *mockSessionRepo
	orders    *mockOrderRepo
	payment   *mockPaymentMethod
	publisher *mockPublisher
	mailer    *mockMailer

	addItemUC  *AddCartItemUseCase
	beginUC    *BeginCheckoutUseCase
	shippingUC *UpdateShippingUseCase
	confirmUC  *ConfirmCheckoutUseCase
	completeUC *CompleteCheckoutUseCase
}

func newCheckoutEnv(classes ...*entity.ProductClass) *checkoutEnv {
	env := &checkoutEnv{
		products: newMockProductRepo(classes...),
		carts:    newMockCartRepo(),
		sessions: newMockSessionRepo(),
		orders:   newMockOrderRepo(),
		payment: &mockPaymentMethod{
			verifyResult:   port.NewPaymentSuccess(),
			applyResult:    port.NewPaymentSuccess(),
			checkoutResult: port.NewPaymentSuccess(),
		},
		publisher: &mockPublisher{},
		mailer:    &mockMailer{},
	}

	beginFlow := purchaseflow.NewFlow().
		AddItemProcessor(purchaseflow.NewPriceProcessor(env.products)).
		AddOrderProcessor(purchaseflow.NewSubtotalProcessor()).
		AddOrderProcessor(purchaseflow.NewDeliveryFeeProcessor(decimal.NewFromInt(500))).
		AddOrderProcessor(purchaseflow.NewTaxProcessor(decimal.RequireFromString("0.21"))).
		AddOrderProcessor(purchaseflow.NewTotalProcessor()).
		AddValidator(purchaseflow.NewSaleLimitValidator(env.products)).
		AddValidator(purchaseflow.NewStockValidator(env.products))

	fullFlow := purchaseflow.NewFlow().
		AddItemProcessor(purchaseflow.NewPriceProcessor(env.products)).
		AddOrderProcessor(purchaseflow.NewSubtotalProcessor()).
		AddOrderProcessor(purchaseflow.NewDeliveryFeeProcessor(decimal.NewFromInt(500))).
		AddOrderProcessor(purchaseflow.NewTaxProcessor(decimal.RequireFromString("0.21"))).
		AddOrderProcessor(purchaseflow.NewTotalProcessor()).
		AddValidator(purchaseflow.NewSaleLimitValidator(env.products)).
		AddValidator(purchaseflow.NewStockValidator(env.products)).
		AddValidator(purchaseflow.NewShippingValidator()).
		AddPurchaseProcessor(purchaseflow.NewStockReduceProcessor(env.products))

	resolver := &mockResolver{method: env.payment}

	env.addItemUC = NewAddCartItemUseCase(env.carts, env.products)
	env.beginUC = NewBeginCheckoutUseCase(env.sessions, env.carts, env.orders, beginFlow)
	env.shippingUC = NewUpdateShippingUseCase(env.sessions, env.orders, fullFlow)
	env.confirmUC = NewConfirmCheckoutUseCase(env.sessions, env.orders, fullFlow, resolver)
	env.completeUC = NewCompleteCheckoutUseCase(env.sessions, env.carts, env.orders, fullFlow, resolver, env.publisher, env.mailer)
	return env
}

func intPtr(v int) *int { return &v }

func testProductClass(sku, name string, price int64, stock int, saleLimit *int) *entity.ProductClass {
	return &entity.ProductClass{
		SKU:         sku,
		TenantID:    "tenant-1",
		ProductName: name,
		Price:       decimal.NewFromInt(price),
		Stock:       stock,
		SaleLimit:   saleLimit,
	}
}

// advanceToConfirmed lleva la sesión hasta una orden CONFIRMED
func (env *checkoutEnv) advanceToConfirmed(t *testing.T, ctx context.Context) string {
	t.Helper()

	_, err := env.beginUC.Execute(ctx, "tenant-1", "session-1")
	require.NoError(t, err)

	_, err = env.shippingUC.Execute(ctx, "tenant-1", "session-1", &request.UpdateShippingRequest{
		Name:    "Juan Pérez",
		Address: "Av. Siempre Viva 742",
	})
	require.NoError(t, err)

	resp, err := env.confirmUC.Execute(ctx, "tenant-1", "session-1", &request.ConfirmCheckoutRequest{
		PaymentMethodID: uuid.New(),
		CustomerEmail:   "juan@example.com",
	})
	require.NoError(t, err)
	require.False(t, resp.HasErrors())
	require.Equal(t, string(entity.OrderStatusConfirmed), resp.Status)
	return resp.OrderID
}

// ----------------------------------------------------------------------------
// Carrito
// ----------------------------------------------------------------------------

func TestAddCartItem_EnforcesSaleLimit(t *testing.T) {
	env := newCheckoutEnv(testProductClass("SKU-A", "Vino Malbec", 5000, 100, intPtr(6)))
	ctx := context.Background()

	cart, err := env.addItemUC.Execute(ctx, "tenant-1", "session-1", "SKU-A", 4)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)

	// 4 ya en el carrito + 3 supera el límite de 6
	_, err = env.addItemUC.Execute(ctx, "tenant-1", "session-1", "SKU-A", 3)
	require.ErrorIs(t, err, entity.ErrSaleLimitExceeded)
	assert.Contains(t, err.Error(), "Vino Malbec")
}

func TestAddCartItem_InsufficientStock(t *testing.T) {
	env := newCheckoutEnv(testProductClass("SKU-A", "Yerba Mate 1kg", 1200, 2, nil))
	ctx := context.Background()

	_, err := env.addItemUC.Execute(ctx, "tenant-1", "session-1", "SKU-A", 3)
	require.ErrorIs(t, err, entity.ErrInsufficientStock)
}

func TestAddCartItem_UnknownVariant(t *testing.T) {
	env := newCheckoutEnv()
	ctx := context.Background()

	_, err := env.addItemUC.Execute(ctx, "tenant-1", "session-1", "SKU-GONE", 1)
	require.ErrorIs(t, err, entity.ErrProductClassNotFound)
}

// ----------------------------------------------------------------------------
// Paso index
// ----------------------------------------------------------------------------

func TestBeginCheckout_CreatesPendingOrder(t *testing.T) {
	env := newCheckoutEnv(testProductClass("SKU-A", "Yerba Mate 1kg", 1200, 50, nil))
	ctx := context.Background()

	_, err := env.addItemUC.Execute(ctx, "tenant-1", "session-1", "SKU-A", 2)
	require.NoError(t, err)

	resp, err := env.beginUC.Execute(ctx, "tenant-1", "session-1")
	require.NoError(t, err)
	require.False(t, resp.HasErrors())

	assert.Equal(t, string(entity.OrderStatusProcessing), resp.Status)
	assert.True(t, resp.Subtotal.Equal(decimal.NewFromInt(2400)))

	// La orden quedó persistida y ligada a la sesión como pre_order_id
	session, err := env.sessions.Get(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, resp.OrderID, session.PreOrderID)

	_, err = env.orders.FindByID(ctx, resp.OrderID, "tenant-1")
	assert.NoError(t, err)
}

func TestBeginCheckout_EmptyCart(t *testing.T) {
	env := newCheckoutEnv()
	_, err := env.beginUC.Execute(context.Background(), "tenant-1", "session-1")
	require.ErrorIs(t, err, entity.ErrCartEmpty)
}

func TestBeginCheckout_ValidationFailureDoesNotPersist(t *testing.T) {
	env := newCheckoutEnv(testProductClass("SKU-A", "Yerba Mate 1kg", 1200, 50, nil))
	ctx := context.Background()

	_, err := env.addItemUC.Execute(ctx, "tenant-1", "session-1", "SKU-A", 10)
	require.NoError(t, err)

	// El stock se agotó entre el carrito y el checkout
	env.products.classes["SKU-A"].Stock = 3

	resp, err := env.beginUC.Execute(ctx, "tenant-1", "session-1")
	require.NoError(t, err)
	require.True(t, resp.HasErrors())

	assert.Equal(t, 0, env.orders.saves)
	_, err = env.sessions.Get(ctx, "session-1")
	assert.ErrorIs(t, err, entity.ErrSessionNotFound)
}

// ----------------------------------------------------------------------------
// Pasos shipping y confirm
// ----------------------------------------------------------------------------

func TestUpdateShipping_SetsAddressAndRecalculates(t *testing.T) {
	env := newCheckoutEnv(testProductClass("SKU-A", "Yerba Mate 1kg", 1200, 50, nil))
	ctx := context.Background()

	_, err := env.addItemUC.Execute(ctx, "tenant-1", "session-1", "SKU-A", 2)
	require.NoError(t, err)
	_, err = env.beginUC.Execute(ctx, "tenant-1", "session-1")
	require.NoError(t, err)

	resp, err := env.shippingUC.Execute(ctx, "tenant-1", "session-1", &request.UpdateShippingRequest{
		Name:    "Juan Pérez",
		Address: "Av. Siempre Viva 742",
	})
	require.NoError(t, err)
	require.False(t, resp.HasErrors())

	require.Len(t, resp.Shippings, 1)
	// Con dirección de entrega aparece el costo de envío en los totales
	assert.True(t, resp.DeliveryFee.Equal(decimal.NewFromInt(500)))
}

func TestUpdateShipping_NoPendingOrder(t *testing.T) {
	env := newCheckoutEnv()
	_, err := env.shippingUC.Execute(context.Background(), "tenant-1", "session-1", &request.UpdateShippingRequest{
		Name:    "Juan",
		Address: "Calle Falsa 123",
	})
	require.ErrorIs(t, err, entity.ErrSessionNotFound)
}

func TestConfirmCheckout_RequiresShipping(t *testing.T) {
	env := newCheckoutEnv(testProductClass("SKU-A", "Yerba Mate 1kg", 1200, 50, nil))
	ctx := context.Background()

	_, err := env.addItemUC.Execute(ctx, "tenant-1", "session-1", "SKU-A", 2)
	require.NoError(t, err)
	_, err = env.beginUC.Execute(ctx, "tenant-1", "session-1")
	require.NoError(t, err)

	// Sin paso shipping: el flow completo exige dirección de entrega
	resp, err := env.confirmUC.Execute(ctx, "tenant-1", "session-1", &request.ConfirmCheckoutRequest{
		PaymentMethodID: uuid.New(),
		CustomerEmail:   "juan@example.com",
	})
	require.NoError(t, err)
	require.True(t, resp.HasErrors())
	assert.Equal(t, 0, env.payment.verifyCalls)
}

func TestConfirmCheckout_Success(t *testing.T) {
	env := newCheckoutEnv(testProductClass("SKU-A", "Yerba Mate 1kg", 1200, 50, nil))
	ctx := context.Background()

	_, err := env.addItemUC.Execute(ctx, "tenant-1", "session-1", "SKU-A", 2)
	require.NoError(t, err)

	orderID := env.advanceToConfirmed(t, ctx)

	assert.Equal(t, 1, env.payment.verifyCalls)
	order, err := env.orders.FindByID(ctx, orderID, "tenant-1")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusConfirmed, order.Status)
	assert.Equal(t, "juan@example.com", order.CustomerEmail)
	assert.NotEqual(t, uuid.Nil, order.PaymentMethodID)
}

func TestConfirmCheckout_PaymentDeclined(t *testing.T) {
	env := newCheckoutEnv(testProductClass("SKU-A", "Yerba Mate 1kg", 1200, 50, nil))
	ctx := context.Background()

	_, err := env.addItemUC.Execute(ctx, "tenant-1", "session-1", "SKU-A", 2)
	require.NoError(t, err)
	_, err = env.beginUC.Execute(ctx, "tenant-1", "session-1")
	require.NoError(t, err)
	_, err = env.shippingUC.Execute(ctx, "tenant-1", "session-1", &request.UpdateShippingRequest{
		Name:    "Juan Pérez",
		Address: "Av. Siempre Viva 742",
	})
	require.NoError(t, err)

	env.payment.verifyResult = port.NewPaymentFailure("card rejected by issuer")

	resp, err := env.confirmUC.Execute(ctx, "tenant-1", "session-1", &request.ConfirmCheckoutRequest{
		PaymentMethodID: uuid.New(),
		CustomerEmail:   "juan@example.com",
	})
	require.NoError(t, err)
	require.True(t, resp.HasErrors())
	assert.Contains(t, resp.Errors[len(resp.Errors)-1].Message, "card rejected")

	// La orden sigue PROCESSING, el cliente puede reintentar
	session, err := env.sessions.Get(ctx, "session-1")
	require.NoError(t, err)
	order, err := env.orders.FindByID(ctx, session.PreOrderID, "tenant-1")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusProcessing, order.Status)
}

// ----------------------------------------------------------------------------
// Paso checkout/complete
// ----------------------------------------------------------------------------

func TestCompleteCheckout_Success(t *testing.T) {
	env := newCheckoutEnv(testProductClass("SKU-A", "Yerba Mate 1kg", 1200, 50, nil))
	ctx := context.Background()

	_, err := env.addItemUC.Execute(ctx, "tenant-1", "session-1", "SKU-A", 2)
	require.NoError(t, err)
	orderID := env.advanceToConfirmed(t, ctx)

	resp, err := env.completeUC.Execute(ctx, "tenant-1", "session-1")
	require.NoError(t, err)
	require.False(t, resp.HasErrors())
	assert.Equal(t, string(entity.OrderStatusCompleted), resp.Status)

	// Pago ejecutado completo
	assert.Equal(t, 1, env.payment.applyCalls)
	assert.Equal(t, 1, env.payment.checkoutCalls)

	// Stock consumido
	assert.Equal(t, 2, env.products.consumed["SKU-A"])
	assert.Equal(t, 48, env.products.classes["SKU-A"].Stock)
	assert.Equal(t, 0, env.products.classes["SKU-A"].Reserved)

	// Evento y mail de confirmación
	assert.Equal(t, []string{"checkout.order.completed"}, env.publisher.events)
	assert.Equal(t, []string{orderID}, env.mailer.sent)

	// Carrito y sesión limpiados
	assert.Contains(t, env.carts.deleted, "session-1")
	assert.Contains(t, env.sessions.deleted, "session-1")
}

func TestCompleteCheckout_PaymentDeclineReleasesStock(t *testing.T) {
	env := newCheckoutEnv(testProductClass("SKU-A", "Yerba Mate 1kg", 1200, 50, nil))
	ctx := context.Background()

	_, err := env.addItemUC.Execute(ctx, "tenant-1", "session-1", "SKU-A", 2)
	require.NoError(t, err)
	orderID := env.advanceToConfirmed(t, ctx)

	env.payment.applyResult = port.NewPaymentFailure("insufficient funds")

	resp, err := env.completeUC.Execute(ctx, "tenant-1", "session-1")
	require.NoError(t, err)
	require.True(t, resp.HasErrors())

	// Las reservas tomadas en Prepare se liberaron
	assert.Equal(t, 2, env.products.reserved["SKU-A"])
	assert.Equal(t, 2, env.products.released["SKU-A"])
	assert.Equal(t, 0, env.products.consumed["SKU-A"])
	assert.Equal(t, 0, env.products.classes["SKU-A"].Reserved)

	// No se cobró ni se completó
	assert.Equal(t, 0, env.payment.checkoutCalls)
	order, err := env.orders.FindByID(ctx, orderID, "tenant-1")
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusConfirmed, order.Status)

	// Sin evento, mail ni limpieza de sesión
	assert.Empty(t, env.publisher.events)
	assert.Empty(t, env.mailer.sent)
	assert.Empty(t, env.sessions.deleted)
}

func TestCompleteCheckout_RedirectResultStopsFlow(t *testing.T) {
	env := newCheckoutEnv(testProductClass("SKU-A", "Yerba Mate 1kg", 1200, 50, nil))
	ctx := context.Background()

	_, err := env.addItemUC.Execute(ctx, "tenant-1", "session-1", "SKU-A", 2)
	require.NoError(t, err)
	env.advanceToConfirmed(t, ctx)

	env.payment.applyResult = &port.PaymentResult{
		Success:     false,
		RedirectURL: "https://gateway.example.com/3ds/challenge",
	}

	resp, err := env.completeUC.Execute(ctx, "tenant-1", "session-1")
	require.NoError(t, err)
	assert.Equal(t, "https://gateway.example.com/3ds/challenge", resp.RedirectURL)
	assert.Equal(t, 0, env.payment.checkoutCalls)
}

func TestCompleteCheckout_RequiresConfirmedOrder(t *testing.T) {
	env := newCheckoutEnv(testProductClass("SKU-A", "Yerba Mate 1kg", 1200, 50, nil))
	ctx := context.Background()

	_, err := env.addItemUC.Execute(ctx, "tenant-1", "session-1", "SKU-A", 2)
	require.NoError(t, err)
	_, err = env.beginUC.Execute(ctx, "tenant-1", "session-1")
	require.NoError(t, err)

	_, err = env.completeUC.Execute(ctx, "tenant-1", "session-1")
	require.ErrorIs(t, err, entity.ErrOrderNotInConfirmed)
}

func TestCompleteCheckout_StockGoneAtFinalValidation(t *testing.T) {
	env := newCheckoutEnv(testProductClass("SKU-A", "Yerba Mate 1kg", 1200, 50, nil))
	ctx := context.Background()

	_, err := env.addItemUC.Execute(ctx, "tenant-1", "session-1", "SKU-A", 2)
	require.NoError(t, err)
	env.advanceToConfirmed(t, ctx)

	// Otro checkout se llevó el stock antes del commit final
	env.products.classes["SKU-A"].Stock = 1

	resp, err := env.completeUC.Execute(ctx, "tenant-1", "session-1")
	require.NoError(t, err)
	require.True(t, resp.HasErrors())
	assert.Equal(t, 0, env.payment.applyCalls)
	assert.Equal(t, 0, env.products.consumed["SKU-A"])
}
