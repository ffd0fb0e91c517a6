package controller

import (
	"errors"
	"log"
	"net/http"

	"checkout/src/checkout/application/request"
	"checkout/src/checkout/application/response"
	"checkout/src/checkout/application/usecase"
	"checkout/src/checkout/domain/entity"
	sharedCriteria "checkout/src/shared/infrastructure/criteria"

	"github.com/gin-gonic/gin"
)

// Campos permitidos para filtrar/ordenar el listado de órdenes
var orderListAllowedFields = []string{"status", "customer_email", "created_at", "total"}

// CheckoutController maneja las peticiones HTTP del checkout
type CheckoutController struct {
	addCartItemUC    *usecase.AddCartItemUseCase
	removeCartItemUC *usecase.RemoveCartItemUseCase
	getCartUC        *usecase.GetCartUseCase
	beginCheckoutUC  *usecase.BeginCheckoutUseCase
	getCheckoutUC    *usecase.GetCheckoutUseCase
	updateShippingUC *usecase.UpdateShippingUseCase
	confirmUC        *usecase.ConfirmCheckoutUseCase
	completeUC       *usecase.CompleteCheckoutUseCase
	listOrdersUC     *usecase.ListOrdersUseCase
	getOrderUC       *usecase.GetOrderUseCase
	criteriaHelper   *sharedCriteria.ControllerHelper
}

// NewCheckoutController crea una nueva instancia del controlador
func NewCheckoutController(
	addCartItemUC *usecase.AddCartItemUseCase,
	removeCartItemUC *usecase.RemoveCartItemUseCase,
	getCartUC *usecase.GetCartUseCase,
	beginCheckoutUC *usecase.BeginCheckoutUseCase,
	getCheckoutUC *usecase.GetCheckoutUseCase,
	updateShippingUC *usecase.UpdateShippingUseCase,
	confirmUC *usecase.ConfirmCheckoutUseCase,
	completeUC *usecase.CompleteCheckoutUseCase,
	listOrdersUC *usecase.ListOrdersUseCase,
	getOrderUC *usecase.GetOrderUseCase,
) *CheckoutController {
	return &CheckoutController{
		addCartItemUC:    addCartItemUC,
		removeCartItemUC: removeCartItemUC,
		getCartUC:        getCartUC,
		beginCheckoutUC:  beginCheckoutUC,
		getCheckoutUC:    getCheckoutUC,
		updateShippingUC: updateShippingUC,
		confirmUC:        confirmUC,
		completeUC:       completeUC,
		listOrdersUC:     listOrdersUC,
		getOrderUC:       getOrderUC,
		criteriaHelper:   sharedCriteria.NewControllerHelper(),
	}
}

// RegisterRoutes registra las rutas del controlador
func (c *CheckoutController) RegisterRoutes(router *gin.RouterGroup) {
	cart := router.Group("/cart")
	{
		cart.GET("", c.GetCart)
		cart.POST("/items", c.AddCartItem)
		cart.DELETE("/items/:sku", c.RemoveCartItem)
	}

	checkout := router.Group("/checkout")
	{
		checkout.POST("", c.BeginCheckout)
		checkout.GET("", c.GetCheckout)
		checkout.PUT("/shipping", c.UpdateShipping)
		checkout.POST("/confirm", c.ConfirmCheckout)
		checkout.POST("/complete", c.CompleteCheckout)
	}

	orders := router.Group("/orders")
	{
		orders.GET("", c.ListOrders)
		orders.GET("/:order_id", c.GetOrder)
	}

	log.Println("Rutas Checkout disponibles:")
	log.Println("  GET    /api/v1/cart")
	log.Println("  POST   /api/v1/cart/items")
	log.Println("  DELETE /api/v1/cart/items/:sku")
	log.Println("  POST   /api/v1/checkout")
	log.Println("  GET    /api/v1/checkout")
	log.Println("  PUT    /api/v1/checkout/shipping")
	log.Println("  POST   /api/v1/checkout/confirm")
	log.Println("  POST   /api/v1/checkout/complete")
	log.Println("  GET    /api/v1/orders")
	log.Println("  GET    /api/v1/orders/:order_id")
}

// requireHeaders valida X-Tenant-ID y X-Session-ID
func (c *CheckoutController) requireHeaders(ctx *gin.Context, needSession bool) (tenantID, sessionID string, ok bool) {
	tenantID = ctx.GetHeader("X-Tenant-ID")
	if tenantID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "X-Tenant-ID header is required"})
		return "", "", false
	}

	sessionID = ctx.GetHeader("X-Session-ID")
	if needSession && sessionID == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "X-Session-ID header is required"})
		return "", "", false
	}

	return tenantID, sessionID, true
}

// AddCartItem agrega un item al carrito de la sesión
func (c *CheckoutController) AddCartItem(ctx *gin.Context) {
	tenantID, sessionID, ok := c.requireHeaders(ctx, true)
	if !ok {
		return
	}

	var req request.AddCartItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	cart, err := c.addCartItemUC.Execute(ctx.Request.Context(), tenantID, sessionID, req.SKU, req.Quantity)
	if err != nil {
		c.handleCartError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response.CartResponse{CartKey: cart.CartKey, Items: cart.Items})
}

// RemoveCartItem quita una variante del carrito
func (c *CheckoutController) RemoveCartItem(ctx *gin.Context) {
	tenantID, sessionID, ok := c.requireHeaders(ctx, true)
	if !ok {
		return
	}

	cart, err := c.removeCartItemUC.Execute(ctx.Request.Context(), tenantID, sessionID, ctx.Param("sku"))
	if err != nil {
		c.handleCartError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response.CartResponse{CartKey: cart.CartKey, Items: cart.Items})
}

// GetCart retorna el carrito de la sesión
func (c *CheckoutController) GetCart(ctx *gin.Context) {
	tenantID, sessionID, ok := c.requireHeaders(ctx, true)
	if !ok {
		return
	}

	cart, err := c.getCartUC.Execute(ctx.Request.Context(), tenantID, sessionID)
	if err != nil {
		log.Printf("Error loading cart: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "system error"})
		return
	}

	ctx.JSON(http.StatusOK, response.CartResponse{CartKey: cart.CartKey, Items: cart.Items})
}

// BeginCheckout inicia el checkout (paso index)
func (c *CheckoutController) BeginCheckout(ctx *gin.Context) {
	tenantID, sessionID, ok := c.requireHeaders(ctx, true)
	if !ok {
		return
	}

	resp, err := c.beginCheckoutUC.Execute(ctx.Request.Context(), tenantID, sessionID)
	if err != nil {
		c.handleCheckoutError(ctx, err)
		return
	}

	if resp.HasErrors() {
		// Validación de negocio falló: de vuelta al estado carrito
		ctx.JSON(http.StatusUnprocessableEntity, resp)
		return
	}
	ctx.JSON(http.StatusCreated, resp)
}

// GetCheckout retorna el estado actual del checkout de la sesión
func (c *CheckoutController) GetCheckout(ctx *gin.Context) {
	tenantID, sessionID, ok := c.requireHeaders(ctx, true)
	if !ok {
		return
	}

	resp, err := c.getCheckoutUC.Execute(ctx.Request.Context(), tenantID, sessionID)
	if err != nil {
		c.handleCheckoutError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// UpdateShipping actualiza la dirección de entrega (pasos shipping/shipping_edit)
func (c *CheckoutController) UpdateShipping(ctx *gin.Context) {
	tenantID, sessionID, ok := c.requireHeaders(ctx, true)
	if !ok {
		return
	}

	var req request.UpdateShippingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	resp, err := c.updateShippingUC.Execute(ctx.Request.Context(), tenantID, sessionID, &req)
	if err != nil {
		c.handleCheckoutError(ctx, err)
		return
	}

	if resp.HasErrors() {
		ctx.JSON(http.StatusUnprocessableEntity, resp)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// ConfirmCheckout verifica el pago y confirma la orden (paso confirm)
func (c *CheckoutController) ConfirmCheckout(ctx *gin.Context) {
	tenantID, sessionID, ok := c.requireHeaders(ctx, true)
	if !ok {
		return
	}

	var req request.ConfirmCheckoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	resp, err := c.confirmUC.Execute(ctx.Request.Context(), tenantID, sessionID, &req)
	if err != nil {
		c.handleCheckoutError(ctx, err)
		return
	}

	if resp.HasErrors() {
		ctx.JSON(http.StatusUnprocessableEntity, resp)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// CompleteCheckout ejecuta el commit final (pasos checkout/complete)
// El resultado del método de pago puede cortar el flujo con una
// redirección externa
func (c *CheckoutController) CompleteCheckout(ctx *gin.Context) {
	tenantID, sessionID, ok := c.requireHeaders(ctx, true)
	if !ok {
		return
	}

	resp, err := c.completeUC.Execute(ctx.Request.Context(), tenantID, sessionID)
	if err != nil {
		c.handleCheckoutError(ctx, err)
		return
	}

	if resp.HasErrors() {
		if resp.RedirectURL != "" {
			ctx.JSON(http.StatusOK, resp)
			return
		}
		ctx.JSON(http.StatusUnprocessableEntity, resp)
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// ListOrders lista las órdenes del tenant con criteria
func (c *CheckoutController) ListOrders(ctx *gin.Context) {
	tenantID, _, ok := c.requireHeaders(ctx, false)
	if !ok {
		return
	}

	crit := c.criteriaHelper.BuildCriteriaFromQuery(ctx).Build()
	crit = c.criteriaHelper.ValidateAndSanitizeCriteria(crit, orderListAllowedFields)

	resp, err := c.listOrdersUC.Execute(ctx.Request.Context(), tenantID, crit)
	if err != nil {
		log.Printf("Error listing orders: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "system error"})
		return
	}
	ctx.JSON(http.StatusOK, resp)
}

// GetOrder retorna una orden por ID
func (c *CheckoutController) GetOrder(ctx *gin.Context) {
	tenantID, _, ok := c.requireHeaders(ctx, false)
	if !ok {
		return
	}

	order, err := c.getOrderUC.Execute(ctx.Request.Context(), tenantID, ctx.Param("order_id"))
	if err != nil {
		if errors.Is(err, entity.ErrOrderNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		log.Printf("Error fetching order: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "system error"})
		return
	}
	ctx.JSON(http.StatusOK, order)
}

// handleCartError mapea errores del carrito a códigos HTTP
func (c *CheckoutController) handleCartError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, entity.ErrProductClassNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
	case errors.Is(err, entity.ErrSaleLimitExceeded),
		errors.Is(err, entity.ErrInsufficientStock):
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrCartItemNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
	case errors.Is(err, entity.ErrInvalidQuantity), errors.Is(err, entity.ErrSKURequired):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("Error handling cart request: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "system error"})
	}
}

// handleCheckoutError mapea errores del checkout a códigos HTTP
func (c *CheckoutController) handleCheckoutError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, entity.ErrCartEmpty):
		ctx.JSON(http.StatusConflict, gin.H{"error": "Cart is empty"})
	case errors.Is(err, entity.ErrSessionNotFound), errors.Is(err, entity.ErrNoPendingOrder):
		ctx.JSON(http.StatusNotFound, gin.H{"error": "No checkout in progress"})
	case errors.Is(err, entity.ErrOrderNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
	case errors.Is(err, entity.ErrOrderNotInProcessing):
		ctx.JSON(http.StatusConflict, gin.H{"error": "Order is not in PROCESSING state"})
	case errors.Is(err, entity.ErrOrderNotInConfirmed):
		ctx.JSON(http.StatusConflict, gin.H{"error": "Order is not in CONFIRMED state"})
	case errors.Is(err, entity.ErrPaymentMethodUnknown):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Payment method not available"})
	case errors.Is(err, entity.ErrShippingNameRequired), errors.Is(err, entity.ErrShippingAddressRequired):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		// Errores inesperados: rollback ya hecho aguas abajo, mensaje genérico
		log.Printf("Error handling checkout request: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "system error"})
	}
}
