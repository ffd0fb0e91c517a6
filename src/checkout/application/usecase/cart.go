package usecase

import (
	"context"
	"fmt"

	"checkout/src/checkout/domain/entity"
	"checkout/src/checkout/domain/port"
)

// AddCartItemUseCase caso de uso para agregar un item al carrito
// El límite de venta por variante se chequea también acá: la invariante
// vale tanto para el carrito como para la orden
type AddCartItemUseCase struct {
	carts    port.CartRepository
	products port.ProductClassRepository
}

// NewAddCartItemUseCase crea una nueva instancia del caso de uso
func NewAddCartItemUseCase(carts port.CartRepository, products port.ProductClassRepository) *AddCartItemUseCase {
	return &AddCartItemUseCase{carts: carts, products: products}
}

// Execute agrega la cantidad pedida de una variante al carrito
func (uc *AddCartItemUseCase) Execute(ctx context.Context, tenantID, cartKey, sku string, quantity int) (*entity.Cart, error) {
	// 1. Validar que la variante exista
	pc, err := uc.products.FindBySKU(ctx, tenantID, sku)
	if err != nil {
		return nil, err
	}

	// 2. Cargar carrito actual
	cart, err := uc.carts.Get(ctx, tenantID, cartKey)
	if err != nil {
		return nil, fmt.Errorf("error loading cart: %w", err)
	}

	// 3. Chequear límite de venta sobre el total acumulado de la variante
	accumulated := cart.QuantityBySKU()[sku] + quantity
	if pc.ExceedsSaleLimit(accumulated) {
		return nil, fmt.Errorf("%w for %s: requested %d, limit %d",
			entity.ErrSaleLimitExceeded, pc.ProductName, accumulated, *pc.SaleLimit)
	}

	// 4. Chequear disponibilidad de stock
	if accumulated > pc.Available() {
		return nil, fmt.Errorf("%w for %s: requested %d, available %d",
			entity.ErrInsufficientStock, pc.ProductName, accumulated, pc.Available())
	}

	// 5. Agregar y persistir
	if err := cart.AddItem(sku, pc.ProductName, quantity, pc.Price); err != nil {
		return nil, err
	}
	if err := uc.carts.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("error saving cart: %w", err)
	}

	return cart, nil
}

// RemoveCartItemUseCase caso de uso para quitar una variante del carrito
type RemoveCartItemUseCase struct {
	carts port.CartRepository
}

// NewRemoveCartItemUseCase crea una nueva instancia del caso de uso
func NewRemoveCartItemUseCase(carts port.CartRepository) *RemoveCartItemUseCase {
	return &RemoveCartItemUseCase{carts: carts}
}

// Execute quita la variante del carrito
func (uc *RemoveCartItemUseCase) Execute(ctx context.Context, tenantID, cartKey, sku string) (*entity.Cart, error) {
	cart, err := uc.carts.Get(ctx, tenantID, cartKey)
	if err != nil {
		return nil, fmt.Errorf("error loading cart: %w", err)
	}

	if err := cart.RemoveItem(sku); err != nil {
		return nil, err
	}

	if err := uc.carts.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("error saving cart: %w", err)
	}
	return cart, nil
}

// GetCartUseCase caso de uso para obtener el carrito
type GetCartUseCase struct {
	carts port.CartRepository
}

// NewGetCartUseCase crea una nueva instancia del caso de uso
func NewGetCartUseCase(carts port.CartRepository) *GetCartUseCase {
	return &GetCartUseCase{carts: carts}
}

// Execute retorna el carrito actual (vacío si no existe)
func (uc *GetCartUseCase) Execute(ctx context.Context, tenantID, cartKey string) (*entity.Cart, error) {
	return uc.carts.Get(ctx, tenantID, cartKey)
}
