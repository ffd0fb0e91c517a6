package usecase

import (
	"context"
	"fmt"

	"checkout/src/checkout/application/response"
	"checkout/src/checkout/domain/entity"
	"checkout/src/checkout/domain/port"
	"checkout/src/shared/domain/criteria"
)

// ListOrdersUseCase caso de uso para listar las órdenes de un tenant
// con filtros/ordenamiento/paginación vía criteria
type ListOrdersUseCase struct {
	orders port.OrderRepository
}

// NewListOrdersUseCase crea una nueva instancia del caso de uso
func NewListOrdersUseCase(orders port.OrderRepository) *ListOrdersUseCase {
	return &ListOrdersUseCase{orders: orders}
}

// Execute retorna las órdenes que matchean el criteria
func (uc *ListOrdersUseCase) Execute(ctx context.Context, tenantID string, crit criteria.Criteria) (*response.ListOrdersResponse, error) {
	orders, totalCount, err := uc.orders.List(ctx, tenantID, crit)
	if err != nil {
		return nil, fmt.Errorf("error listing orders: %w", err)
	}

	resp := &response.ListOrdersResponse{TotalCount: totalCount}
	for _, order := range orders {
		resp.Orders = append(resp.Orders, response.NewCheckoutResponse(order, nil))
	}
	return resp, nil
}

// GetOrderUseCase caso de uso para obtener una orden por ID
type GetOrderUseCase struct {
	orders port.OrderRepository
}

// NewGetOrderUseCase crea una nueva instancia del caso de uso
func NewGetOrderUseCase(orders port.OrderRepository) *GetOrderUseCase {
	return &GetOrderUseCase{orders: orders}
}

// Execute retorna la orden con sus items y shippings
func (uc *GetOrderUseCase) Execute(ctx context.Context, tenantID, orderID string) (*entity.Order, error) {
	return uc.orders.FindByID(ctx, orderID, tenantID)
}
