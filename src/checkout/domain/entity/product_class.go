package entity

import (
	"github.com/shopspring/decimal"
)

// ProductClass representa una variante de producto comprable
// El stock se maneja con dos columnas: stock total y stock reservado
// durante checkouts en curso (disponible = Stock - Reserved)
type ProductClass struct {
	SKU         string          `json:"sku"`
	TenantID    string          `json:"tenant_id"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Reserved    int             `json:"reserved"`
	// SaleLimit es la cantidad máxima vendible por orden
	// nil = sin límite configurado
	SaleLimit *int `json:"sale_limit,omitempty"`
}

// Available retorna el stock disponible para nuevas ventas
func (pc *ProductClass) Available() int {
	available := pc.Stock - pc.Reserved
	if available < 0 {
		return 0
	}
	return available
}

// HasSaleLimit indica si la variante tiene límite de venta configurado
func (pc *ProductClass) HasSaleLimit() bool {
	return pc.SaleLimit != nil
}

// ExceedsSaleLimit verifica si una cantidad acumulada supera el límite
func (pc *ProductClass) ExceedsSaleLimit(quantity int) bool {
	if pc.SaleLimit == nil {
		return false
	}
	return quantity > *pc.SaleLimit
}
