package criteria

import (
	"net/url"
	"strconv"
	"strings"
)

// FilterOperator representa un operador de filtrado soportado
type FilterOperator string

const (
	OpEqual              FilterOperator = "="
	OpNotEqual           FilterOperator = "!="
	OpGreaterThan        FilterOperator = ">"
	OpGreaterThanOrEqual FilterOperator = ">="
	OpLessThan           FilterOperator = "<"
	OpLessThanOrEqual    FilterOperator = "<="
	OpLike               FilterOperator = "LIKE"
	OpIsNull             FilterOperator = "NULL"
	OpIsNotNull          FilterOperator = "NOT NULL"
	OpArrayContains      FilterOperator = "ARRAY_CONTAINS"
)

// Filter representa un filtro individual sobre un campo
type Filter struct {
	Field    string
	Operator FilterOperator
	Value    interface{}
}

// NewFilter crea un nuevo filtro
func NewFilter(field string, operator FilterOperator, value interface{}) Filter {
	return Filter{Field: field, Operator: operator, Value: value}
}

// Filters es la colección de filtros de un criteria
type Filters struct {
	Items []Filter
}

// NewFilters crea una colección de filtros
func NewFilters(items ...Filter) Filters {
	return Filters{Items: items}
}

// Add agrega un filtro a la colección
func (f *Filters) Add(filter Filter) {
	f.Items = append(f.Items, filter)
}

// IsEmpty indica si no hay filtros
func (f Filters) IsEmpty() bool {
	return len(f.Items) == 0
}

// OrderType representa la dirección de ordenamiento
type OrderType string

const (
	ASC  OrderType = "ASC"
	DESC OrderType = "DESC"
)

// Order representa el ordenamiento de un criteria
type Order struct {
	Field     string
	OrderType OrderType
}

// NewOrder crea un nuevo ordenamiento
func NewOrder(field string, orderType OrderType) Order {
	return Order{Field: field, OrderType: orderType}
}

// IsEmpty indica si no hay ordenamiento configurado
func (o Order) IsEmpty() bool {
	return o.Field == ""
}

// Criteria combina filtros, ordenamiento y paginación
type Criteria struct {
	Filters Filters
	Order   Order
	Limit   *int
	Offset  *int
}

// NewCriteria crea un criteria completo
func NewCriteria(filters Filters, order Order, limit, offset *int) Criteria {
	return Criteria{
		Filters: filters,
		Order:   order,
		Limit:   limit,
		Offset:  offset,
	}
}

// CriteriaBuilder construye criterias de forma fluida, típicamente a
// partir de query parameters HTTP
type CriteriaBuilder struct {
	filters Filters
	order   Order
	limit   *int
	offset  *int
}

// NewCriteriaBuilder crea un builder vacío
func NewCriteriaBuilder() *CriteriaBuilder {
	return &CriteriaBuilder{filters: NewFilters()}
}

// WithFilter agrega un filtro
func (b *CriteriaBuilder) WithFilter(field string, operator FilterOperator, value interface{}) *CriteriaBuilder {
	b.filters.Add(NewFilter(field, operator, value))
	return b
}

// WithOrder configura el ordenamiento
func (b *CriteriaBuilder) WithOrder(field string, orderType OrderType) *CriteriaBuilder {
	b.order = NewOrder(field, orderType)
	return b
}

// WithPagination configura limit y offset
func (b *CriteriaBuilder) WithPagination(limit, offset int) *CriteriaBuilder {
	b.limit = &limit
	b.offset = &offset
	return b
}

// FromURLValues carga filtros, orden y paginación desde query params
// Convenciones:
//   - page / page_size: paginación (defaults 1 / 20)
//   - order_by / order_type: ordenamiento
//   - <campo>_like: filtro LIKE
//   - cualquier otro parámetro: filtro de igualdad
func (b *CriteriaBuilder) FromURLValues(values url.Values) *CriteriaBuilder {
	page := 1
	pageSize := 20

	for key, vals := range values {
		if len(vals) == 0 || vals[0] == "" {
			continue
		}
		value := vals[0]

		switch key {
		case "page":
			if n, err := strconv.Atoi(value); err == nil && n > 0 {
				page = n
			}
		case "page_size":
			if n, err := strconv.Atoi(value); err == nil && n > 0 && n <= 100 {
				pageSize = n
			}
		case "order_by":
			orderType := b.order.OrderType
			if orderType == "" {
				orderType = DESC
			}
			b.order = NewOrder(value, orderType)
		case "order_type":
			orderType := ASC
			if strings.EqualFold(value, "desc") {
				orderType = DESC
			}
			b.order = NewOrder(b.order.Field, orderType)
		default:
			if strings.HasSuffix(key, "_like") {
				b.filters.Add(NewFilter(strings.TrimSuffix(key, "_like"), OpLike, value))
			} else {
				b.filters.Add(NewFilter(key, OpEqual, value))
			}
		}
	}

	offset := (page - 1) * pageSize
	b.limit = &pageSize
	b.offset = &offset
	return b
}

// Build construye el criteria final
func (b *CriteriaBuilder) Build() Criteria {
	return NewCriteria(b.filters, b.order, b.limit, b.offset)
}
