package criteria

import (
	"fmt"
	"strconv"
	"strings"

	domainCriteria "checkout/src/shared/domain/criteria"
)

// SQLCriteriaConverter convierte un objeto Criteria en una consulta SQL
// con placeholders posicionales de PostgreSQL ($1, $2, ...)
type SQLCriteriaConverter struct{}

// NewSQLCriteriaConverter crea una nueva instancia del conversor
func NewSQLCriteriaConverter() *SQLCriteriaConverter {
	return &SQLCriteriaConverter{}
}

// ToSelectSQL convierte un criteria a una consulta SELECT completa con
// sus parámetros; los placeholders arrancan en startIndex para poder
// combinar con condiciones fijas del repositorio (ej: tenant_id = $1)
func (s *SQLCriteriaConverter) ToSelectSQL(baseQuery string, startIndex int, crit domainCriteria.Criteria) (string, []interface{}) {
	var parts []string
	var params []interface{}

	parts = append(parts, baseQuery)

	if !crit.Filters.IsEmpty() {
		whereClause, whereParams := s.buildConditions(crit.Filters, startIndex)
		parts = append(parts, "AND "+whereClause)
		params = append(params, whereParams...)
	}

	if !crit.Order.IsEmpty() {
		parts = append(parts, s.buildOrderClause(crit.Order))
	}

	if crit.Limit != nil && crit.Offset != nil {
		parts = append(parts, s.buildLimitClause(crit.Limit, crit.Offset))
	}

	return strings.Join(parts, " "), params
}

// ToCountSQL convierte un criteria a una consulta COUNT con sus parámetros
func (s *SQLCriteriaConverter) ToCountSQL(baseCountQuery string, startIndex int, crit domainCriteria.Criteria) (string, []interface{}) {
	var parts []string
	var params []interface{}

	parts = append(parts, baseCountQuery)

	if !crit.Filters.IsEmpty() {
		whereClause, whereParams := s.buildConditions(crit.Filters, startIndex)
		parts = append(parts, "AND "+whereClause)
		params = append(params, whereParams...)
	}

	// COUNT no necesita ORDER BY ni LIMIT

	return strings.Join(parts, " "), params
}

// buildConditions construye las condiciones AND con sus parámetros
func (s *SQLCriteriaConverter) buildConditions(filters domainCriteria.Filters, startIndex int) (string, []interface{}) {
	var conditions []string
	var params []interface{}

	paramIndex := startIndex
	for _, filter := range filters.Items {
		condition, value := s.processFilter(filter, paramIndex)
		conditions = append(conditions, condition)
		if value != nil {
			params = append(params, value)
			paramIndex++
		}
	}

	return strings.Join(conditions, " AND "), params
}

// buildOrderClause construye la cláusula ORDER BY
func (s *SQLCriteriaConverter) buildOrderClause(order domainCriteria.Order) string {
	return fmt.Sprintf("ORDER BY %s %s", order.Field, string(order.OrderType))
}

// buildLimitClause construye la cláusula LIMIT y OFFSET
func (s *SQLCriteriaConverter) buildLimitClause(limit, offset *int) string {
	return fmt.Sprintf("LIMIT %d OFFSET %d", *limit, *offset)
}

// processFilter convierte un filtro en una condición SQL con su placeholder
func (s *SQLCriteriaConverter) processFilter(filter domainCriteria.Filter, paramIndex int) (string, interface{}) {
	var condition string
	placeholder := "$" + strconv.Itoa(paramIndex)

	switch filter.Operator {
	case domainCriteria.OpEqual, domainCriteria.OpNotEqual, domainCriteria.OpGreaterThan,
		domainCriteria.OpGreaterThanOrEqual, domainCriteria.OpLessThan, domainCriteria.OpLessThanOrEqual:
		condition = fmt.Sprintf("%s %s %s", filter.Field, filter.Operator, placeholder)
	case domainCriteria.OpLike:
		condition = fmt.Sprintf("%s LIKE %s", filter.Field, placeholder)
		// Asegurar que el valor sea compatible con LIKE
		if str, ok := filter.Value.(string); ok {
			if !strings.Contains(str, "%") {
				filter.Value = "%" + str + "%"
			}
		}
	case domainCriteria.OpIsNull:
		return fmt.Sprintf("%s IS NULL", filter.Field), nil
	case domainCriteria.OpIsNotNull:
		return fmt.Sprintf("%s IS NOT NULL", filter.Field), nil
	case domainCriteria.OpArrayContains:
		// PostgreSQL: verificar si un array contiene un valor específico
		condition = fmt.Sprintf("%s @> ARRAY[%s]", filter.Field, placeholder)
	default:
		condition = fmt.Sprintf("%s = %s", filter.Field, placeholder)
	}

	return condition, filter.Value
}
