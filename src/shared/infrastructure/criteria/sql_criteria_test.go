package criteria

import (
	"testing"

	domainCriteria "checkout/src/shared/domain/criteria"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToSelectSQL_StartIndexAfterFixedConditions(t *testing.T) {
	converter := NewSQLCriteriaConverter()

	limit, offset := 20, 0
	crit := domainCriteria.NewCriteria(
		domainCriteria.NewFilters(
			domainCriteria.NewFilter("status", domainCriteria.OpEqual, "COMPLETED"),
			domainCriteria.NewFilter("total", domainCriteria.OpGreaterThan, 1000),
		),
		domainCriteria.NewOrder("created_at", domainCriteria.DESC),
		&limit, &offset,
	)

	// El repositorio ya consumió $1 con tenant_id
	query, params := converter.ToSelectSQL("SELECT * FROM orders WHERE tenant_id = $1", 2, crit)

	assert.Equal(t,
		"SELECT * FROM orders WHERE tenant_id = $1 AND status = $2 AND total > $3 ORDER BY created_at DESC LIMIT 20 OFFSET 0",
		query,
	)
	require.Len(t, params, 2)
	assert.Equal(t, "COMPLETED", params[0])
	assert.Equal(t, 1000, params[1])
}

func TestToSelectSQL_LikeWrapsValue(t *testing.T) {
	converter := NewSQLCriteriaConverter()

	crit := domainCriteria.NewCriteria(
		domainCriteria.NewFilters(
			domainCriteria.NewFilter("customer_email", domainCriteria.OpLike, "gmail"),
		),
		domainCriteria.Order{}, nil, nil,
	)

	query, params := converter.ToSelectSQL("SELECT * FROM orders WHERE tenant_id = $1", 2, crit)

	assert.Contains(t, query, "customer_email LIKE $2")
	require.Len(t, params, 1)
	assert.Equal(t, "%gmail%", params[0])
}

func TestToSelectSQL_NullOperatorsTakeNoParams(t *testing.T) {
	converter := NewSQLCriteriaConverter()

	crit := domainCriteria.NewCriteria(
		domainCriteria.NewFilters(
			domainCriteria.NewFilter("customer_email", domainCriteria.OpIsNull, nil),
			domainCriteria.NewFilter("status", domainCriteria.OpEqual, "PROCESSING"),
		),
		domainCriteria.Order{}, nil, nil,
	)

	query, params := converter.ToSelectSQL("SELECT * FROM orders WHERE tenant_id = $1", 2, crit)

	assert.Contains(t, query, "customer_email IS NULL AND status = $2")
	require.Len(t, params, 1)
}

func TestToCountSQL_OmitsOrderAndLimit(t *testing.T) {
	converter := NewSQLCriteriaConverter()

	limit, offset := 20, 40
	crit := domainCriteria.NewCriteria(
		domainCriteria.NewFilters(
			domainCriteria.NewFilter("status", domainCriteria.OpEqual, "COMPLETED"),
		),
		domainCriteria.NewOrder("created_at", domainCriteria.DESC),
		&limit, &offset,
	)

	query, params := converter.ToCountSQL("SELECT COUNT(*) FROM orders WHERE tenant_id = $1", 2, crit)

	assert.Equal(t, "SELECT COUNT(*) FROM orders WHERE tenant_id = $1 AND status = $2", query)
	require.Len(t, params, 1)
}

func TestValidateAndSanitizeCriteria(t *testing.T) {
	helper := NewControllerHelper()

	crit := domainCriteria.NewCriteriaBuilder().
		WithFilter("status", domainCriteria.OpEqual, "COMPLETED").
		WithFilter("password", domainCriteria.OpEqual, "x").
		WithOrder("secret_column", domainCriteria.ASC).
		Build()

	sanitized := helper.ValidateAndSanitizeCriteria(crit, []string{"status", "created_at"})

	require.Len(t, sanitized.Filters.Items, 1)
	assert.Equal(t, "status", sanitized.Filters.Items[0].Field)

	// Orden no permitido cae al default
	assert.Equal(t, "created_at", sanitized.Order.Field)
	assert.Equal(t, domainCriteria.DESC, sanitized.Order.OrderType)
}
