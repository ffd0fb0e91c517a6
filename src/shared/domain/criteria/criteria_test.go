package criteria

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCriteriaBuilder_FromURLValues(t *testing.T) {
	values := url.Values{}
	values.Set("status", "COMPLETED")
	values.Set("customer_email_like", "gmail")
	values.Set("order_by", "created_at")
	values.Set("order_type", "asc")
	values.Set("page", "3")
	values.Set("page_size", "10")

	crit := NewCriteriaBuilder().FromURLValues(values).Build()

	require.Len(t, crit.Filters.Items, 2)
	byField := make(map[string]Filter)
	for _, f := range crit.Filters.Items {
		byField[f.Field] = f
	}
	assert.Equal(t, OpEqual, byField["status"].Operator)
	assert.Equal(t, "COMPLETED", byField["status"].Value)
	assert.Equal(t, OpLike, byField["customer_email"].Operator)

	assert.Equal(t, "created_at", crit.Order.Field)
	assert.Equal(t, ASC, crit.Order.OrderType)

	require.NotNil(t, crit.Limit)
	require.NotNil(t, crit.Offset)
	assert.Equal(t, 10, *crit.Limit)
	assert.Equal(t, 20, *crit.Offset)
}

func TestCriteriaBuilder_FromURLValues_Defaults(t *testing.T) {
	crit := NewCriteriaBuilder().FromURLValues(url.Values{}).Build()

	assert.True(t, crit.Filters.IsEmpty())
	assert.True(t, crit.Order.IsEmpty())
	require.NotNil(t, crit.Limit)
	assert.Equal(t, 20, *crit.Limit)
	assert.Equal(t, 0, *crit.Offset)
}

func TestCriteriaBuilder_FromURLValues_IgnoresInvalidPagination(t *testing.T) {
	values := url.Values{}
	values.Set("page", "-1")
	values.Set("page_size", "9999")

	crit := NewCriteriaBuilder().FromURLValues(values).Build()

	assert.Equal(t, 20, *crit.Limit)
	assert.Equal(t, 0, *crit.Offset)
}

func TestCriteriaBuilder_Fluent(t *testing.T) {
	crit := NewCriteriaBuilder().
		WithFilter("status", OpEqual, "PROCESSING").
		WithOrder("total", DESC).
		WithPagination(50, 100).
		Build()

	require.Len(t, crit.Filters.Items, 1)
	assert.Equal(t, "total", crit.Order.Field)
	assert.Equal(t, 50, *crit.Limit)
	assert.Equal(t, 100, *crit.Offset)
}
