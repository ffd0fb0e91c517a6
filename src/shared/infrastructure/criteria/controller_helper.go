package criteria

import (
	"net/url"

	domainCriteria "checkout/src/shared/domain/criteria"

	"github.com/gin-gonic/gin"
)

// ControllerHelper proporciona funciones base para trabajar con
// criterios en controllers
type ControllerHelper struct{}

// NewControllerHelper crea una nueva instancia del helper
func NewControllerHelper() *ControllerHelper {
	return &ControllerHelper{}
}

// BuildCriteriaFromQuery construye criterios base desde query parameters de Gin
func (h *ControllerHelper) BuildCriteriaFromQuery(c *gin.Context) *domainCriteria.CriteriaBuilder {
	return domainCriteria.NewCriteriaBuilder().FromURLValues(c.Request.URL.Query())
}

// BuildCriteriaFromURLValues construye criterios base desde url.Values
func (h *ControllerHelper) BuildCriteriaFromURLValues(values url.Values) *domainCriteria.CriteriaBuilder {
	return domainCriteria.NewCriteriaBuilder().FromURLValues(values)
}

// ValidateAndSanitizeCriteria valida y sanitiza criterios antes de usarlos
// Solo deja pasar filtros y ordenamiento sobre campos permitidos; un
// ordenamiento inválido cae a created_at DESC
func (h *ControllerHelper) ValidateAndSanitizeCriteria(crit domainCriteria.Criteria, allowedFields []string) domainCriteria.Criteria {
	if len(allowedFields) == 0 {
		return crit
	}

	allowedMap := make(map[string]bool, len(allowedFields))
	for _, field := range allowedFields {
		allowedMap[field] = true
	}

	validFilters := domainCriteria.NewFilters()
	for _, filter := range crit.Filters.Items {
		if allowedMap[filter.Field] {
			validFilters.Add(filter)
		}
	}

	validOrder := crit.Order
	if validOrder.Field != "" && !allowedMap[validOrder.Field] {
		validOrder = domainCriteria.NewOrder("created_at", domainCriteria.DESC)
	}

	return domainCriteria.NewCriteria(validFilters, validOrder, crit.Limit, crit.Offset)
}
