package purchaseflow

import "fmt"

// Violation es una falla de regla de negocio detectada por el flow,
// identificando la variante ofensora cuando aplica
type Violation struct {
	SKU     string `json:"sku,omitempty"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	if v.SKU == "" {
		return v.Message
	}
	return fmt.Sprintf("%s: %s", v.SKU, v.Message)
}

// Result agrega los errores y warnings de una corrida del purchase flow
// El caller decide el branch según HasError: errores vuelven a una
// pantalla anterior, warnings se muestran pero no cortan el checkout
type Result struct {
	Errors   []Violation `json:"errors,omitempty"`
	Warnings []Violation `json:"warnings,omitempty"`
}

// NewResult crea un resultado vacío (exitoso)
func NewResult() *Result {
	return &Result{}
}

// AddError agrega un error de negocio al resultado
func (r *Result) AddError(sku, message string) {
	r.Errors = append(r.Errors, Violation{SKU: sku, Message: message})
}

// AddWarning agrega un warning al resultado
func (r *Result) AddWarning(sku, message string) {
	r.Warnings = append(r.Warnings, Violation{SKU: sku, Message: message})
}

// HasError indica si la corrida falló
func (r *Result) HasError() bool {
	return len(r.Errors) > 0
}

// HasWarning indica si la corrida produjo warnings
func (r *Result) HasWarning() bool {
	return len(r.Warnings) > 0
}

// ErrorMessages retorna los mensajes de error formateados
func (r *Result) ErrorMessages() []string {
	messages := make([]string, 0, len(r.Errors))
	for _, v := range r.Errors {
		messages = append(messages, v.String())
	}
	return messages
}
