// Package apierror define los sobres de error HTTP del API. Todo 4xx/5xx sale
// con esta forma; los detalles internos (SQL, stack traces) nunca viajan al
// cliente.
package apierror

type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError acompaña el detalle con el campo y la regla que falló,
// tal como los reporta el validador de los DTOs.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}
