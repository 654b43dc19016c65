// Package apierror provides the error envelopes returned by the API.
// Internal details (stack traces, SQL errors) never reach clients.
package apierror

// APIError is the canonical error envelope for 4xx/5xx responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}

// ConflictError asks the client to confirm and resend the request.
type ConflictError struct {
	Error                string `json:"error"`
	RequiereConfirmacion bool   `json:"requiere_confirmacion"`
}

func NewConflict(msg string) *ConflictError {
	return &ConflictError{Error: msg, RequiereConfirmacion: true}
}
