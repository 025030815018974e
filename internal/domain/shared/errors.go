package shared

import "fmt"

// Error codes used across the gateway. The HTTP layer maps these to status
// codes; services only ever speak in codes.
const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeUpstream        = "UPSTREAM_ERROR"
	CodeUpstreamTimeout = "UPSTREAM_TIMEOUT"
	CodeConfig          = "CONFIG_ERROR"
	CodeConflict        = "EMAIL_EXISTS"
)

// GatewayError is the domain-level error carried from services to the HTTP
// boundary. Detail holds resource/tenant/id context for logs and debug
// consumers; it is never rendered verbatim to clients.
type GatewayError struct {
	Code    string
	Message string
	Detail  string
	cause   error
}

// Error implements the error interface.
func (e *GatewayError) Error() string {
	if e.Detail != "" {
		return e.Message + ": " + e.Detail
	}
	return e.Message
}

// Unwrap exposes the wrapped cause for errors.Is/As.
func (e *GatewayError) Unwrap() error {
	return e.cause
}

// Is matches gateway errors by code so sentinel comparisons survive the
// WithDetail/WithCause copies.
func (e *GatewayError) Is(target error) bool {
	t, ok := target.(*GatewayError)
	return ok && t.Code == e.Code
}

// NewGatewayError creates a new gateway error.
func NewGatewayError(code, message string) *GatewayError {
	return &GatewayError{Code: code, Message: message}
}

// WithDetail returns a copy of the error annotated with detail context.
func (e *GatewayError) WithDetail(format string, args ...any) *GatewayError {
	return &GatewayError{
		Code:    e.Code,
		Message: e.Message,
		Detail:  fmt.Sprintf(format, args...),
		cause:   e.cause,
	}
}

// WithCause returns a copy of the error wrapping the underlying cause.
func (e *GatewayError) WithCause(cause error) *GatewayError {
	return &GatewayError{
		Code:    e.Code,
		Message: e.Message,
		Detail:  e.Detail,
		cause:   cause,
	}
}

// Common gateway errors.
var (
	ErrNotFound            = NewGatewayError(CodeNotFound, "Resource not found")
	ErrUpstreamUnreachable = NewGatewayError(CodeUpstream, "Failed to fetch upstream data")
	ErrUpstreamTimeout     = NewGatewayError(CodeUpstreamTimeout, "Upstream request timed out")
	ErrEmailExists         = NewGatewayError(CodeConflict, "Email already registered")
	ErrSyncSecretMissing   = NewGatewayError(CodeConfig, "Customer sync secret is not configured")
)

// Upstreamf builds an upstream error carrying a message extracted from a
// legacy error envelope.
func Upstreamf(format string, args ...any) *GatewayError {
	return NewGatewayError(CodeUpstream, fmt.Sprintf(format, args...))
}
