package errors

// FieldError is one failed validation rule on a request or entity field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorInfo contains detailed error information
type ErrorInfo struct {
	Code    string       `json:"code"`              // Business error code, e.g., "NOT_FOUND"
	Details string       `json:"details,omitempty"` // Detailed error information, non-production only
	Fields  []FieldError `json:"fields,omitempty"`  // Per-field validation messages
	Stack   string       `json:"stack,omitempty"`   // Stack trace, non-production only
}
