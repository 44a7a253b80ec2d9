package analytics

import "fmt"

// AnalyticsError is a custom error type for analytics service errors.
type AnalyticsError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for AnalyticsError.
func (e *AnalyticsError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("analytics %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("analytics %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *AnalyticsError) Unwrap() error {
	return e.Err
}

// NewAnalyticsError creates a new AnalyticsError.
func NewAnalyticsError(operation, message string, err error) *AnalyticsError {
	return &AnalyticsError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
