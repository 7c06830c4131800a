// Package errors defines the domain error taxonomy returned to API callers.
// Every error here is a stable code callers can match on; internal failures
// are wrapped separately and never reuse these codes.
package errors

// DomainError is an error with a stable machine-readable code.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}
