package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized     = errors.New("unauthorized")
	ErrServerValidation = errors.New("server rejected the input")
	ErrNoSession        = errors.New("no session")
)

// An APIError is a non-2xx answer of the remote API. Fields is non-nil
// whenever the body held an "errors" object, even an empty one.
type APIError struct {
	Status  int
	Message string
	Fields  map[string][]string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api status %d", e.Status)
	}
	return fmt.Sprintf("api status %d: %s", e.Status, e.Message)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == 401
	case ErrServerValidation:
		return e.Fields != nil
	}
	return false
}

// ServerMessage returns the message the API attached to err, if any.
func ServerMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}
