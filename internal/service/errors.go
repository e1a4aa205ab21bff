package service

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCart rejects a checkout with no cart lines. No order is
	// created and no stock is touched.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInvalidCredentials is returned for a failed login. It does not
	// reveal whether the username exists.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// ValidationError reports a field-level problem with submitted form data.
// The boundary layer re-renders the form with the message; nothing is
// written.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalidField(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
