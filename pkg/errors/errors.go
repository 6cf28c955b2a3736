package errors

import (
	"errors"
	"fmt"
)

// Codes attached to errors that end up in front of the user.
const (
	CodeAuthRequired = "auth_required"
	CodeAuth         = "auth_failed"
	CodeValidation   = "validation"
	CodeUpload       = "upload_failed"
	CodeQuery        = "query_failed"
	CodeNotFound     = "not_found"
	CodeRateLimited  = "rate_limited"
)

var ErrNotFound = errors.New("not found")

// Error carries a machine readable code next to the message shown to users.
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error with a code and message.
func New(code, message string) error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// WrapWithCode wraps an error with a code and message
func WrapWithCode(err error, code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// GetCode returns the error code if it exists
func GetCode(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// GetMessage returns the outermost coded message, falling back to err.Error().
func GetMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || GetCode(err) == CodeNotFound
}

func IsAuthRequired(err error) bool {
	return GetCode(err) == CodeAuthRequired
}
