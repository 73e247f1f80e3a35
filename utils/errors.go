package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies failures so the transport can pick a status code.
type ErrorKind int

const (
	KindUnexpected ErrorKind = iota
	KindNotFound
	KindValidation
	KindInvalidState
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindInvalidState:
		return "invalid_state"
	default:
		return "unexpected"
	}
}

// AppError is the error type every service returns. Fields carries one
// message per violated field constraint for validation failures.
type AppError struct {
	Kind    ErrorKind
	Message string
	Fields  []string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func ValidationFailed(message string, fields ...string) *AppError {
	return &AppError{Kind: KindValidation, Message: message, Fields: fields}
}

func InvalidState(format string, args ...interface{}) *AppError {
	return &AppError{Kind: KindInvalidState, Message: fmt.Sprintf(format, args...)}
}

// Unexpected wraps an infrastructure failure. Message is what the caller
// sees; err stays in the logs.
func Unexpected(message string, err error) *AppError {
	return &AppError{Kind: KindUnexpected, Message: message, Err: err}
}

// KindOf returns KindUnexpected for anything that is not an *AppError.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnexpected
}

func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

func HTTPStatus(kind ErrorKind) int {
	switch kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation, KindInvalidState:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
