package http

import (
	"fmt"
	"net/http"
)

// AppError is an error the API can render directly: a stable machine
// code, a human message and the HTTP status to respond with. Status and
// the wrapped cause stay out of the JSON body.
type AppError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Field   string                 `json:"field,omitempty"`
	Params  map[string]interface{} `json:"params,omitempty"`
	Status  int                    `json:"-"`
	Err     error                  `json:"-"`
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

// NewAppError creates an AppError with the given code, field and status.
func NewAppError(code, field, message string, status int) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Field:   field,
		Status:  status,
	}
}

// NotFoundError builds a 404 error.
func NotFoundError(message string) *AppError {
	return NewAppError("ERR_NOT_FOUND", "", message, http.StatusNotFound)
}

// NotFoundErrorf builds a 404 error from a format string.
func NotFoundErrorf(format string, a ...interface{}) *AppError {
	return NotFoundError(fmt.Sprintf(format, a...))
}

// BadRequestError builds a generic 400 error.
func BadRequestError(message string) *AppError {
	return NewAppError("ERR_BAD_REQUEST", "", message, http.StatusBadRequest)
}

// InvalidArgumentError builds a 400 error naming the offending field.
func InvalidArgumentError(field, message string) *AppError {
	return NewAppError("ERR_INVALID_ARGUMENT", field, message, http.StatusBadRequest)
}

// InvalidArgumentErrorf builds a 400 field error from a format string.
func InvalidArgumentErrorf(field, format string, a ...interface{}) *AppError {
	return InvalidArgumentError(field, fmt.Sprintf(format, a...))
}

// InternalError builds a 500 error.
func InternalError(message string) *AppError {
	return NewAppError("ERR_INTERNAL", "", message, http.StatusInternalServerError)
}

// InternalErrorf builds a 500 error from a format string.
func InternalErrorf(format string, a ...interface{}) *AppError {
	return InternalError(fmt.Sprintf(format, a...))
}
