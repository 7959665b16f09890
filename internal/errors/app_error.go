// Package errors defines the structured error shape API handlers return.
package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// AppError is a structured application error carrying the HTTP status to
// respond with alongside a stable machine-readable code.
type AppError struct {
	// HTTPStatusCode is the HTTP status code to return.
	HTTPStatusCode int `json:"-"`
	// Code is an internal error code string.
	Code string `json:"code"`
	// Message is the user-facing error message.
	Message string `json:"message"`
	// Details provides additional error context.
	Details map[string]any `json:"details,omitempty"`
	// Err is the underlying error, kept out of the JSON body.
	Err error `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// ToJSON returns the JSON byte representation of the error.
func (e *AppError) ToJSON() []byte {
	b, _ := json.Marshal(e)
	return b
}

// New creates an AppError.
func New(statusCode int, code, message string, err error) *AppError {
	return &AppError{
		HTTPStatusCode: statusCode,
		Code:           code,
		Message:        message,
		Err:            err,
	}
}

// BadRequest creates a 400 error.
func BadRequest(code, message string, err error) *AppError {
	return New(http.StatusBadRequest, code, message, err)
}

// Unauthorized creates a 401 error.
func Unauthorized(code, message string) *AppError {
	return New(http.StatusUnauthorized, code, message, nil)
}

// WithDetail attaches one context entry and returns the error for chaining.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}
