package utils

import (
	"errors"
	"net/http"
)

// AppError carries an HTTP status alongside the message so controllers can map
// service failures without inspecting error strings.
type AppError struct {
	Code    int
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func NewNotFound(msg string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: msg}
}

func NewValidationError(msg string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: msg}
}

func NewUnauthorized(msg string) *AppError {
	return &AppError{Code: http.StatusUnauthorized, Message: msg}
}

func NewConflictError(msg string) *AppError {
	return &AppError{Code: http.StatusConflict, Message: msg}
}

func NewUpstreamError(msg string) *AppError {
	return &AppError{Code: http.StatusBadGateway, Message: msg}
}

// StatusOf returns the HTTP status for err, defaulting to 500.
func StatusOf(err error) int {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return http.StatusInternalServerError
}
