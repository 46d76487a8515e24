package exceptions

import (
	"errors"
	"fmt"
	"net/http"
)

// ServiceError is an error that carries the HTTP status it should be reported with
type ServiceError struct {
	StatusCode int
	Message    string
}

func (se *ServiceError) Error() string {
	return se.Message
}

// InvalidInput is a client validation failure (400)
func InvalidInput(message string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusBadRequest, Message: message}
}

// InvalidInputf formats a validation failure message
func InvalidInputf(format string, args ...interface{}) *ServiceError {
	return InvalidInput(fmt.Sprintf(format, args...))
}

// Unauthorized reports missing or invalid credentials (401)
func Unauthorized(message string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusUnauthorized, Message: message}
}

// Forbidden reports an authenticated caller lacking permission (403)
func Forbidden(message string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusForbidden, Message: message}
}

// NotFound reports a missing referenced entity (404)
func NotFound(message string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusNotFound, Message: message}
}

// Conflict reports a duplicate membership or unique value. The API reports
// these as 400 like other validation failures.
func Conflict(message string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusBadRequest, Message: message}
}

// StatusCode maps err to an HTTP status; unknown errors are 500
func StatusCode(err error) int {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return http.StatusInternalServerError
}

// IsNotFound reports whether err is a not-found service error
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// PublicMessage returns the client-facing message for err. Internal errors
// are not leaked.
func PublicMessage(err error) string {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Message
	}
	return "Внутренняя ошибка сервера"
}
