package devserver

import (
	"errors"
	"net/http"
)

// StoreError is a failure with the HTTP status it should be reported as.
type StoreError struct {
	Status  int
	Message string
}

func (e *StoreError) Error() string { return e.Message }

func notFound(msg string) error   { return &StoreError{Status: http.StatusNotFound, Message: msg} }
func badRequest(msg string) error { return &StoreError{Status: http.StatusBadRequest, Message: msg} }
func conflict(msg string) error   { return &StoreError{Status: http.StatusConflict, Message: msg} }

func statusOf(err error) int {
	var se *StoreError
	if errors.As(err, &se) {
		return se.Status
	}
	return http.StatusInternalServerError
}
