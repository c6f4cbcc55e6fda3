package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrTransient marks failures worth retrying: network errors, timeouts, 5xx
	ErrTransient = errors.New("transient remote error")

	// ErrPermanent marks failures that will not succeed on retry: validation, auth, conflicts
	ErrPermanent = errors.New("permanent remote error")
)

// StatusError is returned for non-2xx responses from the server.
// It unwraps to ErrPermanent or ErrTransient depending on the status code.
type StatusError struct {
	Message    string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}

// Unwrap позволяет проверять класс ошибки через errors.Is
func (e *StatusError) Unwrap() error {
	if IsPermanentStatus(e.StatusCode) {
		return ErrPermanent
	}
	return ErrTransient
}

// IsPermanentStatus reports whether a response status must not be retried
func IsPermanentStatus(code int) bool {
	switch code {
	case http.StatusBadRequest,
		http.StatusUnauthorized,
		http.StatusForbidden,
		http.StatusNotFound,
		http.StatusConflict,
		http.StatusUnprocessableEntity:
		return true
	}
	return false
}

// IsNotFound reports whether err is a 404 response
func IsNotFound(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound
}
