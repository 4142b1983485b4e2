package handler

import (
	"errors"
	"net/http"
)

var ErrNilResponse = errors.New("handler returned nil response")

// HTTPError is an error with a status code and a machine-readable key.
// Message is shown to the client; Err is only logged.
type HTTPError struct {
	Code    int
	Key     string
	Message string
	Err     error
}

// NewHTTPError builds an HTTPError whose message defaults to the status text.
func NewHTTPError(code int, key, message string) HTTPError {
	if message == "" {
		message = http.StatusText(code)
	}
	return HTTPError{Code: code, Key: key, Message: message}
}

// Wrap attaches cause to a copy of e.
func (e HTTPError) Wrap(cause error) HTTPError {
	e.Err = cause
	return e
}

func (e HTTPError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e HTTPError) Unwrap() error { return e.Err }
