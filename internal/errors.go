package internal

import (
	"errors"
	"fmt"
	"net/http"
)

// maxErrorBody caps how much of an upstream error body is kept
const maxErrorBody = 500

// ErrorKind classifies errors so callers never have to inspect messages
type ErrorKind int

const (
	KindOther ErrorKind = iota
	KindUsage
	KindHTTP
	KindTransport
)

func (k ErrorKind) String() string {
	switch k {
	case KindUsage:
		return "usage"
	case KindHTTP:
		return "http"
	case KindTransport:
		return "transport"
	default:
		return "other"
	}
}

// UsageError represents a caller or configuration mistake
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string {
	return e.Msg
}

// NewUsageError creates a UsageError with a formatted message
func NewUsageError(format string, args ...interface{}) error {
	return &UsageError{Msg: fmt.Sprintf(format, args...)}
}

// HTTPError represents a non-2xx response from the upstream API
type HTTPError struct {
	Status     int
	StatusText string
	Body       string
}

func (e *HTTPError) Error() string {
	text := e.StatusText
	if text == "" {
		text = http.StatusText(e.Status)
	}
	return fmt.Sprintf("HTTP %d %s: %s", e.Status, text, e.Body)
}

// newHTTPError builds an HTTPError keeping at most maxErrorBody characters of body
func newHTTPError(status int, statusText, body string) *HTTPError {
	return &HTTPError{
		Status:     status,
		StatusText: statusText,
		Body:       truncateRunes(body, maxErrorBody),
	}
}

// TransportError represents a request that could not be executed at all
type TransportError struct {
	Op  string // "token", "request", "read"
	URL string
	Err error
}

func (e *TransportError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("transport error: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("transport error: %s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// KindOf returns the kind tag for err
func KindOf(err error) ErrorKind {
	var usageErr *UsageError
	var httpErr *HTTPError
	var transportErr *TransportError
	switch {
	case err == nil:
		return KindOther
	case errors.As(err, &usageErr):
		return KindUsage
	case errors.As(err, &httpErr):
		return KindHTTP
	case errors.As(err, &transportErr):
		return KindTransport
	default:
		return KindOther
	}
}

// ExitCode maps an error to the CLI process exit status
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch KindOf(err) {
	case KindUsage:
		return 2
	case KindHTTP:
		var httpErr *HTTPError
		errors.As(err, &httpErr)
		if httpErr.Status >= 500 {
			return 5
		}
		return 4
	default:
		return 1
	}
}

// HTTPStatus maps an error to the status code the local web endpoint responds with
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindUsage:
		return http.StatusBadRequest
	case KindHTTP:
		var httpErr *HTTPError
		errors.As(err, &httpErr)
		if httpErr.Status > 0 {
			return httpErr.Status
		}
	}
	return http.StatusInternalServerError
}
