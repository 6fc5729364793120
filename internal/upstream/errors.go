// Package upstream provides the HTTP client for the data service.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
)

// Transport failure kinds. They classify failures that occur before any HTTP
// response is received, and appear verbatim in health status strings and
// error details.
const (
	KindTimeout           = "timeout"
	KindConnectionRefused = "connection_refused"
	KindDNS               = "dns"
	KindConnection        = "connection"
)

// ErrUnavailable indicates that the data service could not be reached.
var ErrUnavailable = errors.New("data service unavailable")

// StatusError represents a non-2xx HTTP response received from the data service.
type StatusError struct {
	// Status is the HTTP status code returned by the data service.
	Status int

	// Body is the response body text.
	Body string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("data service returned status %d: %s", e.Status, e.Body)
}

// TransportError represents a failure to obtain any HTTP response from the
// data service: connection refused, timeout, DNS failure.
type TransportError struct {
	// Kind is one of the Kind* constants.
	Kind string

	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("data service unreachable (%s): %v", e.Kind, e.Cause)
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error {
	return e.Cause
}

// Is reports whether the error matches the target.
func (e *TransportError) Is(target error) bool {
	return target == ErrUnavailable || errors.Is(e.Cause, target)
}

// newTransportError wraps a transport-level failure with its classified kind.
func newTransportError(err error) *TransportError {
	return &TransportError{Kind: classifyKind(err), Cause: err}
}

// classifyKind maps a transport-level failure to its kind string. A deadline
// exceeded on the per-call context counts as a timeout, matching the contract
// that timeouts behave like any other transport failure.
func classifyKind(err error) string {
	var dnsErr *net.DNSError
	var netErr net.Error

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		return KindTimeout
	case errors.Is(err, syscall.ECONNREFUSED):
		return KindConnectionRefused
	case errors.As(err, &dnsErr):
		return KindDNS
	default:
		return KindConnection
	}
}

// IsStatusError reports whether err is a StatusError, returning it if so.
func IsStatusError(err error) (*StatusError, bool) {
	var statusErr *StatusError
	ok := errors.As(err, &statusErr)
	return statusErr, ok
}

// IsTransportError reports whether err is a TransportError, returning it if so.
func IsTransportError(err error) (*TransportError, bool) {
	var transportErr *TransportError
	ok := errors.As(err, &transportErr)
	return transportErr, ok
}
