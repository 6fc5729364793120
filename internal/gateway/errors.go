// Package gateway implements the API service operations and their HTTP handlers.
package gateway

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/docnyte/apisvc/internal/upstream"
)

// NotFoundError indicates that the data service has no user with the given ID.
type NotFoundError struct {
	ID int
}

// Error implements the error interface. The message is part of the wire
// contract and is returned verbatim as the error detail.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("User with ID %d not found", e.ID)
}

// MapError translates a service error to an HTTP status code and detail
// message. It is the single place where error kinds meet HTTP statuses:
//
//	NotFoundError   -> 404, the not-found message
//	StatusError     -> the upstream status, with the upstream body in the detail
//	TransportError  -> 503, with the failure kind in the detail
//	anything else   -> 500
func MapError(err error) (int, string) {
	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		return http.StatusNotFound, notFound.Error()
	}

	if statusErr, ok := upstream.IsStatusError(err); ok {
		return statusErr.Status, "Data service error: " + statusErr.Body
	}

	if transportErr, ok := upstream.IsTransportError(err); ok {
		return http.StatusServiceUnavailable, "Data service unavailable: " + transportErr.Kind
	}

	return http.StatusInternalServerError, "Internal error: " + err.Error()
}
