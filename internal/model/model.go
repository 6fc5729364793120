// Package model defines the wire types exposed by the API service.
package model

import (
	"errors"
	"fmt"
)

// Name length bounds for User.
const (
	minNameLength = 1
	maxNameLength = 100
)

// User represents a user returned by the data service.
type User struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Validate checks that the user satisfies the wire contract.
func (u User) Validate() error {
	if len(u.Name) < minNameLength {
		return errors.New("user name must not be empty")
	}
	if len(u.Name) > maxNameLength {
		return fmt.Errorf("user name exceeds %d characters", maxNameLength)
	}
	return nil
}

// HealthStatus represents the health check response, including data service
// connectivity. It is computed fresh for every request.
type HealthStatus struct {
	Status            string `json:"status"`
	Service           string `json:"service"`
	Version           string `json:"version"`
	DataServiceStatus string `json:"data_service_status,omitempty"`
}

// ErrorResponse is the standard error body returned for failed requests.
type ErrorResponse struct {
	Detail     string `json:"detail"`
	StatusCode int    `json:"status_code"`
}

// RootResponse is the payload served at the root path.
type RootResponse struct {
	Message string `json:"message"`
	Docs    string `json:"docs"`
	Health  string `json:"health"`
}
