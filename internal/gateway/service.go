package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/docnyte/apisvc/internal/model"
	"github.com/docnyte/apisvc/internal/observability"
	"github.com/docnyte/apisvc/internal/upstream"
)

// Health status values.
const (
	statusHealthy   = "healthy"
	statusConnected = "connected"
)

// DataClient is the data service client interface used by the service.
type DataClient interface {
	CheckHealth(ctx context.Context) (int, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	GetUser(ctx context.Context, id int) (model.User, error)
}

// Service implements the API service operations. It is stateless; every
// operation is a single call to the data service with the result translated
// into the downstream contract.
type Service struct {
	name    string
	version string
	client  DataClient
	logger  observability.Logger
}

// ServiceOption is a functional option for configuring the service.
type ServiceOption func(*Service)

// WithServiceLogger sets the logger for the service.
func WithServiceLogger(logger observability.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates a new service with the given identity and data client.
func NewService(name, version string, client DataClient, opts ...ServiceOption) *Service {
	s := &Service{
		name:    name,
		version: version,
		client:  client,
		logger:  observability.NopLogger(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the configured service name.
func (s *Service) Name() string {
	return s.name
}

// Health reports the service health, including data service connectivity.
// Upstream failures never fail this operation; they are absorbed into the
// data_service_status string.
func (s *Service) Health(ctx context.Context) model.HealthStatus {
	dataServiceStatus := statusConnected

	status, err := s.client.CheckHealth(ctx)
	switch {
	case err == nil && status == http.StatusOK:
		// connected
	case err == nil:
		dataServiceStatus = fmt.Sprintf("unhealthy (status: %d)", status)
	default:
		if transportErr, ok := upstream.IsTransportError(err); ok {
			dataServiceStatus = fmt.Sprintf("unreachable (%s)", transportErr.Kind)
		} else {
			dataServiceStatus = fmt.Sprintf("error (%s)", errorKind(err))
		}
		s.logger.Warn("data service health check failed", observability.Error(err))
	}

	return model.HealthStatus{
		Status:            statusHealthy,
		Service:           s.name,
		Version:           s.version,
		DataServiceStatus: dataServiceStatus,
	}
}

// ListUsers fetches all users from the data service in upstream order.
func (s *Service) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.client.ListUsers(ctx)
}

// GetUser fetches a single user by ID. An upstream 404 is translated to a
// NotFoundError; other upstream HTTP errors pass through unchanged.
func (s *Service) GetUser(ctx context.Context, id int) (model.User, error) {
	user, err := s.client.GetUser(ctx, id)
	if err != nil {
		if statusErr, ok := upstream.IsStatusError(err); ok && statusErr.Status == http.StatusNotFound {
			return model.User{}, &NotFoundError{ID: id}
		}
		return model.User{}, err
	}
	return user, nil
}

// errorKind names a non-transport failure for the health status string.
func errorKind(err error) string {
	if transportErr, ok := upstream.IsTransportError(err); ok {
		return transportErr.Kind
	}
	return "internal"
}
