package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/docnyte/apisvc/internal/model"
	"github.com/docnyte/apisvc/internal/observability"
)

// Data service endpoint paths.
const (
	healthPath = "/actuator/health"
	usersPath  = "/data/users"
)

// Default per-call timeouts.
const (
	DefaultHealthTimeout  = 2 * time.Second
	DefaultRequestTimeout = 5 * time.Second
)

// maxResponseBody caps how much of an upstream response body is read.
const maxResponseBody = 10 << 20 // 10 MB

// Metric outcome label values.
const (
	outcomeSuccess        = "success"
	outcomeUpstreamError  = "upstream_error"
	outcomeTransportError = "transport_error"
)

// Client is an HTTP client for the data service. Each call is a single
// best-effort attempt bounded by a per-call timeout derived from the caller's
// context, so inbound cancellation propagates to the outbound request.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	healthTimeout  time.Duration
	requestTimeout time.Duration
	logger         observability.Logger
	metrics        *observability.Metrics
}

// Option is a functional option for configuring the client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets the logger for the client.
func WithLogger(logger observability.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMetrics sets the metrics recorder for the client.
func WithMetrics(metrics *observability.Metrics) Option {
	return func(c *Client) {
		c.metrics = metrics
	}
}

// WithHealthTimeout sets the timeout for health connectivity probes.
func WithHealthTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.healthTimeout = timeout
	}
}

// WithRequestTimeout sets the timeout for user data requests.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.requestTimeout = timeout
	}
}

// NewClient creates a new data service client for the given base URL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		httpClient:     &http.Client{},
		healthTimeout:  DefaultHealthTimeout,
		requestTimeout: DefaultRequestTimeout,
		logger:         observability.NopLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// BaseURL returns the configured data service base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// CheckHealth probes the data service health endpoint and returns the HTTP
// status code it responded with.
func (c *Client) CheckHealth(ctx context.Context) (int, error) {
	_, status, err := c.get(ctx, healthPath, c.healthTimeout, "check_health")
	return status, err
}

// ListUsers fetches all users from the data service, preserving the order the
// data service returned them in.
func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	body, status, err := c.get(ctx, usersPath, c.requestTimeout, "list_users")
	if err != nil {
		return nil, err
	}

	if status < 200 || status > 299 {
		return nil, &StatusError{Status: status, Body: string(body)}
	}

	var users []model.User
	if err := json.Unmarshal(body, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users response: %w", err)
	}

	for i := range users {
		if err := users[i].Validate(); err != nil {
			return nil, fmt.Errorf("invalid user in response: %w", err)
		}
	}

	return users, nil
}

// GetUser fetches a single user by ID from the data service. An upstream 404
// is returned as a StatusError with status 404; callers decide how to
// translate it.
func (c *Client) GetUser(ctx context.Context, id int) (model.User, error) {
	path := fmt.Sprintf("%s/%d", usersPath, id)

	body, status, err := c.get(ctx, path, c.requestTimeout, "get_user")
	if err != nil {
		return model.User{}, err
	}

	if status < 200 || status > 299 {
		return model.User{}, &StatusError{Status: status, Body: string(body)}
	}

	var user model.User
	if err := json.Unmarshal(body, &user); err != nil {
		return model.User{}, fmt.Errorf("failed to decode user response: %w", err)
	}

	if err := user.Validate(); err != nil {
		return model.User{}, fmt.Errorf("invalid user in response: %w", err)
	}

	return user, nil
}

// get performs a single GET request bounded by the given timeout. It returns
// the response body and status code, or a TransportError when no HTTP
// response was received.
func (c *Client) get(
	ctx context.Context,
	path string,
	timeout time.Duration,
	operation string,
) ([]byte, int, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		transportErr := newTransportError(err)
		c.record(operation, outcomeTransportError, time.Since(start))
		c.logger.Warn("data service request failed",
			observability.String("operation", operation),
			observability.String("kind", transportErr.Kind),
			observability.Error(err),
		)
		return nil, 0, transportErr
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		transportErr := newTransportError(err)
		c.record(operation, outcomeTransportError, time.Since(start))
		return nil, 0, transportErr
	}

	outcome := outcomeSuccess
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		outcome = outcomeUpstreamError
	}
	c.record(operation, outcome, time.Since(start))

	c.logger.Debug("data service request completed",
		observability.String("operation", operation),
		observability.Int("status", resp.StatusCode),
		observability.Duration("duration", time.Since(start)),
	)

	return body, resp.StatusCode, nil
}

// record reports an outbound request to the metrics recorder, if configured.
func (c *Client) record(operation, outcome string, duration time.Duration) {
	if c.metrics != nil {
		c.metrics.RecordUpstreamRequest(operation, outcome, duration)
	}
}
