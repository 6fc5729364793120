package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docnyte/apisvc/internal/model"
	"github.com/docnyte/apisvc/internal/observability"
)

func TestNewClient_Defaults(t *testing.T) {
	t.Parallel()

	client := NewClient("http://data-service:8080")

	assert.Equal(t, "http://data-service:8080", client.BaseURL())
	assert.Equal(t, DefaultHealthTimeout, client.healthTimeout)
	assert.Equal(t, DefaultRequestTimeout, client.requestTimeout)
	assert.NotNil(t, client.httpClient)
}

func TestNewClient_TrimsTrailingSlash(t *testing.T) {
	t.Parallel()

	client := NewClient("http://data-service:8080/")

	assert.Equal(t, "http://data-service:8080", client.BaseURL())
}

func TestNewClient_WithOptions(t *testing.T) {
	t.Parallel()

	httpClient := &http.Client{}
	logger := observability.NopLogger()
	metrics := observability.NewMetrics("test_client_options")

	client := NewClient("http://data-service:8080",
		WithHTTPClient(httpClient),
		WithLogger(logger),
		WithMetrics(metrics),
		WithHealthTimeout(time.Second),
		WithRequestTimeout(10*time.Second),
	)

	assert.Equal(t, httpClient, client.httpClient)
	assert.Equal(t, time.Second, client.healthTimeout)
	assert.Equal(t, 10*time.Second, client.requestTimeout)
	assert.Equal(t, metrics, client.metrics)
}

func TestClient_ListUsers_PreservesOrderAndCount(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/users", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":3,"name":"Carol","email":"carol@example.com"},
			{"id":1,"name":"John Doe","email":"john@example.com"},
			{"id":2,"name":"Bob","email":"bob@example.com"}
		]`))
	}))
	defer upstream.Close()

	client := NewClient(upstream.URL)

	users, err := client.ListUsers(context.Background())

	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, []int{3, 1, 2}, []int{users[0].ID, users[1].ID, users[2].ID})
	assert.Equal(t, "John Doe", users[1].Name)
	assert.Equal(t, "john@example.com", users[1].Email)
}

func TestClient_ListUsers_EmptyArray(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer upstream.Close()

	client := NewClient(upstream.URL)

	users, err := client.ListUsers(context.Background())

	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestClient_ListUsers_UpstreamError(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("database down"))
	}))
	defer upstream.Close()

	client := NewClient(upstream.URL)

	_, err := client.ListUsers(context.Background())

	require.Error(t, err)
	statusErr, ok := IsStatusError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, statusErr.Status)
	assert.Equal(t, "database down", statusErr.Body)
}

func TestClient_ListUsers_ConnectionRefused(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	upstream.Close()

	client := NewClient(upstream.URL)

	_, err := client.ListUsers(context.Background())

	require.Error(t, err)
	transportErr, ok := IsTransportError(err)
	require.True(t, ok)
	assert.Equal(t, KindConnectionRefused, transportErr.Kind)
}

func TestClient_ListUsers_Timeout(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer upstream.Close()

	client := NewClient(upstream.URL, WithRequestTimeout(50*time.Millisecond))

	_, err := client.ListUsers(context.Background())

	require.Error(t, err)
	transportErr, ok := IsTransportError(err)
	require.True(t, ok)
	assert.Equal(t, KindTimeout, transportErr.Kind)
}

func TestClient_ListUsers_InvalidJSON(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not":"an array"}`))
	}))
	defer upstream.Close()

	client := NewClient(upstream.URL)

	_, err := client.ListUsers(context.Background())

	require.Error(t, err)
	_, isStatus := IsStatusError(err)
	_, isTransport := IsTransportError(err)
	assert.False(t, isStatus)
	assert.False(t, isTransport)
}

func TestClient_ListUsers_InvalidUser(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,"name":"","email":"empty@example.com"}]`))
	}))
	defer upstream.Close()

	client := NewClient(upstream.URL)

	_, err := client.ListUsers(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid user")
}

func TestClient_GetUser_Success(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/users/42", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":42,"name":"John Doe","email":"john@example.com"}`))
	}))
	defer upstream.Close()

	client := NewClient(upstream.URL)

	user, err := client.GetUser(context.Background(), 42)

	require.NoError(t, err)
	assert.Equal(t, model.User{ID: 42, Name: "John Doe", Email: "john@example.com"}, user)
}

func TestClient_GetUser_NotFound(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("user not found"))
	}))
	defer upstream.Close()

	client := NewClient(upstream.URL)

	_, err := client.GetUser(context.Background(), 999)

	require.Error(t, err)
	statusErr, ok := IsStatusError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, statusErr.Status)
}

func TestClient_GetUser_ConnectionRefused(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	upstream.Close()

	client := NewClient(upstream.URL)

	_, err := client.GetUser(context.Background(), 1)

	require.Error(t, err)
	transportErr, ok := IsTransportError(err)
	require.True(t, ok)
	assert.Equal(t, KindConnectionRefused, transportErr.Kind)
}

func TestClient_CheckHealth_Healthy(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/actuator/health", r.URL.Path)
		_, _ = w.Write([]byte(`{"status":"UP"}`))
	}))
	defer upstream.Close()

	client := NewClient(upstream.URL)

	status, err := client.CheckHealth(context.Background())

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
}

func TestClient_CheckHealth_Unhealthy(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer upstream.Close()

	client := NewClient(upstream.URL)

	status, err := client.CheckHealth(context.Background())

	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, status)
}

func TestClient_CheckHealth_Unreachable(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	upstream.Close()

	client := NewClient(upstream.URL)

	_, err := client.CheckHealth(context.Background())

	require.Error(t, err)
	_, ok := IsTransportError(err)
	assert.True(t, ok)
}

func TestClient_CheckHealth_Timeout(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer upstream.Close()

	client := NewClient(upstream.URL, WithHealthTimeout(50*time.Millisecond))

	_, err := client.CheckHealth(context.Background())

	require.Error(t, err)
	transportErr, ok := IsTransportError(err)
	require.True(t, ok)
	assert.Equal(t, KindTimeout, transportErr.Kind)
}

func TestClient_RecordsMetrics(t *testing.T) {
	t.Parallel()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer upstream.Close()

	metrics := observability.NewMetrics("test_client_metrics")
	client := NewClient(upstream.URL, WithMetrics(metrics))

	_, err := client.ListUsers(context.Background())
	require.NoError(t, err)

	families, err := metrics.Registry().Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, family := range families {
		names[family.GetName()] = true
	}
	assert.True(t, names["test_client_metrics_upstream_requests_total"])
}
