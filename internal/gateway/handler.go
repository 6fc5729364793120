package gateway

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/docnyte/apisvc/internal/model"
	"github.com/docnyte/apisvc/internal/observability"
)

// Handler exposes the service operations over HTTP.
type Handler struct {
	service *Service
	logger  observability.Logger
}

// HandlerOption is a functional option for configuring the handler.
type HandlerOption func(*Handler)

// WithHandlerLogger sets the logger for the handler.
func WithHandlerLogger(logger observability.Logger) HandlerOption {
	return func(h *Handler) {
		h.logger = logger
	}
}

// NewHandler creates a new HTTP handler for the service.
func NewHandler(service *Service, opts ...HandlerOption) *Handler {
	h := &Handler{
		service: service,
		logger:  observability.NopLogger(),
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Register mounts the service routes on the given router.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/", h.Root)

	api := r.Group("/api")
	api.GET("/health", h.Health)
	api.GET("/users", h.ListUsers)
	api.GET("/users/:id", h.GetUser)
}

// Root serves the root payload pointing at the documentation and health
// endpoints.
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, model.RootResponse{
		Message: "Welcome to " + h.service.Name(),
		Docs:    "/docs",
		Health:  "/api/health",
	})
}

// Health serves the health check endpoint. It always responds 200; data
// service failures are reported inside the payload.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Health(c.Request.Context()))
}

// ListUsers serves the user collection endpoint.
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}

	if users == nil {
		users = []model.User{}
	}
	c.JSON(http.StatusOK, users)
}

// GetUser serves the single-user endpoint.
func (h *Handler) GetUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Detail:     "Invalid user ID: " + c.Param("id"),
			StatusCode: http.StatusBadRequest,
		})
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// writeError translates a service error into the wire error contract.
func (h *Handler) writeError(c *gin.Context, err error) {
	status, detail := MapError(err)

	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			observability.String("path", c.Request.URL.Path),
			observability.Int("status", status),
			observability.Error(err),
		)
	}

	c.JSON(status, model.ErrorResponse{
		Detail:     detail,
		StatusCode: status,
	})
}
