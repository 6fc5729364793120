package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/docnyte/apisvc/internal/model"
	"github.com/docnyte/apisvc/internal/observability"
)

// Recovery returns a middleware that recovers from panics and responds with
// the standard error body.
func Recovery(logger observability.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				stack := debug.Stack()

				fields := []observability.Field{
					observability.Any("error", err),
					observability.String("method", c.Request.Method),
					observability.String("path", c.Request.URL.Path),
					observability.String("clientIP", c.ClientIP()),
					observability.String("stack", string(stack)),
				}

				if requestID := GetRequestID(c); requestID != "" {
					fields = append(fields, observability.String("requestID", requestID))
				}

				logger.Error("panic recovered", fields...)

				c.AbortWithStatusJSON(http.StatusInternalServerError, model.ErrorResponse{
					Detail:     "Internal error: unexpected failure",
					StatusCode: http.StatusInternalServerError,
				})
			}
		}()

		c.Next()
	}
}
