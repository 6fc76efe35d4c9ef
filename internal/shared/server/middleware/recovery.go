package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"resumelink/internal/shared/server/respond"
	"resumelink/internal/shared/telemetry"
)

// Recovery turns a panic into a 500 with the standard error body. Once the
// response has started only the log line is written.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			fields := map[string]any{
				"request_id": RequestIDFromContext(c),
				"error":      fmt.Sprint(rec),
				"stack":      string(debug.Stack()),
				"method":     c.Request.Method,
				"path":       c.Request.URL.Path,
			}
			if route := c.FullPath(); route != "" {
				fields["route"] = route
			}
			if shortID := c.GetString(ShortIDKey); shortID != "" {
				fields["short_id"] = shortID
			}
			telemetry.Error("panic", fields)

			if c.Writer.Written() {
				c.Abort()
				return
			}
			respond.Error(c, http.StatusInternalServerError, "internal_error", "unexpected server error", nil)
		}()
		c.Next()
	}
}
