package analytics

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"resumelink/internal/shared/server/middleware"
	"resumelink/internal/shared/server/respond"
	"resumelink/internal/shared/telemetry"
)

// Handler serves the analytics summary.
type Handler struct {
	Agg *Aggregator
}

// NewHandler constructs a Handler.
func NewHandler(agg *Aggregator) *Handler {
	return &Handler{Agg: agg}
}

// RegisterRoutes attaches analytics routes to an authenticated router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/analytics", h.summary)
}

func (h *Handler) summary(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	tz := strings.TrimSpace(c.Query("tz"))
	if tz == "" {
		tz = "UTC"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid tz", gin.H{"field": "tz"})
		return
	}

	sum, err := h.Agg.Summarize(c.Request.Context(), userID, loc)
	if err != nil {
		telemetry.Error("analytics.load_failed", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		respond.Error(c, http.StatusInternalServerError, "internal_error", ErrLoadFailed.Error(), nil)
		return
	}
	respond.OK(c, toSummaryResponse(sum, loc.String()))
}
