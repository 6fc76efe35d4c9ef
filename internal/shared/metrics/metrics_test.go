package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestTrackingJobCounter(t *testing.T) {
	before := testutil.ToFloat64(trackingJobsTotal.WithLabelValues("view", OutcomeDropped))
	IncTrackingJob("view", OutcomeDropped)
	after := testutil.ToFloat64(trackingJobsTotal.WithLabelValues("view", OutcomeDropped))
	if after-before != 1 {
		t.Fatalf("expected counter to grow by 1, got %v", after-before)
	}
}

func TestHandlerExposesRegisteredMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ObserveHTTPRequest(http.MethodGet, "/r/:shortId", http.StatusOK, 3*time.Millisecond)

	r := gin.New()
	r.GET("/metrics", Handler())

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "resumelink_http_requests_total") {
		t.Fatalf("expected request counter in output")
	}
}
