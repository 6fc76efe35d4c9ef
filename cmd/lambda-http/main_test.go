package main

import (
	"encoding/json"
	"net/http"
	"testing"

	"resumelink/internal/shared/server/respond"
)

func TestErrorResponseUsesStandardBody(t *testing.T) {
	resp := errorResponse(http.StatusServiceUnavailable, "unavailable", "service is starting or misconfigured")

	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.StatusCode)
	}
	if resp.Headers["Content-Type"] != "application/json" {
		t.Fatalf("unexpected content type %q", resp.Headers["Content-Type"])
	}
	var body respond.ErrorResponse
	if err := json.Unmarshal([]byte(resp.Body), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != "unavailable" {
		t.Fatalf("unexpected body %+v", body)
	}
}
