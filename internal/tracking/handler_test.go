package tracking

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"resumelink/internal/analytics"
)

func newLinkRouter(f *fixture) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(f.resolver, f.tracker, 2*time.Second, "https://res.example/")
	r := gin.New()
	h.RegisterPageRoutes(r.Group("/r"))
	h.RegisterAPIRoutes(r.Group("/api/v1"))
	return r
}

func serve(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("User-Agent", "Mozilla/5.0 test")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestPageRendersDelayedOpenAndRecordsView(t *testing.T) {
	f := newFixture(t, ModeAtomic, seedResume(0, 0))
	r := newLinkRouter(f)

	resp := serve(r, "/r/abcd1234")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	body := resp.Body.String()
	if !strings.Contains(body, "Jane Doe") {
		t.Fatalf("expected title in page")
	}
	if !strings.Contains(body, "2000") || !strings.Contains(body, "window.open") {
		t.Fatalf("expected delayed open script, got %s", body)
	}
	if !strings.Contains(body, "https://res.example/r/abcd1234/download") {
		t.Fatalf("expected download link")
	}
	if got := f.events.Count(testResumeID, analytics.KindView); got != 1 {
		t.Fatalf("expected one view event, got %d", got)
	}
}

func TestPageUnknownShortID(t *testing.T) {
	f := newFixture(t, ModeAtomic, seedResume(0, 0))
	r := newLinkRouter(f)

	resp := serve(r, "/r/zzzz1")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "Resume not found") {
		t.Fatalf("expected not found page")
	}
	if f.repo.counterWrites() != 0 {
		t.Fatalf("expected no counter writes")
	}
}

func TestDownloadRedirectsEvenWhenEventWriteFails(t *testing.T) {
	f := newFixture(t, ModeAtomic, seedResume(0, 7))
	f.sink.Events = failingEvents{}
	r := newLinkRouter(f)

	resp := serve(r, "/r/abcd1234/download")
	if resp.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", resp.Code)
	}
	if loc := resp.Header().Get("Location"); loc != "https://files.example/u1/abcd1234-cv.pdf" {
		t.Fatalf("unexpected redirect %q", loc)
	}
	stored, _ := f.repo.GetByID(t.Context(), testResumeID)
	if stored.Downloads != 8 {
		t.Fatalf("expected downloads 8, got %d", stored.Downloads)
	}
}

func TestDownloadUnknownShortID(t *testing.T) {
	f := newFixture(t, ModeAtomic, seedResume(0, 0))
	resp := serve(newLinkRouter(f), "/r/zzzz1/download")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestLinkJSON(t *testing.T) {
	f := newFixture(t, ModeAtomic, seedResume(3, 1))
	r := newLinkRouter(f)

	resp := serve(r, "/api/v1/links/abcd1234")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var body LinkResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.OpenAfterMs != 2000 || body.Views != 3 || body.ShortID != "abcd1234" {
		t.Fatalf("unexpected body %+v", body)
	}

	missing := serve(r, "/api/v1/links/zzzz1")
	if missing.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", missing.Code)
	}
}
