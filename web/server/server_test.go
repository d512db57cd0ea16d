package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/df07/go-wave-optics/pkg/core"
)

func newTestServer() *Server {
	return NewServer("localhost", 8080, core.NewDefaultLogger())
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest("GET", "/api/health", nil)
	rec := httptest.NewRecorder()

	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("Expected status ok, got %q", body["status"])
	}
}

func TestHandleIndex(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()

	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Wave Optics Field Viewer") {
		t.Errorf("Expected viewer page in response body")
	}

	// Unknown paths are not swallowed by the index handler
	req = httptest.NewRequest("GET", "/no-such-page", nil)
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown path, got %d", rec.Code)
	}
}

func TestHandleScenes(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest("GET", "/api/scenes", nil)
	rec := httptest.NewRecorder()

	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var body map[string][]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}

	found := false
	for _, name := range body["scenes"] {
		if name == "double-slit" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected double-slit in scene list, got %v", body["scenes"])
	}
}

func TestHandleTrace(t *testing.T) {
	s := newTestServer()

	tests := []struct {
		name        string
		query       string
		wantHit     bool
		wantBlocked bool
		wantElement string
	}{
		{
			name:        "blocked by barrier",
			query:       "scene=single-slit&x1=0&y1=100&x2=1024&y2=100",
			wantHit:     true,
			wantBlocked: true,
			wantElement: "aperture",
		},
		{
			name:    "through the slit",
			query:   "scene=single-slit&x1=0&y1=384&x2=1024&y2=384",
			wantHit: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/trace?"+tt.query, nil)
			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
			}
			var resp TraceResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("Invalid JSON response: %v", err)
			}
			if resp.Hit != tt.wantHit {
				t.Errorf("Expected hit=%v, got %v", tt.wantHit, resp.Hit)
			}
			if resp.Blocked != tt.wantBlocked {
				t.Errorf("Expected blocked=%v, got %v", tt.wantBlocked, resp.Blocked)
			}
			if tt.wantElement != "" && resp.ElementType != tt.wantElement {
				t.Errorf("Expected element %q, got %q", tt.wantElement, resp.ElementType)
			}
		})
	}
}

func TestHandleTrace_BadRequest(t *testing.T) {
	s := newTestServer()

	for _, query := range []string{
		"scene=no-such-scene&x1=0&y1=0&x2=1&y2=1",
		"scene=single-slit&x1=abc",
	} {
		req := httptest.NewRequest("GET", "/api/trace?"+query, nil)
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Query %q: expected 400, got %d", query, rec.Code)
		}
	}
}

func TestHandleRenderProgressive_InvalidParams(t *testing.T) {
	s := newTestServer()

	for _, query := range []string{
		"width=5",          // below minimum
		"maxSamples=99999", // above maximum
		"maxPasses=zero",   // not a number
		"scene=no-such-scene",
	} {
		req := httptest.NewRequest("GET", "/api/render-progressive?"+query, nil)
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("Query %q: expected 400, got %d", query, rec.Code)
		}
	}
}

func TestHandleRenderProgressive_StreamsPasses(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest("GET",
		"/api/render-progressive?scene=double-slit&width=100&height=100&maxSamples=1&maxPasses=1", nil)
	rec := httptest.NewRecorder()

	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Expected SSE content type, got %q", ct)
	}

	body := rec.Body.String()
	if !strings.Contains(body, "event: pass") {
		t.Errorf("Expected at least one pass event in stream")
	}
	if !strings.Contains(body, "event: complete") {
		t.Errorf("Expected completion event in stream")
	}
	if !strings.Contains(body, `"isComplete":true`) {
		t.Errorf("Expected final pass marked complete")
	}
}

func TestParseRenderRequest_Defaults(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest("GET", "/api/render-progressive", nil)

	parsed, err := s.parseRenderRequest(req)
	if err != nil {
		t.Fatalf("parseRenderRequest failed: %v", err)
	}
	if parsed.Scene != "double-slit" {
		t.Errorf("Expected default scene double-slit, got %q", parsed.Scene)
	}
	if parsed.Width != 800 || parsed.Height != 600 {
		t.Errorf("Expected 800x600 default, got %dx%d", parsed.Width, parsed.Height)
	}
	if parsed.MaxSamples != 16 || parsed.MaxPasses != 4 {
		t.Errorf("Expected 16 samples and 4 passes, got %d and %d", parsed.MaxSamples, parsed.MaxPasses)
	}
	if !parsed.Falloff {
		t.Errorf("Expected falloff enabled by default")
	}
}
