package driver

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gatewayz/rum-server/internal/application"
	"github.com/gatewayz/rum-server/internal/memory"
)

func newTestHandler(t *testing.T) *VitalsHTTPHandler {
	t.Helper()
	store := memory.NewSampleStore(10000, 24*time.Hour)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewVitalsHTTPHandler(application.NewVitalsService(store, logger))
}

func postBatch(t *testing.T, handler http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/vitals", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestVitalsHTTPHandler_Record(t *testing.T) {
	handler := newTestHandler(t)

	rec := postBatch(t, handler, `{
		"sessionId": "sess-1",
		"path": "/checkout",
		"title": "Checkout",
		"device": "mobile",
		"metrics": [
			{"name": "LCP", "value": 2400, "delta": 2400, "rating": "good"},
			{"name": "CLS", "value": 0.05},
			{"name": "FID", "value": 80}
		]
	}`)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202; body: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %s, want application/json", ct)
	}

	var resp recordedResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Recorded != 2 {
		t.Errorf("recorded = %d, want 2 (unknown metric skipped)", resp.Recorded)
	}
}

func TestVitalsHTTPHandler_RecordInvalid(t *testing.T) {
	handler := newTestHandler(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"sessionId": `},
		{"missing session id", `{"path": "/", "metrics": [{"name": "LCP", "value": 1}]}`},
		{"missing path", `{"sessionId": "s", "metrics": [{"name": "LCP", "value": 1}]}`},
		{"empty metrics", `{"sessionId": "s", "path": "/", "metrics": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postBatch(t, handler, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("failed to decode error response: %v", err)
			}
			if resp.Error == "" {
				t.Error("error message should not be empty")
			}
		})
	}
}

func TestVitalsHTTPHandler_Summary(t *testing.T) {
	handler := newTestHandler(t)

	rec := postBatch(t, handler, `{
		"sessionId": "sess-1",
		"path": "/",
		"metrics": [
			{"name": "LCP", "value": 1200},
			{"name": "TTFB", "value": 600}
		]
	}`)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("seed batch failed: %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/vitals/summary?hours=1&device=all", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}

	var resp summaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Vitals["LCP"].Count != 1 {
		t.Errorf("LCP count = %d, want 1", resp.Vitals["LCP"].Count)
	}
	if resp.Vitals["LCP"].P75 != 1200 {
		t.Errorf("LCP p75 = %v, want 1200", resp.Vitals["LCP"].P75)
	}
	if len(resp.Vitals) != 5 {
		t.Errorf("vitals entries = %d, want all 5 metrics", len(resp.Vitals))
	}
	if resp.SessionCount != 1 || resp.PathCount != 1 {
		t.Errorf("counts = (%d, %d), want (1, 1)", resp.PathCount, resp.SessionCount)
	}
	if resp.Score.Device != "desktop" {
		t.Errorf("score device = %s, want desktop for the all segment", resp.Score.Device)
	}
	if resp.TimeRange.To <= resp.TimeRange.From {
		t.Error("time range should span a positive window")
	}
}

func TestVitalsHTTPHandler_SummaryEmpty(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/vitals/summary", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 for empty data", rec.Code)
	}

	var resp summaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Score.Overall != 0 {
		t.Errorf("overall = %d, want 0", resp.Score.Overall)
	}
	if len(resp.Vitals) != 5 {
		t.Errorf("vitals entries = %d, want all 5 metrics present", len(resp.Vitals))
	}
}

func TestVitalsHTTPHandler_Pages(t *testing.T) {
	handler := newTestHandler(t)

	for _, body := range []string{
		`{"sessionId": "s1", "path": "/a", "metrics": [{"name": "LCP", "value": 500}]}`,
		`{"sessionId": "s2", "path": "/b", "metrics": [{"name": "LCP", "value": 4000}]}`,
	} {
		if rec := postBatch(t, handler, body); rec.Code != http.StatusAccepted {
			t.Fatalf("seed batch failed: %d", rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/vitals/pages?limit=1&sortBy=score&sortOrder=asc", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}

	var resp pagesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Total != 2 {
		t.Errorf("total = %d, want 2", resp.Total)
	}
	if len(resp.Pages) != 1 || !resp.HasMore {
		t.Fatalf("pages = %d, hasMore = %v; want one page with more", len(resp.Pages), resp.HasMore)
	}
	if resp.Pages[0].Path != "/b" {
		t.Errorf("first page = %s, want /b with the lowest score", resp.Pages[0].Path)
	}
	if resp.Pages[0].Loads != 1 {
		t.Errorf("loads = %d, want 1", resp.Pages[0].Loads)
	}
}

func TestVitalsHTTPHandler_MethodNotAllowed(t *testing.T) {
	handler := newTestHandler(t)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/vitals"},
		{http.MethodDelete, "/vitals/summary"},
		{http.MethodPost, "/vitals/pages"},
		{http.MethodGet, "/vitals/unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != http.StatusMethodNotAllowed {
				t.Errorf("status = %d, want 405", rec.Code)
			}
		})
	}
}
