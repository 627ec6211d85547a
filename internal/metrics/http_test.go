package metrics

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func scrape(t *testing.T, m *ServerMetrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(body)
}

func TestMiddleware_RecordsStatus(t *testing.T) {
	m := NewServerMetrics("test")
	handler := m.Middleware("test", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}), "/upload", "/missing")

	for _, path := range []string{"/upload", "/upload", "/missing"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, nil))
	}

	out := scrape(t, m)
	wants := []string{
		`transformo_http_requests_total{method="POST",path="/upload",service="test",status="200"} 2`,
		`transformo_http_requests_total{method="POST",path="/missing",service="test",status="404"} 1`,
		`transformo_http_in_flight_requests{service="test"} 0`,
		`transformo_http_request_duration_seconds_count{method="POST",path="/upload",service="test"} 2`,
	}
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("Expected metrics to contain %q\n%s", want, out)
		}
	}
}

func TestRecordExtraction(t *testing.T) {
	m := NewServerMetrics("test")
	m.RecordExtraction("test", "pdf", "", 2048, 10*time.Millisecond)
	m.RecordExtraction("test", "", "error", 0, time.Millisecond)

	out := scrape(t, m)
	wants := []string{
		`transformo_extract_documents_total{format="pdf",outcome="ok",service="test"} 1`,
		`transformo_extract_documents_total{format="unknown",outcome="error",service="test"} 1`,
		`transformo_extract_upload_bytes_count{service="test"} 1`,
	}
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("Expected metrics to contain %q\n%s", want, out)
		}
	}
}

func TestMiddleware_UnknownPathsShareOneLabel(t *testing.T) {
	m := NewServerMetrics("test")
	handler := m.Middleware("test", http.NotFoundHandler(), "/upload")

	for i := 0; i < 50; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/scan-%d", i), nil))
	}

	out := scrape(t, m)
	if strings.Contains(out, `path="/scan-`) {
		t.Errorf("Expected unknown paths to be collapsed\n%s", out)
	}
	want := `transformo_http_requests_total{method="GET",path="other",service="test",status="404"} 50`
	if !strings.Contains(out, want) {
		t.Errorf("Expected metrics to contain %q\n%s", want, out)
	}
}
