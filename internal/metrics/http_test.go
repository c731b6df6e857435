package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestHTTPMiddleware_RecordsStatus(t *testing.T) {
	handler := HTTPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/register", "409"))

	req := httptest.NewRequest(http.MethodPost, "/register", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/register", "409"))
	if after != before+1 {
		t.Fatalf("expected counter to increment, got %v -> %v", before, after)
	}
}

func TestHTTPMiddleware_DefaultsTo200OnImplicitWrite(t *testing.T) {
	handler := HTTPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/event", "200"))

	req := httptest.NewRequest(http.MethodGet, "/event", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	after := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/event", "200"))
	if after != before+1 {
		t.Fatalf("expected counter to increment, got %v -> %v", before, after)
	}
}
