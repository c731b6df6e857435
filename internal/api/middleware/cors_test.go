package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"github.com/openseat/server/internal/config"
)

func TestCORS_AllowAllEchoesOrigin(t *testing.T) {
	handler := CORS(config.CORSConfig{AllowAllOrigins: true}, zerolog.Nop())(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/event", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if got := res.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("expected origin echoed, got %q", got)
	}
}

func TestCORS_WhitelistRejectsUnknownOrigin(t *testing.T) {
	cfg := config.CORSConfig{AllowedOrigins: []string{"https://app.example.edu"}}
	handler := CORS(cfg, zerolog.Nop())(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/event", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if got := res.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no CORS headers, got %q", got)
	}
}

func TestCORS_WhitelistMatchIsCaseInsensitive(t *testing.T) {
	cfg := config.CORSConfig{AllowedOrigins: []string{"https://App.Example.EDU"}}
	handler := CORS(cfg, zerolog.Nop())(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/event", nil)
	req.Header.Set("Origin", "https://app.example.edu")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if got := res.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.edu" {
		t.Fatalf("expected origin allowed, got %q", got)
	}
}

func TestCORS_PreflightReturnsNoContent(t *testing.T) {
	handler := CORS(config.CORSConfig{AllowAllOrigins: true}, zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("preflight must not reach handler")
	}))

	req := httptest.NewRequest(http.MethodOptions, "/register", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", res.Code)
	}
}

func TestCORS_NoOriginPassesThrough(t *testing.T) {
	handler := CORS(config.CORSConfig{AllowAllOrigins: true}, zerolog.Nop())(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/event", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if got := res.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no CORS headers for same-origin, got %q", got)
	}
}
