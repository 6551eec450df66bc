package server

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v3"

	"rankdash/internal/catalog"
	"rankdash/internal/config"
	"rankdash/internal/ctr"
	"rankdash/internal/handlers/api"
	"rankdash/internal/middleware"
	"rankdash/internal/models"
	"rankdash/internal/revenue"
	"rankdash/internal/testutil"
)

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()

	cat := catalog.New(catalog.Static(models.DefaultCategories))
	srv := New(cfg)
	srv.RegisterRoutes(Deps{
		Store: testutil.NewMemStore(),
		Estimates: &api.Estimates{
			Estimator: revenue.NewEstimator(ctr.Default),
			Catalog:   cat,
			Defaults:  revenue.Params{AvgJobValue: 250, ConversionRate: 0.005, TargetRank: 3},
		},
		Catalog: cat,
		Auth:    middleware.NewAuthMiddleware(false, middleware.StaticToken("secret")),
	})
	return srv
}

func testConfig() *config.Config {
	return &config.Config{
		Env:          "test",
		MaxUploadMB:  1,
		CORSOrigins:  "http://localhost:5173",
		RateLimitMax: 100,
	}
}

func TestRoutes_AuthRequired(t *testing.T) {
	srv := newTestServer(t, testConfig())

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		wantStatus int
	}{
		{"health is public", "GET", "/health", "", http.StatusOK},
		{"metrics is public", "GET", "/metrics", "", http.StatusOK},
		{"liveness is public", "GET", "/healthz", "", http.StatusOK},
		{"readiness is public", "GET", "/readyz", "", http.StatusOK},
		{"keywords without token", "GET", "/keywords", "", http.StatusUnauthorized},
		{"keywords with wrong token", "GET", "/keywords", "nope", http.StatusUnauthorized},
		{"keywords with token", "GET", "/keywords", "secret", http.StatusOK},
		{"categories with token", "GET", "/categories", "secret", http.StatusOK},
		{"reset without token", "DELETE", "/reset", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(tt.method, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			resp, err := srv.App.Test(req)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != tt.wantStatus {
				body, _ := io.ReadAll(resp.Body)
				t.Errorf("status = %d, want %d: %s", resp.StatusCode, tt.wantStatus, body)
			}
		})
	}
}

func TestErrorHandler_UnknownRouteIsJSON(t *testing.T) {
	srv := newTestServer(t, testConfig())

	req, _ := http.NewRequest("GET", "/does-not-exist", nil)
	resp, err := srv.App.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}

	var body struct {
		Status string `json:"status"`
		Error  string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "error" || body.Error == "" {
		t.Errorf("body = %+v, want error envelope", body)
	}
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitMax = 2
	srv := newTestServer(t, cfg)

	var last int
	for i := 0; i < 3; i++ {
		req, _ := http.NewRequest("GET", "/health", nil)
		resp, err := srv.App.Test(req)
		if err != nil {
			t.Fatalf("request %d failed: %v", i+1, err)
		}
		last = resp.StatusCode
	}
	if last != fiber.StatusTooManyRequests {
		t.Errorf("third request status = %d, want 429", last)
	}
}

func TestCORS_Preflight(t *testing.T) {
	srv := newTestServer(t, testConfig())

	req, _ := http.NewRequest("OPTIONS", "/keywords", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp, err := srv.App.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}

	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestBuildTLSConfig(t *testing.T) {
	tc, err := buildTLSConfig(&config.Config{})
	if err != nil {
		t.Fatalf("buildTLSConfig() error = %v", err)
	}
	if tc.ClientCAs != nil {
		t.Error("expected no client CA pool without TLS_CA_FILE")
	}

	if _, err := buildTLSConfig(&config.Config{TLSCAFile: "/nonexistent/ca.pem"}); err == nil {
		t.Error("expected error for missing CA file")
	}

	if _, err := buildTLSConfig(&config.Config{TLSCAFile: writeTemp(t, "not a pem")}); err == nil {
		t.Error("expected error for invalid CA file")
	}
}

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ca.pem")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}
