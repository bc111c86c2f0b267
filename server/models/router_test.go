package models

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"latency_optimizer/server/env"
)

func newTestModels(t *testing.T) *Models {
	t.Helper()
	t.Setenv("JWT_SIGNING_KEY", "router-test-key")

	e := &env.ENV{Environment: "test"}
	e.SetDefaults()
	env.E = e

	return NewModels(true)
}

func serve(m *Models, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	m.NewRouter().ServeHTTP(rec, req)
	return rec
}

func TestRouter_OptimizeAndRunHistory(t *testing.T) {
	m := newTestModels(t)

	rec := serve(m, http.MethodPost, "/api/optimize", `{"n":3,"edges":[[0,1],[1,2]]}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	rec = serve(m, http.MethodGet, "/api/runs", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected run history to require a token, got %d", rec.Code)
	}

	token, _, err := m.jwtService.GenerateToken("ops")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	rec = serve(m, http.MethodGet, "/api/runs/1", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			MinDistance  int64 `json:"minDistance"`
			OptimalNodes []int `json:"optimalNodes"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode run: %v", err)
	}
	if !resp.Success || resp.Data.MinDistance != 2 || len(resp.Data.OptimalNodes) != 1 || resp.Data.OptimalNodes[0] != 1 {
		t.Errorf("Unexpected run %+v", resp)
	}
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	m := newTestModels(t)

	rec := serve(m, http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("Unexpected health response %d %s", rec.Code, rec.Body.String())
	}

	serve(m, http.MethodPost, "/api/optimize", `{"n":2,"edges":[[0,0]]}`, "")

	rec = serve(m, http.MethodGet, "/metrics", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status %d, got %d", http.StatusOK, rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`optimizer_requests_total{outcome="rejected",source="api"} 1`,
		`http_server_requests_total{method="POST",path="/api/optimize",status="400"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("Expected %q in metrics output", want)
		}
	}
}
