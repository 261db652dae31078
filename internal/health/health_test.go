package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"bouncely/pkg/client"
	"bouncely/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

func serveReady(checks map[string]Check) (*httptest.ResponseRecorder, HealthResponse) {
	router := httprouter.New()
	NewHealthHandler(checks, logger.Discard()).RegisterRoutes(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	var resp HealthResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	return rec, resp
}

func TestReady_AllHealthy(t *testing.T) {
	ok := func(context.Context) error { return nil }
	rec, resp := serveReady(map[string]Check{"mongo": ok, "redis": ok})

	if rec.Code != http.StatusOK || resp.Status != "ready" {
		t.Fatalf("status = %d %q", rec.Code, resp.Status)
	}
	if resp.Checks["mongo"] != "ok" || resp.Checks["redis"] != "ok" {
		t.Errorf("checks = %v", resp.Checks)
	}
}

func TestReady_OneFailing(t *testing.T) {
	rec, resp := serveReady(map[string]Check{
		"mongo":    func(context.Context) error { return nil },
		"postgres": func(context.Context) error { return errors.New("connection refused") },
	})

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if resp.Checks["postgres"] != "error" || resp.Checks["mongo"] != "ok" {
		t.Errorf("checks = %v", resp.Checks)
	}
}

func TestHealth(t *testing.T) {
	router := httprouter.New()
	NewHealthHandler(nil, logger.Discard()).RegisterRoutes(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestChecksFor_SkipsUnsetConnections(t *testing.T) {
	if checks := ChecksFor(client.NewClient()); len(checks) != 0 {
		t.Errorf("checks = %v, want none", checks)
	}
}
