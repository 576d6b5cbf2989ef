package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/pronunciation-mirror/internal/mocks"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

func TestReady_AllHealthy(t *testing.T) {
	service := NewService(&Config{
		Version:       "test",
		Tool:          &mocks.MockAlignmentTool{},
		WorkspaceRoot: t.TempDir(),
	}, newTestLogger())

	resp := service.Ready(context.Background())

	if !resp.Ready {
		t.Errorf("expected ready, got %+v", resp.Checks)
	}
	if len(resp.Checks) != 2 {
		t.Errorf("expected 2 checks, got %d", len(resp.Checks))
	}
}

func TestReady_AlignerMissing(t *testing.T) {
	tool := &mocks.MockAlignmentTool{
		CheckFunc: func(ctx context.Context) error {
			return errors.New(`mfa: binary "mfa" not found`)
		},
	}
	service := NewService(&Config{Tool: tool, WorkspaceRoot: t.TempDir()}, newTestLogger())

	resp := service.Ready(context.Background())

	if resp.Ready {
		t.Error("expected not ready when the aligner is missing")
	}
	if resp.Checks["aligner"].Status != StatusUnhealthy {
		t.Errorf("expected aligner unhealthy, got %s", resp.Checks["aligner"].Status)
	}
	if resp.Checks["workspace"].Status != StatusHealthy {
		t.Errorf("expected workspace healthy, got %s", resp.Checks["workspace"].Status)
	}
}

func TestReady_WorkspaceNotWritable(t *testing.T) {
	service := NewService(&Config{
		Tool:          &mocks.MockAlignmentTool{},
		WorkspaceRoot: filepath.Join(t.TempDir(), "does-not-exist"),
	}, newTestLogger())

	resp := service.Ready(context.Background())

	if resp.Ready {
		t.Error("expected not ready when workspace root is missing")
	}
	if resp.Checks["workspace"].Status != StatusUnhealthy {
		t.Errorf("expected workspace unhealthy, got %s", resp.Checks["workspace"].Status)
	}
}

func TestFiberHandler_Routes(t *testing.T) {
	tool := &mocks.MockAlignmentTool{
		CheckFunc: func(ctx context.Context) error { return errors.New("missing") },
	}
	service := NewService(&Config{Version: "v1.2.3", Tool: tool, WorkspaceRoot: t.TempDir()}, newTestLogger())

	app := fiber.New()
	NewFiberHandler(service).RegisterRoutes(app)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
	var health HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if health.Version != "v1.2.3" {
		t.Errorf("Expected version 'v1.2.3', got '%s'", health.Version)
	}

	req = httptest.NewRequest(http.MethodGet, "/ready", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", resp.StatusCode)
	}
}
