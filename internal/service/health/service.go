package health

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/pronunciation-mirror/internal/ports"
)

// Status represents the health status
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusDegraded  Status = "degraded"
)

// CheckResult represents the result of a health check
type CheckResult struct {
	Name      string        `json:"name"`
	Status    Status        `json:"status"`
	Message   string        `json:"message,omitempty"`
	Duration  time.Duration `json:"duration_ms"`
	Timestamp time.Time     `json:"timestamp"`
}

// HealthResponse represents the overall health response
type HealthResponse struct {
	Status    Status    `json:"status"`
	Version   string    `json:"version,omitempty"`
	Uptime    string    `json:"uptime,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ReadyResponse represents the readiness response
type ReadyResponse struct {
	Ready     bool                   `json:"ready"`
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks"`
}

// Checker defines a health check function
type Checker func(ctx context.Context) CheckResult

// Service handles health checks
type Service struct {
	tool          ports.AlignmentTool
	workspaceRoot string
	startTime     time.Time
	version       string
	checkers      map[string]Checker
	log           *zap.Logger
	mu            sync.RWMutex
}

// Config holds health service configuration
type Config struct {
	Version       string
	Tool          ports.AlignmentTool
	WorkspaceRoot string
}

// NewService creates a new health service
func NewService(config *Config, log *zap.Logger) *Service {
	s := &Service{
		tool:          config.Tool,
		workspaceRoot: config.WorkspaceRoot,
		startTime:     time.Now(),
		version:       config.Version,
		checkers:      make(map[string]Checker),
		log:           log,
	}

	if config.Tool != nil {
		s.RegisterChecker("aligner", s.checkAligner)
	}
	s.RegisterChecker("workspace", s.checkWorkspace)

	return s
}

// RegisterChecker registers a custom health checker
func (s *Service) RegisterChecker(name string, checker Checker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkers[name] = checker
	s.log.Info("Registered health checker", zap.String("name", name))
}

// Health performs a basic liveness check
func (s *Service) Health(ctx context.Context) *HealthResponse {
	return &HealthResponse{
		Status:    StatusHealthy,
		Version:   s.version,
		Uptime:    time.Since(s.startTime).String(),
		Timestamp: time.Now(),
	}
}

// Ready performs a comprehensive readiness check
func (s *Service) Ready(ctx context.Context) *ReadyResponse {
	s.mu.RLock()
	checkers := make(map[string]Checker, len(s.checkers))
	for k, v := range s.checkers {
		checkers[k] = v
	}
	s.mu.RUnlock()

	// Run all checks concurrently
	results := make(map[string]CheckResult)
	var wg sync.WaitGroup
	var mu sync.Mutex

	for name, checker := range checkers {
		wg.Add(1)
		go func(name string, checker Checker) {
			defer wg.Done()

			checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()

			result := checker(checkCtx)

			mu.Lock()
			results[name] = result
			mu.Unlock()
		}(name, checker)
	}

	wg.Wait()

	overallStatus := StatusHealthy
	allReady := true

	for _, result := range results {
		if result.Status == StatusUnhealthy {
			overallStatus = StatusUnhealthy
			allReady = false
		} else if result.Status == StatusDegraded && overallStatus != StatusUnhealthy {
			overallStatus = StatusDegraded
		}
	}

	return &ReadyResponse{
		Ready:     allReady,
		Status:    overallStatus,
		Timestamp: time.Now(),
		Checks:    results,
	}
}

// checkAligner verifies the aligner binary can be found
func (s *Service) checkAligner(ctx context.Context) CheckResult {
	start := time.Now()
	result := CheckResult{
		Name:      "aligner",
		Timestamp: time.Now(),
	}

	err := s.tool.Check(ctx)
	result.Duration = time.Since(start)

	if err != nil {
		result.Status = StatusUnhealthy
		result.Message = err.Error()
		s.log.Warn("Aligner health check failed", zap.Error(err))
	} else {
		result.Status = StatusHealthy
		result.Message = "binary available"
	}

	return result
}

// checkWorkspace verifies that per-request workspaces can be created
func (s *Service) checkWorkspace(ctx context.Context) CheckResult {
	start := time.Now()
	result := CheckResult{
		Name:      "workspace",
		Timestamp: time.Now(),
	}

	dir, err := os.MkdirTemp(s.workspaceRoot, "health-")
	if err == nil {
		err = os.Remove(dir)
	}
	result.Duration = time.Since(start)

	if err != nil {
		result.Status = StatusUnhealthy
		result.Message = fmt.Sprintf("workspace root not writable: %v", err)
		s.log.Warn("Workspace health check failed", zap.Error(err))
	} else {
		result.Status = StatusHealthy
		result.Message = "writable"
	}

	return result
}
