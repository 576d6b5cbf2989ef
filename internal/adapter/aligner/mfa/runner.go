// Package mfa invokes the Montreal Forced Aligner command line tool.
package mfa

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/seu-repo/pronunciation-mirror/internal/observability/telemetry"
	"github.com/seu-repo/pronunciation-mirror/internal/ports"
	"github.com/seu-repo/pronunciation-mirror/pkg/config"
)

const defaultTimeout = 10 * time.Minute

// ErrTimeout is returned when the aligner does not finish within the configured timeout.
var ErrTimeout = errors.New("mfa: alignment timed out")

// Runner shells out to `mfa align` once per call.
type Runner struct {
	binary    string
	extraArgs []string
	timeout   time.Duration
	cb        *gobreaker.CircuitBreaker
	log       *zap.Logger
}

var _ ports.AlignmentTool = (*Runner)(nil)

func NewRunner(cfg config.AlignerConfig, log *zap.Logger) *Runner {
	r := &Runner{
		binary:    cfg.Binary,
		extraArgs: cfg.ExtraArgs,
		timeout:   cfg.Timeout,
		log:       log,
	}
	if r.binary == "" {
		r.binary = "mfa"
	}
	if r.timeout <= 0 {
		r.timeout = defaultTimeout
	}

	if cfg.CircuitBreaker.Enabled {
		threshold := cfg.CircuitBreaker.FailureThreshold
		if threshold == 0 {
			threshold = 3
		}
		r.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "mfa-aligner",
			MaxRequests: cfg.CircuitBreaker.MaxRequests,
			Interval:    cfg.CircuitBreaker.Interval,
			Timeout:     cfg.CircuitBreaker.Timeout,
			// Only launch failures and timeouts count; a non-zero exit is a normal answer.
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				log.Warn("Circuit breaker state changed",
					zap.String("name", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()),
				)
			},
		})
	}

	return r
}

// Args builds the argument vector for one alignment run.
func (r *Runner) Args(inputDir, dictionary, acousticModel, outputDir string) []string {
	args := []string{"align", inputDir, dictionary, acousticModel, outputDir, "--clean"}
	return append(args, r.extraArgs...)
}

// Run executes the aligner and waits for it. A non-zero exit status is
// reported in the result with a nil error.
func (r *Runner) Run(ctx context.Context, inputDir, dictionary, acousticModel, outputDir string) (*ports.ToolResult, error) {
	if r.cb == nil {
		return r.run(ctx, inputDir, dictionary, acousticModel, outputDir)
	}

	var result *ports.ToolResult
	_, err := r.cb.Execute(func() (interface{}, error) {
		var runErr error
		result, runErr = r.run(ctx, inputDir, dictionary, acousticModel, outputDir)
		return nil, runErr
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("mfa: aligner unavailable: %w", err)
	}
	return result, err
}

func (r *Runner) run(ctx context.Context, inputDir, dictionary, acousticModel, outputDir string) (*ports.ToolResult, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	args := r.Args(inputDir, dictionary, acousticModel, outputDir)
	cmd := exec.CommandContext(ctx, r.binary, args...)
	configureProcessGroup(cmd)
	cmd.WaitDelay = 5 * time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.log.Debug("Running aligner", zap.String("binary", r.binary), zap.Strings("args", args))

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	result := &ports.ToolResult{
		ExitCode: cmd.ProcessState.ExitCode(),
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}

	switch {
	case err == nil:
		telemetry.ToolDuration.WithLabelValues("success").Observe(elapsed.Seconds())
		return result, nil
	case ctx.Err() != nil:
		telemetry.ToolDuration.WithLabelValues("timeout").Observe(elapsed.Seconds())
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return result, fmt.Errorf("%w after %s", ErrTimeout, r.timeout)
		}
		return result, fmt.Errorf("mfa: alignment cancelled: %w", ctx.Err())
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		telemetry.ToolDuration.WithLabelValues("failed").Observe(elapsed.Seconds())
		return result, nil
	}

	telemetry.ToolDuration.WithLabelValues("error").Observe(elapsed.Seconds())
	return nil, fmt.Errorf("mfa: failed to start %s: %w", r.binary, err)
}

// Check reports whether the aligner binary can be resolved.
func (r *Runner) Check(ctx context.Context) error {
	if _, err := exec.LookPath(r.binary); err != nil {
		return fmt.Errorf("mfa: binary %q not found: %w", r.binary, err)
	}
	return nil
}
