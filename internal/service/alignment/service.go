package alignment

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/seu-repo/pronunciation-mirror/internal/domain"
	"github.com/seu-repo/pronunciation-mirror/internal/observability/telemetry"
	"github.com/seu-repo/pronunciation-mirror/internal/ports"
	"github.com/seu-repo/pronunciation-mirror/pkg/config"
)

const tracerName = "github.com/seu-repo/pronunciation-mirror/internal/service/alignment"

// Service stages a request, runs the aligner over it and parses the result.
type Service struct {
	tool            ports.AlignmentTool
	parser          ports.AnnotationParser
	workspaceRoot   string
	defaultLanguage string
	allowed         map[string]struct{}
	tracer          trace.Tracer
	log             *zap.Logger
}

var _ ports.AlignmentService = (*Service)(nil)

func NewService(tool ports.AlignmentTool, parser ports.AnnotationParser, cfg config.AlignerConfig, log *zap.Logger) *Service {
	s := &Service{
		tool:            tool,
		parser:          parser,
		workspaceRoot:   cfg.WorkspaceRoot,
		defaultLanguage: normalizeLanguage(cfg.DefaultLanguage, DefaultLanguage),
		tracer:          otel.Tracer(tracerName),
		log:             log,
	}

	if len(cfg.AllowedLanguages) > 0 {
		s.allowed = make(map[string]struct{}, len(cfg.AllowedLanguages))
		for _, lang := range cfg.AllowedLanguages {
			s.allowed[normalizeLanguage(lang, "")] = struct{}{}
		}
	}

	return s
}

// Profile resolves a request's language tag, applying the configured default.
func (s *Service) Profile(tag string) domain.LanguageProfile {
	return ResolveLanguage(normalizeLanguage(tag, s.defaultLanguage))
}

// Align runs the full pipeline for one request. Handled failures are
// returned as *domain.AlignmentError. The workspace is removed on every path.
func (s *Service) Align(ctx context.Context, req *domain.AlignmentRequest) (result *domain.AlignmentResult, err error) {
	start := time.Now()

	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}
	profile := s.Profile(req.Language)

	log := s.log.With(
		zap.String("request_id", requestID),
		zap.String("language", profile.Language),
		zap.String("dictionary", profile.Dictionary),
		zap.String("acoustic_model", profile.AcousticModel),
	)

	ctx, span := s.tracer.Start(ctx, "alignment.Align", trace.WithAttributes(
		attribute.String("alignment.request_id", requestID),
		attribute.String("alignment.language", profile.Language),
		attribute.String("alignment.dictionary", profile.Dictionary),
		attribute.String("alignment.acoustic_model", profile.AcousticModel),
	))

	defer func() {
		elapsed := time.Since(start)
		status := statusLabel(err)
		telemetry.AlignRequestsTotal.WithLabelValues(profile.Language, status).Inc()
		telemetry.AlignDuration.Observe(elapsed.Seconds())

		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, status)
			log.Warn("Alignment failed", zap.Error(err), zap.Duration("duration", elapsed))
		} else {
			telemetry.BoundariesTotal.WithLabelValues("word").Add(float64(len(result.Words)))
			telemetry.BoundariesTotal.WithLabelValues("phone").Add(float64(len(result.Phones)))
			log.Info("Alignment completed",
				zap.Int("words", len(result.Words)),
				zap.Int("phones", len(result.Phones)),
				zap.Duration("duration", elapsed),
			)
		}
		span.End()
	}()

	if !s.languageAllowed(profile.Language) {
		return nil, &domain.AlignmentError{
			Kind:     domain.ErrorKindUnsupportedLanguage,
			Language: profile.Language,
		}
	}

	ws, err := s.stage(ctx, req, log)
	if err != nil {
		return nil, err
	}
	defer closeWorkspace(ws, log)

	if err := s.runTool(ctx, ws, profile, log); err != nil {
		return nil, err
	}

	return s.parse(ctx, ws)
}

func (s *Service) stage(ctx context.Context, req *domain.AlignmentRequest, log *zap.Logger) (*Workspace, error) {
	_, span := s.tracer.Start(ctx, "alignment.stage")
	defer span.End()

	ws, err := NewWorkspace(s.workspaceRoot, req.AudioFilename)
	if err != nil {
		return nil, err
	}

	if err := ws.WriteAudio(req.Audio); err != nil {
		closeWorkspace(ws, log)
		return nil, err
	}
	if err := ws.WriteTranscript(req.Transcript); err != nil {
		closeWorkspace(ws, log)
		return nil, err
	}

	span.SetAttributes(
		attribute.String("workspace.dir", ws.Dir),
		attribute.String("workspace.audio", ws.AudioName),
		attribute.Int("workspace.audio_bytes", len(req.Audio)),
	)
	return ws, nil
}

func (s *Service) runTool(ctx context.Context, ws *Workspace, profile domain.LanguageProfile, log *zap.Logger) error {
	ctx, span := s.tracer.Start(ctx, "alignment.run_tool")
	defer span.End()

	res, err := s.tool.Run(ctx, ws.Dir, profile.Dictionary, profile.AcousticModel, ws.OutputDir)
	if err != nil {
		stderr := err.Error()
		if res != nil && res.Stderr != "" {
			stderr = res.Stderr
		}
		return &domain.AlignmentError{Kind: domain.ErrorKindToolFailed, Stderr: stderr, Err: err}
	}
	if res == nil {
		res = &ports.ToolResult{}
	}

	span.SetAttributes(attribute.Int("process.exit_code", res.ExitCode))
	if res.ExitCode != 0 {
		log.Warn("Aligner exited with error",
			zap.Int("exit_code", res.ExitCode),
			zap.String("stderr", res.Stderr),
		)
		return &domain.AlignmentError{
			Kind:   domain.ErrorKindToolFailed,
			Stderr: res.Stderr,
			Err:    fmt.Errorf("exit status %d", res.ExitCode),
		}
	}

	return nil
}

func (s *Service) parse(ctx context.Context, ws *Workspace) (*domain.AlignmentResult, error) {
	_, span := s.tracer.Start(ctx, "alignment.parse")
	defer span.End()

	path := ws.OutputPath()
	if _, err := os.Stat(path); err != nil {
		return nil, &domain.AlignmentError{Kind: domain.ErrorKindNoOutput, Err: err}
	}

	tiers, err := s.parser.Parse(path)
	if err != nil {
		return nil, &domain.AlignmentError{Kind: domain.ErrorKindParseFailed, Err: err}
	}

	return ExtractBoundaries(tiers), nil
}

func closeWorkspace(ws *Workspace, log *zap.Logger) {
	dir := ws.Dir
	if err := ws.Close(); err != nil {
		log.Error("Failed to remove workspace", zap.String("dir", dir), zap.Error(err))
	}
}

func (s *Service) languageAllowed(lang string) bool {
	if s.allowed == nil {
		return true
	}
	_, ok := s.allowed[lang]
	return ok
}

func statusLabel(err error) string {
	if err == nil {
		return "success"
	}
	var alignErr *domain.AlignmentError
	if errors.As(err, &alignErr) {
		return strings.ReplaceAll(string(alignErr.Kind), " ", "_")
	}
	return "error"
}
