package mocks

import (
	"context"
	"sync"

	"github.com/seu-repo/pronunciation-mirror/internal/domain"
	"github.com/seu-repo/pronunciation-mirror/internal/ports"
)

// ToolCall records the arguments of one AlignmentTool.Run invocation.
type ToolCall struct {
	InputDir      string
	Dictionary    string
	AcousticModel string
	OutputDir     string
}

// MockAlignmentTool is a mock implementation of AlignmentTool interface
type MockAlignmentTool struct {
	RunFunc   func(ctx context.Context, inputDir, dictionary, acousticModel, outputDir string) (*ports.ToolResult, error)
	CheckFunc func(ctx context.Context) error

	mu    sync.Mutex
	Calls []ToolCall
}

func (m *MockAlignmentTool) Run(ctx context.Context, inputDir, dictionary, acousticModel, outputDir string) (*ports.ToolResult, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, ToolCall{
		InputDir:      inputDir,
		Dictionary:    dictionary,
		AcousticModel: acousticModel,
		OutputDir:     outputDir,
	})
	m.mu.Unlock()

	if m.RunFunc != nil {
		return m.RunFunc(ctx, inputDir, dictionary, acousticModel, outputDir)
	}
	return &ports.ToolResult{}, nil
}

func (m *MockAlignmentTool) Check(ctx context.Context) error {
	if m.CheckFunc != nil {
		return m.CheckFunc(ctx)
	}
	return nil
}

// LastCall returns the most recent Run arguments.
func (m *MockAlignmentTool) LastCall() (ToolCall, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Calls) == 0 {
		return ToolCall{}, false
	}
	return m.Calls[len(m.Calls)-1], true
}

// MockAnnotationParser is a mock implementation of AnnotationParser interface
type MockAnnotationParser struct {
	ParseFunc func(path string) ([]domain.Tier, error)
}

func (m *MockAnnotationParser) Parse(path string) ([]domain.Tier, error) {
	if m.ParseFunc != nil {
		return m.ParseFunc(path)
	}
	return []domain.Tier{}, nil
}

// MockAlignmentService is a mock implementation of AlignmentService interface
type MockAlignmentService struct {
	AlignFunc func(ctx context.Context, req *domain.AlignmentRequest) (*domain.AlignmentResult, error)
}

func (m *MockAlignmentService) Align(ctx context.Context, req *domain.AlignmentRequest) (*domain.AlignmentResult, error) {
	if m.AlignFunc != nil {
		return m.AlignFunc(ctx, req)
	}
	return domain.NewAlignmentResult(), nil
}
