package ports

import (
	"context"

	"github.com/seu-repo/pronunciation-mirror/internal/domain"
)

// ToolResult is the outcome of one aligner process that ran to completion.
type ToolResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// AlignmentTool runs the external forced aligner over a staged directory.
// A non-zero exit is reported through ToolResult; the error return is
// reserved for failures to run the tool at all.
type AlignmentTool interface {
	Run(ctx context.Context, inputDir, dictionary, acousticModel, outputDir string) (*ToolResult, error)
	Check(ctx context.Context) error
}

// AnnotationParser reads an aligner output file into its tiers.
type AnnotationParser interface {
	Parse(path string) ([]domain.Tier, error)
}

type AlignmentService interface {
	Align(ctx context.Context, req *domain.AlignmentRequest) (*domain.AlignmentResult, error)
}
