package alignment

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/seu-repo/pronunciation-mirror/internal/observability/telemetry"
)

const (
	// The aligner pairs "<base>.lab" with "<base>.<audio ext>" in the same directory.
	transcriptExt    = ".lab"
	outputExt        = ".TextGrid"
	outputDirName    = "aligned"
	fallbackFilename = "audio.wav"
)

// Workspace is a per-request temporary directory holding the aligner's
// input pair and output directory. Close removes all of it.
type Workspace struct {
	Dir       string
	OutputDir string
	AudioName string
	Base      string
}

// NewWorkspace creates a fresh directory under root (os.TempDir() when
// empty). The directory name never includes client input. The caller must
// Close it.
func NewWorkspace(root, audioFilename string) (*Workspace, error) {
	dir, err := os.MkdirTemp(root, "align-"+uuid.NewString()+"-")
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}
	telemetry.WorkspacesActive.Inc()

	ws := &Workspace{
		Dir:       dir,
		OutputDir: filepath.Join(dir, outputDirName),
		AudioName: sanitizeFilename(audioFilename),
	}
	if ws.AudioName == outputDirName {
		ws.AudioName += ".wav"
	}
	ws.Base = strings.TrimSuffix(ws.AudioName, filepath.Ext(ws.AudioName))

	if err := os.Mkdir(ws.OutputDir, 0o755); err != nil {
		ws.Close()
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	return ws, nil
}

func (w *Workspace) AudioPath() string {
	return filepath.Join(w.Dir, w.AudioName)
}

func (w *Workspace) TranscriptPath() string {
	return filepath.Join(w.Dir, w.Base+transcriptExt)
}

// OutputPath is where the aligner writes the annotation for the staged pair.
func (w *Workspace) OutputPath() string {
	return filepath.Join(w.OutputDir, w.Base+outputExt)
}

func (w *Workspace) WriteAudio(data []byte) error {
	if err := os.WriteFile(w.AudioPath(), data, 0o644); err != nil {
		return fmt.Errorf("failed to write audio: %w", err)
	}
	return nil
}

// WriteTranscript stores the transcript with surrounding whitespace removed.
func (w *Workspace) WriteTranscript(text string) error {
	if err := os.WriteFile(w.TranscriptPath(), []byte(strings.TrimSpace(text)), 0o644); err != nil {
		return fmt.Errorf("failed to write transcript: %w", err)
	}
	return nil
}

// Close removes the workspace tree. It is safe to call more than once.
func (w *Workspace) Close() error {
	if w.Dir == "" {
		return nil
	}
	err := os.RemoveAll(w.Dir)
	w.Dir = ""
	telemetry.WorkspacesActive.Dec()
	return err
}

// sanitizeFilename keeps only the last path element of a client-supplied
// name so uploads cannot escape the workspace.
func sanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(name)
	switch name {
	case "", ".", "..", "/":
		return fallbackFilename
	}
	if strings.TrimSuffix(name, filepath.Ext(name)) == "" {
		// ".wav" would pair with ".lab", which the aligner ignores as a hidden file
		return "audio" + name
	}
	return name
}
