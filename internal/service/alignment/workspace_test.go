package alignment

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"clip.wav":             "clip.wav",
		"my take.mp3":          "my take.mp3",
		"../secret/clip.flac":  "clip.flac",
		`C:\Users\me\clip.wav`: "clip.wav",
		"":                     "audio.wav",
		"..":                   "audio.wav",
		"/":                    "audio.wav",
		".wav":                 "audio.wav",
		"recording.v2.wav":     "recording.v2.wav",
	}

	for in, want := range tests {
		if got := sanitizeFilename(in); got != want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWorkspace_Layout(t *testing.T) {
	root := t.TempDir()
	ws, err := NewWorkspace(root, "recording.v2.wav")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer ws.Close()

	if filepath.Dir(ws.Dir) != root {
		t.Errorf("expected workspace under %s, got %s", root, ws.Dir)
	}
	if ws.Base != "recording.v2" {
		t.Errorf("expected base 'recording.v2', got %q", ws.Base)
	}
	if ws.TranscriptPath() != filepath.Join(ws.Dir, "recording.v2.lab") {
		t.Errorf("unexpected transcript path %s", ws.TranscriptPath())
	}
	if ws.OutputPath() != filepath.Join(ws.Dir, "aligned", "recording.v2.TextGrid") {
		t.Errorf("unexpected output path %s", ws.OutputPath())
	}
	if info, err := os.Stat(ws.OutputDir); err != nil || !info.IsDir() {
		t.Errorf("expected output directory to exist: %v", err)
	}
}

func TestWorkspace_AudioNamedLikeOutputDir(t *testing.T) {
	ws, err := NewWorkspace(t.TempDir(), "aligned")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer ws.Close()

	if err := ws.WriteAudio([]byte("x")); err != nil {
		t.Errorf("expected audio write to succeed, got %v", err)
	}
}

func TestWorkspace_CloseRemovesTree(t *testing.T) {
	root := t.TempDir()
	ws, err := NewWorkspace(root, "clip.wav")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := ws.WriteAudio([]byte("data")); err != nil {
		t.Fatal(err)
	}
	if err := ws.WriteTranscript("hej"); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(ws.OutputPath(), []byte("grid"), 0o644); err != nil {
		t.Fatal(err)
	}
	dir := ws.Dir

	if err := ws.Close(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("expected %s to be removed, stat err = %v", dir, err)
	}
	if err := ws.Close(); err != nil {
		t.Errorf("expected second Close to be a no-op, got %v", err)
	}
}

func TestNewWorkspace_BadRoot(t *testing.T) {
	if _, err := NewWorkspace(filepath.Join(t.TempDir(), "missing", "deeper"), "clip.wav"); err == nil {
		t.Error("expected error for nonexistent workspace root")
	}
}
