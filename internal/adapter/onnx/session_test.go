package onnx

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"imgsim/internal/domain"
)

func TestResolveModelPath_Direct(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.onnx")
	if err := os.WriteFile(path, []byte("model bytes"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := ResolveModelPath(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != path {
		t.Errorf("expected %s, got %s", path, got)
	}
}

func TestResolveModelPath_NotFound(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "models", "missing.onnx")

	_, err := ResolveModelPath(missing)
	if err == nil {
		t.Fatal("expected error for missing model")
	}

	var notFound *domain.ModelNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ModelNotFoundError, got %T: %v", err, err)
	}
	if notFound.Path != missing {
		t.Errorf("expected primary path %s, got %s", missing, notFound.Path)
	}
	if notFound.Fallback == "" {
		t.Error("expected a fallback candidate to be reported")
	}
}
