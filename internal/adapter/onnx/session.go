// Package onnx adapts an onnxruntime inference session to the port.Model
// interface. One session is constructed per process and reused for every
// image.
package onnx

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"imgsim/internal/adapter/imageproc"
	"imgsim/internal/domain"
)

// Config describes the model artifact and its graph bindings.
type Config struct {
	ModelPath  string
	InputName  string
	OutputName string
	// LibraryPath optionally points at the onnxruntime shared library; when
	// empty the runtime's platform default is used.
	LibraryPath string
	// Dimension is the length of the flattened model output.
	Dimension int
}

// Session wraps a single onnxruntime session.
type Session struct {
	session    *ort.DynamicAdvancedSession
	inputName  string
	outputName string
	dimension  int
}

var (
	runtimeOnce sync.Once
	runtimeErr  error
)

func initRuntime(libraryPath string) error {
	runtimeOnce.Do(func() {
		if libraryPath != "" {
			ort.SetSharedLibraryPath(libraryPath)
		}
		runtimeErr = ort.InitializeEnvironment()
	})
	return runtimeErr
}

// ResolveModelPath checks the configured path and, failing that, the same
// path relative to the executable's directory. Returns a ModelNotFoundError
// when neither resolves.
func ResolveModelPath(path string) (string, error) {
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	fallback := path
	if exe, err := os.Executable(); err == nil {
		fallback = filepath.Join(filepath.Dir(exe), path)
		if _, err := os.Stat(fallback); err == nil {
			return fallback, nil
		}
	}
	return "", &domain.ModelNotFoundError{Path: path, Fallback: fallback}
}

// NewSession loads the model artifact and constructs the inference session.
func NewSession(cfg Config) (*Session, error) {
	path, err := ResolveModelPath(cfg.ModelPath)
	if err != nil {
		return nil, err
	}

	if err := initRuntime(cfg.LibraryPath); err != nil {
		return nil, fmt.Errorf("failed to initialize onnxruntime: %w", err)
	}

	session, err := ort.NewDynamicAdvancedSession(path,
		[]string{cfg.InputName}, []string{cfg.OutputName}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create session for %s: %w", path, err)
	}

	return &Session{
		session:    session,
		inputName:  cfg.InputName,
		outputName: cfg.OutputName,
		dimension:  cfg.Dimension,
	}, nil
}

// Run executes a single inference pass over one normalized image. Runtime
// failures surface as InferenceError; there is no retry.
func (s *Session) Run(input []float32) ([]float32, error) {
	inShape := ort.NewShape(1, imageproc.Channels, imageproc.CropSize, imageproc.CropSize)
	in, err := ort.NewTensor(inShape, input)
	if err != nil {
		return nil, &domain.InferenceError{Err: err}
	}
	defer in.Destroy()

	out, err := ort.NewEmptyTensor[float32](ort.NewShape(1, int64(s.dimension)))
	if err != nil {
		return nil, &domain.InferenceError{Err: err}
	}
	defer out.Destroy()

	if err := s.session.Run([]ort.Value{in}, []ort.Value{out}); err != nil {
		return nil, &domain.InferenceError{Err: err}
	}

	data := out.GetData()
	embedding := make([]float32, len(data))
	copy(embedding, data)
	return embedding, nil
}

// Dimension returns the configured output vector length.
func (s *Session) Dimension() int {
	return s.dimension
}

// Close releases the underlying session.
func (s *Session) Close() error {
	return s.session.Destroy()
}
