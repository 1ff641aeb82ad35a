package domain

import (
	"errors"
	"fmt"
)

// ErrNotReady is returned when a query is attempted with no store open.
var ErrNotReady = errors.New("no store open")

// DecodeError indicates that a file could not be decoded as an RGB raster
// image. During bulk indexing it is contained to the offending file; during a
// query it aborts the query.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot decode image %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ModelNotFoundError indicates the model artifact was not found at the
// configured path nor at the fallback relative to the executable.
type ModelNotFoundError struct {
	Path     string
	Fallback string
}

func (e *ModelNotFoundError) Error() string {
	return fmt.Sprintf("model not found at %s or %s", e.Path, e.Fallback)
}

// InferenceError wraps a failure of the underlying model runtime.
type InferenceError struct {
	Err error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("inference failed: %v", e.Err)
}

func (e *InferenceError) Unwrap() error { return e.Err }

// StoreLoadError indicates an existing store file could not be read. Callers
// recover by continuing with a fresh empty store.
type StoreLoadError struct {
	Path string
	Err  error
}

func (e *StoreLoadError) Error() string {
	return fmt.Sprintf("cannot load store %s: %v", e.Path, e.Err)
}

func (e *StoreLoadError) Unwrap() error { return e.Err }

// StoreOperationError wraps an insert, query or save failure. In-memory state
// accumulated before the failure stays intact.
type StoreOperationError struct {
	Op  string
	Err error
}

func (e *StoreOperationError) Error() string {
	return fmt.Sprintf("store %s failed: %v", e.Op, e.Err)
}

func (e *StoreOperationError) Unwrap() error { return e.Err }
