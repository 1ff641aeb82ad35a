// Package embedding produces fixed-length feature vectors from images.
package embedding

import (
	"fmt"

	"imgsim/internal/domain"
	"imgsim/internal/port"
)

// Extractor turns a normalized tensor into a flat embedding by running the
// wrapped model once. The model is treated as an opaque pure function.
type Extractor struct {
	model port.Model
}

func NewExtractor(model port.Model) *Extractor {
	return &Extractor{model: model}
}

// Extract runs one inference pass and validates the output length.
func (e *Extractor) Extract(t *domain.Tensor) (domain.Embedding, error) {
	out, err := e.model.Run(t.Data)
	if err != nil {
		return nil, err
	}
	if len(out) != e.model.Dimension() {
		return nil, fmt.Errorf("model returned %d values, expected %d", len(out), e.model.Dimension())
	}
	return domain.Embedding(out), nil
}

// Dimension returns the embedding vector length.
func (e *Extractor) Dimension() int {
	return e.model.Dimension()
}
