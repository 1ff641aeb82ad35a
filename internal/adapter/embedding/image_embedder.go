package embedding

import (
	"imgsim/internal/adapter/imageproc"
	"imgsim/internal/domain"
	"imgsim/internal/port"
)

// ImageEmbedder is the full file-to-vector pipeline: decode, normalize,
// extract.
type ImageEmbedder struct {
	normalizer *imageproc.Normalizer
	extractor  *Extractor
}

func NewImageEmbedder(model port.Model) *ImageEmbedder {
	return &ImageEmbedder{
		normalizer: imageproc.NewNormalizer(),
		extractor:  NewExtractor(model),
	}
}

// EmbedFile embeds the image at the given path. Decode failures surface as
// DecodeError, model failures as InferenceError.
func (e *ImageEmbedder) EmbedFile(path string) (domain.Embedding, error) {
	img, err := e.normalizer.Decode(path)
	if err != nil {
		return nil, err
	}
	return e.extractor.Extract(e.normalizer.Normalize(img))
}

// Dimension returns the embedding vector length.
func (e *ImageEmbedder) Dimension() int {
	return e.extractor.Dimension()
}
