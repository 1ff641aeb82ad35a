// Package imageproc turns an arbitrary raster image into the fixed-shape
// normalized tensor the feature-extraction model expects.
package imageproc

import (
	"image"
	"math"

	"github.com/disintegration/imaging"

	"imgsim/internal/domain"
)

const (
	// ResizeTarget is the length the shorter edge is scaled to before cropping.
	ResizeTarget = 256
	// CropSize is the side of the center crop fed to the model.
	CropSize = 224
	// Channels is the number of color channels (RGB).
	Channels = 3
)

// Per-channel statistics the model was trained with.
var (
	channelMean = [Channels]float32{0.485, 0.456, 0.406}
	channelStd  = [Channels]float32{0.229, 0.224, 0.225}
)

// Normalizer converts decoded images into normalized CHW tensors. The
// transform is deterministic: identical input bytes yield identical tensors.
type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Decode reads and decodes an image file. Files that cannot be interpreted as
// a raster image fail with a DecodeError; no blank substitute is produced.
func (n *Normalizer) Decode(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, &domain.DecodeError{Path: path, Err: err}
	}
	return img, nil
}

// Normalize applies the model's preprocessing to a decoded image:
// shorter-edge resize to 256 with Lanczos resampling, 224x224 center crop,
// [0,1] scaling, CHW reorder and per-channel mean/std normalization.
func (n *Normalizer) Normalize(img image.Image) *domain.Tensor {
	bounds := img.Bounds()
	w, h := scaledSize(bounds.Dx(), bounds.Dy())
	resized := imaging.Resize(img, w, h, imaging.Lanczos)

	// Fractional half-pixel offsets round half to even, matching the
	// crop semantics of the reference pipeline.
	left := cropOffset(w)
	top := cropOffset(h)
	cropped := imaging.Crop(resized, image.Rect(left, top, left+CropSize, top+CropSize))

	plane := CropSize * CropSize
	data := make([]float32, Channels*plane)
	for y := 0; y < CropSize; y++ {
		for x := 0; x < CropSize; x++ {
			i := cropped.PixOffset(x, y)
			for c := 0; c < Channels; c++ {
				v := float32(cropped.Pix[i+c]) / 255.0
				data[c*plane+y*CropSize+x] = (v - channelMean[c]) / channelStd[c]
			}
		}
	}

	return &domain.Tensor{
		Data:     data,
		Channels: Channels,
		Height:   CropSize,
		Width:    CropSize,
	}
}

// cropOffset computes the crop start along one axis: half the margin left
// over after the crop, rounded half to even when the margin is odd.
func cropOffset(edge int) int {
	return int(math.RoundToEven(float64(edge-CropSize) / 2))
}

// scaledSize computes the aspect-preserving dimensions with the shorter edge
// scaled to ResizeTarget; the longer edge rounds to the nearest pixel.
func scaledSize(w, h int) (int, int) {
	if w < h {
		return ResizeTarget, roundedScale(h, w)
	}
	return roundedScale(w, h), ResizeTarget
}

func roundedScale(longer, shorter int) int {
	return int(math.Round(float64(longer) * float64(ResizeTarget) / float64(shorter)))
}
