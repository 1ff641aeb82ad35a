package imageproc

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"imgsim/internal/domain"
)

func writePNG(t *testing.T, path string, c color.NRGBA, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestScaledSize(t *testing.T) {
	tests := []struct {
		w, h         int
		wantW, wantH int
	}{
		{100, 200, 256, 512},   // portrait: width is the shorter edge
		{300, 200, 384, 256},   // landscape: height is the shorter edge
		{224, 224, 256, 256},   // square
		{1000, 333, 769, 256},  // longer edge rounds to nearest pixel
		{256, 256, 256, 256},   // already at target
	}

	for _, tt := range tests {
		gotW, gotH := scaledSize(tt.w, tt.h)
		if gotW != tt.wantW || gotH != tt.wantH {
			t.Errorf("scaledSize(%d, %d) = (%d, %d), want (%d, %d)",
				tt.w, tt.h, gotW, gotH, tt.wantW, tt.wantH)
		}
	}
}

func TestCropOffset(t *testing.T) {
	tests := []struct {
		edge int
		want int
	}{
		{256, 16},  // even margin, exact offset
		{257, 16},  // 16.5 rounds down to the even neighbor
		{259, 18},  // 17.5 rounds up to the even neighbor
		{300, 38},  // even margin
		{512, 144}, // even margin
		{769, 272}, // 272.5 rounds down to the even neighbor
	}

	for _, tt := range tests {
		if got := cropOffset(tt.edge); got != tt.want {
			t.Errorf("cropOffset(%d) = %d, want %d", tt.edge, got, tt.want)
		}
	}
}

func TestNormalize_Shape(t *testing.T) {
	n := NewNormalizer()
	img := image.NewNRGBA(image.Rect(0, 0, 100, 200))

	tensor := n.Normalize(img)

	if tensor.Channels != 3 || tensor.Height != 224 || tensor.Width != 224 {
		t.Errorf("unexpected tensor shape: %dx%dx%d", tensor.Channels, tensor.Height, tensor.Width)
	}
	if len(tensor.Data) != 3*224*224 {
		t.Errorf("expected %d values, got %d", 3*224*224, len(tensor.Data))
	}
}

func TestNormalize_SolidColor(t *testing.T) {
	n := NewNormalizer()
	img := image.NewNRGBA(image.Rect(0, 0, 300, 300))
	for y := 0; y < 300; y++ {
		for x := 0; x < 300; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 200, G: 30, B: 60, A: 255})
		}
	}

	tensor := n.Normalize(img)

	want := [3]float64{
		(200.0/255.0 - 0.485) / 0.229,
		(30.0/255.0 - 0.456) / 0.224,
		(60.0/255.0 - 0.406) / 0.225,
	}

	plane := 224 * 224
	for c := 0; c < 3; c++ {
		for _, i := range []int{0, plane / 2, plane - 1} {
			got := float64(tensor.Data[c*plane+i])
			if math.Abs(got-want[c]) > 0.02 {
				t.Fatalf("channel %d value %f, want %f", c, got, want[c])
			}
		}
	}
}

func TestNormalize_Deterministic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pattern.png")

	img := image.NewNRGBA(image.Rect(0, 0, 260, 340))
	for y := 0; y < 340; y++ {
		for x := 0; x < 260; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8((x * 7) % 256),
				G: uint8((y * 13) % 256),
				B: uint8((x + y) % 256),
				A: 255,
			})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	f.Close()

	n := NewNormalizer()

	first, err := n.Decode(path)
	if err != nil {
		t.Fatal(err)
	}
	second, err := n.Decode(path)
	if err != nil {
		t.Fatal(err)
	}

	a := n.Normalize(first)
	b := n.Normalize(second)

	for i := range a.Data {
		if a.Data[i] != b.Data[i] {
			t.Fatalf("tensor differs at index %d: %f vs %f", i, a.Data[i], b.Data[i])
		}
	}
}

func TestDecode_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.png")
	if err := os.WriteFile(path, []byte("this is not an image"), 0644); err != nil {
		t.Fatal(err)
	}

	n := NewNormalizer()
	_, err := n.Decode(path)
	if err == nil {
		t.Fatal("expected decode error")
	}

	var decodeErr *domain.DecodeError
	if !errors.As(err, &decodeErr) {
		t.Errorf("expected DecodeError, got %T: %v", err, err)
	}
	if decodeErr != nil && decodeErr.Path != path {
		t.Errorf("expected path %s in error, got %s", path, decodeErr.Path)
	}
}

func TestDecode_ValidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ok.png")
	writePNG(t, path, color.NRGBA{R: 10, G: 20, B: 30, A: 255}, 50, 50)

	n := NewNormalizer()
	img, err := n.Decode(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.Bounds().Dx() != 50 || img.Bounds().Dy() != 50 {
		t.Errorf("unexpected bounds: %v", img.Bounds())
	}
}

