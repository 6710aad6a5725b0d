package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

// encodeTestPNG renders a small gradient so the image has real content to
// compress rather than a uniform field.
func encodeTestPNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255}) //nolint:gosec // Bounded by %256
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func decodeWidth(t *testing.T, data []byte) int {
	t.Helper()
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a decodable image: %v", err)
	}
	return img.Bounds().Dx()
}

// TestCompress tests screenshot re-encoding and downscaling.
func TestCompress(t *testing.T) {
	t.Parallel()

	t.Run("wide captures are downscaled to the width cap", func(t *testing.T) {
		t.Parallel()

		data := encodeTestPNG(t, 2000, 400)
		out, err := Compress(data, 1600)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got := decodeWidth(t, out); got != 1600 {
			t.Errorf("expected width 1600, got %d", got)
		}
	})

	t.Run("narrow captures keep their size", func(t *testing.T) {
		t.Parallel()

		data := encodeTestPNG(t, 800, 600)
		out, err := Compress(data, 1600)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got := decodeWidth(t, out); got != 800 {
			t.Errorf("expected width 800, got %d", got)
		}
	})

	t.Run("zero cap disables downscaling", func(t *testing.T) {
		t.Parallel()

		data := encodeTestPNG(t, 2000, 100)
		out, err := Compress(data, 0)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got := decodeWidth(t, out); got != 2000 {
			t.Errorf("expected width 2000, got %d", got)
		}
	})

	t.Run("re-encoding never grows the data", func(t *testing.T) {
		t.Parallel()

		data := encodeTestPNG(t, 400, 300)
		out, err := Compress(data, 1600)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(out) > len(data) {
			t.Errorf("expected output no larger than input, got %d > %d", len(out), len(data))
		}
	})

	t.Run("garbage input fails", func(t *testing.T) {
		t.Parallel()

		if _, err := Compress([]byte("not an image"), 1600); err == nil {
			t.Error("expected an error for undecodable input")
		}
	})
}
