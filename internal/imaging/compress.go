package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	_ "image/jpeg" // JPEG decoding, in case the capture backend emits JPEG

	"golang.org/x/image/draw"
)

// hasPNGSignature reports whether the data begins with the PNG signature.
func hasPNGSignature(data []byte) bool {
	// PNG signature: 0x89 'P' 'N' 'G' 0x0D 0x0A 0x1A 0x0A
	if len(data) < 8 {
		return false
	}
	expected := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
	return bytes.Equal(data[:8], expected)
}

// Compress re-encodes a raw screenshot into a space-efficient PNG.
// Captures wider than maxWidth are downscaled preserving aspect ratio;
// zero maxWidth disables scaling. Full-page report captures straight from
// the browser are large, and best-compression re-encoding plus a width
// cap typically shrinks them severalfold.
func Compress(data []byte, maxWidth int) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode screenshot: %w", err)
	}

	bounds := img.Bounds()
	needsScale := maxWidth > 0 && bounds.Dx() > maxWidth

	// Already a reasonably-sized PNG: re-encode only if it shrinks.
	if !needsScale && format == "png" && hasPNGSignature(data) {
		encoded, err := encodePNG(img)
		if err != nil {
			return nil, err
		}
		if len(encoded) < len(data) {
			return encoded, nil
		}
		return data, nil
	}

	if needsScale {
		img = scaleToWidth(img, maxWidth)
	}
	return encodePNG(img)
}

// scaleToWidth resizes the image to the given width, keeping aspect ratio.
func scaleToWidth(img image.Image, width int) image.Image {
	bounds := img.Bounds()
	height := bounds.Dy() * width / bounds.Dx()
	if height < 1 {
		height = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	// CatmullRom trades speed for quality; screenshots are downscaled once
	// at capture time, so the cost does not matter.
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

// encodePNG encodes with the strongest zlib setting.
func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	encoder := png.Encoder{CompressionLevel: png.BestCompression}
	if err := encoder.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode screenshot: %w", err)
	}
	return buf.Bytes(), nil
}
