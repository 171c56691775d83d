// Package testutil provides shared test fixtures for backend tests.
package testutil

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
)

// failer is the subset of *testing.T the fixtures need, kept as an interface
// so testutil does not import testing into non-test builds.
type failer interface {
	Helper()
	Fatalf(string, ...any)
}

// SolidJPEG returns an in-memory JPEG of the requested dimensions filled with
// a single color, sized like a typical phone photo upload.
func SolidJPEG(t failer, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	fill := color.RGBA{R: 120, G: 80, B: 200, A: 255}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, fill)
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return buf.Bytes()
}

// TinyPNG returns an in-memory PNG byte slice with the requested dimensions.
func TinyPNG(t failer, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	buf := bytes.NewBuffer(nil)
	if err := png.Encode(buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}
