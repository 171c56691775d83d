// Package imaging validates and re-encodes uploaded photos to a bounded
// size and format.
package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"net/http"

	"foundling/internal/middleware"
	"foundling/internal/models"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder

	_ "image/gif" // register GIF decoder
	_ "image/png" // register PNG decoder
)

const (
	// MinDimension is the minimum width and height for an uploaded photo.
	MinDimension = 300
	// MaxDimension is the bound images are downscaled to fit within.
	MaxDimension = 1200
	// JPEGQuality is the compression quality for re-encoded output.
	JPEGQuality = 85
)

// Normalize validates raw image bytes, downscales oversized images to fit
// within MaxDimension preserving aspect ratio, re-encodes as JPEG and returns
// the result as a data URI. Images smaller than MinDimension in either
// dimension and undecodable input are rejected with a validation error.
func Normalize(raw []byte) (string, error) {
	if len(raw) == 0 {
		middleware.ImageRejections.WithLabelValues("empty").Inc()
		return "", models.NewValidationError("No image data")
	}

	// Sniff the actual MIME type from bytes, not client headers.
	detected := http.DetectContentType(raw)
	if !allowedMIME(detected) {
		middleware.ImageRejections.WithLabelValues("mime").Inc()
		return "", models.NewValidationError(fmt.Sprintf("Unsupported image format: %s", detected))
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		middleware.ImageRejections.WithLabelValues("decode").Inc()
		return "", models.NewValidationErrorWrap("Image processing failed", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() < MinDimension || bounds.Dy() < MinDimension {
		middleware.ImageRejections.WithLabelValues("too_small").Inc()
		return "", models.NewValidationError(
			fmt.Sprintf("Image too small. Minimum %dx%d pixels required.", MinDimension, MinDimension))
	}

	img = downscale(img, MaxDimension)

	// jpeg.Encode converts to YCbCr from any color model, so one encode pass
	// covers both the color conversion and the compression.
	buf := bytes.NewBuffer(nil)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return "", models.NewInternalError(err)
	}

	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// downscale resizes the image so neither dimension exceeds maxDim, using
// Catmull-Rom interpolation. Returns the original image if already within
// bounds.
func downscale(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	if w <= maxDim && h <= maxDim {
		return img
	}

	newW, newH := w, h
	if w > h {
		newW = maxDim
		newH = int(float64(h) * float64(maxDim) / float64(w))
	} else {
		newH = maxDim
		newW = int(float64(w) * float64(maxDim) / float64(h))
	}
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, xdraw.Over, nil)
	return dst
}

func allowedMIME(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}
