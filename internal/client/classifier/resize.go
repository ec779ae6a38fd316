package classifier

import (
	"bytes"

	"github.com/disintegration/imaging"
)

// downscale fits the image into a maxDim square and re-encodes it as JPEG.
// Images that are already small enough, or cannot be decoded, are returned
// unchanged.
func downscale(img []byte, maxDim int) []byte {
	if maxDim <= 0 {
		return img
	}

	src, err := imaging.Decode(bytes.NewReader(img), imaging.AutoOrientation(true))
	if err != nil {
		return img
	}
	b := src.Bounds()
	if b.Dx() <= maxDim && b.Dy() <= maxDim {
		return img
	}

	resized := imaging.Fit(src, maxDim, maxDim, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return img
	}
	return buf.Bytes()
}
