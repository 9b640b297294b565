package critique

import (
	"image"

	"github.com/nfnt/resize"
)

// Fit downsamples img so that neither dimension exceeds maxDim, preserving
// the aspect ratio, using Lanczos resampling. Images already within the
// bound are returned unchanged. maxDim <= 0 disables the fit.
//
// Statistics extraction converges on a downsampled copy of a photograph, so
// the LUT and preset tools fit their reference images before analysis.
func Fit(img image.Image, maxDim int) image.Image {
	if maxDim <= 0 {
		return img
	}
	b := img.Bounds()
	if b.Dx() <= maxDim && b.Dy() <= maxDim {
		return img
	}
	return resize.Thumbnail(uint(maxDim), uint(maxDim), img, resize.Lanczos3)
}
