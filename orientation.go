package critique

import (
	"image"
	"image/draw"

	"github.com/kovidgoyal/go-parallel"
)

// orientation is an EXIF flag that specifies the transformation
// that should be applied to image to display it correctly.
type orientation int

const (
	orientationUnspecified = 0
	orientationNormal      = 1
	orientationFlipH       = 2
	orientationRotate180   = 3
	orientationFlipV       = 4
	orientationTranspose   = 5
	orientationRotate270   = 6
	orientationTransverse  = 7
	orientationRotate90    = 8
)

// fixOrientation applies a transform to img corresponding to the given orientation flag.
func fixOrientation(img image.Image, o orientation) image.Image {
	switch o {
	case orientationNormal:
	case orientationFlipH:
		img = FlipH(img)
	case orientationFlipV:
		img = FlipV(img)
	case orientationRotate90:
		img = Rotate90(img)
	case orientationRotate180:
		img = Rotate180(img)
	case orientationRotate270:
		img = Rotate270(img)
	case orientationTranspose:
		img = Transpose(img)
	case orientationTransverse:
		img = Transverse(img)
	}
	return img
}

func toNRGBA(img image.Image) *image.NRGBA {
	if nrgba, ok := img.(*image.NRGBA); ok && nrgba.Rect.Min == (image.Point{}) {
		return nrgba
	}
	b := img.Bounds()
	ans := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(ans, ans.Rect, img, b.Min, draw.Src)
	return ans
}

// remap builds a new w x h NRGBA image whose pixel at (x, y) is taken from
// src at the coordinates reported by at.
func remap(img image.Image, w, h int, at func(x, y int) (int, int)) *image.NRGBA {
	src := toNRGBA(img)
	ans := image.NewNRGBA(image.Rect(0, 0, w, h))
	f := func(start, limit int) {
		for y := start; y < limit; y++ {
			row := ans.Pix[ans.Stride*y:]
			for x := 0; x < w; x++ {
				sx, sy := at(x, y)
				s := src.Pix[src.Stride*sy+sx*4 : src.Stride*sy+sx*4+4 : src.Stride*sy+sx*4+4]
				d := row[x*4 : x*4+4 : x*4+4]
				copy(d, s)
			}
		}
	}
	_ = parallel.Run_in_parallel_over_range(0, f, 0, h)
	return ans
}

// FlipH returns the image flipped horizontally (left to right).
func FlipH(img image.Image) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	return remap(img, w, h, func(x, y int) (int, int) { return w - 1 - x, y })
}

// FlipV returns the image flipped vertically (top to bottom).
func FlipV(img image.Image) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	return remap(img, w, h, func(x, y int) (int, int) { return x, h - 1 - y })
}

// Rotate90 returns the image rotated 90 degrees counter-clockwise.
func Rotate90(img image.Image) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	return remap(img, h, w, func(x, y int) (int, int) { return w - 1 - y, x })
}

// Rotate180 returns the image rotated 180 degrees.
func Rotate180(img image.Image) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	return remap(img, w, h, func(x, y int) (int, int) { return w - 1 - x, h - 1 - y })
}

// Rotate270 returns the image rotated 270 degrees counter-clockwise.
func Rotate270(img image.Image) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	return remap(img, h, w, func(x, y int) (int, int) { return y, h - 1 - x })
}

// Transpose returns the image flipped horizontally and rotated 90 degrees
// counter-clockwise.
func Transpose(img image.Image) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	return remap(img, h, w, func(x, y int) (int, int) { return y, x })
}

// Transverse returns the image flipped vertically and rotated 90 degrees
// counter-clockwise.
func Transverse(img image.Image) *image.NRGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	return remap(img, h, w, func(x, y int) (int, int) { return w - 1 - y, h - 1 - x })
}
