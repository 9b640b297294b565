package lut

import (
	"fmt"
	"image"
	"math"

	critique "github.com/jerryhubrit/PhotoCritique"
)

// A Hald CLUT encodes a 3D LUT as a square image of side level³, holding an
// N=level² per-axis lattice. Round-tripping the identity image through a
// third-party color tool and decoding it back extracts that tool's transform
// as a LUT. The flat pixel index maps to grid coordinates exactly like the
// identity lattice: r = i % N, g = (i / N) % N, b = i / N².

// HaldIdentity builds the identity Hald CLUT image for the given level.
// Level 8 yields a 512×512 image (64³ LUT), level 12 yields 1728×1728
// (144³). Only these two levels are accepted; smaller ones lose too much
// precision and larger ones have no tool support.
func HaldIdentity(level int) (*image.NRGBA, error) {
	if level != 8 && level != 12 {
		return nil, fmt.Errorf("%w: hald level must be 8 or 12, got %d", ErrFormat, level)
	}
	n := level * level
	side := level * level * level
	ans := image.NewNRGBA(image.Rect(0, 0, side, side))
	scale := 255.0 / float64(n-1)
	for i := 0; i < side*side; i++ {
		ri, gi, bi := latticeIndices(i, n)
		px := ans.Pix[i*4 : i*4+4 : i*4+4]
		px[0] = uint8(math.Round(float64(ri) * scale))
		px[1] = uint8(math.Round(float64(gi) * scale))
		px[2] = uint8(math.Round(float64(bi) * scale))
		px[3] = 0xff
	}
	return ans, nil
}

// HaldToLUT decodes a (possibly color-shifted) Hald CLUT image into a LUT.
// The image must be square with a side that is a perfect cube.
func HaldToLUT(img image.Image) (*LUT, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w != h {
		return nil, fmt.Errorf("%w: hald image must be square, got %dx%d", ErrFormat, w, h)
	}
	level := int(math.Round(math.Cbrt(float64(w))))
	if level < 2 || level*level*level != w {
		return nil, fmt.Errorf("%w: hald image side %d is not a perfect cube", ErrFormat, w)
	}
	n := level * level

	p := critique.FromImage(img)
	l := New(n)
	for i := 0; i < w*h; i++ {
		ri, gi, bi := latticeIndices(i, n)
		copy(l.At(ri, gi, bi), p.Pix[i*3:i*3+3])
	}
	return l, nil
}

// HaldImage re-encodes the LUT as a Hald CLUT image. The LUT's per-axis
// size must be a perfect square (64 = 8², 144 = 12²).
func (l *LUT) HaldImage() (*image.NRGBA, error) {
	level := int(math.Round(math.Sqrt(float64(l.Size))))
	if level*level != l.Size {
		return nil, fmt.Errorf(
			"%w: LUT size %d is not a perfect square; hald encoding needs a level² lattice (64=8², 144=12²)",
			ErrFormat, l.Size)
	}
	side := level * level * level
	ans := image.NewNRGBA(image.Rect(0, 0, side, side))
	for i := 0; i < side*side; i++ {
		ri, gi, bi := latticeIndices(i, l.Size)
		v := l.At(ri, gi, bi)
		px := ans.Pix[i*4 : i*4+4 : i*4+4]
		px[0] = quantize8(v[0])
		px[1] = quantize8(v[1])
		px[2] = quantize8(v[2])
		px[3] = 0xff
	}
	return ans, nil
}

func quantize8(v float64) uint8 {
	return uint8(math.Round(max(0, min(v, 1)) * 255.0))
}
