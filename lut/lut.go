// Package lut bakes a color transform into a 3D lookup table and moves it
// across tool boundaries: .cube text files, Hald CLUT images, and direct
// application to images via grid interpolation.
package lut

import (
	"errors"
	"image"

	critique "github.com/jerryhubrit/PhotoCritique"
	"github.com/jerryhubrit/PhotoCritique/transfer"

	"github.com/kovidgoyal/go-parallel"
)

// ErrFormat is the kind of every malformed-input error in this package:
// bad .cube data, non-square or non-cube Hald images, incompatible LUT
// sizes. Callers distinguish it from configuration and I/O errors with
// errors.Is.
var ErrFormat = errors.New("lut: invalid format")

// LUT is a 3D color lookup table over the RGB cube. Data holds Size³ RGB
// triples in [0,1], packed R-fastest/G-next/B-slowest, which is also the
// .cube file ordering.
type LUT struct {
	Size int
	Data []float64
}

func New(size int) *LUT {
	return &LUT{Size: size, Data: make([]float64, size*size*size*3)}
}

// At returns the RGB triple at grid point (r, g, b). The slice aliases the
// LUT's storage.
func (l *LUT) At(r, g, b int) []float64 {
	i := ((b*l.Size+g)*l.Size + r) * 3
	return l.Data[i : i+3 : i+3]
}

// latticeIndices decomposes a flat lattice position into grid coordinates,
// R-fastest.
func latticeIndices(p, n int) (r, g, b int) {
	return p % n, (p / n) % n, p / (n * n)
}

// IdentityLattice builds a synthetic image enumerating every combination of
// size uniformly spaced values per RGB channel. The 3D lattice is laid out
// as a size²×size image so the transfer engine can consume it unmodified;
// flat pixel order is R-fastest/G-next/B-slowest, matching LUT storage.
func IdentityLattice(size int) *critique.Pixmap {
	p := critique.NewPixmap(size, size*size)
	step := 1.0 / float64(size-1)
	for i := 0; i < size*size*size; i++ {
		ri, gi, bi := latticeIndices(i, size)
		px := p.Pix[i*3 : i*3+3 : i*3+3]
		px[0] = float64(ri) * step
		px[1] = float64(gi) * step
		px[2] = float64(bi) * step
	}
	return p
}

// Generate bakes a color transfer into a LUT by running the identity
// lattice through the transfer algorithm in Lab space. The mapped lattice
// stays float throughout; no 8-bit step is involved.
func Generate(ref *critique.Pixmap, opts transfer.Options, size int) (*LUT, error) {
	lattice := IdentityLattice(size)
	resultLab, err := transfer.ApplyLab(ref.Lab(), lattice.Lab(), opts)
	if err != nil {
		return nil, err
	}
	rgb := resultLab.Pixmap()

	l := New(size)
	copy(l.Data, rgb.Pix[:size*size*size*3])
	return l, nil
}

// Interpolation selects the grid interpolation used when applying a LUT.
type Interpolation int

const (
	// InterpCubic uses Catmull-Rom interpolation over a 4×4×4 neighborhood
	// for smoother gradients. Grids with fewer than 4 points per axis fall
	// back to trilinear.
	InterpCubic Interpolation = iota
	InterpLinear
)

// Apply maps every pixel of img through the LUT and quantizes the result to
// 8 bits.
func (l *LUT) Apply(img *critique.Pixmap, interp Interpolation) *image.NRGBA {
	cubic := interp == InterpCubic && l.Size >= 4
	out := critique.NewPixmap(img.Width, img.Height)
	f := func(start, limit int) {
		for y := start; y < limit; y++ {
			src := img.Pix[img.Stride*y:]
			dst := out.Pix[out.Stride*y:]
			for x := 0; x < img.Width; x++ {
				s := src[x*3 : x*3+3 : x*3+3]
				d := dst[x*3 : x*3+3 : x*3+3]
				if cubic {
					l.sampleCubic(s, d)
				} else {
					l.sampleLinear(s, d)
				}
			}
		}
	}
	_ = parallel.Run_in_parallel_over_range(0, f, 0, img.Height)
	return out.Image()
}

// sampleLinear performs trilinear interpolation over the LUT grid.
func (l *LUT) sampleLinear(in, out []float64) {
	n := l.Size
	scale := float64(n - 1)
	rp, gp, bp := clamp01(in[0])*scale, clamp01(in[1])*scale, clamp01(in[2])*scale

	ri, fr := splitPos(rp, n)
	gi, fg := splitPos(gp, n)
	bi, fb := splitPos(bp, n)

	for c := 0; c < 3; c++ {
		c000 := l.At(ri, gi, bi)[c]
		c100 := l.At(ri+1, gi, bi)[c]
		c010 := l.At(ri, gi+1, bi)[c]
		c110 := l.At(ri+1, gi+1, bi)[c]
		c001 := l.At(ri, gi, bi+1)[c]
		c101 := l.At(ri+1, gi, bi+1)[c]
		c011 := l.At(ri, gi+1, bi+1)[c]
		c111 := l.At(ri+1, gi+1, bi+1)[c]

		c00 := c000 + (c100-c000)*fr
		c10 := c010 + (c110-c010)*fr
		c01 := c001 + (c101-c001)*fr
		c11 := c011 + (c111-c011)*fr
		c0 := c00 + (c10-c00)*fg
		c1 := c01 + (c11-c01)*fg

		out[c] = clamp01(c0 + (c1-c0)*fb)
	}
}

// sampleCubic performs separable Catmull-Rom interpolation over a 4×4×4
// neighborhood with edge-clamped indices.
func (l *LUT) sampleCubic(in, out []float64) {
	n := l.Size
	scale := float64(n - 1)
	rp, gp, bp := clamp01(in[0])*scale, clamp01(in[1])*scale, clamp01(in[2])*scale

	ri, fr := splitPos(rp, n)
	gi, fg := splitPos(gp, n)
	bi, fb := splitPos(bp, n)

	var rIdx, gIdx, bIdx [4]int
	for k := 0; k < 4; k++ {
		rIdx[k] = clampIdx(ri+k-1, n)
		gIdx[k] = clampIdx(gi+k-1, n)
		bIdx[k] = clampIdx(bi+k-1, n)
	}

	for c := 0; c < 3; c++ {
		var vb [4]float64
		for kb := 0; kb < 4; kb++ {
			var vg [4]float64
			for kg := 0; kg < 4; kg++ {
				var vr [4]float64
				for kr := 0; kr < 4; kr++ {
					vr[kr] = l.At(rIdx[kr], gIdx[kg], bIdx[kb])[c]
				}
				vg[kg] = catmullRom(vr, fr)
			}
			vb[kb] = catmullRom(vg, fg)
		}
		out[c] = clamp01(catmullRom(vb, fb))
	}
}

// splitPos splits a grid position into the base cell index and the
// fractional offset, keeping the cell inside the grid.
func splitPos(pos float64, n int) (int, float64) {
	i := int(pos)
	if i > n-2 {
		i = n - 2
	}
	return i, pos - float64(i)
}

func clampIdx(i, n int) int {
	return max(0, min(i, n-1))
}

func catmullRom(p [4]float64, t float64) float64 {
	return 0.5 * (2*p[1] +
		t*((p[2]-p[0])+
			t*((2*p[0]-5*p[1]+4*p[2]-p[3])+
				t*(3*(p[1]-p[2])+p[3]-p[0]))))
}

func clamp01(v float64) float64 {
	return max(0, min(v, 1))
}
