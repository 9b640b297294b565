package critique

import (
	"fmt"
	"image"

	"github.com/jerryhubrit/PhotoCritique/colorconv"

	"github.com/kovidgoyal/go-parallel"
)

var _ = fmt.Print

// Pixmap is an in-memory float64 RGB image with components in [0,1].
// It is the working representation for everything on the gamma-corrected
// side of the pipeline: decoded photographs, synthetic LUT lattices and
// engine output before the final 8-bit quantization.
type Pixmap struct {
	// Pix holds the image's pixels, in R, G, B order. The pixel at
	// (x, y) starts at Pix[y*Stride + x*3].
	Pix []float64
	// Stride is the Pix stride (in float64 values) between vertically adjacent pixels.
	Stride        int
	Width, Height int
}

// LabImage is an in-memory float64 image in CIE L*a*b* (D65).
// Channel 0 is L in [0,100], channels 1 and 2 are a and b in [-128,127].
type LabImage struct {
	Pix           []float64
	Stride        int
	Width, Height int
}

func NewPixmap(width, height int) *Pixmap {
	return &Pixmap{
		Pix:    make([]float64, width*height*3),
		Stride: width * 3,
		Width:  width,
		Height: height,
	}
}

func NewLabImage(width, height int) *LabImage {
	return &LabImage{
		Pix:    make([]float64, width*height*3),
		Stride: width * 3,
		Width:  width,
		Height: height,
	}
}

// FromImage converts any image.Image into a Pixmap. Alpha is discarded;
// premultiplied colors are unpremultiplied first, as in the stdlib color
// conversions.
func FromImage(img image.Image) *Pixmap {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	p := NewPixmap(width, height)
	var f func(start, limit int)
	switch src := img.(type) {
	case *image.NRGBA:
		f = func(start, limit int) {
			for y := start; y < limit; y++ {
				row := src.Pix[src.Stride*y:]
				dst := p.Pix[p.Stride*y:]
				for x := 0; x < width; x++ {
					s := row[x*4 : x*4+3 : x*4+3]
					d := dst[x*3 : x*3+3 : x*3+3]
					d[0] = float64(s[0]) / 255.0
					d[1] = float64(s[1]) / 255.0
					d[2] = float64(s[2]) / 255.0
				}
			}
		}
	case *image.RGBA:
		f = func(start, limit int) {
			for y := start; y < limit; y++ {
				row := src.Pix[src.Stride*y:]
				dst := p.Pix[p.Stride*y:]
				for x := 0; x < width; x++ {
					s := row[x*4 : x*4+4 : x*4+4]
					d := dst[x*3 : x*3+3 : x*3+3]
					a := uint32(s[3])
					if a == 0 {
						d[0], d[1], d[2] = 0, 0, 0
						continue
					}
					d[0] = float64(uint32(s[0])*0xff/a) / 255.0
					d[1] = float64(uint32(s[1])*0xff/a) / 255.0
					d[2] = float64(uint32(s[2])*0xff/a) / 255.0
				}
			}
		}
	default:
		f = func(start, limit int) {
			for y := start; y < limit; y++ {
				dst := p.Pix[p.Stride*y:]
				for x := 0; x < width; x++ {
					r16, g16, b16, a16 := img.At(x+b.Min.X, y+b.Min.Y).RGBA()
					d := dst[x*3 : x*3+3 : x*3+3]
					if a16 == 0 {
						d[0], d[1], d[2] = 0, 0, 0
						continue
					}
					d[0] = float64(r16*0xffff/a16) / 65535.0
					d[1] = float64(g16*0xffff/a16) / 65535.0
					d[2] = float64(b16*0xffff/a16) / 65535.0
				}
			}
		}
	}
	_ = parallel.Run_in_parallel_over_range(0, f, 0, height)
	return p
}

// Image quantizes the Pixmap to an 8-bit image. This is the only place in
// the pipeline where float precision is truncated, so chained operations
// (transfer -> LUT bake, histogram -> zone composition) accumulate no
// intermediate rounding error.
func (p *Pixmap) Image() *image.NRGBA {
	ans := image.NewNRGBA(image.Rect(0, 0, p.Width, p.Height))
	f := func(start, limit int) {
		for y := start; y < limit; y++ {
			src := p.Pix[p.Stride*y:]
			row := ans.Pix[ans.Stride*y:]
			for x := 0; x < p.Width; x++ {
				s := src[x*3 : x*3+3 : x*3+3]
				d := row[x*4 : x*4+4 : x*4+4]
				d[0] = quantize(s[0])
				d[1] = quantize(s[1])
				d[2] = quantize(s[2])
				d[3] = 0xff
			}
		}
	}
	_ = parallel.Run_in_parallel_over_range(0, f, 0, p.Height)
	return ans
}

func quantize(v float64) uint8 {
	v = v*255.0 + 0.5
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

func (p *Pixmap) Clone() *Pixmap {
	ans := *p
	ans.Pix = make([]float64, len(p.Pix))
	copy(ans.Pix, p.Pix)
	return &ans
}

// Lab converts the Pixmap to CIE L*a*b*.
func (p *Pixmap) Lab() *LabImage {
	ans := NewLabImage(p.Width, p.Height)
	f := func(start, limit int) {
		for y := start; y < limit; y++ {
			src := p.Pix[p.Stride*y:]
			dst := ans.Pix[ans.Stride*y:]
			for x := 0; x < p.Width; x++ {
				s := src[x*3 : x*3+3 : x*3+3]
				d := dst[x*3 : x*3+3 : x*3+3]
				d[0], d[1], d[2] = colorconv.SRGBToLab(s[0], s[1], s[2])
			}
		}
	}
	_ = parallel.Run_in_parallel_over_range(0, f, 0, p.Height)
	return ans
}

// Pixmap converts the Lab image back to gamma-corrected sRGB. Out-of-gamut
// colors are clipped to the [0,1] cube.
func (l *LabImage) Pixmap() *Pixmap {
	ans := NewPixmap(l.Width, l.Height)
	f := func(start, limit int) {
		for y := start; y < limit; y++ {
			src := l.Pix[l.Stride*y:]
			dst := ans.Pix[ans.Stride*y:]
			for x := 0; x < l.Width; x++ {
				s := src[x*3 : x*3+3 : x*3+3]
				d := dst[x*3 : x*3+3 : x*3+3]
				d[0], d[1], d[2] = colorconv.LabToSRGB(s[0], s[1], s[2])
			}
		}
	}
	_ = parallel.Run_in_parallel_over_range(0, f, 0, l.Height)
	return ans
}

func (l *LabImage) Clone() *LabImage {
	ans := *l
	ans.Pix = make([]float64, len(l.Pix))
	copy(ans.Pix, l.Pix)
	return &ans
}

// NumPixels reports the number of pixels in the image.
func (l *LabImage) NumPixels() int { return l.Width * l.Height }

// Clamp restricts every pixel to the legal Lab range in place:
// L to [0,100], a and b to [-128,127].
func (l *LabImage) Clamp() {
	for y := 0; y < l.Height; y++ {
		row := l.Pix[l.Stride*y : l.Stride*y+l.Width*3]
		for x := 0; x < l.Width; x++ {
			s := row[x*3 : x*3+3 : x*3+3]
			s[0] = max(0, min(s[0], 100))
			s[1] = max(-128, min(s[1], 127))
			s[2] = max(-128, min(s[2], 127))
		}
	}
}

// EachPixel calls fn for every pixel's 3-component slice. The slice aliases
// the image, so writes through it mutate the image.
func (l *LabImage) EachPixel(fn func(px []float64)) {
	for y := 0; y < l.Height; y++ {
		row := l.Pix[l.Stride*y : l.Stride*y+l.Width*3]
		for x := 0; x < l.Width; x++ {
			fn(row[x*3 : x*3+3 : x*3+3])
		}
	}
}
