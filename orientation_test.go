package critique

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"
)

// nrgbaFromPix builds a w x h image from packed RGBA bytes.
func nrgbaFromPix(w, h int, pix []uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	copy(img.Pix, pix)
	return img
}

func TestOrientationTransforms(t *testing.T) {
	a := []uint8{1, 2, 3, 255}
	b := []uint8{4, 5, 6, 255}
	c := []uint8{7, 8, 9, 255}
	d := []uint8{10, 11, 12, 255}
	pix := func(ps ...[]uint8) []uint8 {
		var ans []uint8
		for _, p := range ps {
			ans = append(ans, p...)
		}
		return ans
	}
	// 2x2 source:
	//   a b
	//   c d
	src := nrgbaFromPix(2, 2, pix(a, b, c, d))

	testCases := []struct {
		name string
		f    func(image.Image) *image.NRGBA
		want []uint8
	}{
		{"FlipH", FlipH, pix(b, a, d, c)},
		{"FlipV", FlipV, pix(c, d, a, b)},
		{"Rotate90", Rotate90, pix(b, d, a, c)},
		{"Rotate180", Rotate180, pix(d, c, b, a)},
		{"Rotate270", Rotate270, pix(c, a, d, b)},
		{"Transpose", Transpose, pix(a, c, b, d)},
		{"Transverse", Transverse, pix(d, b, c, a)},
	}
	for _, tc := range testCases {
		got := tc.f(src)
		require.Equal(t, tc.want, got.Pix, tc.name)
	}
}

func TestFixOrientation(t *testing.T) {
	src := nrgbaFromPix(2, 1, []uint8{1, 2, 3, 255, 4, 5, 6, 255})
	require.Same(t, image.Image(src), fixOrientation(src, orientationNormal))
	got := fixOrientation(src, orientationFlipH)
	require.Equal(t, []uint8{4, 5, 6, 255, 1, 2, 3, 255}, got.(*image.NRGBA).Pix)
}
