package lut

import (
	"bytes"
	"image"
	"math/rand"
	"strings"
	"testing"

	critique "github.com/jerryhubrit/PhotoCritique"
	"github.com/jerryhubrit/PhotoCritique/transfer"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

// identityLUT builds the LUT whose output equals its input at every grid
// point.
func identityLUT(size int) *LUT {
	l := New(size)
	copy(l.Data, IdentityLattice(size).Pix)
	return l
}

func randomLUT(size int, seed int64) *LUT {
	rng := rand.New(rand.NewSource(seed))
	l := New(size)
	for i := range l.Data {
		l.Data[i] = rng.Float64()
	}
	return l
}

func TestIdentityLattice(t *testing.T) {
	p := IdentityLattice(3)
	require.Equal(t, 3, p.Width)
	require.Equal(t, 9, p.Height)
	// R increments fastest, then G, then B.
	require.Equal(t, []float64{0, 0, 0}, p.Pix[0:3])
	require.Equal(t, []float64{0.5, 0, 0}, p.Pix[3:6])
	require.Equal(t, []float64{0, 0.5, 0}, p.Pix[9:12])
	require.Equal(t, []float64{0, 0, 0.5}, p.Pix[27:30])
	last := 3*3*3*3 - 3
	require.Equal(t, []float64{1, 1, 1}, p.Pix[last:last+3])
}

func TestLatticeOrderMatchesStorage(t *testing.T) {
	n := 4
	l := identityLUT(n)
	step := 1.0 / float64(n-1)
	for b := 0; b < n; b++ {
		for g := 0; g < n; g++ {
			for r := 0; r < n; r++ {
				v := l.At(r, g, b)
				require.InDelta(t, float64(r)*step, v[0], 1e-12)
				require.InDelta(t, float64(g)*step, v[1], 1e-12)
				require.InDelta(t, float64(b)*step, v[2], 1e-12)
			}
		}
	}
}

func TestCubeRoundTrip(t *testing.T) {
	src := randomLUT(17, 1)
	var buf bytes.Buffer
	require.NoError(t, src.WriteCube(&buf, "round trip"))
	got, err := ReadCube(&buf)
	require.NoError(t, err)
	require.Equal(t, src.Size, got.Size)
	require.Empty(t, cmp.Diff(src.Data, got.Data, cmpopts.EquateApprox(0, 1e-6)))
}

func TestReadCubeLenient(t *testing.T) {
	l, err := ReadCube(strings.NewReader(`# a comment
TITLE "whatever"

LUT_3D_SIZE 2
DOMAIN_MIN 0.0 0.0 0.0
DOMAIN_MAX 1.0 1.0 1.0
some junk
0 0 0
1 0 0
0 1 0
1 1 0
0 0 1
1 0 1
0 1 1
1 1 1
`))
	require.NoError(t, err)
	require.Equal(t, 2, l.Size)
	require.Equal(t, []float64{1, 1, 1}, l.At(1, 1, 1))
}

func TestReadCubeErrors(t *testing.T) {
	testCases := []struct {
		name, in string
	}{
		{"missing size", "0 0 0\n"},
		{"bad size value", "LUT_3D_SIZE x\n"},
		{"size too small", "LUT_3D_SIZE 1\n0 0 0\n"},
		{"row count mismatch", "LUT_3D_SIZE 2\n0 0 0\n1 1 1\n"},
	}
	for _, tc := range testCases {
		_, err := ReadCube(strings.NewReader(tc.in))
		require.ErrorIs(t, err, ErrFormat, tc.name)
	}
}

// nodePixmap fills an image with values that sit exactly on the LUT grid, so
// every interpolation mode must reproduce them exactly.
func nodePixmap(w, h, lutSize int, seed int64) *critique.Pixmap {
	rng := rand.New(rand.NewSource(seed))
	p := critique.NewPixmap(w, h)
	step := 1.0 / float64(lutSize-1)
	for i := range p.Pix {
		p.Pix[i] = float64(rng.Intn(lutSize)) * step
	}
	return p
}

func TestApplyIdentityAtGridNodes(t *testing.T) {
	l := identityLUT(5)
	img := nodePixmap(8, 8, 5, 2)
	want := img.Image().Pix
	require.Equal(t, want, l.Apply(img, InterpLinear).Pix)
	require.Equal(t, want, l.Apply(img, InterpCubic).Pix)
}

func TestSampleLinearIdentity(t *testing.T) {
	l := identityLUT(9)
	rng := rand.New(rand.NewSource(3))
	in := make([]float64, 3)
	out := make([]float64, 3)
	for i := 0; i < 200; i++ {
		in[0], in[1], in[2] = rng.Float64(), rng.Float64(), rng.Float64()
		l.sampleLinear(in, out)
		for c := 0; c < 3; c++ {
			require.InDelta(t, in[c], out[c], 1e-12)
		}
	}
}

func TestSampleClampsOutOfRangeInput(t *testing.T) {
	l := identityLUT(5)
	in := []float64{-0.5, 1.5, 0.5}
	out := make([]float64, 3)
	l.sampleLinear(in, out)
	require.InDelta(t, 0, out[0], 1e-12)
	require.InDelta(t, 1, out[1], 1e-12)
	require.InDelta(t, 0.5, out[2], 1e-12)
	l.sampleCubic(in, out)
	require.InDelta(t, 0, out[0], 1e-12)
	require.InDelta(t, 1, out[1], 1e-12)
}

func TestApplyCubicFallsBackOnTinyGrids(t *testing.T) {
	l := identityLUT(3)
	img := nodePixmap(4, 4, 3, 4)
	// Size < 4 cannot support a 4-point neighborhood; both modes must agree.
	require.Equal(t, l.Apply(img, InterpLinear).Pix, l.Apply(img, InterpCubic).Pix)
}

func TestGenerateSolidReference(t *testing.T) {
	ref := critique.NewPixmap(4, 4)
	refColor := []float64{200.0 / 255, 140.0 / 255, 80.0 / 255}
	for i := range ref.Pix {
		ref.Pix[i] = refColor[i%3]
	}
	l, err := Generate(ref, transfer.Options{Method: transfer.GlobalLab, Strength: 1}, 17)
	require.NoError(t, err)

	// A zero-variance reference collapses every grid point to the reference
	// color, so applying the LUT paints any image solid.
	img := nodePixmap(6, 6, 17, 5)
	out := l.Apply(img, InterpLinear)
	for i := 0; i < len(out.Pix); i += 4 {
		require.Equal(t, uint8(200), out.Pix[i])
		require.Equal(t, uint8(140), out.Pix[i+1])
		require.Equal(t, uint8(80), out.Pix[i+2])
	}
}

func TestGenerateStrengthZeroIsIdentity(t *testing.T) {
	ref := critique.NewPixmap(4, 4) // black reference, irrelevant at strength 0
	l, err := Generate(ref, transfer.Options{Method: transfer.ZoneBased, Strength: 0}, 9)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(IdentityLattice(9).Pix, l.Data, cmpopts.EquateApprox(0, 1e-6)))
}

func TestGenerateBadOptions(t *testing.T) {
	ref := critique.NewPixmap(2, 2)
	_, err := Generate(ref, transfer.Options{Method: transfer.GlobalLab, Strength: 2}, 9)
	require.ErrorIs(t, err, transfer.ErrBadStrength)
}

func TestHaldIdentity(t *testing.T) {
	img, err := HaldIdentity(8)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 512, 512), img.Bounds())
	// i=0 is black, i=1 advances R by one 64-level step.
	require.Equal(t, []uint8{0, 0, 0, 255}, img.Pix[0:4])
	require.Equal(t, []uint8{4, 0, 0, 255}, img.Pix[4:8])

	img, err = HaldIdentity(12)
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 1728, 1728), img.Bounds())

	for _, level := range []int{0, 2, 7, 16} {
		_, err = HaldIdentity(level)
		require.ErrorIs(t, err, ErrFormat, "level %d", level)
	}
}

func TestHaldToLUTIdentity(t *testing.T) {
	img, err := HaldIdentity(8)
	require.NoError(t, err)
	l, err := HaldToLUT(img)
	require.NoError(t, err)
	require.Equal(t, 64, l.Size)
	want := identityLUT(64)
	for i := range want.Data {
		require.InDelta(t, want.Data[i], l.Data[i], 1.0/255)
	}
}

func TestHaldImageRoundTrip(t *testing.T) {
	src, err := HaldIdentity(8)
	require.NoError(t, err)
	// Simulate an edited Hald image: a tool-applied color shift.
	for i := 0; i < len(src.Pix); i += 4 {
		src.Pix[i] = uint8(min(int(src.Pix[i])+13, 255))
		src.Pix[i+2] = src.Pix[i+2] / 2
	}
	l, err := HaldToLUT(src)
	require.NoError(t, err)
	back, err := l.HaldImage()
	require.NoError(t, err)
	require.Equal(t, src.Pix, back.Pix)
}

func TestHaldErrors(t *testing.T) {
	_, err := HaldToLUT(image.NewNRGBA(image.Rect(0, 0, 512, 256)))
	require.ErrorIs(t, err, ErrFormat)

	_, err = HaldToLUT(image.NewNRGBA(image.Rect(0, 0, 100, 100)))
	require.ErrorIs(t, err, ErrFormat)

	_, err = randomLUT(17, 6).HaldImage()
	require.ErrorIs(t, err, ErrFormat)
}
