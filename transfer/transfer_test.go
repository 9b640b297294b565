package transfer

import (
	"image"
	"math"
	"math/rand"
	"testing"

	critique "github.com/jerryhubrit/PhotoCritique"
	"github.com/jerryhubrit/PhotoCritique/stats"
	"github.com/stretchr/testify/require"
)

func solidPixmap(w, h int, r, g, b uint8) *critique.Pixmap {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = r, g, b, 0xff
	}
	return critique.FromImage(img)
}

func randomPixmap(w, h int, seed int64) *critique.Pixmap {
	rng := rand.New(rand.NewSource(seed))
	p := critique.NewPixmap(w, h)
	for i := range p.Pix {
		p.Pix[i] = rng.Float64()
	}
	return p
}

func TestParseMethod(t *testing.T) {
	for _, name := range Methods() {
		m, err := ParseMethod(name)
		require.NoError(t, err)
		require.Equal(t, name, m.String())
	}
	_, err := ParseMethod("perceptual")
	require.ErrorIs(t, err, ErrUnknownMethod)
	require.Contains(t, err.Error(), "zone_based")
}

func TestApplyLabBadOptions(t *testing.T) {
	lab := solidPixmap(4, 4, 100, 100, 100).Lab()
	_, err := ApplyLab(lab, lab, Options{Method: GlobalLab, Strength: -0.1})
	require.ErrorIs(t, err, ErrBadStrength)
	_, err = ApplyLab(lab, lab, Options{Method: GlobalLab, Strength: 1.5})
	require.ErrorIs(t, err, ErrBadStrength)
	_, err = ApplyLab(lab, lab, Options{Method: Method(42), Strength: 1})
	require.ErrorIs(t, err, ErrUnknownMethod)
}

// A zero-variance gray target matched against a solid reference must come out
// as exactly the reference color: the Reinhard scale collapses to zero and
// only the reference means survive.
func TestGlobalLabSolidColors(t *testing.T) {
	ref := solidPixmap(4, 4, 200, 140, 80)
	tgt := solidPixmap(4, 4, 128, 128, 128)
	res, err := Transfer(ref, tgt, Options{Method: GlobalLab, Strength: 1})
	require.NoError(t, err)
	for i := 0; i < len(res.Image.Pix); i += 4 {
		require.Equal(t, uint8(200), res.Image.Pix[i])
		require.Equal(t, uint8(140), res.Image.Pix[i+1])
		require.Equal(t, uint8(80), res.Image.Pix[i+2])
	}
}

// With strength 0 the blend returns the target unchanged, bit for bit after
// quantization, whatever the method.
func TestStrengthZeroIsIdentity(t *testing.T) {
	ref := randomPixmap(16, 16, 1)
	tgt := randomPixmap(16, 16, 2)
	want := tgt.Image().Pix
	for _, name := range Methods() {
		m, err := ParseMethod(name)
		require.NoError(t, err)
		res, err := Transfer(ref, tgt, Options{Method: m, Strength: 0})
		require.NoError(t, err)
		require.Equal(t, want, res.Image.Pix, name)
	}
}

// Transferring an image onto itself is a no-op up to quantization for the
// moment-based methods and within half a histogram bin for the CDF ones.
func TestSelfTransfer(t *testing.T) {
	src := randomPixmap(24, 24, 3)
	want := src.Image().Pix
	for _, name := range Methods() {
		m, err := ParseMethod(name)
		require.NoError(t, err)
		res, err := Transfer(src, src, Options{Method: m, Strength: 1})
		require.NoError(t, err)
		for i, w := range want {
			d := int(res.Image.Pix[i]) - int(w)
			if d < 0 {
				d = -d
			}
			require.LessOrEqual(t, d, 3, "%s: byte %d: got %d want %d", name, i, res.Image.Pix[i], w)
		}
	}
}

func TestGlobalLabMatchesMoments(t *testing.T) {
	refLab := randomPixmap(32, 32, 4).Lab()
	tgtLab := randomPixmap(32, 32, 5).Lab()
	out := TransferGlobalLab(refLab, tgtLab)
	refG := stats.ComputeGlobal(refLab)
	outG := stats.ComputeGlobal(out)
	for c := 0; c < 3; c++ {
		require.InDelta(t, refG.Channel(c).Mean, outG.Channel(c).Mean, 0.05, "channel %d mean", c)
		require.InDelta(t, refG.Channel(c).Std, outG.Channel(c).Std, 0.05, "channel %d std", c)
	}
}

func TestResultsStayInLabRange(t *testing.T) {
	refLab := randomPixmap(20, 20, 6).Lab()
	tgtLab := randomPixmap(20, 20, 7).Lab()
	for _, f := range []func(ref, tgt *critique.LabImage) *critique.LabImage{
		TransferGlobalLab, TransferZoneBased, TransferHistogram, TransferImproved,
	} {
		out := f(refLab, tgtLab)
		out.EachPixel(func(px []float64) {
			require.GreaterOrEqual(t, px[0], 0.0)
			require.LessOrEqual(t, px[0], 100.0)
			for _, v := range px[1:] {
				require.GreaterOrEqual(t, v, -128.0)
				require.LessOrEqual(t, v, 127.0)
			}
		})
	}
}

func TestPreserveLuminance(t *testing.T) {
	ref := randomPixmap(16, 16, 8)
	tgt := randomPixmap(16, 16, 9)
	tgtLab := tgt.Lab()
	out, err := ApplyLab(ref.Lab(), tgtLab, Options{
		Method: GlobalLab, Strength: 1, PreserveLuminance: true,
	})
	require.NoError(t, err)
	for i := 0; i < len(out.Pix); i += 3 {
		require.Equal(t, tgtLab.Pix[i], out.Pix[i])
	}
}

func TestStrengthBlendIsConvex(t *testing.T) {
	refLab := randomPixmap(8, 8, 10).Lab()
	tgtLab := randomPixmap(8, 8, 11).Lab()
	full, err := ApplyLab(refLab, tgtLab, Options{Method: GlobalLab, Strength: 1})
	require.NoError(t, err)
	half, err := ApplyLab(refLab, tgtLab, Options{Method: GlobalLab, Strength: 0.5})
	require.NoError(t, err)
	for i := range half.Pix {
		want := tgtLab.Pix[i]*0.5 + full.Pix[i]*0.5
		require.InDelta(t, want, half.Pix[i], 1e-9)
	}
}

func TestZoneWeightsSumToOne(t *testing.T) {
	b := stats.Boundaries{ShadowMax: 35, HighlightMin: 70}
	for _, l := range []float64{0, 10, 35, 52.5, 70, 90, 100} {
		ws := sigmoid(b.ShadowMax-l, zoneTransitionWidth)
		wh := sigmoid(l-b.HighlightMin, zoneTransitionWidth)
		wm := max(0, min(1-ws-wh, 1))
		sum := max(ws+wm+wh, 1e-10)
		ws, wm, wh = ws/sum, wm/sum, wh/sum
		require.InDelta(t, 1, ws+wm+wh, 1e-12, "L=%v", l)
		require.GreaterOrEqual(t, wm, 0.0)
	}
	// Deep shadows are dominated by the shadow transform, deep highlights by
	// the highlight one.
	require.Greater(t, sigmoid(b.ShadowMax-0, zoneTransitionWidth), 0.98)
	require.Greater(t, sigmoid(100-b.HighlightMin, zoneTransitionWidth), 0.97)
}

func TestInterp(t *testing.T) {
	xp := []float64{0, 1, 1, 2}
	fp := []float64{0, 10, 20, 30}
	testCases := []struct {
		x, want float64
	}{
		{-1, 0},   // below domain clamps to first
		{0, 0},
		{0.5, 5},
		{1, 10},   // exact hit resolves to the first matching knot
		{1.5, 25}, // flat segment passed, interpolating on the right branch
		{2, 30},
		{3, 30}, // above domain clamps to last
	}
	for _, tc := range testCases {
		require.InDelta(t, tc.want, interp(tc.x, xp, fp), 1e-12, "x=%v", tc.x)
	}
}

func TestMapTableLookup(t *testing.T) {
	tab := mapTable{values: []float64{1, 2, 3, 4}, lo: 0, binWidth: 25}
	testCases := []struct {
		v, want float64
	}{
		{-10, 1}, // clamped below
		{0, 1},
		{30, 2},
		{99, 4},
		{100, 4}, // upper edge clamps into the last bin
		{500, 4},
	}
	for _, tc := range testCases {
		require.Equal(t, tc.want, tab.lookup(tc.v), "v=%v", tc.v)
	}
}

func TestHistogramMatchShiftsDistribution(t *testing.T) {
	// Target is dark, reference is bright; the matched result's L mean must
	// move decisively towards the reference's.
	ref := randomPixmap(32, 32, 12)
	for i := range ref.Pix {
		ref.Pix[i] = 0.5 + ref.Pix[i]*0.5
	}
	tgt := randomPixmap(32, 32, 13)
	for i := range tgt.Pix {
		tgt.Pix[i] *= 0.5
	}
	refLab, tgtLab := ref.Lab(), tgt.Lab()
	out := TransferHistogram(refLab, tgtLab)
	refMean := stats.ComputeGlobal(refLab).L.Mean
	tgtMean := stats.ComputeGlobal(tgtLab).L.Mean
	outMean := stats.ComputeGlobal(out).L.Mean
	require.Greater(t, outMean, tgtMean)
	require.InDelta(t, refMean, outMean, math.Abs(refMean-tgtMean)*0.2)
}
