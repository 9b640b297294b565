package transfer

import (
	"math"
	"sort"

	critique "github.com/jerryhubrit/PhotoCritique"
	"github.com/jerryhubrit/PhotoCritique/stats"
)

const (
	// Standard-deviation floor guarding the Reinhard scale against
	// zero-variance channels.
	epsStd = 1e-6
	// Width of the sigmoid transition between tonal zones. Wider is
	// smoother; 8 L units avoids visible seams at zone boundaries.
	zoneTransitionWidth = 8.0
)

// TransferGlobalLab performs Reinhard statistical matching: for each Lab
// channel, out = (v - tgtMean) / tgtStd * refStd + refMean.
func TransferGlobalLab(ref, tgt *critique.LabImage) *critique.LabImage {
	refG := stats.ComputeGlobal(ref)
	tgtG := stats.ComputeGlobal(tgt)
	result := tgt.Clone()
	result.EachPixel(func(px []float64) {
		for c := 0; c < 3; c++ {
			px[c] = reinhard(px[c], tgtG.Channel(c), refG.Channel(c))
		}
	})
	result.Clamp()
	return result
}

// TransferZoneBased matches chroma statistics per tonal zone, blended with
// soft sigmoid weights, while the L channel gets plain global matching so
// the tonal curve stays coherent across zone boundaries.
func TransferZoneBased(ref, tgt *critique.LabImage) *critique.LabImage {
	refZones := stats.ComputeZones(ref, stats.ComputeBoundaries(ref))
	tgtB := stats.ComputeBoundaries(tgt)
	tgtZones := stats.ComputeZones(tgt, tgtB)
	refG := stats.ComputeGlobal(ref)
	tgtG := stats.ComputeGlobal(tgt)

	result := tgt.Clone()
	result.EachPixel(func(px []float64) {
		newL := reinhard(px[0], tgtG.L, refG.L)
		zoneChromaPixel(px, tgtB, tgtZones, refZones)
		px[0] = newL
	})
	result.Clamp()
	return result
}

// TransferHistogram matches each channel's distribution shape to the
// reference via CDF alignment with linear interpolation.
func TransferHistogram(ref, tgt *critique.LabImage) *critique.LabImage {
	var tables [3]mapTable
	for c := 0; c < 3; c++ {
		tables[c] = buildMatchTable(
			stats.ComputeHistogram(tgt, c, stats.HistogramBins),
			stats.ComputeHistogram(ref, c, stats.HistogramBins),
		)
	}
	result := tgt.Clone()
	result.EachPixel(func(px []float64) {
		for c := 0; c < 3; c++ {
			px[c] = tables[c].lookup(px[c])
		}
	})
	result.Clamp()
	return result
}

// TransferImproved composes histogram matching (which aligns the tonal
// distribution, dominated by L) with zone-based chroma matching recomputed
// on the histogram-matched intermediate image.
func TransferImproved(ref, tgt *critique.LabImage) *critique.LabImage {
	result := TransferHistogram(ref, tgt)

	refZones := stats.ComputeZones(ref, stats.ComputeBoundaries(ref))
	b := stats.ComputeBoundaries(result)
	srcZones := stats.ComputeZones(result, b)

	result.EachPixel(func(px []float64) {
		zoneChromaPixel(px, b, srcZones, refZones)
	})
	result.Clamp()
	return result
}

// reinhard shifts and scales a value so its source distribution's moments
// match the reference's.
func reinhard(v float64, src, ref stats.Channel) float64 {
	return (v - src.Mean) / max(src.Std, epsStd) * ref.Std + ref.Mean
}

func sigmoid(x, width float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x/max(width, 0.1)))
}

// zoneChromaPixel rewrites the chroma channels of one pixel as the
// soft-weighted blend of the three per-zone Reinhard transforms. Weights are
// derived from the pixel's own L against the source image's boundaries and
// renormalized to sum to 1.
func zoneChromaPixel(px []float64, b stats.Boundaries, srcZones, refZones stats.Zones) {
	l := px[0]
	ws := sigmoid(b.ShadowMax-l, zoneTransitionWidth)
	wh := sigmoid(l-b.HighlightMin, zoneTransitionWidth)
	wm := max(0, min(1-ws-wh, 1))
	sum := max(ws+wm+wh, 1e-10)
	ws, wm, wh = ws/sum, wm/sum, wh/sum

	for c := 1; c < 3; c++ {
		v := px[c]
		ts := reinhard(v, srcZones.Shadows.Channel(c), refZones.Shadows.Channel(c))
		tm := reinhard(v, srcZones.Midtones.Channel(c), refZones.Midtones.Channel(c))
		th := reinhard(v, srcZones.Highlights.Channel(c), refZones.Highlights.Channel(c))
		px[c] = ws*ts + wm*tm + wh*th
	}
}

// mapTable maps channel values to their histogram-matched replacements via
// the value's bin index.
type mapTable struct {
	values   []float64
	lo       float64
	binWidth float64
}

func (t mapTable) lookup(v float64) float64 {
	idx := int((v - t.lo) / t.binWidth)
	idx = max(0, min(idx, len(t.values)-1))
	return t.values[idx]
}

// buildMatchTable computes, per source bin, the reference bin-center value at
// the same CDF position: values[j] = interp(srcCDF[j], refCDF, refCenters).
func buildMatchTable(src, ref stats.Histogram) mapTable {
	srcCDF := src.CDF()
	refCDF := ref.CDF()
	refCenters := ref.BinCenters()
	values := make([]float64, len(srcCDF))
	for j, p := range srcCDF {
		values[j] = interp(p, refCDF, refCenters)
	}
	return mapTable{
		values:   values,
		lo:       src.Lo,
		binWidth: (src.Hi - src.Lo) / float64(len(src.Counts)),
	}
}

// interp evaluates piecewise-linear interpolation of (xp, fp) at x, with xp
// nondecreasing. Outside the domain the boundary values are returned; flat
// segments resolve to their right endpoint.
func interp(x float64, xp, fp []float64) float64 {
	if x <= xp[0] {
		return fp[0]
	}
	n := len(xp)
	if x >= xp[n-1] {
		return fp[n-1]
	}
	i := sort.SearchFloat64s(xp, x)
	if xp[i] == x {
		return fp[i]
	}
	dx := xp[i] - xp[i-1]
	if dx == 0 {
		return fp[i]
	}
	frac := (x - xp[i-1]) / dx
	return fp[i-1]*(1-frac) + fp[i]*frac
}
