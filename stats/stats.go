// Package stats extracts tonal and chromatic statistics from Lab images:
// global per-channel moments, adaptive shadow/midtone/highlight zone moments
// and normalized per-channel histograms. Every transfer algorithm and the
// preset exporter are driven by the values computed here.
package stats

import (
	"math"
	"sort"

	critique "github.com/jerryhubrit/PhotoCritique"
)

// The zone partition adapts to each image: the shadow/highlight thresholds
// are the 25th/75th percentiles of L, clamped so degenerate images cannot
// collapse a zone.
const (
	shadowMaxLo   = 15.0
	shadowMaxHi   = 45.0
	highlightLo   = 55.0
	highlightHi   = 85.0
	minZonePixels = 10
)

// HistogramBins is the default histogram resolution.
const HistogramBins = 512

// Channel holds the first two moments of a single Lab channel.
type Channel struct {
	Mean, Std float64
}

// Global holds whole-image per-channel moments.
type Global struct {
	L, A, B Channel
}

// Zone holds per-channel moments for one tonal band plus the fraction of
// image pixels that fall inside the band. A zone with fewer than 10 pixels
// carries the whole-image moments and a PixelRatio of 0, so ratios need not
// sum to 1.
type Zone struct {
	L, A, B    Channel
	PixelRatio float64
}

// Zones holds the three tonal bands.
type Zones struct {
	Shadows, Midtones, Highlights Zone
}

// Channel returns the moments of Lab channel c (0=L, 1=a, 2=b).
func (g Global) Channel(c int) Channel {
	switch c {
	case 0:
		return g.L
	case 1:
		return g.A
	default:
		return g.B
	}
}

// Channel returns the moments of Lab channel c (0=L, 1=a, 2=b).
func (z Zone) Channel(c int) Channel {
	switch c {
	case 0:
		return z.L
	case 1:
		return z.A
	default:
		return z.B
	}
}

// Boundaries holds the adaptive L thresholds separating the tonal bands:
// shadows are [0, ShadowMax), midtones [ShadowMax, HighlightMin),
// highlights [HighlightMin, 100].
type Boundaries struct {
	ShadowMax, HighlightMin float64
}

// Histogram is a normalized per-channel histogram over the channel's fixed
// value range. Counts sum to 1 and Edges has len(Counts)+1 entries.
type Histogram struct {
	Counts []float64
	Edges  []float64
	Lo, Hi float64
}

// Histograms holds one histogram per Lab channel.
type Histograms struct {
	L, A, B Histogram
}

// Full aggregates everything the engine reports about a reference image.
type Full struct {
	Global     Global
	Zones      Zones
	Boundaries Boundaries
	Histograms Histograms
}

// Extract computes the complete statistics set for a Lab image.
func Extract(img *critique.LabImage) Full {
	b := ComputeBoundaries(img)
	return Full{
		Global:     ComputeGlobal(img),
		Zones:      ComputeZones(img, b),
		Boundaries: b,
		Histograms: ComputeHistograms(img, HistogramBins),
	}
}

// ComputeBoundaries derives the adaptive zone thresholds from the L channel
// distribution.
func ComputeBoundaries(img *critique.LabImage) Boundaries {
	l := channelValues(img, 0)
	sort.Float64s(l)
	return Boundaries{
		ShadowMax:    clampf(percentileSorted(l, 25), shadowMaxLo, shadowMaxHi),
		HighlightMin: clampf(percentileSorted(l, 75), highlightLo, highlightHi),
	}
}

// ComputeGlobal computes whole-image mean and standard deviation per channel.
func ComputeGlobal(img *critique.LabImage) Global {
	var sum, sumsq [3]float64
	img.EachPixel(func(px []float64) {
		for c := 0; c < 3; c++ {
			sum[c] += px[c]
			sumsq[c] += px[c] * px[c]
		}
	})
	n := float64(img.NumPixels())
	ch := func(c int) Channel {
		mean := sum[c] / n
		return Channel{Mean: mean, Std: math.Sqrt(max(0, sumsq[c]/n-mean*mean))}
	}
	return Global{L: ch(0), A: ch(1), B: ch(2)}
}

// ComputeZones partitions pixels by L into the three tonal bands and
// computes per-band moments. Bands with fewer than 10 pixels fall back to
// the whole-image moments with a PixelRatio of 0.
func ComputeZones(img *critique.LabImage, b Boundaries) Zones {
	type acc struct {
		sum, sumsq [3]float64
		count      int
	}
	var zs [3]acc
	img.EachPixel(func(px []float64) {
		var z *acc
		switch {
		case px[0] < b.ShadowMax:
			z = &zs[0]
		case px[0] < b.HighlightMin:
			z = &zs[1]
		default:
			z = &zs[2]
		}
		z.count++
		for c := 0; c < 3; c++ {
			z.sum[c] += px[c]
			z.sumsq[c] += px[c] * px[c]
		}
	})
	total := float64(img.NumPixels())
	global := ComputeGlobal(img)
	zone := func(a acc) Zone {
		if a.count < minZonePixels {
			return Zone{L: global.L, A: global.A, B: global.B, PixelRatio: 0}
		}
		n := float64(a.count)
		ch := func(c int) Channel {
			mean := a.sum[c] / n
			return Channel{Mean: mean, Std: math.Sqrt(max(0, a.sumsq[c]/n-mean*mean))}
		}
		return Zone{L: ch(0), A: ch(1), B: ch(2), PixelRatio: n / total}
	}
	return Zones{Shadows: zone(zs[0]), Midtones: zone(zs[1]), Highlights: zone(zs[2])}
}

// ChannelRange reports the fixed value range of a Lab channel.
func ChannelRange(c int) (lo, hi float64) {
	if c == 0 {
		return 0, 100
	}
	return -128, 127
}

// ComputeHistograms computes a normalized histogram per channel over the
// channel's fixed range.
func ComputeHistograms(img *critique.LabImage, bins int) Histograms {
	return Histograms{
		L: ComputeHistogram(img, 0, bins),
		A: ComputeHistogram(img, 1, bins),
		B: ComputeHistogram(img, 2, bins),
	}
}

// ComputeHistogram computes the histogram of a single channel. Counts are
// normalized to sum to 1. Values exactly at the upper range edge land in the
// last bin; values outside the range are not counted.
func ComputeHistogram(img *critique.LabImage, channel, bins int) Histogram {
	lo, hi := ChannelRange(channel)
	h := Histogram{
		Counts: make([]float64, bins),
		Edges:  make([]float64, bins+1),
		Lo:     lo,
		Hi:     hi,
	}
	width := (hi - lo) / float64(bins)
	for i := range h.Edges {
		h.Edges[i] = lo + float64(i)*width
	}
	img.EachPixel(func(px []float64) {
		v := px[channel]
		if v < lo || v > hi {
			return
		}
		idx := int((v - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		h.Counts[idx]++
	})
	total := 0.0
	for _, c := range h.Counts {
		total += c
	}
	total += 1e-10
	for i := range h.Counts {
		h.Counts[i] /= total
	}
	return h
}

// CDF returns the cumulative distribution of the histogram, normalized so
// the last entry is 1 (up to the epsilon guard against empty histograms).
func (h Histogram) CDF() []float64 {
	cdf := make([]float64, len(h.Counts))
	sum := 0.0
	for i, c := range h.Counts {
		sum += c
		cdf[i] = sum
	}
	last := cdf[len(cdf)-1] + 1e-10
	for i := range cdf {
		cdf[i] /= last
	}
	return cdf
}

// BinCenters returns the midpoints of the histogram bins.
func (h Histogram) BinCenters() []float64 {
	centers := make([]float64, len(h.Counts))
	for i := range centers {
		centers[i] = (h.Edges[i] + h.Edges[i+1]) / 2
	}
	return centers
}

func channelValues(img *critique.LabImage, channel int) []float64 {
	ans := make([]float64, 0, img.NumPixels())
	img.EachPixel(func(px []float64) {
		ans = append(ans, px[channel])
	})
	return ans
}

// percentileSorted computes the q-th percentile of sorted values with linear
// interpolation between ranks, matching the conventional definition used by
// numerical libraries.
func percentileSorted(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := q / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

func clampf(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}
