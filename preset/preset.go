// Package preset derives editing-application parameters (exposure,
// contrast, split toning, HSL channel adjustments, tone curves) from a
// reference photograph's zone statistics and serializes them as a
// Lightroom-compatible XMP develop preset.
package preset

import (
	"math"

	critique "github.com/jerryhubrit/PhotoCritique"
	"github.com/jerryhubrit/PhotoCritique/stats"

	"github.com/google/uuid"
	"github.com/lucasb-eyer/go-colorful"
)

// Tone holds the basic develop controls. Exposure is in EV stops in [-5,5];
// every other field is a percentage-style control in [-100,100] except
// Vibrance in [0,100] and Saturation in [-10,10].
type Tone struct {
	Exposure   float64
	Contrast   float64
	Highlights float64
	Shadows    float64
	Whites     float64
	Blacks     float64
	Texture    float64
	Clarity    float64
	Dehaze     float64
	Vibrance   float64
	Saturation float64
}

// SplitToning holds per-zone tint hues in [0,360) and saturations in
// [0,100]. Zones whose chroma magnitude falls below the tint threshold are
// zeroed (no tint).
type SplitToning struct {
	ShadowHue, ShadowSaturation       int
	HighlightHue, HighlightSaturation int
	MidtoneHue, MidtoneSaturation     int
	Balance                           int
	Blending                          int
}

// HueBucket identifies one of the eight fixed hue ranges used by HSL
// channel adjustments.
type HueBucket int

const (
	Red HueBucket = iota
	Orange
	Yellow
	Green
	Aqua
	Blue
	Purple
	Magenta
	NumHueBuckets
)

var hueBucketNames = [NumHueBuckets]string{
	"Red", "Orange", "Yellow", "Green", "Aqua", "Blue", "Purple", "Magenta",
}

// hueBucketRanges are [lo, hi) hue ranges in degrees; Red wraps across 0.
var hueBucketRanges = [NumHueBuckets][2]float64{
	{345, 15}, {15, 45}, {45, 75}, {75, 165}, {165, 195}, {195, 255}, {255, 315}, {315, 345},
}

func (b HueBucket) String() string { return hueBucketNames[b] }

func (b HueBucket) contains(h float64) bool {
	lo, hi := hueBucketRanges[b][0], hueBucketRanges[b][1]
	if lo > hi {
		return h >= lo || h < hi
	}
	return h >= lo && h < hi
}

// HSLAdjustment is the per-bucket hue/saturation/luminance offset triple.
// Hue is always 0: a hue shift cannot be inferred reliably from
// distribution statistics, so it is left neutral.
type HSLAdjustment struct {
	Hue, Saturation, Luminance int
}

// HSL holds the adjustment for each hue bucket.
type HSL [NumHueBuckets]HSLAdjustment

// CurvePoint is one (input, output) anchor of an 8-bit tone curve.
type CurvePoint struct {
	X, Y int
}

// Curves holds the parametric curve offsets and the point sets for the
// luminance and per-channel RGB curves.
type Curves struct {
	ParametricShadows    int
	ParametricDarks      int
	ParametricLights     int
	ParametricHighlights int

	ToneCurve  []CurvePoint
	RedCurve   []CurvePoint
	GreenCurve []CurvePoint
	BlueCurve  []CurvePoint
}

// Detail holds the sharpening and noise-reduction block.
type Detail struct {
	Sharpness                       int
	SharpenRadius                   float64
	SharpenDetail                   int
	SharpenEdgeMasking              int
	LuminanceSmoothing              int
	LuminanceNoiseReductionDetail   int
	LuminanceNoiseReductionContrast int
	ColorNoiseReduction             int
	ColorNoiseReductionDetail       int
	ColorNoiseReductionSmoothness   int
}

// Preset is the complete derived parameter set for one reference image.
type Preset struct {
	Name string
	UUID string

	Tone        Tone
	SplitToning SplitToning
	HSL         HSL
	Curves      Curves
	Detail      Detail
}

// New derives a Preset from a reference image. The statistics side reuses
// the same zone extraction the transfer engine runs on; the HSL buckets
// need an additional HSV pass over the RGB pixels.
func New(ref *critique.Pixmap, name string) *Preset {
	lab := ref.Lab()
	zones := stats.ComputeZones(lab, stats.ComputeBoundaries(lab))
	global := stats.ComputeGlobal(lab)

	return &Preset{
		Name:        name,
		UUID:        uuid.NewString(),
		Tone:        DeriveTone(zones, global),
		SplitToning: DeriveSplitToning(zones),
		HSL:         DeriveHSL(ref),
		Curves:      DeriveCurves(zones),
		Detail:      DeriveDetail(global),
	}
}

// DeriveTone maps zone and global statistics onto the basic develop
// controls. Each mapping measures the deviation of a statistic from a
// neutral anchor (midtone L of 50, highlight L of 80, shadow L of 15,
// L standard deviation of 20) and scales it into the control's range.
func DeriveTone(zones stats.Zones, global stats.Global) Tone {
	midL := zones.Midtones.L.Mean
	shadowL := zones.Shadows.L.Mean
	highlightL := zones.Highlights.L.Mean
	lStd := global.L.Std

	exposure := clampf((midL-50)/50.0*0.6, -5, 5)
	contrast := clampf((highlightL-shadowL-50)/30.0*30.0, -100, 100)
	highlights := clampf((highlightL-80)/20.0*-40.0, -100, 100)
	shadows := clampf((shadowL-15)/15.0*40.0, -100, 100)
	clarity := clampf((lStd-20)/15.0*25.0, -100, 100)

	abMagnitude := math.Hypot(global.A.Mean, global.B.Mean)
	vibrance := clampf(abMagnitude*4.0, 0, 100)

	return Tone{
		Exposure:   exposure,
		Contrast:   contrast,
		Highlights: highlights,
		Shadows:    shadows,
		Whites:     clampf(highlights*0.4, -100, 100),
		Blacks:     clampf(shadows*0.6, -100, 100),
		Texture:    clampf(clarity*0.2, -100, 100),
		Clarity:    clarity,
		Dehaze:     clampf(clarity*0.5, -100, 100),
		Vibrance:   vibrance,
		Saturation: clampf(vibrance*0.05, -10, 10),
	}
}

// tintThreshold is the chroma magnitude below which a zone is treated as
// untinted. Kept low so subtle looks survive.
const tintThreshold = 2

// DeriveSplitToning converts each zone's mean chroma vector into a hue
// angle and saturation magnitude.
func DeriveSplitToning(zones stats.Zones) SplitToning {
	hue := func(z stats.Zone) int { return int(chromaHue(z.A.Mean, z.B.Mean)) }
	sat := func(z stats.Zone, scale float64) int {
		s := clampf(math.Hypot(z.A.Mean, z.B.Mean)*scale, 0, 100)
		if s < tintThreshold {
			return 0
		}
		return int(s)
	}
	return SplitToning{
		ShadowHue:           hue(zones.Shadows),
		ShadowSaturation:    sat(zones.Shadows, 1.5),
		HighlightHue:        hue(zones.Highlights),
		HighlightSaturation: sat(zones.Highlights, 1.5),
		MidtoneHue:          hue(zones.Midtones),
		MidtoneSaturation:   sat(zones.Midtones, 1.0),
		Balance:             0,
		Blending:            50,
	}
}

// chromaHue converts Lab chroma components to a hue angle in [0,360).
func chromaHue(a, b float64) float64 {
	hue := math.Atan2(b, a) * 180 / math.Pi
	if hue < 0 {
		hue += 360
	}
	return hue
}

// Neutral HSV anchors for the bucket offsets. Fixed constants rather than
// image-derived: an intentional simplification.
const (
	neutralSaturation = 0.45
	neutralValue      = 0.5
	// Pixels with less saturation than this are near-gray and excluded
	// from bucket statistics.
	grayMask = 0.1
	// Buckets with fewer qualifying pixels than this get no adjustment.
	minBucketPixels = 100
)

// DeriveHSL partitions pixels into the eight hue buckets and derives
// saturation/luminance offsets from their deviation from the neutral
// anchors.
func DeriveHSL(ref *critique.Pixmap) HSL {
	type acc struct {
		satSum, valSum float64
		count          int
	}
	var buckets [NumHueBuckets]acc

	for y := 0; y < ref.Height; y++ {
		row := ref.Pix[ref.Stride*y : ref.Stride*y+ref.Width*3]
		for x := 0; x < ref.Width; x++ {
			px := row[x*3 : x*3+3 : x*3+3]
			h, s, v := colorful.Color{R: px[0], G: px[1], B: px[2]}.Hsv()
			if s <= grayMask {
				continue
			}
			for b := HueBucket(0); b < NumHueBuckets; b++ {
				if b.contains(h) {
					buckets[b].satSum += s
					buckets[b].valSum += v
					buckets[b].count++
					break
				}
			}
		}
	}

	var ans HSL
	for b := HueBucket(0); b < NumHueBuckets; b++ {
		if buckets[b].count < minBucketPixels {
			continue
		}
		n := float64(buckets[b].count)
		avgSat := buckets[b].satSum / n
		avgVal := buckets[b].valSum / n
		ans[b] = HSLAdjustment{
			Hue:        0,
			Saturation: int(clampf((avgSat-neutralSaturation)*30.0, -20, 20)),
			Luminance:  int(clampf((avgVal-neutralValue)*30.0, -20, 25)),
		}
	}
	return ans
}

// DeriveCurves builds the parametric offsets and the luminance/RGB curve
// anchors. The RGB channel shifts come from each zone's chroma means:
// positive a pushes red, negative a pushes green, negative b pushes blue.
func DeriveCurves(zones stats.Zones) Curves {
	shadowL := zones.Shadows.L.Mean
	highlightL := zones.Highlights.L.Mean

	shadowA, shadowB := zones.Shadows.A.Mean, zones.Shadows.B.Mean
	midA, midB := zones.Midtones.A.Mean, zones.Midtones.B.Mean
	highA, highB := zones.Highlights.A.Mean, zones.Highlights.B.Mean

	shadowLift := max(0, int((shadowL-10)*0.5))

	channelCurve := func(shadowShift, midShift, highShift, shadowCap, highCap int) []CurvePoint {
		return []CurvePoint{
			{0, 0},
			{25, max(0, min(shadowCap, 22+shadowShift))},
			{128, max(80, min(175, 128+midShift))},
			{200, max(160, min(highCap, 200+highShift))},
			{255, 255},
		}
	}

	return Curves{
		ParametricShadows:    int(clampf((shadowL-15)*0.8, -50, 50)),
		ParametricDarks:      int(clampf((shadowL-20)*1.0, -50, 50)),
		ParametricLights:     int(clampf((highlightL-80)*-0.6, -50, 50)),
		ParametricHighlights: int(clampf((highlightL-85)*-0.4, -50, 50)),

		ToneCurve: []CurvePoint{
			{0, 0}, {63, min(80, 56 + shadowLift)}, {141, 141}, {255, 255},
		},
		RedCurve: channelCurve(
			int(clampf(shadowA*0.12+shadowB*0.05, -12, 12)),
			int(clampf(midA*0.08+midB*0.03, -8, 8)),
			int(clampf(highA*0.10+highB*0.04, -10, 10)),
			40, 240),
		GreenCurve: channelCurve(
			int(clampf(-shadowA*0.10, -10, 10)),
			int(clampf(-midA*0.06, -6, 6)),
			int(clampf(-highA*0.08, -8, 8)),
			40, 240),
		BlueCurve: channelCurve(
			int(clampf(-shadowB*0.15-shadowA*0.05, -15, 15)),
			int(clampf(-midB*0.08, -8, 8)),
			int(clampf(-highB*0.12-highA*0.04, -12, 12)),
			45, 245),
	}
}

// DeriveDetail computes the sharpening and noise-reduction block from the
// global L standard deviation, the same local-contrast proxy driving
// clarity.
func DeriveDetail(global stats.Global) Detail {
	clarityFactor := (global.L.Std - 20) / 15.0
	return Detail{
		Sharpness:                       int(clampf(12+clarityFactor*8, 0, 80)),
		SharpenRadius:                   1.0,
		SharpenDetail:                   25,
		SharpenEdgeMasking:              0,
		LuminanceSmoothing:              int(clampf(5-clarityFactor*2, 0, 50)),
		LuminanceNoiseReductionDetail:   50,
		LuminanceNoiseReductionContrast: 0,
		ColorNoiseReduction:             25,
		ColorNoiseReductionDetail:       50,
		ColorNoiseReductionSmoothness:   50,
	}
}

func clampf(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}
