package transfer

import (
	"fmt"
	"image"
	"time"

	critique "github.com/jerryhubrit/PhotoCritique"
	"github.com/jerryhubrit/PhotoCritique/stats"
)

// Options configures a transfer run.
type Options struct {
	Method Method
	// Strength blends the transformed image with the original in Lab
	// space: out = original*(1-Strength) + transformed*Strength.
	Strength float64
	// PreserveLuminance keeps the target's original L channel, so only
	// chroma is transplanted.
	PreserveLuminance bool
}

// Result is the outcome of a transfer run. RefStats is the full statistics
// set extracted from the reference, returned so callers can report on or
// re-use it (the preset exporter derives its parameters from the same data).
type Result struct {
	Image    *image.NRGBA
	RefStats stats.Full
	Elapsed  time.Duration
}

// Transfer imposes the reference image's color look onto the target. Both
// images are converted to Lab, the selected algorithm runs entirely in
// float, and the result is quantized to 8 bits exactly once at the end.
func Transfer(ref, tgt *critique.Pixmap, opts Options) (Result, error) {
	start := time.Now()
	refLab := ref.Lab()
	tgtLab := tgt.Lab()
	refStats := stats.Extract(refLab)

	resultLab, err := ApplyLab(refLab, tgtLab, opts)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Image:    resultLab.Pixmap().Image(),
		RefStats: refStats,
		Elapsed:  time.Since(start),
	}, nil
}

// ApplyLab runs the algorithm dispatch, luminance preservation and strength
// blending in Lab space without any quantization. The LUT generator uses
// this entry point so baked lattices keep full float precision.
func ApplyLab(refLab, tgtLab *critique.LabImage, opts Options) (*critique.LabImage, error) {
	if opts.Strength < 0 || opts.Strength > 1 {
		return nil, fmt.Errorf("%w: %v", ErrBadStrength, opts.Strength)
	}

	var result *critique.LabImage
	switch opts.Method {
	case GlobalLab:
		result = TransferGlobalLab(refLab, tgtLab)
	case ZoneBased:
		result = TransferZoneBased(refLab, tgtLab)
	case HistogramMatch:
		result = TransferHistogram(refLab, tgtLab)
	case Improved:
		result = TransferImproved(refLab, tgtLab)
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownMethod, int(opts.Method))
	}

	if opts.PreserveLuminance {
		copyChannel(result, tgtLab, 0)
	}
	if opts.Strength < 1 {
		blend(result, tgtLab, opts.Strength)
	}
	return result, nil
}

func copyChannel(dst, src *critique.LabImage, channel int) {
	for y := 0; y < dst.Height; y++ {
		drow := dst.Pix[dst.Stride*y:]
		srow := src.Pix[src.Stride*y:]
		for x := 0; x < dst.Width; x++ {
			drow[x*3+channel] = srow[x*3+channel]
		}
	}
}

// blend mixes dst towards src: dst = src*(1-strength) + dst*strength.
// A convex combination of in-range Lab values stays in range, so no further
// clamping is needed.
func blend(dst, src *critique.LabImage, strength float64) {
	for y := 0; y < dst.Height; y++ {
		drow := dst.Pix[dst.Stride*y : dst.Stride*y+dst.Width*3]
		srow := src.Pix[src.Stride*y : src.Stride*y+src.Width*3]
		for i := range drow {
			drow[i] = srow[i]*(1-strength) + drow[i]*strength
		}
	}
}
