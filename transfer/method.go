// Package transfer implements statistical color transfer between
// photographs. A reference image's tonal statistics are extracted in Lab
// space and imposed on a target image by one of four closed-form algorithms;
// the engine wraps the algorithms with luminance preservation, strength
// blending and the final 8-bit quantization.
package transfer

import (
	"errors"
	"fmt"
	"strings"
)

// Method selects one of the transfer algorithms.
type Method int

const (
	// GlobalLab is plain Reinhard matching: each Lab channel's mean and
	// standard deviation are shifted and scaled to the reference's.
	GlobalLab Method = iota
	// ZoneBased matches chroma statistics independently in shadows,
	// midtones and highlights, blended with soft sigmoid weights.
	ZoneBased
	// HistogramMatch aligns each channel's full distribution shape via CDF
	// interpolation.
	HistogramMatch
	// Improved runs histogram matching first, then zone-based chroma
	// matching on the intermediate result.
	Improved
)

var methodNames = map[Method]string{
	GlobalLab:      "global_lab",
	ZoneBased:      "zone_based",
	HistogramMatch: "histogram",
	Improved:       "improved",
}

func (m Method) String() string {
	if s, ok := methodNames[m]; ok {
		return s
	}
	return fmt.Sprintf("Method(%d)", int(m))
}

// Methods lists the valid method names in declaration order.
func Methods() []string {
	return []string{
		GlobalLab.String(), ZoneBased.String(), HistogramMatch.String(), Improved.String(),
	}
}

// ErrUnknownMethod is a configuration error: the requested transfer method
// does not exist.
var ErrUnknownMethod = errors.New("unknown transfer method")

// ErrBadStrength is a configuration error: the blend strength is outside [0,1].
var ErrBadStrength = errors.New("transfer strength must be in [0,1]")

// ParseMethod maps a method name to its Method. Unknown names return an
// error wrapping ErrUnknownMethod that lists the valid choices.
func ParseMethod(s string) (Method, error) {
	for m, name := range methodNames {
		if name == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q (valid: %s)", ErrUnknownMethod, s, strings.Join(Methods(), ", "))
}
