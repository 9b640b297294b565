/*
Package critique derives a color "look" from a reference photograph and
transplants it onto a target photograph.

The root package provides the float image foundation (Pixmap, LabImage) and
file I/O. The heavy lifting lives in the subpackages: stats extracts tonal
statistics, transfer implements the statistical transfer algorithms and the
engine, lut bakes a learned transform into 3D lookup tables (.cube files and
Hald CLUT images), and preset maps the same statistics onto editing
application controls.

All intermediate math stays in float64; quantization to 8-bit happens exactly
once, at the final output step of whichever pipeline is being run.
*/
package critique

import "fmt"

type CritiqueVersion struct {
	Major, Minor, Patch uint
}

func (v CritiqueVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

func (v CritiqueVersion) Equal(o CritiqueVersion) bool {
	return v.Major == o.Major && v.Minor == o.Minor && v.Patch == o.Patch
}

func (v CritiqueVersion) After(o CritiqueVersion) bool {
	switch {
	case v.Major == o.Major:
		switch {
		case v.Minor == o.Minor:
			return v.Patch > o.Patch
		case v.Minor > o.Minor:
			return true
		case v.Minor < o.Minor:
			return false
		}
	case v.Major > o.Major:
		return true
	case v.Major < o.Major:
		return false
	}
	return false
}

func (v CritiqueVersion) Before(o CritiqueVersion) bool {
	return !v.Equal(o) && !v.After(o)
}

var Version = CritiqueVersion{1, 0, 0}
