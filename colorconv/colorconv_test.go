package colorconv

import (
	"math"
	"testing"
)

func nearlyEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

var tableCases = []struct {
	name    string
	R, G, B float64
	L       float64 // regression values computed against the CIE formulas
	a       float64
	b       float64
}{
	{"black", 0, 0, 0, 0, 0, 0},
	{"white", 1, 1, 1, 100, 0, 0},
	{"mid gray", 0.5, 0.5, 0.5, 53.388967, 0, 0},
	{"pure red", 1, 0, 0, 53.240794, 80.092460, 67.203197},
	{"pure green", 0, 1, 0, 87.734722, -86.182716, 83.179321},
	{"pure blue", 0, 0, 1, 32.297011, 79.187520, -107.860162},
	{"warm orange", 200.0 / 255, 140.0 / 255, 80.0 / 255, 63.025460, 16.548449, 40.720158},
	{"dark violet", 0.2, 0.05, 0.35, 13.889625, 34.597119, -37.666145},
}

func TestSRGBToLab_TableDriven(t *testing.T) {
	eps := 1e-4
	for _, tc := range tableCases {
		t.Run(tc.name, func(t *testing.T) {
			L, a, b := SRGBToLab(tc.R, tc.G, tc.B)
			if !nearlyEqual(L, tc.L, eps) || !nearlyEqual(a, tc.a, eps) || !nearlyEqual(b, tc.b, eps) {
				t.Fatalf("SRGBToLab(%v, %v, %v) = (%.6f, %.6f, %.6f), want (%.6f, %.6f, %.6f)",
					tc.R, tc.G, tc.B, L, a, b, tc.L, tc.a, tc.b)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	// In-gamut colors must survive sRGB -> Lab -> sRGB within float rounding.
	eps := 1e-6
	for _, tc := range tableCases {
		t.Run(tc.name, func(t *testing.T) {
			L, a, b := SRGBToLab(tc.R, tc.G, tc.B)
			r, g, bl := LabToSRGB(L, a, b)
			if !nearlyEqual(r, tc.R, eps) || !nearlyEqual(g, tc.G, eps) || !nearlyEqual(bl, tc.B, eps) {
				t.Fatalf("round trip of (%v, %v, %v) gave (%.9f, %.9f, %.9f)",
					tc.R, tc.G, tc.B, r, g, bl)
			}
		})
	}
}

func TestRoundTripDense(t *testing.T) {
	eps := 1e-6
	for ri := 0; ri <= 10; ri++ {
		for gi := 0; gi <= 10; gi++ {
			for bi := 0; bi <= 10; bi++ {
				r0, g0, b0 := float64(ri)/10, float64(gi)/10, float64(bi)/10
				L, a, b := SRGBToLab(r0, g0, b0)
				r, g, bl := LabToSRGB(L, a, b)
				if !nearlyEqual(r, r0, eps) || !nearlyEqual(g, g0, eps) || !nearlyEqual(bl, b0, eps) {
					t.Fatalf("round trip of (%v, %v, %v) gave (%.9f, %.9f, %.9f)", r0, g0, b0, r, g, bl)
				}
			}
		}
	}
}

func TestOutOfGamutClips(t *testing.T) {
	// Highly chromatic Lab values land outside the sRGB cube; results must clip.
	cases := []struct{ L, a, b float64 }{
		{50, 120, 120},
		{80, -150, 50},
		{5, 60, -40},
		{99, -80, 90},
	}
	for _, tc := range cases {
		r, g, b := LabToSRGB(tc.L, tc.a, tc.b)
		for _, v := range []float64{r, g, b} {
			if v < 0 || v > 1 {
				t.Fatalf("LabToSRGB(%v, %v, %v) = (%v, %v, %v), component out of [0,1]",
					tc.L, tc.a, tc.b, r, g, b)
			}
		}
	}
}
