// Package colorconv converts between gamma-corrected sRGB values in [0,1]
// and CIE L*a*b* defined relative to the D65 white point. Both directions
// are provided because the transfer engine round-trips every pixel: forward
// for statistics extraction in the perceptual space, inverse to produce
// output.
//
// Notes:
//   - L is in [0,100], a and b roughly in [-128,127].
//   - LabToSRGB clips out-of-gamut results to the [0,1] cube. The transform
//     itself is exact; only the final clip loses information, which bounds
//     the round-trip error for in-gamut colors by floating rounding alone.
package colorconv

import (
	"math"
)

type Vec3 [3]float64
type Mat3 [3][3]float64

// D65 reference white (CIE XYZ) normalized so Y = 1.0
var whiteD65 = Vec3{0.95047, 1.00000, 1.08883}

// Linear sRGB <-> CIE XYZ matrices, both relative to D65 (IEC 61966-2-1).
var (
	xyzFromLinearSRGB = Mat3{
		{0.4124564, 0.3575761, 0.1804375},
		{0.2126729, 0.7151522, 0.0721750},
		{0.0193339, 0.1191920, 0.9503041},
	}
	linearSRGBFromXYZ = Mat3{
		{3.2404542, -1.5371385, -0.4985314},
		{-0.9692660, 1.8760108, 0.0415560},
		{0.0556434, -0.2040259, 1.0572252},
	}
)

// Public API

// SRGBToLab converts gamma-corrected sRGB components in [0,1] to CIELAB (D65).
func SRGBToLab(r, g, b float64) (L, a, bb float64) {
	X, Y, Z := SRGBToXYZ(r, g, b)
	return xyzToLab(X, Y, Z)
}

// LabToSRGB converts a Lab color (D65) into gamma-corrected sRGB.
// Returned components are clipped to [0,1].
func LabToSRGB(L, a, b float64) (r, g, bl float64) {
	X, Y, Z := labToXYZ(L, a, b)
	rl, gl, bl2 := mulMat3Vec(linearSRGBFromXYZ, Vec3{X, Y, Z})
	r = clamp01(linearToSRGBComp(rl))
	g = clamp01(linearToSRGBComp(gl))
	bl = clamp01(linearToSRGBComp(bl2))
	return
}

// SRGBToXYZ converts gamma-corrected sRGB to CIE XYZ (D65, Y=1 white).
func SRGBToXYZ(r, g, b float64) (X, Y, Z float64) {
	rl := srgbCompToLinear(r)
	gl := srgbCompToLinear(g)
	bl := srgbCompToLinear(b)
	return mulMat3Vec(xyzFromLinearSRGB, Vec3{rl, gl, bl})
}

// Helpers: core conversions

func finv(t float64) float64 {
	const delta = 6.0 / 29.0
	if t > delta {
		return t * t * t
	}
	// when t <= delta: 3*delta^2*(t - 4/29)
	return 3 * delta * delta * (t - 4.0/29.0)
}

// labToXYZ converts Lab (D65) to CIE XYZ values relative to D65 (Y=1).
func labToXYZ(L, a, b float64) (X, Y, Z float64) {
	// Inverse of the CIELAB f function
	var fy = (L + 16.0) / 116.0
	var fx = fy + (a / 500.0)
	var fz = fy - (b / 200.0)

	X = finv(fx) * whiteD65[0]
	Y = finv(fy) * whiteD65[1]
	Z = finv(fz) * whiteD65[2]
	return
}

func ff(t float64) float64 {
	const delta = 6.0 / 29.0
	if t > delta*delta*delta {
		return math.Cbrt(t)
	}
	// t <= delta^3
	return t/(3*delta*delta) + 4.0/29.0
}

func xyzToLab(X, Y, Z float64) (L, a, b float64) {
	fx := ff(X / whiteD65[0])
	fy := ff(Y / whiteD65[1])
	fz := ff(Z / whiteD65[2])

	L = 116.0*fy - 16.0
	a = 500.0 * (fx - fy)
	b = 200.0 * (fy - fz)
	return
}

// srgbCompToLinear inverts the sRGB (gamma) companding on a single component.
func srgbCompToLinear(c float64) float64 {
	if c <= 0 {
		return 0.0
	}
	if c <= 0.04045 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

// linearToSRGBComp applies the sRGB (gamma) companding function to a linear component.
func linearToSRGBComp(c float64) float64 {
	if c <= 0 {
		return 0.0
	}
	if c <= 0.0031308 {
		return 12.92 * c
	}
	return 1.055*math.Pow(c, 1.0/2.4) - 0.055
}

// clamp01 clamps value to [0,1]
func clamp01(x float64) float64 {
	return max(0, min(x, 1))
}

// Matrix & vector utilities

func mulMat3Vec(m Mat3, v Vec3) (x, y, z float64) {
	x = m[0][0]*v[0] + m[0][1]*v[1] + m[0][2]*v[2]
	y = m[1][0]*v[0] + m[1][1]*v[1] + m[1][2]*v[2]
	z = m[2][0]*v[0] + m[2][1]*v[1] + m[2][2]*v[2]
	return
}
