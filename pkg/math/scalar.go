// Package math provides float32 vector, matrix and scalar helpers for the
// map viewer. Transcendental functions come from chewxy/math32.
package math

import "github.com/chewxy/math32"

// Pi as float32.
const Pi = math32.Pi

// Epsilon is the tolerance used by approximate comparisons.
const Epsilon = 1e-5

// Lerp returns a + (b-a)*t.
func Lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 limits v to [0, 1].
func Clamp01(v float32) float32 {
	return Clamp(v, 0, 1)
}

// Pow returns x**y.
func Pow(x, y float32) float32 {
	return math32.Pow(x, y)
}

// Sqrt returns the square root of x.
func Sqrt(x float32) float32 {
	return math32.Sqrt(x)
}

// Abs returns the absolute value of x.
func Abs(x float32) float32 {
	return math32.Abs(x)
}

// IsFinite reports whether x is neither NaN nor an infinity.
func IsFinite(x float32) bool {
	return !math32.IsNaN(x) && !math32.IsInf(x, 0)
}

// ApproxEqual reports whether a and b differ by at most tol.
func ApproxEqual(a, b, tol float32) bool {
	return math32.Abs(a-b) <= tol
}

// DegToRad converts degrees to radians.
func DegToRad(deg float32) float32 {
	return deg * Pi / 180
}

// Max returns the larger of a and b.
func Max(a, b float32) float32 {
	return math32.Max(a, b)
}

// Min returns the smaller of a and b.
func Min(a, b float32) float32 {
	return math32.Min(a, b)
}
