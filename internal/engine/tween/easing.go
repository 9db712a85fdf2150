// Package tween provides the time-stepped animation primitives shared by the
// globe: eased float32 tasks, cancelable groups and a frame scheduler.
package tween

import "github.com/tanema/gween/ease"

// Easing maps normalized progress in [0,1] to an eased fraction.
type Easing func(t float32) float32

// normalize adapts a gween curve (time, begin, change, duration) to unit range.
func normalize(fn ease.TweenFunc) Easing {
	return func(t float32) float32 {
		if t <= 0 {
			return 0
		}
		if t >= 1 {
			return 1
		}
		return fn(t, 0, 1, 1)
	}
}

// Easing curves used by the viewer.
var (
	Linear         = normalize(ease.Linear)
	QuadraticInOut = normalize(ease.InOutQuad)
	ExponentialIn  = normalize(ease.InExpo)
	CubicIn        = normalize(ease.InCubic)
	CubicOut       = normalize(ease.OutCubic)
)
