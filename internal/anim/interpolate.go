// Package anim provides the timed animation primitives scene components
// are built from: frame-indexed interpolation and spring curves. Every
// function here is a pure function of its inputs so any frame can be
// evaluated independently and in any order.
package anim

import (
	"fmt"
	"math"

	"github.com/tanema/gween/ease"
)

// Extrapolate selects what happens outside the input range.
type Extrapolate int

const (
	// Extend continues the first/last segment linearly beyond the range.
	Extend Extrapolate = iota
	// Clamp pins the value to the first/last output stop.
	Clamp
)

type options struct {
	easing ease.TweenFunc
	left   Extrapolate
	right  Extrapolate
}

// Option adjusts easing or extrapolation behavior of Interpolate.
type Option func(*options)

// WithEasing applies fn to the normalized progress within each segment.
// Easing never applies outside the input range.
func WithEasing(fn ease.TweenFunc) Option {
	return func(o *options) { o.easing = fn }
}

// WithExtrapolateLeft sets the policy for frames before the first stop.
func WithExtrapolateLeft(p Extrapolate) Option {
	return func(o *options) { o.left = p }
}

// WithExtrapolateRight sets the policy for frames after the last stop.
func WithExtrapolateRight(p Extrapolate) Option {
	return func(o *options) { o.right = p }
}

// WithClamp pins both sides of the range.
func WithClamp() Option {
	return func(o *options) {
		o.left = Clamp
		o.right = Clamp
	}
}

// Interpolate maps a frame position onto an output value through a
// piecewise-linear curve. inputRange holds strictly increasing frame
// stops, outputRange the value at each stop. Frames between stops are
// interpolated (eased when WithEasing is given); frames outside the
// range follow the extrapolation policy, Extend by default.
//
// Ranges are authored in code, so a malformed pair is a bug in the
// caller: Interpolate panics instead of guessing.
func Interpolate(frame float64, inputRange, outputRange []float64, opts ...Option) float64 {
	validateRanges(inputRange, outputRange)

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	last := len(inputRange) - 1

	// Before the first stop.
	if frame < inputRange[0] {
		if o.left == Clamp {
			return outputRange[0]
		}
		return extrapolate(frame, inputRange[0], inputRange[1], outputRange[0], outputRange[1])
	}

	// After the last stop.
	if frame > inputRange[last] {
		if o.right == Clamp {
			return outputRange[last]
		}
		return extrapolate(frame, inputRange[last-1], inputRange[last], outputRange[last-1], outputRange[last])
	}

	// Find the segment containing the frame.
	seg := last - 1
	for i := 0; i < last; i++ {
		if frame < inputRange[i+1] {
			seg = i
			break
		}
	}

	t := (frame - inputRange[seg]) / (inputRange[seg+1] - inputRange[seg])
	if o.easing != nil {
		t = float64(o.easing(float32(t), 0, 1, 1))
	}
	return lerp(outputRange[seg], outputRange[seg+1], t)
}

// extrapolate continues the line through (x0,y0)-(x1,y1) at x.
func extrapolate(x, x0, x1, y0, y1 float64) float64 {
	return y0 + (x-x0)/(x1-x0)*(y1-y0)
}

// lerp performs linear interpolation between a and b.
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

func validateRanges(inputRange, outputRange []float64) {
	if len(inputRange) < 2 {
		panic(fmt.Sprintf("anim: input range needs at least 2 stops, got %d", len(inputRange)))
	}
	if len(inputRange) != len(outputRange) {
		panic(fmt.Sprintf("anim: range length mismatch: %d inputs, %d outputs", len(inputRange), len(outputRange)))
	}
	for i, v := range inputRange {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			panic(fmt.Sprintf("anim: input range stop %d is not finite", i))
		}
		if i > 0 && v <= inputRange[i-1] {
			panic(fmt.Sprintf("anim: input range must be strictly increasing, stop %d (%v) <= stop %d (%v)", i, v, i-1, inputRange[i-1]))
		}
	}
	for i, v := range outputRange {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			panic(fmt.Sprintf("anim: output range stop %d is not finite", i))
		}
	}
}
