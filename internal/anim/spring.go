package anim

import "math"

// SpringConfig describes the physical spring behind a settling curve.
// The zero value is not useful; start from DefaultSpring.
type SpringConfig struct {
	Mass      float64
	Stiffness float64
	Damping   float64
	// OvershootClamping cuts the curve off at the target value so an
	// underdamped spring never swings past it.
	OvershootClamping bool
}

// DefaultSpring returns the standard gentle settle used by most scenes.
func DefaultSpring() SpringConfig {
	return SpringConfig{Mass: 1, Stiffness: 100, Damping: 10}
}

// Spring evaluates a damped spring released at frame 0 toward 1.
// The solution is closed form, so evaluation at any frame is O(1) and
// independent of every other frame. Frames at or before 0 return 0.
func Spring(frame, fps float64, cfg SpringConfig) float64 {
	if frame <= 0 || fps <= 0 {
		return 0
	}
	m := cfg.Mass
	if m <= 0 {
		m = 1
	}
	k := cfg.Stiffness
	if k <= 0 {
		k = 100
	}
	c := cfg.Damping
	if c <= 0 {
		c = 10
	}

	t := frame / fps
	w0 := math.Sqrt(k / m)
	zeta := c / (2 * math.Sqrt(k*m))

	var x float64
	switch {
	case zeta < 1:
		// Underdamped: decaying oscillation around the target.
		wd := w0 * math.Sqrt(1-zeta*zeta)
		e := math.Exp(-zeta * w0 * t)
		x = 1 - e*(math.Cos(wd*t)+(zeta*w0/wd)*math.Sin(wd*t))
	case zeta == 1:
		// Critically damped: fastest settle with no overshoot.
		e := math.Exp(-w0 * t)
		x = 1 - e*(1+w0*t)
	default:
		// Overdamped: two real decay rates.
		s := math.Sqrt(zeta*zeta - 1)
		r1 := -w0 * (zeta - s)
		r2 := -w0 * (zeta + s)
		x = 1 - (r2*math.Exp(r1*t)-r1*math.Exp(r2*t))/(r2-r1)
	}

	if cfg.OvershootClamping && x > 1 {
		x = 1
	}
	return x
}

// SpringValue scales a spring curve onto the from..to range.
func SpringValue(frame, fps float64, cfg SpringConfig, from, to float64) float64 {
	return from + (to-from)*Spring(frame, fps, cfg)
}
