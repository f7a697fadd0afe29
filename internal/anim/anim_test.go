package anim

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

func TestInterpolateLinear(t *testing.T) {
	tests := []struct {
		frame    float64
		expected float64
	}{
		{0, 0.0},   // First stop
		{15, 0.5},  // Midpoint
		{30, 1.0},  // Last stop
		{45, 1.5},  // Extended past the range (default policy)
		{-15, -0.5}, // Extended before the range
	}

	for _, tt := range tests {
		got := Interpolate(tt.frame, []float64{0, 30}, []float64{0, 1})
		if !approxEqual(got, tt.expected, 1e-9) {
			t.Errorf("At frame %.0f: expected %.3f, got %.3f", tt.frame, tt.expected, got)
		}
	}
}

func TestInterpolateClamp(t *testing.T) {
	in := []float64{10, 40}
	out := []float64{0, 1}

	if got := Interpolate(0, in, out, WithClamp()); got != 0 {
		t.Errorf("Before range with clamp: expected 0, got %.3f", got)
	}
	if got := Interpolate(100, in, out, WithClamp()); got != 1 {
		t.Errorf("After range with clamp: expected 1, got %.3f", got)
	}

	// One-sided policies stay independent.
	if got := Interpolate(100, in, out, WithExtrapolateLeft(Clamp)); !approxEqual(got, 3.0, 1e-9) {
		t.Errorf("Right side should still extend: expected 3, got %.3f", got)
	}
	if got := Interpolate(0, in, out, WithExtrapolateRight(Clamp)); !approxEqual(got, -1.0/3.0, 1e-9) {
		t.Errorf("Left side should still extend: expected -0.333, got %.3f", got)
	}
}

func TestInterpolateMultiStop(t *testing.T) {
	// Fade in, hold, fade out.
	in := []float64{0, 30, 120, 150}
	out := []float64{0, 1, 1, 0}

	tests := []struct {
		frame    float64
		expected float64
	}{
		{0, 0},
		{15, 0.5},
		{30, 1},
		{75, 1},   // Hold segment
		{135, 0.5},
		{150, 0},
	}

	for _, tt := range tests {
		got := Interpolate(tt.frame, in, out, WithClamp())
		if !approxEqual(got, tt.expected, 1e-9) {
			t.Errorf("At frame %.0f: expected %.3f, got %.3f", tt.frame, tt.expected, got)
		}
	}
}

func TestInterpolateEasing(t *testing.T) {
	in := []float64{0, 100}
	out := []float64{0, 1}

	// InOutCubic passes through the midpoint and stays monotonic.
	mid := Interpolate(50, in, out, WithEasing(ease.InOutCubic))
	if !approxEqual(mid, 0.5, 1e-6) {
		t.Errorf("InOutCubic midpoint: expected 0.5, got %.4f", mid)
	}

	prev := -1.0
	for f := 0.0; f <= 100; f++ {
		v := Interpolate(f, in, out, WithEasing(ease.InOutCubic))
		if v < prev-1e-9 {
			t.Fatalf("Eased curve not monotonic at frame %.0f: %.6f < %.6f", f, v, prev)
		}
		prev = v
	}

	// Easing never applies outside the range: extension stays linear.
	ext := Interpolate(150, in, out, WithEasing(ease.InOutCubic))
	if !approxEqual(ext, 1.5, 1e-9) {
		t.Errorf("Extension should ignore easing: expected 1.5, got %.4f", ext)
	}
}

func TestInterpolateDeterministic(t *testing.T) {
	in := []float64{0, 45, 90}
	out := []float64{0, 200, 50}

	for f := -10.0; f <= 100; f += 0.5 {
		a := Interpolate(f, in, out, WithEasing(ease.OutBounce))
		b := Interpolate(f, in, out, WithEasing(ease.OutBounce))
		if a != b {
			t.Fatalf("Same frame produced different values at %.1f: %v vs %v", f, a, b)
		}
	}
}

func TestInterpolatePanicsOnBadRanges(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		out  []float64
	}{
		{"too few stops", []float64{0}, []float64{0}},
		{"length mismatch", []float64{0, 10}, []float64{0, 1, 2}},
		{"not increasing", []float64{0, 10, 10}, []float64{0, 1, 2}},
		{"not finite", []float64{0, math.NaN()}, []float64{0, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("Expected panic for %s", tt.name)
				}
			}()
			Interpolate(5, tt.in, tt.out)
		})
	}
}

func TestSpringSettles(t *testing.T) {
	cfg := DefaultSpring()

	if got := Spring(0, 30, cfg); got != 0 {
		t.Errorf("Spring at frame 0: expected 0, got %.4f", got)
	}
	if got := Spring(-5, 30, cfg); got != 0 {
		t.Errorf("Spring before release: expected 0, got %.4f", got)
	}

	// Long after release the spring sits at the target.
	if got := Spring(300, 30, cfg); !approxEqual(got, 1.0, 1e-3) {
		t.Errorf("Spring after settling: expected ~1, got %.4f", got)
	}
}

func TestSpringDeterministic(t *testing.T) {
	cfg := SpringConfig{Mass: 1, Stiffness: 120, Damping: 8}
	for f := 0.0; f <= 120; f++ {
		if Spring(f, 30, cfg) != Spring(f, 30, cfg) {
			t.Fatalf("Spring not deterministic at frame %.0f", f)
		}
	}
}

func TestSpringDampingRegimes(t *testing.T) {
	// Critically damped (damping = 2*sqrt(k*m)) never overshoots.
	critical := SpringConfig{Mass: 1, Stiffness: 100, Damping: 20}
	for f := 0.0; f <= 300; f++ {
		if v := Spring(f, 30, critical); v > 1+1e-9 {
			t.Fatalf("Critically damped spring overshot at frame %.0f: %.6f", f, v)
		}
	}

	// Overdamped stays below target too.
	over := SpringConfig{Mass: 1, Stiffness: 100, Damping: 40}
	for f := 0.0; f <= 300; f++ {
		if v := Spring(f, 30, over); v > 1+1e-9 {
			t.Fatalf("Overdamped spring overshot at frame %.0f: %.6f", f, v)
		}
	}

	// Underdamped overshoots unless clamped.
	bouncy := SpringConfig{Mass: 1, Stiffness: 200, Damping: 5}
	overshot := false
	for f := 0.0; f <= 300; f++ {
		if Spring(f, 30, bouncy) > 1 {
			overshot = true
			break
		}
	}
	if !overshot {
		t.Error("Underdamped spring should overshoot the target")
	}

	bouncy.OvershootClamping = true
	for f := 0.0; f <= 300; f++ {
		if v := Spring(f, 30, bouncy); v > 1 {
			t.Fatalf("Clamped spring exceeded target at frame %.0f: %.6f", f, v)
		}
	}
}

func TestSpringValue(t *testing.T) {
	cfg := DefaultSpring()
	got := SpringValue(300, 30, cfg, 40, 90)
	if !approxEqual(got, 90, 0.1) {
		t.Errorf("SpringValue settle: expected ~90, got %.3f", got)
	}
	if got := SpringValue(0, 30, cfg, 40, 90); got != 40 {
		t.Errorf("SpringValue at release: expected 40, got %.3f", got)
	}
}

func TestFrameCount(t *testing.T) {
	tests := []struct {
		seconds  float64
		fps      int
		expected int
	}{
		{27.74, 30, 833}, // Partial frame rounds up
		{0.033, 30, 1},   // Tiny duration still gets a frame
		{1.0, 30, 30},    // Exact boundary
		{0, 30, 0},
		{-3, 30, 0},
		{2.5, 24, 60},
	}

	for _, tt := range tests {
		got := FrameCount(tt.seconds, tt.fps)
		if got != tt.expected {
			t.Errorf("FrameCount(%.3f, %d): expected %d, got %d", tt.seconds, tt.fps, tt.expected, got)
		}
	}
}

func TestEasingByName(t *testing.T) {
	for _, name := range []string{"linear", "in-out-cubic", "out-bounce", "out-elastic"} {
		if _, ok := EasingByName(name); !ok {
			t.Errorf("Expected easing %q to be registered", name)
		}
	}
	if _, ok := EasingByName("zigzag"); ok {
		t.Error("Unknown easing name should not resolve")
	}
}

func approxEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}
