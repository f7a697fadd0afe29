package anim

import "math"

// FrameCount converts a duration in seconds to a whole frame count at
// the given frame rate. Partial frames round up so audio is never
// truncated: any positive duration yields at least one frame.
func FrameCount(seconds float64, fps int) int {
	if seconds <= 0 || fps <= 0 {
		return 0
	}
	n := int(math.Ceil(seconds * float64(fps)))
	if n < 1 {
		n = 1
	}
	return n
}

// FrameToSeconds returns the timestamp of a frame index.
func FrameToSeconds(frame int, fps int) float64 {
	if fps <= 0 {
		return 0
	}
	return float64(frame) / float64(fps)
}
