package storyboard

import "github.com/ivlev/story2video/internal/anim"

// DefaultBufferSeconds is the pause appended after each scene's
// narration when the document does not set one.
const DefaultBufferSeconds = 1.0

// BufferSeconds returns the per-scene trailing pause. An explicit 0 in
// the document disables the pause; an absent field means the default.
func (s *Storyboard) BufferSeconds() float64 {
	if s.Audio.BufferBetweenScenesSeconds != nil {
		return *s.Audio.BufferBetweenScenesSeconds
	}
	return DefaultBufferSeconds
}

// SceneDurationSeconds returns the full duration of scene i: its
// narration plus the trailing buffer.
func (s *Storyboard) SceneDurationSeconds(i int) float64 {
	return s.Scenes[i].AudioDurationSeconds + s.BufferSeconds()
}

// TotalDurationSeconds sums every scene's narration plus buffer.
// A storyboard with no scenes has duration 0.
func (s *Storyboard) TotalDurationSeconds() float64 {
	total := 0.0
	for i := range s.Scenes {
		total += s.SceneDurationSeconds(i)
	}
	return total
}

// SceneFrames returns the whole frame count of scene i at the
// document's frame rate. Partial frames round up so narration is never
// cut short.
func (s *Storyboard) SceneFrames(i int) int {
	return anim.FrameCount(s.SceneDurationSeconds(i), s.Video.FPS)
}

// TotalFrames returns the whole frame count of the full video.
func (s *Storyboard) TotalFrames() int {
	return anim.FrameCount(s.TotalDurationSeconds(), s.Video.FPS)
}
