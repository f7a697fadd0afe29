// Package config holds the render-time options of the story2video
// pipeline. The storyboard document describes the video; Config
// describes how this machine should produce it: output path, codec
// choices, worker counts and tool locations. Flags set most fields,
// S2V_* environment variables override the environment-ish ones.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Composition identifiers accepted by the render CLI. ScenePrefix
// selects a single-scene preview render ("scene:<id>").
const (
	CompositionExplainer = "explainer"
	ScenePrefix          = "scene:"
)

// Config is the full set of render options.
type Config struct {
	StoryboardPath string
	PropsPath      string
	Composition    string
	OutputVideo    string

	// Zero means "use the storyboard document's value".
	Width  int
	Height int
	FPS    int

	Workers        int     `env:"S2V_WORKERS"`
	TransitionType string  `env:"S2V_TRANSITION"`
	FadeDuration   float64 `env:"S2V_FADE"`
	VideoEncoder   string  `env:"S2V_ENCODER"`
	Quality        int     `env:"S2V_QUALITY"`

	FFmpegPath  string `env:"S2V_FFMPEG"`
	FFprobePath string `env:"S2V_FFPROBE"`

	// VoiceoverDir overrides the storyboard's audio.voiceover_dir,
	// for rendering against a local copy of the narration files.
	VoiceoverDir string `env:"S2V_VOICEOVER_DIR"`

	ShowStats    bool
	BuildVersion string
}

// Default returns the starting configuration flags and environment
// are applied over.
func Default() Config {
	return Config{
		Composition:    CompositionExplainer,
		OutputVideo:    "output.mp4",
		TransitionType: "fade",
		FadeDuration:   0.5,
		Quality:        23,
		FFmpegPath:     "ffmpeg",
		FFprobePath:    "ffprobe",
	}
}

// ApplyEnv overlays S2V_* environment variables onto c. Flags are
// parsed before this, so the environment wins for the fields it sets.
func (c *Config) ApplyEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("config: parse environment: %w", err)
	}
	return nil
}

// Validate checks the option set before any work starts and returns
// every problem found.
func (c *Config) Validate() error {
	var errs []error

	if c.StoryboardPath == "" && c.PropsPath == "" {
		errs = append(errs, errors.New("a storyboard (or legacy props) path is required"))
	}
	if c.OutputVideo == "" {
		errs = append(errs, errors.New("output path is required"))
	}
	if c.Composition != CompositionExplainer && !isScenePreview(c.Composition) {
		errs = append(errs, fmt.Errorf("composition %q is not %q or %q<id>", c.Composition, CompositionExplainer, ScenePrefix))
	}
	if c.Width < 0 || c.Height < 0 || c.FPS < 0 {
		errs = append(errs, errors.New("geometry overrides must not be negative"))
	}
	if c.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers %d must not be negative", c.Workers))
	}
	if c.FadeDuration < 0 {
		errs = append(errs, fmt.Errorf("fade duration %.2fs must not be negative", c.FadeDuration))
	}
	if c.Quality < 0 || c.Quality > 100 {
		errs = append(errs, fmt.Errorf("quality %d is out of range 0..100", c.Quality))
	}

	return errors.Join(errs...)
}

// PreviewSceneID returns the target scene of a "scene:<id>"
// composition, or "" for the full video.
func (c *Config) PreviewSceneID() string {
	if isScenePreview(c.Composition) {
		return c.Composition[len(ScenePrefix):]
	}
	return ""
}

func isScenePreview(composition string) bool {
	return strings.HasPrefix(composition, ScenePrefix) && len(composition) > len(ScenePrefix)
}

// SegmentParams carries everything one scene-segment encode needs.
type SegmentParams struct {
	Width   int
	Height  int
	FPS     int
	Frames  int
	Encoder string
	Quality int
}

// Duration returns the segment length in seconds.
func (p SegmentParams) Duration() float64 {
	if p.FPS <= 0 {
		return 0
	}
	return float64(p.Frames) / float64(p.FPS)
}
