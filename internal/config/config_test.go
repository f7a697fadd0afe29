package config

import (
	"strings"
	"testing"
)

func validConfig() Config {
	c := Default()
	c.StoryboardPath = "storyboard.json"
	return c
}

func TestDefaults(t *testing.T) {
	c := Default()
	if c.Composition != CompositionExplainer {
		t.Errorf("Default composition = %q, want explainer", c.Composition)
	}
	if c.TransitionType != "fade" || c.FadeDuration != 0.5 {
		t.Errorf("Default transition = %q/%.2f, want fade/0.50", c.TransitionType, c.FadeDuration)
	}
	if c.FFmpegPath != "ffmpeg" || c.FFprobePath != "ffprobe" {
		t.Errorf("Default tool paths = %q/%q, want bare names", c.FFmpegPath, c.FFprobePath)
	}
}

func TestValidate(t *testing.T) {
	c := validConfig()
	if err := c.Validate(); err != nil {
		t.Fatalf("Valid config rejected: %v", err)
	}

	c = validConfig()
	c.StoryboardPath = ""
	if err := c.Validate(); err == nil {
		t.Error("Missing input path must fail validation")
	}

	// Legacy props alone are an acceptable input.
	c.PropsPath = "props.json"
	if err := c.Validate(); err != nil {
		t.Errorf("Props-only config rejected: %v", err)
	}

	c = validConfig()
	c.Composition = "montage"
	err := c.Validate()
	if err == nil {
		t.Fatal("Unknown composition must fail validation")
	}
	if !strings.Contains(err.Error(), "montage") {
		t.Errorf("Error should name the bad composition, got %q", err)
	}

	c = validConfig()
	c.Quality = 200
	c.FadeDuration = -1
	err = c.Validate()
	if err == nil {
		t.Fatal("Out-of-range options must fail validation")
	}
	// Both problems reported at once.
	if !strings.Contains(err.Error(), "quality") || !strings.Contains(err.Error(), "fade") {
		t.Errorf("Expected joined errors for quality and fade, got %q", err)
	}
}

func TestPreviewSceneID(t *testing.T) {
	c := validConfig()
	if id := c.PreviewSceneID(); id != "" {
		t.Errorf("Explainer composition preview id = %q, want empty", id)
	}

	c.Composition = "scene:intro"
	if err := c.Validate(); err != nil {
		t.Fatalf("Scene preview composition rejected: %v", err)
	}
	if id := c.PreviewSceneID(); id != "intro" {
		t.Errorf("Preview id = %q, want intro", id)
	}

	c.Composition = "scene:"
	if err := c.Validate(); err == nil {
		t.Error("scene: with no id must fail validation")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("S2V_WORKERS", "6")
	t.Setenv("S2V_ENCODER", "h264_nvenc")
	t.Setenv("S2V_FADE", "0.25")

	c := validConfig()
	c.Workers = 2
	if err := c.ApplyEnv(); err != nil {
		t.Fatalf("ApplyEnv failed: %v", err)
	}

	if c.Workers != 6 {
		t.Errorf("Workers = %d, want env override 6", c.Workers)
	}
	if c.VideoEncoder != "h264_nvenc" {
		t.Errorf("VideoEncoder = %q, want h264_nvenc", c.VideoEncoder)
	}
	if c.FadeDuration != 0.25 {
		t.Errorf("FadeDuration = %v, want 0.25", c.FadeDuration)
	}
	// Untouched fields keep their values.
	if c.OutputVideo != "output.mp4" {
		t.Errorf("OutputVideo = %q, want default", c.OutputVideo)
	}
}

func TestApplyEnvBadValue(t *testing.T) {
	t.Setenv("S2V_WORKERS", "many")
	c := validConfig()
	if err := c.ApplyEnv(); err == nil {
		t.Error("Non-numeric S2V_WORKERS must fail")
	}
}

func TestSegmentDuration(t *testing.T) {
	p := SegmentParams{FPS: 30, Frames: 216}
	if got := p.Duration(); got != 7.2 {
		t.Errorf("Duration = %v, want 7.2", got)
	}
	if got := (SegmentParams{Frames: 10}).Duration(); got != 0 {
		t.Errorf("Zero fps duration = %v, want 0", got)
	}
}
