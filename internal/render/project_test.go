package render

import (
	"context"
	"image"
	"strings"
	"sync"
	"testing"

	"github.com/ivlev/story2video/internal/config"
	"github.com/ivlev/story2video/internal/scene"
	"github.com/ivlev/story2video/internal/storyboard"
	"github.com/ivlev/story2video/internal/video"
)

// recordingEncoder satisfies video.Encoder without touching ffmpeg.
// It pulls a couple of frames from each segment source so the pure
// rasterization path runs.
type recordingEncoder struct {
	mu             sync.Mutex
	segments       map[string]config.SegmentParams
	concat         *video.ConcatOptions
	concatSegments []video.Segment
	outPath        string
}

func newRecordingEncoder() *recordingEncoder {
	return &recordingEncoder{segments: make(map[string]config.SegmentParams)}
}

func (e *recordingEncoder) EncodeSegment(ctx context.Context, outPath string, params config.SegmentParams, source video.FrameSource) error {
	dst := image.NewRGBA(image.Rect(0, 0, params.Width, params.Height))
	for _, frame := range []int{0, params.Frames - 1} {
		if err := source(frame, dst); err != nil {
			return err
		}
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.segments[outPath] = params
	return nil
}

func (e *recordingEncoder) Concatenate(ctx context.Context, segments []video.Segment, outPath string, opts video.ConcatOptions) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.concat = &opts
	e.outPath = outPath
	e.concatSegments = segments
	return nil
}

func (e *recordingEncoder) ProbeDuration(ctx context.Context, mediaPath string) (float64, error) {
	return 1, nil
}

func testBoard() *storyboard.Storyboard {
	buffer := 1.0
	whooshGain := 0.4
	return &storyboard.Storyboard{
		Title: "How Tides Work",
		Video: storyboard.Video{Width: 320, Height: 180, FPS: 30},
		Style: storyboard.Style{
			BackgroundColor: "#0f172a",
			PrimaryColor:    "#f8fafc",
			SecondaryColor:  "#38bdf8",
			FontFamily:      "sans",
		},
		Scenes: []storyboard.Scene{
			{ID: "intro", Type: "title", Title: "How Tides Work", AudioFile: "intro.mp3", AudioDurationSeconds: 6.2},
			{
				ID: "mystery", Type: "nebula", Title: "???",
				AudioFile: "mystery.mp3", AudioDurationSeconds: 5.0,
				SfxCues: []storyboard.SfxCue{{File: "whoosh.wav", AtSeconds: 0.5, Gain: &whooshGain}},
			},
		},
		Audio: storyboard.Audio{
			VoiceoverDir:               "voice",
			BufferBetweenScenesSeconds: &buffer,
			BackgroundMusic:            &storyboard.Music{Path: "bed.mp3", Volume: 0.2},
		},
	}
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.StoryboardPath = "storyboard.json"
	cfg.OutputVideo = "out.mp4"
	cfg.Workers = 2
	cfg.VideoEncoder = "libx264"
	return cfg
}

func TestProjectRun(t *testing.T) {
	cfg := testConfig()
	enc := newRecordingEncoder()

	p := NewProject(&cfg, testBoard(), scene.DefaultRegistry(), enc)
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(enc.segments) != 2 {
		t.Fatalf("Expected 2 encoded segments, got %d", len(enc.segments))
	}
	for path, params := range enc.segments {
		if params.Width != 320 || params.Height != 180 || params.FPS != 30 {
			t.Errorf("Segment %q geometry = %dx%d@%d, want 320x180@30", path, params.Width, params.Height, params.FPS)
		}
	}

	if enc.concat == nil {
		t.Fatal("Concatenate was never called")
	}
	if enc.outPath != "out.mp4" {
		t.Errorf("Output = %q, want out.mp4", enc.outPath)
	}

	// 6.2s + 1s buffer -> 216 frames -> 7.2s; 5s + 1s -> 180 -> 6.0s;
	// one 0.5s crossfade overlaps them.
	if got := enc.concat.TotalDuration; !approxEqual(got, 12.7, 1e-9) {
		t.Errorf("TotalDuration = %v, want 12.7", got)
	}
	if enc.concat.TransitionType != "fade" {
		t.Errorf("TransitionType = %q, want fade", enc.concat.TransitionType)
	}

	frames := 0
	for _, seg := range enc.concatSegments {
		if seg.Duration <= 0 {
			t.Errorf("Segment %q has duration %v", seg.Path, seg.Duration)
		}
		frames++
	}
	if frames != 2 {
		t.Errorf("Concatenated %d segments, want 2", frames)
	}

	mix := enc.concat.Audio
	if mix == nil {
		t.Fatal("Expected an audio mix")
	}
	if len(mix.Voiceovers) != 2 {
		t.Fatalf("Expected 2 voiceovers, got %d", len(mix.Voiceovers))
	}
	if mix.Voiceovers[0].StartSeconds != 0 {
		t.Errorf("First voiceover offset = %v, want 0", mix.Voiceovers[0].StartSeconds)
	}
	// Second scene starts a fade early because of the crossfade.
	if got := mix.Voiceovers[1].StartSeconds; !approxEqual(got, 6.7, 1e-9) {
		t.Errorf("Second voiceover offset = %v, want 6.7", got)
	}
	if !strings.HasSuffix(mix.Voiceovers[0].Path, "voice/intro.mp3") {
		t.Errorf("Voiceover path = %q, want it under the voiceover dir", mix.Voiceovers[0].Path)
	}
	if len(mix.SfxCues) != 1 {
		t.Fatalf("Expected 1 sfx cue, got %d", len(mix.SfxCues))
	}
	if got := mix.SfxCues[0].StartSeconds; !approxEqual(got, 7.2, 1e-9) {
		t.Errorf("Sfx offset = %v, want 6.7 + 0.5", got)
	}
	if g := mix.SfxCues[0].Gain; g == nil || *g != 0.4 {
		t.Errorf("Sfx gain = %v, want 0.4", g)
	}
	if mix.Music == nil || mix.Music.Path != "bed.mp3" {
		t.Errorf("Music bed = %+v, want bed.mp3", mix.Music)
	}
}

func TestProjectUnknownSceneTypeRendersPlaceholder(t *testing.T) {
	// The "nebula" type has no builder; Run must still succeed with
	// every segment encoded.
	cfg := testConfig()
	enc := newRecordingEncoder()

	p := NewProject(&cfg, testBoard(), scene.DefaultRegistry(), enc)
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Unknown scene type must not abort the render: %v", err)
	}
	if len(enc.segments) != 2 {
		t.Errorf("Expected both segments despite the unknown type, got %d", len(enc.segments))
	}
}

func TestProjectScenePreview(t *testing.T) {
	cfg := testConfig()
	cfg.Composition = "scene:mystery"
	enc := newRecordingEncoder()

	p := NewProject(&cfg, testBoard(), scene.DefaultRegistry(), enc)
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(enc.segments) != 1 {
		t.Fatalf("Preview should encode 1 segment, got %d", len(enc.segments))
	}
	if enc.concat.TransitionType != "" {
		t.Errorf("Single-scene preview should not set a transition, got %q", enc.concat.TransitionType)
	}
	mix := enc.concat.Audio
	if mix == nil || len(mix.Voiceovers) != 1 || mix.Voiceovers[0].StartSeconds != 0 {
		t.Fatalf("Preview audio mix = %+v, want the scene's narration at 0", mix)
	}
	if mix.Music != nil {
		t.Error("Preview should not carry the music bed")
	}
}

func TestProjectPreviewUnknownSceneID(t *testing.T) {
	cfg := testConfig()
	cfg.Composition = "scene:missing"

	p := NewProject(&cfg, testBoard(), scene.DefaultRegistry(), newRecordingEncoder())
	if err := p.Run(context.Background()); err == nil {
		t.Error("Previewing a scene id that does not exist must fail")
	}
}

func TestProjectGeometryOverrides(t *testing.T) {
	cfg := testConfig()
	cfg.Width, cfg.Height, cfg.FPS = 640, 360, 25
	enc := newRecordingEncoder()

	p := NewProject(&cfg, testBoard(), scene.DefaultRegistry(), enc)
	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	for _, params := range enc.segments {
		if params.Width != 640 || params.Height != 360 || params.FPS != 25 {
			t.Errorf("Override geometry = %dx%d@%d, want 640x360@25", params.Width, params.Height, params.FPS)
		}
	}
}

func approxEqual(a, b, eps float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < eps
}
