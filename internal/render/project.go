package render

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/story2video/internal/anim"
	"github.com/ivlev/story2video/internal/config"
	"github.com/ivlev/story2video/internal/scene"
	"github.com/ivlev/story2video/internal/storyboard"
	"github.com/ivlev/story2video/internal/system"
	"github.com/ivlev/story2video/internal/video"
)

// Project renders one storyboard into one video file.
type Project struct {
	Config   *config.Config
	Board    *storyboard.Storyboard
	Registry *scene.Registry
	Encoder  video.Encoder
}

// NewProject wires a render run together. The storyboard is treated
// as read-only from here on.
func NewProject(cfg *config.Config, sb *storyboard.Storyboard, reg *scene.Registry, enc video.Encoder) *Project {
	return &Project{Config: cfg, Board: sb, Registry: reg, Encoder: enc}
}

// Run renders every scene segment in parallel, then hands the
// segments and the audio mix to the encoder for final assembly.
func (p *Project) Run(ctx context.Context) error {
	start := time.Now()

	width, height, fps := p.resolveGeometry()

	scenes := p.Board.Scenes
	preview := p.Config.PreviewSceneID()
	if preview != "" {
		idx := -1
		for i := range scenes {
			if scenes[i].ID == preview {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("render: composition scene %q is not in the storyboard", preview)
		}
		scenes = scenes[idx : idx+1]
	}
	if len(scenes) == 0 {
		return fmt.Errorf("render: storyboard has no scenes")
	}

	theme, err := scene.NewTheme(p.Board.Style)
	if err != nil {
		return fmt.Errorf("render: resolve style: %w", err)
	}

	// Segment durations are frame-aligned so xfade offsets stay exact.
	buffer := p.Board.BufferSeconds()
	frames := make([]int, len(scenes))
	durations := make([]float64, len(scenes))
	for i := range scenes {
		frames[i] = anim.FrameCount(scenes[i].AudioDurationSeconds+buffer, fps)
		durations[i] = float64(frames[i]) / float64(fps)
	}

	useTransitions := p.Config.TransitionType != "" && p.Config.TransitionType != "none" && len(scenes) > 1
	fade := p.Config.FadeDuration
	if useTransitions {
		minDur := durations[0]
		for _, d := range durations {
			if d < minDur {
				minDur = d
			}
		}
		if fade >= minDur {
			fade = minDur / 2
			slog.Warn("transition shortened to fit the shortest scene", "fade_seconds", fade)
		}
	}

	tempDir, err := os.MkdirTemp("", "story2video_")
	if err != nil {
		return fmt.Errorf("render: temp dir: %w", err)
	}
	defer os.RemoveAll(tempDir)

	encoderName := p.Config.VideoEncoder
	if encoderName == "" {
		encoderName = system.GetBestH264Encoder(p.Config.FFmpegPath)
	}
	workers := p.Config.Workers
	if workers <= 0 {
		workers = system.Workers()
	}

	slog.Info("render starting",
		"title", p.Board.Title,
		"scenes", len(scenes),
		"geometry", fmt.Sprintf("%dx%d@%d", width, height, fps),
		"encoder", encoderName,
		"workers", workers,
	)

	segments := make([]video.Segment, len(scenes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range scenes {
		g.Go(func() error {
			comp := p.buildComponent(scenes[i], width, height, frames[i], fps, theme)
			ras, err := NewRasterizer(width, height, theme)
			if err != nil {
				return err
			}
			layers := comp.Layers()

			segPath := filepath.Join(tempDir, fmt.Sprintf("s%03d.mp4", i))
			params := config.SegmentParams{
				Width:   width,
				Height:  height,
				FPS:     fps,
				Frames:  frames[i],
				Encoder: encoderName,
				Quality: p.Config.Quality,
			}

			source := func(frame int, dst *image.RGBA) error {
				return ras.DrawFrame(comp, layers, float64(frame), float64(frames[i]), float64(fps), dst)
			}
			if err := p.Encoder.EncodeSegment(gctx, segPath, params, source); err != nil {
				return fmt.Errorf("render: scene %q: %w", scenes[i].ID, err)
			}

			segments[i] = video.Segment{Path: segPath, Duration: durations[i]}
			slog.Info("segment ready", "scene", scenes[i].ID, "frames", frames[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	renderDone := time.Now()

	for i, seg := range segments {
		if seg.Path == "" {
			return fmt.Errorf("render: segment %d was not created", i)
		}
	}

	totalDuration := 0.0
	for i, d := range durations {
		totalDuration += d
		if useTransitions && i < len(durations)-1 {
			totalDuration -= fade
		}
	}

	opts := video.ConcatOptions{
		FadeDuration:  fade,
		Encoder:       encoderName,
		Quality:       p.Config.Quality,
		TotalDuration: totalDuration,
		Audio:         p.buildAudioMix(scenes, durations, fade, useTransitions, totalDuration, preview != ""),
	}
	if useTransitions {
		opts.TransitionType = p.Config.TransitionType
	}

	if err := p.Encoder.Concatenate(ctx, segments, p.Config.OutputVideo, opts); err != nil {
		return fmt.Errorf("render: assemble %q: %w", p.Config.OutputVideo, err)
	}

	if p.Config.ShowStats {
		total := time.Since(start)
		totalFrames := 0
		for _, n := range frames {
			totalFrames += n
		}
		fmt.Printf("--- render stats ---\n")
		fmt.Printf("build:        %s\n", p.Config.BuildVersion)
		fmt.Printf("scenes:       %d (%d frames)\n", len(scenes), totalFrames)
		fmt.Printf("segments:     %.2fs\n", renderDone.Sub(start).Seconds())
		fmt.Printf("assembly:     %.2fs\n", time.Since(renderDone).Seconds())
		fmt.Printf("total:        %.2fs (%.1f frames/s)\n", total.Seconds(), float64(totalFrames)/total.Seconds())
	}

	slog.Info("render finished", "output", p.Config.OutputVideo, "duration_seconds", totalDuration)
	return nil
}

// resolveGeometry applies CLI overrides over the document values.
func (p *Project) resolveGeometry() (width, height, fps int) {
	width, height, fps = p.Board.Video.Width, p.Board.Video.Height, p.Board.Video.FPS
	if p.Config.Width > 0 {
		width = p.Config.Width
	}
	if p.Config.Height > 0 {
		height = p.Config.Height
	}
	if p.Config.FPS > 0 {
		fps = p.Config.FPS
	}
	return width, height, fps
}

// buildComponent resolves and constructs the scene's component. An
// unregistered type or a failing builder degrades to the placeholder
// card; a broken scene must never abort the whole video.
func (p *Project) buildComponent(sc storyboard.Scene, width, height, frames, fps int, theme scene.Theme) scene.Component {
	cfg := scene.Config{
		ID:             sc.ID,
		Title:          sc.Title,
		Subtitle:       sc.Subtitle,
		Items:          sc.Items,
		Values:         sc.Values,
		Value:          sc.Value,
		Suffix:         sc.Suffix,
		Asset:          p.resolveAsset(sc.Asset),
		Page:           sc.Page,
		Width:          width,
		Height:         height,
		DurationFrames: frames,
		FPS:            float64(fps),
		Theme:          theme,
	}

	builder, ok := p.Registry.Resolve(sc.Type)
	if !ok {
		slog.Warn("unknown scene type, rendering placeholder", "scene", sc.ID, "type", sc.Type)
		return scene.NewPlaceholder(cfg, fmt.Sprintf("unknown scene type %q", sc.Type))
	}

	comp, err := builder(cfg)
	if err != nil {
		slog.Warn("scene failed to build, rendering placeholder", "scene", sc.ID, "err", err)
		return scene.NewPlaceholder(cfg, err.Error())
	}
	return comp
}

// resolveAsset leaves URLs and absolute paths alone and resolves
// relative asset paths against the storyboard's directory.
func (p *Project) resolveAsset(asset string) string {
	if asset == "" || filepath.IsAbs(asset) || p.Config.StoryboardPath == "" {
		return asset
	}
	if _, err := os.Stat(asset); err == nil {
		return asset
	}
	candidate := filepath.Join(filepath.Dir(p.Config.StoryboardPath), asset)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return asset
}

// buildAudioMix lays the narration clips and effect cues onto the
// final timeline. With transitions each scene starts a fade earlier,
// because the crossfade overlaps it with the previous scene's tail.
func (p *Project) buildAudioMix(scenes []storyboard.Scene, durations []float64, fade float64, useTransitions bool, totalDuration float64, isPreview bool) *video.AudioMix {
	voiceDir := p.Config.VoiceoverDir
	if voiceDir == "" {
		voiceDir = p.Board.Audio.VoiceoverDir
	}

	mix := video.AudioMix{TotalDuration: totalDuration}

	offset := 0.0
	for i, sc := range scenes {
		if sc.AudioFile != "" {
			mix.Voiceovers = append(mix.Voiceovers, video.TimedClip{
				Path:         joinMedia(voiceDir, sc.AudioFile),
				StartSeconds: offset,
			})
		}
		for _, cue := range sc.SfxCues {
			mix.SfxCues = append(mix.SfxCues, video.TimedClip{
				Path:         joinMedia(voiceDir, cue.File),
				StartSeconds: offset + cue.AtSeconds,
				Gain:         cue.Gain,
			})
		}

		advance := durations[i]
		if useTransitions && i < len(scenes)-1 {
			advance -= fade
		}
		offset += advance
	}

	// Previews skip the music bed; it only makes sense over the full
	// timeline.
	if !isPreview && p.Board.Audio.BackgroundMusic != nil {
		mix.Music = &video.MusicBed{
			Path:   p.Board.Audio.BackgroundMusic.Path,
			Volume: p.Board.Audio.BackgroundMusic.Volume,
		}
	}

	if len(mix.Voiceovers) == 0 && len(mix.SfxCues) == 0 && mix.Music == nil {
		return nil
	}
	return &mix
}

func joinMedia(dir, file string) string {
	if dir == "" || filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(dir, file)
}
