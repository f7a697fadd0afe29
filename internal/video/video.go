// Package video is the boundary to the external FFmpeg collaborator.
// Everything on this side of the argv line is ours: raw RGBA frames,
// filter graph strings and quality arguments. Encoding, transition
// compositing and audio mixing happen on FFmpeg's side.
package video

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os/exec"
	"strconv"
	"strings"

	"github.com/ivlev/story2video/internal/config"
	"github.com/ivlev/story2video/internal/system"
)

// FrameSource paints frame number frame into dst. The destination is
// a pooled buffer sized to the segment geometry; the source must
// repaint it fully.
type FrameSource func(frame int, dst *image.RGBA) error

// Segment is one encoded scene clip waiting for concatenation.
type Segment struct {
	Path     string
	Duration float64
}

// TimedClip schedules an audio file at an offset in the final mix.
// A nil Gain plays at unity; an explicit 0 mutes the clip.
type TimedClip struct {
	Path         string
	StartSeconds float64
	Gain         *float64
}

// MusicBed loops a music track under the narration at the given
// volume, fading in and out at the ends.
type MusicBed struct {
	Path   string
	Volume float64
}

// AudioMix describes the full audio graph of the final video.
type AudioMix struct {
	TotalDuration float64
	Voiceovers    []TimedClip
	SfxCues       []TimedClip
	Music         *MusicBed
}

// ConcatOptions directs the final assembly pass.
type ConcatOptions struct {
	TransitionType string
	FadeDuration   float64
	Encoder        string
	Quality        int
	TotalDuration  float64
	Audio          *AudioMix
}

// Encoder produces video files from frames and segments. The pipeline
// depends on this interface so tests can substitute a recorder.
type Encoder interface {
	// EncodeSegment encodes params.Frames frames pulled from source
	// into the file at outPath.
	EncodeSegment(ctx context.Context, outPath string, params config.SegmentParams, source FrameSource) error
	// Concatenate joins segments into the final video, applying
	// transitions and the audio mix.
	Concatenate(ctx context.Context, segments []Segment, outPath string, opts ConcatOptions) error
	// ProbeDuration returns the duration of a media file in seconds.
	ProbeDuration(ctx context.Context, mediaPath string) (float64, error)
}

// FFmpegEncoder shells out to ffmpeg/ffprobe.
type FFmpegEncoder struct {
	FFmpegPath  string
	FFprobePath string
}

// NewFFmpegEncoder returns an encoder using the given tool paths,
// defaulting to the bare command names on the PATH.
func NewFFmpegEncoder(ffmpegPath, ffprobePath string) *FFmpegEncoder {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &FFmpegEncoder{FFmpegPath: ffmpegPath, FFprobePath: ffprobePath}
}

// EncodeSegment streams raw RGBA frames over stdin, one full frame
// per frame of output, so nothing touches the disk until ffmpeg
// writes the encoded segment.
func (e *FFmpegEncoder) EncodeSegment(ctx context.Context, outPath string, params config.SegmentParams, source FrameSource) error {
	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", params.Width, params.Height),
		"-framerate", strconv.Itoa(params.FPS),
		"-i", "-",
		"-pix_fmt", "yuv420p",
		"-r", strconv.Itoa(params.FPS),
		"-c:v", params.Encoder,
	}
	args = append(args, qualityArgs(params.Encoder, params.Quality)...)
	args = append(args, outPath)

	cmd := exec.CommandContext(ctx, e.FFmpegPath, args...)
	var ffmpegLog bytes.Buffer
	cmd.Stdout = &ffmpegLog
	cmd.Stderr = &ffmpegLog

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("video: stdin pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("video: start ffmpeg: %w", err)
	}

	rect := image.Rect(0, 0, params.Width, params.Height)
	buf := system.GetImage(rect)
	defer system.PutImage(buf)

	for frame := 0; frame < params.Frames; frame++ {
		if err := ctx.Err(); err != nil {
			stdin.Close()
			cmd.Wait()
			return err
		}
		if err := source(frame, buf); err != nil {
			stdin.Close()
			cmd.Wait()
			return fmt.Errorf("video: render frame %d: %w", frame, err)
		}
		if _, err := stdin.Write(buf.Pix); err != nil {
			stdin.Close()
			cmd.Wait()
			return fmt.Errorf("video: write frame %d: %w", frame, err)
		}
	}
	stdin.Close()

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("video: ffmpeg: %w, log: %s", err, ffmpegLog.String())
	}
	return nil
}

// Concatenate assembles the final video: segments joined with xfade
// (or the concat filter when no transition is wanted), the narration
// and effects mixed per their offsets, and the music bed underneath.
func (e *FFmpegEncoder) Concatenate(ctx context.Context, segments []Segment, outPath string, opts ConcatOptions) error {
	if len(segments) == 0 {
		return fmt.Errorf("video: nothing to concatenate")
	}

	args := []string{"-y"}
	for _, seg := range segments {
		args = append(args, "-i", seg.Path)
	}

	var graph []string

	videoOut := videoGraph(&graph, segments, opts)

	audioOut := ""
	if opts.Audio != nil {
		extraInputs, out := audioGraph(&graph, len(segments), *opts.Audio)
		args = append(args, extraInputs...)
		audioOut = out
	}

	if len(graph) > 0 {
		args = append(args, "-filter_complex", strings.Join(graph, ";"))
	}

	args = append(args, "-map", videoOut)
	if audioOut != "" {
		args = append(args, "-map", audioOut)
	}
	if opts.TotalDuration > 0 {
		args = append(args, "-t", formatSeconds(opts.TotalDuration))
	}

	args = append(args, "-c:v", opts.Encoder, "-pix_fmt", "yuv420p")
	args = append(args, qualityArgs(opts.Encoder, opts.Quality)...)
	if audioOut != "" {
		args = append(args, "-c:a", "aac", "-b:a", "192k")
	}
	args = append(args, outPath)

	cmd := exec.CommandContext(ctx, e.FFmpegPath, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("video: ffmpeg concat: %w, log: %s", err, out)
	}
	return nil
}

// ProbeDuration asks ffprobe for a media file's duration.
func (e *FFmpegEncoder) ProbeDuration(ctx context.Context, mediaPath string) (float64, error) {
	cmd := exec.CommandContext(ctx, e.FFprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		mediaPath,
	)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("video: ffprobe %q: %w", mediaPath, err)
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, fmt.Errorf("video: ffprobe %q: parse duration: %w", mediaPath, err)
	}
	return duration, nil
}

// qualityArgs picks the rate-control arguments an encoder actually
// honors: VideoToolbox wants a bitrate, NVENC a constant-quality
// level, libx264 a CRF.
func qualityArgs(encoder string, quality int) []string {
	switch encoder {
	case "h264_videotoolbox":
		return []string{"-b:v", fmt.Sprintf("%dk", quality*100)}
	case "h264_nvenc":
		return []string{"-cq", strconv.Itoa(quality)}
	default:
		return []string{"-crf", strconv.Itoa(quality), "-preset", "medium"}
	}
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}
