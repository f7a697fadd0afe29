// Command story2video renders an explainer video from a storyboard
// document: every scene becomes an animated segment, segments join
// with crossfades, and the narration, effect cues and music are mixed
// underneath. It also scaffolds storyboard skeletons from a directory
// of narration audio.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/ivlev/story2video/internal/cli"
	"github.com/ivlev/story2video/internal/config"
	"github.com/ivlev/story2video/internal/render"
	"github.com/ivlev/story2video/internal/scene"
	"github.com/ivlev/story2video/internal/storyboard"
	"github.com/ivlev/story2video/internal/system"
	"github.com/ivlev/story2video/internal/video"
)

// buildVersion is stamped by the release build.
var buildVersion = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx, os.Stdout, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "story2video:", err)
	}
	stop()
	os.Exit(cli.ExitCode(err))
}

func run(ctx context.Context, out io.Writer, args []string) error {
	fs := flag.NewFlagSet("story2video", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() {
		fmt.Fprint(out, `story2video renders explainer videos from storyboard documents.

Usage:
  story2video -storyboard sb.json -output out.mp4 [options]
  story2video -scaffold voice/ -output sb.json

Options:
`)
		fs.PrintDefaults()
	}

	defaults := config.Default()

	storyboardPath := fs.String("storyboard", "", "Path to the storyboard document (.json, .yaml).")
	propsPath := fs.String("props", "", "Path to a legacy composition props file.")
	composition := fs.String("composition", defaults.Composition, `Composition to render: "explainer" or "scene:<id>".`)
	output := fs.String("output", defaults.OutputVideo, "Output video path (or storyboard path in scaffold mode).")
	width := fs.Int("width", 0, "Override the storyboard's output width.")
	height := fs.Int("height", 0, "Override the storyboard's output height.")
	fps := fs.Int("fps", 0, "Override the storyboard's frame rate.")
	workers := fs.Int("workers", 0, "Parallel segment renders. 0 probes the host.")
	transition := fs.String("transition", defaults.TransitionType, "xfade transition between scenes: fade, wipeleft, slideup, dissolve, none.")
	fade := fs.Float64("fade", defaults.FadeDuration, "Transition duration in seconds.")
	encoder := fs.String("encoder", "", "Video encoder. Empty probes for the best H.264 encoder.")
	quality := fs.Int("quality", defaults.Quality, "Encode quality (x264 CRF / nvenc CQ; VideoToolbox bitrate = Q*100kbit).")
	voiceoverDir := fs.String("voiceover-dir", "", "Override the storyboard's voiceover directory.")
	stats := fs.Bool("stats", false, "Print a render stats report.")
	scaffoldDir := fs.String("scaffold", "", "Scaffold a storyboard skeleton from this voiceover directory and exit.")
	logLevel := fs.String("log-level", "info", "Log level: debug, info, warn, error.")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return cli.Errorf(cli.CodeMisuse, "%v", err)
	}

	if err := cli.SetupLogging(os.Stderr, *logLevel); err != nil {
		return err
	}

	cfg := defaults
	cfg.StoryboardPath = *storyboardPath
	cfg.PropsPath = *propsPath
	cfg.Composition = *composition
	cfg.OutputVideo = *output
	cfg.Width = *width
	cfg.Height = *height
	cfg.FPS = *fps
	cfg.Workers = *workers
	cfg.TransitionType = *transition
	cfg.FadeDuration = *fade
	cfg.VideoEncoder = *encoder
	cfg.Quality = *quality
	cfg.VoiceoverDir = *voiceoverDir
	cfg.ShowStats = *stats
	cfg.BuildVersion = buildVersion

	if err := cfg.ApplyEnv(); err != nil {
		return cli.Errorf(cli.CodeMisuse, "%v", err)
	}

	enc := video.NewFFmpegEncoder(cfg.FFmpegPath, cfg.FFprobePath)

	if *scaffoldDir != "" {
		return scaffold(ctx, out, enc, *scaffoldDir, *output)
	}

	if err := cfg.Validate(); err != nil {
		return cli.Errorf(cli.CodeMisuse, "%v", err)
	}

	sb, err := loadBoard(&cfg)
	if err != nil {
		return err
	}

	if cfg.TransitionType != "" && cfg.TransitionType != "none" &&
		!system.CheckFilterSupport(cfg.FFmpegPath, "xfade") {
		slog.Warn("ffmpeg build lacks the xfade filter, transitions disabled")
		cfg.TransitionType = "none"
	}

	system.InitResourceLimits()

	project := render.NewProject(&cfg, sb, scene.DefaultRegistry(), enc)
	if err := project.Run(ctx); err != nil {
		return cli.Errorf(cli.CodeFatal, "%v", err)
	}

	fmt.Fprintf(out, "wrote %s (%.1fs)\n", cfg.OutputVideo, sb.TotalDurationSeconds())
	return nil
}

// loadBoard reads the storyboard, falling back to the legacy props
// format when only -props is given.
func loadBoard(cfg *config.Config) (*storyboard.Storyboard, error) {
	if cfg.StoryboardPath != "" {
		sb, err := storyboard.Load(cfg.StoryboardPath)
		if err != nil {
			return nil, cli.Errorf(cli.CodeFatal, "%v", err)
		}
		return sb, nil
	}
	sb, err := storyboard.LoadLegacyProps(cfg.PropsPath)
	if err != nil {
		return nil, cli.Errorf(cli.CodeFatal, "%v", err)
	}
	return sb, nil
}

// scaffold probes every narration file in dir and writes a storyboard
// skeleton for the author to fill in: one title scene per audio file,
// in file name order, with measured durations.
func scaffold(ctx context.Context, out io.Writer, enc video.Encoder, dir, outputPath string) error {
	files, err := system.ListAudioFiles(dir)
	if err != nil {
		return cli.Errorf(cli.CodeFatal, "%v", err)
	}
	if len(files) == 0 {
		return cli.Errorf(cli.CodeFatal, "no audio files in %q", dir)
	}

	sb := &storyboard.Storyboard{
		Title: "Untitled Explainer",
		Video: storyboard.Video{
			Width:  storyboard.DefaultWidth,
			Height: storyboard.DefaultHeight,
			FPS:    storyboard.DefaultFPS,
		},
		Style: storyboard.Style{
			BackgroundColor: storyboard.DefaultBackgroundColor,
			PrimaryColor:    storyboard.DefaultPrimaryColor,
			SecondaryColor:  storyboard.DefaultSecondaryColor,
			FontFamily:      storyboard.DefaultFontFamily,
		},
		Audio: storyboard.Audio{VoiceoverDir: dir},
	}

	for _, name := range files {
		duration, err := enc.ProbeDuration(ctx, filepath.Join(dir, name))
		if err != nil {
			return cli.Errorf(cli.CodeFatal, "probe %q: %v", name, err)
		}
		id := sceneID(name)
		sb.Scenes = append(sb.Scenes, storyboard.Scene{
			ID:                   id,
			Type:                 "title",
			Title:                sceneTitle(id),
			AudioFile:            name,
			AudioDurationSeconds: duration,
		})
	}

	if err := storyboard.Write(sb, outputPath); err != nil {
		return cli.Errorf(cli.CodeFatal, "%v", err)
	}

	fmt.Fprintf(out, "scaffolded %s: %d scenes, %.1fs\n", outputPath, len(sb.Scenes), sb.TotalDurationSeconds())
	return nil
}

// sceneID derives a scene id from a narration file name, dropping the
// extension and any ordering prefix ("02_forces.mp3" -> "forces").
func sceneID(name string) string {
	id := strings.TrimSuffix(name, filepath.Ext(name))
	if i := strings.IndexAny(id, "_-"); i > 0 {
		if _, onlyDigits := digitsPrefix(id[:i]); onlyDigits {
			id = id[i+1:]
		}
	}
	if id == "" {
		return name
	}
	return id
}

func digitsPrefix(s string) (string, bool) {
	for _, r := range s {
		if r < '0' || r > '9' {
			return s, false
		}
	}
	return s, len(s) > 0
}

// sceneTitle turns a scene id into a readable placeholder title.
func sceneTitle(id string) string {
	title := strings.NewReplacer("_", " ", "-", " ").Replace(id)
	if title == "" {
		return id
	}
	return strings.ToUpper(title[:1]) + title[1:]
}
