package storyboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default output geometry used when the document leaves video unset.
const (
	DefaultWidth  = 1920
	DefaultHeight = 1080
	DefaultFPS    = 30
)

// Default palette used when the document leaves style fields unset.
const (
	DefaultBackgroundColor = "#0f172a"
	DefaultPrimaryColor    = "#f8fafc"
	DefaultSecondaryColor  = "#38bdf8"
	DefaultFontFamily      = "sans"
)

// Load reads the storyboard document at path, picking the format from
// the file extension (.json, .yaml, .yml), and returns a validated
// [Storyboard] with defaults applied.
func Load(path string) (*Storyboard, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("storyboard: open %q: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		sb, err := LoadYAML(f)
		if err != nil {
			return nil, fmt.Errorf("storyboard: parse %q: %w", path, err)
		}
		return sb, nil
	default:
		sb, err := LoadJSON(f)
		if err != nil {
			return nil, fmt.Errorf("storyboard: parse %q: %w", path, err)
		}
		return sb, nil
	}
}

// LoadJSON decodes a JSON storyboard from r and validates the result.
// Unknown fields are rejected so authoring typos surface as errors.
func LoadJSON(r io.Reader) (*Storyboard, error) {
	sb := &Storyboard{}
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(sb); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	applyDefaults(sb)
	if err := Validate(sb); err != nil {
		return nil, err
	}
	return sb, nil
}

// LoadYAML decodes a YAML storyboard from r and validates the result.
// Useful in tests where documents are constructed from string literals.
func LoadYAML(r io.Reader) (*Storyboard, error) {
	sb := &Storyboard{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(sb); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	applyDefaults(sb)
	if err := Validate(sb); err != nil {
		return nil, err
	}
	return sb, nil
}

// applyDefaults fills unset video and style fields in place.
func applyDefaults(sb *Storyboard) {
	if sb.Video.Width == 0 {
		sb.Video.Width = DefaultWidth
	}
	if sb.Video.Height == 0 {
		sb.Video.Height = DefaultHeight
	}
	if sb.Video.FPS == 0 {
		sb.Video.FPS = DefaultFPS
	}
	if sb.Style.BackgroundColor == "" {
		sb.Style.BackgroundColor = DefaultBackgroundColor
	}
	if sb.Style.PrimaryColor == "" {
		sb.Style.PrimaryColor = DefaultPrimaryColor
	}
	if sb.Style.SecondaryColor == "" {
		sb.Style.SecondaryColor = DefaultSecondaryColor
	}
	if sb.Style.FontFamily == "" {
		sb.Style.FontFamily = DefaultFontFamily
	}
}

// Validate checks that sb contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(sb *Storyboard) error {
	var errs []error

	if sb.Title == "" {
		errs = append(errs, errors.New("title is required"))
	}

	// Video geometry. Dimensions must be even for yuv420p output.
	if sb.Video.Width <= 0 {
		errs = append(errs, fmt.Errorf("video.width %d must be positive", sb.Video.Width))
	} else if sb.Video.Width%2 != 0 {
		errs = append(errs, fmt.Errorf("video.width %d must be even", sb.Video.Width))
	}
	if sb.Video.Height <= 0 {
		errs = append(errs, fmt.Errorf("video.height %d must be positive", sb.Video.Height))
	} else if sb.Video.Height%2 != 0 {
		errs = append(errs, fmt.Errorf("video.height %d must be even", sb.Video.Height))
	}
	if sb.Video.FPS <= 0 {
		errs = append(errs, fmt.Errorf("video.fps %d must be positive", sb.Video.FPS))
	}

	// Style colors must be parseable hex.
	for _, c := range []struct{ field, value string }{
		{"style.background_color", sb.Style.BackgroundColor},
		{"style.primary_color", sb.Style.PrimaryColor},
		{"style.secondary_color", sb.Style.SecondaryColor},
	} {
		if _, err := ParseHexColor(c.value); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", c.field, err))
		}
	}

	// Scenes. An unknown type is not an error here: the renderer
	// substitutes a placeholder card for types it cannot resolve.
	idsSeen := make(map[string]int, len(sb.Scenes))
	for i, sc := range sb.Scenes {
		prefix := fmt.Sprintf("scenes[%d]", i)
		if sc.ID == "" {
			errs = append(errs, fmt.Errorf("%s.id is required", prefix))
		} else {
			if prev, ok := idsSeen[sc.ID]; ok {
				errs = append(errs, fmt.Errorf("%s.id %q is a duplicate of scenes[%d]", prefix, sc.ID, prev))
			}
			idsSeen[sc.ID] = i
		}
		if sc.Type == "" {
			errs = append(errs, fmt.Errorf("%s.type is required", prefix))
		}
		if sc.AudioDurationSeconds < 0 {
			errs = append(errs, fmt.Errorf("%s.audio_duration_seconds %.3f must not be negative", prefix, sc.AudioDurationSeconds))
		}
		if sc.AudioFile == "" {
			slog.Warn("scene has no narration audio; it will render silent",
				"scene", sc.ID,
			)
		}
		for j, cue := range sc.SfxCues {
			cuePrefix := fmt.Sprintf("%s.sfx_cues[%d]", prefix, j)
			if cue.File == "" {
				errs = append(errs, fmt.Errorf("%s.file is required", cuePrefix))
			}
			if cue.AtSeconds < 0 {
				errs = append(errs, fmt.Errorf("%s.at_seconds %.3f must not be negative", cuePrefix, cue.AtSeconds))
			}
			if cue.Gain != nil && *cue.Gain < 0 {
				errs = append(errs, fmt.Errorf("%s.gain %.3f must not be negative", cuePrefix, *cue.Gain))
			}
		}
	}

	// Audio settings.
	if buf := sb.Audio.BufferBetweenScenesSeconds; buf != nil && *buf < 0 {
		errs = append(errs, fmt.Errorf("audio.buffer_between_scenes_seconds %.3f must not be negative", *buf))
	}
	if music := sb.Audio.BackgroundMusic; music != nil {
		if music.Path == "" {
			errs = append(errs, errors.New("audio.background_music.path is required"))
		}
		if music.Volume < 0 || music.Volume > 1 {
			errs = append(errs, fmt.Errorf("audio.background_music.volume %.3f is out of range [0, 1]", music.Volume))
		} else if music.Volume == 0 {
			slog.Warn("background music volume is 0; the bed will be inaudible")
		}
	}

	return errors.Join(errs...)
}
