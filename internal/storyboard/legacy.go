package storyboard

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Legacy props files predate the storyboard document: a flat,
// camelCase composition input with the same information spread over
// fewer levels. They load into a Storyboard so the rest of the
// pipeline never sees the old shape.
type legacyProps struct {
	Title           string        `json:"title"`
	Width           int           `json:"width"`
	Height          int           `json:"height"`
	FPS             int           `json:"fps"`
	BackgroundColor string        `json:"backgroundColor"`
	PrimaryColor    string        `json:"primaryColor"`
	SecondaryColor  string        `json:"secondaryColor"`
	FontFamily      string        `json:"fontFamily"`
	VoiceoverDir    string        `json:"voiceoverDir"`
	BufferSeconds   *float64      `json:"bufferSeconds"`
	Scenes          []legacyScene `json:"scenes"`
}

type legacyScene struct {
	ID                   string    `json:"id"`
	Type                 string    `json:"type"`
	Title                string    `json:"title"`
	Subtitle             string    `json:"subtitle"`
	AudioFile            string    `json:"audioFile"`
	AudioDurationSeconds float64   `json:"audioDurationSeconds"`
	Items                []string  `json:"items"`
	Values               []float64 `json:"values"`
	Value                *float64  `json:"value"`
	Suffix               string    `json:"suffix"`
	Asset                string    `json:"asset"`
	Page                 int       `json:"page"`
}

// LoadLegacyProps reads a legacy composition props file and converts
// it into a validated Storyboard. Unknown fields are tolerated here;
// old props files carry authoring leftovers the new schema dropped.
func LoadLegacyProps(path string) (*Storyboard, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("storyboard: open %q: %w", path, err)
	}
	defer f.Close()

	sb, err := LoadLegacyPropsFrom(f)
	if err != nil {
		return nil, fmt.Errorf("storyboard: parse %q: %w", path, err)
	}
	return sb, nil
}

// LoadLegacyPropsFrom decodes legacy props from r.
func LoadLegacyPropsFrom(r io.Reader) (*Storyboard, error) {
	var props legacyProps
	if err := json.NewDecoder(r).Decode(&props); err != nil {
		return nil, fmt.Errorf("decode legacy props: %w", err)
	}

	sb := &Storyboard{
		Title: props.Title,
		Video: Video{Width: props.Width, Height: props.Height, FPS: props.FPS},
		Style: Style{
			BackgroundColor: props.BackgroundColor,
			PrimaryColor:    props.PrimaryColor,
			SecondaryColor:  props.SecondaryColor,
			FontFamily:      props.FontFamily,
		},
		Audio: Audio{
			VoiceoverDir:               props.VoiceoverDir,
			BufferBetweenScenesSeconds: props.BufferSeconds,
		},
	}

	for _, sc := range props.Scenes {
		sb.Scenes = append(sb.Scenes, Scene{
			ID:                   sc.ID,
			Type:                 sc.Type,
			Title:                sc.Title,
			Subtitle:             sc.Subtitle,
			AudioFile:            sc.AudioFile,
			AudioDurationSeconds: sc.AudioDurationSeconds,
			Items:                sc.Items,
			Values:               sc.Values,
			Value:                sc.Value,
			Suffix:               sc.Suffix,
			Asset:                sc.Asset,
			Page:                 sc.Page,
		})
	}

	applyDefaults(sb)
	if err := Validate(sb); err != nil {
		return nil, err
	}
	return sb, nil
}
