// Package storyboard defines the declarative document a video is
// rendered from: global video and style settings plus an ordered list
// of narrated scenes. The document is produced by an external
// authoring step, loaded once, and treated as read-only by the
// rendering pipeline.
package storyboard

// Storyboard is the root document.
type Storyboard struct {
	Title       string  `json:"title" yaml:"title"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Video       Video   `json:"video" yaml:"video"`
	Style       Style   `json:"style" yaml:"style"`
	Scenes      []Scene `json:"scenes" yaml:"scenes"`
	Audio       Audio   `json:"audio" yaml:"audio"`
}

// Video holds the output geometry and frame rate.
type Video struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
	FPS    int `json:"fps" yaml:"fps"`
}

// Style is the document-wide palette and typography. Colors are hex
// strings ("#rrggbb" or "#rgb").
type Style struct {
	BackgroundColor string `json:"background_color" yaml:"background_color"`
	PrimaryColor    string `json:"primary_color" yaml:"primary_color"`
	SecondaryColor  string `json:"secondary_color" yaml:"secondary_color"`
	FontFamily      string `json:"font_family" yaml:"font_family"`
}

// Scene is one narrated segment of the video. Type selects the scene
// component; the optional content fields feed whichever component the
// type resolves to and are ignored by the others.
type Scene struct {
	ID                   string   `json:"id" yaml:"id"`
	Type                 string   `json:"type" yaml:"type"`
	Title                string   `json:"title,omitempty" yaml:"title,omitempty"`
	Subtitle             string   `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	AudioFile            string   `json:"audio_file" yaml:"audio_file"`
	AudioDurationSeconds float64  `json:"audio_duration_seconds" yaml:"audio_duration_seconds"`
	SfxCues              []SfxCue `json:"sfx_cues,omitempty" yaml:"sfx_cues,omitempty"`

	// Content fields, used per scene type.
	Items  []string  `json:"items,omitempty" yaml:"items,omitempty"`
	Values []float64 `json:"values,omitempty" yaml:"values,omitempty"`
	Value  *float64  `json:"value,omitempty" yaml:"value,omitempty"`
	Suffix string    `json:"suffix,omitempty" yaml:"suffix,omitempty"`
	Asset  string    `json:"asset,omitempty" yaml:"asset,omitempty"`
	Page   int       `json:"page,omitempty" yaml:"page,omitempty"`
}

// SfxCue schedules a sound effect at an offset inside its scene. An
// unset gain plays at unity; an explicit 0 mutes the cue.
type SfxCue struct {
	File      string   `json:"file" yaml:"file"`
	AtSeconds float64  `json:"at_seconds" yaml:"at_seconds"`
	Gain      *float64 `json:"gain,omitempty" yaml:"gain,omitempty"`
}

// Audio holds the narration and music settings shared by all scenes.
type Audio struct {
	VoiceoverDir               string   `json:"voiceover_dir" yaml:"voiceover_dir"`
	BufferBetweenScenesSeconds *float64 `json:"buffer_between_scenes_seconds,omitempty" yaml:"buffer_between_scenes_seconds,omitempty"`
	BackgroundMusic            *Music   `json:"background_music,omitempty" yaml:"background_music,omitempty"`
}

// Music is an optional background bed mixed under the narration.
type Music struct {
	Path   string  `json:"path" yaml:"path"`
	Volume float64 `json:"volume" yaml:"volume"`
}
