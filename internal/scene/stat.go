package scene

import (
	"fmt"
	"math"
	"strings"

	"github.com/ivlev/story2video/internal/anim"
	"github.com/tanema/gween/ease"
)

// Stat card phases, in frames.
const (
	statCountStart    = 15
	statCountFrames   = 45
	statCountEnd      = statCountStart + statCountFrames
	statCaptionDelay  = 30
	statCaptionEnd    = 54
	statFadeOutFrames = 16
)

// Stat is a single-number card: a large value that counts up from
// zero with a caption underneath.
type Stat struct {
	cfg    Config
	target float64
}

// NewStat builds the counting stat component.
func NewStat(cfg Config) (Component, error) {
	if cfg.Value == nil {
		return nil, fmt.Errorf("stat scene %q has no value", cfg.ID)
	}
	return &Stat{cfg: cfg, target: *cfg.Value}, nil
}

func (s *Stat) Kind() Kind { return KindStat }

func (s *Stat) Layers() []Layer {
	cx := s.cfg.Width / 2
	cy := s.cfg.Height / 2

	// Sprintf treats '%' in the suffix as a verb, so escape it.
	suffix := strings.ReplaceAll(s.cfg.Suffix, "%", "%%")

	return []Layer{
		{
			Name:   "value",
			Kind:   LayerText,
			Text:   fmt.Sprintf("%.0f%s", s.target, s.cfg.Suffix),
			Format: "%.0f" + suffix,
			Size:   float64(s.cfg.Height) * 0.17,
			Bold:   true,
			Color:  s.cfg.Theme.Secondary,
			X:      cx,
			Y:      cy - s.cfg.Height/18,
		},
		{
			Name:  "caption",
			Kind:  LayerText,
			Text:  s.cfg.Title,
			Size:  float64(s.cfg.Height) * 0.045,
			Color: s.cfg.Theme.Primary,
			X:     cx,
			Y:     cy + s.cfg.Height/8,
		},
	}
}

func (s *Stat) Props(layer string, frame, durationInFrames, fps float64) LayerProps {
	p := StaticProps()

	fadeOutStart := max(statCountEnd, durationInFrames-statFadeOutFrames)
	fadeOut := anim.Interpolate(frame,
		[]float64{fadeOutStart, fadeOutStart + statFadeOutFrames},
		[]float64{1, 0},
		anim.WithClamp())

	switch layer {
	case "value":
		count := math.Round(anim.Interpolate(frame,
			[]float64{statCountStart, statCountEnd},
			[]float64{0, s.target},
			anim.WithEasing(ease.OutCubic),
			anim.WithClamp()))
		p.Counter = &count
		p.Opacity = fadeOut * anim.Interpolate(frame,
			[]float64{statCountStart - 10, statCountStart},
			[]float64{0, 1},
			anim.WithClamp())
	case "caption":
		p.Opacity = fadeOut * anim.Interpolate(frame,
			[]float64{statCaptionDelay, statCaptionEnd},
			[]float64{0, 1},
			anim.WithClamp())
		p.OffsetY = anim.Interpolate(frame,
			[]float64{statCaptionDelay, statCaptionEnd},
			[]float64{18, 0},
			anim.WithEasing(ease.OutCubic),
			anim.WithClamp())
	}

	return p
}
