package scene

import (
	"github.com/ivlev/story2video/internal/anim"
	"github.com/tanema/gween/ease"
)

// Title card phases, in frames.
const (
	titleFadeInStart   = 0
	titleFadeInEnd     = 30
	titleRisePx        = 48
	titleAccentDelay   = 10
	titleAccentEnd     = 40
	titleSubtitleDelay = 18
	titleFadeOutFrames = 20
)

// Title is the opening card: a headline, an accent rule and an
// optional subtitle.
type Title struct {
	cfg Config
}

// NewTitle builds the title card component.
func NewTitle(cfg Config) (Component, error) {
	return &Title{cfg: cfg}, nil
}

func (t *Title) Kind() Kind { return KindTitle }

func (t *Title) Layers() []Layer {
	cx := t.cfg.Width / 2
	cy := t.cfg.Height / 2

	layers := []Layer{
		{
			Name:  "headline",
			Kind:  LayerText,
			Text:  t.cfg.Title,
			Size:  float64(t.cfg.Height) * 0.085,
			Bold:  true,
			Color: t.cfg.Theme.Primary,
			X:     cx,
			Y:     cy - t.cfg.Height/12,
		},
		{
			Name:  "accent",
			Kind:  LayerBox,
			Color: t.cfg.Theme.Secondary,
			X:     cx,
			Y:     cy + t.cfg.Height/54,
			W:     t.cfg.Width / 10,
			H:     6,
		},
	}

	if t.cfg.Subtitle != "" {
		layers = append(layers, Layer{
			Name:  "subtitle",
			Kind:  LayerText,
			Text:  t.cfg.Subtitle,
			Size:  float64(t.cfg.Height) * 0.037,
			Color: t.cfg.Theme.Muted(),
			X:     cx,
			Y:     cy + t.cfg.Height/12,
		})
	}

	return layers
}

func (t *Title) Props(layer string, frame, durationInFrames, fps float64) LayerProps {
	p := StaticProps()

	fadeOutStart := max(titleFadeInEnd, durationInFrames-titleFadeOutFrames)
	fadeOut := anim.Interpolate(frame,
		[]float64{fadeOutStart, fadeOutStart + titleFadeOutFrames},
		[]float64{1, 0},
		anim.WithClamp())

	switch layer {
	case "headline":
		p.Opacity = fadeOut * anim.Interpolate(frame,
			[]float64{titleFadeInStart, titleFadeInEnd},
			[]float64{0, 1},
			anim.WithClamp())
		p.OffsetY = anim.Interpolate(frame,
			[]float64{titleFadeInStart, titleFadeInEnd},
			[]float64{titleRisePx, 0},
			anim.WithEasing(ease.OutCubic),
			anim.WithClamp())
	case "accent":
		p.Opacity = fadeOut
		p.Scale = anim.Interpolate(frame,
			[]float64{titleAccentDelay, titleAccentEnd},
			[]float64{0, 1},
			anim.WithEasing(ease.InOutCubic),
			anim.WithClamp())
	case "subtitle":
		p.Opacity = fadeOut * anim.Spring(frame-titleSubtitleDelay, fps, anim.DefaultSpring())
		p.OffsetY = anim.SpringValue(frame-titleSubtitleDelay, fps, anim.DefaultSpring(), 24, 0)
	}

	return p
}
