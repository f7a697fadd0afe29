package scene

import (
	"fmt"

	"github.com/ivlev/story2video/internal/anim"
)

const placeholderFadeFrames = 12

// Placeholder stands in for a scene whose type tag has no registered
// builder or whose builder failed. The video keeps rendering; the
// card says plainly what is missing so the authoring error is visible
// in the output instead of crashing the run.
type Placeholder struct {
	cfg    Config
	detail string
}

// NewPlaceholder builds the placeholder card. detail describes what
// went wrong, e.g. the unresolved type tag.
func NewPlaceholder(cfg Config, detail string) Component {
	return &Placeholder{cfg: cfg, detail: detail}
}

func (p *Placeholder) Kind() Kind { return KindUnknown }

func (p *Placeholder) Layers() []Layer {
	cx := p.cfg.Width / 2
	cy := p.cfg.Height / 2

	return []Layer{
		{
			Name:  "frame",
			Kind:  LayerBox,
			Color: p.cfg.Theme.Muted(),
			X:     cx,
			Y:     cy,
			W:     p.cfg.Width / 2,
			H:     p.cfg.Height / 3,
		},
		{
			Name:  "label",
			Kind:  LayerText,
			Text:  "scene unavailable",
			Size:  float64(p.cfg.Height) * 0.055,
			Bold:  true,
			Color: p.cfg.Theme.Background,
			X:     cx,
			Y:     cy - p.cfg.Height/24,
		},
		{
			Name:  "detail",
			Kind:  LayerText,
			Text:  fmt.Sprintf("%s (%s)", p.detail, p.cfg.ID),
			Size:  float64(p.cfg.Height) * 0.03,
			Color: p.cfg.Theme.Background,
			X:     cx,
			Y:     cy + p.cfg.Height/24,
		},
	}
}

func (p *Placeholder) Props(layer string, frame, durationInFrames, fps float64) LayerProps {
	props := StaticProps()
	props.Opacity = anim.Interpolate(frame,
		[]float64{0, placeholderFadeFrames},
		[]float64{0, 1},
		anim.WithClamp())
	return props
}
