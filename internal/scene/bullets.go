package scene

import (
	"fmt"

	"github.com/ivlev/story2video/internal/anim"
)

// Bullet list phases, in frames.
const (
	bulletsHeadingEnd    = 24
	bulletsFirstDelay    = 18
	bulletsStaggerFrames = 14
	bulletsSlidePx       = 56
	bulletsFadeOutFrames = 16
)

// Bullets is an agenda card: a heading and staggered bullet lines
// that spring in one after another.
type Bullets struct {
	cfg Config
}

// NewBullets builds the bullet list component.
func NewBullets(cfg Config) (Component, error) {
	if len(cfg.Items) == 0 {
		return nil, fmt.Errorf("bullets scene %q has no items", cfg.ID)
	}
	return &Bullets{cfg: cfg}, nil
}

func (b *Bullets) Kind() Kind { return KindBullets }

func (b *Bullets) Layers() []Layer {
	marginX := b.cfg.Width / 8
	lineSize := float64(b.cfg.Height) * 0.045
	rowStep := int(lineSize * 1.9)
	firstRowY := b.cfg.Height/3 + rowStep/2

	layers := []Layer{
		{
			Name:  "heading",
			Kind:  LayerText,
			Text:  b.cfg.Title,
			Size:  float64(b.cfg.Height) * 0.062,
			Bold:  true,
			Color: b.cfg.Theme.Primary,
			Align: AlignLeft,
			X:     marginX,
			Y:     b.cfg.Height / 5,
		},
	}

	for i, item := range b.cfg.Items {
		layers = append(layers, Layer{
			Name:  fmt.Sprintf("bullet-%d", i),
			Kind:  LayerText,
			Text:  "•  " + item,
			Size:  lineSize,
			Color: b.cfg.Theme.Primary,
			Align: AlignLeft,
			X:     marginX + b.cfg.Width/40,
			Y:     firstRowY + i*rowStep,
		})
	}

	return layers
}

func (b *Bullets) Props(layer string, frame, durationInFrames, fps float64) LayerProps {
	p := StaticProps()

	fadeOutStart := max(bulletsHeadingEnd, durationInFrames-bulletsFadeOutFrames)
	fadeOut := anim.Interpolate(frame,
		[]float64{fadeOutStart, fadeOutStart + bulletsFadeOutFrames},
		[]float64{1, 0},
		anim.WithClamp())

	if layer == "heading" {
		p.Opacity = fadeOut * anim.Interpolate(frame,
			[]float64{0, bulletsHeadingEnd},
			[]float64{0, 1},
			anim.WithClamp())
		return p
	}

	idx, ok := bulletIndex(layer)
	if !ok {
		p.Opacity = fadeOut
		return p
	}

	entry := bulletsFirstDelay + float64(idx)*bulletsStaggerFrames
	settle := anim.Spring(frame-entry, fps, anim.DefaultSpring())
	p.Opacity = fadeOut * min(1, settle*1.4)
	p.OffsetX = (1 - settle) * bulletsSlidePx
	return p
}

func bulletIndex(layer string) (int, bool) {
	var idx int
	if _, err := fmt.Sscanf(layer, "bullet-%d", &idx); err != nil {
		return 0, false
	}
	return idx, true
}
