package scene

import (
	"fmt"

	"github.com/ivlev/story2video/internal/anim"
	"github.com/tanema/gween/ease"
)

// Bar chart phases, in frames.
const (
	chartHeadingEnd    = 24
	chartGrowFirst     = 20
	chartGrowStagger   = 10
	chartGrowFrames    = 36
	chartLabelLag      = 12
	chartFadeOutFrames = 16
)

// Chart is a bar chart card: bars grow from the baseline one after
// another, labels fading in as each bar lands.
type Chart struct {
	cfg     Config
	maxVal  float64
	plotTop int
}

// NewChart builds the bar chart component. Items label the bars,
// Values size them; counts must match.
func NewChart(cfg Config) (Component, error) {
	if len(cfg.Values) == 0 {
		return nil, fmt.Errorf("chart scene %q has no values", cfg.ID)
	}
	if len(cfg.Items) != len(cfg.Values) {
		return nil, fmt.Errorf("chart scene %q has %d labels for %d values", cfg.ID, len(cfg.Items), len(cfg.Values))
	}
	maxVal := cfg.Values[0]
	for _, v := range cfg.Values[1:] {
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal <= 0 {
		return nil, fmt.Errorf("chart scene %q needs a positive value", cfg.ID)
	}
	return &Chart{cfg: cfg, maxVal: maxVal, plotTop: cfg.Height / 4}, nil
}

func (c *Chart) Kind() Kind { return KindChart }

func (c *Chart) Layers() []Layer {
	n := len(c.cfg.Values)
	baselineY := c.cfg.Height - c.cfg.Height/5
	plotH := baselineY - c.plotTop
	slot := c.cfg.Width * 3 / 4 / n
	barW := slot * 3 / 5
	firstX := c.cfg.Width/8 + slot/2

	layers := []Layer{
		{
			Name:  "heading",
			Kind:  LayerText,
			Text:  c.cfg.Title,
			Size:  float64(c.cfg.Height) * 0.062,
			Bold:  true,
			Color: c.cfg.Theme.Primary,
			X:     c.cfg.Width / 2,
			Y:     c.cfg.Height / 8,
		},
		{
			Name:  "baseline",
			Kind:  LayerBox,
			Color: c.cfg.Theme.Muted(),
			X:     c.cfg.Width / 2,
			Y:     baselineY,
			W:     c.cfg.Width * 3 / 4,
			H:     4,
		},
	}

	for i, v := range c.cfg.Values {
		barH := int(float64(plotH) * v / c.maxVal)
		if barH < 4 {
			barH = 4
		}
		barColor := c.cfg.Theme.Secondary
		if i%2 == 1 {
			barColor = c.cfg.Theme.Muted()
		}
		x := firstX + i*slot
		layers = append(layers,
			Layer{
				Name:  fmt.Sprintf("bar-%d", i),
				Kind:  LayerBox,
				Color: barColor,
				Align: AlignBottom,
				X:     x,
				Y:     baselineY - 2,
				W:     barW,
				H:     barH,
			},
			Layer{
				Name:  fmt.Sprintf("label-%d", i),
				Kind:  LayerText,
				Text:  c.cfg.Items[i],
				Size:  float64(c.cfg.Height) * 0.032,
				Color: c.cfg.Theme.Primary,
				X:     x,
				Y:     baselineY + c.cfg.Height/24,
			},
		)
	}

	return layers
}

func (c *Chart) Props(layer string, frame, durationInFrames, fps float64) LayerProps {
	p := StaticProps()

	fadeOutStart := max(chartHeadingEnd, durationInFrames-chartFadeOutFrames)
	fadeOut := anim.Interpolate(frame,
		[]float64{fadeOutStart, fadeOutStart + chartFadeOutFrames},
		[]float64{1, 0},
		anim.WithClamp())
	p.Opacity = fadeOut

	switch {
	case layer == "heading":
		p.Opacity = fadeOut * anim.Interpolate(frame,
			[]float64{0, chartHeadingEnd},
			[]float64{0, 1},
			anim.WithClamp())
	case layer == "baseline":
		p.Opacity = fadeOut * anim.Interpolate(frame,
			[]float64{0, chartGrowFirst},
			[]float64{0, 1},
			anim.WithClamp())
	default:
		if idx, kind, ok := chartIndex(layer); ok {
			start := chartGrowFirst + float64(idx)*chartGrowStagger
			switch kind {
			case "bar":
				p.Scale = anim.Interpolate(frame,
					[]float64{start, start + chartGrowFrames},
					[]float64{0, 1},
					anim.WithEasing(ease.OutBack),
					anim.WithClamp())
			case "label":
				p.Opacity = fadeOut * anim.Interpolate(frame,
					[]float64{start + chartLabelLag, start + chartGrowFrames},
					[]float64{0, 1},
					anim.WithClamp())
			}
		}
	}

	return p
}

func chartIndex(layer string) (int, string, bool) {
	var idx int
	if _, err := fmt.Sscanf(layer, "bar-%d", &idx); err == nil {
		return idx, "bar", true
	}
	if _, err := fmt.Sscanf(layer, "label-%d", &idx); err == nil {
		return idx, "label", true
	}
	return 0, "", false
}
