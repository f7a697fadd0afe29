package scene

import (
	"fmt"

	"github.com/ivlev/story2video/internal/anim"
	qrcode "github.com/skip2/go-qrcode"
)

// Outro phases, in frames.
const (
	outroQRDelay    = 12
	outroCTADelay   = 30
	outroCTAEnd     = 55
	outroURLDelay   = 40
	outroURLEnd     = 65
	outroPulseStart = 70
	outroPulseMid   = 85
	outroPulseEnd   = 100
)

// Outro is the closing card: a call to action with a QR code that
// pops in and pulses once.
type Outro struct {
	cfg Config
	qr  *qrcode.QRCode
}

// NewOutro builds the outro component. Asset holds the link the QR
// code encodes.
func NewOutro(cfg Config) (Component, error) {
	if cfg.Asset == "" {
		return nil, fmt.Errorf("outro scene %q has no link asset", cfg.ID)
	}
	q, err := qrcode.New(cfg.Asset, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("outro scene %q: encode %q: %w", cfg.ID, cfg.Asset, err)
	}
	q.DisableBorder = true
	q.ForegroundColor = cfg.Theme.Primary
	q.BackgroundColor = cfg.Theme.Background
	return &Outro{cfg: cfg, qr: q}, nil
}

func (o *Outro) Kind() Kind { return KindOutro }

func (o *Outro) Layers() []Layer {
	cx := o.cfg.Width / 2
	qrSize := o.cfg.Height / 3

	return []Layer{
		{
			Name:  "cta",
			Kind:  LayerText,
			Text:  o.cfg.Title,
			Size:  float64(o.cfg.Height) * 0.065,
			Bold:  true,
			Color: o.cfg.Theme.Primary,
			X:     cx,
			Y:     o.cfg.Height / 5,
		},
		{
			Name:  "qr",
			Kind:  LayerImage,
			Image: o.qr.Image(qrSize),
			X:     cx,
			Y:     o.cfg.Height/2 + o.cfg.Height/20,
			W:     qrSize,
			H:     qrSize,
		},
		{
			Name:  "url",
			Kind:  LayerText,
			Text:  o.cfg.Asset,
			Size:  float64(o.cfg.Height) * 0.03,
			Color: o.cfg.Theme.Muted(),
			X:     cx,
			Y:     o.cfg.Height - o.cfg.Height/7,
		},
	}
}

func (o *Outro) Props(layer string, frame, durationInFrames, fps float64) LayerProps {
	p := StaticProps()

	switch layer {
	case "cta":
		p.Opacity = anim.Interpolate(frame,
			[]float64{outroCTADelay, outroCTAEnd},
			[]float64{0, 1},
			anim.WithClamp())
	case "qr":
		pop := anim.Spring(frame-outroQRDelay, fps, anim.SpringConfig{Mass: 1, Stiffness: 170, Damping: 12})
		pulse := anim.Interpolate(frame,
			[]float64{outroPulseStart, outroPulseMid, outroPulseEnd},
			[]float64{1, 1.06, 1},
			anim.WithClamp())
		p.Scale = pop * pulse
		p.Opacity = min(1, pop*1.5)
	case "url":
		p.Opacity = anim.Interpolate(frame,
			[]float64{outroURLDelay, outroURLEnd},
			[]float64{0, 1},
			anim.WithClamp())
	}

	return p
}
