package scene

import (
	"fmt"
	"image"

	"github.com/ivlev/story2video/internal/anim"
	"github.com/ivlev/story2video/internal/source"
	"github.com/tanema/gween/ease"
)

// Document scene phases and zoom bounds.
const (
	docPanDelay    = 30
	docCaptionIn   = 20
	docCaptionEnd  = 44
	docZoomFrom    = 1.0
	docZoomTo      = 1.12
	docFadeFrames  = 14
	docPanFraction = 0.6
)

// Document shows a rendered page of a PDF or an image asset with a
// slow push toward its densest region.
type Document struct {
	cfg  Config
	page image.Image
	panX float64
	panY float64
}

// NewDocument builds the document component, rendering the referenced
// page up front so per-frame evaluation stays pure.
func NewDocument(cfg Config) (Component, error) {
	if cfg.Asset == "" {
		return nil, fmt.Errorf("document scene %q has no asset", cfg.ID)
	}
	src, err := source.Open(cfg.Asset)
	if err != nil {
		return nil, fmt.Errorf("document scene %q: %w", cfg.ID, err)
	}
	defer src.Close()

	pageNum := cfg.Page
	if pageNum < 1 {
		pageNum = 1
	}
	img, err := src.RenderPage(pageNum, cfg.Width*3/4)
	if err != nil {
		return nil, fmt.Errorf("document scene %q: render page %d: %w", cfg.ID, pageNum, err)
	}

	d := &Document{cfg: cfg, page: img}

	// Aim the push at the busiest region of the page, if one stands
	// out; otherwise the zoom stays centered.
	if regions := source.DetectFocusRegions(img, 1); len(regions) > 0 {
		b := img.Bounds()
		rc := regions[0]
		d.panX = -(float64(rc.Min.X+rc.Dx()/2) - float64(b.Dx())/2) * docPanFraction
		d.panY = -(float64(rc.Min.Y+rc.Dy()/2) - float64(b.Dy())/2) * docPanFraction
	}

	return d, nil
}

func (d *Document) Kind() Kind { return KindDocument }

func (d *Document) Layers() []Layer {
	b := d.page.Bounds()

	layers := []Layer{
		{
			Name:  "page",
			Kind:  LayerImage,
			Image: d.page,
			X:     d.cfg.Width / 2,
			Y:     d.cfg.Height / 2,
			W:     b.Dx(),
			H:     b.Dy(),
		},
	}

	if d.cfg.Title != "" {
		layers = append(layers, Layer{
			Name:  "caption",
			Kind:  LayerText,
			Text:  d.cfg.Title,
			Size:  float64(d.cfg.Height) * 0.04,
			Color: d.cfg.Theme.Primary,
			X:     d.cfg.Width / 2,
			Y:     d.cfg.Height - d.cfg.Height/14,
		})
	}

	return layers
}

func (d *Document) Props(layer string, frame, durationInFrames, fps float64) LayerProps {
	p := StaticProps()

	switch layer {
	case "page":
		p.Opacity = anim.Interpolate(frame,
			[]float64{0, docFadeFrames},
			[]float64{0, 1},
			anim.WithClamp())
		p.Scale = anim.Interpolate(frame,
			[]float64{0, durationInFrames},
			[]float64{docZoomFrom, docZoomTo},
			anim.WithEasing(ease.InOutSine),
			anim.WithClamp())

		panStart := min(docPanDelay, durationInFrames-1)
		push := anim.Interpolate(frame,
			[]float64{panStart, durationInFrames},
			[]float64{0, 1},
			anim.WithEasing(ease.InOutSine),
			anim.WithClamp())
		p.OffsetX = d.panX * push
		p.OffsetY = d.panY * push
	case "caption":
		p.Opacity = anim.Interpolate(frame,
			[]float64{docCaptionIn, docCaptionEnd},
			[]float64{0, 1},
			anim.WithClamp())
	}

	return p
}
