// Package render turns scene components into encoded video segments
// and assembles them into the final explainer. Per-frame drawing is
// pure: a frame is painted entirely from the component's property
// values at that frame, so segments can be rendered in any order and
// in parallel.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/ivlev/story2video/internal/scene"
	"github.com/ivlev/story2video/internal/system"
)

type faceKey struct {
	size int
	bold bool
}

// Rasterizer paints one scene's frames. It caches font faces, which
// are not safe for concurrent use, so each render worker owns its own
// Rasterizer.
type Rasterizer struct {
	width   int
	height  int
	theme   scene.Theme
	regular *opentype.Font
	bold    *opentype.Font
	faces   map[faceKey]font.Face
}

// NewRasterizer prepares a rasterizer for the given output geometry
// and theme. The font family maps onto the Go font set: "mono" gets
// Go Mono, everything else Go Regular/Bold.
func NewRasterizer(width, height int, theme scene.Theme) (*Rasterizer, error) {
	regularTTF, boldTTF := goregular.TTF, gobold.TTF
	if theme.FontFamily == "mono" {
		regularTTF, boldTTF = gomono.TTF, gomono.TTF
	}

	regular, err := opentype.Parse(regularTTF)
	if err != nil {
		return nil, fmt.Errorf("render: parse regular font: %w", err)
	}
	bold, err := opentype.Parse(boldTTF)
	if err != nil {
		return nil, fmt.Errorf("render: parse bold font: %w", err)
	}

	return &Rasterizer{
		width:   width,
		height:  height,
		theme:   theme,
		regular: regular,
		bold:    bold,
		faces:   make(map[faceKey]font.Face),
	}, nil
}

// DrawFrame paints the component at the given frame into dst, which
// must match the rasterizer geometry. Layers paint in order over the
// theme background.
func (r *Rasterizer) DrawFrame(comp scene.Component, layers []scene.Layer, frame, durationInFrames, fps float64, dst *image.RGBA) error {
	b := dst.Bounds()
	if b.Dx() != r.width || b.Dy() != r.height {
		return fmt.Errorf("render: frame buffer is %dx%d, want %dx%d", b.Dx(), b.Dy(), r.width, r.height)
	}

	draw.Draw(dst, b, image.NewUniform(r.theme.Background), image.Point{}, draw.Src)

	for i := range layers {
		layer := &layers[i]
		props := comp.Props(layer.Name, frame, durationInFrames, fps)
		if props.Opacity <= 0 || props.Scale <= 0 {
			continue
		}
		if props.Opacity > 1 {
			props.Opacity = 1
		}

		switch layer.Kind {
		case scene.LayerBox:
			r.drawBox(dst, layer, props)
		case scene.LayerText:
			if err := r.drawText(dst, layer, props); err != nil {
				return err
			}
		case scene.LayerImage:
			r.drawImage(dst, layer, props)
		}
	}

	return nil
}

// anchorRect places a w x h element of the layer at its anchor,
// honoring the per-frame offsets.
func anchorRect(layer *scene.Layer, props scene.LayerProps, w, h int) image.Rectangle {
	x := layer.X + int(math.Round(props.OffsetX))
	y := layer.Y + int(math.Round(props.OffsetY))

	switch layer.Align {
	case scene.AlignLeft:
		return image.Rect(x, y-h/2, x+w, y+h-h/2)
	case scene.AlignBottom:
		return image.Rect(x-w/2, y-h, x+w-w/2, y)
	default: // AlignCenter
		return image.Rect(x-w/2, y-h/2, x+w-w/2, y+h-h/2)
	}
}

func alphaMask(opacity float64) *image.Uniform {
	return image.NewUniform(color.Alpha{A: uint8(math.Round(opacity * 255))})
}

func (r *Rasterizer) drawBox(dst *image.RGBA, layer *scene.Layer, props scene.LayerProps) {
	w := int(math.Round(float64(layer.W) * props.Scale))
	h := int(math.Round(float64(layer.H) * props.Scale))
	if w < 1 || h < 1 {
		return
	}
	rect := anchorRect(layer, props, w, h).Intersect(dst.Bounds())
	if rect.Empty() {
		return
	}
	draw.DrawMask(dst, rect, image.NewUniform(layer.Color), image.Point{}, alphaMask(props.Opacity), image.Point{}, draw.Over)
}

func (r *Rasterizer) drawText(dst *image.RGBA, layer *scene.Layer, props scene.LayerProps) error {
	text := layer.Text
	if layer.Format != "" && props.Counter != nil {
		text = fmt.Sprintf(layer.Format, *props.Counter)
	}
	if text == "" {
		return nil
	}

	size := int(math.Round(layer.Size * props.Scale))
	if size < 1 {
		return nil
	}
	face, err := r.face(size, layer.Bold)
	if err != nil {
		return err
	}

	metrics := face.Metrics()
	width := font.MeasureString(face, text).Ceil()
	ascent := metrics.Ascent.Ceil()
	height := ascent + metrics.Descent.Ceil()

	rect := anchorRect(layer, props, width, height)

	// Text opacity rides on the source color's alpha channel.
	c := layer.Color
	c.A = uint8(math.Round(props.Opacity * 255))

	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(toPremultiplied(c)),
		Face: face,
		Dot:  fixedPoint(rect.Min.X, rect.Min.Y+ascent),
	}
	d.DrawString(text)
	return nil
}

func (r *Rasterizer) drawImage(dst *image.RGBA, layer *scene.Layer, props scene.LayerProps) {
	if layer.Image == nil {
		return
	}
	w := int(math.Round(float64(layer.W) * props.Scale))
	h := int(math.Round(float64(layer.H) * props.Scale))
	if w < 1 || h < 1 {
		return
	}
	rect := anchorRect(layer, props, w, h)

	if props.Opacity >= 1 {
		xdraw.ApproxBiLinear.Scale(dst, rect, layer.Image, layer.Image.Bounds(), xdraw.Over, nil)
		return
	}

	// Partially transparent images scale into a pooled buffer first,
	// then composite through an alpha mask.
	tmpRect := image.Rect(0, 0, w, h)
	tmp := system.GetImage(tmpRect)
	defer system.PutImage(tmp)
	clear(tmp.Pix)

	xdraw.ApproxBiLinear.Scale(tmp, tmpRect, layer.Image, layer.Image.Bounds(), xdraw.Src, nil)
	draw.DrawMask(dst, rect.Intersect(dst.Bounds()), tmp, tmpRect.Min, alphaMask(props.Opacity), image.Point{}, draw.Over)
}

func (r *Rasterizer) face(size int, bold bool) (font.Face, error) {
	key := faceKey{size: size, bold: bold}
	if face, ok := r.faces[key]; ok {
		return face, nil
	}

	src := r.regular
	if bold {
		src = r.bold
	}
	face, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("render: font face at %dpx: %w", size, err)
	}
	r.faces[key] = face
	return face, nil
}

func fixedPoint(x, y int) fixed.Point26_6 {
	return fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)}
}

// toPremultiplied converts a straight-alpha color for use as a
// uniform draw source.
func toPremultiplied(c color.RGBA) color.RGBA {
	a := uint16(c.A)
	return color.RGBA{
		R: uint8(uint16(c.R) * a / 255),
		G: uint8(uint16(c.G) * a / 255),
		B: uint8(uint16(c.B) * a / 255),
		A: c.A,
	}
}
