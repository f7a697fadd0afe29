// Package scene defines the renderable scene components a storyboard
// refers to by type tag. A component is static layer content plus a
// pure per-frame property function; everything time-dependent flows
// through the anim primitives so any frame can be evaluated on its
// own.
package scene

import (
	"image"
	"image/color"
)

// Kind tags a scene component variant.
type Kind string

const (
	KindTitle    Kind = "title"
	KindBullets  Kind = "bullets"
	KindStat     Kind = "stat"
	KindDocument Kind = "document"
	KindChart    Kind = "chart"
	KindOutro    Kind = "outro"
	// KindUnknown marks the placeholder substituted for tags no
	// builder is registered for.
	KindUnknown Kind = "unknown"
)

// Config carries everything a builder needs to lay out a scene:
// document content for this scene, output geometry, timing, and the
// resolved theme. Components keep it by value and never mutate it.
type Config struct {
	ID       string
	Title    string
	Subtitle string
	Items    []string
	Values   []float64
	Value    *float64
	Suffix   string
	Asset    string
	Page     int

	Width          int
	Height         int
	DurationFrames int
	FPS            float64

	Theme Theme
}

// Component is one renderable scene.
type Component interface {
	Kind() Kind
	// Layers lists the drawable elements in paint order.
	Layers() []Layer
	// Props evaluates the animatable properties of one layer at a
	// frame. It is a pure function: the same arguments always produce
	// the same values, so frames may be computed in any order.
	Props(layer string, frame, durationInFrames, fps float64) LayerProps
}

// LayerKind selects how a layer is drawn.
type LayerKind int

const (
	LayerText LayerKind = iota
	LayerImage
	LayerBox
)

// Align selects how a layer anchors to its position.
type Align int

const (
	// AlignCenter anchors the element's center at (X, Y).
	AlignCenter Align = iota
	// AlignLeft anchors the left edge at X, vertically centered on Y.
	AlignLeft
	// AlignBottom anchors the bottom edge at Y, horizontally centered
	// on X. Scaling grows the element upward.
	AlignBottom
)

// Layer describes one drawable element of a scene.
type Layer struct {
	Name  string
	Kind  LayerKind
	Text  string
	Size  float64
	Bold  bool
	Color color.RGBA
	Align Align
	X, Y  int
	W, H  int
	Image image.Image
	// Format typesets the live value of a counting layer, e.g.
	// "%.0f%%". Empty for layers with static text.
	Format string
}

// LayerProps are the animatable per-frame properties of a layer.
// Opacity is 0..1, offsets are pixels relative to the layer anchor,
// Scale multiplies the layer size around its anchor. Counter is set
// only by counting layers and carries the value to typeset.
type LayerProps struct {
	Opacity float64
	OffsetX float64
	OffsetY float64
	Scale   float64
	Counter *float64
}

// StaticProps is the resting state of a layer: fully opaque, unmoved,
// unscaled.
func StaticProps() LayerProps {
	return LayerProps{Opacity: 1, Scale: 1}
}
