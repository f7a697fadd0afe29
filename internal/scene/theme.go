package scene

import (
	"fmt"
	"image/color"

	"github.com/ivlev/story2video/internal/storyboard"
)

// Theme is the resolved document palette handed to every component at
// construction. It is an immutable value: components copy it, nothing
// writes to it after NewTheme.
type Theme struct {
	Background color.RGBA
	Primary    color.RGBA
	Secondary  color.RGBA
	FontFamily string
}

// NewTheme parses the storyboard style block into a Theme.
func NewTheme(st storyboard.Style) (Theme, error) {
	bg, err := storyboard.ParseHexColor(st.BackgroundColor)
	if err != nil {
		return Theme{}, fmt.Errorf("background_color: %w", err)
	}
	primary, err := storyboard.ParseHexColor(st.PrimaryColor)
	if err != nil {
		return Theme{}, fmt.Errorf("primary_color: %w", err)
	}
	secondary, err := storyboard.ParseHexColor(st.SecondaryColor)
	if err != nil {
		return Theme{}, fmt.Errorf("secondary_color: %w", err)
	}

	return Theme{
		Background: bg,
		Primary:    primary,
		Secondary:  secondary,
		FontFamily: st.FontFamily,
	}, nil
}

// Muted returns the primary color blended toward the background, used
// for captions and fine print.
func (t Theme) Muted() color.RGBA {
	mix := func(p, b uint8) uint8 {
		return uint8((uint16(p)*2 + uint16(b)) / 3)
	}
	return color.RGBA{
		R: mix(t.Primary.R, t.Background.R),
		G: mix(t.Primary.G, t.Background.G),
		B: mix(t.Primary.B, t.Background.B),
		A: 0xff,
	}
}
