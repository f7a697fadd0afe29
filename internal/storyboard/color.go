package storyboard

import (
	"fmt"
	"image/color"
)

// ParseHexColor parses "#rrggbb" or "#rgb" into an opaque color.
func ParseHexColor(s string) (color.RGBA, error) {
	if len(s) == 0 || s[0] != '#' {
		return color.RGBA{}, fmt.Errorf("color %q must start with '#'", s)
	}

	hexVal := func(b byte) (uint8, bool) {
		switch {
		case b >= '0' && b <= '9':
			return b - '0', true
		case b >= 'a' && b <= 'f':
			return b - 'a' + 10, true
		case b >= 'A' && b <= 'F':
			return b - 'A' + 10, true
		}
		return 0, false
	}

	var r, g, b uint8
	switch len(s) {
	case 7:
		for i, dst := range []*uint8{&r, &g, &b} {
			hi, ok1 := hexVal(s[1+i*2])
			lo, ok2 := hexVal(s[2+i*2])
			if !ok1 || !ok2 {
				return color.RGBA{}, fmt.Errorf("color %q has a non-hex digit", s)
			}
			*dst = hi<<4 | lo
		}
	case 4:
		for i, dst := range []*uint8{&r, &g, &b} {
			v, ok := hexVal(s[1+i])
			if !ok {
				return color.RGBA{}, fmt.Errorf("color %q has a non-hex digit", s)
			}
			*dst = v<<4 | v
		}
	default:
		return color.RGBA{}, fmt.Errorf("color %q must be #rgb or #rrggbb", s)
	}

	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}
