package report

import (
	"fmt"
	"image/color"
)

// paletteHex is the fixed trajectory palette. Entities past its length
// get generated hues.
var paletteHex = []string{
	"#abd44c", "#9a1111", "#008aff", "#d6d498", "#ba90ce", "#284faf", "#629377",
	"#ebc74b", "#294f63", "#ff9c00", "#4a6350", "#675382", "#579bca",
}

// Palette returns n distinct colours.
func Palette(n int) []color.Color {
	if n <= 0 {
		return nil
	}
	colors := make([]color.Color, n)
	extra := n - len(paletteHex)
	for i := range colors {
		if i < len(paletteHex) {
			colors[i] = mustHex(paletteHex[i])
			continue
		}
		hue := float64(i-len(paletteHex)) / float64(extra)
		r, g, b := hslToRGB(hue, 0.7, 0.5)
		colors[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return colors
}

// HexColor formats c as #rrggbb.
func HexColor(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}

func mustHex(s string) color.RGBA {
	var c color.RGBA
	if _, err := fmt.Sscanf(s, "#%2x%2x%2x", &c.R, &c.G, &c.B); err != nil {
		panic(fmt.Sprintf("bad palette colour %q: %v", s, err))
	}
	c.A = 255
	return c
}

// hslToRGB converts HSL to RGB (0-255 range)
func hslToRGB(h, s, l float64) (r, g, b uint8) {
	if s == 0 {
		v := uint8(l * 255)
		return v, v, v
	}
	q := l + s - l*s
	if l < 0.5 {
		q = l * (1 + s)
	}
	p := 2*l - q
	return uint8(hueToRGB(p, q, h+1.0/3.0) * 255),
		uint8(hueToRGB(p, q, h) * 255),
		uint8(hueToRGB(p, q, h-1.0/3.0) * 255)
}

func hueToRGB(p, q, t float64) float64 {
	switch {
	case t < 0:
		t++
	case t > 1:
		t--
	}
	switch {
	case t < 1.0/6.0:
		return p + (q-p)*6*t
	case t < 0.5:
		return q
	case t < 2.0/3.0:
		return p + (q-p)*(2.0/3.0-t)*6
	default:
		return p
	}
}
