// Package palette maps color-scheme identifiers to ordered color sequences.
//
// Four fixed schemes (default, blue, red, green) are backed by hand-picked
// hex lists that repeat cyclically when a chart needs more colors than the
// list holds. The fifth scheme, spectrum, is procedural: it spaces hues
// evenly around the color wheel so any requested count yields pairwise
// distinct colors.
//
// The cyclic reuse rule (palette[i % len]) and the spectrum hue formula
// (hue = i/count * 360, saturation 0.60, lightness 0.50) are part of the
// package contract: rendering the same dataset twice must produce the same
// colors.
package palette

import (
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/venviro/chartkit/pkg/errors"
)

// Scheme identifies a color scheme.
type Scheme string

// Supported color schemes.
const (
	SchemeDefault  Scheme = "default"
	SchemeBlue     Scheme = "blue"
	SchemeRed      Scheme = "red"
	SchemeGreen    Scheme = "green"
	SchemeSpectrum Scheme = "spectrum"
)

// ValidSchemes is the set of supported color schemes.
var ValidSchemes = map[Scheme]bool{
	SchemeDefault:  true,
	SchemeBlue:     true,
	SchemeRed:      true,
	SchemeGreen:    true,
	SchemeSpectrum: true,
}

// Parse validates a scheme name. An empty name resolves to SchemeDefault.
func Parse(name string) (Scheme, error) {
	if name == "" {
		return SchemeDefault, nil
	}
	s := Scheme(name)
	if !ValidSchemes[s] {
		return "", errors.New(errors.ErrCodeInvalidScheme, "invalid color scheme: %q (must be one of: default, blue, red, green, spectrum)", name)
	}
	return s, nil
}

// Fixed palettes, light to dark. The default palette follows the classic
// matplotlib category colors; blue/red/green are monochrome ramps around
// #1f77b4, #d62728 and #2ca02c.
var fixedPalettes = map[Scheme][]string{
	SchemeDefault: {
		"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
		"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
	},
	SchemeBlue: {
		"#c6dbef", "#9ecae1", "#6baed6", "#4292c6", "#1f77b4", "#08519c",
	},
	SchemeRed: {
		"#fcbba1", "#fc9272", "#fb6a4a", "#ef3b2c", "#d62728", "#99000d",
	},
	SchemeGreen: {
		"#c7e9c0", "#a1d99b", "#74c476", "#41ab5d", "#2ca02c", "#005a32",
	},
}

// Spectrum hue parameters. Saturation and lightness are fixed so that only
// the hue varies, keeping every generated color distinguishable.
const (
	spectrumSaturation = 0.60
	spectrumLightness  = 0.50
)

// PaletteLen returns the length of the fixed palette backing s, or 0 for
// the procedural spectrum scheme.
func PaletteLen(s Scheme) int {
	return len(fixedPalettes[s])
}

// ColorsFor returns exactly count colors for the scheme. Fixed palettes are
// reused cyclically; spectrum generates count evenly spaced hues. A count
// below 1 returns nil.
func ColorsFor(s Scheme, count int) []drawing.Color {
	if count < 1 {
		return nil
	}
	if s == SchemeSpectrum {
		return spectrumColors(count)
	}

	hexes, ok := fixedPalettes[s]
	if !ok {
		hexes = fixedPalettes[SchemeDefault]
	}

	colors := make([]drawing.Color, count)
	for i := range colors {
		colors[i] = fromHex(hexes[i%len(hexes)])
	}
	return colors
}

// spectrumColors generates count colors with hue = i/count * 360.
func spectrumColors(count int) []drawing.Color {
	colors := make([]drawing.Color, count)
	for i := range colors {
		hue := float64(i) / float64(count) * 360.0
		c := colorful.Hsl(hue, spectrumSaturation, spectrumLightness)
		r, g, b := c.Clamped().RGB255()
		colors[i] = drawing.Color{R: r, G: g, B: b, A: 255}
	}
	return colors
}

// fromHex parses a #rrggbb string. Palette entries are compile-time
// constants, so a malformed entry is a programming error and maps to black.
func fromHex(hex string) drawing.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return drawing.Color{A: 255}
	}
	r, g, b := c.RGB255()
	return drawing.Color{R: r, G: g, B: b, A: 255}
}
