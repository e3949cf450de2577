package bands

import (
	"fmt"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// DefaultPalette is the rotation used for datasets without explicit colors.
var DefaultPalette = []string{"#555555", "#e41a1c", "#377eb8", "#4daf4a", "#984ea3", "#ff7f00"}

// shadeAmount is how far up/down shades move away from the base color.
const shadeAmount = 0.20

// ColorAssigner hands out color triples per dataset index.
type ColorAssigner struct {
	palette []string
}

func NewColorAssigner(palette []string) *ColorAssigner {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	return &ColorAssigner{palette: palette}
}

func (c *ColorAssigner) Palette() []string {
	return c.palette
}

// Assign derives the triple for a dataset. An empty base selects the
// palette entry for index, wrapping around the palette.
func (c *ColorAssigner) Assign(base string, index int) (ColorTriple, error) {
	if base == "" {
		base = c.palette[index%len(c.palette)]
	}
	return DeriveColors(base)
}

// DeriveColors returns [base, darker, brighter] for a hex base color.
func DeriveColors(base string) (ColorTriple, error) {
	col, err := colorful.Hex(base)
	if err != nil {
		return ColorTriple{}, fmt.Errorf("%w %q: %v", ErrInvalidColor, base, err)
	}
	return ColorTriple{col.Hex(), darken(col, shadeAmount).Hex(), brighten(col, shadeAmount).Hex()}, nil
}

// darken lowers the HSL lightness.
func darken(c colorful.Color, amount float64) colorful.Color {
	h, s, l := c.Hsl()
	return colorful.Hsl(h, s, clamp01(l-amount))
}

// brighten moves every RGB channel up by the same absolute step.
func brighten(c colorful.Color, amount float64) colorful.Color {
	step := math.Round(255 * amount)
	r, g, b := c.RGB255()
	shift := func(v uint8) float64 {
		return math.Min(255, float64(v)+step) / 255
	}
	return colorful.Color{R: shift(r), G: shift(g), B: shift(b)}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
