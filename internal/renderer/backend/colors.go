package backend

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/textview/internal/renderer/core"
)

// contrastThreshold is the smallest luminance gap treated as readable.
const contrastThreshold = 0.3

// ColorOps implements Colors. Embed it to satisfy the interface.
type ColorOps struct{}

func toColorful(c core.Color) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

func fromColorful(c colorful.Color) core.Color {
	r, g, b := c.Clamped().RGB255()
	return core.ColorFromRGB(r, g, b)
}

// Blend returns a*weight + b*(1-weight). weight is clamped to [0, 1].
func (ColorOps) Blend(a, b core.Color, weight float64) core.Color {
	weight = math.Max(0, math.Min(1, weight))
	return fromColorful(toColorful(b).BlendRgb(toColorful(a), weight))
}

// Contrast returns white on dark backgrounds. On light backgrounds it keeps
// fg unless fg is too close in luminance, in which case black is used.
func (ColorOps) Contrast(fg, bg core.Color) core.Color {
	bl := bg.Luminance()
	if bl < 0.5 {
		return core.ColorWhite
	}
	if math.Abs(bl-fg.Luminance()) < contrastThreshold {
		return core.ColorBlack
	}
	return fg
}

// Inactive moves c halfway toward its own gray level.
func (ColorOps) Inactive(c core.Color) core.Color {
	v := (float64(c.R) + float64(c.G) + float64(c.B)) / 3 / 255
	gray := colorful.Color{R: v, G: v, B: v}
	return fromColorful(toColorful(c).BlendRgb(gray, 0.5))
}

// state is the focus and active flags shared by the concrete backends.
type state struct {
	unfocused bool
	inactive  bool
}

func (s *state) HasFocus() bool { return !s.unfocused }
func (s *state) IsActive() bool { return !s.inactive }

// SetFocus sets the value returned by HasFocus.
func (s *state) SetFocus(focus bool) { s.unfocused = !focus }

// SetActive sets the value returned by IsActive.
func (s *state) SetActive(active bool) { s.inactive = !active }

// Approx is deterministic metrics for surfaces without real fonts. Every
// character advances 0.6 of the font size; line height is 1.2 and descent
// 0.2 of the size, rounded down.
type Approx struct{}

// Measure implements Metrics.
func (Approx) Measure(s string, f core.Font) core.Extents {
	n := 0
	for range s {
		n++
	}
	return core.Extents{
		Width:   float64(n*f.Size*3) / 5,
		Height:  f.Size * 6 / 5,
		Descent: f.Size / 5,
	}
}
