package selection

import (
	"github.com/dshills/textview/internal/renderer/backend"
	"github.com/dshills/textview/internal/renderer/core"
)

// Env is the part of a backend that decides selection colors.
type Env interface {
	backend.Colors
	backend.State
}

// Resolve returns the colors for characters covered by mask m. fg is the
// character's own foreground and base the background it would have with
// no selection. styled is true when the character has a style table
// entry; styled text keeps its foreground under secondary and highlight
// ranges. Without focus the selection tones are blended toward base, and
// an inactive widget washes out both results.
func (p Palette) Resolve(env Env, fg, base core.Color, styled bool, m Mask) (core.Color, core.Color) {
	focus := env.HasFocus()
	bg := base
	contrast := false

	if k, ok := m.Top(); ok {
		switch k {
		case Primary:
			bg = p.Primary
			if !focus {
				bg = env.Blend(base, p.Primary, 0.4)
			}
			contrast = true
		case Secondary:
			switch {
			case styled:
				bg = env.Blend(base, p.Secondary, pick(focus, 0.5, 0.6))
			case focus:
				bg = p.Secondary
				contrast = true
			default:
				bg = env.Blend(base, p.Secondary, 0.4)
				contrast = true
			}
		case Highlight:
			bg = env.Blend(base, p.Highlight, pick(focus, 0.5, 0.6))
			contrast = !styled
		}
	}
	if contrast {
		fg = env.Contrast(fg, bg)
	}
	if !env.IsActive() {
		fg = env.Inactive(fg)
		bg = env.Inactive(bg)
	}
	return fg, bg
}

// Fill returns the color used to clear space with no characters, such as
// the rest of a line after its last character.
func (p Palette) Fill(env Env, base core.Color, m Mask) core.Color {
	_, bg := p.Resolve(env, core.ColorBlack, base, false, m)
	return bg
}

func pick(cond bool, a, b float64) float64 {
	if cond {
		return a
	}
	return b
}
