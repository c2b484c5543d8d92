// Package backend defines the drawing capabilities the renderer needs and
// provides implementations for tests, snapshots and terminals.
//
// Coordinates are integer pixels with the origin at the top left. Text is
// drawn at its baseline. Implementations never fail; drawing outside the
// surface or the current clip is silently dropped.
package backend

import "github.com/dshills/textview/internal/renderer/core"

// Painter issues draw calls using a current color and font.
type Painter interface {
	SetColor(c core.Color)
	SetFont(f core.Font)
	// DrawText draws s with its baseline at y.
	DrawText(s string, x, y int)
	FillRect(r core.Rect)
	DrawLine(x1, y1, x2, y2 int)
	PushClip(r core.Rect)
	PopClip()
}

// Metrics measures text.
type Metrics interface {
	// Measure returns the advance of s in font f together with the
	// font's line height and descent.
	Measure(s string, f core.Font) core.Extents
}

// Colors derives display colors.
type Colors interface {
	// Blend returns a*weight + b*(1-weight) per channel.
	Blend(a, b core.Color, weight float64) core.Color
	// Contrast returns fg, or black or white when fg is hard to read on bg.
	Contrast(fg, bg core.Color) core.Color
	// Inactive returns the washed out form of c used for disabled widgets.
	Inactive(c core.Color) core.Color
}

// State reports widget state that affects colors.
type State interface {
	HasFocus() bool
	IsActive() bool
}

// Backend is everything the renderer needs from a drawing surface.
type Backend interface {
	Painter
	Metrics
	Colors
	State
}

// CaretPainter is implemented by backends with a native text cursor. The
// renderer calls PaintCaret instead of drawing the cursor shape with lines.
type CaretPainter interface {
	PaintCaret(x, y, height int)
}
