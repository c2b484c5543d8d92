// Package cursor draws the insertion cursor shapes.
package cursor

import (
	"fmt"
	"strings"

	"github.com/dshills/textview/internal/renderer/core"
)

// Style is the shape of the insertion cursor.
type Style uint8

const (
	// Normal is an I-beam with short serifs.
	Normal Style = iota
	// Caret is a small wedge under the baseline.
	Caret
	// Heavy is a three pixel wide I-beam.
	Heavy
	// Dim is three dots, used to show an unfocused insert position.
	Dim
	// Block outlines one character cell.
	Block
	// Simple is a two pixel wide bar.
	Simple
)

var styleNames = [...]string{"normal", "caret", "heavy", "dim", "block", "simple"}

func (s Style) String() string {
	if int(s) < len(styleNames) {
		return styleNames[s]
	}
	return fmt.Sprintf("style(%d)", uint8(s))
}

// ParseStyle converts a name such as "caret" into a Style.
func ParseStyle(name string) (Style, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Normal, nil
	}
	for i, n := range styleNames {
		if n == name {
			return Style(i), nil
		}
	}
	return Normal, fmt.Errorf("unknown cursor style %q", name)
}

// Width is the serif width of the I-beam shapes.
const Width = 4

// LineDrawer is the part of a painter the shapes need.
type LineDrawer interface {
	DrawLine(x1, y1, x2, y2 int)
}

// Geometry places a cursor: X is the insert position, Y the top of the
// line, Height the line height and CellWidth the width of a Block cursor.
type Geometry struct {
	X, Y      int
	Height    int
	CellWidth int
}

// Bounds returns the rectangle the shape may touch.
func (g Geometry) Bounds(s Style) core.Rect {
	left := g.X - Width/2
	right := left + Width
	if s == Block {
		left, right = g.X, g.X+g.CellWidth
	}
	return core.Rect{X: left, Y: g.Y, W: right - left + 1, H: g.Height}
}

// Draw strokes the shape with the painter's current color.
func Draw(p LineDrawer, s Style, g Geometry) {
	x, y := g.X, g.Y
	bot := y + g.Height - 1
	left := x - Width/2
	right := left + Width

	switch s {
	case Caret:
		mid := bot - g.Height/5
		p.DrawLine(left, bot, x, mid)
		p.DrawLine(x, mid, right, bot)
		p.DrawLine(left, bot, x, mid-1)
		p.DrawLine(x, mid-1, right, bot)
	case Heavy:
		p.DrawLine(x-1, y, x-1, bot)
		p.DrawLine(x, y, x, bot)
		p.DrawLine(x+1, y, x+1, bot)
		p.DrawLine(left, y, right, y)
		p.DrawLine(left, bot, right, bot)
	case Dim:
		mid := y + g.Height/2
		p.DrawLine(x, y, x, y)
		p.DrawLine(x, mid, x, mid)
		p.DrawLine(x, bot, x, bot)
	case Block:
		r := x + g.CellWidth
		p.DrawLine(x, y, r, y)
		p.DrawLine(r, y, r, bot)
		p.DrawLine(r, bot, x, bot)
		p.DrawLine(x, bot, x, y)
	case Simple:
		p.DrawLine(x, y, x, bot)
		p.DrawLine(x+1, y, x+1, bot)
	default:
		p.DrawLine(left, y, right, y)
		p.DrawLine(x, y, x, bot)
		p.DrawLine(left, bot, right, bot)
	}
}
