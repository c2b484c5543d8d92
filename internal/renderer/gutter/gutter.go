// Package gutter lays out and draws the line number margin to the left of
// the text area.
package gutter

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dshills/textview/internal/renderer/backend"
	"github.com/dshills/textview/internal/renderer/core"
)

// Mode selects which number is shown for a line.
type Mode uint8

const (
	// Absolute shows 1-based line numbers.
	Absolute Mode = iota
	// Relative shows the distance to the cursor line, 0 on the cursor line.
	Relative
	// Hybrid is Relative with the absolute number on the cursor line.
	Hybrid
)

// ParseMode converts "absolute", "relative" or "hybrid".
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "absolute":
		return Absolute, nil
	case "relative":
		return Relative, nil
	case "hybrid":
		return Hybrid, nil
	}
	return Absolute, fmt.Errorf("unknown line number mode %q", name)
}

// Config describes the margin.
type Config struct {
	Enabled bool
	// Width is the margin width in pixels. Zero sizes the margin to fit
	// the largest line number.
	Width int
	// MinDigits is the smallest digit count an automatic width reserves.
	MinDigits int
	// Padding is the space kept on each side of an automatic width.
	Padding    int
	Align      core.Align
	Font       core.Font
	Foreground core.Color
	Background core.Color
	Mode       Mode
}

// DefaultConfig returns a disabled, right aligned margin.
func DefaultConfig() Config {
	return Config{
		Width:      0,
		MinDigits:  3,
		Padding:    3,
		Align:      core.AlignRight,
		Font:       core.Font{Face: core.FontMono, Size: 12},
		Foreground: core.ColorBlack,
		Background: core.MustHex("#e0e0e0"),
	}
}

// Digits returns the number of decimal digits in n, at least one.
func Digits(n int) int {
	d := 1
	for n >= 10 {
		n /= 10
		d++
	}
	return d
}

// MarginWidth returns the width reserved for a buffer with lineCount lines.
func (c Config) MarginWidth(m backend.Metrics, lineCount int) int {
	if !c.Enabled {
		return 0
	}
	if c.Width > 0 {
		return c.Width
	}
	d := max(Digits(lineCount), c.MinDigits)
	w := m.Measure(strings.Repeat("0", d), c.Font).Width
	return int(math.Ceil(w)) + 2*c.Padding
}

// Label returns the text shown for 0-based line with the cursor on
// 0-based line current.
func (c Config) Label(line, current int) string {
	switch c.Mode {
	case Relative:
		return strconv.Itoa(absDiff(line, current))
	case Hybrid:
		if line == current {
			return strconv.Itoa(line + 1)
		}
		return strconv.Itoa(absDiff(line, current))
	}
	return strconv.Itoa(line + 1)
}

// Row is one visible text row. Line is the 0-based buffer line shown on
// the row, or -1 when the row is past the end of the buffer.
type Row struct {
	Line   int
	Y      int
	Height int
}

// Surface is what Draw paints on.
type Surface interface {
	backend.Painter
	backend.Metrics
}

// Draw fills area with the background and draws a label for every row
// that shows a line. Rows after the first empty row are not numbered.
func (c Config) Draw(s Surface, area core.Rect, rows []Row, current int) {
	if !c.Enabled || area.IsEmpty() {
		return
	}
	s.SetColor(c.Background)
	s.FillRect(area)
	s.SetColor(c.Foreground)
	s.SetFont(c.Font)

	for _, row := range rows {
		if row.Line < 0 {
			break
		}
		label := c.Label(row.Line, current)
		ext := s.Measure(label, c.Font)
		w := int(ext.Width)
		x := area.X + (area.W-w)/2
		switch c.Align {
		case core.AlignLeft:
			x = area.X + 2
		case core.AlignRight:
			x = area.X + area.W - w - 2
		}
		s.DrawText(label, x, row.Y+row.Height-ext.Descent)
	}
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
