// Package statusline draws a one-row status bar: the file name on the
// left, a message after it, and the cursor position on the right.
package statusline

import (
	"strconv"

	"github.com/dshills/textview/internal/renderer/backend"
	"github.com/dshills/textview/internal/renderer/core"
)

// MessageType indicates the type of status message.
type MessageType int

const (
	MessageNone MessageType = iota
	MessageInfo
	MessageWarning
	MessageError
)

// Colors of the bar and of each message type.
var (
	BarBackground = core.MustHex("#3c3c3c")
	BarForeground = core.ColorWhite
	WarningColor  = core.MustHex("#ffd866")
	ErrorColor    = core.MustHex("#ff6188")
)

// StatusLine holds what the bar shows.
type StatusLine struct {
	filename   string
	readOnly   bool
	line       int
	col        int
	totalLines int
	topLine    int
	rows       int

	message     string
	messageType MessageType

	font core.Font
}

// New creates a status line drawn in font.
func New(font core.Font) *StatusLine {
	return &StatusLine{font: font}
}

// SetFilename updates the displayed filename.
func (s *StatusLine) SetFilename(filename string) {
	s.filename = filename
}

// SetReadOnly updates the read-only indicator.
func (s *StatusLine) SetReadOnly(readOnly bool) {
	s.readOnly = readOnly
}

// SetPosition updates the cursor position (1-indexed).
func (s *StatusLine) SetPosition(line, col int) {
	s.line = line
	s.col = col
}

// SetScroll records the document size and the visible window, from which
// the scroll indicator is derived.
func (s *StatusLine) SetScroll(totalLines, topLine, rows int) {
	s.totalLines, s.topLine, s.rows = totalLines, topLine, rows
}

// SetMessage displays a status message.
func (s *StatusLine) SetMessage(msg string, msgType MessageType) {
	s.message = msg
	s.messageType = msgType
}

// ClearMessage clears the status message.
func (s *StatusLine) ClearMessage() {
	s.message = ""
	s.messageType = MessageNone
}

// Message returns the current message.
func (s *StatusLine) Message() string { return s.message }

// Left returns the text drawn from the left edge.
func (s *StatusLine) Left() string {
	name := s.filename
	if name == "" {
		name = "[No Name]"
	}
	if s.readOnly {
		name += " [RO]"
	}
	if s.message != "" {
		name += "  " + s.message
	}
	return " " + name
}

// Right returns the position info, such as "Ln 12, Col 3 | 40%".
func (s *StatusLine) Right() string {
	result := "Ln " + strconv.Itoa(max(s.line, 1)) + ", Col " + strconv.Itoa(max(s.col, 1))
	if s.totalLines > 0 {
		result += " | " + s.scrollIndicator()
	}
	return result + " "
}

// scrollIndicator returns All, Top, Bot or the percentage of lines above
// the window.
func (s *StatusLine) scrollIndicator() string {
	switch {
	case s.rows >= s.totalLines && s.topLine == 0:
		return "All"
	case s.topLine == 0:
		return "Top"
	case s.topLine+s.rows >= s.totalLines:
		return "Bot"
	}
	return strconv.Itoa(s.topLine*100/s.totalLines) + "%"
}

// Render fills area with the bar. The position info is dropped when it
// would overlap the left text.
func (s *StatusLine) Render(b backend.Backend, area core.Rect) {
	if area.IsEmpty() {
		return
	}
	b.PushClip(area)
	defer b.PopClip()

	paint := func(c core.Color) {
		if !b.HasFocus() {
			c = b.Inactive(c)
		}
		b.SetColor(c)
	}
	paint(BarBackground)
	b.FillRect(area)
	b.SetFont(s.font)

	left, right := s.Left(), s.Right()
	le := b.Measure(left, s.font)
	re := b.Measure(right, s.font)
	baseline := area.Y + le.Height - le.Descent

	fg := BarForeground
	switch s.messageType {
	case MessageWarning:
		fg = WarningColor
	case MessageError:
		fg = ErrorColor
	}
	paint(fg)
	b.DrawText(left, area.X, baseline)

	rx := area.Right() - int(re.Width)
	if float64(rx) < float64(area.X)+le.Width {
		return
	}
	paint(BarForeground)
	b.DrawText(right, rx, baseline)
}
