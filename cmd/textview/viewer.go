package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/dshills/textview/internal/config"
	"github.com/dshills/textview/internal/engine"
	"github.com/dshills/textview/internal/engine/buffer"
	"github.com/dshills/textview/internal/logging"
	"github.com/dshills/textview/internal/renderer"
	"github.com/dshills/textview/internal/renderer/backend"
	"github.com/dshills/textview/internal/renderer/core"
	"github.com/dshills/textview/internal/renderer/highlight"
	"github.com/dshills/textview/internal/renderer/selection"
	"github.com/dshills/textview/internal/renderer/statusline"
)

// multiClickTime is the longest gap between clicks of a double or triple
// click.
const multiClickTime = 400 * time.Millisecond

var errQuit = errors.New("quit")

type quitEvent struct {
	tcell.EventTime
}

func newQuitEvent() *quitEvent {
	ev := &quitEvent{}
	ev.SetEventNow()
	return ev
}

type reloadEvent struct {
	tcell.EventTime
	path string
}

func newReloadEvent(path string) *reloadEvent {
	ev := &reloadEvent{path: path}
	ev.SetEventNow()
	return ev
}

// viewer connects a terminal screen to a display and the engine it shows.
// The bottom row of the screen is a status line.
type viewer struct {
	screen tcell.Screen
	term   *backend.Terminal
	eng    *engine.Engine
	disp   *renderer.Display
	hl     highlight.Highlighter
	log    *zap.Logger

	path        string
	needle      string
	status      *statusline.StatusLine
	message     string
	messageType statusline.MessageType

	pressed   bool
	clicks    int
	lastClick time.Time
	clickAt   core.Point
}

func newViewer(screen tcell.Screen, eng *engine.Engine, cfg *config.Config, hl highlight.Highlighter) (*viewer, error) {
	v := &viewer{
		screen: screen,
		term:   backend.NewTerminal(screen),
		eng:    eng,
		hl:     hl,
		log:    logging.Named("viewer"),
		status: statusline.New(core.Font{Face: core.FontMono, Size: 14}),
	}
	w, h := screen.Size()
	v.disp = renderer.New(textRect(w, h), renderer.DefaultOptions())
	if err := cfg.Apply(v.disp); err != nil {
		return nil, err
	}
	v.disp.Attach(eng)
	if err := v.rehighlight(); err != nil {
		v.log.Warn("initial highlight failed", zap.Error(err))
	}
	return v, nil
}

func textRect(w, h int) core.Rect {
	return core.NewRect(0, 0, w, max(h-1, 0))
}

// run processes events until the user quits.
func (v *viewer) run() error {
	v.redraw()
	for {
		ev := v.screen.PollEvent()
		if ev == nil {
			return nil
		}
		err := v.handle(ev)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			if !errors.Is(err, engine.ErrReadOnly) {
				v.log.Error("event failed", zap.Error(err))
			}
			v.setMessage(err.Error(), statusline.MessageError)
		}
		v.redraw()
	}
}

func (v *viewer) handle(ev tcell.Event) error {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		v.screen.Sync()
		w, h := ev.Size()
		v.disp.Resize(textRect(w, h))
		return v.disp.ShowInsertPosition(v.term)
	case *tcell.EventKey:
		v.message = ""
		return v.handleKey(ev)
	case *tcell.EventMouse:
		return v.handleMouse(ev)
	case *tcell.EventFocus:
		v.term.SetFocus(ev.Focused)
	case *reloadEvent:
		return v.reload(ev.path)
	case *quitEvent:
		return errQuit
	}
	return nil
}

func (v *viewer) handleKey(ev *tcell.EventKey) error {
	word := ev.Modifiers()&tcell.ModCtrl != 0
	switch ev.Key() {
	case tcell.KeyCtrlQ, tcell.KeyEscape:
		return errQuit
	case tcell.KeyLeft:
		if word {
			v.disp.PreviousWord()
		} else {
			v.disp.MoveLeft()
		}
	case tcell.KeyRight:
		if word {
			v.disp.NextWord()
		} else {
			v.disp.MoveRight()
		}
	case tcell.KeyUp:
		if _, err := v.disp.MoveUp(v.term); err != nil {
			return err
		}
	case tcell.KeyDown:
		if _, err := v.disp.MoveDown(v.term); err != nil {
			return err
		}
	case tcell.KeyHome:
		v.disp.SetInsertPosition(v.eng.TextBuffer().LineStartOf(v.disp.InsertPosition()))
	case tcell.KeyEnd:
		v.disp.SetInsertPosition(v.eng.TextBuffer().LineEnd(v.disp.InsertPosition()))
	case tcell.KeyPgUp:
		return v.disp.PageUp(v.term)
	case tcell.KeyPgDn:
		return v.disp.PageDown(v.term)
	case tcell.KeyCtrlZ:
		return v.history(v.eng.Undo)
	case tcell.KeyCtrlY:
		return v.history(v.eng.Redo)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return v.deleteChar(-1)
	case tcell.KeyDelete:
		return v.deleteChar(1)
	case tcell.KeyCtrlF:
		v.find(true)
	case tcell.KeyCtrlB:
		v.find(false)
	case tcell.KeyEnter:
		return v.insert("\n")
	case tcell.KeyTab:
		if v.multiLineSelection() {
			return v.indent(1)
		}
		return v.insert("\t")
	case tcell.KeyBacktab:
		return v.indent(-1)
	case tcell.KeyRune:
		return v.insert(string(ev.Rune()))
	default:
		return nil
	}
	v.disp.Unselect(selection.Primary)
	return v.disp.ShowInsertPosition(v.term)
}

// insert replaces the primary selection, or inserts at the cursor.
func (v *viewer) insert(s string) error {
	start, end := v.disp.InsertPosition(), v.disp.InsertPosition()
	if r := v.disp.Selection(selection.Primary); r.Selected {
		start, end = r.Start, r.End
	}
	pos, err := v.eng.Replace(start, end, s)
	if err != nil {
		return err
	}
	return v.afterEdit(pos)
}

// deleteChar removes the primary selection, or one character before
// (dir < 0) or after the cursor.
func (v *viewer) deleteChar(dir int) error {
	pos := v.disp.InsertPosition()
	start, end := pos, pos+1
	if dir < 0 {
		start, end = pos-1, pos
	}
	if r := v.disp.Selection(selection.Primary); r.Selected {
		start, end = r.Start, r.End
	}
	if start < 0 || end > v.eng.Len() {
		return nil
	}
	if err := v.eng.Remove(start, end); err != nil {
		return err
	}
	return v.afterEdit(start)
}

func (v *viewer) multiLineSelection() bool {
	r := v.disp.Selection(selection.Primary)
	return r.Selected && v.eng.TextBuffer().CountLines(r.Start, r.End) > 0
}

// indent adds a tab to the start of every line the primary selection
// touches, or the cursor's line without one. With dir < 0 it removes one
// leading tab, or up to a tab width of spaces, instead. The edits undo as
// one unit and the changed lines stay selected.
func (v *viewer) indent(dir int) error {
	tb := v.eng.TextBuffer()
	start, end := v.disp.InsertPosition(), v.disp.InsertPosition()
	if r := v.disp.Selection(selection.Primary); r.Selected {
		start, end = r.Start, r.End
	}
	first, last := tb.CountLines(0, start), tb.CountLines(0, end)
	if last > first && end == tb.LineStartOf(end) {
		last--
	}

	name := "Indent"
	if dir < 0 {
		name = "Unindent"
	}
	shift := 0
	err := v.eng.Transaction(name, func() error {
		for line := last; line >= first; line-- {
			ls, err := tb.LineStart(line)
			if err != nil {
				return err
			}
			if dir > 0 {
				if _, err := v.eng.Insert(ls, "\t"); err != nil {
					return err
				}
				continue
			}
			if n := leadingIndent(tb, ls, v.disp.TabWidth()); n > 0 {
				if err := v.eng.Remove(ls, ls+n); err != nil {
					return err
				}
				shift = n
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := v.rehighlight(); err != nil {
		v.log.Warn("highlight failed", zap.Error(err))
	}
	ls, _ := tb.LineStart(first)
	if first == last {
		if dir > 0 {
			shift = -1
		}
		v.disp.Unselect(selection.Primary)
		v.disp.SetInsertPosition(max(end-shift, ls))
		return v.disp.ShowInsertPosition(v.term)
	}
	le, _ := tb.LineStart(last)
	le = tb.LineEnd(le)
	v.disp.Select(selection.Primary, ls, le)
	v.disp.SetInsertPosition(le)
	return v.disp.ShowInsertPosition(v.term)
}

// leadingIndent returns how many characters one unindent step removes
// from the line starting at pos.
func leadingIndent(tb *buffer.TextBuffer, pos, tabWidth int) int {
	n := 0
	for n < tabWidth {
		r, err := tb.CharAt(pos + n)
		if err != nil {
			break
		}
		if r == '\t' {
			if n == 0 {
				return 1
			}
			break
		}
		if r != ' ' {
			break
		}
		n++
	}
	return n
}

// find highlights the next (or previous) occurrence of the search text
// and moves the cursor to its end. The search text is the primary
// selection, the word at the cursor, or the last search text when the
// cursor sits on its highlighted match. Searching wraps around the
// document.
func (v *viewer) find(forward bool) {
	tb := v.eng.TextBuffer()
	pos := v.disp.InsertPosition()
	from := pos
	hl := v.disp.Selection(selection.Highlight)
	r := v.disp.Selection(selection.Primary)
	switch {
	case r.Selected && r.Start < r.End:
		v.needle = tb.Range(r.Start, r.End)
		from = r.End
		if !forward {
			from = r.Start
		}
	case hl.Selected && pos == hl.End && v.needle != "":
		if !forward {
			from = hl.Start
		}
	case tb.WordStart(pos) < tb.WordEnd(pos):
		ws, we := tb.WordStart(pos), tb.WordEnd(pos)
		v.needle = tb.Range(ws, we)
		from = we
		if !forward {
			from = ws
		}
	}
	if v.needle == "" {
		return
	}

	at, ok := tb.Search(from, v.needle, forward)
	wrapped := false
	if !ok {
		wrapped = true
		if forward {
			at, ok = tb.Search(0, v.needle, true)
		} else {
			at, ok = tb.Search(tb.Len(), v.needle, false)
		}
	}
	if !ok {
		v.disp.Unselect(selection.Highlight)
		v.setMessage("not found: "+v.needle, statusline.MessageWarning)
		return
	}
	end := at + utf8.RuneCountInString(v.needle)
	v.disp.Select(selection.Highlight, at, end)
	v.disp.SetInsertPosition(end)
	if wrapped {
		v.setMessage("search wrapped", statusline.MessageInfo)
	}
}

func (v *viewer) history(op func() (int, error)) error {
	pos, err := op()
	if errors.Is(err, engine.ErrNothingToUndo) || errors.Is(err, engine.ErrNothingToRedo) {
		return nil
	}
	if err != nil {
		return err
	}
	return v.afterEdit(pos)
}

func (v *viewer) afterEdit(pos int) error {
	v.disp.Unselect(selection.Primary)
	v.disp.SetInsertPosition(pos)
	if err := v.rehighlight(); err != nil {
		v.log.Warn("highlight failed", zap.Error(err))
	}
	return v.disp.ShowInsertPosition(v.term)
}

// rehighlight restyles the whole document.
func (v *viewer) rehighlight() error {
	if v.hl == nil {
		return nil
	}
	styles := buffer.NewStyleBuffer()
	styles.Fill(v.eng.Len(), v.eng.DefaultStyle())
	if err := v.hl.Highlight(v.eng.Text(), styles); err != nil {
		return err
	}
	return v.eng.Restyle(styles.Bytes())
}

func (v *viewer) handleMouse(ev *tcell.EventMouse) error {
	x, y := ev.Position()
	buttons := ev.Buttons()
	switch {
	case buttons&tcell.WheelUp != 0:
		v.disp.ScrollBy(-3)
	case buttons&tcell.WheelDown != 0:
		v.disp.ScrollBy(3)
	case buttons&tcell.Button1 != 0:
		if v.pressed {
			_, err := v.disp.Drag(v.term, x, y)
			return err
		}
		v.pressed = true
		shift := ev.Modifiers()&tcell.ModShift != 0
		_, err := v.disp.Press(v.term, x, y, shift, v.countClick(x, y, ev.When()))
		return err
	default:
		if v.pressed {
			v.pressed = false
			v.disp.Release()
		}
	}
	return nil
}

// countClick returns 1, 2 or 3 for a single, double or triple click. A
// fourth quick click starts over at 1.
func (v *viewer) countClick(x, y int, at time.Time) int {
	p := core.Point{X: x, Y: y}
	if p == v.clickAt && at.Sub(v.lastClick) <= multiClickTime {
		v.clicks = v.clicks%3 + 1
	} else {
		v.clicks = 1
	}
	v.clickAt, v.lastClick = p, at
	return v.clicks
}

// reload replaces the document with the file on disk, keeping the cursor
// where it was when possible.
func (v *viewer) reload(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if !utf8.Valid(data) {
		return fmt.Errorf("%s: %w", path, engine.ErrInvalidEncoding)
	}
	text := string(data)
	if text == v.eng.Text() {
		return nil
	}

	pos, top := v.disp.InsertPosition(), v.disp.TopLine()
	if ro := v.eng.IsReadOnly(); ro {
		v.eng.SetReadOnly(false)
		defer v.eng.SetReadOnly(true)
	}
	if err := v.eng.SetText(text); err != nil {
		return err
	}
	v.disp.SetInsertPosition(pos)
	v.disp.Scroll(top, v.disp.HOffset())
	if err := v.rehighlight(); err != nil {
		v.log.Warn("highlight failed", zap.Error(err))
	}
	v.setMessage("reloaded "+filepath.Base(path), statusline.MessageInfo)
	v.log.Info("reloaded", zap.String("path", path), zap.Int("chars", v.eng.Len()))
	return nil
}

func (v *viewer) setMessage(msg string, t statusline.MessageType) {
	v.message, v.messageType = msg, t
}

func (v *viewer) redraw() {
	v.term.Begin()
	if err := v.disp.Draw(v.term); err != nil {
		v.log.Error("draw failed", zap.Error(err))
		v.setMessage(err.Error(), statusline.MessageError)
	}
	v.drawStatus()
	v.term.Show()
}

// drawStatus fills the bottom row with the file name, the last message
// and the cursor position.
func (v *viewer) drawStatus() {
	w, h := v.screen.Size()
	if h == 0 {
		return
	}
	tb := v.eng.TextBuffer()
	pos := v.disp.InsertPosition()
	rows, err := v.disp.VisibleRows(v.term)
	if err != nil {
		rows = 0
	}

	v.status.SetFilename(v.path)
	v.status.SetReadOnly(v.eng.IsReadOnly())
	v.status.SetPosition(tb.CountLines(0, pos)+1, pos-tb.LineStartOf(pos)+1)
	v.status.SetScroll(v.eng.LineCount(), v.disp.TopLine(), rows)
	if v.message == "" {
		v.status.ClearMessage()
	} else {
		v.status.SetMessage(v.message, v.messageType)
	}
	v.status.Render(v.term, core.NewRect(0, h-1, w, 1))
}
