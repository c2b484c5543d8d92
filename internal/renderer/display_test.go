package renderer

import (
	"errors"
	"strings"
	"testing"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dshills/textview/internal/engine"
	"github.com/dshills/textview/internal/engine/buffer"
	"github.com/dshills/textview/internal/renderer/backend"
	"github.com/dshills/textview/internal/renderer/core"
	"github.com/dshills/textview/internal/renderer/cursor"
	"github.com/dshills/textview/internal/renderer/gutter"
	"github.com/dshills/textview/internal/renderer/selection"
	"github.com/dshills/textview/internal/renderer/style"
)

// With Approx metrics a size 10 font is 6 pixels per character, 12
// pixels per line and has a descent of 2.
var testFont = core.Font{Face: core.FontMono, Size: 10}

func testOptions() Options {
	opts := DefaultOptions()
	opts.Font = testFont
	opts.TabWidth = 4
	opts.CursorVisible = false
	return opts
}

func newTestDisplay(t *testing.T, text string, w, h int) (*Display, *backend.Recorder) {
	t.Helper()
	tb, err := buffer.NewTextBufferFromString(text)
	if err != nil {
		t.Fatalf("NewTextBufferFromString: %v", err)
	}
	sb := buffer.NewStyleBuffer()
	sb.Fill(tb.Len(), 0)

	d := New(core.Rect{W: w, H: h}, testOptions())
	d.SetBuffers(tb, sb)
	return d, backend.NewRecorder()
}

func attachEngine(t *testing.T, text string, w, h int) (*Display, *engine.Engine, *backend.Recorder) {
	t.Helper()
	e := engine.New(engine.WithContent(text))
	d := New(core.Rect{W: w, H: h}, testOptions())
	d.Attach(e)
	t.Cleanup(d.Detach)
	return d, e, backend.NewRecorder()
}

func TestMeasureLineTabs(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{"plain", "hello", 30},
		{"tab after two", "ab\tcd", 36},
		{"tab at start", "\tx", 30},
		{"tab at stop", "abcd\tx", 54},
		{"two tabs", "\t\t", 48},
		{"empty", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, b := newTestDisplay(t, tt.text, 200, 60)
			got, err := d.MeasureLine(b, 0)
			if err != nil {
				t.Fatalf("MeasureLine: %v", err)
			}
			if got != tt.want {
				t.Errorf("MeasureLine(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestMeasureLineOutOfRange(t *testing.T) {
	d, b := newTestDisplay(t, "one\ntwo", 200, 60)
	if _, err := d.MeasureLine(b, 2); !errors.Is(err, buffer.ErrOutOfRange) {
		t.Errorf("MeasureLine(2) error = %v, want ErrOutOfRange", err)
	}
}

func mixedTable(t *testing.T) *style.Table {
	t.Helper()
	tbl, err := style.NewTable(
		style.Entry{Name: "plain", Font: testFont, Foreground: core.ColorBlack},
		style.Entry{Name: "big", Font: core.Font{Face: core.FontSans, Size: 20}, Foreground: core.ColorRed},
	)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	return tbl
}

func TestHitTestMatchesMeasure(t *testing.T) {
	text := "ab\tcdé fg\thij"
	d, b := newTestDisplay(t, text, 400, 60)
	d.SetStyleTable(mixedTable(t))
	// Alternate fonts in runs of three characters.
	n := d.TextBuffer().Len()
	for i := 0; i < n; i++ {
		if err := d.StyleBuffer().SetRange(i, i+1, style.ID(i/3%2)); err != nil {
			t.Fatalf("SetRange: %v", err)
		}
	}
	if _, err := d.MeasureLine(b, 0); err != nil {
		t.Fatalf("MeasureLine: %v", err)
	}

	for i := 0; i < n; i++ {
		left := d.offsetInRow(b, i)
		right := d.offsetInRow(b, i+1)
		if right <= left {
			t.Fatalf("char %d has no width: %v..%v", i, left, right)
		}
		for _, x := range []float64{left, (left + right) / 2, right - 0.01} {
			got, err := d.HitTest(b, 0, x)
			if err != nil {
				t.Fatalf("HitTest: %v", err)
			}
			if got != i {
				t.Errorf("HitTest(%v) = %d, want %d", x, got, i)
			}
		}

		got, err := d.PositionCursor(b, 0, left+(right-left)*0.75)
		if err != nil {
			t.Fatalf("PositionCursor: %v", err)
		}
		if got != i+1 {
			t.Errorf("PositionCursor past middle of %d = %d, want %d", i, got, i+1)
		}
	}

	total, _ := d.MeasureLine(b, 0)
	if end := d.offsetInRow(b, n); end != total {
		t.Errorf("prefix width of whole line = %v, MeasureLine = %v", end, total)
	}
}

func TestHitTestClamps(t *testing.T) {
	d, b := newTestDisplay(t, "abc\n\nxyz", 200, 60)

	tests := []struct {
		name string
		line int
		x    float64
		want int
	}{
		{"left of line", 0, -20, 0},
		{"zero", 0, 0, 0},
		{"past end", 0, 500, 2},
		{"empty line", 1, 30, 4},
		{"last line past end", 2, 99, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.HitTest(b, tt.line, tt.x)
			if err != nil {
				t.Fatalf("HitTest: %v", err)
			}
			if got != tt.want {
				t.Errorf("HitTest(%d, %v) = %d, want %d", tt.line, tt.x, got, tt.want)
			}
		})
	}
}

func TestCursorClampedToBuffer(t *testing.T) {
	d, b := newTestDisplay(t, "hello", 200, 60)
	d.SetInsertPosition(100)
	if got := d.InsertPosition(); got != 5 {
		t.Errorf("InsertPosition after SetInsertPosition(100) = %d, want 5", got)
	}

	// The buffers shrink behind the display's back.
	if err := d.TextBuffer().SetText("hi"); err != nil {
		t.Fatal(err)
	}
	d.StyleBuffer().Fill(2, 0)
	if err := d.Draw(b); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if got := d.InsertPosition(); got != 2 {
		t.Errorf("InsertPosition after shrink = %d, want 2", got)
	}
}

func TestCursorResetOnEngineSetText(t *testing.T) {
	d, e, b := attachEngine(t, "hello world", 200, 60)
	d.SetInsertPosition(8)
	d.Select(selection.Primary, 2, 6)

	if err := e.SetText(""); err != nil {
		t.Fatalf("SetText: %v", err)
	}
	if got := d.InsertPosition(); got != 0 {
		t.Errorf("InsertPosition = %d, want 0", got)
	}
	if d.Selection(selection.Primary).Selected {
		t.Error("selection survived SetText")
	}
	if err := d.Draw(b); err != nil {
		t.Fatalf("Draw: %v", err)
	}
}

func TestDrawAfterRemove(t *testing.T) {
	d, e, b := attachEngine(t, "Hello", 200, 60)
	if err := e.Remove(1, 3); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := d.Draw(b); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if got := strings.Join(b.Texts(), "|"); got != "Hlo" {
		t.Errorf("drawn text = %q, want %q", got, "Hlo")
	}
}

func numberedLines(n int) string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = "line" + string(rune('0'+i))
	}
	return strings.Join(lines, "\n")
}

func TestScrolledWindow(t *testing.T) {
	d, b := newTestDisplay(t, numberedLines(10), 200, 36)
	d.Scroll(4, 0)
	if err := d.Draw(b); err != nil {
		t.Fatalf("Draw: %v", err)
	}

	want := []string{"line4", "line5", "line6"}
	if diff := diffStrings(b.Texts(), want); diff != "" {
		t.Errorf("drawn lines: %s", diff)
	}
	texts := b.Filter(backend.OpText)
	for i, c := range texts {
		if wantY := i*12 + 10; c.Y != wantY {
			t.Errorf("line %d baseline = %d, want %d", i, c.Y, wantY)
		}
	}
	if rows, _ := d.VisibleRows(b); rows != 3 {
		t.Errorf("VisibleRows = %d, want 3", rows)
	}
}

func TestScrollClamps(t *testing.T) {
	d, b := newTestDisplay(t, numberedLines(5), 200, 36)
	d.Scroll(50, -3)
	if d.TopLine() != 4 || d.HOffset() != 0 {
		t.Errorf("Scroll(50, -3) = (%d, %d), want (4, 0)", d.TopLine(), d.HOffset())
	}
	d.ScrollBy(-10)
	if d.TopLine() != 0 {
		t.Errorf("TopLine after ScrollBy(-10) = %d, want 0", d.TopLine())
	}
	if err := d.PageDown(b); err != nil {
		t.Fatal(err)
	}
	if d.TopLine() != 2 {
		t.Errorf("TopLine after PageDown = %d, want 2", d.TopLine())
	}
	if err := d.PageUp(b); err != nil {
		t.Fatal(err)
	}
	if d.TopLine() != 0 {
		t.Errorf("TopLine after PageUp = %d, want 0", d.TopLine())
	}
}

func TestNoRowsNoDrawing(t *testing.T) {
	d, b := newTestDisplay(t, "hello", 200, 11)
	d.SetCursorVisible(true)
	if err := d.Draw(b); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if n := b.DrawCalls(); n != 0 {
		t.Errorf("DrawCalls = %d, want 0", n)
	}
	if rows, _ := d.VisibleRows(b); rows != 0 {
		t.Errorf("VisibleRows = %d, want 0", rows)
	}
}

func TestEmptyBufferDrawsOneLine(t *testing.T) {
	d, b := newTestDisplay(t, "", 100, 36)
	d.SetCursorVisible(true)
	if err := d.Draw(b); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if start, _ := d.RowStart(b, 0); start != 0 {
		t.Errorf("RowStart(0) = %d, want 0", start)
	}
	if start, _ := d.RowStart(b, 1); start != -1 {
		t.Errorf("RowStart(1) = %d, want -1", start)
	}
	if texts := b.Texts(); len(texts) != 0 {
		t.Errorf("drew text %q in empty buffer", texts)
	}
	// Row 0 is cleared from the left edge and the cursor sits there.
	rects := b.Filter(backend.OpRect)
	if len(rects) == 0 || rects[0].X != 0 || rects[0].W != 100 || rects[0].Y != 0 {
		t.Errorf("first rect = %+v, want full width row 0", rects)
	}
	x, y, ok, err := d.PositionToXY(b, 0)
	if err != nil || !ok || x != 0 || y != 0 {
		t.Errorf("PositionToXY(0) = (%d, %d, %v, %v), want (0, 0, true, nil)", x, y, ok, err)
	}
	if len(b.Filter(backend.OpLine)) == 0 {
		t.Error("cursor not drawn")
	}
}

func TestXYToPosition(t *testing.T) {
	d, b := newTestDisplay(t, "abc\ndef", 200, 60)

	tests := []struct {
		name string
		x, y int
		kind PositionKind
		want int
	}{
		{"char on second line", 10, 13, CharacterPos, 5},
		{"cursor rounds up", 10, 13, CursorPos, 6},
		{"cursor rounds down", 8, 13, CursorPos, 5},
		{"left of text", -5, 1, CursorPos, 0},
		{"above area", 3, -40, CharacterPos, 0},
		{"past line end", 150, 1, CursorPos, 3},
		{"past line end char", 150, 1, CharacterPos, 2},
		{"row past buffer", 3, 40, CharacterPos, 7},
		{"below area", 3, 500, CursorPos, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := d.XYToPosition(b, tt.x, tt.y, tt.kind)
			if err != nil {
				t.Fatalf("XYToPosition: %v", err)
			}
			if got != tt.want {
				t.Errorf("XYToPosition(%d, %d) = %d, want %d", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestPositionToXY(t *testing.T) {
	d, b := newTestDisplay(t, "abc\ndef\nghi", 200, 24)
	ln := gutter.DefaultConfig()
	ln.Enabled = true
	ln.Width = 20
	d.SetLineNumbers(ln)

	tests := []struct {
		pos    int
		x, y   int
		wantOK bool
	}{
		{0, 20, 0, true},
		{2, 32, 0, true},
		{3, 38, 0, true},
		{5, 26, 12, true},
		{9, 0, 0, false},
	}

	for _, tt := range tests {
		x, y, ok, err := d.PositionToXY(b, tt.pos)
		if err != nil {
			t.Fatalf("PositionToXY: %v", err)
		}
		if ok != tt.wantOK || (ok && (x != tt.x || y != tt.y)) {
			t.Errorf("PositionToXY(%d) = (%d, %d, %v), want (%d, %d, %v)", tt.pos, x, y, ok, tt.x, tt.y, tt.wantOK)
		}
	}

	d.Scroll(0, 12)
	x, _, _, _ := d.PositionToXY(b, 2)
	if x != 20 {
		t.Errorf("PositionToXY(2) scrolled = %d, want 20", x)
	}
}

func TestDrawSelection(t *testing.T) {
	d, b := newTestDisplay(t, "hello", 200, 12)
	d.Select(selection.Primary, 1, 3)
	if err := d.Draw(b); err != nil {
		t.Fatalf("Draw: %v", err)
	}

	if diff := diffStrings(b.Texts(), []string{"h", "el", "lo"}); diff != "" {
		t.Errorf("runs: %s", diff)
	}
	var found bool
	for _, c := range b.Filter(backend.OpRect) {
		if c.Color == core.ColorSelection && c.X == 6 && c.W == 12 {
			found = true
		}
	}
	if !found {
		t.Errorf("no selection background at x=6 w=12 in %+v", b.Filter(backend.OpRect))
	}
}

func TestDrawSelectionUnfocused(t *testing.T) {
	d, b := newTestDisplay(t, "hello", 200, 12)
	d.Select(selection.Primary, 0, 5)
	b.SetFocus(false)
	if err := d.Draw(b); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	want := b.Blend(core.ColorWhite, core.ColorSelection, 0.4)
	for _, c := range b.Filter(backend.OpRect) {
		if c.X == 0 && c.W == 30 && c.Color != want {
			t.Errorf("unfocused selection = %v, want %v", c.Color, want)
		}
	}
}

func TestSelectionExtendsPastNewline(t *testing.T) {
	d, b := newTestDisplay(t, "ab\ncd", 100, 24)
	d.Select(selection.Primary, 1, 4)
	if err := d.Draw(b); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	// The newline of line 0 is selected, so the rest of row 0 is too;
	// the rest of row 1 is not.
	var row0, row1 core.Color
	for _, c := range b.Filter(backend.OpRect) {
		switch {
		case c.Y == 0 && c.X == 12:
			row0 = c.Color
		case c.Y == 12 && c.X == 12:
			row1 = c.Color
		}
	}
	if row0 != core.ColorSelection {
		t.Errorf("rest of row 0 = %v, want selection", row0)
	}
	if row1 != core.ColorWhite {
		t.Errorf("rest of row 1 = %v, want white", row1)
	}
}

func TestDrawDecorations(t *testing.T) {
	tbl, err := style.NewTable(
		style.Entry{Name: "plain", Font: testFont},
		style.Entry{Name: "link", Font: testFont, Foreground: core.ColorBlue, Attr: core.AttrUnderline},
		style.Entry{Name: "typo", Font: testFont, Attr: core.AttrSpelling},
		style.Entry{Name: "gone", Font: testFont, Attr: core.AttrStrikethrough},
	)
	if err != nil {
		t.Fatal(err)
	}
	d, b := newTestDisplay(t, "aabbcc", 200, 12)
	d.SetStyleTable(tbl)
	_ = d.StyleBuffer().SetRange(0, 2, 1)
	_ = d.StyleBuffer().SetRange(2, 4, 2)
	_ = d.StyleBuffer().SetRange(4, 6, 3)
	if err := d.Draw(b); err != nil {
		t.Fatalf("Draw: %v", err)
	}

	lines := b.Filter(backend.OpLine)
	want := []backend.Call{
		{Op: backend.OpLine, X: 0, Y: 11, X2: 12, Y2: 11, Color: core.ColorBlue},
		{Op: backend.OpLine, X: 12, Y: 11, X2: 24, Y2: 11, Color: core.ColorRed},
		{Op: backend.OpLine, X: 24, Y: 7, X2: 36, Y2: 7, Color: core.ColorBlack},
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d: %+v", len(lines), len(want), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %+v, want %+v", i, lines[i], want[i])
		}
	}
}

func TestExtendedBackgroundFillsRow(t *testing.T) {
	mark := core.MustHex("#ffff00")
	tbl := style.MustTable(
		style.Entry{Name: "plain", Font: testFont},
		style.Entry{Name: "mark", Font: testFont, Background: mark, Attr: core.AttrBgColorExt},
	)
	d, b := newTestDisplay(t, "ab", 100, 12)
	d.SetStyleTable(tbl)
	_ = d.StyleBuffer().SetRange(1, 2, 1)
	if err := d.Draw(b); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	rects := b.Filter(backend.OpRect)
	last := rects[len(rects)-1]
	if last.X != 12 || last.W != 88 || last.Color != mark {
		t.Errorf("rest of row = %+v, want x=12 w=88 %v", last, mark)
	}
}

func TestLineHeightFollowsTallestFont(t *testing.T) {
	d, b := newTestDisplay(t, "a\nb\nc", 200, 60)
	d.SetStyleTable(mixedTable(t))
	if rows, _ := d.VisibleRows(b); rows != 2 {
		t.Errorf("VisibleRows = %d, want 2", rows)
	}
	if d.LineHeight() != 24 {
		t.Errorf("LineHeight = %d, want 24", d.LineHeight())
	}
}

func TestLineNumbers(t *testing.T) {
	d, b := newTestDisplay(t, "a\nb", 200, 36)
	ln := gutter.DefaultConfig()
	ln.Enabled = true
	d.SetLineNumbers(ln)

	area, err := d.TextArea(b)
	if err != nil {
		t.Fatal(err)
	}
	// Three mono 12 digits are 21.6 pixels, plus 3 padding per side.
	if area.X != 28 || area.W != 172 {
		t.Errorf("TextArea = %v, want x=28 w=172", area)
	}
	if err := d.Draw(b); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if diff := diffStrings(b.Texts(), []string{"a", "b", "1", "2"}); diff != "" {
		t.Errorf("texts: %s", diff)
	}
	if b.ClipDepth() != 0 {
		t.Errorf("clip depth after Draw = %d", b.ClipDepth())
	}
}

func TestDrawRegionSkipsRows(t *testing.T) {
	d, b := newTestDisplay(t, numberedLines(3), 200, 36)
	if err := d.DrawRegion(b, core.Rect{X: 0, Y: 13, W: 50, H: 5}); err != nil {
		t.Fatalf("DrawRegion: %v", err)
	}
	if diff := diffStrings(b.Texts(), []string{"line1"}); diff != "" {
		t.Errorf("texts: %s", diff)
	}
}

func TestShowInsertPosition(t *testing.T) {
	d, b := newTestDisplay(t, numberedLines(10)+"\n"+strings.Repeat("x", 60), 60, 36)
	start, _ := d.TextBuffer().LineStart(8)
	d.SetInsertPosition(start)
	if err := d.ShowInsertPosition(b); err != nil {
		t.Fatal(err)
	}
	if d.TopLine() != 6 {
		t.Errorf("TopLine = %d, want 6", d.TopLine())
	}

	d.SetInsertPosition(d.TextBuffer().Len())
	if err := d.ShowInsertPosition(b); err != nil {
		t.Fatal(err)
	}
	if d.TopLine() != 8 {
		t.Errorf("TopLine = %d, want 8", d.TopLine())
	}
	// 60 characters are 360 pixels; keep two glyphs of margin.
	if d.HOffset() != 360-60+12 {
		t.Errorf("HOffset = %d, want %d", d.HOffset(), 360-60+12)
	}
}

func TestCursorShapes(t *testing.T) {
	d, b := newTestDisplay(t, "hello", 200, 12)
	d.SetCursorVisible(true)
	d.SetCursorColor(core.ColorRed)
	d.SetInsertPosition(2)
	if err := d.Draw(b); err != nil {
		t.Fatalf("Draw: %v", err)
	}
	lines := b.Filter(backend.OpLine)
	want := []backend.Call{
		{Op: backend.OpLine, X: 10, Y: 0, X2: 14, Y2: 0, Color: core.ColorRed},
		{Op: backend.OpLine, X: 12, Y: 0, X2: 12, Y2: 11, Color: core.ColorRed},
		{Op: backend.OpLine, X: 10, Y: 11, X2: 14, Y2: 11, Color: core.ColorRed},
	}
	if len(lines) != len(want) {
		t.Fatalf("cursor lines = %+v", lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %+v, want %+v", i, lines[i], want[i])
		}
	}

	b.Reset()
	b.SetFocus(false)
	d.SetCursorStyle(cursor.Block)
	if err := d.Draw(b); err != nil {
		t.Fatal(err)
	}
	// Without focus the cursor is dimmed to three dots.
	if n := len(b.Filter(backend.OpLine)); n != 3 {
		t.Errorf("unfocused cursor lines = %d, want 3", n)
	}
}

func TestCursorOutsideTextAreaNotDrawn(t *testing.T) {
	d, b := newTestDisplay(t, strings.Repeat("x", 50), 60, 12)
	d.SetCursorVisible(true)
	d.SetInsertPosition(40)
	if err := d.Draw(b); err != nil {
		t.Fatal(err)
	}
	if n := len(b.Filter(backend.OpLine)); n != 0 {
		t.Errorf("drew %d cursor lines outside the area", n)
	}
}

func TestVerticalMovementKeepsColumn(t *testing.T) {
	d, b := newTestDisplay(t, "abcdef\nab\nabcdef", 200, 60)
	d.SetInsertPosition(5)

	steps := []struct {
		up   bool
		want int
		ok   bool
	}{
		{false, 9, true},
		{false, 15, true},
		{false, 15, false},
		{true, 9, true},
		{true, 5, true},
		{true, 5, false},
	}
	for i, s := range steps {
		var moved bool
		var err error
		if s.up {
			moved, err = d.MoveUp(b)
		} else {
			moved, err = d.MoveDown(b)
		}
		if err != nil {
			t.Fatal(err)
		}
		if moved != s.ok || d.InsertPosition() != s.want {
			t.Errorf("step %d: moved=%v pos=%d, want moved=%v pos=%d", i, moved, d.InsertPosition(), s.ok, s.want)
		}
	}

	if !d.MoveLeft() || d.InsertPosition() != 4 {
		t.Errorf("MoveLeft: pos = %d, want 4", d.InsertPosition())
	}
	// MoveLeft reset the column, so the third line is reached at column 4.
	for i := 0; i < 2; i++ {
		if _, err := d.MoveDown(b); err != nil {
			t.Fatal(err)
		}
	}
	if d.InsertPosition() != 14 {
		t.Errorf("MoveDown after MoveLeft = %d, want 14", d.InsertPosition())
	}
}

func TestHorizontalMovementStops(t *testing.T) {
	d, _ := newTestDisplay(t, "ab", 200, 60)
	if d.MoveLeft() {
		t.Error("MoveLeft at 0 moved")
	}
	d.MoveRight()
	d.MoveRight()
	if d.MoveRight() {
		t.Error("MoveRight at end moved")
	}
	if d.InsertPosition() != 2 {
		t.Errorf("InsertPosition = %d, want 2", d.InsertPosition())
	}
}

func TestWordMovement(t *testing.T) {
	d, _ := newTestDisplay(t, "foo bar  baz", 200, 60)

	forward := []int{4, 9, 12, 12}
	for _, want := range forward {
		d.NextWord()
		if got := d.InsertPosition(); got != want {
			t.Errorf("NextWord = %d, want %d", got, want)
		}
	}
	backward := []int{9, 4, 0, 0}
	for _, want := range backward {
		d.PreviousWord()
		if got := d.InsertPosition(); got != want {
			t.Errorf("PreviousWord = %d, want %d", got, want)
		}
	}
}

func TestMouseSelection(t *testing.T) {
	d, b := newTestDisplay(t, "hello world\nnext", 200, 60)

	if _, err := d.Press(b, 12, 1, false, 1); err != nil {
		t.Fatal(err)
	}
	if d.InsertPosition() != 2 || d.Selection(selection.Primary).Selected {
		t.Errorf("after press: pos=%d sel=%+v", d.InsertPosition(), d.Selection(selection.Primary))
	}
	if _, err := d.Drag(b, 30, 1); err != nil {
		t.Fatal(err)
	}
	if got := d.SelectedText(); got != "llo" {
		t.Errorf("dragged selection = %q, want %q", got, "llo")
	}
	if _, err := d.Drag(b, 0, 1); err != nil {
		t.Fatal(err)
	}
	if got := d.SelectedText(); got != "he" || d.InsertPosition() != 0 {
		t.Errorf("reverse drag = %q at %d, want %q at 0", got, d.InsertPosition(), "he")
	}
	if !d.Release() || d.Dragging() {
		t.Error("Release did not end the drag")
	}
	if ok, _ := d.Drag(b, 40, 1); ok {
		t.Error("Drag after Release was handled")
	}

	if _, err := d.Press(b, 40, 1, false, 2); err != nil {
		t.Fatal(err)
	}
	if got := d.SelectedText(); got != "world" {
		t.Errorf("double click = %q, want %q", got, "world")
	}
	d.Release()

	if _, err := d.Press(b, 3, 1, false, 3); err != nil {
		t.Fatal(err)
	}
	if got := d.SelectedText(); got != "hello world\n" {
		t.Errorf("triple click = %q, want the line with its newline", got)
	}
	if _, err := d.Drag(b, 3, 13); err != nil {
		t.Fatal(err)
	}
	if got := d.SelectedText(); got != "hello world\nnext" {
		t.Errorf("line drag = %q", got)
	}
	d.Release()

	d.SetInsertPosition(1)
	if _, err := d.Press(b, 12, 13, true, 1); err != nil {
		t.Fatal(err)
	}
	if got := d.SelectedText(); got != "ello world\nne" {
		t.Errorf("shift click = %q", got)
	}
	in, err := d.InSelection(b, 2, 13)
	if err != nil || !in {
		t.Errorf("InSelection inside = %v, %v", in, err)
	}
	if in, _ := d.InSelection(b, 40, 13); in {
		t.Error("InSelection past selection = true")
	}
}

func TestEditsShiftSelectionAndCursor(t *testing.T) {
	d, e, _ := attachEngine(t, "hello world", 200, 60)
	d.Select(selection.Primary, 6, 11)
	d.Select(selection.Highlight, 0, 5)
	d.SetInsertPosition(8)

	if _, err := e.Insert(0, "oh "); err != nil {
		t.Fatal(err)
	}
	if got := d.SelectedText(); got != "world" {
		t.Errorf("selection after insert = %q, want world", got)
	}
	if d.InsertPosition() != 11 {
		t.Errorf("cursor after insert = %d, want 11", d.InsertPosition())
	}

	if err := e.Remove(3, 8); err != nil {
		t.Fatal(err)
	}
	if d.Selection(selection.Highlight).Selected {
		t.Error("highlight survived removal of its text")
	}
	if got := d.SelectedText(); got != "world" {
		t.Errorf("selection after remove = %q, want world", got)
	}

	d.Detach()
	if _, err := e.Insert(0, "x"); err != nil {
		t.Fatal(err)
	}
	if r := d.Selection(selection.Primary); r.Start != 4 {
		t.Errorf("detached display followed edit: %+v", r)
	}
}

func TestStateMismatchIsReportedAndLogged(t *testing.T) {
	obs, logs := observer.New(zapcore.ErrorLevel)
	opts := testOptions()
	opts.Logger = zap.New(obs)

	tb, _ := buffer.NewTextBufferFromString("abc")
	sb := buffer.NewStyleBuffer()
	sb.Fill(2, 0)
	d := New(core.Rect{W: 100, H: 24}, opts)
	d.SetBuffers(tb, sb)
	b := backend.NewRecorder()

	if err := d.Draw(b); !errors.Is(err, buffer.ErrStateMismatch) {
		t.Errorf("Draw error = %v, want ErrStateMismatch", err)
	}
	if _, err := d.HitTest(b, 0, 3); !errors.Is(err, buffer.ErrStateMismatch) {
		t.Errorf("HitTest error = %v, want ErrStateMismatch", err)
	}
	if _, err := d.MeasureLine(b, 0); !errors.Is(err, buffer.ErrStateMismatch) {
		t.Errorf("MeasureLine error = %v, want ErrStateMismatch", err)
	}
	if b.DrawCalls() != 0 {
		t.Errorf("drew %d calls with mismatched buffers", b.DrawCalls())
	}
	if logs.Len() != 3 {
		t.Errorf("logged %d errors, want 3", logs.Len())
	}
}

func TestInactiveColors(t *testing.T) {
	d, b := newTestDisplay(t, "hi", 60, 12)
	b.SetActive(false)
	if err := d.Draw(b); err != nil {
		t.Fatal(err)
	}
	texts := b.Filter(backend.OpText)
	if len(texts) != 1 || texts[0].Color != b.Inactive(core.ColorBlack) {
		t.Errorf("inactive text = %+v", texts)
	}
}

func TestRecorderJSONOfDraw(t *testing.T) {
	d, b := newTestDisplay(t, "hi\tyou", 100, 12)
	if err := d.Draw(b); err != nil {
		t.Fatal(err)
	}
	data, err := b.JSON()
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	texts := gjson.GetBytes(data, `calls.#(op=="text")#.text`).Array()
	if len(texts) != 2 || texts[0].String() != "hi" || texts[1].String() != "you" {
		t.Errorf("text runs in JSON = %v", texts)
	}
}

func diffStrings(got, want []string) string {
	if strings.Join(got, "\x00") == strings.Join(want, "\x00") && len(got) == len(want) {
		return ""
	}
	return "got " + strings.Join(quoteAll(got), ", ") + "; want " + strings.Join(quoteAll(want), ", ")
}

func quoteAll(s []string) []string {
	out := make([]string, len(s))
	for i, v := range s {
		out[i] = `"` + v + `"`
	}
	return out
}

func TestCharacterHitAgreesWithHitTest(t *testing.T) {
	d, b := newTestDisplay(t, "abc\ndef", 200, 60)
	byPixel, err := d.XYToPosition(b, 150, 1, CharacterPos)
	if err != nil {
		t.Fatal(err)
	}
	byLine, err := d.HitTest(b, 0, 150)
	if err != nil {
		t.Fatal(err)
	}
	if byPixel != byLine {
		t.Errorf("XYToPosition = %d, HitTest = %d", byPixel, byLine)
	}

	d.Select(selection.Primary, 0, 3)
	if in, _ := d.InSelection(b, 150, 1); !in {
		t.Error("InSelection past the end of a selected row = false")
	}
}

func TestWrapAtColumn(t *testing.T) {
	d, b := newTestDisplay(t, strings.Repeat("x", 100), 400, 72)
	d.SetWrapMode(WrapAtColumn, 20)

	for row, want := range []int{0, 20, 40, 60, 80, -1} {
		got, err := d.RowStart(b, row)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("RowStart(%d) = %d, want %d", row, got, want)
		}
	}

	pos, err := d.XYToPosition(b, 19, 25, CharacterPos)
	if err != nil {
		t.Fatal(err)
	}
	if pos != 43 {
		t.Errorf("hit on row 2 = %d, want 43", pos)
	}
	if line, _ := d.TextBuffer().LineOf(pos); line != 0 {
		t.Errorf("hit on row 2 is on line %d", line)
	}
	// A cursor past the end of a wrapped row stays on that row.
	if pos, _ := d.XYToPosition(b, 300, 13, CursorPos); pos != 39 {
		t.Errorf("cursor past wrapped row = %d, want 39", pos)
	}

	x, y, ok, err := d.PositionToXY(b, 40)
	if err != nil || !ok || x != 0 || y != 24 {
		t.Errorf("PositionToXY(40) = %d,%d %v %v, want 0,24", x, y, ok, err)
	}

	if err := d.Draw(b); err != nil {
		t.Fatal(err)
	}
	want := []string{}
	for i := 0; i < 5; i++ {
		want = append(want, strings.Repeat("x", 20))
	}
	if diff := diffStrings(b.Texts(), want); diff != "" {
		t.Errorf("texts: %s", diff)
	}
}

func TestWrapBreaksAfterSeparator(t *testing.T) {
	const text = "the quick brown fox jumps over"
	tests := []struct {
		name    string
		columns int
		want    []string
	}{
		{"looks back", 18, []string{"the quick brown ", "fox jumps over"}},
		{"space hangs", 19, []string{"the quick brown fox ", "jumps over"}},
		{"fits", 30, []string{text}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, b := newTestDisplay(t, text, 400, 36)
			d.SetWrapMode(WrapAtColumn, tt.columns)
			if err := d.Draw(b); err != nil {
				t.Fatal(err)
			}
			if diff := diffStrings(b.Texts(), tt.want); diff != "" {
				t.Errorf("texts: %s", diff)
			}
		})
	}
}

func TestWrapAtBoundsAndPixel(t *testing.T) {
	d, b := newTestDisplay(t, strings.Repeat("x", 25), 60, 48)
	d.SetWrapMode(WrapAtBounds, 0)
	if got, _ := d.RowStart(b, 2); got != 20 {
		t.Errorf("bounds: RowStart(2) = %d, want 20", got)
	}

	d.SetWrapMode(WrapAtPixel, 30)
	if got, _ := d.RowStart(b, 1); got != 5 {
		t.Errorf("pixel: RowStart(1) = %d, want 5", got)
	}
	if mode, margin := d.WrapMode(); mode != WrapAtPixel || margin != 30 {
		t.Errorf("WrapMode = %v, %d", mode, margin)
	}

	d.SetWrapMode(WrapNone, 0)
	if got, _ := d.RowStart(b, 1); got != -1 {
		t.Errorf("none: RowStart(1) = %d, want -1", got)
	}
}

func TestWrapNumbersFirstRowOnly(t *testing.T) {
	d, b := newTestDisplay(t, strings.Repeat("a", 30)+"\nb", 200, 60)
	ln := gutter.DefaultConfig()
	ln.Enabled = true
	d.SetLineNumbers(ln)
	d.SetWrapMode(WrapAtColumn, 10)

	if err := d.Draw(b); err != nil {
		t.Fatal(err)
	}
	row := strings.Repeat("a", 10)
	if diff := diffStrings(b.Texts(), []string{row, row, row, "b", "1", "2"}); diff != "" {
		t.Errorf("texts: %s", diff)
	}
}

func TestWrapVerticalMovement(t *testing.T) {
	d, b := newTestDisplay(t, strings.Repeat("x", 100), 400, 72)
	d.SetWrapMode(WrapAtColumn, 20)
	d.SetInsertPosition(5)

	for _, want := range []int{25, 45, 65, 85} {
		if moved, err := d.MoveDown(b); err != nil || !moved {
			t.Fatalf("MoveDown = %v, %v", moved, err)
		}
		if d.InsertPosition() != want {
			t.Errorf("MoveDown = %d, want %d", d.InsertPosition(), want)
		}
	}
	if moved, _ := d.MoveDown(b); moved {
		t.Error("MoveDown from the last row moved")
	}
	if _, err := d.MoveUp(b); err != nil {
		t.Fatal(err)
	}
	if d.InsertPosition() != 65 {
		t.Errorf("MoveUp = %d, want 65", d.InsertPosition())
	}
}

func TestWrapShowInsertPosition(t *testing.T) {
	d, b := newTestDisplay(t, "a\nb\n"+strings.Repeat("x", 60), 400, 24)
	d.SetWrapMode(WrapAtColumn, 20)
	d.SetInsertPosition(4 + 30)
	if err := d.ShowInsertPosition(b); err != nil {
		t.Fatal(err)
	}
	if d.TopLine() != 2 {
		t.Errorf("TopLine = %d, want 2", d.TopLine())
	}
	if _, _, ok, _ := d.PositionToXY(b, 34); !ok {
		t.Error("insert position not on a visible row")
	}

	d.Scroll(0, 0)
	if err := d.PageDown(b); err != nil {
		t.Fatal(err)
	}
	if d.TopLine() != 1 {
		t.Errorf("TopLine after PageDown = %d, want 1", d.TopLine())
	}
}

func TestParseWrapMode(t *testing.T) {
	for _, m := range []WrapMode{WrapNone, WrapAtColumn, WrapAtPixel, WrapAtBounds} {
		got, err := ParseWrapMode(m.String())
		if err != nil || got != m {
			t.Errorf("ParseWrapMode(%q) = %v, %v", m.String(), got, err)
		}
	}
	if _, err := ParseWrapMode("word"); err == nil {
		t.Error("ParseWrapMode accepted an unknown mode")
	}
}
