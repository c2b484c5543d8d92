package highlight

import (
	"context"
	"fmt"
	"os"
	"time"
	"unicode/utf8"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/dshills/textview/internal/engine/buffer"
	"github.com/dshills/textview/internal/logging"
	"github.com/dshills/textview/internal/renderer/style"
)

// DefaultLuaTimeout bounds one Highlight call.
const DefaultLuaTimeout = 2 * time.Second

// Lua runs a script that defines
//
//	function highlight(line, state) ... return spans, state end
//
// for every line. Each span is {first, last, style} where first and last
// are 1-based inclusive byte positions, as returned by string.find, and
// style is an id or a style table name. The returned state, a number,
// is passed to the next line; it may be omitted. The global table styles
// maps style names to ids.
//
// The script runs with only the base, table, string and math libraries.
// Lua is not safe for concurrent use.
type Lua struct {
	L       *lua.LState
	table   *style.Table
	base    style.ID
	timeout time.Duration
	log     *zap.Logger
}

// LuaOption configures a Lua highlighter.
type LuaOption func(*Lua)

// WithTimeout bounds the run time of one Highlight call.
func WithTimeout(d time.Duration) LuaOption {
	return func(h *Lua) {
		h.timeout = d
	}
}

// WithBase sets the style of characters no span covers.
func WithBase(id style.ID) LuaOption {
	return func(h *Lua) {
		h.base = id
	}
}

// NewLua loads script. The caller must Close the highlighter.
func NewLua(script string, t *style.Table, opts ...LuaOption) (*Lua, error) {
	h := &Lua{
		table:   t,
		timeout: DefaultLuaTimeout,
		log:     logging.Named("highlight.lua"),
	}
	if id, ok := t.IDOf("plain"); ok {
		h.base = id
	}
	for _, opt := range opts {
		opt(h)
	}

	h.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(h.L)
	h.L.SetGlobal("styles", h.styleNames())

	if err := h.L.DoString(script); err != nil {
		h.L.Close()
		return nil, fmt.Errorf("load highlight script: %w", err)
	}
	if fn := h.L.GetGlobal("highlight"); fn.Type() != lua.LTFunction {
		h.L.Close()
		return nil, ErrNoHighlightFunc
	}
	return h, nil
}

// LoadLua reads a script from path.
func LoadLua(path string, t *style.Table, opts ...LuaOption) (*Lua, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	h, err := NewLua(string(src), t, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	h.log.Debug("script loaded", zap.String("path", path))
	return h, nil
}

// openSafeLibraries opens the libraries a highlighter needs and removes
// the ones that load code from outside.
func openSafeLibraries(L *lua.LState) {
	for _, open := range []lua.LGFunction{lua.OpenBase, lua.OpenTable, lua.OpenString, lua.OpenMath} {
		L.Push(L.NewFunction(open))
		L.Call(0, 0)
	}
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		L.SetGlobal(name, lua.LNil)
	}
}

func (h *Lua) styleNames() *lua.LTable {
	tbl := h.L.NewTable()
	for i, e := range h.table.Entries() {
		if e.Name != "" {
			tbl.RawSetString(e.Name, lua.LNumber(i))
		}
	}
	return tbl
}

// Close releases the Lua state.
func (h *Lua) Close() {
	h.L.Close()
}

// Highlight implements Highlighter.
func (h *Lua) Highlight(text string, styles *buffer.StyleBuffer) error {
	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()
	h.L.SetContext(ctx)
	defer h.L.RemoveContext()

	err := apply(text, styles, h.base, h.HighlightLine)
	if err != nil {
		h.log.Warn("highlight failed", zap.Error(err))
	}
	return err
}

// HighlightLine calls the script for one line.
func (h *Lua) HighlightLine(line string, state int) (spans []Span, next int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()

	err = h.L.CallByParam(lua.P{
		Fn:      h.L.GetGlobal("highlight"),
		NRet:    2,
		Protect: true,
	}, lua.LString(line), lua.LNumber(state))
	if err != nil {
		return nil, 0, err
	}
	ret, st := h.L.Get(-2), h.L.Get(-1)
	h.L.Pop(2)

	if n, ok := st.(lua.LNumber); ok {
		next = int(n)
	}
	if ret == lua.LNil {
		return nil, next, nil
	}
	tbl, ok := ret.(*lua.LTable)
	if !ok {
		return nil, 0, fmt.Errorf("%w: highlight returned %s", ErrBadSpan, ret.Type())
	}

	for i := 1; i <= tbl.Len(); i++ {
		sp, err := h.span(line, tbl.RawGetInt(i))
		if err != nil {
			return nil, 0, err
		}
		if sp.End > sp.Start {
			spans = append(spans, sp)
		}
	}
	return spans, next, nil
}

// span converts {first, last, style} to a character span of line.
func (h *Lua) span(line string, v lua.LValue) (Span, error) {
	t, ok := v.(*lua.LTable)
	if !ok {
		return Span{}, fmt.Errorf("%w: %s is not a table", ErrBadSpan, v.Type())
	}
	first, ok1 := t.RawGetInt(1).(lua.LNumber)
	last, ok2 := t.RawGetInt(2).(lua.LNumber)
	if !ok1 || !ok2 {
		return Span{}, fmt.Errorf("%w: positions must be numbers", ErrBadSpan)
	}
	start, end := int(first)-1, int(last)
	if start < 0 || end > len(line) || start > end {
		return Span{}, fmt.Errorf("%w: [%d, %d] outside line of %d bytes", ErrBadSpan, int(first), int(last), len(line))
	}

	var id style.ID
	switch s := t.RawGetInt(3).(type) {
	case lua.LNumber:
		if s < 0 || int(s) >= style.MaxEntries {
			return Span{}, fmt.Errorf("%w: style %v", ErrBadSpan, s)
		}
		id = style.ID(s)
	case lua.LString:
		var found bool
		if id, found = h.table.IDOf(string(s)); !found {
			return Span{}, fmt.Errorf("%w: unknown style %q", ErrBadSpan, string(s))
		}
	default:
		return Span{}, fmt.Errorf("%w: style must be a number or name", ErrBadSpan)
	}

	return Span{
		Start: utf8.RuneCountInString(line[:start]),
		End:   utf8.RuneCountInString(line[:end]),
		Style: id,
	}, nil
}
