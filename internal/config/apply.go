package config

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"

	"github.com/dshills/textview/internal/renderer"
	"github.com/dshills/textview/internal/renderer/core"
	"github.com/dshills/textview/internal/renderer/cursor"
	"github.com/dshills/textview/internal/renderer/gutter"
	"github.com/dshills/textview/internal/renderer/selection"
	"github.com/dshills/textview/internal/renderer/style"
)

// Limits on numeric settings.
const (
	MinFontSize = 4
	MaxFontSize = 200
	MaxTabWidth = 32
)

var errMixedDecorations = errors.New("more than one line decoration")

// parser converts setting strings and collects every failure.
type parser struct {
	err error
}

func (p *parser) fail(path string, value any, err error) {
	p.err = multierr.Append(p.err, &ValidationError{Path: path, Value: value, Err: err})
}

// color parses hex, or returns def for an empty string.
func (p *parser) color(path, hex string, def core.Color) core.Color {
	if hex == "" {
		return def
	}
	c, err := core.ColorFromHex(hex)
	if err != nil {
		p.fail(path, hex, err)
	}
	return c
}

func (p *parser) font(path, face string, size int) core.Font {
	id, err := core.ParseFontID(face)
	if err != nil {
		p.fail(path, face, err)
	}
	p.fontSize(path+"_size", size)
	return core.Font{Face: id, Size: size}
}

func (p *parser) fontSize(path string, size int) {
	if size < MinFontSize || size > MaxFontSize {
		p.fail(path, size, fmt.Errorf("must be between %d and %d", MinFontSize, MaxFontSize))
	}
}

func (p *parser) attributes(path string, names []string) core.Attribute {
	var attr core.Attribute
	for _, name := range names {
		a, err := core.ParseAttribute(name)
		if err != nil {
			p.fail(path, name, err)
			continue
		}
		if a.Decoration() != 0 && attr.Decoration() != 0 && a.Decoration() != attr.Decoration() {
			p.fail(path, names, errMixedDecorations)
			continue
		}
		attr = attr.With(a)
	}
	return attr
}

func (p *parser) nonNegative(path string, n int) {
	if n < 0 {
		p.fail(path, n, errors.New("must not be negative"))
	}
}

// Validate reports every setting that cannot be applied. The error
// matches ErrValidationFailed.
func (c *Config) Validate() error {
	_, err := c.Options()
	if _, terr := c.StyleTable(); terr != nil {
		err = multierr.Append(err, terr)
	}
	return err
}

// Options converts the settings to display options.
func (c *Config) Options() (renderer.Options, error) {
	var p parser
	opts := renderer.DefaultOptions()

	opts.Font = p.font("display.font", c.Display.Font, c.Display.FontSize)
	if c.Display.TabWidth < 1 || c.Display.TabWidth > MaxTabWidth {
		p.fail("display.tab_width", c.Display.TabWidth, fmt.Errorf("must be between 1 and %d", MaxTabWidth))
	}
	opts.TabWidth = c.Display.TabWidth
	var err error
	if opts.WrapMode, err = renderer.ParseWrapMode(c.Display.Wrap); err != nil {
		p.fail("display.wrap", c.Display.Wrap, err)
	}
	opts.WrapMargin = c.Display.WrapMargin
	switch opts.WrapMode {
	case renderer.WrapAtColumn, renderer.WrapAtPixel:
		if c.Display.WrapMargin < 1 {
			p.fail("display.wrap_margin", c.Display.WrapMargin, fmt.Errorf("must be positive for %s wrapping", opts.WrapMode))
		}
	}

	ln := c.LineNumbers
	g := gutter.DefaultConfig()
	g.Enabled = ln.Enabled
	p.nonNegative("line_numbers.width", ln.Width)
	p.nonNegative("line_numbers.padding", ln.Padding)
	if ln.MinDigits < 1 {
		p.fail("line_numbers.min_digits", ln.MinDigits, errors.New("must be at least 1"))
	}
	g.Width, g.MinDigits, g.Padding = ln.Width, ln.MinDigits, ln.Padding
	if g.Align, err = core.ParseAlign(ln.Align); err != nil {
		p.fail("line_numbers.align", ln.Align, err)
	}
	if g.Mode, err = gutter.ParseMode(ln.Mode); err != nil {
		p.fail("line_numbers.mode", ln.Mode, err)
	}
	g.Font = p.font("line_numbers.font", ln.Font, ln.FontSize)
	g.Foreground = p.color("line_numbers.foreground", ln.Foreground, g.Foreground)
	g.Background = p.color("line_numbers.background", ln.Background, g.Background)
	opts.LineNumbers = g

	if opts.CursorStyle, err = cursor.ParseStyle(c.Cursor.Style); err != nil {
		p.fail("cursor.style", c.Cursor.Style, err)
	}
	opts.CursorVisible = c.Cursor.Visible

	def := renderer.DefaultColors()
	defSel := selection.DefaultPalette()
	col := c.Colors
	opts.Colors = renderer.Colors{
		Text:       p.color("colors.text", col.Text, def.Text),
		Background: p.color("colors.background", col.Background, def.Background),
		Cursor:     p.color("cursor.color", c.Cursor.Color, def.Cursor),
		Grammar:    p.color("colors.grammar", col.Grammar, def.Grammar),
		Spelling:   p.color("colors.spelling", col.Spelling, def.Spelling),
		Selection: selection.Palette{
			Primary:   p.color("colors.selection", col.Selection, defSel.Primary),
			Secondary: p.color("colors.secondary_selection", col.Secondary, defSel.Secondary),
			Highlight: p.color("colors.highlight", col.Highlight, defSel.Highlight),
		},
	}
	return opts, p.err
}

// StyleTable builds the style table. An empty Styles list gives
// style.Default at the display font size.
func (c *Config) StyleTable() (*style.Table, error) {
	if len(c.Styles) == 0 {
		size := c.Display.FontSize
		if size < MinFontSize || size > MaxFontSize {
			size = Default().Display.FontSize
		}
		return style.Default(size), nil
	}
	if len(c.Styles) > style.MaxEntries {
		return nil, &ValidationError{Path: "styles", Value: len(c.Styles),
			Err: fmt.Errorf("at most %d entries", style.MaxEntries)}
	}

	var p parser
	entries := make([]style.Entry, len(c.Styles))
	for i, s := range c.Styles {
		path := fmt.Sprintf("styles[%d]", i)
		size := s.Size
		if size == 0 {
			size = c.Display.FontSize
		}
		entries[i] = style.Entry{
			Name:       s.Name,
			Font:       p.font(path+".font", s.Font, size),
			Foreground: p.color(path+".foreground", s.Foreground, core.ColorBlack),
			Background: p.color(path+".background", s.Background, core.ColorWhite),
			Attr:       p.attributes(path+".attributes", s.Attributes),
		}
	}
	if p.err != nil {
		return nil, p.err
	}
	t, err := style.NewTable(entries...)
	if err != nil {
		return nil, &ValidationError{Path: "styles", Value: len(entries), Err: err}
	}
	return t, nil
}

// Apply validates the settings and configures d with them. Nothing is
// changed when validation fails.
func (c *Config) Apply(d *renderer.Display) error {
	opts, err := c.Options()
	t, terr := c.StyleTable()
	if err = multierr.Append(err, terr); err != nil {
		return err
	}
	d.SetFont(opts.Font)
	d.SetTabWidth(opts.TabWidth)
	d.SetWrapMode(opts.WrapMode, opts.WrapMargin)
	d.SetColors(opts.Colors)
	d.SetLineNumbers(opts.LineNumbers)
	d.SetCursorStyle(opts.CursorStyle)
	d.SetCursorVisible(opts.CursorVisible)
	d.SetStyleTable(t)
	return nil
}
