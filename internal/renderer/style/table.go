// Package style provides the style table: the flat list of visual styles
// that style ids in a StyleBuffer index into.
package style

import (
	"fmt"

	"github.com/dshills/textview/internal/engine/buffer"
	"github.com/dshills/textview/internal/renderer/core"
)

// ID indexes a Table. It is the same type stored in a StyleBuffer.
type ID = buffer.StyleID

// MaxEntries is the largest table a one-byte id can address.
const MaxEntries = 256

// Entry describes how characters with one style id are drawn.
type Entry struct {
	// Name is an optional label used by configuration and highlighters.
	Name       string
	Font       core.Font
	Foreground core.Color
	// Background is only used when Attr has AttrBgColor.
	Background core.Color
	Attr       core.Attribute
}

// Table is an immutable, ordered list of entries indexed by ID.
// The zero value is an empty table.
type Table struct {
	entries []Entry
	names   map[string]ID
}

// NewTable creates a table from entries. Entry i gets id i.
func NewTable(entries ...Entry) (*Table, error) {
	if len(entries) > MaxEntries {
		return nil, fmt.Errorf("style table has %d entries, limit is %d", len(entries), MaxEntries)
	}
	t := &Table{
		entries: append([]Entry(nil), entries...),
		names:   make(map[string]ID, len(entries)),
	}
	for i, e := range t.entries {
		if e.Name == "" {
			continue
		}
		if _, dup := t.names[e.Name]; dup {
			return nil, fmt.Errorf("duplicate style name %q", e.Name)
		}
		t.names[e.Name] = ID(i)
	}
	return t, nil
}

// MustTable is NewTable for static tables. It panics on error.
func MustTable(entries ...Entry) *Table {
	t, err := NewTable(entries...)
	if err != nil {
		panic(err)
	}
	return t
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Lookup returns the entry for id. ok is false when id is past the end.
func (t *Table) Lookup(id ID) (e Entry, ok bool) {
	if t == nil || int(id) >= len(t.entries) {
		return Entry{}, false
	}
	return t.entries[id], true
}

// IDOf returns the id of the entry named name.
func (t *Table) IDOf(name string) (ID, bool) {
	if t == nil {
		return 0, false
	}
	id, ok := t.names[name]
	return id, ok
}

// Entries returns a copy of all entries.
func (t *Table) Entries() []Entry {
	if t == nil {
		return nil
	}
	return append([]Entry(nil), t.entries...)
}

// Fonts returns each distinct font used by the table, in table order.
func (t *Table) Fonts() []core.Font {
	if t == nil {
		return nil
	}
	seen := make(map[core.Font]bool)
	var fonts []core.Font
	for _, e := range t.entries {
		if !seen[e.Font] {
			seen[e.Font] = true
			fonts = append(fonts, e.Font)
		}
	}
	return fonts
}

// Default returns a small table for plain text with light markup: plain,
// heading, emphasis, code, link, comment and mark.
func Default(size int) *Table {
	return MustTable(
		Entry{Name: "plain", Font: core.Font{Face: core.FontSans, Size: size}, Foreground: core.ColorBlack},
		Entry{Name: "heading", Font: core.Font{Face: core.FontSansBold, Size: size + size/3}, Foreground: core.MustHex("#1a1a6e")},
		Entry{Name: "emphasis", Font: core.Font{Face: core.FontSansItalic, Size: size}, Foreground: core.MustHex("#333333")},
		Entry{
			Name:       "code",
			Font:       core.Font{Face: core.FontMono, Size: size},
			Foreground: core.MustHex("#a31515"),
			Background: core.MustHex("#f3f3f3"),
			Attr:       core.AttrBgColor,
		},
		Entry{Name: "link", Font: core.Font{Face: core.FontSans, Size: size}, Foreground: core.MustHex("#0645ad"), Attr: core.AttrUnderline},
		Entry{Name: "comment", Font: core.Font{Face: core.FontMono, Size: size}, Foreground: core.MustHex("#008000")},
		Entry{
			Name:       "mark",
			Font:       core.Font{Face: core.FontSans, Size: size},
			Foreground: core.ColorBlack,
			Background: core.MustHex("#fff59d"),
			Attr:       core.AttrBgColorExt,
		},
	)
}
