package style

import (
	"testing"

	"github.com/dshills/textview/internal/renderer/core"
)

func TestNewTable(t *testing.T) {
	tbl, err := NewTable(
		Entry{Name: "plain", Font: core.Font{Size: 12}},
		Entry{Name: "bold", Font: core.Font{Face: core.FontSansBold, Size: 12}},
		Entry{Font: core.Font{Face: core.FontMono, Size: 12}},
	)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	if tbl.Len() != 3 {
		t.Errorf("Len = %d", tbl.Len())
	}

	e, ok := tbl.Lookup(1)
	if !ok || e.Name != "bold" {
		t.Errorf("Lookup(1) = %+v, %v", e, ok)
	}
	if _, ok := tbl.Lookup(3); ok {
		t.Error("Lookup past end should fail")
	}
	if id, ok := tbl.IDOf("bold"); !ok || id != 1 {
		t.Errorf("IDOf(bold) = %d, %v", id, ok)
	}
	if _, ok := tbl.IDOf("missing"); ok {
		t.Error("IDOf(missing) should fail")
	}
}

func TestNewTableErrors(t *testing.T) {
	if _, err := NewTable(Entry{Name: "a"}, Entry{Name: "a"}); err == nil {
		t.Error("expected duplicate name error")
	}
	if _, err := NewTable(make([]Entry, MaxEntries+1)...); err == nil {
		t.Error("expected size error")
	}
	if _, err := NewTable(make([]Entry, MaxEntries)...); err != nil {
		t.Errorf("full table rejected: %v", err)
	}
}

func TestTableIsImmutable(t *testing.T) {
	entries := []Entry{{Name: "x", Foreground: core.ColorRed}}
	tbl := MustTable(entries...)

	entries[0].Foreground = core.ColorBlue
	got := tbl.Entries()
	got[0].Foreground = core.ColorBlue

	e, _ := tbl.Lookup(0)
	if e.Foreground != core.ColorRed {
		t.Error("table changed through caller slices")
	}
}

func TestNilTable(t *testing.T) {
	var tbl *Table
	if tbl.Len() != 0 {
		t.Error("nil table should be empty")
	}
	if _, ok := tbl.Lookup(0); ok {
		t.Error("nil table lookup should fail")
	}
	if tbl.Entries() != nil || tbl.Fonts() != nil {
		t.Error("nil table should return nil slices")
	}
}

func TestFonts(t *testing.T) {
	tbl := MustTable(
		Entry{Font: core.Font{Face: core.FontSans, Size: 12}},
		Entry{Font: core.Font{Face: core.FontMono, Size: 12}},
		Entry{Font: core.Font{Face: core.FontSans, Size: 12}},
	)
	if got := tbl.Fonts(); len(got) != 2 {
		t.Errorf("Fonts = %v", got)
	}
}

func TestDefault(t *testing.T) {
	tbl := Default(12)
	for _, name := range []string{"plain", "heading", "code", "link", "mark"} {
		if _, ok := tbl.IDOf(name); !ok {
			t.Errorf("default table missing %q", name)
		}
	}
	if id, _ := tbl.IDOf("plain"); id != 0 {
		t.Errorf("plain should be id 0, got %d", id)
	}
	h, _ := tbl.IDOf("heading")
	e, _ := tbl.Lookup(h)
	if e.Font.Size != 16 {
		t.Errorf("heading size = %d", e.Font.Size)
	}
	m, _ := tbl.IDOf("mark")
	e, _ = tbl.Lookup(m)
	if !e.Attr.ExtendsBackground() {
		t.Error("mark should extend its background")
	}
}
