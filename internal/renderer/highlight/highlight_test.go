package highlight

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dshills/textview/internal/engine/buffer"
	"github.com/dshills/textview/internal/renderer/style"
)

func styled(t *testing.T, h Highlighter, text string) []byte {
	t.Helper()
	styles := buffer.NewStyleBuffer()
	styles.Fill(len([]rune(text)), 99)
	if err := h.Highlight(text, styles); err != nil {
		t.Fatalf("Highlight: %v", err)
	}
	return styles.Bytes()
}

// render shows ids as digits for compact comparison.
func render(ids []byte) string {
	var sb strings.Builder
	for _, id := range ids {
		sb.WriteByte('0' + id)
	}
	return sb.String()
}

func TestMarkdownRules(t *testing.T) {
	h := Markdown(style.Default(12))

	tests := []struct {
		name string
		text string
		want string
	}{
		{"plain", "hello", "00000"},
		{"heading", "# Hi\nx", "1111" + "0" + "0"},
		{"not a heading", "#Hi", "000"},
		{"inline code", "a `b` c", "00333" + "00"},
		{"emphasis", "**bold** *it*", "22222222" + "0" + "2222"},
		{"link", "[a](u) x", "444444" + "00"},
		{"mark", "==m==!", "66666" + "0"},
		{"comment one line", "a<!--b-->", "0" + "55555555"},
		{"fenced block", "```\ncode\n```\nx", "333" + "0" + "3333" + "0" + "333" + "0" + "0"},
		{"comment across lines", "<!--\nx\n-->y", "5555" + "0" + "5" + "0" + "555" + "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := render(styled(t, h, tt.text))
			if got != tt.want {
				t.Errorf("Highlight(%q) = %s, want %s", tt.text, got, tt.want)
			}
		})
	}
}

func TestRulesBlockState(t *testing.T) {
	h := NewRules(0).AddBlock("/*", "*/", 2)

	spans, state := h.HighlightLine("a /* b", 0)
	if state != 1 || len(spans) != 1 || spans[0] != (Span{Start: 2, End: 6, Style: 2}) {
		t.Errorf("opening line = %+v, %d", spans, state)
	}
	spans, state = h.HighlightLine("inside", state)
	if state != 1 || len(spans) != 1 || spans[0].End != 6 {
		t.Errorf("middle line = %+v, %d", spans, state)
	}
	spans, state = h.HighlightLine("c */ d /* e */", state)
	want := []Span{{0, 4, 2}, {7, 14, 2}}
	if state != 0 || len(spans) != 2 || spans[0] != want[0] || spans[1] != want[1] {
		t.Errorf("closing line = %+v, %d, want %+v, 0", spans, state, want)
	}
}

func TestRulesPrecedence(t *testing.T) {
	h := NewRules(0).
		AddRule(`//.*$`, 1).
		AddRule(`"[^"]*"`, 2).
		AddKeywords(3, "if", "return")

	spans, _ := h.HighlightLine(`if "if" // return`, 0)
	want := []Span{{0, 2, 3}, {3, 7, 2}, {8, 17, 1}}
	if len(spans) != len(want) {
		t.Fatalf("spans = %+v, want %+v", spans, want)
	}
	for i := range want {
		if spans[i] != want[i] {
			t.Errorf("span %d = %+v, want %+v", i, spans[i], want[i])
		}
	}
}

func TestRulesCharacterOffsets(t *testing.T) {
	h := NewRules(0).AddRule(`b+`, 1)
	got := render(styled(t, h, "éébb\nübb"))
	if got != "0011"+"0"+"011" {
		t.Errorf("styles = %s", got)
	}
}

func TestAddPattern(t *testing.T) {
	h := NewRules(0)
	if err := h.AddPattern(`key=(\w+)`, 4, 1); err != nil {
		t.Fatal(err)
	}
	if got := render(styled(t, h, "key=val")); got != "0000444" {
		t.Errorf("submatch styles = %s", got)
	}
	if err := h.AddPattern(`(`, 1, 0); err == nil {
		t.Error("bad pattern accepted")
	}
	if err := h.AddPattern(`a(b)`, 1, 2); err == nil {
		t.Error("missing group accepted")
	}
}

func TestHighlightLengthMismatch(t *testing.T) {
	styles := buffer.NewStyleBuffer()
	styles.Fill(2, 0)
	err := NewRules(0).Highlight("abc", styles)
	if !errors.Is(err, buffer.ErrStateMismatch) {
		t.Errorf("error = %v, want ErrStateMismatch", err)
	}
	if styles.Len() != 2 {
		t.Errorf("styles length changed to %d", styles.Len())
	}
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry(style.Default(12))
	for _, path := range []string{"README.md", "notes.MARKDOWN", "/tmp/a.txt"} {
		if _, ok := r.ForPath(path); !ok {
			t.Errorf("ForPath(%q) found nothing", path)
		}
	}
	if _, ok := r.ForPath("main.go"); ok {
		t.Error("ForPath(main.go) found a highlighter")
	}
	if _, ok := r.ForPath("Makefile"); ok {
		t.Error("ForPath(Makefile) found a highlighter")
	}
}

const headingScript = `
function highlight(line, state)
  local spans = {}
  local s, e = line:find("^#+ .*")
  if s then
    spans[#spans + 1] = {s, e, "heading"}
  end
  local a, b = line:find("%*%*.-%*%*")
  if a then
    spans[#spans + 1] = {a, b, styles.emphasis}
  end
  return spans, state
end
`

func TestLuaHighlight(t *testing.T) {
	h, err := NewLua(headingScript, style.Default(12))
	if err != nil {
		t.Fatalf("NewLua: %v", err)
	}
	defer h.Close()

	got := render(styled(t, h, "# é\nsay **hi**"))
	if want := "111" + "0" + "0000222222"; got != want {
		t.Errorf("styles = %s, want %s", got, want)
	}
}

func TestLuaState(t *testing.T) {
	script := `
function highlight(line, state)
  if line == "{" then return {{1, 1, 2}}, 1 end
  if line == "}" then return {{1, 1, 2}}, 0 end
  if state == 1 then return {{1, #line, 3}}, 1 end
  return nil
end
`
	h, err := NewLua(script, style.Default(12))
	if err != nil {
		t.Fatalf("NewLua: %v", err)
	}
	defer h.Close()

	got := render(styled(t, h, "a\n{\nbb\n}\nc"))
	if want := "0" + "0" + "2" + "0" + "33" + "0" + "2" + "0" + "0"; got != want {
		t.Errorf("styles = %s, want %s", got, want)
	}
}

func TestLuaErrors(t *testing.T) {
	tbl := style.Default(12)

	if _, err := NewLua(`x = 1`, tbl); !errors.Is(err, ErrNoHighlightFunc) {
		t.Errorf("missing function error = %v", err)
	}
	if _, err := NewLua(`function highlight(`, tbl); err == nil {
		t.Error("syntax error accepted")
	}
	if _, err := NewLua(`dofile("x") function highlight() end`, tbl); err == nil {
		t.Error("dofile is available")
	}

	bad := []struct {
		name   string
		script string
	}{
		{"out of line", `function highlight(line) return {{1, 99, 1}} end`},
		{"unknown style", `function highlight(line) return {{1, 1, "nope"}} end`},
		{"not a table", `function highlight(line) return 5 end`},
		{"runtime error", `function highlight(line) error("boom") end`},
	}
	for _, tt := range bad {
		t.Run(tt.name, func(t *testing.T) {
			h, err := NewLua(tt.script, tbl)
			if err != nil {
				t.Fatalf("NewLua: %v", err)
			}
			defer h.Close()
			styles := buffer.NewStyleBuffer()
			styles.Fill(3, 0)
			if err := h.Highlight("abc", styles); err == nil {
				t.Error("Highlight succeeded")
			}
		})
	}
}

func TestLuaTimeout(t *testing.T) {
	h, err := NewLua(`function highlight(line) while true do end end`, style.Default(12), WithTimeout(50*time.Millisecond))
	if err != nil {
		t.Fatalf("NewLua: %v", err)
	}
	defer h.Close()

	styles := buffer.NewStyleBuffer()
	styles.Fill(1, 0)
	if err := h.Highlight("x", styles); err == nil {
		t.Error("endless script did not time out")
	}
}

func TestLoadLua(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hl.lua")
	if err := os.WriteFile(path, []byte(headingScript), 0o644); err != nil {
		t.Fatal(err)
	}
	h, err := LoadLua(path, style.Default(12))
	if err != nil {
		t.Fatalf("LoadLua: %v", err)
	}
	h.Close()

	if _, err := LoadLua(filepath.Join(t.TempDir(), "missing.lua"), style.Default(12)); err == nil {
		t.Error("LoadLua of missing file succeeded")
	}
}
