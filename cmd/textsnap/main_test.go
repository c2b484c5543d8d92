package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tidwall/gjson"
)

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func notTerminal() bool { return false }
func terminal() bool    { return true }

func TestRenderSVG(t *testing.T) {
	in := writeInput(t, "doc.md", "# Title\nsome <text> & more\n")
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-width", "200", "-height", "60", in}, &stdout, &stderr, notTerminal); code != 0 {
		t.Fatalf("exit %d: %s", code, stderr.String())
	}
	svg := stdout.String()
	if !strings.HasPrefix(svg, "<svg") || !strings.HasSuffix(svg, "</svg>\n") {
		t.Errorf("not an SVG document: %.60q", svg)
	}
	for _, want := range []string{`width="200"`, "Title", "some &lt;text&gt; &amp; more"} {
		if !strings.Contains(svg, want) {
			t.Errorf("SVG lacks %q", want)
		}
	}
}

func TestRenderJSON(t *testing.T) {
	in := writeInput(t, "doc.txt", "alpha\nbeta\ngamma\ndelta")
	var stdout, stderr bytes.Buffer
	args := []string{"-json", "-width", "100", "-height", "70", "-top", "1", in}
	if code := run(args, &stdout, &stderr, terminal); code != 0 {
		t.Fatalf("exit %d: %s", code, stderr.String())
	}
	doc := stdout.String()
	if !gjson.Valid(doc) {
		t.Fatalf("invalid JSON: %s", doc)
	}

	if got := gjson.Get(doc, "viewport.top").Int(); got != 1 {
		t.Errorf("viewport.top = %d, want 1", got)
	}
	if got := gjson.Get(doc, "lines").Int(); got != 4 {
		t.Errorf("lines = %d, want 4", got)
	}
	var texts []string
	for _, r := range gjson.Get(doc, `calls.#(op=="text")#.text`).Array() {
		texts = append(texts, r.String())
	}
	// The 18px heading style sets a 21px line height, so 70px holds
	// three whole rows.
	want := []string{"beta", "gamma", "delta"}
	if strings.Join(texts, ",") != strings.Join(want, ",") {
		t.Errorf("texts = %q, want %q", texts, want)
	}
}

func TestRefusesTerminal(t *testing.T) {
	in := writeInput(t, "doc.txt", "x")
	var stdout, stderr bytes.Buffer
	if code := run([]string{in}, &stdout, &stderr, terminal); code != 1 {
		t.Errorf("exit %d, want 1", code)
	}
	if stdout.Len() != 0 || !strings.Contains(stderr.String(), "terminal") {
		t.Errorf("stdout %q stderr %q", stdout.String(), stderr.String())
	}

	out := filepath.Join(t.TempDir(), "doc.svg")
	if code := run([]string{"-o", out, in}, &stdout, &stderr, terminal); code != 0 {
		t.Fatalf("exit %d with -o: %s", code, stderr.String())
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("<svg")) {
		t.Errorf("output file = %.40q", data)
	}
}

func TestLuaFlag(t *testing.T) {
	script := writeInput(t, "hl.lua", `
function highlight(line, state)
  if line:sub(1, 1) == "!" then return {{1, #line, "code"}} end
  return {}
end
`)
	in := writeInput(t, "doc.txt", "plain\n!loud")
	var stdout, stderr bytes.Buffer
	if code := run([]string{"-json", "-lua", script, in}, &stdout, &stderr, notTerminal); code != 0 {
		t.Fatalf("exit %d: %s", code, stderr.String())
	}
	// The code style of style.Default paints its own background.
	fills := gjson.Get(stdout.String(), `calls.#(color=="#f3f3f3")#.op`).Array()
	if len(fills) == 0 {
		t.Error("no code background drawn")
	}
}

func TestBadArguments(t *testing.T) {
	tests := [][]string{
		{"-width", "0"},
		{"a", "b"},
		{"-bogus"},
	}
	for _, args := range tests {
		var stdout, stderr bytes.Buffer
		if code := run(args, &stdout, &stderr, notTerminal); code != 2 {
			t.Errorf("run(%q) = %d, want 2", args, code)
		}
	}

	var stdout, stderr bytes.Buffer
	missing := filepath.Join(t.TempDir(), "missing.txt")
	if code := run([]string{"-json", missing}, &stdout, &stderr, notTerminal); code != 1 {
		t.Errorf("missing input exit = %d, want 1", code)
	}
}
