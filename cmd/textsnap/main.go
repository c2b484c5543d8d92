// Command textsnap renders a text file to SVG, or to a JSON log of draw
// calls, without a terminal.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/tidwall/sjson"
	"golang.org/x/term"

	"github.com/dshills/textview/internal/config"
	"github.com/dshills/textview/internal/engine"
	"github.com/dshills/textview/internal/engine/buffer"
	"github.com/dshills/textview/internal/renderer"
	"github.com/dshills/textview/internal/renderer/backend"
	"github.com/dshills/textview/internal/renderer/core"
	"github.com/dshills/textview/internal/renderer/highlight"
	"github.com/dshills/textview/internal/renderer/style"
)

var errTerminal = errors.New("refusing to write SVG to a terminal; use -o or redirect output")

type options struct {
	input      string
	output     string
	configPath string
	luaPath    string
	json       bool
	width      int
	height     int
	top        int
	cursor     int
	unfocused  bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, stdoutIsTerminal))
}

func stdoutIsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func run(args []string, stdout, stderr io.Writer, isTerminal func() bool) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	if opts.output == "" && !opts.json && isTerminal() {
		fmt.Fprintf(stderr, "Error: %v\n", errTerminal)
		return 1
	}

	src, err := readInput(opts.input)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	out, err := render(opts, src)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if opts.output == "" {
		if _, err := stdout.Write(out); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}
	if err := os.WriteFile(opts.output, out, 0o644); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("textsnap", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.output, "o", "", "Write to this file instead of standard output")
	fs.StringVar(&opts.configPath, "config", "", "Path to configuration file (.toml or .yaml)")
	fs.StringVar(&opts.luaPath, "lua", "", "Lua highlighter script")
	fs.BoolVar(&opts.json, "json", false, "Write the recorded draw calls as JSON instead of SVG")
	fs.IntVar(&opts.width, "width", 640, "Viewport width in pixels")
	fs.IntVar(&opts.height, "height", 480, "Viewport height in pixels")
	fs.IntVar(&opts.top, "top", 0, "First line shown (0-based)")
	fs.IntVar(&opts.cursor, "cursor", -1, "Draw the cursor at this character position")
	fs.BoolVar(&opts.unfocused, "unfocused", false, "Render as an unfocused, inactive window")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: textsnap [options] [file]\n\nReads standard input when no file is given.\n\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 1 {
		return opts, errors.New("at most one file may be given")
	}
	opts.input = fs.Arg(0)
	if opts.width <= 0 || opts.height <= 0 {
		return opts, fmt.Errorf("viewport %dx%d is empty", opts.width, opts.height)
	}
	return opts, nil
}

func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// render draws src into a viewport of the configured size.
func render(opts options, src []byte) ([]byte, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		var err error
		if cfg, err = config.Load(opts.configPath); err != nil {
			return nil, err
		}
	}
	table, err := cfg.StyleTable()
	if err != nil {
		return nil, err
	}

	eng := engine.New()
	if err := eng.SetText(string(src)); err != nil {
		return nil, err
	}
	if err := highlightText(eng, opts, table); err != nil {
		return nil, err
	}

	d := renderer.New(core.NewRect(0, 0, opts.width, opts.height), renderer.DefaultOptions())
	if err := cfg.Apply(d); err != nil {
		return nil, err
	}
	d.Attach(eng)
	defer d.Detach()
	d.Scroll(opts.top, 0)
	d.SetCursorVisible(opts.cursor >= 0)
	if opts.cursor >= 0 {
		d.SetInsertPosition(opts.cursor)
	}

	if opts.json {
		rec := backend.NewRecorder()
		setState(rec, opts)
		if err := d.Draw(rec); err != nil {
			return nil, err
		}
		doc, err := rec.JSON()
		if err != nil {
			return nil, err
		}
		return describe(doc, opts, d, eng)
	}

	svg := backend.NewSVG(opts.width, opts.height)
	setState(svg, opts)
	if err := d.Draw(svg); err != nil {
		return nil, err
	}
	return svg.Bytes(), nil
}

type focusable interface {
	SetFocus(bool)
	SetActive(bool)
}

func setState(b focusable, opts options) {
	b.SetFocus(!opts.unfocused)
	b.SetActive(!opts.unfocused)
}

// describe adds the viewport to a recorder document.
func describe(doc []byte, opts options, d *renderer.Display, eng *engine.Engine) ([]byte, error) {
	fields := []struct {
		path  string
		value any
	}{
		{"viewport.width", opts.width},
		{"viewport.height", opts.height},
		{"viewport.top", d.TopLine()},
		{"lines", eng.LineCount()},
		{"chars", eng.Len()},
	}
	var err error
	for _, f := range fields {
		if doc, err = sjson.SetBytes(doc, f.path, f.value); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// highlightText styles the document with the -lua script, or with the
// highlighter registered for the input's extension.
func highlightText(eng *engine.Engine, opts options, table *style.Table) error {
	var hl highlight.Highlighter
	switch {
	case opts.luaPath != "":
		l, err := highlight.LoadLua(opts.luaPath, table)
		if err != nil {
			return err
		}
		defer l.Close()
		hl = l
	default:
		var ok bool
		if hl, ok = highlight.DefaultRegistry(table).ForPath(opts.input); !ok {
			return nil
		}
	}

	styles := buffer.NewStyleBuffer()
	styles.Fill(eng.Len(), eng.DefaultStyle())
	if err := hl.Highlight(eng.Text(), styles); err != nil {
		return err
	}
	return eng.Restyle(styles.Bytes())
}
