// Command textview shows a text file in the terminal.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/dshills/textview/internal/config"
	"github.com/dshills/textview/internal/engine"
	"github.com/dshills/textview/internal/logging"
	"github.com/dshills/textview/internal/renderer/highlight"
	"github.com/dshills/textview/internal/watch"
)

// Version information (set via ldflags during build).
var version = "dev"

type options struct {
	path       string
	configPath string
	luaPath    string
	logPath    string
	debug      bool
	watch      bool
	readOnly   bool
}

func main() {
	os.Exit(run())
}

func run() int {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	if opts.logPath != "" {
		if err := logging.Init(logging.Options{Path: opts.logPath, Debug: opts.debug}); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to open log: %v\n", err)
			return 1
		}
		defer logging.Close()
	}
	log := logging.Named("textview")

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	table, err := cfg.StyleTable()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	var engOpts []engine.Option
	if opts.readOnly {
		engOpts = append(engOpts, engine.WithReadOnly())
	}
	eng, err := openFile(opts.path, engOpts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	var hl highlight.Highlighter
	switch {
	case opts.luaPath != "":
		l, err := highlight.LoadLua(opts.luaPath, table)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		defer l.Close()
		hl = l
	case opts.path != "":
		hl, _ = highlight.DefaultRegistry(table).ForPath(opts.path)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize terminal: %v\n", err)
		return 1
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.EnableFocus()

	v, err := newViewer(screen, eng, cfg, hl)
	if err != nil {
		screen.Fini()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	v.path = opts.path

	if opts.watch && opts.path != "" {
		w, err := watch.New(opts.path, 0)
		if err != nil {
			screen.Fini()
			fmt.Fprintf(os.Stderr, "Error: failed to watch %s: %v\n", opts.path, err)
			return 1
		}
		defer w.Close()
		go forwardChanges(screen, w)
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		_ = screen.PostEvent(newQuitEvent())
	}()

	if err := v.run(); err != nil {
		screen.Fini()
		log.Error("viewer stopped", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags(args []string) (options, error) {
	var opts options
	var showVersion bool

	fs := flag.NewFlagSet("textview", flag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", "", "Path to configuration file (.toml or .yaml)")
	fs.StringVar(&opts.luaPath, "lua", "", "Lua highlighter script")
	fs.StringVar(&opts.logPath, "log", "", "Write logs to this file")
	fs.BoolVar(&opts.debug, "debug", false, "Log at debug level")
	fs.BoolVar(&opts.watch, "watch", false, "Reload the file when it changes on disk")
	fs.BoolVar(&opts.readOnly, "readonly", false, "Disable editing")
	fs.BoolVar(&opts.readOnly, "R", false, "Disable editing (shorthand)")
	fs.BoolVar(&showVersion, "version", false, "Show version information")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: textview [options] [file]\n\n")
		fmt.Fprintf(fs.Output(), "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(fs.Output(), "\nKeys: arrows move, ctrl+arrows move by word, PgUp/PgDn scroll,\n")
		fmt.Fprintf(fs.Output(), "ctrl+z/ctrl+y undo/redo, ctrl+q or Esc quits.\n")
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if showVersion {
		fmt.Printf("textview %s\n", version)
		return opts, flag.ErrHelp
	}
	switch fs.NArg() {
	case 0:
	case 1:
		opts.path = fs.Arg(0)
	default:
		return opts, errors.New("at most one file may be given")
	}
	if opts.watch && opts.path == "" {
		return opts, errors.New("-watch needs a file")
	}
	return opts, nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadDefault()
}

// openFile reads path into a new engine. An empty path or a file that does
// not exist yet gives an empty document.
func openFile(path string, opts ...engine.Option) (*engine.Engine, error) {
	if path == "" {
		return engine.New(opts...), nil
	}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return engine.New(opts...), nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	e, err := engine.NewFromReader(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return e, nil
}

// forwardChanges turns file changes into reload events on the screen's
// queue, so reloads run on the event loop.
func forwardChanges(screen tcell.Screen, w *watch.FileWatcher) {
	for path := range w.Changes() {
		_ = screen.PostEvent(newReloadEvent(path))
	}
}
