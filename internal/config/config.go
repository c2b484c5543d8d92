// Package config loads display settings from TOML or YAML files.
//
// A file only needs the keys it changes; everything else keeps the value
// from Default. An example in TOML:
//
//	[display]
//	font = "mono"
//	font_size = 13
//	tab_width = 4
//	wrap = "bounds"
//
//	[line_numbers]
//	enabled = true
//	mode = "relative"
//
//	[cursor]
//	style = "heavy"
//	color = "#d00000"
//
//	[[styles]]
//	name = "plain"
//	font = "mono"
//	size = 13
//	foreground = "#202020"
//
//	[[styles]]
//	name = "mark"
//	background = "#fff59d"
//	attributes = ["bgcolor_ext"]
//
// When styles is empty the display uses style.Default at the display font
// size.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// EnvConfig names the variable holding the default config path.
const EnvConfig = "TEXTVIEW_CONFIG"

// Config is the full set of display settings.
type Config struct {
	Display     DisplaySection    `toml:"display" yaml:"display"`
	LineNumbers LineNumberSection `toml:"line_numbers" yaml:"line_numbers"`
	Cursor      CursorSection     `toml:"cursor" yaml:"cursor"`
	Colors      ColorSection      `toml:"colors" yaml:"colors"`
	Styles      []StyleSection    `toml:"styles" yaml:"styles"`
}

// DisplaySection holds the font used for unstyled text, the tab width and
// line wrapping. Wrap is "none", "column", "pixel" or "bounds"; WrapMargin
// is the column count or pixel width for the first two.
type DisplaySection struct {
	Font       string `toml:"font" yaml:"font"`
	FontSize   int    `toml:"font_size" yaml:"font_size"`
	TabWidth   int    `toml:"tab_width" yaml:"tab_width"`
	Wrap       string `toml:"wrap" yaml:"wrap"`
	WrapMargin int    `toml:"wrap_margin" yaml:"wrap_margin"`
}

// LineNumberSection configures the line number margin.
type LineNumberSection struct {
	Enabled bool `toml:"enabled" yaml:"enabled"`
	// Width in pixels. Zero fits the margin to the line count.
	Width      int    `toml:"width" yaml:"width"`
	MinDigits  int    `toml:"min_digits" yaml:"min_digits"`
	Padding    int    `toml:"padding" yaml:"padding"`
	Align      string `toml:"align" yaml:"align"`
	Font       string `toml:"font" yaml:"font"`
	FontSize   int    `toml:"font_size" yaml:"font_size"`
	Foreground string `toml:"foreground" yaml:"foreground"`
	Background string `toml:"background" yaml:"background"`
	Mode       string `toml:"mode" yaml:"mode"`
}

// CursorSection configures the insertion cursor.
type CursorSection struct {
	Style   string `toml:"style" yaml:"style"`
	Color   string `toml:"color" yaml:"color"`
	Visible bool   `toml:"visible" yaml:"visible"`
}

// ColorSection holds the display colors as hex strings.
type ColorSection struct {
	Text       string `toml:"text" yaml:"text"`
	Background string `toml:"background" yaml:"background"`
	Grammar    string `toml:"grammar" yaml:"grammar"`
	Spelling   string `toml:"spelling" yaml:"spelling"`
	Selection  string `toml:"selection" yaml:"selection"`
	Secondary  string `toml:"secondary_selection" yaml:"secondary_selection"`
	Highlight  string `toml:"highlight" yaml:"highlight"`
}

// StyleSection is one style table entry. Its position in Styles is its id.
type StyleSection struct {
	Name       string   `toml:"name" yaml:"name"`
	Font       string   `toml:"font" yaml:"font"`
	Size       int      `toml:"size" yaml:"size"`
	Foreground string   `toml:"foreground" yaml:"foreground"`
	Background string   `toml:"background" yaml:"background"`
	Attributes []string `toml:"attributes" yaml:"attributes"`
}

// Default returns the settings a display starts with.
func Default() *Config {
	return &Config{
		Display: DisplaySection{
			Font:     "sans",
			FontSize: 14,
			TabWidth: 8,
			Wrap:     "none",
		},
		LineNumbers: LineNumberSection{
			MinDigits:  3,
			Padding:    3,
			Align:      "right",
			Font:       "mono",
			FontSize:   12,
			Foreground: "#000000",
			Background: "#e0e0e0",
			Mode:       "absolute",
		},
		Cursor: CursorSection{
			Style:   "normal",
			Color:   "#000000",
			Visible: true,
		},
		Colors: ColorSection{
			Text:       "#000000",
			Background: "#ffffff",
			Grammar:    "#0000ff",
			Spelling:   "#ff0000",
			Selection:  "#0078d7",
			Secondary:  "#d3d3d3",
			Highlight:  "#0078d7",
		},
	}
}

// Load reads path over the defaults and validates the result. The format
// follows the extension: .toml, .yaml or .yml.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	c := Default()
	if err := c.decode(path, data); err != nil {
		return nil, err
	}
	c.applyEnv()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadDefault loads the file named by $TEXTVIEW_CONFIG, or
// textview/config.toml under the user config directory. A missing file is
// not an error.
func LoadDefault() (*Config, error) {
	path := DefaultPath()
	if path == "" {
		return defaultsWithEnv()
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return defaultsWithEnv()
	}
	return Load(path)
}

// DefaultPath returns the path LoadDefault reads, or "" if there is none.
func DefaultPath() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "textview", "config.toml")
}

func defaultsWithEnv() (*Config, error) {
	c := Default()
	c.applyEnv()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) decode(path string, data []byte) error {
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, c)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, c)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return &ParseError{Path: path, Err: err}
	}
	return nil
}

// envOverrides maps environment variables to the integer settings they
// replace.
func (c *Config) envOverrides() map[string]*int {
	return map[string]*int{
		"TEXTVIEW_FONT_SIZE":   &c.Display.FontSize,
		"TEXTVIEW_TAB_WIDTH":   &c.Display.TabWidth,
		"TEXTVIEW_WRAP_MARGIN": &c.Display.WrapMargin,
	}
}

// applyEnv overrides settings from the environment. Unparsable values are
// ignored.
func (c *Config) applyEnv() {
	for env, field := range c.envOverrides() {
		if v, ok := os.LookupEnv(env); ok {
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				*field = n
			}
		}
	}
	if v, ok := os.LookupEnv("TEXTVIEW_WRAP"); ok {
		c.Display.Wrap = strings.TrimSpace(v)
	}
	if v, ok := os.LookupEnv("TEXTVIEW_LINE_NUMBERS"); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			c.LineNumbers.Enabled = b
		}
	}
}
