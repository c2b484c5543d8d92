// Package highlight assigns style ids to text. Highlighters only restyle:
// they write ids into a StyleBuffer of the same length as the text and
// never add or remove entries.
package highlight

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/dshills/textview/internal/engine/buffer"
	"github.com/dshills/textview/internal/renderer/style"
)

// Errors returned by highlighters.
var (
	// ErrNoHighlightFunc indicates a script does not define highlight(line).
	ErrNoHighlightFunc = errors.New("script does not define highlight")

	// ErrBadSpan indicates a span outside its line or with an unknown style.
	ErrBadSpan = errors.New("invalid highlight span")
)

// Highlighter restyles text.
type Highlighter interface {
	// Highlight writes a style id for every character of text into
	// styles, which must hold exactly one id per character.
	Highlight(text string, styles *buffer.StyleBuffer) error
}

// Span styles the characters [Start, End) of one line.
type Span struct {
	Start, End int
	Style      style.ID
}

// LineFunc styles a single line. state carries multi-line constructs from
// one line to the next and is zero at the start of the text.
type LineFunc func(line string, state int) ([]Span, int, error)

// apply runs fn over each line of text and writes the result to styles.
// Characters not covered by a span get base.
func apply(text string, styles *buffer.StyleBuffer, base style.ID, fn LineFunc) error {
	n := utf8.RuneCountInString(text)
	if styles.Len() != n {
		return fmt.Errorf("%w: text %d, styles %d", buffer.ErrStateMismatch, n, styles.Len())
	}
	if err := styles.SetRange(0, n, base); err != nil {
		return err
	}

	pos, state := 0, 0
	for {
		line, rest, more := strings.Cut(text, "\n")
		spans, next, err := fn(line, state)
		if err != nil {
			return fmt.Errorf("line at %d: %w", pos, err)
		}
		for _, sp := range spans {
			if err := styles.SetRange(pos+sp.Start, pos+sp.End, sp.Style); err != nil {
				return err
			}
		}
		if !more {
			return nil
		}
		pos += utf8.RuneCountInString(line) + 1
		text, state = rest, next
	}
}

// Registry picks a highlighter by file extension.
type Registry struct {
	byExtension map[string]Highlighter
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byExtension: make(map[string]Highlighter)}
}

// Register makes h the highlighter for each extension.
func (r *Registry) Register(h Highlighter, extensions ...string) {
	for _, ext := range extensions {
		r.byExtension[normalizeExt(ext)] = h
	}
}

// ForPath returns the highlighter registered for path's extension.
func (r *Registry) ForPath(path string) (Highlighter, bool) {
	ext := filepath.Ext(path)
	if ext == "" {
		return nil, false
	}
	h, ok := r.byExtension[normalizeExt(ext)]
	return h, ok
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// DefaultRegistry registers the markdown rules for t.
func DefaultRegistry(t *style.Table) *Registry {
	r := NewRegistry()
	r.Register(Markdown(t), ".md", ".markdown", ".txt")
	return r
}
