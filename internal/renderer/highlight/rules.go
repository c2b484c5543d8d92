package highlight

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dshills/textview/internal/engine/buffer"
	"github.com/dshills/textview/internal/renderer/style"
)

// Rule styles every match of a pattern.
type Rule struct {
	Pattern *regexp.Regexp
	Style   style.ID
	// Submatch selects a capture group to style instead of the whole
	// match. Zero styles the whole match.
	Submatch int
}

// block is a construct that may span lines, such as a fenced code block.
type block struct {
	start, end string
	style      style.ID
}

// Rules is a line-oriented regular expression highlighter. Delimited
// blocks are matched first, then rules in the order they were added,
// then keywords. The first construct to claim a character wins.
type Rules struct {
	base     style.ID
	blocks   []block
	rules    []Rule
	keywords map[string]style.ID
}

// NewRules creates an empty highlighter. Unmatched text gets base.
func NewRules(base style.ID) *Rules {
	return &Rules{
		base:     base,
		keywords: make(map[string]style.ID),
	}
}

// AddRule adds a rule for a pattern known to compile.
func (h *Rules) AddRule(pattern string, id style.ID) *Rules {
	h.rules = append(h.rules, Rule{Pattern: regexp.MustCompile(pattern), Style: id})
	return h
}

// AddPattern compiles and adds a rule styling capture group submatch.
func (h *Rules) AddPattern(pattern string, id style.ID, submatch int) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("highlight rule: %w", err)
	}
	if submatch < 0 || submatch > re.NumSubexp() {
		return fmt.Errorf("highlight rule %q has no group %d", pattern, submatch)
	}
	h.rules = append(h.rules, Rule{Pattern: re, Style: id, Submatch: submatch})
	return nil
}

// AddKeywords styles whole identifiers equal to one of words.
func (h *Rules) AddKeywords(id style.ID, words ...string) *Rules {
	for _, w := range words {
		h.keywords[w] = id
	}
	return h
}

// AddBlock styles text from start through the next end, which may be on
// a later line. Empty delimiters are ignored.
func (h *Rules) AddBlock(start, end string, id style.ID) *Rules {
	if start == "" || end == "" {
		return h
	}
	h.blocks = append(h.blocks, block{start: start, end: end, style: id})
	return h
}

// Highlight implements Highlighter.
func (h *Rules) Highlight(text string, styles *buffer.StyleBuffer) error {
	return apply(text, styles, h.base, func(line string, state int) ([]Span, int, error) {
		spans, next := h.HighlightLine(line, state)
		return spans, next, nil
	})
}

// byteSpan is a span in byte offsets before conversion to characters.
type byteSpan struct {
	start, end int
	style      style.ID
}

// HighlightLine styles one line. state is zero outside any block, or one
// more than the index of the block the line starts inside. Spans are in
// characters, sorted and non-overlapping.
func (h *Rules) HighlightLine(line string, state int) ([]Span, int) {
	covered := make([]bool, len(line))
	var spans []byteSpan
	mark := func(start, end int, id style.ID) {
		spans = append(spans, byteSpan{start, end, id})
		for i := start; i < end; i++ {
			covered[i] = true
		}
	}

	pos := 0
	if state > 0 && state <= len(h.blocks) {
		b := h.blocks[state-1]
		idx := strings.Index(line, b.end)
		if idx < 0 {
			mark(0, len(line), b.style)
			return toChars(line, spans), state
		}
		pos = idx + len(b.end)
		mark(0, pos, b.style)
	}
	state = 0

	// Blocks, earliest start first.
	for pos < len(line) {
		first, at := -1, len(line)
		for i, b := range h.blocks {
			if idx := strings.Index(line[pos:], b.start); idx >= 0 && pos+idx < at {
				first, at = i, pos+idx
			}
		}
		if first < 0 {
			break
		}
		b := h.blocks[first]
		body := at + len(b.start)
		idx := strings.Index(line[body:], b.end)
		if idx < 0 {
			mark(at, len(line), b.style)
			state = first + 1
			break
		}
		pos = body + idx + len(b.end)
		mark(at, pos, b.style)
	}

	for _, r := range h.rules {
		for _, m := range r.Pattern.FindAllStringSubmatchIndex(line, -1) {
			start, end := m[0], m[1]
			if r.Submatch > 0 {
				start, end = m[2*r.Submatch], m[2*r.Submatch+1]
			}
			if start < 0 || end <= start || isCovered(covered, start, end) {
				continue
			}
			mark(start, end, r.Style)
		}
	}

	if len(h.keywords) > 0 {
		h.markKeywords(line, covered, mark)
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })
	return toChars(line, spans), state
}

func (h *Rules) markKeywords(line string, covered []bool, mark func(int, int, style.ID)) {
	i := 0
	for i < len(line) {
		r, size := utf8.DecodeRuneInString(line[i:])
		if !unicode.IsLetter(r) && r != '_' {
			i += size
			continue
		}
		start := i
		for i < len(line) {
			r, size = utf8.DecodeRuneInString(line[i:])
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
				break
			}
			i += size
		}
		if id, ok := h.keywords[line[start:i]]; ok && !isCovered(covered, start, i) {
			mark(start, i, id)
		}
	}
}

func isCovered(covered []bool, start, end int) bool {
	for i := start; i < end && i < len(covered); i++ {
		if covered[i] {
			return true
		}
	}
	return false
}

// toChars converts sorted byte spans to character spans.
func toChars(line string, spans []byteSpan) []Span {
	out := make([]Span, 0, len(spans))
	b, c := 0, 0
	advance := func(to int) int {
		for b < to {
			_, size := utf8.DecodeRuneInString(line[b:])
			b += size
			c++
		}
		return c
	}
	for _, sp := range spans {
		// Spans never overlap, so both ends move forward.
		start := advance(sp.start)
		end := advance(sp.end)
		out = append(out, Span{Start: start, End: end, Style: sp.style})
	}
	return out
}

// Markdown returns rules for light markdown using the style names of
// style.Default: heading, emphasis, code, link, comment and mark. Names
// missing from t are skipped. Unmatched text gets "plain".
func Markdown(t *style.Table) *Rules {
	base, _ := t.IDOf("plain")
	h := NewRules(base)
	if id, ok := t.IDOf("code"); ok {
		h.AddBlock("```", "```", id)
	}
	if id, ok := t.IDOf("comment"); ok {
		h.AddBlock("<!--", "-->", id)
	}
	add := func(name string, patterns ...string) {
		id, ok := t.IDOf(name)
		if !ok {
			return
		}
		for _, p := range patterns {
			h.AddRule(p, id)
		}
	}
	add("heading", `^#{1,6}\s.*$`)
	add("code", "`[^`]+`", `^(?:    |\t).*$`)
	add("link", `\[[^\]]*\]\([^)\s]*\)`, `https?://[^\s)>]+`)
	add("mark", `==[^=]+==`)
	add("emphasis", `\*\*[^*]+\*\*`, `\*[^*\s][^*]*\*`, `\b_[^_]+_\b`)
	return h
}
