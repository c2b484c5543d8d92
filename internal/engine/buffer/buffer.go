package buffer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// TextBuffer is a gap buffer holding UTF-8 text.
// All positions in its API are character (rune) indices; the gap is only
// ever placed on a character boundary.
//
// TextBuffer is not safe for concurrent use. Callers serialize access.
type TextBuffer struct {
	g gap

	id       uuid.UUID
	chars    int // characters outside the gap
	gapChars int // characters before the gap
	newlines int
	revision uint64
}

// NewTextBuffer creates an empty buffer.
func NewTextBuffer(opts ...Option) *TextBuffer {
	cfg := options{capacity: minGap}
	for _, opt := range opts {
		opt(&cfg)
	}
	b := &TextBuffer{
		g:  newGap(cfg.capacity),
		id: uuid.New(),
	}
	if cfg.text != "" && utf8.ValidString(cfg.text) {
		b.reset(cfg.text)
	}
	return b
}

// NewTextBufferFromString creates a buffer holding s.
func NewTextBufferFromString(s string) (*TextBuffer, error) {
	b := NewTextBuffer()
	if err := b.SetText(s); err != nil {
		return nil, err
	}
	return b, nil
}

// ID returns the identity of this buffer. It never changes.
func (b *TextBuffer) ID() uuid.UUID {
	return b.id
}

// Revision returns a counter incremented on every mutation.
func (b *TextBuffer) Revision() uint64 {
	return b.revision
}

// Len returns the number of characters in the buffer.
func (b *TextBuffer) Len() int {
	return b.chars
}

// ByteLen returns the number of bytes of text in the buffer.
func (b *TextBuffer) ByteLen() int {
	return b.g.len()
}

// IsEmpty returns true if the buffer holds no text.
func (b *TextBuffer) IsEmpty() bool {
	return b.chars == 0
}

// LineCount returns the number of lines. An empty buffer has one line.
func (b *TextBuffer) LineCount() int {
	return b.newlines + 1
}

// Write Operations

// SetText replaces the entire content with s.
func (b *TextBuffer) SetText(s string) error {
	if !utf8.ValidString(s) {
		return ErrInvalidEncoding
	}
	b.reset(s)
	return nil
}

func (b *TextBuffer) reset(s string) {
	b.g.reset(s)
	b.chars = utf8.RuneCountInString(s)
	b.gapChars = b.chars
	b.newlines = strings.Count(s, "\n")
	b.revision++
}

// Insert inserts s before character pos.
func (b *TextBuffer) Insert(pos int, s string) error {
	if pos < 0 || pos > b.chars {
		return fmt.Errorf("insert at %d (length %d): %w", pos, b.chars, ErrInvalidBoundary)
	}
	if !utf8.ValidString(s) {
		return ErrInvalidEncoding
	}
	if s == "" {
		return nil
	}

	b.g.insert(b.byteOffset(pos), s)
	n := utf8.RuneCountInString(s)
	b.gapChars = pos + n
	b.chars += n
	b.newlines += strings.Count(s, "\n")
	b.revision++
	return nil
}

// Remove deletes the characters in [start, end).
func (b *TextBuffer) Remove(start, end int) error {
	if start < 0 || end > b.chars || start > end {
		return fmt.Errorf("remove [%d, %d) (length %d): %w", start, end, b.chars, ErrOutOfRange)
	}
	if start == end {
		return nil
	}

	bs := b.byteOffset(start)
	be := b.byteOffset(end)
	b.newlines -= b.countByte(bs, be, '\n')
	b.g.delete(bs, be)
	b.gapChars = start
	b.chars -= end - start
	b.revision++
	return nil
}

// Replace removes [start, end) and inserts s in its place.
// The buffer is unchanged if either step would fail.
func (b *TextBuffer) Replace(start, end int, s string) error {
	if start < 0 || end > b.chars || start > end {
		return fmt.Errorf("replace [%d, %d) (length %d): %w", start, end, b.chars, ErrOutOfRange)
	}
	if !utf8.ValidString(s) {
		return ErrInvalidEncoding
	}
	if err := b.Remove(start, end); err != nil {
		return err
	}
	return b.Insert(start, s)
}

// Read Operations

// Text returns the full content as a string.
func (b *TextBuffer) Text() string {
	a, c := b.g.segments(0, b.g.len())
	var sb strings.Builder
	sb.Grow(len(a) + len(c))
	sb.Write(a)
	sb.Write(c)
	return sb.String()
}

// Bytes returns the full content as a contiguous read-only view into the
// buffer's storage. The slice is valid until the next mutation.
func (b *TextBuffer) Bytes() []byte {
	if b.g.start != 0 && b.g.end != len(b.g.data) {
		b.gapChars = b.chars
	}
	return b.g.contiguous()
}

// Range returns the text of characters [start, end).
// Out-of-range bounds are clamped.
func (b *TextBuffer) Range(start, end int) string {
	start = clamp(start, 0, b.chars)
	end = clamp(end, 0, b.chars)
	if start >= end {
		return ""
	}
	bs := b.byteOffset(start)
	be := b.advance(bs, end-start)
	return string(b.g.appendRange(make([]byte, 0, be-bs), bs, be))
}

// CharAt returns the character at pos.
func (b *TextBuffer) CharAt(pos int) (rune, error) {
	if pos < 0 || pos >= b.chars {
		return utf8.RuneError, fmt.Errorf("char at %d (length %d): %w", pos, b.chars, ErrOutOfRange)
	}
	return b.runeAtByte(b.byteOffset(pos)), nil
}

func (b *TextBuffer) runeAtByte(bp int) rune {
	var buf [utf8.UTFMax]byte
	n := 0
	for i := bp; i < b.g.len() && n < utf8.UTFMax; i++ {
		if n > 0 && utf8.RuneStart(b.g.at(i)) {
			break
		}
		buf[n] = b.g.at(i)
		n++
	}
	r, _ := utf8.DecodeRune(buf[:n])
	return r
}

// Line Operations

// LineStart returns the character offset of the first character of line.
func (b *TextBuffer) LineStart(line int) (int, error) {
	if line < 0 || line > b.newlines {
		return 0, fmt.Errorf("line %d (count %d): %w", line, b.newlines+1, ErrOutOfRange)
	}
	if line == 0 {
		return 0, nil
	}
	return b.SkipLines(0, line), nil
}

// LineOf returns the zero-based line containing pos. pos may equal Len.
func (b *TextBuffer) LineOf(pos int) (int, error) {
	if pos < 0 || pos > b.chars {
		return 0, fmt.Errorf("line of %d (length %d): %w", pos, b.chars, ErrOutOfRange)
	}
	return b.CountLines(0, pos), nil
}

// LineStartOf returns the start of the line containing pos.
func (b *TextBuffer) LineStartOf(pos int) int {
	pos = clamp(pos, 0, b.chars)
	bp := b.byteOffset(pos)
	for pos > 0 {
		bp = b.prevByte(bp)
		pos--
		if b.g.at(bp) == '\n' {
			return pos + 1
		}
	}
	return 0
}

// LineEnd returns the offset of the newline ending the line containing
// pos, or Len if the line is the last one.
func (b *TextBuffer) LineEnd(pos int) int {
	pos = clamp(pos, 0, b.chars)
	bp := b.byteOffset(pos)
	n := b.g.len()
	for bp < n {
		if b.g.at(bp) == '\n' {
			return pos
		}
		bp = b.nextByte(bp)
		pos++
	}
	return b.chars
}

// LineText returns the text of the line containing pos, without its newline.
func (b *TextBuffer) LineText(pos int) string {
	return b.Range(b.LineStartOf(pos), b.LineEnd(pos))
}

// CountLines returns the number of newlines in [start, end).
func (b *TextBuffer) CountLines(start, end int) int {
	start = clamp(start, 0, b.chars)
	end = clamp(end, 0, b.chars)
	if start >= end {
		return 0
	}
	if start == 0 && end == b.chars {
		return b.newlines
	}
	return b.countByte(b.byteOffset(start), b.byteOffset(end), '\n')
}

// SkipLines returns the start of the line n lines after the one holding
// start, or Len if the buffer ends first.
func (b *TextBuffer) SkipLines(start, n int) int {
	start = clamp(start, 0, b.chars)
	if n <= 0 {
		return start
	}
	pos := start
	bp := b.byteOffset(start)
	total := b.g.len()
	for bp < total {
		c := b.g.at(bp)
		bp = b.nextByte(bp)
		pos++
		if c == '\n' {
			n--
			if n == 0 {
				return pos
			}
		}
	}
	return b.chars
}

// RewindLines returns the start of the line n lines before the one holding
// start. n == 0 yields the start of the current line.
func (b *TextBuffer) RewindLines(start, n int) int {
	pos := b.LineStartOf(start)
	for ; n > 0 && pos > 0; n-- {
		pos = b.LineStartOf(pos - 1)
	}
	return pos
}

// Word Operations

// IsWordSeparator reports whether the character at pos separates words.
// Positions at or past the end count as separators.
func (b *TextBuffer) IsWordSeparator(pos int) bool {
	if pos < 0 || pos >= b.chars {
		return true
	}
	return isSeparator(b.runeAtByte(b.byteOffset(pos)))
}

func isSeparator(r rune) bool {
	if r < utf8.RuneSelf {
		c := byte(r)
		alnum := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
		return !alnum && c != '_'
	}
	switch {
	case r == 0xA0:
		return true
	case r >= 0x3000 && r <= 0x301F:
		return true
	}
	return false
}

// WordStart returns the start of the word containing pos.
func (b *TextBuffer) WordStart(pos int) int {
	pos = clamp(pos, 0, b.chars)
	for pos > 0 && !b.IsWordSeparator(pos-1) {
		pos--
	}
	return pos
}

// WordEnd returns the end of the word containing pos.
func (b *TextBuffer) WordEnd(pos int) int {
	pos = clamp(pos, 0, b.chars)
	for pos < b.chars && !b.IsWordSeparator(pos) {
		pos++
	}
	return pos
}

// Search looks for needle starting at start, moving forward or backward.
// It returns the character offset of the match.
func (b *TextBuffer) Search(start int, needle string, forward bool) (int, bool) {
	if needle == "" {
		return 0, false
	}
	start = clamp(start, 0, b.chars)
	text := b.Text()
	split := len(b.Range(0, start))
	if forward {
		i := strings.Index(text[split:], needle)
		if i < 0 {
			return 0, false
		}
		return start + utf8.RuneCountInString(text[split:split+i]), true
	}
	i := strings.LastIndex(text[:split], needle)
	if i < 0 {
		return 0, false
	}
	return utf8.RuneCountInString(text[:i]), true
}

// Position translation

// byteOffset translates a character index in [0, chars] to a logical byte
// offset, scanning from whichever known anchor is nearest: the start of
// the buffer, either edge of the gap, or the end of the buffer.
func (b *TextBuffer) byteOffset(pos int) int {
	if pos <= b.gapChars {
		before := b.g.data[:b.g.start]
		if pos <= b.gapChars-pos {
			return skipForward(before, 0, pos)
		}
		return skipBackward(before, len(before), b.gapChars-pos)
	}
	after := b.g.data[b.g.end:]
	k := pos - b.gapChars
	total := b.chars - b.gapChars
	if k <= total-k {
		return b.g.start + skipForward(after, 0, k)
	}
	return b.g.start + skipBackward(after, len(after), total-k)
}

// advance moves n characters forward from logical byte bp.
func (b *TextBuffer) advance(bp, n int) int {
	for ; n > 0; n-- {
		bp = b.nextByte(bp)
	}
	return bp
}

func (b *TextBuffer) nextByte(bp int) int {
	total := b.g.len()
	bp++
	for bp < total && !utf8.RuneStart(b.g.at(bp)) {
		bp++
	}
	return bp
}

func (b *TextBuffer) prevByte(bp int) int {
	bp--
	for bp > 0 && !utf8.RuneStart(b.g.at(bp)) {
		bp--
	}
	return bp
}

func (b *TextBuffer) countByte(start, end int, c byte) int {
	x, y := b.g.segments(start, end)
	n := 0
	for _, v := range x {
		if v == c {
			n++
		}
	}
	for _, v := range y {
		if v == c {
			n++
		}
	}
	return n
}

func skipForward(seg []byte, i, n int) int {
	for ; n > 0; n-- {
		i++
		for i < len(seg) && !utf8.RuneStart(seg[i]) {
			i++
		}
	}
	return i
}

func skipBackward(seg []byte, i, n int) int {
	for ; n > 0; n-- {
		i--
		for i > 0 && !utf8.RuneStart(seg[i]) {
			i--
		}
	}
	return i
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
