package buffer

import "fmt"

// StyleID indexes an entry in a style table. Each character of a
// TextBuffer has exactly one StyleID in the paired StyleBuffer.
type StyleID uint8

// DefaultStyle is the style id given to text with no other styling.
const DefaultStyle StyleID = 0

// StyleBuffer stores one StyleID per character using the same gap
// mechanism as TextBuffer. It does not know about the text it
// decorates; the editing layer keeps the two the same length.
type StyleBuffer struct {
	g gap
}

// NewStyleBuffer creates an empty style buffer.
func NewStyleBuffer() *StyleBuffer {
	return &StyleBuffer{g: newGap(minGap)}
}

// Len returns the number of style entries.
func (s *StyleBuffer) Len() int {
	return s.g.len()
}

// At returns the style of character pos, or DefaultStyle when pos is
// out of range.
func (s *StyleBuffer) At(pos int) StyleID {
	if pos < 0 || pos >= s.g.len() {
		return DefaultStyle
	}
	return StyleID(s.g.at(pos))
}

// Fill replaces the content with n copies of id.
func (s *StyleBuffer) Fill(n int, id StyleID) {
	s.g.resetRepeat(max(n, 0), byte(id))
}

// SetBytes replaces the content with one style id per byte of ids.
func (s *StyleBuffer) SetBytes(ids []byte) {
	s.g.reset(string(ids))
}

// Insert inserts n entries of id before pos.
func (s *StyleBuffer) Insert(pos, n int, id StyleID) error {
	if pos < 0 || pos > s.g.len() {
		return fmt.Errorf("style insert at %d (length %d): %w", pos, s.g.len(), ErrInvalidBoundary)
	}
	if n <= 0 {
		return nil
	}
	s.g.insertRepeat(pos, n, byte(id))
	return nil
}

// InsertBytes inserts a run of explicit style ids before pos.
func (s *StyleBuffer) InsertBytes(pos int, ids []byte) error {
	if pos < 0 || pos > s.g.len() {
		return fmt.Errorf("style insert at %d (length %d): %w", pos, s.g.len(), ErrInvalidBoundary)
	}
	if len(ids) == 0 {
		return nil
	}
	s.g.insert(pos, string(ids))
	return nil
}

// Remove deletes entries [start, end).
func (s *StyleBuffer) Remove(start, end int) error {
	if start < 0 || end > s.g.len() || start > end {
		return fmt.Errorf("style remove [%d, %d) (length %d): %w", start, end, s.g.len(), ErrOutOfRange)
	}
	if start == end {
		return nil
	}
	s.g.delete(start, end)
	return nil
}

// SetRange overwrites entries [start, end) with id without changing the
// length.
func (s *StyleBuffer) SetRange(start, end int, id StyleID) error {
	if start < 0 || end > s.g.len() || start > end {
		return fmt.Errorf("style set [%d, %d) (length %d): %w", start, end, s.g.len(), ErrOutOfRange)
	}
	for i := start; i < end; i++ {
		s.g.set(i, byte(id))
	}
	return nil
}

// Range returns a copy of the entries [start, end), clamped.
func (s *StyleBuffer) Range(start, end int) []byte {
	start = clamp(start, 0, s.g.len())
	end = clamp(end, 0, s.g.len())
	if start >= end {
		return nil
	}
	return s.g.appendRange(make([]byte, 0, end-start), start, end)
}

// Bytes returns the entries as one contiguous slice aliasing internal
// storage. It is valid until the next mutation.
func (s *StyleBuffer) Bytes() []byte {
	return s.g.contiguous()
}
