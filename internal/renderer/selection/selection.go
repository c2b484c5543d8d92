// Package selection tracks the primary, secondary and highlight ranges of
// a display and resolves the colors they paint with.
package selection

import (
	"fmt"

	"github.com/dshills/textview/internal/renderer/core"
)

// Kind identifies one of the three tracked ranges.
type Kind uint8

const (
	Primary Kind = iota
	Secondary
	Highlight
)

func (k Kind) String() string {
	switch k {
	case Primary:
		return "primary"
	case Secondary:
		return "secondary"
	case Highlight:
		return "highlight"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Mask is a bit set of kinds covering one character.
type Mask uint8

const (
	MaskPrimary Mask = 1 << iota
	MaskSecondary
	MaskHighlight
)

// Has reports whether k is in the mask.
func (m Mask) Has(k Kind) bool {
	return m&(1<<k) != 0
}

// Top returns the kind that paints over the others: primary, then
// secondary, then highlight. ok is false for an empty mask.
func (m Mask) Top() (k Kind, ok bool) {
	switch {
	case m&MaskPrimary != 0:
		return Primary, true
	case m&MaskSecondary != 0:
		return Secondary, true
	case m&MaskHighlight != 0:
		return Highlight, true
	}
	return 0, false
}

// Range is a half-open character range [Start, End). A range is selected
// only when it is non-empty.
type Range struct {
	Start, End int
	Selected   bool
}

// NewRange orders start and end.
func NewRange(start, end int) Range {
	if end < start {
		start, end = end, start
	}
	return Range{Start: start, End: end, Selected: start != end}
}

// Len returns the number of selected characters.
func (r Range) Len() int {
	if !r.Selected {
		return 0
	}
	return r.End - r.Start
}

// Contains reports whether pos is selected.
func (r Range) Contains(pos int) bool {
	return r.Selected && pos >= r.Start && pos < r.End
}

// Overlaps reports whether any of [start, end) is selected.
func (r Range) Overlaps(start, end int) bool {
	return r.Selected && start < r.End && end > r.Start
}

// Shift moves the range across an edit at pos that removed and inserted
// the given numbers of characters. Text inserted at Start pushes the range
// right; text inserted at End is not absorbed. A range whose characters
// are all removed becomes unselected.
func (r *Range) Shift(pos, removed, inserted int) {
	if !r.Selected {
		return
	}
	delta := inserted - removed
	if pos <= r.Start {
		r.Start = max(r.Start+delta, pos)
	}
	if pos < r.End {
		r.End = max(r.End+delta, pos)
	}
	if r.Start >= r.End {
		r.Selected = false
	}
}

// Clamp limits the range to a buffer of n characters.
func (r *Range) Clamp(n int) {
	r.Start = min(max(r.Start, 0), n)
	r.End = min(max(r.End, 0), n)
	if r.Start >= r.End {
		r.Selected = false
	}
}

// Set holds the three ranges of one display.
type Set struct {
	ranges [3]Range
}

// Get returns the range of kind k.
func (s *Set) Get(k Kind) Range {
	if int(k) >= len(s.ranges) {
		return Range{}
	}
	return s.ranges[k]
}

// Select sets the range of kind k to [start, end) in either order.
func (s *Set) Select(k Kind, start, end int) {
	if int(k) < len(s.ranges) {
		s.ranges[k] = NewRange(start, end)
	}
}

// Clear unselects kind k.
func (s *Set) Clear(k Kind) {
	if int(k) < len(s.ranges) {
		s.ranges[k].Selected = false
	}
}

// ClearAll unselects every range.
func (s *Set) ClearAll() {
	for i := range s.ranges {
		s.ranges[i].Selected = false
	}
}

// Mask returns the kinds that cover pos.
func (s *Set) Mask(pos int) Mask {
	var m Mask
	for i, r := range s.ranges {
		if r.Contains(pos) {
			m |= 1 << i
		}
	}
	return m
}

// Any reports whether some range overlaps [start, end).
func (s *Set) Any(start, end int) bool {
	for _, r := range s.ranges {
		if r.Overlaps(start, end) {
			return true
		}
	}
	return false
}

// Shift applies Range.Shift to all ranges.
func (s *Set) Shift(pos, removed, inserted int) {
	for i := range s.ranges {
		s.ranges[i].Shift(pos, removed, inserted)
	}
}

// Clamp applies Range.Clamp to all ranges.
func (s *Set) Clamp(n int) {
	for i := range s.ranges {
		s.ranges[i].Clamp(n)
	}
}

// Palette holds the selection colors of a display.
type Palette struct {
	Primary   core.Color
	Secondary core.Color
	// Highlight is blended over the base background rather than painted
	// as is.
	Highlight core.Color
}

// DefaultPalette returns the standard blue selection with a light gray
// secondary selection.
func DefaultPalette() Palette {
	return Palette{
		Primary:   core.ColorSelection,
		Secondary: core.ColorLightGray,
		Highlight: core.ColorSelection,
	}
}
