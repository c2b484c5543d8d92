package layout

// LineSource is the part of a text buffer needed to find line starts.
type LineSource interface {
	Len() int
	LineCount() int
	SkipLines(start, n int) int
	LineEnd(pos int) int
}

// BreakFunc returns where the row beginning at start ends when its line
// runs to lineEnd. Returning lineEnd keeps the rest of the line on the
// row; anything less wraps the remainder onto the next row.
type BreakFunc func(start, lineEnd int) int

// Starts caches the first and last character offset of each visible row.
// Rows past the end of the buffer hold -1.
type Starts struct {
	starts  []int
	ends    []int
	lines   []int
	wrapped []bool
}

// Rebuild fills rows entries starting with line topLine. An empty buffer
// has one empty line, so row 0 of a fresh buffer starts at 0. brk splits
// long lines over several rows; nil shows every line on one row.
func (s *Starts) Rebuild(src LineSource, topLine, rows int, brk BreakFunc) {
	rows = max(rows, 0)
	s.starts = resize(s.starts, rows)
	s.ends = resize(s.ends, rows)
	s.lines = resize(s.lines, rows)
	if cap(s.wrapped) >= rows {
		s.wrapped = s.wrapped[:rows]
	} else {
		s.wrapped = make([]bool, rows)
	}

	pos := 0
	switch {
	case topLine >= src.LineCount():
		pos = -1
	case topLine > 0:
		pos = src.SkipLines(0, topLine)
	}
	n := src.Len()
	line := topLine
	for r := 0; r < rows; r++ {
		if pos < 0 {
			s.starts[r], s.ends[r], s.lines[r], s.wrapped[r] = -1, -1, -1, false
			continue
		}
		lineEnd := src.LineEnd(pos)
		end := lineEnd
		if brk != nil {
			end = min(max(brk(pos, lineEnd), pos+1), lineEnd)
		}
		s.starts[r], s.ends[r], s.lines[r] = pos, end, line
		s.wrapped[r] = end < lineEnd
		switch {
		case end < lineEnd:
			pos = end
		case end >= n:
			pos = -1
		default:
			pos = end + 1
			line++
		}
	}
}

// Rows returns the number of cached rows.
func (s *Starts) Rows() int { return len(s.starts) }

// Start returns the first character of row, or -1.
func (s *Starts) Start(row int) int {
	if row < 0 || row >= len(s.starts) {
		return -1
	}
	return s.starts[row]
}

// End returns where row stops: the offset of its line's newline, the
// buffer length for the last line, or the first character of the next
// row when the line wraps. It is -1 for rows past the buffer.
func (s *Starts) End(row int) int {
	if row < 0 || row >= len(s.ends) {
		return -1
	}
	return s.ends[row]
}

// Line returns the line shown on row, or -1.
func (s *Starts) Line(row int) int {
	if row < 0 || row >= len(s.lines) {
		return -1
	}
	return s.lines[row]
}

// Wrapped reports whether row's line continues on the next row.
func (s *Starts) Wrapped(row int) bool {
	return row >= 0 && row < len(s.wrapped) && s.wrapped[row]
}

// FirstOfLine reports whether row begins its line.
func (s *Starts) FirstOfLine(row int) bool {
	if s.Start(row) < 0 {
		return false
	}
	return row == 0 || !s.wrapped[row-1]
}

// Len returns the number of characters on row, excluding the newline.
func (s *Starts) Len(row int) int {
	if s.Start(row) < 0 {
		return 0
	}
	return s.ends[row] - s.starts[row]
}

// RowOf returns the row showing pos. A position at a line's newline
// belongs to that line; a position where a line wraps belongs to the
// row it starts.
func (s *Starts) RowOf(pos int) (int, bool) {
	for r, start := range s.starts {
		if start < 0 {
			break
		}
		if pos >= start && (pos < s.ends[r] || pos == s.ends[r] && !s.wrapped[r]) {
			return r, true
		}
	}
	return 0, false
}

// LastStart returns the start of the last row that shows a line.
func (s *Starts) LastStart() int {
	last := -1
	for _, start := range s.starts {
		if start < 0 {
			break
		}
		last = start
	}
	return last
}

func resize(s []int, n int) []int {
	if cap(s) >= n {
		return s[:n]
	}
	return make([]int, n)
}
