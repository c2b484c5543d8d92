package buffer

// minGap is the smallest gap allocated for a fresh or reset buffer.
const minGap = 64

// gap is a byte slice with a movable hole between start and end.
// Logical content is data[:start] followed by data[end:].
type gap struct {
	data  []byte
	start int
	end   int
}

func newGap(capacity int) gap {
	if capacity < minGap {
		capacity = minGap
	}
	return gap{data: make([]byte, capacity), end: capacity}
}

// size returns the number of unused bytes in the gap.
func (g *gap) size() int {
	return g.end - g.start
}

// len returns the logical byte length.
func (g *gap) len() int {
	return len(g.data) - g.size()
}

// at returns the logical byte at i. i must be in [0, len).
func (g *gap) at(i int) byte {
	if i < g.start {
		return g.data[i]
	}
	return g.data[i+g.size()]
}

// set overwrites the logical byte at i.
func (g *gap) set(i int, c byte) {
	if i < g.start {
		g.data[i] = c
		return
	}
	g.data[i+g.size()] = c
}

// moveTo relocates the gap so that it starts at logical byte pos.
// Only the bytes between the old and new gap position are copied.
func (g *gap) moveTo(pos int) {
	switch {
	case pos < g.start:
		n := g.start - pos
		copy(g.data[g.end-n:g.end], g.data[pos:g.start])
		g.start = pos
		g.end -= n
	case pos > g.start:
		n := pos - g.start
		copy(g.data[g.start:g.start+n], g.data[g.end:g.end+n])
		g.start = pos
		g.end += n
	}
}

// reserve guarantees the gap can take n more bytes, doubling the
// backing array until it fits. The new array is filled before any
// index changes so a failed allocation leaves the gap untouched.
func (g *gap) reserve(n int) {
	if g.size() >= n {
		return
	}
	capacity := max(len(g.data), minGap)
	for capacity-g.len() < n {
		capacity *= 2
	}
	data := make([]byte, capacity)
	copy(data, g.data[:g.start])
	tail := len(g.data) - g.end
	end := capacity - tail
	copy(data[end:], g.data[g.end:])
	g.data = data
	g.end = end
}

// insert writes s at logical byte pos.
func (g *gap) insert(pos int, s string) {
	g.reserve(len(s))
	g.moveTo(pos)
	copy(g.data[g.start:], s)
	g.start += len(s)
}

// insertRepeat writes n copies of c at logical byte pos.
func (g *gap) insertRepeat(pos, n int, c byte) {
	g.reserve(n)
	g.moveTo(pos)
	fill := g.data[g.start : g.start+n]
	for i := range fill {
		fill[i] = c
	}
	g.start += n
}

// delete drops logical bytes [start, end) by widening the gap.
func (g *gap) delete(start, end int) {
	g.moveTo(start)
	g.end += end - start
}

// reset replaces all content with s, leaving the gap at the end.
func (g *gap) reset(s string) {
	capacity := len(s) + max(minGap, len(s)/2)
	data := make([]byte, capacity)
	copy(data, s)
	g.data = data
	g.start = len(s)
	g.end = capacity
}

// resetRepeat replaces all content with n copies of c.
func (g *gap) resetRepeat(n int, c byte) {
	capacity := n + max(minGap, n/2)
	data := make([]byte, capacity)
	for i := 0; i < n; i++ {
		data[i] = c
	}
	g.data = data
	g.start = n
	g.end = capacity
}

// segments returns the physical slices covering logical bytes [start, end).
// Either slice may be empty.
func (g *gap) segments(start, end int) (before, after []byte) {
	if end <= g.start {
		return g.data[start:end], nil
	}
	if start >= g.start {
		return nil, g.data[start+g.size() : end+g.size()]
	}
	return g.data[start:g.start], g.data[g.end : end+g.size()]
}

// appendRange appends logical bytes [start, end) to dst.
func (g *gap) appendRange(dst []byte, start, end int) []byte {
	a, b := g.segments(start, end)
	dst = append(dst, a...)
	return append(dst, b...)
}

// contiguous returns the logical content as one slice. When the gap
// already sits at either end no bytes move; otherwise the gap is
// shifted to the end first. The slice aliases internal storage.
func (g *gap) contiguous() []byte {
	if g.start == 0 {
		return g.data[g.end:]
	}
	if g.end == len(g.data) {
		return g.data[:g.start]
	}
	g.moveTo(g.len())
	return g.data[:g.start]
}
