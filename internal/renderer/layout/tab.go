package layout

// DefaultTabWidth is the tab distance in spaces.
const DefaultTabWidth = 8

// TabExpander places tab stops every tabWidth spaces along a line.
type TabExpander struct {
	tabWidth   int
	spaceWidth float64
}

// NewTabExpander creates an expander for tabs of tabWidth spaces, each
// spaceWidth pixels wide.
func NewTabExpander(tabWidth int, spaceWidth float64) *TabExpander {
	t := &TabExpander{}
	t.SetTabWidth(tabWidth)
	t.SetSpaceWidth(spaceWidth)
	return t
}

// TabWidth returns the tab distance in spaces.
func (t *TabExpander) TabWidth() int {
	return t.tabWidth
}

// SetTabWidth sets the tab distance. Values below one become one.
func (t *TabExpander) SetTabWidth(width int) {
	t.tabWidth = max(width, 1)
}

// SpaceWidth returns the width of one space in pixels.
func (t *TabExpander) SpaceWidth() float64 {
	return t.spaceWidth
}

// SetSpaceWidth sets the pixel width of one space. Values below one
// become one so every tab advances.
func (t *TabExpander) SetSpaceWidth(w float64) {
	t.spaceWidth = max(w, 1)
}

// Stop returns the distance between tab stops in pixels.
func (t *TabExpander) Stop() float64 {
	return float64(t.tabWidth) * t.spaceWidth
}

// Next returns the pen position after a tab starting at x, where x is
// measured from the start of the line. The result is the first stop at
// least one space past x.
func (t *TabExpander) Next(x float64) float64 {
	stop := t.Stop()
	next := float64(int(x/stop)+1) * stop
	if next-x < t.spaceWidth {
		next += stop
	}
	return next
}
