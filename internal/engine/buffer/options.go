package buffer

// Option configures a TextBuffer.
type Option func(*options)

type options struct {
	capacity int
	text     string
}

// WithCapacity sets the initial byte capacity of the gap.
func WithCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.capacity = n
		}
	}
}

// WithText sets the initial content. Invalid UTF-8 is ignored.
func WithText(s string) Option {
	return func(o *options) {
		o.text = s
	}
}
