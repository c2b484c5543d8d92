package backend

import (
	"github.com/tidwall/sjson"

	"github.com/dshills/textview/internal/renderer/core"
)

// Op names a recorded call.
type Op string

// Recorded operations.
const (
	OpColor    Op = "color"
	OpFont     Op = "font"
	OpText     Op = "text"
	OpRect     Op = "rect"
	OpLine     Op = "line"
	OpPushClip Op = "push_clip"
	OpPopClip  Op = "pop_clip"
)

// Call is one recorded Painter call. Fields not used by Op are zero.
type Call struct {
	Op    Op
	Text  string
	X, Y  int
	X2    int
	Y2    int
	W, H  int
	Color core.Color
	Font  core.Font
}

// Recorder is a Backend that records every Painter call. Its metrics are
// Approx, so layouts are deterministic across machines.
type Recorder struct {
	ColorOps
	Approx
	state

	calls []Call
	color core.Color
	font  core.Font
	clips []core.Rect
}

// NewRecorder returns a focused, active recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) SetColor(c core.Color) {
	r.color = c
	r.calls = append(r.calls, Call{Op: OpColor, Color: c})
}

func (r *Recorder) SetFont(f core.Font) {
	r.font = f
	r.calls = append(r.calls, Call{Op: OpFont, Font: f})
}

func (r *Recorder) DrawText(s string, x, y int) {
	r.calls = append(r.calls, Call{Op: OpText, Text: s, X: x, Y: y, Color: r.color, Font: r.font})
}

func (r *Recorder) FillRect(rect core.Rect) {
	r.calls = append(r.calls, Call{Op: OpRect, X: rect.X, Y: rect.Y, W: rect.W, H: rect.H, Color: r.color})
}

func (r *Recorder) DrawLine(x1, y1, x2, y2 int) {
	r.calls = append(r.calls, Call{Op: OpLine, X: x1, Y: y1, X2: x2, Y2: y2, Color: r.color})
}

func (r *Recorder) PushClip(rect core.Rect) {
	r.clips = append(r.clips, rect)
	r.calls = append(r.calls, Call{Op: OpPushClip, X: rect.X, Y: rect.Y, W: rect.W, H: rect.H})
}

func (r *Recorder) PopClip() {
	if len(r.clips) > 0 {
		r.clips = r.clips[:len(r.clips)-1]
	}
	r.calls = append(r.calls, Call{Op: OpPopClip})
}

// ClipDepth returns the number of clips currently pushed.
func (r *Recorder) ClipDepth() int { return len(r.clips) }

// Calls returns a copy of the recorded calls.
func (r *Recorder) Calls() []Call {
	return append([]Call(nil), r.calls...)
}

// Filter returns the recorded calls with the given op.
func (r *Recorder) Filter(op Op) []Call {
	var out []Call
	for _, c := range r.calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// DrawCalls counts calls that put pixels on the surface.
func (r *Recorder) DrawCalls() int {
	n := 0
	for _, c := range r.calls {
		switch c.Op {
		case OpText, OpRect, OpLine:
			n++
		}
	}
	return n
}

// Texts returns the strings passed to DrawText in order.
func (r *Recorder) Texts() []string {
	var out []string
	for _, c := range r.Filter(OpText) {
		out = append(out, c.Text)
	}
	return out
}

// Reset drops all recorded calls. Focus and active state are kept.
func (r *Recorder) Reset() {
	r.calls = r.calls[:0]
	r.clips = r.clips[:0]
}

// JSON exports the call log as {"calls":[{"op":...}, ...]}.
func (r *Recorder) JSON() ([]byte, error) {
	doc := []byte(`{"calls":[]}`)
	for _, c := range r.calls {
		obj, err := callJSON(c)
		if err != nil {
			return nil, err
		}
		doc, err = sjson.SetRawBytes(doc, "calls.-1", obj)
		if err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func callJSON(c Call) ([]byte, error) {
	obj := []byte(`{}`)
	var err error
	set := func(path string, v any) {
		if err == nil {
			obj, err = sjson.SetBytes(obj, path, v)
		}
	}
	set("op", string(c.Op))
	switch c.Op {
	case OpColor:
		set("color", c.Color.Hex())
	case OpFont:
		set("face", c.Font.Face.String())
		set("size", c.Font.Size)
	case OpText:
		set("text", c.Text)
		set("x", c.X)
		set("y", c.Y)
		set("color", c.Color.Hex())
	case OpRect, OpPushClip:
		set("x", c.X)
		set("y", c.Y)
		set("w", c.W)
		set("h", c.H)
		if c.Op == OpRect {
			set("color", c.Color.Hex())
		}
	case OpLine:
		set("x1", c.X)
		set("y1", c.Y)
		set("x2", c.X2)
		set("y2", c.Y2)
		set("color", c.Color.Hex())
	}
	return obj, err
}
