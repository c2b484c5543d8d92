package backend

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/dshills/textview/internal/renderer/core"
)

// SVG renders draw calls into an SVG document with Approx metrics.
type SVG struct {
	ColorOps
	Approx
	state

	width, height int
	body          bytes.Buffer
	color         core.Color
	font          core.Font
	clips         []string
	clipIDs       map[core.Rect]string
}

// NewSVG starts a document of the given size on a white background.
func NewSVG(width, height int) *SVG {
	s := &SVG{
		width:   width,
		height:  height,
		font:    core.Font{Size: 14},
		clipIDs: make(map[core.Rect]string),
	}
	fmt.Fprintf(&s.body, "  <rect width=\"%d\" height=\"%d\" fill=\"#ffffff\"/>\n", width, height)
	return s
}

func (s *SVG) SetColor(c core.Color) { s.color = c }
func (s *SVG) SetFont(f core.Font)   { s.font = f }

func (s *SVG) DrawText(text string, x, y int) {
	if text == "" {
		return
	}
	family, weight, style := fontAttrs(s.font.Face)
	fmt.Fprintf(&s.body,
		"  <text x=\"%d\" y=\"%d\" fill=\"%s\" font-family=\"%s\" font-size=\"%d\" font-weight=\"%s\" font-style=\"%s\" xml:space=\"preserve\"%s>",
		x, y, s.color.Hex(), family, s.font.Size, weight, style, s.clipAttr())
	_ = xml.EscapeText(&s.body, []byte(text))
	s.body.WriteString("</text>\n")
}

func (s *SVG) FillRect(r core.Rect) {
	if r.IsEmpty() {
		return
	}
	fmt.Fprintf(&s.body, "  <rect x=\"%d\" y=\"%d\" width=\"%d\" height=\"%d\" fill=\"%s\"%s/>\n",
		r.X, r.Y, r.W, r.H, s.color.Hex(), s.clipAttr())
}

func (s *SVG) DrawLine(x1, y1, x2, y2 int) {
	fmt.Fprintf(&s.body, "  <line x1=\"%d\" y1=\"%d\" x2=\"%d\" y2=\"%d\" stroke=\"%s\" stroke-width=\"1\"%s/>\n",
		x1, y1, x2, y2, s.color.Hex(), s.clipAttr())
}

func (s *SVG) PushClip(r core.Rect) {
	id, ok := s.clipIDs[r]
	if !ok {
		id = fmt.Sprintf("clip%d", len(s.clipIDs))
		s.clipIDs[r] = id
		fmt.Fprintf(&s.body, "  <defs><clipPath id=\"%s\"><rect x=\"%d\" y=\"%d\" width=\"%d\" height=\"%d\"/></clipPath></defs>\n",
			id, r.X, r.Y, r.W, r.H)
	}
	s.clips = append(s.clips, id)
}

func (s *SVG) PopClip() {
	if len(s.clips) > 0 {
		s.clips = s.clips[:len(s.clips)-1]
	}
}

func (s *SVG) clipAttr() string {
	if len(s.clips) == 0 {
		return ""
	}
	return fmt.Sprintf(" clip-path=\"url(#%s)\"", s.clips[len(s.clips)-1])
}

// Bytes returns the complete document.
func (s *SVG) Bytes() []byte {
	var out bytes.Buffer
	fmt.Fprintf(&out, "<svg xmlns=\"http://www.w3.org/2000/svg\" width=\"%d\" height=\"%d\" viewBox=\"0 0 %d %d\">\n",
		s.width, s.height, s.width, s.height)
	out.Write(s.body.Bytes())
	out.WriteString("</svg>\n")
	return out.Bytes()
}

// WriteTo writes the complete document to w.
func (s *SVG) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(s.Bytes())
	return int64(n), err
}

func fontAttrs(face core.FontID) (family, weight, style string) {
	family = "Helvetica, Arial, sans-serif"
	weight, style = "normal", "normal"
	switch face {
	case core.FontMono:
		family = "Courier, 'Courier New', monospace"
	case core.FontMonoBold:
		family = "Courier, 'Courier New', monospace"
		weight = "bold"
	case core.FontSerif:
		family = "Times, 'Times New Roman', serif"
	case core.FontSansBold:
		weight = "bold"
	case core.FontSansItalic:
		style = "italic"
	}
	return family, weight, style
}
