// Package core provides shared value types for the renderer subsystem.
// This package breaks import cycles between renderer and backend.
package core

import (
	"fmt"
	"strconv"
	"strings"
)

// Attribute holds style flags: background handling and line decorations.
type Attribute uint16

// Style attribute flags.
//
// AttrBgColorExt implies AttrBgColor and additionally extends the
// background past the end of the line. The decoration flags form a small
// enumeration inside AttrLinesMask, so compare them with Decoration.
const (
	AttrNone          Attribute = 0
	AttrBgColor       Attribute = 0x0001
	AttrBgColorExt    Attribute = 0x0003
	AttrUnderline     Attribute = 0x0004
	AttrGrammar       Attribute = 0x0008
	AttrSpelling      Attribute = 0x000C
	AttrStrikethrough Attribute = 0x0010
	AttrLinesMask     Attribute = 0x001C

	attrExtendBit Attribute = 0x0002
)

// HasBackground reports whether the style paints its own background.
func (a Attribute) HasBackground() bool {
	return a&AttrBgColor != 0
}

// ExtendsBackground reports whether the background continues past the
// last character of a line.
func (a Attribute) ExtendsBackground() bool {
	return a&attrExtendBit != 0
}

// Decoration returns the line decoration, one of AttrNone, AttrUnderline,
// AttrGrammar, AttrSpelling or AttrStrikethrough.
func (a Attribute) Decoration() Attribute {
	return a & AttrLinesMask
}

// With returns a new attribute set with the given attribute added.
func (a Attribute) With(attr Attribute) Attribute {
	return a | attr
}

// Without returns a new attribute set with the given attribute removed.
func (a Attribute) Without(attr Attribute) Attribute {
	return a &^ attr
}

// ParseAttribute converts a name such as "underline" or "bgcolor_ext".
func ParseAttribute(name string) (Attribute, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return AttrNone, nil
	case "bgcolor", "background":
		return AttrBgColor, nil
	case "bgcolor_ext", "background_ext":
		return AttrBgColorExt, nil
	case "underline":
		return AttrUnderline, nil
	case "grammar":
		return AttrGrammar, nil
	case "spelling":
		return AttrSpelling, nil
	case "strikethrough", "strike":
		return AttrStrikethrough, nil
	}
	return AttrNone, fmt.Errorf("unknown attribute %q", name)
}

// Color is a 24-bit RGB color.
type Color struct {
	R, G, B uint8
}

// Common colors.
var (
	ColorBlack     = Color{R: 0, G: 0, B: 0}
	ColorWhite     = Color{R: 255, G: 255, B: 255}
	ColorRed       = Color{R: 255, G: 0, B: 0}
	ColorBlue      = Color{R: 0, G: 0, B: 255}
	ColorGray      = Color{R: 128, G: 128, B: 128}
	ColorLightGray = Color{R: 0xD3, G: 0xD3, B: 0xD3}

	// ColorSelection is the primary selection background.
	ColorSelection = Color{R: 0x00, G: 0x78, B: 0xD7}
)

// ColorFromRGB creates a color from RGB components.
func ColorFromRGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// ColorFromUint32 creates a color from 0xRRGGBB.
func ColorFromUint32(v uint32) Color {
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}
}

// Uint32 returns the color as 0xRRGGBB.
func (c Color) Uint32() uint32 {
	return uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// ColorFromHex creates a color from "#RRGGBB" or "#RGB".
func ColorFromHex(hex string) (Color, error) {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")

	var parts [3]string
	switch len(hex) {
	case 3:
		for i := range parts {
			parts[i] = strings.Repeat(hex[i:i+1], 2)
		}
	case 6:
		for i := range parts {
			parts[i] = hex[2*i : 2*i+2]
		}
	default:
		return Color{}, fmt.Errorf("invalid hex color length: %s", hex)
	}

	var rgb [3]uint8
	for i, p := range parts {
		v, err := strconv.ParseUint(p, 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("invalid hex color: %s", hex)
		}
		rgb[i] = uint8(v)
	}
	return Color{R: rgb[0], G: rgb[1], B: rgb[2]}, nil
}

// MustHex is ColorFromHex for constants. It panics on bad input.
func MustHex(hex string) Color {
	c, err := ColorFromHex(hex)
	if err != nil {
		panic(err)
	}
	return c
}

// Hex returns the "#rrggbb" form.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// String returns a string representation of the color.
func (c Color) String() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Luminance returns the perceived brightness in [0, 1].
func (c Color) Luminance() float64 {
	return (0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)) / 255
}

// FontID names a font face. Backends map ids to real fonts.
type FontID uint8

// Font faces.
const (
	FontSans FontID = iota
	FontMono
	FontSerif
	FontSansBold
	FontMonoBold
	FontSansItalic
)

// ParseFontID converts a face name such as "mono" or "sans-bold".
func ParseFontID(name string) (FontID, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "sans", "helvetica":
		return FontSans, nil
	case "mono", "courier", "monospace":
		return FontMono, nil
	case "serif", "times":
		return FontSerif, nil
	case "sans-bold", "bold":
		return FontSansBold, nil
	case "mono-bold":
		return FontMonoBold, nil
	case "sans-italic", "italic":
		return FontSansItalic, nil
	}
	return FontSans, fmt.Errorf("unknown font %q", name)
}

var fontNames = [...]string{"sans", "mono", "serif", "sans-bold", "mono-bold", "sans-italic"}

// String returns the face name accepted by ParseFontID.
func (id FontID) String() string {
	if int(id) < len(fontNames) {
		return fontNames[id]
	}
	return fmt.Sprintf("font(%d)", uint8(id))
}

// IsMonospace reports whether every glyph of the face has the same advance.
func (id FontID) IsMonospace() bool {
	return id == FontMono || id == FontMonoBold
}

// Font is a face at a pixel size.
type Font struct {
	Face FontID
	Size int
}

// String returns a short description like "mono/14".
func (f Font) String() string {
	return fmt.Sprintf("%s/%d", f.Face, f.Size)
}

// Extents are the metrics of a measured string. Width is fractional so a
// run of measurements can be accumulated without rounding drift.
type Extents struct {
	Width   float64
	Height  int
	Descent int
}

// Align selects horizontal alignment.
type Align uint8

// Alignments.
const (
	AlignCenter Align = iota
	AlignLeft
	AlignRight
)

// ParseAlign converts "left", "right" or "center".
func ParseAlign(name string) (Align, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "center", "centre":
		return AlignCenter, nil
	case "left":
		return AlignLeft, nil
	case "right":
		return AlignRight, nil
	}
	return AlignCenter, fmt.Errorf("unknown alignment %q", name)
}

// Point is a pixel position.
type Point struct {
	X, Y int
}

// Rect is a pixel rectangle. X and Y are the top-left corner.
type Rect struct {
	X, Y, W, H int
}

// NewRect creates a rectangle.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x coordinate just past the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y coordinate just past the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// IsEmpty returns true if the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.W <= 0 || r.H <= 0
}

// Contains returns true if p is within the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Intersects returns true if two rectangles overlap.
func (r Rect) Intersects(other Rect) bool {
	return !r.Intersection(other).IsEmpty()
}

// Intersection returns the overlapping region of two rectangles.
func (r Rect) Intersection(other Rect) Rect {
	x := max(r.X, other.X)
	y := max(r.Y, other.Y)
	right := min(r.Right(), other.Right())
	bottom := min(r.Bottom(), other.Bottom())
	if right <= x || bottom <= y {
		return Rect{X: x, Y: y}
	}
	return Rect{X: x, Y: y, W: right - x, H: bottom - y}
}

// Inset shrinks the rectangle by the given margins. Sizes never go
// negative.
func (r Rect) Inset(left, top, right, bottom int) Rect {
	return Rect{
		X: r.X + left,
		Y: r.Y + top,
		W: max(0, r.W-left-right),
		H: max(0, r.H-top-bottom),
	}
}

// String returns a string representation of the rectangle.
func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.W, r.H)
}
