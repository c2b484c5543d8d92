// Package renderer draws a text buffer and its parallel style buffer.
//
// A Display owns no text. It reads a buffer.TextBuffer and a
// buffer.StyleBuffer, looks each character's style id up in a
// style.Table, and paints onto anything that implements backend.Backend.
//
// Drawing, measuring and hit-testing share one walk over a line, so a
// pixel returned by PositionToXY maps back to the same position through
// XYToPosition. Tabs advance to the next multiple of the tab width in
// spaces.
//
// Architecture:
//
//	┌─────────────────────────────────────────┐
//	│              Display                    │
//	├─────────────────────────────────────────┤
//	│ Viewport │ Line starts │ Selections     │
//	│ Gutter   │ Tab stops   │ Cursor shapes  │
//	├─────────────────────────────────────────┤
//	│       Backend (Painter, Metrics,        │
//	│          Colors, State)                 │
//	├─────────────────────────────────────────┤
//	│  Recorder  │  SVG  │  Terminal (tcell)  │
//	└─────────────────────────────────────────┘
//
// Usage:
//
//	e := engine.New(engine.WithContent(text))
//	d := renderer.New(core.NewRect(0, 0, 640, 480), renderer.DefaultOptions())
//	d.SetStyleTable(style.Default(14))
//	d.Attach(e)
//	svg := backend.NewSVG(640, 480)
//	if err := d.Draw(svg); err != nil {
//		return err
//	}
package renderer
