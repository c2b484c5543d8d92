// Package engine is the editing facade over a document's text and styles.
//
// An Engine owns a buffer.TextBuffer and a buffer.StyleBuffer and applies
// every edit to both, so that the style buffer always holds exactly one
// style id per character. Edits are recorded in an undo history and
// announced to listeners after both buffers are updated.
//
// # Basic Usage
//
//	e := engine.New(engine.WithContent("Hello"))
//	e.Remove(1, 3)           // "Hlo"
//	e.InsertStyled(3, "!", 2) // "Hlo!" with '!' in style 2
//	e.Undo()                 // "Hlo"
//
// # Listeners
//
// A display that keeps selections or a cursor subscribes for changes and
// shifts its positions as text is inserted and removed:
//
//	cancel := e.Subscribe(func(c engine.Change) {
//	    // c.Pos, c.Removed, c.Inserted are character counts
//	})
//	defer cancel()
//
// # Concurrency
//
// Engines are not safe for concurrent use. Hosts drive them from one
// goroutine, typically the UI event loop.
package engine
