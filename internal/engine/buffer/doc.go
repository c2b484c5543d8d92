// Package buffer provides the gap buffers that hold a document's text and
// its per-character styles.
//
// TextBuffer stores UTF-8 text in a single byte array with a movable gap.
// Edits near the previous edit only shift the bytes between the old and new
// gap position, so typing and deleting at one place costs O(1) amortized.
// The gap never splits a multi-byte sequence.
//
// Positions in the public API are character indices, not byte offsets:
//
//	buf, _ := buffer.NewTextBufferFromString("Hello")
//	buf.Remove(1, 3) // "Hlo"
//	buf.Insert(1, "é") // "Hélo"
//
// StyleBuffer holds one StyleID per character in a gap of its own. The two
// buffers are independent; the engine package keeps them in lockstep.
//
// Buffers are not safe for concurrent use.
package buffer
