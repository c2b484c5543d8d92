// Package history provides undo/redo for the text engine.
//
// An Operation records one edit: where it happened, the text and styles it
// removed, and the text and styles it inserted. Commands wrap operations
// and apply them to a Target, which the engine implements without
// recording history of its own.
//
//	h := history.NewHistory(500)
//	h.Push(history.NewEditCommand(op))
//	h.Undo(target)
//	h.Redo(target)
//
// Consecutive insertions can be coalesced with SetMergeWindow, and
// BeginGroup/EndGroup combine several edits into one undo unit. Transaction
// does the same and rolls the edits back when its function fails.
package history
