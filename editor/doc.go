// Package editor provides a Bubble Tea text editor component backed by the
// buffer package.
//
// Besides editing and scrolling, the component exposes the hooks a
// configuration page needs: a save key that emits SaveRequestMsg, named
// Actions that rewrite the document through buffer edits, a per-line
// Highlighter, and change notifications.
package editor
