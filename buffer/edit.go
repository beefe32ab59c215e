package buffer

import (
	"strings"

	"github.com/iw2rmb/indexconf/internal/grapheme"
)

// InsertText inserts text at the cursor, or replaces the active selection.
func (b *Buffer) InsertText(s string) {
	r, ok := b.Selection()
	if !ok {
		if s == "" {
			return
		}
		r = Range{Start: b.cursor, End: b.cursor}
	}
	b.edit(r, s)
}

// InsertNewline inserts a line break at the cursor, or replaces the active
// selection.
func (b *Buffer) InsertNewline() { b.InsertText("\n") }

// DeleteBackward applies backspace semantics.
func (b *Buffer) DeleteBackward() {
	if r, ok := b.Selection(); ok {
		b.edit(r, "")
		return
	}
	row, col := b.cursor.Row, b.cursor.Col
	switch {
	case col > 0:
		b.edit(Range{Start: Pos{Row: row, Col: col - 1}, End: b.cursor}, "")
	case row > 0:
		// Join with the previous line.
		b.edit(Range{Start: Pos{Row: row - 1, Col: len(b.lines[row-1])}, End: b.cursor}, "")
	}
}

// DeleteForward applies delete-key semantics.
func (b *Buffer) DeleteForward() {
	if r, ok := b.Selection(); ok {
		b.edit(r, "")
		return
	}
	row, col := b.cursor.Row, b.cursor.Col
	switch {
	case col < len(b.lines[row]):
		b.edit(Range{Start: b.cursor, End: Pos{Row: row, Col: col + 1}}, "")
	case row < len(b.lines)-1:
		b.edit(Range{Start: b.cursor, End: Pos{Row: row + 1}}, "")
	}
}

// DeleteSelection deletes the active selection, if any.
func (b *Buffer) DeleteSelection() {
	if r, ok := b.Selection(); ok {
		b.edit(r, "")
	}
}

// ReplaceAll replaces the entire document with text as a single undoable
// edit, regardless of the current length or content.
func (b *Buffer) ReplaceAll(text string) {
	b.Apply(TextEdit{Range: b.FullRange(), Text: text})
}

// Apply applies edits in order as a single undoable step. Each edit's range
// is interpreted against the document produced by the previous edit and is
// clamped into bounds. The cursor ends up after the last effective edit and
// the selection is cleared.
func (b *Buffer) Apply(edits ...TextEdit) {
	if len(edits) == 0 {
		return
	}
	prev := b.snapshot()
	cursor := b.cursor
	changed := false
	for _, e := range edits {
		next, ok := b.replaceRange(e.Range, e.Text)
		if !ok {
			continue
		}
		cursor = next
		changed = true
	}
	if !changed {
		return
	}
	b.commitText(prev, cursor)
}

func (b *Buffer) edit(r Range, text string) {
	prev := b.snapshot()
	next, ok := b.replaceRange(r, text)
	if !ok {
		return
	}
	b.commitText(prev, next)
}

func (b *Buffer) commitText(prev bufferSnapshot, cursor Pos) {
	b.cursor = b.clampPos(cursor)
	b.sel = selectionState{}
	b.version++
	b.textVersion++
	b.recordUndo(prev)
}

// replaceRange swaps in a new line slice and returns the position right after
// the inserted text. It reports false when the edit would not change the
// document.
func (b *Buffer) replaceRange(r Range, text string) (Pos, bool) {
	r = NormalizeRange(ClampRange(r, len(b.lines), b.lineLen))
	if b.textInRange(r) == text {
		return b.cursor, false
	}

	prefix := b.lines[r.Start.Row][:r.Start.Col]
	suffix := b.lines[r.End.Row][r.End.Col:]

	parts := strings.Split(text, "\n")
	repl := make([][]string, len(parts))
	for i, p := range parts {
		repl[i] = grapheme.Split(p)
	}
	last := len(repl) - 1
	next := Pos{Row: r.Start.Row + last, Col: len(repl[last])}
	if last == 0 {
		next.Col += len(prefix)
	}

	repl[0] = append(append([]string(nil), prefix...), repl[0]...)
	repl[last] = append(repl[last], suffix...)

	out := make([][]string, 0, len(b.lines)-(r.End.Row-r.Start.Row)+last)
	out = append(out, b.lines[:r.Start.Row]...)
	out = append(out, repl...)
	out = append(out, b.lines[r.End.Row+1:]...)
	b.lines = out
	return next, true
}

// TextInRange returns the document text covered by r (clamped).
func (b *Buffer) TextInRange(r Range) string {
	return b.textInRange(NormalizeRange(ClampRange(r, len(b.lines), b.lineLen)))
}

func (b *Buffer) textInRange(r Range) string {
	if r.IsEmpty() {
		return ""
	}
	if r.Start.Row == r.End.Row {
		return grapheme.Join(b.lines[r.Start.Row][r.Start.Col:r.End.Col])
	}

	var sb strings.Builder
	sb.WriteString(grapheme.Join(b.lines[r.Start.Row][r.Start.Col:]))
	for row := r.Start.Row + 1; row < r.End.Row; row++ {
		sb.WriteByte('\n')
		sb.WriteString(grapheme.Join(b.lines[row]))
	}
	sb.WriteByte('\n')
	sb.WriteString(grapheme.Join(b.lines[r.End.Row][:r.End.Col]))
	return sb.String()
}

// Reset replaces the document without recording history. The cursor moves
// to the start of the document.
func (b *Buffer) Reset(text string) {
	b.lines = splitLines(text)
	b.cursor = Pos{}
	b.sel = selectionState{}
	b.hist = historyState{}
	b.version++
	b.textVersion++
}
