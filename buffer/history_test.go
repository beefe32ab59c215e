package buffer

import "testing"

func TestBuffer_UndoRedo_BasicTyping(t *testing.T) {
	b := New("", Options{})
	if b.CanUndo() || b.CanRedo() {
		t.Fatalf("fresh buffer must have no history")
	}

	b.InsertText("a")
	v := b.Version()
	if ok := b.Undo(); !ok {
		t.Fatalf("expected Undo=true")
	}
	if got := b.Text(); got != "" {
		t.Fatalf("text=%q, want empty", got)
	}
	if got := b.Cursor(); got != (Pos{}) {
		t.Fatalf("cursor=%v, want origin", got)
	}
	if got := b.Version(); got != v+1 {
		t.Fatalf("version=%d, want %d", got, v+1)
	}

	if ok := b.Redo(); !ok {
		t.Fatalf("expected Redo=true")
	}
	if got := b.Text(); got != "a" {
		t.Fatalf("text=%q, want %q", got, "a")
	}
	if got, want := b.Cursor(), (Pos{Col: 1}); got != want {
		t.Fatalf("cursor=%v, want %v", got, want)
	}
}

func TestBuffer_NewEditClearsRedo(t *testing.T) {
	b := New("", Options{})
	b.InsertText("a")
	b.Undo()
	b.InsertText("b")
	if b.CanRedo() {
		t.Fatalf("expected redo cleared by new edit")
	}
}

func TestBuffer_HistoryLimit(t *testing.T) {
	b := New("", Options{HistoryLimit: 2})
	b.InsertText("a")
	b.InsertText("b")
	b.InsertText("c")

	undos := 0
	for b.Undo() {
		undos++
	}
	if undos != 2 {
		t.Fatalf("undos=%d, want 2", undos)
	}
	if got := b.Text(); got != "a" {
		t.Fatalf("text=%q, want %q", got, "a")
	}
}

func TestBuffer_NegativeHistoryLimitDisablesUndo(t *testing.T) {
	b := New("", Options{HistoryLimit: -1})
	b.InsertText("a")
	if b.CanUndo() {
		t.Fatalf("expected history disabled")
	}
}

func TestBuffer_UndoAfterReplaceAll(t *testing.T) {
	b := New("{}", Options{})
	b.ReplaceAll("{\"index_jobs\": []}")
	b.Undo()
	if got := b.Text(); got != "{}" {
		t.Fatalf("text=%q, want %q", got, "{}")
	}
}
