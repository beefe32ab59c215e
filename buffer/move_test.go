package buffer

import "testing"

func TestBuffer_Move_GraphemeWrapsLines(t *testing.T) {
	b := New("ab\ncd", Options{})
	b.SetCursor(Pos{Row: 0, Col: 2})

	b.Move(Move{Unit: MoveGrapheme, Dir: DirRight})
	if got, want := b.Cursor(), (Pos{Row: 1, Col: 0}); got != want {
		t.Fatalf("cursor=%v, want %v", got, want)
	}
	b.Move(Move{Unit: MoveGrapheme, Dir: DirLeft})
	if got, want := b.Cursor(), (Pos{Row: 0, Col: 2}); got != want {
		t.Fatalf("cursor=%v, want %v", got, want)
	}
}

func TestBuffer_Move_VerticalClampsColumn(t *testing.T) {
	b := New("abcdef\nab", Options{})
	b.SetCursor(Pos{Row: 0, Col: 5})
	b.Move(Move{Unit: MoveLine, Dir: DirDown})
	if got, want := b.Cursor(), (Pos{Row: 1, Col: 2}); got != want {
		t.Fatalf("cursor=%v, want %v", got, want)
	}
	b.Move(Move{Unit: MoveLine, Dir: DirDown})
	if got, want := b.Cursor(), (Pos{Row: 1, Col: 2}); got != want {
		t.Fatalf("cursor on last line=%v, want %v", got, want)
	}
}

func TestBuffer_Move_WordStopsAtPunctuation(t *testing.T) {
	b := New(`"indexer": "lsif-go"`, Options{})
	b.Move(Move{Unit: MoveWord, Dir: DirRight})
	if got, want := b.Cursor(), (Pos{Col: 1}); got != want {
		t.Fatalf("cursor=%v, want %v", got, want)
	}
	b.Move(Move{Unit: MoveWord, Dir: DirRight})
	if got, want := b.Cursor(), (Pos{Col: 8}); got != want {
		t.Fatalf("cursor=%v, want %v", got, want)
	}
	b.Move(Move{Unit: MoveWord, Dir: DirLeft})
	if got, want := b.Cursor(), (Pos{Col: 1}); got != want {
		t.Fatalf("cursor=%v, want %v", got, want)
	}
}

func TestBuffer_Move_ExtendBuildsSelection(t *testing.T) {
	b := New("hello", Options{})
	b.Move(Move{Unit: MoveGrapheme, Dir: DirRight, Extend: true})
	b.Move(Move{Unit: MoveGrapheme, Dir: DirRight, Extend: true})

	r, ok := b.Selection()
	if !ok {
		t.Fatalf("expected selection")
	}
	if want := (Range{End: Pos{Col: 2}}); r != want {
		t.Fatalf("selection=%v, want %v", r, want)
	}

	b.Move(Move{Unit: MoveGrapheme, Dir: DirLeft})
	if _, ok := b.Selection(); ok {
		t.Fatalf("plain move must clear selection")
	}
	if got := b.Cursor(); got != (Pos{}) {
		t.Fatalf("cursor=%v, want selection start", got)
	}
}

func TestBuffer_Move_DocBounds(t *testing.T) {
	b := New("ab\ncde", Options{})
	b.Move(Move{Unit: MoveDoc, Dir: DirEnd})
	if got, want := b.Cursor(), (Pos{Row: 1, Col: 3}); got != want {
		t.Fatalf("cursor=%v, want %v", got, want)
	}
	v := b.Version()
	b.Move(Move{Unit: MoveDoc, Dir: DirEnd})
	if b.Version() != v {
		t.Fatalf("no-op move must not bump version")
	}
	b.Move(Move{Unit: MoveDoc, Dir: DirHome})
	if got := b.Cursor(); got != (Pos{}) {
		t.Fatalf("cursor=%v, want origin", got)
	}
}
