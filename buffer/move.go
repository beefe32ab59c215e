package buffer

import "github.com/iw2rmb/indexconf/internal/grapheme"

type MoveUnit int

const (
	MoveGrapheme MoveUnit = iota
	MoveWord
	MoveLine
	MoveDoc
)

type MoveDir int

const (
	DirLeft MoveDir = iota
	DirRight
	DirUp
	DirDown
	DirHome // line start (doc start for MoveDoc)
	DirEnd  // line end (doc end for MoveDoc)
)

type Move struct {
	Unit   MoveUnit
	Dir    MoveDir
	Extend bool // extend the selection instead of clearing it
}

func (b *Buffer) Move(m Move) {
	prevCursor, prevSel := b.cursor, b.sel
	nextCursor := b.clampPos(b.moveCursor(prevCursor, m))

	// Collapsing a selection with a plain left/right lands on its edge.
	if r, ok := b.Selection(); ok && !m.Extend && m.Unit == MoveGrapheme {
		switch m.Dir {
		case DirLeft:
			nextCursor = r.Start
		case DirRight:
			nextCursor = r.End
		}
	}

	nextSel := selectionState{}
	if m.Extend {
		anchor := prevCursor
		if prevSel.active && prevSel.anchor != prevSel.end {
			anchor = prevSel.anchor
		}
		if anchor != nextCursor {
			nextSel = selectionState{active: true, anchor: anchor, end: nextCursor}
		}
	}

	if prevCursor == nextCursor && prevSel == nextSel {
		return
	}
	b.cursor = nextCursor
	b.sel = nextSel
	b.version++
}

func (b *Buffer) moveCursor(p Pos, m Move) Pos {
	switch m.Unit {
	case MoveGrapheme:
		return b.moveGrapheme(p, m.Dir)
	case MoveWord:
		return b.moveWord(p, m.Dir)
	case MoveLine:
		return b.moveLine(p, m.Dir)
	case MoveDoc:
		return b.moveDoc(p, m.Dir)
	}
	return p
}

func (b *Buffer) moveGrapheme(p Pos, dir MoveDir) Pos {
	lastRow := len(b.lines) - 1
	switch dir {
	case DirLeft:
		if p.Col > 0 {
			return Pos{Row: p.Row, Col: p.Col - 1}
		}
		if p.Row > 0 {
			return Pos{Row: p.Row - 1, Col: len(b.lines[p.Row-1])}
		}
		return p
	case DirRight:
		if p.Col < len(b.lines[p.Row]) {
			return Pos{Row: p.Row, Col: p.Col + 1}
		}
		if p.Row < lastRow {
			return Pos{Row: p.Row + 1}
		}
		return p
	}
	return b.moveLine(p, dir)
}

func (b *Buffer) moveWord(p Pos, dir MoveDir) Pos {
	line := b.lines[p.Row]
	switch dir {
	case DirLeft:
		if p.Col == 0 {
			return b.moveGrapheme(p, DirLeft)
		}
		return Pos{Row: p.Row, Col: prevWordBoundary(line, p.Col)}
	case DirRight:
		if p.Col == len(line) {
			return b.moveGrapheme(p, DirRight)
		}
		return Pos{Row: p.Row, Col: nextWordBoundary(line, p.Col)}
	}
	return b.moveLine(p, dir)
}

func (b *Buffer) moveLine(p Pos, dir MoveDir) Pos {
	switch dir {
	case DirHome:
		return Pos{Row: p.Row}
	case DirEnd:
		return Pos{Row: p.Row, Col: len(b.lines[p.Row])}
	case DirUp:
		if p.Row == 0 {
			return Pos{}
		}
		return Pos{Row: p.Row - 1, Col: min(p.Col, len(b.lines[p.Row-1]))}
	case DirDown:
		last := len(b.lines) - 1
		if p.Row == last {
			return Pos{Row: last, Col: len(b.lines[last])}
		}
		return Pos{Row: p.Row + 1, Col: min(p.Col, len(b.lines[p.Row+1]))}
	}
	return p
}

func (b *Buffer) moveDoc(p Pos, dir MoveDir) Pos {
	switch dir {
	case DirHome, DirUp:
		return Pos{}
	case DirEnd, DirDown:
		return b.FullRange().End
	}
	return p
}

// Word boundaries: skip whitespace, then skip non-whitespace. Punctuation
// counts as its own word so JSON keys and values are separate stops.
func prevWordBoundary(line []string, col int) int {
	i := clampInt(col, 0, len(line))
	for i > 0 && grapheme.IsSpace(line[i-1]) {
		i--
	}
	if i > 0 && grapheme.IsPunct(line[i-1]) {
		for i > 0 && grapheme.IsPunct(line[i-1]) {
			i--
		}
		return i
	}
	for i > 0 && isWordCluster(line[i-1]) {
		i--
	}
	return i
}

func nextWordBoundary(line []string, col int) int {
	i := clampInt(col, 0, len(line))
	for i < len(line) && grapheme.IsSpace(line[i]) {
		i++
	}
	if i < len(line) && grapheme.IsPunct(line[i]) {
		for i < len(line) && grapheme.IsPunct(line[i]) {
			i++
		}
		return i
	}
	for i < len(line) && isWordCluster(line[i]) {
		i++
	}
	return i
}

func isWordCluster(c string) bool {
	return !grapheme.IsSpace(c) && !grapheme.IsPunct(c)
}
