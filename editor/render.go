package editor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/iw2rmb/indexconf/buffer"
	"github.com/iw2rmb/indexconf/internal/grapheme"
)

// Per-cluster style classes. Values >= styleHighlight index into the line's
// highlight spans.
const (
	styleText = iota
	styleSelection
	styleCursor
	styleHighlight
)

func (m *Model) renderContent() string {
	if m.buf == nil {
		return ""
	}
	n := m.buf.LineCount()
	cursor := m.buf.Cursor()
	sel, selOK := m.buf.Selection()
	digits := gutterDigits(n)

	left := max(m.xOffset, 0)
	right := int(^uint(0) >> 1)
	if w := m.contentWidth(); w > 0 {
		right = left + w
	}

	out := make([]string, 0, n)
	for row := 0; row < n; row++ {
		var sb strings.Builder
		if m.cfg.ShowLineNums {
			numStyle := m.cfg.Style.LineNum
			if m.focused && row == cursor.Row {
				numStyle = m.cfg.Style.LineNumActive
			}
			sb.WriteString(numStyle.Render(fmt.Sprintf("%*d", digits, row+1)))
			sb.WriteString(m.cfg.Style.Gutter.Render(" "))
		}
		line := m.buf.Line(row)
		sb.WriteString(m.renderLine(row, line, cursor, sel, selOK, m.highlightLine(row, line), left, right))
		out = append(out, sb.String())
	}
	return strings.Join(out, "\n")
}

func (m *Model) highlightLine(row int, line string) []HighlightSpan {
	if m.cfg.Highlighter == nil {
		return nil
	}
	spans, err := m.cfg.Highlighter.HighlightLine(LineContext{Row: row, Text: line})
	if err != nil {
		return nil
	}
	return normalizeHighlightSpans(spans, len(grapheme.Split(line)))
}

// renderLine renders the visible cells [left, right) of one logical line.
func (m *Model) renderLine(
	row int,
	line string,
	cursor buffer.Pos,
	sel buffer.Range,
	selOK bool,
	spans []HighlightSpan,
	left, right int,
) string {
	st := m.cfg.Style
	clusters := grapheme.Split(line)
	hasCursor := m.focused && row == cursor.Row

	styleFor := func(class int) lipgloss.Style {
		switch class {
		case styleSelection:
			return st.Selection
		case styleCursor:
			return st.Cursor
		case styleText:
			return st.Text
		}
		return spans[class-styleHighlight].Style
	}

	var (
		sb     strings.Builder
		run    strings.Builder
		runCls = -1
		span   = 0
		cell   = 0
	)
	flush := func() {
		if run.Len() > 0 {
			sb.WriteString(styleFor(runCls).Render(run.String()))
			run.Reset()
		}
	}
	emit := func(class int, text string) {
		if class != runCls {
			flush()
			runCls = class
		}
		run.WriteString(text)
	}

	for col, c := range clusters {
		w := grapheme.Width(c)
		if cell >= right {
			break
		}
		start := cell
		cell += w
		if cell <= left {
			continue
		}

		class := styleText
		for span < len(spans) && spans[span].EndCol <= col {
			span++
		}
		if span < len(spans) && spans[span].StartCol <= col {
			class = styleHighlight + span
		}
		if selOK && sel.Contains(buffer.Pos{Row: row, Col: col}) {
			class = styleSelection
		}
		if hasCursor && cursor.Col == col {
			class = styleCursor
		}

		text := c
		if c == "\t" || start < left || cell > right {
			// Tabs and wide clusters cut by the scroll edge render as blanks.
			text = strings.Repeat(" ", min(cell, right)-max(start, left))
		}
		emit(class, text)
	}

	// Cursor at end of line is a one-cell placeholder.
	if hasCursor && cursor.Col >= len(clusters) && cell >= left && cell < right {
		emit(styleCursor, " ")
	}
	flush()
	return sb.String()
}

func (m *Model) contentWidth() int {
	w := m.viewport.Width - m.viewport.Style.GetHorizontalFrameSize()
	if m.cfg.ShowLineNums {
		w -= gutterDigits(m.buf.LineCount()) + 1
	}
	return max(w, 0)
}

func gutterDigits(lines int) int {
	return max(len(strconv.Itoa(lines)), 2)
}
