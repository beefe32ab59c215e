package editor

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/indexconf/buffer"
)

type ChangeEvent struct {
	Version     uint64
	TextVersion uint64
	Cursor      buffer.Pos
	Selection   buffer.SelectionState

	// Text is the full document; hosts diff if they need to.
	Text string
}

// SaveRequestMsg is emitted when the user presses the save key.
type SaveRequestMsg struct {
	Content string
}

func buildChangeEvent(b *buffer.Buffer) ChangeEvent {
	ev := ChangeEvent{
		Version:     b.Version(),
		TextVersion: b.TextVersion(),
		Cursor:      b.Cursor(),
		Text:        b.Text(),
	}
	if r, ok := b.Selection(); ok {
		ev.Selection = buffer.SelectionState{Active: true, Range: r}
	}
	return ev
}

func saveRequest(content string) tea.Cmd {
	return func() tea.Msg { return SaveRequestMsg{Content: content} }
}
