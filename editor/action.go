package editor

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/iw2rmb/indexconf/buffer"
)

// Action is a named editor command.
//
// Run receives the current document text and returns the edits to apply.
// The edits are applied as a single undoable step; returning nil leaves the
// document untouched.
type Action struct {
	ID    string
	Label string
	Keys  key.Binding
	Run   func(content string) []buffer.TextEdit
}

// ActionMsg asks the editor to run the action with the given ID.
type ActionMsg struct {
	ID string
}

// ReplaceAllEdit returns the edit that replaces the whole of content with
// text.
func ReplaceAllEdit(content, text string) buffer.TextEdit {
	b := buffer.New(content, buffer.Options{HistoryLimit: -1})
	return buffer.TextEdit{Range: b.FullRange(), Text: text}
}

func (m Model) action(id string) (Action, bool) {
	for _, a := range m.cfg.Actions {
		if a.ID == id {
			return a, true
		}
	}
	return Action{}, false
}

// RunAction runs the action with the given ID. It reports false when no
// such action exists or the editor is read-only.
func (m Model) RunAction(id string) (Model, bool) {
	a, ok := m.action(id)
	if !ok || m.cfg.ReadOnly || m.buf == nil || a.Run == nil {
		return m, false
	}
	if edits := a.Run(m.buf.Text()); len(edits) > 0 {
		m.buf.Apply(edits...)
	}
	m.sync(true)
	return m, true
}

// Actions returns the configured actions.
func (m Model) Actions() []Action {
	return append([]Action(nil), m.cfg.Actions...)
}
