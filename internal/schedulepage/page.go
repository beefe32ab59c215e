// Package schedulepage is the index schedule configuration page. It has no
// content yet.
package schedulepage

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/indexconf/internal/telemetry"
	"github.com/iw2rmb/indexconf/internal/ui"
)

const ViewEventName = "CodeIntelIndexScheduleConfigurationPage"

type Model struct {
	repoID    string
	theme     ui.Theme
	telemetry telemetry.Service
	quit      key.Binding
}

func New(repoID string, theme ui.Theme, svc telemetry.Service) Model {
	if svc == nil {
		svc = telemetry.NoOp{}
	}
	return Model{
		repoID:    repoID,
		theme:     theme,
		telemetry: svc,
		quit:      key.NewBinding(key.WithKeys("q", "ctrl+c", "esc")),
	}
}

func (m Model) RepoID() string { return m.repoID }

func (m Model) Init() tea.Cmd {
	m.telemetry.LogViewEvent(ViewEventName)
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && key.Matches(k, m.quit) {
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) View() string {
	return m.theme.Title().Render("Empty") + "\n"
}
