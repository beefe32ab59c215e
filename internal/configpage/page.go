package configpage

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/iw2rmb/indexconf/editor"
	"github.com/iw2rmb/indexconf/internal/highlight"
	"github.com/iw2rmb/indexconf/internal/indexconfig"
	"github.com/iw2rmb/indexconf/internal/telemetry"
	"github.com/iw2rmb/indexconf/internal/ui"
)

const (
	pageTitle        = "Precise code intelligence index configuration"
	pageDescription  = "Override the inferred configuration when automatically indexing repositories."
	fetchErrorPrefix = "Error fetching index configuration"
	saveErrorPrefix  = "Error saving index configuration"

	// ViewEventName is logged through telemetry when the page starts.
	ViewEventName = "CodeIntelIndexConfigurationPage"

	maxProblems = 3
)

type Options struct {
	Theme     ui.Theme
	Telemetry telemetry.Service
}

// Model is the index configuration page.
type Model struct {
	ctrl      *Controller
	editor    editor.Model
	spinner   spinner.Model
	help      help.Model
	keys      keyMap
	theme     ui.Theme
	telemetry telemetry.Service

	width, height int

	problems  []indexconfig.Problem
	validated uint64
	saved     bool
	quitting  bool
}

func New(ctrl *Controller, opt Options) Model {
	if opt.Telemetry == nil {
		opt.Telemetry = telemetry.NoOp{}
	}
	keys := defaultKeyMap()
	return Model{
		ctrl: ctrl,
		editor: editor.New(editor.Config{
			ShowLineNums: true,
			Style:        editor.DefaultStyle(),
			Highlighter:  highlight.NewJSON(opt.Theme.Light),
			Actions: []editor.Action{{
				ID:    inferActionID,
				Label: inferActionLabel,
				Keys:  keys.Infer,
				Run:   ctrl.InferFromHead,
			}},
		}),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:      help.New(),
		keys:      keys,
		theme:     opt.Theme,
		telemetry: opt.Telemetry,
	}
}

func (m Model) Controller() *Controller { return m.ctrl }

func (m Model) Editor() editor.Model { return m.editor }

func (m Model) Problems() []indexconfig.Problem { return m.problems }

func (m Model) Init() tea.Cmd {
	m.telemetry.LogViewEvent(ViewEventName)
	return tea.Batch(m.ctrl.Load(), m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m.layout(), nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			if m.ctrl.State() == Saving {
				m.quitting = true
				return m.layout(), nil
			}
			m.ctrl.Close()
			return m, tea.Quit
		}
		if m.quitting {
			return m, nil
		}
		if m.ctrl.Phase() != Ready {
			return m, nil
		}
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m.afterEdit(), cmd

	case editor.SaveRequestMsg:
		cmd := m.ctrl.Save(msg.Content)
		if cmd == nil {
			return m, nil
		}
		m.saved = false
		m.editor = m.editor.SetSaving(true)
		return m.layout(), tea.Batch(cmd, m.spinner.Tick)

	case loadedMsg:
		m.ctrl.Update(msg)
		if m.ctrl.Phase() == Ready {
			m.editor = m.editor.SetText(m.ctrl.Configuration())
			m = m.revalidate()
		}
		return m.layout(), nil

	case savedMsg:
		current := msg.gen == m.ctrl.gen
		m.ctrl.Update(msg)
		m.editor = m.editor.SetSaving(false)
		if current && msg.err == nil {
			m.editor = m.editor.MarkClean(msg.content)
			m.saved = !m.editor.Dirty()
		}
		if m.quitting {
			m.ctrl.Close()
			return m, tea.Quit
		}
		return m.layout(), nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m.afterEdit(), cmd
}

func (m Model) busy() bool {
	return m.ctrl.Phase() == Loading || m.ctrl.State() == Saving
}

func (m Model) afterEdit() Model {
	if m.editor.Buffer().TextVersion() != m.validated {
		m = m.revalidate()
		m.ctrl.Edit(m.editor.Value())
		m.saved = m.saved && !m.editor.Dirty()
	}
	return m.layout()
}

func (m Model) revalidate() Model {
	m.problems = indexconfig.Validate(m.editor.Value())
	m.validated = m.editor.Buffer().TextVersion()
	return m
}

func (m Model) layout() Model {
	top, bottom := m.chrome()
	h := m.height - lipgloss.Height(top) - lipgloss.Height(bottom)
	m.editor = m.editor.SetSize(m.width, max(h, 1))
	return m
}

func (m Model) View() string {
	if err := m.ctrl.FetchErr(); err != nil {
		return m.theme.Alert(fetchErrorPrefix, err, m.width)
	}
	if m.ctrl.Phase() == Loading {
		return m.spinner.View() + " Loading index configuration..."
	}
	top, bottom := m.chrome()
	return lipgloss.JoinVertical(lipgloss.Left, top, m.editor.View(), bottom)
}

// chrome renders everything around the editor.
func (m Model) chrome() (top, bottom string) {
	topParts := []string{m.theme.Header(pageTitle, pageDescription), ""}
	if err := m.ctrl.SaveErr(); err != nil {
		topParts = append(topParts, m.theme.Alert(saveErrorPrefix, err, m.width))
	}

	var bottomParts []string
	for i, p := range m.problems {
		if i == maxProblems {
			bottomParts = append(bottomParts, m.theme.Warning().Render(fmt.Sprintf("  +%d more", len(m.problems)-maxProblems)))
			break
		}
		bottomParts = append(bottomParts, m.theme.Warning().Render("⚠ "+p.String()))
	}
	bottomParts = append(bottomParts, m.status(), m.help.View(helpKeys{page: m.keys, editor: m.editor.KeyMap()}))

	return strings.Join(topParts, "\n"), strings.Join(bottomParts, "\n")
}

func (m Model) status() string {
	parts := []string{m.theme.Muted().Render("repository " + m.ctrl.RepoID())}
	switch {
	case m.quitting:
		parts = append(parts, m.spinner.View()+" Saving before quit...")
	case m.ctrl.State() == Saving:
		parts = append(parts, m.spinner.View()+" Saving...")
	case m.editor.Dirty():
		parts = append(parts, m.theme.Warning().Render("Modified"))
	case m.saved:
		parts = append(parts, m.theme.Success().Render("Saved"))
	}
	return strings.Join(parts, "  ")
}
