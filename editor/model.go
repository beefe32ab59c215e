package editor

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/indexconf/buffer"
	"github.com/iw2rmb/indexconf/internal/grapheme"
)

// Model is a Bubble Tea component that renders and edits a buffer.
type Model struct {
	cfg Config
	buf *buffer.Buffer

	focused bool
	saving  bool

	viewport viewport.Model
	xOffset  int

	cleanText   string
	lastVersion uint64
}

func New(cfg Config) Model {
	if cfg.KeyMap.empty() {
		cfg.KeyMap = DefaultKeyMap()
	}
	m := Model{
		cfg:       cfg,
		buf:       buffer.New(cfg.Text, buffer.Options{HistoryLimit: cfg.HistoryLimit}),
		focused:   true,
		viewport:  viewport.New(0, 0),
		cleanText: cfg.Text,
	}
	// The viewport's own key bindings would fight with editing keys.
	m.viewport.KeyMap = viewport.KeyMap{}
	m.lastVersion = m.buf.Version()
	m.rebuildContent()
	return m
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Buffer() *buffer.Buffer { return m.buf }

// Value returns the current document text.
func (m Model) Value() string { return m.buf.Text() }

// SetText replaces the document, drops undo history and marks the new text
// as clean.
func (m Model) SetText(text string) Model {
	m.buf.Reset(text)
	m.cleanText = text
	m.xOffset = 0
	m.viewport.SetYOffset(0)
	m.sync(true)
	return m
}

// Dirty reports whether the document differs from the last clean text.
func (m Model) Dirty() bool { return m.buf.Text() != m.cleanText }

// MarkClean records text as the persisted document.
func (m Model) MarkClean(text string) Model {
	m.cleanText = text
	return m
}

// SetSaving disables the save key while a save is in flight.
func (m Model) SetSaving(saving bool) Model {
	m.saving = saving
	return m
}

func (m Model) Saving() bool { return m.saving }

func (m Model) KeyMap() KeyMap { return m.cfg.KeyMap }

func (m Model) SetSize(width, height int) Model {
	m.viewport.Width = max(width, 0)
	m.viewport.Height = max(height, 0)
	m.sync(true)
	return m
}

func (m Model) Width() int  { return m.viewport.Width }
func (m Model) Height() int { return m.viewport.Height }

func (m Model) Focus() Model {
	if !m.focused {
		m.focused = true
		m.sync(true)
	}
	return m
}

func (m Model) Blur() Model {
	if m.focused {
		m.focused = false
		m.rebuildContent()
	}
	return m
}

func (m Model) Focused() bool { return m.focused }

func (m Model) View() string { return m.viewport.View() }

// sync rebuilds rendered content after buffer changes, keeps the cursor in
// view and fires OnChange once per effective change.
func (m *Model) sync(force bool) {
	ver := m.buf.Version()
	changed := ver != m.lastVersion
	if !changed && !force {
		return
	}
	m.lastVersion = ver

	m.followCursorX()
	m.rebuildContent()
	m.followCursorY()

	if changed && m.cfg.OnChange != nil {
		m.cfg.OnChange(buildChangeEvent(m.buf))
	}
}

func (m *Model) rebuildContent() {
	m.viewport.SetContent(m.renderContent())
}

func (m *Model) followCursorY() {
	h := m.viewport.Height - m.viewport.Style.GetVerticalFrameSize()
	if h <= 0 {
		return
	}
	row := m.buf.Cursor().Row
	switch y := m.viewport.YOffset; {
	case row < y:
		m.viewport.SetYOffset(row)
	case row >= y+h:
		m.viewport.SetYOffset(row - h + 1)
	}
}

func (m *Model) followCursorX() {
	w := m.contentWidth()
	if w <= 0 {
		m.xOffset = 0
		return
	}
	cur := m.buf.Cursor()
	cell := 0
	for i, c := range grapheme.Split(m.buf.Line(cur.Row)) {
		if i >= cur.Col {
			break
		}
		cell += grapheme.Width(c)
	}
	switch {
	case cell < m.xOffset:
		m.xOffset = cell
	case cell >= m.xOffset+w:
		m.xOffset = cell - w + 1
	}
}
