package preview

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/iw2rmb/indexconf/internal/ui"
)

const defaultPageSize = 50

// PageSource loads apply previews page by page.
type PageSource interface {
	QueryApplyPreview(ctx context.Context, batchSpecID string, first int, after string) (Page, error)
}

type ListOptions struct {
	Theme             ui.Theme
	AuthenticatedUser User
	SelectionEnabled  bool
	// OnSelection is notified whenever a node's selection changes.
	OnSelection func(id string, checked bool)
	// Diffs defaults to the source when it also implements DiffQuerier.
	Diffs              DiffQuerier
	ExpandDescriptions bool
	PageSize           int
	Logger             *zap.Logger
}

type pageMsg struct {
	page Page
	err  error
}

type diffsMsg struct {
	id    string
	files []FileDiff
	err   error
}

type listKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Toggle    key.Binding
	SelectAll key.Binding
	Expand    key.Binding
	More      key.Binding
	Quit      key.Binding
}

func defaultListKeyMap() listKeyMap {
	return listKeyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:    key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "select")),
		SelectAll: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "select all")),
		Expand:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "expand")),
		More:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "load more")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k listKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.SelectAll, k.Expand, k.Quit}
}

func (k listKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.More}, {k.Toggle, k.SelectAll, k.Expand, k.Quit}}
}

// ListModel lists the apply preview of one batch spec.
type ListModel struct {
	ctx         context.Context
	src         PageSource
	batchSpecID string
	opt         ListOptions
	log         *zap.Logger

	nodes   []ChangesetApplyPreview
	total   int
	after   string
	hasNext bool
	loading bool
	err     error

	cursor      int
	selected    map[string]bool
	allSelected bool
	expanded    map[string]bool
	diffs       map[string]diffState

	viewport viewport.Model
	spinner  spinner.Model
	help     help.Model
	keys     listKeyMap
	width    int
}

func NewList(ctx context.Context, src PageSource, batchSpecID string, opt ListOptions) ListModel {
	if opt.PageSize <= 0 {
		opt.PageSize = defaultPageSize
	}
	if opt.Diffs == nil {
		if dq, ok := src.(DiffQuerier); ok {
			opt.Diffs = dq
		}
	}
	if opt.Logger == nil {
		opt.Logger = zap.NewNop()
	}
	vp := viewport.New(0, 0)
	vp.KeyMap = viewport.KeyMap{}
	return ListModel{
		ctx:         ctx,
		src:         src,
		batchSpecID: batchSpecID,
		opt:         opt,
		loading:     true,
		log:         opt.Logger.With(zap.String("batch_spec", batchSpecID)),
		selected:    map[string]bool{},
		expanded:    map[string]bool{},
		diffs:       map[string]diffState{},
		viewport:    vp,
		spinner:     spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:        help.New(),
		keys:        defaultListKeyMap(),
	}
}

func (m ListModel) Init() tea.Cmd {
	return tea.Batch(m.fetch(""), m.spinner.Tick)
}

func (m ListModel) Nodes() []ChangesetApplyPreview { return m.nodes }

func (m ListModel) Cursor() int { return m.cursor }

func (m ListModel) Err() error { return m.err }

// Selected returns the selected changeset spec ids in list order. With
// select-all on, every selectable node is included.
func (m ListModel) Selected() []string {
	var out []string
	for _, n := range m.nodes {
		v, ok := n.(VisibleChangesetApplyPreview)
		if !ok || v.Target.ChangesetSpecID == "" {
			continue
		}
		if m.allSelected || m.selected[v.ID()] {
			out = append(out, v.ID())
		}
	}
	return out
}

func (m ListModel) fetch(after string) tea.Cmd {
	ctx, src, id, first := m.ctx, m.src, m.batchSpecID, m.opt.PageSize
	m.log.Debug("querying apply preview", zap.String("after", after))
	return func() tea.Msg {
		page, err := src.QueryApplyPreview(ctx, id, first, after)
		return pageMsg{page: page, err: err}
	}
}

func (m ListModel) props() NodeProps {
	return NodeProps{
		Theme:              m.opt.Theme,
		AuthenticatedUser:  m.opt.AuthenticatedUser,
		Location:           m.batchSpecID,
		SelectionEnabled:   m.opt.SelectionEnabled,
		AllSelected:        m.allSelected,
		IsSelected:         func(id string) bool { return m.selected[id] },
		OnSelection:        m.opt.OnSelection,
		QueryFileDiffs:     m.opt.Diffs,
		ExpandDescriptions: m.opt.ExpandDescriptions,
	}
}

func (m ListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-lipgloss.Height(m.header())-lipgloss.Height(m.footer()), 1)
		return m.refresh(), nil

	case pageMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			m.log.Warn("querying apply preview failed", zap.Error(msg.err))
			return m.refresh(), nil
		}
		m.err = nil
		m.nodes = append(m.nodes, msg.page.Nodes...)
		m.total = msg.page.TotalCount
		m.after = msg.page.EndCursor
		m.hasNext = msg.page.HasNextPage
		return m.refresh(), nil

	case diffsMsg:
		m.diffs[msg.id] = diffState{files: msg.files, err: msg.err}
		return m.refresh(), nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m.refresh(), cmd

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m, nil
}

func (m ListModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.nodes)-1 {
			m.cursor++
		} else if m.hasNext && !m.loading {
			return m.loadMore()
		}
	case key.Matches(msg, m.keys.More):
		if m.hasNext && !m.loading {
			return m.loadMore()
		}
	case key.Matches(msg, m.keys.Toggle):
		m.toggleCurrent()
	case key.Matches(msg, m.keys.SelectAll):
		m.toggleAll()
	case key.Matches(msg, m.keys.Expand):
		var cmd tea.Cmd
		m, cmd = m.toggleExpand()
		return m.refresh(), cmd
	}
	return m.refresh(), nil
}

func (m ListModel) loadMore() (tea.Model, tea.Cmd) {
	m.loading = true
	return m.refresh(), tea.Batch(m.fetch(m.after), m.spinner.Tick)
}

func (m *ListModel) current() (VisibleChangesetApplyPreview, bool) {
	if m.cursor < 0 || m.cursor >= len(m.nodes) {
		return VisibleChangesetApplyPreview{}, false
	}
	v, ok := m.nodes[m.cursor].(VisibleChangesetApplyPreview)
	return v, ok
}

func (m *ListModel) toggleCurrent() {
	if !m.opt.SelectionEnabled {
		return
	}
	v, ok := m.current()
	if !ok || v.Target.ChangesetSpecID == "" {
		return
	}
	id := v.ID()
	checked := !(m.allSelected || m.selected[id])
	if m.allSelected && !checked {
		// Leaving select-all keeps every other node selected.
		for _, sid := range m.Selected() {
			m.selected[sid] = true
		}
		m.allSelected = false
	}
	if checked {
		m.selected[id] = true
	} else {
		delete(m.selected, id)
	}
	m.notify(id, checked)
}

func (m *ListModel) toggleAll() {
	if !m.opt.SelectionEnabled {
		return
	}
	ids := m.Selected()
	m.allSelected = !m.allSelected
	if m.allSelected {
		for _, n := range m.nodes {
			if v, ok := n.(VisibleChangesetApplyPreview); ok && v.Target.ChangesetSpecID != "" && !slices.Contains(ids, v.ID()) {
				m.notify(v.ID(), true)
			}
		}
		return
	}
	clear(m.selected)
	for _, id := range ids {
		m.notify(id, false)
	}
}

func (m *ListModel) notify(id string, checked bool) {
	if m.opt.OnSelection != nil {
		m.opt.OnSelection(id, checked)
	}
}

// toggleExpand expands the current visible node and loads its file diffs
// once. Hidden nodes have nothing to expand.
func (m ListModel) toggleExpand() (ListModel, tea.Cmd) {
	if m.cursor >= len(m.nodes) {
		return m, nil
	}
	r := Dispatch(m.nodes[m.cursor], m.props())
	v, ok := r.Node.(VisibleChangesetApplyPreview)
	if !ok || v.Target.ChangesetSpecID == "" {
		return m, nil
	}
	id := v.Target.ChangesetSpecID
	if m.expanded[id] {
		delete(m.expanded, id)
		return m, nil
	}
	m.expanded[id] = true

	q := r.Props.QueryFileDiffs
	if _, ok := m.diffs[id]; ok || q == nil {
		return m, nil
	}
	m.diffs[id] = diffState{loading: true}
	ctx := m.ctx
	return m, func() tea.Msg {
		files, err := q.QueryFileDiffs(ctx, id)
		return diffsMsg{id: id, files: files, err: err}
	}
}

// refresh re-renders the list into the viewport and keeps the current node
// in view.
func (m ListModel) refresh() ListModel {
	var sb strings.Builder
	top, bottom := 0, 0
	line := 0
	for i, n := range m.nodes {
		props := m.props()
		var diffs *diffState
		if v, ok := n.(VisibleChangesetApplyPreview); ok && m.expanded[v.Target.ChangesetSpecID] {
			props.ExpandDescriptions = true
			if d, ok := m.diffs[v.Target.ChangesetSpecID]; ok {
				diffs = &d
			}
		}
		block := renderNode(n, props, m.width, diffs, i == m.cursor)
		h := lipgloss.Height(block)
		if i == m.cursor {
			top, bottom = line, line+h
		}
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(block)
		line += h
	}
	m.viewport.SetContent(sb.String())

	if h := m.viewport.Height; h > 0 {
		switch {
		case top < m.viewport.YOffset:
			m.viewport.SetYOffset(top)
		case bottom > m.viewport.YOffset+h:
			m.viewport.SetYOffset(bottom - h)
		}
	}
	return m
}

func (m ListModel) header() string {
	t := m.opt.Theme
	title := "Preview"
	if m.total > 0 {
		title = fmt.Sprintf("Preview: %d changesets", m.total)
	}
	desc := "Showing " + fmt.Sprint(len(m.nodes))
	if m.opt.SelectionEnabled {
		desc += fmt.Sprintf(", %d selected", len(m.Selected()))
	}
	return t.Header(title, desc)
}

func (m ListModel) footer() string {
	var status string
	switch {
	case m.loading:
		status = m.spinner.View() + " Loading..."
	case m.hasNext:
		status = m.opt.Theme.Muted().Render("More changesets available")
	}
	return status + "\n" + m.help.View(m.keys)
}

func (m ListModel) View() string {
	if m.err != nil && len(m.nodes) == 0 {
		return m.opt.Theme.Alert("Error loading apply preview", m.err, m.width)
	}
	parts := []string{m.header(), m.viewport.View(), m.footer()}
	if m.err != nil {
		parts = append(parts, m.opt.Theme.Alert("Error loading apply preview", m.err, m.width))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
