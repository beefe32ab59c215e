package configpage

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/iw2rmb/indexconf/editor"
	"github.com/iw2rmb/indexconf/internal/telemetry"
)

func step(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	pm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return pm, cmd
}

// drain runs cmd and flattens batches into the messages they produce.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func find[T any](msgs []tea.Msg) (T, bool) {
	for _, msg := range msgs {
		if v, ok := msg.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

func newLoadedPage(t *testing.T, store *fakeStore) (Model, *telemetry.Recorder) {
	t.Helper()
	rec := &telemetry.Recorder{}
	m := New(NewController(context.Background(), store, "42", nil), Options{Telemetry: rec})

	loaded, ok := find[loadedMsg](drain(m.Init()))
	if !ok {
		t.Fatalf("Init did not issue a load")
	}
	m, _ = step(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	m, _ = step(t, m, loaded)
	return m, rec
}

func TestPage_InitLogsViewEvent(t *testing.T) {
	_, rec := newLoadedPage(t, newFakeStore())
	events := rec.Events()
	if len(events) != 1 || events[0] != ViewEventName {
		t.Fatalf("events=%v, want [%s]", events, ViewEventName)
	}
}

func TestPage_ShowsLoadedConfiguration(t *testing.T) {
	m, _ := newLoadedPage(t, newFakeStore())

	if got := m.Editor().Value(); got != "{}" {
		t.Fatalf("editor value=%q, want %q", got, "{}")
	}
	view := m.View()
	for _, want := range []string{pageTitle, pageDescription, "repository 42"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}
	if m.Editor().Dirty() {
		t.Fatalf("editor dirty right after load")
	}
}

func TestPage_LoadingView(t *testing.T) {
	m := New(NewController(context.Background(), newFakeStore(), "42", nil), Options{})
	_ = m.Init()
	if view := m.View(); !strings.Contains(view, "Loading index configuration") {
		t.Fatalf("view=%q, want loading indicator", view)
	}
	// Keys are ignored until the configuration arrives.
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if m.Editor().Value() != "" {
		t.Fatalf("editor accepted input while loading")
	}
}

func TestPage_FetchErrorReplacesEditor(t *testing.T) {
	store := newFakeStore()
	store.getErr = errors.New("repository not found")
	m := New(NewController(context.Background(), store, "42", nil), Options{})

	loaded, _ := find[loadedMsg](drain(m.Init()))
	m, _ = step(t, m, loaded)

	view := m.View()
	if !strings.Contains(view, fetchErrorPrefix+": repository not found") {
		t.Fatalf("view=%q, want fetch error alert", view)
	}
	if strings.Contains(view, pageTitle) {
		t.Fatalf("view still renders the page header:\n%s", view)
	}
}

func TestPage_SaveRoundTrip(t *testing.T) {
	store := newFakeStore()
	m, _ := newLoadedPage(t, store)

	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyDelete})
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyDelete})
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(`{"x":1}`), Paste: true})
	if !m.Editor().Dirty() {
		t.Fatalf("editor not dirty after typing")
	}

	_, cmd := step(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	req, ok := find[editor.SaveRequestMsg](drain(cmd))
	if !ok {
		t.Fatalf("ctrl+s did not request a save")
	}
	if req.Content != `{"x":1}` {
		t.Fatalf("save content=%q, want %q", req.Content, `{"x":1}`)
	}

	m, cmd = step(t, m, req)
	if m.Controller().State() != Saving || !m.Editor().Saving() {
		t.Fatalf("state=%v editor saving=%v, want saving", m.Controller().State(), m.Editor().Saving())
	}
	if !strings.Contains(m.View(), "Saving...") {
		t.Fatalf("view missing saving status")
	}
	saved, ok := find[savedMsg](drain(cmd))
	if !ok {
		t.Fatalf("save request did not issue a save")
	}

	m, _ = step(t, m, saved)
	if m.Controller().State() != Idle || m.Editor().Saving() {
		t.Fatalf("still saving after completion")
	}
	if m.Editor().Dirty() {
		t.Fatalf("editor dirty after successful save")
	}
	if !strings.Contains(m.View(), "Saved") {
		t.Fatalf("view missing saved status:\n%s", m.View())
	}
}

func TestPage_SaveErrorShownAboveEditor(t *testing.T) {
	store := newFakeStore()
	store.updateErr = errors.New("unauthorized")
	m, _ := newLoadedPage(t, store)

	m, cmd := step(t, m, editor.SaveRequestMsg{Content: "{}"})
	saved, _ := find[savedMsg](drain(cmd))
	m, _ = step(t, m, saved)

	view := m.View()
	if !strings.Contains(view, saveErrorPrefix+": unauthorized") {
		t.Fatalf("view missing save error:\n%s", view)
	}
	if m.Editor().Value() != "{}" {
		t.Fatalf("editor content changed after failed save")
	}
}

func TestPage_InferKeyReplacesContent(t *testing.T) {
	m, _ := newLoadedPage(t, newFakeStore())

	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("i"), Alt: true})
	if got, want := m.Editor().Value(), `{"indexer":"auto"}`; got != want {
		t.Fatalf("editor value=%q, want %q", got, want)
	}
	if !m.Editor().Dirty() {
		t.Fatalf("inferred content should be unsaved")
	}
}

func TestPage_ValidationProblems(t *testing.T) {
	m, _ := newLoadedPage(t, newFakeStore())
	if len(m.Problems()) != 0 {
		t.Fatalf("problems=%v, want none for {}", m.Problems())
	}

	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(`{"index_jobs":[{}]`), Paste: true})
	if len(m.Problems()) == 0 {
		t.Fatalf("expected problems for invalid JSON")
	}
	if !strings.Contains(m.View(), m.Problems()[0].String()) {
		t.Fatalf("view does not list the first problem")
	}
}

func TestPage_QuitClosesController(t *testing.T) {
	m, _ := newLoadedPage(t, newFakeStore())

	m, cmd := step(t, m, tea.KeyMsg{Type: tea.KeyCtrlQ})
	if _, ok := find[tea.QuitMsg](drain(cmd)); !ok {
		t.Fatalf("quit key did not quit")
	}
	if m.Controller().Load() != nil {
		t.Fatalf("controller still active after quit")
	}
}

func TestPage_EditsReachController(t *testing.T) {
	m, _ := newLoadedPage(t, newFakeStore())

	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyDelete})
	if got := m.Controller().Configuration(); got != "}" {
		t.Fatalf("configuration=%q, want %q", got, "}")
	}
	if got := m.Controller().Persisted(); got != "{}" {
		t.Fatalf("persisted=%q, want %q", got, "{}")
	}
}

func TestPage_QuitWaitsForSave(t *testing.T) {
	store := newFakeStore()
	m, _ := newLoadedPage(t, store)

	m, cmd := step(t, m, editor.SaveRequestMsg{Content: `{"x":1}`})
	saved, ok := find[savedMsg](drain(cmd))
	if !ok {
		t.Fatalf("save request did not issue a save")
	}

	m, cmd = step(t, m, tea.KeyMsg{Type: tea.KeyCtrlQ})
	if _, ok := find[tea.QuitMsg](drain(cmd)); ok {
		t.Fatalf("quit while saving")
	}
	if m.Controller().State() != Saving {
		t.Fatalf("state=%v, want %v", m.Controller().State(), Saving)
	}
	if !strings.Contains(m.View(), "Saving before quit...") {
		t.Fatalf("view missing pending quit status:\n%s", m.View())
	}

	// Edits are dropped once a quit is pending.
	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyDelete})
	if got := m.Editor().Value(); got != "{}" {
		t.Fatalf("editor value=%q, want %q", got, "{}")
	}

	m, cmd = step(t, m, saved)
	if _, ok := find[tea.QuitMsg](drain(cmd)); !ok {
		t.Fatalf("save completion did not quit")
	}
	if got := store.Updates(); len(got) != 1 || got[0].content != `{"x":1}` {
		t.Fatalf("updates=%v, want one save of %q", got, `{"x":1}`)
	}
	if m.Controller().Persisted() != `{"x":1}` {
		t.Fatalf("persisted=%q, want saved content", m.Controller().Persisted())
	}
}
