// Package configpage implements the index configuration page: a controller
// that owns the fetch, edit and save cycle for one repository, and the
// Bubble Tea model that renders it around the editor.
package configpage

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/iw2rmb/indexconf/buffer"
	"github.com/iw2rmb/indexconf/editor"
	"github.com/iw2rmb/indexconf/internal/indexconfig"
)

// EditorState tracks whether a save is in flight.
type EditorState uint8

const (
	Idle EditorState = iota
	Saving
)

func (s EditorState) String() string {
	if s == Saving {
		return "saving"
	}
	return "idle"
}

// Phase is the load lifecycle of one mount.
type Phase uint8

const (
	Loading Phase = iota
	Ready
	// Failed is terminal for the mount: the editor is never shown.
	Failed
)

func (p Phase) String() string {
	switch p {
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	}
	return "loading"
}

type loadedMsg struct {
	gen uint64
	doc indexconfig.Document
	err error
}

type savedMsg struct {
	gen     uint64
	content string
	err     error
}

// Controller owns the configuration document of a single repository.
//
// Loads are scoped to the controller: Close, or switching repository,
// cancels the request in flight and completions from an older generation
// are dropped. Saves are not cancellable; at most one is in flight.
type Controller struct {
	store indexconfig.Store
	log   *zap.Logger

	parent context.Context
	ctx    context.Context
	cancel context.CancelFunc
	gen    uint64
	closed bool

	repoID        string
	phase         Phase
	state         EditorState
	configuration string
	persisted     string
	inferred      string
	fetchErr      error
	saveErr       error
}

func NewController(ctx context.Context, store indexconfig.Store, repoID string, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Controller{store: store, log: log, parent: ctx, repoID: repoID}
	c.ctx, c.cancel = context.WithCancel(ctx)
	return c
}

func (c *Controller) RepoID() string        { return c.repoID }
func (c *Controller) Phase() Phase          { return c.phase }
func (c *Controller) State() EditorState    { return c.state }
func (c *Controller) Inferred() string      { return c.inferred }
func (c *Controller) FetchErr() error       { return c.fetchErr }
func (c *Controller) SaveErr() error        { return c.saveErr }

// Configuration is the current content of the editor buffer.
func (c *Controller) Configuration() string { return c.configuration }

// Persisted is the content last loaded from or saved to the store.
func (c *Controller) Persisted() string { return c.persisted }

// Edit records the editor buffer content. It is ignored until the
// configuration has loaded.
func (c *Controller) Edit(content string) {
	if c.closed || c.phase != Ready {
		return
	}
	c.configuration = content
}

// Load issues the read for the current repository. Completion arrives as a
// message to pass to Update.
func (c *Controller) Load() tea.Cmd {
	if c.closed {
		return nil
	}
	c.gen++
	gen, ctx, repoID := c.gen, c.ctx, c.repoID
	c.phase = Loading
	c.fetchErr = nil
	c.log.Debug("loading index configuration", zap.String("repo", repoID), zap.Uint64("gen", gen))

	return func() tea.Msg {
		doc, err := c.store.GetConfiguration(ctx, repoID)
		return loadedMsg{gen: gen, doc: doc, err: err}
	}
}

// SetRepository switches to another repository, cancelling any load in
// flight, and returns the command loading the new one.
func (c *Controller) SetRepository(repoID string) tea.Cmd {
	if c.closed || repoID == c.repoID {
		return nil
	}
	c.cancel()
	c.ctx, c.cancel = context.WithCancel(c.parent)
	c.repoID = repoID
	c.configuration, c.persisted, c.inferred = "", "", ""
	c.saveErr = nil
	return c.Load()
}

// Save persists content. It returns nil without doing anything while the
// configuration is not loaded or another save is in flight.
func (c *Controller) Save(content string) tea.Cmd {
	if c.closed || c.phase != Ready || c.state == Saving {
		return nil
	}
	c.state = Saving
	c.saveErr = nil
	c.configuration = content
	gen, repoID := c.gen, c.repoID
	// Saves are not cancellable, not even by Close.
	ctx := context.WithoutCancel(c.ctx)
	c.log.Info("saving index configuration", zap.String("repo", repoID), zap.Int("bytes", len(content)))

	return func() tea.Msg {
		err := c.store.UpdateConfiguration(ctx, repoID, content)
		return savedMsg{gen: gen, content: content, err: err}
	}
}

// InferFromHead returns the edit replacing all of content with the inferred
// configuration.
func (c *Controller) InferFromHead(content string) []buffer.TextEdit {
	return []buffer.TextEdit{editor.ReplaceAllEdit(content, c.inferred)}
}

// Update applies a controller message and reports whether msg was one.
func (c *Controller) Update(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case loadedMsg:
		if c.closed || msg.gen != c.gen {
			return true
		}
		if msg.err != nil {
			c.phase = Failed
			c.fetchErr = msg.err
			c.log.Warn("loading index configuration failed", zap.String("repo", c.repoID), zap.Error(msg.err))
			return true
		}
		c.phase = Ready
		c.configuration = msg.doc.Stored
		c.persisted = msg.doc.Stored
		c.inferred = msg.doc.Inferred
		return true

	case savedMsg:
		if c.closed {
			return true
		}
		c.state = Idle
		if msg.gen != c.gen {
			return true
		}
		if msg.err != nil {
			c.saveErr = msg.err
			c.log.Warn("saving index configuration failed", zap.String("repo", c.repoID), zap.Error(msg.err))
			return true
		}
		c.persisted = msg.content
		return true
	}
	return false
}

// Close cancels any load in flight. Later completions are ignored.
func (c *Controller) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.gen++
	c.cancel()
}
