package editor

// Config configures the editor Model.
type Config struct {
	// Initial text for the internal buffer.
	Text string

	// Rendering options.
	ShowLineNums bool
	Style        Style
	Highlighter  Highlighter

	// KeyMap defaults to DefaultKeyMap when left empty.
	KeyMap KeyMap

	// ReadOnly ignores every mutating key, action and save request.
	ReadOnly bool

	// Actions are named commands bound to keys or run through ActionMsg.
	Actions []Action

	// OnChange is called after any effective buffer change handled by Update.
	OnChange func(ChangeEvent)

	// Forwarded to buffer.Options.
	HistoryLimit int
}
