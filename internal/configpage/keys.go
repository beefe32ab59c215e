package configpage

import "github.com/charmbracelet/bubbles/key"

const (
	inferActionID    = "inferConfiguration"
	inferActionLabel = "Infer configuration from HEAD"
)

type keyMap struct {
	Infer key.Binding
	Quit  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Infer: key.NewBinding(key.WithKeys("alt+i", "f2"), key.WithHelp("alt+i", "infer from HEAD")),
		Quit:  key.NewBinding(key.WithKeys("ctrl+c", "ctrl+q"), key.WithHelp("ctrl+q", "quit")),
	}
}

// helpKeys merges page and editor bindings for the help footer.
type helpKeys struct {
	page   keyMap
	editor interface {
		ShortHelp() []key.Binding
		FullHelp() [][]key.Binding
	}
}

func (h helpKeys) ShortHelp() []key.Binding {
	return append(h.editor.ShortHelp(), h.page.Infer, h.page.Quit)
}

func (h helpKeys) FullHelp() [][]key.Binding {
	return append([][]key.Binding{{h.page.Infer, h.page.Quit}}, h.editor.FullHelp()...)
}
