// Package highlight colors JSON and JSONC documents for the editor using
// chroma's lexer and style registry.
package highlight

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"

	"github.com/iw2rmb/indexconf/editor"
	"github.com/iw2rmb/indexconf/internal/grapheme"
)

const (
	lightStyle = "github"
	darkStyle  = "monokai"
)

// JSON highlights one line at a time. Multi-line block comments are not
// tracked across lines.
type JSON struct {
	lexer  chroma.Lexer
	style  *chroma.Style
	styles map[chroma.TokenType]lipgloss.Style
}

var _ editor.Highlighter = (*JSON)(nil)

// NewJSON returns a highlighter using a light or dark chroma style.
func NewJSON(light bool) *JSON {
	name := darkStyle
	if light {
		name = lightStyle
	}
	lexer := lexers.Get("json")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	return &JSON{
		lexer:  chroma.Coalesce(lexer),
		style:  styles.Get(name),
		styles: make(map[chroma.TokenType]lipgloss.Style),
	}
}

func (h *JSON) HighlightLine(ctx editor.LineContext) ([]editor.HighlightSpan, error) {
	if ctx.Text == "" {
		return nil, nil
	}
	it, err := h.lexer.Tokenise(nil, ctx.Text)
	if err != nil {
		return nil, err
	}

	// Lexers may append a trailing newline token; clip to the line.
	lineLen := len(grapheme.Split(ctx.Text))
	var spans []editor.HighlightSpan
	col := 0
	for tok := it(); tok != chroma.EOF && col < lineLen; tok = it() {
		n := len(grapheme.Split(tok.Value))
		if n == 0 {
			continue
		}
		if st, ok := h.lipglossStyle(tok.Type); ok {
			spans = append(spans, editor.HighlightSpan{StartCol: col, EndCol: min(col+n, lineLen), Style: st})
		}
		col += n
	}
	return spans, nil
}

func (h *JSON) lipglossStyle(tt chroma.TokenType) (lipgloss.Style, bool) {
	if tt == chroma.Text || tt == chroma.TextWhitespace {
		return lipgloss.Style{}, false
	}
	if st, ok := h.styles[tt]; ok {
		return st, true
	}
	entry := h.style.Get(tt)
	if !entry.Colour.IsSet() && entry.Bold != chroma.Yes && entry.Italic != chroma.Yes {
		return lipgloss.Style{}, false
	}
	st := lipgloss.NewStyle()
	if entry.Colour.IsSet() {
		st = st.Foreground(lipgloss.Color(entry.Colour.String()))
	}
	if entry.Bold == chroma.Yes {
		st = st.Bold(true)
	}
	if entry.Italic == chroma.Yes {
		st = st.Italic(true)
	}
	h.styles[tt] = st
	return st, true
}
