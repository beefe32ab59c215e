// Package grapheme wraps uniseg and go-runewidth for the cluster-level text
// handling shared by the buffer and the editor renderer.
package grapheme

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// TabWidth is the number of cells a tab expands to when rendered.
const TabWidth = 4

// Split returns the grapheme clusters of text in order.
func Split(text string) []string {
	if text == "" {
		return nil
	}
	g := uniseg.NewGraphemes(text)
	out := make([]string, 0, len(text))
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

// Join concatenates clusters into a single string.
func Join(clusters []string) string {
	switch len(clusters) {
	case 0:
		return ""
	case 1:
		return clusters[0]
	}
	var sb strings.Builder
	for _, c := range clusters {
		sb.WriteString(c)
	}
	return sb.String()
}

// Width returns the terminal cell width of a single cluster. Tabs count as
// TabWidth; zero-width clusters count as one cell so the cursor stays
// visible on them.
func Width(cluster string) int {
	if cluster == "\t" {
		return TabWidth
	}
	w := runewidth.StringWidth(cluster)
	if w <= 0 {
		return 1
	}
	return w
}

// IsSpace reports whether all runes in cluster are Unicode whitespace.
func IsSpace(cluster string) bool {
	return cluster != "" && strings.IndexFunc(cluster, func(r rune) bool { return !unicode.IsSpace(r) }) < 0
}

// IsPunct reports whether all runes in cluster are punctuation or symbols.
func IsPunct(cluster string) bool {
	return cluster != "" && strings.IndexFunc(cluster, func(r rune) bool {
		return !unicode.IsPunct(r) && !unicode.IsSymbol(r)
	}) < 0
}
