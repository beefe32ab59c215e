// Package ui holds the lipgloss styles shared by the terminal pages.
package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme is the host-supplied rendering context. It is passed through to
// page components unchanged.
type Theme struct {
	Light bool
}

func (t Theme) pick(light, dark string) lipgloss.Color {
	if t.Light {
		return lipgloss.Color(light)
	}
	return lipgloss.Color(dark)
}

func (t Theme) Title() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(t.pick("25", "75"))
}

func (t Theme) Muted() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.pick("244", "245"))
}

func (t Theme) Success() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.pick("28", "78"))
}

func (t Theme) Warning() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.pick("130", "214"))
}

func (t Theme) errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.pick("124", "203")).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(t.pick("124", "203")).
		PaddingLeft(1)
}

// Alert renders err as "<prefix>: <message>". Every error is shown the same
// way; there is no transient/permanent distinction.
func (t Theme) Alert(prefix string, err error, width int) string {
	if err == nil {
		return ""
	}
	st := t.errorStyle()
	if width > 2 {
		st = st.Width(width - 1)
	}
	return st.Render(lipgloss.NewStyle().Bold(true).Render(prefix+":") + " " + err.Error())
}

// Header renders a page title with an optional description below it.
func (t Theme) Header(title, description string) string {
	if description == "" {
		return t.Title().Render(title)
	}
	return lipgloss.JoinVertical(lipgloss.Left, t.Title().Render(title), t.Muted().Render(description))
}
