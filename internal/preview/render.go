package preview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/iw2rmb/indexconf/internal/ui"
)

const collapsedBodyLines = 1

// RenderNode renders a separator followed by the variant view for node.
// width bounds the separator; zero renders a short one.
func RenderNode(node ChangesetApplyPreview, props NodeProps, width int) string {
	return renderNode(node, props, width, nil, false)
}

func renderNode(node ChangesetApplyPreview, props NodeProps, width int, diffs *diffState, current bool) string {
	r := Dispatch(node, props)
	var body string
	switch n := r.Node.(type) {
	case HiddenChangesetApplyPreview:
		body = renderHidden(n)
	case VisibleChangesetApplyPreview:
		body = renderVisible(n, r.Props, diffs)
	}
	return separator(props.Theme, width, current) + "\n" + body
}

func separator(t ui.Theme, width int, current bool) string {
	if width <= 0 {
		width = 40
	}
	if current {
		return t.Title().Render("▶" + strings.Repeat("─", width-1))
	}
	return t.Muted().Render(strings.Repeat("─", width))
}

func operationsLabel(ops []Operation) string {
	if len(ops) == 0 {
		return "NO ACTION"
	}
	parts := make([]string, len(ops))
	for i, op := range ops {
		parts[i] = strings.ReplaceAll(string(op), "_", " ")
	}
	return strings.Join(parts, ", ")
}

// renderHidden only knows about the record itself.
func renderHidden(n HiddenChangesetApplyPreview) string {
	muted := lipgloss.NewStyle().Faint(true)
	lines := []string{
		"    " + lipgloss.NewStyle().Bold(true).Render(operationsLabel(n.Operations)) + "  " + strings.ToLower(n.Target.Kind),
		"    " + muted.Render("Changeset in a private repository"),
		"    " + muted.Render("You do not have permission to view this changeset."),
	}
	return strings.Join(lines, "\n")
}

func renderVisible(n VisibleChangesetApplyPreview, p NodeProps, diffs *diffState) string {
	t := p.Theme
	checkbox := "   "
	if p.SelectionEnabled && n.Target.ChangesetSpecID != "" {
		checked := p.AllSelected || (p.IsSelected != nil && p.IsSelected(n.ID()))
		checkbox = "[ ]"
		if checked {
			checkbox = "[x]"
		}
	}

	head := checkbox + " " + lipgloss.NewStyle().Bold(true).Render(operationsLabel(n.Operations))
	if n.Title != "" {
		head += "  " + t.Title().Render(n.Title)
	}
	lines := []string{head}

	where := n.Repository
	if n.BaseRef != "" {
		where += " " + n.BaseRef
		if n.HeadRef != "" {
			where += " ← " + n.HeadRef
		}
	}
	if where != "" {
		lines = append(lines, "    "+t.Muted().Render(where))
	}
	if changed := n.Delta.Changed(); len(changed) > 0 {
		lines = append(lines, "    "+t.Warning().Render("changed: "+strings.Join(changed, ", ")))
	}
	if n.Published != "" {
		lines = append(lines, "    "+t.Muted().Render("published: "+n.Published))
	}

	if body := strings.TrimSpace(n.Body); body != "" {
		bodyLines := strings.Split(body, "\n")
		if !p.ExpandDescriptions && len(bodyLines) > collapsedBodyLines {
			bodyLines = append(bodyLines[:collapsedBodyLines:collapsedBodyLines], "…")
		}
		for _, l := range bodyLines {
			lines = append(lines, "    "+l)
		}
	}

	if diffs != nil {
		lines = append(lines, diffs.render(t)...)
	}
	return strings.Join(lines, "\n")
}

// diffState is the lazily loaded file diff summary of an expanded node.
type diffState struct {
	loading bool
	files   []FileDiff
	err     error
}

func (d *diffState) render(t ui.Theme) []string {
	switch {
	case d.loading:
		return []string{"    " + t.Muted().Render("Loading file diffs...")}
	case d.err != nil:
		return []string{"    " + t.Alert("Error loading file diffs", d.err, 0)}
	case len(d.files) == 0:
		return []string{"    " + t.Muted().Render("No file changes")}
	}
	out := make([]string, 0, len(d.files))
	for _, f := range d.files {
		out = append(out, fmt.Sprintf("      %s %s %s",
			t.Success().Render(fmt.Sprintf("+%d", f.Added)),
			t.Warning().Render(fmt.Sprintf("-%d", f.Deleted)),
			f.Path()))
	}
	return out
}
