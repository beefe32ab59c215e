package preview

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/iw2rmb/indexconf/internal/ui"
)

func fullProps(t *testing.T) (NodeProps, *[]string, *int) {
	t.Helper()
	var selections []string
	diffCalls := 0
	return NodeProps{
		Theme:             ui.Theme{Light: true},
		AuthenticatedUser: User{Username: "alice", DisplayName: "Alice", URL: "/users/alice"},
		Location:          "/batch-changes/preview/1",
		SelectionEnabled:  true,
		AllSelected:       true,
		OnSelection: func(id string, checked bool) {
			selections = append(selections, id)
		},
		QueryFileDiffs: DiffQuerierFunc(func(context.Context, string) ([]FileDiff, error) {
			diffCalls++
			return nil, nil
		}),
		ExpandDescriptions: true,
	}, &selections, &diffCalls
}

func TestDispatch_HiddenGetsNoProps(t *testing.T) {
	props, _, _ := fullProps(t)
	node := HiddenChangesetApplyPreview{
		Operations: []Operation{OperationPush},
		Target:     Target{Kind: "Attach", ChangesetSpecID: "spec-1"},
	}

	r := Dispatch(node, props)

	if r.Variant != VariantHidden {
		t.Fatalf("variant=%v, want %v", r.Variant, VariantHidden)
	}
	if diff := cmp.Diff(ChangesetApplyPreview(node), r.Node); diff != "" {
		t.Fatalf("node mismatch (-want +got):\n%s", diff)
	}
	p := r.Props
	if p.SelectionEnabled || p.AllSelected || p.OnSelection != nil || p.QueryFileDiffs != nil ||
		p.IsSelected != nil || p.ExpandDescriptions || p.AuthenticatedUser != (User{}) || p.Location != "" {
		t.Fatalf("hidden variant received props: %+v", p)
	}
}

func TestDispatch_VisibleForwardsEveryProp(t *testing.T) {
	props, selections, diffCalls := fullProps(t)
	node := VisibleChangesetApplyPreview{
		Operations: []Operation{OperationPublish},
		Target:     Target{Kind: "Attach", ChangesetSpecID: "spec-2"},
		Title:      "Fix lint",
	}

	r := Dispatch(node, props)

	if r.Variant != VariantVisible {
		t.Fatalf("variant=%v, want %v", r.Variant, VariantVisible)
	}
	if diff := cmp.Diff(ChangesetApplyPreview(node), r.Node); diff != "" {
		t.Fatalf("node mismatch (-want +got):\n%s", diff)
	}
	got := r.Props
	if got.Theme != props.Theme || got.AuthenticatedUser != props.AuthenticatedUser || got.Location != props.Location {
		t.Fatalf("context props not forwarded: %+v", got)
	}
	if !got.SelectionEnabled || !got.AllSelected || !got.ExpandDescriptions {
		t.Fatalf("flags not forwarded: %+v", got)
	}

	// Callbacks are forwarded as the same functions.
	got.OnSelection("spec-2", true)
	if diff := cmp.Diff([]string{"spec-2"}, *selections); diff != "" {
		t.Fatalf("selection callback mismatch (-want +got):\n%s", diff)
	}
	if _, err := got.QueryFileDiffs.QueryFileDiffs(context.Background(), "spec-2"); err != nil || *diffCalls != 1 {
		t.Fatalf("diff querier not forwarded: calls=%d err=%v", *diffCalls, err)
	}
}

func TestDispatch_IsPure(t *testing.T) {
	props, selections, diffCalls := fullProps(t)
	nodes := []ChangesetApplyPreview{
		HiddenChangesetApplyPreview{},
		VisibleChangesetApplyPreview{Target: Target{ChangesetSpecID: "x"}},
	}
	for _, n := range nodes {
		a, b := Dispatch(n, props), Dispatch(n, props)
		if a.Variant != b.Variant {
			t.Fatalf("dispatch not deterministic for %T", n)
		}
	}
	if len(*selections) != 0 || *diffCalls != 0 {
		t.Fatalf("dispatch had side effects: selections=%v diffCalls=%d", *selections, *diffCalls)
	}
}

func TestRenderNode(t *testing.T) {
	props, _, _ := fullProps(t)
	props.AllSelected = false
	props.ExpandDescriptions = false

	hidden := RenderNode(HiddenChangesetApplyPreview{
		Operations: []Operation{OperationPush, OperationPublish},
		Target:     Target{Kind: "Attach"},
	}, props, 20)
	lines := strings.Split(hidden, "\n")
	if lines[0] != strings.Repeat("─", 20) {
		t.Fatalf("separator=%q, want 20 dashes", lines[0])
	}
	for _, want := range []string{"PUSH, PUBLISH", "Changeset in a private repository"} {
		if !strings.Contains(hidden, want) {
			t.Fatalf("hidden view missing %q:\n%s", want, hidden)
		}
	}
	if strings.Contains(hidden, "[ ]") {
		t.Fatalf("hidden view renders a checkbox:\n%s", hidden)
	}

	visible := RenderNode(VisibleChangesetApplyPreview{
		Operations: []Operation{OperationUpdate},
		Delta:      Delta{TitleChanged: true, DiffChanged: true},
		Target:     Target{Kind: "Update", ChangesetSpecID: "spec-3"},
		Title:      "Bump deps",
		Body:       "First line\nSecond line",
		Repository: "github.com/sourcegraph/sourcegraph",
		BaseRef:    "main",
		HeadRef:    "bump-deps",
	}, props, 20)
	for _, want := range []string{"[ ] UPDATE", "Bump deps", "main ← bump-deps", "changed: title, diff", "First line", "…"} {
		if !strings.Contains(visible, want) {
			t.Fatalf("visible view missing %q:\n%s", want, visible)
		}
	}
	if strings.Contains(visible, "Second line") {
		t.Fatalf("collapsed description shows the full body:\n%s", visible)
	}
}

func TestRenderNode_ExpandedDescriptionAndSelection(t *testing.T) {
	props, _, _ := fullProps(t)
	out := RenderNode(VisibleChangesetApplyPreview{
		Target: Target{ChangesetSpecID: "spec-4"},
		Body:   "First line\nSecond line",
	}, props, 0)

	for _, want := range []string{"[x] NO ACTION", "Second line"} {
		if !strings.Contains(out, want) {
			t.Fatalf("view missing %q:\n%s", want, out)
		}
	}
}
