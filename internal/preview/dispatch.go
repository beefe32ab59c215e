package preview

import (
	"fmt"

	"github.com/iw2rmb/indexconf/internal/ui"
)

// User is the signed-in viewer of the preview page.
type User struct {
	Username    string
	DisplayName string
	URL         string
}

// NodeProps are the parameters a list node passes through to the visible
// variant. None of them reach the hidden variant.
type NodeProps struct {
	Theme             ui.Theme
	AuthenticatedUser User
	// Location is the host's navigation context, forwarded untouched.
	Location string

	SelectionEnabled bool
	AllSelected      bool
	IsSelected       func(id string) bool
	OnSelection      func(id string, checked bool)

	// QueryFileDiffs replaces the GraphQL diff query, mostly for tests.
	QueryFileDiffs DiffQuerier
	// ExpandDescriptions renders full changeset bodies.
	ExpandDescriptions bool
}

type Variant uint8

const (
	VariantHidden Variant = iota + 1
	VariantVisible
)

func (v Variant) String() string {
	switch v {
	case VariantHidden:
		return "hidden"
	case VariantVisible:
		return "visible"
	}
	return "unknown"
}

// Rendering is the outcome of Dispatch: which variant renders node and with
// which props. Props is the zero value for the hidden variant.
type Rendering struct {
	Variant Variant
	Node    ChangesetApplyPreview
	Props   NodeProps
}

// Dispatch picks the variant for node. It has no side effects.
func Dispatch(node ChangesetApplyPreview, props NodeProps) Rendering {
	switch n := node.(type) {
	case HiddenChangesetApplyPreview:
		return Rendering{Variant: VariantHidden, Node: n}
	case VisibleChangesetApplyPreview:
		return Rendering{Variant: VariantVisible, Node: n, Props: props}
	}
	panic(fmt.Sprintf("preview: unexpected node type %T", node))
}
