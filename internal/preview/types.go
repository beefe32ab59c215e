// Package preview renders the changeset apply preview of a batch spec: the
// list of changesets an apply would create, update or detach.
package preview

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Operation is one step an apply performs on a changeset.
type Operation string

const (
	OperationImport       Operation = "IMPORT"
	OperationPush         Operation = "PUSH"
	OperationUpdate       Operation = "UPDATE"
	OperationUndraft      Operation = "UNDRAFT"
	OperationPublish      Operation = "PUBLISH"
	OperationPublishDraft Operation = "PUBLISH_DRAFT"
	OperationSync         Operation = "SYNC"
	OperationClose        Operation = "CLOSE"
	OperationReopen       Operation = "REOPEN"
	OperationSleep        Operation = "SLEEP"
	OperationDetach       Operation = "DETACH"
	OperationArchive      Operation = "ARCHIVE"
)

// Delta flags what changed between the current changeset and its new spec.
type Delta struct {
	TitleChanged         bool `json:"titleChanged"`
	BodyChanged          bool `json:"bodyChanged"`
	BaseRefChanged       bool `json:"baseRefChanged"`
	DiffChanged          bool `json:"diffChanged"`
	CommitMessageChanged bool `json:"commitMessageChanged"`
}

// Changed lists the names of the changed attributes.
func (d Delta) Changed() []string {
	var out []string
	for _, f := range []struct {
		name string
		set  bool
	}{
		{"title", d.TitleChanged},
		{"body", d.BodyChanged},
		{"base ref", d.BaseRefChanged},
		{"diff", d.DiffChanged},
		{"commit message", d.CommitMessageChanged},
	} {
		if f.set {
			out = append(out, f.name)
		}
	}
	return out
}

// Target is what the preview applies to: "Attach" a new changeset spec,
// "Update" an existing changeset, or "Detach" one from the batch change.
type Target struct {
	Kind            string
	ChangesetSpecID string
	ChangesetID     string
}

// ChangesetApplyPreview is either a HiddenChangesetApplyPreview or a
// VisibleChangesetApplyPreview.
type ChangesetApplyPreview interface {
	Typename() string
	isChangesetApplyPreview()
}

// HiddenChangesetApplyPreview is a preview of a changeset in a repository
// the viewer cannot see. It carries no repository or content details.
type HiddenChangesetApplyPreview struct {
	Operations []Operation
	Target     Target
}

func (HiddenChangesetApplyPreview) Typename() string       { return "HiddenChangesetApplyPreview" }
func (HiddenChangesetApplyPreview) isChangesetApplyPreview() {}

// VisibleChangesetApplyPreview is a fully detailed preview.
type VisibleChangesetApplyPreview struct {
	Operations []Operation
	Delta      Delta
	Target     Target

	Title      string
	Body       string
	Repository string
	BaseRef    string
	HeadRef    string
	Published  string // "true", "false", "draft" or empty when unset
}

func (VisibleChangesetApplyPreview) Typename() string       { return "VisibleChangesetApplyPreview" }
func (VisibleChangesetApplyPreview) isChangesetApplyPreview() {}

// ID identifies the preview for selection: the changeset spec when there is
// one, else the changeset.
func (v VisibleChangesetApplyPreview) ID() string {
	if v.Target.ChangesetSpecID != "" {
		return v.Target.ChangesetSpecID
	}
	return v.Target.ChangesetID
}

type wireRef struct {
	Name string `json:"name"`
}

type wireDescription struct {
	Typename       string          `json:"__typename"`
	Title          string          `json:"title"`
	Body           string          `json:"body"`
	BaseRepository *wireRef        `json:"baseRepository"`
	BaseRef        string          `json:"baseRef"`
	HeadRef        string          `json:"headRef"`
	Published      json.RawMessage `json:"published"`
}

type wirePreview struct {
	Typename   string      `json:"__typename"`
	Operations []Operation `json:"operations"`
	Delta      *Delta      `json:"delta"`
	Targets    struct {
		Typename      string `json:"__typename"`
		ChangesetSpec *struct {
			ID          string           `json:"id"`
			Description *wireDescription `json:"description"`
		} `json:"changesetSpec"`
		Changeset *struct {
			ID    string   `json:"id"`
			Title string   `json:"title"`
			Body  string   `json:"body"`
			Repo  *wireRef `json:"repository"`
		} `json:"changeset"`
	} `json:"targets"`
}

// targetKind strips the variant prefix from a targets type name, so that
// VisibleApplyPreviewTargetsAttach becomes "Attach".
func targetKind(typename string) string {
	for _, prefix := range []string{"VisibleApplyPreviewTargets", "HiddenApplyPreviewTargets"} {
		if s, ok := strings.CutPrefix(typename, prefix); ok {
			return s
		}
	}
	return typename
}

// DecodeChangesetApplyPreview decodes one GraphQL node, selecting the
// variant by __typename.
func DecodeChangesetApplyPreview(raw json.RawMessage) (ChangesetApplyPreview, error) {
	var w wirePreview
	if err := json.Unmarshal(raw, &w); err != nil {
		return nil, fmt.Errorf("decoding apply preview: %w", err)
	}
	target := Target{Kind: targetKind(w.Targets.Typename)}
	if s := w.Targets.ChangesetSpec; s != nil {
		target.ChangesetSpecID = s.ID
	}
	if c := w.Targets.Changeset; c != nil {
		target.ChangesetID = c.ID
	}

	switch w.Typename {
	case "HiddenChangesetApplyPreview":
		return HiddenChangesetApplyPreview{Operations: w.Operations, Target: target}, nil
	case "VisibleChangesetApplyPreview":
		v := VisibleChangesetApplyPreview{Operations: w.Operations, Target: target}
		if w.Delta != nil {
			v.Delta = *w.Delta
		}
		if c := w.Targets.Changeset; c != nil {
			v.Title, v.Body = c.Title, c.Body
			if c.Repo != nil {
				v.Repository = c.Repo.Name
			}
		}
		// The new spec wins over the current changeset where both exist.
		if s := w.Targets.ChangesetSpec; s != nil && s.Description != nil {
			d := s.Description
			v.Title, v.Body = d.Title, d.Body
			v.BaseRef, v.HeadRef = d.BaseRef, d.HeadRef
			if d.BaseRepository != nil {
				v.Repository = d.BaseRepository.Name
			}
			// published is true, false or "draft".
			if p := strings.Trim(string(d.Published), `"`); p != "" && p != "null" {
				v.Published = p
			}
		}
		return v, nil
	}
	return nil, fmt.Errorf("unknown apply preview type %q", w.Typename)
}
