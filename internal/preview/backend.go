package preview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iw2rmb/indexconf/internal/graphql"
)

// ErrBatchSpecNotFound is returned when the batch spec node does not exist
// or is not visible to the caller.
var ErrBatchSpecNotFound = errors.New("batch spec not found")

// FileDiff summarises one changed file of a changeset spec.
type FileDiff struct {
	OldPath string
	NewPath string
	Added   int
	Deleted int
}

// Path is the new path, or the old one for deleted files.
func (f FileDiff) Path() string {
	if f.NewPath != "" {
		return f.NewPath
	}
	return f.OldPath
}

// DiffQuerier loads the file diffs of a changeset spec.
type DiffQuerier interface {
	QueryFileDiffs(ctx context.Context, changesetSpecID string) ([]FileDiff, error)
}

// DiffQuerierFunc adapts a function to DiffQuerier.
type DiffQuerierFunc func(ctx context.Context, changesetSpecID string) ([]FileDiff, error)

func (f DiffQuerierFunc) QueryFileDiffs(ctx context.Context, id string) ([]FileDiff, error) {
	return f(ctx, id)
}

// Page is one page of apply previews.
type Page struct {
	Nodes       []ChangesetApplyPreview
	TotalCount  int
	EndCursor   string
	HasNextPage bool
}

const changesetApplyPreviewFields = `fragment ChangesetApplyPreviewFields on ChangesetApplyPreview {
	__typename
	... on HiddenChangesetApplyPreview {
		operations
		targets {
			__typename
			... on HiddenApplyPreviewTargetsAttach { changesetSpec { id } }
			... on HiddenApplyPreviewTargetsUpdate { changesetSpec { id } changeset { id } }
			... on HiddenApplyPreviewTargetsDetach { changeset { id } }
		}
	}
	... on VisibleChangesetApplyPreview {
		operations
		delta { titleChanged bodyChanged baseRefChanged diffChanged commitMessageChanged }
		targets {
			__typename
			... on VisibleApplyPreviewTargetsAttach { changesetSpec { ...SpecFields } }
			... on VisibleApplyPreviewTargetsUpdate { changesetSpec { ...SpecFields } changeset { ...ChangesetFields } }
			... on VisibleApplyPreviewTargetsDetach { changeset { ...ChangesetFields } }
		}
	}
}

fragment SpecFields on VisibleChangesetSpec {
	id
	description {
		__typename
		... on GitBranchChangesetDescription {
			baseRepository { name }
			baseRef
			headRef
			title
			body
			published
		}
	}
}

fragment ChangesetFields on ExternalChangeset {
	id
	title
	body
	repository { name }
}`

const applyPreviewQuery = `query BatchSpecApplyPreview($batchSpec: ID!, $first: Int, $after: String) {
	node(id: $batchSpec) {
		__typename
		... on BatchSpec {
			applyPreview(first: $first, after: $after) {
				totalCount
				pageInfo { endCursor hasNextPage }
				nodes { ...ChangesetApplyPreviewFields }
			}
		}
	}
}

` + changesetApplyPreviewFields

const fileDiffsQuery = `query ChangesetSpecFileDiffs($changesetSpec: ID!, $first: Int) {
	node(id: $changesetSpec) {
		__typename
		... on VisibleChangesetSpec {
			description {
				__typename
				... on GitBranchChangesetDescription {
					diff {
						fileDiffs(first: $first) {
							nodes { oldPath newPath stat { added deleted } }
						}
					}
				}
			}
		}
	}
}`

// maxFileDiffs bounds the diff summary of one node.
const maxFileDiffs = 50

// Client queries apply previews over GraphQL.
type Client struct {
	gql *graphql.Client
}

func NewClient(gql *graphql.Client) *Client {
	return &Client{gql: gql}
}

// QueryApplyPreview returns up to first previews of batchSpecID after the
// cursor after (empty for the first page).
func (c *Client) QueryApplyPreview(ctx context.Context, batchSpecID string, first int, after string) (Page, error) {
	vars := map[string]any{"batchSpec": batchSpecID, "first": first}
	if after != "" {
		vars["after"] = after
	}
	var data struct {
		Node *struct {
			Typename     string `json:"__typename"`
			ApplyPreview *struct {
				TotalCount int `json:"totalCount"`
				PageInfo   struct {
					EndCursor   *string `json:"endCursor"`
					HasNextPage bool    `json:"hasNextPage"`
				} `json:"pageInfo"`
				Nodes []json.RawMessage `json:"nodes"`
			} `json:"applyPreview"`
		} `json:"node"`
	}
	if err := c.gql.Do(ctx, applyPreviewQuery, vars, &data); err != nil {
		return Page{}, fmt.Errorf("querying apply preview of %s: %w", batchSpecID, err)
	}
	if data.Node == nil || data.Node.ApplyPreview == nil {
		return Page{}, fmt.Errorf("%w: %s", ErrBatchSpecNotFound, batchSpecID)
	}

	ap := data.Node.ApplyPreview
	page := Page{
		Nodes:       make([]ChangesetApplyPreview, 0, len(ap.Nodes)),
		TotalCount:  ap.TotalCount,
		HasNextPage: ap.PageInfo.HasNextPage,
	}
	if ap.PageInfo.EndCursor != nil {
		page.EndCursor = *ap.PageInfo.EndCursor
	}
	for _, raw := range ap.Nodes {
		node, err := DecodeChangesetApplyPreview(raw)
		if err != nil {
			return Page{}, err
		}
		page.Nodes = append(page.Nodes, node)
	}
	return page, nil
}

func (c *Client) QueryFileDiffs(ctx context.Context, changesetSpecID string) ([]FileDiff, error) {
	var data struct {
		Node *struct {
			Description *struct {
				Diff *struct {
					FileDiffs struct {
						Nodes []struct {
							OldPath *string `json:"oldPath"`
							NewPath *string `json:"newPath"`
							Stat    struct {
								Added   int `json:"added"`
								Deleted int `json:"deleted"`
							} `json:"stat"`
						} `json:"nodes"`
					} `json:"fileDiffs"`
				} `json:"diff"`
			} `json:"description"`
		} `json:"node"`
	}
	vars := map[string]any{"changesetSpec": changesetSpecID, "first": maxFileDiffs}
	if err := c.gql.Do(ctx, fileDiffsQuery, vars, &data); err != nil {
		return nil, fmt.Errorf("querying file diffs of %s: %w", changesetSpecID, err)
	}
	if data.Node == nil || data.Node.Description == nil || data.Node.Description.Diff == nil {
		return nil, nil
	}

	nodes := data.Node.Description.Diff.FileDiffs.Nodes
	out := make([]FileDiff, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, FileDiff{
			OldPath: deref(n.OldPath),
			NewPath: deref(n.NewPath),
			Added:   n.Stat.Added,
			Deleted: n.Stat.Deleted,
		})
	}
	return out, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
