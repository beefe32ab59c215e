// Package indexconfig reads and writes a repository's precise code
// intelligence index configuration and validates its JSONC content.
package indexconfig

import (
	"context"
	"errors"
	"fmt"

	"github.com/iw2rmb/indexconf/internal/graphql"
)

// ErrRepositoryNotFound is returned when the repository node does not exist
// or is not visible to the caller.
var ErrRepositoryNotFound = errors.New("repository not found")

// Document is a repository's index configuration. Stored is the
// user-editable override; Inferred is computed by the backend from the
// repository's HEAD and is never written by the client.
type Document struct {
	Stored   string
	Inferred string
}

// Store is the configuration backend.
type Store interface {
	GetConfiguration(ctx context.Context, repoID string) (Document, error)
	UpdateConfiguration(ctx context.Context, repoID, content string) error
}

const getConfigurationQuery = `query IndexConfiguration($id: ID!) {
	node(id: $id) {
		... on Repository {
			indexConfiguration {
				configuration
				inferredConfiguration
			}
		}
	}
}`

const updateConfigurationMutation = `mutation UpdateRepositoryIndexConfiguration($id: ID!, $content: String!) {
	updateRepositoryIndexConfiguration(repository: $id, configuration: $content) {
		alwaysNil
	}
}`

// GraphQLStore implements Store over the GraphQL API.
type GraphQLStore struct {
	client *graphql.Client
}

var _ Store = (*GraphQLStore)(nil)

func NewGraphQLStore(client *graphql.Client) *GraphQLStore {
	return &GraphQLStore{client: client}
}

type configurationResponse struct {
	Node *struct {
		IndexConfiguration *struct {
			Configuration         *string `json:"configuration"`
			InferredConfiguration *string `json:"inferredConfiguration"`
		} `json:"indexConfiguration"`
	} `json:"node"`
}

func (s *GraphQLStore) GetConfiguration(ctx context.Context, repoID string) (Document, error) {
	var resp configurationResponse
	if err := s.client.Do(ctx, getConfigurationQuery, map[string]any{"id": repoID}, &resp); err != nil {
		return Document{}, fmt.Errorf("fetching index configuration for %s: %w", repoID, err)
	}
	if resp.Node == nil {
		return Document{}, fmt.Errorf("fetching index configuration for %s: %w", repoID, ErrRepositoryNotFound)
	}
	// Missing values coalesce to "" rather than failing.
	var doc Document
	if ic := resp.Node.IndexConfiguration; ic != nil {
		doc.Stored = deref(ic.Configuration)
		doc.Inferred = deref(ic.InferredConfiguration)
	}
	return doc, nil
}

func (s *GraphQLStore) UpdateConfiguration(ctx context.Context, repoID, content string) error {
	vars := map[string]any{"id": repoID, "content": content}
	if err := s.client.Do(ctx, updateConfigurationMutation, vars, nil); err != nil {
		return fmt.Errorf("updating index configuration for %s: %w", repoID, err)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
