package configpage

import (
	"context"
	"sync"

	"github.com/iw2rmb/indexconf/internal/indexconfig"
)

type update struct {
	repoID  string
	content string
}

type fakeStore struct {
	mu        sync.Mutex
	docs      map[string]indexconfig.Document
	getErr    error
	updateErr error

	updates   []update
	getCtx    context.Context
	updateCtx context.Context
}

func newFakeStore() *fakeStore {
	return &fakeStore{docs: map[string]indexconfig.Document{
		"42": {Stored: "{}", Inferred: `{"indexer":"auto"}`},
	}}
}

func (s *fakeStore) GetConfiguration(ctx context.Context, repoID string) (indexconfig.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getCtx = ctx
	if s.getErr != nil {
		return indexconfig.Document{}, s.getErr
	}
	doc, ok := s.docs[repoID]
	if !ok {
		return indexconfig.Document{}, indexconfig.ErrRepositoryNotFound
	}
	return doc, nil
}

func (s *fakeStore) UpdateConfiguration(ctx context.Context, repoID, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateCtx = ctx
	s.updates = append(s.updates, update{repoID: repoID, content: content})
	return s.updateErr
}

func (s *fakeStore) Updates() []update {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]update(nil), s.updates...)
}
