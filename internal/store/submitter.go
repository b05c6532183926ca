package store

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/mark3labs/beacon/internal/beacon"
	"github.com/mark3labs/beacon/internal/logger"
)

func newRecordID() string {
	return uuid.NewString()
}

// Submitter adapts a Store to the wizard's submit and draft-save
// collaborators. Draft saves from one wizard overwrite the same draft, and the
// final submit promotes it.
type Submitter struct {
	store  *Store
	author string

	mu      sync.Mutex
	draftID string
}

// NewSubmitter returns a submitter writing as author.
func NewSubmitter(s *Store, author string) *Submitter {
	return &Submitter{store: s, author: author}
}

// Resume makes subsequent saves target the draft id.
func (s *Submitter) Resume(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draftID = id
}

// DraftID returns the draft the submitter currently writes to.
func (s *Submitter) DraftID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draftID
}

// Submit publishes p, promoting the current draft if there is one.
func (s *Submitter) Submit(ctx context.Context, p beacon.Payload) error {
	id := s.DraftID()
	rec, err := s.store.Publish(ctx, id, s.author, p)
	if err != nil {
		return err
	}
	logger.Info("Published beacon %s (%s)", rec.ID, rec.Slug)

	s.mu.Lock()
	if s.draftID == id {
		s.draftID = ""
	}
	s.mu.Unlock()
	return nil
}

// SaveDraft stores p as the current draft, creating it on first save.
func (s *Submitter) SaveDraft(ctx context.Context, p beacon.Payload) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.store.SaveDraft(ctx, s.draftID, s.author, p)
	if err != nil {
		return err
	}
	s.draftID = rec.ID
	logger.Info("Saved draft %s", rec.ID)
	return nil
}
