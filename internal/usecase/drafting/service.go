// Package drafting keeps unsubmitted scan request form state per client
// so an interrupted visit can resume where it left off.
package drafting

import (
	"context"

	"github.com/neuroscape/nicsite/internal/domain/scanrequest"
)

// Service reads and writes form drafts.
type Service struct {
	store store
}

// New creates a drafting service.
func New(s store) *Service {
	return &Service{store: s}
}

// Get returns the client's saved draft; an absent draft reads as empty.
func (s *Service) Get(ctx context.Context, clientID string) (scanrequest.Fields, error) {
	return s.store.Load(ctx, clientID)
}

// Save persists the draft. Empty drafts are cleared instead of stored.
func (s *Service) Save(ctx context.Context, clientID string, fields scanrequest.Fields) error {
	if len(fields.StripHoneypot()) == 0 {
		return s.store.Clear(ctx, clientID)
	}
	return s.store.Save(ctx, clientID, fields)
}

// Clear discards the client's draft.
func (s *Service) Clear(ctx context.Context, clientID string) error {
	return s.store.Clear(ctx, clientID)
}
