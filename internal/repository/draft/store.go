// Package draft persists in-progress scan request forms per client.
package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/neuroscape/nicsite/internal/db"
	"github.com/neuroscape/nicsite/internal/domain/scanrequest"
)

// draftKey matches the storage key the frontend historically used.
const draftKey = "nicScanRequestDraft"

// store is the consumer interface for draft operations (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, key string) error
}

// Store persists form drafts in the key-value store.
type Store struct {
	store  store
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

// New creates a draft store. prefix namespaces all keys; ttl bounds how
// long an abandoned draft survives.
func New(s store, prefix string, ttl time.Duration, logger *zap.Logger) *Store {
	return &Store{store: s, prefix: prefix, ttl: ttl, logger: logger}
}

func (s *Store) key(clientID string) string {
	return s.prefix + clientID + ":" + draftKey
}

// Save writes the client's draft, replacing any previous one.
// The honeypot field is stripped before persisting: replaying it on load
// would defeat the anti-spam check.
func (s *Store) Save(ctx context.Context, clientID string, fields scanrequest.Fields) error {
	clean := fields.StripHoneypot()
	data, err := json.Marshal(clean)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	if err := s.store.SetWithTTL(ctx, s.key(clientID), data, s.ttl); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

// Load returns the client's draft. An absent or unparseable draft loads as
// empty: a broken draft must never block opening the form.
func (s *Store) Load(ctx context.Context, clientID string) (scanrequest.Fields, error) {
	data, err := s.store.Get(ctx, s.key(clientID))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return scanrequest.Fields{}, nil
		}
		return nil, fmt.Errorf("load draft: %w", err)
	}

	var fields scanrequest.Fields
	if err := json.Unmarshal(data, &fields); err != nil {
		s.logger.Warn("discarding corrupt draft",
			zap.String("client_id", clientID),
			zap.Error(err),
		)
		return scanrequest.Fields{}, nil
	}
	// Older drafts written before the strip-on-save rule may carry the
	// honeypot; never replay it.
	return fields.StripHoneypot(), nil
}

// Clear removes the client's draft.
func (s *Store) Clear(ctx context.Context, clientID string) error {
	if err := s.store.Del(ctx, s.key(clientID)); err != nil {
		return fmt.Errorf("clear draft: %w", err)
	}
	return nil
}
