// Package history persists the bounded recent-search list per client.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/neuroscape/nicsite/internal/db"
)

// historyKey matches the storage key the frontend historically used.
const historyKey = "recentSearches"

// MaxRecent caps the recent-search list.
const MaxRecent = 5

// store is the consumer interface for history operations (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Store persists recent searches in the key-value store.
type Store struct {
	store  store
	prefix string
	logger *zap.Logger
}

// New creates a history store.
func New(s store, prefix string, logger *zap.Logger) *Store {
	return &Store{store: s, prefix: prefix, logger: logger}
}

func (s *Store) key(clientID string) string {
	return s.prefix + clientID + ":" + historyKey
}

// Recent returns the client's recent queries, most recent first.
// Absent or corrupt history reads as empty.
func (s *Store) Recent(ctx context.Context, clientID string) ([]string, error) {
	data, err := s.store.Get(ctx, s.key(clientID))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load recent searches: %w", err)
	}

	var queries []string
	if err := json.Unmarshal(data, &queries); err != nil {
		s.logger.Warn("discarding corrupt search history",
			zap.String("client_id", clientID),
			zap.Error(err),
		)
		return nil, nil
	}
	if len(queries) > MaxRecent {
		queries = queries[:MaxRecent]
	}
	return queries, nil
}

// Remember records a query at the head of the client's list. A query
// already present is left where it is; the list never exceeds MaxRecent.
func (s *Store) Remember(ctx context.Context, clientID, query string) error {
	queries, err := s.Recent(ctx, clientID)
	if err != nil {
		return err
	}

	for _, q := range queries {
		if q == query {
			return nil
		}
	}

	queries = append([]string{query}, queries...)
	if len(queries) > MaxRecent {
		queries = queries[:MaxRecent]
	}

	data, err := json.Marshal(queries)
	if err != nil {
		return fmt.Errorf("marshal recent searches: %w", err)
	}
	if err := s.store.Set(ctx, s.key(clientID), data); err != nil {
		return fmt.Errorf("save recent searches: %w", err)
	}
	return nil
}
