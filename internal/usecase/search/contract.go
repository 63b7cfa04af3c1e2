package search

import (
	"context"

	"github.com/neuroscape/nicsite/internal/domain/sitesearch"
)

// IndexProvider supplies the current search index.
type IndexProvider interface {
	Index() []sitesearch.Record
}

// History records and lists a client's recent queries.
type History interface {
	Recent(ctx context.Context, clientID string) ([]string, error)
	Remember(ctx context.Context, clientID, query string) error
}
