// Package search answers interactive queries against the site index.
package search

import (
	"context"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/neuroscape/nicsite/internal/domain/sitesearch"
	"github.com/neuroscape/nicsite/internal/logger"
	"github.com/neuroscape/nicsite/internal/metrics"
)

// MinQueryLength is the activation threshold: shorter queries do not
// search at all, which the UI treats differently from zero matches.
const MinQueryLength = 2

// MaxResults truncates the result list. No ranking: the corpus is a site
// manifest, index order is manifest order.
const MaxResults = 10

// Result is the outcome of one query.
type Result struct {
	active  bool
	query   string
	records []sitesearch.Record
}

// Active reports whether the query was long enough to search.
// An inactive result is distinct from an active one with zero records.
func (r *Result) Active() bool { return r.active }

// Query returns the normalized query text actually used.
func (r *Result) Query() string { return r.query }

// Records returns the matches in index order, at most MaxResults.
func (r *Result) Records() []sitesearch.Record { return r.records }

// Service executes searches and maintains per-client query history.
type Service struct {
	index   IndexProvider
	history History
}

// New creates a search service.
func New(index IndexProvider, history History) *Service {
	return &Service{index: index, history: history}
}

// Query runs a free-text search. The text is trimmed and lowercased;
// queries shorter than MinQueryLength return an inactive result. Every
// active query is remembered, even when it matches nothing.
func (s *Service) Query(ctx context.Context, clientID, text string) (Result, error) {
	q := strings.ToLower(strings.TrimSpace(text))
	if utf8.RuneCountInString(q) < MinQueryLength {
		metrics.SearchQueriesTotal.WithLabelValues("inactive").Inc()
		return Result{active: false, query: q}, nil
	}

	// History is best-effort; a storage hiccup must not break search.
	if err := s.history.Remember(ctx, clientID, q); err != nil {
		logger.FromContext(ctx).Warn("failed to record recent search",
			zap.String("client_id", clientID),
			zap.Error(err),
		)
	}

	var matches []sitesearch.Record
	for _, rec := range s.index.Index() {
		if rec.Matches(q) {
			matches = append(matches, rec)
			if len(matches) == MaxResults {
				break
			}
		}
	}

	if len(matches) == 0 {
		metrics.SearchQueriesTotal.WithLabelValues("miss").Inc()
	} else {
		metrics.SearchQueriesTotal.WithLabelValues("hit").Inc()
	}
	return Result{active: true, query: q, records: matches}, nil
}

// Recent lists the client's recent queries, most recent first.
func (s *Service) Recent(ctx context.Context, clientID string) ([]string, error) {
	return s.history.Recent(ctx, clientID)
}

// Replay re-executes a previously entered query. The returned result
// carries the normalized query so the UI can update its input field to
// match what was actually searched.
func (s *Service) Replay(ctx context.Context, clientID, query string) (Result, error) {
	return s.Query(ctx, clientID, query)
}
