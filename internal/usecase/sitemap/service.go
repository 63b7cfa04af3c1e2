// Package sitemap owns the site manifest lifecycle: load on startup,
// derive the flat search index, swap both atomically on reload.
package sitemap

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/neuroscape/nicsite/internal/domain/manifest"
	"github.com/neuroscape/nicsite/internal/domain/sitesearch"
	"github.com/neuroscape/nicsite/internal/metrics"
	"github.com/neuroscape/nicsite/internal/notify"
)

// Service loads the site manifest and maintains the derived search index.
type Service struct {
	fetcher Fetcher
	sink    notify.Sink
	logger  *zap.Logger

	mu       sync.RWMutex
	manifest manifest.Manifest
	index    []sitesearch.Record
}

// New creates a sitemap service. The index is empty until Load succeeds.
func New(fetcher Fetcher, sink notify.Sink, logger *zap.Logger) *Service {
	return &Service{
		fetcher:  fetcher,
		sink:     sink,
		logger:   logger,
		manifest: manifest.Empty(),
	}
}

// Load fetches and parses the manifest, then rebuilds the search index.
// On failure the manifest and index are left empty, a warning notice is
// emitted, and the error is returned for the caller to log; a broken
// manifest must never take the site down.
func (s *Service) Load(ctx context.Context) error {
	data, err := s.fetcher.Fetch(ctx)
	if err != nil {
		s.degrade(ctx, fmt.Errorf("fetch site manifest: %w", err))
		return fmt.Errorf("fetch site manifest: %w", err)
	}

	m, err := manifest.Parse(data)
	if err != nil {
		s.degrade(ctx, err)
		return err
	}

	index := sitesearch.Build(m)

	s.mu.Lock()
	s.manifest = m
	s.index = index
	s.mu.Unlock()

	metrics.ManifestLoadsTotal.WithLabelValues("ok").Inc()
	metrics.SearchIndexSize.Set(float64(len(index)))
	s.logger.Info("site manifest loaded",
		zap.Int("categories", len(m.Categories())),
		zap.Int("pages", m.PageCount()),
	)
	return nil
}

// degrade swaps in an empty manifest and index and notifies the user.
func (s *Service) degrade(ctx context.Context, err error) {
	s.mu.Lock()
	s.manifest = manifest.Empty()
	s.index = nil
	s.mu.Unlock()

	metrics.ManifestLoadsTotal.WithLabelValues("error").Inc()
	metrics.SearchIndexSize.Set(0)
	s.logger.Error("failed to load site content", zap.Error(err))
	s.sink.Notify(ctx, notify.SeverityError, "Failed to load site content")
}

// HealthCheck reports whether a usable manifest is currently loaded.
func (s *Service) HealthCheck(_ context.Context) error {
	m := s.Manifest()
	if m.IsEmpty() {
		return errors.New("site manifest not loaded")
	}
	return nil
}

// Manifest returns the current manifest.
func (s *Service) Manifest() manifest.Manifest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.manifest
}

// Index returns the current search index in manifest traversal order.
// Callers must not mutate the returned slice.
func (s *Service) Index() []sitesearch.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index
}
