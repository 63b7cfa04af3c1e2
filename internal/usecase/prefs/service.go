// Package prefs applies theme and display preference changes per client.
package prefs

import (
	"context"
	"fmt"

	domprefs "github.com/neuroscape/nicsite/internal/domain/prefs"
	"github.com/neuroscape/nicsite/internal/notify"
)

// Service reads and writes per-client presentation settings.
type Service struct {
	store store
}

// New creates a preferences service.
func New(s store) *Service {
	return &Service{store: s}
}

// Theme returns the client's current theme.
func (s *Service) Theme(ctx context.Context, clientID string) (domprefs.Theme, error) {
	return s.store.Theme(ctx, clientID)
}

// ToggleTheme flips the client's theme, persists it, and confirms the
// switch with a notice naming the new mode.
func (s *Service) ToggleTheme(
	ctx context.Context, clientID string, sink notify.Sink,
) (domprefs.Theme, error) {
	current, err := s.store.Theme(ctx, clientID)
	if err != nil {
		return domprefs.DefaultTheme, err
	}

	next := current.Toggled()
	if err := s.store.SetTheme(ctx, clientID, next); err != nil {
		return current, err
	}

	sink.Notify(ctx, notify.SeverityInfo, fmt.Sprintf("Switched to %s mode", next))
	return next, nil
}

// Preferences returns the client's stored preferences.
func (s *Service) Preferences(ctx context.Context, clientID string) (domprefs.Preferences, error) {
	return s.store.Preferences(ctx, clientID)
}

// Update overlays the partial update onto the stored preferences and
// persists the result, returning the merged value.
func (s *Service) Update(
	ctx context.Context, clientID string, u domprefs.Update,
) (domprefs.Preferences, error) {
	current, err := s.store.Preferences(ctx, clientID)
	if err != nil {
		return domprefs.Preferences{}, err
	}

	merged := current.Apply(u)
	if err := s.store.SetPreferences(ctx, clientID, merged); err != nil {
		return domprefs.Preferences{}, err
	}
	return merged, nil
}
