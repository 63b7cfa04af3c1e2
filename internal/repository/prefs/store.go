// Package prefs persists theme and user preferences per client.
package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/neuroscape/nicsite/internal/db"
	domprefs "github.com/neuroscape/nicsite/internal/domain/prefs"
)

// Storage key names, matching what the frontend historically used.
const (
	themeKey = "theme"
	prefsKey = "userPreferences"
)

// store is the consumer interface for preference operations (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Store persists preferences in the key-value store.
type Store struct {
	store  store
	prefix string
	logger *zap.Logger
}

// New creates a preferences store.
func New(s store, prefix string, logger *zap.Logger) *Store {
	return &Store{store: s, prefix: prefix, logger: logger}
}

func (s *Store) themeStoreKey(clientID string) string {
	return s.prefix + clientID + ":" + themeKey
}

func (s *Store) prefsStoreKey(clientID string) string {
	return s.prefix + clientID + ":" + prefsKey
}

// Theme returns the client's theme, defaulting when unset or unrecognized.
func (s *Store) Theme(ctx context.Context, clientID string) (domprefs.Theme, error) {
	data, err := s.store.Get(ctx, s.themeStoreKey(clientID))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domprefs.DefaultTheme, nil
		}
		return domprefs.DefaultTheme, fmt.Errorf("load theme: %w", err)
	}
	theme := domprefs.Theme(data)
	if !theme.IsValid() {
		return domprefs.DefaultTheme, nil
	}
	return theme, nil
}

// SetTheme persists the client's theme.
func (s *Store) SetTheme(ctx context.Context, clientID string, theme domprefs.Theme) error {
	if err := s.store.Set(ctx, s.themeStoreKey(clientID), []byte(theme)); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	return nil
}

// prefsDTO is the persisted shape; unknown keys are dropped on read.
type prefsDTO struct {
	FontSize      string `json:"fontSize,omitempty"`
	ReducedMotion bool   `json:"reducedMotion,omitempty"`
}

// Preferences returns the client's preferences. Absent or corrupt data
// reads as the zero value.
func (s *Store) Preferences(ctx context.Context, clientID string) (domprefs.Preferences, error) {
	data, err := s.store.Get(ctx, s.prefsStoreKey(clientID))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domprefs.Preferences{}, nil
		}
		return domprefs.Preferences{}, fmt.Errorf("load preferences: %w", err)
	}

	var dto prefsDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		s.logger.Warn("discarding corrupt preferences",
			zap.String("client_id", clientID),
			zap.Error(err),
		)
		return domprefs.Preferences{}, nil
	}
	return domprefs.Preferences{FontSize: dto.FontSize, ReducedMotion: dto.ReducedMotion}, nil
}

// SetPreferences persists the client's preferences.
func (s *Store) SetPreferences(ctx context.Context, clientID string, p domprefs.Preferences) error {
	data, err := json.Marshal(prefsDTO{FontSize: p.FontSize, ReducedMotion: p.ReducedMotion})
	if err != nil {
		return fmt.Errorf("marshal preferences: %w", err)
	}
	if err := s.store.Set(ctx, s.prefsStoreKey(clientID), data); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}
