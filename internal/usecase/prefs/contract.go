package prefs

import (
	"context"

	domprefs "github.com/neuroscape/nicsite/internal/domain/prefs"
)

// store is what the service needs from the preference repository.
type store interface {
	Theme(ctx context.Context, clientID string) (domprefs.Theme, error)
	SetTheme(ctx context.Context, clientID string, theme domprefs.Theme) error
	Preferences(ctx context.Context, clientID string) (domprefs.Preferences, error)
	SetPreferences(ctx context.Context, clientID string, p domprefs.Preferences) error
}
