// Package prefs models per-client display preferences.
package prefs

// Theme is the site color theme.
type Theme string

// Theme constants.
const (
	Dark  Theme = "dark"
	Light Theme = "light"
)

// DefaultTheme is applied when a client has never chosen one.
const DefaultTheme = Dark

// IsValid checks if the theme is one of the supported values.
func (t Theme) IsValid() bool {
	return t == Dark || t == Light
}

// Toggled returns the opposite theme.
func (t Theme) Toggled() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// Preferences holds the recognized user preference keys.
// Unknown keys in persisted data are dropped on read.
type Preferences struct {
	FontSize      string
	ReducedMotion bool
}

// Update carries a partial preference change; nil fields are left untouched.
type Update struct {
	FontSize      *string
	ReducedMotion *bool
}

// Apply overlays the update onto p and returns the result.
func (p Preferences) Apply(u Update) Preferences {
	if u.FontSize != nil {
		p.FontSize = *u.FontSize
	}
	if u.ReducedMotion != nil {
		p.ReducedMotion = *u.ReducedMotion
	}
	return p
}
