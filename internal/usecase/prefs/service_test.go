package prefs

import (
	"context"
	"errors"
	"testing"

	domprefs "github.com/neuroscape/nicsite/internal/domain/prefs"
	"github.com/neuroscape/nicsite/internal/notify"
)

type mockStore struct {
	themeFunc    func(ctx context.Context, clientID string) (domprefs.Theme, error)
	setThemeFunc func(ctx context.Context, clientID string, theme domprefs.Theme) error
	prefsFunc    func(ctx context.Context, clientID string) (domprefs.Preferences, error)
	setPrefsFunc func(ctx context.Context, clientID string, p domprefs.Preferences) error
}

func (m *mockStore) Theme(ctx context.Context, clientID string) (domprefs.Theme, error) {
	if m.themeFunc != nil {
		return m.themeFunc(ctx, clientID)
	}
	return domprefs.DefaultTheme, nil
}

func (m *mockStore) SetTheme(ctx context.Context, clientID string, theme domprefs.Theme) error {
	if m.setThemeFunc != nil {
		return m.setThemeFunc(ctx, clientID, theme)
	}
	return nil
}

func (m *mockStore) Preferences(ctx context.Context, clientID string) (domprefs.Preferences, error) {
	if m.prefsFunc != nil {
		return m.prefsFunc(ctx, clientID)
	}
	return domprefs.Preferences{}, nil
}

func (m *mockStore) SetPreferences(ctx context.Context, clientID string, p domprefs.Preferences) error {
	if m.setPrefsFunc != nil {
		return m.setPrefsFunc(ctx, clientID, p)
	}
	return nil
}

func TestToggleTheme(t *testing.T) {
	tests := []struct {
		name       string
		current    domprefs.Theme
		want       domprefs.Theme
		wantNotice string
	}{
		{"dark to light", domprefs.Dark, domprefs.Light, "Switched to light mode"},
		{"light to dark", domprefs.Light, domprefs.Dark, "Switched to dark mode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var saved domprefs.Theme
			store := &mockStore{
				themeFunc: func(context.Context, string) (domprefs.Theme, error) {
					return tt.current, nil
				},
				setThemeFunc: func(_ context.Context, _ string, theme domprefs.Theme) error {
					saved = theme
					return nil
				},
			}
			svc := New(store)
			collector := &notify.Collector{}

			got, err := svc.ToggleTheme(context.Background(), "client-1", collector)
			if err != nil {
				t.Fatalf("ToggleTheme() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ToggleTheme() = %q, want %q", got, tt.want)
			}
			if saved != tt.want {
				t.Errorf("persisted theme = %q, want %q", saved, tt.want)
			}
			notice := collector.First()
			if notice == nil {
				t.Fatal("expected a notice")
			}
			if notice.Message != tt.wantNotice {
				t.Errorf("notice = %q, want %q", notice.Message, tt.wantNotice)
			}
		})
	}
}

func TestToggleTheme_SaveFailure(t *testing.T) {
	wantErr := errors.New("store down")
	store := &mockStore{
		setThemeFunc: func(context.Context, string, domprefs.Theme) error {
			return wantErr
		},
	}
	svc := New(store)
	collector := &notify.Collector{}

	got, err := svc.ToggleTheme(context.Background(), "client-1", collector)
	if !errors.Is(err, wantErr) {
		t.Fatalf("ToggleTheme() error = %v, want %v", err, wantErr)
	}
	if got != domprefs.DefaultTheme {
		t.Errorf("ToggleTheme() = %q, want the unchanged current theme", got)
	}
	if len(collector.Notices()) != 0 {
		t.Error("failed toggle must not produce a notice")
	}
}

func TestUpdate_PartialOverlay(t *testing.T) {
	var saved domprefs.Preferences
	store := &mockStore{
		prefsFunc: func(context.Context, string) (domprefs.Preferences, error) {
			return domprefs.Preferences{FontSize: "large", ReducedMotion: true}, nil
		},
		setPrefsFunc: func(_ context.Context, _ string, p domprefs.Preferences) error {
			saved = p
			return nil
		},
	}
	svc := New(store)

	size := "small"
	got, err := svc.Update(context.Background(), "client-1", domprefs.Update{FontSize: &size})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	want := domprefs.Preferences{FontSize: "small", ReducedMotion: true}
	if got != want {
		t.Errorf("Update() = %+v, want %+v", got, want)
	}
	if saved != want {
		t.Errorf("persisted = %+v, want %+v", saved, want)
	}
}

func TestUpdate_LoadFailure(t *testing.T) {
	wantErr := errors.New("store down")
	store := &mockStore{
		prefsFunc: func(context.Context, string) (domprefs.Preferences, error) {
			return domprefs.Preferences{}, wantErr
		},
	}
	svc := New(store)

	if _, err := svc.Update(context.Background(), "client-1", domprefs.Update{}); !errors.Is(err, wantErr) {
		t.Fatalf("Update() error = %v, want %v", err, wantErr)
	}
}
