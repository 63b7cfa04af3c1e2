package prefs

import "testing"

func TestTheme_Toggled(t *testing.T) {
	if Dark.Toggled() != Light {
		t.Error("dark should toggle to light")
	}
	if Light.Toggled() != Dark {
		t.Error("light should toggle to dark")
	}
}

func TestTheme_IsValid(t *testing.T) {
	if !Dark.IsValid() || !Light.IsValid() {
		t.Error("dark and light must be valid")
	}
	if Theme("sepia").IsValid() {
		t.Error("unknown theme accepted")
	}
}

func TestPreferences_Apply(t *testing.T) {
	p := Preferences{FontSize: "16px", ReducedMotion: true}

	size := "18px"
	p = p.Apply(Update{FontSize: &size})
	if p.FontSize != "18px" {
		t.Errorf("expected font size update, got %q", p.FontSize)
	}
	if !p.ReducedMotion {
		t.Error("untouched field changed")
	}

	off := false
	p = p.Apply(Update{ReducedMotion: &off})
	if p.ReducedMotion {
		t.Error("expected reduced motion off")
	}
	if p.FontSize != "18px" {
		t.Error("untouched field changed")
	}
}
