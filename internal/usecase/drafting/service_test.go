package drafting

import (
	"context"
	"testing"

	"github.com/neuroscape/nicsite/internal/domain/scanrequest"
)

type mockStore struct {
	saved   scanrequest.Fields
	cleared bool
}

func (m *mockStore) Save(_ context.Context, _ string, fields scanrequest.Fields) error {
	m.saved = fields
	return nil
}

func (m *mockStore) Load(context.Context, string) (scanrequest.Fields, error) {
	return scanrequest.Fields{"name": "Ada"}, nil
}

func (m *mockStore) Clear(context.Context, string) error {
	m.cleared = true
	return nil
}

func TestSave(t *testing.T) {
	store := &mockStore{}
	svc := New(store)

	fields := scanrequest.Fields{"name": "Ada", "email": "ada@example.edu"}
	if err := svc.Save(context.Background(), "client-1", fields); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if store.saved["name"] != "Ada" {
		t.Errorf("saved fields = %v, want the submitted fields", store.saved)
	}
	if store.cleared {
		t.Error("non-empty save must not clear")
	}
}

func TestSave_EmptyClears(t *testing.T) {
	store := &mockStore{}
	svc := New(store)

	// Only the honeypot field counts as empty too.
	fields := scanrequest.Fields{scanrequest.HoneypotField: "spam"}
	if err := svc.Save(context.Background(), "client-1", fields); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if !store.cleared {
		t.Error("empty draft should clear the stored one")
	}
	if store.saved != nil {
		t.Errorf("empty draft was stored: %v", store.saved)
	}
}

func TestGet(t *testing.T) {
	svc := New(&mockStore{})
	fields, err := svc.Get(context.Background(), "client-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if fields["name"] != "Ada" {
		t.Errorf("Get() = %v, want the stored draft", fields)
	}
}
