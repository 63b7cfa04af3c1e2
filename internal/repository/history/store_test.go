package history

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/neuroscape/nicsite/internal/db"
)

type mockStore struct {
	data map[string][]byte
}

func newMockStore() *mockStore {
	return &mockStore{data: map[string][]byte{}}
}

func (m *mockStore) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockStore) Set(_ context.Context, key string, value []byte) error {
	m.data[key] = value
	return nil
}

func newTestStore(m *mockStore) *Store {
	return New(m, "nic:", zap.NewNop())
}

func remember(t *testing.T, s *Store, queries ...string) {
	t.Helper()
	for _, q := range queries {
		if err := s.Remember(context.Background(), "c1", q); err != nil {
			t.Fatalf("remember %q: %v", q, err)
		}
	}
}

func TestRemember_MostRecentFirst(t *testing.T) {
	s := newTestStore(newMockStore())
	remember(t, s, "mri", "coil", "screening")

	got, err := s.Recent(context.Background(), "c1")
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	want := []string{"screening", "coil", "mri"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestRemember_DedupKeepsExistingPosition(t *testing.T) {
	s := newTestStore(newMockStore())
	remember(t, s, "mri", "coil", "mri")

	got, _ := s.Recent(context.Background(), "c1")
	want := []string{"coil", "mri"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestRemember_CapAtFive(t *testing.T) {
	s := newTestStore(newMockStore())
	remember(t, s, "a", "b", "c", "d", "e", "f", "g")

	got, _ := s.Recent(context.Background(), "c1")
	if len(got) != MaxRecent {
		t.Fatalf("expected %d entries, got %d: %v", MaxRecent, len(got), got)
	}
	if got[0] != "g" {
		t.Errorf("expected newest first, got %v", got)
	}
	for _, q := range got {
		if q == "a" || q == "b" {
			t.Errorf("oldest entries should have been evicted, got %v", got)
		}
	}
}

func TestRecent_AbsentIsEmpty(t *testing.T) {
	s := newTestStore(newMockStore())
	got, err := s.Recent(context.Background(), "c1")
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty history, got %v", got)
	}
}

func TestRecent_CorruptIsEmptyNotError(t *testing.T) {
	m := newMockStore()
	s := newTestStore(m)
	m.data["nic:c1:recentSearches"] = []byte("{oops")

	got, err := s.Recent(context.Background(), "c1")
	if err != nil {
		t.Fatalf("corrupt history must not propagate an error, got %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty history, got %v", got)
	}
}

func TestRecent_TruncatesOversizedPersistedList(t *testing.T) {
	m := newMockStore()
	s := newTestStore(m)
	m.data["nic:c1:recentSearches"] = []byte(`["a","b","c","d","e","f","g"]`)

	got, _ := s.Recent(context.Background(), "c1")
	if len(got) != MaxRecent {
		t.Errorf("expected %d entries, got %d", MaxRecent, len(got))
	}
}
