package search

import (
	"context"
	"fmt"
	"testing"

	"github.com/neuroscape/nicsite/internal/domain/sitesearch"
)

// --- Mocks ---

type mockIndex struct {
	records []sitesearch.Record
}

func (m *mockIndex) Index() []sitesearch.Record { return m.records }

type mockHistory struct {
	remembered []string
	recent     []string
	rememberN  int
}

func (m *mockHistory) Recent(_ context.Context, _ string) ([]string, error) {
	return m.recent, nil
}

func (m *mockHistory) Remember(_ context.Context, _ string, query string) error {
	m.rememberN++
	m.remembered = append(m.remembered, query)
	return nil
}

func testIndex() *mockIndex {
	return &mockIndex{records: []sitesearch.Record{
		sitesearch.NewRecord("3T Scanner", "Siemens Prisma 3T scanner overview", "equipment.html", "Equipment"),
		sitesearch.NewRecord("Head Coils", "Available head coil configurations", "coils.html", "Equipment"),
		sitesearch.NewRecord("Screening", "Participant safety screening procedure", "screening.html", "Procedures"),
	}}
}

// --- Tests ---

func TestQuery_ShortQueryIsInactive(t *testing.T) {
	h := &mockHistory{}
	svc := New(testIndex(), h)

	for _, q := range []string{"", " ", "a", " a "} {
		res, err := svc.Query(context.Background(), "c1", q)
		if err != nil {
			t.Fatalf("query %q: %v", q, err)
		}
		if res.Active() {
			t.Errorf("query %q should be inactive", q)
		}
		if len(res.Records()) != 0 {
			t.Errorf("inactive query %q returned records", q)
		}
	}
	if h.rememberN != 0 {
		t.Errorf("short queries must not be remembered, got %d", h.rememberN)
	}
}

func TestQuery_ActiveWithZeroMatchesIsNotInactive(t *testing.T) {
	svc := New(testIndex(), &mockHistory{})

	res, err := svc.Query(context.Background(), "c1", "eeg")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Active() {
		t.Error("zero-match query of sufficient length must still be active")
	}
	if len(res.Records()) != 0 {
		t.Errorf("expected no records, got %d", len(res.Records()))
	}
}

func TestQuery_NormalizesInput(t *testing.T) {
	h := &mockHistory{}
	svc := New(testIndex(), h)

	res, err := svc.Query(context.Background(), "c1", "  SCANNER  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Query() != "scanner" {
		t.Errorf("expected normalized query %q, got %q", "scanner", res.Query())
	}
	if len(res.Records()) != 1 {
		t.Fatalf("expected 1 match, got %d", len(res.Records()))
	}
	if len(h.remembered) != 1 || h.remembered[0] != "scanner" {
		t.Errorf("expected normalized query remembered, got %v", h.remembered)
	}
}

func TestQuery_SubstringMatchesAcrossFields(t *testing.T) {
	svc := New(testIndex(), &mockHistory{})

	// "config" only appears in a description; "scan" only as part of
	// the keyword "scanner".
	for _, tc := range []struct {
		query string
		want  string
	}{
		{"config", "Head Coils"},
		{"scan", "3T Scanner"},
		{"screening", "Screening"},
	} {
		res, err := svc.Query(context.Background(), "c1", tc.query)
		if err != nil {
			t.Fatalf("query %q: %v", tc.query, err)
		}
		if len(res.Records()) == 0 {
			t.Errorf("query %q: expected a match", tc.query)
			continue
		}
		recs := res.Records()
		if recs[0].Title() != tc.want {
			t.Errorf("query %q: expected %q first, got %q", tc.query, tc.want, recs[0].Title())
		}
	}
}

func TestQuery_PreservesIndexOrder(t *testing.T) {
	svc := New(testIndex(), &mockHistory{})

	// All three descriptions mention their subject; "e" is too short,
	// use a query hitting records 1 and 3 via keyword substring.
	res, err := svc.Query(context.Background(), "c1", "pr")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	recs := res.Records()
	if len(recs) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(recs))
	}
	if recs[0].Title() != "3T Scanner" || recs[1].Title() != "Screening" {
		t.Errorf("index order not preserved: %q, %q", recs[0].Title(), recs[1].Title())
	}
}

func TestQuery_TruncatesToTen(t *testing.T) {
	records := make([]sitesearch.Record, 0, 15)
	for i := 0; i < 15; i++ {
		records = append(records, sitesearch.NewRecord(
			fmt.Sprintf("Protocol %02d", i), "mri protocol", fmt.Sprintf("p%02d.html", i), "Procedures",
		))
	}
	svc := New(&mockIndex{records: records}, &mockHistory{})

	res, err := svc.Query(context.Background(), "c1", "protocol")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Records()) != MaxResults {
		t.Fatalf("expected %d records, got %d", MaxResults, len(res.Records()))
	}
	if res.Records()[0].Title() != "Protocol 00" {
		t.Errorf("expected first index entries, got %q", res.Records()[0].Title())
	}
}

func TestQuery_RemembersEvenWithZeroMatches(t *testing.T) {
	h := &mockHistory{}
	svc := New(testIndex(), h)

	if _, err := svc.Query(context.Background(), "c1", "nothing-here"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.rememberN != 1 {
		t.Errorf("zero-match query must still be remembered, got %d calls", h.rememberN)
	}
}

func TestReplay_ReturnsNormalizedQueryForEcho(t *testing.T) {
	svc := New(testIndex(), &mockHistory{})

	res, err := svc.Replay(context.Background(), "c1", "Coil")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Query() != "coil" {
		t.Errorf("expected echoed query %q, got %q", "coil", res.Query())
	}
	if len(res.Records()) != 1 {
		t.Errorf("expected 1 match on replay, got %d", len(res.Records()))
	}
}

func TestRecent_DelegatesToHistory(t *testing.T) {
	h := &mockHistory{recent: []string{"coil", "mri"}}
	svc := New(testIndex(), h)

	got, err := svc.Recent(context.Background(), "c1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0] != "coil" {
		t.Errorf("unexpected recent list: %v", got)
	}
}
