package sitesearch

import (
	"testing"

	"github.com/neuroscape/nicsite/internal/domain/manifest"
)

func testManifest() manifest.Manifest {
	return manifest.New([]manifest.Category{
		manifest.NewCategory("Equipment", []manifest.Page{
			manifest.NewPage("3T Scanner", "Siemens Prisma 3T scanner overview", "equipment.html"),
			manifest.NewPage("Head Coils", "Available head coil configurations", "coils.html"),
		}),
		manifest.NewCategory("Procedures", []manifest.Page{
			manifest.NewPage("Screening", "Participant safety screening procedure", "screening.html"),
		}),
	})
}

func TestBuild_OneRecordPerPage(t *testing.T) {
	records := Build(testManifest())
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
}

func TestBuild_CategoryThenPageOrder(t *testing.T) {
	records := Build(testManifest())

	wantTitles := []string{"3T Scanner", "Head Coils", "Screening"}
	for i, want := range wantTitles {
		if records[i].Title() != want {
			t.Errorf("record %d: expected title %q, got %q", i, want, records[i].Title())
		}
	}
	if records[0].Category() != "Equipment" {
		t.Errorf("expected category Equipment, got %q", records[0].Category())
	}
	if records[2].Category() != "Procedures" {
		t.Errorf("expected category Procedures, got %q", records[2].Category())
	}
}

func TestBuild_EmptyManifest(t *testing.T) {
	records := Build(manifest.Empty())
	if len(records) != 0 {
		t.Fatalf("expected empty index, got %d records", len(records))
	}
}

func TestNewRecord_KeywordsLowercasedAndDeduped(t *testing.T) {
	r := NewRecord("MRI Safety", "MRI safety screening checklist", "safety.html", "Procedures")

	want := []string{"mri", "safety", "screening", "checklist"}
	got := r.Keywords()
	if len(got) != len(want) {
		t.Fatalf("expected %d keywords, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("keyword %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestMatches_TitleSubstring(t *testing.T) {
	r := NewRecord("3T Scanner", "overview", "equipment.html", "Equipment")
	if !r.Matches("scanner") {
		t.Error("expected title substring match")
	}
}

func TestMatches_DescriptionSubstring(t *testing.T) {
	r := NewRecord("Head Coils", "Available head coil configurations", "coils.html", "Equipment")
	if !r.Matches("config") {
		t.Error("expected description substring match")
	}
}

func TestMatches_KeywordSubstring(t *testing.T) {
	// "scan" is a substring of keyword "scanner", not an exact token.
	r := NewRecord("3T Scanner", "overview", "equipment.html", "Equipment")
	if !r.Matches("scan") {
		t.Error("expected keyword substring match")
	}
}

func TestMatches_NoHit(t *testing.T) {
	r := NewRecord("3T Scanner", "overview", "equipment.html", "Equipment")
	if r.Matches("eeg") {
		t.Error("unexpected match")
	}
}
