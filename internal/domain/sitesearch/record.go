// Package sitesearch derives the flat search index from the site manifest
// and defines the substring match predicate used by the query engine.
package sitesearch

import (
	"strings"

	"github.com/neuroscape/nicsite/internal/domain/manifest"
)

// Record is one searchable entry, derived from a manifest page.
// Never mutated after construction; the whole index is rebuilt on reload.
type Record struct {
	title       string
	description string
	file        string
	category    string
	keywords    []string
}

// NewRecord creates a Record with precomputed lowercase keyword tokens.
func NewRecord(title, description, file, category string) Record {
	return Record{
		title:       title,
		description: description,
		file:        file,
		category:    category,
		keywords:    tokenize(title, description),
	}
}

// Title returns the page title.
func (r *Record) Title() string { return r.title }

// Description returns the page description.
func (r *Record) Description() string { return r.description }

// File returns the target URL of the page.
func (r *Record) File() string { return r.file }

// Category returns the owning category name.
func (r *Record) Category() string { return r.category }

// Keywords returns the deduplicated lowercase tokens of title and description.
func (r *Record) Keywords() []string { return r.keywords }

// Matches reports whether the record matches a normalized (trimmed,
// lowercased) query: substring on title, description, or any keyword.
// Keyword matching is substring too, so "scan" hits keyword "scanner".
func (r *Record) Matches(query string) bool {
	if strings.Contains(strings.ToLower(r.title), query) {
		return true
	}
	if strings.Contains(strings.ToLower(r.description), query) {
		return true
	}
	for _, kw := range r.keywords {
		if strings.Contains(kw, query) {
			return true
		}
	}
	return false
}

// Build flattens a manifest into the search index, one record per page,
// in category-then-page order. An empty manifest yields an empty index.
func Build(m manifest.Manifest) []Record {
	records := make([]Record, 0, m.PageCount())
	for _, cat := range m.Categories() {
		for _, page := range cat.Pages() {
			records = append(records, NewRecord(page.Title(), page.Description(), page.File(), cat.Name()))
		}
	}
	return records
}

// tokenize splits the given texts on whitespace, lowercases the tokens,
// and drops duplicates while preserving first-seen order.
func tokenize(texts ...string) []string {
	var tokens []string
	seen := make(map[string]struct{})
	for _, text := range texts {
		for _, tok := range strings.Fields(strings.ToLower(text)) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			tokens = append(tokens, tok)
		}
	}
	return tokens
}
