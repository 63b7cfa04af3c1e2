// Package manifest models the static site structure document:
// an ordered tree of navigation categories, each holding pages.
package manifest

import (
	"encoding/json"
	"fmt"
)

// Page is a single navigable site page (immutable value object).
type Page struct {
	title       string
	description string
	file        string
}

// NewPage creates a Page.
func NewPage(title, description, file string) Page {
	return Page{title: title, description: description, file: file}
}

// Title returns the page title.
func (p *Page) Title() string { return p.title }

// Description returns the page description.
func (p *Page) Description() string { return p.description }

// File returns the target URL of the page.
func (p *Page) File() string { return p.file }

// Category is a named ordered group of pages.
type Category struct {
	name  string
	pages []Page
}

// NewCategory creates a Category.
func NewCategory(name string, pages []Page) Category {
	return Category{name: name, pages: pages}
}

// Name returns the category name.
func (c *Category) Name() string { return c.name }

// Pages returns the pages in manifest order.
func (c *Category) Pages() []Page { return c.pages }

// Manifest is the site navigation tree, loaded once per process
// and replaced wholesale on reload.
type Manifest struct {
	categories []Category
}

// New creates a Manifest from ordered categories.
func New(categories []Category) Manifest {
	return Manifest{categories: categories}
}

// Empty returns a manifest with no categories.
func Empty() Manifest {
	return Manifest{}
}

// Categories returns the categories in manifest order.
func (m *Manifest) Categories() []Category { return m.categories }

// PageCount returns the total number of pages across all categories.
func (m *Manifest) PageCount() int {
	n := 0
	for i := range m.categories {
		n += len(m.categories[i].pages)
	}
	return n
}

// IsEmpty reports whether the manifest holds no categories.
func (m *Manifest) IsEmpty() bool { return len(m.categories) == 0 }

// Wire format of site_structure.json.
type pageDTO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	File        string `json:"file"`
}

type categoryDTO struct {
	Category string    `json:"category"`
	Pages    []pageDTO `json:"pages"`
}

type manifestDTO struct {
	Navigation struct {
		MainMenu []categoryDTO `json:"main_menu"`
	} `json:"navigation"`
}

// Parse decodes a site_structure.json document into a Manifest,
// preserving category and page order.
func Parse(data []byte) (Manifest, error) {
	var dto manifestDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return Manifest{}, fmt.Errorf("parse site manifest: %w", err)
	}

	categories := make([]Category, 0, len(dto.Navigation.MainMenu))
	for _, c := range dto.Navigation.MainMenu {
		pages := make([]Page, 0, len(c.Pages))
		for _, p := range c.Pages {
			pages = append(pages, NewPage(p.Title, p.Description, p.File))
		}
		categories = append(categories, NewCategory(c.Category, pages))
	}
	return New(categories), nil
}
