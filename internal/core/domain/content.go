package domain

import (
	"errors"
	"time"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrBookExists     = errors.New("book title already exists")
	ErrDuplicateOrder = errors.New("order already taken within parent")
	ErrInvalidOrder   = errors.New("order must be greater than 0")
)

// snippetLanguages is the closed set of languages a snippet may declare.
var snippetLanguages = map[string]struct{}{
	"python": {}, "javascript": {}, "typescript": {}, "rust": {},
	"go": {}, "java": {}, "cpp": {}, "html": {}, "css": {},
	"sql": {}, "bash": {}, "other": {},
}

// ValidSnippetLanguage reports whether lang is an accepted language tag.
func ValidSnippetLanguage(lang string) bool {
	_, ok := snippetLanguages[lang]
	return ok
}

// Book is the root of the content tree.
type Book struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Published   bool      `json:"is_published"`
	CreatedBy   string    `json:"created_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Chapter belongs to a book. Order is a float so new chapters can be
// inserted between existing ones (1.0, 1.5, 2.0) without renumbering.
type Chapter struct {
	ID        string    `json:"id"`
	BookID    string    `json:"book"`
	Title     string    `json:"title"`
	Order     float64   `json:"order"`
	Published bool      `json:"is_published"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Section belongs to a chapter. BookID is denormalised so cascade
// deletes and tree queries stay single-field filters.
type Section struct {
	ID        string    `json:"id"`
	BookID    string    `json:"-"`
	ChapterID string    `json:"chapter"`
	Title     string    `json:"title"`
	Order     float64   `json:"order"`
	Published bool      `json:"is_published"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Snippet is a leaf: a piece of code plus its explanation.
type Snippet struct {
	ID          string    `json:"id"`
	BookID      string    `json:"-"`
	ChapterID   string    `json:"-"`
	SectionID   string    `json:"section"`
	Title       string    `json:"title"`
	Code        string    `json:"code"`
	Language    string    `json:"language"`
	Explanation string    `json:"explanation"`
	Order       float64   `json:"order"`
	Published   bool      `json:"is_published"`
	CreatedBy   string    `json:"created_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
