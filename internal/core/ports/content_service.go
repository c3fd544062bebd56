package ports

import (
	"context"

	"github.com/codedocs/snippets-api/internal/core/domain"
)

// CreateBookInput carries the writable fields of a book.
type CreateBookInput struct {
	Title       string
	Description string
	Published   bool
	CreatedBy   string
}

type CreateChapterInput struct {
	BookID    string
	Title     string
	Order     float64
	Published bool
}

type CreateSectionInput struct {
	ChapterID string
	Title     string
	Order     float64
	Published bool
}

type CreateSnippetInput struct {
	SectionID   string
	Title       string
	Code        string
	Language    string
	Explanation string
	Order       float64
	Published   bool
	CreatedBy   string
}

// BookDetail is a book plus its chapter summaries, mirroring the
// sidebar-oriented detail payloads of the web client. ChaptersCount is
// the unfiltered child count, so a user-role reader can tell content
// exists even when it is not yet published.
type BookDetail struct {
	Book          domain.Book
	Chapters      []domain.Chapter
	ChaptersCount int64
}

type ChapterDetail struct {
	Chapter       domain.Chapter
	Sections      []domain.Section
	SectionsCount int64
}

type SectionDetail struct {
	Section       domain.Section
	Snippets      []domain.Snippet
	SnippetsCount int64
}

// ContentService exposes the content tree with role-based visibility:
// admins see everything, users only published rows. Writes are
// admin-only and enforced at the routing layer.
type ContentService interface {
	ListBooks(ctx context.Context, role domain.Role) ([]domain.Book, error)
	GetBook(ctx context.Context, role domain.Role, id string) (*BookDetail, error)
	CreateBook(ctx context.Context, input CreateBookInput) (*domain.Book, error)
	UpdateBook(ctx context.Context, id string, input CreateBookInput) (*domain.Book, error)
	DeleteBook(ctx context.Context, id string) error

	ListChapters(ctx context.Context, role domain.Role, bookID string) ([]domain.Chapter, error)
	GetChapter(ctx context.Context, role domain.Role, id string) (*ChapterDetail, error)
	CreateChapter(ctx context.Context, input CreateChapterInput) (*domain.Chapter, error)
	UpdateChapter(ctx context.Context, id string, input CreateChapterInput) (*domain.Chapter, error)
	DeleteChapter(ctx context.Context, id string) error

	ListSections(ctx context.Context, role domain.Role, chapterID string) ([]domain.Section, error)
	GetSection(ctx context.Context, role domain.Role, id string) (*SectionDetail, error)
	CreateSection(ctx context.Context, input CreateSectionInput) (*domain.Section, error)
	UpdateSection(ctx context.Context, id string, input CreateSectionInput) (*domain.Section, error)
	DeleteSection(ctx context.Context, id string) error

	ListSnippets(ctx context.Context, role domain.Role, sectionID string) ([]domain.Snippet, error)
	GetSnippet(ctx context.Context, role domain.Role, id string) (*domain.Snippet, error)
	CreateSnippet(ctx context.Context, input CreateSnippetInput) (*domain.Snippet, error)
	UpdateSnippet(ctx context.Context, id string, input CreateSnippetInput) (*domain.Snippet, error)
	DeleteSnippet(ctx context.Context, id string) error
}
