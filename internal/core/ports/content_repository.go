package ports

import (
	"context"

	"github.com/codedocs/snippets-api/internal/core/domain"
)

// ContentRepository persists the Book → Chapter → Section → Snippet
// tree. Creates and updates return domain.ErrDuplicateOrder when the
// (parent, order) pair is already taken, and deletes cascade to all
// descendants.
type ContentRepository interface {
	CreateBook(ctx context.Context, book *domain.Book) (*domain.Book, error)
	FindBook(ctx context.Context, id string) (*domain.Book, error)
	ListBooks(ctx context.Context, publishedOnly bool) ([]domain.Book, error)
	UpdateBook(ctx context.Context, book *domain.Book) (*domain.Book, error)
	DeleteBook(ctx context.Context, id string) error

	CreateChapter(ctx context.Context, chapter *domain.Chapter) (*domain.Chapter, error)
	FindChapter(ctx context.Context, id string) (*domain.Chapter, error)
	ListChapters(ctx context.Context, bookID string, publishedOnly bool) ([]domain.Chapter, error)
	UpdateChapter(ctx context.Context, chapter *domain.Chapter) (*domain.Chapter, error)
	DeleteChapter(ctx context.Context, id string) error

	CreateSection(ctx context.Context, section *domain.Section) (*domain.Section, error)
	FindSection(ctx context.Context, id string) (*domain.Section, error)
	ListSections(ctx context.Context, chapterID string, publishedOnly bool) ([]domain.Section, error)
	UpdateSection(ctx context.Context, section *domain.Section) (*domain.Section, error)
	DeleteSection(ctx context.Context, id string) error

	CreateSnippet(ctx context.Context, snippet *domain.Snippet) (*domain.Snippet, error)
	FindSnippet(ctx context.Context, id string) (*domain.Snippet, error)
	ListSnippets(ctx context.Context, sectionID string, publishedOnly bool) ([]domain.Snippet, error)
	UpdateSnippet(ctx context.Context, snippet *domain.Snippet) (*domain.Snippet, error)
	DeleteSnippet(ctx context.Context, id string) error

	CountChapters(ctx context.Context, bookID string) (int64, error)
	CountSections(ctx context.Context, chapterID string) (int64, error)
	CountSnippets(ctx context.Context, sectionID string) (int64, error)
}
