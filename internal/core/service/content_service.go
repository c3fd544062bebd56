package service

import (
	"context"
	"strings"

	"github.com/codedocs/snippets-api/internal/core/domain"
	"github.com/codedocs/snippets-api/internal/core/ports"
)

// ContentService implements the Book → Chapter → Section → Snippet
// tree. Visibility is role-based: admins see every row, users only
// published ones. Write access is enforced at the routing layer, so
// mutating methods assume an admin caller.
type ContentService struct {
	repo ports.ContentRepository
}

func NewContentService(repo ports.ContentRepository) *ContentService {
	return &ContentService{repo: repo}
}

func publishedOnly(role domain.Role) bool {
	return !role.IsAdmin()
}

// --- Books ---

func (s *ContentService) ListBooks(ctx context.Context, role domain.Role) ([]domain.Book, error) {
	return s.repo.ListBooks(ctx, publishedOnly(role))
}

func (s *ContentService) GetBook(ctx context.Context, role domain.Role, id string) (*ports.BookDetail, error) {
	book, err := s.repo.FindBook(ctx, id)
	if err != nil {
		return nil, err
	}
	if publishedOnly(role) && !book.Published {
		return nil, domain.ErrForbidden
	}
	chapters, err := s.repo.ListChapters(ctx, book.ID, publishedOnly(role))
	if err != nil {
		return nil, err
	}
	count, err := s.repo.CountChapters(ctx, book.ID)
	if err != nil {
		return nil, err
	}
	return &ports.BookDetail{Book: *book, Chapters: chapters, ChaptersCount: count}, nil
}

func (s *ContentService) CreateBook(ctx context.Context, input ports.CreateBookInput) (*domain.Book, error) {
	return s.repo.CreateBook(ctx, &domain.Book{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Published:   input.Published,
		CreatedBy:   input.CreatedBy,
	})
}

func (s *ContentService) UpdateBook(ctx context.Context, id string, input ports.CreateBookInput) (*domain.Book, error) {
	book, err := s.repo.FindBook(ctx, id)
	if err != nil {
		return nil, err
	}
	book.Title = strings.TrimSpace(input.Title)
	book.Description = input.Description
	book.Published = input.Published
	return s.repo.UpdateBook(ctx, book)
}

func (s *ContentService) DeleteBook(ctx context.Context, id string) error {
	if _, err := s.repo.FindBook(ctx, id); err != nil {
		return err
	}
	return s.repo.DeleteBook(ctx, id)
}

// --- Chapters ---

func (s *ContentService) ListChapters(ctx context.Context, role domain.Role, bookID string) ([]domain.Chapter, error) {
	if _, err := s.repo.FindBook(ctx, bookID); err != nil {
		return nil, err
	}
	return s.repo.ListChapters(ctx, bookID, publishedOnly(role))
}

func (s *ContentService) GetChapter(ctx context.Context, role domain.Role, id string) (*ports.ChapterDetail, error) {
	chapter, err := s.repo.FindChapter(ctx, id)
	if err != nil {
		return nil, err
	}
	if publishedOnly(role) && !chapter.Published {
		return nil, domain.ErrForbidden
	}
	sections, err := s.repo.ListSections(ctx, chapter.ID, publishedOnly(role))
	if err != nil {
		return nil, err
	}
	count, err := s.repo.CountSections(ctx, chapter.ID)
	if err != nil {
		return nil, err
	}
	return &ports.ChapterDetail{Chapter: *chapter, Sections: sections, SectionsCount: count}, nil
}

func (s *ContentService) CreateChapter(ctx context.Context, input ports.CreateChapterInput) (*domain.Chapter, error) {
	if input.Order <= 0 {
		return nil, domain.ErrInvalidOrder
	}
	book, err := s.repo.FindBook(ctx, input.BookID)
	if err != nil {
		return nil, err
	}
	return s.repo.CreateChapter(ctx, &domain.Chapter{
		BookID:    book.ID,
		Title:     strings.TrimSpace(input.Title),
		Order:     input.Order,
		Published: input.Published,
	})
}

func (s *ContentService) UpdateChapter(ctx context.Context, id string, input ports.CreateChapterInput) (*domain.Chapter, error) {
	if input.Order <= 0 {
		return nil, domain.ErrInvalidOrder
	}
	chapter, err := s.repo.FindChapter(ctx, id)
	if err != nil {
		return nil, err
	}
	chapter.Title = strings.TrimSpace(input.Title)
	chapter.Order = input.Order
	chapter.Published = input.Published
	return s.repo.UpdateChapter(ctx, chapter)
}

func (s *ContentService) DeleteChapter(ctx context.Context, id string) error {
	if _, err := s.repo.FindChapter(ctx, id); err != nil {
		return err
	}
	return s.repo.DeleteChapter(ctx, id)
}

// --- Sections ---

func (s *ContentService) ListSections(ctx context.Context, role domain.Role, chapterID string) ([]domain.Section, error) {
	if _, err := s.repo.FindChapter(ctx, chapterID); err != nil {
		return nil, err
	}
	return s.repo.ListSections(ctx, chapterID, publishedOnly(role))
}

func (s *ContentService) GetSection(ctx context.Context, role domain.Role, id string) (*ports.SectionDetail, error) {
	section, err := s.repo.FindSection(ctx, id)
	if err != nil {
		return nil, err
	}
	if publishedOnly(role) && !section.Published {
		return nil, domain.ErrForbidden
	}
	snippets, err := s.repo.ListSnippets(ctx, section.ID, publishedOnly(role))
	if err != nil {
		return nil, err
	}
	count, err := s.repo.CountSnippets(ctx, section.ID)
	if err != nil {
		return nil, err
	}
	return &ports.SectionDetail{Section: *section, Snippets: snippets, SnippetsCount: count}, nil
}

func (s *ContentService) CreateSection(ctx context.Context, input ports.CreateSectionInput) (*domain.Section, error) {
	if input.Order <= 0 {
		return nil, domain.ErrInvalidOrder
	}
	chapter, err := s.repo.FindChapter(ctx, input.ChapterID)
	if err != nil {
		return nil, err
	}
	return s.repo.CreateSection(ctx, &domain.Section{
		BookID:    chapter.BookID,
		ChapterID: chapter.ID,
		Title:     strings.TrimSpace(input.Title),
		Order:     input.Order,
		Published: input.Published,
	})
}

func (s *ContentService) UpdateSection(ctx context.Context, id string, input ports.CreateSectionInput) (*domain.Section, error) {
	if input.Order <= 0 {
		return nil, domain.ErrInvalidOrder
	}
	section, err := s.repo.FindSection(ctx, id)
	if err != nil {
		return nil, err
	}
	section.Title = strings.TrimSpace(input.Title)
	section.Order = input.Order
	section.Published = input.Published
	return s.repo.UpdateSection(ctx, section)
}

func (s *ContentService) DeleteSection(ctx context.Context, id string) error {
	if _, err := s.repo.FindSection(ctx, id); err != nil {
		return err
	}
	return s.repo.DeleteSection(ctx, id)
}

// --- Snippets ---

func (s *ContentService) ListSnippets(ctx context.Context, role domain.Role, sectionID string) ([]domain.Snippet, error) {
	if _, err := s.repo.FindSection(ctx, sectionID); err != nil {
		return nil, err
	}
	return s.repo.ListSnippets(ctx, sectionID, publishedOnly(role))
}

func (s *ContentService) GetSnippet(ctx context.Context, role domain.Role, id string) (*domain.Snippet, error) {
	snippet, err := s.repo.FindSnippet(ctx, id)
	if err != nil {
		return nil, err
	}
	if publishedOnly(role) && !snippet.Published {
		return nil, domain.ErrForbidden
	}
	return snippet, nil
}

func (s *ContentService) CreateSnippet(ctx context.Context, input ports.CreateSnippetInput) (*domain.Snippet, error) {
	if input.Order <= 0 {
		return nil, domain.ErrInvalidOrder
	}
	if !domain.ValidSnippetLanguage(input.Language) {
		input.Language = "other"
	}
	section, err := s.repo.FindSection(ctx, input.SectionID)
	if err != nil {
		return nil, err
	}
	return s.repo.CreateSnippet(ctx, &domain.Snippet{
		BookID:      section.BookID,
		ChapterID:   section.ChapterID,
		SectionID:   section.ID,
		Title:       strings.TrimSpace(input.Title),
		Code:        input.Code,
		Language:    input.Language,
		Explanation: input.Explanation,
		Order:       input.Order,
		Published:   input.Published,
		CreatedBy:   input.CreatedBy,
	})
}

func (s *ContentService) UpdateSnippet(ctx context.Context, id string, input ports.CreateSnippetInput) (*domain.Snippet, error) {
	if input.Order <= 0 {
		return nil, domain.ErrInvalidOrder
	}
	if !domain.ValidSnippetLanguage(input.Language) {
		input.Language = "other"
	}
	snippet, err := s.repo.FindSnippet(ctx, id)
	if err != nil {
		return nil, err
	}
	snippet.Title = strings.TrimSpace(input.Title)
	snippet.Code = input.Code
	snippet.Language = input.Language
	snippet.Explanation = input.Explanation
	snippet.Order = input.Order
	snippet.Published = input.Published
	return s.repo.UpdateSnippet(ctx, snippet)
}

func (s *ContentService) DeleteSnippet(ctx context.Context, id string) error {
	if _, err := s.repo.FindSnippet(ctx, id); err != nil {
		return err
	}
	return s.repo.DeleteSnippet(ctx, id)
}
