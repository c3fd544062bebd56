package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/codedocs/snippets-api/internal/api/middleware"
	"github.com/codedocs/snippets-api/internal/core/domain"
	"github.com/codedocs/snippets-api/internal/core/ports"
)

type stubContentService struct {
	listBooksFn     func(ctx context.Context, role domain.Role) ([]domain.Book, error)
	getBookFn       func(ctx context.Context, role domain.Role, id string) (*ports.BookDetail, error)
	createBookFn    func(ctx context.Context, input ports.CreateBookInput) (*domain.Book, error)
	createSnippetFn func(ctx context.Context, input ports.CreateSnippetInput) (*domain.Snippet, error)
	deleteBookFn    func(ctx context.Context, id string) error
}

func (s *stubContentService) ListBooks(ctx context.Context, role domain.Role) ([]domain.Book, error) {
	return s.listBooksFn(ctx, role)
}

func (s *stubContentService) GetBook(ctx context.Context, role domain.Role, id string) (*ports.BookDetail, error) {
	return s.getBookFn(ctx, role, id)
}

func (s *stubContentService) CreateBook(ctx context.Context, input ports.CreateBookInput) (*domain.Book, error) {
	return s.createBookFn(ctx, input)
}

func (s *stubContentService) UpdateBook(context.Context, string, ports.CreateBookInput) (*domain.Book, error) {
	return nil, domain.ErrNotFound
}

func (s *stubContentService) DeleteBook(ctx context.Context, id string) error {
	return s.deleteBookFn(ctx, id)
}

func (s *stubContentService) ListChapters(context.Context, domain.Role, string) ([]domain.Chapter, error) {
	return nil, domain.ErrNotFound
}

func (s *stubContentService) GetChapter(context.Context, domain.Role, string) (*ports.ChapterDetail, error) {
	return nil, domain.ErrNotFound
}

func (s *stubContentService) CreateChapter(context.Context, ports.CreateChapterInput) (*domain.Chapter, error) {
	return nil, domain.ErrNotFound
}

func (s *stubContentService) UpdateChapter(context.Context, string, ports.CreateChapterInput) (*domain.Chapter, error) {
	return nil, domain.ErrNotFound
}

func (s *stubContentService) DeleteChapter(context.Context, string) error {
	return domain.ErrNotFound
}

func (s *stubContentService) ListSections(context.Context, domain.Role, string) ([]domain.Section, error) {
	return nil, domain.ErrNotFound
}

func (s *stubContentService) GetSection(context.Context, domain.Role, string) (*ports.SectionDetail, error) {
	return nil, domain.ErrNotFound
}

func (s *stubContentService) CreateSection(context.Context, ports.CreateSectionInput) (*domain.Section, error) {
	return nil, domain.ErrNotFound
}

func (s *stubContentService) UpdateSection(context.Context, string, ports.CreateSectionInput) (*domain.Section, error) {
	return nil, domain.ErrNotFound
}

func (s *stubContentService) DeleteSection(context.Context, string) error {
	return domain.ErrNotFound
}

func (s *stubContentService) ListSnippets(context.Context, domain.Role, string) ([]domain.Snippet, error) {
	return nil, domain.ErrNotFound
}

func (s *stubContentService) GetSnippet(context.Context, domain.Role, string) (*domain.Snippet, error) {
	return nil, domain.ErrNotFound
}

func (s *stubContentService) CreateSnippet(ctx context.Context, input ports.CreateSnippetInput) (*domain.Snippet, error) {
	return s.createSnippetFn(ctx, input)
}

func (s *stubContentService) UpdateSnippet(context.Context, string, ports.CreateSnippetInput) (*domain.Snippet, error) {
	return nil, domain.ErrNotFound
}

func (s *stubContentService) DeleteSnippet(context.Context, string) error {
	return domain.ErrNotFound
}

func newContentTestContext(t *testing.T, method, path, body string, role domain.Role) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.CtxUserID, "caller-1")
	c.Set(middleware.CtxRole, role)
	return c, rec
}

func TestContentHandler_ListBooks_PassesRole(t *testing.T) {
	stub := &stubContentService{
		listBooksFn: func(_ context.Context, role domain.Role) ([]domain.Book, error) {
			if role != domain.RoleUser {
				t.Fatalf("expected user role from context, got %s", role)
			}
			return []domain.Book{{ID: "b1", Title: "Go Patterns", Published: true}}, nil
		},
	}
	h := NewContentHandler(stub)

	c, rec := newContentTestContext(t, http.MethodGet, "/api/books", "", domain.RoleUser)

	if err := h.ListBooks(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Go Patterns") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestContentHandler_ListBooks_NoIdentity(t *testing.T) {
	h := NewContentHandler(&stubContentService{})

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	err := h.ListBooks(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError without identity, got %v", err)
	}
}

func TestContentHandler_GetBook_Detail(t *testing.T) {
	stub := &stubContentService{
		getBookFn: func(_ context.Context, _ domain.Role, id string) (*ports.BookDetail, error) {
			if id != "b1" {
				t.Fatalf("unexpected id: %s", id)
			}
			return &ports.BookDetail{
				Book:          domain.Book{ID: "b1", Title: "Go Patterns"},
				Chapters:      []domain.Chapter{{ID: "c1", BookID: "b1", Title: "Basics", Order: 1}},
				ChaptersCount: 2,
			}, nil
		},
	}
	h := NewContentHandler(stub)

	c, rec := newContentTestContext(t, http.MethodGet, "/api/books/b1", "", domain.RoleUser)
	c.SetParamNames("id")
	c.SetParamValues("b1")

	if err := h.GetBook(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["chapters_count"] != float64(2) {
		t.Fatalf("expected chapters_count 2, got %v", resp["chapters_count"])
	}
	chapters, ok := resp["chapters"].([]any)
	if !ok || len(chapters) != 1 {
		t.Fatalf("expected one chapter in detail, got %v", resp["chapters"])
	}
}

func TestContentHandler_GetBook_Forbidden(t *testing.T) {
	stub := &stubContentService{
		getBookFn: func(context.Context, domain.Role, string) (*ports.BookDetail, error) {
			return nil, domain.ErrForbidden
		},
	}
	h := NewContentHandler(stub)

	c, _ := newContentTestContext(t, http.MethodGet, "/api/books/b1", "", domain.RoleUser)
	c.SetParamNames("id")
	c.SetParamValues("b1")

	if err := h.GetBook(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden passed through, got %v", err)
	}
}

func TestContentHandler_CreateBook(t *testing.T) {
	stub := &stubContentService{
		createBookFn: func(_ context.Context, input ports.CreateBookInput) (*domain.Book, error) {
			if input.CreatedBy != "caller-1" {
				t.Fatalf("expected creator from context, got %q", input.CreatedBy)
			}
			return &domain.Book{ID: "b1", Title: input.Title, Published: input.Published}, nil
		},
	}
	h := NewContentHandler(stub)

	c, rec := newContentTestContext(t, http.MethodPost, "/api/books",
		`{"title":"Go Patterns","is_published":true}`, domain.RoleAdmin)

	if err := h.CreateBook(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestContentHandler_CreateBook_MissingTitle(t *testing.T) {
	stub := &stubContentService{
		createBookFn: func(context.Context, ports.CreateBookInput) (*domain.Book, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	}
	h := NewContentHandler(stub)

	c, _ := newContentTestContext(t, http.MethodPost, "/api/books", `{"description":"no title"}`, domain.RoleAdmin)

	err := h.CreateBook(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestContentHandler_CreateSnippet_InvalidOrder(t *testing.T) {
	stub := &stubContentService{
		createSnippetFn: func(context.Context, ports.CreateSnippetInput) (*domain.Snippet, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	}
	h := NewContentHandler(stub)

	c, _ := newContentTestContext(t, http.MethodPost, "/api/snippets",
		`{"section":"s1","title":"Append","code":"x","order":-1}`, domain.RoleAdmin)

	err := h.CreateSnippet(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestContentHandler_DeleteBook(t *testing.T) {
	var deleted string
	stub := &stubContentService{
		deleteBookFn: func(_ context.Context, id string) error {
			deleted = id
			return nil
		},
	}
	h := NewContentHandler(stub)

	c, rec := newContentTestContext(t, http.MethodDelete, "/api/books/b1", "", domain.RoleAdmin)
	c.SetParamNames("id")
	c.SetParamValues("b1")

	if err := h.DeleteBook(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if deleted != "b1" {
		t.Fatalf("unexpected deleted id: %q", deleted)
	}
}
