package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/codedocs/snippets-api/internal/core/ports"
)

// ContentHandler serves the Book → Chapter → Section → Snippet tree.
// Reads are open to any authenticated user (the service filters
// unpublished rows for non-admins); writes sit behind AdminOnly in the
// router.
type ContentHandler struct {
	service ports.ContentService
}

func NewContentHandler(service ports.ContentService) *ContentHandler {
	return &ContentHandler{service: service}
}

// --- Books ---

// ListBooks returns all books visible to the caller.
//
// @Summary      List books
// @Tags         content
// @Produce      json
// @Security     CookieAuth
// @Success      200  {array}   domain.Book
// @Failure      401  {object}  map[string]string
// @Router       /api/books [get]
func (h *ContentHandler) ListBooks(c echo.Context) error {
	_, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	books, err := h.service.ListBooks(c.Request().Context(), role)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, books)
}

// GetBook returns one book with its chapters.
//
// @Summary      Get a book
// @Tags         content
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      string  true  "Book ID"
// @Success      200  {object}  bookDetailResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/books/{id} [get]
func (h *ContentHandler) GetBook(c echo.Context) error {
	_, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	detail, err := h.service.GetBook(c.Request().Context(), role, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookDetail(detail))
}

// CreateBook creates a book. Admin only.
//
// @Summary      Create a book
// @Tags         content
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      bookRequest  true  "Book fields"
// @Success      201   {object}  domain.Book
// @Failure      400   {object}  map[string]string
// @Router       /api/books [post]
func (h *ContentHandler) CreateBook(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req bookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	book, err := h.service.CreateBook(c.Request().Context(), ports.CreateBookInput{
		Title:       req.Title,
		Description: req.Description,
		Published:   req.IsPublished,
		CreatedBy:   userID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, book)
}

// UpdateBook replaces a book's writable fields. Admin only.
//
// @Summary      Update a book
// @Tags         content
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      string       true  "Book ID"
// @Param        body  body      bookRequest  true  "Book fields"
// @Success      200   {object}  domain.Book
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/books/{id} [put]
func (h *ContentHandler) UpdateBook(c echo.Context) error {
	var req bookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	book, err := h.service.UpdateBook(c.Request().Context(), c.Param("id"), ports.CreateBookInput{
		Title:       req.Title,
		Description: req.Description,
		Published:   req.IsPublished,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, book)
}

// DeleteBook deletes a book and everything under it. Admin only.
//
// @Summary      Delete a book
// @Tags         content
// @Security     CookieAuth
// @Param        id  path  string  true  "Book ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /api/books/{id} [delete]
func (h *ContentHandler) DeleteBook(c echo.Context) error {
	if err := h.service.DeleteBook(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// --- Chapters ---

// ListChapters returns the chapters of a book, ordered.
//
// @Summary      List chapters of a book
// @Tags         content
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      string  true  "Book ID"
// @Success      200  {array}   domain.Chapter
// @Failure      404  {object}  map[string]string
// @Router       /api/books/{id}/chapters [get]
func (h *ContentHandler) ListChapters(c echo.Context) error {
	_, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	chapters, err := h.service.ListChapters(c.Request().Context(), role, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, chapters)
}

// GetChapter returns one chapter with its sections.
//
// @Summary      Get a chapter
// @Tags         content
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      string  true  "Chapter ID"
// @Success      200  {object}  chapterDetailResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/chapters/{id} [get]
func (h *ContentHandler) GetChapter(c echo.Context) error {
	_, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	detail, err := h.service.GetChapter(c.Request().Context(), role, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toChapterDetail(detail))
}

// CreateChapter creates a chapter under a book. Admin only.
//
// @Summary      Create a chapter
// @Tags         content
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      chapterRequest  true  "Chapter fields"
// @Success      201   {object}  domain.Chapter
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/chapters [post]
func (h *ContentHandler) CreateChapter(c echo.Context) error {
	var req chapterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	chapter, err := h.service.CreateChapter(c.Request().Context(), ports.CreateChapterInput{
		BookID:    req.Book,
		Title:     req.Title,
		Order:     req.Order,
		Published: req.IsPublished,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, chapter)
}

// UpdateChapter replaces a chapter's writable fields. Admin only.
//
// @Summary      Update a chapter
// @Tags         content
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      string          true  "Chapter ID"
// @Param        body  body      chapterRequest  true  "Chapter fields"
// @Success      200   {object}  domain.Chapter
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/chapters/{id} [put]
func (h *ContentHandler) UpdateChapter(c echo.Context) error {
	var req chapterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	chapter, err := h.service.UpdateChapter(c.Request().Context(), c.Param("id"), ports.CreateChapterInput{
		BookID:    req.Book,
		Title:     req.Title,
		Order:     req.Order,
		Published: req.IsPublished,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, chapter)
}

// DeleteChapter deletes a chapter and its descendants. Admin only.
//
// @Summary      Delete a chapter
// @Tags         content
// @Security     CookieAuth
// @Param        id  path  string  true  "Chapter ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /api/chapters/{id} [delete]
func (h *ContentHandler) DeleteChapter(c echo.Context) error {
	if err := h.service.DeleteChapter(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// --- Sections ---

// ListSections returns the sections of a chapter, ordered.
//
// @Summary      List sections of a chapter
// @Tags         content
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      string  true  "Chapter ID"
// @Success      200  {array}   domain.Section
// @Failure      404  {object}  map[string]string
// @Router       /api/chapters/{id}/sections [get]
func (h *ContentHandler) ListSections(c echo.Context) error {
	_, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	sections, err := h.service.ListSections(c.Request().Context(), role, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sections)
}

// GetSection returns one section with its snippets.
//
// @Summary      Get a section
// @Tags         content
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      string  true  "Section ID"
// @Success      200  {object}  sectionDetailResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/sections/{id} [get]
func (h *ContentHandler) GetSection(c echo.Context) error {
	_, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	detail, err := h.service.GetSection(c.Request().Context(), role, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSectionDetail(detail))
}

// CreateSection creates a section under a chapter. Admin only.
//
// @Summary      Create a section
// @Tags         content
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      sectionRequest  true  "Section fields"
// @Success      201   {object}  domain.Section
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/sections [post]
func (h *ContentHandler) CreateSection(c echo.Context) error {
	var req sectionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	section, err := h.service.CreateSection(c.Request().Context(), ports.CreateSectionInput{
		ChapterID: req.Chapter,
		Title:     req.Title,
		Order:     req.Order,
		Published: req.IsPublished,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, section)
}

// UpdateSection replaces a section's writable fields. Admin only.
//
// @Summary      Update a section
// @Tags         content
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      string          true  "Section ID"
// @Param        body  body      sectionRequest  true  "Section fields"
// @Success      200   {object}  domain.Section
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/sections/{id} [put]
func (h *ContentHandler) UpdateSection(c echo.Context) error {
	var req sectionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	section, err := h.service.UpdateSection(c.Request().Context(), c.Param("id"), ports.CreateSectionInput{
		ChapterID: req.Chapter,
		Title:     req.Title,
		Order:     req.Order,
		Published: req.IsPublished,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, section)
}

// DeleteSection deletes a section and its snippets. Admin only.
//
// @Summary      Delete a section
// @Tags         content
// @Security     CookieAuth
// @Param        id  path  string  true  "Section ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /api/sections/{id} [delete]
func (h *ContentHandler) DeleteSection(c echo.Context) error {
	if err := h.service.DeleteSection(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// --- Snippets ---

// ListSnippets returns the snippets of a section, ordered.
//
// @Summary      List snippets of a section
// @Tags         content
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      string  true  "Section ID"
// @Success      200  {array}   domain.Snippet
// @Failure      404  {object}  map[string]string
// @Router       /api/sections/{id}/snippets [get]
func (h *ContentHandler) ListSnippets(c echo.Context) error {
	_, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	snippets, err := h.service.ListSnippets(c.Request().Context(), role, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, snippets)
}

// GetSnippet returns a single snippet.
//
// @Summary      Get a snippet
// @Tags         content
// @Produce      json
// @Security     CookieAuth
// @Param        id   path      string  true  "Snippet ID"
// @Success      200  {object}  domain.Snippet
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/snippets/{id} [get]
func (h *ContentHandler) GetSnippet(c echo.Context) error {
	_, role, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	snippet, err := h.service.GetSnippet(c.Request().Context(), role, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, snippet)
}

// CreateSnippet creates a snippet under a section. Admin only.
//
// @Summary      Create a snippet
// @Tags         content
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      snippetRequest  true  "Snippet fields"
// @Success      201   {object}  domain.Snippet
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/snippets [post]
func (h *ContentHandler) CreateSnippet(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req snippetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	snippet, err := h.service.CreateSnippet(c.Request().Context(), ports.CreateSnippetInput{
		SectionID:   req.Section,
		Title:       req.Title,
		Code:        req.Code,
		Language:    req.Language,
		Explanation: req.Explanation,
		Order:       req.Order,
		Published:   req.IsPublished,
		CreatedBy:   userID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, snippet)
}

// UpdateSnippet replaces a snippet's writable fields. Admin only.
//
// @Summary      Update a snippet
// @Tags         content
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        id    path      string          true  "Snippet ID"
// @Param        body  body      snippetRequest  true  "Snippet fields"
// @Success      200   {object}  domain.Snippet
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/snippets/{id} [put]
func (h *ContentHandler) UpdateSnippet(c echo.Context) error {
	var req snippetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	snippet, err := h.service.UpdateSnippet(c.Request().Context(), c.Param("id"), ports.CreateSnippetInput{
		SectionID:   req.Section,
		Title:       req.Title,
		Code:        req.Code,
		Language:    req.Language,
		Explanation: req.Explanation,
		Order:       req.Order,
		Published:   req.IsPublished,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, snippet)
}

// DeleteSnippet deletes a snippet. Admin only.
//
// @Summary      Delete a snippet
// @Tags         content
// @Security     CookieAuth
// @Param        id  path  string  true  "Snippet ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /api/snippets/{id} [delete]
func (h *ContentHandler) DeleteSnippet(c echo.Context) error {
	if err := h.service.DeleteSnippet(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
