package handler

import (
	"github.com/codedocs/snippets-api/internal/core/domain"
	"github.com/codedocs/snippets-api/internal/core/ports"
)

type bookRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description"`
	IsPublished bool   `json:"is_published"`
}

type chapterRequest struct {
	Book        string  `json:"book" validate:"required"`
	Title       string  `json:"title" validate:"required,max=200"`
	Order       float64 `json:"order" validate:"required,gt=0"`
	IsPublished bool    `json:"is_published"`
}

type sectionRequest struct {
	Chapter     string  `json:"chapter" validate:"required"`
	Title       string  `json:"title" validate:"required,max=200"`
	Order       float64 `json:"order" validate:"required,gt=0"`
	IsPublished bool    `json:"is_published"`
}

type snippetRequest struct {
	Section     string  `json:"section" validate:"required"`
	Title       string  `json:"title" validate:"required,max=200"`
	Code        string  `json:"code" validate:"required"`
	Language    string  `json:"language"`
	Explanation string  `json:"explanation"`
	Order       float64 `json:"order" validate:"required,gt=0"`
	IsPublished bool    `json:"is_published"`
}

type bookDetailResponse struct {
	domain.Book
	Chapters      []domain.Chapter `json:"chapters"`
	ChaptersCount int64            `json:"chapters_count"`
}

type chapterDetailResponse struct {
	domain.Chapter
	Sections      []domain.Section `json:"sections"`
	SectionsCount int64            `json:"sections_count"`
}

type sectionDetailResponse struct {
	domain.Section
	Snippets      []domain.Snippet `json:"snippets"`
	SnippetsCount int64            `json:"snippets_count"`
}

func toBookDetail(d *ports.BookDetail) bookDetailResponse {
	chapters := d.Chapters
	if chapters == nil {
		chapters = []domain.Chapter{}
	}
	return bookDetailResponse{Book: d.Book, Chapters: chapters, ChaptersCount: d.ChaptersCount}
}

func toChapterDetail(d *ports.ChapterDetail) chapterDetailResponse {
	sections := d.Sections
	if sections == nil {
		sections = []domain.Section{}
	}
	return chapterDetailResponse{Chapter: d.Chapter, Sections: sections, SectionsCount: d.SectionsCount}
}

func toSectionDetail(d *ports.SectionDetail) sectionDetailResponse {
	snippets := d.Snippets
	if snippets == nil {
		snippets = []domain.Snippet{}
	}
	return sectionDetailResponse{Section: d.Section, Snippets: snippets, SnippetsCount: d.SnippetsCount}
}
