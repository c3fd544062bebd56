package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/codedocs/snippets-api/internal/core/domain"
)

const (
	booksCollection    = "books"
	chaptersCollection = "chapters"
	sectionsCollection = "sections"
	snippetsCollection = "snippets"
)

// MongoContentRepository persists the content tree. Children carry
// their full ancestry (book/chapter/section IDs) so cascade deletes
// are single-field filters rather than tree walks.
type MongoContentRepository struct {
	books    *mongo.Collection
	chapters *mongo.Collection
	sections *mongo.Collection
	snippets *mongo.Collection
}

func NewContentRepository(db *mongo.Database) *MongoContentRepository {
	return &MongoContentRepository{
		books:    db.Collection(booksCollection),
		chapters: db.Collection(chaptersCollection),
		sections: db.Collection(sectionsCollection),
		snippets: db.Collection(snippetsCollection),
	}
}

type mongoBook struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Published   bool               `bson:"is_published"`
	CreatedBy   string             `bson:"created_by,omitempty"`
	CreatedAt   int64              `bson:"created_at"`
	UpdatedAt   int64              `bson:"updated_at"`
}

type mongoChapter struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	BookID    primitive.ObjectID `bson:"book_id"`
	Title     string             `bson:"title"`
	Order     float64            `bson:"order"`
	Published bool               `bson:"is_published"`
	CreatedAt int64              `bson:"created_at"`
	UpdatedAt int64              `bson:"updated_at"`
}

type mongoSection struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	BookID    primitive.ObjectID `bson:"book_id"`
	ChapterID primitive.ObjectID `bson:"chapter_id"`
	Title     string             `bson:"title"`
	Order     float64            `bson:"order"`
	Published bool               `bson:"is_published"`
	CreatedAt int64              `bson:"created_at"`
	UpdatedAt int64              `bson:"updated_at"`
}

type mongoSnippet struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	BookID      primitive.ObjectID `bson:"book_id"`
	ChapterID   primitive.ObjectID `bson:"chapter_id"`
	SectionID   primitive.ObjectID `bson:"section_id"`
	Title       string             `bson:"title"`
	Code        string             `bson:"code"`
	Language    string             `bson:"language"`
	Explanation string             `bson:"explanation"`
	Order       float64            `bson:"order"`
	Published   bool               `bson:"is_published"`
	CreatedBy   string             `bson:"created_by,omitempty"`
	CreatedAt   int64              `bson:"created_at"`
	UpdatedAt   int64              `bson:"updated_at"`
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrNotFound
	}
	return oid, nil
}

func publishedFilter(base bson.M, publishedOnly bool) bson.M {
	if publishedOnly {
		base["is_published"] = true
	}
	return base
}

// --- Books ---

func (r *MongoContentRepository) CreateBook(ctx context.Context, book *domain.Book) (*domain.Book, error) {
	now := time.Now().UTC()
	doc := mongoBook{
		Title:       book.Title,
		Description: book.Description,
		Published:   book.Published,
		CreatedBy:   book.CreatedBy,
		CreatedAt:   now.Unix(),
		UpdatedAt:   now.Unix(),
	}
	res, err := r.books.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrBookExists
		}
		return nil, fmt.Errorf("insert book: %w", err)
	}
	created := *book
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	created.CreatedAt = now
	created.UpdatedAt = now
	return &created, nil
}

func (r *MongoContentRepository) FindBook(ctx context.Context, id string) (*domain.Book, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var mb mongoBook
	if err := r.books.FindOne(ctx, bson.M{"_id": oid}).Decode(&mb); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find book: %w", err)
	}
	return mb.toDomain(), nil
}

func (r *MongoContentRepository) ListBooks(ctx context.Context, publishedOnly bool) ([]domain.Book, error) {
	cur, err := r.books.Find(ctx, publishedFilter(bson.M{}, publishedOnly),
		options.Find().SetSort(bson.D{{Key: "title", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer cur.Close(ctx)

	var books []domain.Book
	for cur.Next(ctx) {
		var mb mongoBook
		if err := cur.Decode(&mb); err != nil {
			return nil, fmt.Errorf("decode book: %w", err)
		}
		books = append(books, *mb.toDomain())
	}
	return books, cur.Err()
}

func (r *MongoContentRepository) UpdateBook(ctx context.Context, book *domain.Book) (*domain.Book, error) {
	oid, err := parseID(book.ID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	res, err := r.books.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"title":        book.Title,
		"description":  book.Description,
		"is_published": book.Published,
		"updated_at":   now.Unix(),
	}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrBookExists
		}
		return nil, fmt.Errorf("update book: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrNotFound
	}
	updated := *book
	updated.UpdatedAt = now
	return &updated, nil
}

func (r *MongoContentRepository) DeleteBook(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := r.books.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return r.cascade(ctx, bson.M{"book_id": oid}, r.chapters, r.sections, r.snippets)
}

// --- Chapters ---

func (r *MongoContentRepository) CreateChapter(ctx context.Context, chapter *domain.Chapter) (*domain.Chapter, error) {
	bookID, err := parseID(chapter.BookID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	doc := mongoChapter{
		BookID:    bookID,
		Title:     chapter.Title,
		Order:     chapter.Order,
		Published: chapter.Published,
		CreatedAt: now.Unix(),
		UpdatedAt: now.Unix(),
	}
	res, err := r.chapters.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateOrder
		}
		return nil, fmt.Errorf("insert chapter: %w", err)
	}
	created := *chapter
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	created.CreatedAt = now
	created.UpdatedAt = now
	return &created, nil
}

func (r *MongoContentRepository) FindChapter(ctx context.Context, id string) (*domain.Chapter, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var mc mongoChapter
	if err := r.chapters.FindOne(ctx, bson.M{"_id": oid}).Decode(&mc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find chapter: %w", err)
	}
	return mc.toDomain(), nil
}

func (r *MongoContentRepository) ListChapters(ctx context.Context, bookID string, publishedOnly bool) ([]domain.Chapter, error) {
	oid, err := parseID(bookID)
	if err != nil {
		return nil, err
	}
	cur, err := r.chapters.Find(ctx, publishedFilter(bson.M{"book_id": oid}, publishedOnly),
		options.Find().SetSort(bson.D{{Key: "order", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list chapters: %w", err)
	}
	defer cur.Close(ctx)

	var chapters []domain.Chapter
	for cur.Next(ctx) {
		var mc mongoChapter
		if err := cur.Decode(&mc); err != nil {
			return nil, fmt.Errorf("decode chapter: %w", err)
		}
		chapters = append(chapters, *mc.toDomain())
	}
	return chapters, cur.Err()
}

func (r *MongoContentRepository) UpdateChapter(ctx context.Context, chapter *domain.Chapter) (*domain.Chapter, error) {
	oid, err := parseID(chapter.ID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	res, err := r.chapters.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"title":        chapter.Title,
		"order":        chapter.Order,
		"is_published": chapter.Published,
		"updated_at":   now.Unix(),
	}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateOrder
		}
		return nil, fmt.Errorf("update chapter: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrNotFound
	}
	updated := *chapter
	updated.UpdatedAt = now
	return &updated, nil
}

func (r *MongoContentRepository) DeleteChapter(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := r.chapters.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete chapter: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return r.cascade(ctx, bson.M{"chapter_id": oid}, r.sections, r.snippets)
}

// --- Sections ---

func (r *MongoContentRepository) CreateSection(ctx context.Context, section *domain.Section) (*domain.Section, error) {
	bookID, err := parseID(section.BookID)
	if err != nil {
		return nil, err
	}
	chapterID, err := parseID(section.ChapterID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	doc := mongoSection{
		BookID:    bookID,
		ChapterID: chapterID,
		Title:     section.Title,
		Order:     section.Order,
		Published: section.Published,
		CreatedAt: now.Unix(),
		UpdatedAt: now.Unix(),
	}
	res, err := r.sections.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateOrder
		}
		return nil, fmt.Errorf("insert section: %w", err)
	}
	created := *section
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	created.CreatedAt = now
	created.UpdatedAt = now
	return &created, nil
}

func (r *MongoContentRepository) FindSection(ctx context.Context, id string) (*domain.Section, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var ms mongoSection
	if err := r.sections.FindOne(ctx, bson.M{"_id": oid}).Decode(&ms); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find section: %w", err)
	}
	return ms.toDomain(), nil
}

func (r *MongoContentRepository) ListSections(ctx context.Context, chapterID string, publishedOnly bool) ([]domain.Section, error) {
	oid, err := parseID(chapterID)
	if err != nil {
		return nil, err
	}
	cur, err := r.sections.Find(ctx, publishedFilter(bson.M{"chapter_id": oid}, publishedOnly),
		options.Find().SetSort(bson.D{{Key: "order", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	defer cur.Close(ctx)

	var sections []domain.Section
	for cur.Next(ctx) {
		var ms mongoSection
		if err := cur.Decode(&ms); err != nil {
			return nil, fmt.Errorf("decode section: %w", err)
		}
		sections = append(sections, *ms.toDomain())
	}
	return sections, cur.Err()
}

func (r *MongoContentRepository) UpdateSection(ctx context.Context, section *domain.Section) (*domain.Section, error) {
	oid, err := parseID(section.ID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	res, err := r.sections.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"title":        section.Title,
		"order":        section.Order,
		"is_published": section.Published,
		"updated_at":   now.Unix(),
	}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateOrder
		}
		return nil, fmt.Errorf("update section: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrNotFound
	}
	updated := *section
	updated.UpdatedAt = now
	return &updated, nil
}

func (r *MongoContentRepository) DeleteSection(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := r.sections.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete section: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return r.cascade(ctx, bson.M{"section_id": oid}, r.snippets)
}

// --- Snippets ---

func (r *MongoContentRepository) CreateSnippet(ctx context.Context, snippet *domain.Snippet) (*domain.Snippet, error) {
	bookID, err := parseID(snippet.BookID)
	if err != nil {
		return nil, err
	}
	chapterID, err := parseID(snippet.ChapterID)
	if err != nil {
		return nil, err
	}
	sectionID, err := parseID(snippet.SectionID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	doc := mongoSnippet{
		BookID:      bookID,
		ChapterID:   chapterID,
		SectionID:   sectionID,
		Title:       snippet.Title,
		Code:        snippet.Code,
		Language:    snippet.Language,
		Explanation: snippet.Explanation,
		Order:       snippet.Order,
		Published:   snippet.Published,
		CreatedBy:   snippet.CreatedBy,
		CreatedAt:   now.Unix(),
		UpdatedAt:   now.Unix(),
	}
	res, err := r.snippets.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateOrder
		}
		return nil, fmt.Errorf("insert snippet: %w", err)
	}
	created := *snippet
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	created.CreatedAt = now
	created.UpdatedAt = now
	return &created, nil
}

func (r *MongoContentRepository) FindSnippet(ctx context.Context, id string) (*domain.Snippet, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var ms mongoSnippet
	if err := r.snippets.FindOne(ctx, bson.M{"_id": oid}).Decode(&ms); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find snippet: %w", err)
	}
	return ms.toDomain(), nil
}

func (r *MongoContentRepository) ListSnippets(ctx context.Context, sectionID string, publishedOnly bool) ([]domain.Snippet, error) {
	oid, err := parseID(sectionID)
	if err != nil {
		return nil, err
	}
	cur, err := r.snippets.Find(ctx, publishedFilter(bson.M{"section_id": oid}, publishedOnly),
		options.Find().SetSort(bson.D{{Key: "order", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list snippets: %w", err)
	}
	defer cur.Close(ctx)

	var snippets []domain.Snippet
	for cur.Next(ctx) {
		var ms mongoSnippet
		if err := cur.Decode(&ms); err != nil {
			return nil, fmt.Errorf("decode snippet: %w", err)
		}
		snippets = append(snippets, *ms.toDomain())
	}
	return snippets, cur.Err()
}

func (r *MongoContentRepository) UpdateSnippet(ctx context.Context, snippet *domain.Snippet) (*domain.Snippet, error) {
	oid, err := parseID(snippet.ID)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	res, err := r.snippets.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"title":        snippet.Title,
		"code":         snippet.Code,
		"language":     snippet.Language,
		"explanation":  snippet.Explanation,
		"order":        snippet.Order,
		"is_published": snippet.Published,
		"updated_at":   now.Unix(),
	}})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateOrder
		}
		return nil, fmt.Errorf("update snippet: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrNotFound
	}
	updated := *snippet
	updated.UpdatedAt = now
	return &updated, nil
}

func (r *MongoContentRepository) DeleteSnippet(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := r.snippets.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete snippet: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// --- Counts ---

func (r *MongoContentRepository) CountChapters(ctx context.Context, bookID string) (int64, error) {
	return r.countChildren(ctx, r.chapters, "book_id", bookID)
}

func (r *MongoContentRepository) CountSections(ctx context.Context, chapterID string) (int64, error) {
	return r.countChildren(ctx, r.sections, "chapter_id", chapterID)
}

func (r *MongoContentRepository) CountSnippets(ctx context.Context, sectionID string) (int64, error) {
	return r.countChildren(ctx, r.snippets, "section_id", sectionID)
}

func (r *MongoContentRepository) countChildren(ctx context.Context, coll *mongo.Collection, field, parentID string) (int64, error) {
	oid, err := parseID(parentID)
	if err != nil {
		return 0, err
	}
	n, err := coll.CountDocuments(ctx, bson.M{field: oid})
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", coll.Name(), err)
	}
	return n, nil
}

// cascade removes all descendants matching filter from the given collections.
func (r *MongoContentRepository) cascade(ctx context.Context, filter bson.M, colls ...*mongo.Collection) error {
	for _, coll := range colls {
		if _, err := coll.DeleteMany(ctx, filter); err != nil {
			return fmt.Errorf("cascade delete %s: %w", coll.Name(), err)
		}
	}
	return nil
}

func (mb *mongoBook) toDomain() *domain.Book {
	return &domain.Book{
		ID:          mb.ID.Hex(),
		Title:       mb.Title,
		Description: mb.Description,
		Published:   mb.Published,
		CreatedBy:   mb.CreatedBy,
		CreatedAt:   unixToTime(mb.CreatedAt),
		UpdatedAt:   unixToTime(mb.UpdatedAt),
	}
}

func (mc *mongoChapter) toDomain() *domain.Chapter {
	return &domain.Chapter{
		ID:        mc.ID.Hex(),
		BookID:    mc.BookID.Hex(),
		Title:     mc.Title,
		Order:     mc.Order,
		Published: mc.Published,
		CreatedAt: unixToTime(mc.CreatedAt),
		UpdatedAt: unixToTime(mc.UpdatedAt),
	}
}

func (ms *mongoSection) toDomain() *domain.Section {
	return &domain.Section{
		ID:        ms.ID.Hex(),
		BookID:    ms.BookID.Hex(),
		ChapterID: ms.ChapterID.Hex(),
		Title:     ms.Title,
		Order:     ms.Order,
		Published: ms.Published,
		CreatedAt: unixToTime(ms.CreatedAt),
		UpdatedAt: unixToTime(ms.UpdatedAt),
	}
}

func (ms *mongoSnippet) toDomain() *domain.Snippet {
	return &domain.Snippet{
		ID:          ms.ID.Hex(),
		BookID:      ms.BookID.Hex(),
		ChapterID:   ms.ChapterID.Hex(),
		SectionID:   ms.SectionID.Hex(),
		Title:       ms.Title,
		Code:        ms.Code,
		Language:    ms.Language,
		Explanation: ms.Explanation,
		Order:       ms.Order,
		Published:   ms.Published,
		CreatedBy:   ms.CreatedBy,
		CreatedAt:   unixToTime(ms.CreatedAt),
		UpdatedAt:   unixToTime(ms.UpdatedAt),
	}
}
