// Package catalog provides database operations for books, authors and
// categories, including the transactional multi-relation book creation.
package catalog

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/openshelf/openshelf/internal/entities"
)

// AuthorRef links an existing author to a book being created.
type AuthorRef struct {
	AuthorID string `json:"authorId"`
	Role     string `json:"role"`
}

// BookFilter is the typed listing filter built at the HTTP boundary.
// SortBy is validated against bookSortColumns before touching the query.
type BookFilter struct {
	Search     string
	CategoryID string
	GenreID    string
	AuthorID   string
	Format     string
	Featured   bool
	SortBy     string
	SortOrder  string
	Page       int
	Limit      int
}

// AuthorFilter filters author listings.
type AuthorFilter struct {
	Search string
	Page   int
	Limit  int
}

// bookSortColumns maps API sort keys to real columns. Anything not listed
// falls back to created_at.
var bookSortColumns = map[string]string{
	"createdAt":     "created_at",
	"title":         "title",
	"publishedDate": "published_date",
	"averageRating": "average_rating",
	"pageCount":     "page_count",
}

// Repository handles catalog database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new catalog repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateBook inserts a book together with its author, genre and tag join rows
// in one transaction. A failure on any join insert rolls the whole thing back
// so no partial book is ever visible.
func (r *Repository) CreateBook(book *entities.Book, authors []AuthorRef, genreIDs, tagIDs []string) (*entities.Book, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(book).Error; err != nil {
			return fmt.Errorf("create book: %w", err)
		}

		if len(authors) > 0 {
			rows := make([]entities.BookAuthor, 0, len(authors))
			for _, a := range authors {
				role := a.Role
				if role == "" {
					role = "Author"
				}
				rows = append(rows, entities.BookAuthor{
					BookID:   book.ID,
					AuthorID: a.AuthorID,
					Role:     role,
				})
			}
			if err := tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("attach authors: %w", err)
			}
		}

		if len(genreIDs) > 0 {
			rows := make([]entities.BookGenre, 0, len(genreIDs))
			for _, id := range genreIDs {
				rows = append(rows, entities.BookGenre{BookID: book.ID, GenreID: id})
			}
			if err := tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("attach genres: %w", err)
			}
		}

		if len(tagIDs) > 0 {
			rows := make([]entities.BookTag, 0, len(tagIDs))
			for _, id := range tagIDs {
				rows = append(rows, entities.BookTag{BookID: book.ID, TagID: id})
			}
			if err := tx.Create(&rows).Error; err != nil {
				return fmt.Errorf("attach tags: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.GetBookByID(book.ID)
}

// GetBookByID returns a book with all its relations hydrated.
func (r *Repository) GetBookByID(id string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.
		Preload("BookAuthors.Author").
		Preload("BookGenres.Genre").
		Preload("BookTags.Tag").
		Preload("Category").
		Preload("Publisher").
		Preload("Series").
		First(&book, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// ListBooks returns available books matching the filter, the total match
// count, and the full category list for building filter UIs.
func (r *Repository) ListBooks(f BookFilter) ([]entities.Book, int64, []entities.Category, error) {
	var total int64
	if err := r.buildBookQuery(f).Count(&total).Error; err != nil {
		return nil, 0, nil, err
	}

	column, ok := bookSortColumns[f.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if strings.EqualFold(f.SortOrder, "asc") {
		direction = "ASC"
	}

	query := r.buildBookQuery(f).
		Preload("BookAuthors.Author").
		Preload("BookGenres.Genre").
		Preload("BookTags.Tag").
		Preload("Category").
		Preload("Publisher").
		Preload("Series").
		Order(column + " " + direction)

	if f.Limit > 0 {
		query = query.Limit(f.Limit)
		if f.Page > 1 {
			query = query.Offset((f.Page - 1) * f.Limit)
		}
	}

	var books []entities.Book
	if err := query.Find(&books).Error; err != nil {
		return nil, 0, nil, err
	}

	var categories []entities.Category
	if err := r.db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, 0, nil, err
	}

	return books, total, categories, nil
}

func (r *Repository) buildBookQuery(f BookFilter) *gorm.DB {
	query := r.db.Model(&entities.Book{}).Where("is_available = ?", true)

	if f.Search != "" {
		pattern := "%" + strings.ToLower(f.Search) + "%"
		byAuthorName := r.db.Table("book_authors").
			Select("book_authors.book_id").
			Joins("JOIN authors ON authors.id = book_authors.author_id").
			Where("LOWER(authors.name) LIKE ?", pattern)
		query = query.Where(
			r.db.Where("LOWER(title) LIKE ?", pattern).
				Or("LOWER(subtitle) LIKE ?", pattern).
				Or("LOWER(description) LIKE ?", pattern).
				Or("LOWER(isbn13) LIKE ?", pattern).
				Or("LOWER(isbn10) LIKE ?", pattern).
				Or("books.id IN (?)", byAuthorName),
		)
	}

	if f.CategoryID != "" {
		query = query.Where("category_id = ?", f.CategoryID)
	}
	if f.GenreID != "" {
		query = query.Where("books.id IN (?)",
			r.db.Table("book_genres").Select("book_id").Where("genre_id = ?", f.GenreID))
	}
	if f.AuthorID != "" {
		query = query.Where("books.id IN (?)",
			r.db.Table("book_authors").Select("book_id").Where("author_id = ?", f.AuthorID))
	}
	if f.Featured {
		query = query.Where("is_featured = ?", true)
	}
	if f.Format != "" {
		query = query.Where("format = ?", f.Format)
	}

	return query
}

// CreateAuthor inserts an author.
func (r *Repository) CreateAuthor(author *entities.Author) error {
	return r.db.Create(author).Error
}

// ListAuthors returns authors matching a case-insensitive name search,
// paginated, with their books hydrated and a per-author book count.
func (r *Repository) ListAuthors(f AuthorFilter) ([]entities.Author, int64, error) {
	query := r.db.Model(&entities.Author{})
	if f.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(f.Search)+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Preload("BookAuthors.Book").Order("name ASC")
	if f.Limit > 0 {
		query = query.Limit(f.Limit)
		if f.Page > 1 {
			query = query.Offset((f.Page - 1) * f.Limit)
		}
	}

	var authors []entities.Author
	if err := query.Find(&authors).Error; err != nil {
		return nil, 0, err
	}

	for i := range authors {
		authors[i].BookCount = int64(len(authors[i].BookAuthors))
	}

	return authors, total, nil
}

// CreateCategory inserts a category and returns it with its parent hydrated.
func (r *Repository) CreateCategory(category *entities.Category) (*entities.Category, error) {
	if err := r.db.Create(category).Error; err != nil {
		return nil, err
	}

	var created entities.Category
	if err := r.db.Preload("Parent").First(&created, "id = ?", category.ID).Error; err != nil {
		return nil, err
	}
	return &created, nil
}

// ListCategories returns all categories ordered by name with per-category
// book and child counts. Parent/children are hydrated when requested.
func (r *Repository) ListCategories(includeHierarchy bool) ([]entities.Category, error) {
	query := r.db.Order("name ASC")
	if includeHierarchy {
		query = query.Preload("Parent").Preload("Children")
	}

	var categories []entities.Category
	if err := query.Find(&categories).Error; err != nil {
		return nil, err
	}

	bookCounts, err := r.groupCount(entities.Book{}.TableName(), "category_id")
	if err != nil {
		return nil, err
	}
	childCounts, err := r.groupCount(entities.Category{}.TableName(), "parent_id")
	if err != nil {
		return nil, err
	}

	for i := range categories {
		categories[i].BookCount = bookCounts[categories[i].ID]
		categories[i].ChildCount = childCounts[categories[i].ID]
	}

	return categories, nil
}

func (r *Repository) groupCount(table, column string) (map[string]int64, error) {
	type row struct {
		Key string
		N   int64
	}
	var rows []row
	err := r.db.Table(table).
		Select(column+" AS key, COUNT(*) AS n").
		Where(column+" IS NOT NULL").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, rw := range rows {
		counts[rw.Key] = rw.N
	}
	return counts, nil
}
