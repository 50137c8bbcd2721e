package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/openshelf/internal/database/catalog"
	"github.com/openshelf/openshelf/internal/entities"
)

// CatalogStore defines database operations for books, authors and categories.
type CatalogStore interface {
	CreateBook(book *entities.Book, authors []catalog.AuthorRef, genreIDs, tagIDs []string) (*entities.Book, error)
	ListBooks(f catalog.BookFilter) ([]entities.Book, int64, []entities.Category, error)
	CreateAuthor(author *entities.Author) error
	ListAuthors(f catalog.AuthorFilter) ([]entities.Author, int64, error)
	CreateCategory(category *entities.Category) (*entities.Category, error)
	ListCategories(includeHierarchy bool) ([]entities.Category, error)
}

type BooksController struct {
	store CatalogStore
}

func NewBooksController(store CatalogStore) *BooksController {
	return &BooksController{store: store}
}

// ListBooks returns available books matching the query filters.
// GET /api/books
func (bc *BooksController) ListBooks(c *gin.Context) {
	page, limit := parsePageQuery(c, 12)

	filter := catalog.BookFilter{
		Search:     c.Query("search"),
		CategoryID: c.Query("categoryId"),
		GenreID:    c.Query("genreId"),
		AuthorID:   c.Query("authorId"),
		Format:     c.Query("format"),
		Featured:   c.Query("featured") == "true",
		SortBy:     c.DefaultQuery("sortBy", "createdAt"),
		SortOrder:  c.DefaultQuery("sortOrder", "desc"),
		Page:       page,
		Limit:      limit,
	}

	books, total, categories, err := bc.store.ListBooks(filter)
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"books":      books,
		"pagination": newPagination(page, limit, total),
		"categories": categories,
	})
}

type createBookRequest struct {
	Title         string              `json:"title"`
	Subtitle      string              `json:"subtitle"`
	Description   string              `json:"description"`
	ISBN13        string              `json:"isbn13"`
	ISBN10        string              `json:"isbn10"`
	PublishedDate *time.Time          `json:"publishedDate"`
	PageCount     int                 `json:"pageCount"`
	Language      string              `json:"language"`
	Format        string              `json:"format"`
	FileSize      int64               `json:"fileSize"`
	CoverURL      string              `json:"coverUrl"`
	FileURL       string              `json:"fileUrl"`
	PreviewURL    string              `json:"previewUrl"`
	UploadedBy    string              `json:"uploadedBy"`
	CategoryID    *string             `json:"categoryId"`
	PublisherID   *string             `json:"publisherId"`
	SeriesID      *string             `json:"seriesId"`
	SeriesNumber  int                 `json:"seriesNumber"`
	Authors       []catalog.AuthorRef `json:"authors"`
	Genres        []string            `json:"genres"`
	Tags          []string            `json:"tags"`
	IsFeatured    bool                `json:"isFeatured"`
}

// CreateBook inserts a book with its relations in one transaction.
// POST /api/books
func (bc *BooksController) CreateBook(c *gin.Context) {
	var req createBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	if req.Title == "" || req.FileURL == "" || req.UploadedBy == "" {
		respondBadRequest(c, "Title, file URL, and uploader are required")
		return
	}

	language := req.Language
	if language == "" {
		language = "en"
	}
	format := entities.BookFormat(req.Format)
	if format == "" {
		format = entities.FormatPDF
	}

	book := &entities.Book{
		Title:         req.Title,
		Subtitle:      req.Subtitle,
		Description:   req.Description,
		ISBN13:        req.ISBN13,
		ISBN10:        req.ISBN10,
		PublishedDate: req.PublishedDate,
		PageCount:     req.PageCount,
		Language:      language,
		Format:        format,
		FileSize:      req.FileSize,
		CoverURL:      req.CoverURL,
		FileURL:       req.FileURL,
		PreviewURL:    req.PreviewURL,
		UploadedBy:    req.UploadedBy,
		CategoryID:    req.CategoryID,
		PublisherID:   req.PublisherID,
		SeriesID:      req.SeriesID,
		SeriesNumber:  req.SeriesNumber,
		IsAvailable:   true,
		IsFeatured:    req.IsFeatured,
	}

	created, err := bc.store.CreateBook(book, req.Authors, req.Genres, req.Tags)
	if err != nil {
		respondInternalError(c, err, "create book")
		return
	}

	respondCreated(c, created)
}
