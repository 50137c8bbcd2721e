package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/openshelf/internal/database/catalog"
	"github.com/openshelf/openshelf/internal/entities"
)

type AuthorsController struct {
	store CatalogStore
}

func NewAuthorsController(store CatalogStore) *AuthorsController {
	return &AuthorsController{store: store}
}

// ListAuthors returns authors matching an optional name search.
// GET /api/authors
func (ac *AuthorsController) ListAuthors(c *gin.Context) {
	page, limit := parsePageQuery(c, 20)

	authors, total, err := ac.store.ListAuthors(catalog.AuthorFilter{
		Search: c.Query("search"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		respondInternalError(c, err, "list authors")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"authors":    authors,
		"pagination": newPagination(page, limit, total),
	})
}

// CreateAuthor inserts an author.
// POST /api/authors
func (ac *AuthorsController) CreateAuthor(c *gin.Context) {
	var req struct {
		Name        string     `json:"name"`
		Biography   string     `json:"biography"`
		BirthDate   *time.Time `json:"birthDate"`
		Nationality string     `json:"nationality"`
		Website     string     `json:"website"`
		ImageURL    string     `json:"imageUrl"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if req.Name == "" {
		respondBadRequest(c, "Author name is required")
		return
	}

	author := &entities.Author{
		Name:        req.Name,
		Biography:   req.Biography,
		BirthDate:   req.BirthDate,
		Nationality: req.Nationality,
		Website:     req.Website,
		ImageURL:    req.ImageURL,
	}
	if err := ac.store.CreateAuthor(author); err != nil {
		respondInternalError(c, err, "create author")
		return
	}

	respondCreated(c, author)
}
