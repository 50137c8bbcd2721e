package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/openshelf/internal/entities"
)

type CategoriesController struct {
	store CatalogStore
}

func NewCategoriesController(store CatalogStore) *CategoriesController {
	return &CategoriesController{store: store}
}

// ListCategories returns all categories with counts; ?includeHierarchy=true
// hydrates parent/children.
// GET /api/categories
func (cc *CategoriesController) ListCategories(c *gin.Context) {
	categories, err := cc.store.ListCategories(c.Query("includeHierarchy") == "true")
	if err != nil {
		respondInternalError(c, err, "list categories")
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// CreateCategory inserts a category, optionally under a parent.
// POST /api/categories
func (cc *CategoriesController) CreateCategory(c *gin.Context) {
	var req struct {
		Name        string  `json:"name"`
		Description string  `json:"description"`
		ParentID    *string `json:"parentId"`
		ImageURL    string  `json:"imageUrl"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if req.Name == "" {
		respondBadRequest(c, "Category name is required")
		return
	}

	category, err := cc.store.CreateCategory(&entities.Category{
		Name:        req.Name,
		Description: req.Description,
		ParentID:    req.ParentID,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		respondInternalError(c, err, "create category")
		return
	}

	respondCreated(c, category)
}
