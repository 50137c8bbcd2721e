package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/openshelf/openshelf/internal/database/engagement"
	"github.com/openshelf/openshelf/internal/entities"
)

type WishlistController struct {
	store EngagementStore
}

func NewWishlistController(store EngagementStore) *WishlistController {
	return &WishlistController{store: store}
}

// ListWishlist returns the user's wishlist, highest priority first.
// GET /api/wishlist?userId=...
func (wc *WishlistController) ListWishlist(c *gin.Context) {
	userID, ok := requireQuery(c, "userId", "User ID is required")
	if !ok {
		return
	}

	items, err := wc.store.ListWishlist(userID)
	if err != nil {
		respondInternalError(c, err, "list wishlist")
		return
	}

	c.JSON(http.StatusOK, items)
}

// AddToWishlist saves a book for later.
// POST /api/wishlist
func (wc *WishlistController) AddToWishlist(c *gin.Context) {
	var req struct {
		UserID   string `json:"userId"`
		BookID   string `json:"bookId"`
		Priority int    `json:"priority"`
		Notes    string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if req.UserID == "" || req.BookID == "" {
		respondBadRequest(c, "User ID and book ID are required")
		return
	}

	item, err := wc.store.AddToWishlist(&entities.WishlistItem{
		UserID:   req.UserID,
		BookID:   req.BookID,
		Priority: req.Priority,
		Notes:    req.Notes,
	})
	if errors.Is(err, engagement.ErrAlreadyInWishlist) {
		respondBadRequest(c, err.Error())
		return
	}
	if err != nil {
		respondInternalError(c, err, "add to wishlist")
		return
	}

	respondCreated(c, item)
}

// RemoveFromWishlist drops the (userId, bookId) entry.
// DELETE /api/wishlist
func (wc *WishlistController) RemoveFromWishlist(c *gin.Context) {
	userID, ok := requireQuery(c, "userId", "User ID and book ID are required")
	if !ok {
		return
	}
	bookID, ok := requireQuery(c, "bookId", "User ID and book ID are required")
	if !ok {
		return
	}

	err := wc.store.RemoveFromWishlist(userID, bookID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondNotFound(c, "wishlist item")
		return
	}
	if err != nil {
		respondInternalError(c, err, "remove from wishlist")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Book removed from wishlist"})
}
