package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/openshelf/internal/database/engagement"
	"github.com/openshelf/openshelf/internal/entities"
)

// EngagementStore defines database operations for reviews, wishlists and
// reading progress.
type EngagementStore interface {
	CreateReview(review *entities.Review) (*entities.Review, error)
	ListReviews(f engagement.ReviewFilter) ([]entities.Review, int64, error)
	AddToWishlist(item *entities.WishlistItem) (*entities.WishlistItem, error)
	RemoveFromWishlist(userID, bookID string) error
	ListWishlist(userID string) ([]entities.WishlistItem, error)
	UpsertProgress(userID, bookID string, update engagement.ProgressUpdate) (*entities.ReadingProgress, error)
	GetProgress(userID, bookID string) (*entities.ReadingProgress, error)
	ListProgress(userID string) ([]entities.ReadingProgress, error)
}

type ReviewsController struct {
	store EngagementStore
}

func NewReviewsController(store EngagementStore) *ReviewsController {
	return &ReviewsController{store: store}
}

// ListReviews returns public reviews for a book, plus the caller's own when
// userId is passed.
// GET /api/reviews?bookId=...
func (rc *ReviewsController) ListReviews(c *gin.Context) {
	page, limit := parsePageQuery(c, 10)

	reviews, total, err := rc.store.ListReviews(engagement.ReviewFilter{
		BookID: c.Query("bookId"),
		UserID: c.Query("userId"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		respondInternalError(c, err, "list reviews")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews":    reviews,
		"pagination": newPagination(page, limit, total),
	})
}

// CreateReview posts a review and refreshes the book's rating aggregate.
// POST /api/reviews
func (rc *ReviewsController) CreateReview(c *gin.Context) {
	var req struct {
		UserID   string `json:"userId"`
		BookID   string `json:"bookId"`
		Rating   int    `json:"rating"`
		Title    string `json:"title"`
		Content  string `json:"content"`
		IsPublic *bool  `json:"isPublic"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if req.UserID == "" || req.BookID == "" || req.Rating == 0 {
		respondBadRequest(c, "User ID, book ID, and rating are required")
		return
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	review, err := rc.store.CreateReview(&entities.Review{
		UserID:   req.UserID,
		BookID:   req.BookID,
		Rating:   req.Rating,
		Title:    req.Title,
		Content:  req.Content,
		IsPublic: isPublic,
	})
	switch {
	case errors.Is(err, engagement.ErrAlreadyReviewed),
		errors.Is(err, engagement.ErrInvalidRating):
		respondBadRequest(c, err.Error())
		return
	case err != nil:
		respondInternalError(c, err, "create review")
		return
	}

	respondCreated(c, review)
}
