package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/openshelf/openshelf/internal/database/engagement"
)

type ReadingProgressController struct {
	store EngagementStore
}

func NewReadingProgressController(store EngagementStore) *ReadingProgressController {
	return &ReadingProgressController{store: store}
}

// GetProgress returns either one (userId, bookId) progress row or all of a
// user's rows when bookId is omitted.
// GET /api/reading-progress?userId=...[&bookId=...]
func (rc *ReadingProgressController) GetProgress(c *gin.Context) {
	userID, ok := requireQuery(c, "userId", "User ID is required")
	if !ok {
		return
	}

	bookID := c.Query("bookId")
	if bookID == "" {
		progress, err := rc.store.ListProgress(userID)
		if err != nil {
			respondInternalError(c, err, "list reading progress")
			return
		}
		c.JSON(http.StatusOK, progress)
		return
	}

	progress, err := rc.store.GetProgress(userID, bookID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondNotFound(c, "reading progress")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get reading progress")
		return
	}

	c.JSON(http.StatusOK, progress)
}

// SaveProgress creates or updates the progress row. readingTime is a delta
// in minutes and accumulates server-side.
// POST /api/reading-progress
func (rc *ReadingProgressController) SaveProgress(c *gin.Context) {
	var req struct {
		UserID          string  `json:"userId"`
		BookID          string  `json:"bookId"`
		CurrentPage     int     `json:"currentPage"`
		TotalPages      int     `json:"totalPages"`
		ProgressPercent float64 `json:"progressPercent"`
		ReadingTime     int     `json:"readingTime"`
		Bookmarks       string  `json:"bookmarks"`
		Notes           string  `json:"notes"`
		IsCompleted     bool    `json:"isCompleted"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if req.UserID == "" || req.BookID == "" {
		respondBadRequest(c, "User ID and book ID are required")
		return
	}

	progress, err := rc.store.UpsertProgress(req.UserID, req.BookID, engagement.ProgressUpdate{
		CurrentPage:     req.CurrentPage,
		TotalPages:      req.TotalPages,
		ProgressPercent: req.ProgressPercent,
		ReadingTime:     req.ReadingTime,
		Bookmarks:       req.Bookmarks,
		Notes:           req.Notes,
		IsCompleted:     req.IsCompleted,
	})
	if err != nil {
		respondInternalError(c, err, "save reading progress")
		return
	}

	c.JSON(http.StatusOK, progress)
}
