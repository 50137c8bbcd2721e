package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/openshelf/openshelf/internal/database/circulation"
)

type LibraryCardController struct {
	store CirculationStore
}

func NewLibraryCardController(store CirculationStore) *LibraryCardController {
	return &LibraryCardController{store: store}
}

// GetCard returns the user's library card.
// GET /api/library-card?userId=...
func (lc *LibraryCardController) GetCard(c *gin.Context) {
	userID, ok := requireQuery(c, "userId", "User ID is required")
	if !ok {
		return
	}

	card, err := lc.store.GetCardByUserID(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondNotFound(c, "library card")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get library card")
		return
	}

	c.JSON(http.StatusOK, card)
}

// IssueCard creates a card for a user who does not have one yet.
// POST /api/library-card
func (lc *LibraryCardController) IssueCard(c *gin.Context) {
	var req struct {
		UserID         string `json:"userId"`
		MaxBorrowLimit int    `json:"maxBorrowLimit"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if req.UserID == "" {
		respondBadRequest(c, "User ID is required")
		return
	}

	card, err := lc.store.IssueCard(req.UserID, req.MaxBorrowLimit)
	if errors.Is(err, circulation.ErrCardExists) {
		respondBadRequest(c, "Library card already exists for this user")
		return
	}
	if err != nil {
		respondInternalError(c, err, "issue library card")
		return
	}

	respondCreated(c, card)
}

// UpdateCard patches the borrow limit and/or active flag.
// PATCH /api/library-card
func (lc *LibraryCardController) UpdateCard(c *gin.Context) {
	var req struct {
		UserID         string `json:"userId"`
		MaxBorrowLimit *int   `json:"maxBorrowLimit"`
		IsActive       *bool  `json:"isActive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if req.UserID == "" {
		respondBadRequest(c, "User ID is required")
		return
	}

	card, err := lc.store.UpdateCard(req.UserID, circulation.CardUpdate{
		MaxBorrowLimit: req.MaxBorrowLimit,
		IsActive:       req.IsActive,
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondNotFound(c, "library card")
		return
	}
	if err != nil {
		respondInternalError(c, err, "update library card")
		return
	}

	c.JSON(http.StatusOK, card)
}
