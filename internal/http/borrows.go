package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/openshelf/openshelf/internal/database/circulation"
	"github.com/openshelf/openshelf/internal/entities"
)

// CirculationStore defines database operations for borrows, fines and cards.
type CirculationStore interface {
	CreateBorrow(userID, bookID string) (*entities.Borrow, error)
	ReturnBorrow(id string) (*entities.Borrow, error)
	ListBorrows(userID string) ([]entities.Borrow, error)
	CreateFine(fine *entities.Fine) (*entities.Fine, error)
	UpdateFineStatus(id string, status entities.FineStatus, waivedBy string) (*entities.Fine, error)
	ListFines(f circulation.FineFilter) ([]entities.Fine, int64, error)
	IssueCard(userID string, maxBorrowLimit int) (*entities.LibraryCard, error)
	GetCardByUserID(userID string) (*entities.LibraryCard, error)
	UpdateCard(userID string, update circulation.CardUpdate) (*entities.LibraryCard, error)
}

type BorrowsController struct {
	store CirculationStore
}

func NewBorrowsController(store CirculationStore) *BorrowsController {
	return &BorrowsController{store: store}
}

// ListBorrows returns all of a user's borrows, newest first.
// GET /api/borrows?userId=...
func (bc *BorrowsController) ListBorrows(c *gin.Context) {
	userID, ok := requireQuery(c, "userId", "User ID is required")
	if !ok {
		return
	}

	borrows, err := bc.store.ListBorrows(userID)
	if err != nil {
		respondInternalError(c, err, "list borrows")
		return
	}

	c.JSON(http.StatusOK, borrows)
}

// CreateBorrow opens a loan for (userId, bookId).
// POST /api/borrows
func (bc *BorrowsController) CreateBorrow(c *gin.Context) {
	var req struct {
		UserID string `json:"userId"`
		BookID string `json:"bookId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if req.UserID == "" || req.BookID == "" {
		respondBadRequest(c, "Missing required fields")
		return
	}

	borrow, err := bc.store.CreateBorrow(req.UserID, req.BookID)
	if errors.Is(err, circulation.ErrBorrowActive) {
		respondBadRequest(c, err.Error())
		return
	}
	if err != nil {
		respondInternalError(c, err, "create borrow")
		return
	}

	respondCreated(c, borrow)
}

// ReturnBorrow transitions a borrow to RETURNED.
// POST /api/borrows/:id/return
func (bc *BorrowsController) ReturnBorrow(c *gin.Context) {
	borrow, err := bc.store.ReturnBorrow(c.Param("id"))
	if errors.Is(err, circulation.ErrBorrowAlreadyReturned) {
		respondBadRequest(c, err.Error())
		return
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondNotFound(c, "borrow")
		return
	}
	if err != nil {
		respondInternalError(c, err, "return borrow")
		return
	}

	c.JSON(http.StatusOK, borrow)
}
