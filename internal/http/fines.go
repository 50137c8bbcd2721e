package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/openshelf/openshelf/internal/database/circulation"
	"github.com/openshelf/openshelf/internal/entities"
)

type FinesController struct {
	store CirculationStore
}

func NewFinesController(store CirculationStore) *FinesController {
	return &FinesController{store: store}
}

// ListFines returns fines filtered by user and/or status.
// GET /api/fines
func (fc *FinesController) ListFines(c *gin.Context) {
	page, limit := parsePageQuery(c, 20)

	fines, total, err := fc.store.ListFines(circulation.FineFilter{
		UserID: c.Query("userId"),
		Status: c.Query("status"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		respondInternalError(c, err, "list fines")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"fines":      fines,
		"pagination": newPagination(page, limit, total),
	})
}

// CreateFine records a PENDING fine for a user.
// POST /api/fines
func (fc *FinesController) CreateFine(c *gin.Context) {
	var req struct {
		UserID      string  `json:"userId"`
		BorrowID    *string `json:"borrowId"`
		Amount      any     `json:"amount"`
		Reason      string  `json:"reason"`
		Description string  `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	amount, ok := parseAmount(req.Amount)
	if req.UserID == "" || !ok || req.Reason == "" {
		respondBadRequest(c, "User ID, amount, and reason are required")
		return
	}

	fine, err := fc.store.CreateFine(&entities.Fine{
		UserID:      req.UserID,
		BorrowID:    req.BorrowID,
		Amount:      amount,
		Reason:      entities.FineReason(req.Reason),
		Description: req.Description,
	})
	if err != nil {
		respondInternalError(c, err, "create fine")
		return
	}

	respondCreated(c, fine)
}

// UpdateFine moves a PENDING fine to PAID or WAIVED.
// PATCH /api/fines
func (fc *FinesController) UpdateFine(c *gin.Context) {
	var req struct {
		FineID   string `json:"fineId"`
		Status   string `json:"status"`
		WaivedBy string `json:"waivedBy"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if req.FineID == "" || req.Status == "" {
		respondBadRequest(c, "Fine ID and status are required")
		return
	}

	fine, err := fc.store.UpdateFineStatus(req.FineID, entities.FineStatus(req.Status), req.WaivedBy)
	switch {
	case errors.Is(err, circulation.ErrFineNotPending),
		errors.Is(err, circulation.ErrInvalidFineStatus):
		respondBadRequest(c, err.Error())
		return
	case errors.Is(err, gorm.ErrRecordNotFound):
		respondNotFound(c, "fine")
		return
	case err != nil:
		respondInternalError(c, err, "update fine")
		return
	}

	c.JSON(http.StatusOK, fine)
}

// parseAmount accepts both JSON numbers and numeric strings, mirroring the
// loose payloads admin tooling sends.
func parseAmount(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, v > 0
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		return parsed, err == nil && parsed > 0
	default:
		return 0, false
	}
}
