package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshelf/openshelf/internal/database/circulation"
	"github.com/openshelf/openshelf/internal/entities"
)

func TestFinesController_CreateFine(t *testing.T) {
	t.Run("creates a pending fine", func(t *testing.T) {
		db, cleanup := setupTestDB(t)
		defer cleanup()

		user := createTestUser(t, db, "fined@example.com")

		controller := NewFinesController(circulation.NewRepository(db.DB, 14))
		router := gin.New()
		router.POST("/api/fines", controller.CreateFine)

		w := doJSON(t, router, "POST", "/api/fines", gin.H{
			"userId":      user.ID,
			"amount":      7.5,
			"reason":      "DAMAGED",
			"description": "Water damage on cover",
		})
		assert.Equal(t, http.StatusCreated, w.Code)

		var fine entities.Fine
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fine))
		assert.Equal(t, entities.FineStatusPending, fine.Status)
		assert.Equal(t, 7.5, fine.Amount)
	})

	t.Run("accepts a numeric string amount", func(t *testing.T) {
		db, cleanup := setupTestDB(t)
		defer cleanup()

		user := createTestUser(t, db, "fined@example.com")

		controller := NewFinesController(circulation.NewRepository(db.DB, 14))
		router := gin.New()
		router.POST("/api/fines", controller.CreateFine)

		w := doJSON(t, router, "POST", "/api/fines", gin.H{
			"userId": user.ID,
			"amount": "3.25",
			"reason": "LOST",
		})
		assert.Equal(t, http.StatusCreated, w.Code)

		var fine entities.Fine
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fine))
		assert.Equal(t, 3.25, fine.Amount)
	})

	t.Run("rejects a missing amount", func(t *testing.T) {
		db, cleanup := setupTestDB(t)
		defer cleanup()

		controller := NewFinesController(circulation.NewRepository(db.DB, 14))
		router := gin.New()
		router.POST("/api/fines", controller.CreateFine)

		w := doJSON(t, router, "POST", "/api/fines", gin.H{
			"userId": "u",
			"reason": "OTHER",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestFinesController_UpdateFine(t *testing.T) {
	t.Run("pays a pending fine once", func(t *testing.T) {
		db, cleanup := setupTestDB(t)
		defer cleanup()

		user := createTestUser(t, db, "fined@example.com")
		repo := circulation.NewRepository(db.DB, 14)
		fine, err := repo.CreateFine(&entities.Fine{
			UserID: user.ID, Amount: 5, Reason: entities.FineReasonOverdue,
		})
		require.NoError(t, err)

		controller := NewFinesController(repo)
		router := gin.New()
		router.PATCH("/api/fines", controller.UpdateFine)

		paid := doJSON(t, router, "PATCH", "/api/fines", gin.H{
			"fineId": fine.ID, "status": "PAID",
		})
		assert.Equal(t, http.StatusOK, paid.Code)

		var updated entities.Fine
		require.NoError(t, json.Unmarshal(paid.Body.Bytes(), &updated))
		assert.Equal(t, entities.FineStatusPaid, updated.Status)
		assert.NotNil(t, updated.PaidDate)

		again := doJSON(t, router, "PATCH", "/api/fines", gin.H{
			"fineId": fine.ID, "status": "WAIVED",
		})
		assert.Equal(t, http.StatusBadRequest, again.Code)
	})

	t.Run("rejects an unknown target status", func(t *testing.T) {
		db, cleanup := setupTestDB(t)
		defer cleanup()

		user := createTestUser(t, db, "fined@example.com")
		repo := circulation.NewRepository(db.DB, 14)
		fine, err := repo.CreateFine(&entities.Fine{
			UserID: user.ID, Amount: 5, Reason: entities.FineReasonOverdue,
		})
		require.NoError(t, err)

		controller := NewFinesController(repo)
		router := gin.New()
		router.PATCH("/api/fines", controller.UpdateFine)

		w := doJSON(t, router, "PATCH", "/api/fines", gin.H{
			"fineId": fine.ID, "status": "FORGIVEN",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("404 for an unknown fine", func(t *testing.T) {
		db, cleanup := setupTestDB(t)
		defer cleanup()

		controller := NewFinesController(circulation.NewRepository(db.DB, 14))
		router := gin.New()
		router.PATCH("/api/fines", controller.UpdateFine)

		w := doJSON(t, router, "PATCH", "/api/fines", gin.H{
			"fineId": "nope", "status": "PAID",
		})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestFinesController_ListFines(t *testing.T) {
	t.Run("filters by status", func(t *testing.T) {
		db, cleanup := setupTestDB(t)
		defer cleanup()

		user := createTestUser(t, db, "fined@example.com")
		repo := circulation.NewRepository(db.DB, 14)
		pending, err := repo.CreateFine(&entities.Fine{
			UserID: user.ID, Amount: 2, Reason: entities.FineReasonOverdue,
		})
		require.NoError(t, err)
		paid, err := repo.CreateFine(&entities.Fine{
			UserID: user.ID, Amount: 4, Reason: entities.FineReasonOther,
		})
		require.NoError(t, err)
		_, err = repo.UpdateFineStatus(paid.ID, entities.FineStatusPaid, "")
		require.NoError(t, err)

		controller := NewFinesController(repo)
		router := gin.New()
		router.GET("/api/fines", controller.ListFines)

		w := doJSON(t, router, "GET", "/api/fines?status=PENDING", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var response struct {
			Fines      []entities.Fine `json:"fines"`
			Pagination Pagination      `json:"pagination"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.Len(t, response.Fines, 1)
		assert.Equal(t, pending.ID, response.Fines[0].ID)
	})
}
