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

func TestBorrowsController_CreateBorrow(t *testing.T) {
	t.Run("creates a borrow with a due date", func(t *testing.T) {
		db, cleanup := setupTestDB(t)
		defer cleanup()

		user := createTestUser(t, db, "reader@example.com")
		book := createTestBook(t, db, "Meditations", user.ID)

		controller := NewBorrowsController(circulation.NewRepository(db.DB, 14))
		router := gin.New()
		router.POST("/api/borrows", controller.CreateBorrow)

		w := doJSON(t, router, "POST", "/api/borrows", gin.H{
			"userId": user.ID,
			"bookId": book.ID,
		})

		assert.Equal(t, http.StatusCreated, w.Code)

		var borrow entities.Borrow
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &borrow))
		assert.Equal(t, entities.BorrowStatusBorrowed, borrow.Status)
		assert.True(t, borrow.DueDate.After(borrow.BorrowDate))
	})

	t.Run("rejects a second active borrow of the same book", func(t *testing.T) {
		db, cleanup := setupTestDB(t)
		defer cleanup()

		user := createTestUser(t, db, "reader@example.com")
		book := createTestBook(t, db, "Meditations", user.ID)

		controller := NewBorrowsController(circulation.NewRepository(db.DB, 14))
		router := gin.New()
		router.POST("/api/borrows", controller.CreateBorrow)

		first := doJSON(t, router, "POST", "/api/borrows", gin.H{"userId": user.ID, "bookId": book.ID})
		require.Equal(t, http.StatusCreated, first.Code)

		second := doJSON(t, router, "POST", "/api/borrows", gin.H{"userId": user.ID, "bookId": book.ID})
		assert.Equal(t, http.StatusBadRequest, second.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(second.Body.Bytes(), &resp))
		assert.Equal(t, "book is already borrowed by this user", resp.Error)
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		db, cleanup := setupTestDB(t)
		defer cleanup()

		controller := NewBorrowsController(circulation.NewRepository(db.DB, 14))
		router := gin.New()
		router.POST("/api/borrows", controller.CreateBorrow)

		w := doJSON(t, router, "POST", "/api/borrows", gin.H{"userId": "some-user"})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Missing required fields", resp.Error)
	})
}

func TestBorrowsController_ReturnBorrow(t *testing.T) {
	t.Run("returns a borrowed book", func(t *testing.T) {
		db, cleanup := setupTestDB(t)
		defer cleanup()

		user := createTestUser(t, db, "reader@example.com")
		book := createTestBook(t, db, "Meditations", user.ID)

		repo := circulation.NewRepository(db.DB, 14)
		borrow, err := repo.CreateBorrow(user.ID, book.ID)
		require.NoError(t, err)

		controller := NewBorrowsController(repo)
		router := gin.New()
		router.POST("/api/borrows/:id/return", controller.ReturnBorrow)

		w := doJSON(t, router, "POST", "/api/borrows/"+borrow.ID+"/return", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var returned entities.Borrow
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &returned))
		assert.Equal(t, entities.BorrowStatusReturned, returned.Status)
		assert.NotNil(t, returned.ReturnDate)
	})

	t.Run("rejects a double return", func(t *testing.T) {
		db, cleanup := setupTestDB(t)
		defer cleanup()

		user := createTestUser(t, db, "reader@example.com")
		book := createTestBook(t, db, "Meditations", user.ID)

		repo := circulation.NewRepository(db.DB, 14)
		borrow, err := repo.CreateBorrow(user.ID, book.ID)
		require.NoError(t, err)
		_, err = repo.ReturnBorrow(borrow.ID)
		require.NoError(t, err)

		controller := NewBorrowsController(repo)
		router := gin.New()
		router.POST("/api/borrows/:id/return", controller.ReturnBorrow)

		w := doJSON(t, router, "POST", "/api/borrows/"+borrow.ID+"/return", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("404 for an unknown borrow", func(t *testing.T) {
		db, cleanup := setupTestDB(t)
		defer cleanup()

		controller := NewBorrowsController(circulation.NewRepository(db.DB, 14))
		router := gin.New()
		router.POST("/api/borrows/:id/return", controller.ReturnBorrow)

		w := doJSON(t, router, "POST", "/api/borrows/nope/return", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestBorrowsController_ListBorrows(t *testing.T) {
	t.Run("requires userId", func(t *testing.T) {
		db, cleanup := setupTestDB(t)
		defer cleanup()

		controller := NewBorrowsController(circulation.NewRepository(db.DB, 14))
		router := gin.New()
		router.GET("/api/borrows", controller.ListBorrows)

		w := doJSON(t, router, "GET", "/api/borrows", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("lists only the user's borrows", func(t *testing.T) {
		db, cleanup := setupTestDB(t)
		defer cleanup()

		alice := createTestUser(t, db, "alice@example.com")
		bob := createTestUser(t, db, "bob@example.com")
		book := createTestBook(t, db, "Meditations", alice.ID)
		other := createTestBook(t, db, "Frankenstein", alice.ID)

		repo := circulation.NewRepository(db.DB, 14)
		_, err := repo.CreateBorrow(alice.ID, book.ID)
		require.NoError(t, err)
		_, err = repo.CreateBorrow(bob.ID, other.ID)
		require.NoError(t, err)

		controller := NewBorrowsController(repo)
		router := gin.New()
		router.GET("/api/borrows", controller.ListBorrows)

		w := doJSON(t, router, "GET", "/api/borrows?userId="+alice.ID, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var borrows []entities.Borrow
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &borrows))
		require.Len(t, borrows, 1)
		assert.Equal(t, book.ID, borrows[0].BookID)
	})
}
