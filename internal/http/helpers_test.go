package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/openshelf/openshelf/internal/database"
	"github.com/openshelf/openshelf/internal/entities"
)

func setupTestDB(t *testing.T) (*database.Database, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dbPath := "./test_http_" + strings.ReplaceAll(t.Name(), "/", "_") + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return db, cleanup
}

func createTestUser(t *testing.T, db *database.Database, email string) *entities.User {
	t.Helper()
	user := &entities.User{
		FirebaseUID: "fb-" + email,
		Email:       email,
		Name:        "Test User",
		Role:        entities.RoleUser,
	}
	require.NoError(t, db.DB.Create(user).Error)
	return user
}

func createTestBook(t *testing.T, db *database.Database, title, uploadedBy string) *entities.Book {
	t.Helper()
	book := &entities.Book{
		Title:       title,
		Language:    "en",
		Format:      entities.FormatPDF,
		FileURL:     "https://files.example/" + strings.ReplaceAll(title, " ", "-"),
		UploadedBy:  uploadedBy,
		IsAvailable: true,
	}
	require.NoError(t, db.DB.Create(book).Error)
	return book
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestNewPagination(t *testing.T) {
	t.Run("rounds pages up", func(t *testing.T) {
		p := newPagination(2, 10, 25)
		require.Equal(t, 3, p.Pages)
		require.Equal(t, 2, p.Page)
	})

	t.Run("zero total yields zero pages", func(t *testing.T) {
		p := newPagination(1, 10, 0)
		require.Equal(t, 0, p.Pages)
	})
}
