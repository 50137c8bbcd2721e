package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshelf/openshelf/internal/database/users"
	"github.com/openshelf/openshelf/internal/entities"
)

func TestUsersController_SyncUser(t *testing.T) {
	t.Run("creates a local row on first sight", func(t *testing.T) {
		db, cleanup := setupTestDB(t)
		defer cleanup()

		controller := NewUsersController(users.NewRepository(db.DB))
		router := gin.New()
		router.POST("/auth/user", controller.SyncUser)

		w := doJSON(t, router, "POST", "/auth/user", gin.H{
			"firebaseUid": "fb-123",
			"email":       "new@example.com",
			"name":        "New Member",
		})
		assert.Equal(t, http.StatusOK, w.Code)

		var user entities.User
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
		assert.NotEmpty(t, user.ID)
		assert.Equal(t, entities.RoleUser, user.Role)
	})

	t.Run("is idempotent and refreshes the name", func(t *testing.T) {
		db, cleanup := setupTestDB(t)
		defer cleanup()

		controller := NewUsersController(users.NewRepository(db.DB))
		router := gin.New()
		router.POST("/auth/user", controller.SyncUser)

		first := doJSON(t, router, "POST", "/auth/user", gin.H{
			"firebaseUid": "fb-123", "email": "new@example.com", "name": "Old Name",
		})
		require.Equal(t, http.StatusOK, first.Code)

		second := doJSON(t, router, "POST", "/auth/user", gin.H{
			"firebaseUid": "fb-123", "email": "new@example.com", "name": "New Name",
		})
		assert.Equal(t, http.StatusOK, second.Code)

		var firstUser, secondUser entities.User
		require.NoError(t, json.Unmarshal(first.Body.Bytes(), &firstUser))
		require.NoError(t, json.Unmarshal(second.Body.Bytes(), &secondUser))
		assert.Equal(t, firstUser.ID, secondUser.ID)
		assert.Equal(t, "New Name", secondUser.Name)

		var count int64
		require.NoError(t, db.DB.Model(&entities.User{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("rejects missing identity", func(t *testing.T) {
		db, cleanup := setupTestDB(t)
		defer cleanup()

		controller := NewUsersController(users.NewRepository(db.DB))
		router := gin.New()
		router.POST("/auth/user", controller.SyncUser)

		w := doJSON(t, router, "POST", "/auth/user", gin.H{"name": "No UID"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestUsersController_GetUser(t *testing.T) {
	t.Run("looks up by firebaseUid", func(t *testing.T) {
		db, cleanup := setupTestDB(t)
		defer cleanup()

		user := createTestUser(t, db, "lookup@example.com")

		controller := NewUsersController(users.NewRepository(db.DB))
		router := gin.New()
		router.GET("/api/users", controller.GetUser)

		w := doJSON(t, router, "GET", "/api/users?firebaseUid="+user.FirebaseUID, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var found entities.User
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &found))
		assert.Equal(t, user.ID, found.ID)
	})

	t.Run("404 for an unknown id", func(t *testing.T) {
		db, cleanup := setupTestDB(t)
		defer cleanup()

		controller := NewUsersController(users.NewRepository(db.DB))
		router := gin.New()
		router.GET("/api/users", controller.GetUser)

		w := doJSON(t, router, "GET", "/api/users?id=nope", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
