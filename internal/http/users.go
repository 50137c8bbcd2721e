package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/openshelf/openshelf/internal/auth"
	"github.com/openshelf/openshelf/internal/entities"
)

// UserStore defines database operations for identity-provider principals.
type UserStore interface {
	SyncUser(firebaseUID, email, name string) (*entities.User, error)
	GetUserByID(id string) (*entities.User, error)
	GetUserByFirebaseUID(uid string) (*entities.User, error)
}

type UsersController struct {
	store UserStore
}

func NewUsersController(store UserStore) *UsersController {
	return &UsersController{store: store}
}

// SyncUser mirrors the authenticated principal into the local users table and
// returns the local row. Called by clients right after sign-in.
// POST /auth/user
func (uc *UsersController) SyncUser(c *gin.Context) {
	var req struct {
		FirebaseUID string `json:"firebaseUid"`
		Email       string `json:"email"`
		Name        string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	// A verified token wins over whatever the body claims.
	if uid := auth.GetExternalUID(c); uid != "" {
		req.FirebaseUID = uid
	}
	if req.FirebaseUID == "" || req.Email == "" {
		respondBadRequest(c, "Firebase UID and email are required")
		return
	}

	user, err := uc.store.SyncUser(req.FirebaseUID, req.Email, req.Name)
	if err != nil {
		respondInternalError(c, err, "sync user")
		return
	}

	c.JSON(http.StatusOK, user)
}

// GetUser looks up a local user by id or by the provider's UID.
// GET /api/users?id=... | ?firebaseUid=...
func (uc *UsersController) GetUser(c *gin.Context) {
	var (
		user *entities.User
		err  error
	)
	switch {
	case c.Query("id") != "":
		user, err = uc.store.GetUserByID(c.Query("id"))
	case c.Query("firebaseUid") != "":
		user, err = uc.store.GetUserByFirebaseUID(c.Query("firebaseUid"))
	default:
		respondBadRequest(c, "User ID or Firebase UID is required")
		return
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		respondNotFound(c, "user")
		return
	}
	if err != nil {
		respondInternalError(c, err, "get user")
		return
	}

	c.JSON(http.StatusOK, user)
}
