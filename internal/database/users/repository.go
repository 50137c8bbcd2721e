// Package users maps principals from the external identity provider onto
// local User rows.
package users

import (
	"errors"

	"gorm.io/gorm"

	"github.com/openshelf/openshelf/internal/entities"
)

// Repository handles user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// SyncUser mirrors an authenticated principal into the local users table.
// The row is created on first sight (role USER) and the display name is
// refreshed when the provider reports a new one. Users are never deleted here.
func (r *Repository) SyncUser(firebaseUID, email, name string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("firebase_uid = ?", firebaseUID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = entities.User{
			FirebaseUID: firebaseUID,
			Email:       email,
			Name:        name,
			Role:        entities.RoleUser,
		}
		if err := r.db.Create(&user).Error; err != nil {
			return nil, err
		}
		return &user, nil
	}
	if err != nil {
		return nil, err
	}

	if name != "" && user.Name != name {
		if err := r.db.Model(&user).Update("name", name).Error; err != nil {
			return nil, err
		}
		user.Name = name
	}

	return &user, nil
}

// GetUserByID retrieves a user by primary key.
func (r *Repository) GetUserByID(id string) (*entities.User, error) {
	var user entities.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByFirebaseUID retrieves a user by the identity provider's UID.
func (r *Repository) GetUserByFirebaseUID(uid string) (*entities.User, error) {
	var user entities.User
	if err := r.db.Where("firebase_uid = ?", uid).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
