package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleUser      UserRole = "USER"
	RoleAdmin     UserRole = "ADMIN"
	RoleLibrarian UserRole = "LIBRARIAN"
)

// User mirrors a principal from the external identity provider. Rows are
// created lazily on the first authenticated request and never deleted here.
type User struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	FirebaseUID    string    `gorm:"uniqueIndex;size:128" json:"firebaseUid"`
	Email          string    `gorm:"uniqueIndex;size:255" json:"email"`
	Name           string    `gorm:"size:255" json:"name,omitempty"`
	Avatar         string    `gorm:"size:2048" json:"avatar,omitempty"`
	Role           UserRole  `gorm:"size:20;default:'USER'" json:"role"`
	MembershipDate time.Time `gorm:"autoCreateTime" json:"membershipDate"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
