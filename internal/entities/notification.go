package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationTypeOverdue  NotificationType = "OVERDUE"
	NotificationTypeDueSoon  NotificationType = "DUE_SOON"
	NotificationTypeFine     NotificationType = "FINE"
	NotificationTypeNewBook  NotificationType = "NEW_BOOK"
	NotificationTypeSystem   NotificationType = "SYSTEM"
	NotificationTypeReminder NotificationType = "REMINDER"
)

// Notification is an append-only per-user message. A notification is visible
// only while ExpiresAt is null or in the future.
type Notification struct {
	ID        string           `gorm:"primaryKey;size:36" json:"id"`
	UserID    string           `gorm:"index;size:36" json:"userId"`
	Type      NotificationType `gorm:"size:30" json:"type"`
	Title     string           `gorm:"size:255" json:"title"`
	Message   string           `gorm:"type:text" json:"message"`
	Data      string           `gorm:"type:text" json:"data,omitempty"` // free-form JSON payload
	IsRead    bool             `gorm:"default:false" json:"isRead"`
	ReadAt    *time.Time       `json:"readAt,omitempty"`
	ExpiresAt *time.Time       `gorm:"index" json:"expiresAt,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
}

func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}
