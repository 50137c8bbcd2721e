// Package notifications provides the per-user notification log.
package notifications

import (
	"time"

	"gorm.io/gorm"

	"github.com/openshelf/openshelf/internal/entities"
)

// Filter selects notifications for listing. Expired notifications are always
// excluded.
type Filter struct {
	UserID     string
	UnreadOnly bool
	Page       int
	Limit      int
}

// Repository handles notification database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new notifications repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create appends a notification.
func (r *Repository) Create(n *entities.Notification) error {
	return r.db.Create(n).Error
}

// List returns non-expired notifications for a user, newest first, together
// with the total match count and the user's unread count.
func (r *Repository) List(f Filter) ([]entities.Notification, int64, int64, error) {
	now := time.Now()

	query := r.visible(f.UserID, now)
	if f.UnreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, 0, err
	}

	listQuery := r.visible(f.UserID, now)
	if f.UnreadOnly {
		listQuery = listQuery.Where("is_read = ?", false)
	}
	listQuery = listQuery.Order("created_at DESC")
	if f.Limit > 0 {
		listQuery = listQuery.Limit(f.Limit)
		if f.Page > 1 {
			listQuery = listQuery.Offset((f.Page - 1) * f.Limit)
		}
	}

	var items []entities.Notification
	if err := listQuery.Find(&items).Error; err != nil {
		return nil, 0, 0, err
	}

	var unread int64
	err := r.visible(f.UserID, now).Where("is_read = ?", false).Count(&unread).Error
	if err != nil {
		return nil, 0, 0, err
	}

	return items, total, unread, nil
}

func (r *Repository) visible(userID string, now time.Time) *gorm.DB {
	return r.db.Model(&entities.Notification{}).
		Where("user_id = ?", userID).
		Where("expires_at IS NULL OR expires_at > ?", now)
}

// MarkRead flips the read flag. ReadAt is set when marking read and cleared
// when marking unread.
func (r *Repository) MarkRead(id string, isRead bool) (*entities.Notification, error) {
	var notification entities.Notification
	if err := r.db.First(&notification, "id = ?", id).Error; err != nil {
		return nil, err
	}

	updates := map[string]any{"is_read": isRead}
	if isRead {
		updates["read_at"] = time.Now()
	} else {
		updates["read_at"] = nil
	}

	if err := r.db.Model(&notification).Updates(updates).Error; err != nil {
		return nil, err
	}

	return &notification, nil
}

// PurgeExpired deletes notifications whose expiry passed before the cutoff.
// Returns the number of rows removed.
func (r *Repository) PurgeExpired(cutoff time.Time) (int64, error) {
	result := r.db.Where("expires_at IS NOT NULL AND expires_at < ?", cutoff).
		Delete(&entities.Notification{})
	return result.RowsAffected, result.Error
}
