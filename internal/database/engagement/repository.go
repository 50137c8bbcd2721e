// Package engagement manages reviews (with book rating aggregation),
// wishlists and reading progress.
package engagement

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/openshelf/openshelf/internal/entities"
)

var (
	// ErrAlreadyReviewed is returned on a second review for the same
	// (user, book) pair.
	ErrAlreadyReviewed = errors.New("you have already reviewed this book")

	// ErrInvalidRating is returned for ratings outside [1,5].
	ErrInvalidRating = errors.New("rating must be between 1 and 5")

	// ErrAlreadyInWishlist is returned on a duplicate wishlist entry.
	ErrAlreadyInWishlist = errors.New("book is already in your wishlist")
)

// ReviewFilter filters review listings. Public reviews are always included;
// when UserID is set the caller's own non-public reviews come back too.
type ReviewFilter struct {
	BookID string
	UserID string
	Page   int
	Limit  int
}

// ProgressUpdate carries one reading-progress write. ReadingTime is a delta
// in minutes and accumulates onto the stored value.
type ProgressUpdate struct {
	CurrentPage     int
	TotalPages      int
	ProgressPercent float64
	ReadingTime     int
	Bookmarks       string
	Notes           string
	IsCompleted     bool
}

// Repository handles engagement database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new engagement repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateReview inserts a review and recomputes the book's averageRating and
// ratingsCount in the same transaction, so the aggregate always reflects
// exactly the committed reviews.
func (r *Repository) CreateReview(review *entities.Review) (*entities.Review, error) {
	if review.Rating < 1 || review.Rating > 5 {
		return nil, ErrInvalidRating
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing entities.Review
		err := tx.Where("user_id = ? AND book_id = ?", review.UserID, review.BookID).
			First(&existing).Error
		if err == nil {
			return ErrAlreadyReviewed
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Create(review).Error; err != nil {
			return err
		}

		var stats struct {
			Avg   float64
			Count int
		}
		err = tx.Model(&entities.Review{}).
			Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
			Where("book_id = ?", review.BookID).
			Scan(&stats).Error
		if err != nil {
			return err
		}

		return tx.Model(&entities.Book{}).
			Where("id = ?", review.BookID).
			Updates(map[string]any{
				"average_rating": stats.Avg,
				"ratings_count":  stats.Count,
			}).Error
	})
	if err != nil {
		return nil, err
	}

	var created entities.Review
	err = r.db.Preload("User").Preload("Book").First(&created, "id = ?", review.ID).Error
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// ListReviews returns public reviews, plus the caller's own when UserID is
// set, newest first, paginated.
func (r *Repository) ListReviews(f ReviewFilter) ([]entities.Review, int64, error) {
	query := r.db.Model(&entities.Review{})
	if f.BookID != "" {
		query = query.Where("book_id = ?", f.BookID)
	}
	if f.UserID != "" {
		query = query.Where("is_public = ? OR user_id = ?", true, f.UserID)
	} else {
		query = query.Where("is_public = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Preload("User").Preload("Book").Order("created_at DESC")
	if f.Limit > 0 {
		query = query.Limit(f.Limit)
		if f.Page > 1 {
			query = query.Offset((f.Page - 1) * f.Limit)
		}
	}

	var reviews []entities.Review
	err := query.Find(&reviews).Error
	return reviews, total, err
}

// UpsertProgress creates the (user, book) progress row on first write and
// updates it afterwards. ReadingTime accumulates, it is never overwritten.
func (r *Repository) UpsertProgress(userID, bookID string, update ProgressUpdate) (*entities.ReadingProgress, error) {
	now := time.Now()

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing entities.ReadingProgress
		err := tx.Where("user_id = ? AND book_id = ?", userID, bookID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			progress := entities.ReadingProgress{
				UserID:          userID,
				BookID:          bookID,
				CurrentPage:     update.CurrentPage,
				TotalPages:      update.TotalPages,
				ProgressPercent: update.ProgressPercent,
				ReadingTime:     update.ReadingTime,
				Bookmarks:       update.Bookmarks,
				Notes:           update.Notes,
				IsCompleted:     update.IsCompleted,
				LastReadDate:    now,
			}
			return tx.Create(&progress).Error
		}
		if err != nil {
			return err
		}

		return tx.Model(&existing).Updates(map[string]any{
			"current_page":     update.CurrentPage,
			"total_pages":      update.TotalPages,
			"progress_percent": update.ProgressPercent,
			"reading_time":     gorm.Expr("reading_time + ?", update.ReadingTime),
			"bookmarks":        update.Bookmarks,
			"notes":            update.Notes,
			"is_completed":     update.IsCompleted,
			"last_read_date":   now,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	return r.GetProgress(userID, bookID)
}

// GetProgress returns the (user, book) progress row with the book hydrated.
func (r *Repository) GetProgress(userID, bookID string) (*entities.ReadingProgress, error) {
	var progress entities.ReadingProgress
	err := r.db.Preload("Book").
		Where("user_id = ? AND book_id = ?", userID, bookID).
		First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// ListProgress returns all progress rows for a user, most recently read first.
func (r *Repository) ListProgress(userID string) ([]entities.ReadingProgress, error) {
	var progress []entities.ReadingProgress
	err := r.db.Preload("Book").
		Where("user_id = ?", userID).
		Order("last_read_date DESC").
		Find(&progress).Error
	return progress, err
}

// AddToWishlist inserts a wishlist entry, rejecting duplicates.
func (r *Repository) AddToWishlist(item *entities.WishlistItem) (*entities.WishlistItem, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing entities.WishlistItem
		err := tx.Where("user_id = ? AND book_id = ?", item.UserID, item.BookID).
			First(&existing).Error
		if err == nil {
			return ErrAlreadyInWishlist
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Create(item).Error
	})
	if err != nil {
		return nil, err
	}

	var created entities.WishlistItem
	err = r.db.Preload("Book.BookAuthors.Author").First(&created, "id = ?", item.ID).Error
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// RemoveFromWishlist deletes by the (user, book) composite key. A missing
// entry surfaces as gorm.ErrRecordNotFound.
func (r *Repository) RemoveFromWishlist(userID, bookID string) error {
	result := r.db.Where("user_id = ? AND book_id = ?", userID, bookID).
		Delete(&entities.WishlistItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListWishlist returns the user's wishlist ordered by priority desc, ties
// broken by most recently added.
func (r *Repository) ListWishlist(userID string) ([]entities.WishlistItem, error) {
	var items []entities.WishlistItem
	err := r.db.Preload("Book.BookAuthors.Author").Preload("Book.Category").
		Where("user_id = ?", userID).
		Order("priority DESC, added_date DESC").
		Find(&items).Error
	return items, err
}
