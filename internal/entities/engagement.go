package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review holds a single user's rating of a book. One review per (user, book);
// creating one updates the book's derived averageRating/ratingsCount.
type Review struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"uniqueIndex:idx_review_user_book;size:36" json:"userId"`
	BookID    string    `gorm:"uniqueIndex:idx_review_user_book;size:36" json:"bookId"`
	Rating    int       `json:"rating"`
	Title     string    `gorm:"size:255" json:"title,omitempty"`
	Content   string    `gorm:"type:text" json:"content,omitempty"`
	IsPublic  bool      `gorm:"default:true" json:"isPublic"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Book      *Book     `gorm:"foreignKey:BookID" json:"book,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type WishlistItem struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	UserID    string    `gorm:"uniqueIndex:idx_wishlist_user_book;size:36" json:"userId"`
	BookID    string    `gorm:"uniqueIndex:idx_wishlist_user_book;size:36" json:"bookId"`
	Priority  int       `gorm:"default:0" json:"priority"`
	Notes     string    `gorm:"type:text" json:"notes,omitempty"`
	AddedDate time.Time `gorm:"autoCreateTime" json:"addedDate"`
	Book      *Book     `gorm:"foreignKey:BookID" json:"book,omitempty"`
}

// ReadingProgress is a per-user, per-book reading cursor. ReadingTime only
// ever accumulates; an upsert adds the supplied delta to the stored value.
type ReadingProgress struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	UserID          string    `gorm:"uniqueIndex:idx_progress_user_book;size:36" json:"userId"`
	BookID          string    `gorm:"uniqueIndex:idx_progress_user_book;size:36" json:"bookId"`
	CurrentPage     int       `gorm:"default:0" json:"currentPage"`
	TotalPages      int       `json:"totalPages,omitempty"`
	ProgressPercent float64   `gorm:"default:0" json:"progressPercent"`
	ReadingTime     int       `gorm:"default:0" json:"readingTime"` // minutes, cumulative
	Bookmarks       string    `gorm:"type:text" json:"bookmarks,omitempty"`
	Notes           string    `gorm:"type:text" json:"notes,omitempty"`
	IsCompleted     bool      `gorm:"default:false" json:"isCompleted"`
	LastReadDate    time.Time `json:"lastReadDate"`
	Book            *Book     `gorm:"foreignKey:BookID" json:"book,omitempty"`
}

func (Review) TableName() string          { return "reviews" }
func (WishlistItem) TableName() string    { return "wishlist_items" }
func (ReadingProgress) TableName() string { return "reading_progress" }

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

func (w *WishlistItem) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return nil
}

func (rp *ReadingProgress) BeforeCreate(tx *gorm.DB) error {
	if rp.ID == "" {
		rp.ID = uuid.NewString()
	}
	return nil
}
