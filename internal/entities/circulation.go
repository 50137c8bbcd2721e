package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BorrowStatus string

const (
	BorrowStatusBorrowed BorrowStatus = "BORROWED"
	BorrowStatusReturned BorrowStatus = "RETURNED"
)

type FineStatus string

const (
	FineStatusPending FineStatus = "PENDING"
	FineStatusPaid    FineStatus = "PAID"
	FineStatusWaived  FineStatus = "WAIVED"
)

type FineReason string

const (
	FineReasonOverdue FineReason = "OVERDUE"
	FineReasonDamaged FineReason = "DAMAGED"
	FineReasonLost    FineReason = "LOST"
	FineReasonOther   FineReason = "OTHER"
)

// Borrow records one user holding one book for a bounded loan period.
// At most one BORROWED row may exist per (user, book) pair; returning a book
// is a one-way transition, a re-borrow creates a fresh row.
type Borrow struct {
	ID         string       `gorm:"primaryKey;size:36" json:"id"`
	UserID     string       `gorm:"index;size:36" json:"userId"`
	BookID     string       `gorm:"index;size:36" json:"bookId"`
	Status     BorrowStatus `gorm:"size:20;default:'BORROWED'" json:"status"`
	BorrowDate time.Time    `gorm:"autoCreateTime" json:"borrowDate"`
	DueDate    time.Time    `json:"dueDate"`
	ReturnDate *time.Time   `json:"returnDate,omitempty"`
	User       *User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Book       *Book        `gorm:"foreignKey:BookID" json:"book,omitempty"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

// Fine is a monetary penalty, optionally tied to a specific borrow.
// PENDING is the only state that allows a transition; PAID and WAIVED are
// terminal.
type Fine struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	UserID      string     `gorm:"index;size:36" json:"userId"`
	BorrowID    *string    `gorm:"index;size:36" json:"borrowId,omitempty"`
	Amount      float64    `json:"amount"`
	Reason      FineReason `gorm:"size:20" json:"reason"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
	Status      FineStatus `gorm:"size:20;default:'PENDING'" json:"status"`
	CreatedDate time.Time  `gorm:"autoCreateTime" json:"createdDate"`
	PaidDate    *time.Time `json:"paidDate,omitempty"`
	WaivedDate  *time.Time `json:"waivedDate,omitempty"`
	WaivedBy    string     `gorm:"size:36" json:"waivedBy,omitempty"`
	User        *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Borrow      *Borrow    `gorm:"foreignKey:BorrowID" json:"borrow,omitempty"`
}

// LibraryCard is the per-user membership record gating borrow limits.
type LibraryCard struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	UserID         string    `gorm:"uniqueIndex;size:36" json:"userId"`
	CardNumber     string    `gorm:"uniqueIndex;size:50" json:"cardNumber"`
	IssueDate      time.Time `gorm:"autoCreateTime" json:"issueDate"`
	ExpiryDate     time.Time `json:"expiryDate"`
	MaxBorrowLimit int       `gorm:"default:5" json:"maxBorrowLimit"`
	IsActive       bool      `gorm:"default:true" json:"isActive"`
	User           *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (Borrow) TableName() string      { return "borrows" }
func (Fine) TableName() string        { return "fines" }
func (LibraryCard) TableName() string { return "library_cards" }

func (b *Borrow) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

func (f *Fine) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

func (lc *LibraryCard) BeforeCreate(tx *gorm.DB) error {
	if lc.ID == "" {
		lc.ID = uuid.NewString()
	}
	return nil
}
