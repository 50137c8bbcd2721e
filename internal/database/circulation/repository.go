// Package circulation manages the borrow lifecycle, fines and library cards.
package circulation

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openshelf/openshelf/internal/config"
	"github.com/openshelf/openshelf/internal/entities"
)

var (
	// ErrBorrowActive is returned when the user already holds the book.
	ErrBorrowActive = errors.New("book is already borrowed by this user")

	// ErrBorrowAlreadyReturned is returned on a second return of the same
	// borrow. RETURNED is terminal.
	ErrBorrowAlreadyReturned = errors.New("borrow is already returned")

	// ErrFineNotPending is returned when transitioning a PAID or WAIVED fine.
	ErrFineNotPending = errors.New("fine is not pending")

	// ErrInvalidFineStatus is returned for a status outside PAID/WAIVED.
	ErrInvalidFineStatus = errors.New("invalid fine status")

	// ErrCardExists is returned on a second card issue for the same user.
	ErrCardExists = errors.New("library card already exists for this user")
)

// FineFilter filters fine listings.
type FineFilter struct {
	UserID string
	Status string
	Page   int
	Limit  int
}

// Repository handles circulation database operations.
type Repository struct {
	db             *gorm.DB
	loanPeriodDays int
}

// NewRepository creates a circulation repository. loanPeriodDays controls the
// derived due date; zero falls back to the default loan period.
func NewRepository(db *gorm.DB, loanPeriodDays int) *Repository {
	if loanPeriodDays <= 0 {
		loanPeriodDays = config.DefaultLoanPeriodDays
	}
	return &Repository{db: db, loanPeriodDays: loanPeriodDays}
}

// CreateBorrow opens a new loan. The active-borrow check and the insert run
// in one transaction so two concurrent requests cannot both pass the guard.
func (r *Repository) CreateBorrow(userID, bookID string) (*entities.Borrow, error) {
	var borrow entities.Borrow

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing entities.Borrow
		err := tx.Where("user_id = ? AND book_id = ? AND status = ?",
			userID, bookID, entities.BorrowStatusBorrowed).First(&existing).Error
		if err == nil {
			return ErrBorrowActive
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		borrow = entities.Borrow{
			UserID:  userID,
			BookID:  bookID,
			Status:  entities.BorrowStatusBorrowed,
			DueDate: time.Now().AddDate(0, 0, r.loanPeriodDays),
		}
		return tx.Create(&borrow).Error
	})
	if err != nil {
		return nil, err
	}

	return r.GetBorrowByID(borrow.ID)
}

// ReturnBorrow transitions a borrow to RETURNED. A borrow that is already
// returned stays returned; the caller gets ErrBorrowAlreadyReturned.
func (r *Repository) ReturnBorrow(id string) (*entities.Borrow, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var borrow entities.Borrow
		if err := tx.First(&borrow, "id = ?", id).Error; err != nil {
			return err
		}
		if borrow.Status == entities.BorrowStatusReturned {
			return ErrBorrowAlreadyReturned
		}

		now := time.Now()
		return tx.Model(&borrow).Updates(map[string]any{
			"status":      entities.BorrowStatusReturned,
			"return_date": now,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	return r.GetBorrowByID(id)
}

// GetBorrowByID returns a borrow with its book hydrated.
func (r *Repository) GetBorrowByID(id string) (*entities.Borrow, error) {
	var borrow entities.Borrow
	if err := r.db.Preload("Book").First(&borrow, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &borrow, nil
}

// ListBorrows returns all borrows for a user, newest first.
func (r *Repository) ListBorrows(userID string) ([]entities.Borrow, error) {
	var borrows []entities.Borrow
	err := r.db.Preload("Book").
		Where("user_id = ?", userID).
		Order("borrow_date DESC").
		Find(&borrows).Error
	return borrows, err
}

// CreateFine records a PENDING fine, optionally tied to a borrow.
func (r *Repository) CreateFine(fine *entities.Fine) (*entities.Fine, error) {
	fine.Status = entities.FineStatusPending
	if err := r.db.Create(fine).Error; err != nil {
		return nil, err
	}
	return r.GetFineByID(fine.ID)
}

// GetFineByID returns a fine with user and borrow/book summaries.
func (r *Repository) GetFineByID(id string) (*entities.Fine, error) {
	var fine entities.Fine
	err := r.db.Preload("User").Preload("Borrow.Book").First(&fine, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &fine, nil
}

// UpdateFineStatus moves a PENDING fine to PAID or WAIVED. Both targets are
// terminal; re-transitioning yields ErrFineNotPending.
func (r *Repository) UpdateFineStatus(id string, status entities.FineStatus, waivedBy string) (*entities.Fine, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var fine entities.Fine
		if err := tx.First(&fine, "id = ?", id).Error; err != nil {
			return err
		}
		if fine.Status != entities.FineStatusPending {
			return ErrFineNotPending
		}

		now := time.Now()
		updates := map[string]any{"status": status}
		switch status {
		case entities.FineStatusPaid:
			updates["paid_date"] = now
		case entities.FineStatusWaived:
			updates["waived_date"] = now
			if waivedBy != "" {
				updates["waived_by"] = waivedBy
			}
		default:
			return fmt.Errorf("%w: %s", ErrInvalidFineStatus, status)
		}

		return tx.Model(&fine).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}

	return r.GetFineByID(id)
}

// ListFines returns fines matching the filter, newest first, paginated.
func (r *Repository) ListFines(f FineFilter) ([]entities.Fine, int64, error) {
	query := r.db.Model(&entities.Fine{})
	if f.UserID != "" {
		query = query.Where("user_id = ?", f.UserID)
	}
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Preload("User").Preload("Borrow.Book").Order("created_date DESC")
	if f.Limit > 0 {
		query = query.Limit(f.Limit)
		if f.Page > 1 {
			query = query.Offset((f.Page - 1) * f.Limit)
		}
	}

	var fines []entities.Fine
	err := query.Find(&fines).Error
	return fines, total, err
}

// IssueCard creates the user's library card. One card per user; the card
// number is random with uniqueness backed by the card_number index.
func (r *Repository) IssueCard(userID string, maxBorrowLimit int) (*entities.LibraryCard, error) {
	if maxBorrowLimit <= 0 {
		maxBorrowLimit = config.DefaultMaxBorrowLimit
	}

	var card entities.LibraryCard

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing entities.LibraryCard
		err := tx.Where("user_id = ?", userID).First(&existing).Error
		if err == nil {
			return ErrCardExists
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		card = entities.LibraryCard{
			UserID:         userID,
			CardNumber:     newCardNumber(),
			ExpiryDate:     time.Now().AddDate(1, 0, 0),
			MaxBorrowLimit: maxBorrowLimit,
			IsActive:       true,
		}
		return tx.Create(&card).Error
	})
	if err != nil {
		return nil, err
	}

	return r.GetCardByUserID(userID)
}

// GetCardByUserID returns the user's card with the user hydrated.
func (r *Repository) GetCardByUserID(userID string) (*entities.LibraryCard, error) {
	var card entities.LibraryCard
	err := r.db.Preload("User").Where("user_id = ?", userID).First(&card).Error
	if err != nil {
		return nil, err
	}
	return &card, nil
}

// CardUpdate carries the optional fields of a partial card update.
type CardUpdate struct {
	MaxBorrowLimit *int
	IsActive       *bool
}

// UpdateCard applies a partial update to an existing card.
func (r *Repository) UpdateCard(userID string, update CardUpdate) (*entities.LibraryCard, error) {
	var card entities.LibraryCard
	if err := r.db.Where("user_id = ?", userID).First(&card).Error; err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if update.MaxBorrowLimit != nil {
		updates["max_borrow_limit"] = *update.MaxBorrowLimit
	}
	if update.IsActive != nil {
		updates["is_active"] = *update.IsActive
	}
	if len(updates) > 0 {
		if err := r.db.Model(&card).Updates(updates).Error; err != nil {
			return nil, err
		}
	}

	return r.GetCardByUserID(userID)
}

// AssessOverdueFines creates one PENDING OVERDUE fine for every BORROWED
// borrow past its due date that has no fine yet. Amount = whole days overdue
// times dailyRate (minimum one day). Idempotent per borrow: a borrow that
// already carries a fine is skipped, so repeated scans do not double-charge.
func (r *Repository) AssessOverdueFines(dailyRate float64) ([]entities.Fine, error) {
	now := time.Now()
	var created []entities.Fine

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var overdue []entities.Borrow
		err := tx.Where("status = ? AND due_date < ?", entities.BorrowStatusBorrowed, now).
			Where("id NOT IN (?)", tx.Model(&entities.Fine{}).
				Select("borrow_id").Where("borrow_id IS NOT NULL")).
			Find(&overdue).Error
		if err != nil {
			return err
		}

		for i := range overdue {
			borrow := overdue[i]
			days := int(now.Sub(borrow.DueDate).Hours() / 24)
			if days < 1 {
				days = 1
			}

			borrowID := borrow.ID
			fine := entities.Fine{
				UserID:      borrow.UserID,
				BorrowID:    &borrowID,
				Amount:      float64(days) * dailyRate,
				Reason:      entities.FineReasonOverdue,
				Description: fmt.Sprintf("Book overdue by %d day(s)", days),
				Status:      entities.FineStatusPending,
			}
			if err := tx.Create(&fine).Error; err != nil {
				return err
			}
			created = append(created, fine)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// newCardNumber builds a card number from a random UUID fragment. The unique
// index on card_number is the actual collision guard.
func newCardNumber() string {
	fragment := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "LC-" + fragment[:12]
}
