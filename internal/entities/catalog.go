package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookFormat string

const (
	FormatPDF       BookFormat = "PDF"
	FormatEPUB      BookFormat = "EPUB"
	FormatMOBI      BookFormat = "MOBI"
	FormatAudiobook BookFormat = "AUDIOBOOK"
	FormatHardcover BookFormat = "HARDCOVER"
	FormatPaperback BookFormat = "PAPERBACK"
)

type Author struct {
	ID          string       `gorm:"primaryKey;size:36" json:"id"`
	Name        string       `gorm:"index;size:255" json:"name"`
	Biography   string       `gorm:"type:text" json:"biography,omitempty"`
	BirthDate   *time.Time   `json:"birthDate,omitempty"`
	Nationality string       `gorm:"size:100" json:"nationality,omitempty"`
	Website     string       `gorm:"size:2048" json:"website,omitempty"`
	ImageURL    string       `gorm:"size:2048" json:"imageUrl,omitempty"`
	BookAuthors []BookAuthor `gorm:"foreignKey:AuthorID" json:"bookAuthors,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`

	// Derived, filled by the repository on listing.
	BookCount int64 `gorm:"-" json:"bookCount"`
}

type Category struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	Name        string     `gorm:"index;size:255" json:"name"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
	ParentID    *string    `gorm:"index;size:36" json:"parentId,omitempty"`
	ImageURL    string     `gorm:"size:2048" json:"imageUrl,omitempty"`
	Parent      *Category  `gorm:"foreignKey:ParentID" json:"parent,omitempty"`
	Children    []Category `gorm:"foreignKey:ParentID" json:"children,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	// Derived counts, filled by the repository on listing.
	BookCount  int64 `gorm:"-" json:"bookCount"`
	ChildCount int64 `gorm:"-" json:"childCount"`
}

type Publisher struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"index;size:255" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type Series struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"index;size:255" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type Genre struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:100" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type Tag struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:100" json:"name"`
	Color     string    `gorm:"size:10" json:"color,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type Book struct {
	ID            string     `gorm:"primaryKey;size:36" json:"id"`
	Title         string     `gorm:"index;size:512" json:"title"`
	Subtitle      string     `gorm:"size:512" json:"subtitle,omitempty"`
	Description   string     `gorm:"type:text" json:"description,omitempty"`
	ISBN13        string     `gorm:"index;size:20" json:"isbn13,omitempty"`
	ISBN10        string     `gorm:"index;size:20" json:"isbn10,omitempty"`
	PublishedDate *time.Time `json:"publishedDate,omitempty"`
	PageCount     int        `json:"pageCount,omitempty"`
	Language      string     `gorm:"size:10;default:'en'" json:"language"`
	Format        BookFormat `gorm:"size:20;default:'PDF'" json:"format"`
	FileSize      int64      `json:"fileSize,omitempty"`
	CoverURL      string     `gorm:"size:2048" json:"coverUrl,omitempty"`
	FileURL       string     `gorm:"size:2048" json:"fileUrl"`
	PreviewURL    string     `gorm:"size:2048" json:"previewUrl,omitempty"`
	UploadedBy    string     `gorm:"size:36" json:"uploadedBy"`
	IsAvailable   bool       `gorm:"default:true" json:"isAvailable"`
	IsFeatured    bool       `gorm:"default:false" json:"isFeatured"`

	// Derived from reviews, kept in sync by the engagement repository.
	AverageRating float64 `gorm:"default:0" json:"averageRating"`
	RatingsCount  int     `gorm:"default:0" json:"ratingsCount"`

	CategoryID   *string    `gorm:"index;size:36" json:"categoryId,omitempty"`
	PublisherID  *string    `gorm:"index;size:36" json:"publisherId,omitempty"`
	SeriesID     *string    `gorm:"index;size:36" json:"seriesId,omitempty"`
	SeriesNumber int        `json:"seriesNumber,omitempty"`
	Category     *Category  `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Publisher    *Publisher `gorm:"foreignKey:PublisherID" json:"publisher,omitempty"`
	Series       *Series    `gorm:"foreignKey:SeriesID" json:"series,omitempty"`

	BookAuthors []BookAuthor `gorm:"foreignKey:BookID" json:"bookAuthors,omitempty"`
	BookGenres  []BookGenre  `gorm:"foreignKey:BookID" json:"bookGenres,omitempty"`
	BookTags    []BookTag    `gorm:"foreignKey:BookID" json:"bookTags,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookAuthor is an explicit join row so the author role ("Author",
// "Illustrator", "Translator", ...) can be stored alongside the link.
type BookAuthor struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	BookID    string    `gorm:"uniqueIndex:idx_book_author;size:36" json:"bookId"`
	AuthorID  string    `gorm:"uniqueIndex:idx_book_author;size:36" json:"authorId"`
	Role      string    `gorm:"size:50;default:'Author'" json:"role"`
	Author    *Author   `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Book      *Book     `gorm:"foreignKey:BookID" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

type BookGenre struct {
	ID      string `gorm:"primaryKey;size:36" json:"id"`
	BookID  string `gorm:"uniqueIndex:idx_book_genre;size:36" json:"bookId"`
	GenreID string `gorm:"uniqueIndex:idx_book_genre;size:36" json:"genreId"`
	Genre   *Genre `gorm:"foreignKey:GenreID" json:"genre,omitempty"`
	Book    *Book  `gorm:"foreignKey:BookID" json:"-"`
}

type BookTag struct {
	ID     string `gorm:"primaryKey;size:36" json:"id"`
	BookID string `gorm:"uniqueIndex:idx_book_tag;size:36" json:"bookId"`
	TagID  string `gorm:"uniqueIndex:idx_book_tag;size:36" json:"tagId"`
	Tag    *Tag   `gorm:"foreignKey:TagID" json:"tag,omitempty"`
	Book   *Book  `gorm:"foreignKey:BookID" json:"-"`
}

func (Author) TableName() string     { return "authors" }
func (Category) TableName() string   { return "categories" }
func (Publisher) TableName() string  { return "publishers" }
func (Series) TableName() string     { return "series" }
func (Genre) TableName() string      { return "genres" }
func (Tag) TableName() string        { return "tags" }
func (Book) TableName() string       { return "books" }
func (BookAuthor) TableName() string { return "book_authors" }
func (BookGenre) TableName() string  { return "book_genres" }
func (BookTag) TableName() string    { return "book_tags" }

func (a *Author) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

func (p *Publisher) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (s *Series) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

func (g *Genre) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	return nil
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

func (b *Book) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

func (ba *BookAuthor) BeforeCreate(tx *gorm.DB) error {
	if ba.ID == "" {
		ba.ID = uuid.NewString()
	}
	return nil
}

func (bg *BookGenre) BeforeCreate(tx *gorm.DB) error {
	if bg.ID == "" {
		bg.ID = uuid.NewString()
	}
	return nil
}

func (bt *BookTag) BeforeCreate(tx *gorm.DB) error {
	if bt.ID == "" {
		bt.ID = uuid.NewString()
	}
	return nil
}
