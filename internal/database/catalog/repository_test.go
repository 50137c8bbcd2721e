package catalog

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/openshelf/openshelf/internal/entities"
)

func setupTestDB(t *testing.T) (*gorm.DB, *Repository, func()) {
	dbPath := "./test_catalog_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.Author{},
		&entities.Category{},
		&entities.Publisher{},
		&entities.Series{},
		&entities.Genre{},
		&entities.Tag{},
		&entities.Book{},
		&entities.BookAuthor{},
		&entities.BookGenre{},
		&entities.BookTag{},
	)
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return db, repo, cleanup
}

func createTestAuthor(t *testing.T, db *gorm.DB, name string) *entities.Author {
	author := &entities.Author{Name: name}
	require.NoError(t, db.Create(author).Error)
	return author
}

func createTestGenre(t *testing.T, db *gorm.DB, name string) *entities.Genre {
	genre := &entities.Genre{Name: name}
	require.NoError(t, db.Create(genre).Error)
	return genre
}

func createTestTag(t *testing.T, db *gorm.DB, name string) *entities.Tag {
	tag := &entities.Tag{Name: name}
	require.NoError(t, db.Create(tag).Error)
	return tag
}

func TestRepository_CreateBook_WithRelations(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	author1 := createTestAuthor(t, db, "Ursula K. Le Guin")
	author2 := createTestAuthor(t, db, "Margaret Atwood")
	genre := createTestGenre(t, db, "Science Fiction")
	tag := createTestTag(t, db, "classic")

	book := &entities.Book{
		Title:      "The Dispossessed",
		FileURL:    "https://files.example.com/dispossessed.pdf",
		UploadedBy: "admin-1",
	}
	created, err := repo.CreateBook(book,
		[]AuthorRef{
			{AuthorID: author1.ID},
			{AuthorID: author2.ID, Role: "Foreword"},
		},
		[]string{genre.ID},
		[]string{tag.ID},
	)

	require.NoError(t, err)
	require.Len(t, created.BookAuthors, 2)
	assert.Equal(t, "Author", created.BookAuthors[0].Role)
	assert.Equal(t, "Foreword", created.BookAuthors[1].Role)
	require.Len(t, created.BookGenres, 1)
	assert.Equal(t, genre.ID, created.BookGenres[0].GenreID)
	require.Len(t, created.BookTags, 1)
	assert.Equal(t, tag.ID, created.BookTags[0].TagID)

	var authorRows, genreRows, tagRows int64
	db.Model(&entities.BookAuthor{}).Where("book_id = ?", created.ID).Count(&authorRows)
	db.Model(&entities.BookGenre{}).Where("book_id = ?", created.ID).Count(&genreRows)
	db.Model(&entities.BookTag{}).Where("book_id = ?", created.ID).Count(&tagRows)
	assert.Equal(t, int64(2), authorRows)
	assert.Equal(t, int64(1), genreRows)
	assert.Equal(t, int64(1), tagRows)
}

func TestRepository_CreateBook_RollsBackOnJoinFailure(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	author := createTestAuthor(t, db, "Octavia Butler")

	// A duplicate author reference violates the (book_id, author_id) unique
	// index, so the whole transaction must roll back.
	book := &entities.Book{
		Title:      "Kindred",
		FileURL:    "https://files.example.com/kindred.pdf",
		UploadedBy: "admin-1",
	}
	_, err := repo.CreateBook(book,
		[]AuthorRef{{AuthorID: author.ID}, {AuthorID: author.ID}},
		nil, nil,
	)
	require.Error(t, err)

	var bookCount, joinCount int64
	db.Model(&entities.Book{}).Count(&bookCount)
	db.Model(&entities.BookAuthor{}).Count(&joinCount)
	assert.Equal(t, int64(0), bookCount)
	assert.Equal(t, int64(0), joinCount)
}

func TestRepository_ListBooks_SearchMatchesAuthorName(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	author := createTestAuthor(t, db, "Stanislaw Lem")
	_, err := repo.CreateBook(&entities.Book{
		Title:      "Solaris",
		FileURL:    "https://files.example.com/solaris.epub",
		UploadedBy: "admin-1",
	}, []AuthorRef{{AuthorID: author.ID}}, nil, nil)
	require.NoError(t, err)

	_, err = repo.CreateBook(&entities.Book{
		Title:      "Unrelated Title",
		FileURL:    "https://files.example.com/other.pdf",
		UploadedBy: "admin-1",
	}, nil, nil, nil)
	require.NoError(t, err)

	books, total, _, err := repo.ListBooks(BookFilter{Search: "lem", Limit: 10, Page: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, books, 1)
	assert.Equal(t, "Solaris", books[0].Title)
}

func TestRepository_ListBooks_FiltersAndPagination(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	genre := createTestGenre(t, db, "Fantasy")

	for i := 0; i < 3; i++ {
		_, err := repo.CreateBook(&entities.Book{
			Title:      "Fantasy Book",
			FileURL:    "https://files.example.com/f.pdf",
			UploadedBy: "admin-1",
		}, nil, []string{genre.ID}, nil)
		require.NoError(t, err)
	}
	_, err := repo.CreateBook(&entities.Book{
		Title:      "Plain Book",
		FileURL:    "https://files.example.com/p.pdf",
		UploadedBy: "admin-1",
	}, nil, nil, nil)
	require.NoError(t, err)

	books, total, _, err := repo.ListBooks(BookFilter{GenreID: genre.ID, Limit: 2, Page: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, books, 2)

	books, _, _, err = repo.ListBooks(BookFilter{GenreID: genre.ID, Limit: 2, Page: 2})
	require.NoError(t, err)
	assert.Len(t, books, 1)
}

func TestRepository_ListBooks_ExcludesUnavailable(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, db.Create(&entities.Book{
		Title:       "Hidden",
		FileURL:     "https://files.example.com/h.pdf",
		UploadedBy:  "admin-1",
		IsAvailable: false,
	}).Error)

	_, total, _, err := repo.ListBooks(BookFilter{Limit: 10, Page: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestRepository_ListBooks_SortAllowlist(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	for _, title := range []string{"Beta", "Alpha"} {
		require.NoError(t, db.Create(&entities.Book{
			Title:       title,
			FileURL:     "https://files.example.com/x.pdf",
			UploadedBy:  "admin-1",
			IsAvailable: true,
		}).Error)
	}

	books, _, _, err := repo.ListBooks(BookFilter{SortBy: "title", SortOrder: "asc", Limit: 10, Page: 1})
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "Alpha", books[0].Title)

	// An unknown sort key must not end up in the ORDER BY clause.
	_, _, _, err = repo.ListBooks(BookFilter{SortBy: "title; DROP TABLE books", Limit: 10, Page: 1})
	require.NoError(t, err)
}

func TestRepository_ListAuthors(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	author := createTestAuthor(t, db, "Italo Calvino")
	createTestAuthor(t, db, "Someone Else")

	_, err := repo.CreateBook(&entities.Book{
		Title:      "Invisible Cities",
		FileURL:    "https://files.example.com/ic.epub",
		UploadedBy: "admin-1",
	}, []AuthorRef{{AuthorID: author.ID}}, nil, nil)
	require.NoError(t, err)

	authors, total, err := repo.ListAuthors(AuthorFilter{Search: "calvino", Limit: 20, Page: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, authors, 1)
	assert.Equal(t, int64(1), authors[0].BookCount)
	require.Len(t, authors[0].BookAuthors, 1)
	require.NotNil(t, authors[0].BookAuthors[0].Book)
	assert.Equal(t, "Invisible Cities", authors[0].BookAuthors[0].Book.Title)
}

func TestRepository_ListCategories_Counts(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	parent, err := repo.CreateCategory(&entities.Category{Name: "Fiction"})
	require.NoError(t, err)
	child, err := repo.CreateCategory(&entities.Category{Name: "Novels", ParentID: &parent.ID})
	require.NoError(t, err)
	require.NotNil(t, child.Parent)
	assert.Equal(t, "Fiction", child.Parent.Name)

	require.NoError(t, db.Create(&entities.Book{
		Title:       "A Novel",
		FileURL:     "https://files.example.com/n.pdf",
		UploadedBy:  "admin-1",
		IsAvailable: true,
		CategoryID:  &child.ID,
	}).Error)

	categories, err := repo.ListCategories(true)
	require.NoError(t, err)
	require.Len(t, categories, 2)

	byName := map[string]entities.Category{}
	for _, c := range categories {
		byName[c.Name] = c
	}
	assert.Equal(t, int64(1), byName["Fiction"].ChildCount)
	assert.Equal(t, int64(1), byName["Novels"].BookCount)
	require.Len(t, byName["Fiction"].Children, 1)
}
