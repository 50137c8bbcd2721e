// Command generate_demo creates a demo database with a sample catalog of
// public domain books, a few demo members with library cards, and enough
// borrows, reviews and wishlist entries to make the API interesting.
// Usage: go run cmd/generate_demo/main.go [-db path/to/demo.db]
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/openshelf/openshelf/internal/database"
	"github.com/openshelf/openshelf/internal/database/catalog"
	"github.com/openshelf/openshelf/internal/database/circulation"
	"github.com/openshelf/openshelf/internal/database/engagement"
	"github.com/openshelf/openshelf/internal/database/users"
	"github.com/openshelf/openshelf/internal/entities"
)

const defaultDemoDatabasePath = "./demo/demo.db"

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	flag.Parse()

	log.Printf("Generating demo database at %s...", *dbPath)

	// Delete existing demo database to start fresh
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing demo database: %v", err)
	}

	db, err := database.NewDatabase(*dbPath)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	userRepo := users.NewRepository(db.DB)
	catalogRepo := catalog.NewRepository(db.DB)
	circulationRepo := circulation.NewRepository(db.DB, 0)
	engagementRepo := engagement.NewRepository(db.DB)

	members := createMembers(db, userRepo, circulationRepo)
	categories := createCategories(catalogRepo)
	authors := createAuthors(catalogRepo)
	genres := createGenres(db)

	books := make(map[string]*entities.Book)
	for _, cfg := range getPublicDomainBooks() {
		cfg.Book.UploadedBy = members["admin"].ID
		cfg.Book.IsAvailable = true
		if categoryID, ok := categories[cfg.CategoryName]; ok {
			cfg.Book.CategoryID = &categoryID
		}

		var refs []catalog.AuthorRef
		for _, name := range cfg.AuthorNames {
			if id, ok := authors[name]; ok {
				refs = append(refs, catalog.AuthorRef{AuthorID: id})
			}
		}
		var genreIDs []string
		for _, name := range cfg.GenreNames {
			if id, ok := genres[name]; ok {
				genreIDs = append(genreIDs, id)
			}
		}

		created, err := catalogRepo.CreateBook(&cfg.Book, refs, genreIDs, nil)
		if err != nil {
			log.Printf("Failed to save book %s: %v", cfg.Book.Title, err)
			continue
		}
		books[created.Title] = created
		log.Printf("Saved: %s (%d author(s))", created.Title, len(refs))
	}

	createEngagement(members, books, circulationRepo, engagementRepo)

	log.Println("Demo database generated successfully!")
}

func createMembers(db *database.Database, repo *users.Repository, cards *circulation.Repository) map[string]*entities.User {
	members := map[string]*entities.User{}

	specs := []struct {
		key   string
		email string
		name  string
		role  entities.UserRole
	}{
		{"admin", "admin@openshelf.demo", "Demo Admin", entities.RoleAdmin},
		{"alice", "alice@openshelf.demo", "Alice Reader", entities.RoleUser},
		{"bob", "bob@openshelf.demo", "Bob Browser", entities.RoleUser},
	}

	for _, s := range specs {
		user, err := repo.SyncUser("demo-"+s.key, s.email, s.name)
		if err != nil {
			log.Fatalf("Failed to create user %s: %v", s.key, err)
		}
		if s.role != entities.RoleUser {
			if err := db.DB.Model(user).Update("role", s.role).Error; err != nil {
				log.Printf("Failed to set role for %s: %v", s.key, err)
			}
		}
		if _, err := cards.IssueCard(user.ID, 0); err != nil {
			log.Printf("Failed to issue card for %s: %v", s.key, err)
		}
		members[s.key] = user
		log.Printf("Created member: %s (%s)", s.name, s.email)
	}

	return members
}

func createCategories(repo *catalog.Repository) map[string]string {
	names := []string{"Fiction", "Philosophy", "Science"}

	categories := make(map[string]string, len(names))
	for _, name := range names {
		category, err := repo.CreateCategory(&entities.Category{
			Name:        name,
			Description: fmt.Sprintf("%s titles from the public domain", name),
		})
		if err != nil {
			log.Printf("Failed to create category %s: %v", name, err)
			continue
		}
		categories[name] = category.ID
	}
	return categories
}

func createAuthors(repo *catalog.Repository) map[string]string {
	specs := []struct {
		name        string
		nationality string
	}{
		{"Marcus Aurelius", "Roman"},
		{"Jane Austen", "British"},
		{"Charles Darwin", "British"},
		{"Mary Shelley", "British"},
		{"Fyodor Dostoevsky", "Russian"},
		{"Oscar Wilde", "Irish"},
	}

	authors := make(map[string]string, len(specs))
	for _, s := range specs {
		author := &entities.Author{Name: s.name, Nationality: s.nationality}
		if err := repo.CreateAuthor(author); err != nil {
			log.Printf("Failed to create author %s: %v", s.name, err)
			continue
		}
		authors[s.name] = author.ID
	}
	return authors
}

func createGenres(db *database.Database) map[string]string {
	names := []string{"Classic", "Gothic", "Romance", "Natural History"}

	genres := make(map[string]string, len(names))
	for _, name := range names {
		genre := entities.Genre{Name: name}
		if err := db.DB.Create(&genre).Error; err != nil {
			log.Printf("Failed to create genre %s: %v", name, err)
			continue
		}
		genres[name] = genre.ID
	}
	return genres
}

// BookConfig holds a book plus the names of its relations, resolved to IDs
// at insert time.
type BookConfig struct {
	Book         entities.Book
	CategoryName string
	AuthorNames  []string
	GenreNames   []string
}

func getPublicDomainBooks() []BookConfig {
	date := func(year int) *time.Time {
		t := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		return &t
	}

	return []BookConfig{
		{
			CategoryName: "Philosophy",
			AuthorNames:  []string{"Marcus Aurelius"},
			GenreNames:   []string{"Classic"},
			Book: entities.Book{
				Title:         "Meditations",
				Description:   "Personal writings of the Roman emperor on Stoic philosophy.",
				PublishedDate: date(180),
				PageCount:     254,
				Language:      "en",
				Format:        entities.FormatEPUB,
				FileURL:       "https://www.gutenberg.org/ebooks/2680",
				IsFeatured:    true,
			},
		},
		{
			CategoryName: "Fiction",
			AuthorNames:  []string{"Jane Austen"},
			GenreNames:   []string{"Classic", "Romance"},
			Book: entities.Book{
				Title:         "Pride and Prejudice",
				Description:   "The turbulent courtship of Elizabeth Bennet and Mr. Darcy.",
				PublishedDate: date(1813),
				PageCount:     432,
				Language:      "en",
				Format:        entities.FormatEPUB,
				FileURL:       "https://www.gutenberg.org/ebooks/1342",
				IsFeatured:    true,
			},
		},
		{
			CategoryName: "Science",
			AuthorNames:  []string{"Charles Darwin"},
			GenreNames:   []string{"Classic", "Natural History"},
			Book: entities.Book{
				Title:         "On the Origin of Species",
				Description:   "Darwin's foundational work on evolution by natural selection.",
				PublishedDate: date(1859),
				PageCount:     502,
				Language:      "en",
				Format:        entities.FormatPDF,
				FileURL:       "https://www.gutenberg.org/ebooks/1228",
			},
		},
		{
			CategoryName: "Fiction",
			AuthorNames:  []string{"Mary Shelley"},
			GenreNames:   []string{"Classic", "Gothic"},
			Book: entities.Book{
				Title:         "Frankenstein",
				Subtitle:      "or, The Modern Prometheus",
				Description:   "A young scientist creates a sapient creature in an unorthodox experiment.",
				PublishedDate: date(1818),
				PageCount:     280,
				Language:      "en",
				Format:        entities.FormatEPUB,
				FileURL:       "https://www.gutenberg.org/ebooks/84",
			},
		},
		{
			CategoryName: "Fiction",
			AuthorNames:  []string{"Fyodor Dostoevsky"},
			GenreNames:   []string{"Classic"},
			Book: entities.Book{
				Title:         "Crime and Punishment",
				Description:   "The mental anguish of an impoverished ex-student who commits murder.",
				PublishedDate: date(1866),
				PageCount:     545,
				Language:      "en",
				Format:        entities.FormatEPUB,
				FileURL:       "https://www.gutenberg.org/ebooks/2554",
			},
		},
		{
			CategoryName: "Fiction",
			AuthorNames:  []string{"Oscar Wilde"},
			GenreNames:   []string{"Classic", "Gothic"},
			Book: entities.Book{
				Title:         "The Picture of Dorian Gray",
				Description:   "A man sells his soul so a portrait ages in his place.",
				PublishedDate: date(1890),
				PageCount:     272,
				Language:      "en",
				Format:        entities.FormatEPUB,
				FileURL:       "https://www.gutenberg.org/ebooks/174",
			},
		},
	}
}

func createEngagement(members map[string]*entities.User, books map[string]*entities.Book,
	circulationRepo *circulation.Repository, engagementRepo *engagement.Repository) {
	alice := members["alice"]
	bob := members["bob"]

	if book, ok := books["Meditations"]; ok {
		if _, err := circulationRepo.CreateBorrow(alice.ID, book.ID); err != nil {
			log.Printf("Failed to create borrow: %v", err)
		}
		if _, err := engagementRepo.CreateReview(&entities.Review{
			UserID:   alice.ID,
			BookID:   book.ID,
			Rating:   5,
			Title:    "Timeless",
			Content:  "Still the best bedside book two thousand years on.",
			IsPublic: true,
		}); err != nil {
			log.Printf("Failed to create review: %v", err)
		}
	}

	if book, ok := books["Pride and Prejudice"]; ok {
		if _, err := engagementRepo.CreateReview(&entities.Review{
			UserID:   bob.ID,
			BookID:   book.ID,
			Rating:   4,
			Title:    "Holds up",
			Content:  "Sharper and funnier than its reputation suggests.",
			IsPublic: true,
		}); err != nil {
			log.Printf("Failed to create review: %v", err)
		}
	}

	if book, ok := books["Frankenstein"]; ok {
		if _, err := engagementRepo.AddToWishlist(&entities.WishlistItem{
			UserID:   bob.ID,
			BookID:   book.ID,
			Priority: 2,
			Notes:    "October reading",
		}); err != nil {
			log.Printf("Failed to add wishlist entry: %v", err)
		}
	}

	if book, ok := books["On the Origin of Species"]; ok {
		if _, err := engagementRepo.UpsertProgress(alice.ID, book.ID, engagement.ProgressUpdate{
			CurrentPage:     120,
			TotalPages:      502,
			ProgressPercent: 23.9,
			ReadingTime:     340,
		}); err != nil {
			log.Printf("Failed to create reading progress: %v", err)
		}
	}
}
