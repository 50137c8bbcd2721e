package database

import (
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/openshelf/openshelf/internal/entities"
)

// Database wraps the gorm connection shared by all repositories.
type Database struct {
	DB *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto-migrate all entities
	err = db.AutoMigrate(
		&entities.User{},
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
		&entities.Borrow{},
		&entities.Fine{},
		&entities.LibraryCard{},
		&entities.Review{},
		&entities.WishlistItem{},
		&entities.ReadingProgress{},
		&entities.Notification{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
