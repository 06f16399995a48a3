// Package storage persists perspectives and comments in SQLite through gorm.
package storage

import (
	"errors"
	"fmt"
	"time"

	"fullpicture/types"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNotFound is returned when a perspective does not exist
var ErrNotFound = errors.New("not found")

// PerspectiveRecord is the perspectives table row
type PerspectiveRecord struct {
	ID        string `gorm:"primaryKey"`
	Title     string
	Source    string `gorm:"index"`
	Community string
	Quote     string
	Sentiment float64
	Date      string `gorm:"index"`
	URL       string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName pins the table name
func (PerspectiveRecord) TableName() string { return "perspectives" }

// CommentRecord is the comments table row
type CommentRecord struct {
	ID            string `gorm:"primaryKey"`
	PerspectiveID string `gorm:"index"`
	Content       string
	CreatedAt     time.Time `gorm:"index"`
}

// TableName pins the table name
func (CommentRecord) TableName() string { return "comments" }

// Store is the SQLite-backed perspective and comment store
type Store struct {
	db  *gorm.DB
	now func() time.Time
}

// Open opens (creating if needed) the database at path and migrates the schema
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	if err := db.AutoMigrate(&PerspectiveRecord{}, &CommentRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close releases the underlying connection pool
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (r PerspectiveRecord) toPerspective(commentCount int) types.Perspective {
	return types.Perspective{
		ID:           r.ID,
		Title:        r.Title,
		Source:       r.Source,
		Community:    r.Community,
		Quote:        r.Quote,
		Sentiment:    r.Sentiment,
		Date:         r.Date,
		URL:          r.URL,
		CommentCount: commentCount,
	}
}

func fromPerspective(p types.Perspective) PerspectiveRecord {
	return PerspectiveRecord{
		ID:        p.ID,
		Title:     p.Title,
		Source:    p.Source,
		Community: p.Community,
		Quote:     p.Quote,
		Sentiment: p.Sentiment,
		Date:      p.Date,
		URL:       p.URL,
	}
}

func (r CommentRecord) toComment() types.Comment {
	created := r.CreatedAt.UTC()
	return types.Comment{
		ID:            r.ID,
		PerspectiveID: r.PerspectiveID,
		Content:       r.Content,
		CreatedAt:     &created,
	}
}
