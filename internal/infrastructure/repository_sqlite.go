package infrastructure

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yourusername/reddit-dl-go/internal/domain"
)

// SQLiteOutcomeArchive implements domain.OutcomeArchive using SQLite. It is
// an append-only record of completed work; the pipeline never reads it to
// decide what to do, so it is not a resumable queue.
type SQLiteOutcomeArchive struct {
	db *gorm.DB
}

// NewSQLiteOutcomeArchive opens (creating if needed) the archive database
func NewSQLiteOutcomeArchive(dbPath string) (*SQLiteOutcomeArchive, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create archive directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open archive database: %w", err)
	}

	if err := db.AutoMigrate(&domain.OutcomeRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate archive schema: %w", err)
	}

	return &SQLiteOutcomeArchive{db: db}, nil
}

// Save appends one outcome record
func (a *SQLiteOutcomeArchive) Save(record *domain.OutcomeRecord) error {
	return a.db.Create(record).Error
}

// FindBySubreddit returns archived outcomes for a subreddit, newest first
func (a *SQLiteOutcomeArchive) FindBySubreddit(subreddit string) ([]*domain.OutcomeRecord, error) {
	var records []*domain.OutcomeRecord
	err := a.db.Where("subreddit = ?", subreddit).
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}

// CountByStatus returns the number of archived outcomes by status
func (a *SQLiteOutcomeArchive) CountByStatus(status string) (int64, error) {
	var count int64
	err := a.db.Model(&domain.OutcomeRecord{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// Close releases the underlying database handle
func (a *SQLiteOutcomeArchive) Close() error {
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
