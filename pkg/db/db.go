package db

import (
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open opens (creating if necessary) the SQLite database at path.
func Open(path string) (*gorm.DB, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, errors.Wrapf(err, "create database dir %s", dir)
		}
	}

	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open sqlite database %s", path)
	}
	return gdb, nil
}

// AutoMigrate creates or updates the schema for all models.
func AutoMigrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(
		&ConversationSettings{},
		&ChatRecord{},
		&ConversationSummary{},
		&StoryProgress{},
		&CharacterRecord{},
		&AIConfig{},
	); err != nil {
		return errors.Wrap(err, "auto-migrate schema")
	}
	return nil
}
