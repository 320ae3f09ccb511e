// Package repository provides gorm-backed, owner-scoped persistence.
// Every read and write takes the owner's user id as an explicit
// argument; a row that exists but belongs to another user is reported
// as shared.ErrNotFound.
package repository

import (
	"fmt"

	"github.com/planora/planora/internal/config"
	"github.com/planora/planora/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase creates a new database connection
func NewDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to auto migrate: %w", err)
	}

	return db, nil
}

// AutoMigrate runs auto migration for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Project{},
		&models.Tag{},
		&models.Task{},
		&models.Note{},
		&models.NoteImage{},
		&models.CalendarEvent{},
	)
}
