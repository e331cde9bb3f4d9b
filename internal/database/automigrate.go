package database

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/OussemaBenslimene/Tasker/internal/model"
)

// AutoMigrate creates or updates the schema for every persisted entity.
// The uuid-ossp extension backs the uuid_generate_v4 column defaults.
func AutoMigrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return fmt.Errorf("failed to create uuid-ossp extension: %w", err)
	}

	models := []interface{}{
		&model.User{},
		&model.Board{},
		&model.Column{},
		&model.Card{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to run auto-migration: %w", err)
	}

	return nil
}
