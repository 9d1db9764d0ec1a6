package database

import (
	"gorm.io/gorm"

	"github.com/forkful-app/backend/internal/model"
)

// RunMigrations brings the schema up to date using GORM auto-migration.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Recipe{},
		&model.Favorite{},
	)
}
