package service

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/forkful-app/backend/internal/model"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// The in-memory database lives on a single connection.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Recipe{}, &model.Favorite{}))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email, displayName string) *model.User {
	t.Helper()

	user := model.User{
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

type recipeOption func(*model.Recipe)

func withTags(tags ...string) recipeOption {
	return func(r *model.Recipe) { r.Tags = tags }
}

func withDescription(desc string) recipeOption {
	return func(r *model.Recipe) { r.Description = &desc }
}

func withImage(path string) recipeOption {
	return func(r *model.Recipe) { r.ImagePath = &path }
}

func createTestRecipe(t *testing.T, db *gorm.DB, owner *model.User, title string, public bool, opts ...recipeOption) *model.Recipe {
	t.Helper()

	recipe := model.Recipe{
		Title:       title,
		Ingredients: model.StringArray{"1 cup water"},
		Steps:       model.StringArray{"boil"},
		IsPublic:    public,
		OwnerID:     owner.ID,
		OwnerName:   owner.DisplayName,
	}
	for _, opt := range opts {
		opt(&recipe)
	}
	require.NoError(t, db.Create(&recipe).Error)
	return &recipe
}
