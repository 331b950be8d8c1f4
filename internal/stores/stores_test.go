package stores

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/example/glowcheck/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.IngredientCategory{},
		&models.Rule{},
		&models.RoutineEntry{},
		&models.UserRating{},
		&models.CommunityRating{},
	))
	return db
}

func createUser(t *testing.T, db *gorm.DB, email string, skinType models.SkinType) *models.User {
	t.Helper()

	user := models.User{
		Email:        email,
		DisplayName:  "Test User",
		PasswordHash: "x",
		SkinType:     skinType,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createProduct(t *testing.T, db *gorm.DB, name string, tags ...string) *models.Product {
	t.Helper()

	product := models.Product{
		Brand:     "Test Brand",
		Name:      name,
		SourceURL: "https://incidecoder.com/products/" + name,
		Tags:      tags,
	}
	require.NoError(t, db.Create(&product).Error)
	return &product
}
