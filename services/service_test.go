package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/junaidrashid-git/storefront-api/logger"
	"github.com/junaidrashid-git/storefront-api/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
	))
	return db
}

func testLogger() *logger.Logger {
	return logger.NewNop()
}

func seedUserWithCart(t *testing.T, db *gorm.DB, email string, role models.Role) models.User {
	t.Helper()
	user := models.User{
		Name:  "Test User",
		Email: email,
		Role:  role,
	}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, db.Create(&models.Cart{UserID: user.ID}).Error)
	return user
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price float64, description string, createdAt time.Time) models.Product {
	t.Helper()
	product := models.Product{
		Name:        name,
		Price:       price,
		Description: description,
		Images:      datatypes.NewJSONSlice([]string{"https://img.example.com/" + strings.ReplaceAll(strings.ToLower(name), " ", "-") + ".jpg"}),
		CreatedAt:   createdAt,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}
