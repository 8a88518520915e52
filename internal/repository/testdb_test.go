package repository

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"mystore/internal/models"
)

// newTestDB opens a private in-memory sqlite database per test and
// migrates the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
	))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price float64, stock int) *models.Product {
	t.Helper()
	p := &models.Product{Name: name, Slug: name, Price: price, Stock: stock}
	require.NoError(t, db.Create(p).Error)
	return p
}

func seedUser(t *testing.T, db *gorm.DB, username string, admin bool) *models.User {
	t.Helper()
	u := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		IsStaff:      admin,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}
