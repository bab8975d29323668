package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Artur470/postgreql/models"
)

// newTestDB opens a per-test in-memory sqlite database with the full schema.
// A single connection keeps sqlite's locking out of the way; the service
// retry path still covers busy errors when they do happen.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.PaymentMethod{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
	))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, price string, promotion, stock int) *models.Product {
	t.Helper()
	p := &models.Product{
		Title:     "Sofa",
		Category:  "Furniture",
		Color:     "Grey",
		Brand:     "HomeLife",
		Price:     decimal.RequireFromString(price),
		Promotion: promotion,
		Stock:     stock,
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func seedUser(t *testing.T, db *gorm.DB, id string) *models.User {
	t.Helper()
	u := &models.User{
		ID:        id,
		Email:     id + "@example.com",
		FirstName: "Aida",
		LastName:  "Asanova",
		Phone:     "+996700123456",
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func productStock(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()
	var p models.Product
	require.NoError(t, db.First(&p, "id = ?", id).Error)
	return p.Stock
}

func openCart(t *testing.T, db *gorm.DB, userID string) *models.Cart {
	t.Helper()
	var cart models.Cart
	require.NoError(t, db.Preload("Items").
		Where("user_id = ? AND ordered = ?", userID, false).
		First(&cart).Error)
	return &cart
}

func requireDecimalEqual(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, decimal.RequireFromString(want).Equal(got),
		"expected %s, got %s", want, got)
}
