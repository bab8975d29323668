package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Artur470/postgreql/models"
	"github.com/Artur470/postgreql/services"
)

const testSecret = "test-secret"

type noopNotifier struct{}

func (noopNotifier) NotifyOrderPlaced(*models.Order, *models.User, *models.PaymentMethod, []models.CartItem) error {
	return nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
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

	r := gin.New()
	SetupRoutes(r, Deps{
		Cart:      services.NewCartService(db, nil),
		Order:     services.NewOrderService(db, noopNotifier{}, nil, nil),
		JWTSecret: testSecret,
	})
	return r, db
}

func bearerToken(t *testing.T, userID string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": userID})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func doJSON(r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCartRoutesRequireToken(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodGet, "/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodGet, "/cart", "Bearer not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCartFlowOverHTTP(t *testing.T) {
	r, db := newTestRouter(t)
	token := bearerToken(t, "u1")

	product := models.Product{Title: "Sofa", Price: decimal.RequireFromString("100.00"), Stock: 10}
	require.NoError(t, db.Create(&product).Error)

	// Empty cart reads 404 and never auto-creates.
	w := doJSON(r, http.MethodGet, "/cart", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), `"kind":"not_found"`)

	// Add
	w = doJSON(r, http.MethodPost, "/cart", token, gin.H{"product": product.ID, "quantity": 2})
	require.Equal(t, http.StatusCreated, w.Code)

	// Bad quantity and missing product map to 400/404.
	w = doJSON(r, http.MethodPost, "/cart", token, gin.H{"product": product.ID, "quantity": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"kind":"invalid_quantity"`)
	w = doJSON(r, http.MethodPost, "/cart", token, gin.H{"product": 999, "quantity": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Read back
	w = doJSON(r, http.MethodGet, "/cart", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var cart models.Cart
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cart))
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "Sofa", cart.Items[0].Product.Title)

	// Update then remove
	itemID := cart.Items[0].ID
	w = doJSON(r, http.MethodPut, "/cart", token, gin.H{"id": itemID, "quantity": 5})
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(r, http.MethodDelete, "/cart", token, gin.H{"id": itemID})
	assert.Equal(t, http.StatusOK, w.Code)
	w = doJSON(r, http.MethodDelete, "/cart", token, gin.H{"id": itemID})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCheckoutOverHTTP(t *testing.T) {
	r, db := newTestRouter(t)
	token := bearerToken(t, "u1")

	product := models.Product{Title: "Sofa", Price: decimal.RequireFromString("100.00"), Stock: 10}
	require.NoError(t, db.Create(&product).Error)
	method := models.PaymentMethod{Name: "Cash"}
	require.NoError(t, db.Create(&method).Error)

	// No open cart: the checkout form gets a 400.
	w := doJSON(r, http.MethodPost, "/order", token, gin.H{"address": "somewhere"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/cart", token, gin.H{"product": product.ID, "quantity": 2})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodPost, "/order", token, gin.H{"address": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"kind":"validation_error"`)

	w = doJSON(r, http.MethodPost, "/order", token, gin.H{
		"address":        "12 Chuy Ave, Bishkek",
		"payment_method": method.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestPaymentMethodsArePublic(t *testing.T) {
	r, db := newTestRouter(t)
	require.NoError(t, db.Create(&models.PaymentMethod{Name: "Cash"}).Error)

	w := doJSON(r, http.MethodGet, "/payment-methods", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Cash")
}
