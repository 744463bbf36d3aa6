package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-inventory-api/internal/database"
	"go-inventory-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB points the package-level connection at a fresh in-memory
// sqlite database. One open connection, so every query sees the same
// memory database.
func setupTestDB(t *testing.T) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	database.DB = db
}

func performRequest(t *testing.T, r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dest))
}

func messageOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	decodeBody(t, w, &body)
	return body.Message
}

// --- Fixtures ---

func createTestUser(t *testing.T, username, email, password string) models.User {
	t.Helper()

	user := models.User{Username: username, Email: email, FullName: "Test " + username}
	require.NoError(t, database.DB.Create(&user).Error)

	cred := models.Credential{UserID: user.ID}
	require.NoError(t, cred.SetPassword(password))
	require.NoError(t, database.DB.Create(&cred).Error)
	return user
}

func createTestCategory(t *testing.T, name string) models.Category {
	t.Helper()
	category := models.Category{Name: name}
	require.NoError(t, database.DB.Create(&category).Error)
	return category
}

func createTestProduct(t *testing.T, name string, categoryID uint) models.Product {
	t.Helper()
	product := models.Product{Name: name, CategoryID: categoryID}
	require.NoError(t, database.DB.Create(&product).Error)
	return product
}

func createTestSupplier(t *testing.T, name string) models.Supplier {
	t.Helper()
	supplier := models.Supplier{Name: name}
	require.NoError(t, database.DB.Create(&supplier).Error)
	return supplier
}

func createTestClient(t *testing.T, name string) models.Client {
	t.Helper()
	client := models.Client{Name: name}
	require.NoError(t, database.DB.Create(&client).Error)
	return client
}

func createTestStock(t *testing.T, productID, supplierID, userID uint, quantity int, sellingPrice string, costPrice *string) models.Stock {
	t.Helper()

	stock := models.Stock{
		ProductID:         productID,
		SupplierID:        supplierID,
		Quantity:          quantity,
		SellingPrice:      decimal.RequireFromString(sellingPrice),
		DepositedByUserID: userID,
		DepositedAt:       time.Now(),
	}
	if costPrice != nil {
		stock.CostPrice = decimal.NewNullDecimal(decimal.RequireFromString(*costPrice))
	}
	require.NoError(t, database.DB.Create(&stock).Error)
	return stock
}

// saleFixture sets up a client, salesperson and one stock lot so sale
// tests only describe what varies.
type saleFixture struct {
	Client models.Client
	User   models.User
	Stock  models.Stock
}

func newSaleFixture(t *testing.T, quantity int, sellingPrice string) saleFixture {
	t.Helper()

	user := createTestUser(t, "seller", "seller@shop.test", "hunter22")
	category := createTestCategory(t, "Electronics")
	product := createTestProduct(t, "Laptop", category.ID)
	supplier := createTestSupplier(t, "Acme Wholesale")
	client := createTestClient(t, "Corner Store")
	stock := createTestStock(t, product.ID, supplier.ID, user.ID, quantity, sellingPrice, nil)

	return saleFixture{Client: client, User: user, Stock: stock}
}

func strPtr(s string) *string { return &s }

func init() {
	gin.SetMode(gin.TestMode)
}
