package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"go-inventory-api/internal/database"
	"go-inventory-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDeleteGuardRouter() *gin.Engine {
	r := gin.New()
	r.DELETE("/api/categories/:id", DeleteCategory)
	r.DELETE("/api/products/:id", DeleteProduct)
	r.DELETE("/api/suppliers/:id", DeleteSupplier)
	r.DELETE("/api/stocks/:id", DeleteStock)
	r.DELETE("/api/users/:id", DeleteUser)
	r.POST("/api/sales", CreateSale)
	return r
}

// Deleting a row that other rows still point at must be rejected, never
// silently leave dangling references behind.
func TestDeleteRejectsReferencedRows(t *testing.T) {
	setupTestDB(t)
	r := newDeleteGuardRouter()

	user := createTestUser(t, "seller", "seller@shop.test", "hunter22")
	category := createTestCategory(t, "Electronics")
	product := createTestProduct(t, "Laptop", category.ID)
	supplier := createTestSupplier(t, "Acme Wholesale")
	client := createTestClient(t, "Corner Store")
	stock := createTestStock(t, product.ID, supplier.ID, user.ID, 8, "25.00", nil)

	w := performRequest(t, r, http.MethodPost, "/api/sales", gin.H{
		"client_id":      client.ID,
		"user_id":        user.ID,
		"payment_method": "cash",
		"items":          []gin.H{{"stock_id": stock.ID, "quantity": 2}},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	cases := []struct {
		name    string
		path    string
		message string
	}{
		{
			name:    "category in use by a product",
			path:    fmt.Sprintf("/api/categories/%d", category.ID),
			message: "Could not delete category. It is in use by products.",
		},
		{
			name:    "product linked to a stock lot",
			path:    fmt.Sprintf("/api/products/%d", product.ID),
			message: "Could not delete product. It is linked to stock lots.",
		},
		{
			name:    "supplier linked to a stock lot",
			path:    fmt.Sprintf("/api/suppliers/%d", supplier.ID),
			message: "Could not delete supplier. It is linked to stock lots.",
		},
		{
			name:    "stock lot referenced by a sale item",
			path:    fmt.Sprintf("/api/stocks/%d", stock.ID),
			message: "Could not delete stock item. It is linked to past sales.",
		},
		{
			name:    "user linked to sales and deposits",
			path:    fmt.Sprintf("/api/users/%d", user.ID),
			message: "Could not delete user. They are linked to sales or stock deposits.",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := performRequest(t, r, http.MethodDelete, tc.path, nil)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tc.message, messageOf(t, w))
		})
	}

	// Nothing was deleted.
	require.NoError(t, database.DB.First(&models.Category{}, category.ID).Error)
	require.NoError(t, database.DB.First(&models.Product{}, product.ID).Error)
	require.NoError(t, database.DB.First(&models.Supplier{}, supplier.ID).Error)
	require.NoError(t, database.DB.First(&models.Stock{}, stock.ID).Error)
	require.NoError(t, database.DB.First(&models.User{}, user.ID).Error)
}

func TestDeleteUnreferencedRows(t *testing.T) {
	setupTestDB(t)
	r := newDeleteGuardRouter()

	supplier := createTestSupplier(t, "Idle Supplier")
	w := performRequest(t, r, http.MethodDelete, fmt.Sprintf("/api/suppliers/%d", supplier.ID), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	user := createTestUser(t, "intern", "intern@shop.test", "hunter22")
	w = performRequest(t, r, http.MethodDelete, fmt.Sprintf("/api/users/%d", user.ID), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	var credCount int64
	database.DB.Model(&models.Credential{}).Where("user_id = ?", user.ID).Count(&credCount)
	assert.Zero(t, credCount)
}
