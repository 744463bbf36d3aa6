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

func newClientRouter() *gin.Engine {
	r := gin.New()
	r.GET("/api/clients", GetClients)
	r.GET("/api/clients/:id", GetClient)
	r.POST("/api/clients", CreateClient)
	r.PUT("/api/clients/:id", UpdateClient)
	r.DELETE("/api/clients/:id", DeleteClient)
	r.POST("/api/sales", CreateSale)
	return r
}

func TestCreateClient(t *testing.T) {
	setupTestDB(t)
	r := newClientRouter()

	t.Run("requires a name", func(t *testing.T) {
		w := performRequest(t, r, http.MethodPost, "/api/clients", gin.H{
			"contact_phone": "555-0100",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Client name is required", messageOf(t, w))
	})

	t.Run("stores credit fields", func(t *testing.T) {
		w := performRequest(t, r, http.MethodPost, "/api/clients", gin.H{
			"name":             "Corner Store",
			"is_credit_client": true,
			"credit_limit":     "500.00",
		})
		require.Equal(t, http.StatusCreated, w.Code)

		var client models.Client
		decodeBody(t, w, &client)
		assert.True(t, client.IsCreditClient)
		require.True(t, client.CreditLimit.Valid)
		assert.Equal(t, "500", client.CreditLimit.Decimal.String())
	})
}

func TestUpdateClient(t *testing.T) {
	setupTestDB(t)
	r := newClientRouter()
	client := createTestClient(t, "Corner Store")

	w := performRequest(t, r, http.MethodPut, fmt.Sprintf("/api/clients/%d", client.ID), gin.H{
		"current_month_status": "PAID",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var updated models.Client
	decodeBody(t, w, &updated)
	assert.Equal(t, "PAID", updated.CurrentMonthStatus)
	assert.Equal(t, "Corner Store", updated.Name, "untouched fields survive a partial update")

	w = performRequest(t, r, http.MethodPut, "/api/clients/999", gin.H{"name": "Ghost"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteClientCascadesSales(t *testing.T) {
	setupTestDB(t)
	r := newClientRouter()
	fix := newSaleFixture(t, 10, "10.00")

	w := performRequest(t, r, http.MethodPost, "/api/sales", gin.H{
		"client_id":      fix.Client.ID,
		"user_id":        fix.User.ID,
		"payment_method": "cash",
		"items":          []gin.H{{"stock_id": fix.Stock.ID, "quantity": 2}},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = performRequest(t, r, http.MethodDelete, fmt.Sprintf("/api/clients/%d", fix.Client.ID), nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	var saleCount, itemCount int64
	database.DB.Model(&models.Sale{}).Count(&saleCount)
	database.DB.Model(&models.SaleItem{}).Count(&itemCount)
	assert.Zero(t, saleCount)
	assert.Zero(t, itemCount)

	// Cascade removes records, not inventory history
	assert.Equal(t, 8, reloadStock(t, fix.Stock.ID).Quantity)
}
