package handlers

import (
	"net/http"

	"go-inventory-api/internal/database"
	"go-inventory-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// Stocks with fewer units than this show up in the low-stock count.
const lowStockThreshold = 10

type DashboardStats struct {
	TotalProducts       int64           `json:"totalProducts"`
	TotalCategories     int64           `json:"totalCategories"`
	TotalSuppliers      int64           `json:"totalSuppliers"`
	TotalStockItems     int64           `json:"totalStockItems"`
	TotalSales          int64           `json:"totalSales"`
	TotalClients        int64           `json:"totalClients"`
	TotalUsers          int64           `json:"totalUsers"`
	TotalInventoryValue decimal.Decimal `json:"totalInventoryValue"`
	PotentialSalesValue decimal.Decimal `json:"potentialSalesValue"`
	LowStockItems       int64           `json:"lowStockItems"`
}

// --- GET: /api/dashboard ---
func GetDashboardStats(c *gin.Context) {
	stats := DashboardStats{
		TotalInventoryValue: decimal.Zero,
		PotentialSalesValue: decimal.Zero,
	}

	counts := []struct {
		model interface{}
		dest  *int64
	}{
		{&models.Product{}, &stats.TotalProducts},
		{&models.Category{}, &stats.TotalCategories},
		{&models.Supplier{}, &stats.TotalSuppliers},
		{&models.Stock{}, &stats.TotalStockItems},
		{&models.Sale{}, &stats.TotalSales},
		{&models.Client{}, &stats.TotalClients},
		{&models.User{}, &stats.TotalUsers},
	}
	for _, count := range counts {
		if err := database.DB.Model(count.model).Count(count.dest).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to calculate dashboard stats"})
			return
		}
	}

	var stocks []models.Stock
	if err := database.DB.Find(&stocks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch inventory"})
		return
	}

	for _, stock := range stocks {
		qty := decimal.NewFromInt(int64(stock.Quantity))

		// Lots without a cost price contribute nothing to the valuation
		if stock.CostPrice.Valid {
			stats.TotalInventoryValue = stats.TotalInventoryValue.Add(stock.CostPrice.Decimal.Mul(qty))
		}
		stats.PotentialSalesValue = stats.PotentialSalesValue.Add(stock.SellingPrice.Mul(qty))

		if stock.Quantity < lowStockThreshold {
			stats.LowStockItems++
		}
	}

	c.JSON(http.StatusOK, stats)
}

// --- GET: /api/dashboard/summary ---
func GetDashboardSummary(c *gin.Context) {
	summary := gin.H{}

	counts := []struct {
		model interface{}
		key   string
	}{
		{&models.Product{}, "products"},
		{&models.Category{}, "categories"},
		{&models.Supplier{}, "suppliers"},
		{&models.Stock{}, "stockItems"},
		{&models.Sale{}, "sales"},
		{&models.Client{}, "clients"},
	}
	for _, count := range counts {
		var n int64
		if err := database.DB.Model(count.model).Count(&n).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to calculate summary"})
			return
		}
		summary[count.key] = n
	}

	c.JSON(http.StatusOK, summary)
}
