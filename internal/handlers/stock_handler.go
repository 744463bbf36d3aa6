package handlers

import (
	"fmt"
	"net/http"
	"time"

	"go-inventory-api/internal/database"
	"go-inventory-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type StockRequest struct {
	ProductID         *uint            `json:"product_id"`
	SupplierID        *uint            `json:"supplier_id"`
	Location          *string          `json:"location"`
	Quantity          *int             `json:"quantity"`
	CostPrice         *decimal.Decimal `json:"cost_price"`
	SellingPrice      *decimal.Decimal `json:"selling_price"`
	DepositedByUserID *uint            `json:"deposited_by_user_id"`
	ExpirationDate    *string          `json:"expiration_date"` // YYYY-MM-DD
}

// StockResponse carries display names for the referenced rows instead
// of nesting them.
type StockResponse struct {
	ID                uint                `json:"id"`
	ProductID         uint                `json:"product_id"`
	SupplierID        uint                `json:"supplier_id"`
	Location          string              `json:"location"`
	Quantity          int                 `json:"quantity"`
	CostPrice         decimal.NullDecimal `json:"cost_price"`
	SellingPrice      decimal.Decimal     `json:"selling_price"`
	DepositedByUserID uint                `json:"deposited_by_user_id"`
	DepositedAt       time.Time           `json:"deposited_at"`
	ExpirationDate    *string             `json:"expiration_date"`
	ProductName       string              `json:"product_name"`
	SupplierName      string              `json:"supplier_name"`
	DepositorUsername string              `json:"depositor_username"`
}

func stockToResponse(s models.Stock) StockResponse {
	resp := StockResponse{
		ID:                s.ID,
		ProductID:         s.ProductID,
		SupplierID:        s.SupplierID,
		Location:          s.Location,
		Quantity:          s.Quantity,
		CostPrice:         s.CostPrice,
		SellingPrice:      s.SellingPrice,
		DepositedByUserID: s.DepositedByUserID,
		DepositedAt:       s.DepositedAt,
	}
	if s.ExpirationDate != nil {
		formatted := s.ExpirationDate.Format("2006-01-02")
		resp.ExpirationDate = &formatted
	}

	var product models.Product
	if err := database.DB.First(&product, s.ProductID).Error; err == nil {
		resp.ProductName = product.Name
	}
	var supplier models.Supplier
	if err := database.DB.First(&supplier, s.SupplierID).Error; err == nil {
		resp.SupplierName = supplier.Name
	}
	var user models.User
	if err := database.DB.First(&user, s.DepositedByUserID).Error; err == nil {
		resp.DepositorUsername = user.Username
	}
	return resp
}

func GetStocks(c *gin.Context) {
	var stocks []models.Stock
	if err := database.DB.Find(&stocks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch stock items"})
		return
	}

	resp := make([]StockResponse, 0, len(stocks))
	for _, s := range stocks {
		resp = append(resp, stockToResponse(s))
	}
	c.JSON(http.StatusOK, resp)
}

func GetStock(c *gin.Context) {
	var stock models.Stock
	if err := database.DB.First(&stock, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Stock item not found"})
		return
	}
	c.JSON(http.StatusOK, stockToResponse(stock))
}

func CreateStock(c *gin.Context) {
	var input StockRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input"})
		return
	}

	if input.ProductID == nil || input.SupplierID == nil || input.Quantity == nil ||
		input.SellingPrice == nil || input.DepositedByUserID == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Missing required fields: product_id, supplier_id, quantity, selling_price, deposited_by_user_id",
		})
		return
	}

	if *input.Quantity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Quantity must not be negative"})
		return
	}
	if input.SellingPrice.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Selling price must not be negative"})
		return
	}

	if msg := checkStockForeignKeys(&input); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": msg})
		return
	}

	expiration, err := parseExpirationDate(input.ExpirationDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid date format for expiration_date. Use YYYY-MM-DD."})
		return
	}

	stock := models.Stock{
		ProductID:         *input.ProductID,
		SupplierID:        *input.SupplierID,
		Quantity:          *input.Quantity,
		SellingPrice:      *input.SellingPrice,
		DepositedByUserID: *input.DepositedByUserID,
		DepositedAt:       time.Now(),
		ExpirationDate:    expiration,
	}
	if input.Location != nil {
		stock.Location = *input.Location
	}
	if input.CostPrice != nil {
		stock.CostPrice = decimal.NewNullDecimal(*input.CostPrice)
	}

	if err := database.DB.Create(&stock).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create stock item"})
		return
	}
	c.JSON(http.StatusCreated, stockToResponse(stock))
}

func UpdateStock(c *gin.Context) {
	var stock models.Stock
	if err := database.DB.First(&stock, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Stock item not found"})
		return
	}

	var input StockRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input"})
		return
	}

	if msg := checkStockForeignKeys(&input); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": msg})
		return
	}

	if input.ProductID != nil {
		stock.ProductID = *input.ProductID
	}
	if input.SupplierID != nil {
		stock.SupplierID = *input.SupplierID
	}
	if input.DepositedByUserID != nil {
		stock.DepositedByUserID = *input.DepositedByUserID
	}
	if input.Location != nil {
		stock.Location = *input.Location
	}
	if input.Quantity != nil {
		if *input.Quantity < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Quantity must not be negative"})
			return
		}
		stock.Quantity = *input.Quantity
	}
	if input.SellingPrice != nil {
		if input.SellingPrice.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Selling price must not be negative"})
			return
		}
		stock.SellingPrice = *input.SellingPrice
	}
	if input.CostPrice != nil {
		stock.CostPrice = decimal.NewNullDecimal(*input.CostPrice)
	}
	if input.ExpirationDate != nil {
		expiration, err := parseExpirationDate(input.ExpirationDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid date format for expiration_date. Use YYYY-MM-DD."})
			return
		}
		stock.ExpirationDate = expiration
	}
	// DepositedAt is set at creation and never updated.

	if err := database.DB.Save(&stock).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update stock item"})
		return
	}
	c.JSON(http.StatusOK, stockToResponse(stock))
}

func DeleteStock(c *gin.Context) {
	var stock models.Stock
	if err := database.DB.First(&stock, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Stock item not found"})
		return
	}

	var inUse int64
	database.DB.Model(&models.SaleItem{}).Where("stock_id = ?", stock.ID).Count(&inUse)
	if inUse > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Could not delete stock item. It is linked to past sales."})
		return
	}

	if err := database.DB.Delete(&stock).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete stock item"})
		return
	}
	c.Status(http.StatusNoContent)
}

func checkStockForeignKeys(input *StockRequest) string {
	if input.ProductID != nil {
		if err := database.DB.First(&models.Product{}, *input.ProductID).Error; err != nil {
			return fmt.Sprintf("Product with ID %d not found.", *input.ProductID)
		}
	}
	if input.SupplierID != nil {
		if err := database.DB.First(&models.Supplier{}, *input.SupplierID).Error; err != nil {
			return fmt.Sprintf("Supplier with ID %d not found.", *input.SupplierID)
		}
	}
	if input.DepositedByUserID != nil {
		if err := database.DB.First(&models.User{}, *input.DepositedByUserID).Error; err != nil {
			return fmt.Sprintf("User with ID %d not found.", *input.DepositedByUserID)
		}
	}
	return ""
}

func parseExpirationDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", *raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}
