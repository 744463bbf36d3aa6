package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"go-inventory-api/internal/database"
	"go-inventory-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type SaleItemRequest struct {
	StockID  uint `json:"stock_id"`
	Quantity int  `json:"quantity"`
}

type SaleRequest struct {
	ClientID        uint              `json:"client_id"`
	UserID          uint              `json:"user_id"`
	PaymentMethod   string            `json:"payment_method"`
	DiscountApplied *decimal.Decimal  `json:"discount_applied"`
	Items           []SaleItemRequest `json:"items"`
}

// saleError carries the HTTP status alongside the message so the
// workflow can be driven and asserted on without a gin context.
type saleError struct {
	Status  int
	Message string
}

type SaleItemResponse struct {
	SaleID          uint            `json:"sale_id"`
	StockID         uint            `json:"stock_id"`
	ProductName     string          `json:"product_name"`
	QuantitySold    int             `json:"quantity_sold"`
	UnitPriceAtSale decimal.Decimal `json:"unit_price_at_sale"`
	Subtotal        decimal.Decimal `json:"subtotal"`
}

type SaleResponse struct {
	ID              uint               `json:"id"`
	ClientID        uint               `json:"client_id"`
	ClientName      string             `json:"client_name"`
	UserID          uint               `json:"user_id"`
	SalespersonName string             `json:"salesperson_name"`
	SaleDate        time.Time          `json:"sale_date"`
	TotalAmount     decimal.Decimal    `json:"total_amount"`
	DiscountApplied decimal.Decimal    `json:"discount_applied"`
	PaymentMethod   string             `json:"payment_method"`
	Items           []SaleItemResponse `json:"items"`
}

func saleToResponse(sale models.Sale) SaleResponse {
	resp := SaleResponse{
		ID:              sale.ID,
		ClientID:        sale.ClientID,
		UserID:          sale.UserID,
		SaleDate:        sale.SaleDate,
		TotalAmount:     sale.TotalAmount,
		DiscountApplied: sale.DiscountApplied,
		PaymentMethod:   sale.PaymentMethod,
		Items:           make([]SaleItemResponse, 0, len(sale.Items)),
	}

	var client models.Client
	if err := database.DB.First(&client, sale.ClientID).Error; err == nil {
		resp.ClientName = client.Name
	}
	var user models.User
	if err := database.DB.First(&user, sale.UserID).Error; err == nil {
		resp.SalespersonName = user.FullName
		if resp.SalespersonName == "" {
			resp.SalespersonName = user.Username
		}
	}

	for _, item := range sale.Items {
		itemResp := SaleItemResponse{
			SaleID:          item.SaleID,
			StockID:         item.StockID,
			QuantitySold:    item.QuantitySold,
			UnitPriceAtSale: item.UnitPriceAtSale,
			Subtotal:        item.UnitPriceAtSale.Mul(decimal.NewFromInt(int64(item.QuantitySold))),
		}
		var stock models.Stock
		if err := database.DB.First(&stock, item.StockID).Error; err == nil {
			var product models.Product
			if err := database.DB.First(&product, stock.ProductID).Error; err == nil {
				itemResp.ProductName = product.Name
			}
		}
		resp.Items = append(resp.Items, itemResp)
	}
	return resp
}

func GetSales(c *gin.Context) {
	var sales []models.Sale
	if err := database.DB.Preload("Items").Find(&sales).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch sales"})
		return
	}

	resp := make([]SaleResponse, 0, len(sales))
	for _, s := range sales {
		resp = append(resp, saleToResponse(s))
	}
	c.JSON(http.StatusOK, resp)
}

func GetSale(c *gin.Context) {
	var sale models.Sale
	if err := database.DB.Preload("Items").First(&sale, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Sale not found"})
		return
	}
	c.JSON(http.StatusOK, saleToResponse(sale))
}

func GetSalesByClient(c *gin.Context) {
	var sales []models.Sale
	if err := database.DB.Preload("Items").
		Where("client_id = ?", c.Param("id")).Find(&sales).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch sales"})
		return
	}

	resp := make([]SaleResponse, 0, len(sales))
	for _, s := range sales {
		resp = append(resp, saleToResponse(s))
	}
	c.JSON(http.StatusOK, resp)
}

func CreateSale(c *gin.Context) {
	var req SaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	var sale *models.Sale
	var wErr *saleError

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		sale, wErr = processSale(tx, &req)
		if wErr != nil {
			// A non-nil return rolls the whole transaction back, so a
			// rejected sale leaves every stock quantity untouched.
			return errors.New(wErr.Message)
		}
		return nil
	})

	if wErr != nil {
		c.JSON(wErr.Status, gin.H{"message": wErr.Message})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create sale record: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, saleToResponse(*sale))
}

// processSale validates the whole request against current stock before
// mutating anything, then decrements each lot with a guarded update and
// writes the sale with its line items. Runs inside one transaction.
func processSale(tx *gorm.DB, req *SaleRequest) (*models.Sale, *saleError) {
	if req.ClientID == 0 || req.UserID == 0 || req.PaymentMethod == "" {
		return nil, &saleError{http.StatusBadRequest, "client_id, user_id, and payment_method are required"}
	}

	if err := tx.First(&models.Client{}, req.ClientID).Error; err != nil {
		return nil, &saleError{http.StatusBadRequest, fmt.Sprintf("Client with ID %d not found", req.ClientID)}
	}
	if err := tx.First(&models.User{}, req.UserID).Error; err != nil {
		return nil, &saleError{http.StatusBadRequest, fmt.Sprintf("User with ID %d not found", req.UserID)}
	}

	if len(req.Items) == 0 {
		return nil, &saleError{http.StatusBadRequest, "At least one item is required"}
	}

	discount := decimal.Zero
	if req.DiscountApplied != nil {
		discount = *req.DiscountApplied
		if discount.IsNegative() || discount.GreaterThan(decimal.NewFromInt(100)) {
			return nil, &saleError{http.StatusBadRequest, "discount_applied must be between 0 and 100"}
		}
	}

	// Validation pass: no writes until every line checks out.
	seen := make(map[uint]bool, len(req.Items))
	total := decimal.Zero
	items := make([]models.SaleItem, 0, len(req.Items))

	for _, line := range req.Items {
		if line.StockID == 0 || line.Quantity <= 0 {
			return nil, &saleError{http.StatusBadRequest, "Each item needs a stock_id and a quantity greater than zero"}
		}
		if seen[line.StockID] {
			return nil, &saleError{http.StatusBadRequest, fmt.Sprintf("Duplicate item for stock ID %d", line.StockID)}
		}
		seen[line.StockID] = true

		var stock models.Stock
		if err := tx.First(&stock, line.StockID).Error; err != nil {
			return nil, &saleError{http.StatusBadRequest, fmt.Sprintf("Stock with ID %d not found", line.StockID)}
		}
		if stock.Quantity < line.Quantity {
			return nil, &saleError{http.StatusBadRequest, fmt.Sprintf(
				"Insufficient stock for stock ID %d. Available: %d, Requested: %d",
				line.StockID, stock.Quantity, line.Quantity)}
		}

		subtotal := stock.SellingPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		total = total.Add(subtotal)

		items = append(items, models.SaleItem{
			StockID:         line.StockID,
			QuantitySold:    line.Quantity,
			UnitPriceAtSale: stock.SellingPrice,
		})
	}

	// Mutation pass: the quantity guard in the WHERE clause makes each
	// decrement atomic, so two competing sales cannot both take the last
	// units even if they validated against the same snapshot.
	for _, line := range req.Items {
		res := tx.Model(&models.Stock{}).
			Where("id = ? AND quantity >= ?", line.StockID, line.Quantity).
			UpdateColumn("quantity", gorm.Expr("quantity - ?", line.Quantity))
		if res.Error != nil {
			return nil, &saleError{http.StatusInternalServerError, "Failed to update stock"}
		}
		if res.RowsAffected == 0 {
			var stock models.Stock
			tx.First(&stock, line.StockID)
			return nil, &saleError{http.StatusBadRequest, fmt.Sprintf(
				"Insufficient stock for stock ID %d. Available: %d, Requested: %d",
				line.StockID, stock.Quantity, line.Quantity)}
		}
	}

	if discount.IsPositive() {
		total = total.Sub(total.Mul(discount).Div(decimal.NewFromInt(100)))
	}

	sale := models.Sale{
		ClientID:        req.ClientID,
		UserID:          req.UserID,
		SaleDate:        time.Now(),
		TotalAmount:     total,
		DiscountApplied: discount,
		PaymentMethod:   req.PaymentMethod,
		Items:           items,
	}

	if err := tx.Create(&sale).Error; err != nil {
		return nil, &saleError{http.StatusInternalServerError, "Failed to create sale record"}
	}
	return &sale, nil
}

// DeleteSale removes the sale and its line items. Deletion is a pure
// removal: decremented stock quantities are not restored.
func DeleteSale(c *gin.Context) {
	var sale models.Sale
	if err := database.DB.First(&sale, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Sale not found"})
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("sale_id = ?", sale.ID).Delete(&models.SaleItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&sale).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete sale"})
		return
	}
	c.Status(http.StatusNoContent)
}
