package handlers

import (
	"fmt"
	"net/http"

	"go-inventory-api/internal/database"
	"go-inventory-api/internal/models"

	"github.com/gin-gonic/gin"
)

type ProductRequest struct {
	Name           *string `json:"name"`
	Brand          *string `json:"brand"`
	Description    *string `json:"description"`
	WarrantyMonths *int    `json:"warranty_months"`
	CategoryID     *uint   `json:"category_id"`
}

// ProductResponse flattens the category name in, so the frontend never
// receives a nested Category (and no cycle back through products).
type ProductResponse struct {
	ID             uint   `json:"id"`
	Name           string `json:"name"`
	Brand          string `json:"brand"`
	Description    string `json:"description"`
	WarrantyMonths *int   `json:"warranty_months"`
	CategoryID     uint   `json:"category_id"`
	CategoryName   string `json:"category_name"`
}

func productToResponse(p models.Product) ProductResponse {
	resp := ProductResponse{
		ID:             p.ID,
		Name:           p.Name,
		Brand:          p.Brand,
		Description:    p.Description,
		WarrantyMonths: p.WarrantyMonths,
		CategoryID:     p.CategoryID,
	}
	var category models.Category
	if err := database.DB.First(&category, p.CategoryID).Error; err == nil {
		resp.CategoryName = category.Name
	}
	return resp
}

// --- GET: List all products ---
func GetProducts(c *gin.Context) {
	var products []models.Product
	if err := database.DB.Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch products"})
		return
	}

	resp := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, productToResponse(p))
	}
	c.JSON(http.StatusOK, resp)
}

func GetProduct(c *gin.Context) {
	var product models.Product
	if err := database.DB.First(&product, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, productToResponse(product))
}

// --- POST: Add a new product ---
func CreateProduct(c *gin.Context) {
	var input ProductRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input"})
		return
	}

	if input.Name == nil || *input.Name == "" || input.CategoryID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Product name and category_id are required"})
		return
	}

	if err := database.DB.First(&models.Category{}, *input.CategoryID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": fmt.Sprintf("Category with ID %d not found.", *input.CategoryID)})
		return
	}

	product := models.Product{
		Name:           *input.Name,
		WarrantyMonths: input.WarrantyMonths,
		CategoryID:     *input.CategoryID,
	}
	if input.Brand != nil {
		product.Brand = *input.Brand
	}
	if input.Description != nil {
		product.Description = *input.Description
	}

	if err := database.DB.Create(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create product"})
		return
	}
	c.JSON(http.StatusCreated, productToResponse(product))
}

// --- PUT: Partial update ---
func UpdateProduct(c *gin.Context) {
	var product models.Product
	if err := database.DB.First(&product, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		return
	}

	var input ProductRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input"})
		return
	}

	if input.CategoryID != nil {
		if err := database.DB.First(&models.Category{}, *input.CategoryID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": fmt.Sprintf("Category with ID %d not found.", *input.CategoryID)})
			return
		}
		product.CategoryID = *input.CategoryID
	}
	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Brand != nil {
		product.Brand = *input.Brand
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.WarrantyMonths != nil {
		product.WarrantyMonths = input.WarrantyMonths
	}

	if err := database.DB.Save(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update product"})
		return
	}
	c.JSON(http.StatusOK, productToResponse(product))
}

// --- DELETE ---
func DeleteProduct(c *gin.Context) {
	var product models.Product
	if err := database.DB.First(&product, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		return
	}

	var inUse int64
	database.DB.Model(&models.Stock{}).Where("product_id = ?", product.ID).Count(&inUse)
	if inUse > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Could not delete product. It is linked to stock lots."})
		return
	}

	if err := database.DB.Delete(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete product"})
		return
	}
	c.Status(http.StatusNoContent)
}
