package handlers

import (
	"net/http"

	"go-inventory-api/internal/database"
	"go-inventory-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type SupplierRequest struct {
	Name           *string          `json:"name"`
	ContactPerson  *string          `json:"contact_person"`
	Phone          *string          `json:"phone"`
	Email          *string          `json:"email"`
	Address        *string          `json:"address"`
	AdditionalFees *decimal.Decimal `json:"additional_fees"`
}

func GetSuppliers(c *gin.Context) {
	var suppliers []models.Supplier
	if err := database.DB.Find(&suppliers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch suppliers"})
		return
	}
	c.JSON(http.StatusOK, suppliers)
}

func GetSupplier(c *gin.Context) {
	var supplier models.Supplier
	if err := database.DB.First(&supplier, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Supplier not found"})
		return
	}
	c.JSON(http.StatusOK, supplier)
}

func CreateSupplier(c *gin.Context) {
	var input SupplierRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input"})
		return
	}

	if input.Name == nil || *input.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Supplier name is required"})
		return
	}

	supplier := models.Supplier{Name: *input.Name}
	applySupplierFields(&supplier, &input)

	if err := database.DB.Create(&supplier).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create supplier"})
		return
	}
	c.JSON(http.StatusCreated, supplier)
}

func UpdateSupplier(c *gin.Context) {
	var supplier models.Supplier
	if err := database.DB.First(&supplier, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Supplier not found"})
		return
	}

	var input SupplierRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input"})
		return
	}

	if input.Name != nil {
		supplier.Name = *input.Name
	}
	applySupplierFields(&supplier, &input)

	if err := database.DB.Save(&supplier).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update supplier"})
		return
	}
	c.JSON(http.StatusOK, supplier)
}

func DeleteSupplier(c *gin.Context) {
	var supplier models.Supplier
	if err := database.DB.First(&supplier, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Supplier not found"})
		return
	}

	var inUse int64
	database.DB.Model(&models.Stock{}).Where("supplier_id = ?", supplier.ID).Count(&inUse)
	if inUse > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Could not delete supplier. It is linked to stock lots."})
		return
	}

	if err := database.DB.Delete(&supplier).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete supplier"})
		return
	}
	c.Status(http.StatusNoContent)
}

func applySupplierFields(supplier *models.Supplier, input *SupplierRequest) {
	if input.ContactPerson != nil {
		supplier.ContactPerson = *input.ContactPerson
	}
	if input.Phone != nil {
		supplier.Phone = *input.Phone
	}
	if input.Email != nil {
		supplier.Email = *input.Email
	}
	if input.Address != nil {
		supplier.Address = *input.Address
	}
	if input.AdditionalFees != nil {
		supplier.AdditionalFees = decimal.NewNullDecimal(*input.AdditionalFees)
	}
}
