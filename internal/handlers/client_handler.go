package handlers

import (
	"net/http"

	"go-inventory-api/internal/database"
	"go-inventory-api/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ClientRequest struct {
	Name               *string          `json:"name"`
	ContactPhone       *string          `json:"contact_phone"`
	ContactEmail       *string          `json:"contact_email"`
	Address            *string          `json:"address"`
	IsCreditClient     *bool            `json:"is_credit_client"`
	CreditLimit        *decimal.Decimal `json:"credit_limit"`
	CurrentMonthStatus *string          `json:"current_month_status"`
}

func GetClients(c *gin.Context) {
	var clients []models.Client
	if err := database.DB.Find(&clients).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch clients"})
		return
	}
	c.JSON(http.StatusOK, clients)
}

func GetClient(c *gin.Context) {
	var client models.Client
	if err := database.DB.First(&client, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Client not found"})
		return
	}
	c.JSON(http.StatusOK, client)
}

func CreateClient(c *gin.Context) {
	var input ClientRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input"})
		return
	}

	if input.Name == nil || *input.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Client name is required"})
		return
	}

	client := models.Client{Name: *input.Name}
	applyClientFields(&client, &input)

	if err := database.DB.Create(&client).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create client"})
		return
	}
	c.JSON(http.StatusCreated, client)
}

func UpdateClient(c *gin.Context) {
	var client models.Client
	if err := database.DB.First(&client, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Client not found"})
		return
	}

	var input ClientRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input"})
		return
	}

	if input.Name != nil {
		client.Name = *input.Name
	}
	applyClientFields(&client, &input)

	if err := database.DB.Save(&client).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update client"})
		return
	}
	c.JSON(http.StatusOK, client)
}

// DeleteClient removes the client together with its sales and their
// line items. Stock quantities are left as they are.
func DeleteClient(c *gin.Context) {
	var client models.Client
	if err := database.DB.First(&client, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Client not found"})
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var saleIDs []uint
		if err := tx.Model(&models.Sale{}).Where("client_id = ?", client.ID).
			Pluck("id", &saleIDs).Error; err != nil {
			return err
		}
		if len(saleIDs) > 0 {
			if err := tx.Where("sale_id IN ?", saleIDs).Delete(&models.SaleItem{}).Error; err != nil {
				return err
			}
			if err := tx.Where("client_id = ?", client.ID).Delete(&models.Sale{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&client).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete client"})
		return
	}
	c.Status(http.StatusNoContent)
}

func applyClientFields(client *models.Client, input *ClientRequest) {
	if input.ContactPhone != nil {
		client.ContactPhone = *input.ContactPhone
	}
	if input.ContactEmail != nil {
		client.ContactEmail = *input.ContactEmail
	}
	if input.Address != nil {
		client.Address = *input.Address
	}
	if input.IsCreditClient != nil {
		client.IsCreditClient = *input.IsCreditClient
	}
	if input.CreditLimit != nil {
		client.CreditLimit = decimal.NewNullDecimal(*input.CreditLimit)
	}
	if input.CurrentMonthStatus != nil {
		client.CurrentMonthStatus = *input.CurrentMonthStatus
	}
}
