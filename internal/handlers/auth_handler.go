package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"go-inventory-api/internal/auth"
	"go-inventory-api/internal/database"
	"go-inventory-api/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

func (r *RegisterRequest) validate() []string {
	var errs []string
	if r.Username == "" {
		errs = append(errs, "username is required")
	}
	if r.Email == "" {
		errs = append(errs, "email is required")
	}
	if r.Password == "" {
		errs = append(errs, "password is required")
	}
	return errs
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func Register(c *gin.Context) {
	var input RegisterRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input"})
		return
	}

	if errs := input.validate(); len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Missing required fields (username, email, password)",
			"errors":  errs,
		})
		return
	}

	// Uniqueness checks before touching anything
	var count int64
	if err := database.DB.Model(&models.User{}).Where("username = ?", input.Username).Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "An unexpected error occurred: " + err.Error()})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{
			"message": fmt.Sprintf("User with username %q already exists.", input.Username),
		})
		return
	}

	if err := database.DB.Model(&models.User{}).Where("email = ?", input.Email).Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "An unexpected error occurred: " + err.Error()})
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{
			"message": fmt.Sprintf("User with email %q already exists.", input.Email),
		})
		return
	}

	user := models.User{
		Username: input.Username,
		Email:    input.Email,
		FullName: input.FullName,
	}

	// User and credential are one unit
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		cred := models.Credential{UserID: user.ID}
		if err := cred.SetPassword(input.Password); err != nil {
			return err
		}
		return tx.Create(&cred).Error
	})
	if err != nil {
		// A concurrent registration can slip past the checks above; the
		// unique indexes catch it at insert time.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{
				"message": "User with that username or email already exists.",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "An unexpected error occurred: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
		},
	})
}

func Login(c *gin.Context) {
	var input LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid input"})
		return
	}

	// All three failure paths return the same body so a caller cannot
	// probe which usernames exist.
	var user models.User
	if err := database.DB.Where("username = ?", input.Username).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid username or password"})
		return
	}

	var cred models.Credential
	if err := database.DB.Where("user_id = ?", user.ID).First(&cred).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid username or password"})
		return
	}

	if !cred.CheckPassword(input.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid username or password"})
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Username, cred.PermissionsLevel)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user": gin.H{
			"id":        user.ID,
			"username":  user.Username,
			"email":     user.Email,
			"full_name": user.FullName,
		},
	})
}
