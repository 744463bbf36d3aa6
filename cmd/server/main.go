package main

import (
	"log"
	"os"
	"time"

	"go-inventory-api/internal/database"
	"go-inventory-api/internal/handlers"
	"go-inventory-api/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: No .env file found")
	}

	database.Connect()
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "online"}) })
	r.POST("/api/login", handlers.Login)

	// Only opens if we explicitly allow it in .env
	if os.Getenv("ALLOW_REGISTRATION") == "true" {
		r.POST("/api/register", handlers.Register)
		log.Println("WARNING: Registration route is OPEN. Disable this in production!")
	} else {
		log.Println("Registration route is disabled.")
	}

	// --- PROTECTED ROUTES ---
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware())
	{
		api.GET("/categories", handlers.GetCategories)
		api.GET("/categories/:id", handlers.GetCategory)
		api.POST("/categories", handlers.CreateCategory)
		api.PUT("/categories/:id", handlers.UpdateCategory)
		api.DELETE("/categories/:id", handlers.DeleteCategory)

		api.GET("/products", handlers.GetProducts)
		api.GET("/products/:id", handlers.GetProduct)
		api.POST("/products", handlers.CreateProduct)
		api.PUT("/products/:id", handlers.UpdateProduct)
		api.DELETE("/products/:id", handlers.DeleteProduct)

		api.GET("/suppliers", handlers.GetSuppliers)
		api.GET("/suppliers/:id", handlers.GetSupplier)
		api.POST("/suppliers", handlers.CreateSupplier)
		api.PUT("/suppliers/:id", handlers.UpdateSupplier)
		api.DELETE("/suppliers/:id", handlers.DeleteSupplier)

		api.GET("/stocks", handlers.GetStocks)
		api.GET("/stocks/:id", handlers.GetStock)
		api.POST("/stocks", handlers.CreateStock)
		api.PUT("/stocks/:id", handlers.UpdateStock)
		api.DELETE("/stocks/:id", handlers.DeleteStock)

		api.GET("/clients", handlers.GetClients)
		api.GET("/clients/:id", handlers.GetClient)
		api.GET("/clients/:id/sales", handlers.GetSalesByClient)
		api.POST("/clients", handlers.CreateClient)
		api.PUT("/clients/:id", handlers.UpdateClient)
		api.DELETE("/clients/:id", handlers.DeleteClient)

		api.GET("/sales", handlers.GetSales)
		api.GET("/sales/:id", handlers.GetSale)
		api.POST("/sales", handlers.CreateSale)
		api.DELETE("/sales/:id", handlers.DeleteSale)

		api.GET("/dashboard", handlers.GetDashboardStats)
		api.GET("/dashboard/summary", handlers.GetDashboardSummary)

		// ADMIN ONLY
		admin := api.Group("/")
		admin.Use(middleware.RequirePermission(2))
		{
			admin.GET("/users", handlers.GetUsers)
			admin.GET("/users/:id", handlers.GetUser)
			admin.DELETE("/users/:id", handlers.DeleteUser)

			admin.POST("/ask", handlers.AskAI)
		}
	}

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	log.Println("Server starting on " + baseURL)
	if err := r.Run(":8080"); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}
