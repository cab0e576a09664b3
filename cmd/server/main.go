package main

import (
	"log"
	"os"
	"time"

	"github.com/pichoendo/pos-backoffice-api/internal/cache"
	"github.com/pichoendo/pos-backoffice-api/internal/config"
	"github.com/pichoendo/pos-backoffice-api/internal/database"
	"github.com/pichoendo/pos-backoffice-api/internal/handlers"
	"github.com/pichoendo/pos-backoffice-api/internal/middleware"
	"github.com/pichoendo/pos-backoffice-api/internal/notify"
	"github.com/pichoendo/pos-backoffice-api/internal/salary"
	"github.com/pichoendo/pos-backoffice-api/internal/sales"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	config.Load()

	database.Connect()

	if cache.Connect() {
		log.Println("✅ Redis cache enabled")
	} else {
		log.Println("ℹ️ Redis cache disabled, list endpoints hit the database")
	}

	notifier := notify.NewLogNotifier(config.GetLogger())
	handlers.Init(
		sales.NewService(database.DB, notifier),
		salary.NewService(database.DB, notifier),
	)

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
	r.POST("/login", handlers.Login)

	// Only opens if we explicitly allow it in .env
	if os.Getenv("ALLOW_REGISTRATION") == "true" {
		r.POST("/register", handlers.Register)
		log.Println("⚠️ WARNING: Registration route is OPEN. Disable this in production!")
	} else {
		log.Println("🔒 Registration route is safely DISABLED.")
	}

	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware())
	{
		// CASHIER & ADMIN
		api.GET("/items", handlers.GetItems)
		api.GET("/items/scan/:barcode", handlers.ScanItem)
		api.GET("/categories", handlers.GetCategories)
		api.GET("/coupons", handlers.GetCoupons)

		api.GET("/members", handlers.GetMembers)
		api.GET("/members/:id", handlers.GetMember)
		api.POST("/members", handlers.AddMember)
		api.PUT("/members/:id", handlers.UpdateMember)

		api.POST("/sales", handlers.CreateSale)
		api.PUT("/sales/:uuid", handlers.UpdateSale)
		api.GET("/sales/:uuid", handlers.GetSale)
		api.GET("/sales", handlers.ListSales)

		// ADMIN & MANAGER
		back := api.Group("/")
		back.Use(middleware.RequireRole("admin", "manager"))
		{
			back.POST("/items", handlers.AddItem)
			back.PUT("/items/:id", handlers.UpdateItem)
			back.POST("/items/:id/stock", handlers.RestockItem)

			back.POST("/categories", handlers.AddCategory)
			back.PUT("/categories/:id", handlers.UpdateCategory)

			back.POST("/coupons", handlers.AddCoupon)
			back.PUT("/coupons/:id", handlers.UpdateCoupon)

			back.GET("/reports", handlers.GetSalesReport)
			back.GET("/reports/valuation", handlers.GetStockValuation)
			back.GET("/reports/coupons", handlers.GetMostUsedCoupons)
		}

		// ADMIN ONLY
		admin := api.Group("/")
		admin.Use(middleware.RequireRole("admin"))
		{
			admin.POST("/ask", handlers.AskAI)

			admin.DELETE("/items/:id", handlers.DeleteItem)
			admin.DELETE("/categories/:id", handlers.DeleteCategory)
			admin.DELETE("/coupons/:id", handlers.DeleteCoupon)
			admin.DELETE("/members/:id", handlers.DeleteMember)
			admin.DELETE("/sales/:uuid", handlers.DeleteSale)

			admin.GET("/employees", handlers.GetEmployees)
			admin.GET("/employees/:id", handlers.GetEmployee)
			admin.POST("/employees", handlers.AddEmployee)
			admin.PUT("/employees/:id", handlers.UpdateEmployee)
			admin.DELETE("/employees/:id", handlers.DeleteEmployee)

			admin.GET("/roles", handlers.GetRoles)
			admin.POST("/roles", handlers.AddRole)
			admin.PUT("/roles/:id", handlers.UpdateRole)
			admin.DELETE("/roles/:id", handlers.DeleteRole)

			admin.POST("/salaries/generate", handlers.GenerateSalaries)
			admin.GET("/salaries", handlers.ListSalaries)
		}
	}

	baseURL := config.BaseURL()
	log.Println("🚀 Server starting on " + baseURL)
	if err := r.Run(":8080"); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}
