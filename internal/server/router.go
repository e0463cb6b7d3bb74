// Package server assembles the HTTP router shared by the API binary and the
// integration tests.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "fintrack/internal/docs" // swagger docs

	"fintrack/internal/events"
	"fintrack/internal/handlers"
	"fintrack/internal/middleware"
	"fintrack/internal/services"
)

// Options configures NewRouter.
type Options struct {
	DB          *gorm.DB
	Publisher   events.Publisher
	JWTSecret   string
	HeaderAuth  bool
	FrontendURL string
}

// NewRouter builds services and handlers over opts.DB and mounts the resource
// routes at the root and again under /api/v1.
func NewRouter(opts Options) *gin.Engine {
	userService := services.NewUserService(opts.DB)
	categoryService := services.NewCategoryService(opts.DB)
	transactionService := services.NewTransactionService(opts.DB)
	summaryService := services.NewSummaryService(opts.DB)
	auditService := services.NewAuditService(opts.DB, opts.Publisher)

	categoryHandler := handlers.NewCategoryHandler(categoryService, auditService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, auditService)
	summaryHandler := handlers.NewSummaryHandler(summaryService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS(opts.FrontendURL))

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, handlers.HealthResponse{Status: "ok"})
	})

	auth := middleware.AuthMiddleware(userService, opts.JWTSecret, opts.HeaderAuth)
	for _, group := range []*gin.RouterGroup{router.Group("/"), router.Group("/api/v1")} {
		protected := group.Group("", auth)

		categories := protected.Group("/categories")
		categories.GET("", categoryHandler.GetUserCategories)
		categories.POST("", categoryHandler.CreateCategory)
		categories.GET("/:id", categoryHandler.GetCategoryByID)
		categories.PUT("/:id", categoryHandler.UpdateCategory)
		categories.DELETE("/:id", categoryHandler.DeleteCategory)

		transactions := protected.Group("/transactions")
		transactions.GET("", transactionHandler.GetUserTransactions)
		transactions.POST("", transactionHandler.CreateTransaction)
		transactions.GET("/:id", transactionHandler.GetTransactionByID)
		transactions.PUT("/:id", transactionHandler.UpdateTransaction)
		transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

		protected.GET("/summary", summaryHandler.GetSummary)
	}

	return router
}
