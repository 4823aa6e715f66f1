package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/glownetwork/glow_backend/config"
	"github.com/glownetwork/glow_backend/controllers"
	"github.com/glownetwork/glow_backend/middleware"
	"github.com/glownetwork/glow_backend/repositories"
	"github.com/glownetwork/glow_backend/routes"
	"github.com/glownetwork/glow_backend/services"
	"github.com/glownetwork/glow_backend/websocket"
)

// CustomValidator is a custom validator for Echo
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates the request body
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// Connect to Redis (optional; approval locking degrades gracefully)
	redisClient := config.ConnectRedis()
	defer config.CloseRedis()

	// Connect to database
	client := config.ConnectDB()
	db := client.Database(config.DatabaseName())

	// Create WebSocket hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	transactionRepo := repositories.NewTransactionRepository(db)
	payoutRepo := repositories.NewPayoutRepository(db)
	approvalRepo := repositories.NewRankApprovalRepository(db)
	incentiveRepo := repositories.NewIncentiveRepository(db)

	// Services
	compensationService := services.NewCompensationService(userRepo, payoutRepo)
	rankService := services.NewRankService(userRepo, approvalRepo)
	incentiveService := services.NewIncentiveService(userRepo, incentiveRepo)

	// Controllers
	authController := controllers.NewAuthController(userRepo)
	packageController := controllers.NewPackageController(client, userRepo, transactionRepo, compensationService, wsHub, redisClient)
	rankController := controllers.NewRankController(userRepo, approvalRepo, rankService, wsHub, redisClient)
	incentiveController := controllers.NewIncentiveController(userRepo, incentiveRepo, incentiveService, wsHub)
	teamController := controllers.NewTeamController(userRepo, payoutRepo)
	adminController := controllers.NewAdminController(userRepo)

	// Seed the root member and admin account
	seedCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	authController.EnsureDefaultAccounts(seedCtx)
	cancel()

	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}

	rateLimiter := middleware.NewRateLimiter()

	// Middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.Secure())
	e.Use(rateLimiter.RateLimit())

	e.Match([]string{"GET", "HEAD"}, "/", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":  "OK",
			"message": "Glow Network Backend is running",
			"version": "1.0",
		})
	})

	e.Match([]string{"GET", "HEAD"}, "/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{
			"status":   "healthy",
			"database": "connected",
		})
	})

	// Routes
	routes.RegisterAuthRoutes(e, authController)
	routes.RegisterUserRoutes(e, wsHub, packageController, rankController, incentiveController, teamController)
	routes.RegisterAdminRoutes(e, adminController, packageController, rankController, incentiveController)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	e.Logger.Fatal(e.Start(":" + port))
}
