package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/glownetwork/glow_backend/controllers"
	"github.com/glownetwork/glow_backend/middleware"
)

// RegisterAdminRoutes sets up the admin approval and member-management
// routes. Everything here requires an admin token.
func RegisterAdminRoutes(e *echo.Echo,
	adminController *controllers.AdminController,
	packageController *controllers.PackageController,
	rankController *controllers.RankController,
	incentiveController *controllers.IncentiveController) {

	admin := e.Group("/api/admin", middleware.JWTMiddleware(), middleware.RequireAdmin())

	admin.GET("/users", adminController.ListUsers)
	admin.POST("/users/reset-password", adminController.ResetUserPassword)

	admin.GET("/packages/pending", packageController.ListPending)
	admin.POST("/packages/approve", packageController.Process)

	admin.GET("/rank/pending", rankController.ListPending)
	admin.POST("/rank/approve", rankController.Process)

	admin.GET("/incentives/pending", incentiveController.ListPending)
	admin.POST("/incentives/resolve", incentiveController.Process)
}
