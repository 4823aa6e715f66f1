package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/glownetwork/glow_backend/controllers"
	"github.com/glownetwork/glow_backend/middleware"
	"github.com/glownetwork/glow_backend/websocket"
)

// RegisterUserRoutes sets up the authenticated member routes: purchases,
// rank requests, incentives, referral/team views, and the notification
// socket.
func RegisterUserRoutes(e *echo.Echo, hub *websocket.Hub,
	packageController *controllers.PackageController,
	rankController *controllers.RankController,
	incentiveController *controllers.IncentiveController,
	teamController *controllers.TeamController) {

	api := e.Group("/api", middleware.JWTMiddleware())

	api.GET("/profile", teamController.Profile)
	api.GET("/referral", teamController.ReferralData)
	api.GET("/team", teamController.TeamStats)
	api.GET("/payouts", teamController.Payouts)

	api.POST("/packages/purchase", packageController.Purchase)
	api.POST("/rank/upgrade", rankController.RequestUpgrade)

	api.POST("/incentives/apply", incentiveController.Apply)
	api.GET("/incentives", incentiveController.Mine)

	api.GET("/ws", func(c echo.Context) error {
		userID, err := controllers.CurrentUserID(c)
		if err != nil {
			return err
		}
		return websocket.HandleWebSocket(c, hub, userID)
	})
}
