// controllers/admin_controller.go
package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/glownetwork/glow_backend/models"
	"github.com/glownetwork/glow_backend/repositories"
	"github.com/glownetwork/glow_backend/utils"
)

// AdminController covers the admin-side member management endpoints.
type AdminController struct {
	users *repositories.UserRepository
}

func NewAdminController(users *repositories.UserRepository) *AdminController {
	return &AdminController{users: users}
}

// ListUsers returns all member accounts.
func (ac *AdminController) ListUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	members, err := ac.users.ListMembers(ctx)
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Users retrieved successfully",
		Data:    members,
	})
}

// ResetUserPassword generates a temporary password for a member, stores its
// hash, and emails the cleartext to the member. The cleartext is also
// returned so support can relay it when the member has no mailbox access.
func (ac *AdminController) ResetUserPassword(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "userId is required",
		})
	}

	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid user ID format",
		})
	}

	user, err := ac.users.FindByID(ctx, userID)
	if err != nil {
		return internalError(c, err)
	}
	if user == nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	tempPassword := "Gn!" + strings.ReplaceAll(uuid.New().String(), "-", "")[:12]
	hashed, err := utils.HashPassword(tempPassword)
	if err != nil {
		return internalError(c, err)
	}
	if err := ac.users.UpdatePassword(ctx, user.ID, hashed); err != nil {
		return internalError(c, err)
	}

	go utils.SendNotificationEmail(user.Email,
		"Your password has been reset",
		"An administrator reset your password. Your temporary password is: "+tempPassword)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Password reset successfully",
		Data:    map[string]string{"temporaryPassword": tempPassword},
	})
}
