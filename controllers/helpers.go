// controllers/helpers.go
package controllers

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/glownetwork/glow_backend/middleware"
	"github.com/glownetwork/glow_backend/models"
)

// CurrentUserID extracts the authenticated user's ObjectID from the JWT.
func CurrentUserID(c echo.Context) (primitive.ObjectID, error) {
	userID := middleware.GetUserIDFromToken(c)
	if userID == "" {
		return primitive.NilObjectID, echo.NewHTTPError(http.StatusUnauthorized, "User ID not found in context")
	}
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return primitive.NilObjectID, echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID format")
	}
	return objID, nil
}

// adminID returns the acting admin's id as a pointer for audit fields, nil
// when the id is not a stored account (e.g. bootstrap tokens).
func adminID(c echo.Context) *primitive.ObjectID {
	userID := middleware.GetUserIDFromToken(c)
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil
	}
	return &objID
}

func internalError(c echo.Context, err error) error {
	log.Printf("%s %s failed: %v", c.Request().Method, c.Request().URL.Path, err)
	return c.JSON(http.StatusInternalServerError, models.Response{
		Status:  http.StatusInternalServerError,
		Message: "Internal server error",
	})
}
