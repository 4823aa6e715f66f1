// controllers/incentive_controller.go
package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/glownetwork/glow_backend/models"
	"github.com/glownetwork/glow_backend/repositories"
	"github.com/glownetwork/glow_backend/services"
	"github.com/glownetwork/glow_backend/utils"
	"github.com/glownetwork/glow_backend/websocket"
)

// IncentiveController exposes the bonus programs: members apply, view
// their standing, and admins resolve applications.
type IncentiveController struct {
	users      *repositories.UserRepository
	incentives *repositories.IncentiveRepository
	service    *services.IncentiveService
	hub        *websocket.Hub
}

func NewIncentiveController(users *repositories.UserRepository, incentives *repositories.IncentiveRepository, service *services.IncentiveService, hub *websocket.Hub) *IncentiveController {
	return &IncentiveController{
		users:      users,
		incentives: incentives,
		service:    service,
		hub:        hub,
	}
}

// Apply submits an application for one incentive type.
func (ic *IncentiveController) Apply(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID, err := CurrentUserID(c)
	if err != nil {
		return err
	}

	var req models.IncentiveApplyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "incentiveType must be one of umrahTicket, carPlan, monthlySalary",
		})
	}

	incentive, err := ic.service.Apply(ctx, userID, req.IncentiveType)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "User not found",
			})
		}
		if reason, ok := services.IneligibleReason(err); ok {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: reason,
			})
		}
		return internalError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Incentive application submitted for approval",
		Data:    incentive,
	})
}

// Mine returns the member's application history plus live eligibility per
// incentive type, for the dashboard.
func (ic *IncentiveController) Mine(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID, err := CurrentUserID(c)
	if err != nil {
		return err
	}

	member, err := ic.users.FindByID(ctx, userID)
	if err != nil {
		return internalError(c, err)
	}
	if member == nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	applications, err := ic.incentives.ListByUser(ctx, userID)
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Incentives retrieved successfully",
		Data: map[string]interface{}{
			"applications": applications,
			"eligibility":  ic.service.Eligibility(ctx, member),
		},
	})
}

// ListPending returns open applications for the admin dashboard.
func (ic *IncentiveController) ListPending(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pending, err := ic.incentives.ListPending(ctx)
	if err != nil {
		return internalError(c, err)
	}

	enriched := make([]map[string]interface{}, 0, len(pending))
	for _, incentive := range pending {
		entry := map[string]interface{}{"incentive": incentive}
		if user, err := ic.users.FindByID(ctx, incentive.UserID); err == nil && user != nil {
			entry["user"] = map[string]interface{}{
				"username": user.Username,
				"phone":    user.Phone,
				"email":    user.Email,
				"rank":     user.Rank,
			}
		}
		enriched = append(enriched, entry)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Pending incentive applications retrieved successfully",
		Data:    enriched,
	})
}

// Process is the terminal admin accept/reject of an application. It never
// changes member state; the decision trusts the eligibility snapshot taken
// at application time.
func (ic *IncentiveController) Process(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.ApprovalActionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "id and action (approved|rejected) are required",
		})
	}

	incentiveID, err := primitive.ObjectIDFromHex(req.ID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid incentive ID format",
		})
	}

	resolved, err := ic.service.Resolve(ctx, incentiveID, req.Action, adminID(c), req.Notes)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Incentive application not found",
			})
		}
		if errors.Is(err, services.ErrAlreadyProcessed) {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Incentive application already processed",
			})
		}
		return internalError(c, err)
	}

	ic.hub.NotifyIncentiveDecision(resolved.UserID, resolved.Type, req.Action)

	data := map[string]interface{}{"incentive": resolved}
	if req.Action == models.StatusApproved && resolved.Type == models.IncentiveMonthlySalary {
		data["amount"] = utils.MonthlySalaryAmount
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: fmt.Sprintf("Incentive application %s successfully", req.Action),
		Data:    data,
	})
}
