// controllers/rank_controller.go
package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/glownetwork/glow_backend/models"
	"github.com/glownetwork/glow_backend/repositories"
	"github.com/glownetwork/glow_backend/services"
	"github.com/glownetwork/glow_backend/utils"
	"github.com/glownetwork/glow_backend/websocket"
)

// RankController exposes the two-phase rank workflow: members request an
// upgrade, admins approve or reject it.
type RankController struct {
	users     *repositories.UserRepository
	approvals *repositories.RankApprovalRepository
	ranks     *services.RankService
	hub       *websocket.Hub
	redis     *redis.Client
}

func NewRankController(users *repositories.UserRepository, approvals *repositories.RankApprovalRepository, ranks *services.RankService, hub *websocket.Hub, redisClient *redis.Client) *RankController {
	return &RankController{
		users:     users,
		approvals: approvals,
		ranks:     ranks,
		hub:       hub,
		redis:     redisClient,
	}
}

// RequestUpgrade evaluates the caller against the ladder and opens a
// pending approval when a step is reachable.
func (rc *RankController) RequestUpgrade(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID, err := CurrentUserID(c)
	if err != nil {
		return err
	}

	result, err := rc.ranks.RequestUpgrade(ctx, userID)
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
		Message: result.Message,
		Data:    result,
	})
}

// ListPending returns open rank requests for the admin dashboard, with the
// requesting member's identity and current standing attached.
func (rc *RankController) ListPending(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pending, err := rc.approvals.ListPending(ctx)
	if err != nil {
		return internalError(c, err)
	}

	enriched := make([]map[string]interface{}, 0, len(pending))
	for _, approval := range pending {
		entry := map[string]interface{}{"approval": approval}
		if user, err := rc.users.FindByID(ctx, approval.UserID); err == nil && user != nil {
			entry["user"] = map[string]interface{}{
				"username":           user.Username,
				"phone":              user.Phone,
				"email":              user.Email,
				"rank":               user.Rank,
				"totalReferralValue": user.TotalReferralValue,
			}
		}
		enriched = append(enriched, entry)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Pending rank approvals retrieved successfully",
		Data:    enriched,
	})
}

// Process is the admin accept/reject of a pending rank request. Approval
// promotes the member and re-checks the upline; rejection clears the
// pending flags so the member may re-request later.
func (rc *RankController) Process(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
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

	approvalID, err := primitive.ObjectIDFromHex(req.ID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid approval ID format",
		})
	}

	lock, acquired, _ := utils.AcquireLock(ctx, rc.redis, "rank:"+req.ID, 30*time.Second)
	if !acquired {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Rank approval is being processed",
		})
	}
	defer lock.Release(ctx)

	resolved, err := rc.ranks.ResolveApproval(ctx, approvalID, req.Action, adminID(c), req.Notes)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Rank approval not found",
			})
		}
		if errors.Is(err, services.ErrAlreadyProcessed) {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Rank approval already processed",
			})
		}
		return internalError(c, err)
	}

	rc.hub.NotifyRankDecision(resolved.UserID, req.Action, resolved.TargetRank)
	if req.Action == models.StatusApproved {
		if member, err := rc.users.FindByID(ctx, resolved.UserID); err == nil && member != nil {
			go utils.SendNotificationEmail(member.Email,
				"Rank upgrade approved",
				fmt.Sprintf("Congratulations! Your rank has been upgraded to %s.", resolved.TargetRank))
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: fmt.Sprintf("Rank request %s successfully", req.Action),
		Data:    resolved,
	})
}
