// controllers/package_controller.go
package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/glownetwork/glow_backend/models"
	"github.com/glownetwork/glow_backend/repositories"
	"github.com/glownetwork/glow_backend/services"
	"github.com/glownetwork/glow_backend/utils"
	"github.com/glownetwork/glow_backend/websocket"
)

// PackageController owns the purchase request flow and the admin approval
// orchestration: resolve the pending transaction, assign the member's
// package and starting rank, and fire the payout ledger writer, all inside
// one failure-atomic unit.
type PackageController struct {
	client       *mongo.Client
	users        *repositories.UserRepository
	transactions *repositories.TransactionRepository
	compensation *services.CompensationService
	hub          *websocket.Hub
	redis        *redis.Client
}

func NewPackageController(client *mongo.Client, users *repositories.UserRepository, transactions *repositories.TransactionRepository, compensation *services.CompensationService, hub *websocket.Hub, redisClient *redis.Client) *PackageController {
	return &PackageController{
		client:       client,
		users:        users,
		transactions: transactions,
		compensation: compensation,
		hub:          hub,
		redis:        redisClient,
	}
}

// Purchase creates a pending transaction for one of the fixed tiers. At
// most one purchase may be outstanding per member.
func (pc *PackageController) Purchase(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID, err := CurrentUserID(c)
	if err != nil {
		return err
	}

	var req models.PurchaseRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	cfg, ok := utils.LookupPackage(req.PackageAmount)
	if !ok {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid package amount",
		})
	}

	user, err := pc.users.FindByID(ctx, userID)
	if err != nil {
		return internalError(c, err)
	}
	if user == nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}
	if user.HasActivePackage() || user.HasPendingPackage {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Package already purchased or pending approval",
		})
	}

	tx := &models.Transaction{
		UserID:      user.ID,
		Type:        "package_purchase",
		Reference:   uuid.New().String(),
		Amount:      req.PackageAmount,
		PackageType: req.PackageAmount,
		DeliveryFee: cfg.DeliveryFee,
		NetAmount:   req.PackageAmount - cfg.DeliveryFee,
		Description: fmt.Sprintf("Package purchase - %s", cfg.StartingRank),
		Status:      models.StatusPending,
	}
	if err := pc.transactions.Insert(ctx, tx); err != nil {
		return internalError(c, err)
	}
	if err := pc.users.SetPendingPackage(ctx, user.ID, true); err != nil {
		return internalError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Package purchase request submitted for approval",
		Data: map[string]interface{}{
			"transactionId": tx.ID.Hex(),
			"reference":     tx.Reference,
		},
	})
}

// ListPending returns all pending purchases for the admin dashboard,
// enriched with the purchasing member's identity.
func (pc *PackageController) ListPending(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pending, err := pc.transactions.ListPending(ctx)
	if err != nil {
		return internalError(c, err)
	}

	enriched := make([]map[string]interface{}, 0, len(pending))
	for _, tx := range pending {
		entry := map[string]interface{}{"transaction": tx}
		if user, err := pc.users.FindByID(ctx, tx.UserID); err == nil && user != nil {
			entry["user"] = map[string]interface{}{
				"username": user.Username,
				"phone":    user.Phone,
				"email":    user.Email,
			}
		}
		enriched = append(enriched, entry)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Pending transactions retrieved successfully",
		Data:    enriched,
	})
}

// Process is the admin accept/reject of a pending purchase. On approval
// the member's package and starting rank are assigned, the referrer's
// direct-referral cache is updated, and the payout cascade is written; the
// whole sequence commits or rolls back as one unit. The compare-and-set on
// the transaction status makes a retried or duplicate admin call a no-op
// surfaced as "already processed".
func (pc *PackageController) Process(c echo.Context) error {
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

	txID, err := primitive.ObjectIDFromHex(req.ID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid transaction ID format",
		})
	}

	lock, acquired, _ := utils.AcquireLock(ctx, pc.redis, "tx:"+req.ID, 30*time.Second)
	if !acquired {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Transaction is being processed",
		})
	}
	defer lock.Release(ctx)

	var (
		purchaser *models.User
		payouts   []models.Payout
	)
	err = repositories.WithTransaction(ctx, pc.client, func(txCtx context.Context) error {
		tx, err := pc.transactions.ResolvePending(txCtx, txID, req.Action, adminID(c))
		if err != nil {
			return err
		}
		if tx == nil {
			existing, err := pc.transactions.FindByID(txCtx, txID)
			if err != nil {
				return err
			}
			if existing == nil {
				return services.ErrNotFound
			}
			return services.ErrAlreadyProcessed
		}

		purchaser, err = pc.users.FindByID(txCtx, tx.UserID)
		if err != nil {
			return err
		}
		if purchaser == nil {
			return fmt.Errorf("transaction %s references missing user %s", tx.ID.Hex(), tx.UserID.Hex())
		}

		if req.Action != models.StatusApproved {
			return pc.users.SetPendingPackage(txCtx, purchaser.ID, false)
		}

		cfg, ok := utils.LookupPackage(tx.PackageType)
		if !ok {
			return fmt.Errorf("transaction %s has unknown package tier %d", tx.ID.Hex(), tx.PackageType)
		}
		if err := pc.users.AssignPackage(txCtx, purchaser.ID, tx.PackageType, cfg.StartingRank); err != nil {
			return err
		}
		purchaser.PackagePurchased = tx.PackageType
		purchaser.Rank = cfg.StartingRank

		if purchaser.ReferredBy != "" {
			referrer, err := pc.users.FindByReferralCode(txCtx, purchaser.ReferredBy)
			if err != nil {
				return err
			}
			if referrer != nil {
				if err := pc.users.RecordDirectReferral(txCtx, referrer.ID, models.DirectReferral{
					UserID:       purchaser.ID,
					PackageValue: tx.PackageType,
					PurchaseDate: time.Now(),
				}); err != nil {
					return err
				}
			}
		}

		payouts, err = pc.compensation.Distribute(txCtx, tx, purchaser)
		return err
	})
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Transaction not found",
			})
		}
		if errors.Is(err, services.ErrAlreadyProcessed) {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Transaction already processed",
			})
		}
		return internalError(c, err)
	}

	// Post-commit notifications; best effort by design.
	if purchaser != nil {
		pc.hub.NotifyPackageDecision(purchaser.ID, req.Action)
		for i := range payouts {
			pc.hub.NotifyPayout(payouts[i].UserID, payouts[i])
		}
		if req.Action == models.StatusApproved {
			go utils.SendNotificationEmail(purchaser.Email,
				"Package approved",
				fmt.Sprintf("Your package of %d has been approved. Your starting rank is %s.",
					purchaser.PackagePurchased, purchaser.Rank))
		}
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: fmt.Sprintf("Package %s successfully", req.Action),
		Data:    map[string]interface{}{"payoutsCreated": len(payouts)},
	})
}
