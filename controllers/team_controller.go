// controllers/team_controller.go
package controllers

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/glownetwork/glow_backend/models"
	"github.com/glownetwork/glow_backend/repositories"
	"github.com/glownetwork/glow_backend/utils"
)

// TeamController serves the member-facing read side: referral info, team
// composition, and the earnings ledger.
type TeamController struct {
	users   *repositories.UserRepository
	payouts *repositories.PayoutRepository
}

func NewTeamController(users *repositories.UserRepository, payouts *repositories.PayoutRepository) *TeamController {
	return &TeamController{users: users, payouts: payouts}
}

func referralLink(code string) string {
	base := os.Getenv("REFERRAL_LINK_BASE")
	if base == "" {
		base = "https://glownetwork.com/register?ref="
	}
	return base + code
}

// ReferralData returns the caller's code, shareable link, and direct count.
func (tc *TeamController) ReferralData(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID, err := CurrentUserID(c)
	if err != nil {
		return err
	}

	user, err := tc.users.FindByID(ctx, userID)
	if err != nil {
		return internalError(c, err)
	}
	if user == nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	directs, err := tc.users.DirectReferrals(ctx, user.ReferralCode, false)
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Referral data retrieved successfully",
		Data: models.ReferralData{
			ReferralCode:  user.ReferralCode,
			ReferralLink:  referralLink(user.ReferralCode),
			ReferralCount: len(directs),
		},
	})
}

// TeamStats aggregates the caller's direct referrals and whole downline by
// rank. Reporting only; nothing here feeds payout computation.
func (tc *TeamController) TeamStats(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	userID, err := CurrentUserID(c)
	if err != nil {
		return err
	}

	user, err := tc.users.FindByID(ctx, userID)
	if err != nil {
		return internalError(c, err)
	}
	if user == nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	directs, err := tc.users.DirectReferrals(ctx, user.ReferralCode, false)
	if err != nil {
		return internalError(c, err)
	}

	team, err := utils.CollectTeam(user.ReferralCode, func(code string) ([]models.User, error) {
		return tc.users.DirectReferrals(ctx, code, false)
	})
	if err != nil {
		return internalError(c, err)
	}

	stats := models.TeamStats{
		DirectReferrals: len(directs),
		TeamSize:        len(team),
	}
	for i := range directs {
		stats.Direct.Add(directs[i].Rank)
	}
	for i := range team {
		stats.Team.Add(team[i].Rank)
		stats.TeamVolume += team[i].PackagePurchased
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Team stats retrieved successfully",
		Data:    stats,
	})
}

// Payouts returns the caller's earnings ledger with per-type totals.
func (tc *TeamController) Payouts(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID, err := CurrentUserID(c)
	if err != nil {
		return err
	}

	payouts, err := tc.payouts.ListByUser(ctx, userID)
	if err != nil {
		return internalError(c, err)
	}
	summary, err := tc.payouts.SummarizeByUser(ctx, userID)
	if err != nil {
		return internalError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Payouts retrieved successfully",
		Data: map[string]interface{}{
			"payouts": payouts,
			"summary": summary,
		},
	})
}

// Profile returns the caller's own member document.
func (tc *TeamController) Profile(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	userID, err := CurrentUserID(c)
	if err != nil {
		return err
	}

	user, err := tc.users.FindByID(ctx, userID)
	if err != nil {
		return internalError(c, err)
	}
	if user == nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "User not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Profile retrieved successfully",
		Data:    user,
	})
}
