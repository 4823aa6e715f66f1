// services/incentive_service.go
package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/glownetwork/glow_backend/models"
)

// IncentiveService evaluates bonus-program eligibility and manages
// applications. Eligibility is a pure predicate over the member's current
// rank and direct-team composition; the qualifying numbers are snapshotted
// into the application for audit and never re-validated at approval time.
type IncentiveService struct {
	Members    MemberStore
	Incentives IncentiveStore
	Now        Clock
}

func NewIncentiveService(members MemberStore, incentives IncentiveStore) *IncentiveService {
	return &IncentiveService{Members: members, Incentives: incentives, Now: time.Now}
}

// monthKey is the YYYY-MM bucket for the recurring incentive.
func (s *IncentiveService) monthKey() string {
	return s.Now().Format("2006-01")
}

// CheckEligibility tests one incentive type against the member's current
// state. It returns the eligibility snapshot, or an IneligibleError with
// the user-visible shortfall.
func (s *IncentiveService) CheckEligibility(ctx context.Context, member *models.User, incentiveType string) (models.EligibilityData, error) {
	switch incentiveType {
	case models.IncentiveUmrahTicket:
		if member.Rank != models.RankGManager {
			return models.EligibilityData{}, Ineligible("You must be a G.Manager to apply for Umrah Ticket")
		}
		return models.EligibilityData{Rank: member.Rank}, nil

	case models.IncentiveCarPlan:
		if member.Rank != models.RankDirector {
			return models.EligibilityData{}, Ineligible("You must be a Director to apply for Car Plan")
		}
		directs, err := s.Members.DirectReferrals(ctx, member.ReferralCode, true)
		if err != nil {
			return models.EligibilityData{}, err
		}
		directors := 0
		for i := range directs {
			if directs[i].Rank == models.RankDirector {
				directors++
			}
		}
		if directors < 2 {
			return models.EligibilityData{}, Ineligible(fmt.Sprintf(
				"You need 2 direct Directors to apply for Car Plan. You currently have %d", directors))
		}
		return models.EligibilityData{Rank: member.Rank, DirectDirectors: directors}, nil

	case models.IncentiveMonthlySalary:
		if member.Rank != models.RankDirector {
			return models.EligibilityData{}, Ineligible("You must be a Director to apply for Monthly Salary")
		}
		directs, err := s.Members.DirectReferrals(ctx, member.ReferralCode, true)
		if err != nil {
			return models.EligibilityData{}, err
		}
		now := s.Now()
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		monthEnd := monthStart.AddDate(0, 1, 0)

		sManagers := 0
		for i := range directs {
			d := &directs[i]
			if d.Rank == models.RankSManager &&
				!d.UpdatedAt.Before(monthStart) && d.UpdatedAt.Before(monthEnd) {
				sManagers++
			}
		}
		if sManagers < 2 {
			return models.EligibilityData{}, Ineligible(fmt.Sprintf(
				"You need 2 direct S.Managers who achieved the rank this month. You currently have %d", sManagers))
		}
		return models.EligibilityData{Rank: member.Rank, DirectSManagersInMonth: sManagers}, nil
	}

	return models.EligibilityData{}, Ineligible("Invalid incentive type")
}

// Apply creates a pending application for the member. One-shot types are
// blocked by any existing pending/approved application; monthlySalary is
// blocked only within the same calendar month.
func (s *IncentiveService) Apply(ctx context.Context, memberID primitive.ObjectID, incentiveType string) (*models.Incentive, error) {
	member, err := s.Members.FindByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrNotFound
	}

	data, err := s.CheckEligibility(ctx, member, incentiveType)
	if err != nil {
		return nil, err
	}

	month := ""
	if incentiveType == models.IncentiveMonthlySalary {
		month = s.monthKey()
	}

	blocked, err := s.Incentives.HasActiveApplication(ctx, member.ID, incentiveType, month)
	if err != nil {
		return nil, err
	}
	if blocked {
		if month != "" {
			return nil, Ineligible(fmt.Sprintf("You have already applied for monthly salary for %s", month))
		}
		return nil, Ineligible(fmt.Sprintf("You have already applied for %s", incentiveType))
	}

	incentive := &models.Incentive{
		UserID:          member.ID,
		Type:            incentiveType,
		Month:           month,
		EligibilityData: data,
	}
	if err := s.Incentives.Insert(ctx, incentive); err != nil {
		return nil, err
	}
	return incentive, nil
}

// Eligibility reports the member's live standing for every incentive type,
// for the member dashboard.
func (s *IncentiveService) Eligibility(ctx context.Context, member *models.User) map[string]models.IncentiveEligibility {
	result := make(map[string]models.IncentiveEligibility, 3)
	for _, incentiveType := range []string{
		models.IncentiveUmrahTicket, models.IncentiveCarPlan, models.IncentiveMonthlySalary,
	} {
		entry := models.IncentiveEligibility{}
		if _, err := s.CheckEligibility(ctx, member, incentiveType); err == nil {
			entry.Eligible = true
		} else if reason, ok := IneligibleReason(err); ok {
			entry.Reason = reason
		} else {
			entry.Reason = "eligibility check failed"
		}

		month := ""
		if incentiveType == models.IncentiveMonthlySalary {
			month = s.monthKey()
		}
		if blocked, err := s.Incentives.HasActiveApplication(ctx, member.ID, incentiveType, month); err == nil && blocked {
			entry.AlreadyApplied = true
			entry.Eligible = false
		}
		result[incentiveType] = entry
	}
	return result
}

// Resolve is the admin terminal accept/reject. It never touches member
// state; approval is a trust decision over the application's snapshot.
func (s *IncentiveService) Resolve(ctx context.Context, incentiveID primitive.ObjectID, action string, adminID *primitive.ObjectID, notes string) (*models.Incentive, error) {
	resolved, err := s.Incentives.ResolvePending(ctx, incentiveID, action, adminID, notes)
	if err != nil {
		return nil, err
	}
	if resolved == nil {
		existing, err := s.Incentives.FindByID(ctx, incentiveID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, ErrNotFound
		}
		return nil, ErrAlreadyProcessed
	}
	return resolved, nil
}
