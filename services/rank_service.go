// services/rank_service.go
package services

import (
	"context"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/glownetwork/glow_backend/models"
	"github.com/glownetwork/glow_backend/utils"
)

// RankService implements the rank progression state machine and the admin
// approval workflow, including the upward cascade re-check.
type RankService struct {
	Members   MemberStore
	Approvals RankApprovalStore
}

func NewRankService(members MemberStore, approvals RankApprovalStore) *RankService {
	return &RankService{Members: members, Approvals: approvals}
}

// summarizeDirects recomputes the member's direct-referral state and
// persists the fresh totalReferralValue (always a recomputed sum, never an
// increment).
func (s *RankService) summarizeDirects(ctx context.Context, member *models.User) (utils.DirectSummary, error) {
	directs, err := s.Members.DirectReferrals(ctx, member.ReferralCode, true)
	if err != nil {
		return utils.DirectSummary{}, err
	}
	sum := utils.SummarizeDirects(directs)
	if err := s.Members.SetTotalReferralValue(ctx, member.ID, sum.Value); err != nil {
		return sum, err
	}
	member.TotalReferralValue = sum.Value
	return sum, nil
}

// RequestUpgrade evaluates the member against the next ladder step and, if
// a step is reachable, opens a pending approval request. The only
// transition that bypasses the workflow is unranked → Assistant for a
// member already holding a package.
func (s *RankService) RequestUpgrade(ctx context.Context, memberID primitive.ObjectID) (*models.UpgradeResult, error) {
	member, err := s.Members.FindByID(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrNotFound
	}

	if member.Rank == "" {
		if !member.HasActivePackage() {
			return nil, Ineligible("No rank assigned. Purchase a package first")
		}
		if err := s.Members.UpdateRank(ctx, member.ID, models.RankAssistant); err != nil {
			return nil, err
		}
		member.Rank = models.RankAssistant
	}

	sum, err := s.summarizeDirects(ctx, member)
	if err != nil {
		return nil, err
	}

	eval := utils.EvaluateNextRank(member.Rank, sum)
	if eval.AtTop {
		return nil, Ineligible("Maximum rank reached")
	}
	if eval.Target == "" {
		return nil, Ineligible(eval.Reason)
	}

	// Idempotent per (member, target): an open identical request is
	// reported, never duplicated.
	if member.HasPendingRank && member.PendingRank == eval.Target {
		return &models.UpgradeResult{
			Pending:    true,
			TargetRank: eval.Target,
			Message:    "Rank approval pending. Waiting for admin approval.",
		}, nil
	}

	created, err := s.Approvals.CreatePending(ctx, &models.RankApproval{
		UserID:      member.ID,
		CurrentRank: member.Rank,
		TargetRank:  eval.Target,
	})
	if err != nil {
		return nil, err
	}
	if created {
		if err := s.Members.SetPendingRank(ctx, member.ID, eval.Target); err != nil {
			return nil, err
		}
	}

	message := "Rank approval requested. Waiting for admin approval."
	if !created {
		message = "Rank approval pending. Waiting for admin approval."
	}
	return &models.UpgradeResult{Pending: true, TargetRank: eval.Target, Message: message}, nil
}

// ResolveApproval is the admin accept/reject. Approval promotes the member
// and re-checks the chain of referrers, since a downstream promotion can
// retroactively qualify an ancestor. Rejection only clears the pending
// flags; the member may re-request later.
func (s *RankService) ResolveApproval(ctx context.Context, approvalID primitive.ObjectID, action string, adminID *primitive.ObjectID, notes string) (*models.RankApproval, error) {
	resolved, err := s.Approvals.ResolvePending(ctx, approvalID, action, adminID, notes)
	if err != nil {
		return nil, err
	}
	if resolved == nil {
		existing, err := s.Approvals.FindByID(ctx, approvalID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, ErrNotFound
		}
		return nil, ErrAlreadyProcessed
	}

	member, err := s.Members.FindByID(ctx, resolved.UserID)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, fmt.Errorf("rank approval %s references missing member %s",
			approvalID.Hex(), resolved.UserID.Hex())
	}

	if err := s.Members.ClearPendingRank(ctx, member.ID); err != nil {
		return nil, err
	}

	if action != models.StatusApproved {
		return resolved, nil
	}

	// Ranks never move down: an out-of-order approval of a stale request
	// must not demote the member.
	if utils.RankIndex(resolved.TargetRank) > utils.RankIndex(member.Rank) {
		if err := s.Members.UpdateRank(ctx, member.ID, resolved.TargetRank); err != nil {
			return nil, err
		}
		member.Rank = resolved.TargetRank
	}

	if err := s.CascadeFrom(ctx, member.ReferredBy); err != nil {
		// The member's own promotion stands; a failed ancestor re-check is
		// recoverable on the next evaluation.
		log.Printf("Upward rank cascade from %s failed: %v", member.ReferredBy, err)
	}
	return resolved, nil
}

// CascadeFrom walks the referrer chain upward, promoting each ancestor in
// place while the ladder rules keep firing. Explicit worklist with a
// visited set: bounded depth, loop-proof even on a corrupted graph. The
// walk stops at the first ancestor that fails all rules, or after the
// ladder height, whichever comes first.
func (s *RankService) CascadeFrom(ctx context.Context, referralCode string) error {
	const maxChain = 64 // far above any legitimate upline depth

	visited := make(map[string]bool)
	code := referralCode
	for steps := 0; code != "" && steps < maxChain; steps++ {
		if visited[code] {
			return nil
		}
		visited[code] = true

		referrer, err := s.Members.FindByReferralCode(ctx, code)
		if err != nil {
			return err
		}
		if referrer == nil || referrer.Rank == "" {
			return nil
		}

		sum, err := s.summarizeDirects(ctx, referrer)
		if err != nil {
			return err
		}

		eval := utils.EvaluateNextRank(referrer.Rank, sum)
		if eval.Target == "" || utils.RankIndex(eval.Target) <= utils.RankIndex(referrer.Rank) {
			return nil
		}

		if err := s.Members.UpdateRank(ctx, referrer.ID, eval.Target); err != nil {
			return err
		}
		log.Printf("Cascade promoted %s from %s to %s", referrer.ID.Hex(), referrer.Rank, eval.Target)

		code = referrer.ReferredBy
	}
	return nil
}
