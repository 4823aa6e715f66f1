package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/glownetwork/glow_backend/models"
)

func newRankFixture() (*RankService, *fakeMemberStore, *fakeApprovalStore) {
	members := newFakeMemberStore()
	approvals := newFakeApprovalStore()
	return NewRankService(members, approvals), members, approvals
}

func TestRequestUpgradeRequiresPackage(t *testing.T) {
	svc, members, _ := newRankFixture()
	member := members.add(&models.User{ReferralCode: "GN-NOPKG1"})

	_, err := svc.RequestUpgrade(context.Background(), member.ID)
	if _, ok := IneligibleReason(err); !ok {
		t.Fatalf("expected IneligibleError, got %v", err)
	}
	if member.Rank != "" {
		t.Errorf("member rank changed to %q", member.Rank)
	}
}

func TestRequestUpgradeUnrankedWithPackageBecomesAssistant(t *testing.T) {
	svc, members, _ := newRankFixture()
	member := members.add(&models.User{
		ReferralCode: "GN-FRESH1", PackagePurchased: 20000,
	})

	// No qualifying directs, so the call reports the shortfall, but the
	// unranked→Assistant transition happens immediately and without approval.
	_, err := svc.RequestUpgrade(context.Background(), member.ID)
	if reason, ok := IneligibleReason(err); !ok || !strings.Contains(reason, "Insufficient referral value") {
		t.Fatalf("expected value shortfall, got %v", err)
	}
	if member.Rank != models.RankAssistant {
		t.Errorf("member rank = %q, want Assistant", member.Rank)
	}
}

func TestRequestUpgradeOpensPendingApproval(t *testing.T) {
	svc, members, approvals := newRankFixture()
	member := members.add(&models.User{
		ReferralCode: "GN-UPGRD1", Rank: models.RankAssistant, PackagePurchased: 20000,
	})
	members.add(&models.User{
		ReferralCode: "GN-KID001", ReferredBy: "GN-UPGRD1",
		Rank: models.RankManager, PackagePurchased: 50000,
	})
	members.add(&models.User{
		ReferralCode: "GN-KID002", ReferredBy: "GN-UPGRD1",
		Rank: models.RankAssistant, PackagePurchased: 20000,
	})

	result, err := svc.RequestUpgrade(context.Background(), member.ID)
	if err != nil {
		t.Fatalf("RequestUpgrade: %v", err)
	}
	if !result.Pending || result.TargetRank != models.RankManager {
		t.Errorf("result = %+v, want pending Manager request", result)
	}
	if member.Rank != models.RankAssistant {
		t.Errorf("rank changed before approval: %q", member.Rank)
	}
	if !member.HasPendingRank || member.PendingRank != models.RankManager {
		t.Errorf("pending flags = %v/%q", member.HasPendingRank, member.PendingRank)
	}
	if member.TotalReferralValue != 70000 {
		t.Errorf("totalReferralValue = %d, want recomputed 70000", member.TotalReferralValue)
	}
	if approvals.pendingFor(member.ID) == nil {
		t.Error("no pending approval recorded")
	}
}

func TestRequestUpgradeDuplicateIsIdempotent(t *testing.T) {
	svc, members, approvals := newRankFixture()
	member := members.add(&models.User{
		ReferralCode: "GN-UPGRD1", Rank: models.RankAssistant, PackagePurchased: 20000,
	})
	members.add(&models.User{
		ReferralCode: "GN-KID001", ReferredBy: "GN-UPGRD1",
		Rank: models.RankManager, PackagePurchased: 50000,
	})

	if _, err := svc.RequestUpgrade(context.Background(), member.ID); err != nil {
		t.Fatalf("first RequestUpgrade: %v", err)
	}
	first := approvals.pendingFor(member.ID)

	result, err := svc.RequestUpgrade(context.Background(), member.ID)
	if err != nil {
		t.Fatalf("second RequestUpgrade: %v", err)
	}
	if !result.Pending {
		t.Errorf("second request result = %+v", result)
	}

	second := approvals.pendingFor(member.ID)
	if first == nil || second == nil || first.ID != second.ID {
		t.Error("duplicate request opened a second approval")
	}
}

func TestResolveApprovalApprovePromotes(t *testing.T) {
	svc, members, approvals := newRankFixture()
	member := members.add(&models.User{
		ReferralCode: "GN-UPGRD1", Rank: models.RankAssistant, PackagePurchased: 20000,
	})
	members.add(&models.User{
		ReferralCode: "GN-KID001", ReferredBy: "GN-UPGRD1",
		Rank: models.RankManager, PackagePurchased: 50000,
	})
	if _, err := svc.RequestUpgrade(context.Background(), member.ID); err != nil {
		t.Fatalf("RequestUpgrade: %v", err)
	}
	approval := approvals.pendingFor(member.ID)

	admin := primitive.NewObjectID()
	resolved, err := svc.ResolveApproval(context.Background(), approval.ID, models.StatusApproved, &admin, "")
	if err != nil {
		t.Fatalf("ResolveApproval: %v", err)
	}
	if resolved.Status != models.StatusApproved {
		t.Errorf("resolved status = %q", resolved.Status)
	}
	if member.Rank != models.RankManager {
		t.Errorf("member rank = %q, want Manager", member.Rank)
	}
	if member.HasPendingRank || member.PendingRank != "" {
		t.Error("pending flags not cleared")
	}
}

func TestResolveApprovalRejectLeavesRank(t *testing.T) {
	svc, members, approvals := newRankFixture()
	member := members.add(&models.User{
		ReferralCode: "GN-UPGRD1", Rank: models.RankAssistant, PackagePurchased: 20000,
	})
	members.add(&models.User{
		ReferralCode: "GN-KID001", ReferredBy: "GN-UPGRD1",
		Rank: models.RankManager, PackagePurchased: 50000,
	})
	if _, err := svc.RequestUpgrade(context.Background(), member.ID); err != nil {
		t.Fatalf("RequestUpgrade: %v", err)
	}
	approval := approvals.pendingFor(member.ID)

	if _, err := svc.ResolveApproval(context.Background(), approval.ID, models.StatusRejected, nil, "not yet"); err != nil {
		t.Fatalf("ResolveApproval: %v", err)
	}
	if member.Rank != models.RankAssistant {
		t.Errorf("rejected member rank = %q, want unchanged Assistant", member.Rank)
	}
	if member.HasPendingRank {
		t.Error("pending flag survived rejection")
	}

	// Rejection is not terminal for the member: a fresh request may open.
	result, err := svc.RequestUpgrade(context.Background(), member.ID)
	if err != nil {
		t.Fatalf("re-request after rejection: %v", err)
	}
	if !result.Pending {
		t.Errorf("re-request result = %+v", result)
	}
}

func TestResolveApprovalIdempotency(t *testing.T) {
	svc, members, approvals := newRankFixture()
	member := members.add(&models.User{
		ReferralCode: "GN-UPGRD1", Rank: models.RankAssistant, PackagePurchased: 20000,
	})
	members.add(&models.User{
		ReferralCode: "GN-KID001", ReferredBy: "GN-UPGRD1",
		Rank: models.RankManager, PackagePurchased: 50000,
	})
	if _, err := svc.RequestUpgrade(context.Background(), member.ID); err != nil {
		t.Fatalf("RequestUpgrade: %v", err)
	}
	approval := approvals.pendingFor(member.ID)

	if _, err := svc.ResolveApproval(context.Background(), approval.ID, models.StatusApproved, nil, ""); err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	_, err := svc.ResolveApproval(context.Background(), approval.ID, models.StatusApproved, nil, "")
	if !errors.Is(err, ErrAlreadyProcessed) {
		t.Errorf("second resolve error = %v, want ErrAlreadyProcessed", err)
	}

	_, err = svc.ResolveApproval(context.Background(), primitive.NewObjectID(), models.StatusApproved, nil, "")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown id error = %v, want ErrNotFound", err)
	}
}

func TestCascadePromotesQualifyingAncestors(t *testing.T) {
	svc, members, _ := newRankFixture()

	// grand is an S.Manager with 4 direct S.Managers; parent's promotion to
	// S.Manager delivers the 5th and must promote grand to D.Manager in the
	// same cascade. Great-grand holds only 1 direct D.Manager, so the walk
	// stops there.
	members.add(&models.User{
		ReferralCode: "GN-GREAT1", Rank: models.RankSManager, PackagePurchased: 100000,
	})
	grand := members.add(&models.User{
		ReferralCode: "GN-GRAND1", ReferredBy: "GN-GREAT1",
		Rank: models.RankSManager, PackagePurchased: 100000,
	})
	for i := 0; i < 4; i++ {
		members.add(&models.User{
			ReferralCode: "GN-SIBLG" + string(rune('0'+i)), ReferredBy: "GN-GRAND1",
			Rank: models.RankSManager, PackagePurchased: 100000,
		})
	}
	parent := members.add(&models.User{
		ReferralCode: "GN-PARNT1", ReferredBy: "GN-GRAND1",
		Rank: models.RankSManager, PackagePurchased: 100000,
	})

	if err := svc.CascadeFrom(context.Background(), parent.ReferredBy); err != nil {
		t.Fatalf("CascadeFrom: %v", err)
	}
	if grand.Rank != models.RankDManager {
		t.Errorf("grand rank = %q, want D.Manager", grand.Rank)
	}
	great := members.byCode["GN-GREAT1"]
	if great.Rank != models.RankSManager {
		t.Errorf("great-grand rank = %q, want unchanged S.Manager", great.Rank)
	}
}

func TestCascadeTerminatesOnCycle(t *testing.T) {
	svc, members, _ := newRankFixture()
	members.add(&models.User{
		ReferralCode: "GN-LOOPA1", ReferredBy: "GN-LOOPB1",
		Rank: models.RankAssistant, PackagePurchased: 20000,
	})
	members.add(&models.User{
		ReferralCode: "GN-LOOPB1", ReferredBy: "GN-LOOPA1",
		Rank: models.RankAssistant, PackagePurchased: 20000,
	})

	if err := svc.CascadeFrom(context.Background(), "GN-LOOPA1"); err != nil {
		t.Fatalf("CascadeFrom on cyclic graph: %v", err)
	}
}

func TestResolveApprovalStaleRequestNeverDemotes(t *testing.T) {
	svc, members, approvals := newRankFixture()
	member := members.add(&models.User{
		ReferralCode: "GN-UPGRD1", Rank: models.RankAssistant, PackagePurchased: 20000,
	})
	members.add(&models.User{
		ReferralCode: "GN-KID001", ReferredBy: "GN-UPGRD1",
		Rank: models.RankManager, PackagePurchased: 50000,
	})
	if _, err := svc.RequestUpgrade(context.Background(), member.ID); err != nil {
		t.Fatalf("RequestUpgrade: %v", err)
	}
	approval := approvals.pendingFor(member.ID)

	// The member got promoted past the request's target before the admin acted.
	member.Rank = models.RankSManager

	if _, err := svc.ResolveApproval(context.Background(), approval.ID, models.StatusApproved, nil, ""); err != nil {
		t.Fatalf("ResolveApproval: %v", err)
	}
	if member.Rank != models.RankSManager {
		t.Errorf("stale approval demoted member to %q", member.Rank)
	}
}
