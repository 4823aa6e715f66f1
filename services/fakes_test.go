package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/glownetwork/glow_backend/models"
)

// In-memory store fakes backing the engine tests. They mirror the Mongo
// repositories' contracts: Find methods return (nil, nil) on miss, payout
// inserts dedupe on (sourceTransactionId, userId, type), and approval
// resolution is a pending-only compare-and-set.

type fakeMemberStore struct {
	byID   map[primitive.ObjectID]*models.User
	byCode map[string]*models.User
}

func newFakeMemberStore() *fakeMemberStore {
	return &fakeMemberStore{
		byID:   make(map[primitive.ObjectID]*models.User),
		byCode: make(map[string]*models.User),
	}
}

func (s *fakeMemberStore) add(u *models.User) *models.User {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	s.byID[u.ID] = u
	if u.ReferralCode != "" {
		s.byCode[u.ReferralCode] = u
	}
	return u
}

func (s *fakeMemberStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.byID[id], nil
}

func (s *fakeMemberStore) FindByReferralCode(_ context.Context, code string) (*models.User, error) {
	if code == "" {
		return nil, nil
	}
	return s.byCode[code], nil
}

func (s *fakeMemberStore) DirectReferrals(_ context.Context, code string, activeOnly bool) ([]models.User, error) {
	var directs []models.User
	for _, u := range s.byID {
		if u.ReferredBy != code {
			continue
		}
		if activeOnly && !u.HasActivePackage() {
			continue
		}
		directs = append(directs, *u)
	}
	return directs, nil
}

func (s *fakeMemberStore) UpdateRank(_ context.Context, id primitive.ObjectID, rank string) error {
	s.byID[id].Rank = rank
	s.byID[id].UpdatedAt = time.Now()
	return nil
}

func (s *fakeMemberStore) SetPendingRank(_ context.Context, id primitive.ObjectID, target string) error {
	s.byID[id].PendingRank = target
	s.byID[id].HasPendingRank = true
	return nil
}

func (s *fakeMemberStore) ClearPendingRank(_ context.Context, id primitive.ObjectID) error {
	s.byID[id].PendingRank = ""
	s.byID[id].HasPendingRank = false
	return nil
}

func (s *fakeMemberStore) SetTotalReferralValue(_ context.Context, id primitive.ObjectID, value int64) error {
	s.byID[id].TotalReferralValue = value
	return nil
}

type payoutKey struct {
	tx   primitive.ObjectID
	user primitive.ObjectID
	typ  string
}

type fakePayoutStore struct {
	payouts []models.Payout
	seen    map[payoutKey]bool
}

func newFakePayoutStore() *fakePayoutStore {
	return &fakePayoutStore{seen: make(map[payoutKey]bool)}
}

func (s *fakePayoutStore) Insert(_ context.Context, payout *models.Payout) error {
	key := payoutKey{payout.SourceTransactionID, payout.UserID, payout.Type}
	if s.seen[key] {
		return nil // unique index absorbs the duplicate
	}
	s.seen[key] = true
	payout.ID = primitive.NewObjectID()
	s.payouts = append(s.payouts, *payout)
	return nil
}

func (s *fakePayoutStore) forUser(id primitive.ObjectID) []models.Payout {
	var out []models.Payout
	for _, p := range s.payouts {
		if p.UserID == id {
			out = append(out, p)
		}
	}
	return out
}

type fakeApprovalStore struct {
	byID map[primitive.ObjectID]*models.RankApproval
}

func newFakeApprovalStore() *fakeApprovalStore {
	return &fakeApprovalStore{byID: make(map[primitive.ObjectID]*models.RankApproval)}
}

func (s *fakeApprovalStore) CreatePending(_ context.Context, approval *models.RankApproval) (bool, error) {
	for _, existing := range s.byID {
		if existing.UserID == approval.UserID &&
			existing.TargetRank == approval.TargetRank &&
			existing.Status == models.StatusPending {
			return false, nil
		}
	}
	approval.ID = primitive.NewObjectID()
	approval.Status = models.StatusPending
	approval.CreatedAt = time.Now()
	s.byID[approval.ID] = approval
	return true, nil
}

func (s *fakeApprovalStore) ResolvePending(_ context.Context, id primitive.ObjectID, status string, adminID *primitive.ObjectID, notes string) (*models.RankApproval, error) {
	approval, ok := s.byID[id]
	if !ok || approval.Status != models.StatusPending {
		return nil, nil
	}
	approval.Status = status
	approval.ApprovedBy = adminID
	approval.ApprovedAt = time.Now()
	approval.Notes = notes
	copied := *approval
	return &copied, nil
}

func (s *fakeApprovalStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.RankApproval, error) {
	return s.byID[id], nil
}

func (s *fakeApprovalStore) pendingFor(userID primitive.ObjectID) *models.RankApproval {
	for _, approval := range s.byID {
		if approval.UserID == userID && approval.Status == models.StatusPending {
			return approval
		}
	}
	return nil
}

type fakeIncentiveStore struct {
	byID map[primitive.ObjectID]*models.Incentive
}

func newFakeIncentiveStore() *fakeIncentiveStore {
	return &fakeIncentiveStore{byID: make(map[primitive.ObjectID]*models.Incentive)}
}

func (s *fakeIncentiveStore) HasActiveApplication(_ context.Context, userID primitive.ObjectID, incentiveType, month string) (bool, error) {
	for _, incentive := range s.byID {
		if incentive.UserID != userID || incentive.Type != incentiveType {
			continue
		}
		if incentive.Status != models.StatusPending && incentive.Status != models.StatusApproved {
			continue
		}
		if month != "" && incentive.Month != month {
			continue
		}
		return true, nil
	}
	return false, nil
}

func (s *fakeIncentiveStore) Insert(_ context.Context, incentive *models.Incentive) error {
	incentive.ID = primitive.NewObjectID()
	incentive.Status = models.StatusPending
	incentive.AppliedAt = time.Now()
	s.byID[incentive.ID] = incentive
	return nil
}

func (s *fakeIncentiveStore) ResolvePending(_ context.Context, id primitive.ObjectID, status string, adminID *primitive.ObjectID, notes string) (*models.Incentive, error) {
	incentive, ok := s.byID[id]
	if !ok || incentive.Status != models.StatusPending {
		return nil, nil
	}
	incentive.Status = status
	incentive.ProcessedBy = adminID
	incentive.ProcessedAt = time.Now()
	incentive.Notes = notes
	copied := *incentive
	return &copied, nil
}

func (s *fakeIncentiveStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Incentive, error) {
	return s.byID[id], nil
}
