// services/stores.go
package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/glownetwork/glow_backend/models"
)

// Store interfaces consumed by the engine services. The repositories
// package provides the Mongo implementations; tests substitute in-memory
// fakes. Find methods return (nil, nil) when no record matches.

// MemberStore covers the referral-graph and member-mutation surface.
type MemberStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByReferralCode(ctx context.Context, code string) (*models.User, error)
	DirectReferrals(ctx context.Context, code string, activeOnly bool) ([]models.User, error)
	UpdateRank(ctx context.Context, id primitive.ObjectID, rank string) error
	SetPendingRank(ctx context.Context, id primitive.ObjectID, target string) error
	ClearPendingRank(ctx context.Context, id primitive.ObjectID) error
	SetTotalReferralValue(ctx context.Context, id primitive.ObjectID, value int64) error
}

// PayoutStore appends immutable ledger entries.
type PayoutStore interface {
	Insert(ctx context.Context, payout *models.Payout) error
}

// RankApprovalStore manages pending rank-change requests.
type RankApprovalStore interface {
	CreatePending(ctx context.Context, approval *models.RankApproval) (bool, error)
	ResolvePending(ctx context.Context, id primitive.ObjectID, status string, adminID *primitive.ObjectID, notes string) (*models.RankApproval, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.RankApproval, error)
}

// IncentiveStore manages bonus-program applications.
type IncentiveStore interface {
	HasActiveApplication(ctx context.Context, userID primitive.ObjectID, incentiveType, month string) (bool, error)
	Insert(ctx context.Context, incentive *models.Incentive) error
	ResolvePending(ctx context.Context, id primitive.ObjectID, status string, adminID *primitive.ObjectID, notes string) (*models.Incentive, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Incentive, error)
}

// Clock lets tests pin "now" for month-keyed incentive logic.
type Clock func() time.Time
