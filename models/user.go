// models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Rank ladder, lowest to highest. A member with no rank has Rank == "".
const (
	RankAssistant = "Assistant"
	RankManager   = "Manager"
	RankSManager  = "S.Manager"
	RankDManager  = "D.Manager"
	RankGManager  = "G.Manager"
	RankDirector  = "Director"
)

// User types stored in JWT claims.
const (
	UserTypeMember = "member"
	UserTypeAdmin  = "admin"
)

// DirectReferral is the in-document cache of a direct referral's approved
// purchase. The authoritative numbers are always recomputed from the users
// collection; this list exists for dashboards and audit.
type DirectReferral struct {
	UserID       primitive.ObjectID `json:"userId" bson:"userId"`
	PackageValue int64              `json:"packageValue" bson:"packageValue"`
	PurchaseDate time.Time          `json:"purchaseDate" bson:"purchaseDate"`
}

// User is a network member. The referral graph is encoded by ReferralCode
// (self) and ReferredBy (parent's code); there is no materialized tree.
type User struct {
	ID                  primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Username            string             `json:"username" bson:"username"`
	Email               string             `json:"email" bson:"email"`
	Phone               string             `json:"phone" bson:"phone"`
	Password            string             `json:"-" bson:"password"`
	UserType            string             `json:"userType" bson:"userType"`
	ReferralCode        string             `json:"referralCode" bson:"referralCode"`
	ReferredBy          string             `json:"referredBy,omitempty" bson:"referredBy,omitempty"`
	Rank                string             `json:"rank,omitempty" bson:"rank,omitempty"`
	PackagePurchased    int64              `json:"packagePurchased,omitempty" bson:"packagePurchased,omitempty"`
	PackagePurchaseDate time.Time          `json:"packagePurchaseDate,omitempty" bson:"packagePurchaseDate,omitempty"`
	HasPendingPackage   bool               `json:"hasPendingPackage" bson:"hasPendingPackage"`
	PendingRank         string             `json:"pendingRank,omitempty" bson:"pendingRank,omitempty"`
	HasPendingRank      bool               `json:"hasPendingRank" bson:"hasPendingRank"`
	TotalReferralValue  int64              `json:"totalReferralValue" bson:"totalReferralValue"`
	DirectReferrals     []DirectReferral   `json:"directReferrals,omitempty" bson:"directReferrals,omitempty"`
	CreatedAt           time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt           time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// HasActivePackage reports whether the member holds an approved package.
func (u *User) HasActivePackage() bool {
	return u != nil && u.PackagePurchased > 0
}

// ReferralData is the member-facing referral summary.
type ReferralData struct {
	ReferralCode  string `json:"referralCode"`
	ReferralLink  string `json:"referralLink"`
	ReferralCount int    `json:"referralCount"`
}

// TeamStats aggregates rank composition over the direct referrals and the
// whole downline. The direct counts drive rank-progress displays; the team
// counts are reporting only and never feed payout computation.
type TeamStats struct {
	DirectReferrals int        `json:"directReferrals"`
	TeamSize        int        `json:"teamSize"`
	TeamVolume      int64      `json:"teamVolume"`
	Direct          RankCounts `json:"direct"`
	Team            RankCounts `json:"team"`
}

// RankCounts is a per-rank member tally.
type RankCounts struct {
	Assistant int `json:"assistantCount"`
	Manager   int `json:"managerCount"`
	SManager  int `json:"sManagerCount"`
	DManager  int `json:"dManagerCount"`
	GManager  int `json:"gManagerCount"`
	Director  int `json:"directorCount"`
}

// Add increments the tally for the given rank.
func (rc *RankCounts) Add(rank string) {
	switch rank {
	case RankAssistant:
		rc.Assistant++
	case RankManager:
		rc.Manager++
	case RankSManager:
		rc.SManager++
	case RankDManager:
		rc.DManager++
	case RankGManager:
		rc.GManager++
	case RankDirector:
		rc.Director++
	}
}

// Count returns the tally for the given rank.
func (rc RankCounts) Count(rank string) int {
	switch rank {
	case RankAssistant:
		return rc.Assistant
	case RankManager:
		return rc.Manager
	case RankSManager:
		return rc.SManager
	case RankDManager:
		return rc.DManager
	case RankGManager:
		return rc.GManager
	case RankDirector:
		return rc.Director
	}
	return 0
}
