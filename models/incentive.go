// models/incentive.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Incentive types.
const (
	IncentiveUmrahTicket   = "umrahTicket"
	IncentiveCarPlan       = "carPlan"
	IncentiveMonthlySalary = "monthlySalary"
)

// EligibilityData snapshots the member's qualifying state at application
// time. Admin approval trusts this snapshot and does not re-check.
type EligibilityData struct {
	Rank                   string `json:"rank,omitempty" bson:"rank,omitempty"`
	DirectDirectors        int    `json:"directDirectors,omitempty" bson:"directDirectors,omitempty"`
	DirectSManagersInMonth int    `json:"directSManagersInMonth,omitempty" bson:"directSManagersInMonth,omitempty"`
}

// Incentive is an application for a bonus program. One-shot types allow a
// single non-rejected application per member; monthlySalary allows one per
// (member, month).
type Incentive struct {
	ID              primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	UserID          primitive.ObjectID  `json:"userId" bson:"userId"`
	Type            string              `json:"type" bson:"type"`
	Status          string              `json:"status" bson:"status"`
	Month           string              `json:"month,omitempty" bson:"month,omitempty"` // YYYY-MM, monthlySalary only
	EligibilityData EligibilityData     `json:"eligibilityData" bson:"eligibilityData"`
	AppliedAt       time.Time           `json:"appliedAt" bson:"appliedAt"`
	ProcessedAt     time.Time           `json:"processedAt,omitempty" bson:"processedAt,omitempty"`
	ProcessedBy     *primitive.ObjectID `json:"processedBy,omitempty" bson:"processedBy,omitempty"`
	Notes           string              `json:"notes,omitempty" bson:"notes,omitempty"`
}

// IncentiveApplyRequest is the member-facing application body.
type IncentiveApplyRequest struct {
	IncentiveType string `json:"incentiveType" validate:"required,oneof=umrahTicket carPlan monthlySalary"`
}

// IncentiveEligibility reports a member's live eligibility for one type.
type IncentiveEligibility struct {
	Eligible       bool   `json:"eligible"`
	Reason         string `json:"reason,omitempty"`
	AlreadyApplied bool   `json:"alreadyApplied"`
}
