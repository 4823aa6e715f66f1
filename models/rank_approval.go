// models/rank_approval.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RankApproval is a pending or resolved rank-change request. At most one
// pending request may exist per (userId, targetRank); a partial unique
// index backs this up.
type RankApproval struct {
	ID          primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	UserID      primitive.ObjectID  `json:"userId" bson:"userId"`
	CurrentRank string              `json:"currentRank,omitempty" bson:"currentRank,omitempty"`
	TargetRank  string              `json:"targetRank" bson:"targetRank"`
	Status      string              `json:"status" bson:"status"`
	ApprovedBy  *primitive.ObjectID `json:"approvedBy,omitempty" bson:"approvedBy,omitempty"`
	ApprovedAt  time.Time           `json:"approvedAt,omitempty" bson:"approvedAt,omitempty"`
	Notes       string              `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt   time.Time           `json:"createdAt" bson:"createdAt"`
}

// UpgradeResult is returned by the rank upgrade evaluation.
type UpgradeResult struct {
	Pending     bool   `json:"pending"`
	TargetRank  string `json:"targetRank,omitempty"`
	Message     string `json:"message"`
	NewRank     string `json:"newRank,omitempty"`
	RankChanged bool   `json:"rankChanged"`
}
