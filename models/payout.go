// models/payout.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payout types.
const (
	PayoutDirect  = "direct_payout"
	PayoutPassive = "passive_income"
)

// Payout is an immutable ledger entry. At most one payout exists per
// (sourceTransactionId, userId, type); a unique index enforces this so a
// retried approval can never double-pay.
type Payout struct {
	ID                  primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID              primitive.ObjectID `json:"userId" bson:"userId"`
	Type                string             `json:"type" bson:"type"`
	Amount              int64              `json:"amount" bson:"amount"`
	SourceTransactionID primitive.ObjectID `json:"sourceTransactionId" bson:"sourceTransactionId"`
	SourceUserID        primitive.ObjectID `json:"sourceUserId" bson:"sourceUserId"`
	PackageAmount       int64              `json:"packageAmount" bson:"packageAmount"`
	Percentage          int                `json:"percentage" bson:"percentage"`
	Level               int                `json:"level" bson:"level"`
	CreatedAt           time.Time          `json:"createdAt" bson:"createdAt"`
}

// PayoutSummary totals a member's ledger for dashboards.
type PayoutSummary struct {
	TotalEarnings int64 `json:"totalEarnings"`
	DirectTotal   int64 `json:"directTotal"`
	PassiveTotal  int64 `json:"passiveTotal"`
}
