// models/transaction.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Transaction statuses. A transaction is written as pending, resolved
// exactly once by an admin, and never re-opened.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Transaction records a single package purchase event.
type Transaction struct {
	ID          primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	UserID      primitive.ObjectID  `json:"userId" bson:"userId"`
	Type        string              `json:"type" bson:"type"`
	Reference   string              `json:"reference" bson:"reference"`
	Amount      int64               `json:"amount" bson:"amount"`
	PackageType int64               `json:"packageType" bson:"packageType"`
	DeliveryFee int64               `json:"deliveryFee" bson:"deliveryFee"`
	NetAmount   int64               `json:"netAmount" bson:"netAmount"`
	Description string              `json:"description" bson:"description"`
	Status      string              `json:"status" bson:"status"`
	ApprovedBy  *primitive.ObjectID `json:"approvedBy,omitempty" bson:"approvedBy,omitempty"`
	ApprovedAt  time.Time           `json:"approvedAt,omitempty" bson:"approvedAt,omitempty"`
	CreatedAt   time.Time           `json:"createdAt" bson:"createdAt"`
}

// PurchaseRequest is the member-facing package purchase body.
type PurchaseRequest struct {
	PackageAmount int64 `json:"packageAmount" validate:"required"`
}

// ApprovalActionRequest is the admin accept/reject body shared by the
// package, rank and incentive approval endpoints.
type ApprovalActionRequest struct {
	ID     string `json:"id" validate:"required"`
	Action string `json:"action" validate:"required,oneof=approved rejected"`
	Notes  string `json:"notes"`
}
