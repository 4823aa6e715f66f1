// repositories/payout_repository.go
package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/glownetwork/glow_backend/models"
)

type PayoutRepository struct {
	collection *mongo.Collection
}

func NewPayoutRepository(db *mongo.Database) *PayoutRepository {
	return &PayoutRepository{collection: db.Collection("payouts")}
}

// Insert appends one immutable ledger entry. The unique index on
// (sourceTransactionId, userId, type) turns an accidental duplicate into a
// duplicate-key error instead of a double payment; duplicates are absorbed
// silently since the ledger already holds the entry.
func (r *PayoutRepository) Insert(ctx context.Context, payout *models.Payout) error {
	payout.CreatedAt = time.Now()
	result, err := r.collection.InsertOne(ctx, payout)
	if mongo.IsDuplicateKeyError(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		payout.ID = oid
	}
	return nil
}

func (r *PayoutRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Payout, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var payouts []models.Payout
	if err := cursor.All(ctx, &payouts); err != nil {
		return nil, err
	}
	return payouts, nil
}

// SummarizeByUser totals the member's ledger by payout type.
func (r *PayoutRepository) SummarizeByUser(ctx context.Context, userID primitive.ObjectID) (*models.PayoutSummary, error) {
	cursor, err := r.collection.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"userId": userID}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$type",
			"total": bson.M{"$sum": "$amount"},
		}}},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Type  string `bson:"_id"`
		Total int64  `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	summary := &models.PayoutSummary{}
	for _, row := range rows {
		switch row.Type {
		case models.PayoutDirect:
			summary.DirectTotal = row.Total
		case models.PayoutPassive:
			summary.PassiveTotal = row.Total
		}
	}
	summary.TotalEarnings = summary.DirectTotal + summary.PassiveTotal
	return summary, nil
}
