// repositories/rank_approval_repository.go
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

type RankApprovalRepository struct {
	collection *mongo.Collection
}

func NewRankApprovalRepository(db *mongo.Database) *RankApprovalRepository {
	return &RankApprovalRepository{collection: db.Collection("rank_approvals")}
}

// CreatePending opens a pending request for (userId, targetRank) as an
// idempotent upsert rather than a check-then-insert. It reports whether a
// new request was created; false means an identical pending request was
// already open.
func (r *RankApprovalRepository) CreatePending(ctx context.Context, approval *models.RankApproval) (bool, error) {
	approval.Status = models.StatusPending
	approval.CreatedAt = time.Now()

	result, err := r.collection.UpdateOne(ctx,
		bson.M{
			"userId":     approval.UserID,
			"targetRank": approval.TargetRank,
			"status":     models.StatusPending,
		},
		bson.M{"$setOnInsert": approval},
		options.Update().SetUpsert(true),
	)
	if mongo.IsDuplicateKeyError(err) {
		// Lost the upsert race to a concurrent identical request.
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return result.UpsertedCount > 0, nil
}

func (r *RankApprovalRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.RankApproval, error) {
	var approval models.RankApproval
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&approval)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &approval, nil
}

// ResolvePending flips a pending request to approved/rejected with a
// compare-and-set. A nil result with nil error means the request was not
// pending anymore.
func (r *RankApprovalRepository) ResolvePending(ctx context.Context, id primitive.ObjectID, status string, adminID *primitive.ObjectID, notes string) (*models.RankApproval, error) {
	set := bson.M{
		"status":     status,
		"approvedBy": adminID,
		"approvedAt": time.Now(),
	}
	if notes != "" {
		set["notes"] = notes
	}

	var approval models.RankApproval
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": models.StatusPending},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&approval)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &approval, nil
}

func (r *RankApprovalRepository) ListPending(ctx context.Context) ([]models.RankApproval, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"status": models.StatusPending},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var approvals []models.RankApproval
	if err := cursor.All(ctx, &approvals); err != nil {
		return nil, err
	}
	return approvals, nil
}
