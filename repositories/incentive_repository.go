// repositories/incentive_repository.go
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

type IncentiveRepository struct {
	collection *mongo.Collection
}

func NewIncentiveRepository(db *mongo.Database) *IncentiveRepository {
	return &IncentiveRepository{collection: db.Collection("incentives")}
}

// HasActiveApplication reports whether a pending or approved application
// already blocks a new one. month is empty for one-shot incentive types and
// YYYY-MM for monthlySalary; distinct months never block each other.
func (r *IncentiveRepository) HasActiveApplication(ctx context.Context, userID primitive.ObjectID, incentiveType, month string) (bool, error) {
	filter := bson.M{
		"userId": userID,
		"type":   incentiveType,
		"status": bson.M{"$in": []string{models.StatusPending, models.StatusApproved}},
	}
	if month != "" {
		filter["month"] = month
	}
	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *IncentiveRepository) Insert(ctx context.Context, incentive *models.Incentive) error {
	incentive.Status = models.StatusPending
	incentive.AppliedAt = time.Now()
	result, err := r.collection.InsertOne(ctx, incentive)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		incentive.ID = oid
	}
	return nil
}

func (r *IncentiveRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Incentive, error) {
	var incentive models.Incentive
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&incentive)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &incentive, nil
}

// ResolvePending flips a pending application to approved/rejected with a
// compare-and-set. Terminal: no member side effects, no reopening.
func (r *IncentiveRepository) ResolvePending(ctx context.Context, id primitive.ObjectID, status string, adminID *primitive.ObjectID, notes string) (*models.Incentive, error) {
	set := bson.M{
		"status":      status,
		"processedAt": time.Now(),
		"processedBy": adminID,
	}
	if notes != "" {
		set["notes"] = notes
	}

	var incentive models.Incentive
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": models.StatusPending},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&incentive)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &incentive, nil
}

func (r *IncentiveRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Incentive, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID},
		options.Find().SetSort(bson.D{{Key: "appliedAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var incentives []models.Incentive
	if err := cursor.All(ctx, &incentives); err != nil {
		return nil, err
	}
	return incentives, nil
}

func (r *IncentiveRepository) ListPending(ctx context.Context) ([]models.Incentive, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"status": models.StatusPending},
		options.Find().SetSort(bson.D{{Key: "appliedAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var incentives []models.Incentive
	if err := cursor.All(ctx, &incentives); err != nil {
		return nil, err
	}
	return incentives, nil
}
