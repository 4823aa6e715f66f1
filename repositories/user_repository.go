// repositories/user_repository.go
package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/glownetwork/glow_backend/models"
)

// UserRepository is the Mongo adapter for members and the referral graph.
// Find helpers return (nil, nil) when no document matches so traversal code
// can treat a dangling referral edge as the end of the walk.
type UserRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{collection: db.Collection("users")}
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByPhone(ctx context.Context, phone string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"phone": phone}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByReferralCode resolves the parent pointer of the referral graph.
func (r *UserRepository) FindByReferralCode(ctx context.Context, code string) (*models.User, error) {
	if code == "" {
		return nil, nil
	}
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"referralCode": code}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// DirectReferrals returns the members whose referredBy equals code. With
// activeOnly set, only members holding an approved package are returned;
// every payout and rank computation uses that form.
func (r *UserRepository) DirectReferrals(ctx context.Context, code string, activeOnly bool) ([]models.User, error) {
	filter := bson.M{"referredBy": code}
	if activeOnly {
		filter["packagePurchased"] = bson.M{"$gt": 0}
	}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var members []models.User
	if err := cursor.All(ctx, &members); err != nil {
		return nil, err
	}
	return members, nil
}

func (r *UserRepository) Insert(ctx context.Context, user *models.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}
	return nil
}

func (r *UserRepository) CountAll(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

func (r *UserRepository) ListMembers(ctx context.Context) ([]models.User, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"userType": models.UserTypeMember})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var members []models.User
	if err := cursor.All(ctx, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// UpdateRank sets the member's rank. Rank approvals and package approvals
// are the only callers; both own the member transition at that moment.
func (r *UserRepository) UpdateRank(ctx context.Context, id primitive.ObjectID, rank string) error {
	_, err := r.collection.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"rank":      rank,
		"updatedAt": time.Now(),
	}})
	return err
}

// SetPendingRank records an open rank request on the member document.
func (r *UserRepository) SetPendingRank(ctx context.Context, id primitive.ObjectID, target string) error {
	_, err := r.collection.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"pendingRank":    target,
		"hasPendingRank": true,
		"updatedAt":      time.Now(),
	}})
	return err
}

// ClearPendingRank closes the member's open rank request flags.
func (r *UserRepository) ClearPendingRank(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateByID(ctx, id, bson.M{
		"$set":   bson.M{"hasPendingRank": false, "updatedAt": time.Now()},
		"$unset": bson.M{"pendingRank": ""},
	})
	return err
}

// SetTotalReferralValue stores the recomputed direct-referral value. The
// field is always overwritten with a fresh sum, never incremented.
func (r *UserRepository) SetTotalReferralValue(ctx context.Context, id primitive.ObjectID, value int64) error {
	_, err := r.collection.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"totalReferralValue": value,
		"updatedAt":          time.Now(),
	}})
	return err
}

// SetPendingPackage flips the at-most-one-pending-purchase gate.
func (r *UserRepository) SetPendingPackage(ctx context.Context, id primitive.ObjectID, pending bool) error {
	_, err := r.collection.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"hasPendingPackage": pending,
		"updatedAt":         time.Now(),
	}})
	return err
}

// AssignPackage sets the package fields and starting rank after an approved
// purchase, and clears the pending flag in the same write.
func (r *UserRepository) AssignPackage(ctx context.Context, id primitive.ObjectID, amount int64, rank string) error {
	_, err := r.collection.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"packagePurchased":    amount,
		"packagePurchaseDate": time.Now(),
		"rank":                rank,
		"hasPendingPackage":   false,
		"updatedAt":           time.Now(),
	}})
	return err
}

// RecordDirectReferral appends a purchase to the referrer's in-document
// cache unless that referral is already recorded, and bumps the cached
// total. $elemMatch keeps the append idempotent under retries.
func (r *UserRepository) RecordDirectReferral(ctx context.Context, referrerID primitive.ObjectID, entry models.DirectReferral) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{
			"_id":             referrerID,
			"directReferrals": bson.M{"$not": bson.M{"$elemMatch": bson.M{"userId": entry.UserID}}},
		},
		bson.M{
			"$push": bson.M{"directReferrals": entry},
			"$inc":  bson.M{"totalReferralValue": entry.PackageValue},
			"$set":  bson.M{"updatedAt": time.Now()},
		})
	if err != nil {
		return err
	}
	_ = result
	return nil
}

// UpdatePassword replaces the member's password hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, id primitive.ObjectID, hashed string) error {
	_, err := r.collection.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"password":  hashed,
		"updatedAt": time.Now(),
	}})
	return err
}
