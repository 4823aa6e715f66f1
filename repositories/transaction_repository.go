// repositories/transaction_repository.go
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

type TransactionRepository struct {
	collection *mongo.Collection
}

func NewTransactionRepository(db *mongo.Database) *TransactionRepository {
	return &TransactionRepository{collection: db.Collection("transactions")}
}

func (r *TransactionRepository) Insert(ctx context.Context, tx *models.Transaction) error {
	tx.CreatedAt = time.Now()
	result, err := r.collection.InsertOne(ctx, tx)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		tx.ID = oid
	}
	return nil
}

func (r *TransactionRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Transaction, error) {
	var tx models.Transaction
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&tx)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

// ResolvePending flips a pending transaction to approved/rejected with a
// single compare-and-set and returns the updated document. A nil result
// with a nil error means the transaction was not pending anymore; the
// caller distinguishes not-found from already-processed via FindByID.
// This CAS is what makes payout emission at-most-once per transaction even
// under retried or concurrent admin calls.
func (r *TransactionRepository) ResolvePending(ctx context.Context, id primitive.ObjectID, status string, adminID *primitive.ObjectID) (*models.Transaction, error) {
	update := bson.M{"$set": bson.M{
		"status":     status,
		"approvedBy": adminID,
		"approvedAt": time.Now(),
	}}

	var tx models.Transaction
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": models.StatusPending},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&tx)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *TransactionRepository) ListPending(ctx context.Context) ([]models.Transaction, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"status": models.StatusPending},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var txs []models.Transaction
	if err := cursor.All(ctx, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

func (r *TransactionRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Transaction, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var txs []models.Transaction
	if err := cursor.All(ctx, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}
