// repositories/txn.go
package repositories

import (
	"context"
	"log"

	"go.mongodb.org/mongo-driver/mongo"
)

// WithTransaction runs fn inside a multi-document Mongo transaction so the
// approve-package sequence (member mutation + ledger writes) either fully
// applies or fully rolls back. On deployments without replica-set sessions
// (standalone Mongo) it degrades to running fn directly; the compare-and-set
// status transitions and the payout unique index still hold the at-most-once
// guarantees there.
func WithTransaction(ctx context.Context, client *mongo.Client, fn func(ctx context.Context) error) error {
	session, err := client.StartSession()
	if err != nil {
		log.Printf("Mongo sessions unavailable, running without transaction: %v", err)
		return fn(ctx)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err == nil {
		return nil
	}

	// Standalone servers reject transactions at runtime; fall back once.
	if cmdErr, ok := err.(mongo.CommandError); ok && cmdErr.Name == "IllegalOperation" {
		log.Printf("Mongo transactions unsupported, running without transaction: %v", err)
		return fn(ctx)
	}
	return err
}
