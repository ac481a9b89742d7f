// Package mongo implements storage.Storage on MongoDB. Amounts are stored as
// Decimal128 and the credit unit runs as a multi-document transaction, which
// requires a replica set or sharded cluster.
package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/chris/topup-webhook-bridge/pkg/storage"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	transactionsCollection = "transactions"
	balancesCollection     = "balances"
	ledgerCollection       = "ledger"
)

type Store struct {
	db *mongo.Database

	// RequireExistingBalance makes a credit fail for users without a balance record.
	RequireExistingBalance bool
}

var _ storage.Storage = (*Store)(nil)

func New(db *mongo.Database) *Store {
	return &Store{db: db}
}

// Connect opens a client and verifies the primary is reachable.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return client, nil
}

// EnsureIndexes creates the secondary indexes the queries rely on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.db.Collection(transactionsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: 1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create transaction indexes: %w", err)
	}
	_, err = s.db.Collection(ledgerCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "timestamp", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create ledger index: %w", err)
	}
	return nil
}
