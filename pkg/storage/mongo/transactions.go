package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chris/topup-webhook-bridge/pkg/models"
	"github.com/chris/topup-webhook-bridge/pkg/storage"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *Store) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	doc, err := toTransactionDoc(tx)
	if err != nil {
		return err
	}

	if _, err := s.db.Collection(transactionsCollection).InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("order %s: %w", tx.OrderId, storage.ErrDuplicateOrder)
		}
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

func (s *Store) GetTransaction(ctx context.Context, orderID string) (*models.Transaction, error) {
	var doc transactionDoc
	err := s.db.Collection(transactionsCollection).FindOne(ctx, bson.M{"_id": orderID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("transaction with order ID %s: %w", orderID, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get transaction from MongoDB: %w", err)
	}

	tx, err := doc.model()
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

func (s *Store) ListTransactionsByUserID(ctx context.Context, userID string) ([]models.Transaction, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	txs, err := s.findTransactions(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query for transactions by user ID: %w", err)
	}
	return txs, nil
}

func (s *Store) GetStaleTransactions(ctx context.Context, status models.TransactionStatus, maxAge time.Duration) ([]models.Transaction, error) {
	filter := bson.M{
		"status":     string(status),
		"created_at": bson.M{"$lt": time.Now().UTC().Add(-maxAge)},
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	txs, err := s.findTransactions(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query for stale transactions: %w", err)
	}
	return txs, nil
}

func (s *Store) findTransactions(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Transaction, error) {
	cur, err := s.db.Collection(transactionsCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []transactionDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode transactions: %w", err)
	}

	txs := make([]models.Transaction, 0, len(docs))
	for i := range docs {
		tx, err := docs[i].model()
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// UpdateTransactionStatus writes the new status only if the stored one is still from.
// When nothing matched, a second read tells a missing record from a moved one.
func (s *Store) UpdateTransactionStatus(ctx context.Context, orderID string, from, to models.TransactionStatus) error {
	coll := s.db.Collection(transactionsCollection)
	res, err := coll.UpdateOne(ctx,
		bson.M{"_id": orderID, "status": string(from)},
		bson.M{"$set": bson.M{"status": string(to), "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction status to %s: %w", to, err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	err = coll.FindOne(ctx, bson.M{"_id": orderID}, options.FindOne().SetProjection(bson.M{"status": 1})).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("transaction with order ID %s: %w", orderID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to read transaction after conditional update: %w", err)
	}
	return fmt.Errorf("transaction %s is no longer %s: %w", orderID, from, storage.ErrStatusConflict)
}
