package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chris/topup-webhook-bridge/pkg/models"
	"github.com/chris/topup-webhook-bridge/pkg/storage"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *Store) GetBalance(ctx context.Context, userID string) (*models.Balance, error) {
	var doc balanceDoc
	err := s.db.Collection(balancesCollection).FindOne(ctx, bson.M{"_id": userID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return &models.Balance{UserId: userID, Balance: models.MoneyFromInt(0)}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get balance from MongoDB: %w", err)
	}

	balance, err := doc.model()
	if err != nil {
		return nil, err
	}
	return &balance, nil
}

// CreditTransaction runs the status change, the balance increment and the
// ledger inserts in one multi-document transaction. Any failed condition
// aborts the whole unit.
func (s *Store) CreditTransaction(ctx context.Context, tx *models.Transaction, expected models.TransactionStatus) error {
	now := time.Now().UTC()

	amount, err := toDecimal128(tx.Amount)
	if err != nil {
		return err
	}
	debitEntry, creditEntry := storage.LedgerEntriesFor(tx, now)
	debitDoc, err := toLedgerDoc(debitEntry)
	if err != nil {
		return err
	}
	creditDoc, err := toLedgerDoc(creditEntry)
	if err != nil {
		return err
	}

	session, err := s.db.Client().StartSession()
	if err != nil {
		return fmt.Errorf("failed to start MongoDB session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, s.applyCredit(sc, tx, expected, amount, now, debitDoc, creditDoc)
	})
	return creditError(tx.OrderId, err)
}

// applyCredit runs the writes of one credit. A failed status or balance
// condition returns the matching storage error.
func (s *Store) applyCredit(ctx context.Context, tx *models.Transaction, expected models.TransactionStatus, amount primitive.Decimal128, now time.Time, entries ...*ledgerDoc) error {
	res, err := s.db.Collection(transactionsCollection).UpdateOne(ctx,
		bson.M{"_id": tx.OrderId, "status": string(expected)},
		bson.M{"$set": bson.M{"status": string(models.SUCCESS), "updated_at": now}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return storage.ErrStatusConflict
	}

	balanceUpdate := bson.M{
		"$inc":         bson.M{"balance": amount, "version": int64(1)},
		"$set":         bson.M{"updated_at": now},
		"$setOnInsert": bson.M{"created_at": now},
	}
	opts := options.Update().SetUpsert(!s.RequireExistingBalance)
	res, err = s.db.Collection(balancesCollection).UpdateOne(ctx, bson.M{"_id": tx.UserId}, balanceUpdate, opts)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return storage.ErrUserNotFound
	}

	docs := make([]interface{}, 0, len(entries))
	for _, e := range entries {
		docs = append(docs, e)
	}
	if _, err := s.db.Collection(ledgerCollection).InsertMany(ctx, docs); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return storage.ErrAlreadyCredited
		}
		return err
	}
	return nil
}

func creditError(orderID string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrStatusConflict),
		errors.Is(err, storage.ErrUserNotFound),
		errors.Is(err, storage.ErrAlreadyCredited):
		return fmt.Errorf("credit %s: %w", orderID, err)
	}
	return fmt.Errorf("failed to execute credit transaction: %w", err)
}

func (s *Store) ListLedgerEntries(ctx context.Context, limit int32) ([]models.LedgerEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}).SetLimit(int64(limit))
	cur, err := s.db.Collection(ledgerCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query for ledger entries: %w", err)
	}
	defer cur.Close(ctx)

	var docs []ledgerDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode ledger entries: %w", err)
	}

	entries := make([]models.LedgerEntry, 0, len(docs))
	for i := range docs {
		e, err := docs[i].model()
		if err != nil {
			return nil, err
		}
		e.GSI1PK = storage.LedgerPartition
		entries = append(entries, e)
	}
	return entries, nil
}
