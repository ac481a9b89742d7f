package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/topup-webhook-bridge/pkg/models"
	"github.com/chris/topup-webhook-bridge/pkg/storage"
)

// CreateTransaction writes a new transaction record, refusing to overwrite an existing order.
func (s *Store) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	slog.Log(ctx, slog.LevelDebug, "creating transaction", "order_id", tx.OrderId, "status", tx.Status)

	txAV, err := marshalMap(tx)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}

	input := &dynamodb.PutItemInput{
		TableName:           aws.String(s.TransactionsTableName),
		Item:                txAV,
		ConditionExpression: aws.String("attribute_not_exists(order_id)"),
	}

	_, err = s.Client.PutItem(ctx, input)
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			return fmt.Errorf("order %s: %w", tx.OrderId, storage.ErrDuplicateOrder)
		}
		return fmt.Errorf("failed to put transaction: %w", err)
	}

	return nil
}
