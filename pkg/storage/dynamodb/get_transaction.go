package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/chris/topup-webhook-bridge/pkg/models"
	"github.com/chris/topup-webhook-bridge/pkg/storage"
)

// GetTransaction retrieves a transaction from DynamoDB by its order ID.
func (s *Store) GetTransaction(ctx context.Context, orderID string) (*models.Transaction, error) {
	key, err := marshalMap(map[string]string{"order_id": orderID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order ID: %w", err)
	}

	input := &dynamodb.GetItemInput{
		TableName:      &s.TransactionsTableName,
		Key:            key,
		ConsistentRead: aws.Bool(true),
	}

	result, err := s.Client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return nil, fmt.Errorf("transaction with order ID %s: %w", orderID, storage.ErrNotFound)
	}

	var tx models.Transaction
	if err := attributevalue.UnmarshalMap(result.Item, &tx); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transaction: %w", err)
	}

	return &tx, nil
}
