package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/topup-webhook-bridge/pkg/models"
	"github.com/chris/topup-webhook-bridge/pkg/storage"
)

// UpdateTransactionStatus atomically updates the transaction status from one value to another.
// The stored status acts as the compare-and-swap token.
func (s *Store) UpdateTransactionStatus(ctx context.Context, orderID string, from, to models.TransactionStatus) error {
	nowAV, err := marshal(time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to marshal timestamp for status update: %w", err)
	}

	input := &dynamodb.UpdateItemInput{
		TableName: aws.String(s.TransactionsTableName),
		Key: map[string]types.AttributeValue{
			"order_id": &types.AttributeValueMemberS{Value: orderID},
		},
		UpdateExpression:    aws.String("SET #status = :to_status, updated_at = :now"),
		ConditionExpression: aws.String("attribute_exists(order_id) AND #status = :from_status"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":to_status":   &types.AttributeValueMemberS{Value: string(to)},
			":from_status": &types.AttributeValueMemberS{Value: string(from)},
			":now":         nowAV,
		},
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	}

	_, err = s.Client.UpdateItem(ctx, input)
	if err != nil {
		var condCheckFailed *types.ConditionalCheckFailedException
		if errors.As(err, &condCheckFailed) {
			// Without an old item the record was never there.
			if condCheckFailed.Item == nil {
				return fmt.Errorf("transaction with order ID %s: %w", orderID, storage.ErrNotFound)
			}
			return fmt.Errorf("update %s from %s to %s: %w", orderID, from, to, storage.ErrStatusConflict)
		}
		return fmt.Errorf("failed to update transaction status to %s: %w", to, err)
	}

	return nil
}
