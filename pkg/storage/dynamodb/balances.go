package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/chris/topup-webhook-bridge/pkg/models"
)

// GetBalance retrieves a user's balance from DynamoDB by their user ID.
// Users that were never credited have no record and read as zero.
func (s *Store) GetBalance(ctx context.Context, userID string) (*models.Balance, error) {
	key, err := marshalMap(map[string]string{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal balance user ID: %w", err)
	}

	input := &dynamodb.GetItemInput{
		TableName:      aws.String(s.BalancesTableName),
		Key:            key,
		ConsistentRead: aws.Bool(true),
	}

	result, err := s.Client.GetItem(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance from DynamoDB: %w", err)
	}

	if result.Item == nil {
		return &models.Balance{UserId: userID, Balance: models.MoneyFromInt(0)}, nil
	}

	var balance models.Balance
	if err := attributevalue.UnmarshalMap(result.Item, &balance); err != nil {
		return nil, fmt.Errorf("failed to unmarshal balance: %w", err)
	}

	return &balance, nil
}
