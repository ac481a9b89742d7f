package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/topup-webhook-bridge/pkg/models"
)

// GetStaleTransactions retrieves transactions that have been in the given status for longer than maxAge.
func (s *Store) GetStaleTransactions(ctx context.Context, status models.TransactionStatus, maxAge time.Duration) ([]models.Transaction, error) {
	// Calculate the cutoff time.
	cutoffAV, err := marshal(time.Now().UTC().Add(-maxAge))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cutoff time: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.TransactionsTableName),
		IndexName:              aws.String(statusCreatedAtIndex),
		KeyConditionExpression: aws.String("#status = :status AND created_at < :cutoff"),
		ExpressionAttributeNames: map[string]string{
			"#status": "status",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":status": &types.AttributeValueMemberS{Value: string(status)},
			":cutoff": cutoffAV,
		},
	}

	transactions, err := s.queryTransactions(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query for stale transactions: %w", err)
	}
	return transactions, nil
}

// ListTransactionsByUserID retrieves all transactions of a user, newest first.
func (s *Store) ListTransactionsByUserID(ctx context.Context, userID string) ([]models.Transaction, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(s.TransactionsTableName),
		IndexName:              aws.String(userIDIndex),
		KeyConditionExpression: aws.String("user_id = :userID"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":userID": &types.AttributeValueMemberS{Value: userID},
		},
		ScanIndexForward: aws.Bool(false),
	}

	transactions, err := s.queryTransactions(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query for transactions by user ID: %w", err)
	}
	return transactions, nil
}

// queryTransactions follows every page of a query.
func (s *Store) queryTransactions(ctx context.Context, input *dynamodb.QueryInput) ([]models.Transaction, error) {
	transactions := []models.Transaction{}
	for {
		page, err := s.Client.Query(ctx, input)
		if err != nil {
			return nil, err
		}

		var batch []models.Transaction
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("failed to unmarshal transactions: %w", err)
		}
		transactions = append(transactions, batch...)

		if len(page.LastEvaluatedKey) == 0 {
			return transactions, nil
		}
		input.ExclusiveStartKey = page.LastEvaluatedKey
	}
}
