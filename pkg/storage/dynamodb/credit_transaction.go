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

// Positions of the items inside the credit transaction, used to read cancellation reasons.
const (
	creditItemBalance = iota
	creditItemStatus
	creditItemDebitEntry
	creditItemCreditEntry
)

// CreditTransaction performs the atomic top-up credit of a confirmed transaction.
// The balance increment, the status change to SUCCESS and both ledger entries
// are a single TransactWriteItems call. The status update is conditioned on the
// stored status still being expected, and the ledger entries use ids derived
// from the order ID, so a second credit of the same order cannot commit.
func (s *Store) CreditTransaction(ctx context.Context, tx *models.Transaction, expected models.TransactionStatus) error {
	now := time.Now().UTC()

	amountAV, err := marshal(tx.Amount)
	if err != nil {
		return fmt.Errorf("failed to marshal amount for credit: %w", err)
	}
	nowAV, err := marshal(now)
	if err != nil {
		return fmt.Errorf("failed to marshal timestamp for credit: %w", err)
	}

	debitEntry, creditEntry := storage.LedgerEntriesFor(tx, now)
	debitAV, err := marshalMap(debitEntry)
	if err != nil {
		return fmt.Errorf("failed to marshal debit entry: %w", err)
	}
	creditAV, err := marshalMap(creditEntry)
	if err != nil {
		return fmt.Errorf("failed to marshal credit entry: %w", err)
	}

	balanceUpdate := &types.Update{
		TableName: aws.String(s.BalancesTableName),
		Key:       map[string]types.AttributeValue{"user_id": &types.AttributeValueMemberS{Value: tx.UserId}},
		UpdateExpression: aws.String("SET balance = if_not_exists(balance, :zero) + :amount, " +
			"version = if_not_exists(version, :zero) + :inc, " +
			"created_at = if_not_exists(created_at, :now), updated_at = :now"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":amount": amountAV,
			":zero":   &types.AttributeValueMemberN{Value: "0"},
			":inc":    &types.AttributeValueMemberN{Value: "1"},
			":now":    nowAV,
		},
	}
	if s.RequireExistingBalance {
		balanceUpdate.ConditionExpression = aws.String("attribute_exists(user_id)")
	}

	input := &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				// Operation 1: Credit the user's balance, creating it if needed.
				Update: balanceUpdate,
			},
			{
				// Operation 2: Move the transaction to SUCCESS if nobody else did.
				Update: &types.Update{
					TableName:           aws.String(s.TransactionsTableName),
					Key:                 map[string]types.AttributeValue{"order_id": &types.AttributeValueMemberS{Value: tx.OrderId}},
					UpdateExpression:    aws.String("SET #status = :success_status, updated_at = :now"),
					ConditionExpression: aws.String("#status = :expected_status"),
					ExpressionAttributeNames: map[string]string{
						"#status": "status",
					},
					ExpressionAttributeValues: map[string]types.AttributeValue{
						":success_status":  &types.AttributeValueMemberS{Value: string(models.SUCCESS)},
						":expected_status": &types.AttributeValueMemberS{Value: string(expected)},
						":now":             nowAV,
					},
				},
			},
			{
				// Operation 3: Debit the gateway clearing account.
				Put: &types.Put{
					TableName:           aws.String(s.LedgerTableName),
					Item:                debitAV,
					ConditionExpression: aws.String("attribute_not_exists(entry_id)"),
				},
			},
			{
				// Operation 4: Credit the user account.
				Put: &types.Put{
					TableName:           aws.String(s.LedgerTableName),
					Item:                creditAV,
					ConditionExpression: aws.String("attribute_not_exists(entry_id)"),
				},
			},
		},
	}

	_, err = s.Client.TransactWriteItems(ctx, input)
	if err != nil {
		var tce *types.TransactionCanceledException
		if errors.As(err, &tce) {
			return creditCancellationError(tx.OrderId, tce)
		}
		return fmt.Errorf("failed to execute credit transaction: %w", err)
	}

	return nil
}

// creditCancellationError maps the failed condition to a storage sentinel.
func creditCancellationError(orderID string, tce *types.TransactionCanceledException) error {
	for i, reason := range tce.CancellationReasons {
		if reason.Code == nil || *reason.Code != conditionalCheck {
			continue
		}
		switch i {
		case creditItemBalance:
			return fmt.Errorf("credit %s: %w", orderID, storage.ErrUserNotFound)
		case creditItemStatus:
			return fmt.Errorf("credit %s: %w", orderID, storage.ErrStatusConflict)
		case creditItemDebitEntry, creditItemCreditEntry:
			return fmt.Errorf("credit %s: %w", orderID, storage.ErrAlreadyCredited)
		}
	}
	return fmt.Errorf("failed to execute credit transaction: %w", tce)
}
