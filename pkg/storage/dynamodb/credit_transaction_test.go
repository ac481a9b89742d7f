package dynamodb

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/topup-webhook-bridge/pkg/models"
	"github.com/chris/topup-webhook-bridge/pkg/storage"
	"github.com/chris/topup-webhook-bridge/pkg/storage/dynamodb/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func cancelledAt(index, total int) *types.TransactionCanceledException {
	reasons := make([]types.CancellationReason, total)
	for i := range reasons {
		reasons[i] = types.CancellationReason{Code: aws.String("None")}
	}
	reasons[index] = types.CancellationReason{Code: aws.String("ConditionalCheckFailed")}
	return &types.TransactionCanceledException{CancellationReasons: reasons}
}

func TestCreditTransaction(t *testing.T) {
	tx := &models.Transaction{OrderId: "A1", UserId: "U1", Amount: models.MoneyFromInt(50000), Status: models.PENDING}

	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := &Store{Client: mockClient, TransactionsTableName: "transactions", BalancesTableName: "balances", LedgerTableName: "ledger"}

		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(in *dynamodb.TransactWriteItemsInput) bool {
			if len(in.TransactItems) != 4 {
				return false
			}
			balance := in.TransactItems[creditItemBalance].Update
			status := in.TransactItems[creditItemStatus].Update
			expected := status.ExpressionAttributeValues[":expected_status"].(*types.AttributeValueMemberS)
			amount := balance.ExpressionAttributeValues[":amount"].(*types.AttributeValueMemberN)
			return *balance.TableName == "balances" &&
				balance.ConditionExpression == nil &&
				amount.Value == "50000" &&
				*status.ConditionExpression == "#status = :expected_status" &&
				expected.Value == "PENDING" &&
				*in.TransactItems[creditItemDebitEntry].Put.TableName == "ledger"
		})).Return(&dynamodb.TransactWriteItemsOutput{}, nil).Once()

		err := store.CreditTransaction(context.Background(), tx, models.PENDING)

		assert.NoError(t, err)
		mockClient.AssertExpectations(t)
	})

	t.Run("Requires Existing Balance", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := &Store{Client: mockClient, TransactionsTableName: "transactions", BalancesTableName: "balances", LedgerTableName: "ledger", RequireExistingBalance: true}

		mockClient.On("TransactWriteItems", mock.Anything, mock.MatchedBy(func(in *dynamodb.TransactWriteItemsInput) bool {
			cond := in.TransactItems[creditItemBalance].Update.ConditionExpression
			return cond != nil && *cond == "attribute_exists(user_id)"
		})).Return(nil, cancelledAt(creditItemBalance, 4)).Once()

		err := store.CreditTransaction(context.Background(), tx, models.PENDING)

		assert.ErrorIs(t, err, storage.ErrUserNotFound)
		mockClient.AssertExpectations(t)
	})

	t.Run("Status Already Moved", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := &Store{Client: mockClient, TransactionsTableName: "transactions", BalancesTableName: "balances", LedgerTableName: "ledger"}

		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, cancelledAt(creditItemStatus, 4)).Once()

		err := store.CreditTransaction(context.Background(), tx, models.PENDING)

		assert.ErrorIs(t, err, storage.ErrStatusConflict)
		mockClient.AssertExpectations(t)
	})

	t.Run("Ledger Entry Exists", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := &Store{Client: mockClient, TransactionsTableName: "transactions", BalancesTableName: "balances", LedgerTableName: "ledger"}

		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, cancelledAt(creditItemCreditEntry, 4)).Once()

		err := store.CreditTransaction(context.Background(), tx, models.CHALLENGE)

		assert.ErrorIs(t, err, storage.ErrAlreadyCredited)
		mockClient.AssertExpectations(t)
	})

	t.Run("Transaction Fails", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := &Store{Client: mockClient, TransactionsTableName: "transactions", BalancesTableName: "balances", LedgerTableName: "ledger"}

		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Return(nil, errors.New("transaction failed"))

		err := store.CreditTransaction(context.Background(), tx, models.PENDING)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to execute credit transaction")
		mockClient.AssertExpectations(t)
	})
}
