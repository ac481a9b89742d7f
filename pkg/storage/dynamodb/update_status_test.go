package dynamodb

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/topup-webhook-bridge/pkg/models"
	"github.com/chris/topup-webhook-bridge/pkg/storage"
	"github.com/chris/topup-webhook-bridge/pkg/storage/dynamodb/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestUpdateTransactionStatus(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := &Store{Client: mockClient, TransactionsTableName: "transactions"}

		mockClient.On("UpdateItem", mock.Anything, mock.MatchedBy(func(in *dynamodb.UpdateItemInput) bool {
			from := in.ExpressionAttributeValues[":from_status"].(*types.AttributeValueMemberS)
			to := in.ExpressionAttributeValues[":to_status"].(*types.AttributeValueMemberS)
			return from.Value == "PENDING" && to.Value == "FAILED"
		})).Return(&dynamodb.UpdateItemOutput{}, nil).Once()

		err := store.UpdateTransactionStatus(context.Background(), "A2", models.PENDING, models.FAILED)

		assert.NoError(t, err)
		mockClient.AssertExpectations(t)
	})

	t.Run("Status Moved", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := &Store{Client: mockClient, TransactionsTableName: "transactions"}

		oldItem := map[string]types.AttributeValue{
			"order_id": &types.AttributeValueMemberS{Value: "A2"},
			"status":   &types.AttributeValueMemberS{Value: "SUCCESS"},
		}
		mockClient.On("UpdateItem", mock.Anything, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{Item: oldItem})

		err := store.UpdateTransactionStatus(context.Background(), "A2", models.PENDING, models.FAILED)

		assert.ErrorIs(t, err, storage.ErrStatusConflict)
		mockClient.AssertExpectations(t)
	})

	t.Run("Not Found", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := &Store{Client: mockClient, TransactionsTableName: "transactions"}

		mockClient.On("UpdateItem", mock.Anything, mock.Anything).Return(nil, &types.ConditionalCheckFailedException{})

		err := store.UpdateTransactionStatus(context.Background(), "missing", models.PENDING, models.FAILED)

		assert.ErrorIs(t, err, storage.ErrNotFound)
		mockClient.AssertExpectations(t)
	})

	t.Run("Update Fails", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := &Store{Client: mockClient, TransactionsTableName: "transactions"}

		mockClient.On("UpdateItem", mock.Anything, mock.Anything).Return(nil, errors.New("throttled"))

		err := store.UpdateTransactionStatus(context.Background(), "A2", models.PENDING, models.CHALLENGE)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to update transaction status to CHALLENGE")
		mockClient.AssertExpectations(t)
	})
}
