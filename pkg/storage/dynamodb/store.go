package dynamodb

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/topup-webhook-bridge/pkg/storage"
)

// DynamoDBAPI is the subset of the DynamoDB client used by the store.
type DynamoDBAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// Store implements the Storage interface using AWS DynamoDB.
type Store struct {
	Client                DynamoDBAPI
	TransactionsTableName string
	BalancesTableName     string
	LedgerTableName       string

	// RequireExistingBalance makes a credit fail with storage.ErrUserNotFound
	// instead of creating the balance record on first credit.
	RequireExistingBalance bool
}

// New creates a new Store.
func New(client DynamoDBAPI, transactionsTable, balancesTable, ledgerTable string) *Store {
	return &Store{
		Client:                client,
		TransactionsTableName: transactionsTable,
		BalancesTableName:     balancesTable,
		LedgerTableName:       ledgerTable,
	}
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)

const (
	statusCreatedAtIndex = "status-created_at-index"
	userIDIndex          = "user_id-index"
	ledgerGSI            = "gsi1pk-timestamp-index"
	conditionalCheck     = "ConditionalCheckFailed"
)

// timeLayout is a fixed-width UTC layout so that string comparisons on
// created_at order the same way the instants do.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func encodeTime(t time.Time) (types.AttributeValue, error) {
	return &types.AttributeValueMemberS{Value: t.UTC().Format(timeLayout)}, nil
}

func withTimeLayout(o *attributevalue.EncoderOptions) {
	o.EncodeTime = encodeTime
}

func marshal(in interface{}) (types.AttributeValue, error) {
	return attributevalue.MarshalWithOptions(in, withTimeLayout)
}

func marshalMap(in interface{}) (map[string]types.AttributeValue, error) {
	return attributevalue.MarshalMapWithOptions(in, withTimeLayout)
}
