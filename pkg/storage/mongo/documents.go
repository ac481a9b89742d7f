package mongo

import (
	"fmt"
	"time"

	"github.com/chris/topup-webhook-bridge/pkg/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type transactionDoc struct {
	OrderID      string               `bson:"_id"`
	UserID       string               `bson:"user_id"`
	UserName     string               `bson:"user_name,omitempty"`
	Amount       primitive.Decimal128 `bson:"amount"`
	Type         string               `bson:"type"`
	Status       string               `bson:"status"`
	GatewayToken string               `bson:"gateway_token"`
	CreatedAt    time.Time            `bson:"created_at"`
	UpdatedAt    time.Time            `bson:"updated_at"`
}

type balanceDoc struct {
	UserID    string               `bson:"_id"`
	Balance   primitive.Decimal128 `bson:"balance"`
	Version   int64                `bson:"version"`
	CreatedAt time.Time            `bson:"created_at"`
	UpdatedAt time.Time            `bson:"updated_at"`
}

type ledgerDoc struct {
	EntryID       string               `bson:"_id"`
	TransactionID string               `bson:"transaction_id"`
	AccountID     string               `bson:"account_id"`
	Debit         primitive.Decimal128 `bson:"debit"`
	Credit        primitive.Decimal128 `bson:"credit"`
	Description   string               `bson:"description"`
	Timestamp     time.Time            `bson:"timestamp"`
}

func toDecimal128(m models.Money) (primitive.Decimal128, error) {
	d, err := primitive.ParseDecimal128(m.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("failed to convert amount %s: %w", m.String(), err)
	}
	return d, nil
}

func fromDecimal128(d primitive.Decimal128) (models.Money, error) {
	return models.ParseMoney(d.String())
}

func toTransactionDoc(tx *models.Transaction) (*transactionDoc, error) {
	amount, err := toDecimal128(tx.Amount)
	if err != nil {
		return nil, err
	}
	return &transactionDoc{
		OrderID:      tx.OrderId,
		UserID:       tx.UserId,
		UserName:     tx.UserName,
		Amount:       amount,
		Type:         string(tx.Type),
		Status:       string(tx.Status),
		GatewayToken: tx.GatewayToken,
		CreatedAt:    tx.CreatedAt,
		UpdatedAt:    tx.UpdatedAt,
	}, nil
}

func (d *transactionDoc) model() (models.Transaction, error) {
	amount, err := fromDecimal128(d.Amount)
	if err != nil {
		return models.Transaction{}, err
	}
	return models.Transaction{
		OrderId:      d.OrderID,
		UserId:       d.UserID,
		UserName:     d.UserName,
		Amount:       amount,
		Type:         models.TransactionType(d.Type),
		Status:       models.TransactionStatus(d.Status),
		GatewayToken: d.GatewayToken,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}, nil
}

func (d *balanceDoc) model() (models.Balance, error) {
	balance, err := fromDecimal128(d.Balance)
	if err != nil {
		return models.Balance{}, err
	}
	return models.Balance{
		UserId:    d.UserID,
		Balance:   balance,
		Version:   d.Version,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}, nil
}

func toLedgerDoc(e models.LedgerEntry) (*ledgerDoc, error) {
	debit, err := toDecimal128(e.Debit)
	if err != nil {
		return nil, err
	}
	credit, err := toDecimal128(e.Credit)
	if err != nil {
		return nil, err
	}
	return &ledgerDoc{
		EntryID:       e.EntryID,
		TransactionID: e.TransactionID,
		AccountID:     e.AccountID,
		Debit:         debit,
		Credit:        credit,
		Description:   e.Description,
		Timestamp:     e.Timestamp,
	}, nil
}

func (d *ledgerDoc) model() (models.LedgerEntry, error) {
	debit, err := fromDecimal128(d.Debit)
	if err != nil {
		return models.LedgerEntry{}, err
	}
	credit, err := fromDecimal128(d.Credit)
	if err != nil {
		return models.LedgerEntry{}, err
	}
	return models.LedgerEntry{
		EntryID:       d.EntryID,
		TransactionID: d.TransactionID,
		AccountID:     d.AccountID,
		Debit:         debit,
		Credit:        credit,
		Description:   d.Description,
		Timestamp:     d.Timestamp,
	}, nil
}
