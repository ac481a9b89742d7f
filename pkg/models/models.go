package models

import (
	"time"
)

// TransactionStatus defines the possible states of a top-up transaction.
type TransactionStatus string

const (
	PENDING   TransactionStatus = "PENDING"
	CHALLENGE TransactionStatus = "CHALLENGE"
	SUCCESS   TransactionStatus = "SUCCESS"
	FAILED    TransactionStatus = "FAILED"
)

// IsTerminal reports whether no further transition may leave this status.
func (s TransactionStatus) IsTerminal() bool {
	return s == SUCCESS || s == FAILED
}

// TransactionType tags what a transaction is for.
type TransactionType string

const TopUp TransactionType = "TOP UP"

// Transaction represents the internal domain model for a top-up transaction.
// It includes dynamodbav tags for marshalling.
type Transaction struct {
	OrderId      string            `dynamodbav:"order_id"`
	UserId       string            `dynamodbav:"user_id"`
	UserName     string            `dynamodbav:"user_name,omitempty"`
	Amount       Money             `dynamodbav:"amount"`
	Type         TransactionType   `dynamodbav:"type"`
	Status       TransactionStatus `dynamodbav:"status"`
	GatewayToken string            `dynamodbav:"gateway_token"`
	CreatedAt    time.Time         `dynamodbav:"created_at"`
	UpdatedAt    time.Time         `dynamodbav:"updated_at"`
}

// Balance represents a user's spendable balance.
// A user without a stored balance has a balance of zero.
type Balance struct {
	UserId    string    `dynamodbav:"user_id"`
	Balance   Money     `dynamodbav:"balance"`
	Version   int64     `dynamodbav:"version"`
	CreatedAt time.Time `dynamodbav:"created_at"`
	UpdatedAt time.Time `dynamodbav:"updated_at"`
}

// GatewayAccount is the clearing account debited for every top-up credit.
const GatewayAccount = "GATEWAY:midtrans"

// LedgerEntry represents a single entry in the double-entry ledger.
type LedgerEntry struct {
	EntryID       string    `dynamodbav:"entry_id"`
	TransactionID string    `dynamodbav:"transaction_id"`
	AccountID     string    `dynamodbav:"account_id"`
	Debit         Money     `dynamodbav:"debit"`
	Credit        Money     `dynamodbav:"credit"`
	Description   string    `dynamodbav:"description"`
	Timestamp     time.Time `dynamodbav:"timestamp"`
	GSI1PK        string    `dynamodbav:"gsi1pk"`
}
